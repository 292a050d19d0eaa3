package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := ParseOptions([]byte("{}\n"), "jvmstatic.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.SyntheticBase != SyntheticBase {
		t.Errorf("synthetic_base = %d, want %d", opts.SyntheticBase, SyntheticBase)
	}
	if opts.TempBase != SyntheticBase {
		t.Errorf("temp_base = %d, want %d", opts.TempBase, SyntheticBase)
	}
	if opts.Color != ColorAuto {
		t.Errorf("color = %q, want auto", opts.Color)
	}
	if opts.Verbose || opts.Jobs != 0 {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestParseOptions_Empty(t *testing.T) {
	opts, err := ParseOptions(nil, "jvmstatic.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *opts != *DefaultOptions() {
		t.Errorf("options = %+v", *opts)
	}
}

func TestParseOptions_Valid(t *testing.T) {
	yaml := `
synthetic_base: 100
temp_base: 7
verbose: true
color: never
jobs: 4
`
	opts, err := ParseOptions([]byte(yaml), "jvmstatic.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Options{SyntheticBase: 100, TempBase: 7, Verbose: true, Color: ColorNever, Jobs: 4}
	if *opts != want {
		t.Errorf("options = %+v, want %+v", *opts, want)
	}
}

func TestParseOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"negative synthetic base", "synthetic_base: -1\n", "synthetic_base"},
		{"negative temp base", "temp_base: -5\n", "temp_base"},
		{"negative jobs", "jobs: -2\n", "jobs"},
		{"unknown colour", "color: rainbow\n", "color"},
		{"bad yaml", "synthetic_base: [1\n", "parsing"},
		{"misspelt key", "synthetc_base: 10\n", "synthetc_base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions([]byte(tt.yaml), "jvmstatic.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) || !strings.Contains(err.Error(), "jvmstatic.yaml") {
				t.Errorf("error = %v, want mention of %q and the file", err, tt.want)
			}
		})
	}
}

func TestFindOptions(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, OptionsFileName)
	if err := os.WriteFile(path, []byte("jobs: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := FindOptions(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != path {
		t.Errorf("found %q, want %q", found, path)
	}

	opts, err := LoadOptions(found)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Jobs != 3 {
		t.Errorf("jobs = %d, want 3", opts.Jobs)
	}
}

func TestLoadOptions_Missing(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), OptionsFileName))
	if err == nil || !strings.Contains(err.Error(), "reading options") {
		t.Errorf("error = %v", err)
	}
}

func TestHasUnitExt(t *testing.T) {
	tests := map[string]bool{
		"counter.unit.yaml": true,
		"counter.unit.yml":  true,
		"jvmstatic.yaml":    false,
		"counter.unit":      false,
	}
	for path, want := range tests {
		if got := HasUnitExt(path); got != want {
			t.Errorf("HasUnitExt(%q) = %v, want %v", path, got, want)
		}
	}
}
