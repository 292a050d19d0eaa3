package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Options represents the jvmstatic.yaml configuration.
type Options struct {
	// SyntheticBase seeds the synthetic member id counter of every unit.
	// Defaults to SyntheticBase when omitted.
	SyntheticBase int `yaml:"synthetic_base,omitempty"`

	// TempBase seeds the temporary local-variable counter. Defaults to
	// SyntheticBase when omitted.
	TempBase int `yaml:"temp_base,omitempty"`

	// Verbose enables the type-resolution log (generic argument count
	// mismatches and other recoverable fallbacks).
	Verbose bool `yaml:"verbose,omitempty"`

	// Color controls diagnostic colouring: "auto" (terminals only),
	// "always" or "never". Defaults to "auto".
	Color string `yaml:"color,omitempty"`

	// Jobs limits how many unit files are compiled concurrently.
	// Zero means one job per unit file.
	Jobs int `yaml:"jobs,omitempty"`
}

// Colour modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultOptions returns options with every default applied.
func DefaultOptions() *Options {
	o := &Options{}
	o.setDefaults()
	return o
}

// LoadOptions reads the options file at path.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options %s: %w", path, err)
	}
	return ParseOptions(data, path)
}

// ParseOptions decodes options from data. Unknown keys are rejected so a
// misspelt setting does not silently fall back to its default. path only
// labels errors.
func ParseOptions(data []byte, path string) (*Options, error) {
	opts := &Options{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := opts.validate(path); err != nil {
		return nil, err
	}
	opts.setDefaults()
	return opts, nil
}

// FindOptions returns the OptionsFileName closest to dir, looking in dir
// and then in each parent. It returns "" when no directory up to the root
// has one.
func FindOptions(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for prev := ""; abs != prev; prev, abs = abs, filepath.Dir(abs) {
		candidate := filepath.Join(abs, OptionsFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", nil
}

// validate rejects negative counters and unknown colour modes. Zero
// values stand for the defaults.
func (o *Options) validate(path string) error {
	if o.SyntheticBase < 0 {
		return fmt.Errorf("%s: synthetic_base must not be negative, got %d", path, o.SyntheticBase)
	}
	if o.TempBase < 0 {
		return fmt.Errorf("%s: temp_base must not be negative, got %d", path, o.TempBase)
	}
	if o.Jobs < 0 {
		return fmt.Errorf("%s: jobs must not be negative, got %d", path, o.Jobs)
	}
	switch o.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color must be one of auto, always, never; got %q", path, o.Color)
	}
	return nil
}

func (o *Options) setDefaults() {
	if o.SyntheticBase == 0 {
		o.SyntheticBase = SyntheticBase
	}
	if o.TempBase == 0 {
		o.TempBase = SyntheticBase
	}
	if o.Color == "" {
		o.Color = ColorAuto
	}
}
