// Package config holds the CLI configuration and optional YAML scan
// profiles, so recurring scans can live in a checked-in file instead of a
// shell history entry.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lanyi1998/dirsearch/pkg/defaults"
)

// Duration is a time.Duration that reads from YAML strings like "500ms" and
// doubles as a flag.Value, so profiles and command-line flags share one
// representation.
type Duration time.Duration

// Std converts back to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Set implements flag.Value.
func (d *Duration) Set(s string) error {
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML accepts either a duration string or raw nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		return d.Set(s)
	}
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(n)
		return nil
	}
	return fmt.Errorf("invalid duration %q", value.Value)
}

// MarshalYAML writes the human-readable form.
func (d Duration) MarshalYAML() (interface{}, error) { return d.String(), nil }

// Config holds all CLI configuration options.
type Config struct {
	// Target settings
	TargetURL string   `yaml:"target"`
	Wordlist  string   `yaml:"wordlist"`
	Headers   []string `yaml:"headers"`
	Proxy     string   `yaml:"proxy"`

	// Candidate shaping
	Extensions []string `yaml:"extensions"`
	Prefixes   []string `yaml:"prefixes"`
	Suffixes   []string `yaml:"suffixes"`

	// Wildcard calibration
	ExcludeContent string `yaml:"exclude_content"`

	// Execution settings
	Threads int      `yaml:"threads"`
	Delay   Duration `yaml:"delay"`
	MaxRate int      `yaml:"max_rate"`
	Timeout Duration `yaml:"timeout"`

	// Output settings
	ReportFile  string `yaml:"report"`
	MetricsAddr string `yaml:"metrics_addr"`
	NoColor     bool   `yaml:"no_color"`
	Quiet       bool   `yaml:"quiet"`
}

// Default returns a Config with the standard scan defaults applied.
func Default() *Config {
	return &Config{
		Wordlist: "builtin:common-dirs",
		Threads:  defaults.ThreadsMedium,
		Timeout:  Duration(defaults.RequestTimeout),
	}
}

// LoadProfile reads a YAML scan profile and overlays it on the defaults.
func LoadProfile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can actually drive a scan.
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("target URL is required")
	}
	if c.Threads < 0 {
		return fmt.Errorf("threads must be >= 0, got %d", c.Threads)
	}
	if c.MaxRate < 0 {
		return fmt.Errorf("max-rate must be >= 0, got %d", c.MaxRate)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must be >= 0, got %v", c.Delay)
	}
	return nil
}
