// Package config loads the tzconv configuration file. The format follows
// the file extension: .yaml and .yml are YAML, anything else is TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ngrash/go-localtime/internal/logging"
	"github.com/ngrash/go-localtime/zone"
	"github.com/ngrash/go-localtime/zoneinfo"
)

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Config is the tzconv configuration.
type Config struct {
	// ZoneDirs are searched in order for zone files.
	ZoneDirs []string `toml:"zone_dirs" yaml:"zone_dirs"`
	// Local names the local zone. Empty means the TZ environment variable.
	Local string `toml:"local" yaml:"local"`

	LogLevel  string         `toml:"log_level" yaml:"log_level"`
	LogFormat logging.Format `toml:"log_format" yaml:"log_format"`

	// TimeBits is the host instant width, 32 or 64. Unsigned selects an
	// unsigned 32-bit host.
	TimeBits int  `toml:"time_bits" yaml:"time_bits"`
	Unsigned bool `toml:"unsigned" yaml:"unsigned"`
}

// Default returns the configuration used without a file.
func Default() Config {
	return Config{
		ZoneDirs:  append([]string(nil), zoneinfo.DefaultDirs...),
		LogLevel:  "warn",
		LogFormat: logging.FormatConsole,
		TimeBits:  64,
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(b, DetectFormat(path))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte, format Format) (Config, error) {
	c := Default()
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return Config{}, fmt.Errorf("TOML parse error: %w", err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return Config{}, fmt.Errorf("unknown keys: %v", undec)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported format: %s", format)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if len(c.ZoneDirs) == 0 {
		errs = append(errs, errors.New("zone_dirs must not be empty"))
	}
	for _, d := range c.ZoneDirs {
		if !filepath.IsAbs(d) {
			errs = append(errs, fmt.Errorf("zone_dirs: %q is not absolute", d))
		}
	}
	switch c.TimeBits {
	case 32:
	case 64:
		if c.Unsigned {
			errs = append(errs, errors.New("unsigned requires time_bits = 32"))
		}
	default:
		errs = append(errs, fmt.Errorf("time_bits must be 32 or 64, got %d", c.TimeBits))
	}
	switch c.LogFormat {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log_format must be %q or %q, got %q", logging.FormatConsole, logging.FormatJSON, c.LogFormat))
	}
	return errors.Join(errs...)
}

// Range is the host instant range the configuration describes.
func (c Config) Range() zone.Range {
	switch {
	case c.TimeBits == 32 && c.Unsigned:
		return zone.RangeUint32
	case c.TimeBits == 32:
		return zone.Range32
	default:
		return zone.Range64
	}
}

// Resolver searches ZoneDirs.
func (c Config) Resolver() zoneinfo.DirResolver {
	return zoneinfo.DirResolver{Dirs: c.ZoneDirs}
}
