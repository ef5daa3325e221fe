// Package config holds the settings of a conversion run.
package config

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Defaults of the GeoLite2 CSV distribution and the xt_geoip module.
const (
	DefaultCountryFile = "GeoLite2-Country-Locations-en.csv"
	DefaultIPv4File    = "GeoLite2-Country-Blocks-IPv4.csv"
	DefaultIPv6File    = "GeoLite2-Country-Blocks-IPv6.csv"
	DefaultTargetDir   = "/usr/share/xt_geoip"
	DefaultLogLevel    = "warn"
)

var (
	ErrConflictingFilters = errors.New("allow and forbid country lists are mutually exclusive")
	ErrMissingSetting     = errors.New("required setting is empty")
	ErrInvalidSetting     = errors.New("invalid setting")
	ErrReadFailed         = errors.New("error reading configuration")
)

// Main is the top level configuration.
type Main struct {
	CountryFile string `yaml:"countryFile"`
	// An empty range feed disables its address family.
	IPv4File  string `yaml:"ipv4File"`
	IPv6File  string `yaml:"ipv6File"`
	TargetDir string `yaml:"targetDir"`

	// Comma separated country codes. At most one of them may be set.
	AllowCountries  string `yaml:"allowCountries"`
	ForbidCountries string `yaml:"forbidCountries"`

	NoVirtualCountries bool `yaml:"noVirtualCountries"`

	MaxLineLength int `yaml:"maxLineLength"`

	Verbose    bool   `yaml:"verbose"`
	LogLevel   string `yaml:"logLevel"`
	ReportFile string `yaml:"reportFile"`
}

// Default returns the configuration of a run without any settings.
func Default() Main {
	return Main{
		CountryFile: DefaultCountryFile,
		IPv4File:    DefaultIPv4File,
		IPv6File:    DefaultIPv6File,
		TargetDir:   DefaultTargetDir,
		LogLevel:    DefaultLogLevel,
	}
}

// FileSystem reads configuration files.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// Load reads a YAML configuration file. Settings missing from the file keep their defaults.
func Load(fs FileSystem, path string) (Main, error) {
	cfg := Default()

	data, err := fs.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(ErrReadFailed, "%s: %v", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(ErrInvalidSetting, "%s: %v", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for contradictions and missing settings.
func (c Main) Validate() error {
	if c.AllowCountries != "" && c.ForbidCountries != "" {
		return ErrConflictingFilters
	}
	if c.CountryFile == "" {
		return errors.Wrap(ErrMissingSetting, "countryFile")
	}
	if c.TargetDir == "" {
		return errors.Wrap(ErrMissingSetting, "targetDir")
	}
	if c.IPv4File == "" && c.IPv6File == "" {
		return errors.Wrap(ErrMissingSetting, "ipv4File and ipv6File")
	}
	if c.MaxLineLength < 0 {
		return errors.Wrapf(ErrInvalidSetting, "maxLineLength %d", c.MaxLineLength)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Filter returns the country list to filter by and whether it forbids the
// listed countries. ok is false when no filtering is configured.
func (c Main) Filter() (codes string, forbid bool, ok bool) {
	switch {
	case c.ForbidCountries != "":
		return c.ForbidCountries, true, true
	case c.AllowCountries != "":
		return c.AllowCountries, false, true
	}
	return "", false, false
}

// Level returns the log level. Verbose runs log at least at info level.
func (c Main) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(ErrInvalidSetting, "logLevel %q", c.LogLevel)
	}
	if c.Verbose && level > zerolog.InfoLevel {
		level = zerolog.InfoLevel
	}
	return level, nil
}
