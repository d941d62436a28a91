// Package config loads the dialpick YAML configuration. Values are layered:
// the embedded defaults, then an optional file, then command-line flags.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pb33f/dialpick/motor"
	"github.com/pb33f/dialpick/tui"
)

//go:embed default.yaml
var embeddedDefault []byte

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefault...)
}

// Default decodes the embedded configuration.
func Default() (Config, error) {
	var cfg Config
	if err := decode(embeddedDefault, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults overlaid with the file at path. An empty path
// tries DefaultPath and silently skips it when it does not exist.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath is $XDG_CONFIG_HOME/dialpick/config.yaml, or the platform user
// config directory equivalent.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "dialpick", "config.yaml")
}

// decode overlays data onto cfg. Keys absent from data keep their current
// values; lists present in data replace the current list.
func decode(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Sources.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("sources.timeout must be positive, got %s", c.Sources.Timeout))
	}

	if len(c.Geolocation.Services) == 0 {
		errs = append(errs, errors.New("geolocation.services must list at least one service"))
	}
	for i, svc := range c.Geolocation.Services {
		if strings.TrimSpace(svc.URL) == "" {
			errs = append(errs, fmt.Errorf("geolocation.services[%d] (%s) has no url", i, svc.Name))
		}
	}

	if !isCountryCode(c.Geolocation.Default.CountryCode) {
		errs = append(errs, fmt.Errorf("geolocation.default.countryCode must be two letters, got %q", c.Geolocation.Default.CountryCode))
	}

	if _, err := tui.ParseLocateMode(c.Picker.LocateMode); err != nil {
		errs = append(errs, fmt.Errorf("picker.locateMode: %w", err))
	}
	if c.Picker.ListHeight <= 0 {
		errs = append(errs, fmt.Errorf("picker.listHeight must be positive, got %d", c.Picker.ListHeight))
	}

	return errors.Join(errs...)
}

func isCountryCode(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// DataSourceOptions converts the sources and geolocation sections.
func (c *Config) DataSourceOptions() motor.DataSourceOptions {
	services := make([]motor.GeoService, 0, len(c.Geolocation.Services))
	for _, svc := range c.Geolocation.Services {
		name := svc.Name
		if name == "" {
			name = svc.URL
		}
		services = append(services, motor.GeoService{
			Source:        motor.Source{Name: name, URL: svc.URL},
			CountryField:  svc.CountryField,
			TimezoneField: svc.TimezoneField,
		})
	}

	return motor.DataSourceOptions{
		CountriesURL:    c.Sources.CountriesURL,
		LocalPath:       c.Sources.LocalPath,
		Timeout:         c.Sources.Timeout,
		GeoServices:     services,
		RequireTimezone: c.Geolocation.RequireTimezone,
		DefaultLocation: motor.Location{
			CountryCode: strings.ToUpper(strings.TrimSpace(c.Geolocation.Default.CountryCode)),
			CountryName: c.Geolocation.Default.CountryName,
			Timezone:    c.Geolocation.Default.Timezone,
		},
	}
}

// PickerOptions converts the picker section. Call Validate first; an unknown
// locate mode falls back to commit.
func (c *Config) PickerOptions() tui.PickerOptions {
	mode, err := tui.ParseLocateMode(c.Picker.LocateMode)
	if err != nil {
		mode = tui.LocateCommit
	}
	return tui.PickerOptions{
		Locale:        c.Picker.Locale,
		LocateMode:    mode,
		TrackTimezone: c.Picker.TrackTimezone,
		ListHeight:    c.Picker.ListHeight,
	}
}
