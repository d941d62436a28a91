package config

import "time"

// Config is the full dialpick configuration.
type Config struct {
	Sources     Sources     `yaml:"sources"`
	Geolocation Geolocation `yaml:"geolocation"`
	Picker      Picker      `yaml:"picker"`
}

// Sources configures where the country directory comes from.
type Sources struct {
	CountriesURL string        `yaml:"countriesURL"`
	LocalPath    string        `yaml:"localPath"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Geolocation configures the location chain.
type Geolocation struct {
	RequireTimezone bool           `yaml:"requireTimezone"`
	Services        []Service      `yaml:"services"`
	Default         DefaultCountry `yaml:"default"`
}

// Service is one geolocation endpoint. CountryField and TimezoneField default
// to country_code and timezone.
type Service struct {
	Name          string `yaml:"name"`
	URL           string `yaml:"url"`
	CountryField  string `yaml:"countryField,omitempty"`
	TimezoneField string `yaml:"timezoneField,omitempty"`
}

// DefaultCountry is used when every service fails.
type DefaultCountry struct {
	CountryCode string `yaml:"countryCode"`
	CountryName string `yaml:"countryName"`
	Timezone    string `yaml:"timezone"`
}

// Picker configures the combobox.
type Picker struct {
	Locale        string `yaml:"locale"`
	LocateMode    string `yaml:"locateMode"`
	TrackTimezone bool   `yaml:"trackTimezone"`
	ListHeight    int    `yaml:"listHeight"`
}
