package motor

import (
	"strings"
	"time"
)

// NamePair is an official/common name pair keyed by a language code, as found in
// the nativeName and translations objects of a country record.
type NamePair struct {
	Lang     string
	Official string
	Common   string
}

// Country is a single record from the country directory. It is never modified
// after decoding.
type Country struct {
	ISO2         string
	ISO3         string
	CommonName   string
	OfficialName string
	NativeNames  []NamePair
	AltSpellings []string
	Translations []NamePair
	PhonePrefix  string
	FlagURL      string
	Timezones    []string
}

// Selectable reports whether the country has a dialing prefix and can be offered
// in the picker.
func (c *Country) Selectable() bool {
	return c.PhonePrefix != ""
}

// Flag renders the ISO2 code as a pair of regional indicator symbols, which most
// terminals display as the country flag.
func (c *Country) Flag() string {
	code := strings.ToUpper(c.ISO2)
	if len(code) != 2 {
		return "🏳"
	}
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "🏳"
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

// OptionID is the element id used for the option in accessibility state.
func (c *Country) OptionID() string {
	return "phone-option-" + strings.ToLower(c.ISO2)
}

// Location is the best-effort guess of where the user is.
type Location struct {
	CountryCode string `json:"countryCode" yaml:"countryCode"`
	CountryName string `json:"countryName,omitempty" yaml:"countryName,omitempty"`
	Timezone    string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Source      string `json:"source" yaml:"source"`
}

// IsDefault is true when every geolocation service failed.
func (l Location) IsDefault() bool {
	return l.Source == DefaultLocationSource
}

// DefaultLocationSource marks a Location that came from configuration rather
// than a service.
const DefaultLocationSource = "default"

// Source describes one HTTP endpoint in a fallback chain.
type Source struct {
	Name string
	URL  string
}

// GeoService is a geolocation endpoint plus the names of the fields it reports
// the country code and timezone in.
type GeoService struct {
	Source
	CountryField  string
	TimezoneField string
}

// DataSourceOptions configures a DataSource.
type DataSourceOptions struct {
	CountriesURL    string
	LocalPath       string // empty uses the bundled dataset
	Timeout         time.Duration
	GeoServices     []GeoService
	RequireTimezone bool
	DefaultLocation Location
}

// DefaultDataSourceOptions mirrors the embedded default configuration.
func DefaultDataSourceOptions() DataSourceOptions {
	return DataSourceOptions{
		CountriesURL: "https://restcountries.com/v3.1/all?fields=cca2,cca3,name,altSpellings,translations,idd,flags,timezones",
		Timeout:      5 * time.Second,
		GeoServices: []GeoService{
			{Source: Source{Name: "geojs", URL: "https://get.geojs.io/v1/ip/geo.json"}},
			{Source: Source{Name: "ipapi", URL: "https://ipapi.co/json/"}},
			{Source: Source{Name: "ipwhois", URL: "https://ipwhois.app/json/"}},
		},
		DefaultLocation: Location{
			CountryCode: "CH",
			CountryName: "Switzerland",
			Timezone:    "Europe/Zurich",
		},
	}
}

// ResolveStats records how the last resolution went.
type ResolveStats struct {
	CountrySource  string
	CountryCount   int
	CountryFetch   time.Duration
	LocationSource string
	LocationFetch  time.Duration
	Failures       int
}
