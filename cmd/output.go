package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pb33f/dialpick/motor"
	"github.com/pb33f/dialpick/tui"
)

const (
	formatEnv   = "env"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
	formatText  = "text"

	envPrefix = "DIALPICK_"
)

func parseFormat(value string, allowed ...string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (expected %s)", value, strings.Join(allowed, ", "))
}

func parseSelectionFormat(value string) (string, error) {
	return parseFormat(value, formatEnv, formatJSON, formatYAML)
}

// writeSelection prints the committed selection. The env format is meant for
// eval in a POSIX shell.
func writeSelection(w io.Writer, sel tui.Selection, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, sel)
	case formatYAML:
		return writeYAML(w, sel)
	default:
		vars := [][2]string{
			{"ISO2", sel.ISO2},
			{"PREFIX", sel.Prefix},
			{"TIMEZONE", sel.Timezone},
		}
		for _, v := range vars {
			if _, err := fmt.Fprintf(w, "%s%s=%s\n", envPrefix, v[0], shellQuote(v[1])); err != nil {
				return err
			}
		}
		return nil
	}
}

// shellQuote single-quotes s unless it is made of characters a shell leaves
// alone.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("+-_./:", r):
		default:
			safe = false
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// countryOutput is the serialized form of a country.
type countryOutput struct {
	ISO2      string   `json:"iso2" yaml:"iso2"`
	ISO3      string   `json:"iso3,omitempty" yaml:"iso3,omitempty"`
	Name      string   `json:"name" yaml:"name"`
	Official  string   `json:"officialName,omitempty" yaml:"officialName,omitempty"`
	Prefix    string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Flag      string   `json:"flag" yaml:"flag"`
	FlagURL   string   `json:"flagURL,omitempty" yaml:"flagURL,omitempty"`
	Timezones []string `json:"timezones,omitempty" yaml:"timezones,omitempty"`
}

func toCountryOutput(countries []motor.Country) []countryOutput {
	out := make([]countryOutput, 0, len(countries))
	for i := range countries {
		c := &countries[i]
		out = append(out, countryOutput{
			ISO2:      c.ISO2,
			ISO3:      c.ISO3,
			Name:      c.CommonName,
			Official:  c.OfficialName,
			Prefix:    c.PhonePrefix,
			Flag:      c.Flag(),
			FlagURL:   c.FlagURL,
			Timezones: c.Timezones,
		})
	}
	return out
}

func writeCountries(w io.Writer, countries []motor.Country, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, toCountryOutput(countries))
	case formatYAML:
		return writeYAML(w, toCountryOutput(countries))
	default:
		if len(countries) == 0 {
			_, err := fmt.Fprintln(w, "no matching countries")
			return err
		}
		_, err := fmt.Fprintln(w, tui.RenderCountryTable(countries))
		return err
	}
}

func writeLocation(w io.Writer, loc motor.Location, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, loc)
	case formatYAML:
		return writeYAML(w, loc)
	default:
		line := loc.CountryCode
		if loc.CountryName != "" {
			line += " " + loc.CountryName
		}
		if loc.Timezone != "" {
			line += " " + loc.Timezone
		}
		_, err := fmt.Fprintf(w, "%s (via %s)\n", line, loc.Source)
		return err
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
