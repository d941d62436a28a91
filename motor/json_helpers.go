package motor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// countryDecoder is the token-level JSON decoder used for country documents.
// Object-valued fields such as nativeName and translations are walked token by
// token so the order of the source document survives decoding.
type countryDecoder interface {
	Token() (json.Token, error)
	Decode(v interface{}) error
	More() bool
}

func newCountryDecoder(r io.Reader) countryDecoder {
	return json.NewDecoder(r)
}

type rawNamePair struct {
	Official string `json:"official"`
	Common   string `json:"common"`
}

type rawCountry struct {
	CCA2 string `json:"cca2"`
	CCA3 string `json:"cca3"`
	Name struct {
		Common     string          `json:"common"`
		Official   string          `json:"official"`
		NativeName json.RawMessage `json:"nativeName"`
	} `json:"name"`
	AltSpellings []string        `json:"altSpellings"`
	Translations json.RawMessage `json:"translations"`
	IDD          struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
	Flags struct {
		SVG string `json:"svg"`
		PNG string `json:"png"`
	} `json:"flags"`
	Timezones []string `json:"timezones"`
}

// DecodeCountries decodes a country directory document: a JSON array of
// country records.
func DecodeCountries(r io.Reader) ([]Country, error) {
	decoder := newCountryDecoder(r)

	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("reading country document: %w", err)
	}
	if token != json.Delim('[') {
		return nil, fmt.Errorf("country document must be an array, got %v", token)
	}

	countries := make([]Country, 0, 256)
	for decoder.More() {
		var raw rawCountry
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding country %d: %w", len(countries), err)
		}
		country, err := raw.toCountry()
		if err != nil {
			return nil, fmt.Errorf("decoding country %q: %w", raw.CCA2, err)
		}
		countries = append(countries, country)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("reading end of country document: %w", err)
	}
	return countries, nil
}

func (raw *rawCountry) toCountry() (Country, error) {
	natives, err := decodeNamePairs(raw.Name.NativeName)
	if err != nil {
		return Country{}, fmt.Errorf("nativeName: %w", err)
	}
	translations, err := decodeNamePairs(raw.Translations)
	if err != nil {
		return Country{}, fmt.Errorf("translations: %w", err)
	}

	flag := raw.Flags.SVG
	if flag == "" {
		flag = raw.Flags.PNG
	}

	return Country{
		ISO2:         raw.CCA2,
		ISO3:         raw.CCA3,
		CommonName:   raw.Name.Common,
		OfficialName: raw.Name.Official,
		NativeNames:  natives,
		AltSpellings: raw.AltSpellings,
		Translations: translations,
		PhonePrefix:  PhonePrefix(raw.IDD.Root, raw.IDD.Suffixes),
		FlagURL:      flag,
		Timezones:    raw.Timezones,
	}, nil
}

// PhonePrefix joins the idd root with the first suffix. A missing root means
// the country has no dialing prefix.
func PhonePrefix(root string, suffixes []string) string {
	if root == "" {
		return ""
	}
	if len(suffixes) > 0 {
		return root + suffixes[0]
	}
	return root
}

// decodeNamePairs walks a {"lang": {"official": .., "common": ..}} object in
// document order. Absent or null objects decode to nil.
func decodeNamePairs(data json.RawMessage) ([]NamePair, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	decoder := newCountryDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if token != json.Delim('{') {
		return nil, fmt.Errorf("expected object, got %v", token)
	}

	var pairs []NamePair
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		lang, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyToken)
		}

		var value rawNamePair
		if err := decoder.Decode(&value); err != nil {
			return nil, fmt.Errorf("%s: %w", lang, err)
		}
		pairs = append(pairs, NamePair{Lang: lang, Official: value.Official, Common: value.Common})
	}

	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}

func decodeBytes(data []byte) ([]Country, error) {
	return DecodeCountries(bytes.NewReader(data))
}
