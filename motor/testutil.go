package motor

import (
	"encoding/json"
	"fmt"
)

// FixtureRecord describes a country record for test documents.
type FixtureRecord struct {
	ISO2         string
	ISO3         string
	Name         string
	Root         string
	Suffixes     []string
	AltSpellings []string
	Natives      [][3]string // lang, official, common
	Translations [][3]string
	Timezones    []string
}

// FixtureDocument renders records in the country directory shape.
func FixtureDocument(records ...FixtureRecord) ([]byte, error) {
	docs := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		idd := map[string]interface{}{}
		if r.Root != "" {
			idd["root"] = r.Root
			idd["suffixes"] = r.Suffixes
		}
		docs = append(docs, map[string]interface{}{
			"cca2": r.ISO2,
			"cca3": r.ISO3,
			"name": map[string]interface{}{
				"common":     r.Name,
				"official":   r.Name,
				"nativeName": orderedPairs(r.Natives),
			},
			"altSpellings": r.AltSpellings,
			"translations": orderedPairs(r.Translations),
			"idd":          idd,
			"flags": map[string]string{
				"svg": fmt.Sprintf("https://flags.test/%s.svg", r.ISO2),
			},
			"timezones": r.Timezones,
		})
	}
	return json.Marshal(docs)
}

// orderedPairs keeps the given order when marshalled, unlike a map.
type orderedPairs [][3]string

func (p orderedPairs) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, pair := range p {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(pair[0])
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(map[string]string{"official": pair[1], "common": pair[2]})
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}
	return append(buf, '}'), nil
}

// SwitzerlandFixture is the record the search and locate tests revolve around.
var SwitzerlandFixture = FixtureRecord{
	ISO2: "CH", ISO3: "CHE", Name: "Switzerland",
	Root:         "+41",
	AltSpellings: []string{"CH", "Swiss Confederation", "Schweiz", "Suisse", "Svizzera", "Svizra"},
	Natives: [][3]string{
		{"fra", "Confédération suisse", "Suisse"},
		{"gsw", "Schweizerische Eidgenossenschaft", "Schweiz"},
	},
	Translations: [][3]string{
		{"deu", "Schweizerische Eidgenossenschaft", "Schweiz"},
		{"hrv", "Švicarska Konfederacija", "Švicarska"},
	},
	Timezones: []string{"UTC+01:00"},
}

// ItalyFixture dials +39 through a root/suffix split.
var ItalyFixture = FixtureRecord{
	ISO2: "IT", ISO3: "ITA", Name: "Italy",
	Root:         "+3",
	Suffixes:     []string{"9"},
	AltSpellings: []string{"IT", "Italian Republic"},
	Natives:      [][3]string{{"ita", "Repubblica italiana", "Italia"}},
	Translations: [][3]string{{"deu", "Italienische Republik", "Italien"}},
	Timezones:    []string{"UTC+01:00"},
}

// AntarcticaFixture has no dialing prefix and is never selectable.
var AntarcticaFixture = FixtureRecord{
	ISO2: "AQ", ISO3: "ATA", Name: "Antarctica",
	AltSpellings: []string{"AQ"},
	Timezones:    []string{"UTC+03:00"},
}

// FixtureCountries decodes records through the production decoder.
func FixtureCountries(records ...FixtureRecord) ([]Country, error) {
	doc, err := FixtureDocument(records...)
	if err != nil {
		return nil, err
	}
	return decodeBytes(doc)
}
