package motor

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortCountries returns the selectable countries ordered by common name using
// case-insensitive collation for locale. An unparseable locale falls back to
// the root collation.
func SortCountries(countries []Country, locale string) []Country {
	return sortByName(Selectable(countries), locale)
}

// SortAllCountries orders a copy of countries like SortCountries but keeps the
// records without a dialing prefix.
func SortAllCountries(countries []Country, locale string) []Country {
	return sortByName(append([]Country(nil), countries...), locale)
}

func sortByName(countries []Country, locale string) []Country {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	collator := collate.New(tag, collate.IgnoreCase)

	sort.SliceStable(countries, func(i, j int) bool {
		return collator.CompareString(countries[i].CommonName, countries[j].CommonName) < 0
	})
	return countries
}

// Selectable returns a copy of countries without the records that have no
// dialing prefix.
func Selectable(countries []Country) []Country {
	out := make([]Country, 0, len(countries))
	for i := range countries {
		if countries[i].Selectable() {
			out = append(out, countries[i])
		}
	}
	return out
}
