package motor

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SearchIndex holds one lowercase search entry per country, aligned with the
// slice it was built from.
type SearchIndex struct {
	entries     []string
	fingerprint uint64
}

// BuildSearchIndex computes the search entries for countries. It must be
// rebuilt whenever the country slice changes.
func BuildSearchIndex(countries []Country) *SearchIndex {
	idx := &SearchIndex{
		entries: make([]string, len(countries)),
	}

	digest := xxhash.New()
	for i := range countries {
		entry := strings.ToLower(SearchLabel(&countries[i]))
		idx.entries[i] = entry
		_, _ = digest.WriteString(entry)
		_, _ = digest.WriteString("\x00")
	}
	idx.fingerprint = digest.Sum64()

	return idx
}

// SearchLabel concatenates every searchable field of a country: codes, names,
// native names, prefix, alternative spellings and translations.
func SearchLabel(c *Country) string {
	parts := make([]string, 0, 6+len(c.AltSpellings))
	parts = append(parts,
		c.ISO2,
		c.ISO3,
		c.CommonName,
		joinNamePairs(c.NativeNames),
		c.PhonePrefix,
	)
	parts = append(parts, c.AltSpellings...)
	parts = append(parts, joinNamePairs(c.Translations))
	return strings.Join(parts, " ")
}

func joinNamePairs(pairs []NamePair) string {
	texts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		texts = append(texts, p.Official+" "+p.Common)
	}
	return strings.Join(texts, " ")
}

// Len returns the number of entries.
func (idx *SearchIndex) Len() int {
	return len(idx.entries)
}

// Entry returns the search entry at i.
func (idx *SearchIndex) Entry(i int) string {
	return idx.entries[i]
}

// Fingerprint is an xxhash of every entry; two indexes with the same
// fingerprint were built from the same searchable content.
func (idx *SearchIndex) Fingerprint() uint64 {
	return idx.fingerprint
}

// Filter returns the indices of the entries matching query, in index order.
// An empty or whitespace-only query matches everything.
func (idx *SearchIndex) Filter(query string, mode SearchMode) ([]int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		all := make([]int, len(idx.entries))
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	pattern, err := compilePattern(query, mode)
	if err != nil {
		return nil, err
	}

	found := make([]int, 0, 16)
	for i, entry := range idx.entries {
		if matches(entry, pattern) {
			found = append(found, i)
		}
	}
	return found, nil
}

// NextWithPrefix scans positions of candidates cyclically, starting just after
// position from, and returns the first position whose entry starts with
// letter (case-insensitive). from < 0 starts the scan at position 0. It
// returns -1 when nothing matches.
func (idx *SearchIndex) NextWithPrefix(candidates []int, letter rune, from int) int {
	n := len(candidates)
	if n == 0 {
		return -1
	}

	if from < 0 {
		from = -1
	}
	prefix := strings.ToLower(string(letter))

	for step := 1; step <= n; step++ {
		pos := (from + step) % n
		if strings.HasPrefix(idx.entries[candidates[pos]], prefix) {
			return pos
		}
	}
	return -1
}
