package motor

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureIndex(t *testing.T) ([]Country, *SearchIndex) {
	t.Helper()
	countries, err := FixtureCountries(SwitzerlandFixture, ItalyFixture, FixtureRecord{
		ISO2: "DE", ISO3: "DEU", Name: "Germany", Root: "+4", Suffixes: []string{"9"},
		AltSpellings: []string{"DE", "Deutschland"},
	})
	require.NoError(t, err)
	return countries, BuildSearchIndex(countries)
}

func TestSearchLabel_FieldOrder(t *testing.T) {
	countries, err := FixtureCountries(ItalyFixture)
	require.NoError(t, err)

	label := SearchLabel(&countries[0])
	assert.Equal(t,
		"IT ITA Italy Repubblica italiana Italia +39 IT Italian Republic Italienische Republik Italien",
		label)
}

func TestBuildSearchIndex_Lowercase(t *testing.T) {
	_, idx := fixtureIndex(t)
	require.Equal(t, 3, idx.Len())
	for i := 0; i < idx.Len(); i++ {
		assert.Equal(t, strings.ToLower(idx.Entry(i)), idx.Entry(i))
	}
	assert.True(t, strings.HasPrefix(idx.Entry(0), "ch che switzerland"))
}

func TestSearchIndex_Fingerprint(t *testing.T) {
	countries, idx := fixtureIndex(t)
	again := BuildSearchIndex(countries)
	assert.Equal(t, idx.Fingerprint(), again.Fingerprint())

	fewer := BuildSearchIndex(countries[:2])
	assert.NotEqual(t, idx.Fingerprint(), fewer.Fingerprint())
}

func TestSearchIndex_Filter_EmptyQueryRestoresAll(t *testing.T) {
	_, idx := fixtureIndex(t)

	for _, q := range []string{"", "   ", "\t"} {
		got, err := idx.Filter(q, PlainText)
		require.NoError(t, err)
		if diff := cmp.Diff([]int{0, 1, 2}, got); diff != "" {
			t.Errorf("query %q mismatch (-want +got):\n%s", q, diff)
		}
	}
}

func TestSearchIndex_Filter_Switzerland(t *testing.T) {
	_, idx := fixtureIndex(t)

	for _, q := range []string{"sui", "švi", "ŠVI", "Schweiz", " confédération "} {
		got, err := idx.Filter(q, PlainText)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, got, "query %q", q)
	}
}

func TestSearchIndex_Filter_SubsequenceAndSubstring(t *testing.T) {
	_, idx := fixtureIndex(t)

	for _, q := range []string{"+", "+4", "i", "re", "ger", "zzz"} {
		got, err := idx.Filter(q, PlainText)
		require.NoError(t, err)

		last := -1
		for _, i := range got {
			assert.Greater(t, i, last, "results must keep index order")
			last = i
			assert.Contains(t, idx.Entry(i), strings.ToLower(q))
		}
	}

	got, err := idx.Filter("+4", PlainText)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got)
}

func TestSearchIndex_Filter_Regex(t *testing.T) {
	_, idx := fixtureIndex(t)

	got, err := idx.Filter(`\+3\d`, Regex)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)

	_, err = idx.Filter(`(`, Regex)
	assert.Error(t, err)
}

func TestSearchIndex_NextWithPrefix(t *testing.T) {
	countries, err := FixtureCountries(
		FixtureRecord{ISO2: "CA", Name: "Canada", Root: "+1"},
		FixtureRecord{ISO2: "DE", Name: "Germany", Root: "+49"},
		FixtureRecord{ISO2: "CH", Name: "Switzerland", Root: "+41"},
		FixtureRecord{ISO2: "CN", Name: "China", Root: "+86"},
	)
	require.NoError(t, err)
	idx := BuildSearchIndex(countries)
	all := []int{0, 1, 2, 3}

	assert.Equal(t, 0, idx.NextWithPrefix(all, 'c', -1), "no focus scans from 0 inclusive")
	assert.Equal(t, 2, idx.NextWithPrefix(all, 'C', 0), "scan starts after the focus")
	assert.Equal(t, 3, idx.NextWithPrefix(all, 'c', 2))
	assert.Equal(t, 0, idx.NextWithPrefix(all, 'c', 3), "scan wraps around")
	assert.Equal(t, 1, idx.NextWithPrefix(all, 'd', 1), "a lone match is found again after a full cycle")
	assert.Equal(t, -1, idx.NextWithPrefix(all, 'z', 0))
	assert.Equal(t, -1, idx.NextWithPrefix(nil, 'c', -1))

	// positions are relative to the candidate list
	filtered := []int{1, 3}
	assert.Equal(t, 1, idx.NextWithPrefix(filtered, 'c', 0))
}
