package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pb33f/dialpick/motor"
)

func names(c *Combobox) []string {
	out := make([]string, 0, len(c.Filtered()))
	for _, idx := range c.Filtered() {
		out = append(out, c.Country(idx).CommonName)
	}
	return out
}

func TestCombobox_LoadSortsAndDropsUnselectable(t *testing.T) {
	c := loadedCombobox(t, nil)

	assert.True(t, c.Loaded())
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, []string{"Chad", "China", "Germany", "Italy", "Switzerland"}, names(c))
	assert.False(t, c.IsOpen())
	assert.Equal(t, noFocus, c.FocusPosition())
	_, ok := c.Selected()
	assert.False(t, ok)
}

func TestCombobox_SearchEmptyRestoresFullList(t *testing.T) {
	c := loadedCombobox(t, nil)
	full := append([]int(nil), c.Filtered()...)

	c.Search("ital")
	require.Len(t, c.Filtered(), 1)

	for _, q := range []string{"", "   ", "\t"} {
		c.Search(q)
		assert.Equal(t, full, c.Filtered(), "query %q", q)
	}
}

func TestCombobox_SearchFindsSwitzerland(t *testing.T) {
	c := loadedCombobox(t, nil)

	for _, q := range []string{"sui", "švi", "SUI", "Schweiz", "+41", "che"} {
		c.Search(q)
		assert.Contains(t, names(c), "Switzerland", "query %q", q)
	}

	c.Search("sui")
	assert.Equal(t, []string{"Switzerland"}, names(c))
	c.Search("švi")
	assert.Equal(t, []string{"Switzerland"}, names(c))
}

func TestCombobox_SearchIsOrderedSubsetOfSubstringMatches(t *testing.T) {
	c := loadedCombobox(t, nil)

	for _, q := range []string{"c", "ch", "republic", "+", "a", "zz", "it"} {
		c.Search(q)
		filtered := c.Filtered()

		var want []int
		for i := 0; i < c.Len(); i++ {
			if strings.Contains(strings.ToLower(motor.SearchLabel(c.Country(i))), strings.ToLower(q)) {
				want = append(want, i)
			}
		}
		assert.Equal(t, len(want), len(filtered), "query %q", q)
		for i := range filtered {
			assert.Equal(t, want[i], filtered[i], "query %q position %d", q, i)
		}
	}
}

func TestCombobox_SearchNoMatchIsEmptyNotError(t *testing.T) {
	c := loadedCombobox(t, nil)
	c.Search("atlantis")
	assert.Empty(t, c.Filtered())
	assert.NoError(t, c.QueryErr())
}

func TestCombobox_SearchResetsFocus(t *testing.T) {
	c := loadedCombobox(t, nil)
	c.Open()
	c.MoveNext()
	require.NotEqual(t, noFocus, c.FocusPosition())

	c.Search("i")
	assert.Equal(t, noFocus, c.FocusPosition())
}

func TestCombobox_RegexMode(t *testing.T) {
	c := loadedCombobox(t, nil)
	c.Search(`^(it|ch) `)
	assert.Empty(t, c.Filtered(), "plain text treats the pattern literally")

	c.ToggleRegex()
	assert.Equal(t, motor.Regex, c.Mode())
	assert.Equal(t, []string{"Italy", "Switzerland"}, names(c))

	c.Search(`[`)
	assert.Empty(t, c.Filtered())
	assert.Error(t, c.QueryErr())

	c.ToggleRegex()
	assert.Equal(t, motor.PlainText, c.Mode())
	assert.NoError(t, c.QueryErr())
}

func TestCombobox_OpenFocus(t *testing.T) {
	t.Run("first option without selection", func(t *testing.T) {
		c := loadedCombobox(t, nil)
		c.Open()
		assert.True(t, c.IsOpen())
		assert.Equal(t, 0, c.FocusPosition())
	})

	t.Run("selection when visible", func(t *testing.T) {
		c := loadedCombobox(t, nil)
		_, ok := c.CommitISO("IT")
		require.True(t, ok)
		c.Open()
		assert.Equal(t, posItaly, c.FocusPosition())
	})

	t.Run("first option when selection is filtered out", func(t *testing.T) {
		c := loadedCombobox(t, nil)
		_, ok := c.CommitISO("IT")
		require.True(t, ok)
		c.Search("chin")
		require.NotContains(t, names(c), "Italy")
		c.Open()
		assert.Equal(t, 0, c.FocusPosition())
	})

	t.Run("empty list opens unfocused", func(t *testing.T) {
		c := loadedCombobox(t, nil)
		c.Search("atlantis")
		c.Open()
		assert.True(t, c.IsOpen())
		assert.Equal(t, noFocus, c.FocusPosition())
	})
}

func TestCombobox_Toggle(t *testing.T) {
	c := loadedCombobox(t, nil)
	c.Toggle()
	assert.True(t, c.IsOpen())
	c.Toggle()
	assert.False(t, c.IsOpen())
	assert.Equal(t, noFocus, c.FocusPosition())
}

func TestCombobox_FocusAt(t *testing.T) {
	c := loadedCombobox(t, nil)
	assert.False(t, c.FocusAt(posItaly), "closed list")

	c.Open()
	assert.True(t, c.FocusAt(posItaly))
	assert.Equal(t, posItaly, c.FocusPosition())
	assert.False(t, c.FocusAt(-1))
	assert.False(t, c.FocusAt(c.Len()))
	assert.Equal(t, posItaly, c.FocusPosition())
}

func TestCombobox_Filtering(t *testing.T) {
	c := loadedCombobox(t, nil)
	assert.False(t, c.Filtering())
	c.Search("ch")
	assert.True(t, c.Filtering())
	c.Search("  ")
	assert.False(t, c.Filtering())
}

func TestCombobox_MoveWraps(t *testing.T) {
	c := loadedCombobox(t, nil)
	c.Open()
	c.Close()
	c.open = true // open without focus

	c.MoveNext()
	assert.Equal(t, 0, c.FocusPosition(), "down from none focuses the first option")
	c.MovePrev()
	assert.Equal(t, posSwitzerland, c.FocusPosition(), "up from the first wraps to the last")
	c.MoveNext()
	assert.Equal(t, 0, c.FocusPosition(), "down from the last wraps to the first")

	c.focus = noFocus
	c.MovePrev()
	assert.Equal(t, posSwitzerland, c.FocusPosition(), "up from none focuses the last option")
}

func TestCombobox_MoveOnEmptyOrClosedIsNoop(t *testing.T) {
	c := loadedCombobox(t, nil)
	c.MoveNext()
	assert.Equal(t, noFocus, c.FocusPosition())

	c.Search("atlantis")
	c.Open()
	c.MoveNext()
	c.MovePrev()
	assert.Equal(t, noFocus, c.FocusPosition())
}

func TestCombobox_FocusAlwaysValid(t *testing.T) {
	c := loadedCombobox(t, nil)
	c.Open()
	c.MovePrev()
	require.Equal(t, posSwitzerland, c.FocusPosition())

	for _, q := range []string{"ital", "c", "atlantis", "", "de"} {
		c.Search(q)
		for step := 0; step < 7; step++ {
			c.MoveNext()
			focus := c.FocusPosition()
			if len(c.Filtered()) == 0 {
				assert.Equal(t, noFocus, focus)
				continue
			}
			assert.GreaterOrEqual(t, focus, 0)
			assert.Less(t, focus, len(c.Filtered()))
		}
	}
}

func TestCombobox_JumpToLetter(t *testing.T) {
	c := loadedCombobox(t, nil)
	c.Open()
	c.focus = noFocus

	// entries start with the ISO2 code: td, cn, de, it, ch
	assert.True(t, c.JumpToLetter('t'))
	assert.Equal(t, posChad, c.FocusPosition(), "from none the first option is a candidate")

	assert.True(t, c.JumpToLetter('c'))
	assert.Equal(t, posChina, c.FocusPosition())
	assert.True(t, c.JumpToLetter('C'))
	assert.Equal(t, posSwitzerland, c.FocusPosition())
	assert.True(t, c.JumpToLetter('c'))
	assert.Equal(t, posChina, c.FocusPosition(), "wraps around")

	assert.False(t, c.JumpToLetter('z'))
	assert.Equal(t, posChina, c.FocusPosition(), "no match leaves focus alone")

	assert.True(t, c.JumpToLetter('i'))
	assert.Equal(t, posItaly, c.FocusPosition())
	assert.True(t, c.JumpToLetter('i'))
	assert.Equal(t, posItaly, c.FocusPosition(), "the only match is found again")
}

func TestCombobox_JumpToLetterClosed(t *testing.T) {
	c := loadedCombobox(t, nil)
	assert.False(t, c.JumpToLetter('i'))
}

func TestCombobox_CommitPublishes(t *testing.T) {
	fields := NewFieldSet()
	c := loadedCombobox(t, fields)
	c.Open()
	c.MoveNext()

	sel, ok := c.CommitFocused()
	require.True(t, ok)
	assert.Equal(t, Selection{ISO2: "CN", Prefix: "+86", Timezone: "UTC+08:00"}, sel)
	assert.False(t, c.IsOpen())
	assert.Equal(t, noFocus, c.FocusPosition())

	got, ok := fields.Selection()
	require.True(t, ok)
	assert.Equal(t, sel, got)

	selected, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "China", selected.CommonName)
}

func TestCombobox_CommitIdempotent(t *testing.T) {
	fields := NewFieldSet()
	c := loadedCombobox(t, fields)

	first, ok := c.CommitISO("it")
	require.True(t, ok)
	stateAfterFirst := c.State()

	second, ok := c.CommitISO("IT")
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.Equal(t, stateAfterFirst, c.State())
	assert.Equal(t, 2, fields.Publications())
	got, _ := fields.Selection()
	assert.Equal(t, Selection{ISO2: "IT", Prefix: "+39", Timezone: "UTC+01:00"}, got)
}

func TestCombobox_CommitRejectsBadInput(t *testing.T) {
	fields := NewFieldSet()
	c := loadedCombobox(t, fields)

	_, ok := c.CommitFocused()
	assert.False(t, ok, "closed list")
	_, ok = c.Commit(99)
	assert.False(t, ok)
	_, ok = c.CommitAt(-1)
	assert.False(t, ok)
	_, ok = c.CommitISO("AQ")
	assert.False(t, ok, "no prefix, not selectable")
	_, ok = c.CommitISO("")
	assert.False(t, ok)

	assert.Equal(t, 0, fields.Publications())
}

func TestCombobox_TimezoneTracking(t *testing.T) {
	fields := NewFieldSet()
	c := loadedCombobox(t, fields)
	c.SetLocation(motor.Location{CountryCode: "IT", Timezone: "Europe/Rome", Source: "geojs"})

	sel, _ := c.CommitISO("IT")
	assert.Equal(t, "Europe/Rome", sel.Timezone, "located country uses the located zone")

	sel, _ = c.CommitISO("CH")
	assert.Equal(t, "UTC+01:00", sel.Timezone, "other countries use their first zone")

	untracked := NewCombobox(nil, "und", false)
	untracked.Load(testCountries(t))
	untracked.SetLocation(motor.Location{CountryCode: "IT", Timezone: "Europe/Rome"})
	sel, _ = untracked.CommitISO("IT")
	assert.Equal(t, "UTC+01:00", sel.Timezone)
}

func TestCombobox_LoadKeepsSelectionByISO(t *testing.T) {
	c := loadedCombobox(t, nil)
	_, ok := c.CommitISO("CH")
	require.True(t, ok)
	c.Search("sui")

	c.Load(testCountries(t))
	selected, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "CH", selected.ISO2)
	assert.Empty(t, c.Query(), "reload resets the filter")
	assert.Len(t, c.Filtered(), 5)

	c.Load(withoutSwitzerland(t))
	_, ok = c.Selected()
	assert.False(t, ok, "selection is cleared when the country disappears")
}

func TestCombobox_Highlight(t *testing.T) {
	fields := NewFieldSet()
	c := loadedCombobox(t, fields)

	assert.True(t, c.HighlightISO("de"))
	assert.False(t, c.HighlightISO("XX"))
	assert.Equal(t, 0, fields.Publications())

	hl, ok := c.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "DE", hl.ISO2)

	c.Open()
	assert.Equal(t, posGermany, c.FocusPosition())

	_, ok = c.CommitFocused()
	require.True(t, ok)
	_, ok = c.Highlighted()
	assert.False(t, ok, "commit clears the highlight")
}

func TestCombobox_CloseDoesNotCommit(t *testing.T) {
	fields := NewFieldSet()
	c := loadedCombobox(t, fields)
	c.Open()
	c.MoveNext()
	c.Close()

	assert.False(t, c.IsOpen())
	assert.Equal(t, 0, fields.Publications())
	_, ok := c.Selected()
	assert.False(t, ok)
}

func TestCombobox_Accessibility(t *testing.T) {
	c := loadedCombobox(t, nil)
	assert.Equal(t, Accessibility{Role: "combobox"}, c.Accessibility())

	c.Open()
	c.JumpToLetter('i')
	assert.Equal(t, Accessibility{Role: "combobox", Expanded: true, ActiveDescendant: "phone-option-it"}, c.Accessibility())

	c.Search("zzz")
	assert.Equal(t, Accessibility{Role: "combobox", Expanded: true}, c.Accessibility())
}

func TestCombobox_BeforeLoad(t *testing.T) {
	c := NewCombobox(nil, "und", true)
	assert.False(t, c.Loaded())
	c.Search("x")
	c.Open()
	c.MoveNext()
	assert.Empty(t, c.Filtered())
	assert.Equal(t, noFocus, c.FocusPosition())
	assert.Zero(t, c.Fingerprint())
}
