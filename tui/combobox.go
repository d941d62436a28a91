package tui

import (
	"strings"

	"github.com/pb33f/dialpick/motor"
)

// Accessibility mirrors the role and state attributes a screen reader would
// see on the widget.
type Accessibility struct {
	Role             string
	Expanded         bool
	ActiveDescendant string
}

// State is a snapshot of the combobox.
type State struct {
	Open     bool
	Focus    int // position in the filtered list, or -1
	Selected int // index into the full list, or -1
	Filtered []int
}

// Combobox is the searchable option list. It owns filtering, focus and
// selection; all changes go through its methods. Focus is a position in the
// filtered list, selection an index into the full sorted list.
type Combobox struct {
	all      []motor.Country
	index    *motor.SearchIndex
	filtered []int
	filter   queryFilter

	open        bool
	focus       int
	selected    int
	highlighted int

	publisher     Publisher
	locale        string
	trackTimezone bool
	location      motor.Location
}

// NewCombobox returns an empty, closed combobox. Commits are published to
// publisher; a nil publisher discards them.
func NewCombobox(publisher Publisher, locale string, trackTimezone bool) *Combobox {
	return &Combobox{
		focus:         noFocus,
		selected:      noSelection,
		highlighted:   noSelection,
		publisher:     publisher,
		locale:        locale,
		trackTimezone: trackTimezone,
	}
}

// Load replaces the country list. Countries without a dialing prefix are
// dropped, the rest sorted by name. The filter is reset and a previous
// selection is carried over by ISO2 when the new list still has it.
func (c *Combobox) Load(countries []motor.Country) {
	var selectedISO, highlightedISO string
	if c.selected != noSelection {
		selectedISO = c.all[c.selected].ISO2
	}
	if c.highlighted != noSelection {
		highlightedISO = c.all[c.highlighted].ISO2
	}

	c.all = motor.SortCountries(countries, c.locale)
	c.index = motor.BuildSearchIndex(c.all)
	c.filter.query = ""
	c.filtered = c.filter.apply(c.index)
	c.focus = noFocus

	c.selected = c.findISO(selectedISO)
	c.highlighted = c.findISO(highlightedISO)
}

// Loaded is true once Load has been called.
func (c *Combobox) Loaded() bool {
	return c.index != nil
}

// Search filters the list by query. Focus resets to none.
func (c *Combobox) Search(query string) {
	c.filter.query = query
	c.filtered = c.filter.apply(c.index)
	c.focus = noFocus
}

// ToggleRegex switches between substring and regular expression matching and
// reapplies the current query.
func (c *Combobox) ToggleRegex() {
	c.filter.toggleMode()
	c.Search(c.filter.query)
}

// Query returns the current filter text.
func (c *Combobox) Query() string {
	return c.filter.query
}

// Mode returns the current match mode.
func (c *Combobox) Mode() motor.SearchMode {
	return c.filter.mode
}

// Filtering is true while a non-blank query narrows the list.
func (c *Combobox) Filtering() bool {
	return c.filter.IsActive()
}

// QueryErr is the regex compile error of the current query, if any.
func (c *Combobox) QueryErr() error {
	return c.filter.err
}

// Toggle opens a closed list and closes an open one without committing.
func (c *Combobox) Toggle() {
	if c.open {
		c.Close()
		return
	}
	c.Open()
}

// Open expands the list. The selection, or else the highlighted country, is
// focused when it is in the filtered list; otherwise the first option is. An
// empty list opens without focus.
func (c *Combobox) Open() {
	c.open = true
	c.focus = noFocus
	if len(c.filtered) == 0 {
		return
	}
	for _, current := range []int{c.selected, c.highlighted} {
		if current == noSelection {
			continue
		}
		if pos := c.positionOf(current); pos >= 0 {
			c.focus = pos
			return
		}
	}
	c.focus = 0
}

// Close collapses the list. Nothing is committed.
func (c *Combobox) Close() {
	c.open = false
	c.focus = noFocus
}

// IsOpen reports whether the list is expanded.
func (c *Combobox) IsOpen() bool {
	return c.open
}

// MoveNext focuses the next option, wrapping at the end. From no focus it
// focuses the first option.
func (c *Combobox) MoveNext() {
	n := len(c.filtered)
	if !c.open || n == 0 {
		return
	}
	if c.focus == noFocus {
		c.focus = 0
		return
	}
	c.focus = (c.focus + 1) % n
}

// MovePrev focuses the previous option, wrapping at the start. From no focus
// it focuses the last option.
func (c *Combobox) MovePrev() {
	n := len(c.filtered)
	if !c.open || n == 0 {
		return
	}
	if c.focus == noFocus {
		c.focus = n - 1
		return
	}
	c.focus = (c.focus - 1 + n) % n
}

// JumpToLetter focuses the next option after the current one whose search
// entry starts with letter. Without focus the scan starts at the first
// option. It reports whether focus moved.
func (c *Combobox) JumpToLetter(letter rune) bool {
	if !c.open || len(c.filtered) == 0 {
		return false
	}
	pos := c.index.NextWithPrefix(c.filtered, letter, c.focus)
	if pos < 0 {
		return false
	}
	c.focus = pos
	return true
}

// FocusAt focuses the option at position pos of the filtered list.
func (c *Combobox) FocusAt(pos int) bool {
	if !c.open || pos < 0 || pos >= len(c.filtered) {
		return false
	}
	c.focus = pos
	return true
}

// CommitFocused commits the focused option. It does nothing when the list is
// closed or nothing is focused.
func (c *Combobox) CommitFocused() (Selection, bool) {
	if !c.open || c.focus == noFocus {
		return Selection{}, false
	}
	return c.Commit(c.filtered[c.focus])
}

// CommitAt commits the option at position pos of the filtered list.
func (c *Combobox) CommitAt(pos int) (Selection, bool) {
	if pos < 0 || pos >= len(c.filtered) {
		return Selection{}, false
	}
	return c.Commit(c.filtered[pos])
}

// Commit selects the country at index i of the full list, publishes it and
// closes the list. Committing the same country again publishes the same
// values.
func (c *Combobox) Commit(i int) (Selection, bool) {
	if i < 0 || i >= len(c.all) {
		return Selection{}, false
	}
	c.selected = i
	c.highlighted = noSelection
	c.Close()

	sel := c.selectionFor(&c.all[i])
	if c.publisher != nil {
		c.publisher.Publish(sel)
	}
	return sel, true
}

// CommitISO commits the country whose ISO2 code equals code, ignoring case.
func (c *Combobox) CommitISO(code string) (Selection, bool) {
	i := c.findISO(code)
	if i == noSelection {
		return Selection{}, false
	}
	return c.Commit(i)
}

// HighlightISO marks the country as current without publishing it. The next
// Open focuses it; an open list keeps its focus.
func (c *Combobox) HighlightISO(code string) bool {
	i := c.findISO(code)
	if i == noSelection {
		return false
	}
	c.highlighted = i
	return true
}

// SetLocation records where the user is, for timezone tracking.
func (c *Combobox) SetLocation(loc motor.Location) {
	c.location = loc
}

// Accessibility returns the current role and state attributes.
func (c *Combobox) Accessibility() Accessibility {
	a := Accessibility{Role: comboboxRole, Expanded: c.open}
	if focused, ok := c.Focused(); ok {
		a.ActiveDescendant = focused.OptionID()
	}
	return a
}

// State returns a snapshot.
func (c *Combobox) State() State {
	return State{
		Open:     c.open,
		Focus:    c.focus,
		Selected: c.selected,
		Filtered: append([]int(nil), c.filtered...),
	}
}

// Len is the number of selectable countries.
func (c *Combobox) Len() int {
	return len(c.all)
}

// Country returns the country at index i of the full list.
func (c *Combobox) Country(i int) *motor.Country {
	return &c.all[i]
}

// Filtered returns the indices of the visible options.
func (c *Combobox) Filtered() []int {
	return c.filtered
}

// FocusPosition is the focused position in the filtered list, or -1.
func (c *Combobox) FocusPosition() int {
	return c.focus
}

// Focused returns the focused country.
func (c *Combobox) Focused() (*motor.Country, bool) {
	if c.focus == noFocus || c.focus >= len(c.filtered) {
		return nil, false
	}
	return &c.all[c.filtered[c.focus]], true
}

// Selected returns the committed country.
func (c *Combobox) Selected() (*motor.Country, bool) {
	if c.selected == noSelection {
		return nil, false
	}
	return &c.all[c.selected], true
}

// Highlighted returns the country marked by HighlightISO, until a commit.
func (c *Combobox) Highlighted() (*motor.Country, bool) {
	if c.highlighted == noSelection {
		return nil, false
	}
	return &c.all[c.highlighted], true
}

// Fingerprint identifies the searchable content of the loaded list.
func (c *Combobox) Fingerprint() uint64 {
	if c.index == nil {
		return 0
	}
	return c.index.Fingerprint()
}

// selectionFor uses the located timezone when the user is in the committed
// country and tracking is on, else the country's first timezone.
func (c *Combobox) selectionFor(country *motor.Country) Selection {
	sel := Selection{ISO2: country.ISO2, Prefix: country.PhonePrefix}
	if c.trackTimezone && c.location.Timezone != "" &&
		strings.EqualFold(c.location.CountryCode, country.ISO2) {
		sel.Timezone = c.location.Timezone
	} else if len(country.Timezones) > 0 {
		sel.Timezone = country.Timezones[0]
	}
	return sel
}

func (c *Combobox) findISO(code string) int {
	code = strings.TrimSpace(code)
	if code == "" {
		return noSelection
	}
	for i := range c.all {
		if strings.EqualFold(c.all[i].ISO2, code) {
			return i
		}
	}
	return noSelection
}

func (c *Combobox) positionOf(i int) int {
	for pos, idx := range c.filtered {
		if idx == i {
			return pos
		}
	}
	return -1
}
