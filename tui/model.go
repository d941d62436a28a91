package tui

import (
	"context"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/pb33f/dialpick/motor"
)

// inputZone is where printable keys go while the list is open.
type inputZone int

const (
	zoneFilter inputZone = iota
	zoneList
)

// PickerModel is the bubbletea model around a Combobox. It loads countries,
// then looks up the user's location, then leaves everything to the keyboard
// and mouse.
type PickerModel struct {
	ctx      context.Context
	cancel   context.CancelFunc
	resolver motor.Resolver
	opts     PickerOptions
	log      logr.Logger

	combo  *Combobox
	filter textinput.Model
	zone   inputZone
	offset int

	generation      int
	locatedGen      int
	location        motor.Location
	located         bool
	loadState       LoadState
	loadingSpinner  spinner.Model
	loadTime        time.Duration
	locateTime      time.Duration
	err             error
	lastFingerprint uint64

	width    int
	height   int
	quitting bool
	disposed bool
}

// NewPickerModel builds a picker that resolves data through resolver and
// publishes commits to publisher. Cancelling ctx aborts in-flight lookups.
func NewPickerModel(ctx context.Context, resolver motor.Resolver, publisher Publisher, opts PickerOptions, log logr.Logger) *PickerModel {
	if opts.ListHeight < minListHeight {
		opts.ListHeight = defaultListHeight
	}
	if opts.LocateMode == "" {
		opts.LocateMode = LocateCommit
	}

	ctx, cancel := context.WithCancel(ctx)

	input := textinput.New()
	input.Prompt = "🔍 "
	input.Placeholder = "Search country, code or prefix..."
	input.CharLimit = 64

	return &PickerModel{
		ctx:            ctx,
		cancel:         cancel,
		resolver:       resolver,
		opts:           opts,
		log:            log.WithName("picker"),
		combo:          NewCombobox(publisher, opts.Locale, opts.TrackTimezone),
		filter:         input,
		generation:     1,
		loadState:      LoadStateLoading,
		loadingSpinner: createLoadingSpinner(),
	}
}

func (m *PickerModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadingSpinner.Tick,
		m.loadCountries(m.generation),
	)
}

func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.disposed {
		return m, nil
	}

	var cmds []tea.Cmd
	if m.loadState == LoadStateLoading {
		var cmd tea.Cmd
		m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case countriesLoadedMsg:
		return m, m.handleCountriesLoaded(msg)

	case countriesFailedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.loadState = LoadStateError
		m.err = msg.err
		m.log.Error(msg.err, "country list unavailable")
		return m, nil

	case locationResolvedMsg:
		m.handleLocationResolved(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.SetWidth(max(msg.Width-8, 10))
		m.ensureFocusVisible()

	case tea.MouseClickMsg:
		if m.loadState == LoadStateLoaded {
			return m, m.handleClick(msg.Mouse())
		}

	case tea.MouseMotionMsg:
		if m.loadState == LoadStateLoaded {
			m.handleHover(msg.Mouse())
		}

	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *PickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Combobox exposes the widget state.
func (m *PickerModel) Combobox() *Combobox {
	return m.combo
}

// Location returns the resolved location, once known.
func (m *PickerModel) Location() (motor.Location, bool) {
	return m.location, m.located
}

// Err is the last country loading error.
func (m *PickerModel) Err() error {
	return m.err
}

// Dispose cancels in-flight lookups and makes the model ignore anything that
// arrives afterwards.
func (m *PickerModel) Dispose() {
	m.disposed = true
	m.cancel()
}

func (m *PickerModel) quit() tea.Cmd {
	m.quitting = true
	m.Dispose()
	return tea.Quit
}

func (m *PickerModel) reload() tea.Cmd {
	m.generation++
	m.loadState = LoadStateLoading
	m.err = nil
	m.log.V(1).Info("reloading country list", "generation", m.generation)
	return tea.Batch(m.loadingSpinner.Tick, m.loadCountries(m.generation))
}

func (m *PickerModel) handleCountriesLoaded(msg countriesLoadedMsg) tea.Cmd {
	if msg.generation != m.generation {
		m.log.V(1).Info("dropping stale country list", "generation", msg.generation)
		return nil
	}

	m.combo.Load(msg.countries)
	m.loadState = LoadStateLoaded
	m.loadTime = msg.duration
	m.offset = 0
	m.filter.SetValue("")

	if fp := m.combo.Fingerprint(); fp == m.lastFingerprint {
		m.log.V(1).Info("country list unchanged", "fingerprint", fp)
	} else {
		m.lastFingerprint = fp
	}
	m.log.Info("countries loaded", "count", m.combo.Len(), "duration", msg.duration)

	if m.opts.LocateMode == LocateOff {
		return nil
	}
	return m.resolveLocation(msg.generation)
}

func (m *PickerModel) handleLocationResolved(msg locationResolvedMsg) {
	if msg.generation != m.generation || msg.generation == m.locatedGen {
		return
	}
	m.locatedGen = msg.generation
	m.location = msg.location
	m.located = true
	m.locateTime = msg.duration
	m.combo.SetLocation(msg.location)

	// a commit the user already made wins over the location
	if _, ok := m.combo.Selected(); ok {
		return
	}

	mode := m.opts.LocateMode
	if mode == LocateCommit && m.combo.IsOpen() {
		// the user is browsing; suggest instead of closing the list on them
		mode = LocateHighlight
	}

	switch mode {
	case LocateCommit:
		if sel, ok := m.combo.CommitISO(msg.location.CountryCode); ok {
			m.log.Info("committed located country", "iso2", sel.ISO2, "source", msg.location.Source)
			m.zone = zoneFilter
			m.filter.Blur()
		}
	case LocateHighlight:
		if m.combo.HighlightISO(msg.location.CountryCode) {
			m.log.V(1).Info("highlighted located country", "iso2", msg.location.CountryCode, "source", msg.location.Source)
		}
	}
}

func (m *PickerModel) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit(), true
	}

	switch m.loadState {
	case LoadStateLoading:
		switch key {
		case "ctrl+r":
			return m.reload(), true
		case "q", "esc":
			return m.quit(), true
		}
		return nil, false
	case LoadStateError:
		switch key {
		case "ctrl+r":
			return m.reload(), true
		case "q", "esc":
			return m.quit(), true
		}
		return nil, true
	}

	if key == "ctrl+r" {
		return m.reload(), true
	}

	if !m.combo.IsOpen() {
		switch key {
		case "enter", "space", " ":
			return m.openList(), true
		case "q", "esc":
			return m.quit(), true
		}
		return nil, true
	}

	switch key {
	case "esc":
		m.closeList()
		return nil, true
	case "down":
		m.combo.MoveNext()
		m.ensureFocusVisible()
		return nil, true
	case "up":
		m.combo.MovePrev()
		m.ensureFocusVisible()
		return nil, true
	case "enter":
		m.commitFocused()
		return nil, true
	case "tab", "shift+tab":
		return m.switchZone(), true
	case "ctrl+x":
		m.combo.ToggleRegex()
		m.offset = 0
		return nil, true
	}

	if m.zone == zoneList {
		if key == "space" || key == " " {
			m.commitFocused()
			return nil, true
		}
		if letter, ok := singleLetter(key); ok {
			if m.combo.JumpToLetter(letter) {
				m.ensureFocusVisible()
			}
		}
		return nil, true
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if value := m.filter.Value(); value != before {
		m.combo.Search(value)
		m.offset = 0
	}
	return cmd, true
}

func (m *PickerModel) handleClick(mouse tea.Mouse) tea.Cmd {
	if mouse.Button != tea.MouseLeft {
		return nil
	}

	switch {
	case mouse.Y == triggerRow:
		if m.combo.IsOpen() {
			m.closeList()
			return nil
		}
		return m.openList()

	case !m.combo.IsOpen():
		return nil

	case mouse.Y == filterRow:
		if m.zone != zoneFilter {
			return m.switchZone()
		}
		return nil

	case mouse.Y >= firstOptionRow && mouse.Y < firstOptionRow+m.visibleOptionRows():
		pos := m.offset + mouse.Y - firstOptionRow
		if sel, ok := m.combo.CommitAt(pos); ok {
			m.afterCommit(sel)
		}
		return nil
	}

	// outside the widget
	m.closeList()
	return nil
}

// handleHover moves focus to the option under the pointer.
func (m *PickerModel) handleHover(mouse tea.Mouse) {
	if !m.combo.IsOpen() {
		return
	}
	if mouse.Y >= firstOptionRow && mouse.Y < firstOptionRow+m.visibleOptionRows() {
		m.combo.FocusAt(m.offset + mouse.Y - firstOptionRow)
	}
}

func (m *PickerModel) openList() tea.Cmd {
	m.combo.Open()
	m.zone = zoneFilter
	m.ensureFocusVisible()
	return m.filter.Focus()
}

func (m *PickerModel) closeList() {
	m.combo.Close()
	m.filter.Blur()
	m.zone = zoneFilter
}

func (m *PickerModel) switchZone() tea.Cmd {
	if m.zone == zoneFilter {
		m.zone = zoneList
		m.filter.Blur()
		return nil
	}
	m.zone = zoneFilter
	return m.filter.Focus()
}

func (m *PickerModel) commitFocused() {
	if sel, ok := m.combo.CommitFocused(); ok {
		m.afterCommit(sel)
	}
}

func (m *PickerModel) afterCommit(sel Selection) {
	m.filter.Blur()
	m.zone = zoneFilter
	m.log.V(1).Info("committed", "iso2", sel.ISO2, "prefix", sel.Prefix, "timezone", sel.Timezone)
}

// listHeight is the number of option rows that fit.
func (m *PickerModel) listHeight() int {
	h := m.opts.ListHeight
	if m.height > 0 && m.height-chromeHeight < h {
		h = m.height - chromeHeight
	}
	return max(h, minListHeight)
}

func (m *PickerModel) visibleOptionRows() int {
	return min(m.listHeight(), max(len(m.combo.Filtered())-m.offset, 0))
}

func (m *PickerModel) ensureFocusVisible() {
	h := m.listHeight()
	n := len(m.combo.Filtered())
	focus := m.combo.FocusPosition()

	if focus >= 0 {
		if focus < m.offset {
			m.offset = focus
		} else if focus >= m.offset+h {
			m.offset = focus - h + 1
		}
	}
	m.offset = max(min(m.offset, n-h), 0)
}

// singleLetter returns the rune of a key that is one printable letter.
func singleLetter(key string) (rune, bool) {
	if utf8.RuneCountInString(key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return r, unicode.IsLetter(r)
}
