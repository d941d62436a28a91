package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/pb33f/dialpick/motor"
)

var (
	germanyFixture = motor.FixtureRecord{
		ISO2: "DE", ISO3: "DEU", Name: "Germany",
		Root: "+4", Suffixes: []string{"9"},
		AltSpellings: []string{"DE", "Federal Republic of Germany", "Deutschland"},
		Timezones:    []string{"UTC+01:00"},
	}
	chadFixture = motor.FixtureRecord{
		ISO2: "TD", ISO3: "TCD", Name: "Chad",
		Root: "+2", Suffixes: []string{"35"},
		AltSpellings: []string{"TD", "Tchad", "Republic of Chad"},
		Timezones:    []string{"UTC+01:00"},
	}
	chinaFixture = motor.FixtureRecord{
		ISO2: "CN", ISO3: "CHN", Name: "China",
		Root: "+8", Suffixes: []string{"6"},
		AltSpellings: []string{"CN", "Zhōngguó", "People's Republic of China"},
		Timezones:    []string{"UTC+08:00"},
	}
)

// testCountries sorts to Chad, China, Germany, Italy, Switzerland. Antarctica
// has no prefix and is dropped.
func testCountries(t *testing.T) []motor.Country {
	t.Helper()
	countries, err := motor.FixtureCountries(
		motor.SwitzerlandFixture, motor.ItalyFixture, motor.AntarcticaFixture,
		germanyFixture, chadFixture, chinaFixture,
	)
	require.NoError(t, err)
	return countries
}

func withoutSwitzerland(t *testing.T) []motor.Country {
	t.Helper()
	countries, err := motor.FixtureCountries(motor.ItalyFixture, germanyFixture, chadFixture, chinaFixture)
	require.NoError(t, err)
	return countries
}

const (
	posChad = iota
	posChina
	posGermany
	posItaly
	posSwitzerland
)

func loadedCombobox(t *testing.T, publisher Publisher) *Combobox {
	t.Helper()
	c := NewCombobox(publisher, "und", true)
	c.Load(testCountries(t))
	return c
}

type fakeResolver struct {
	mu            sync.Mutex
	countries     []motor.Country
	err           error
	location      motor.Location
	countryCalls  int
	locationCalls int
}

func (f *fakeResolver) ResolveCountries(_ context.Context) ([]motor.Country, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countryCalls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]motor.Country(nil), f.countries...), nil
}

func (f *fakeResolver) ResolveUserLocation(_ context.Context) motor.Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locationCalls++
	return f.location
}

func newTestModel(t *testing.T, r motor.Resolver, opts PickerOptions) (*PickerModel, *FieldSet) {
	t.Helper()
	fields := NewFieldSet()
	m := NewPickerModel(context.Background(), r, fields, opts, logr.Discard())
	t.Cleanup(m.Dispose)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, fields
}

// loadModel runs the country load for the current generation and, when the
// model asks for it, the location lookup.
func loadModel(t *testing.T, m *PickerModel) {
	t.Helper()
	_, cmd := m.Update(m.loadCountries(m.generation)())
	if cmd != nil {
		m.Update(cmd())
	}
}

func press(m *PickerModel, code rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func typeText(m *PickerModel, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func ctrl(m *PickerModel, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl})
	return cmd
}

func click(m *PickerModel, x, y int) {
	m.Update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
}
