package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/pb33f/dialpick/motor"
)

type LoadState int

const (
	LoadStateLoading LoadState = iota
	LoadStateLoaded
	LoadStateError
)

// every message from a command carries the load generation that issued it;
// the model drops messages from older generations

type countriesLoadedMsg struct {
	generation int
	countries  []motor.Country
	duration   time.Duration
}

type countriesFailedMsg struct {
	generation int
	err        error
}

type locationResolvedMsg struct {
	generation int
	location   motor.Location
	duration   time.Duration
}

func (m *PickerModel) loadCountries(generation int) tea.Cmd {
	ctx := m.ctx
	resolver := m.resolver
	return func() tea.Msg {
		start := time.Now()
		countries, err := resolver.ResolveCountries(ctx)
		if err != nil {
			return countriesFailedMsg{generation: generation, err: err}
		}
		return countriesLoadedMsg{
			generation: generation,
			countries:  countries,
			duration:   time.Since(start),
		}
	}
}

func (m *PickerModel) resolveLocation(generation int) tea.Cmd {
	ctx := m.ctx
	resolver := m.resolver
	return func() tea.Msg {
		start := time.Now()
		loc := resolver.ResolveUserLocation(ctx)
		return locationResolvedMsg{
			generation: generation,
			location:   loc,
			duration:   time.Since(start),
		}
	}
}

func (m *PickerModel) renderLoadingTrigger() string {
	return TriggerStyle.Render(fmt.Sprintf("%s %s", m.loadingSpinner.View(),
		SubtitleStyle.Render("Loading countries...")))
}

func (m *PickerModel) renderErrorTrigger() string {
	var body string
	body = ErrorStyle.Render("Failed to load data.")
	if m.err != nil {
		body += "\n" + StatusErrorStyle.Render(m.err.Error())
	}
	body += "\n\n" + HelpStyle.Render("ctrl+r: reload  q: quit")
	return lipgloss.NewStyle().Padding(0, 1).Render(body)
}

func createLoadingSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(RGBPink)
	return s
}
