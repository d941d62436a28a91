package tui

import "fmt"

const (
	// rows of the picker layout, counted from the top of the screen
	titleHeight    = 2
	triggerRow     = titleHeight
	filterRow      = triggerRow + 1
	firstOptionRow = filterRow + 1

	statusBarHeight = 2
	chromeHeight    = firstOptionRow + statusBarHeight

	minListHeight     = 1
	defaultListHeight = 10

	prefixColumnWidth = 6
	flagColumnWidth   = 3
	markerColumnWidth = 2

	noFocus     = -1
	noSelection = -1

	comboboxRole = "combobox"
)

// LocateMode decides what happens when the geolocated country is in the list.
type LocateMode string

const (
	// LocateCommit selects the located country exactly as a user commit would.
	LocateCommit LocateMode = "commit"
	// LocateHighlight marks the located country as current without publishing.
	LocateHighlight LocateMode = "highlight"
	// LocateOff skips the location lookup.
	LocateOff LocateMode = "off"
)

// ParseLocateMode accepts commit, highlight or off. Empty means commit.
func ParseLocateMode(s string) (LocateMode, error) {
	switch LocateMode(s) {
	case "", LocateCommit:
		return LocateCommit, nil
	case LocateHighlight, LocateOff:
		return LocateMode(s), nil
	}
	return "", fmt.Errorf("unknown locate mode %q (want commit, highlight or off)", s)
}

// PickerOptions configures a PickerModel.
type PickerOptions struct {
	Locale        string
	LocateMode    LocateMode
	TrackTimezone bool
	ListHeight    int
}

// DefaultPickerOptions matches the embedded default configuration.
func DefaultPickerOptions() PickerOptions {
	return PickerOptions{
		Locale:        "und",
		LocateMode:    LocateCommit,
		TrackTimezone: true,
		ListHeight:    defaultListHeight,
	}
}
