package tui

import (
	"strings"

	"github.com/pb33f/dialpick/motor"
)

// queryFilter is the filter input applied to a search index. A failed regex
// keeps its error so the status bar can explain the empty list.
type queryFilter struct {
	query string
	mode  motor.SearchMode
	err   error
}

// apply returns the matching option indices. An invalid pattern matches
// nothing.
func (f *queryFilter) apply(index *motor.SearchIndex) []int {
	f.err = nil
	if index == nil {
		return nil
	}
	found, err := index.Filter(f.query, f.mode)
	if err != nil {
		f.err = err
		return []int{}
	}
	return found
}

// IsActive is true when the filter narrows the list.
func (f *queryFilter) IsActive() bool {
	return strings.TrimSpace(f.query) != ""
}

// toggleMode flips between plain text and regex matching.
func (f *queryFilter) toggleMode() {
	if f.mode == motor.Regex {
		f.mode = motor.PlainText
	} else {
		f.mode = motor.Regex
	}
}
