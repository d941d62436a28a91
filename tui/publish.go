package tui

import "sync"

// Selection is what a commit publishes.
type Selection struct {
	ISO2     string `json:"iso2" yaml:"iso2"`
	Prefix   string `json:"prefix" yaml:"prefix"`
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Publisher receives every committed selection.
type Publisher interface {
	Publish(Selection)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Selection)

func (f PublisherFunc) Publish(s Selection) {
	f(s)
}

// FieldSet holds the last published selection in three named slots, the way a
// form keeps hidden inputs. It is safe to read after the program exits.
type FieldSet struct {
	mu        sync.RWMutex
	iso2      string
	prefix    string
	timezone  string
	published int
}

// NewFieldSet returns an empty field set.
func NewFieldSet() *FieldSet {
	return &FieldSet{}
}

func (f *FieldSet) Publish(s Selection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.iso2 = s.ISO2
	f.prefix = s.Prefix
	f.timezone = s.Timezone
	f.published++
}

// Selection returns the slots, and false if nothing was ever published.
func (f *FieldSet) Selection() (Selection, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.published == 0 {
		return Selection{}, false
	}
	return Selection{ISO2: f.iso2, Prefix: f.prefix, Timezone: f.timezone}, true
}

// Publications counts Publish calls.
func (f *FieldSet) Publications() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.published
}

var _ Publisher = (*FieldSet)(nil)
