package display

import (
	"errors"
	"fmt"
	"html/template"
	"sync"
)

// Region names shared by the renderer, the freshness tracker and the page.
const (
	LastUpdated = "last-updated"
	NextUpdated = "next-updated"
	Gold24Table = "gold24-table"
	Gold22Table = "gold22-table"
	SilverTable = "silver-table"
	CopperTable = "copper-table"
	Legend      = "updated"
)

// Unavailable is the only failure text a reader ever sees.
const Unavailable = "Unavailable"

// DefaultRegions is the full board layout.
var DefaultRegions = []string{LastUpdated, NextUpdated, Gold24Table, Gold22Table, SilverTable, CopperTable, Legend}

// ErrRegionMissing is returned when a caller addresses a region the surface does not have.
var ErrRegionMissing = errors.New("display region not found")

// Region holds either plain text or pre-rendered HTML.
type Region struct {
	Text string        `json:"text,omitempty"`
	HTML template.HTML `json:"html,omitempty"`
}

// Surface is a fixed set of named regions. It is safe for concurrent use.
type Surface struct {
	mu      sync.RWMutex
	regions map[string]Region
	order   []string
}

// NewSurface creates a surface with the given region names.
func NewSurface(names ...string) *Surface {
	s := &Surface{regions: make(map[string]Region, len(names))}
	for _, n := range names {
		if _, ok := s.regions[n]; ok {
			continue
		}
		s.regions[n] = Region{}
		s.order = append(s.order, n)
	}
	return s
}

// NewBoardSurface creates a surface with DefaultRegions.
func NewBoardSurface() *Surface {
	return NewSurface(DefaultRegions...)
}

// Require checks that every name exists.
func (s *Surface) Require(names ...string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range names {
		if _, ok := s.regions[n]; !ok {
			return fmt.Errorf("%w: %s", ErrRegionMissing, n)
		}
	}
	return nil
}

// SetText replaces a region's content with plain text.
func (s *Surface) SetText(name, text string) error {
	return s.set(name, Region{Text: text})
}

// SetHTML replaces a region's content with trusted HTML.
func (s *Surface) SetHTML(name string, html template.HTML) error {
	return s.set(name, Region{HTML: html})
}

func (s *Surface) set(name string, r Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.regions[name]; !ok {
		return fmt.Errorf("%w: %s", ErrRegionMissing, name)
	}
	s.regions[name] = r
	return nil
}

// Get returns a region's content.
func (s *Surface) Get(name string) (Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.regions[name]
	return r, ok
}

// Text returns a region's plain text, empty when missing.
func (s *Surface) Text(name string) string {
	r, _ := s.Get(name)
	return r.Text
}

// Snapshot copies all regions.
func (s *Surface) Snapshot() map[string]Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Region, len(s.regions))
	for k, v := range s.regions {
		out[k] = v
	}
	return out
}

// Names returns region names in creation order.
func (s *Surface) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}
