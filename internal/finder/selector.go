package finder

import (
	"fmt"

	"wedding-rsvp/internal/models"
)

// Selector lets the guest pick one of several records found at an address.
type Selector struct {
	rsvps []models.RSVP
	nav   Navigator
}

func NewSelector(route Route, nav Navigator) *Selector {
	return &Selector{rsvps: route.RSVPs(), nav: nav}
}

// Summaries returns one guest summary per record, in order.
func (s *Selector) Summaries() []string {
	out := make([]string, len(s.rsvps))
	for i, r := range s.rsvps {
		out[i] = SummarizeRSVP(r)
	}
	return out
}

func (s *Selector) Len() int {
	return len(s.rsvps)
}

// Choose opens the editor for the i-th record.
func (s *Selector) Choose(i int) error {
	if i < 0 || i >= len(s.rsvps) {
		return fmt.Errorf("no rsvp at index %d", i)
	}
	s.nav.Navigate(NewRoute(ViewEditor, s.rsvps[i:i+1]))
	return nil
}
