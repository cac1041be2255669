package finder

import "wedding-rsvp/internal/models"

// View names a destination of the lookup flow.
type View int

const (
	ViewFinder View = iota
	ViewSelector
	ViewEditor
)

func (v View) String() string {
	switch v {
	case ViewSelector:
		return "selector"
	case ViewEditor:
		return "editor"
	default:
		return "finder"
	}
}

// Route is an in-memory handoff to the next view. It is never persisted, so a
// view reached without one sees no records.
type Route struct {
	View  View
	rsvps []models.RSVP
}

func NewRoute(view View, rsvps []models.RSVP) Route {
	return Route{View: view, rsvps: append([]models.RSVP(nil), rsvps...)}
}

// RSVPs returns the handed-off records, or an empty slice.
func (r Route) RSVPs() []models.RSVP {
	if len(r.rsvps) == 0 {
		return []models.RSVP{}
	}
	return append([]models.RSVP(nil), r.rsvps...)
}

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }
