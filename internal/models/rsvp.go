package models

import (
	"encoding/json"
	"fmt"
)

// RSVPStatus represents the attendance confirmation status
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
)

// Valid reports whether the status is one of the known statuses
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPPending, RSVPConfirmed, RSVPDeclined:
		return true
	}
	return false
}

// RSVP holds everything we know about the response for one invitation.
//
// ID is the place identifier of the address the physical invitation was
// mailed to. Several households may share an address, so records are keyed by
// (ID, Household).
type RSVP struct {
	ID                 string     `json:"id"`
	Household          int        `json:"household,omitempty"`
	Guests             []Guest    `json:"guests"`
	Status             RSVPStatus `json:"status"`
	Email              string     `json:"email"`
	CanHavePlusOne     bool       `json:"canHavePlusOne"`
	SongRecommendation string     `json:"songRecommendation,omitempty"`
}

// GuestNames returns the names of every guest in order
func (r RSVP) GuestNames() []string {
	names := make([]string, 0, len(r.Guests))
	for _, g := range r.Guests {
		names = append(names, g.Name)
	}
	return names
}

// PartialRSVP is an RSVP where only ID is required. Nil fields are left
// untouched when merged into a stored record.
type PartialRSVP struct {
	ID                 string      `json:"id"`
	Household          int         `json:"household,omitempty"`
	Guests             *[]Guest    `json:"guests,omitempty"`
	Status             *RSVPStatus `json:"status,omitempty"`
	Email              *string     `json:"email,omitempty"`
	CanHavePlusOne     *bool       `json:"canHavePlusOne,omitempty"`
	SongRecommendation *string     `json:"songRecommendation,omitempty"`
}

// Validate checks the fields that are present
func (p PartialRSVP) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("rsvp id is required")
	}
	if p.Household < 0 {
		return fmt.Errorf("household must not be negative")
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("unknown rsvp status %q", *p.Status)
	}
	if p.Guests != nil {
		for i, g := range *p.Guests {
			if g.Name == "" {
				return fmt.Errorf("guest %d has no name", i)
			}
			if !g.MealChoice.Valid() {
				return fmt.Errorf("guest %d has unknown meal choice %q", i, g.MealChoice)
			}
		}
	}
	return nil
}

// Fields returns the fields set on the partial record as a document, without
// the key fields.
func (p PartialRSVP) Fields() (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rsvp: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rsvp: %w", err)
	}
	delete(fields, "id")
	delete(fields, "household")
	return fields, nil
}

// Partial converts a full record into a partial one with every field set
func (r RSVP) Partial() PartialRSVP {
	guests := r.Guests
	if guests == nil {
		guests = []Guest{}
	}
	status := r.Status
	email := r.Email
	plusOne := r.CanHavePlusOne
	p := PartialRSVP{
		ID:             r.ID,
		Household:      r.Household,
		Guests:         &guests,
		Status:         &status,
		Email:          &email,
		CanHavePlusOne: &plusOne,
	}
	if r.SongRecommendation != "" {
		song := r.SongRecommendation
		p.SongRecommendation = &song
	}
	return p
}
