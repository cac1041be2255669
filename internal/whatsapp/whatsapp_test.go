package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/logx"
	"wedding-rsvp/internal/models"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name        string
		phone       string
		countryCode string
		want        string
	}{
		{"us national", "(555) 010-0199", "1", "15550100199"},
		{"us international", "+1 555-010-0199", "1", "15550100199"},
		{"israeli trunk prefix", "050-123-4567", "972", "972501234567"},
		{"israeli with country code and trunk", "+972 050 123 4567", "972", "972501234567"},
		{"double zero prefix", "0044 20 7946 0000", "1", "442079460000"},
		{"foreign international untouched", "+44 20 7946 0000", "1", "442079460000"},
		{"no country code", "555 0100", "", "5550100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhoneNumber(tt.phone, tt.countryCode))
		})
	}
}

type fakeSender struct {
	sent map[string]string
	fail map[string]error
}

func (s *fakeSender) SendMessage(_ context.Context, phone, message string) error {
	if err := s.fail[phone]; err != nil {
		return err
	}
	if s.sent == nil {
		s.sent = map[string]string{}
	}
	s.sent[phone] = message
	return nil
}

func confirmedRSVP() models.RSVP {
	return models.RSVP{
		ID:     "place-1",
		Status: models.RSVPConfirmed,
		Email:  "milo@example.com",
		Guests: []models.Guest{
			{Name: "Milo", MealChoice: models.MealBeef},
			{Name: "Huck", IsPlusOne: true},
		},
		SongRecommendation: "September",
	}
}

func TestFormatRSVPUpdate(t *testing.T) {
	got := FormatRSVPUpdate(confirmedRSVP())
	assert.Equal(t, "🎉 *RSVP confirmed*\n\n"+
		"Guests: Milo and Huck\n"+
		"Email: milo@example.com\n"+
		"• Milo: beef\n"+
		"• Huck: no meal chosen (plus one)\n"+
		"🎵 Song: September", got)

	declined := models.RSVP{ID: "place-2", Status: models.RSVPDeclined, Guests: []models.Guest{{Name: "Ollie"}}}
	assert.Equal(t, "😢 *RSVP declined*\n\nGuests: Ollie", FormatRSVPUpdate(declined))

	empty := models.RSVP{ID: "place-3", Status: models.RSVPPending}
	assert.Contains(t, FormatRSVPUpdate(empty), "(no guests listed)")
}

func TestHostNotifier_SendsToEveryHost(t *testing.T) {
	sender := &fakeSender{fail: map[string]error{"2": errors.New("offline")}}
	n := NewHostNotifier(sender, []string{"1", "2", "3"}, logx.Nop())

	err := n.NotifyRSVP(context.Background(), confirmedRSVP())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to notify 2")
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, FormatRSVPUpdate(confirmedRSVP()), sender.sent["1"])
	assert.Contains(t, sender.sent, "3")
}

func TestHostNotifier_NoHostsIsNoop(t *testing.T) {
	sender := &fakeSender{}
	n := NewHostNotifier(sender, nil, logx.Nop())
	assert.NoError(t, n.NotifyRSVP(context.Background(), confirmedRSVP()))
	assert.Empty(t, sender.sent)
}
