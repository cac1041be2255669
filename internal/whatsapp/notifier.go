package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/finder"
	"wedding-rsvp/internal/models"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

// HostNotifier tells the hosts about RSVP changes.
type HostNotifier struct {
	sender  Sender
	numbers []string
	log     zerolog.Logger
}

// NewHostNotifier creates a notifier messaging every number in numbers
func NewHostNotifier(sender Sender, numbers []string, log zerolog.Logger) *HostNotifier {
	return &HostNotifier{sender: sender, numbers: numbers, log: log}
}

// NotifyRSVP messages every host. It tries all numbers and reports every
// failure.
func (n *HostNotifier) NotifyRSVP(ctx context.Context, rsvp models.RSVP) error {
	message := FormatRSVPUpdate(rsvp)

	var errs []error
	for _, number := range n.numbers {
		if err := n.sender.SendMessage(ctx, number, message); err != nil {
			errs = append(errs, fmt.Errorf("failed to notify %s: %w", number, err))
			continue
		}
		n.log.Debug().Str("phone", number).Str("rsvp_id", rsvp.ID).Msg("Host notified")
	}
	return errors.Join(errs...)
}

// FormatRSVPUpdate renders an RSVP change for the hosts.
func FormatRSVPUpdate(rsvp models.RSVP) string {
	var b strings.Builder

	switch rsvp.Status {
	case models.RSVPConfirmed:
		b.WriteString("🎉 *RSVP confirmed*\n\n")
	case models.RSVPDeclined:
		b.WriteString("😢 *RSVP declined*\n\n")
	default:
		b.WriteString("📝 *RSVP updated*\n\n")
	}

	guests := finder.SummarizeRSVP(rsvp)
	if guests == "" {
		guests = "(no guests listed)"
	}
	fmt.Fprintf(&b, "Guests: %s\n", guests)
	if rsvp.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", rsvp.Email)
	}

	if rsvp.Status == models.RSVPConfirmed {
		for _, g := range rsvp.Guests {
			line := fmt.Sprintf("• %s: %s", g.Name, mealOrUnknown(g.MealChoice))
			if g.IsPlusOne {
				line += " (plus one)"
			}
			b.WriteString(line + "\n")
		}
	}

	if rsvp.SongRecommendation != "" {
		fmt.Fprintf(&b, "🎵 Song: %s\n", rsvp.SongRecommendation)
	}

	return strings.TrimRight(b.String(), "\n")
}

func mealOrUnknown(m models.MealChoice) string {
	if m == "" {
		return "no meal chosen"
	}
	return string(m)
}
