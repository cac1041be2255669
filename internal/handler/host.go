package handler

import (
	"context"
	"fmt"
	"strings"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/finder"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/whatsapp"
)

// Lister reads every stored RSVP.
type Lister interface {
	GetAllRSVPs(ctx context.Context) ([]models.RSVP, error)
}

// HostHandler answers questions the hosts text to the bot.
type HostHandler struct {
	sender      whatsapp.Sender
	store       Lister
	wedding     config.WeddingConfig
	hosts       map[string]bool
	countryCode string
}

// NewHostHandler creates a new host handler. Messages from numbers not in
// hosts are ignored.
func NewHostHandler(sender whatsapp.Sender, store Lister, cfg *config.Config) *HostHandler {
	hosts := make(map[string]bool, len(cfg.WhatsApp.NotifyNumbers))
	for _, n := range cfg.WhatsApp.NotifyNumbers {
		hosts[whatsapp.NormalizePhoneNumber(n, cfg.WhatsApp.CountryCode)] = true
	}
	return &HostHandler{
		sender:      sender,
		store:       store,
		wedding:     cfg.Wedding,
		hosts:       hosts,
		countryCode: cfg.WhatsApp.CountryCode,
	}
}

// HandleMessage replies to "summary", "confirmed", "declined" and "pending".
// Anything else is ignored.
func (h *HostHandler) HandleMessage(ctx context.Context, sender, text string) error {
	sender = whatsapp.NormalizePhoneNumber(sender, h.countryCode)
	if !h.hosts[sender] {
		return nil
	}

	text = strings.ToLower(strings.TrimSpace(text))

	var status models.RSVPStatus
	switch {
	case containsAny(text, "summary", "stats", "how many"):
	case containsAny(text, "declined", "not coming", "❌"):
		status = models.RSVPDeclined
	case containsAny(text, "confirmed", "coming", "✅"):
		status = models.RSVPConfirmed
	case containsAny(text, "pending", "waiting"):
		status = models.RSVPPending
	default:
		return nil
	}

	rsvps, err := h.store.GetAllRSVPs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load RSVPs: %w", err)
	}

	reply := FormatSummary(rsvps, h.wedding)
	if status != "" {
		reply = FormatStatusList(rsvps, status)
	}

	if err := h.sender.SendMessage(ctx, sender, reply); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// FormatSummary counts invitations and guests per status.
func FormatSummary(rsvps []models.RSVP, wedding config.WeddingConfig) string {
	invitations := map[models.RSVPStatus]int{}
	guests := map[models.RSVPStatus]int{}
	for _, r := range rsvps {
		invitations[r.Status]++
		guests[r.Status] += len(r.Guests)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 *RSVPs* for %s at %s\n\n", wedding.Date, wedding.Location)
	for _, s := range []models.RSVPStatus{models.RSVPConfirmed, models.RSVPDeclined, models.RSVPPending} {
		fmt.Fprintf(&b, "%s: %d invitations, %d guests\n", s, invitations[s], guests[s])
	}
	fmt.Fprintf(&b, "Total: %d invitations", len(rsvps))
	return b.String()
}

// FormatStatusList lists the guests of every RSVP with the given status.
func FormatStatusList(rsvps []models.RSVP, status models.RSVPStatus) string {
	var lines []string
	for _, r := range rsvps {
		if r.Status != status {
			continue
		}
		summary := finder.SummarizeRSVP(r)
		if summary == "" {
			summary = r.ID
		}
		lines = append(lines, "• "+summary)
	}
	if len(lines) == 0 {
		return fmt.Sprintf("No %s RSVPs.", status)
	}
	return fmt.Sprintf("*%s* (%d)\n%s", status, len(lines), strings.Join(lines, "\n"))
}

// containsAny checks if the text contains any of the given keywords
func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
