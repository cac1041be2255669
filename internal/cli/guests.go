package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/finder"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/storage"
)

// GuestsOptions holds flags for the guests command.
type GuestsOptions struct {
	*RootOptions
	Status string
}

// NewGuestsCommand creates the guests command.
func NewGuestsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GuestsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "guests",
		Short: "List RSVPs, optionally by status",
		Long: `List every stored RSVP with its guests.

Example:
  wedding-rsvp guests
  wedding-rsvp guests --status confirmed`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGuests(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "only show RSVPs with this status (pending|confirmed|declined)")

	return cmd
}

func runGuests(cmd *cobra.Command, opts *GuestsOptions) error {
	status := models.RSVPStatus(opts.Status)
	if status != "" && !status.Valid() {
		return fmt.Errorf("invalid status %q: must be pending, confirmed or declined", opts.Status)
	}

	store, err := storage.NewStorage(opts.Config.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	var rsvps []models.RSVP
	if status == "" {
		rsvps, err = store.GetAllRSVPs(cmd.Context())
	} else {
		rsvps, err = store.GetRSVPsByStatus(cmd.Context(), status)
	}
	if err != nil {
		return fmt.Errorf("failed to list RSVPs: %w", err)
	}

	printGuests(cmd.OutOrStdout(), rsvps)
	return nil
}

func printGuests(w io.Writer, rsvps []models.RSVP) {
	if len(rsvps) == 0 {
		fmt.Fprintln(w, "\nNo RSVPs found.")
		return
	}

	guests := 0
	for _, r := range rsvps {
		guests += len(r.Guests)
	}

	fmt.Fprintf(w, "\n📋 RSVPs (%d invitations, %d guests):\n", len(rsvps), guests)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, r := range rsvps {
		fmt.Fprintf(w, "Address: %s", r.ID)
		if r.Household > 0 {
			fmt.Fprintf(w, " (household %d)", r.Household)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Guests: %s\n", finder.SummarizeRSVP(r))
		fmt.Fprintf(w, "Status: %s\n", r.Status)
		if r.Email != "" {
			fmt.Fprintf(w, "Email: %s\n", r.Email)
		}
		for _, g := range r.Guests {
			if g.MealChoice != "" {
				fmt.Fprintf(w, "  %s: %s\n", g.Name, g.MealChoice)
			}
		}
		fmt.Fprintln(w, strings.Repeat("-", 60))
	}
}
