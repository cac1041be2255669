package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wedding-rsvp/internal/finder"
	"wedding-rsvp/internal/logx"
	"wedding-rsvp/internal/places"
	"wedding-rsvp/internal/rsvpclient"
	"wedding-rsvp/internal/tui"
)

// FindOptions holds flags for the find command.
type FindOptions struct {
	*RootOptions
	FunctionsURL string
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find and answer an RSVP by mailing address",
		Long: `Search for the address your invitation was sent to, then confirm or
decline and pick meals.

Requires PLACES_API_KEY for address suggestions.

Example:
  wedding-rsvp find --functions-url https://rsvp.example.com`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FunctionsURL, "functions-url", "", "base URL of the RSVP functions (overrides FUNCTIONS_BASE_URL)")

	return cmd
}

func runFind(cmd *cobra.Command, opts *FindOptions) error {
	cfg := opts.Config
	if cfg.Places.APIKey == "" {
		return fmt.Errorf("PLACES_API_KEY is required")
	}
	baseURL := cfg.Functions.BaseURL
	if opts.FunctionsURL != "" {
		baseURL = opts.FunctionsURL
	}

	placesOpts := []places.Option{places.WithTimeout(cfg.Places.Timeout)}
	if cfg.Places.Components != "" {
		placesOpts = append(placesOpts, places.WithComponents(cfg.Places.Components))
	}
	provider := places.NewClient(cfg.Places.BaseURL, cfg.Places.APIKey, placesOpts...)

	var clientOpts []rsvpclient.Option
	if cfg.Functions.AppCheckToken != "" {
		clientOpts = append(clientOpts, rsvpclient.WithAppCheckToken(cfg.Functions.AppCheckToken))
	}
	client := rsvpclient.New(baseURL, clientOpts...)

	// The terminal belongs to the UI, so logs only go to a file when asked for.
	log := logx.Nop()
	if opts.Verbose {
		f, err := os.OpenFile("wedding-rsvp-find.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log = zerolog.New(f).With().Timestamp().Str("component", "find").Logger()
	}

	return tui.Run(cmd.Context(), tui.Deps{
		Provider: provider,
		Sessions: places.NewSessions(),
		Resolver: client,
		Saver:    client,
		Contacts: finder.NewContacts(cfg.Contacts),
		Debounce: cfg.Places.Debounce,
		Log:      log,
	})
}
