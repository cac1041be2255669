package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/functions"
	"wedding-rsvp/internal/logx"
	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/storage"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Import invitations from a JSON file",
		Long: `Import RSVP records from a JSON array. Each record's id is the place
identifier of the address its invitation was mailed to. Existing records are
merged, so re-running an import keeps guests' answers.

Example:
  wedding-rsvp seed invitations.json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewStorage(rootOpts.Config.Store.Path)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer store.Close()

			service := functions.NewService(store, functions.WithLogger(logx.Component("seed")))
			n, err := seedFile(cmd.Context(), service, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Imported %d RSVPs\n", n)
			return nil
		},
	}

	return cmd
}

func seedFile(ctx context.Context, service *functions.Service, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []models.PartialRSVP
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, r := range records {
		if err := service.UpsertRSVP(ctx, r); err != nil {
			return i, fmt.Errorf("failed to import record %d (%s): %w", i, r.ID, err)
		}
	}
	return len(records), nil
}
