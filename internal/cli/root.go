package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/logx"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile  string
	Database string
	Verbose  bool

	// Config is loaded before any subcommand runs.
	Config *config.Config
}

// NewRootCommand creates the root command for the wedding RSVP CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wedding-rsvp",
		Short: "Wedding RSVP backend and lookup tools",
		Long:  "Serves the RSVP backend functions and lets guests find their RSVP by mailing address.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.EnvFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if opts.Database != "" {
				cfg.Store.Path = opts.Database
			}
			opts.Config = cfg

			logx.Init(cfg.Env())
			if opts.Verbose {
				log.Logger = log.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "path to an optional .env file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the SQLite RSVP database (overrides RSVP_DB_PATH)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewGuestsCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}
