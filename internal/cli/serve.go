package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/cache"
	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/functions"
	"wedding-rsvp/internal/handler"
	"wedding-rsvp/internal/logx"
	"wedding-rsvp/internal/storage"
	"wedding-rsvp/internal/whatsapp"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Port int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the RSVP backend functions",
		Long: `Serve fetchRsvps and upsertRsvp over HTTP.

Callers must send an app-check token in the X-Firebase-AppCheck header unless
DISABLE_APP_CHECK is set. When REDIS_URL is set fetch results are cached, and
when WHATSAPP_ENABLED is set the hosts get a message for every status change.

Example:
  wedding-rsvp serve --port 8080 --db ./data/rsvps.db`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "port to listen on (overrides PORT)")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg := opts.Config
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}
	log := logx.Component("serve")

	store, err := storage.NewStorage(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	svcOpts := []functions.Option{functions.WithLogger(logx.Component("functions"))}

	if cfg.Redis.URL != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		svcOpts = append(svcOpts, functions.WithCache(cache.NewRSVPCache(rdb, cfg.Redis.TTL)))
		log.Info().Dur("ttl", cfg.Redis.TTL).Msg("Fetch cache enabled")
	}

	if cfg.WhatsApp.Enabled {
		wa, err := startWhatsApp(ctx, cfg, store)
		if err != nil {
			return err
		}
		defer wa.Disconnect()
		notifier := whatsapp.NewHostNotifier(wa, cfg.WhatsApp.NotifyNumbers, logx.Component("notifier"))
		svcOpts = append(svcOpts, functions.WithNotifier(notifier))
	}

	if cfg.AppCheck.Disable {
		log.Warn().Msg("App check is disabled; every caller is trusted")
	}

	service := functions.NewService(store, svcOpts...)
	validator := functions.NewValidator(functions.NewTokenVerifier(cfg.AppCheck.Tokens), cfg.AppCheck.Disable)
	app := functions.NewApp(functions.NewHandler(service, validator, logx.Component("http")))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("region", cfg.Server.Region).Msg("Serving RSVP functions")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// startWhatsApp links the bot and lets hosts query RSVPs by text.
func startWhatsApp(ctx context.Context, cfg *config.Config, store *storage.Storage) (*whatsapp.Service, error) {
	wa, err := whatsapp.NewService(ctx, whatsapp.Config{
		DataDir:     cfg.WhatsApp.DataDir,
		CountryCode: cfg.WhatsApp.CountryCode,
	}, logx.Component("WhatsApp"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize WhatsApp: %w", err)
	}

	wa.SetMessageHandler(handler.NewHostHandler(wa, store, cfg).HandleMessage)

	if err := wa.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to WhatsApp: %w", err)
	}
	return wa, nil
}
