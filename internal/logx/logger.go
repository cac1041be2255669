package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wedding-rsvp/internal/config"
)

// Init configures the global logger for the given environment. Production logs
// JSON at info level; everything else gets a console writer at debug level.
func Init(env config.Environment) {
	log.Logger = New(os.Stdout, env)
}

// New builds a logger writing to w for the given environment.
func New(w io.Writer, env config.Environment) zerolog.Logger {
	if env.IsProduction() {
		return zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
}

// Component returns a child of the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// Nop is a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
