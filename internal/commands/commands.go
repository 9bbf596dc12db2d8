package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	evalreport "github.com/wolfeidau/langfuse-report"
	"github.com/wolfeidau/langfuse-report/internal/help"
)

// Globals contains flags shared across all commands
type Globals struct {
	LogLevel string `help:"Log level for diagnostics written to stderr" enum:"debug,info,warn,error" default:"info"`
}

// SetupLogging points the global zerolog logger at w with the requested level
func SetupLogging(level string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return nil
}

func createClient(config evalreport.ClientConfig, quiet bool, progress io.Writer) *evalreport.Client {
	styles := help.DefaultStyles()

	config.Progress = func(done, total int) {
		if !quiet {
			fmt.Fprintln(progress, styles.Muted.Render(fmt.Sprintf("Fetching traces [%d/%d]", done, total)))
		}
	}

	return evalreport.NewClient(config)
}
