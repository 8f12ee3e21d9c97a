package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Debug mode switches to the console
// writer and lowers the level; otherwise structured JSON goes to stdout.
func New(debug bool) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	w := io.Writer(os.Stdout)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}

	return zerolog.New(w).With().Timestamp().Int("pid", os.Getpid()).Logger()
}
