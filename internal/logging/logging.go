// Package logging configures the process-wide zerolog logger. Output goes
// to a rotating file: writing to stderr would corrupt the terminal UI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const logFile = "gravity.log"

// Init sets up the global logger. Extra writers (for tests or debug runs)
// receive a copy of every event.
func Init(extra ...io.Writer) error {
	dir := filepath.Join(xdg.StateHome, "gravity")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	writers := []io.Writer{&lumberjack.Logger{
		Filename:   filepath.Join(dir, logFile),
		MaxSize:    1,
		MaxBackups: 2,
	}}
	writers = append(writers, extra...)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("GRAVITY_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Logger = log.Output(io.MultiWriter(writers...)).
		With().Timestamp().Caller().Logger()

	return nil
}
