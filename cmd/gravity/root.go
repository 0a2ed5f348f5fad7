package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/6viph5/gravity/internal/artwork"
	"github.com/6viph5/gravity/internal/backend"
	"github.com/6viph5/gravity/internal/logging"
	"github.com/6viph5/gravity/internal/settings"
	"github.com/6viph5/gravity/internal/tui"
)

var backendURLFlag string

var rootCmd = &cobra.Command{
	Use:   "gravity",
	Short: "Minecraft launcher",
	Long: `Gravity is a Minecraft launcher. It talks to a local backend service
over a websocket for installs, launches and Microsoft sign-in, and keeps
your profiles, settings and game logs in one place.

With no arguments it opens the launcher interface.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLauncher()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURLFlag, "backend", "", "Backend websocket URL (overrides the configured one)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
}

func runLauncher() error {
	if err := logging.Init(); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	store, err := settings.Open()
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}

	url := store.BackendURL()
	if backendURLFlag != "" {
		url = backendURLFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := backend.Connect(ctx, url)
	cancel()
	if err != nil {
		return fmt.Errorf("connect to backend at %s: %w", url, err)
	}
	defer client.Close()

	art, err := artwork.NewCache()
	if err != nil {
		log.Warn().Err(err).Msg("artwork cache unavailable")
		art = nil
	}

	app := tui.New(store, client, art)
	program := tea.NewProgram(app, tea.WithAltScreen())

	go forwardBackendEvents(client, program)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}

// forwardBackendEvents pumps backend notifications into the TUI. It exits
// when the client's event channel closes, after telling the interface the
// backend is gone.
func forwardBackendEvents(client *backend.Client, program *tea.Program) {
	for ev := range client.Events() {
		switch ev.Method {
		case backend.EventGameConsole:
			program.Send(tui.GameConsoleMsg{Line: ev.Payload})
		case backend.EventGameCrashed:
			program.Send(tui.GameCrashedMsg{Message: ev.Payload})
		case backend.EventGameStatus:
			program.Send(tui.GameStatusMsg{Text: ev.Payload})
		default:
			log.Debug().Str("method", ev.Method).Msg("unhandled backend event")
		}
	}
	program.Send(tui.BackendGoneMsg{})
}
