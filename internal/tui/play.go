package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/6viph5/gravity/internal/backend"
)

// installCompleteDelay is how long the completion message stays up before
// clearing itself.
const installCompleteDelay = 3 * time.Second

// requestPlay starts an install or launch for the profile. It is a no-op
// while any operation is in flight: the slot is the system-wide
// single-flight guard.
func (a *App) requestPlay(p backend.Profile) tea.Cmd {
	tok, ok := a.sess.Acquire(p.ID)
	if !ok {
		return nil
	}

	// A fresh run starts with an empty log.
	a.logs.Clear()
	a.refreshConsoleView()

	be := a.be
	if !a.sess.GameReady() {
		a.sess.SetStatus("Starting installation...")
		return func() tea.Msg {
			err := be.InstallGame(context.Background(), p.ID, p.Version)
			return installDoneMsg{token: tok, profileID: p.ID, err: err}
		}
	}

	a.sess.SetStatus("Launching game...")
	opts := backend.LaunchOptions{
		ProfileID:     p.ID,
		Username:      a.sess.Identity().Name,
		Version:       p.Version,
		CloseLauncher: a.store.CloseAfterPlay(),
		RAM:           a.store.RAMGb(),
	}
	return func() tea.Msg {
		err := be.LaunchGame(context.Background(), opts)
		return launchDoneMsg{token: tok, err: err}
	}
}

func (a *App) handleInstallDone(msg installDoneMsg) tea.Cmd {
	if !a.sess.SlotMatches(msg.token) {
		// Cancelled locally; the backend finished its work regardless.
		return nil
	}
	a.sess.Release()

	if msg.err != nil {
		// Terminal for this attempt; the user must re-trigger.
		a.sess.ClearStatus()
		a.alert = "Install failed: " + msg.err.Error()
		return nil
	}

	if msg.profileID == a.sess.SelectedProfileID() {
		a.sess.SetGameReady(true)
	}
	gen := a.sess.SetStatus("Installation complete!")
	return tea.Tick(installCompleteDelay, func(time.Time) tea.Msg {
		return statusClearMsg{gen: gen}
	})
}

func (a *App) handleLaunchDone(msg launchDoneMsg) {
	if !a.sess.SlotMatches(msg.token) {
		return
	}
	// Launch success means the process started, nothing more; the slot
	// frees either way.
	a.sess.Release()
	a.sess.ClearStatus()
	if msg.err != nil {
		a.alert = "Launch failed: " + msg.err.Error()
	}
}

// cancelOperation releases the busy slot locally. The backend command is
// not aborted; its late result is dropped by the token check.
func (a *App) cancelOperation() {
	if !a.sess.Busy() {
		return
	}
	a.sess.Release()
	a.sess.ClearStatus()
}
