package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/6viph5/gravity/internal/settings"
)

// enterDashboard triggers the initial profile list fetch, exactly once per
// process lifetime.
func (a *App) enterDashboard() tea.Cmd {
	if a.profilesFetched {
		return nil
	}
	a.profilesFetched = true
	be := a.be
	return func() tea.Msg {
		profiles, err := be.GetProfiles(context.Background())
		return profilesLoadedMsg{profiles: profiles, err: err}
	}
}

func (a *App) handleProfilesLoaded(msg profilesLoadedMsg) tea.Cmd {
	if msg.err != nil {
		log.Error().Err(msg.err).Msg("profile fetch failed")
		a.alert = "Failed to load profiles: " + msg.err.Error()
		return nil
	}

	a.profiles = msg.profiles
	var cmds []tea.Cmd
	if len(a.profiles) > 0 {
		cmds = append(cmds, a.selectProfile(0))
	}
	if a.art != nil {
		art := a.art
		profiles := msg.profiles
		cmds = append(cmds, func() tea.Msg {
			return artworkWarmedMsg{fetched: art.Prewarm(context.Background(), profiles)}
		})
	}
	return tea.Batch(cmds...)
}

// selectProfile moves the UI focus and re-queries install presence for the
// newly selected profile. Selection is always permitted, busy or not.
func (a *App) selectProfile(idx int) tea.Cmd {
	if idx < 0 || idx >= len(a.profiles) {
		return nil
	}
	a.selectedIdx = idx
	p := a.profiles[idx]
	a.sess.SelectProfile(p.ID)
	be := a.be
	return func() tea.Msg {
		ready, err := be.CheckIsInstalled(context.Background(), p.Version)
		return installCheckedMsg{profileID: p.ID, ready: ready, err: err}
	}
}

func (a *App) handleInstallChecked(msg installCheckedMsg) {
	if msg.profileID != a.sess.SelectedProfileID() {
		// The selection moved on while the check was in flight.
		return
	}
	if msg.err != nil {
		log.Warn().Err(msg.err).Msg("install check failed")
		return
	}
	a.sess.SetGameReady(msg.ready)
}

func (a *App) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		return a.selectProfile(a.selectedIdx - 1)
	case "down", "j":
		return a.selectProfile(a.selectedIdx + 1)
	case "enter", " ":
		p, ok := a.selectedProfile()
		if !ok {
			return nil
		}
		return a.requestPlay(p)
	case "x":
		a.cancelOperation()
	case "s":
		a.showSettings = true
		a.settingsTab = settingsTabGeneral
	case "t":
		a.toggleUIMode()
	case "l":
		if !a.sess.Busy() {
			a.logout()
		}
	}
	return nil
}

func (a *App) toggleUIMode() {
	mode := settings.UIModeGrid
	if a.uiMode == settings.UIModeGrid {
		mode = settings.UIModeSidebar
	}
	a.uiMode = mode
	if err := a.store.SetUIMode(mode); err != nil {
		log.Warn().Err(err).Msg("persisting layout preference failed")
	}
}
