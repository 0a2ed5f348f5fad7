package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/6viph5/gravity/internal/session"
)

func (a *App) handleSelectionKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "m":
		return a.startLogin()
	case "o":
		a.sess.ChooseOffline()
		a.nameInput.SetValue("")
		return a.nameInput.Focus()
	case "q":
		a.quitting = true
		return tea.Quit
	}
	return nil
}

func (a *App) handleOfflineKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.nameInput.Blur()
		a.sess.Back()
		return nil
	case "enter":
		return a.submitOfflineLogin()
	}
	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	return cmd
}

func (a *App) submitOfflineLogin() tea.Cmd {
	name := strings.TrimSpace(a.nameInput.Value())
	if name == "" {
		return nil
	}
	be := a.be
	return func() tea.Msg {
		blocked, err := be.CheckBlacklist(context.Background(), name)
		return blacklistCheckedMsg{name: name, blocked: blocked, err: err}
	}
}

func (a *App) handleBlacklistChecked(msg blacklistCheckedMsg) tea.Cmd {
	if a.sess.View() != session.ViewOfflineInput {
		return nil
	}

	blocked := msg.blocked
	if msg.err != nil {
		// Permissive fallback: an unreachable policy service never locks
		// the user out.
		log.Warn().Err(msg.err).Msg("skipping blacklist check")
		blocked = false
	}
	if blocked {
		a.alert = fmt.Sprintf("The name %q is blocked. Please choose another.", msg.name)
		return nil
	}

	ident := session.Identity{Name: msg.name, Kind: session.KindOffline}
	if err := a.store.SetIdentity(ident); err != nil {
		log.Warn().Err(err).Msg("persisting identity failed")
	}

	a.nameInput.Blur()
	a.sess.CompleteLogin(ident)
	return tea.Batch(a.premiumProbeCmd(msg.name), a.enterDashboard())
}

// premiumProbeCmd checks whether the name belongs to a paid account. The
// result is informational only; login never depends on it.
func (a *App) premiumProbeCmd(name string) tea.Cmd {
	be := a.be
	return func() tea.Msg {
		premium, err := be.CheckPremiumName(context.Background(), name)
		if err != nil {
			log.Debug().Err(err).Msg("premium name check failed")
			return nil
		}
		log.Debug().Str("name", name).Bool("premium", premium).Msg("premium name check")
		return nil
	}
}

func (a *App) logout() {
	if err := a.store.ClearIdentity(); err != nil {
		log.Warn().Err(err).Msg("clearing persisted identity failed")
	}
	a.sess.Logout()
}
