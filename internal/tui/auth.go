package tui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/6viph5/gravity/internal/backend"
	"github.com/6viph5/gravity/internal/session"
)

// startLogin begins a device authorization attempt. The attempt token tags
// every message the flow produces so that, once the user cancels, late
// results cannot resurrect the flow.
func (a *App) startLogin() tea.Cmd {
	a.sess.ChooseMicrosoft()
	a.authAttempt = a.sess.NextAttempt()
	attempt := a.authAttempt
	be := a.be
	return func() tea.Msg {
		code, err := be.StartMicrosoftLogin(context.Background())
		return deviceCodeMsg{attempt: attempt, code: code, err: err}
	}
}

func (a *App) handleDeviceCode(msg deviceCodeMsg) tea.Cmd {
	if msg.attempt != a.authAttempt || a.sess.View() != session.ViewMicrosoftLoading {
		return nil
	}
	if msg.err != nil {
		log.Error().Err(msg.err).Msg("device code request failed")
		a.alert = "Login error: " + msg.err.Error()
		a.sess.AbortLogin()
		return nil
	}

	a.device = msg.code
	a.sess.ShowDeviceCode()

	// Clipboard copy and browser open are conveniences; either may fail
	// without aborting the flow. The finish call is the flow itself.
	return tea.Batch(
		copyToClipboardCmd(msg.code.UserCode),
		a.openURLCmd(msg.code.VerificationURI),
		a.finishLoginCmd(msg.attempt, msg.code.DeviceCode),
	)
}

func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			log.Warn().Err(err).Msg("clipboard copy failed")
		}
		return nil
	}
}

func (a *App) openURLCmd(url string) tea.Cmd {
	be := a.be
	return func() tea.Msg {
		if err := be.OpenURL(context.Background(), url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("opening verification url failed")
		}
		return nil
	}
}

func (a *App) finishLoginCmd(attempt uint64, deviceCode string) tea.Cmd {
	be := a.be
	return func() tea.Msg {
		// Opaque suspend point: resolves only when the identity provider
		// confirms authorization, with no client-side timeout.
		account, err := be.FinishMicrosoftLogin(context.Background(), deviceCode)
		return authFinishedMsg{attempt: attempt, account: account, err: err}
	}
}

func (a *App) handleAuthFinished(msg authFinishedMsg) tea.Cmd {
	if msg.attempt != a.authAttempt || a.sess.View() != session.ViewMicrosoftCode {
		return nil
	}
	if msg.err != nil {
		log.Error().Err(msg.err).Msg("microsoft login failed")
		a.alert = "Login error: " + msg.err.Error()
		a.device = backend.DeviceCode{}
		a.sess.AbortLogin()
		return nil
	}

	ident := session.Identity{
		Name: msg.account.DisplayName,
		Kind: session.KindMicrosoft,
		UUID: msg.account.ID,
	}
	if err := a.store.SetIdentity(ident); err != nil {
		log.Warn().Err(err).Msg("persisting identity failed")
	}
	if err := a.store.SetCredentialToken(msg.account.CredentialToken); err != nil {
		log.Warn().Err(err).Msg("storing credential token failed")
	}

	a.device = backend.DeviceCode{}
	a.sess.CompleteLogin(ident)
	return a.enterDashboard()
}

// cancelLogin abandons the flow locally. The outstanding backend wait is
// not interrupted; its eventual result fails the attempt check and is
// silently dropped.
func (a *App) cancelLogin() {
	a.authAttempt = a.sess.NextAttempt()
	a.device = backend.DeviceCode{}
	a.sess.AbortLogin()
}

func (a *App) handleMicrosoftLoadingKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		a.cancelLogin()
	}
	return nil
}

func (a *App) handleMicrosoftCodeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.cancelLogin()
	case "o":
		return a.openURLCmd(a.device.VerificationURI)
	case "c":
		return copyToClipboardCmd(a.device.UserCode)
	}
	return nil
}
