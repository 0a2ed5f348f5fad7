// Package tui is the terminal interface of the launcher. The App model is
// the single control thread: every state mutation happens inside Update,
// asynchronous backend work runs as commands resolving to typed messages,
// and unsolicited backend events are pumped in through Program.Send.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/6viph5/gravity/internal/artwork"
	"github.com/6viph5/gravity/internal/backend"
	"github.com/6viph5/gravity/internal/console"
	"github.com/6viph5/gravity/internal/session"
	"github.com/6viph5/gravity/internal/settings"
)

// Backend is the command surface the UI drives. *backend.Client implements
// it; tests substitute a fake.
type Backend interface {
	GetProfiles(ctx context.Context) ([]backend.Profile, error)
	CheckIsInstalled(ctx context.Context, version string) (bool, error)
	InstallGame(ctx context.Context, profileID, version string) error
	LaunchGame(ctx context.Context, opts backend.LaunchOptions) error
	CheckBlacklist(ctx context.Context, username string) (bool, error)
	CheckPremiumName(ctx context.Context, username string) (bool, error)
	StartMicrosoftLogin(ctx context.Context) (backend.DeviceCode, error)
	FinishMicrosoftLogin(ctx context.Context, deviceCode string) (backend.Account, error)
	OpenURL(ctx context.Context, url string) error
	DeleteCache(ctx context.Context) error
}

// Settings tabs.
const (
	settingsTabGeneral = iota
	settingsTabConsole
)

// App is the main bubbletea model for the launcher.
type App struct {
	sess  *session.Session
	store *settings.Store
	be    Backend
	logs  *console.Buffer
	art   *artwork.Cache

	profiles    []backend.Profile
	selectedIdx int

	// profilesFetched guards the one-time profile list fetch.
	profilesFetched bool

	// authAttempt tags the current device authorization attempt; results
	// carrying any other attempt are stale and dropped.
	authAttempt uint64
	device      backend.DeviceCode

	uiMode        string
	showSettings  bool
	settingsTab   int
	confirmDelete bool
	alert         string

	nameInput   textinput.Model
	spin        spinner.Model
	consoleView viewport.Model

	width    int
	height   int
	quitting bool
}

// New builds the App. When the store holds a persisted identity the
// session starts directly on the dashboard without any backend round-trip.
func New(store *settings.Store, be Backend, art *artwork.Cache) *App {
	var sess *session.Session
	if ident, ok := store.Identity(); ok {
		sess = session.Restore(ident)
	} else {
		sess = session.New()
	}

	ti := textinput.New()
	ti.Placeholder = session.DefaultIdentity.Name
	ti.CharLimit = 16

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return &App{
		sess:        sess,
		store:       store,
		be:          be,
		logs:        console.New(),
		art:         art,
		uiMode:      store.UIMode(),
		nameInput:   ti,
		spin:        sp,
		consoleView: viewport.New(0, 0),
	}
}

// Session exposes the state container, mainly for tests.
func (a *App) Session() *session.Session { return a.sess }

// Console exposes the bounded game log, mainly for tests.
func (a *App) Console() *console.Buffer { return a.logs }

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spin.Tick}
	if a.sess.View() == session.ViewDashboard {
		cmds = append(cmds, a.enterDashboard())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.consoleView.Width = max(msg.Width-8, 20)
		a.consoleView.Height = consoleViewHeight
		a.refreshConsoleView()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case GameConsoleMsg:
		a.logs.Append(msg.Line)
		a.refreshConsoleView()
		return a, nil

	case GameStatusMsg:
		a.sess.SetStatus(msg.Text)
		return a, nil

	case GameCrashedMsg:
		a.sess.ApplyCrash(msg.Message)
		return a, nil

	case BackendGoneMsg:
		// No outstanding command will ever resolve now.
		a.sess.Release()
		a.sess.ClearStatus()
		a.alert = "Lost connection to the launcher backend."
		return a, nil

	case profilesLoadedMsg:
		return a, a.handleProfilesLoaded(msg)

	case installCheckedMsg:
		a.handleInstallChecked(msg)
		return a, nil

	case deviceCodeMsg:
		return a, a.handleDeviceCode(msg)

	case authFinishedMsg:
		return a, a.handleAuthFinished(msg)

	case blacklistCheckedMsg:
		return a, a.handleBlacklistChecked(msg)

	case installDoneMsg:
		return a, a.handleInstallDone(msg)

	case launchDoneMsg:
		a.handleLaunchDone(msg)
		return a, nil

	case statusClearMsg:
		a.sess.ClearStatusIf(msg.gen)
		return a, nil

	case cacheDeletedMsg:
		a.confirmDelete = false
		if msg.err != nil {
			a.alert = "Failed to delete cache: " + msg.err.Error()
		} else {
			a.alert = "Cache deleted. Installed versions need a reinstall."
			a.sess.SetGameReady(false)
		}
		return a, nil

	case artworkWarmedMsg:
		if msg.fetched > 0 {
			log.Debug().Int("fetched", msg.fetched).Msg("artwork cache warmed")
		}
		return a, nil
	}

	return a, nil
}

// handleKey routes key presses: modals first, then the current view.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return tea.Quit
	}

	// Any key dismisses an alert and is otherwise swallowed.
	if a.alert != "" {
		a.alert = ""
		return nil
	}

	// A pending crash is only surfaced on the dashboard; in any other view
	// it stays queued and keys route normally.
	if a.sess.Crash() != nil && a.sess.View() == session.ViewDashboard {
		return a.handleCrashKey(msg)
	}

	if a.showSettings {
		return a.handleSettingsKey(msg)
	}

	switch a.sess.View() {
	case session.ViewSelection:
		return a.handleSelectionKey(msg)
	case session.ViewOfflineInput:
		return a.handleOfflineKey(msg)
	case session.ViewMicrosoftLoading:
		return a.handleMicrosoftLoadingKey(msg)
	case session.ViewMicrosoftCode:
		return a.handleMicrosoftCodeKey(msg)
	case session.ViewDashboard:
		return a.handleDashboardKey(msg)
	}
	return nil
}

func (a *App) handleCrashKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "v":
		// Jump straight to the console to see what happened.
		a.sess.DismissCrash()
		a.showSettings = true
		a.settingsTab = settingsTabConsole
		a.refreshConsoleView()
	case "enter", "esc", "q":
		a.sess.DismissCrash()
	}
	return nil
}

func (a *App) selectedProfile() (backend.Profile, bool) {
	if a.selectedIdx < 0 || a.selectedIdx >= len(a.profiles) {
		return backend.Profile{}, false
	}
	return a.profiles[a.selectedIdx], true
}
