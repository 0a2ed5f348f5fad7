package tui

import "github.com/6viph5/gravity/internal/backend"

// Messages pumped in from outside the update loop via Program.Send, one
// per backend notification method.
type (
	// GameConsoleMsg carries one line of game process output.
	GameConsoleMsg struct {
		Line string
	}

	// GameStatusMsg carries a backend progress message for the status bar.
	GameStatusMsg struct {
		Text string
	}

	// GameCrashedMsg reports an abnormal game termination.
	GameCrashedMsg struct {
		Message string
	}

	// BackendGoneMsg signals that the backend connection closed and no
	// outstanding command will resolve.
	BackendGoneMsg struct{}
)

// Results of asynchronous commands, consumed only inside Update.
type (
	profilesLoadedMsg struct {
		profiles []backend.Profile
		err      error
	}

	installCheckedMsg struct {
		profileID string
		ready     bool
		err       error
	}

	deviceCodeMsg struct {
		attempt uint64
		code    backend.DeviceCode
		err     error
	}

	authFinishedMsg struct {
		attempt uint64
		account backend.Account
		err     error
	}

	blacklistCheckedMsg struct {
		name    string
		blocked bool
		err     error
	}

	installDoneMsg struct {
		token     uint64
		profileID string
		err       error
	}

	launchDoneMsg struct {
		token uint64
		err   error
	}

	statusClearMsg struct {
		gen uint64
	}

	cacheDeletedMsg struct {
		err error
	}

	artworkWarmedMsg struct {
		fetched int
	}
)
