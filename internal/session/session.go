// Package session holds the client-side state for a launcher run. The
// Session is the single state container for view navigation, identity and
// operation status; it is mutated only through its named transition methods
// and only from the update loop.
package session

// View identifies which screen the launcher is presenting.
type View int

const (
	ViewSelection View = iota
	ViewOfflineInput
	ViewMicrosoftLoading
	ViewMicrosoftCode
	ViewDashboard
)

func (v View) String() string {
	switch v {
	case ViewSelection:
		return "selection"
	case ViewOfflineInput:
		return "offline-input"
	case ViewMicrosoftLoading:
		return "microsoft-loading"
	case ViewMicrosoftCode:
		return "microsoft-code"
	case ViewDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// IdentityKind distinguishes offline from Microsoft accounts.
type IdentityKind string

const (
	KindOffline   IdentityKind = "offline"
	KindMicrosoft IdentityKind = "microsoft"
)

// Identity is the account the game is launched with.
type Identity struct {
	Name string
	Kind IdentityKind
	UUID string
}

// DefaultIdentity is used until the user logs in.
var DefaultIdentity = Identity{Name: "Steve", Kind: KindOffline}

// CrashReport is a backend-reported abnormal game termination. While one is
// pending no operation slot may be held.
type CrashReport struct {
	Message string
}

// Session is the mutable state for the current run.
type Session struct {
	view       View
	identity   Identity
	selectedID string
	statusText string
	statusGen  uint64
	gameReady  bool
	crash      *CrashReport

	tokens TokenSource
	slot   Slot
}

// New creates a session starting at the account selection screen.
func New() *Session {
	return &Session{view: ViewSelection, identity: DefaultIdentity}
}

// Restore creates a session for a persisted identity, skipping login and
// starting directly on the dashboard.
func Restore(ident Identity) *Session {
	return &Session{view: ViewDashboard, identity: ident}
}

func (s *Session) View() View          { return s.view }
func (s *Session) Identity() Identity  { return s.identity }
func (s *Session) StatusText() string  { return s.statusText }
func (s *Session) GameReady() bool     { return s.gameReady }
func (s *Session) Crash() *CrashReport { return s.crash }

// SelectedProfileID is the profile the UI is focused on, independent of any
// in-flight operation.
func (s *Session) SelectedProfileID() string { return s.selectedID }

// ActiveProfileID is the profile with an operation in flight, or empty.
func (s *Session) ActiveProfileID() string { return s.slot.ProfileID() }

// Busy reports whether an install or launch operation is in flight.
func (s *Session) Busy() bool { return s.slot.Held() }

// NextAttempt issues a fresh token for tagging a long-lived operation so
// its late results can be recognised as stale.
func (s *Session) NextAttempt() uint64 { return s.tokens.Next() }

// ChooseMicrosoft begins the device authorization flow.
func (s *Session) ChooseMicrosoft() {
	if s.view == ViewSelection {
		s.view = ViewMicrosoftLoading
	}
}

// ChooseOffline moves to the offline name entry screen.
func (s *Session) ChooseOffline() {
	if s.view == ViewSelection {
		s.view = ViewOfflineInput
	}
}

// Back returns from name entry to the account selection screen.
func (s *Session) Back() {
	if s.view == ViewOfflineInput {
		s.view = ViewSelection
	}
}

// ShowDeviceCode presents the verification code screen once a device code
// has been obtained.
func (s *Session) ShowDeviceCode() {
	if s.view == ViewMicrosoftLoading {
		s.view = ViewMicrosoftCode
	}
}

// CompleteLogin installs the authenticated identity and enters the
// dashboard. Used by both the offline and the Microsoft paths.
func (s *Session) CompleteLogin(ident Identity) {
	s.identity = ident
	s.view = ViewDashboard
}

// AbortLogin returns to account selection from any point of a login flow.
func (s *Session) AbortLogin() {
	s.view = ViewSelection
}

// Logout clears the identity and any operation state and returns to
// account selection.
func (s *Session) Logout() {
	s.identity = DefaultIdentity
	s.slot.Release()
	s.clearStatus()
	s.view = ViewSelection
}

// SelectProfile changes the UI focus. Readiness for the new profile is
// unknown until the next install check completes.
func (s *Session) SelectProfile(id string) {
	s.selectedID = id
	s.gameReady = false
}

// SetGameReady records the install-presence of the selected profile.
func (s *Session) SetGameReady(ready bool) { s.gameReady = ready }

// Acquire takes the exclusive operation slot for the given profile. It
// fails when any operation is already in flight, for any profile.
func (s *Session) Acquire(profileID string) (uint64, bool) {
	if s.slot.Held() {
		return 0, false
	}
	tok := s.tokens.Next()
	s.slot.acquire(profileID, tok)
	return tok, true
}

// Release frees the operation slot.
func (s *Session) Release() { s.slot.Release() }

// SlotMatches reports whether a token belongs to the operation currently
// holding the slot. Late results carrying any other token are stale.
func (s *Session) SlotMatches(token uint64) bool { return s.slot.Matches(token) }

// SetStatus replaces the progress message and returns a generation that a
// delayed clear must present, so it never wipes a newer message.
func (s *Session) SetStatus(text string) uint64 {
	s.statusGen++
	s.statusText = text
	return s.statusGen
}

// ClearStatus unconditionally clears the progress message.
func (s *Session) ClearStatus() { s.clearStatus() }

// ClearStatusIf clears the progress message only when gen still identifies
// the current one.
func (s *Session) ClearStatusIf(gen uint64) bool {
	if gen != s.statusGen {
		return false
	}
	s.clearStatus()
	return true
}

func (s *Session) clearStatus() {
	s.statusGen++
	s.statusText = ""
}

// ApplyCrash records a crash notice. Whatever operation was in flight is
// abandoned: the slot and status are cleared unconditionally. Receiving a
// crash while idle is valid and just opens the notice.
func (s *Session) ApplyCrash(message string) {
	s.crash = &CrashReport{Message: message}
	s.slot.Release()
	s.clearStatus()
}

// DismissCrash closes the crash notice.
func (s *Session) DismissCrash() { s.crash = nil }
