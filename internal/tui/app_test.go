package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zalando/go-keyring"

	"github.com/6viph5/gravity/internal/backend"
	"github.com/6viph5/gravity/internal/session"
	"github.com/6viph5/gravity/internal/settings"
)

type fakeBackend struct {
	profiles     []backend.Profile
	profilesErr  error
	installed    bool
	blocked      bool
	blacklistErr error
	installErr   error
	launchErr    error
	device       backend.DeviceCode
	deviceErr    error
	account      backend.Account
	authErr      error

	installs []string
	launches []backend.LaunchOptions
	opened   []string
	deleted  bool
}

func (f *fakeBackend) GetProfiles(context.Context) ([]backend.Profile, error) {
	return f.profiles, f.profilesErr
}

func (f *fakeBackend) CheckIsInstalled(context.Context, string) (bool, error) {
	return f.installed, nil
}

func (f *fakeBackend) InstallGame(_ context.Context, profileID, _ string) error {
	f.installs = append(f.installs, profileID)
	return f.installErr
}

func (f *fakeBackend) LaunchGame(_ context.Context, opts backend.LaunchOptions) error {
	f.launches = append(f.launches, opts)
	return f.launchErr
}

func (f *fakeBackend) CheckBlacklist(context.Context, string) (bool, error) {
	return f.blocked, f.blacklistErr
}

func (f *fakeBackend) CheckPremiumName(context.Context, string) (bool, error) {
	return false, nil
}

func (f *fakeBackend) StartMicrosoftLogin(context.Context) (backend.DeviceCode, error) {
	return f.device, f.deviceErr
}

func (f *fakeBackend) FinishMicrosoftLogin(context.Context, string) (backend.Account, error) {
	return f.account, f.authErr
}

func (f *fakeBackend) OpenURL(_ context.Context, url string) error {
	f.opened = append(f.opened, url)
	return nil
}

func (f *fakeBackend) DeleteCache(context.Context) error {
	f.deleted = true
	return nil
}

var testProfiles = []backend.Profile{
	{ID: "p1", Name: "Survival", Version: "1.21.1"},
	{ID: "p2", Name: "Modded", Version: "1.18.2", Loader: "fabric"},
}

func newTestApp(t *testing.T, be *fakeBackend) *App {
	t.Helper()
	keyring.MockInit()
	store, err := settings.OpenPath(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("opening settings: %v", err)
	}
	return New(store, be, nil)
}

// dashboardApp returns an App already logged in with profiles loaded and
// the first profile's install check resolved.
func dashboardApp(t *testing.T, be *fakeBackend) *App {
	t.Helper()
	a := newTestApp(t, be)
	a.sess.CompleteLogin(session.Identity{Name: "Alex", Kind: session.KindOffline})
	cmd := a.enterDashboard()
	if cmd == nil {
		t.Fatal("expected a profile fetch command")
	}
	_, cmd = a.Update(cmd())
	if cmd == nil {
		t.Fatal("expected an install check command")
	}
	a.Update(cmd())
	return a
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestOfflineLogin(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles}
	a := newTestApp(t, be)

	a.Update(key("o"))
	if a.sess.View() != session.ViewOfflineInput {
		t.Fatalf("view = %v, want offline input", a.sess.View())
	}
	a.Update(key("Alex"))
	_, cmd := a.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a blacklist check command")
	}
	_, cmd = a.Update(cmd())
	if a.sess.View() != session.ViewDashboard {
		t.Fatalf("view = %v, want dashboard", a.sess.View())
	}
	if got := a.sess.Identity(); got.Name != "Alex" || got.Kind != session.KindOffline {
		t.Fatalf("identity = %+v", got)
	}
	if ident, ok := a.store.Identity(); !ok || ident.Name != "Alex" {
		t.Fatalf("persisted identity = %+v ok=%v", ident, ok)
	}
}

func TestBlockedNameStaysOnInput(t *testing.T) {
	be := &fakeBackend{blocked: true}
	a := newTestApp(t, be)

	a.Update(key("o"))
	a.Update(key("Bad"))
	_, cmd := a.Update(key("enter"))
	a.Update(cmd())

	if a.sess.View() != session.ViewOfflineInput {
		t.Fatalf("view = %v, want offline input", a.sess.View())
	}
	if a.alert == "" {
		t.Error("expected a blocked-name alert")
	}
	if _, ok := a.store.Identity(); ok {
		t.Error("blocked name must not be persisted")
	}
}

func TestBlacklistErrorIsPermissive(t *testing.T) {
	be := &fakeBackend{blacklistErr: errors.New("policy service down")}
	a := newTestApp(t, be)

	a.Update(key("o"))
	a.Update(key("Alex"))
	_, cmd := a.Update(key("enter"))
	a.Update(cmd())

	if a.sess.View() != session.ViewDashboard {
		t.Fatalf("view = %v, want dashboard despite check error", a.sess.View())
	}
}

func TestPlayInstallsWhenNotReady(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles, installed: false}
	a := dashboardApp(t, be)

	_, cmd := a.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected an install command")
	}
	if !a.sess.Busy() {
		t.Fatal("expected the operation slot to be held")
	}
	a.Update(cmd())

	if len(be.installs) != 1 || be.installs[0] != "p1" {
		t.Fatalf("installs = %v", be.installs)
	}
	if a.sess.Busy() {
		t.Error("slot must free on completion")
	}
	if !a.sess.GameReady() {
		t.Error("selected profile must be ready after install")
	}
	if a.sess.StatusText() != "Installation complete!" {
		t.Errorf("status = %q", a.sess.StatusText())
	}
}

func TestPlayIsNoOpWhileBusy(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles}
	a := dashboardApp(t, be)

	_, first := a.Update(key("enter"))
	if first == nil {
		t.Fatal("expected an install command")
	}
	_, second := a.Update(key("enter"))
	if second != nil {
		t.Error("a second play while busy must be a no-op")
	}
	a.Update(first())
	if len(be.installs) != 1 {
		t.Fatalf("installs = %v, want exactly one", be.installs)
	}
}

func TestCancelDropsLateResult(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles}
	a := dashboardApp(t, be)

	_, cmd := a.Update(key("enter"))
	late := cmd()

	a.Update(key("x"))
	if a.sess.Busy() {
		t.Fatal("cancel must free the slot")
	}
	if a.sess.StatusText() != "" {
		t.Fatalf("status = %q, want empty after cancel", a.sess.StatusText())
	}

	a.Update(late)
	if a.sess.GameReady() {
		t.Error("a cancelled install's late result must not flip readiness")
	}
	if a.sess.StatusText() != "" {
		t.Errorf("status = %q, want empty", a.sess.StatusText())
	}
}

func TestLaunchWhenReady(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles, installed: true}
	a := dashboardApp(t, be)
	a.store.SetRAMGb(6)
	a.store.SetCloseAfterPlay(false)

	_, cmd := a.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a launch command")
	}
	a.Update(cmd())

	if len(be.launches) != 1 {
		t.Fatalf("launches = %v", be.launches)
	}
	opts := be.launches[0]
	if opts.ProfileID != "p1" || opts.Username != "Alex" || opts.RAM != 6 || opts.CloseLauncher {
		t.Fatalf("launch options = %+v", opts)
	}
	if a.sess.Busy() || a.sess.StatusText() != "" {
		t.Error("slot and status must clear once the launch resolves")
	}
}

func TestInstallErrorAlerts(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles, installErr: errors.New("disk full")}
	a := dashboardApp(t, be)

	_, cmd := a.Update(key("enter"))
	a.Update(cmd())

	if a.sess.Busy() {
		t.Error("slot must free on failure")
	}
	if a.sess.GameReady() {
		t.Error("a failed install must not mark the profile ready")
	}
	if a.alert == "" {
		t.Error("expected an install failure alert")
	}
}

func TestPlayClearsConsole(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles}
	a := dashboardApp(t, be)

	a.Update(GameConsoleMsg{Line: "old line"})
	a.Update(GameConsoleMsg{Line: "[ERR] old error"})
	if a.logs.Len() != 2 {
		t.Fatalf("console len = %d", a.logs.Len())
	}

	a.Update(key("enter"))
	if a.logs.Len() != 0 {
		t.Errorf("console len = %d, want 0 after a fresh run", a.logs.Len())
	}
}

func TestStaleStatusClearIsDropped(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles}
	a := dashboardApp(t, be)

	// Play bumps the status generation once, completion once more.
	_, cmd := a.Update(key("enter"))
	a.Update(cmd())

	a.Update(GameStatusMsg{Text: "Verifying assets..."})
	a.Update(statusClearMsg{gen: 2})
	if a.sess.StatusText() != "Verifying assets..." {
		t.Fatalf("status = %q, a stale clear must not wipe a newer message", a.sess.StatusText())
	}
}

func TestCrashClearsActivity(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles}
	a := dashboardApp(t, be)

	a.Update(key("enter"))
	a.Update(GameCrashedMsg{Message: "exit code 1"})

	if a.sess.Crash() == nil {
		t.Fatal("expected a pending crash report")
	}
	if a.sess.Busy() || a.sess.StatusText() != "" {
		t.Error("a crash must abandon the in-flight operation")
	}

	a.Update(key("v"))
	if a.sess.Crash() != nil {
		t.Error("viewing the console must dismiss the crash")
	}
	if !a.showSettings || a.settingsTab != settingsTabConsole {
		t.Error("expected the console tab to open")
	}
}

func TestCancelledLoginDropsLateSuccess(t *testing.T) {
	be := &fakeBackend{
		device:  backend.DeviceCode{UserCode: "ABCD-1234", VerificationURI: "https://microsoft.com/link", DeviceCode: "dc"},
		account: backend.Account{ID: "uuid-1", DisplayName: "RealPlayer", CredentialToken: "tok"},
	}
	a := newTestApp(t, be)

	_, cmd := a.Update(key("m"))
	if a.sess.View() != session.ViewMicrosoftLoading {
		t.Fatalf("view = %v, want loading", a.sess.View())
	}
	a.Update(cmd())
	if a.sess.View() != session.ViewMicrosoftCode {
		t.Fatalf("view = %v, want device code", a.sess.View())
	}
	attempt := a.authAttempt

	a.Update(key("esc"))
	if a.sess.View() != session.ViewSelection {
		t.Fatalf("view = %v, want selection after cancel", a.sess.View())
	}

	a.Update(authFinishedMsg{attempt: attempt, account: be.account})
	if a.sess.View() != session.ViewSelection {
		t.Error("a cancelled attempt's late success must be dropped")
	}
	if a.sess.Identity().Kind == session.KindMicrosoft {
		t.Error("stale result must not install an identity")
	}
	if _, ok := a.store.Identity(); ok {
		t.Error("stale result must not persist an identity")
	}
}

func TestMicrosoftLoginCompletes(t *testing.T) {
	be := &fakeBackend{
		profiles: testProfiles,
		device:   backend.DeviceCode{UserCode: "ABCD-1234", VerificationURI: "https://microsoft.com/link", DeviceCode: "dc"},
		account:  backend.Account{ID: "uuid-1", DisplayName: "RealPlayer", CredentialToken: "tok"},
	}
	a := newTestApp(t, be)

	_, cmd := a.Update(key("m"))
	a.Update(cmd())
	_, cmd = a.Update(authFinishedMsg{attempt: a.authAttempt, account: be.account})
	if cmd == nil {
		t.Fatal("expected the dashboard profile fetch")
	}

	if a.sess.View() != session.ViewDashboard {
		t.Fatalf("view = %v, want dashboard", a.sess.View())
	}
	ident := a.sess.Identity()
	if ident.Name != "RealPlayer" || ident.Kind != session.KindMicrosoft || ident.UUID != "uuid-1" {
		t.Fatalf("identity = %+v", ident)
	}
	token, err := a.store.CredentialToken()
	if err != nil || token != "tok" {
		t.Fatalf("credential token = %q, %v", token, err)
	}
}

func TestSelectionMovesAndRechecks(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles, installed: true}
	a := dashboardApp(t, be)
	if !a.sess.GameReady() {
		t.Fatal("first profile should be ready")
	}

	_, cmd := a.Update(key("j"))
	if a.sess.SelectedProfileID() != "p2" {
		t.Fatalf("selected = %q", a.sess.SelectedProfileID())
	}
	if a.sess.GameReady() {
		t.Error("readiness is unknown until the check resolves")
	}
	a.Update(cmd())
	if !a.sess.GameReady() {
		t.Error("check result should mark the new selection ready")
	}
}

func TestStaleInstallCheckIgnored(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles}
	a := dashboardApp(t, be)

	_, stale := a.Update(key("j"))
	a.Update(key("k"))
	be.installed = true
	a.Update(stale())

	if a.sess.SelectedProfileID() != "p1" {
		t.Fatalf("selected = %q", a.sess.SelectedProfileID())
	}
	if a.sess.GameReady() {
		t.Error("a check for a profile no longer selected must be ignored")
	}
}

func TestLogoutBlockedWhileBusy(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles}
	a := dashboardApp(t, be)

	a.Update(key("enter"))
	a.Update(key("l"))
	if a.sess.View() != session.ViewDashboard {
		t.Fatal("logout must be refused while an operation is in flight")
	}

	a.Update(key("x"))
	a.Update(key("l"))
	if a.sess.View() != session.ViewSelection {
		t.Fatal("logout should work once idle")
	}
	if _, ok := a.store.Identity(); ok {
		t.Error("logout must clear the persisted identity")
	}
}

func TestBackendGoneReleasesSlot(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles}
	a := dashboardApp(t, be)

	a.Update(key("enter"))
	a.Update(BackendGoneMsg{})

	if a.sess.Busy() {
		t.Error("a dead backend leaves no operation to wait for")
	}
	if a.alert == "" {
		t.Error("expected a connection-lost alert")
	}
}

func TestDeleteCacheNeedsConfirmation(t *testing.T) {
	be := &fakeBackend{profiles: testProfiles, installed: true}
	a := dashboardApp(t, be)

	a.Update(key("s"))
	a.Update(key("D"))
	a.Update(key("n"))
	if be.deleted {
		t.Fatal("declining the confirmation must not delete")
	}

	a.Update(key("D"))
	_, cmd := a.Update(key("y"))
	if cmd == nil {
		t.Fatal("expected a delete command")
	}
	a.Update(cmd())
	if !be.deleted {
		t.Fatal("expected the cache delete to run")
	}
	if a.sess.GameReady() {
		t.Error("deleting the cache invalidates install state")
	}
}
