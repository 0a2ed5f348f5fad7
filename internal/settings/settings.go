// Package settings persists the launcher's small flat key-value state:
// identity, UI preferences and backend endpoint. The file is read once at
// startup and written through on every change. The Microsoft credential
// token never touches the file; it lives in the OS keyring.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/6viph5/gravity/internal/session"
)

const (
	keyUsername       = "username"
	keyUserType       = "user_type"
	keyUUID           = "uuid"
	keyUIMode         = "ui_mode"
	keyCloseAfterPlay = "close_after_play"
	keyRAMGb          = "ram_gb"
	keyBackendURL     = "backend_url"
)

const keyringService = "gravity"
const keyringTokenUser = "credential_token"

// UI layout modes for the dashboard.
const (
	UIModeSidebar = "sidebar"
	UIModeGrid    = "grid"
)

// DefaultBackendURL is where the backend service listens locally.
const DefaultBackendURL = "ws://127.0.0.1:8917/api"

// Store is the viper-backed settings file. Absent keys fall back to
// defaults.
type Store struct {
	v    *viper.Viper
	path string
}

// Open loads the settings file from the user config directory, creating
// the directory if needed.
func Open() (*Store, error) {
	dir := filepath.Join(xdg.ConfigHome, "gravity")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	return OpenPath(filepath.Join(dir, "settings.yaml"))
}

// OpenPath loads the settings file at an explicit path.
func OpenPath(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading settings: %w", err)
		}
	}

	return &Store{v: v, path: path}, nil
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyUsername, "")
	v.SetDefault(keyUserType, string(session.KindOffline))
	v.SetDefault(keyUUID, "")
	v.SetDefault(keyUIMode, UIModeSidebar)
	v.SetDefault(keyCloseAfterPlay, true)
	v.SetDefault(keyRAMGb, 2)
	v.SetDefault(keyBackendURL, DefaultBackendURL)
}

func (s *Store) save() error {
	if err := s.v.WriteConfig(); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Identity returns the persisted identity and whether one exists. When
// none does, the session starts at account selection instead of the
// dashboard fast path.
func (s *Store) Identity() (session.Identity, bool) {
	name := s.v.GetString(keyUsername)
	if name == "" {
		return session.DefaultIdentity, false
	}
	kind := session.IdentityKind(s.v.GetString(keyUserType))
	if kind != session.KindMicrosoft {
		kind = session.KindOffline
	}
	return session.Identity{
		Name: name,
		Kind: kind,
		UUID: s.v.GetString(keyUUID),
	}, true
}

// SetIdentity persists an identity.
func (s *Store) SetIdentity(ident session.Identity) error {
	s.v.Set(keyUsername, ident.Name)
	s.v.Set(keyUserType, string(ident.Kind))
	s.v.Set(keyUUID, ident.UUID)
	return s.save()
}

// ClearIdentity removes the persisted identity and its keyring token.
func (s *Store) ClearIdentity() error {
	s.v.Set(keyUsername, "")
	s.v.Set(keyUserType, string(session.KindOffline))
	s.v.Set(keyUUID, "")
	if err := s.ClearCredentialToken(); err != nil {
		return err
	}
	return s.save()
}

// UIMode returns the dashboard layout preference.
func (s *Store) UIMode() string {
	mode := s.v.GetString(keyUIMode)
	if mode != UIModeGrid {
		mode = UIModeSidebar
	}
	return mode
}

// SetUIMode persists the dashboard layout preference.
func (s *Store) SetUIMode(mode string) error {
	s.v.Set(keyUIMode, mode)
	return s.save()
}

// CloseAfterPlay reports whether the launcher should exit once the game
// starts.
func (s *Store) CloseAfterPlay() bool { return s.v.GetBool(keyCloseAfterPlay) }

// SetCloseAfterPlay persists the close-after-play flag.
func (s *Store) SetCloseAfterPlay(close bool) error {
	s.v.Set(keyCloseAfterPlay, close)
	return s.save()
}

// RAMGb returns the Java heap allocation in gigabytes.
func (s *Store) RAMGb() int {
	ram := s.v.GetInt(keyRAMGb)
	if ram < 1 {
		ram = 1
	}
	if ram > 16 {
		ram = 16
	}
	return ram
}

// SetRAMGb persists the Java heap allocation.
func (s *Store) SetRAMGb(gb int) error {
	s.v.Set(keyRAMGb, gb)
	return s.save()
}

// BackendURL returns the backend websocket endpoint.
func (s *Store) BackendURL() string { return s.v.GetString(keyBackendURL) }

// SetBackendURL persists the backend websocket endpoint.
func (s *Store) SetBackendURL(url string) error {
	s.v.Set(keyBackendURL, url)
	return s.save()
}

// SetCredentialToken stores the Microsoft credential token in the OS
// keyring.
func (s *Store) SetCredentialToken(token string) error {
	if err := keyring.Set(keyringService, keyringTokenUser, token); err != nil {
		return fmt.Errorf("storing credential token: %w", err)
	}
	return nil
}

// CredentialToken returns the stored token, or empty when none exists.
func (s *Store) CredentialToken() (string, error) {
	token, err := keyring.Get(keyringService, keyringTokenUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading credential token: %w", err)
	}
	return token, nil
}

// ClearCredentialToken removes the token from the keyring.
func (s *Store) ClearCredentialToken() error {
	err := keyring.Delete(keyringService, keyringTokenUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting credential token: %w", err)
	}
	return nil
}
