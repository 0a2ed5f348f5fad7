package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/6viph5/gravity/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage launcher settings",
	Long: `View or modify launcher settings.

Without arguments, displays current settings.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the value.

Settings are stored under the user config directory, e.g.
~/.config/gravity/settings.yaml`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := settings.Open()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllSettings(store)
		case 1:
			displaySettingsKey(store, args[0])
		default:
			setSettingsKey(store, args[0], args[1])
		}
	},
}

func displayAllSettings(store *settings.Store) {
	username := "(not set)"
	if ident, ok := store.Identity(); ok {
		username = fmt.Sprintf("%s (%s)", ident.Name, ident.Kind)
	}

	fmt.Printf("username: %s\n", username)
	fmt.Printf("ui_mode: %s\n", store.UIMode())
	fmt.Printf("close_after_play: %t\n", store.CloseAfterPlay())
	fmt.Printf("ram_gb: %d\n", store.RAMGb())
	fmt.Printf("backend_url: %s\n", store.BackendURL())
}

func displaySettingsKey(store *settings.Store, key string) {
	value, err := getSettingsValue(store, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

func setSettingsKey(store *settings.Store, key, value string) {
	if err := setSettingsValue(store, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Set %s = %s\n", key, value)
}

func getSettingsValue(store *settings.Store, key string) (string, error) {
	switch strings.ToLower(key) {
	case "ui_mode":
		return store.UIMode(), nil
	case "close_after_play":
		return strconv.FormatBool(store.CloseAfterPlay()), nil
	case "ram_gb":
		return strconv.Itoa(store.RAMGb()), nil
	case "backend_url":
		return store.BackendURL(), nil
	default:
		return "", fmt.Errorf("unknown settings key: %s", key)
	}
}

func setSettingsValue(store *settings.Store, key, value string) error {
	switch strings.ToLower(key) {
	case "ui_mode":
		if value != settings.UIModeSidebar && value != settings.UIModeGrid {
			return fmt.Errorf("ui_mode must be %q or %q", settings.UIModeSidebar, settings.UIModeGrid)
		}
		return store.SetUIMode(value)
	case "close_after_play":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("close_after_play must be true or false")
		}
		return store.SetCloseAfterPlay(b)
	case "ram_gb":
		gb, err := strconv.Atoi(value)
		if err != nil || gb < 1 || gb > 16 {
			return fmt.Errorf("ram_gb must be a number between 1 and 16")
		}
		return store.SetRAMGb(gb)
	case "backend_url":
		if !strings.HasPrefix(value, "ws://") && !strings.HasPrefix(value, "wss://") {
			return fmt.Errorf("backend_url must be a ws:// or wss:// URL")
		}
		return store.SetBackendURL(value)
	default:
		return fmt.Errorf("unknown settings key: %s", key)
	}
}
