package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/6viph5/gravity/internal/artwork"
	"github.com/6viph5/gravity/internal/backend"
	"github.com/6viph5/gravity/internal/settings"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the launcher can run",
	Long: `Check the launcher's environment: the settings file, the artwork
cache directory and the backend service connection.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	failed := false

	store, err := settings.Open()
	if err != nil {
		printStatus("✗", fmt.Sprintf("Settings unreadable: %v", err), color.FgRed)
		return err
	}
	printStatus("✓", "Settings at "+store.Path(), color.FgGreen)

	if _, err := artwork.NewCache(); err != nil {
		printStatus("⚠", fmt.Sprintf("Artwork cache unavailable: %v", err), color.FgYellow)
	} else {
		printStatus("✓", "Artwork cache writable", color.FgGreen)
	}

	url := store.BackendURL()
	if backendURLFlag != "" {
		url = backendURLFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := backend.Connect(ctx, url)
	if err != nil {
		printStatus("✗", fmt.Sprintf("Backend unreachable at %s: %v", url, err), color.FgRed)
		failed = true
	} else {
		defer client.Close()
		if profiles, err := client.GetProfiles(ctx); err != nil {
			printStatus("✗", fmt.Sprintf("Backend not answering commands: %v", err), color.FgRed)
			failed = true
		} else {
			printStatus("✓", fmt.Sprintf("Backend reachable, %d profiles", len(profiles)), color.FgGreen)
		}
	}

	if failed {
		return fmt.Errorf("some checks failed")
	}
	return nil
}

func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
