package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/6viph5/gravity/internal/settings"
	"github.com/6viph5/gravity/internal/version"
)

const consoleViewHeight = 18

func (a *App) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	if a.confirmDelete {
		if msg.String() == "y" {
			be := a.be
			return func() tea.Msg {
				return cacheDeletedMsg{err: be.DeleteCache(context.Background())}
			}
		}
		a.confirmDelete = false
		return nil
	}

	switch msg.String() {
	case "esc", "q":
		a.showSettings = false
		return nil
	case "1":
		a.settingsTab = settingsTabGeneral
		return nil
	case "2", "tab":
		if a.settingsTab == settingsTabGeneral {
			a.settingsTab = settingsTabConsole
			a.refreshConsoleView()
		} else {
			a.settingsTab = settingsTabGeneral
		}
		return nil
	}

	if a.settingsTab == settingsTabConsole {
		var cmd tea.Cmd
		a.consoleView, cmd = a.consoleView.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "u":
		a.toggleUIMode()
	case "c":
		if err := a.store.SetCloseAfterPlay(!a.store.CloseAfterPlay()); err != nil {
			log.Warn().Err(err).Msg("persisting close-after-play failed")
		}
	case "+", "=":
		a.setRAM(a.store.RAMGb() + 1)
	case "-":
		a.setRAM(a.store.RAMGb() - 1)
	case "D":
		a.confirmDelete = true
	}
	return nil
}

func (a *App) setRAM(gb int) {
	if gb < 1 || gb > 16 {
		return
	}
	if err := a.store.SetRAMGb(gb); err != nil {
		log.Warn().Err(err).Msg("persisting ram allocation failed")
	}
}

// refreshConsoleView rebuilds the console viewport content and keeps it
// pinned to the newest lines.
func (a *App) refreshConsoleView() {
	entries := a.logs.Snapshot()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsErr {
			lines = append(lines, consoleErrStyle.Render(e.Text))
		} else {
			lines = append(lines, e.Text)
		}
	}
	a.consoleView.SetContent(strings.Join(lines, "\n"))
	a.consoleView.GotoBottom()
}

func (a *App) viewSettings() string {
	general := tabStyle
	consoleTab := tabStyle
	if a.settingsTab == settingsTabGeneral {
		general = tabActiveStyle
	} else {
		consoleTab = tabActiveStyle
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		general.Render("[1] Settings"),
		consoleTab.Render("[2] Console"),
		hintStyle.Render("  v"+version.Get()),
	)

	var body string
	if a.settingsTab == settingsTabConsole {
		if a.logs.Len() == 0 {
			body = hintStyle.Render("Waiting for game logs...")
		} else {
			body = a.consoleView.View()
		}
		body += "\n" + hintStyle.Render("up/down scroll · 1 settings · esc close")
	} else {
		layout := "Classic"
		if a.uiMode == settings.UIModeGrid {
			layout = "Grid"
		}
		rows := []string{
			fmt.Sprintf("[u] Interface layout      %s", layout),
			fmt.Sprintf("[c] Close after play      %s", onOff(a.store.CloseAfterPlay())),
			fmt.Sprintf("[+/-] Java RAM            %d GB", a.store.RAMGb()),
		}
		danger := dangerStyle.Render("[D] Delete cache") +
			hintStyle.Render("  wipes downloaded versions; use if the game misbehaves")
		if a.confirmDelete {
			danger = dangerStyle.Render("Delete all cached game data? [y/N]")
		}
		body = strings.Join(rows, "\n") + "\n\n" + danger +
			"\n\n" + hintStyle.Render("2 console · esc close")
	}

	return modalStyle.Render(header + "\n\n" + body)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
