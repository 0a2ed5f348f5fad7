package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/6viph5/gravity/internal/session"
	"github.com/6viph5/gravity/internal/settings"
)

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var body string
	switch {
	case a.sess.Crash() != nil && a.sess.View() == session.ViewDashboard:
		body = a.viewCrash()
	case a.alert != "":
		body = a.viewAlert()
	case a.showSettings:
		body = a.viewSettings()
	default:
		switch a.sess.View() {
		case session.ViewSelection:
			body = a.viewSelection()
		case session.ViewOfflineInput:
			body = a.viewOfflineInput()
		case session.ViewMicrosoftLoading:
			body = a.viewMicrosoftLoading()
		case session.ViewMicrosoftCode:
			body = a.viewMicrosoftCode()
		case session.ViewDashboard:
			body = a.viewDashboard()
		}
	}

	if a.width > 0 && a.height > 0 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
	}
	return body
}

func (a *App) viewSelection() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("G R A V I T Y"),
		"",
		microsoftStyle.Render("[m] Microsoft account"),
		offlineStyle.Render("[o] Offline account"),
		"",
		hintStyle.Render("q quit"),
	)
}

func (a *App) viewOfflineInput() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("G R A V I T Y"),
		"",
		"Username",
		a.nameInput.View(),
		"",
		hintStyle.Render("enter confirm · esc back"),
	)
}

func (a *App) viewMicrosoftLoading() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("G R A V I T Y"),
		"",
		a.spin.View()+" Contacting authentication servers...",
		"",
		hintStyle.Render("esc cancel"),
	)
}

func (a *App) viewMicrosoftCode() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("AUTHORIZATION"),
		"",
		"Enter this code on the Microsoft website:",
		"",
		codeStyle.Render(a.device.UserCode),
		hintStyle.Render("(copied to clipboard)"),
		"",
		a.spin.View()+" Waiting for confirmation...",
		"",
		hintStyle.Render("o open browser · c copy again · esc cancel"),
	)
}

func (a *App) viewDashboard() string {
	if len(a.profiles) == 0 {
		return a.spin.View() + " Loading profiles..."
	}
	if a.uiMode == settings.UIModeGrid {
		return a.viewDashboardGrid()
	}
	return a.viewDashboardSidebar()
}

func (a *App) viewDashboardSidebar() string {
	var list strings.Builder
	list.WriteString(hintStyle.Render("PROFILES") + "\n")
	for i, p := range a.profiles {
		line := "  " + p.Name
		if i == a.selectedIdx {
			line = selectedStyle.Render("▪ " + p.Name)
		}
		list.WriteString(line + "\n")
	}

	detail := a.viewProfileDetail()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(4).Render(list.String()),
		detail,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewDashboardHeader(),
		"",
		body,
		"",
		a.viewStatusBar(),
		hintStyle.Render("enter play · x cancel · s settings · t layout · l logout"),
	)
}

func (a *App) viewDashboardGrid() string {
	var cards []string
	for i, p := range a.profiles {
		card := lipgloss.JoinVertical(lipgloss.Left,
			p.Name,
			badgeStyle.Render(p.Version),
			badgeStyle.Render(p.LoaderName()),
		)
		style := modalStyle
		if i == a.selectedIdx {
			style = style.BorderForeground(lipgloss.Color("15"))
		}
		cards = append(cards, style.Render(card))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewDashboardHeader(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		"",
		a.viewStatusBar(),
		hintStyle.Render("enter play · x cancel · s settings · t layout · l logout"),
	)
}

func (a *App) viewDashboardHeader() string {
	ident := a.sess.Identity()
	who := offlineStyle.Render(ident.Name)
	if ident.Kind == session.KindMicrosoft {
		who = microsoftStyle.Render(ident.Name)
	}
	return titleStyle.Render("GRAVITY") + "  " + hintStyle.Render("Hello, ") + who
}

func (a *App) viewProfileDetail() string {
	p, ok := a.selectedProfile()
	if !ok {
		return ""
	}

	badges := lipgloss.JoinHorizontal(lipgloss.Top,
		badgeStyle.Render(p.Version), " ",
		badgeStyle.Render(p.LoaderName()), " ",
		badgeStyle.Render(p.JavaRequirement()),
	)

	var action string
	switch {
	case a.sess.ActiveProfileID() == p.ID:
		action = statusStyle.Render("[x] CANCEL")
	case a.sess.Busy():
		action = hintStyle.Render("BUSY")
	case a.sess.GameReady():
		action = readyStyle.Render("[enter] PLAY")
	default:
		action = notReadyStyle.Render("[enter] DOWNLOAD")
	}

	state := "Not installed"
	if a.sess.GameReady() {
		state = "Ready to play"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		badges,
		"",
		titleStyle.Render(p.Name),
		"",
		action,
		hintStyle.Render("State: "+state),
	)
}

func (a *App) viewStatusBar() string {
	if !a.sess.Busy() && a.sess.StatusText() == "" {
		return ""
	}
	text := a.sess.StatusText()
	if a.sess.Busy() {
		return a.spin.View() + " " + statusStyle.Render(text)
	}
	return statusStyle.Render(text)
}

func (a *App) viewAlert() string {
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		a.alert,
		"",
		hintStyle.Render("press any key"),
	))
}

func (a *App) viewCrash() string {
	crash := a.sess.Crash()
	return crashModalStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		dangerStyle.Render("GAME INTERRUPTED"),
		"",
		crash.Message,
		"",
		hintStyle.Render(fmt.Sprintf("v view console (%d lines) · enter close", a.logs.Len())),
	))
}
