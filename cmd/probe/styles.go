package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/hilthontt/voicelink/pkg/signalclient"
)

var (
	primary = lipgloss.Color("#22d3ee")
	success = lipgloss.Color("#10B981")
	warning = lipgloss.Color("#F59E0B")
	failure = lipgloss.Color("#EF4444")
	muted   = lipgloss.Color("#6B7280")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	codeStyle    = lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(warning)
	errorStyle   = lipgloss.NewStyle().Foreground(failure).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1)
)

func printError(msg string) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+msg)
}

func formatEvent(ev signalclient.Event) string {
	label := fmt.Sprintf("%-15s", ev.Type)

	switch ev.Type {
	case signalclient.RoomCreated, signalclient.RoomJoined, signalclient.UserJoined, signalclient.UserLeft:
		label = successStyle.Render(label)
	case signalclient.RoomFull, signalclient.RoomNotFound:
		label = warningStyle.Render(label)
	case signalclient.ErrorEvent:
		label = errorStyle.Render(label)
	default:
		label = titleStyle.Render(label)
	}

	return label + " " + mutedStyle.Render(string(ev.Data))
}
