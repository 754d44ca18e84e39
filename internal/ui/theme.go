package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Questvault theme (CLI + TUI).

const (
	IconQuest   = "🗺️"
	IconSparkle = "✨"
	IconVault   = "🔐"
	IconDone    = "✅"
	IconCoin    = "🪙"
	IconBolt    = "⚡"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconBox     = "📦"
	IconScroll  = "📜"
	IconKey     = "🔑"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// OutboxStatus colours an outbox entry status.
func OutboxStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "delivered":
		return Good.Render("delivered")
	case "queued":
		return Warn.Render("queued")
	case "failed":
		return Bad.Render("failed")
	default:
		return Muted.Render(status)
	}
}

// QuestPhase names where a quest stands at now: upcoming, open for
// deposits, or closed.
func QuestPhase(start, window, now int64) string {
	switch {
	case now < start:
		return Muted.Render("upcoming")
	case now < start+window:
		return Good.Render("open")
	default:
		return Warn.Render("closed")
	}
}

func EffectIcon(kind string) string {
	switch kind {
	case "transfer_reward":
		return IconCoin
	case "transfer_asset", "batch_transfer_assets":
		return IconBox
	case "update_asset_attributes":
		return IconBolt
	case "set_viewing_key", "register_receive":
		return IconKey
	default:
		return IconScroll
	}
}
