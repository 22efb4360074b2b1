package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/lovincyrus/darkcyber-vault/internal/ui"
	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ui.ColorPrimary))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	trendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

func cmdStatus(c *cli.Context) error {
	resp, err := apiRequest(c, "GET", "/vault/stats", nil)
	if err != nil {
		return unreachable(c, err)
	}
	var st vault.Statistics
	if err := apiResult(resp, &st); err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("DARKCYBER_VAULT"))
	fmt.Println(renderCards(ui.StatCards(st)))
	return nil
}

// renderCards lays the dashboard cards out side by side.
func renderCards(cards []ui.StatCard) string {
	boxes := make([]string, 0, len(cards))
	for _, card := range cards {
		value := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(card.Color)).
			Render(card.Icon + " " + card.Value)

		body := strings.Join([]string{
			labelStyle.Render(strings.ToUpper(card.Label)),
			value,
			trendStyle.Render(card.Trend),
		}, "\n")

		boxes = append(boxes, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(card.Color)).
			Padding(0, 1).
			Width(20).
			Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}
