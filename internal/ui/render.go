package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/dedent"
	"github.com/raine/pricesnap/internal/prediction"
	"github.com/raine/pricesnap/internal/pricing"
)

func formatReplyText(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

// confidencePercent rounds confidence to a whole percentage.
func confidencePercent(c float64) int {
	return int(math.Round(prediction.ClampConfidence(c) * 100))
}

// FormatResult renders a result as plain text for non-interactive output.
func FormatResult(r prediction.Result) string {
	return formatReplyText(`
		We think this is: %s
		Estimated Retail Price: %s
		Est. Manufacturing Cost: %s
		Likely Import From: %s
		Confidence: %d%%`,
		r.ObjectName, r.Price, r.ManufacturingCost, r.ImportLocation, confidencePercent(r.Confidence))
}

// Notice is the short status line shown after an analysis.
func Notice(report pricing.Report) (title, detail string, ok bool) {
	switch {
	case !report.Degraded():
		return MsgAnalysisDone, "", true
	case report.Source == prediction.SourceLocal:
		return MsgAnalysisDone, MsgLocalFallback, true
	default:
		return MsgAnalysisFailed, MsgAnalysisHint, false
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	priceStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	nameStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	barFillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
)

const barWidth = 20

func confidenceBar(c float64) string {
	filled := confidencePercent(c) * barWidth / 100
	return barFillStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

// RenderCard renders a result the way the result screen shows it.
func RenderCard(r prediction.Result) string {
	rows := []string{
		mutedStyle.Render(MsgResultSubtitle),
		"",
		labelStyle.Render("We think this is:"),
		nameStyle.Render(r.ObjectName),
		"",
		labelStyle.Render("Estimated Retail Price:"),
		priceStyle.Render(r.Price),
		"",
		labelStyle.Render("Est. Manufacturing Cost:"),
		nameStyle.Render(r.ManufacturingCost),
		"",
		labelStyle.Render("Likely Import From:"),
		nameStyle.Render(r.ImportLocation),
		"",
		fmt.Sprintf("%s %s %d%%", labelStyle.Render("Confidence"), confidenceBar(r.Confidence), confidencePercent(r.Confidence)),
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderNotice renders the status line for a report.
func RenderNotice(report pricing.Report) string {
	title, detail, ok := Notice(report)
	style := successStyle
	mark := "✓ "
	if !ok {
		style = errorStyle
		mark = "✗ "
	}
	out := style.Render(mark + title)
	if detail != "" {
		out += "\n" + mutedStyle.Render("  "+detail)
	}
	return out
}
