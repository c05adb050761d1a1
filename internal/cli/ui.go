package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/CortexTrack/consts"
	"github.com/dyike/CortexTrack/internal/models"
	"github.com/dyike/CortexTrack/internal/pipeline"
	"github.com/dyike/CortexTrack/internal/tracker"
)

// UI styles
var (
	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2).
		Width(76)

	phaseStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))

	// Status styles
	pendingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	runningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	completedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	footerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	doneStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)
)

var phaseTitles = map[string]string{
	consts.PhaseAnalysis: "👥 Analyst Team",
	consts.PhaseResearch: "🔬 Research Team",
	consts.PhaseTrading:  "💼 Trading Team",
	consts.PhaseRisk:     "⚖️  Risk Management Team",
}

// ClearScreen clears the terminal screen
func ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// RenderSnapshot renders the full twelve-role progress view.
func RenderSnapshot(st tracker.Status) string {
	snap := st.Snapshot
	var b strings.Builder

	header := fmt.Sprintf("📊 %s | 📅 %s | %s",
		orPlaceholder(snap.Symbol), orPlaceholder(snap.TradeDate), overallLabel(snap.Status))
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	for _, phase := range pipeline.Phases() {
		b.WriteString(phaseStyle.Render(phaseTitles[phase]))
		b.WriteString("\n")
		for _, role := range snap.Roles {
			if role.Phase != phase {
				continue
			}
			b.WriteString(formatRoleLine(role))
		}
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render(footerLine(st, snap)))
	b.WriteString("\n")
	return b.String()
}

func formatRoleLine(role models.RoleView) string {
	var style lipgloss.Style
	var icon string

	switch role.Status {
	case consts.StatusCompleted:
		style, icon = completedStyle, "✅"
	case consts.StatusRunning:
		style, icon = runningStyle, "🔄"
	case consts.StatusError:
		style, icon = errorStyle, "❌"
	default:
		style, icon = pendingStyle, "⏳"
	}

	line := fmt.Sprintf("  %s %-22s %s", icon, role.DisplayName, style.Render(role.Status))
	if role.Duration > 0 {
		line += pendingStyle.Render(fmt.Sprintf("  (%s)", role.Duration.Round(time.Second)))
	}
	if role.Output != "" {
		line += pendingStyle.Render("  " + truncate(role.Output, 34))
	}
	return line + "\n"
}

func footerLine(st tracker.Status, snap *models.PipelineSnapshot) string {
	parts := []string{
		fmt.Sprintf("%d/%d agents complete", snap.CompletedCount(), len(snap.Roles)),
	}
	if st.Refreshing {
		parts = append(parts, "refreshing")
	}
	if !st.LastUpdated.IsZero() {
		parts = append(parts, "updated "+st.LastUpdated.Format("15:04:05"))
	}
	if st.LastErr != nil {
		parts = append(parts, "last error: "+st.LastErr.Error())
	}
	return strings.Join(parts, " | ")
}

// RenderRoleTable lists the canonical pipeline, phase by phase.
func RenderRoleTable() string {
	var b strings.Builder
	for _, phase := range pipeline.Phases() {
		b.WriteString(phaseStyle.Render(phaseTitles[phase]))
		b.WriteString("\n")
		for _, role := range pipeline.Roles() {
			if role.Phase != phase {
				continue
			}
			b.WriteString(fmt.Sprintf("  %-22s %s\n", role.ID, pendingStyle.Render(role.DisplayName)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderUpstream shows which roles feed the given role.
func RenderUpstream(roleID string) string {
	role, _ := pipeline.RoleByID(roleID)
	ups := pipeline.UpstreamOf(roleID)

	var b strings.Builder
	b.WriteString(phaseStyle.Render(fmt.Sprintf("%s (%s)", role.DisplayName, role.ID)))
	b.WriteString("\n")
	if len(ups) == 0 {
		b.WriteString(pendingStyle.Render("  independent data-gathering role, no upstream input"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("  receives output from:\n")
	for _, up := range ups {
		b.WriteString(fmt.Sprintf("    - %-22s %s\n", up.ID, pendingStyle.Render(up.DisplayName)))
	}
	return b.String()
}

func overallLabel(status string) string {
	switch status {
	case consts.OverallComplete:
		return completedStyle.Render("complete")
	case consts.OverallInProgress:
		return runningStyle.Render("in progress")
	default:
		return pendingStyle.Render("no data")
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
