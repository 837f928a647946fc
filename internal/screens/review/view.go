package review

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tanmay/resona/internal/store"
	"github.com/tanmay/resona/internal/ui/theme"
)

const tableTimeFormat = "Jan 02 15:04"

func (r *ReviewScreen) View(width, height int) string {
	if r.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", r.errMsg))
	}
	if !r.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading participants...")
	}

	switch r.mode {
	case modeHistory:
		return r.renderHistory(width)
	case modeTranscript:
		return r.renderTranscript(width, height)
	default:
		return r.renderTable(width)
	}
}

func (r *ReviewScreen) renderTable(width int) string {
	if len(r.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	header := "  " + pad("Student", 16) + pad("Progress", 24) +
		pad("Sessions", 9) + pad("Latest", 8) + pad("Average", 9) + "Active"
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(header))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).
		Render("  " + strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")

	for i, row := range r.rows {
		prefix := "  "
		if i == r.selected {
			prefix = "> "
		}
		line := prefix + pad(clip(row.ParticipantID, 15), 16) +
			pad(row.LearningStatus(), 24) +
			pad(strconv.Itoa(row.Sessions), 9) +
			pad(row.LatestScoreLabel(), 8) +
			pad(row.AvgScoreLabel(), 9) +
			row.LastActive.Format(tableTimeFormat)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == r.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if r.exportNote != "" {
		noteStyle := lipgloss.NewStyle().Foreground(theme.Success)
		if r.exportErr {
			noteStyle = noteStyle.Foreground(theme.Error)
		}
		b.WriteString("\n")
		b.WriteString(noteStyle.Render("  " + r.exportNote))
		b.WriteString("\n")
	}

	return b.String()
}

func (r *ReviewScreen) renderHistory(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render("  Sessions · " + r.participantID))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).
		Render("  " + strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")

	if len(r.recs) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("  No sessions for this participant."))
		b.WriteString("\n")
		return b.String()
	}

	for i, rec := range r.recs {
		prefix := "  "
		if i == r.recSelected {
			prefix = "> "
		}
		line := prefix + rec.Timestamp.Format("Jan 02, 2006 15:04") + "  " +
			pad(fmt.Sprintf("%d/100", rec.Score), 9) +
			pad(rec.Status, 6) +
			fmt.Sprintf("topics %d/%d", rec.TopicIndex, r.topicsTotal())

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == r.recSelected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

func (r *ReviewScreen) renderTranscript(width, height int) string {
	if r.recSelected >= len(r.recs) {
		return ""
	}
	rec := r.recs[r.recSelected]

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render("  " + r.participantID + " · " + store.FormatTime(rec.Timestamp)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("  Score %d/100 · %s · topics %d/%d",
			rec.Score, rec.Status, rec.TopicIndex, r.topicsTotal())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).
		Render("  " + strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	lines := r.transcriptLines(rec, max(width-8, 20))
	visible := r.transcriptBodyHeight(height)
	top := min(r.scrollTop, max(len(lines)-visible, 0))
	end := min(top+visible, len(lines))
	for _, line := range lines[top:end] {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case r.analyzing:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("  Analyzing session..."))
	case end < len(lines):
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  ↓ %d more lines", len(lines)-end)))
	default:
		if _, ok := r.analyses[rec.ID]; !ok {
			b.WriteString(theme.Hint.Render("  press A for an instructor analysis"))
		}
	}

	return b.String()
}

// transcriptLines wraps the stored transcript, with the analysis
// appended once it has been fetched.
func (r *ReviewScreen) transcriptLines(rec store.SessionRecord, wrapWidth int) []string {
	body := lipgloss.NewStyle().Width(wrapWidth).Render(rec.Transcript)
	lines := strings.Split(body, "\n")

	if text, ok := r.analyses[rec.ID]; ok {
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Analysis"),
			lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(wrapWidth, 40))))
		wrapped := lipgloss.NewStyle().Width(wrapWidth).Render(text)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}

// transcriptBodyHeight is the line budget for the scrolling body inside
// the content area: three header lines, a blank, and the footer note.
func (r *ReviewScreen) transcriptBodyHeight(height int) int {
	return max(height-6, 1)
}

func (r *ReviewScreen) topicsTotal() int {
	if len(r.rows) > 0 {
		return r.rows[0].TopicsTotal
	}
	return 0
}

// pad right-pads s to display width w, leaving one separating space at
// minimum.
func pad(s string, w int) string {
	gap := w - lipgloss.Width(s)
	if gap < 1 {
		gap = 1
	}
	return s + strings.Repeat(" ", gap)
}

// clip shortens s to at most w display cells.
func clip(s string, w int) string {
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	return string(runes[:w-1]) + "…"
}
