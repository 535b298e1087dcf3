// Package display provides terminal formatting for mailtriage output.
package display

import (
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
)

var (
	// Styles
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	ProductiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	UnproductiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	PendingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	FailedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	stripHTML = bluemonday.StrictPolicy()
)

// CategoryDot returns a colored dot for a classification category.
func CategoryDot(category string) string {
	switch category {
	case "produtivo":
		return ProductiveStyle.Render("●")
	case "improdutivo":
		return UnproductiveStyle.Render("○")
	default:
		return Dim.Render("·")
	}
}

// CategoryLabel returns a styled, fixed-width category label.
func CategoryLabel(category string) string {
	label := fmt.Sprintf("%-11s", category)
	switch category {
	case "produtivo":
		return ProductiveStyle.Render(label)
	case "improdutivo":
		return UnproductiveStyle.Render(label)
	default:
		return Dim.Render(fmt.Sprintf("%-11s", "-"))
	}
}

// StatusLabel returns a styled processing status.
func StatusLabel(status string) string {
	switch status {
	case "processed":
		return Success.Render(status)
	case "failed":
		return FailedStyle.Render(status)
	default:
		return PendingStyle.Render(status)
	}
}

// UnreadMark returns a marker for unread messages.
func UnreadMark(isRead bool) string {
	if isRead {
		return " "
	}
	return Bold.Render("*")
}

// Confidence formats a [0,1] score as a percentage.
func Confidence(score float64) string {
	return fmt.Sprintf("%.0f%%", score*100)
}

// SanitizeBody strips markup from an email body for terminal output.
func SanitizeBody(body string) string {
	return strings.TrimSpace(html.UnescapeString(stripHTML.Sanitize(body)))
}

// TimeAgo formats an ISO date string as a relative time.
func TimeAgo(isoDate string) string {
	if isoDate == "" {
		return ""
	}

	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		t, err = time.Parse(layout, isoDate)
		if err == nil {
			break
		}
	}
	if err != nil {
		return isoDate[:min(10, len(isoDate))]
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// Truncate shortens a string to maxLen runes, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// SuccessMsg prints a green checkmark + message.
func SuccessMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Success.Render("✓") + " " + msg)
}

// ErrorMsg prints a red X + message to stderr.
func ErrorMsg(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, ErrStyle.Render("✗")+" "+msg)
}

// Header prints a section header.
func Header(title string) {
	fmt.Println(Bold.Render(title))
}

// SubHeader prints a dim subsection label.
func SubHeader(title string) {
	fmt.Println(Muted.Render(title))
}

// Block prints text indented under a label, at most maxLines lines.
func Block(label, text string, maxLines int) {
	fmt.Println(Muted.Render("  " + label))
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		if maxLines > 0 && i >= maxLines {
			fmt.Printf("  │  %s\n", Dim.Render(fmt.Sprintf("... (%d more lines)", len(lines)-maxLines)))
			break
		}
		fmt.Printf("  │  %s\n", strings.TrimRight(line, " \t\r"))
	}
}
