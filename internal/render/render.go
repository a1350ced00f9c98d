// Package render formats transcripts and failures for the terminal.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/comigor/reflector/internal/config"
	"github.com/comigor/reflector/internal/prompt"
	"github.com/comigor/reflector/internal/reflection"
	"github.com/comigor/reflector/internal/transcript"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	inputStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AAAAAA"))
	draftStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4CAF50"))
	critiqueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F5A623"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1)
)

// Heading returns the label for message i of a transcript: the seed is the
// input, then drafts and critiques are numbered by round.
func Heading(i int, m transcript.Message) string {
	switch m.Role {
	case transcript.RoleInput:
		return "Input"
	case transcript.RoleGenerated:
		return fmt.Sprintf("Round %d · Draft", (i+1)/2)
	case transcript.RoleCritique:
		return fmt.Sprintf("Round %d · Critique", i/2)
	default:
		return fmt.Sprintf("%d. %s", i+1, m.Role)
	}
}

func headingStyle(r transcript.Role) lipgloss.Style {
	switch r {
	case transcript.RoleGenerated:
		return draftStyle
	case transcript.RoleCritique:
		return critiqueStyle
	default:
		return inputStyle
	}
}

// Transcript writes the whole conversation, one boxed block per message.
func Transcript(w io.Writer, mode prompt.Mode, tr transcript.Transcript) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("CONVERSATION FLOW · %s", mode)))
	b.WriteString("\n")
	for i, m := range tr.Messages() {
		b.WriteString("\n")
		b.WriteString(headingStyle(m.Role).Render(Heading(i, m)))
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(strings.TrimSpace(m.Content)))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Failure writes a short report naming where a session failed. Partial
// transcripts are deliberately not shown.
func Failure(w io.Writer, err error) error {
	var (
		failure   *reflection.CompletionFailure
		violation *reflection.InvariantViolation
		cfgErr    *config.ConfigurationError
		title     string
	)
	switch {
	case errors.As(err, &failure):
		title = fmt.Sprintf("Round %d %s failed", failure.Round, failure.Stage)
	case errors.As(err, &violation):
		title = fmt.Sprintf("Round %d %s aborted", violation.Round, violation.Stage)
	case errors.As(err, &cfgErr):
		title = "Configuration error"
	default:
		title = "Refinement failed"
	}
	body := errorStyle.Render(title) + "\n" + err.Error()
	_, werr := io.WriteString(w, errorBoxStyle.Render(body)+"\n")
	return werr
}
