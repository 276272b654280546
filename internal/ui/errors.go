package ui

import (
	stderrors "errors"
	"strings"

	"github.com/rileyhilliard/rtop/internal/errors"
)

// FormatError renders err for stderr: a red headline, then the cause and
// the suggestion indented beneath it.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var rtErr *errors.Error
	if !stderrors.As(err, &rtErr) {
		return ErrorStyle().Render(SymbolFail+" "+strings.TrimSpace(err.Error())) + "\n"
	}

	var b strings.Builder
	b.WriteString(ErrorStyle().Render(SymbolFail + " " + rtErr.Message))
	b.WriteString("\n")
	if rtErr.Cause != nil {
		b.WriteString("\n  ")
		b.WriteString(strings.TrimSpace(rtErr.Cause.Error()))
		b.WriteString("\n")
	}
	if rtErr.Suggestion != "" {
		b.WriteString("\n  ")
		b.WriteString(MutedStyle().Render(rtErr.Suggestion))
		b.WriteString("\n")
	}
	return b.String()
}
