// Package diag implements the error-accumulation discipline used across
// the tokenizer, parser, evaluator, and mutation engine: errors are
// collected rather than aborting the pipeline (spec §7), and rendered
// with source context on demand.
package diag

import (
	"github.com/paperclip-run/paperclip-core/internal/loc"
)

// SpannedError is any error that carries a source span, allowing the
// Handler to render it with a caret underline.
type SpannedError interface {
	error
	Span() loc.Span
	Code() loc.DiagnosticCode
}

// Handler accumulates diagnostics produced while processing a single
// document. It never aborts processing on its own; callers decide
// whether accumulated errors should fail a higher-level operation.
type Handler struct {
	filename string
	errors   []SpannedError
	warnings []SpannedError
	infos    []SpannedError
	hints    []SpannedError
}

// NewHandler creates a Handler for a single file path (used only for
// diagnostic rendering, not for any filesystem access).
func NewHandler(filename string) *Handler {
	return &Handler{filename: filename}
}

func (h *Handler) AppendError(err SpannedError) {
	if err != nil {
		h.errors = append(h.errors, err)
	}
}

func (h *Handler) AppendWarning(err SpannedError) {
	if err != nil {
		h.warnings = append(h.warnings, err)
	}
}

func (h *Handler) AppendInfo(err SpannedError) {
	if err != nil {
		h.infos = append(h.infos, err)
	}
}

func (h *Handler) AppendHint(err SpannedError) {
	if err != nil {
		h.hints = append(h.hints, err)
	}
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (h *Handler) HasErrors() bool {
	return len(h.errors) > 0
}

func (h *Handler) Errors() []SpannedError   { return h.errors }
func (h *Handler) Warnings() []SpannedError { return h.warnings }

// Diagnostics returns every recorded diagnostic, ordered error, warning,
// info, then hint, rendered as loc.DiagnosticMessage values.
func (h *Handler) Diagnostics() []loc.DiagnosticMessage {
	msgs := make([]loc.DiagnosticMessage, 0, len(h.errors)+len(h.warnings)+len(h.infos)+len(h.hints))
	for _, e := range h.errors {
		msgs = append(msgs, loc.DiagnosticMessage{Severity: loc.SeverityError, Text: e.Error(), Span: e.Span()})
	}
	for _, e := range h.warnings {
		msgs = append(msgs, loc.DiagnosticMessage{Severity: loc.SeverityWarning, Text: e.Error(), Span: e.Span()})
	}
	for _, e := range h.infos {
		msgs = append(msgs, loc.DiagnosticMessage{Severity: loc.SeverityInfo, Text: e.Error(), Span: e.Span()})
	}
	for _, e := range h.hints {
		msgs = append(msgs, loc.DiagnosticMessage{Severity: loc.SeverityHint, Text: e.Error(), Span: e.Span()})
	}
	return msgs
}

// Render renders every diagnostic against the given source text, each
// underlined with a caret per spec §7.
func (h *Handler) Render(source string) []string {
	out := make([]string, 0, len(h.errors)+len(h.warnings))
	for _, m := range h.Diagnostics() {
		out = append(out, loc.RenderWithContext(source, m.Span, m.Text))
	}
	return out
}

// Filename returns the file this handler was created for.
func (h *Handler) Filename() string {
	return h.filename
}
