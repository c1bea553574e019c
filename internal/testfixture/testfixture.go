// Package testfixture provides dedented multi-line `.pc` source
// fixtures and snapshot helpers for package tests, adapted from the
// teacher's internal/test_utils package.
package testfixture

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/google/go-cmp/cmp"
	"github.com/lithammer/dedent"
)

// Source dedents a multi-line `.pc` fixture written as an indented Go
// string literal, trims stray leading/trailing blank lines, and
// shortens runs of blank lines (each non-overlapping "\n\n\n" becomes
// "\n\n"), so fixtures can be written indented alongside the test
// function that uses them.
func Source(input string) string {
	return strings.ReplaceAll(
		strings.TrimLeft(
			strings.TrimRight(dedent.Dedent(input), " \n\r"),
			" \t\r\n"),
		"\n\n\n", "\n\n")
}

// ANSIDiff renders a cmp.Diff with ANSI color codes on the +/- lines,
// for readable test failure output in a terminal.
func ANSIDiff(x, y interface{}, opts ...cmp.Option) string {
	escapeCode := func(code int) string {
		return fmt.Sprintf("\x1b[%dm", code)
	}
	diff := cmp.Diff(x, y, opts...)
	if diff == "" {
		return ""
	}
	lines := strings.Split(diff, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "-"):
			lines[i] = escapeCode(31) + l + escapeCode(0)
		case strings.HasPrefix(l, "+"):
			lines[i] = escapeCode(32) + l + escapeCode(0)
		}
	}
	return strings.Join(lines, "\n")
}

// RedactTestName strips characters a snapshot filename can't contain.
func RedactTestName(testCaseName string) string {
	r := strings.NewReplacer(
		"#", "_", "<", "_", ">", "_", ")", "_", "(", "_",
		":", "_", " ", "_", "'", "_", "\"", "_", "@", "_",
		"`", "_", "+", "_",
	)
	return r.Replace(testCaseName)
}

// OutputKind labels the shape of a snapshot's output block, matching
// the artifacts this pipeline actually emits.
type OutputKind int

const (
	VDOMOutput OutputKind = iota
	CSSOutput
	JSONOutput
	WireOutput
)

var outputFence = map[OutputKind]string{
	VDOMOutput: "text",
	CSSOutput:  "css",
	JSONOutput: "json",
	WireOutput: "json",
}

// SnapshotOptions configures MakeSnapshot.
type SnapshotOptions struct {
	Testing      *testing.T
	TestCaseName string
	Input        string
	Output       string
	Kind         OutputKind
	FolderName   string
}

// MakeSnapshot records a source-in/evaluated-out snapshot for one test
// case, matching the input `.pc` fixture against its expected output.
func MakeSnapshot(opts *SnapshotOptions) {
	folderName := "__snapshots__"
	if opts.FolderName != "" {
		folderName = opts.FolderName
	}
	s := snaps.WithConfig(
		snaps.Filename(RedactTestName(opts.TestCaseName)),
		snaps.Dir(folderName),
	)

	var b strings.Builder
	b.WriteString("## Input\n\n```pc\n")
	b.WriteString(Source(opts.Input))
	b.WriteString("\n```\n\n## Output\n\n```")
	b.WriteString(outputFence[opts.Kind])
	b.WriteString("\n")
	b.WriteString(Source(opts.Output))
	b.WriteString("\n```")

	s.MatchSnapshot(opts.Testing, b.String())
}
