package evaluator

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// TokenLookup resolves a raw "name" or "alias.name" reference (the
// text inside a var(...) call) to a literal value.
type TokenLookup func(ref string) (string, bool)

// ResolveTokenRefs scans a style property value for var(...) calls
// using the CSS value lexer and substitutes each with its resolved
// token literal (spec §4.3, "Token resolution"). A reference that
// resolve cannot find is left as a CSS custom-property passthrough
// `var(--alias-name)` and returned in unknown, so the caller can raise
// an EvalError while still emitting usable CSS.
func ResolveTokenRefs(value string, resolve TokenLookup) (resolved string, unknown []string) {
	lexer := css.NewLexer(parse.NewInputString(value))
	var out strings.Builder

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt == css.FunctionToken && strings.EqualFold(strings.TrimSuffix(string(data), "("), "var") {
			ref, ok := readVarArg(lexer)
			if !ok {
				out.Write(data)
				continue
			}
			if v, found := resolve(ref); found {
				out.WriteString(v)
			} else {
				unknown = append(unknown, ref)
				out.WriteString("var(--" + strings.ReplaceAll(ref, ".", "-") + ")")
			}
			continue
		}
		out.Write(data)
	}
	return out.String(), unknown
}

// readVarArg consumes tokens up to the matching RightParenthesisToken
// of a var(...) call already opened by the caller, reassembling the
// raw reference text (an identifier, possibly dotted for "alias.name").
func readVarArg(lexer *css.Lexer) (string, bool) {
	var arg strings.Builder
	depth := 1
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			return strings.TrimSpace(arg.String()), false
		}
		switch tt {
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 {
				return strings.TrimSpace(arg.String()), true
			}
		}
		arg.Write(data)
	}
}

// HasImportant reports whether a property value carries a trailing
// `!important` flag (spec §4.2, legal style-block values).
func HasImportant(value string) bool {
	lexer := css.NewLexer(parse.NewInputString(value))
	sawBang := false
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			return false
		}
		switch tt {
		case css.DelimToken:
			sawBang = string(data) == "!"
		case css.IdentToken:
			if sawBang && strings.EqualFold(string(data), "important") {
				return true
			}
			sawBang = false
		case css.WhitespaceToken:
			// preserve sawBang across whitespace between '!' and 'important'
		default:
			sawBang = false
		}
	}
}

// StripImportant removes an existing `!important` flag (in whatever
// case/spacing the author wrote it) from a resolved property value, so
// emitStyleBlock can re-append a single canonical " !important" suffix
// rather than emitting the CssRule with the author's raw "!  IMPORTANT"
// text or similar.
func StripImportant(value string) string {
	lexer := css.NewLexer(parse.NewInputString(value))
	var out, bang strings.Builder
	pendingBang := false

	flushBang := func() {
		if pendingBang {
			out.WriteString(bang.String())
			pendingBang = false
		}
	}

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			flushBang()
			break
		}
		switch tt {
		case css.DelimToken:
			if string(data) == "!" {
				flushBang()
				pendingBang = true
				bang.Reset()
				bang.Write(data)
				continue
			}
			flushBang()
			out.Write(data)
		case css.WhitespaceToken:
			if pendingBang {
				bang.Write(data)
				continue
			}
			out.Write(data)
		case css.IdentToken:
			if pendingBang && strings.EqualFold(string(data), "important") {
				pendingBang = false
				bang.Reset()
				continue
			}
			flushBang()
			out.Write(data)
		default:
			flushBang()
			out.Write(data)
		}
	}
	return strings.TrimRight(out.String(), " \t")
}
