// Package parser implements a hand-written recursive-descent parser
// (spec §4.2) that turns a token.Tokenizer's stream into an ast.Document.
// It never aborts on the first error: a parse failure inside one
// top-level form is recorded and the parser skips to the next top-level
// keyword, so a single typo in one component does not blank out
// diagnostics for the rest of the file.
package parser

import (
	"strings"

	"github.com/paperclip-run/paperclip-core/internal/ast"
	"github.com/paperclip-run/paperclip-core/internal/loc"
	"github.com/paperclip-run/paperclip-core/internal/token"
)

// topLevelKeywords is the recovery set: on error, the parser discards
// tokens until it sees one of these (or Eof), per spec §4.2's
// "skip to next top-level keyword and continue" rule.
var topLevelKeywords = map[string]bool{
	"import": true, "token": true, "trigger": true, "style": true,
	"component": true, "public": true,
}

type parser struct {
	toks []token.Token
	src  string
	pos  int
	doc  *ast.Document
	errs ParseErrors

	// lastDoc holds the most recently seen doc comment, consumed by the
	// next component declaration (spec §6's @frame/@view/@viewport).
	lastDoc string
}

// Parse scans and parses src, returning a (possibly partial) Document
// and any accumulated syntax errors. Lexical errors are folded in as
// InvalidSyntax entries so callers only need to check one error list.
func Parse(path, src string) (*ast.Document, ParseErrors) {
	documentID := ast.ComputeDocumentID(path)
	doc := ast.NewDocument(documentID, path)

	rawToks, lexErrs := token.Tokenize(path, src)
	toks := make([]token.Token, 0, len(rawToks))
	for _, tk := range rawToks {
		if tk.Kind == token.Whitespace || tk.Kind == token.LineComment {
			continue
		}
		toks = append(toks, tk)
	}

	p := &parser{toks: toks, src: src, doc: doc}
	for _, le := range lexErrs {
		p.errs = append(p.errs, errInvalidSyntax(le.Span(), "%s", le.Error()))
	}

	for !p.atEOF() {
		p.parseTopLevel()
	}
	return doc, p.errs
}

func (p *parser) atEOF() bool {
	return p.peek().Kind == token.Eof
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.Eof}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return token.Token{Kind: token.Eof}
	}
	return p.toks[i]
}

func (p *parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) isKeyword(text string) bool {
	t := p.peek()
	return t.Kind == token.Keyword && t.Text == text
}

func (p *parser) isPunct(text string) bool {
	t := p.peek()
	return t.Kind == token.Punct && t.Text == text
}

func (p *parser) expectKeyword(text string) (token.Token, bool) {
	if p.isKeyword(text) {
		return p.advance(), true
	}
	p.reportUnexpected(text)
	return token.Token{}, false
}

func (p *parser) expectPunct(text string) (token.Token, bool) {
	if p.isPunct(text) {
		return p.advance(), true
	}
	p.reportUnexpected(text)
	return token.Token{}, false
}

func (p *parser) expectIdentifier() (token.Token, bool) {
	t := p.peek()
	if t.Kind == token.Identifier {
		return p.advance(), true
	}
	p.reportUnexpected("identifier")
	return token.Token{}, false
}

func (p *parser) expectString() (token.Token, bool) {
	t := p.peek()
	if t.Kind == token.String {
		return p.advance(), true
	}
	p.reportUnexpected("string literal")
	return token.Token{}, false
}

func (p *parser) reportUnexpected(expected string) {
	t := p.peek()
	if t.Kind == token.Eof {
		p.errs = append(p.errs, errUnexpectedEOF(t.Span, expected))
		return
	}
	p.errs = append(p.errs, errUnexpectedToken(t.Span, expected, t.Text))
}

// recover discards tokens until a recognized top-level keyword or Eof,
// per spec §4.2's error-recovery rule.
func (p *parser) recover() {
	for !p.atEOF() {
		t := p.peek()
		if t.Kind == token.Keyword && topLevelKeywords[t.Text] {
			return
		}
		p.advance()
	}
}

// unquote strips the surrounding quotes from a String token's raw text
// and resolves backslash escapes.
func unquote(raw string) string {
	if len(raw) >= 2 && raw[0] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	if !strings.ContainsRune(raw, '\\') {
		return raw
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

func (p *parser) parseTopLevel() {
	startPos := p.pos

	if t := p.peek(); t.Kind == token.DocComment {
		p.lastDoc = t.Text
		p.advance()
		return
	}

	public := false
	if p.isKeyword("public") {
		public = true
		p.advance()
	}

	switch {
	case p.isKeyword("import"):
		p.parseImport()
	case p.isKeyword("token"):
		p.parseTokenDecl(public)
	case p.isKeyword("trigger"):
		p.parseTrigger(public)
	case p.isKeyword("style"):
		p.parseStyleDeclTop(public)
	case p.isKeyword("component"):
		p.parseComponent(public)
	default:
		p.reportUnexpected("import, token, trigger, style, or component")
		p.recover()
	}

	// Guard against an empty production leaving the cursor stuck.
	if p.pos == startPos && !p.atEOF() {
		p.advance()
	}
}

func (p *parser) parseImport() {
	start := p.peek().Span
	p.advance() // 'import'
	pathTok, ok := p.expectString()
	if !ok {
		p.recover()
		return
	}
	imp := ast.Import{Path: unquote(pathTok.Text)}
	if p.isKeyword("as") {
		p.advance()
		aliasTok, ok := p.expectIdentifier()
		if ok {
			imp.Alias = aliasTok.Text
		}
	}
	imp.Span = loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File}
	p.doc.Imports = append(p.doc.Imports, imp)
}

func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].Span.End
}

func (p *parser) parseTokenDecl(public bool) {
	start := p.peek().Span
	p.advance() // 'token'
	nameTok, ok := p.expectIdentifier()
	if !ok {
		p.recover()
		return
	}
	if _, ok := p.expectPunct(":"); !ok {
		p.recover()
		return
	}
	value := p.readRestOfLineValue()
	p.doc.Tokens = append(p.doc.Tokens, ast.TokenDecl{
		Public: public, Name: nameTok.Text, Value: value,
		Span: loc.Span{Start: start.Start, End: p.prevEnd(), File: start.File},
	})
}

// readRestOfLineValue consumes tokens up to (but not including) a ';'
// or a newline, reassembling the original source text by slicing
// between span offsets. Style and token values are free-form CSS-like
// text (spec §4.2's "value runs to end of line"), so this reads raw
// source rather than re-deriving structure from individual tokens —
// composite values like "8px 16px" must survive intact.
func (p *parser) readRestOfLineValue() string {
	if p.atEOF() {
		return ""
	}
	start := p.peek().Span.Start
	end := start
	line := p.lineOf(start)

	for !p.atEOF() {
		t := p.peek()
		if t.Kind == token.Punct && t.Text == ";" {
			p.advance()
			break
		}
		if t.Kind == token.Punct && t.Text == "}" {
			break
		}
		if p.lineOf(t.Span.Start) != line {
			break
		}
		end = t.Span.End
		p.advance()
	}
	return strings.TrimSpace(p.src[start:end])
}

func (p *parser) lineOf(offset int) int {
	return strings.Count(p.src[:offset], "\n")
}
