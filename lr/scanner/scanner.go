/*
Package scanner defines an interface for scanners to be used with the parsers of
package lr/driver.

Parsers pull tokens one at a time. Three tokenizer implementations are provided:
(1) a tokenizer over a slice of tokens, which may be read from a token file,
(2) a thin wrapper over the Go std lib 'text/scanner', and (3) an adapter for
lexmachine, living in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/scanner"

	"github.com/npillmayer/lrdrive"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrdrive.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrdrive.scanner")
}

// Tokenizer is a scanner interface. NextToken returns false as its second result
// if the input is exhausted. Tokenizers do not synthesize an end marker; this is
// left to the parser.
type Tokenizer interface {
	NextToken() (lrdrive.Token, bool)
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the
// tokenizers of this package as well as the LexMachine scanner.
type DefaultToken struct {
	kind   lrdrive.Symbol
	lexeme string
	Val    interface{}
	span   lrdrive.Span
	line   int
}

var _ lrdrive.Token = DefaultToken{}
var _ lrdrive.Located = DefaultToken{}

// MakeDefaultToken creates a token for a terminal.
func MakeDefaultToken(typ lrdrive.Symbol, lexeme string, span lrdrive.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

// Terminal creates a token for terminal name without position information.
// If lexeme is empty, the terminal name is used instead.
func Terminal(name, lexeme string) DefaultToken {
	if lexeme == "" {
		lexeme = name
	}
	return DefaultToken{kind: lrdrive.T(name), lexeme: lexeme}
}

// AtLine returns a copy of t, located at a source line.
func (t DefaultToken) AtLine(line int) DefaultToken {
	t.line = line
	return t
}

func (t DefaultToken) TokType() lrdrive.Symbol {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() lrdrive.Span {
	return t.span
}

// Line returns the source line of a token, or 0 if unknown.
func (t DefaultToken) Line() int {
	return t.line
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("%s(%q)", t.kind.Name, t.lexeme)
}

// --- Slices of tokens ------------------------------------------------------

// SliceTokenizer is a tokenizer over an already materialized sequence of tokens.
type SliceTokenizer struct {
	tokens []lrdrive.Token
	pos    int
}

var _ Tokenizer = (*SliceTokenizer)(nil)

// NewSliceTokenizer creates a tokenizer which returns tokens in order.
func NewSliceTokenizer(tokens []lrdrive.Token) *SliceTokenizer {
	return &SliceTokenizer{tokens: tokens}
}

// NextToken is part of the Tokenizer interface.
func (st *SliceTokenizer) NextToken() (lrdrive.Token, bool) {
	if st.pos >= len(st.tokens) {
		return nil, false
	}
	tok := st.tokens[st.pos]
	st.pos++
	return tok, true
}

// Terminals creates a token sequence from terminal names, with each lexeme equal
// to the name of the terminal.
func Terminals(names ...string) []lrdrive.Token {
	tokens := make([]lrdrive.Token, len(names))
	for i, name := range names {
		tokens[i] = Terminal(name, name).AtLine(1)
	}
	return tokens
}

// MaxTokenLine is the maximum length of a line in a token file.
const MaxTokenLine = 16 << 20

// ReadTokens reads a token file. Every non-empty line holds one token: the name of
// the terminal, optionally followed by white space and the lexeme. Lines starting
// with '#' are comments.
//
//     # print("hi")
//     PRINT print
//     (
//     STR "hi"
//     )
//     NEWLINE
//     ENDMARKER
//
// Tokens without a lexeme have the terminal name as lexeme. Lines may be at most
// MaxTokenLine bytes long.
func ReadTokens(r io.Reader) ([]lrdrive.Token, error) {
	var tokens []lrdrive.Token
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), MaxTokenLine)
	var lineno int
	var offset uint64
	for lines.Scan() {
		lineno++
		line := lines.Text()
		start := offset
		offset += uint64(len(line)) + 1
		text := strings.TrimSpace(line)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, lexeme := text, ""
		if i := strings.IndexAny(text, " \t"); i > 0 {
			name, lexeme = text[:i], strings.TrimSpace(text[i:])
		}
		tok := Terminal(name, lexeme).AtLine(lineno)
		tok.span = lrdrive.Span{start, start + uint64(len(line))}
		tokens = append(tokens, tok)
	}
	if err := lines.Err(); err != nil {
		return tokens, fmt.Errorf("reading tokens: %w", err)
	}
	tracer().Debugf("read %d tokens from %d lines", len(tokens), lineno)
	return tokens, nil
}

// --- Go tokenizer ----------------------------------------------------------

// Terminal names of the tokens produced by the Go tokenizer. Operators and
// delimiters are terminals named after their character, e.g. "(".
const (
	Ident     = "ID"
	Int       = "INT"
	Float     = "FLOAT"
	Char      = "CHAR"
	String    = "STR"
	RawString = "RAWSTR"
	Comment   = "COMMENT"
)

// GoTokenizer is a tokenizer backed by scanner.Scanner. It accepts tokens similar
// to the Go language. Create one with NewGoTokenizer.
type GoTokenizer struct {
	scanner.Scanner
	Error        func(error) // error handler
	unifyStrings bool        // convert single chars and raw strings to strings
}

var _ Tokenizer = (*GoTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NewGoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func NewGoTokenizer(sourceID string, input io.Reader, opts ...Option) *GoTokenizer {
	t := &GoTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(fmt.Errorf("%s: %s", s.Position, msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *GoTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *GoTokenizer) NextToken() (lrdrive.Token, bool) {
	r := t.Scan()
	if r == scanner.EOF {
		tracer().Debugf("GoTokenizer reached end of input")
		return nil, false
	}
	var name string
	switch r {
	case scanner.Ident:
		name = Ident
	case scanner.Int:
		name = Int
	case scanner.Float:
		name = Float
	case scanner.Char:
		name = Char
	case scanner.String:
		name = String
	case scanner.RawString:
		name = RawString
	case scanner.Comment:
		name = Comment
	default:
		name = string(r)
	}
	if t.unifyStrings && (name == RawString || name == Char) {
		name = String
	}
	tok := MakeDefaultToken(lrdrive.T(name), t.TokenText(),
		lrdrive.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)})
	return tok.AtLine(t.Position.Line), true
}

// --- Scanner options for the Go tokenizer ----------------------------------

// Option configures a Go tokenizer.
type Option func(p *GoTokenizer)

// SkipComments sets or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *GoTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *GoTokenizer) {
		t.unifyStrings = b
	}
}
