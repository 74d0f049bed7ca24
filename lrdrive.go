package lrdrive

import "fmt"

// --- Grammar symbols -------------------------------------------------------

// SymbolKind tells terminals from non-terminals.
type SymbolKind uint8

// Kinds of grammar symbols. The zero value is not a valid kind.
const (
	Terminal SymbolKind = iota + 1
	NonTerminal
)

// Symbol is a grammar symbol, either a terminal (a token type) or a non-terminal
// (a grammar category). Symbols are comparable and may be used as map keys.
//
//    T("PRINT")        // terminal
//    N("print_stmt")   // non-terminal
//
type Symbol struct {
	Name string
	Kind SymbolKind
}

// T creates a terminal symbol.
func T(name string) Symbol {
	return Symbol{Name: name, Kind: Terminal}
}

// N creates a non-terminal symbol.
func N(name string) Symbol {
	return Symbol{Name: name, Kind: NonTerminal}
}

// IsTerminal is a predicate.
func (s Symbol) IsTerminal() bool {
	return s.Kind == Terminal
}

// IsNull is true for the zero value of Symbol.
func (s Symbol) IsNull() bool {
	return s == Symbol{}
}

func (s Symbol) String() string {
	return s.Name
}

// --- A general purpose interface for tokens --------------------------------

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language. They are read-only to the parser.
//
// An example would be a string literal:
//
//    TokType = T("STR")      // terminal for this kind of tokens
//    Lexeme  = `"hello"`     // lexeme as it appeared in the input stream
//    Span    = 67…74         // occured from position 67 in the input stream
//
type Token interface {
	TokType() Symbol
	Lexeme() string
	Span() Span
}

// Located may be implemented by tokens which know their source line.
type Located interface {
	Line() int
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. A span denotes
// a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
