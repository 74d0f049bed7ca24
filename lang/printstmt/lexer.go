package printstmt

import (
	"sync"

	"github.com/npillmayer/lrdrive"
	"github.com/npillmayer/lrdrive/lr/scanner"
	"github.com/npillmayer/lrdrive/lr/scanner/lexmach"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
)

// tracer traces with key 'lrdrive.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrdrive.scanner")
}

// Terminals of the print statement language, apart from the literals
// ";", "(", ")" and ",".
const (
	NEWLINE = "NEWLINE"
	STR     = "STR"
	ID      = "ID"
	PRINT   = "PRINT"
	UNKNOWN = "UNKNOWN"
)

var literals = []string{";", "(", ")", ","}
var keywords = []string{PRINT}

var tokenIds = map[string]int{
	NEWLINE: 1,
	STR:     2,
	ID:      3,
	PRINT:   4,
	UNKNOWN: 5,
	";":     6,
	"(":     7,
	")":     8,
	",":     9,
}

var lexer struct {
	once    sync.Once
	adapter *lexmach.LMAdapter
	err     error
}

func lexerInit(lx *lexmachine.Lexer) {
	lx.Add([]byte("( |\t|\r|\f|\v)+"), lexmach.Skip)
	lx.Add([]byte(`\n`), lexmach.MakeToken(NEWLINE, tokenIds[NEWLINE]))
	lx.Add([]byte(`"[^"]*"`), lexmach.MakeToken(STR, tokenIds[STR]))
	lx.Add([]byte(`"[^"]*`), lexmach.MakeToken(STR, tokenIds[STR])) // unterminated
	lx.Add([]byte(`([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_)*`), lexmach.MakeToken(ID, tokenIds[ID]))
	lx.Add([]byte(`.`), lexmach.MakeToken(UNKNOWN, tokenIds[UNKNOWN]))
}

func lmAdapter() (*lexmach.LMAdapter, error) {
	lexer.once.Do(func() {
		lexer.adapter, lexer.err = lexmach.NewLMAdapter(lexerInit, literals, keywords, tokenIds)
	})
	return lexer.adapter, lexer.err
}

// Tokenize splits a source text into tokens:
//
// White space other than newlines (blank, tab, carriage return, form feed and
// vertical tab) is skipped. A newline is a NEWLINE token, a
// double-quoted string a STR token, where an unterminated string runs to the end of
// input. Identifiers are ID tokens, apart from `print`, which is PRINT. The
// characters ";", "(", ")" and "," are terminals of their own; any other character
// is an UNKNOWN token.
//
// If there are any tokens and the last one is not a NEWLINE, a NEWLINE token is
// appended. The final token is always ENDMARKER.
func Tokenize(src string) ([]lrdrive.Token, error) {
	lm, err := lmAdapter()
	if err != nil {
		return nil, err
	}
	sc, err := lm.Scanner(src)
	if err != nil {
		return nil, err
	}
	var tokens []lrdrive.Token
	line := 1
	for tok, ok := sc.NextToken(); ok; tok, ok = sc.NextToken() {
		t := tok.(scanner.DefaultToken)
		line = t.Line()
		if t.TokType().Name == NEWLINE {
			t = scanner.MakeDefaultToken(lrdrive.T(NEWLINE), NEWLINE, t.Span()).AtLine(t.Line())
		}
		tokens = append(tokens, t)
	}
	end := uint64(len(src))
	if n := len(tokens); n > 0 && tokens[n-1].TokType().Name != NEWLINE {
		tokens = append(tokens, scanner.MakeDefaultToken(lrdrive.T(NEWLINE), NEWLINE,
			lrdrive.Span{end, end}).AtLine(line))
	}
	tokens = append(tokens, scanner.MakeDefaultToken(lrdrive.T(EndMarker), EndMarker,
		lrdrive.Span{end, end}).AtLine(line))
	tracer().Debugf("tokenized %d bytes into %d tokens", len(src), len(tokens))
	return tokens, nil
}

// Tokenizer returns a tokenizer for src, ready to be handed to a parser.
// It panics if the lexer cannot be compiled.
func Tokenizer(src string) scanner.Tokenizer {
	tokens, err := Tokenize(src)
	if err != nil {
		panic(err)
	}
	return scanner.NewSliceTokenizer(tokens)
}
