package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 3, 3, 5}

func TestGoTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		reader := strings.NewReader(input)
		name := fmt.Sprintf("input #%d", i)
		scanner := NewGoTokenizer(name, reader)
		token, ok := scanner.NextToken()
		count := 0
		for ok {
			t.Logf(" %6s | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token, ok = scanner.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestGoTokenizerTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.scanner")
	defer teardown()
	//
	scanner := NewGoTokenizer("terminals", strings.NewReader(`print("hi", 'x')`), UnifyStrings(true))
	var names []string
	for token, ok := scanner.NextToken(); ok; token, ok = scanner.NextToken() {
		names = append(names, token.TokType().Name)
	}
	if s := strings.Join(names, " "); s != "ID ( STR , STR )" {
		t.Errorf("unexpected terminals: %s", s)
	}
}

const tokenFile = `# print("hi")
PRINT print
(
STR "hi there"

)
NEWLINE
ENDMARKER
`

func TestReadTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.scanner")
	defer teardown()
	//
	tokens, err := ReadTokens(strings.NewReader(tokenFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 6 {
		t.Fatalf("expected 6 tokens, have %d", len(tokens))
	}
	if tokens[2].TokType().Name != "STR" || tokens[2].Lexeme() != `"hi there"` {
		t.Errorf("expected 3rd token to be STR(\"hi there\"), is %v", tokens[2])
	}
	if tokens[1].TokType().Name != "(" || tokens[1].Lexeme() != "(" {
		t.Errorf("expected token without lexeme to be named after terminal, is %v", tokens[1])
	}
	if line := tokens[3].(DefaultToken).Line(); line != 6 {
		t.Errorf("expected ')' to be at line 6, is at %d", line)
	}
	if !tokens[0].TokType().IsTerminal() {
		t.Errorf("expected tokens to be terminals")
	}
}

func TestReadLongToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.scanner")
	defer teardown()
	//
	long := `"` + strings.Repeat("x", 200000) + `"`
	tokens, err := ReadTokens(strings.NewReader("STR " + long + "\nENDMARKER\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 || tokens[0].Lexeme() != long {
		t.Errorf("expected long lexeme to be read in full, have %d tokens", len(tokens))
	}
	_, err = ReadTokens(strings.NewReader("STR " + strings.Repeat("x", MaxTokenLine)))
	if err == nil {
		t.Errorf("expected line beyond %d bytes to be rejected", MaxTokenLine)
	}
}

func TestSliceTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.scanner")
	defer teardown()
	//
	st := NewSliceTokenizer(Terminals("a", "b"))
	for _, name := range []string{"a", "b"} {
		tok, ok := st.NextToken()
		if !ok || tok.TokType().Name != name {
			t.Fatalf("expected token %s, have %v", name, tok)
		}
	}
	for i := 0; i < 2; i++ {
		if tok, ok := st.NextToken(); ok || tok != nil {
			t.Errorf("expected exhausted tokenizer, have %v", tok)
		}
	}
}
