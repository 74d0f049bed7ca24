package driver

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/lrdrive"
	"github.com/npillmayer/lrdrive/grammar"
	"github.com/npillmayer/lrdrive/lr"
	"github.com/npillmayer/lrdrive/lr/scanner"
	"github.com/npillmayer/lrdrive/lr/trace"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// --- Print statement grammar -----------------------------------------------

func makePrintGrammar(t *testing.T) *grammar.Grammar {
	b := grammar.NewBuilder("print statements")
	b.LHS("file").N("statements").T("ENDMARKER").End()                            // 0
	b.LHS("statements").N("statements").N("statement").End()                      // 1
	b.LHS("statements").Epsilon()                                                 // 2
	b.LHS("statement").N("simple_stmts").End()                                    // 3
	b.LHS("simple_stmts").N("simple_stmt_list").T("NEWLINE").End()                // 4
	b.LHS("simple_stmt_list").N("simple_stmt").End()                              // 5
	b.LHS("simple_stmt_list").N("simple_stmt_list").T(";").N("simple_stmt").End() // 6
	b.LHS("simple_stmt").N("print_stmt").End()                                    // 7
	b.LHS("print_stmt").T("PRINT").T("(").N("args").T(")").End()                  // 8
	b.LHS("args").N("arg").End()                                                  // 9
	b.LHS("args").N("args").T(",").N("arg").End()                                 // 10
	b.LHS("arg").T("STR").End()                                                   // 11
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func makePrintTables(t *testing.T, g *grammar.Grammar) *lr.Tables {
	tb := lr.NewTableBuilder(g, "ENDMARKER")
	tb.Reduce(0, "PRINT", 2).Reduce(0, "ENDMARKER", 2)
	tb.Accept(1, "ENDMARKER")
	tb.Shift(2, "ENDMARKER", 1).Shift(2, "PRINT", 8)
	tb.Reduce(3, "ENDMARKER", 1).Reduce(3, "PRINT", 1)
	tb.Reduce(4, "ENDMARKER", 3).Reduce(4, "PRINT", 3)
	tb.Shift(5, "NEWLINE", 9).Shift(5, ";", 10)
	tb.Reduce(6, "NEWLINE", 5).Reduce(6, ";", 5)
	tb.Reduce(7, "NEWLINE", 7).Reduce(7, ";", 7)
	tb.Shift(8, "(", 11)
	tb.Reduce(9, "ENDMARKER", 4).Reduce(9, "PRINT", 4)
	tb.Shift(10, "PRINT", 8)
	tb.Shift(11, "STR", 15)
	tb.Reduce(12, "NEWLINE", 6).Reduce(12, ";", 6)
	tb.Shift(13, ")", 16).Shift(13, ",", 17)
	tb.Reduce(14, ")", 9).Reduce(14, ",", 9)
	tb.Reduce(15, ")", 11).Reduce(15, ",", 11)
	tb.Reduce(16, "NEWLINE", 8).Reduce(16, ";", 8)
	tb.Shift(17, "STR", 15)
	tb.Reduce(18, ")", 10).Reduce(18, ",", 10)
	tb.Goto(0, "statements", 2)
	tb.Goto(2, "statement", 3).Goto(2, "simple_stmts", 4).Goto(2, "simple_stmt_list", 5)
	tb.Goto(2, "simple_stmt", 6).Goto(2, "print_stmt", 7)
	tb.Goto(10, "simple_stmt", 12).Goto(10, "print_stmt", 7)
	tb.Goto(11, "args", 13).Goto(11, "arg", 14).Goto(17, "arg", 18)
	tables, err := tb.Tables()
	if err != nil {
		t.Fatal(err)
	}
	if err = tables.Validate(); err != nil {
		t.Fatal(err)
	}
	return tables
}

func makePrintParser(t *testing.T, opts ...Option) *Parser {
	g := makePrintGrammar(t)
	return NewParser(g, makePrintTables(t, g), append([]Option{CheckInvariants(true)}, opts...)...)
}

// tokens creates tokens from a short notation: "PRINT ( STR:"hi" ) NEWLINE ENDMARKER".
// Lexemes of PRINT tokens are "print", other tokens without explicit lexeme have
// their terminal name as lexeme.
func tokens(s string) []lrdrive.Token {
	var toks []lrdrive.Token
	for _, f := range strings.Fields(s) {
		name, lexeme := f, f
		if i := strings.IndexByte(f, ':'); i > 0 {
			name, lexeme = f[:i], f[i+1:]
		} else if f == "PRINT" {
			lexeme = "print"
		}
		toks = append(toks, scanner.Terminal(name, lexeme))
	}
	return toks
}

func expectLines(t *testing.T, result *Result, expected []string) {
	t.Helper()
	lines := result.Lines()
	for i, line := range lines {
		t.Logf("%3d: %s", i, line)
	}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d events, have %d", len(expected), len(lines))
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("event #%d: expected %q, have %q", i, expected[i], lines[i])
		}
	}
}

// --- Tests -----------------------------------------------------------------

func TestAcceptPrintStatement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makePrintParser(t)
	result, err := p.ParseTokens(tokens(`PRINT ( STR:"hi" ) NEWLINE ENDMARKER`))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Accepted() || result.SyntaxErrors != 0 {
		t.Errorf("expected input to be accepted without errors, verdict is %v", result.Verdict)
	}
	expectLines(t, result, []string{
		"reduce by statements -> empty",
		"shift : print",
		"shift : (",
		`shift : "hi"`,
		"reduce by arg -> STR",
		"reduce by args -> arg",
		"shift : )",
		"reduce by print_stmt -> PRINT ( args )",
		"reduce by simple_stmt -> print_stmt",
		"reduce by simple_stmt_list -> simple_stmt",
		"shift : NEWLINE",
		"reduce by simple_stmts -> simple_stmt_list NEWLINE",
		"reduce by statement -> simple_stmts",
		"reduce by statements -> statements statement",
		"shift : ENDMARKER",
		"accept",
	})
	last := result.Events[len(result.Events)-1]
	if last.Kind != trace.Accept || last.Production == nil || last.Production.Index != 0 {
		t.Errorf("expected accept event to carry the start production, has %v", last.Production)
	}
}

func TestMissingParenIsUnrecoverable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makePrintParser(t)
	result, err := p.ParseTokens(tokens(`PRINT STR:"hi" ) NEWLINE ENDMARKER`))
	if err != nil {
		t.Fatal(err)
	}
	if result.Verdict != Failed || result.SyntaxErrors != 1 {
		t.Errorf("expected verdict Failed with 1 syntax error, is %v/%d", result.Verdict, result.SyntaxErrors)
	}
	expectLines(t, result, []string{
		"reduce by statements -> empty",
		"shift : print",
		`syntax error at : "hi"; expected: (`,
		`skipping : "hi"`,
		"skipping : )",
		"skipping : NEWLINE",
		"skipping : ENDMARKER",
		"unable to recover, parse terminated",
	})
	for _, e := range result.Events[2:7] {
		if e.State != 8 || e.Depth != 2 {
			t.Errorf("expected stack to stay untouched during recovery, is at %d/%d", e.State, e.Depth)
		}
	}
}

func TestEndMarkerOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makePrintParser(t)
	result, err := p.ParseTokens(tokens("ENDMARKER"))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Accepted() {
		t.Errorf("expected lone end marker to be accepted")
	}
	expectLines(t, result, []string{
		"reduce by statements -> empty",
		"shift : ENDMARKER",
		"accept",
	})
	if e := result.Events[0]; e.Depth != 1 || e.State != 2 {
		t.Errorf("expected epsilon reduction to push one symbol, stack is at %d/%d", e.State, e.Depth)
	}
}

func TestResumeDoesNotConsumeTwice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makePrintParser(t)
	result, err := p.ParseTokens(tokens(`PRINT ( STR:"a" STR:"b" ) NEWLINE ENDMARKER`))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Accepted() || result.SyntaxErrors != 1 {
		t.Errorf("expected input to be accepted after 1 error, is %v/%d", result.Verdict, result.SyntaxErrors)
	}
	lines := result.Lines()
	if len(lines) < 8 {
		t.Fatalf("trace too short: %v", lines)
	}
	expected := []string{
		`syntax error at : "b"; expected: ), ,`,
		`skipping : "b"`,
		"resuming parsing at : )",
		"reduce by arg -> STR",
		"reduce by args -> arg",
		"shift : )",
	}
	for i, line := range expected {
		if lines[i+4] != line {
			t.Errorf("event #%d: expected %q, have %q", i+4, line, lines[i+4])
		}
	}
	shifts := 0
	for _, e := range result.Events {
		if e.Is(trace.Shift, ")") {
			shifts++
		}
	}
	if shifts != 1 {
		t.Errorf("expected ')' to be shifted once, was shifted %d times", shifts)
	}
}

func TestSynthesizedEndMarker(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makePrintParser(t)
	result, err := p.ParseTokens(tokens(`PRINT ( STR:"hi" ) NEWLINE`))
	if err != nil {
		t.Fatal(err)
	}
	if !result.Accepted() {
		t.Errorf("expected input without end marker to be accepted")
	}
	if n := len(result.Events); result.Events[n-2].String() != "shift : EOF" {
		t.Errorf("expected synthesized end marker to be shifted, trace is %v", result.Lines())
	}
	result, err = p.ParseTokens(nil)
	if err != nil || !result.Accepted() {
		t.Errorf("expected empty input to be accepted, is %v (%v)", result.Verdict, err)
	}
}

func TestErrorPastEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makePrintParser(t)
	result, err := p.ParseTokens(tokens(`PRINT`))
	if err != nil {
		t.Fatal(err)
	}
	if result.Verdict != Failed {
		t.Errorf("expected verdict Failed, is %v", result.Verdict)
	}
	expectLines(t, result, []string{
		"reduce by statements -> empty",
		"shift : print",
		"syntax error at : EOF; expected: (",
		"unable to recover, parse terminated",
	})
}

func TestSink(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	rec := &trace.Recorder{}
	p := makePrintParser(t, WithSink(rec))
	result, _ := p.ParseTokens(tokens(`PRINT ( STR STR ) NEWLINE ENDMARKER`))
	if rec.Len() != len(result.Events) {
		t.Fatalf("expected sink to receive %d events, has %d", len(result.Events), rec.Len())
	}
	for i, e := range rec.Events() {
		if e.Kind != result.Events[i].Kind || e.Token != result.Events[i].Token {
			t.Errorf("event #%d differs between sink and result", i)
		}
	}
}

// --- Fatal errors ----------------------------------------------------------

// S ➞ a
func makeSynthetic(t *testing.T, build func(tb *lr.TableBuilder)) *Parser {
	b := grammar.NewBuilder("synthetic")
	b.LHS("S").T("a").End()
	b.LHS("S").T("a").T("a").End()
	b.LHS("E").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	tb := lr.NewTableBuilder(g, "$")
	build(tb)
	tables, err := tb.Tables()
	if err != nil {
		t.Fatal(err)
	}
	return NewParser(g, tables)
}

func TestMissingGoto(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makeSynthetic(t, func(tb *lr.TableBuilder) {
		tb.Shift(0, "a", 1).Reduce(1, "$", 0)
	})
	result, err := p.ParseTokens(scanner.Terminals("a"))
	if !errors.Is(err, ErrTableInconsistency) {
		t.Fatalf("expected table inconsistency, have %v", err)
	}
	var terr *TableError
	if !errors.As(err, &terr) || terr.Kind != MissingGoto || terr.Symbol != lrdrive.N("S") || terr.State != 0 {
		t.Errorf("expected missing goto(0, S), have %v", err)
	}
	if result == nil || result.Verdict != Failed || len(result.Events) != 1 {
		t.Errorf("expected failed result with the shift event preserved, have %v", result)
	}
}

func TestProductionOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makeSynthetic(t, func(tb *lr.TableBuilder) {
		tb.Shift(0, "a", 1).Reduce(1, "$", 7)
	})
	result, err := p.ParseTokens(scanner.Terminals("a"))
	if !errors.Is(err, ErrTableInconsistency) || !errors.Is(err, grammar.ErrProductionIndex) {
		t.Fatalf("expected production index error, have %v", err)
	}
	var terr *TableError
	if !errors.As(err, &terr) || terr.Kind != ProductionIndex || terr.Production != 7 {
		t.Errorf("expected production index error for production 7, have %v", err)
	}
	if result.Verdict != Failed || len(result.Events) != 1 {
		t.Errorf("expected failed result with 1 event, have %v", result.Lines())
	}
}

func TestStackUnderflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makeSynthetic(t, func(tb *lr.TableBuilder) {
		tb.Shift(0, "a", 1).Reduce(1, "$", 1) // S ➞ a a with a single a on the stack
	})
	_, err := p.ParseTokens(scanner.Terminals("a"))
	var terr *TableError
	if !errors.As(err, &terr) || terr.Kind != StackUnderflow {
		t.Errorf("expected stack underflow, have %v", err)
	}
}

func TestStepBudget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	build := func(tb *lr.TableBuilder) {
		tb.Reduce(0, "$", 2).Goto(0, "E", 0) // E ➞ ε forever
	}
	p := makeSynthetic(t, build)
	p = NewParser(p.Grammar(), p.Tables(), StepBudget(100))
	result, err := p.ParseTokens(nil)
	if !errors.Is(err, ErrStepBudget) {
		t.Fatalf("expected step budget to be exhausted, have %v", err)
	}
	if result.Steps != 100 || len(result.Events) != 100 || result.Verdict != Failed {
		t.Errorf("expected 100 steps, have %d steps and %d events", result.Steps, len(result.Events))
	}
	//
	gconf.Initialize(testconfig.Conf{"lrdrive.step-budget": 50})
	defer gconf.Initialize(testconfig.Conf{})
	p = makeSynthetic(t, build)
	if result, err = p.ParseTokens(nil); !errors.Is(err, ErrStepBudget) || result.Steps != 50 {
		t.Errorf("expected configured step budget of 50 to be exhausted, have %v", err)
	}
}

func TestPanicOnTableInconsistency(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	gconf.Initialize(testconfig.Conf{"panic-on-table-inconsistency": true})
	defer gconf.Initialize(testconfig.Conf{})
	p := makeSynthetic(t, func(tb *lr.TableBuilder) {
		tb.Shift(0, "a", 1).Reduce(1, "$", 0)
	})
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected parser to panic")
		}
	}()
	p.ParseTokens(scanner.Terminals("a"))
}

func TestNilTokenIsFatal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makePrintParser(t)
	for _, x := range []struct {
		input  []lrdrive.Token
		events int
	}{
		{append([]lrdrive.Token{nil}, tokens(`PRINT ( STR ) NEWLINE ENDMARKER`)...), 0},
		{append(tokens(`PRINT (`), append([]lrdrive.Token{nil}, tokens(`STR ) NEWLINE ENDMARKER`)...)...), 3},
		{append(tokens(`PRINT STR`), append([]lrdrive.Token{nil}, tokens(`NEWLINE ENDMARKER`)...)...), 4},
	} {
		result, err := p.ParseTokens(x.input)
		if !errors.Is(err, ErrNilToken) {
			t.Errorf("expected nil token to be reported, have %v", err)
		}
		if result.Verdict != Failed || len(result.Events) != x.events {
			t.Errorf("expected run to fail after %d events, is %v after %v", x.events,
				result.Verdict, result.Lines())
		}
	}
}

// --- Concurrency -----------------------------------------------------------

func TestConcurrentParses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrdrive.lr")
	defer teardown()
	//
	p := makePrintParser(t)
	inputs := []string{
		`PRINT ( STR:"hi" ) NEWLINE ENDMARKER`,
		`PRINT STR:"hi" ) NEWLINE ENDMARKER`,
		`PRINT ( STR , STR ) ; PRINT ( STR ) NEWLINE ENDMARKER`,
		`ENDMARKER`,
	}
	expected := make([][]string, len(inputs))
	for i, input := range inputs {
		result, _ := p.ParseTokens(tokens(input))
		expected[i] = result.Lines()
	}
	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			i := n % len(inputs)
			result, err := p.ParseTokens(tokens(inputs[i]))
			if err != nil {
				errs <- err.Error()
				return
			}
			if strings.Join(result.Lines(), "\n") != strings.Join(expected[i], "\n") {
				errs <- "trace differs for input " + inputs[i]
			}
		}(n)
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}
