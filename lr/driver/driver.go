/*
Package driver provides a table-driven shift-reduce parser. Clients have to supply
a grammar and the ACTION and GOTO tables for it, using the tools of package lr.
The parser utilizes these tables to decide whether a given input, provided
through a scanner interface, is a sentence of the grammar.

The parser does not build a parse tree and does not perform semantic actions.
Its output is a verdict, Accepted or Failed, together with an ordered trace of
every decision it took (see package lr/trace).

Usage

Clients load a grammar and tables, e.g. from a JSON description:

	d, err := lr.LoadDescription(r)
	g, tables, err := d.Build()

Then parse some input:

	p := driver.NewParser(g, tables)
	result, err := p.Parse(tokenizer)
	if err != nil { … }                  // fatal: tables inconsistent with grammar
	if result.Accepted() { … }
	trace.Write(os.Stdout, result.Events)

Syntax Errors

On a syntax error the parser enters panic-mode: it skips input tokens until it
finds a token for which the state on top of the stack has an action defined.
It then resumes parsing with this token. The stack is never popped during error
recovery. If the input is exhausted before a resumption point is found, the parse
run ends with verdict Failed. Syntax errors are not reported as Go errors, but as
events of the trace.

Configuration

The parser consults the global configuration (package schuko/gconf) for
defaults:

	lrdrive.step-budget              maximum number of parser steps (0 = unlimited)
	panic-on-table-inconsistency     panic instead of returning a TableError

A Parser is immutable and may be used by multiple goroutines at the same time.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package driver

import (
	"errors"
	"fmt"

	"github.com/npillmayer/lrdrive"
	"github.com/npillmayer/lrdrive/grammar"
	"github.com/npillmayer/lrdrive/lr"
	"github.com/npillmayer/lrdrive/lr/scanner"
	"github.com/npillmayer/lrdrive/lr/trace"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrdrive.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrdrive.lr")
}

// Mode is the operating mode of a parse run.
type Mode uint8

// A parse run starts in mode Running and ends in either Accepted or Failed.
const (
	Running Mode = iota
	Recovering
	Accepted
	Failed
)

func (m Mode) String() string {
	switch m {
	case Running:
		return "Running"
	case Recovering:
		return "Recovering"
	case Accepted:
		return "Accepted"
	case Failed:
		return "Failed"
	}
	return "<unknown mode>"
}

// EndOfInput is the lexeme of the end marker token the parser synthesizes once
// the tokenizer is exhausted.
const EndOfInput = "EOF"

// Parser is a table-driven shift-reduce parser. Create and initialize one with
// driver.NewParser(...)
type Parser struct {
	g      *grammar.Grammar
	tables *lr.Tables
	budget int        // maximum number of steps per run, 0 = unlimited
	sink   trace.Sink // additional receiver of events, may be nil
	check  bool       // check stack invariants after every step
}

// Option configures a parser.
type Option func(p *Parser)

// StepBudget limits the number of steps of a parse run. Every shift, reduce and
// syntax error counts as a step. n = 0 means unlimited.
func StepBudget(n int) Option {
	return func(p *Parser) {
		if n < 0 {
			n = 0
		}
		p.budget = n
	}
}

// WithSink sets a sink which receives all events of every parse run, in addition
// to the result. If a parser is used concurrently, the sink has to be safe for
// concurrent use.
func WithSink(s trace.Sink) Option {
	return func(p *Parser) {
		p.sink = s
	}
}

// CheckInvariants sets or clears checking of the parse stack after every step.
func CheckInvariants(b bool) Option {
	return func(p *Parser) {
		p.check = b
	}
}

// NewParser creates a parser for grammar g, driven by tables.
// Tables are not validated; see lr.Tables.Validate.
func NewParser(g *grammar.Grammar, tables *lr.Tables, opts ...Option) *Parser {
	p := &Parser{
		g:      g,
		tables: tables,
		budget: gconf.GetInt("lrdrive.step-budget"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.budget < 0 {
		p.budget = 0
	}
	return p
}

// Grammar returns the grammar of the parser.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.g
}

// Tables returns the parse tables of the parser.
func (p *Parser) Tables() *lr.Tables {
	return p.tables
}

// Result is the outcome of a parse run.
type Result struct {
	Verdict      Mode          // Accepted or Failed
	Events       []trace.Event // all events of the run, in order
	SyntaxErrors int           // number of syntax errors, including recovered ones
	Steps        int           // number of parser steps
}

// Accepted is true if the input has been accepted, possibly after recovering from
// syntax errors.
func (r *Result) Accepted() bool {
	return r.Verdict == Accepted
}

// Lines renders the events of a result as text, one line per event.
func (r *Result) Lines() []string {
	return trace.Lines(r.Events)
}

// ParseTokens parses a sequence of tokens. See Parse.
func (p *Parser) ParseTokens(tokens []lrdrive.Token) (*Result, error) {
	return p.Parse(scanner.NewSliceTokenizer(tokens))
}

// Parse starts a new parse run, reading tokens from a tokenizer. Once the tokenizer
// is exhausted, the parser continues with an end marker token it creates itself.
//
// Parse returns a non-nil result in any case. A non-nil error signals a fatal
// condition, i.e. tables inconsistent with the grammar, an exhausted step budget
// or a nil token from the tokenizer. The result then has verdict Failed and holds all events up to the failure.
func (p *Parser) Parse(input scanner.Tokenizer) (*Result, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.g == nil || p.tables == nil || input == nil {
		tracer().Errorf("parser not initialized")
		return &Result{Verdict: Failed}, errors.New("parser not initialized")
	}
	r := &run{
		Parser: p,
		states: make([]int, 1, 64),
		input:  input,
	}
	r.states[0] = p.tables.InitialState()
	err := r.advance()
	if err != nil {
		err = r.fail(err)
	} else {
		err = r.loop()
	}
	result := &Result{
		Verdict:      r.mode,
		Events:       r.events,
		SyntaxErrors: r.errcnt,
		Steps:        r.steps,
	}
	tracer().Infof("parse run finished: %v after %d steps, %d syntax error(s)",
		result.Verdict, result.Steps, result.SyntaxErrors)
	return result, err
}

// --- Parse runs ------------------------------------------------------------

// run holds the state of a single parse run. The state stack and the symbol stack
// run in parallel, with the symbol stack one shorter: the bottom state has no symbol.
type run struct {
	*Parser
	states   []int
	symbols  []lrdrive.Symbol
	input    scanner.Tokenizer
	token    lrdrive.Token // token at the cursor
	atEnd    bool          // cursor is past the last input token
	consumed int           // number of tokens read from input
	endpos   uint64        // end position of the last input token
	mode     Mode
	events   []trace.Event
	steps    int
	errcnt   int
}

// loop is the main loop of the parser. It runs until the run is either accepted
// or failed. Errors returned are fatal.
func (r *run) loop() error {
	for r.mode == Running {
		if r.budget > 0 && r.steps >= r.budget {
			return r.fail(fmt.Errorf("%w: %d steps", ErrStepBudget, r.steps))
		}
		r.steps++
		state := r.top()
		a := r.token.TokType()
		action := r.tables.Action(state, a)
		tracer().Debugf("action(%d, %s) = %v", state, a, action)
		switch action.Kind() {
		case lr.AbsentAction:
			r.errcnt++
			r.emit(trace.SyntaxError, r.token, nil, r.tables.ExpectedTerminals(state))
			if err := r.panicMode(); err != nil {
				return r.fail(err)
			}
		case lr.ShiftAction:
			r.symbols = append(r.symbols, a)
			r.states = append(r.states, action.Target())
			r.emit(trace.Shift, r.token, nil, nil)
			if err := r.advance(); err != nil {
				return r.fail(err)
			}
		case lr.ReduceAction:
			if err := r.reduce(action.Target()); err != nil {
				return r.fail(err)
			}
		case lr.AcceptAction:
			r.mode = Accepted
			start, _ := r.g.Production(0)
			r.emit(trace.Accept, nil, start, nil)
		}
		if r.check {
			if err := r.checkInvariants(); err != nil {
				return r.fail(err)
			}
		}
	}
	return nil
}

// reduce performs a reduce action for a production
//
//    LHS ➞ X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states
//
//    [TOS]  Sn(Xn) ... S1(X1)  S0 ...
//
// reduce pops n states and pushes goto(S0, LHS). For epsilon productions n = 0.
func (r *run) reduce(pno int) error {
	state := r.top()
	prod, err := r.g.Production(pno)
	if err != nil {
		return &TableError{Kind: ProductionIndex, State: state, Production: pno, cause: err}
	}
	n := prod.Len()
	if n > len(r.symbols) {
		return &TableError{Kind: StackUnderflow, State: state, Symbol: prod.LHS, Production: pno}
	}
	r.states = r.states[:len(r.states)-n]
	r.symbols = r.symbols[:len(r.symbols)-n]
	next, ok := r.tables.Goto(r.top(), prod.LHS)
	if !ok {
		return &TableError{Kind: MissingGoto, State: r.top(), Symbol: prod.LHS, Production: pno}
	}
	tracer().Debugf("reduce %v, goto(%d, %s) = %d", prod, r.top(), prod.LHS, next)
	r.symbols = append(r.symbols, prod.LHS)
	r.states = append(r.states, next)
	r.emit(trace.Reduce, nil, prod, nil)
	return nil
}

// panicMode performs panic-mode error recovery: it discards input tokens until the
// state on top of the stack has an action for the current token. The stack is
// left untouched. If the input is exhausted, the run fails.
func (r *run) panicMode() error {
	r.mode = Recovering
	tracer().Infof("syntax error at %q in state %d, entering panic mode", r.token.Lexeme(), r.top())
	for {
		if r.atEnd {
			break
		}
		r.emit(trace.Skip, r.token, nil, nil)
		if err := r.advance(); err != nil {
			return err
		}
		if r.atEnd {
			break
		}
		if !r.tables.Action(r.top(), r.token.TokType()).IsAbsent() {
			tracer().Infof("resuming at %q", r.token.Lexeme())
			r.emit(trace.Resume, r.token, nil, nil)
			r.mode = Running
			return nil
		}
	}
	tracer().Infof("input exhausted in panic mode, unable to recover")
	r.mode = Failed
	r.emit(trace.Unrecoverable, nil, nil, nil)
	return nil
}

// advance moves the cursor to the next token. Past the end of input, the cursor
// stays at a synthesized end marker. A tokenizer delivering a nil token is an error.
func (r *run) advance() error {
	if r.atEnd {
		return nil
	}
	tok, ok := r.input.NextToken()
	if ok {
		if tok == nil {
			return fmt.Errorf("%w: after %d token(s)", ErrNilToken, r.consumed)
		}
		r.consumed++
		r.token = tok
		r.endpos = tok.Span().To()
		return nil
	}
	tracer().Debugf("end of input")
	r.atEnd = true
	r.token = scanner.MakeDefaultToken(r.tables.EndMarker(), EndOfInput,
		lrdrive.Span{r.endpos, r.endpos})
	return nil
}

func (r *run) top() int {
	return r.states[len(r.states)-1]
}

func (r *run) emit(k trace.Kind, tok lrdrive.Token, prod *grammar.Production, expected []lrdrive.Symbol) {
	e := trace.Event{
		Kind:       k,
		Token:      tok,
		Production: prod,
		State:      r.top(),
		Depth:      len(r.symbols),
		Expected:   expected,
	}
	r.events = append(r.events, e)
	if r.sink != nil {
		r.sink.Emit(e)
	}
}

// fail terminates a run with a fatal error.
func (r *run) fail(err error) error {
	r.mode = Failed
	tracer().Errorf("parser failed: %v", err)
	if errors.Is(err, ErrTableInconsistency) && gconf.GetBool("panic-on-table-inconsistency") {
		panic(`Parse tables are inconsistent with the grammar.

Configuration flag panic-on-table-inconsistency is set to true. It is aimed at helping
to debug parse tables and do a post-mortem of how the parser got into this condition.
If you did not expect this to panic, please unset panic-on-table-inconsistency to
its default (false).

` + err.Error())
	}
	return err
}

func (r *run) checkInvariants() error {
	if len(r.states) == 0 {
		return fmt.Errorf("%w: state stack empty", ErrInvariant)
	}
	if len(r.symbols) != len(r.states)-1 {
		return fmt.Errorf("%w: %d symbols for %d states", ErrInvariant, len(r.symbols), len(r.states))
	}
	return nil
}
