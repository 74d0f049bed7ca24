package lr

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/lrdrive"
	"github.com/npillmayer/lrdrive/grammar"
	"github.com/npillmayer/lrdrive/lr/sparse"
)

// ErrTableConflict is returned by a table builder when two different actions are
// set for the same state and terminal.
var ErrTableConflict = errors.New("conflicting table entries")

// Tables holds the ACTION and the GOTO table of an LR parser, together with the
// grammar the tables refer to. Tables are read-only after construction and may be
// shared between concurrently running parsers.
//
// Rows of both tables are state numbers. Columns of the ACTION table are terminals,
// columns of the GOTO table are non-terminals.
type Tables struct {
	g         *grammar.Grammar
	endMarker lrdrive.Symbol
	initial   int
	statecnt  int
	columns   map[lrdrive.Symbol]int // terminal and non-terminal columns
	terminals []lrdrive.Symbol       // terminals by column
	actions   *sparse.IntMatrix
	gotos     *sparse.IntMatrix
}

// Grammar returns the grammar the tables refer to.
func (t *Tables) Grammar() *grammar.Grammar {
	return t.g
}

// EndMarker returns the terminal which marks the end of input.
func (t *Tables) EndMarker() lrdrive.Symbol {
	return t.endMarker
}

// InitialState returns the start state of a parse.
func (t *Tables) InitialState() int {
	return t.initial
}

// StateCount returns the number of states the tables know of, i.e. the highest
// state with a table row, or the initial state, plus one.
func (t *Tables) StateCount() int {
	return t.statecnt
}

// Action returns the action for a state and a terminal. It never fails: unknown
// states, unknown terminals and empty cells all result in Absent.
func (t *Tables) Action(state int, terminal lrdrive.Symbol) Action {
	if state < 0 || !terminal.IsTerminal() {
		return Absent
	}
	j, ok := t.columns[terminal]
	if !ok {
		return Absent
	}
	return decodeAction(t.actions.Value(state, j), t.actions.NullValue())
}

// Goto returns the state to move to after a reduction to non-terminal A.
// It returns false if the GOTO table has no entry for (state, A).
func (t *Tables) Goto(state int, A lrdrive.Symbol) (int, bool) {
	if state < 0 || A.IsTerminal() {
		return 0, false
	}
	j, ok := t.columns[A]
	if !ok {
		return 0, false
	}
	v := t.gotos.Value(state, j)
	if v == t.gotos.NullValue() {
		return 0, false
	}
	return int(v), true
}

// ExpectedTerminals returns the terminals for which state has an action defined,
// sorted by name.
func (t *Tables) ExpectedTerminals(state int) []lrdrive.Symbol {
	if state < 0 {
		return nil
	}
	S := treeset.NewWith(utils.StringComparator)
	t.actions.EachInRow(state, func(j int, _ int32) {
		S.Add(t.terminals[j].Name)
	})
	expected := make([]lrdrive.Symbol, 0, S.Size())
	for _, name := range S.Values() {
		expected = append(expected, lrdrive.T(name.(string)))
	}
	return expected
}

// EachAction calls f for every defined action of a state, ordered by terminal column.
func (t *Tables) EachAction(state int, f func(a lrdrive.Symbol, action Action)) {
	t.actions.EachInRow(state, func(j int, v int32) {
		f(t.terminals[j], decodeAction(v, t.actions.NullValue()))
	})
}

// EachGoto calls f for every defined GOTO entry of a state.
func (t *Tables) EachGoto(state int, f func(A lrdrive.Symbol, target int)) {
	nonterms := t.g.NonTerminals()
	t.gotos.EachInRow(state, func(j int, v int32) {
		f(nonterms[j], int(v))
	})
}

// Terminals returns the terminal columns of the ACTION table. This includes the
// end marker, even if it does not occur in any production.
func (t *Tables) Terminals() []lrdrive.Symbol {
	return t.terminals
}

// Validate checks the tables for consistency with their grammar: reduce actions
// have to refer to existing productions, and shift and GOTO targets have to be
// known states. A parser fed with tables which do not validate will eventually
// fail with a table inconsistency error.
func (t *Tables) Validate() error {
	var errs []error
	if t.initial < 0 || t.initial >= t.statecnt {
		errs = append(errs, fmt.Errorf("initial state %d is not a state of the tables", t.initial))
	}
	for state := 0; state < t.statecnt; state++ {
		t.EachAction(state, func(a lrdrive.Symbol, action Action) {
			switch action.Kind() {
			case ReduceAction:
				if _, err := t.g.Production(action.Target()); err != nil {
					errs = append(errs, fmt.Errorf("action(%d, %s) = %v: %w", state, a, action, err))
				}
			case ShiftAction:
				if action.Target() < 0 || action.Target() >= t.statecnt {
					errs = append(errs, fmt.Errorf("action(%d, %s) = %v: no such state", state, a, action))
				}
			}
		})
		t.EachGoto(state, func(A lrdrive.Symbol, target int) {
			if target < 0 || target >= t.statecnt {
				errs = append(errs, fmt.Errorf("goto(%d, %s) = %d: no such state", state, A, target))
			}
		})
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// === Table builder =========================================================

// TableBuilder is a helper type to construct parser tables by hand:
//
//     tb := lr.NewTableBuilder(g, "#eof")
//     tb.Shift(0, "a", 2).Reduce(2, "#eof", 1).Goto(0, "S", 1).Accept(1, "#eof")
//     tables, err := tb.Tables()
//
// Setting two different actions for the same cell is a conflict and results in an
// error from Tables(), as are targets too large to be stored. Production numbers
// and states are not checked, use Tables.Validate for that.
type TableBuilder struct {
	t    *Tables
	errs []error
}

// NewTableBuilder creates a builder for tables over grammar g. endMarker is the
// name of the terminal which marks the end of input.
func NewTableBuilder(g *grammar.Grammar, endMarker string) *TableBuilder {
	t := &Tables{
		g:         g,
		endMarker: lrdrive.T(endMarker),
		columns:   make(map[lrdrive.Symbol]int),
		actions:   sparse.NewIntMatrix(sparse.DefaultNullValue),
		gotos:     sparse.NewIntMatrix(sparse.DefaultNullValue),
	}
	for _, a := range g.Terminals() {
		t.columns[a] = len(t.terminals)
		t.terminals = append(t.terminals, a)
	}
	if _, ok := t.columns[t.endMarker]; !ok {
		t.columns[t.endMarker] = len(t.terminals)
		t.terminals = append(t.terminals, t.endMarker)
	}
	for j, A := range g.NonTerminals() {
		t.columns[A] = j
	}
	return &TableBuilder{t: t}
}

// InitialState sets the start state. Default is 0.
func (tb *TableBuilder) InitialState(state int) *TableBuilder {
	tb.t.initial = state
	tb.seeState(state)
	return tb
}

// Shift sets action(state, terminal) = shift to target.
func (tb *TableBuilder) Shift(state int, terminal string, target int) *TableBuilder {
	return tb.Action(state, terminal, Shift(target))
}

// Reduce sets action(state, terminal) = reduce by production number p.
func (tb *TableBuilder) Reduce(state int, terminal string, p int) *TableBuilder {
	return tb.Action(state, terminal, Reduce(p))
}

// Accept sets action(state, terminal) = accept.
func (tb *TableBuilder) Accept(state int, terminal string) *TableBuilder {
	return tb.Action(state, terminal, Accept())
}

// Action sets an arbitrary action for a state and a terminal.
func (tb *TableBuilder) Action(state int, terminal string, action Action) *TableBuilder {
	if action.IsAbsent() {
		return tb
	}
	a := lrdrive.T(terminal)
	j, ok := tb.t.columns[a]
	if !ok {
		tb.errs = append(tb.errs, fmt.Errorf("action(%d, %s): unknown terminal", state, terminal))
		return tb
	}
	if !tb.checkState(state, "action", terminal) {
		return tb
	}
	if action.Target() > MaxTarget || action.Target() < -MaxTarget {
		tb.errs = append(tb.errs, fmt.Errorf("action(%d, %s) = %v: target out of range", state, terminal, action))
		return tb
	}
	if prev := decodeAction(tb.t.actions.Value(state, j), tb.t.actions.NullValue()); !prev.IsAbsent() {
		if prev != action {
			tb.errs = append(tb.errs, fmt.Errorf("%w: action(%d, %s) = %v/%v",
				ErrTableConflict, state, terminal, prev, action))
		}
		return tb
	}
	tracer().Debugf("action(%d, %s) = %v", state, terminal, action)
	tb.t.actions.Set(state, j, action.encode())
	return tb
}

// Goto sets goto(state, A) = target for a non-terminal A.
func (tb *TableBuilder) Goto(state int, A string, target int) *TableBuilder {
	N := lrdrive.N(A)
	j, ok := tb.t.columns[N]
	if !ok {
		tb.errs = append(tb.errs, fmt.Errorf("goto(%d, %s): unknown non-terminal", state, A))
		return tb
	}
	if !tb.checkState(state, "goto", A) {
		return tb
	}
	if target > math.MaxInt32 || target <= math.MinInt32 {
		tb.errs = append(tb.errs, fmt.Errorf("goto(%d, %s) = %d: target out of range", state, A, target))
		return tb
	}
	if v := tb.t.gotos.Value(state, j); v != tb.t.gotos.NullValue() && int(v) != target {
		tb.errs = append(tb.errs, fmt.Errorf("%w: goto(%d, %s) = %d/%d",
			ErrTableConflict, state, A, v, target))
		return tb
	}
	tb.t.gotos.Set(state, j, int32(target))
	return tb
}

// Tables returns the tables built so far, or all the errors encountered while
// building them.
func (tb *TableBuilder) Tables() (*Tables, error) {
	if len(tb.errs) > 0 {
		return nil, errors.Join(tb.errs...)
	}
	tracer().Infof("tables for grammar %q: %d states, %d actions, %d gotos", tb.t.g.Name,
		tb.t.statecnt, tb.t.actions.ValueCount(), tb.t.gotos.ValueCount())
	return tb.t, nil
}

func (tb *TableBuilder) checkState(state int, table, sym string) bool {
	if state < 0 {
		tb.errs = append(tb.errs, fmt.Errorf("%s(%d, %s): negative state", table, state, sym))
		return false
	}
	tb.seeState(state)
	return true
}

func (tb *TableBuilder) seeState(state int) {
	if state >= tb.t.statecnt {
		tb.t.statecnt = state + 1
	}
}

// === Export ================================================================

// TablesAsHTML exports the ACTION and the GOTO table in HTML-format, one row per state.
func TablesAsHTML(t *Tables, w io.Writer) {
	nonterms := t.g.NonTerminals()
	io.WriteString(w, "<html><body>\n")
	io.WriteString(w, fmt.Sprintf("<p>%s: %d states, ACTION table of size = %d, GOTO table of size = %d<p>",
		t.g.Name, t.statecnt, t.actions.ValueCount(), t.gotos.ValueCount()))
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td></td>\n")
	for _, a := range t.terminals {
		io.WriteString(w, fmt.Sprintf("<td>%s</td>", a))
	}
	for _, A := range nonterms {
		io.WriteString(w, fmt.Sprintf("<td bgcolor=#eeeeee>%s</td>", A))
	}
	io.WriteString(w, "</tr>\n")
	var td string // table cell
	for state := 0; state < t.statecnt; state++ {
		io.WriteString(w, fmt.Sprintf("<tr><td>state %d</td>\n", state))
		for _, a := range t.terminals {
			if action := t.Action(state, a); action.IsAbsent() {
				td = "&nbsp;"
			} else {
				td = action.String()
			}
			io.WriteString(w, "<td>"+td+"</td>\n")
		}
		for _, A := range nonterms {
			if target, ok := t.Goto(state, A); ok {
				td = fmt.Sprintf("%d", target)
			} else {
				td = "&nbsp;"
			}
			io.WriteString(w, "<td>"+td+"</td>\n")
		}
		io.WriteString(w, "</tr>\n")
	}
	io.WriteString(w, "</table></body></html>\n")
}
