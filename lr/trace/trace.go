/*
Package trace holds the events a shift-reduce parser emits while it works its way
through the input.

A parse run produces an ordered sequence of events, one for every decision the
parser takes. Clients receive events through a Sink. The Recorder is a sink which
collects all events of a run in order.

Events have a textual rendering, one line per event:

    shift : print
    reduce by arg -> STR
    reduce by statements -> empty
    syntax error at : "hi"
    skipping : "hi"
    resuming parsing at : \n
    accept
    unable to recover, parse terminated

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/lrdrive"
	"github.com/npillmayer/lrdrive/grammar"
)

// Kind is the category of a parser event.
type Kind uint8

// Kinds of parser events.
const (
	Shift Kind = iota + 1
	Reduce
	Skip
	Resume
	Accept
	SyntaxError
	Unrecoverable
)

func (k Kind) String() string {
	switch k {
	case Shift:
		return "Shift"
	case Reduce:
		return "Reduce"
	case Skip:
		return "Skip"
	case Resume:
		return "Resume"
	case Accept:
		return "Accept"
	case SyntaxError:
		return "SyntaxError"
	case Unrecoverable:
		return "Unrecoverable"
	}
	return "<unknown event>"
}

// Event is a single step of a parse run.
//
// Token is set for Shift, Skip, Resume and SyntaxError events, Production for Reduce
// and Accept events. State is the parser state on top of the stack after the event
// has been processed, Depth the number of symbols on the stack at that time.
// Expected lists the terminals the parser would have accepted at a syntax error.
type Event struct {
	Kind       Kind
	Token      lrdrive.Token
	Production *grammar.Production
	State      int
	Depth      int
	Expected   []lrdrive.Symbol
}

// Is is a predicate to check kind and terminal of an event. It is a shortcut mainly
// useful for tests.
func (e Event) Is(k Kind, terminal string) bool {
	if e.Kind != k {
		return false
	}
	if e.Token == nil {
		return terminal == ""
	}
	return e.Token.TokType().Name == terminal
}

// String renders an event as one line of text, without a trailing newline.
func (e Event) String() string {
	switch e.Kind {
	case Shift:
		return "shift : " + lexeme(e.Token)
	case Reduce:
		return "reduce by " + productionString(e.Production)
	case Skip:
		return "skipping : " + lexeme(e.Token)
	case Resume:
		return "resuming parsing at : " + lexeme(e.Token)
	case Accept:
		return "accept"
	case SyntaxError:
		s := "syntax error at : " + lexeme(e.Token)
		if len(e.Expected) > 0 {
			names := make([]string, len(e.Expected))
			for i, a := range e.Expected {
				names[i] = a.Name
			}
			s += "; expected: " + strings.Join(names, ", ")
		}
		return s
	case Unrecoverable:
		return "unable to recover, parse terminated"
	}
	return e.Kind.String()
}

func lexeme(tok lrdrive.Token) string {
	if tok == nil {
		return "<nil>"
	}
	return tok.Lexeme()
}

// productionString renders a production as "lhs -> rhs", with "empty" for
// epsilon productions.
func productionString(p *grammar.Production) string {
	if p == nil {
		return "<nil>"
	}
	if p.IsEpsilon() {
		return p.LHS.Name + " -> empty"
	}
	var b strings.Builder
	b.WriteString(p.LHS.Name)
	b.WriteString(" ->")
	for _, sym := range p.RHS() {
		b.WriteByte(' ')
		b.WriteString(sym.Name)
	}
	return b.String()
}

// --- Sinks -----------------------------------------------------------------

// Sink receives parser events in the order they occur.
type Sink interface {
	Emit(Event)
}

// SinkFunc is an adapter to use ordinary functions as sinks.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Recorder is a sink which collects events. The zero value is ready to use.
// A Recorder is not safe for concurrent use; every parse run should have its own.
type Recorder struct {
	events []Event
}

// Emit appends an event.
func (r *Recorder) Emit(e Event) {
	r.events = append(r.events, e)
}

// Events returns all events recorded so far.
func (r *Recorder) Events() []Event {
	return r.events
}

// Len returns the number of events recorded so far.
func (r *Recorder) Len() int {
	return len(r.events)
}

// Count returns the number of events of kind k.
func (r *Recorder) Count(k Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Lines renders all events as text, one line per event.
func (r *Recorder) Lines() []string {
	return Lines(r.events)
}

// Lines renders a sequence of events as text, one line per event.
func Lines(events []Event) []string {
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.String()
	}
	return lines
}

// Write prints events to w, one line per event.
func Write(w io.Writer, events []Event) error {
	for _, e := range events {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}

// Tee is a sink which forwards events to a number of other sinks.
type Tee []Sink

// Emit forwards e to every sink of t.
func (t Tee) Emit(e Event) {
	for _, s := range t {
		if s != nil {
			s.Emit(e)
		}
	}
}
