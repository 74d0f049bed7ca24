/*
Package lr implements the parser tables of shift-reduce LR parsers.

Tables are not generated here. They are produced by a parser generator, or written
by hand, and injected into a parser as configuration. Package lr holds them in a
compact, immutable form, together with the grammar they refer to.

Actions

An ACTION table maps a parser state and a terminal to one of

    Shift(n)      push the current token and move to state n
    Reduce(p)     reduce by production number p
    Accept()      the input is a sentence of the grammar
    Absent        no action, i.e. a syntax error

A GOTO table maps a state and a non-terminal to a successor state.

Building Tables

Tables are either constructed by a TableBuilder or loaded from a JSON description.

    tb := lr.NewTableBuilder(g, "#eof")      // g is a grammar.Grammar
    tb.Shift(0, "a", 2)                     // action(0, a) = s2
    tb.Reduce(2, "#eof", 1)                 // action(2, #eof) = r1
    tb.Goto(0, "S", 1)                      // goto(0, S) = 1
    tb.Accept(1, "#eof")                    // action(1, #eof) = acc
    tables, err := tb.Tables()

Loading a description results in both a grammar and tables:

    d, err := lr.LoadDescription(r)
    g, tables, err := d.Build()

Tables created by a builder are not validated; clients may call Tables.Validate.
Description.Build always validates.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrdrive.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrdrive.lr")
}
