/*
Command lrtrace runs the table-driven LR parser of lrdrive on some input and
prints the trace of every parser decision: shifts, reductions, syntax errors and
the steps of error recovery.

Without further options, lrtrace uses the embedded tables of the print statement
language (see package lang/printstmt):

	echo 'print("hello")' | lrtrace parse
	lrtrace parse --trace Debug prog.txt
	lrtrace tables --html tables.html
	lrtrace repl

Other grammars are given as a JSON table description (see package lr):

	lrtrace --tables expr.json parse --lexer go input.txt
	lrtrace --tables expr.json parse --tokens input.tok

Configuration is read from NestedText files at the standard configuration
locations for app tag "lrtrace", e.g.

	tracing.adapter: go
	trace.lrdrive.lr: Info
	lrdrive.step-budget: 10000

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"errors"
	"os"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrdrive.cli'.
func tracer() tracing.Trace {
	return tracing.Select("lrdrive.cli")
}

func main() {
	if err := Execute(); err != nil {
		if errors.Is(err, errRejected) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
