/*
Package printstmt is a small reference language for the parsers of lrdrive: lines
of print statements.

    print("hello", "world"); print("again")
    print("bye")

The grammar is

    0  file             ➞ statements ENDMARKER
    1  statements       ➞ statements statement
    2  statements       ➞ ε
    3  statement        ➞ simple_stmts
    4  simple_stmts     ➞ simple_stmt_list NEWLINE
    5  simple_stmt_list ➞ simple_stmt
    6  simple_stmt_list ➞ simple_stmt_list ; simple_stmt
    7  simple_stmt      ➞ print_stmt
    8  print_stmt       ➞ PRINT ( args )
    9  args             ➞ arg
    10 args             ➞ args , arg
    11 arg              ➞ STR

Grammar and LR tables (19 states) are embedded as a table description, see
package lr. Load returns them ready to use:

    g, tables, err := printstmt.Load()
    p := driver.NewParser(g, tables)
    result, err := p.Parse(printstmt.Tokenizer(`print("hi")`))

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package printstmt

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/npillmayer/lrdrive/grammar"
	"github.com/npillmayer/lrdrive/lr"
)

//go:embed tables.json
var tablesJSON []byte

// EndMarker is the name of the terminal marking the end of input.
const EndMarker = "ENDMARKER"

var loaded struct {
	once   sync.Once
	d      *lr.Description
	g      *grammar.Grammar
	tables *lr.Tables
	err    error
}

// Load returns the grammar and the parse tables of the print statement language.
// Both are shared and must be treated as read-only.
func Load() (*grammar.Grammar, *lr.Tables, error) {
	load()
	return loaded.g, loaded.tables, loaded.err
}

// Description returns the table description of the print statement language.
func Description() (*lr.Description, error) {
	load()
	return loaded.d, loaded.err
}

// TablesJSON returns a copy of the embedded table description.
func TablesJSON() []byte {
	return append([]byte(nil), tablesJSON...)
}

func load() {
	loaded.once.Do(func() {
		loaded.d, loaded.err = lr.LoadDescription(bytes.NewReader(tablesJSON))
		if loaded.err != nil {
			return
		}
		loaded.g, loaded.tables, loaded.err = loaded.d.Build()
		if loaded.err == nil {
			tracer().Debugf("loaded %s: %d productions, %d states", loaded.g.Name,
				loaded.g.Size(), loaded.tables.StateCount())
		}
	})
}
