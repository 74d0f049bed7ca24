package lr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/cnf/structhash"
	"github.com/npillmayer/lrdrive/grammar"
)

// ErrDescription is returned for malformed table descriptions.
var ErrDescription = errors.New("malformed table description")

// Description is the serializable form of a grammar together with its parser tables.
// Descriptions are JSON documents of the form
//
//     {
//       "name": "print statements",
//       "end_marker": "ENDMARKER",
//       "initial_state": 0,
//       "productions": [ { "lhs": "file", "rhs": [ "statements", "ENDMARKER" ] }, ... ],
//       "action": { "0": { "PRINT": "r2", "ENDMARKER": "r2" }, ... },
//       "goto":   { "0": { "statements": 2 }, ... }
//     }
//
// A symbol is a non-terminal if it occurs as the left hand side of a production,
// otherwise it is a terminal. Action cells are written as "sN", "rN" or "acc"
// (or "shift N", "reduce N", "accept").
type Description struct {
	Name         string                       `json:"name" hash:"-"`
	EndMarker    string                       `json:"end_marker"`
	InitialState int                          `json:"initial_state"`
	Productions  []ProductionDescription      `json:"productions"`
	Action       map[string]map[string]string `json:"action"`
	Goto         map[string]map[string]int    `json:"goto"`
}

// ProductionDescription describes a single grammar rule. An empty RHS denotes an
// epsilon production.
type ProductionDescription struct {
	LHS string   `json:"lhs"`
	RHS []string `json:"rhs"`
}

// LoadDescription decodes a JSON table description.
func LoadDescription(r io.Reader) (*Description, error) {
	d := &Description{}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDescription, err)
	}
	if d.EndMarker == "" {
		return nil, fmt.Errorf("%w: no end marker", ErrDescription)
	}
	if len(d.Productions) == 0 {
		return nil, fmt.Errorf("%w: no productions", ErrDescription)
	}
	return d, nil
}

// Build creates the grammar and the parser tables of a description. The tables
// are validated against the grammar.
func (d *Description) Build() (*grammar.Grammar, *Tables, error) {
	nonterms := make(map[string]bool, len(d.Productions))
	for _, p := range d.Productions {
		if p.LHS == "" {
			return nil, nil, fmt.Errorf("%w: production without LHS", ErrDescription)
		}
		nonterms[p.LHS] = true
	}
	if nonterms[d.EndMarker] {
		return nil, nil, fmt.Errorf("%w: end marker %s is a non-terminal", ErrDescription, d.EndMarker)
	}
	b := grammar.NewBuilder(d.Name)
	for _, p := range d.Productions {
		rb := b.LHS(p.LHS)
		if len(p.RHS) == 0 {
			rb.Epsilon()
			continue
		}
		for _, sym := range p.RHS {
			if nonterms[sym] {
				rb.N(sym)
			} else {
				rb.T(sym)
			}
		}
		rb.End()
	}
	g, err := b.Grammar()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDescription, err)
	}
	tb := NewTableBuilder(g, d.EndMarker).InitialState(d.InitialState)
	for _, state := range sortedStates(d.Action, &err) {
		row := d.Action[strconv.Itoa(state)]
		for _, a := range sortedKeys(row) {
			action, e := ParseAction(row[a])
			if e != nil {
				return nil, nil, fmt.Errorf("action(%d, %s): %w", state, a, e)
			}
			tb.Action(state, a, action)
		}
	}
	for _, state := range sortedStates(d.Goto, &err) {
		row := d.Goto[strconv.Itoa(state)]
		for _, A := range sortedKeys(row) {
			tb.Goto(state, A, row[A])
		}
	}
	if err != nil {
		return nil, nil, err
	}
	tables, err := tb.Tables()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDescription, err)
	}
	if err = tables.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDescription, err)
	}
	return g, tables, nil
}

// Fingerprint returns a hash value identifying the grammar and tables of a
// description. The name of the description does not contribute to it.
func (d *Description) Fingerprint() string {
	h, err := structhash.Hash(d, 1)
	if err != nil {
		tracer().Errorf("cannot hash table description: %v", err)
		return ""
	}
	return h
}

// sortedStates returns the state numbers used as keys of a table, in ascending order.
// Keys which are not numbers set err.
func sortedStates[V any](table map[string]V, err *error) []int {
	states := make([]int, 0, len(table))
	for key := range table {
		n, e := strconv.Atoi(key)
		if e != nil || n < 0 {
			if *err == nil {
				*err = fmt.Errorf("%w: state %q is not a state number", ErrDescription, key)
			}
			continue
		}
		if strconv.Itoa(n) != key {
			if *err == nil {
				*err = fmt.Errorf("%w: state %q is not in canonical form", ErrDescription, key)
			}
			continue
		}
		states = append(states, n)
	}
	sort.Ints(states)
	return states
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
