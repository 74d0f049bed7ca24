package lr

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind tells a parser what to do for a (state, terminal) combination.
type ActionKind uint8

// Kinds of parser actions. The zero value is AbsentAction, i.e. an empty cell
// of the ACTION table.
const (
	AbsentAction ActionKind = iota
	ShiftAction
	ReduceAction
	AcceptAction
)

func (k ActionKind) String() string {
	switch k {
	case ShiftAction:
		return "shift"
	case ReduceAction:
		return "reduce"
	case AcceptAction:
		return "accept"
	}
	return "absent"
}

// Action is an entry of the ACTION table. It is one of
//
//     Shift(n)    push the current token and move to state n
//     Reduce(p)   reduce by production number p
//     Accept()    input is a sentence of the grammar
//     Absent      no action defined, i.e. a syntax error
//
// Actions are small values and compare with ==.
type Action struct {
	kind   ActionKind
	target int
}

// Absent is the action of an empty table cell.
var Absent = Action{}

// Shift creates a shift action to state n.
func Shift(n int) Action {
	return Action{kind: ShiftAction, target: n}
}

// Reduce creates a reduce action for production number p.
func Reduce(p int) Action {
	return Action{kind: ReduceAction, target: p}
}

// Accept creates an accept action.
func Accept() Action {
	return Action{kind: AcceptAction}
}

// Kind returns the kind of action.
func (a Action) Kind() ActionKind {
	return a.kind
}

// Target is the state to shift to for shift actions and the production number
// for reduce actions. It is 0 for accept and absent actions.
func (a Action) Target() int {
	return a.target
}

// IsAbsent is true for an empty table cell.
func (a Action) IsAbsent() bool {
	return a.kind == AbsentAction
}

// String renders an action in short form, as it is used in table descriptions:
// "s4", "r2", "acc", or "-" for an absent action.
func (a Action) String() string {
	switch a.kind {
	case ShiftAction:
		return "s" + strconv.Itoa(a.target)
	case ReduceAction:
		return "r" + strconv.Itoa(a.target)
	case AcceptAction:
		return "acc"
	}
	return "-"
}

// ParseAction decodes an action from its textual form. Accepted are the short
// forms "sN", "rN", "acc" and the long forms "shift N", "reduce N", "accept".
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "acc", "accept":
		return Accept(), nil
	case "", "-":
		return Absent, fmt.Errorf("%w: empty action", ErrDescription)
	}
	var kind ActionKind
	var num string
	if f := strings.Fields(s); len(f) == 2 {
		switch strings.ToLower(f[0]) {
		case "shift":
			kind = ShiftAction
		case "reduce":
			kind = ReduceAction
		}
		num = f[1]
	} else if len(f) == 1 {
		switch s[0] {
		case 's', 'S':
			kind = ShiftAction
		case 'r', 'R':
			kind = ReduceAction
		}
		num = s[1:]
	}
	if kind == AbsentAction {
		return Absent, fmt.Errorf("%w: malformed action %q", ErrDescription, s)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return Absent, fmt.Errorf("%w: malformed action %q", ErrDescription, s)
	}
	return Action{kind: kind, target: n}, nil
}

// MaxTarget is the largest shift target or production number an action table
// can hold.
const MaxTarget = 1<<29 - 1

// Actions are stored in sparse matrices as int32 values, with the kind in the
// lower 2 bits. An absent action is the matrix' null value.
func (a Action) encode() int32 {
	return int32(a.target)<<2 | int32(a.kind)
}

func decodeAction(v int32, null int32) Action {
	if v == null {
		return Absent
	}
	return Action{kind: ActionKind(v & 3), target: int(v >> 2)}
}
