package driver

import (
	"errors"
	"fmt"

	"github.com/npillmayer/lrdrive"
)

// ErrTableInconsistency is the error class for parse tables which do not fit their
// grammar. Errors of this class are fatal: the parser aborts the run. They never
// occur with correctly generated tables.
var ErrTableInconsistency = errors.New("parse tables inconsistent with grammar")

// ErrStepBudget is returned if a parse run exceeds the step budget of its parser.
var ErrStepBudget = errors.New("parser step budget exhausted")

// ErrNilToken is returned if a tokenizer delivers a nil token while signalling
// that more input follows.
var ErrNilToken = errors.New("tokenizer delivered a nil token")

// ErrInvariant is returned if invariant checking is enabled and the parse stack
// is found in an illegal condition.
var ErrInvariant = errors.New("parse stack invariant violated")

// TableErrorKind tells what exactly went wrong with the parse tables.
type TableErrorKind uint8

// Kinds of table inconsistencies.
const (
	MissingGoto     TableErrorKind = iota + 1 // no GOTO entry after a reduction
	ProductionIndex                           // reduce action refers to a non-existing production
	StackUnderflow                            // reduction would pop the bottom state
)

func (k TableErrorKind) String() string {
	switch k {
	case MissingGoto:
		return "missing GOTO entry"
	case ProductionIndex:
		return "production index out of range"
	case StackUnderflow:
		return "stack underflow"
	}
	return "table error"
}

// TableError is a fatal error, raised if the parse tables are malformed with respect
// to the grammar. It wraps ErrTableInconsistency:
//
//     if errors.Is(err, driver.ErrTableInconsistency) { … }
//
type TableError struct {
	Kind       TableErrorKind
	State      int            // parser state at which the error occured
	Symbol     lrdrive.Symbol // LHS for missing GOTO entries
	Production int            // production number of the reduce action
	cause      error
}

func (e *TableError) Error() string {
	switch e.Kind {
	case MissingGoto:
		return fmt.Sprintf("%v: %s for goto(%d, %s) after reducing by production %d",
			ErrTableInconsistency, e.Kind, e.State, e.Symbol, e.Production)
	case ProductionIndex:
		return fmt.Sprintf("%v: action in state %d reduces by production %d: %v",
			ErrTableInconsistency, e.State, e.Production, e.cause)
	}
	return fmt.Sprintf("%v: %s in state %d, reducing by production %d",
		ErrTableInconsistency, e.Kind, e.State, e.Production)
}

// Unwrap returns ErrTableInconsistency and the underlying error, if any.
func (e *TableError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrTableInconsistency}
	}
	return []error{ErrTableInconsistency, e.cause}
}
