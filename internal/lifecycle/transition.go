// Package lifecycle holds the transition-table machinery shared by the
// seller registry and the order ledger. A status enum declares its legal
// moves once, in one table; everything else asks the table.
package lifecycle

import "fmt"

// Table maps a status to the set of statuses reachable from it.
// Terminal statuses map to an empty set.
type Table[S comparable] map[S]map[S]bool

// Can reports whether from -> to is a legal transition.
func (t Table[S]) Can(from, to S) bool {
	return t[from][to]
}

// Check returns a TransitionError if from -> to is not in the table.
// to == from is rejected here too; callers that treat a repeated target
// as an idempotent no-op must short-circuit before calling Check.
func (t Table[S]) Check(from, to S) error {
	if !t.Can(from, to) {
		return &TransitionError[S]{From: from, To: to}
	}
	return nil
}

// Terminal reports whether no transition leaves the given status.
func (t Table[S]) Terminal(s S) bool {
	return len(t[s]) == 0
}

// TransitionError carries the current and attempted status so the gateway
// can report both to the caller.
type TransitionError[S comparable] struct {
	From S
	To   S
}

func (e *TransitionError[S]) Error() string {
	return fmt.Sprintf("invalid transition: %v -> %v", e.From, e.To)
}
