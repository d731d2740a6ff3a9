package proofstate

import (
	"github.com/prooflab/proofengine/internal/proofterm"
	"github.com/prooflab/proofengine/internal/unifybridge"
)

// Tactic is the closed tagged union of every operation the engine
// supports (§4.3, §9 "dynamic dispatch on tactics"). Only this
// package may implement it — apply is unexported by design, exactly
// as §9 recommends: "a method-per-variant implementation of the
// RunTactic contract... gives identical semantics" to a state monad.
type Tactic interface {
	apply(ps *ProofState, next *ProofState) error
}

// ProcessTactic is processTactic(tactic, state) -> (state', log) from
// §6: a pure function. On success it returns a brand new ProofState
// whose Previous points at a Previous-less copy of ps (§5 single-step
// undo). On failure it returns ps unchanged (§7 propagation policy).
func ProcessTactic(t Tactic, ps *ProofState) (*ProofState, error) {
	next := ps.clone()
	if err := t.apply(ps, next); err != nil {
		return ps, err
	}
	ps.snapshotInto(next)
	return next, nil
}

// EnvAtFocus and GoalAtFocus are the read-only queries of §6.
func EnvAtFocus(ps *ProofState) (proofterm.Env, bool) {
	focus, ok := ps.Focused()
	if !ok {
		return nil, false
	}
	env, _, _, found := Goal(&focus, ps.PTerm)
	return env, found
}

func GoalAtFocus(ps *ProofState) (proofterm.Term, bool) {
	focus, ok := ps.Focused()
	if !ok {
		return nil, false
	}
	_, _, binder, found := Goal(&focus, ps.PTerm)
	if !found {
		return nil, false
	}
	return binder.Ty(), true
}

// atFocusedHole is the shared plumbing every hole-targeted tactic uses:
// resolve the explicit-or-current focus, run f there via AtHole, and
// splice the result into next.PTerm, failing with CantFindHoleError
// when the name does not occur at all.
func atFocusedHole(next *ProofState, explicit *proofterm.Name, f RunTactic) error {
	focus, ok := next.focusOrFirst(explicit)
	if !ok {
		name := proofterm.Name("")
		if explicit != nil {
			name = *explicit
		}
		return &CantFindHoleError{Name: name}
	}
	newTerm, found, err := AtHole(focus, next.PTerm, f)
	if err != nil {
		return err
	}
	if !found {
		name := proofterm.Name("<focus>")
		if focus != nil {
			name = *focus
		}
		return &CantFindHoleError{Name: name}
	}
	next.PTerm = newTerm
	return nil
}

// Undo restores Previous, or fails if there is none (§4.3, §7 kind 4).
type Undo struct{}

func (Undo) apply(ps *ProofState, next *ProofState) error {
	if ps.Previous == nil {
		return &NothingToUndoError{}
	}
	*next = *ps.Previous
	return nil
}

// QED requires Holes == [] and re-typechecks PTerm against PType,
// then sets Done (§4.3, §7 kind 4).
type QED struct{}

func (QED) apply(ps *ProofState, next *ProofState) error {
	if len(ps.Holes) > 0 {
		return &StillHolesError{Remaining: append([]proofterm.Name{}, ps.Holes...)}
	}
	_, _, err := ps.Checker.Recheck(proofterm.Env{}, proofterm.Forget(ps.PTerm), ps.PTerm)
	if err != nil {
		return err
	}
	next.Done = true
	return nil
}

// ProofStateTactic is the §4.3 "ProofState" tactic. It leaves the
// state as it is and produces no rendering itself: apply returns only
// an error, and a driver renders a state with proofprinter.PrintState.
type ProofStateTactic struct{}

func (ProofStateTactic) apply(ps *ProofState, next *ProofState) error {
	next.PLog = ps.PLog
	return nil
}

// unifyBridge adapts unifybridge's free functions to the extern
// collaborators a given ProofState was built with — the glue between
// the 20%-share unifier bridge and whichever Unifier/Context a test or
// the driver supplied.
func unifyBridge(ps *ProofState) unifybridge.Bridge {
	return unifybridge.Bridge{Unifier: ps.Unifier}
}
