package proofstate

import (
	"fmt"

	"github.com/prooflab/proofengine/internal/proofterm"
)

// CantFindHoleError is raised when a tactic names a focus that does
// not occur in the proof term (§4.1 edge cases).
type CantFindHoleError struct {
	Name proofterm.Name
}

func (e *CantFindHoleError) Error() string {
	return fmt.Sprintf("can't find hole %s", e.Name)
}

// WrongBinderError is the generic "Can't T here" structural failure
// (§7 kind 1): a tactic was applied where the focused binder's variant
// does not match what it requires.
type WrongBinderError struct {
	Tactic string
	Name   proofterm.Name
}

func (e *WrongBinderError) Error() string {
	return fmt.Sprintf("can't %s here: %s is not an attackable hole", e.Tactic, e.Name)
}

// CantIntroduceError is raised by Intro/IntroTy when the focused goal
// is not (after HNF) a Pi type.
type CantIntroduceError struct {
	Goal fmt.Stringer
}

func (e *CantIntroduceError) Error() string {
	return fmt.Sprintf("can't introduce: %s is not a function type", e.Goal)
}

// NotEqualityError is raised by Rewrite when e's type is not the
// canonical equality constant applied to 4 arguments (§4.3, §6).
type NotEqualityError struct {
	Type fmt.Stringer
}

func (e *NotEqualityError) Error() string {
	return fmt.Sprintf("not an equality type: %s", e.Type)
}

// StillHolesError is raised by QED when holes remain open (§7 kind 4).
type StillHolesError struct {
	Remaining []proofterm.Name
}

func (e *StillHolesError) Error() string {
	return "still holes to fill."
}

// NothingToUndoError is raised by Undo with no predecessor (§7 kind 4).
type NothingToUndoError struct{}

func (e *NothingToUndoError) Error() string { return "nothing to undo." }

// NoEliminatorError / AmbiguousEliminatorError are raised by Induction
// when the context has zero, or more than one, eliminator registered
// for the scrutinee's family (§4.3).
type NoEliminatorError struct {
	Type proofterm.Name
}

func (e *NoEliminatorError) Error() string {
	return fmt.Sprintf("no eliminator registered for %s", e.Type)
}

type AmbiguousEliminatorError struct {
	Type        proofterm.Name
	Eliminators []proofterm.Name
}

func (e *AmbiguousEliminatorError) Error() string {
	return fmt.Sprintf("ambiguous eliminator for %s: %v", e.Type, e.Eliminators)
}

// DeferSelfError is raised by Defer/DeferType when the focused binder
// is not a plain Hole whose scope is a bare reference to itself (§4.3
// precondition).
type DeferSelfError struct {
	Name proofterm.Name
}

func (e *DeferSelfError) Error() string {
	return fmt.Sprintf("%s is not a plain reference to itself, can't defer", e.Name)
}
