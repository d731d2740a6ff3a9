package proofstate

import (
	"github.com/prooflab/proofengine/internal/proofterm"
	"github.com/prooflab/proofengine/internal/unifybridge"
)

// Attack opens the focused Hole for staged construction: it becomes a
// Guess whose Value is a fresh nested Hole of the same type, and that
// fresh hole becomes the new focus (§4.3). Attacking anything but a
// plain Hole is a WrongBinderError (§7 kind 1).
type Attack struct {
	Focus *proofterm.Name
}

func (t Attack) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	fresh := next.Fresh(*focus)
	err := atFocusedHole(next, focus, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		h, isHole := binder.(proofterm.Hole)
		if !isHole {
			return nil, &WrongBinderError{Tactic: "attack", Name: name}
		}
		nested := proofterm.Bind{Name: fresh, Binder: proofterm.Hole{Type: h.Type}, Scope: proofterm.Ref{Name: fresh}}
		return proofterm.Bind{Name: name, Binder: proofterm.Guess{Type: h.Type, Value: nested}, Scope: scope}, nil
	})
	if err != nil {
		return err
	}
	next.Holes = insertBefore(next.Holes, *focus, fresh)
	return nil
}

// insertBefore inserts name immediately before anchor in holes; if
// anchor is absent, name is appended (Attack: §4.3).
func insertBefore(holes []proofterm.Name, anchor, name proofterm.Name) []proofterm.Name {
	for i, h := range holes {
		if h == anchor {
			out := make([]proofterm.Name, 0, len(holes)+1)
			out = append(out, holes[:i]...)
			out = append(out, name)
			out = append(out, holes[i:]...)
			return out
		}
	}
	return append(append([]proofterm.Name{}, holes...), name)
}

// Claim introduces a brand new top-level obligation of the given type,
// independent of any existing hole, wrapping the whole proof term so
// later tactics may reference it by name (§4.3). It is inserted into
// the hole queue immediately after the current focus.
type Claim struct {
	Name proofterm.Name
	Type proofterm.Term
}

func (t Claim) apply(ps *ProofState, next *ProofState) error {
	if next.UsedNames[t.Name] {
		return &WrongBinderError{Tactic: "claim", Name: t.Name}
	}
	if err := next.Checker.IsType(proofterm.Env{}, t.Type); err != nil {
		return err
	}
	next.PTerm = proofterm.Bind{Name: t.Name, Binder: proofterm.Hole{Type: t.Type}, Scope: next.PTerm}
	next.UsedNames[t.Name] = true
	if anchor, ok := next.Focused(); ok {
		next.Holes = insertAfter(next.Holes, anchor, t.Name)
	} else {
		next.Holes = append(next.Holes, t.Name)
	}
	return nil
}

// Exact elaborates raw against the focused goal by definitional
// equality (no unification) and, if it checks, stages it as the Value
// of a Guess over the same hole: the hole is not eliminated until a
// later Solve (§4.3, invariant 3 — a Guess is only well-typed once
// Solve has run).
type Exact struct {
	Focus *proofterm.Name
	Raw   proofterm.Term
}

func (t Exact) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	h, isHole := binder.(proofterm.Hole)
	if !isHole {
		return &WrongBinderError{Tactic: "exact", Name: name}
	}
	checked, ty, err := next.Checker.Check(env, t.Raw)
	if err != nil {
		return err
	}
	if err := next.Checker.Converts(env, ty, h.Type); err != nil {
		return err
	}
	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		return proofterm.Bind{Name: name, Binder: proofterm.Guess{Type: h.Type, Value: checked}, Scope: scope}, nil
	})
}

func derefOr(n *proofterm.Name, fallback proofterm.Name) proofterm.Name {
	if n == nil {
		return fallback
	}
	return *n
}

// Fill is Exact but compares the staged value's type against the goal
// via unification rather than converts, so it may record deferred
// problems or journal entries along the way (§4.3).
type Fill struct {
	Focus *proofterm.Name
	Raw   proofterm.Term
}

func (t Fill) apply(ps *ProofState, next *ProofState) error {
	return fillWith(next, t.Focus, t.Raw, false)
}

// MatchFill is Fill via one-sided matching instead of full
// unification when comparing the staged value's type against the
// goal (§4.3).
type MatchFill struct {
	Focus *proofterm.Name
	Raw   proofterm.Term
}

func (t MatchFill) apply(ps *ProofState, next *ProofState) error {
	return fillWith(next, t.Focus, t.Raw, true)
}

func fillWith(next *ProofState, focusName *proofterm.Name, raw proofterm.Term, match bool) error {
	focus, ok := next.focusOrFirst(focusName)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	h, isHole := binder.(proofterm.Hole)
	if !isHole {
		return &WrongBinderError{Tactic: "fill", Name: name}
	}
	checked, ty, err := next.Checker.Check(env, raw)
	if err != nil {
		return err
	}

	bridge := unifyBridge(next)
	acc := unifybridge.Accumulator{Problems: next.Problems, Injective: next.Injective, NotUnified: next.NotUnified}
	if match {
		acc = bridge.MatchUnifyPrime(acc, env, ty, h.Type, next.Holes, next.DontUnify)
	} else {
		acc, err = bridge.UnifyPrime(acc, env, ty, h.Type, next.Holes, next.DontUnify)
		if err != nil {
			return err
		}
	}
	applyAccumulator(next, acc)

	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		return proofterm.Bind{Name: name, Binder: proofterm.Guess{Type: h.Type, Value: checked}, Scope: scope}, nil
	})
}

// PrepFill records the focused Guess's current candidate Value in
// next.Solved without touching the term or the hole queue (§4.3).
// EndUnify does not read Solved; it commits only the Unified journal.
type PrepFill struct {
	Focus *proofterm.Name
}

func (t PrepFill) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	_, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	g, isGuess := binder.(proofterm.Guess)
	if !isGuess {
		return &WrongBinderError{Tactic: "prep_fill", Name: name}
	}
	next.Solved = &HoleSolution{Hole: name, Solution: g.Value}
	return nil
}

// CompleteFill re-checks an already-staged Guess's candidate value
// against its own type and unifies that type with the goal, leaving
// the binder a Guess awaiting Solve (§4.3).
type CompleteFill struct {
	Focus *proofterm.Name
}

func (t CompleteFill) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	g, isGuess := binder.(proofterm.Guess)
	if !isGuess {
		return &WrongBinderError{Tactic: "complete_fill", Name: name}
	}
	checked, ty, err := next.Checker.Check(env, proofterm.Forget(g.Value))
	if err != nil {
		return err
	}

	bridge := unifyBridge(next)
	acc := unifybridge.Accumulator{Problems: next.Problems, Injective: next.Injective, NotUnified: next.NotUnified}
	acc, err = bridge.UnifyPrime(acc, env, ty, g.Type, next.Holes, next.DontUnify)
	if err != nil {
		return err
	}
	applyAccumulator(next, acc)

	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		return proofterm.Bind{Name: name, Binder: proofterm.Guess{Type: g.Type, Value: checked}, Scope: scope}, nil
	})
}

// Regret abandons a staged Guess, reverting it to a plain Hole of the
// same type and discarding its candidate Value (§4.3). If the Guess
// was opened by Attack, its nested placeholder hole vanished along
// with the discarded Value, so it is dropped from Holes too.
type Regret struct {
	Focus *proofterm.Name
}

func (t Regret) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	_, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	if _, isGuess := binder.(proofterm.Guess); !isGuess {
		return &WrongBinderError{Tactic: "regret", Name: name}
	}

	if err := atFocusedHole(next, focus, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		g := binder.(proofterm.Guess)
		return proofterm.Bind{Name: name, Binder: proofterm.Hole{Type: g.Type}, Scope: scope}, nil
	}); err != nil {
		return err
	}

	present := collectHoleBinderNames(next.PTerm)
	kept := make([]proofterm.Name, 0, len(next.Holes))
	for _, h := range next.Holes {
		if present[h] {
			kept = append(kept, h)
		}
	}
	next.Holes = kept
	return nil
}

// collectHoleBinderNames walks t and returns the set of names bound by
// every Hole/Guess binder actually present in it — used after a tactic
// discards a sub-term (Regret) to prune hole-queue entries that no
// longer occur anywhere (§3 invariant 1).
func collectHoleBinderNames(t proofterm.Term) map[proofterm.Name]bool {
	out := map[proofterm.Name]bool{}
	var walk func(proofterm.Term)
	walk = func(t proofterm.Term) {
		switch n := t.(type) {
		case proofterm.App:
			walk(n.Fun)
			walk(n.Arg)
		case proofterm.Bind:
			if proofterm.IsHole(n.Binder) {
				out[n.Name] = true
			}
			if g, isGuess := n.Binder.(proofterm.Guess); isGuess {
				walk(g.Value)
			}
			walk(n.Binder.Ty())
			walk(n.Scope)
		}
	}
	walk(t)
	return out
}

// Solve discharges a Guess whose Value has been fully determined: the
// hole binder is eliminated and Value substituted into both its own
// scope and the whole surrounding term, and the solved name is pruned
// from notunified and instances along with the hole queue — it is no
// longer an outstanding obligation in any of the three (§4.3, §4.4
// updateSolved).
type Solve struct {
	Focus *proofterm.Name
}

func (t Solve) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	_, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	g, isGuess := binder.(proofterm.Guess)
	if !isGuess {
		return &WrongBinderError{Tactic: "solve", Name: name}
	}

	sol := proofterm.Solution{name: g.Value}
	next.PTerm = unifybridge.UpdateSolved(sol, next.PTerm)
	next.NotUnified = unifybridge.UpdateNotunified(next.NotUnified, sol)
	delete(next.NotUnified, name)
	next.Holes = removeHoleFrom(next.Holes, name)
	next.Instances = removeHoleFrom(next.Instances, name)
	next.Unified = append(next.Unified, HoleSolution{Hole: name, Solution: g.Value})
	next.Solved = &HoleSolution{Hole: name, Solution: g.Value}
	return nil
}
