package proofstate

import "github.com/prooflab/proofengine/internal/proofterm"

// eqTypeName is the name the context registers the canonical
// (heterogeneous) equality family under: Eq A B x y (§4.3, §6).
const eqTypeName proofterm.Name = "Eq"

// Rewrite rewrites every occurrence of e's left-hand side in the
// focused goal to its right-hand side, leaving a fresh hole of the
// rewritten goal as the new obligation (§4.3). e's type must reduce
// to the canonical equality constant applied to exactly 4 arguments,
// or NotEqualityError is raised.
type Rewrite struct {
	Focus *proofterm.Name
	Eq    proofterm.Term
}

func (t Rewrite) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	if !proofterm.IsHole(binder) {
		return &WrongBinderError{Tactic: "rewrite", Name: name}
	}

	eqChecked, eqTy, err := next.Checker.Check(env, t.Eq)
	if err != nil {
		return err
	}
	head, args := proofterm.UnApply(next.Eval.HNF(env, eqTy))
	ref, isRef := head.(proofterm.Ref)
	if !isRef || ref.Name != eqTypeName || len(args) != 4 {
		return &NotEqualityError{Type: stringerOf(eqTy)}
	}
	lhs, rhs := args[2], args[3]

	newGoalTy := replaceSubterm(binder.Ty(), lhs, rhs)
	freshHole := next.Fresh(name)

	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		newHole := proofterm.Bind{Name: freshHole, Binder: proofterm.Hole{Type: newGoalTy}, Scope: proofterm.Ref{Name: freshHole}}
		// __rewrite stands for the external elimination principle this
		// engine never implements (§6): applying the equality proof to
		// transport the rewritten hole's eventual value back to the
		// original goal's type.
		value := proofterm.MkApp(proofterm.Ref{Name: "__rewrite"}, eqChecked, newHole)
		solved := proofterm.Subst(name, value, scope)
		next.Holes = replaceHole(next.Holes, name, freshHole)
		return solved, nil
	})
}

// replaceSubterm structurally replaces every occurrence of from within
// t (matched by proofterm.AlphaEq) with to.
func replaceSubterm(t, from, to proofterm.Term) proofterm.Term {
	if proofterm.AlphaEq(t, from) {
		return to
	}
	switch n := t.(type) {
	case proofterm.App:
		return proofterm.App{Fun: replaceSubterm(n.Fun, from, to), Arg: replaceSubterm(n.Arg, from, to)}
	case proofterm.Bind:
		return proofterm.Bind{
			Name:   n.Name,
			Binder: replaceSubtermBinder(n.Binder, from, to),
			Scope:  replaceSubterm(n.Scope, from, to),
		}
	default:
		return t
	}
}

func replaceSubtermBinder(b proofterm.Binder, from, to proofterm.Term) proofterm.Binder {
	switch bb := b.(type) {
	case proofterm.Guess:
		return proofterm.Guess{Type: replaceSubterm(bb.Type, from, to), Value: replaceSubterm(bb.Value, from, to)}
	case proofterm.Let:
		return proofterm.Let{Type: replaceSubterm(bb.Type, from, to), Value: replaceSubterm(bb.Value, from, to)}
	default:
		return b.WithTy(replaceSubterm(b.Ty(), from, to))
	}
}

// Induction eliminates the focused goal over scrutinee, using the
// context's uniquely-registered eliminator for the scrutinee's head
// type family (§4.3). The engine models elimination directly rather
// than deriving per-constructor motives from DataMI: it always opens
// exactly two fresh holes (the base and inductive-step branches of a
// two-constructor family, e.g. Nat's zero/succ), matching §8's worked
// scenario; a family with a different constructor count is out of
// this engine's scope (§6, the real eliminator lives in Context).
type Induction struct {
	Focus      *proofterm.Name
	Scrutinee  proofterm.Term
}

func (t Induction) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	if !proofterm.IsHole(binder) {
		return &WrongBinderError{Tactic: "induction", Name: name}
	}

	scChecked, scTy, err := next.Checker.Check(env, t.Scrutinee)
	if err != nil {
		return err
	}
	head, _ := proofterm.UnApply(next.Eval.HNF(env, scTy))
	famRef, isRef := head.(proofterm.Ref)
	if !isRef {
		return &NoEliminatorError{}
	}
	elims := next.Context.LookupEliminator(famRef.Name)
	if len(elims) == 0 {
		return &NoEliminatorError{Type: famRef.Name}
	}
	if len(elims) > 1 {
		return &AmbiguousEliminatorError{Type: famRef.Name, Eliminators: elims}
	}

	goalTy := binder.Ty()
	baseHole := next.Fresh(name)
	stepHole := next.Fresh(name)

	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		base := proofterm.Bind{Name: baseHole, Binder: proofterm.Hole{Type: goalTy}, Scope: proofterm.Ref{Name: baseHole}}
		step := proofterm.Bind{Name: stepHole, Binder: proofterm.Hole{Type: goalTy}, Scope: proofterm.Ref{Name: stepHole}}
		value := proofterm.MkApp(proofterm.Ref{Name: elims[0]}, scChecked, base, step)
		solved := proofterm.Subst(name, value, scope)
		next.Holes = replaceHole(next.Holes, name, baseHole)
		next.Holes = insertAfter(next.Holes, baseHole, stepHole)
		return solved, nil
	})
}

// Equiv retypes the focused goal to a definitionally-equivalent type
// without introducing any new hole (§4.3): it is an escape hatch for
// when the displayed goal and a restated one differ only by
// conversion.
type Equiv struct {
	Focus *proofterm.Name
	Type  proofterm.Term
}

func (t Equiv) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	if !proofterm.IsHole(binder) {
		return &WrongBinderError{Tactic: "equiv", Name: name}
	}
	if err := next.Checker.Converts(env, binder.Ty(), t.Type); err != nil {
		return err
	}
	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		return proofterm.Bind{Name: name, Binder: binder.WithTy(t.Type), Scope: scope}, nil
	})
}
