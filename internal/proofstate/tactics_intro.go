package proofstate

import "github.com/prooflab/proofengine/internal/proofterm"

// Intro discharges a Pi-typed goal by binding its domain as a Lam and
// leaving a fresh Hole of the codomain as the new obligation (§4.3).
// If name is nil a fresh one is generated from the Pi's own bound
// name; the goal is first reduced to head normal form so a Pi hiding
// behind a Let/definition is still recognised.
type Intro struct {
	Focus *proofterm.Name
	Name  *proofterm.Name
}

func (t Intro) apply(ps *ProofState, next *ProofState) error {
	return introWith(next, t.Focus, t.Name, false)
}

// IntroTy is Intro except that, when no Name is given, the bound
// variable's fresh name is derived from the hole's own name rather than
// from the Pi's bound name (§4.3). It takes no domain type from the
// caller and does no unification against the Pi's domain.
type IntroTy struct {
	Focus *proofterm.Name
	Name  *proofterm.Name
}

func (t IntroTy) apply(ps *ProofState, next *ProofState) error {
	return introWith(next, t.Focus, t.Name, true)
}

func introWith(next *ProofState, focusName, givenName *proofterm.Name, forceFresh bool) error {
	focus, ok := next.focusOrFirst(focusName)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	if !proofterm.IsHole(binder) {
		return &WrongBinderError{Tactic: "intro", Name: name}
	}

	goal := next.Eval.HNF(env, binder.Ty())
	pi, isPi := goal.(proofterm.Bind)
	if !isPi {
		return &CantIntroduceError{Goal: stringerOf(goal)}
	}
	if _, ok := pi.Binder.(proofterm.Pi); !ok {
		return &CantIntroduceError{Goal: stringerOf(goal)}
	}

	var bound proofterm.Name
	switch {
	case givenName != nil:
		bound = *givenName
	case forceFresh:
		bound = next.Fresh(name)
	default:
		bound = next.Fresh(pi.Name)
	}
	next.UsedNames[bound] = true

	codomain := proofterm.Subst(pi.Name, proofterm.Ref{Name: bound}, pi.Scope)
	freshHole := next.Fresh(name)

	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		inner := proofterm.Bind{Name: freshHole, Binder: proofterm.Hole{Type: codomain}, Scope: proofterm.Ref{Name: freshHole}}
		lam := proofterm.Bind{Name: bound, Binder: proofterm.Lam{Type: pi.Binder.Ty()}, Scope: inner}
		solved := proofterm.Subst(name, lam, scope)
		next.Holes = replaceHole(next.Holes, name, freshHole)
		return solved, nil
	})
}

func replaceHole(holes []proofterm.Name, old, new proofterm.Name) []proofterm.Name {
	out := make([]proofterm.Name, len(holes))
	for i, h := range holes {
		if h == old {
			out[i] = new
		} else {
			out[i] = h
		}
	}
	return out
}

// stringerOf adapts a proofterm.Term to fmt.Stringer for the error
// types in errors.go, which are written against the external
// collaborator interfaces and so only ever see fmt.Stringer.
func stringerOf(t proofterm.Term) stringerAdapter { return stringerAdapter{t} }

type stringerAdapter struct{ t proofterm.Term }

func (s stringerAdapter) String() string { return s.t.String() }

// Forall is a goal-level Pi introduction for the relational reading
// of a theorem statement still under construction: it wraps the
// focused hole's type in a fresh Pi over domain, narrowing the goal
// rather than the term (§4.3).
type Forall struct {
	Focus  *proofterm.Name
	Domain proofterm.Term
}

func (t Forall) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	_, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	if !proofterm.IsHole(binder) {
		return &WrongBinderError{Tactic: "forall", Name: name}
	}
	bound := next.Fresh(name)
	newGoal := proofterm.Bind{Name: bound, Binder: proofterm.Pi{Type: t.Domain}, Scope: binder.Ty()}
	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		return proofterm.Bind{Name: name, Binder: binder.WithTy(newGoal), Scope: scope}, nil
	})
}

// LetBind introduces a Let binder around the focused hole, giving
// value a name so ExpandLet or later tactics can unfold it (§4.3).
// Type is checked as a type and Value is checked against it before
// either is spliced into the term.
type LetBind struct {
	Focus *proofterm.Name
	Name  proofterm.Name
	Type  proofterm.Term
	Value proofterm.Term
}

func (t LetBind) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	if !proofterm.IsHole(binder) {
		return &WrongBinderError{Tactic: "let", Name: name}
	}
	if err := next.Checker.IsType(env, t.Type); err != nil {
		return err
	}
	checkedValue, valueTy, err := next.Checker.Check(env, t.Value)
	if err != nil {
		return err
	}
	if err := next.Checker.Converts(env, valueTy, t.Type); err != nil {
		return err
	}
	next.UsedNames[t.Name] = true
	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		body := proofterm.Bind{Name: name, Binder: binder, Scope: scope}
		return proofterm.Bind{Name: t.Name, Binder: proofterm.Let{Type: t.Type, Value: checkedValue}, Scope: body}, nil
	})
}

// ExpandLet replaces every occurrence of a Let-bound name with its
// value throughout the remaining term and removes the binder (§4.3).
type ExpandLet struct {
	Name proofterm.Name
}

func (t ExpandLet) apply(ps *ProofState, next *ProofState) error {
	newTerm, ok := expandLet(next.PTerm, t.Name)
	if !ok {
		return &CantFindHoleError{Name: t.Name}
	}
	next.PTerm = newTerm
	return nil
}

func expandLet(term proofterm.Term, name proofterm.Name) (proofterm.Term, bool) {
	switch n := term.(type) {
	case proofterm.App:
		if nf, ok := expandLet(n.Fun, name); ok {
			return proofterm.App{Fun: nf, Arg: n.Arg}, true
		}
		if na, ok := expandLet(n.Arg, name); ok {
			return proofterm.App{Fun: n.Fun, Arg: na}, true
		}
		return term, false
	case proofterm.Bind:
		if n.Name == name {
			if l, isLet := n.Binder.(proofterm.Let); isLet {
				return proofterm.Subst(name, l.Value, n.Scope), true
			}
			return term, false
		}
		if nsc, ok := expandLet(n.Scope, name); ok {
			return proofterm.Bind{Name: n.Name, Binder: n.Binder, Scope: nsc}, true
		}
		return term, false
	default:
		return term, false
	}
}
