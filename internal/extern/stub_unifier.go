package extern

import "github.com/prooflab/proofengine/internal/proofterm"

// StubUnifier is a small structural unifier used by proofstate's own
// tests. Its shape is adapted from the teacher's typesystem.Unify:
// a co-inductive visited-pairs guard against cyclic structural types,
// falling through to a per-constructor comparison, generalized here
// from typesystem.Type/TVar to proofterm.Term/Ref-named holes.
type StubUnifier struct{}

type termPair struct {
	a, b proofterm.Term
}

func (StubUnifier) Unify(env proofterm.Env, a, b proofterm.Term, injective map[proofterm.Name]bool, holes []proofterm.Name) (proofterm.Solution, []Problem, error) {
	holeSet := nameSet(holes)
	sol, err := unify(a, b, holeSet, nil)
	if err != nil {
		return nil, []Problem{{Env: env, LHS: a, RHS: b, Err: err, Mode: ModeUnify}}, err
	}
	return sol, nil, nil
}

func (StubUnifier) MatchUnify(env proofterm.Env, a, b proofterm.Term, injective map[proofterm.Name]bool, holes []proofterm.Name) (proofterm.Solution, error) {
	holeSet := nameSet(holes)
	return unify(a, b, holeSet, nil)
}

func nameSet(ns []proofterm.Name) map[proofterm.Name]bool {
	s := make(map[proofterm.Name]bool, len(ns))
	for _, n := range ns {
		s[n] = true
	}
	return s
}

func unify(a, b proofterm.Term, holes map[proofterm.Name]bool, visited []termPair) (proofterm.Solution, error) {
	for _, p := range visited {
		if proofterm.AlphaEq(p.a, a) && proofterm.AlphaEq(p.b, b) {
			return proofterm.Solution{}, nil
		}
	}
	visited = append(visited, termPair{a, b})

	if proofterm.AlphaEq(a, b) {
		return proofterm.Solution{}, nil
	}

	if ref, ok := a.(proofterm.Ref); ok && holes[ref.Name] {
		return bindHole(ref.Name, b)
	}
	if ref, ok := b.(proofterm.Ref); ok && holes[ref.Name] {
		return bindHole(ref.Name, a)
	}

	switch na := a.(type) {
	case proofterm.App:
		nb, ok := b.(proofterm.App)
		if !ok {
			return nil, mismatch(a, b)
		}
		s1, err := unify(na.Fun, nb.Fun, holes, visited)
		if err != nil {
			return nil, err
		}
		s2, err := unify(proofterm.PSubst(s1, na.Arg), proofterm.PSubst(s1, nb.Arg), holes, visited)
		if err != nil {
			return nil, err
		}
		return compose(s1, s2), nil
	case proofterm.Bind:
		nb, ok := b.(proofterm.Bind)
		if !ok || !proofterm.SameVariant(na.Binder, nb.Binder) {
			return nil, mismatch(a, b)
		}
		s1, err := unify(na.Binder.Ty(), nb.Binder.Ty(), holes, visited)
		if err != nil {
			return nil, err
		}
		renamedScope := proofterm.Subst(nb.Name, proofterm.Ref{Name: na.Name}, nb.Scope)
		s2, err := unify(proofterm.PSubst(s1, na.Scope), proofterm.PSubst(s1, renamedScope), holes, visited)
		if err != nil {
			return nil, err
		}
		return compose(s1, s2), nil
	default:
		return nil, mismatch(a, b)
	}
}

func bindHole(name proofterm.Name, t proofterm.Term) (proofterm.Solution, error) {
	if ref, ok := t.(proofterm.Ref); ok && ref.Name == name {
		return proofterm.Solution{}, nil
	}
	if !proofterm.NoOccurrence(name, t) {
		return nil, &CantUnifyError{LHS: stringerOf(proofterm.Ref{Name: name}), RHS: stringerOf(t), Reason: "occurs check"}
	}
	return proofterm.Solution{name: t}, nil
}

func compose(s1, s2 proofterm.Solution) proofterm.Solution {
	out := make(proofterm.Solution, len(s1)+len(s2))
	for k, v := range s1 {
		out[k] = proofterm.PSubst(s2, v)
	}
	for k, v := range s2 {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}
	return out
}

func mismatch(a, b proofterm.Term) error {
	return &CantUnifyError{LHS: stringerOf(a), RHS: stringerOf(b), Reason: "structural mismatch"}
}
