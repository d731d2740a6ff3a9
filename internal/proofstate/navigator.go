package proofstate

import "github.com/prooflab/proofengine/internal/proofterm"

// RunTactic is the shape every tactic interpreter conforms to: given
// the environment enclosing the focused hole, its name, its binder,
// and its scope, produce the term that replaces the whole Bind node
// (§4.1 contract, §9 "dynamic dispatch on tactics"). Most tactics
// rebuild Bind{name, newBinder, scope} unchanged apart from the
// binder; a few (Intro, Rewrite, Induction, Defer, DeferType) instead
// eliminate the hole outright by substituting into scope and returning
// that.
type RunTactic func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error)

// AtHole descends t to the first Hole/Guess binder matching focus
// (or, if focus is nil, the first such binder encountered), invokes f
// there, and rebuilds the spine with f's result spliced in. found is
// false, and t is returned unchanged, when no match exists at all —
// the caller turns that into CantFindHoleError.
//
// Traversal order (§4.1): under a Guess binder, its candidate Value is
// searched before its Type, before the Scope; under any other binder,
// the Scope is searched before the binder's annotation Type. The
// first match wins; nothing past it is visited.
func AtHole(focus *proofterm.Name, t proofterm.Term, f RunTactic) (proofterm.Term, bool, error) {
	return atHole(t, focus, f, proofterm.Env{})
}

func atHole(t proofterm.Term, focus *proofterm.Name, f RunTactic, env proofterm.Env) (proofterm.Term, bool, error) {
	switch n := t.(type) {
	case proofterm.App:
		if nf, found, err := atHole(n.Fun, focus, f, env); found {
			return proofterm.App{Fun: nf, Arg: n.Arg}, true, err
		}
		if na, found, err := atHole(n.Arg, focus, f, env); found {
			return proofterm.App{Fun: n.Fun, Arg: na}, true, err
		}
		return t, false, nil

	case proofterm.Bind:
		if proofterm.IsHole(n.Binder) && (focus == nil || n.Name == *focus) {
			newT, err := f(env, n.Name, n.Binder, n.Scope)
			return newT, true, err
		}

		inner := env.Extend(n.Name, n.Binder)

		if g, isGuess := n.Binder.(proofterm.Guess); isGuess {
			if nv, found, err := atHole(g.Value, focus, f, env); found {
				return proofterm.Bind{Name: n.Name, Binder: proofterm.Guess{Type: g.Type, Value: nv}, Scope: n.Scope}, true, err
			}
			if nty, found, err := atHole(g.Type, focus, f, env); found {
				return proofterm.Bind{Name: n.Name, Binder: proofterm.Guess{Type: nty, Value: g.Value}, Scope: n.Scope}, true, err
			}
			if nsc, found, err := atHole(n.Scope, focus, f, inner); found {
				return proofterm.Bind{Name: n.Name, Binder: n.Binder, Scope: nsc}, true, err
			}
			return t, false, nil
		}

		if nsc, found, err := atHole(n.Scope, focus, f, inner); found {
			return proofterm.Bind{Name: n.Name, Binder: n.Binder, Scope: nsc}, true, err
		}
		if ty := n.Binder.Ty(); ty != nil {
			if nty, found, err := atHole(ty, focus, f, env); found {
				return proofterm.Bind{Name: n.Name, Binder: n.Binder.WithTy(nty), Scope: n.Scope}, true, err
			}
		}
		return t, false, nil

	default:
		return t, false, nil
	}
}

// Goal reuses AtHole's traversal order but only reports the
// environment and binder at the match — a read-only query, the basis
// of envAtFocus/goalAtFocus (§6).
func Goal(focus *proofterm.Name, t proofterm.Term) (proofterm.Env, proofterm.Name, proofterm.Binder, bool) {
	var gotEnv proofterm.Env
	var gotName proofterm.Name
	var gotBinder proofterm.Binder
	found := false

	probe := func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		gotEnv, gotName, gotBinder, found = env, name, binder, true
		return proofterm.Bind{Name: name, Binder: binder, Scope: scope}, nil
	}

	_, _, _ = AtHole(focus, t, probe)
	return gotEnv, gotName, gotBinder, found
}
