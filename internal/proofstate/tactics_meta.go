package proofstate

import "github.com/prooflab/proofengine/internal/proofterm"

// FocusTactic reorders the hole queue so name is current (§4.3 Focus),
// wrapping the free Focus function declared in state.go.
type FocusTactic struct {
	Name proofterm.Name
}

func (t FocusTactic) apply(ps *ProofState, next *ProofState) error {
	if !next.UsedNames[t.Name] {
		return &CantFindHoleError{Name: t.Name}
	}
	next.Holes = Focus(next.Holes, t.Name)
	return nil
}

// MoveLastTactic moves name to the tail of the hole queue (§4.3
// MoveLast), wrapping the free MoveLast function declared in state.go.
type MoveLastTactic struct {
	Name proofterm.Name
}

func (t MoveLastTactic) apply(ps *ProofState, next *ProofState) error {
	if !next.UsedNames[t.Name] {
		return &CantFindHoleError{Name: t.Name}
	}
	next.Holes = MoveLast(next.Holes, t.Name)
	return nil
}

// Reorder is reorder_claims (§4.3, §9): it topologically sorts the
// maximal run of adjacent Hole binders at the root of the proof term
// by an occurrence-based insertion sort — each binder moves earlier
// past every binder it does not depend on (whose name does not occur
// free in its own type) and stops at the first one it references, so a
// binder never ends up before something it references. The sort is
// not stable: binders with no dependency between them do not keep
// their original relative order (a run of mutually independent holes
// comes out reversed). The spec's own argument (`Reorder _`) is
// unused, hence the empty struct.
type Reorder struct{}

func (Reorder) apply(ps *ProofState, next *ProofState) error {
	chain, tail := peelHoleChain(next.PTerm)
	if len(chain) < 2 {
		return nil
	}
	sorted := reorderHoleChain(chain)
	next.PTerm = rebuildHoleChain(sorted, tail)
	next.Holes = reorderHoleNames(next.Holes, sorted)
	return nil
}

// holeBinder is one link of a peeled chain of nested Bind/Hole nodes.
type holeBinder struct {
	Name proofterm.Name
	Hole proofterm.Hole
}

// peelHoleChain strips the maximal prefix of Bind nodes whose binder
// is a plain Hole, returning them in outer-to-inner order plus
// whatever term the chain bottoms out at (commonly a Ref to the
// innermost hole's own name).
func peelHoleChain(t proofterm.Term) ([]holeBinder, proofterm.Term) {
	var chain []holeBinder
	for {
		b, ok := t.(proofterm.Bind)
		if !ok {
			return chain, t
		}
		h, isHole := b.Binder.(proofterm.Hole)
		if !isHole {
			return chain, t
		}
		chain = append(chain, holeBinder{Name: b.Name, Hole: h})
		t = b.Scope
	}
}

// reorderHoleChain is an O(n²) insertion sort: for each binder in
// turn, bubble it as far left as it can go without crossing a binder
// whose name it references. Mutually independent binders therefore
// end up in the reverse of their original order.
func reorderHoleChain(chain []holeBinder) []holeBinder {
	out := append([]holeBinder{}, chain...)
	for i := 1; i < len(out); i++ {
		x := out[i]
		j := i
		for j > 0 && proofterm.NoOccurrence(out[j-1].Name, x.Hole.Type) {
			out[j] = out[j-1]
			j--
		}
		out[j] = x
	}
	return out
}

func rebuildHoleChain(chain []holeBinder, tail proofterm.Term) proofterm.Term {
	t := tail
	for i := len(chain) - 1; i >= 0; i-- {
		t = proofterm.Bind{Name: chain[i].Name, Binder: chain[i].Hole, Scope: t}
	}
	return t
}

// reorderHoleNames rewrites holes so the names that belong to the
// reordered chain appear in their new order, leaving every other name
// (e.g. a hole opened by Attack inside one of these types) exactly
// where it was.
func reorderHoleNames(holes []proofterm.Name, sorted []holeBinder) []proofterm.Name {
	inChain := make(map[proofterm.Name]bool, len(sorted))
	order := make([]proofterm.Name, len(sorted))
	for i, h := range sorted {
		inChain[h.Name] = true
		order[i] = h.Name
	}
	out := make([]proofterm.Name, 0, len(holes))
	next := 0
	for _, h := range holes {
		if inChain[h] {
			out = append(out, order[next])
			next++
			continue
		}
		out = append(out, h)
	}
	return out
}

// Compute normalises the focused goal's type in place via the
// external Evaluator (§4.3): the hole keeps its name, only its
// annotation changes.
type Compute struct {
	Focus *proofterm.Name
}

func (t Compute) apply(ps *ProofState, next *ProofState) error {
	return retypeGoal(next, t.Focus, func(env proofterm.Env, ty proofterm.Term) proofterm.Term {
		return next.Eval.Normalise(env, ty)
	})
}

// HNFCompute reduces the focused goal's type to head normal form
// rather than full normal form (§4.3).
type HNFCompute struct {
	Focus *proofterm.Name
}

func (t HNFCompute) apply(ps *ProofState, next *ProofState) error {
	return retypeGoal(next, t.Focus, func(env proofterm.Env, ty proofterm.Term) proofterm.Term {
		return next.Eval.HNF(env, ty)
	})
}

// Simplify runs the external Evaluator's Specialise pass over the
// focused goal's type — partial evaluation that unfolds only
// definitions marked for unfolding, short of full normalisation
// (§4.3).
type Simplify struct {
	Focus *proofterm.Name
}

func (t Simplify) apply(ps *ProofState, next *ProofState) error {
	return retypeGoal(next, t.Focus, func(env proofterm.Env, ty proofterm.Term) proofterm.Term {
		return next.Eval.Specialise(env, ty)
	})
}

// ComputeLet normalises the Value of a Let binder named Name — the
// staged local definition, rather than the goal itself (§4.3).
type ComputeLet struct {
	Name proofterm.Name
}

func (t ComputeLet) apply(ps *ProofState, next *ProofState) error {
	newTerm, ok := computeLetAt(next, next.PTerm, t.Name, proofterm.Env{})
	if !ok {
		return &CantFindHoleError{Name: t.Name}
	}
	next.PTerm = newTerm
	return nil
}

func computeLetAt(next *ProofState, term proofterm.Term, name proofterm.Name, env proofterm.Env) (proofterm.Term, bool) {
	switch n := term.(type) {
	case proofterm.App:
		if nf, ok := computeLetAt(next, n.Fun, name, env); ok {
			return proofterm.App{Fun: nf, Arg: n.Arg}, true
		}
		if na, ok := computeLetAt(next, n.Arg, name, env); ok {
			return proofterm.App{Fun: n.Fun, Arg: na}, true
		}
		return term, false
	case proofterm.Bind:
		if n.Name == name {
			if l, isLet := n.Binder.(proofterm.Let); isLet {
				normalised := next.Eval.Normalise(env, l.Value)
				return proofterm.Bind{Name: n.Name, Binder: proofterm.Let{Type: l.Type, Value: normalised}, Scope: n.Scope}, true
			}
			return term, false
		}
		inner := env.Extend(n.Name, n.Binder)
		if nsc, ok := computeLetAt(next, n.Scope, name, inner); ok {
			return proofterm.Bind{Name: n.Name, Binder: n.Binder, Scope: nsc}, true
		}
		return term, false
	default:
		return term, false
	}
}

// retypeGoal is the shared plumbing for Compute/HNFCompute/Simplify:
// resolve the focus, rewrite its annotation type with f, and splice
// the result back in.
func retypeGoal(next *ProofState, focusName *proofterm.Name, f func(proofterm.Env, proofterm.Term) proofterm.Term) error {
	focus, ok := next.focusOrFirst(focusName)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	if !proofterm.IsHole(binder) {
		return &WrongBinderError{Tactic: "compute", Name: name}
	}
	newTy := f(env, binder.Ty())
	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		return proofterm.Bind{Name: name, Binder: binder.WithTy(newTy), Scope: scope}, nil
	})
}

// EvalIn elaborates raw in the focused goal's environment and
// normalises the result, without touching PTerm — a read-only probe
// used to inspect what a candidate term would evaluate to before
// committing it via Fill (§4.3, §6 read-only queries).
func EvalIn(ps *ProofState, focusName *proofterm.Name, raw proofterm.Term) (proofterm.Term, error) {
	env, err := envForQuery(ps, focusName)
	if err != nil {
		return nil, err
	}
	checked, _, err := ps.Checker.Check(env, raw)
	if err != nil {
		return nil, err
	}
	return ps.Eval.Normalise(env, checked), nil
}

// CheckIn elaborates raw in the focused goal's environment and
// reports its type, without touching PTerm (§4.3): the read-only
// counterpart to EvalIn.
func CheckIn(ps *ProofState, focusName *proofterm.Name, raw proofterm.Term) (proofterm.Term, error) {
	env, err := envForQuery(ps, focusName)
	if err != nil {
		return nil, err
	}
	_, ty, err := ps.Checker.Check(env, raw)
	return ty, err
}

func envForQuery(ps *ProofState, focusName *proofterm.Name) (proofterm.Env, error) {
	focus, ok := ps.focusOrFirst(focusName)
	if !ok {
		return nil, &CantFindHoleError{}
	}
	env, _, _, found := Goal(focus, ps.PTerm)
	if !found {
		return nil, &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	return env, nil
}
