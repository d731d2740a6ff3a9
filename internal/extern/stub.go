package extern

import (
	"fmt"

	"github.com/prooflab/proofengine/internal/proofterm"
)

// StubContext is a minimal in-memory Context used by proofstate's own
// tests. It is not a type-checker or evaluator in any serious sense —
// real dependently-typed checking/evaluation is an out-of-scope
// collaborator per spec §1 — it exists only so the engine's tests can
// exercise AtHole/tactics/unify bridge against something concrete
// rather than mocks for every call.
type StubContext struct {
	Tys         map[proofterm.Name]proofterm.Term
	Defs        map[proofterm.Name]proofterm.Term
	MetaInfo    map[proofterm.Name]DataMI
	Eliminators map[proofterm.Name][]proofterm.Name
	nextSuffix  int
}

func NewStubContext() *StubContext {
	return &StubContext{
		Tys:         map[proofterm.Name]proofterm.Term{},
		Defs:        map[proofterm.Name]proofterm.Term{},
		MetaInfo:    map[proofterm.Name]DataMI{},
		Eliminators: map[proofterm.Name][]proofterm.Name{},
	}
}

func (c *StubContext) LookupTy(name proofterm.Name) (proofterm.Term, bool) {
	t, ok := c.Tys[name]
	return t, ok
}

func (c *StubContext) LookupDef(name proofterm.Name) (proofterm.Term, bool) {
	t, ok := c.Defs[name]
	return t, ok
}

func (c *StubContext) LookupMetaInformation(name proofterm.Name) (DataMI, bool) {
	mi, ok := c.MetaInfo[name]
	return mi, ok
}

func (c *StubContext) LookupEliminator(typeName proofterm.Name) []proofterm.Name {
	return c.Eliminators[typeName]
}

func (c *StubContext) UniqueName(base proofterm.Name, used map[proofterm.Name]bool) proofterm.Name {
	if !used[base] {
		return base
	}
	for {
		c.nextSuffix++
		candidate := proofterm.Name(fmt.Sprintf("%s_%d", base, c.nextSuffix))
		if !used[candidate] {
			return candidate
		}
	}
}

// StubEvaluator performs beta/let reduction to a fixed point for
// Normalise, weak-head beta/let reduction until the head is no longer
// a redex for HNF, and Let-only
// folding for Specialise — a plain stand-in for the real evaluator's
// normalise/hnf/specialise (§6).
type StubEvaluator struct{}

func (StubEvaluator) Normalise(env proofterm.Env, t proofterm.Term) proofterm.Term {
	for {
		next, changed := betaLetStep(t, false)
		if !changed {
			return next
		}
		t = next
	}
}

func (StubEvaluator) HNF(env proofterm.Env, t proofterm.Term) proofterm.Term {
	for {
		head, args := proofterm.UnApply(t)
		bind, isBind := head.(proofterm.Bind)
		if !isBind {
			return t
		}
		switch b := bind.Binder.(type) {
		case proofterm.Lam:
			if len(args) == 0 {
				return t
			}
			reduced := proofterm.Subst(bind.Name, args[0], bind.Scope)
			t = proofterm.MkApp(reduced, args[1:]...)
			continue
		case proofterm.Let:
			reduced := proofterm.Subst(bind.Name, b.Value, bind.Scope)
			t = proofterm.MkApp(reduced, args...)
			continue
		}
		return t
	}
}

func (StubEvaluator) Specialise(env proofterm.Env, t proofterm.Term) proofterm.Term {
	for {
		next, changed := betaLetStep(t, true)
		if !changed {
			return next
		}
		t = next
	}
}

// betaLetStep performs one full-term pass of beta (if letOnly is
// false) and let reduction, reporting whether anything changed.
func betaLetStep(t proofterm.Term, letOnly bool) (proofterm.Term, bool) {
	switch n := t.(type) {
	case proofterm.App:
		if bind, ok := n.Fun.(proofterm.Bind); ok {
			if _, ok := bind.Binder.(proofterm.Lam); ok && !letOnly {
				return proofterm.Subst(bind.Name, n.Arg, bind.Scope), true
			}
		}
		fn, changedF := betaLetStep(n.Fun, letOnly)
		arg, changedA := betaLetStep(n.Arg, letOnly)
		return proofterm.App{Fun: fn, Arg: arg}, changedF || changedA
	case proofterm.Bind:
		if let, ok := n.Binder.(proofterm.Let); ok {
			return proofterm.Subst(n.Name, let.Value, n.Scope), true
		}
		scope, changed := betaLetStep(n.Scope, letOnly)
		return proofterm.Bind{Name: n.Name, Binder: n.Binder, Scope: scope}, changed
	default:
		return t, false
	}
}

// StubTypeChecker treats Sorts, Pi-headed terms and bare references as
// the only valid types and uses alpha-equivalence (after normalising through StubEvaluator)
// as its notion of conversion — adequate for exercising the engine's
// tactics, not a claim of completeness.
type StubTypeChecker struct {
	Eval StubEvaluator
}

func (c StubTypeChecker) Check(env proofterm.Env, rawTerm proofterm.Term) (proofterm.Term, proofterm.Term, error) {
	switch n := rawTerm.(type) {
	case proofterm.Ref:
		if b, ok := env.Lookup(n.Name); ok {
			return rawTerm, b.Ty(), nil
		}
		return nil, nil, &CantInferTypeError{Term: rawTerm}
	case proofterm.Sort:
		return rawTerm, proofterm.Sort{Level: n.Level + 1}, nil
	default:
		return rawTerm, proofterm.Sort{Level: 0}, nil
	}
}

func (c StubTypeChecker) Converts(env proofterm.Env, a, b proofterm.Term) error {
	na := c.Eval.Normalise(env, a)
	nb := c.Eval.Normalise(env, b)
	if proofterm.AlphaEq(na, nb) {
		return nil
	}
	return &CantConvertError{LHS: stringerOf(na), RHS: stringerOf(nb)}
}

func (c StubTypeChecker) IsType(env proofterm.Env, t proofterm.Term) error {
	switch t.(type) {
	case proofterm.Sort:
		return nil
	default:
		head, _ := proofterm.UnApply(t)
		if bind, ok := head.(proofterm.Bind); ok {
			if _, ok := bind.Binder.(proofterm.Pi); ok {
				return nil
			}
		}
		if _, ok := t.(proofterm.Ref); ok {
			return nil
		}
		return &CantInferTypeError{Term: t}
	}
}

func (c StubTypeChecker) Recheck(env proofterm.Env, rawTerm, term proofterm.Term) (proofterm.Term, proofterm.Term, error) {
	return c.Check(env, rawTerm)
}

type stringer string

func (s stringer) String() string { return string(s) }

func stringerOf(t proofterm.Term) fmt.Stringer {
	if t == nil {
		return stringer("<nil>")
	}
	return stringer(t.String())
}
