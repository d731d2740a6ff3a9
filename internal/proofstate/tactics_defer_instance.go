package proofstate

import "github.com/prooflab/proofengine/internal/proofterm"

// Defer sets the focused obligation aside as a deferred top-level
// goal (§4.3): the whole enclosing environment is abstracted into a
// Π-type signature for a fresh top-level GHole, and the hole is
// replaced by that GHole applied back to every environment variable
// — so the obligation that remains is closed (§8 Closedness) even
// though the term standing in for it still looks, in place, like it
// depends on the local context. Only a still-pristine Hole — one
// Attack has not turned into a Guess — whose scope is a bare reference
// to the hole itself may be deferred; anything else (a Guess already
// carrying a staged value, or a hole with any other scope) is
// DeferSelfError.
type Defer struct {
	Focus *proofterm.Name
	Name  proofterm.Name
}

func (t Defer) apply(ps *ProofState, next *ProofState) error {
	return deferWith(next, t.Focus, t.Name)
}

func deferWith(next *ProofState, focusName *proofterm.Name, deferredName proofterm.Name) error {
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
		return &DeferSelfError{Name: name}
	}

	signature := abstractOverEnv(env, h.Type)
	application := applyToEnv(env, proofterm.Ref{Name: deferredName})

	next.UsedNames[deferredName] = true
	next.Deferred = append(next.Deferred, deferredName)

	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		if ref, isRef := scope.(proofterm.Ref); !isRef || ref.Name != name {
			return nil, &DeferSelfError{Name: name}
		}
		deferred := proofterm.Bind{Name: deferredName, Binder: proofterm.GHole{Type: signature}, Scope: application}
		solved := proofterm.Subst(name, deferred, scope)
		next.Holes = removeHoleFrom(next.Holes, name)
		return solved, nil
	})
}

// abstractOverEnv builds the Π-type that abstracts goalTy over every
// binder of env, outermost first, the signature a deferred obligation
// needs to stand as a free-standing top-level declaration (§4.3 Defer,
// §8 Closedness). env is innermost-first, so folding it in order
// wraps the innermost entry closest to goalTy and the outermost entry
// last, leaving it the outermost Π.
func abstractOverEnv(env proofterm.Env, goalTy proofterm.Term) proofterm.Term {
	ty := goalTy
	for _, entry := range env {
		ty = proofterm.Bind{Name: entry.Name, Binder: proofterm.Pi{Type: entry.Binder.Ty()}, Scope: ty}
	}
	return ty
}

// applyToEnv applies f to every environment variable, outermost
// first, the spine that matches abstractOverEnv's Π telescope.
func applyToEnv(env proofterm.Env, f proofterm.Term) proofterm.Term {
	args := make([]proofterm.Term, len(env))
	for i, entry := range env {
		args[len(env)-1-i] = proofterm.Ref{Name: entry.Name}
	}
	return proofterm.MkApp(f, args...)
}

// DeferType is Defer for a caller that already has the top-level
// signature and the argument spine in hand, rather than deriving both
// from the local environment (§4.3): the focused hole is replaced by
// Name applied to Args directly, typed at Type. The focused hole must
// meet the same precondition as for Defer.
type DeferType struct {
	Focus *proofterm.Name
	Name  proofterm.Name
	Type  proofterm.Term
	Args  []proofterm.Term
}

func (t DeferType) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	env, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	if _, isHole := binder.(proofterm.Hole); !isHole {
		return &DeferSelfError{Name: name}
	}
	if err := next.Checker.IsType(env, t.Type); err != nil {
		return err
	}

	next.UsedNames[t.Name] = true
	next.Deferred = append(next.Deferred, t.Name)

	application := proofterm.MkApp(proofterm.Ref{Name: t.Name}, t.Args...)
	return atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		if ref, isRef := scope.(proofterm.Ref); !isRef || ref.Name != name {
			return nil, &DeferSelfError{Name: name}
		}
		deferred := proofterm.Bind{Name: t.Name, Binder: proofterm.GHole{Type: t.Type}, Scope: application}
		solved := proofterm.Subst(name, deferred, scope)
		next.Holes = removeHoleFrom(next.Holes, name)
		return solved, nil
	})
}

// Instance registers an already-claimed name as a candidate for
// instance resolution elsewhere in the term, and moves it to the tail
// of the hole queue so ordinary tactics reach it last (§4.3): purely
// bookkeeping, it never touches PTerm.
type Instance struct {
	Name proofterm.Name
}

func (t Instance) apply(ps *ProofState, next *ProofState) error {
	if !next.UsedNames[t.Name] {
		return &CantFindHoleError{Name: t.Name}
	}
	next.Instances = append(next.Instances, t.Name)
	next.Holes = MoveLast(next.Holes, t.Name)
	return nil
}

// SetInjective marks name as an injective constructor reference so
// the unifier bridge may propagate injectivity through it (§4.2 step
// 5, §4.3).
type SetInjective struct {
	Name proofterm.Name
}

func (t SetInjective) apply(ps *ProofState, next *ProofState) error {
	next.Injective[t.Name] = true
	return nil
}

// PatVar turns the focused Hole into a pattern-variable binder named
// Name, removing it from the open-hole queue: it is now bound by the
// pattern, not a remaining obligation (§4.3). Every occurrence of the
// old hole name in its scope is rewritten to Name, the old name is
// recorded in notunified pointing at the new one, and — if the hole
// itself was already tagged injective — that tag is carried over to
// Name.
type PatVar struct {
	Focus *proofterm.Name
	Name  proofterm.Name
}

func (t PatVar) apply(ps *ProofState, next *ProofState) error {
	focus, ok := next.focusOrFirst(t.Focus)
	if !ok {
		return &CantFindHoleError{}
	}
	_, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	h, isHole := binder.(proofterm.Hole)
	if !isHole {
		return &WrongBinderError{Tactic: "patvar", Name: name}
	}
	wasInjective := next.Injective[name]
	next.UsedNames[t.Name] = true

	err := atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		renamed := proofterm.Subst(name, proofterm.Ref{Name: t.Name}, scope)
		return proofterm.Bind{Name: t.Name, Binder: proofterm.PVar{Type: h.Type}, Scope: renamed}, nil
	})
	if err != nil {
		return err
	}
	next.Holes = removeHoleFrom(next.Holes, name)
	next.NotUnified[name] = proofterm.Ref{Name: t.Name}
	if wasInjective {
		next.Injective[t.Name] = true
	}
	return nil
}

// PatBind turns the focused Hole into a pattern-variable's type
// binder (PVTy), the type-level half of a pattern clause (§4.3).
type PatBind struct {
	Focus *proofterm.Name
}

func (t PatBind) apply(ps *ProofState, next *ProofState) error {
	return patConvert(next, t.Focus, func(ty proofterm.Term) proofterm.Binder { return proofterm.PVTy{Type: ty} })
}

func patConvert(next *ProofState, focusName *proofterm.Name, mk func(proofterm.Term) proofterm.Binder) error {
	focus, ok := next.focusOrFirst(focusName)
	if !ok {
		return &CantFindHoleError{}
	}
	_, name, binder, found := Goal(focus, next.PTerm)
	if !found {
		return &CantFindHoleError{Name: derefOr(focus, "<focus>")}
	}
	h, isHole := binder.(proofterm.Hole)
	if !isHole {
		return &WrongBinderError{Tactic: "patvar", Name: name}
	}
	err := atFocusedHole(next, &name, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		return proofterm.Bind{Name: name, Binder: mk(h.Type), Scope: scope}, nil
	})
	if err != nil {
		return err
	}
	next.Holes = removeHoleFrom(next.Holes, name)
	return nil
}
