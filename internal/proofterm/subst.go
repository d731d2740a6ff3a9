package proofterm

// Solution maps hole/guess names to the terms that solve them. It plays
// the role the teacher's typesystem.Subst plays for Type, generalized
// from type variables to proof-term holes.
type Solution map[Name]Term

// Subst replaces every free occurrence of name with v in t. Like the
// teacher's TVar substitution, it performs no dynamic alpha-renaming:
// bound names are assumed already fresh with respect to the free names
// of v, an invariant the proof-state's fresh-name supply (usedns /
// nextname) is responsible for maintaining. This mirrors Idris' own
// subst, which relies on global name freshness rather than renaming at
// substitution time.
func Subst(name Name, v Term, t Term) Term {
	switch n := t.(type) {
	case Ref:
		if n.Name == name {
			return v
		}
		return n
	case Sort, Erased:
		return t
	case App:
		return App{Fun: Subst(name, v, n.Fun), Arg: Subst(name, v, n.Arg)}
	case Bind:
		newBinder := substBinder(name, v, n.Binder)
		if n.Name == name {
			// name is shadowed from here down; the scope is untouched.
			return Bind{Name: n.Name, Binder: newBinder, Scope: n.Scope}
		}
		return Bind{Name: n.Name, Binder: newBinder, Scope: Subst(name, v, n.Scope)}
	default:
		return t
	}
}

func substBinder(name Name, v Term, b Binder) Binder {
	switch bb := b.(type) {
	case Guess:
		return Guess{Type: Subst(name, v, bb.Type), Value: Subst(name, v, bb.Value)}
	case Let:
		return Let{Type: Subst(name, v, bb.Type), Value: Subst(name, v, bb.Value)}
	default:
		return b.WithTy(Subst(name, v, b.Ty()))
	}
}

// PSubst performs capture-avoiding simultaneous substitution of every
// binding in sol throughout t — used by Solve/EndUnify/updateSolved.
// It differs from repeated Subst only in that every replacement sees
// the same starting term (no interference between keys).
func PSubst(sol Solution, t Term) Term {
	if len(sol) == 0 {
		return t
	}
	switch n := t.(type) {
	case Ref:
		if v, ok := sol[n.Name]; ok {
			return v
		}
		return n
	case Sort, Erased:
		return t
	case App:
		return App{Fun: PSubst(sol, n.Fun), Arg: PSubst(sol, n.Arg)}
	case Bind:
		newBinder := psubstBinder(sol, n.Binder)
		if _, shadowed := sol[n.Name]; shadowed {
			inner := make(Solution, len(sol)-1)
			for k, v := range sol {
				if k != n.Name {
					inner[k] = v
				}
			}
			return Bind{Name: n.Name, Binder: newBinder, Scope: PSubst(inner, n.Scope)}
		}
		return Bind{Name: n.Name, Binder: newBinder, Scope: PSubst(sol, n.Scope)}
	default:
		return t
	}
}

func psubstBinder(sol Solution, b Binder) Binder {
	switch bb := b.(type) {
	case Guess:
		return Guess{Type: PSubst(sol, bb.Type), Value: PSubst(sol, bb.Value)}
	case Let:
		return Let{Type: PSubst(sol, bb.Type), Value: PSubst(sol, bb.Value)}
	default:
		return b.WithTy(PSubst(sol, b.Ty()))
	}
}
