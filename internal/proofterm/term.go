// Package proofterm defines the proof term representation: a tree of
// binders and applications that may contain typed holes. It is the
// data model of §3 of the proof-state specification — no type checking,
// evaluation, or unification lives here, only the tree and the pure
// operations a proof-state engine needs to navigate and rewrite it.
package proofterm

import (
	"fmt"
)

// Name identifies a bound variable, hole, or top-level obligation.
// Names are opaque strings; the engine that generates fresh names (see
// proofstate.ProofState) is responsible for uniqueness.
type Name string

// Term is the interface implemented by every node of a proof term.
type Term interface {
	String() string
	// FreeNames returns the free variable names occurring in the term,
	// in first-occurrence order, without duplicates.
	FreeNames() []Name
}

// Ref is a reference to a bound variable, hole, guess, or top-level name.
type Ref struct {
	Name Name
}

func (r Ref) String() string        { return string(r.Name) }
func (r Ref) FreeNames() []Name     { return []Name{r.Name} }

// Sort is a type universe, e.g. Type0, Type1, ....
type Sort struct {
	Level int
}

func (s Sort) String() string    { return fmt.Sprintf("Type%d", s.Level) }
func (s Sort) FreeNames() []Name { return nil }

// Erased marks a position that carries no run-time content (an implicit
// or erased argument slot with no further structure).
type Erased struct{}

func (Erased) String() string    { return "_" }
func (Erased) FreeNames() []Name { return nil }

// App is term application: f applied to a.
type App struct {
	Fun Term
	Arg Term
}

func (a App) String() string {
	return fmt.Sprintf("(%s %s)", a.Fun.String(), a.Arg.String())
}

func (a App) FreeNames() []Name {
	return uniqueNames(append(append([]Name{}, a.Fun.FreeNames()...), a.Arg.FreeNames()...))
}

// Bind introduces a name via Binder over Scope. Scope may itself refer to
// Name via Ref.
type Bind struct {
	Name   Name
	Binder Binder
	Scope  Term
}

func (b Bind) String() string {
	return fmt.Sprintf("(%s : %s => %s)", b.Name, b.Binder.String(), b.Scope.String())
}

func (b Bind) FreeNames() []Name {
	free := append([]Name{}, b.Binder.freeNames()...)
	for _, n := range b.Scope.FreeNames() {
		if n != b.Name {
			free = append(free, n)
		}
	}
	return uniqueNames(free)
}

func uniqueNames(ns []Name) []Name {
	seen := make(map[Name]bool, len(ns))
	out := make([]Name, 0, len(ns))
	for _, n := range ns {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// Binder is the tagged variant carried by a Bind node (§3 table).
type Binder interface {
	String() string
	// Ty is the annotation type every binder variant carries.
	Ty() Term
	// WithTy returns a copy of the binder with its annotation type replaced.
	WithTy(Term) Binder
	freeNames() []Name
	// tag identifies the variant for hole/guess classification.
	tag() binderTag
}

type binderTag int

const (
	tagLam binderTag = iota
	tagPi
	tagLet
	tagPVar
	tagPVTy
	tagHole
	tagGuess
	tagGHole
)

// IsHole reports whether b is a Hole or Guess binder — the only variants
// that may be a current proof obligation (§3 invariant 1).
func IsHole(b Binder) bool {
	t := b.tag()
	return t == tagHole || t == tagGuess
}

// IsGuess reports whether b is specifically a Guess.
func IsGuess(b Binder) bool {
	return b.tag() == tagGuess
}

// SameVariant reports whether a and b are the same Binder variant
// (both Lam, both Pi, and so on), ignoring their annotation contents.
func SameVariant(a, b Binder) bool {
	return a.tag() == b.tag()
}

// Lam is a λ-abstraction binder.
type Lam struct{ Type Term }

func (l Lam) String() string        { return "Lam " + l.Type.String() }
func (l Lam) Ty() Term               { return l.Type }
func (l Lam) WithTy(t Term) Binder   { l.Type = t; return l }
func (l Lam) freeNames() []Name      { return l.Type.FreeNames() }
func (l Lam) tag() binderTag         { return tagLam }

// Pi is a Π-abstraction (dependent function type) binder.
type Pi struct{ Type Term }

func (p Pi) String() string      { return "Pi " + p.Type.String() }
func (p Pi) Ty() Term             { return p.Type }
func (p Pi) WithTy(t Term) Binder { p.Type = t; return p }
func (p Pi) freeNames() []Name    { return p.Type.FreeNames() }
func (p Pi) tag() binderTag       { return tagPi }

// Let is a local definition binder: Type of the value, and the Value itself.
type Let struct {
	Type  Term
	Value Term
}

func (l Let) String() string      { return "Let " + l.Type.String() + " = " + l.Value.String() }
func (l Let) Ty() Term             { return l.Type }
func (l Let) WithTy(t Term) Binder { l.Type = t; return l }
func (l Let) freeNames() []Name {
	return uniqueNames(append(append([]Name{}, l.Type.FreeNames()...), l.Value.FreeNames()...))
}
func (l Let) tag() binderTag { return tagLet }

// PVar is a pattern variable binder.
type PVar struct{ Type Term }

func (p PVar) String() string      { return "PVar " + p.Type.String() }
func (p PVar) Ty() Term             { return p.Type }
func (p PVar) WithTy(t Term) Binder { p.Type = t; return p }
func (p PVar) freeNames() []Name    { return p.Type.FreeNames() }
func (p PVar) tag() binderTag       { return tagPVar }

// PVTy is the type-binder half of a pattern variable.
type PVTy struct{ Type Term }

func (p PVTy) String() string      { return "PVTy " + p.Type.String() }
func (p PVTy) Ty() Term             { return p.Type }
func (p PVTy) WithTy(t Term) Binder { p.Type = t; return p }
func (p PVTy) freeNames() []Name    { return p.Type.FreeNames() }
func (p PVTy) tag() binderTag       { return tagPVTy }

// Hole is an unsolved obligation of type Type.
type Hole struct{ Type Term }

func (h Hole) String() string      { return "Hole " + h.Type.String() }
func (h Hole) Ty() Term             { return h.Type }
func (h Hole) WithTy(t Term) Binder { h.Type = t; return h }
func (h Hole) freeNames() []Name    { return h.Type.FreeNames() }
func (h Hole) tag() binderTag       { return tagHole }

// Guess is a tentative inhabitant Value of Type, awaiting Solve.
type Guess struct {
	Type  Term
	Value Term
}

func (g Guess) String() string      { return "Guess " + g.Type.String() + " " + g.Value.String() }
func (g Guess) Ty() Term             { return g.Type }
func (g Guess) WithTy(t Term) Binder { g.Type = t; return g }
func (g Guess) freeNames() []Name {
	return uniqueNames(append(append([]Name{}, g.Type.FreeNames()...), g.Value.FreeNames()...))
}
func (g Guess) tag() binderTag { return tagGuess }

// GHole is a deferred top-level obligation: a function still to be
// defined elsewhere, referenced here only by name and type.
type GHole struct{ Type Term }

func (g GHole) String() string      { return "GHole " + g.Type.String() }
func (g GHole) Ty() Term             { return g.Type }
func (g GHole) WithTy(t Term) Binder { g.Type = t; return g }
func (g GHole) freeNames() []Name    { return g.Type.FreeNames() }
func (g GHole) tag() binderTag       { return tagGHole }

// MkApp builds a left-associated application of fn to args, in order.
func MkApp(fn Term, args ...Term) Term {
	t := fn
	for _, a := range args {
		t = App{Fun: t, Arg: a}
	}
	return t
}

// UnApply decomposes a term into its head and spine of arguments, the
// inverse of MkApp.
func UnApply(t Term) (head Term, args []Term) {
	for {
		app, ok := t.(App)
		if !ok {
			reverse(args)
			return t, args
		}
		args = append(args, app.Arg)
		t = app.Fun
	}
}

func reverse(ts []Term) {
	for i, j := 0, len(ts)-1; i < j; i, j = i+1, j-1 {
		ts[i], ts[j] = ts[j], ts[i]
	}
}

// NoOccurrence reports that name does not occur free in t.
func NoOccurrence(name Name, t Term) bool {
	for _, n := range t.FreeNames() {
		if n == name {
			return false
		}
	}
	return true
}

// Forget returns a copy of t fit to be re-checked from scratch by the
// external type-checker (§6). References in this term model carry no
// cached types, so nothing is dropped: every binder keeps its
// annotation, a Guess keeps both its Type and its Value, and the result
// is alpha-equal to t.
func Forget(t Term) Term {
	switch n := t.(type) {
	case App:
		return App{Fun: Forget(n.Fun), Arg: Forget(n.Arg)}
	case Bind:
		if g, ok := n.Binder.(Guess); ok {
			return Bind{Name: n.Name, Binder: Guess{Type: g.Type, Value: Forget(g.Value)}, Scope: Forget(n.Scope)}
		}
		return Bind{Name: n.Name, Binder: n.Binder, Scope: Forget(n.Scope)}
	default:
		return t
	}
}

// AlphaEq reports whether a and b are equal up to renaming of bound
// names (the engine's minimal substitute for the external converts()
// used to compare freshly rebuilt sub-terms in tests).
func AlphaEq(a, b Term) bool {
	return alphaEq(a, b, map[Name]Name{})
}

func alphaEq(a, b Term, ren map[Name]Name) bool {
	switch x := a.(type) {
	case Ref:
		y, ok := b.(Ref)
		if !ok {
			return false
		}
		if mapped, ok := ren[x.Name]; ok {
			return mapped == y.Name
		}
		return x.Name == y.Name
	case Sort:
		y, ok := b.(Sort)
		return ok && x.Level == y.Level
	case Erased:
		_, ok := b.(Erased)
		return ok
	case App:
		y, ok := b.(App)
		return ok && alphaEq(x.Fun, y.Fun, ren) && alphaEq(x.Arg, y.Arg, ren)
	case Bind:
		y, ok := b.(Bind)
		if !ok || x.Binder.tag() != y.Binder.tag() {
			return false
		}
		if !alphaEq(x.Binder.Ty(), y.Binder.Ty(), ren) {
			return false
		}
		if xg, ok := x.Binder.(Guess); ok {
			yg := y.Binder.(Guess)
			if !alphaEq(xg.Value, yg.Value, ren) {
				return false
			}
		}
		if xl, ok := x.Binder.(Let); ok {
			yl := y.Binder.(Let)
			if !alphaEq(xl.Value, yl.Value, ren) {
				return false
			}
		}
		inner := make(map[Name]Name, len(ren)+1)
		for k, v := range ren {
			inner[k] = v
		}
		inner[x.Name] = y.Name
		return alphaEq(x.Scope, y.Scope, inner)
	default:
		return false
	}
}
