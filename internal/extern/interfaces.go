// Package extern declares the collaborators the proof-state engine
// treats as external oracles — the type-checker, evaluator, unifier,
// and global context (spec §1, §6). None of their real implementations
// live here: a full dependently-typed checker/evaluator/unifier is
// explicitly out of scope for the engine. What this package does own
// is (a) the Go interfaces the engine programs against, named and
// shaped exactly as spec §6 lists them, and (b) a minimal in-memory
// reference implementation (stub.go) used only by proofstate's own
// tests, the same way a teacher project tests its engine package
// against a small fixture rather than the full production backend.
package extern

import "github.com/prooflab/proofengine/internal/proofterm"

// TypeChecker is the out-of-scope collaborator that elaborates raw
// expressions and compares terms for definitional equality.
type TypeChecker interface {
	// Check elaborates rawTerm in env, returning the checked term and
	// its inferred type.
	Check(env proofterm.Env, rawTerm proofterm.Term) (proofterm.Term, proofterm.Term, error)
	// Converts raises an error unless a and b are definitionally equal
	// in env.
	Converts(env proofterm.Env, a, b proofterm.Term) error
	// IsType raises an error unless t is a valid type in env.
	IsType(env proofterm.Env, t proofterm.Term) error
	// Recheck re-elaborates rawTerm, which is expected to check against
	// the shape of term (used after tree-level rewriting, e.g. Solve).
	Recheck(env proofterm.Env, rawTerm, term proofterm.Term) (proofterm.Term, proofterm.Term, error)
}

// Evaluator is the out-of-scope pure evaluator over (env, term).
type Evaluator interface {
	Normalise(env proofterm.Env, t proofterm.Term) proofterm.Term
	HNF(env proofterm.Env, t proofterm.Term) proofterm.Term
	Specialise(env proofterm.Env, t proofterm.Term) proofterm.Term
}

// Mode selects full unification versus one-sided matching (§4.2).
type Mode int

const (
	ModeUnify Mode = iota
	ModeMatch
)

// Problem is a deferred equation the unifier could not immediately
// solve (§3 `problems`).
type Problem struct {
	Env   proofterm.Env
	LHS   proofterm.Term
	RHS   proofterm.Term
	Err   error
	Mode  Mode
}

// Unifier is the out-of-scope oracle for full and one-sided
// unification (§4.2, §6).
type Unifier interface {
	// Unify returns a substitution solving a ~ b in env, plus any
	// sub-problems it could not resolve inline, or an error.
	Unify(env proofterm.Env, a, b proofterm.Term, injective map[proofterm.Name]bool, holes []proofterm.Name) (proofterm.Solution, []Problem, error)
	// MatchUnify performs one-sided pattern matching of a against b.
	MatchUnify(env proofterm.Env, a, b proofterm.Term, injective map[proofterm.Name]bool, holes []proofterm.Name) (proofterm.Solution, error)
}

// DataMI is the metainformation the context returns for an inductive
// family: the positions among its indices that are uniform parameters
// (used by the Induction tactic to split params from indices, §4.3).
type DataMI struct {
	ParamPositions []int
}

// Context is the read-only global definition environment (§6).
type Context interface {
	LookupTy(name proofterm.Name) (proofterm.Term, bool)
	LookupDef(name proofterm.Name) (proofterm.Term, bool)
	LookupMetaInformation(name proofterm.Name) (DataMI, bool)
	// LookupEliminator returns the eliminator name(s) registered for the
	// inductive family typeName (ElimN <Type> by convention, §9 Glossary).
	// Induction fails if the result is not exactly one name.
	LookupEliminator(typeName proofterm.Name) []proofterm.Name
	// UniqueName generates a name starting from base that is not in used.
	UniqueName(base proofterm.Name, used map[proofterm.Name]bool) proofterm.Name
}
