// Package unifybridge is the 20%-share "Unifier bridge" of §2: the two
// calls into the external Unifier oracle (unify'/match_unify'), the
// journal/problem-queue bookkeeping that follows every call, and
// updateSolved/updateProblems/updateNotunified (§4.2, §4.4). It knows
// nothing about ProofState — proofstate calls these free functions and
// folds the Accumulator they return back into its own fields, keeping
// the two packages decoupled the way the teacher keeps
// internal/typesystem ignorant of internal/evaluator.
package unifybridge

import (
	"github.com/prooflab/proofengine/internal/extern"
	"github.com/prooflab/proofengine/internal/proofterm"
)

// JournalEntry is one (hole, solution) pair appended to the
// unification journal since the last EndUnify (§3 `unified`).
type JournalEntry struct {
	Hole     proofterm.Name
	Solution proofterm.Term
}

// Accumulator carries the side channels unify'/match_unify' thread
// through a tactic: the journal, the deferred-problem queue,
// notunified, and the injective-name set.
type Accumulator struct {
	Journal    []JournalEntry
	Problems   []extern.Problem
	NotUnified map[proofterm.Name]proofterm.Term
	Injective  map[proofterm.Name]bool
}

// Bridge wraps the external Unifier this proof session was built
// with.
type Bridge struct {
	Unifier extern.Unifier
}

// UnifyPrime is unify'(env, a, b) (§4.2): full unification. A flat
// failure from the oracle propagates as an error (§7 kind 2, the
// tactic fails transactionally); success — even one carrying
// sub-problems the oracle itself could not resolve inline — updates
// the journal/problems/notunified/injective and re-runs updateProblems
// to a fixed point.
func (b Bridge) UnifyPrime(acc Accumulator, env proofterm.Env, lhs, rhs proofterm.Term, holes []proofterm.Name, dontunify map[proofterm.Name]bool) (Accumulator, error) {
	sol, subproblems, err := b.Unifier.Unify(env, lhs, rhs, acc.Injective, holes)
	if err != nil {
		return acc, err
	}
	acc = mergeSolution(acc, sol, dontunify)
	acc.Problems = append(acc.Problems, subproblems...)
	return b.updateProblems(acc, holes, dontunify, false), nil
}

// MatchUnifyPrime is match_unify'(env, a, b) (§4.2): one-sided
// matching. Unlike UnifyPrime, a failure never propagates — it is
// appended to Problems with Mode Match and the tactic continues.
func (b Bridge) MatchUnifyPrime(acc Accumulator, env proofterm.Env, lhs, rhs proofterm.Term, holes []proofterm.Name, dontunify map[proofterm.Name]bool) Accumulator {
	sol, err := b.Unifier.MatchUnify(env, lhs, rhs, acc.Injective, holes)
	if err != nil {
		acc.Problems = append(acc.Problems, extern.Problem{Env: env, LHS: lhs, RHS: rhs, Err: err, Mode: extern.ModeMatch})
		return acc
	}
	acc = mergeSolution(acc, sol, dontunify)
	return b.updateProblems(acc, holes, dontunify, false)
}

// mergeSolution appends sol to the journal, except that any (n, t)
// where n is a user-given (dontunify) name and t is not a plain bound
// variable is routed to NotUnified instead of applied (§4.2 step 4).
// It also propagates injectivity (§4.2 step 5).
func mergeSolution(acc Accumulator, sol proofterm.Solution, dontunify map[proofterm.Name]bool) Accumulator {
	for n, t := range sol {
		if dontunify[n] && !isPlainRef(t) {
			acc.NotUnified[n] = t
			continue
		}
		acc.Journal = append(acc.Journal, JournalEntry{Hole: n, Solution: t})
		propagateInjective(acc.Injective, n, t)
	}
	return acc
}

func isPlainRef(t proofterm.Term) bool {
	_, ok := t.(proofterm.Ref)
	return ok
}

// propagateInjective implements §4.2 step 5: for n ↦ c a1...ak with c
// a variable reference, if either n or c is already known injective,
// mark both.
func propagateInjective(injective map[proofterm.Name]bool, n proofterm.Name, t proofterm.Term) {
	head, _ := proofterm.UnApply(t)
	ref, ok := head.(proofterm.Ref)
	if !ok {
		return
	}
	if injective[n] || injective[ref.Name] {
		injective[n] = true
		injective[ref.Name] = true
	}
}

// updateProblems retries the deferred queue under the current journal
// until it stops shrinking (§4.4). Each round rewrites every pending
// equation through the journal-so-far and asks the oracle again;
// successes extend the journal (or notunified) and drop out of the
// queue, failures are kept with their rewritten terms. forceMatch
// forces every retry through MatchUnify regardless of the problem's
// own recorded Mode — the MatchProblems tactic's one-sided sweep,
// versus UnifyProblems' mode-respecting retry.
func (b Bridge) updateProblems(acc Accumulator, holes []proofterm.Name, dontunify map[proofterm.Name]bool, forceMatch bool) Accumulator {
	for {
		sol := journalSolution(acc.Journal)
		var remaining []extern.Problem
		changed := false
		for _, p := range acc.Problems {
			lhs := proofterm.PSubst(sol, p.LHS)
			rhs := proofterm.PSubst(sol, p.RHS)

			var newSol proofterm.Solution
			var err error
			if forceMatch || p.Mode == extern.ModeMatch {
				newSol, err = b.Unifier.MatchUnify(p.Env, lhs, rhs, acc.Injective, holes)
			} else {
				newSol, _, err = b.Unifier.Unify(p.Env, lhs, rhs, acc.Injective, holes)
			}
			if err == nil {
				acc = mergeSolution(acc, newSol, dontunify)
				changed = true
				continue
			}
			remaining = append(remaining, extern.Problem{Env: p.Env, LHS: lhs, RHS: rhs, Err: err, Mode: p.Mode})
		}
		acc.Problems = remaining
		if !changed {
			return acc
		}
	}
}

// RetryProblems is the UnifyProblems tactic's entry point: retry every
// deferred equation, respecting each one's own Mode.
func (b Bridge) RetryProblems(acc Accumulator, holes []proofterm.Name, dontunify map[proofterm.Name]bool) Accumulator {
	return b.updateProblems(acc, holes, dontunify, false)
}

// RetryProblemsAsMatch is the MatchProblems tactic's entry point:
// retry every deferred equation via one-sided matching regardless of
// the Mode it was originally deferred under.
func (b Bridge) RetryProblemsAsMatch(acc Accumulator, holes []proofterm.Name, dontunify map[proofterm.Name]bool) Accumulator {
	return b.updateProblems(acc, holes, dontunify, true)
}

// UpdateNotunified rewrites the RHS of every NotUnified entry through
// sol, without attempting to resolve them (§4.4).
func UpdateNotunified(notUnified map[proofterm.Name]proofterm.Term, sol proofterm.Solution) map[proofterm.Name]proofterm.Term {
	out := make(map[proofterm.Name]proofterm.Term, len(notUnified))
	for k, v := range notUnified {
		out[k] = proofterm.PSubst(sol, v)
	}
	return out
}

// UpdateSolved substitutes every (n, v) in sol throughout term (§4.4):
// a Bind whose name is a solved key and whose current binder is a
// Hole or a Guess is eliminated outright, its body substituted into the scope;
// every other Ref naming a solved key is replaced by its solution.
// Substitution is capture-avoiding under the same fresh-names
// invariant as proofterm.Subst.
func UpdateSolved(sol proofterm.Solution, term proofterm.Term) proofterm.Term {
	if len(sol) == 0 {
		return term
	}
	switch n := term.(type) {
	case proofterm.Ref:
		if v, ok := sol[n.Name]; ok {
			return UpdateSolved(sol, v)
		}
		return n
	case proofterm.App:
		return proofterm.App{Fun: UpdateSolved(sol, n.Fun), Arg: UpdateSolved(sol, n.Arg)}
	case proofterm.Bind:
		if v, ok := sol[n.Name]; ok {
			if proofterm.IsHole(n.Binder) {
				return UpdateSolved(sol, proofterm.Subst(n.Name, v, n.Scope))
			}
		}
		return proofterm.Bind{
			Name:   n.Name,
			Binder: updateSolvedBinder(sol, n.Binder),
			Scope:  UpdateSolved(sol, n.Scope),
		}
	default:
		return term
	}
}

func updateSolvedBinder(sol proofterm.Solution, b proofterm.Binder) proofterm.Binder {
	switch bb := b.(type) {
	case proofterm.Guess:
		return proofterm.Guess{Type: UpdateSolved(sol, bb.Type), Value: UpdateSolved(sol, bb.Value)}
	case proofterm.Let:
		return proofterm.Let{Type: UpdateSolved(sol, bb.Type), Value: UpdateSolved(sol, bb.Value)}
	default:
		return b.WithTy(UpdateSolved(sol, b.Ty()))
	}
}

func journalSolution(journal []JournalEntry) proofterm.Solution {
	sol := make(proofterm.Solution, len(journal))
	for _, e := range journal {
		sol[e.Hole] = e.Solution
	}
	return sol
}
