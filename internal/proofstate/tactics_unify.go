package proofstate

import (
	"github.com/prooflab/proofengine/internal/extern"
	"github.com/prooflab/proofengine/internal/proofterm"
	"github.com/prooflab/proofengine/internal/unifybridge"
)

// StartUnify opens a named unification scope; the journal entries
// produced by Fill/MatchFill/UnifyProblems until the matching EndUnify
// are what that call commits (§4.3, §3 `unifyScope`).
type StartUnify struct {
	Name proofterm.Name
}

func (t StartUnify) apply(ps *ProofState, next *ProofState) error {
	next.UnifyScope = t.Name
	return nil
}

// EndUnify commits the journal accumulated since StartUnify: it
// substitutes every solved hole through the whole term and through
// notunified, drops the now-eliminated holes from the queue, re-runs
// updateProblems against the committed substitution in case any
// deferred equation is now unblocked, and clears the scope (§4.3,
// §4.4 updateSolved/updateProblems).
type EndUnify struct{}

func (t EndUnify) apply(ps *ProofState, next *ProofState) error {
	sol := make(proofterm.Solution, len(next.Unified))
	for _, hs := range next.Unified {
		sol[hs.Hole] = hs.Solution
	}

	next.PTerm = unifybridge.UpdateSolved(sol, next.PTerm)
	next.NotUnified = unifybridge.UpdateNotunified(next.NotUnified, sol)
	next.Holes = pruneSolved(next.Holes, sol)

	bridge := unifyBridge(next)
	acc := unifybridge.Accumulator{Problems: next.Problems, Injective: next.Injective, NotUnified: next.NotUnified}
	acc = bridge.RetryProblems(acc, next.Holes, next.DontUnify)
	next.Injective = acc.Injective
	next.Problems = acc.Problems
	next.NotUnified = acc.NotUnified

	if len(acc.Journal) > 0 {
		retrySol := make(proofterm.Solution, len(acc.Journal))
		for _, e := range acc.Journal {
			retrySol[e.Hole] = e.Solution
		}
		next.PTerm = unifybridge.UpdateSolved(retrySol, next.PTerm)
		next.NotUnified = unifybridge.UpdateNotunified(next.NotUnified, retrySol)
		next.Holes = pruneSolved(next.Holes, retrySol)
	}

	next.Unified = nil
	next.UnifyScope = ""
	return nil
}

// pruneSolved drops every name sol has a solution for from holes —
// the shared tail end of both EndUnify passes.
func pruneSolved(holes []proofterm.Name, sol proofterm.Solution) []proofterm.Name {
	out := make([]proofterm.Name, 0, len(holes))
	for _, h := range holes {
		if _, solved := sol[h]; solved {
			continue
		}
		out = append(out, h)
	}
	return out
}

// UnifyProblems retries the deferred equation queue, respecting each
// equation's own recorded unify/match mode, to a fixed point (§4.3,
// §4.4).
type UnifyProblems struct{}

func (t UnifyProblems) apply(ps *ProofState, next *ProofState) error {
	bridge := unifyBridge(next)
	acc := unifybridge.Accumulator{
		Problems:   next.Problems,
		Injective:  next.Injective,
		NotUnified: next.NotUnified,
	}
	acc = bridge.RetryProblems(acc, next.Holes, next.DontUnify)
	applyAccumulator(next, acc)
	return nil
}

// MatchProblems is UnifyProblems' one-sided sibling: every deferred
// equation is retried via match_unify' (§4.3). All, when true, forces
// every pending equation through the match path regardless of how it
// was originally deferred; when false, only equations already
// recorded with Mode Match are retried, and every other equation is
// kept in Problems untouched.
type MatchProblems struct {
	All bool
}

func (t MatchProblems) apply(ps *ProofState, next *ProofState) error {
	bridge := unifyBridge(next)
	if t.All {
		acc := unifybridge.Accumulator{
			Problems:   next.Problems,
			Injective:  next.Injective,
			NotUnified: next.NotUnified,
		}
		acc = bridge.RetryProblemsAsMatch(acc, next.Holes, next.DontUnify)
		applyAccumulator(next, acc)
		return nil
	}

	var matchOnly, rest []extern.Problem
	for _, p := range next.Problems {
		if p.Mode == extern.ModeMatch {
			matchOnly = append(matchOnly, p)
		} else {
			rest = append(rest, p)
		}
	}
	acc := unifybridge.Accumulator{
		Problems:   matchOnly,
		Injective:  next.Injective,
		NotUnified: next.NotUnified,
	}
	acc = bridge.RetryProblemsAsMatch(acc, next.Holes, next.DontUnify)
	acc.Problems = append(acc.Problems, rest...)
	applyAccumulator(next, acc)
	return nil
}

// applyAccumulator folds a bridge Accumulator's side channels back
// into next, the shared tail end of every tactic that calls into
// unifybridge.
func applyAccumulator(next *ProofState, acc unifybridge.Accumulator) {
	next.Injective = acc.Injective
	next.NotUnified = acc.NotUnified
	next.Problems = acc.Problems
	for _, e := range acc.Journal {
		next.Unified = append(next.Unified, HoleSolution{Hole: e.Hole, Solution: e.Solution})
	}
}
