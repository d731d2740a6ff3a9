// Package proofstate is the interactive proof-state engine: the proof
// term/holes/undo container (§3), the hole navigator (navigator.go),
// the tactic catalogue (tactic*.go), and NewProof/ProcessTactic (§6).
package proofstate

import (
	"github.com/google/uuid"

	"github.com/prooflab/proofengine/internal/extern"
	"github.com/prooflab/proofengine/internal/proofterm"
)

// HoleSolution is one entry of the unification journal: a hole paired
// with the term that solves it (§3 `unified`, `solved`).
type HoleSolution struct {
	Hole     proofterm.Name
	Solution proofterm.Term
}

// ProofState is the whole mutable nucleus of the engine (§3). Every
// successful tactic produces a *new* ProofState; processTactic never
// mutates the state passed to it (§5, §7 propagation policy).
type ProofState struct {
	ThmName proofterm.Name

	Holes    []proofterm.Name
	UsedNames map[proofterm.Name]bool
	NextName int

	PTerm proofterm.Term
	PType proofterm.Term

	DontUnify map[proofterm.Name]bool

	UnifyScope proofterm.Name
	Unified    []HoleSolution
	NotUnified map[proofterm.Name]proofterm.Term
	Solved     *HoleSolution
	Problems   []extern.Problem

	Injective map[proofterm.Name]bool
	Deferred  []proofterm.Name
	Instances []proofterm.Name

	Previous *ProofState

	Context extern.Context
	Checker extern.TypeChecker
	Eval    extern.Evaluator
	Unifier extern.Unifier

	PLog     string
	UnifyLog string
	Done     bool

	// SessionID correlates PLog/UnifyLog lines with one editing
	// session across a driver's own process restarts; the engine
	// itself never persists across processes (an explicit Non-goal).
	SessionID uuid.UUID
}

// NewProof creates the initial state: a single hole of the goal type
// (§3 Lifecycle).
func NewProof(name proofterm.Name, ctx extern.Context, checker extern.TypeChecker, eval extern.Evaluator, unifier extern.Unifier, goal proofterm.Term) *ProofState {
	h0 := proofterm.Name(string(name) + "_h0")
	pterm := proofterm.Bind{Name: h0, Binder: proofterm.Hole{Type: goal}, Scope: proofterm.Ref{Name: h0}}

	return &ProofState{
		ThmName:   name,
		Holes:     []proofterm.Name{h0},
		UsedNames: map[proofterm.Name]bool{h0: true},
		PTerm:     pterm,
		PType:     goal,
		DontUnify: map[proofterm.Name]bool{},
		NotUnified: map[proofterm.Name]proofterm.Term{},
		Injective:  map[proofterm.Name]bool{},
		Context:    ctx,
		Checker:    checker,
		Eval:       eval,
		Unifier:    unifier,
		SessionID:  uuid.New(),
	}
}

// clone makes a shallow copy of ps suitable as the basis for the state
// a tactic produces — callers replace whichever fields changed. Maps
// and slices are copied so that the prior ProofState (reachable via
// Previous, or still held by the caller) cannot be mutated through the
// new one.
func (ps *ProofState) clone() *ProofState {
	next := *ps
	next.Holes = append([]proofterm.Name{}, ps.Holes...)
	next.UsedNames = copyNameSet(ps.UsedNames)
	next.DontUnify = copyNameSet(ps.DontUnify)
	next.NotUnified = copyTermMap(ps.NotUnified)
	next.Injective = copyNameSet(ps.Injective)
	next.Deferred = append([]proofterm.Name{}, ps.Deferred...)
	next.Instances = append([]proofterm.Name{}, ps.Instances...)
	next.Unified = append([]HoleSolution{}, ps.Unified...)
	next.Problems = append([]extern.Problem{}, ps.Problems...)
	next.Previous = nil // the engine keeps exactly one predecessor (§5)
	return &next
}

// snapshotInto records ps itself as the Previous of next, truncating any
// chain next.Previous already carried — single-step undo only (§5,
// §9 "Undo" design note).
func (ps *ProofState) snapshotInto(next *ProofState) {
	prior := *ps
	prior.Previous = nil
	next.Previous = &prior
}

func copyNameSet(m map[proofterm.Name]bool) map[proofterm.Name]bool {
	out := make(map[proofterm.Name]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyTermMap(m map[proofterm.Name]proofterm.Term) map[proofterm.Name]proofterm.Term {
	out := make(map[proofterm.Name]proofterm.Term, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Fresh generates a name starting from base that has never been used
// in this state, recording it in UsedNames (§3 invariant 4: usedns
// grows monotonically and lives in the state, never a process global).
func (ps *ProofState) Fresh(base proofterm.Name) proofterm.Name {
	ps.NextName++
	name := ps.Context.UniqueName(base, ps.UsedNames)
	if ps.UsedNames[name] {
		// Context disagreed with our bookkeeping; fall back to the
		// monotonic counter, which cannot collide with itself.
		name = proofterm.Name(string(base) + "_" + itoa(ps.NextName))
	}
	ps.UsedNames[name] = true
	return name
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Focused returns the current focus hole name, or false if there are
// no open holes.
func (ps *ProofState) Focused() (proofterm.Name, bool) {
	if len(ps.Holes) == 0 {
		return "", false
	}
	return ps.Holes[0], true
}

// focusOrFirst resolves the *proofterm.Name the Tactic names (nil
// means "the current focus") to a concrete optional hole name for
// AtHole, and reports whether there is anything to focus on at all.
func (ps *ProofState) focusOrFirst(explicit *proofterm.Name) (*proofterm.Name, bool) {
	if explicit != nil {
		return explicit, true
	}
	if len(ps.Holes) == 0 {
		return nil, false
	}
	return &ps.Holes[0], true
}

// removeHoleFrom deletes name from the ordered hole list, if present.
func removeHoleFrom(holes []proofterm.Name, name proofterm.Name) []proofterm.Name {
	out := make([]proofterm.Name, 0, len(holes))
	for _, h := range holes {
		if h != name {
			out = append(out, h)
		}
	}
	return out
}

// insertAfter inserts name immediately after anchor in holes (Claim,
// §4.3); if anchor is absent, name is appended.
func insertAfter(holes []proofterm.Name, anchor, name proofterm.Name) []proofterm.Name {
	for i, h := range holes {
		if h == anchor {
			out := make([]proofterm.Name, 0, len(holes)+1)
			out = append(out, holes[:i+1]...)
			out = append(out, name)
			out = append(out, holes[i+1:]...)
			return out
		}
	}
	return append(append([]proofterm.Name{}, holes...), name)
}

// Focus rotates Holes so that name is head, a no-op if name is absent
// (§4.3 Focus tactic).
func Focus(holes []proofterm.Name, name proofterm.Name) []proofterm.Name {
	for i, h := range holes {
		if h == name {
			out := make([]proofterm.Name, 0, len(holes))
			out = append(out, holes[i:]...)
			out = append(out, holes[:i]...)
			return out
		}
	}
	return holes
}

// MoveLast moves name to the tail of holes (§4.3 MoveLast tactic).
func MoveLast(holes []proofterm.Name, name proofterm.Name) []proofterm.Name {
	out := make([]proofterm.Name, 0, len(holes))
	found := false
	for _, h := range holes {
		if h == name {
			found = true
			continue
		}
		out = append(out, h)
	}
	if !found {
		return holes
	}
	return append(out, name)
}

// DropGiven returns the subset of sol whose keys are NOT in
// dontunify — the machine-hole solutions a unification scope is free
// to apply unilaterally (§4.3 EndUnify, §6).
func DropGiven(dontunify map[proofterm.Name]bool, sol proofterm.Solution) proofterm.Solution {
	out := make(proofterm.Solution, len(sol))
	for k, v := range sol {
		if !dontunify[k] {
			out[k] = v
		}
	}
	return out
}

// KeepGiven returns the subset of sol whose keys ARE in dontunify —
// the user-supplied-name solutions that must not be applied
// unilaterally and are instead recorded in notunified (§4.2 step 4).
func KeepGiven(dontunify map[proofterm.Name]bool, sol proofterm.Solution) proofterm.Solution {
	out := make(proofterm.Solution, len(sol))
	for k, v := range sol {
		if dontunify[k] {
			out[k] = v
		}
	}
	return out
}
