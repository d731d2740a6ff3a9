package proofstate

import (
	"testing"

	"github.com/prooflab/proofengine/internal/extern"
	"github.com/prooflab/proofengine/internal/proofterm"
)

// idGoal is Pi (A : Type). Pi (x : A). A — the "id" function scenario
// of §8 scenario 1.
func idGoal() proofterm.Term {
	return proofterm.Bind{
		Name:   "A",
		Binder: proofterm.Pi{Type: proofterm.Sort{Level: 0}},
		Scope: proofterm.Bind{
			Name:   "x",
			Binder: proofterm.Pi{Type: proofterm.Ref{Name: "A"}},
			Scope:  proofterm.Ref{Name: "A"},
		},
	}
}

func runAll(t *testing.T, ps *ProofState, steps ...Tactic) *ProofState {
	t.Helper()
	for i, step := range steps {
		next, err := ProcessTactic(step, ps)
		if err != nil {
			t.Fatalf("step %d (%T) failed: %v", i, step, err)
		}
		ps = next
	}
	return ps
}

// TestIdScenarioSingleSolve exercises Intro; Intro; Fill; Solve; QED
// against the Guess-staging semantics of Exact/Fill (§4.3): Fill
// stages exactly one Guess, so exactly one Solve discharges it —
// documented in DESIGN.md as a deliberate deviation from the literal
// two-Solve step count of the distilled worked example.
func TestIdScenarioSingleSolve(t *testing.T) {
	ps := newTestProof(idGoal())

	ps = runAll(t, ps,
		Intro{},
		Intro{},
		Fill{Raw: proofterm.Ref{Name: "x"}},
		Solve{},
	)
	if len(ps.Holes) != 0 {
		t.Fatalf("expected no open holes before QED, got %v", ps.Holes)
	}

	final, err := ProcessTactic(QED{}, ps)
	if err != nil {
		t.Fatalf("QED failed: %v", err)
	}
	if !final.Done {
		t.Fatalf("expected Done after QED")
	}

	want := proofterm.Bind{
		Name:   "A",
		Binder: proofterm.Lam{Type: proofterm.Sort{Level: 0}},
		Scope: proofterm.Bind{
			Name:   "x",
			Binder: proofterm.Lam{Type: proofterm.Ref{Name: "A"}},
			Scope:  proofterm.Ref{Name: "x"},
		},
	}
	if !proofterm.AlphaEq(final.PTerm, want) {
		t.Errorf("final term = %v, want %v", final.PTerm, want)
	}

	// A second Solve has nothing left to target.
	if _, err := ProcessTactic(Solve{}, final); err == nil {
		t.Errorf("expected a second Solve with no staged Guess to fail")
	}
}

// TestExactStagesGuessNotElimination checks that Exact leaves the
// hole's name in Holes (it only stages a Guess) and that Solve is
// required to actually discharge it (§4.3, invariant 3).
func TestExactStagesGuessNotElimination(t *testing.T) {
	ps := newTestProof(proofterm.Sort{Level: 1})
	if len(ps.Holes) != 1 {
		t.Fatalf("expected exactly one open hole, got %d", len(ps.Holes))
	}
	goalHole := ps.Holes[0]

	afterExact, err := ProcessTactic(Exact{Raw: proofterm.Sort{Level: 0}}, ps)
	if err != nil {
		t.Fatalf("Exact failed: %v", err)
	}
	if len(afterExact.Holes) != 1 || afterExact.Holes[0] != goalHole {
		t.Fatalf("Exact must leave the hole name in Holes until Solve, got %v", afterExact.Holes)
	}
	_, _, binder, found := Goal(nil, afterExact.PTerm)
	if !found {
		t.Fatalf("expected the staged Guess to still be findable as the goal")
	}
	if !proofterm.IsGuess(binder) {
		t.Fatalf("expected Exact to stage a Guess, got %T", binder)
	}

	afterSolve, err := ProcessTactic(Solve{}, afterExact)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if len(afterSolve.Holes) != 0 {
		t.Errorf("expected Solve to eliminate the discharged hole, got %v", afterSolve.Holes)
	}
}

// TestAttackRegretRoundTrip checks that Attack immediately followed by
// Regret returns to a state alpha-equivalent to before the Attack, with
// no orphaned hole names left in Holes (§3 invariant 1). Regret is
// applied to the outer Guess that Attack created: Regret accepts only a
// Guess, so the plain inner Hole cannot be its target.
func TestAttackRegretRoundTrip(t *testing.T) {
	ps := newTestProof(proofterm.Sort{Level: 0})
	before := ps.PTerm
	beforeHoles := append([]proofterm.Name{}, ps.Holes...)
	outer := ps.Holes[0]

	afterAttack, err := ProcessTactic(Attack{}, ps)
	if err != nil {
		t.Fatalf("Attack failed: %v", err)
	}
	if len(afterAttack.Holes) != 2 {
		t.Fatalf("expected Attack to open exactly one more hole, got %v", afterAttack.Holes)
	}

	afterRegret, err := ProcessTactic(Regret{Focus: &outer}, afterAttack)
	if err != nil {
		t.Fatalf("Regret failed: %v", err)
	}
	if !proofterm.AlphaEq(afterRegret.PTerm, before) {
		t.Errorf("Regret did not restore the pre-Attack term:\n  got:  %v\n  want: %v", afterRegret.PTerm, before)
	}
	if len(afterRegret.Holes) != len(beforeHoles) {
		t.Errorf("Regret left orphaned hole names: got %v, want %v", afterRegret.Holes, beforeHoles)
	}
}

// TestInductionOpensTwoBranches checks the documented two-branch
// simplification (DESIGN.md: Induction does not derive a
// per-constructor motive split from DataMI).
func TestInductionOpensTwoBranches(t *testing.T) {
	ctx := extern.NewStubContext()
	ctx.Eliminators["Nat"] = []proofterm.Name{"Nat_elim"}
	eval := extern.StubEvaluator{}
	checker := extern.StubTypeChecker{Eval: eval}
	unifier := extern.StubUnifier{}

	goal := proofterm.Bind{
		Name:   "n",
		Binder: proofterm.Pi{Type: proofterm.Ref{Name: "Nat"}},
		Scope:  proofterm.Ref{Name: "Nat"},
	}
	ps := NewProof("nat_thm", ctx, checker, eval, unifier, goal)

	afterIntro, err := ProcessTactic(Intro{}, ps)
	if err != nil {
		t.Fatalf("Intro failed: %v", err)
	}
	before := len(afterIntro.Holes)

	next, err := ProcessTactic(Induction{Scrutinee: proofterm.Ref{Name: "n"}}, afterIntro)
	if err != nil {
		t.Fatalf("Induction failed: %v", err)
	}
	if len(next.Holes) != before+1 {
		t.Fatalf("Induction must replace one hole with exactly two (net +1), got %d -> %d", before, len(next.Holes))
	}
}

// TestQEDFailsWithOpenHoles checks §7: QED on a proof with remaining
// obligations fails with StillHolesError rather than succeeding.
func TestQEDFailsWithOpenHoles(t *testing.T) {
	ps := newTestProof(proofterm.Sort{Level: 0})
	_, err := ProcessTactic(QED{}, ps)
	if err == nil {
		t.Fatalf("expected QED to fail with open holes")
	}
	if _, ok := err.(*StillHolesError); !ok {
		t.Errorf("expected StillHolesError, got %T", err)
	}
}
