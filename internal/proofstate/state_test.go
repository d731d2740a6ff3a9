package proofstate

import (
	"testing"

	"github.com/prooflab/proofengine/internal/extern"
	"github.com/prooflab/proofengine/internal/proofterm"
)

func newTestProof(goal proofterm.Term) *ProofState {
	ctx := extern.NewStubContext()
	eval := extern.StubEvaluator{}
	checker := extern.StubTypeChecker{Eval: eval}
	unifier := extern.StubUnifier{}
	return NewProof("thm", ctx, checker, eval, unifier, goal)
}

func TestNewProofStartsWithOneHole(t *testing.T) {
	ps := newTestProof(proofterm.Sort{Level: 0})
	if len(ps.Holes) != 1 {
		t.Fatalf("expected exactly one hole, got %d", len(ps.Holes))
	}
	if ps.Done {
		t.Errorf("a fresh proof should not be Done")
	}
	if ps.Previous != nil {
		t.Errorf("a fresh proof should have no Previous")
	}
	_, _, binder, found := Goal(nil, ps.PTerm)
	if !found {
		t.Fatalf("expected the initial hole to be found")
	}
	if !proofterm.AlphaEq(binder.Ty(), proofterm.Sort{Level: 0}) {
		t.Errorf("initial hole type = %v, want Sort 0", binder.Ty())
	}
}

func TestFreshNamesAreUnique(t *testing.T) {
	ps := newTestProof(proofterm.Sort{Level: 0})
	a := ps.Fresh("x")
	b := ps.Fresh("x")
	if a == b {
		t.Fatalf("Fresh produced the same name twice: %s", a)
	}
	if !ps.UsedNames[a] || !ps.UsedNames[b] {
		t.Errorf("Fresh must record every name it returns in UsedNames")
	}
}

func TestProcessTacticLeavesOriginalStateUnchangedOnFailure(t *testing.T) {
	ps := newTestProof(proofterm.Sort{Level: 0})
	before := ps
	_, err := ProcessTactic(Solve{}, ps)
	if err == nil {
		t.Fatalf("expected Solve against a plain Hole to fail")
	}
	if ps != before {
		t.Errorf("ProcessTactic must return the original state pointer on failure")
	}
	if len(ps.Holes) != 1 {
		t.Errorf("failed tactic must not mutate the original state's Holes")
	}
}

func TestUndoRestoresSinglePriorState(t *testing.T) {
	ps := newTestProof(proofterm.Bind{
		Name:   "A",
		Binder: proofterm.Pi{Type: proofterm.Sort{Level: 0}},
		Scope:  proofterm.Bind{Name: "x", Binder: proofterm.Pi{Type: proofterm.Ref{Name: "A"}}, Scope: proofterm.Ref{Name: "A"}},
	})

	if _, err := ProcessTactic(Undo{}, ps); err == nil {
		t.Fatalf("expected Undo with no predecessor to fail")
	} else if _, ok := err.(*NothingToUndoError); !ok {
		t.Errorf("expected NothingToUndoError, got %T", err)
	}

	afterIntro, err := ProcessTactic(Intro{}, ps)
	if err != nil {
		t.Fatalf("Intro failed: %v", err)
	}
	if afterIntro.Previous == nil {
		t.Fatalf("expected Previous to be recorded after a successful tactic")
	}

	undone, err := ProcessTactic(Undo{}, afterIntro)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !proofterm.AlphaEq(undone.PTerm, ps.PTerm) {
		t.Errorf("Undo did not restore the pre-Intro term:\n  got:  %v\n  want: %v", undone.PTerm, ps.PTerm)
	}
}

func TestFocusAndMoveLast(t *testing.T) {
	holes := []proofterm.Name{"a", "b", "c"}
	focused := Focus(holes, "b")
	want := []proofterm.Name{"b", "c", "a"}
	for i := range want {
		if focused[i] != want[i] {
			t.Fatalf("Focus(%v, b) = %v, want %v", holes, focused, want)
		}
	}
	moved := MoveLast(focused, "c")
	wantMoved := []proofterm.Name{"b", "a", "c"}
	for i := range wantMoved {
		if moved[i] != wantMoved[i] {
			t.Fatalf("MoveLast(%v, c) = %v, want %v", focused, moved, wantMoved)
		}
	}
}

func TestDropGivenAndKeepGiven(t *testing.T) {
	dontunify := map[proofterm.Name]bool{"given": true}
	sol := proofterm.Solution{
		"given":   proofterm.Ref{Name: "v1"},
		"machine": proofterm.Ref{Name: "v2"},
	}
	dropped := DropGiven(dontunify, sol)
	if _, ok := dropped["given"]; ok {
		t.Errorf("DropGiven must exclude given-named holes")
	}
	if _, ok := dropped["machine"]; !ok {
		t.Errorf("DropGiven must keep machine-named holes")
	}
	kept := KeepGiven(dontunify, sol)
	if _, ok := kept["given"]; !ok {
		t.Errorf("KeepGiven must keep given-named holes")
	}
	if _, ok := kept["machine"]; ok {
		t.Errorf("KeepGiven must exclude machine-named holes")
	}
}
