package proofstate

import (
	"testing"

	"github.com/prooflab/proofengine/internal/proofterm"
)

func TestAtHoleFindsNamedFocus(t *testing.T) {
	term := proofterm.Bind{
		Name:   "h0",
		Binder: proofterm.Hole{Type: proofterm.Ref{Name: "Nat"}},
		Scope:  proofterm.Ref{Name: "h0"},
	}
	focus := proofterm.Name("h0")
	replaced, found, err := AtHole(&focus, term, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		return proofterm.Subst(name, proofterm.Ref{Name: "zero"}, scope), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatalf("expected to find h0")
	}
	if !proofterm.AlphaEq(replaced, proofterm.Ref{Name: "zero"}) {
		t.Errorf("replaced = %v, want zero", replaced)
	}
}

func TestAtHoleNotFoundLeavesTermUnchanged(t *testing.T) {
	term := proofterm.Bind{
		Name:   "h0",
		Binder: proofterm.Hole{Type: proofterm.Ref{Name: "Nat"}},
		Scope:  proofterm.Ref{Name: "h0"},
	}
	focus := proofterm.Name("missing")
	replaced, found, err := AtHole(&focus, term, func(env proofterm.Env, name proofterm.Name, binder proofterm.Binder, scope proofterm.Term) (proofterm.Term, error) {
		t.Fatalf("f should not be called when focus is absent")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("expected not found")
	}
	if !proofterm.AlphaEq(replaced, term) {
		t.Errorf("term should be returned unchanged")
	}
}

// TestGuessTraversalOrder checks §4.1: under a Guess, Value is
// searched before Type, before Scope. The three candidate holes share
// the focus name "h" (a nil focus would match the outer Guess itself),
// so the annotation of the one found shows which part came first.
func TestGuessTraversalOrder(t *testing.T) {
	term := proofterm.Bind{
		Name: "g",
		Binder: proofterm.Guess{
			Type:  proofterm.Bind{Name: "h", Binder: proofterm.Hole{Type: proofterm.Ref{Name: "InType"}}, Scope: proofterm.Ref{Name: "h"}},
			Value: proofterm.Bind{Name: "h", Binder: proofterm.Hole{Type: proofterm.Ref{Name: "InValue"}}, Scope: proofterm.Ref{Name: "h"}},
		},
		Scope: proofterm.Bind{Name: "h", Binder: proofterm.Hole{Type: proofterm.Ref{Name: "InScope"}}, Scope: proofterm.Ref{Name: "h"}},
	}
	focus := proofterm.Name("h")
	_, _, binder, found := Goal(&focus, term)
	if !found {
		t.Fatalf("expected a hole to be found")
	}
	if !proofterm.AlphaEq(binder.Ty(), proofterm.Ref{Name: "InValue"}) {
		t.Errorf("expected the hole in the Guess's Value to be visited first, got one of type %v", binder.Ty())
	}
}

// TestOrdinaryBindTraversalOrder checks §4.1: under an ordinary Bind,
// Scope is searched before Type.
func TestOrdinaryBindTraversalOrder(t *testing.T) {
	term := proofterm.Bind{
		Name:   "x",
		Binder: proofterm.Lam{Type: proofterm.Bind{Name: "tyHole", Binder: proofterm.Hole{Type: proofterm.Sort{Level: 0}}, Scope: proofterm.Ref{Name: "tyHole"}}},
		Scope:  proofterm.Bind{Name: "scopeHole", Binder: proofterm.Hole{Type: proofterm.Ref{Name: "Nat"}}, Scope: proofterm.Ref{Name: "scopeHole"}},
	}
	_, name, _, found := Goal(nil, term)
	if !found {
		t.Fatalf("expected a hole to be found")
	}
	if name != "scopeHole" {
		t.Errorf("expected scopeHole to be visited before the binder's Type, got %s", name)
	}
}
