package proofterm

import "testing"

func TestMkAppUnApply(t *testing.T) {
	fn := Ref{Name: "plus"}
	args := []Term{Ref{Name: "a"}, Ref{Name: "b"}}
	app := MkApp(fn, args...)

	head, gotArgs := UnApply(app)
	if head != fn {
		t.Fatalf("head = %v, want %v", head, fn)
	}
	if len(gotArgs) != len(args) {
		t.Fatalf("len(args) = %d, want %d", len(gotArgs), len(args))
	}
	for i, a := range args {
		if gotArgs[i] != a {
			t.Errorf("args[%d] = %v, want %v", i, gotArgs[i], a)
		}
	}
}

func TestNoOccurrence(t *testing.T) {
	term := Bind{
		Name:   "x",
		Binder: Lam{Type: Ref{Name: "Nat"}},
		Scope:  Ref{Name: "x"},
	}
	if !NoOccurrence("x", term) {
		t.Errorf("expected bound x not to count as a free occurrence in term")
	}
	if !NoOccurrence("y", term) {
		t.Errorf("expected y to not occur in term")
	}
}

func TestSubstReplacesFreeOccurrences(t *testing.T) {
	term := App{Fun: Ref{Name: "f"}, Arg: Ref{Name: "h0"}}
	result := Subst("h0", Ref{Name: "zero"}, term)
	want := App{Fun: Ref{Name: "f"}, Arg: Ref{Name: "zero"}}
	if !AlphaEq(result, want) {
		t.Errorf("Subst result = %v, want %v", result, want)
	}
}

func TestSubstStopsAtShadow(t *testing.T) {
	term := Bind{
		Name:   "x",
		Binder: Lam{Type: Ref{Name: "Nat"}},
		Scope:  Ref{Name: "x"},
	}
	result := Subst("x", Ref{Name: "zero"}, term)
	if !AlphaEq(result, term) {
		t.Errorf("substitution should not cross a shadowing binder: got %v", result)
	}
}

func TestPSubstIdempotentOnFixedPoint(t *testing.T) {
	sol := Solution{"h0": Ref{Name: "zero"}, "h1": Ref{Name: "succ"}}
	term := App{Fun: Ref{Name: "h1"}, Arg: Ref{Name: "h0"}}
	once := PSubst(sol, term)
	twice := PSubst(sol, once)
	if !AlphaEq(once, twice) {
		t.Errorf("PSubst not idempotent once no keys remain free: %v vs %v", once, twice)
	}
}

func TestAlphaEqRenaming(t *testing.T) {
	a := Bind{Name: "x", Binder: Lam{Type: Ref{Name: "Nat"}}, Scope: Ref{Name: "x"}}
	b := Bind{Name: "y", Binder: Lam{Type: Ref{Name: "Nat"}}, Scope: Ref{Name: "y"}}
	if !AlphaEq(a, b) {
		t.Errorf("expected alpha-equivalence between %v and %v", a, b)
	}
}

func TestForgetKeepsGuessShape(t *testing.T) {
	term := Bind{
		Name:   "h",
		Binder: Guess{Type: Ref{Name: "Nat"}, Value: Ref{Name: "zero"}},
		Scope:  Ref{Name: "h"},
	}
	got := Forget(term)
	if !AlphaEq(got, term) {
		t.Errorf("Forget changed shape: got %v, want alpha-equal to %v", got, term)
	}
}
