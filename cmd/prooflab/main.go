// Command prooflab drives the proof-state engine from a tactic
// script: it builds the initial ProofState for a theorem, feeds each
// scripted tactic through proofstate.ProcessTactic in order, and
// prints the resulting goal state after a successful step when -trace
// is set or the proof is done (§6). It is a thin
// outer shell — every diagnostic goes to stderr via fmt.Fprintf, the
// same single channel the teacher's own driver used; the engine
// itself never prints anything.
package main

import (
	"fmt"
	"os"

	"github.com/prooflab/proofengine/internal/extern"
	"github.com/prooflab/proofengine/internal/proofconfig"
	"github.com/prooflab/proofengine/internal/proofprinter"
	"github.com/prooflab/proofengine/internal/prooflang"
	"github.com/prooflab/proofengine/internal/proofstate"
	"github.com/prooflab/proofengine/internal/proofterm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var scriptPath string
	for _, a := range args {
		switch a {
		case "-test":
			proofconfig.IsTestMode = true
		case "-trace":
			proofconfig.IsTraceMode = true
		default:
			scriptPath = a
		}
	}
	if scriptPath == "" {
		fmt.Fprintf(os.Stderr, "usage: prooflab [-test] [-trace] <script%s>\n", proofconfig.ScriptFileExt)
		return 2
	}

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prooflab: %v\n", err)
		return 1
	}
	script, err := prooflang.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prooflab: %v\n", err)
		return 1
	}

	ctx := extern.NewStubContext()
	eval := extern.StubEvaluator{}
	checker := extern.StubTypeChecker{Eval: eval}
	unifier := extern.StubUnifier{}

	ps := proofstate.NewProof(proofterm.Name(script.Theorem), ctx, checker, eval, unifier, script.Goal.Term)

	for i, step := range script.Steps {
		tactic, err := buildTactic(step)
		if err != nil {
			fmt.Fprintf(os.Stderr, "prooflab: step %d: %v\n", i, err)
			return 1
		}
		next, err := proofstate.ProcessTactic(tactic, ps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "prooflab: step %d (%s): %v\n", i, step.Tactic, err)
			if proofconfig.IsTestMode {
				return 1
			}
			continue
		}
		ps = next
		if proofconfig.IsTraceMode || ps.Done {
			fmt.Fprint(os.Stderr, proofprinter.PrintState(ps))
		}
	}

	if !ps.Done {
		fmt.Fprintf(os.Stderr, "prooflab: script ended with %d goal(s) still open\n", len(ps.Holes))
		return 1
	}
	fmt.Fprintln(os.Stderr, "Q.E.D.")
	return 0
}

func buildTactic(s prooflang.Step) (proofstate.Tactic, error) {
	focus := optionalName(s.Focus)
	switch s.Tactic {
	case "attack":
		return proofstate.Attack{Focus: focus}, nil
	case "claim":
		return proofstate.Claim{Name: proofterm.Name(s.Name), Type: term(s.Type)}, nil
	case "reorder":
		return proofstate.Reorder{}, nil
	case "exact":
		return proofstate.Exact{Focus: focus, Raw: term(s.Raw)}, nil
	case "fill":
		return proofstate.Fill{Focus: focus, Raw: term(s.Raw)}, nil
	case "match_fill":
		return proofstate.MatchFill{Focus: focus, Raw: term(s.Raw)}, nil
	case "prep_fill":
		return proofstate.PrepFill{Focus: focus}, nil
	case "complete_fill":
		return proofstate.CompleteFill{Focus: focus}, nil
	case "regret":
		return proofstate.Regret{Focus: focus}, nil
	case "solve":
		return proofstate.Solve{Focus: focus}, nil
	case "start_unify":
		return proofstate.StartUnify{Name: proofterm.Name(s.Name)}, nil
	case "end_unify":
		return proofstate.EndUnify{}, nil
	case "unify_problems":
		return proofstate.UnifyProblems{}, nil
	case "match_problems":
		return proofstate.MatchProblems{All: s.All}, nil
	case "intro":
		return proofstate.Intro{Focus: focus, Name: optionalName(s.Name)}, nil
	case "intro_ty":
		return proofstate.IntroTy{Focus: focus, Name: optionalName(s.Name)}, nil
	case "forall":
		return proofstate.Forall{Focus: focus, Domain: term(s.Domain)}, nil
	case "let":
		return proofstate.LetBind{Focus: focus, Name: proofterm.Name(s.Name), Type: term(s.Type), Value: term(s.Value)}, nil
	case "expand_let":
		return proofstate.ExpandLet{Name: proofterm.Name(s.Name)}, nil
	case "rewrite":
		return proofstate.Rewrite{Focus: focus, Eq: term(s.Eq)}, nil
	case "induction":
		return proofstate.Induction{Focus: focus, Scrutinee: term(s.Scrutinee)}, nil
	case "equiv":
		return proofstate.Equiv{Focus: focus, Type: term(s.Type)}, nil
	case "defer":
		return proofstate.Defer{Focus: focus, Name: proofterm.Name(s.Name)}, nil
	case "defer_type":
		args := make([]proofterm.Term, len(s.Args))
		for i := range s.Args {
			args[i] = s.Args[i].Term
		}
		return proofstate.DeferType{Focus: focus, Name: proofterm.Name(s.Name), Type: term(s.Type), Args: args}, nil
	case "instance":
		return proofstate.Instance{Name: proofterm.Name(s.Name)}, nil
	case "set_injective":
		return proofstate.SetInjective{Name: proofterm.Name(s.Name)}, nil
	case "pat_var":
		return proofstate.PatVar{Focus: focus, Name: proofterm.Name(s.Name)}, nil
	case "pat_bind":
		return proofstate.PatBind{Focus: focus}, nil
	case "focus":
		return proofstate.FocusTactic{Name: proofterm.Name(s.Name)}, nil
	case "move_last":
		return proofstate.MoveLastTactic{Name: proofterm.Name(s.Name)}, nil
	case "compute":
		return proofstate.Compute{Focus: focus}, nil
	case "hnf_compute":
		return proofstate.HNFCompute{Focus: focus}, nil
	case "simplify":
		return proofstate.Simplify{Focus: focus}, nil
	case "compute_let":
		return proofstate.ComputeLet{Name: proofterm.Name(s.Name)}, nil
	case "undo":
		return proofstate.Undo{}, nil
	case "qed":
		return proofstate.QED{}, nil
	case "proofstate":
		return proofstate.ProofStateTactic{}, nil
	default:
		return nil, fmt.Errorf("unknown tactic %q", s.Tactic)
	}
}

func optionalName(s string) *proofterm.Name {
	if s == "" {
		return nil
	}
	n := proofterm.Name(s)
	return &n
}

func term(n *prooflang.TermNode) proofterm.Term {
	if n == nil {
		return proofterm.Erased{}
	}
	return n.Term
}
