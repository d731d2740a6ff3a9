// Package prooflang decodes tactic scripts: a YAML document naming a
// theorem, its goal, and the ordered sequence of tactics to run
// against it (§3 Lifecycle, §4.3 catalogue). It owns no tactic
// semantics itself — Parse only builds the data cmd/prooflab then
// feeds, one Step at a time, to proofstate.ProcessTactic.
package prooflang

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/prooflab/proofengine/internal/proofterm"
)

// Script is one tactic-script file (§2 ambient config: the .prf/.tac
// extensions proofconfig recognizes).
type Script struct {
	Theorem string   `yaml:"theorem"`
	Goal    TermNode `yaml:"goal"`
	Steps   []Step   `yaml:"steps"`
}

// Step is one line of a tactic script. Not every field applies to
// every tactic; cmd/prooflab's dispatcher reads only the ones its
// tactic needs and ignores the rest, the same loose-record shape the
// teacher's own YAML-driven fixtures used.
type Step struct {
	Tactic    string    `yaml:"tactic"`
	Focus     string    `yaml:"focus,omitempty"`
	Name      string    `yaml:"name,omitempty"`
	Type      *TermNode `yaml:"type,omitempty"`
	Value     *TermNode `yaml:"value,omitempty"`
	Raw       *TermNode `yaml:"raw,omitempty"`
	Eq        *TermNode `yaml:"eq,omitempty"`
	Domain    *TermNode  `yaml:"domain,omitempty"`
	Scrutinee *TermNode  `yaml:"scrutinee,omitempty"`
	Args      []TermNode `yaml:"args,omitempty"`
	All       bool       `yaml:"all,omitempty"`
}

// Parse decodes a tactic script document.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("prooflang: %w", err)
	}
	return &s, nil
}

// TermNode decodes a proof term written directly as YAML, a
// convenience fixture format standing in for the external parser
// (§6, an explicit out-of-scope collaborator): every node carries a
// `kind` discriminator naming one of proofterm's variants.
type TermNode struct {
	Term proofterm.Term
}

type rawNode struct {
	Kind    string    `yaml:"kind"`
	Name    string    `yaml:"name"`
	Level   int       `yaml:"level"`
	Fun     *TermNode `yaml:"fun"`
	Arg     *TermNode `yaml:"arg"`
	Variant string    `yaml:"variant"`
	Type    *TermNode `yaml:"type"`
	Value   *TermNode `yaml:"value"`
	Scope   *TermNode `yaml:"scope"`
}

func (n *TermNode) UnmarshalYAML(value *yaml.Node) error {
	var raw rawNode
	if err := value.Decode(&raw); err != nil {
		return err
	}
	t, err := raw.toTerm()
	if err != nil {
		return err
	}
	n.Term = t
	return nil
}

func (r rawNode) toTerm() (proofterm.Term, error) {
	switch r.Kind {
	case "ref":
		return proofterm.Ref{Name: proofterm.Name(r.Name)}, nil
	case "sort":
		return proofterm.Sort{Level: r.Level}, nil
	case "erased":
		return proofterm.Erased{}, nil
	case "app":
		if r.Fun == nil || r.Arg == nil {
			return nil, fmt.Errorf("prooflang: app node requires fun and arg")
		}
		return proofterm.App{Fun: r.Fun.Term, Arg: r.Arg.Term}, nil
	case "bind":
		if r.Type == nil || r.Scope == nil {
			return nil, fmt.Errorf("prooflang: bind node requires type and scope")
		}
		binder, err := r.toBinder()
		if err != nil {
			return nil, err
		}
		return proofterm.Bind{Name: proofterm.Name(r.Name), Binder: binder, Scope: r.Scope.Term}, nil
	default:
		return nil, fmt.Errorf("prooflang: unknown term kind %q", r.Kind)
	}
}

func (r rawNode) toBinder() (proofterm.Binder, error) {
	ty := r.Type.Term
	switch r.Variant {
	case "lam":
		return proofterm.Lam{Type: ty}, nil
	case "pi":
		return proofterm.Pi{Type: ty}, nil
	case "hole":
		return proofterm.Hole{Type: ty}, nil
	case "pvar":
		return proofterm.PVar{Type: ty}, nil
	case "pvty":
		return proofterm.PVTy{Type: ty}, nil
	case "ghole":
		return proofterm.GHole{Type: ty}, nil
	case "let":
		if r.Value == nil {
			return nil, fmt.Errorf("prooflang: let binder requires value")
		}
		return proofterm.Let{Type: ty, Value: r.Value.Term}, nil
	case "guess":
		if r.Value == nil {
			return nil, fmt.Errorf("prooflang: guess binder requires value")
		}
		return proofterm.Guess{Type: ty, Value: r.Value.Term}, nil
	default:
		return nil, fmt.Errorf("prooflang: unknown binder variant %q", r.Variant)
	}
}
