// Package proofprinter renders a ProofState the way an interactive
// prover session shows it: the open goals above a rule, the focused
// goal's local environment, and the whole proof term below. None of
// this is load-bearing for the engine itself (§1, §6) — it is the
// outer I/O surface a driver calls after every successful tactic.
package proofprinter

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"

	"github.com/prooflab/proofengine/internal/proofstate"
	"github.com/prooflab/proofengine/internal/proofterm"
)

// Printer accumulates rendered output with indent-aware line wrapping,
// the same buffered-writer/column-tracking shape the teacher's code
// printer used for source text.
type Printer struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int
	column    int
	color     bool
}

// New returns a Printer with the default line width, colorizing hole
// names only when stdout is a real terminal (§2 ambient logging:
// driver-only, never from the engine itself).
func New() *Printer {
	return NewWithWidth(100)
}

func NewWithWidth(width int) *Printer {
	fd := os.Stdout.Fd()
	return &Printer{lineWidth: width, color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
	p.column = p.indent * 2
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
	p.column += len(s)
}

func (p *Printer) newline() {
	p.buf.WriteByte('\n')
	p.column = 0
}

func (p *Printer) colorize(code, s string) string {
	if !p.color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// PrintState renders the goals remaining in ps the way a tactic-mode
// prover prints after a successful ProcessTactic call: the focused
// hole's local hypotheses, a separator, its goal type, the names of
// the other open holes, then the whole proof term (§4.3 "ProofState"
// tactic, §6).
func PrintState(ps *proofstate.ProofState) string {
	p := New()
	if len(ps.Holes) == 0 {
		p.write(p.colorize("32", "No more goals."))
		p.newline()
	} else {
		focus := ps.Holes[0]
		env, name, binder, found := proofstate.Goal(&focus, ps.PTerm)
		if found {
			p.printEnv(env)
			p.write(dashes(p.lineWidth))
			p.newline()
			p.write(fmt.Sprintf("%s : %s", p.colorize("33", string(name)), binder.Ty().String()))
			p.newline()
		}
		if len(ps.Holes) > 1 {
			p.newline()
			p.write(fmt.Sprintf("%d more goal(s): %s", len(ps.Holes)-1, joinNames(ps.Holes[1:])))
			p.newline()
		}
	}
	p.newline()
	p.write(p.colorize("36", "term: "))
	p.printTerm(ps.PTerm, ps.Holes)
	p.newline()
	return p.buf.String()
}

func (p *Printer) printEnv(env proofterm.Env) {
	// Innermost-first storage, outermost-first display.
	for i := len(env) - 1; i >= 0; i-- {
		e := env[i]
		p.write(fmt.Sprintf("  %s : %s", e.Name, e.Binder.Ty().String()))
		p.newline()
	}
}

func joinNames(names []proofterm.Name) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return joinStrings(out, ", ")
}

func joinStrings(ss []string, sep string) string {
	if len(ss) == 0 {
		return ""
	}
	out := ss[0]
	for _, s := range ss[1:] {
		out += sep + s
	}
	return out
}

func dashes(n int) string {
	if n <= 0 {
		n = 40
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

// printTerm walks t, highlighting every name still present in holes.
func (p *Printer) printTerm(t proofterm.Term, holes []proofterm.Name) {
	isHoleName := make(map[proofterm.Name]bool, len(holes))
	for _, h := range holes {
		isHoleName[h] = true
	}
	p.printTermIndent(t, isHoleName)
}

func (p *Printer) printTermIndent(t proofterm.Term, isHoleName map[proofterm.Name]bool) {
	switch n := t.(type) {
	case proofterm.Ref:
		if isHoleName[n.Name] {
			p.write(p.colorize("35", string(n.Name)))
			return
		}
		p.write(string(n.Name))
	case proofterm.App:
		p.printTermIndent(n.Fun, isHoleName)
		p.write(" ")
		p.printAtom(n.Arg, isHoleName)
	case proofterm.Bind:
		p.write("(")
		if isHoleName[n.Name] {
			p.write(p.colorize("35", string(n.Name)))
		} else {
			p.write(string(n.Name))
		}
		p.write(" : ")
		p.write(n.Binder.String())
		p.write(" =>")
		p.newline()
		p.indent++
		p.writeIndent()
		p.printTermIndent(n.Scope, isHoleName)
		p.indent--
		p.write(")")
	default:
		p.write(t.String())
	}
}

func (p *Printer) printAtom(t proofterm.Term, isHoleName map[proofterm.Name]bool) {
	switch t.(type) {
	case proofterm.App, proofterm.Bind:
		p.write("(")
		p.printTermIndent(t, isHoleName)
		p.write(")")
	default:
		p.printTermIndent(t, isHoleName)
	}
}

// SortedHoleNames returns holes sorted lexically, for listing deferred
// obligations where queue order is not meaningful to a human (§4.3
// Defer).
func SortedHoleNames(holes []proofterm.Name) []proofterm.Name {
	out := append([]proofterm.Name{}, holes...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
