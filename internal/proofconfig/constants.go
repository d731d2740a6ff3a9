package proofconfig

// Version is the current prooflab engine version.
// Set at build time via -ldflags.
var Version = "0.1.0"

const ScriptFileExt = ".prf"

// ScriptFileExtensions are all recognized tactic-script extensions.
var ScriptFileExtensions = []string{".prf", ".tac"}

// TrimScriptExt removes any recognized tactic-script extension from a
// filename. Returns the original string if no extension matches.
func TrimScriptExt(name string) string {
	for _, ext := range ScriptFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasScriptExt returns true if the path ends with any recognized
// tactic-script extension.
func HasScriptExt(path string) bool {
	for _, ext := range ScriptFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode indicates the driver is running a script non-interactively
// and should exit non-zero on the first failing tactic rather than
// report it and go on with the next step. Set once at startup in
// cmd/prooflab/main.go.
var IsTestMode = false

// IsTraceMode makes the driver print the proof state to stderr after
// every successful step, not only once the proof is done. Set in
// cmd/prooflab/main.go.
var IsTraceMode = false

// ElimPrefix is a naming prefix for eliminators. Nothing in this
// repository consults it: Context.LookupEliminator returns whatever
// names the context registered for a family.
const ElimPrefix = "elim_"

// Canonical tactic-script keywords: the script's theorem field
// (internal/prooflang) and the qed/undo step names (cmd/prooflab).
const (
	KeywordTheorem = "theorem"
	KeywordQED     = "qed"
	KeywordUndo    = "undo"
)
