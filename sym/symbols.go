// Package sym defines canonical symbols for cleaner operations and truth markers.
// These symbols are stable across CLI output, logs, and documentation.
package sym

// Truth markers — how a fact or result classification is rendered.
const (
	True    = "✓" // resolved correct / classified true
	False   = "✗" // resolved incorrect / classified false
	Unknown = "?" // not yet determined
)

// Operation glyphs.
const (
	AM      = "≡" // am — configuration and system settings
	Resolve = "⊢" // resolve — an expert fixes a fact's truth value
	Reach   = "⟶" // reach — greedy target-reaching pass
	Score   = "∿" // score — external misclassification score
	Crucial = "★" // crucial — decisive for a result's classification
	Risky   = "⚠" // risky — resolving others first risks precision
	DB      = "⊔" // database/storage layer
)

// entry binds a glyph to its command and description.
type entry struct {
	glyph       string
	command     string
	description string
}

// registry is the canonical list of operation glyphs.
var registry = []entry{
	{AM, "am", "Configuration — System settings and state"},
	{Resolve, "resolve", "Resolve — Fix a fact as correct or incorrect"},
	{Reach, "reach", "Reach — Resolve facts until a result's score reaches a target"},
	{Score, "score", "Score — Worst-case misclassification probability"},
	{Crucial, "crucial", "Crucial — Flipping this fact changes or unsettles the result"},
	{Risky, "risky", "Risky — Resolving other facts first may degrade precision"},
}

// SymbolToCommand maps glyph strings to their text command equivalents.
var SymbolToCommand = map[string]string{}

// CommandToSymbol maps text commands to their canonical glyph strings.
var CommandToSymbol = map[string]string{}

// CommandDescriptions provides human-readable explanations per command.
var CommandDescriptions = map[string]string{}

func init() {
	for _, e := range registry {
		SymbolToCommand[e.glyph] = e.command
		CommandToSymbol[e.command] = e.glyph
		CommandDescriptions[e.command] = e.description
	}
}

// TruthGlyph renders a tri-state truth given as (value, known).
func TruthGlyph(value, known bool) string {
	switch {
	case !known:
		return Unknown
	case value:
		return True
	default:
		return False
	}
}
