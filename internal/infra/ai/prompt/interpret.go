package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/myblueprint/internal/domain/report"
)

// SystemPrompt sets the tone and limits of the interpretation.
func SystemPrompt() string {
	return `You are a genetic counsellor explaining consumer genotype results to a lay person.

Rules:
- Plain text only, no markdown headings, no code fences.
- Explain each flagged marker in one or two sentences.
- Say clearly when a significance is benign, uncertain, or unknown.
- Never diagnose. Recommend talking to a clinician or genetic counsellor for anything pathogenic or risk-related.
- If there are no flags, say that no notable markers were found in the checked set.
- Keep the whole answer under 300 words.`
}

// UserPrompt lists the health flags of one report.
func UserPrompt(flags []report.HealthFlag) string {
	if len(flags) == 0 {
		return "The analysis produced no health flags."
	}
	var b strings.Builder
	b.WriteString("Summarise these findings from a raw genotype file:\n")
	for i, f := range flags {
		fmt.Fprintf(&b, "%d. %s | significance: %s", i+1, f.Variant, f.Significance)
		if f.Reading != "" {
			fmt.Fprintf(&b, " | reading: %s", f.Reading)
		}
		fmt.Fprintf(&b, " | source: %s | %s\n", f.Source, f.Link)
	}
	return b.String()
}
