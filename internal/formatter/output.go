package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/myblueprint/internal/domain/genome"
	"github.com/bryanwahyu/myblueprint/internal/domain/report"
	"github.com/bryanwahyu/myblueprint/internal/domain/risk"
)

// Result is what the CLI prints for one analysed file.
type Result struct {
	File         string                `json:"file" yaml:"file"`
	Markers      int                   `json:"markers" yaml:"markers"`
	Live         bool                  `json:"live_verification" yaml:"live_verification"`
	HealthFlags  []report.HealthFlag   `json:"health_flags" yaml:"health_flags"`
	GenomeSample []genome.MarkerRecord `json:"genome_sample" yaml:"genome_sample"`
}

// KnowledgeBaseRow is one listed entry of the knowledge base.
type KnowledgeBaseRow struct {
	RSID         string `json:"rsid" yaml:"rsid"`
	Gene         string `json:"gene" yaml:"gene"`
	Variant      string `json:"variant" yaml:"variant"`
	Significance string `json:"significance" yaml:"significance"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`

	Genotypes map[string]string `json:"genotypes,omitempty" yaml:"genotypes,omitempty"`
}

// DisplayResults formats and displays the analysis results
func DisplayResults(w io.Writer, res *Result, format string) error {
	switch format {
	case "json":
		return displayJSON(w, res)
	case "yaml":
		return displayYAML(w, res)
	case "human", "":
		displayHuman(w, res)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (human, json, yaml)", format)
	}
}

// DisplayKnowledgeBase lists every curated marker in rsid order.
func DisplayKnowledgeBase(w io.Writer, kb *risk.KnowledgeBase, format string) error {
	rows := make([]KnowledgeBaseRow, 0, kb.Len())
	for _, id := range kb.RSIDs() {
		e, _ := kb.Lookup(id)
		rows = append(rows, KnowledgeBaseRow{
			RSID:         id,
			Gene:         e.Gene,
			Variant:      e.Variant,
			Significance: e.Significance,
			Description:  e.Description,
			Genotypes:    e.Genotypes,
		})
	}
	switch format {
	case "json":
		return displayJSON(w, rows)
	case "yaml":
		return displayYAML(w, rows)
	case "human", "":
		bold := color.New(color.Bold)
		for _, r := range rows {
			bold.Fprintf(w, "%-12s", r.RSID)
			fmt.Fprintf(w, " %-10s %s\n", r.Gene, r.Variant)
			fmt.Fprintf(w, "%12s %s\n", "", significanceColor(r.Significance).Sprint(r.Significance))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (human, json, yaml)", format)
	}
}

func displayJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func displayYAML(w io.Writer, v any) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(output))
	return nil
}

func displayHuman(w io.Writer, res *Result) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)

	fmt.Fprintln(w)
	cyan.Fprintf(w, "GENOME: %s\n", res.File)
	fmt.Fprintf(w, "   %d markers parsed", res.Markers)
	if res.Live {
		fmt.Fprint(w, ", live registry verification on")
	}
	fmt.Fprint(w, "\n\n")

	if len(res.HealthFlags) == 0 {
		green.Fprintln(w, "No notable markers found in the checked set.")
	} else {
		yellow.Fprintf(w, "HEALTH FLAGS (%d):\n", len(res.HealthFlags))
		for i, f := range res.HealthFlags {
			fmt.Fprintf(w, "   %d. %s\n", i+1, f.Variant)
			fmt.Fprintf(w, "      Significance: %s\n", significanceColor(f.Significance).Sprint(f.Significance))
			if f.Reading != "" {
				fmt.Fprintf(w, "      Reading: %s\n", f.Reading)
			}
			fmt.Fprintf(w, "      Source: %s\n", f.Source)
			fmt.Fprintf(w, "      %s\n", color.HiBlackString(f.Link))
		}
	}

	if len(res.GenomeSample) > 0 {
		fmt.Fprintln(w)
		cyan.Fprintf(w, "SAMPLE (first %d rows):\n", len(res.GenomeSample))
		for _, m := range res.GenomeSample {
			fmt.Fprintf(w, "   %-12s %-3s %-10s %s\n", m.RSID, m.Chromosome, m.Position, m.Genotype)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintln(w, color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func significanceColor(significance string) *color.Color {
	s := strings.ToLower(significance)
	switch {
	case strings.Contains(s, "benign"):
		return color.New(color.FgGreen)
	case strings.Contains(s, "pathogenic"), strings.Contains(s, "risk"):
		return color.New(color.FgRed, color.Bold)
	case strings.Contains(s, "uncertain"), strings.Contains(s, "unknown"), strings.Contains(s, "conflicting"):
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}
