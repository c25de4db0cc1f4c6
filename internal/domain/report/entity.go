package report

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bryanwahyu/myblueprint/internal/domain/genome"
	"github.com/bryanwahyu/myblueprint/internal/domain/risk"
)

const (
	SourceLocal = "local knowledge base"
	SourceLive  = "external registry (live)"

	// SampleSize caps AnalysisReport.GenomeSample.
	SampleSize = 100

	linkBase = "https://www.ncbi.nlm.nih.gov/clinvar/?term="

	unknownTitle        = "Unknown Title"
	unknownSignificance = "Unknown"
)

// HealthFlag is one reported association between a user's marker and a finding.
type HealthFlag struct {
	Source       string `json:"source" yaml:"source"`
	Variant      string `json:"variant" yaml:"variant"`
	Significance string `json:"significance" yaml:"significance"`
	Link         string `json:"link" yaml:"link"`
	// Reading is the curated interpretation of this exact genotype, when
	// the knowledge base has one.
	Reading string `json:"reading,omitempty" yaml:"reading,omitempty"`
}

// AnalysisReport is the result of one full analysis.
type AnalysisReport struct {
	HealthFlags  []HealthFlag          `json:"health_flags" yaml:"health_flags"`
	GenomeSample []genome.MarkerRecord `json:"genome_sample" yaml:"genome_sample"`
}

// VariantSummary is the normalized registry record for one marker.
type VariantSummary struct {
	RSID         string `json:"rsid"`
	Title        string `json:"title"`
	Significance string `json:"significance"`
	Gene         string `json:"gene"`
	LastUpdated  string `json:"last_updated"`
}

// Link builds the public registry URL for rsid.
func Link(rsid string) string {
	return linkBase + url.QueryEscape(rsid)
}

// LocalFlag builds the flag for a knowledge base hit.
func LocalFlag(rsid, genotype string, e risk.Entry) HealthFlag {
	reading, _ := e.Reading(genotype)
	return HealthFlag{
		Source:       SourceLocal,
		Variant:      fmt.Sprintf("%s (Genotype: %s)", e.Variant, genotype),
		Significance: e.Significance,
		Link:         Link(rsid),
		Reading:      reading,
	}
}

// LiveFlag builds the flag for a registry hit.
func LiveFlag(rsid, genotype string, s VariantSummary) HealthFlag {
	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = unknownTitle
	}
	return HealthFlag{
		Source:       SourceLive,
		Variant:      fmt.Sprintf("%s (Genotype: %s)", title, genotype),
		Significance: NormalizeSignificance(s.Significance),
		Link:         Link(rsid),
	}
}

// NormalizeSignificance trims the registry's wording and defaults to "Unknown".
func NormalizeSignificance(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return unknownSignificance
	}
	return s
}
