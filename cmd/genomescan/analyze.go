package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/myblueprint/internal/application/analysis"
	"github.com/bryanwahyu/myblueprint/internal/domain/risk"
	"github.com/bryanwahyu/myblueprint/internal/formatter"
	"github.com/bryanwahyu/myblueprint/internal/infra/registry/clinvar"
	"github.com/bryanwahyu/myblueprint/internal/infra/upload"
	"github.com/bryanwahyu/myblueprint/internal/logging"
)

type analyzeOptions struct {
	live         bool
	workers      int
	candidates   int
	kbPath       string
	outputFormat string
	sample       int
	apiKey       string
	timeout      time.Duration
	maxMB        int64
	verbose      bool
}

func newAnalyzeCmd() *cobra.Command {
	o := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a raw genotype file",
		Long: `Parse FILE, match it against the knowledge base and print the health flags.

Examples:
  # Local knowledge base only
  genomescan analyze genome_John_Doe.txt

  # Also verify the top 5 matches against ClinVar
  genomescan analyze genome.zip --live

  # Machine-readable output with a custom knowledge base
  genomescan analyze genome.txt.gz --kb markers.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, o, args[0])
		},
	}

	cmd.Flags().BoolVar(&o.live, "live", false, "Verify top matches against NCBI ClinVar")
	cmd.Flags().IntVar(&o.workers, "workers", analysis.DefaultMaxWorkers, "Concurrent registry lookups")
	cmd.Flags().IntVar(&o.candidates, "candidates", analysis.DefaultCandidates, "How many local matches to verify live")
	cmd.Flags().StringVar(&o.kbPath, "kb", "", "Knowledge base YAML file (default: built-in)")
	cmd.Flags().StringVarP(&o.outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().IntVar(&o.sample, "sample", 10, "Rows of the genome sample to print (max 100)")
	cmd.Flags().StringVar(&o.apiKey, "api-key", os.Getenv("NCBI_API_KEY"), "NCBI API key")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 10*time.Second, "Per-request registry timeout")
	cmd.Flags().Int64Var(&o.maxMB, "max-mb", 256, "Maximum decompressed size in MB")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Log registry failures to stderr")

	return cmd
}

func runAnalyze(cmd *cobra.Command, o *analyzeOptions, path string) error {
	kb, err := risk.Load(o.kbPath)
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	level := "error"
	if o.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	body, err := upload.Open(filepath.Base(path), f, info.Size(), o.maxMB<<20)
	if err != nil {
		return err
	}
	defer body.Close()

	p := &analysis.Pipeline{
		KB:         kb,
		MaxWorkers: o.workers,
		Candidates: o.candidates,
		Logger:     logger,
	}
	if o.live {
		registry := clinvar.NewClient(clinvar.Options{
			APIKey:            o.apiKey,
			Tool:              "genomescan",
			Timeout:           o.timeout,
			RequestsPerSecond: clinvar.DefaultRate(o.apiKey),
		})
		defer registry.Close()
		p.Checker = analysis.NewVerifier(registry, logger)
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " Analyzing genome..."
	if o.live {
		s.Suffix = " Analyzing genome and checking ClinVar..."
	}
	s.Start()
	out, err := p.Analyze(cmd.Context(), body)
	s.Stop()
	if err != nil {
		return err
	}

	sample := out.Report.GenomeSample
	if o.sample >= 0 && o.sample < len(sample) {
		sample = sample[:o.sample]
	}
	return formatter.DisplayResults(cmd.OutOrStdout(), &formatter.Result{
		File:         filepath.Base(path),
		Markers:      out.Markers,
		Live:         o.live,
		HealthFlags:  out.Report.HealthFlags,
		GenomeSample: sample,
	}, o.outputFormat)
}

