package main

import (
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/myblueprint/internal/domain/risk"
	"github.com/bryanwahyu/myblueprint/internal/formatter"
)

func newKBCmd() *cobra.Command {
	var (
		kbPath       string
		outputFormat string
	)
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "List the knowledge base markers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := risk.Load(kbPath)
			if err != nil {
				return err
			}
			return formatter.DisplayKnowledgeBase(cmd.OutOrStdout(), kb, outputFormat)
		},
	}
	cmd.Flags().StringVar(&kbPath, "kb", "", "Knowledge base YAML file (default: built-in)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	return cmd
}
