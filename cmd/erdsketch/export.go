package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tordrt/erdsketch/internal/snapshot"
)

var exportFlags struct {
	format     string
	outputFile string
	outputDir  string
}

var exportCmd = &cobra.Command{
	Use:   "export SNAPSHOT",
	Short: "Render a snapshot file in another format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFlags.outputDir != "" && exportFlags.outputFile != "" {
			return fmt.Errorf("cannot use both --output-dir and --output flags")
		}

		c, err := snapshot.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		return writeDiagram(c, exportFlags.format, exportFlags.outputFile, exportFlags.outputDir, cmd.OutOrStdout())
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.format, "format", "f", "markdown", "Output format: text, markdown, mermaid, yaml or json")
	f.StringVarP(&exportFlags.outputFile, "output", "o", "", "Output file (default: stdout)")
	f.StringVarP(&exportFlags.outputDir, "output-dir", "d", "", "Output directory for multi-file output")
}
