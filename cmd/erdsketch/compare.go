package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tordrt/erdsketch"
	"github.com/tordrt/erdsketch/internal/compare"
)

var errDiagramsDiffer = errors.New("diagrams differ")

var compareCmd = &cobra.Command{
	Use:   "compare EXPECTED ACTUAL",
	Short: "Compare two snapshot files structurally",
	Long: `Compare reads two snapshot files and reports where they differ. Ids and
positions never appear in snapshots, so two diagrams drawn in different
sessions compare equal when their tables, attributes and relationships match
in order. The command exits non-zero when the diagrams differ.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := erdsketch.CompareSnapshotFiles(args[0], args[1])
		if err != nil {
			return err
		}
		if err := compare.Render(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if !result.Equal {
			return errDiagramsDiffer
		}
		return nil
	},
}
