package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/gradebook/internal/grades"
)

// pruneCmd removes gradeless students from the persisted snapshot.
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove students without grades from the snapshot",
	Long: `Remove every student that has no grades from the persisted snapshot
and save the result.

Do not run this against a snapshot that a running server owns: the server
overwrites the snapshot on shutdown.

Example:
  gradebook prune -c config.yaml
  gradebook prune -c config.yaml --dry-run`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	pruneCmd.Flags().Bool("dry-run", false, "report what would be removed without saving")
	_ = pruneCmd.MarkFlagRequired("config")
}

func runPrune(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	st, backend, err := loadOffline(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer backend.Close()

	removed := grades.NewEngine(st).RemoveGradelessStudents()

	out := cmd.OutOrStdout()
	if len(removed) == 0 {
		fmt.Fprintln(out, "No students without grades.")
		return nil
	}

	if dryRun {
		fmt.Fprintf(out, "Would remove %d students without grades: %v\n", len(removed), removed)
		fmt.Fprintln(out, "Dry run: snapshot not saved.")
		return nil
	}

	fmt.Fprintf(out, "Removed %d students without grades: %v\n", len(removed), removed)

	if err := backend.Save(cmd.Context(), st.All()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
