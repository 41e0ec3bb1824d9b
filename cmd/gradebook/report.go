package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/gradebook/config"
	"github.com/jpalmerr/gradebook/internal/grades"
	"github.com/jpalmerr/gradebook/internal/persist"
	"github.com/jpalmerr/gradebook/internal/store"
)

// reportCmd prints a subject report from the persisted snapshot.
var reportCmd = &cobra.Command{
	Use:   "report <subject>",
	Short: "Print grade statistics and ranking for a subject",
	Long: `Print statistics and the ascending grade ranking for one subject,
read directly from the persisted snapshot. The server does not need to be
running; the snapshot reflects the state at its last save.

Statistics need at least two grades in the subject.

Example:
  gradebook report -c config.yaml math`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = reportCmd.MarkFlagRequired("config")
}

// loadOffline opens the configured backend and hydrates a fresh store.
// Callers must close the returned backend.
func loadOffline(ctx context.Context, cmd *cobra.Command) (*store.MemoryStore, persist.Snapshotter, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(slog.LevelWarn)
	backend, err := config.OpenSnapshotter(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open snapshot: %w", err)
	}

	students, err := backend.Load(ctx)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	st := store.NewMemoryStore()
	st.Replace(students)
	return st, backend, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	subject := args[0]

	st, backend, err := loadOffline(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer backend.Close()

	engine := grades.NewEngine(st)
	ranking := engine.StudentsBySubjectGrade(subject)
	if len(ranking) == 0 {
		return fmt.Errorf("no grades recorded for subject %q", subject)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subject: %s (%d grades)\n", subject, len(ranking))

	if stats, ok := engine.StatisticsFor(subject); ok {
		fmt.Fprintf(out, "  Average:            %.1f\n", stats.Average)
		fmt.Fprintf(out, "  Median:             %.1f\n", stats.Median)
		fmt.Fprintf(out, "  Standard deviation: %.1f\n", stats.StandardDeviation)
	} else {
		fmt.Fprintf(out, "  Statistics: not enough grades\n")
	}

	fmt.Fprintf(out, "Ranking (ascending):\n")
	for _, sg := range ranking {
		fmt.Fprintf(out, "  %5.1f  %s\n", sg.Grade, sg.Name)
	}
	return nil
}
