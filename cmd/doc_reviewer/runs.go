package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/doc-reviewer/internal/db"
)

var runsCommand = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored review runs",
}

var runsListCommand = &cobra.Command{
	Use:   "list",
	Short: "List stored review runs, newest first",
	RunE:  runRunsListCmd,
}

var runsShowCommand = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a stored review run and its result report",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShowCmd,
}

var runsDeleteCommand = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored review run and its reports",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDeleteCmd,
}

var (
	runsDatabaseURL string
	runsScenario    string
	runsStatus      string
	runsLimit       int
)

func init() {
	runsCommand.PersistentFlags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	runsListCommand.Flags().StringVarP(&runsScenario, "scenario", "s", "", "Filter by review scenario")
	runsListCommand.Flags().StringVar(&runsStatus, "status", "", "Filter by run status: running, completed, or failed")
	runsListCommand.Flags().IntVar(&runsLimit, "limit", 0, "Maximum number of runs to list")

	runsCommand.AddCommand(runsListCommand)
	runsCommand.AddCommand(runsShowCommand)
	runsCommand.AddCommand(runsDeleteCommand)
	rootCmd.AddCommand(runsCommand)
}

// connectRunsDB resolves the database URL and opens the connection
func connectRunsDB(ctx context.Context) (*db.DB, error) {
	databaseURL := runsDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	return db.Connect(ctx, databaseURL)
}

func runRunsListCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	database, err := connectRunsDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(ctx, db.RunFilters{
		Scenario: runsScenario,
		Status:   runsStatus,
		Limit:    runsLimit,
	})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No stored review runs.")
		return nil
	}

	for _, run := range runs {
		score := "-"
		if run.OverallScore != nil {
			score = fmt.Sprintf("%.1f", *run.OverallScore)
		}
		fmt.Printf("%s  %-9s %-8s score=%-6s chunks=%-4d %s\n",
			run.ID, run.Status, run.Scenario, score, run.ChunkCount,
			run.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runRunsShowCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id: %w", err)
	}

	database, err := connectRunsDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}

	fmt.Printf("Run:       %s\n", run.ID)
	fmt.Printf("Scenario:  %s\n", run.Scenario)
	fmt.Printf("Status:    %s\n", run.Status)
	if run.Source != nil {
		fmt.Printf("Source:    %s\n", *run.Source)
	}
	if run.Strategy != nil {
		fmt.Printf("Strategy:  %s\n", *run.Strategy)
	}
	fmt.Printf("Text:      %d characters in %d chunks\n", run.TextLength, run.ChunkCount)
	if run.OverallScore != nil {
		fmt.Printf("Score:     %.1f\n", *run.OverallScore)
	}
	fmt.Printf("Created:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.CompletedAt != nil {
		fmt.Printf("Completed: %s\n", run.CompletedAt.Format("2006-01-02 15:04:05"))
	}

	report, err := database.GetReport(ctx, runID, db.ReportKindResult)
	if err != nil {
		return err
	}
	if report != nil {
		fmt.Printf("\n%s\n", report)
	}
	return nil
}

func runRunsDeleteCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id: %w", err)
	}

	database, err := connectRunsDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.DeleteRun(ctx, runID); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", runID)
	return nil
}
