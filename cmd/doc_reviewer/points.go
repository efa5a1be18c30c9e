package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/doc-reviewer/internal/points"
)

var pointsCommand = &cobra.Command{
	Use:   "points",
	Short: "List the review points for a scenario",
	RunE:  runPointsCmd,
}

var (
	pointsFile     string
	pointsScenario string
)

func init() {
	pointsCommand.Flags().StringVar(&pointsFile, "points-file", "", "Path to a review points YAML file (defaults to the built-in set)")
	pointsCommand.Flags().StringVarP(&pointsScenario, "scenario", "s", "general", "Review scenario: general, contract, media, or academic")

	rootCmd.AddCommand(pointsCommand)
}

func runPointsCmd(_ *cobra.Command, _ []string) error {
	manager := points.Default()
	if pointsFile != "" {
		loaded, err := points.LoadFile(pointsFile)
		if err != nil {
			return fmt.Errorf("failed to load review points: %w", err)
		}
		manager = loaded
	}

	pts := manager.ForScenario(pointsScenario)
	if len(pts) == 0 {
		fmt.Printf("No review points for scenario %q\n", pointsScenario)
		return nil
	}

	fmt.Printf("Review points for scenario %q:\n\n", pointsScenario)
	for _, p := range pts {
		fmt.Printf("[%s/%s] %s\n", p.Priority, p.Scope, p.Name)
		fmt.Printf("    %s\n", p.Description)
		if len(p.RequiredItems) > 0 {
			fmt.Printf("    required items: %v\n", p.RequiredItems)
		}
	}

	if required := manager.RequiredChecks(pointsScenario); len(required) > 0 {
		fmt.Printf("\nAlways-on checks for this scenario: %s\n", strings.Join(required, ", "))
	}

	stats := manager.Stats()
	fmt.Printf("\n%d points loaded (%d enabled) across scenarios %v\n", stats.Total, stats.Enabled, stats.Scenarios)
	return nil
}
