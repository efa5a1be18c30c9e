package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/doc-reviewer/internal/config"
	"github.com/jonathan/doc-reviewer/internal/ingest"
	"github.com/jonathan/doc-reviewer/internal/llm"
	"github.com/jonathan/doc-reviewer/internal/points"
	"github.com/jonathan/doc-reviewer/internal/review"
	"github.com/jonathan/doc-reviewer/internal/schemas"
)

var reviewCommand = &cobra.Command{
	Use:   "review",
	Short: "Run a full document review end-to-end",
	Long: `Orchestrates the entire review: ingestion -> segmentation -> concurrent chunk analysis + consistency checking -> aggregation.

Configuration can be loaded from a YAML file using --config. Command-line arguments override config file values.`,
	RunE: runReviewCmd,
}

var (
	reviewConfigPath  string
	reviewFile        string
	reviewURL         string
	reviewScenario    string
	reviewStrategy    string
	reviewConcurrency int
	reviewContext     string
	reviewOutput      string
	reviewAPIKey      string
	reviewDatabaseURL string
	reviewUseBrowser  bool
	reviewVerbose     bool
)

func init() {
	// Config file flag (processed first)
	reviewCommand.Flags().StringVar(&reviewConfigPath, "config", "", "Path to config.yaml file (values can be overridden by other flags)")

	reviewCommand.Flags().StringVarP(&reviewFile, "file", "f", "", "Path to the document to review (mutually exclusive with --url)")
	reviewCommand.Flags().StringVar(&reviewURL, "url", "", "URL to fetch the document from (mutually exclusive with --file)")
	reviewCommand.Flags().StringVarP(&reviewScenario, "scenario", "s", "", "Review scenario: general, contract, media, or academic")
	reviewCommand.Flags().StringVar(&reviewStrategy, "strategy", "", "Segmentation strategy: chapter, paragraph, fixed_size, or semantic")
	reviewCommand.Flags().IntVar(&reviewConcurrency, "concurrency", 0, "Maximum concurrent chunk analyses")
	reviewCommand.Flags().StringVar(&reviewContext, "context", "", "External context passed to every chunk analysis")
	reviewCommand.Flags().StringVarP(&reviewOutput, "output", "o", "", "Path to write the result artifact (.json or .yaml)")
	reviewCommand.Flags().BoolVar(&reviewUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	reviewCommand.Flags().BoolVarP(&reviewVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	reviewCommand.Flags().StringVar(&reviewAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run persistence
	reviewCommand.Flags().StringVar(&reviewDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(reviewCommand)
}

// loadReviewConfig loads the config file (or defaults) and applies the
// explicitly set CLI flags on top
func loadReviewConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if reviewConfigPath != "" {
		loaded, err := config.Load(reviewConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if reviewVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", reviewConfigPath)
		}
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("scenario") {
		cfg.Review.Scenario = reviewScenario
	}
	if cmd.Flags().Changed("strategy") {
		cfg.TextProcessing.Strategy = reviewStrategy
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Review.Concurrency = reviewConcurrency
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDocument ingests the document from the file or URL flag
func loadDocument(ctx context.Context) (*ingest.Document, error) {
	if reviewURL != "" {
		fmt.Printf("Ingesting document from URL: %s...\n", reviewURL)
		return ingest.FromURL(ctx, reviewURL, ingest.FetchOptions{
			UseBrowser: reviewUseBrowser,
			Verbose:    reviewVerbose,
		})
	}
	fmt.Printf("Ingesting document from file: %s...\n", reviewFile)
	return ingest.FromFile(reviewFile)
}

func runReviewCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if reviewFile == "" && reviewURL == "" {
		return fmt.Errorf("either --file or --url must be provided")
	}
	if reviewFile != "" && reviewURL != "" {
		return fmt.Errorf("--file and --url are mutually exclusive; provide only one")
	}

	cfg, err := loadReviewConfig(cmd)
	if err != nil {
		return err
	}

	apiKey := reviewAPIKey
	if apiKey == "" {
		apiKey = cfg.ResolveAPIKey()
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	databaseURL := reviewDatabaseURL
	if databaseURL == "" {
		databaseURL = cfg.Database.URL
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	doc, err := loadDocument(ctx)
	if err != nil {
		return fmt.Errorf("document ingestion failed: %w", err)
	}
	fmt.Printf("Ingested %d characters (%s)\n", doc.Len(), doc.Format)

	manager := points.Default()
	if cfg.ReviewPointsFile != "" {
		manager, err = points.LoadFile(cfg.ReviewPointsFile)
		if err != nil {
			return fmt.Errorf("failed to load review points: %w", err)
		}
	}

	client, err := llm.NewClient(ctx, cfg.GatewayConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create gateway client: %w", err)
	}
	defer func() { _ = client.Close() }()

	result, err := review.Run(ctx, client, doc.Text, review.RunOptions{
		Config:      cfg,
		Points:      manager,
		Source:      doc.Source,
		Context:     reviewContext,
		Verbose:     reviewVerbose,
		DatabaseURL: databaseURL,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nOverall score: %.1f (%d issues across %d chunks)\n",
		result.OverallScore, result.TotalIssues, result.Metadata.ChunkCount)
	fmt.Printf("%s\n", result.Summary)

	if reviewOutput != "" {
		if err := review.WriteArtifact(result, reviewOutput); err != nil {
			return err
		}
		if data, err := json.Marshal(result); err == nil {
			if err := schemas.ValidateReviewResult(data); err != nil {
				fmt.Printf("Warning: result artifact does not match schema: %v\n", err)
			}
		}
		fmt.Printf("Result written to: %s\n", reviewOutput)
	}
	return nil
}
