package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/jonathan/doc-reviewer/internal/config"
	"github.com/jonathan/doc-reviewer/internal/ingest"
	"github.com/jonathan/doc-reviewer/internal/observability"
	"github.com/jonathan/doc-reviewer/internal/splitter"
)

var segmentCommand = &cobra.Command{
	Use:   "segment",
	Short: "Segment a document without reviewing it",
	Long:  "Runs only the segmentation phase and prints the resulting chunk boundaries. Useful for tuning the strategy and size bounds before spending gateway calls.",
	RunE:  runSegmentCmd,
}

var (
	segmentConfigPath string
	segmentFile       string
	segmentStrategy   string
	segmentMaxSize    int
	segmentMinSize    int
	segmentOverlap    int
)

func init() {
	segmentCommand.Flags().StringVar(&segmentConfigPath, "config", "", "Path to config.yaml file")
	segmentCommand.Flags().StringVarP(&segmentFile, "file", "f", "", "Path to the document to segment")
	segmentCommand.Flags().StringVar(&segmentStrategy, "strategy", "", "Segmentation strategy: chapter, paragraph, fixed_size, or semantic")
	segmentCommand.Flags().IntVar(&segmentMaxSize, "max-chunk-size", 0, "Maximum chunk size in characters")
	segmentCommand.Flags().IntVar(&segmentMinSize, "min-chunk-size", 0, "Minimum chunk size in characters")
	segmentCommand.Flags().IntVar(&segmentOverlap, "overlap", 0, "Overlap between adjacent chunks in characters")

	_ = segmentCommand.MarkFlagRequired("file")

	rootCmd.AddCommand(segmentCommand)
}

func runSegmentCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if segmentConfigPath != "" {
		loaded, err := config.Load(segmentConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("strategy") {
		cfg.TextProcessing.Strategy = segmentStrategy
	}
	if cmd.Flags().Changed("max-chunk-size") {
		cfg.TextProcessing.MaxChunkSize = segmentMaxSize
	}
	if cmd.Flags().Changed("min-chunk-size") {
		cfg.TextProcessing.MinChunkSize = &segmentMinSize
	}
	if cmd.Flags().Changed("overlap") {
		cfg.TextProcessing.Overlap = &segmentOverlap
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	doc, err := ingest.FromFile(segmentFile)
	if err != nil {
		return fmt.Errorf("document ingestion failed: %w", err)
	}

	splitCfg, err := cfg.SplitterConfig()
	if err != nil {
		return err
	}
	chunks, err := splitter.Segment(doc.Text, splitCfg)
	if err != nil {
		return fmt.Errorf("segmentation failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintChunkStatistics(splitter.Statistics(chunks, splitCfg.Strategy))

	for _, chunk := range chunks {
		label := chunk.Chapter
		if label == "" {
			label = "-"
		}
		fmt.Printf("chunk %d: %d chars [%d:%d] %s\n",
			chunk.ID, utf8.RuneCountInString(chunk.Content), chunk.Start, chunk.End, label)
	}
	return nil
}
