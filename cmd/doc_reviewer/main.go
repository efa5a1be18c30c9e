// Package main provides the entry point for the document review CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "doc_reviewer",
	Short: "Long-document review agent",
	Long:  "doc_reviewer segments long documents into chunks, reviews every chunk concurrently against scenario review points, checks cross-chunk consistency, and aggregates everything into a single scored report.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
