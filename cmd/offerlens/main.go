// Package main provides the entry point for the offer enrichment CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "offerlens",
	Short: "Dictionary-driven enrichment for French job offers",
	Long:  "offerlens enriches collected job offers: it cleans the description text, detects technical and soft skills against a versioned dictionary, categorizes the role against reference profiles and extracts salary, experience, education, remote policy and contract types.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
