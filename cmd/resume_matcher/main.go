// Package main provides the resume_matcher CLI: scoring, ranking, ingestion and the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_matcher",
	Short: "Resume / job description matching and scoring engine",
	Long: `resume_matcher scores structured resumes against a structured job description using
embedding similarity, experience years and education level, ranks candidate pools, and
stores vectorized resumes in PostgreSQL (pgvector) for nearest-neighbour retrieval.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&rootFlags.weightsPath, "weights", "", "Path to the weight configuration (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.provider, "provider", "", "Embedding provider: gemini or openai")
	rootCmd.PersistentFlags().StringVar(&rootFlags.model, "model", "", "Embedding model name")
	rootCmd.PersistentFlags().StringVar(&rootFlags.llmModel, "llm-model", "", "Gemini model for the LLM years-of-experience resolver")
	rootCmd.PersistentFlags().IntVar(&rootFlags.workers, "workers", 0, "Concurrent candidates while ranking or ingesting")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.useLLM, "use-llm", false, "Resolve years of experience and degree with the LLM")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Print formatted summaries and debug logs")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.logJSON, "log-json", false, "Emit logs as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
