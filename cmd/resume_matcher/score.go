package main

import (
	"os"

	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one resume against one job description",
	Long:  "Vectorizes a structured resume and a structured job description and prints the score breakdown as JSON.",
	RunE:  runScore,
}

var (
	scoreResumePath string
	scoreJDPath     string
	scoreOutput     string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResumePath, "resume", "r", "", "Path to the structured resume JSON (required)")
	scoreCmd.Flags().StringVarP(&scoreJDPath, "jd", "j", "", "Path to the structured job description JSON (required)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Output file (default stdout)")

	if err := scoreCmd.MarkFlagRequired("resume"); err != nil {
		panic(err)
	}
	if err := scoreCmd.MarkFlagRequired("jd"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	resume, err := readResume(scoreResumePath)
	if err != nil {
		return err
	}
	jd, err := readJD(scoreJDPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := newEngine(ctx, settings, log)
	if err != nil {
		return err
	}
	defer e.Close()

	breakdown, features, err := e.ranker.ScoreRecords(ctx, resume, jd)
	if err != nil {
		return err
	}

	if settings.Verbose {
		p := observability.NewPrinter(os.Stderr)
		p.PrintScoreBreakdown(identifierFor(scoreResumePath), breakdown)
		log.Debug("resume resolved",
			zap.Float64("years_experience", features.YearsExperience),
			zap.String("degree_level", features.DegreeLevel))
	}

	return writeJSON(scoreOutput, breakdown)
}
