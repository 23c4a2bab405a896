package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Retrieve and rank stored resumes for a job description",
	Long: `Pre-filters stored resumes by cosine similarity between the job description's
skill vector and each resume's skill vector, then scores the survivors with their
stored features. Requires DATABASE_URL.`,
	RunE: runCandidates,
}

var (
	candidatesJDPath        string
	candidatesLimit         int
	candidatesMinSimilarity float64
	candidatesOutput        string
)

func init() {
	candidatesCmd.Flags().StringVarP(&candidatesJDPath, "jd", "j", "", "Path to the structured job description JSON (required)")
	candidatesCmd.Flags().IntVar(&candidatesLimit, "limit", 0, "Maximum candidates retrieved (default from config)")
	candidatesCmd.Flags().Float64Var(&candidatesMinSimilarity, "min-similarity", -2, "Minimum skill similarity (default from config)")
	candidatesCmd.Flags().StringVarP(&candidatesOutput, "out", "o", "", "Output file (default stdout)")

	if err := candidatesCmd.MarkFlagRequired("jd"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(candidatesCmd)
}

func runCandidates(cmd *cobra.Command, _ []string) error {
	jd, err := readJD(candidatesJDPath)
	if err != nil {
		return err
	}

	limit := settings.CandidateLimit
	if candidatesLimit > 0 {
		limit = candidatesLimit
	}
	minSimilarity := settings.MinSimilarity
	if cmd.Flags().Changed("min-similarity") {
		if candidatesMinSimilarity < -1 || candidatesMinSimilarity > 1 {
			return fmt.Errorf("--min-similarity must be within [-1, 1]")
		}
		minSimilarity = candidatesMinSimilarity
	}

	ctx := cmd.Context()
	e, err := newEngine(ctx, settings, log)
	if err != nil {
		return err
	}
	defer e.Close()

	jdFeatures, err := e.vectorizer.VectorizeJD(ctx, jd)
	if err != nil {
		return err
	}

	dim := e.vectorizer.Dimension()
	store, err := connectStore(ctx, dim)
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.FindCandidates(ctx, jdFeatures.SkillVec, limit, minSimilarity)
	if err != nil {
		return err
	}

	list := &types.RankedList{}
	pool := make([]types.CandidateFeatures, len(hits))
	for i, hit := range hits {
		features, err := store.LoadFeatures(ctx, hit, dim)
		if err != nil {
			log.Warn("excluding candidate from ranking", zap.String("identifier", hit.Identifier), zap.Error(err))
			list.Failed = append(list.Failed, types.FailedCandidate{Identifier: hit.Identifier, Index: i, Error: err.Error()})
			continue
		}
		pool[i] = types.CandidateFeatures{Identifier: hit.Identifier, Features: features}
	}
	list.Ranked = e.ranker.RankFeatures(pool, jdFeatures)

	if settings.Verbose {
		p := observability.NewPrinter(os.Stderr)
		p.PrintJDFeatures(jdFeatures)
		p.PrintCandidates(hits)
		p.PrintRankedList(list)
	}

	return writeJSON(candidatesOutput, list)
}
