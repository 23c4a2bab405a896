package main

import (
	"os"

	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rankCmd = &cobra.Command{
	Use:   "rank [resume files or directories...]",
	Short: "Rank a pool of resumes against a job description",
	Long: `Scores every resume against the job description and prints the ranked list as JSON.
Directories are expanded to their *.json files. Candidates that cannot be scored
are listed under "failed" and do not abort the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRank,
}

var (
	rankJDPath string
	rankOutput string
	rankTop    int
)

func init() {
	rankCmd.Flags().StringVarP(&rankJDPath, "jd", "j", "", "Path to the structured job description JSON (required)")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Output file (default stdout)")
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "Keep only the top N ranked resumes (0 keeps all)")

	if err := rankCmd.MarkFlagRequired("jd"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(rankCmd)
}

// candidatePool is the decodable part of a resume batch. Positions maps each
// candidate back to its file's place in the batch; Rejected lists the files
// that could not be read.
type candidatePool struct {
	Candidates []types.Candidate
	Positions  []int
	Rejected   []types.FailedCandidate
}

func loadCandidates(paths []string) (*candidatePool, error) {
	files, err := collectJSONFiles(paths)
	if err != nil {
		return nil, err
	}

	pool := &candidatePool{Candidates: make([]types.Candidate, 0, len(files))}
	for i, f := range files {
		id := identifierFor(f)
		resume, err := readResume(f)
		if err != nil {
			log.Warn("excluding candidate from ranking", zap.String("identifier", id), zap.Error(err))
			pool.Rejected = append(pool.Rejected, types.FailedCandidate{Identifier: id, Index: i, Error: err.Error()})
			continue
		}
		pool.Candidates = append(pool.Candidates, types.Candidate{Identifier: id, Resume: *resume})
		pool.Positions = append(pool.Positions, i)
	}
	return pool, nil
}

func runRank(cmd *cobra.Command, args []string) error {
	jd, err := readJD(rankJDPath)
	if err != nil {
		return err
	}
	pool, err := loadCandidates(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := newEngine(ctx, settings, log)
	if err != nil {
		return err
	}
	defer e.Close()

	list, err := e.ranker.Rank(ctx, pool.Candidates, jd)
	if err != nil {
		return err
	}
	ranking.MergeRejected(list, pool.Positions, pool.Rejected)
	if rankTop > 0 && len(list.Ranked) > rankTop {
		list.Ranked = list.Ranked[:rankTop]
	}

	if settings.Verbose {
		observability.NewPrinter(os.Stderr).PrintRankedList(list)
	}

	return writeJSON(rankOutput, list)
}
