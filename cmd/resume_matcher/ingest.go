package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/vectorize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [resume files or directories...]",
	Short: "Vectorize resumes and store them in the vector database",
	Long: `Vectorizes each resume and stores its aggregate, per-skill and per-sentence
vectors in PostgreSQL (pgvector). The identifier of a resume is its file name
without extension. Requires DATABASE_URL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var ingestSkipExisting bool

func init() {
	ingestCmd.Flags().BoolVar(&ingestSkipExisting, "skip-existing", true, "Leave resumes already stored under the same identifier untouched")

	rootCmd.AddCommand(ingestCmd)
}

// connectStore opens the vector store and prepares its schema for dimension
func connectStore(ctx context.Context, dimension int) (*db.DB, error) {
	if settings.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	store, err := db.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx, dimension); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func runIngest(cmd *cobra.Command, args []string) error {
	files, err := collectJSONFiles(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := newEngine(ctx, settings, log)
	if err != nil {
		return err
	}
	defer e.Close()

	store, err := connectStore(ctx, e.vectorizer.Dimension())
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := ingestFiles(ctx, e.vectorizer, store, files, settings.Workers)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Stored %d resumes, skipped %d, failed %d\n", report.Stored, report.Skipped, report.Failed)
	return nil
}

// resumeStore is the part of the vector store ingest writes through
type resumeStore interface {
	GetResumeByIdentifier(ctx context.Context, identifier string) (*db.StoredResume, error)
	StoreResume(ctx context.Context, in *db.ResumeInput, skipIfExists bool) (uuid.UUID, bool, error)
}

type ingestReport struct {
	Stored  int64
	Skipped int64
	Failed  int64
}

// ingestFiles ingests files on up to workers goroutines. A file that cannot
// be read, vectorized or stored is logged and counted; only cancellation
// stops the batch.
func ingestFiles(ctx context.Context, v *vectorize.Vectorizer, store resumeStore, files []string, workers int) (ingestReport, error) {
	var stored, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, f := range files {
		g.Go(func() error {
			id := identifierFor(f)
			ok, err := ingestFile(gctx, v, store, f)
			switch {
			case gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				failed.Add(1)
				log.Warn("resume not ingested", zap.String("identifier", id), zap.Error(err))
			case ok:
				stored.Add(1)
				log.Debug("resume stored", zap.String("identifier", id))
			default:
				skipped.Add(1)
				log.Debug("resume already stored", zap.String("identifier", id))
			}
			return nil
		})
	}

	report := func() ingestReport {
		return ingestReport{Stored: stored.Load(), Skipped: skipped.Load(), Failed: failed.Load()}
	}
	if err := g.Wait(); err != nil {
		return report(), fmt.Errorf("ingest cancelled: %w", err)
	}
	return report(), nil
}

// ingestFile vectorizes one resume file and stores it. The bool reports
// whether a row was written.
func ingestFile(ctx context.Context, v *vectorize.Vectorizer, store resumeStore, path string) (bool, error) {
	resume, err := readResume(path)
	if err != nil {
		return false, err
	}

	identifier := identifierFor(path)
	if ingestSkipExisting {
		existing, err := store.GetResumeByIdentifier(ctx, identifier)
		if err != nil {
			return false, err
		}
		if existing != nil {
			return false, nil
		}
	}

	features, err := v.VectorizeResume(ctx, resume)
	if err != nil {
		return false, err
	}

	_, ok, err := store.StoreResume(ctx, &db.ResumeInput{
		Identifier: identifier,
		Meta: db.ResumeMeta{
			Resume:          *resume,
			YearsExperience: features.YearsExperience,
			DegreeLevel:     features.DegreeLevel,
		},
		Features: features,
	}, ingestSkipExisting)
	return ok, err
}
