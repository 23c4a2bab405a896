package main

import (
	"fmt"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the matching engine:
  GET  /health      health check
  POST /score       score one resume against one job description
  POST /rank        rank a pool of resumes
  POST /candidates  retrieve and rank stored resumes (requires DATABASE_URL)`,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := newEngine(ctx, settings, log)
	if err != nil {
		return err
	}
	defer e.Close()

	port := settings.Port
	if servePort > 0 {
		port = servePort
	}

	// store stays a nil interface without a database so /candidates answers 503
	var store server.CandidateStore
	if settings.DatabaseURL != "" {
		pg, err := connectStore(ctx, e.vectorizer.Dimension())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pg.Close()
		store = pg
	} else {
		log.Warn("DATABASE_URL not set, /candidates is disabled")
	}

	srv := server.New(server.Config{
		Port:           port,
		CandidateLimit: settings.CandidateLimit,
		MinSimilarity:  settings.MinSimilarity,
		Weights:        e.weights,
	}, e.vectorizer, e.ranker, store, logger.Component(log, "server"))

	return srv.Start()
}
