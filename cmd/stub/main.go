package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/adapters/excel"
	"newsdesk/domain/prediction"
	"newsdesk/internal"
	"newsdesk/internal/stub"
	"newsdesk/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	var (
		port        int
		seedFile    string
		synthetic   int
		noModel     bool
		logRequests bool
	)

	rootCmd := &cobra.Command{
		Use:   "newsdesk-stub",
		Short: "Stand-in classifier backend for local development",
		Long: `Serves /api/predict, /api/history, /api/model-info and /api/health with
the same payloads as the real classifier, scoring articles with a keyword
heuristic.

Example: newsdesk-stub --port 5000 --synthetic 40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := internal.NewDefaultLogger()
			defer logger.Sync()

			seed, err := loadSeed(seedFile, synthetic, logger)
			if err != nil {
				return err
			}

			opts := []stub.Option{stub.WithLogger(logger), stub.WithHistory(seed), stub.WithModelLoaded(!noModel)}
			if logRequests {
				opts = append(opts, stub.WithRequestLogging())
			}
			return serve(cmd.Context(), port, stub.New(opts...), logger)
		},
	}

	rootCmd.Flags().IntVar(&port, "port", 5000, "Port to listen on")
	rootCmd.Flags().StringVar(&seedFile, "seed-file", "", "XLSX or CSV history to preload (e.g. a dashboard export)")
	rootCmd.Flags().IntVar(&synthetic, "synthetic", 0, "Number of synthetic records to preload")
	rootCmd.Flags().BoolVar(&noModel, "no-model", false, "Behave as if no model is loaded")
	rootCmd.Flags().BoolVar(&logRequests, "log-requests", true, "Log every request")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSeed(seedFile string, synthetic int, logger *internal.Logger) ([]prediction.Record, error) {
	var seed []prediction.Record
	if seedFile != "" {
		records, err := excel.NewDataReader(seedFile, logger).ReadRecords()
		if err != nil {
			return nil, fmt.Errorf("load seed file: %w", err)
		}
		seed = append(seed, records...)
	}
	if synthetic > 0 {
		cfg := testkit.DefaultHistoryConfig()
		cfg.Count = synthetic
		cfg.Seed = time.Now().UnixNano()
		seed = append(seed, testkit.NewHistoryGenerator(cfg).Generate()...)
	}
	if len(seed) > 0 {
		logger.Info("Preloading %d records", len(seed))
	}
	return seed, nil
}

func serve(ctx context.Context, port int, handler http.Handler, logger *internal.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Stub classifier listening on http://localhost:%d", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("Shutting down")
	return srv.Shutdown(shutdownCtx)
}
