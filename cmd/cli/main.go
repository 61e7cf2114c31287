package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"newsdesk/adapters/classifier"
	"newsdesk/domain/prediction"
	"newsdesk/internal/analysis"
	"newsdesk/internal/config"
	"newsdesk/internal/submission"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// options shared by every subcommand
type options struct {
	backendURL string
	timeout    time.Duration
	asJSON     bool
}

func main() {
	_ = godotenv.Load()

	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "newsdesk-cli",
		Short: "Query the news classifier from the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.backendURL != "" {
				return nil
			}
			appConfig, err := config.Load()
			if err != nil {
				return err
			}
			opts.backendURL = appConfig.Backend.URL
			if !cmd.Flags().Changed("timeout") {
				opts.timeout = appConfig.Backend.Timeout
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.backendURL, "backend", "", "Classifier base URL (default from BACKEND_URL)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "Per-request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print raw JSON")

	rootCmd.AddCommand(
		newHealthCmd(opts),
		newPredictCmd(opts),
		newHistoryCmd(opts),
		newStatsCmd(opts),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) client() *classifier.Client {
	return classifier.NewClient(classifier.WithBaseURL(o.backendURL), classifier.WithTimeout(o.timeout))
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show backend health and model status",
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := opts.client().Health(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(health)
			}
			fmt.Printf("Status:            %s\n", health.Status)
			fmt.Printf("Model loaded:      %t\n", health.ModelLoaded)
			fmt.Printf("Tokenizer loaded:  %t\n", health.TokenizerLoaded)
			fmt.Printf("Total predictions: %d\n", health.TotalPredictions)
			return nil
		},
	}
}

func newPredictCmd(opts *options) *cobra.Command {
	var req prediction.PredictRequest

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify a headline and/or article text",
		Long: `Send an article to the classifier and print the verdict.

Example: newsdesk-cli predict --title "BREAKING: Aliens Found on Mars!"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Blank() {
				return fmt.Errorf("%s", submission.MsgBlankInput)
			}
			resp, err := opts.client().Predict(cmd.Context(), req)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(resp)
			}
			card := submission.NewResultCard(resp)
			if card == nil {
				return fmt.Errorf("backend returned no prediction")
			}
			fmt.Printf("%s %s\n", card.Icon, card.Label)
			fmt.Printf("Confidence: %s (%s)\n", card.ConfidencePercentage, card.ConfidenceLevel)
			if card.Message != "" {
				fmt.Println(card.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Headline")
	cmd.Flags().StringVar(&req.Text, "text", "", "Article body")
	return cmd
}

func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent predictions in backend order",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := opts.client().History(cmd.Context())
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(analysis.Head(records, limit))
			}

			table := submission.BuildHistoryTable(records, limit, time.Local)
			if table.Placeholder {
				fmt.Println("No predictions yet")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tRESULT\tCONFIDENCE\tTITLE")
			for _, row := range table.Rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Time, row.Result, row.ConfidencePercentage, row.Title)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nShowing %d of %d\n", len(table.Rows), table.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Rows to show")
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard aggregates for the current history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), opts)
		},
	}
}

func runStats(ctx context.Context, opts *options) error {
	records, err := opts.client().History(ctx)
	if err != nil {
		return err
	}
	view := analysis.BuildView(records, time.Now(), time.Local, 0)
	if opts.asJSON {
		return printJSON(view)
	}

	s := view.Stats
	fmt.Printf("Total: %d  Fake: %d  Real: %d  Suspicious: %d\n", s.Total, s.Fake, s.Real, s.Suspicious)
	fmt.Printf("Confidence mean %s, median %s, std dev %.3f\n",
		prediction.FormatPercent(s.MeanConfidence), prediction.FormatPercent(s.MedianConfidence), s.ConfidenceStdDev)

	fmt.Println("\nLast 7 days (fake / real / suspicious):")
	for i, label := range view.TimeSeries.Labels {
		fmt.Printf("  %-10s %3d %3d %3d\n", label, view.TimeSeries.Fake[i], view.TimeSeries.Real[i], view.TimeSeries.Suspicious[i])
	}
	if view.TimeSeries.Dropped > 0 {
		fmt.Printf("  (%d older records outside the window)\n", view.TimeSeries.Dropped)
	}

	fmt.Println("\nConfidence histogram:")
	for i, label := range view.Confidence.Labels {
		fmt.Printf("  %-8s %d\n", label, view.Confidence.Counts[i])
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
