package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-doc-search/internal/bench"
	"github.com/gcbaptista/go-doc-search/internal/history"
	"github.com/gcbaptista/go-doc-search/internal/runner"
	"github.com/gcbaptista/go-doc-search/model"
)

var benchFlags runFlags

var benchCmd = &cobra.Command{
	Use:   "bench <dir> <pattern>",
	Short: "Time the sequential, threaded, distributed and hybrid strategies",
	Long:  "Runs the same search under every strategy, compares each result against the sequential baseline and prints timings and agreement.",
	Args:  cobra.ExactArgs(2),
	RunE:  runBench,
}

func init() {
	benchFlags.register(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	mode, err := model.ParseMode(benchFlags.mode)
	if err != nil {
		return err
	}
	pattern := model.Pattern{Text: args[1], Mode: mode}

	ctx, stop := signalContext()
	defer stop()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	docs, cleanup, err := prepareDocuments(ctx, args[0], benchFlags.workDir, logger)
	defer cleanup()
	if err != nil {
		return err
	}

	// Match lines of four runs would bury the table
	quiet := log.New(io.Discard, "", 0)
	harness := bench.NewHarness(runner.NewRunner(runner.WithLogger(quiet)), logger)
	harness.Progress = func(done, total int, strategy runner.Strategy) {
		logger.Printf("[%d/%d] %s done", done, total, strategy)
	}

	report, err := harness.Run(ctx, docs, pattern, benchFlags.workers, benchFlags.tasks)
	if err != nil {
		return err
	}

	printBenchmark(cmd.OutOrStdout(), report)

	return withHistory(benchFlags.history, func(store *history.Store) error {
		return store.SaveBenchmark(report)
	})
}

// printBenchmark writes one row per strategy
func printBenchmark(w io.Writer, report *bench.Report) {
	fmt.Fprintf(w, "Benchmark %s: pattern %q (%s), %d documents\n\n", report.RunID, report.Pattern, report.Mode, report.Documents)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tWORKERS\tTASKS\tELAPSED\tSPEEDUP\tFOUND\tACCURACY")
	for _, s := range report.Strategies {
		accuracy := "-"
		if s.Accuracy != nil {
			accuracy = fmt.Sprintf("%.2f%%", s.Accuracy.AgreementPercent)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%.2fx\t%d\t%s\n",
			s.Name, s.Workers, s.Tasks, s.Elapsed.Round(time.Microsecond), s.Speedup, s.Found, accuracy)
	}
	_ = tw.Flush()

	if !report.Consistent() {
		fmt.Fprintln(w, "\nWarning: strategies disagree with the sequential baseline")
		for _, s := range report.Strategies {
			if s.Accuracy == nil {
				continue
			}
			for _, d := range s.Accuracy.Discrepancies {
				fmt.Fprintf(w, "  %s: %s baseline=%t candidate=%t\n", s.Name, d.Name, d.Baseline, d.Candidate)
			}
		}
	}
}
