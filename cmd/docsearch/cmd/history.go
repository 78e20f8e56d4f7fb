package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-doc-search/internal/bench"
	"github.com/gcbaptista/go-doc-search/internal/history"
)

var historyPath string

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded searches and benchmarks",
	Long:  "Without arguments lists every recorded benchmark and search, newest first. With a run ID prints that benchmark in full.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyPath, "history", "docsearch.db", "History database")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(historyPath)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		report, err := store.GetBenchmark(args[0])
		if err != nil {
			return err
		}
		printBenchmark(out, report)
		return nil
	}

	benchmarks, err := store.ListBenchmarks()
	if err != nil {
		return err
	}
	searches, err := store.ListSearches()
	if err != nil {
		return err
	}
	printHistory(out, benchmarks, searches)
	return nil
}

func printHistory(w io.Writer, benchmarks []*bench.Report, searches []history.SearchRecord) {
	if len(benchmarks) == 0 && len(searches) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tRUN ID\tCREATED\tPATTERN\tMODE\tDOCUMENTS\tRESULT")
	for _, r := range benchmarks {
		result := "consistent"
		if !r.Consistent() {
			result = "inconsistent"
		}
		fmt.Fprintf(tw, "benchmark\t%s\t%s\t%q\t%s\t%d\t%s\n",
			r.RunID, r.CreatedAt.Format(time.RFC3339), r.Pattern, r.Mode, r.Documents, result)
	}
	for _, s := range searches {
		result := "no match"
		if s.AnyFound {
			result = "found"
		}
		fmt.Fprintf(tw, "search\t%s\t%s\t%q\t%s\t%d\t%s\n",
			s.RunID, s.CreatedAt.Format(time.RFC3339), s.Pattern, s.Mode, s.Documents, result)
	}
	_ = tw.Flush()
}
