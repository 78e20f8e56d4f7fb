package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-doc-search/internal/cluster"
	"github.com/gcbaptista/go-doc-search/internal/history"
	"github.com/gcbaptista/go-doc-search/internal/runner"
	"github.com/gcbaptista/go-doc-search/model"
)

var (
	searchFlags   runFlags
	searchTimeout time.Duration
)

var searchCmd = &cobra.Command{
	Use:   "search <dir> <pattern>",
	Short: "Search the documents of a folder for a pattern",
	Long:  "Converts the folder's documents to text, splits them across workers and tasks, and prints every document containing the pattern.",
	Args:  cobra.ExactArgs(2),
	RunE:  runSearch,
}

func init() {
	searchFlags.register(searchCmd)
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 0, "Give up on workers that have not reported after this long (0 waits forever)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	mode, err := model.ParseMode(searchFlags.mode)
	if err != nil {
		return err
	}
	pattern := model.Pattern{Text: args[1], Mode: mode}

	ctx, stop := signalContext()
	defer stop()

	logger := log.New(cmd.OutOrStdout(), "", 0)
	docs, cleanup, err := prepareDocuments(ctx, args[0], searchFlags.workDir, log.New(os.Stderr, "", log.LstdFlags))
	defer cleanup()
	if err != nil {
		return err
	}

	r := runner.NewRunner(runner.WithLogger(logger), runner.WithGatherTimeout(searchTimeout))
	strategy := runner.Strategy{Name: "search", Workers: searchFlags.workers, Tasks: searchFlags.tasks}
	result, err := r.Run(ctx, docs, pattern, strategy)
	if err != nil {
		return err
	}

	printSearch(cmd.OutOrStdout(), result)

	return withHistory(searchFlags.history, func(store *history.Store) error {
		return store.SaveSearch(history.NewSearchRecord(result))
	})
}

// printSearch writes the summary of a finished run
func printSearch(w io.Writer, result *cluster.RunResult) {
	for _, entry := range result.Table.Unreadable() {
		fmt.Fprintf(w, "Warning: could not read %s\n", entry.Name)
	}

	if !result.AnyFound {
		fmt.Fprintln(w, "No match found.")
		return
	}

	fmt.Fprintf(w, "Found in %d of %d documents (%s):\n", result.Table.FoundCount(), result.Table.Len(), result.Elapsed.Round(time.Microsecond))
	for _, name := range result.Table.FoundNames() {
		fmt.Fprintf(w, "  %s\n", name)
	}
}
