package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-doc-search/internal/discovery"
	"github.com/gcbaptista/go-doc-search/internal/history"
	"github.com/gcbaptista/go-doc-search/model"
)

var rootCmd = &cobra.Command{
	Use:          "docsearch",
	Short:        "docsearch searches document folders in parallel",
	Long:         "Search .txt, .pdf, .docx and .html documents for a pattern, exactly or approximately, across isolated workers and concurrent tasks.",
	SilenceUsage: true,
}

// runFlags are shared by search and bench
type runFlags struct {
	mode    string
	workers int
	tasks   int
	workDir string
	history string
}

func (f *runFlags) register(c *cobra.Command) {
	flags := c.Flags()
	flags.StringVarP(&f.mode, "mode", "m", "exact", "Matching mode: exact (0) or approximate (1)")
	flags.IntVarP(&f.workers, "workers", "w", 1, "Number of isolated workers")
	flags.IntVarP(&f.tasks, "tasks", "t", runtime.NumCPU(), "Concurrent tasks per worker")
	flags.StringVar(&f.workDir, "work-dir", "", "Directory for converted documents (default: a temporary directory)")
	flags.StringVar(&f.history, "history", "", "Record the run in this history database")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// signalContext is cancelled on Ctrl-C
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// prepareDocuments converts srcDir into workDir and returns the run's document list.
// An empty workDir gets a temporary directory, removed by the returned cleanup.
func prepareDocuments(ctx context.Context, srcDir, workDir string, logger *log.Logger) ([]model.Document, func(), error) {
	cleanup := func() {}
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "docsearch-*")
		if err != nil {
			return nil, cleanup, err
		}
		workDir = tmp
		cleanup = func() { _ = os.RemoveAll(tmp) }
	}

	paths, err := discovery.NewPreparer(discovery.WithLogger(logger)).Prepare(ctx, srcDir, workDir)
	if err != nil {
		return nil, cleanup, err
	}
	docs, err := model.NewDocuments(paths)
	return docs, cleanup, err
}

// withHistory opens the history database at path, or does nothing when path is empty
func withHistory(path string, fn func(store *history.Store) error) error {
	if path == "" {
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
