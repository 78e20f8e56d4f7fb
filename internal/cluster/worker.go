package cluster

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gcbaptista/go-doc-search/internal/aggregate"
	"github.com/gcbaptista/go-doc-search/internal/distribute"
	"github.com/gcbaptista/go-doc-search/internal/matcher"
	"github.com/gcbaptista/go-doc-search/model"
)

// Worker searches the documents assigned to its rank with a pool of concurrent tasks.
// It only learns about the run through the broadcast and only reports through its transport.
type Worker struct {
	Rank   int
	Opener matcher.Opener // nil uses the filesystem
	Logger *log.Logger    // nil uses the standard logger
}

// Serve receives the broadcast for this rank, processes the assignment and reports back.
// A failure to process is still reported so the coordinator never waits on a worker that gave up.
func (w *Worker) Serve(ctx context.Context, transport Transport) error {
	frame, err := transport.Receive(ctx, w.Rank)
	if err != nil {
		return fmt.Errorf("worker %d: receive broadcast: %w", w.Rank, err)
	}

	var broadcast Broadcast
	if err := Decode(frame, &broadcast); err != nil {
		return w.reportFailure(ctx, transport, "", err)
	}

	report, err := w.Process(ctx, broadcast)
	if err != nil {
		return w.reportFailure(ctx, transport, broadcast.RunID, err)
	}

	out, err := Encode(report)
	if err != nil {
		return w.reportFailure(ctx, transport, broadcast.RunID, err)
	}
	if err := transport.Report(ctx, out); err != nil {
		return fmt.Errorf("worker %d: send report: %w", w.Rank, err)
	}
	return nil
}

// Process searches the worker's share of the documents: { i : i mod Workers == Rank }.
func (w *Worker) Process(ctx context.Context, broadcast Broadcast) (Report, error) {
	start := time.Now()
	logger := w.logger()

	indices, err := distribute.Assign(len(broadcast.Documents), broadcast.Workers, w.Rank)
	if err != nil {
		return Report{}, err
	}

	opts := []matcher.Option{matcher.WithThreshold(broadcast.Threshold)}
	if w.Opener != nil {
		opts = append(opts, matcher.WithOpener(w.Opener))
	}
	engine, err := matcher.NewEngine(broadcast.Pattern, opts...)
	if err != nil {
		return Report{}, err
	}

	docs := broadcast.Documents
	pool := distribute.NewPool(broadcast.Tasks)
	results := pool.Run(ctx, indices, func(i int) model.MatchOutcome {
		return engine.Search(docs[i])
	})

	builder, err := aggregate.Collect(results, docs, func(r distribute.Result) {
		switch {
		case r.Outcome.Found():
			logger.Printf("Rank %d Task %d found in %s", w.Rank, r.Task, docs[r.Index].Path)
		case r.Outcome.Unreadable():
			logger.Printf("Warning: Rank %d Task %d could not read %s: %s", w.Rank, r.Task, docs[r.Index].Path, r.Outcome.Error)
		}
	})
	if err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("worker %d interrupted after %d of %d documents: %w", w.Rank, builder.Len(), len(indices), err)
	}

	// Every assigned document must be accounted for before reporting
	if _, err := builder.Build(indices); err != nil {
		return Report{}, err
	}

	return Report{
		RunID:    broadcast.RunID,
		Rank:     w.Rank,
		Entries:  builder.Entries(),
		AnyFound: builder.AnyFound(),
		Elapsed:  time.Since(start),
	}, nil
}

func (w *Worker) reportFailure(ctx context.Context, transport Transport, runID string, cause error) error {
	failure := Report{RunID: runID, Rank: w.Rank, Err: cause.Error()}
	frame, err := Encode(failure)
	if err == nil {
		err = transport.Report(ctx, frame)
	}
	if err != nil {
		return fmt.Errorf("worker %d: %v (report failed: %w)", w.Rank, cause, err)
	}
	return fmt.Errorf("worker %d: %w", w.Rank, cause)
}

func (w *Worker) logger() *log.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return log.Default()
}
