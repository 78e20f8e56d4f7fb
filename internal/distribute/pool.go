package distribute

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gcbaptista/go-doc-search/model"
)

// Result is the outcome of one document, returned by the task that processed it.
type Result struct {
	Index   int // position in the run's document list
	Task    int // task that processed the document
	Outcome model.MatchOutcome
}

// SearchFunc matches the document at index. It must be safe for concurrent calls.
type SearchFunc func(index int) model.MatchOutcome

// Pool runs a fixed number of tasks that pull documents dynamically:
// each task claims the next unclaimed position, so a slow document only
// delays the task that drew it.
type Pool struct {
	tasks int
}

// NewPool creates a pool with the given number of tasks (at least one)
func NewPool(tasks int) *Pool {
	if tasks < 1 {
		tasks = 1
	}
	return &Pool{tasks: tasks}
}

// Tasks returns the number of concurrent tasks
func (p *Pool) Tasks() int {
	return p.tasks
}

// Run starts the tasks over indices and returns the channel their results arrive on.
// Outcomes are sent as values; nothing is written to shared state. The channel is
// closed once every task has returned. Cancelling ctx stops tasks from claiming
// further documents, so fewer results than indices may arrive.
func (p *Pool) Run(ctx context.Context, indices []int, fn SearchFunc) <-chan Result {
	tasks := p.tasks
	if tasks > len(indices) && len(indices) > 0 {
		tasks = len(indices)
	}

	results := make(chan Result, tasks*2)
	var next atomic.Int64
	var wg sync.WaitGroup

	for task := 0; task < tasks; task++ {
		wg.Add(1)
		go func(task int) {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				claimed := int(next.Add(1) - 1)
				if claimed >= len(indices) {
					return
				}

				index := indices[claimed]
				select {
				case results <- Result{Index: index, Task: task, Outcome: fn(index)}:
				case <-ctx.Done():
					return
				}
			}
		}(task)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
