package distribute

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searcherrors "github.com/gcbaptista/go-doc-search/internal/errors"
	"github.com/gcbaptista/go-doc-search/model"
)

func TestAssign_TenDocumentsThreeWorkers(t *testing.T) {
	want := [][]int{{0, 3, 6, 9}, {1, 4, 7}, {2, 5, 8}}
	for rank, expected := range want {
		got, err := Assign(10, 3, rank)
		require.NoError(t, err)
		assert.Equal(t, expected, got, "rank %d", rank)
	}
}

func TestAssign_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		workers int
		rank    int
	}{
		{"zero workers", 10, 0, 0},
		{"negative rank", 10, 2, -1},
		{"rank too large", 10, 2, 2},
		{"negative count", -1, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assign(tt.n, tt.workers, tt.rank)
			assert.True(t, errors.Is(err, searcherrors.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestPartition_Complete(t *testing.T) {
	for n := 0; n <= 40; n++ {
		for workers := 1; workers <= 9; workers++ {
			assignments, err := Partition(n, workers)
			require.NoError(t, err)
			require.Len(t, assignments, workers)
			require.NoError(t, VerifyPartition(n, assignments), "n=%d workers=%d", n, workers)

			total := 0
			for _, a := range assignments {
				total += len(a)
			}
			require.Equal(t, n, total)
		}
	}
}

func TestPartition_MoreWorkersThanDocuments(t *testing.T) {
	assignments, err := Partition(2, 5)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0}, {1}, {}, {}, {}}, assignments)
}

func TestVerifyPartition_Detects(t *testing.T) {
	err := VerifyPartition(4, [][]int{{0, 2}, {1, 2}, {7}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, searcherrors.ErrPartitionMismatch))

	var mismatch *searcherrors.PartitionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []int{2}, mismatch.Duplicated)
	assert.Equal(t, []int{3}, mismatch.Missing)
	assert.Equal(t, []int{7}, mismatch.Unexpected)
}

func TestPool_ProcessesEveryIndexOnce(t *testing.T) {
	indices := []int{0, 3, 6, 9, 12, 15, 18}
	var calls sync.Map

	pool := NewPool(4)
	results := pool.Run(context.Background(), indices, func(index int) model.MatchOutcome {
		if _, dup := calls.LoadOrStore(index, true); dup {
			t.Errorf("index %d processed twice", index)
		}
		if index%2 == 0 {
			return model.FoundOutcome(0)
		}
		return model.NotFoundOutcome()
	})

	var got []int
	tasks := make(map[int]bool)
	for r := range results {
		got = append(got, r.Index)
		tasks[r.Task] = true
		assert.Equal(t, r.Index%2 == 0, r.Outcome.Found())
	}
	sort.Ints(got)
	assert.Equal(t, indices, got)
	for task := range tasks {
		assert.True(t, task >= 0 && task < pool.Tasks())
	}
}

func TestPool_DynamicSchedulingBalancesSlowDocuments(t *testing.T) {
	indices := make([]int, 20)
	for i := range indices {
		indices[i] = i
	}

	// Document 0 is slow; the other task must drain the rest meanwhile
	perTask := make([]atomic.Int32, 2)
	results := NewPool(2).Run(context.Background(), indices, func(index int) model.MatchOutcome {
		if index == 0 {
			time.Sleep(100 * time.Millisecond)
		}
		return model.NotFoundOutcome()
	})

	for r := range results {
		perTask[r.Task].Add(1)
	}
	counts := []int32{perTask[0].Load(), perTask[1].Load()}
	sort.Slice(counts, func(i, j int) bool { return counts[i] < counts[j] })
	assert.Equal(t, int32(1), counts[0], "the task holding the slow document should process only it")
	assert.Equal(t, int32(19), counts[1])
}

func TestPool_SingleTaskAndEmptyInput(t *testing.T) {
	results := NewPool(0).Run(context.Background(), nil, func(int) model.MatchOutcome {
		t.Error("no document should be searched")
		return model.NotFoundOutcome()
	})
	for range results {
		t.Error("no result expected")
	}

	single := NewPool(1)
	assert.Equal(t, 1, single.Tasks())
	count := 0
	for r := range single.Run(context.Background(), []int{5, 6}, func(int) model.MatchOutcome { return model.NotFoundOutcome() }) {
		assert.Equal(t, 0, r.Task)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestPool_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	indices := make([]int, 1000)
	for i := range indices {
		indices[i] = i
	}

	var processed atomic.Int32
	results := NewPool(2).Run(ctx, indices, func(int) model.MatchOutcome {
		if processed.Add(1) == 5 {
			cancel()
		}
		return model.NotFoundOutcome()
	})

	received := 0
	for range results {
		received++
	}
	assert.Less(t, received, len(indices))
}
