package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-doc-search/internal/distribute"
	searcherrors "github.com/gcbaptista/go-doc-search/internal/errors"
	"github.com/gcbaptista/go-doc-search/model"
)

func testDocs(names ...string) []model.Document {
	docs := make([]model.Document, len(names))
	for i, name := range names {
		docs[i] = model.NewDocument("/corpus/" + name)
	}
	return docs
}

func entry(docs []model.Document, i int, outcome model.MatchOutcome) Entry {
	return Entry{Index: i, Name: docs[i].Name, Path: docs[i].Path, Outcome: outcome}
}

func TestBuilder_BuildOrdersByName(t *testing.T) {
	docs := testDocs("zeta.txt", "alpha.txt", "mid.txt")
	b := NewBuilder()
	require.NoError(t, b.Insert(entry(docs, 0, model.FoundOutcome(0))))
	require.NoError(t, b.Insert(entry(docs, 1, model.NotFoundOutcome())))
	require.NoError(t, b.Insert(entry(docs, 2, model.UnreadableOutcome(errors.New("boom")))))

	table, err := b.Build(AllIndices(3))
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha.txt", "mid.txt", "zeta.txt"}, table.Names())
	assert.Equal(t, []Match{
		{Name: "alpha.txt", Found: false},
		{Name: "mid.txt", Found: false},
		{Name: "zeta.txt", Found: true},
	}, table.Matches())
	assert.True(t, table.AnyFound())
	assert.Equal(t, 1, table.FoundCount())
	assert.Equal(t, 1, table.UnreadableCount())
	assert.Equal(t, []string{"zeta.txt"}, table.FoundNames())
	require.Len(t, table.Unreadable(), 1)
	assert.Equal(t, "mid.txt", table.Unreadable()[0].Name)

	got, ok := table.Lookup("mid.txt")
	require.True(t, ok)
	assert.Equal(t, 2, got.Index)
	_, ok = table.Lookup("nope.txt")
	assert.False(t, ok)
}

func TestBuilder_InsertOnce(t *testing.T) {
	docs := testDocs("a.txt")
	b := NewBuilder()
	require.NoError(t, b.Insert(entry(docs, 0, model.NotFoundOutcome())))

	err := b.Insert(entry(docs, 0, model.FoundOutcome(0)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, searcherrors.ErrPartitionMismatch))

	// The first write wins
	assert.False(t, b.AnyFound())
	assert.Equal(t, 1, b.Len())
}

func TestBuilder_BuildDetectsMissingAndUnexpected(t *testing.T) {
	docs := testDocs("a.txt", "b.txt", "c.txt")
	b := NewBuilder()
	require.NoError(t, b.Insert(entry(docs, 0, model.NotFoundOutcome())))
	require.NoError(t, b.Insert(entry(docs, 2, model.NotFoundOutcome())))

	_, err := b.Build([]int{0, 1})
	require.Error(t, err)

	var mismatch *searcherrors.PartitionMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []int{1}, mismatch.Missing)
	assert.Equal(t, []int{2}, mismatch.Unexpected)
}

func TestBuilder_Merge(t *testing.T) {
	docs := testDocs("a.txt", "b.txt", "c.txt", "d.txt")
	global := NewBuilder()
	require.NoError(t, global.Merge([]Entry{entry(docs, 0, model.NotFoundOutcome()), entry(docs, 2, model.NotFoundOutcome())}))
	require.NoError(t, global.Merge([]Entry{entry(docs, 1, model.FoundOutcome(1)), entry(docs, 3, model.NotFoundOutcome())}))

	table, err := global.Build(AllIndices(4))
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())
	assert.True(t, table.AnyFound())

	err = global.Merge([]Entry{entry(docs, 3, model.NotFoundOutcome())})
	assert.True(t, errors.Is(err, searcherrors.ErrPartitionMismatch))
}

func TestNewResultTable_DuplicateNames(t *testing.T) {
	_, err := NewResultTable([]Entry{{Index: 0, Name: "same.txt"}, {Index: 1, Name: "same.txt"}})
	assert.True(t, errors.Is(err, searcherrors.ErrInvalidInput))
}

func TestCollect_FromPool(t *testing.T) {
	docs := testDocs("d0.txt", "d1.txt", "d2.txt", "d3.txt", "d4.txt", "d5.txt")
	indices, err := distribute.Assign(len(docs), 2, 1)
	require.NoError(t, err)

	results := distribute.NewPool(3).Run(context.Background(), indices, func(i int) model.MatchOutcome {
		if i == 3 {
			return model.FoundOutcome(0)
		}
		return model.NotFoundOutcome()
	})

	seen := 0
	builder, err := Collect(results, docs, func(distribute.Result) { seen++ })
	require.NoError(t, err)
	assert.Equal(t, 3, seen)

	table, err := builder.Build(indices)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1.txt", "d3.txt", "d5.txt"}, table.Names())
	assert.True(t, builder.AnyFound())
}

func TestCollect_RejectsDuplicatesAndStrangers(t *testing.T) {
	docs := testDocs("a.txt", "b.txt")

	results := make(chan distribute.Result, 3)
	results <- distribute.Result{Index: 0, Outcome: model.NotFoundOutcome()}
	results <- distribute.Result{Index: 0, Outcome: model.NotFoundOutcome()}
	results <- distribute.Result{Index: 1, Outcome: model.NotFoundOutcome()}
	close(results)

	_, err := Collect(results, docs, nil)
	assert.True(t, errors.Is(err, searcherrors.ErrPartitionMismatch))

	strangers := make(chan distribute.Result, 1)
	strangers <- distribute.Result{Index: 9}
	close(strangers)
	_, err = Collect(strangers, docs, nil)
	assert.True(t, errors.Is(err, searcherrors.ErrPartitionMismatch))
}

func TestReduce(t *testing.T) {
	assert.False(t, Reduce())
	assert.False(t, Reduce(false, false))
	assert.True(t, Reduce(false, true, false))

	// Hierarchical reduction equals the flat one
	docs := testDocs("a.txt", "b.txt", "c.txt", "d.txt")
	outcomes := []model.MatchOutcome{model.NotFoundOutcome(), model.NotFoundOutcome(), model.FoundOutcome(0), model.NotFoundOutcome()}

	flat := NewBuilder()
	perWorker := []*Builder{NewBuilder(), NewBuilder()}
	for i, o := range outcomes {
		require.NoError(t, flat.Insert(entry(docs, i, o)))
		require.NoError(t, perWorker[i%2].Insert(entry(docs, i, o)))
	}
	assert.Equal(t, flat.AnyFound(), Reduce(perWorker[0].AnyFound(), perWorker[1].AnyFound()))
}
