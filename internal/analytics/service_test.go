package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-doc-search/internal/accuracy"
	"github.com/gcbaptista/go-doc-search/internal/bench"
	"github.com/gcbaptista/go-doc-search/internal/history"
	"github.com/gcbaptista/go-doc-search/model"
)

// MockSource serves fixed history records
type MockSource struct {
	searches   []history.SearchRecord
	benchmarks []*bench.Report
	err        error
}

func (m *MockSource) ListSearches() ([]history.SearchRecord, error) { return m.searches, m.err }
func (m *MockSource) ListBenchmarks() ([]*bench.Report, error)      { return m.benchmarks, m.err }

func TestAnalyticsService_Dashboard(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	source := &MockSource{
		searches: []history.SearchRecord{
			{Pattern: "needle", Mode: model.ModeExact, Documents: 10, AnyFound: true, Elapsed: 5 * time.Millisecond, CreatedAt: now.Add(-time.Hour)},
			{Pattern: "needle", Mode: model.ModeExact, Documents: 10, AnyFound: false, Elapsed: 50 * time.Millisecond, CreatedAt: now.Add(-2 * time.Hour)},
			{Pattern: "quikc", Mode: model.ModeApproximate, Documents: 4, Unreadable: []string{"gone.txt"}, AnyFound: true, Elapsed: 2 * time.Second, CreatedAt: now.Add(-30 * time.Hour)},
		},
		benchmarks: []*bench.Report{
			{Strategies: []bench.StrategyResult{
				{Name: "sequential", Elapsed: 40 * time.Millisecond, Speedup: 1, Accuracy: &accuracy.Report{Total: 2, Agreeing: 2, AgreementPercent: 100}},
				{Name: "hybrid", Elapsed: 10 * time.Millisecond, Speedup: 4, Accuracy: &accuracy.Report{Total: 2, Agreeing: 2, AgreementPercent: 100}},
			}},
			{Strategies: []bench.StrategyResult{
				{Name: "sequential", Elapsed: 20 * time.Millisecond, Speedup: 1, Accuracy: &accuracy.Report{Total: 2, Agreeing: 2, AgreementPercent: 100}},
				{Name: "hybrid", Elapsed: 10 * time.Millisecond, Speedup: 2, Accuracy: &accuracy.Report{Total: 2, Agreeing: 1, AgreementPercent: 50}},
			}},
		},
	}

	service := NewService(source)
	service.now = func() time.Time { return now }

	dashboard, err := service.GetDashboardData()
	require.NoError(t, err)

	assert.Equal(t, 3, dashboard.TotalSearches)
	assert.Equal(t, 2, dashboard.Searches24h)
	assert.Equal(t, 100.0, dashboard.SearchesChangePercent)
	assert.Equal(t, int64(685), dashboard.AvgResponseTime)
	assert.InDelta(t, 2.0/3.0, dashboard.MatchRate, 1e-9)
	assert.Equal(t, 24, dashboard.DocumentsSearched)
	assert.Equal(t, 1, dashboard.UnreadableDocuments)
	assert.Equal(t, model.SearchModeStats{Exact: 2, Approximate: 1}, dashboard.SearchModes)

	assert.Equal(t, []model.PopularPattern{{Pattern: "needle", SearchCount: 2}, {Pattern: "quikc", SearchCount: 1}}, dashboard.PopularPatterns)
	assert.Equal(t, 1, dashboard.ResponseTimeDistribution.Bucket0To10ms)
	assert.Equal(t, 1, dashboard.ResponseTimeDistribution.Bucket10To100ms)
	assert.Equal(t, 1, dashboard.ResponseTimeDistribution.Bucket1sPlus)

	assert.Equal(t, 2, dashboard.TotalBenchmarks)
	assert.Equal(t, 1, dashboard.InconsistentBenchmarks)
	require.Len(t, dashboard.Strategies, 2)
	assert.Equal(t, "sequential", dashboard.Strategies[0].Name)
	assert.Equal(t, 30*time.Millisecond, dashboard.Strategies[0].AvgElapsed)
	hybrid := dashboard.Strategies[1]
	assert.Equal(t, 3.0, hybrid.AvgSpeedup)
	assert.Equal(t, 75.0, hybrid.AvgAgreement)
	assert.Equal(t, 1, hybrid.InconsistentRuns)
}

func TestAnalyticsService_EmptyHistory(t *testing.T) {
	dashboard, err := NewService(&MockSource{}).GetDashboardData()
	require.NoError(t, err)
	assert.Zero(t, dashboard.TotalSearches)
	assert.Zero(t, dashboard.MatchRate)
	assert.Empty(t, dashboard.Strategies)
	assert.Empty(t, dashboard.PopularPatterns)
}

func TestAnalyticsService_SourceError(t *testing.T) {
	_, err := NewService(&MockSource{err: errors.New("closed")}).GetDashboardData()
	assert.Error(t, err)
}
