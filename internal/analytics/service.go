// Package analytics derives dashboard figures from the recorded search and benchmark history.
package analytics

import (
	"sort"
	"time"

	"github.com/gcbaptista/go-doc-search/internal/bench"
	"github.com/gcbaptista/go-doc-search/internal/history"
	"github.com/gcbaptista/go-doc-search/model"
)

const maxPopularPatterns = 10

// Source is where finished runs are read from
type Source interface {
	ListSearches() ([]history.SearchRecord, error)
	ListBenchmarks() ([]*bench.Report, error)
}

// Service computes analytics over a history source
type Service struct {
	source Source
	now    func() time.Time
}

// NewService creates a new analytics service
func NewService(source Source) *Service {
	return &Service{source: source, now: time.Now}
}

// GetDashboardData returns the dashboard computed from the current history
func (s *Service) GetDashboardData() (model.AnalyticsDashboard, error) {
	searches, err := s.source.ListSearches()
	if err != nil {
		return model.AnalyticsDashboard{}, err
	}
	benchmarks, err := s.source.ListBenchmarks()
	if err != nil {
		return model.AnalyticsDashboard{}, err
	}

	now := s.now()
	last24h := filterByTime(searches, now.Add(-24*time.Hour), now)
	previous24h := filterByTime(searches, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	dashboard := model.AnalyticsDashboard{
		TotalSearches:            len(searches),
		Searches24h:              len(last24h),
		SearchesChangePercent:    changePercent(len(last24h), len(previous24h)),
		AvgResponseTime:          avgResponseTime(searches),
		TotalBenchmarks:          len(benchmarks),
		Strategies:               strategyStats(benchmarks),
		PopularPatterns:          popularPatterns(searches),
		ResponseTimeDistribution: responseTimeDistribution(searches),
		GeneratedAt:              now,
	}

	matched := 0
	for _, record := range searches {
		if record.AnyFound {
			matched++
		}
		dashboard.DocumentsSearched += record.Documents
		dashboard.UnreadableDocuments += len(record.Unreadable)
		switch record.Mode {
		case model.ModeApproximate:
			dashboard.SearchModes.Approximate++
		default:
			dashboard.SearchModes.Exact++
		}
	}
	if len(searches) > 0 {
		dashboard.MatchRate = float64(matched) / float64(len(searches))
	}

	for _, report := range benchmarks {
		if !report.Consistent() {
			dashboard.InconsistentBenchmarks++
		}
	}

	return dashboard, nil
}

// filterByTime returns the records created in [start, end)
func filterByTime(records []history.SearchRecord, start, end time.Time) []history.SearchRecord {
	var filtered []history.SearchRecord
	for _, record := range records {
		if !record.CreatedAt.Before(start) && record.CreatedAt.Before(end) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func changePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// avgResponseTime returns the mean run duration in milliseconds
func avgResponseTime(records []history.SearchRecord) int64 {
	if len(records) == 0 {
		return 0
	}
	var total time.Duration
	for _, record := range records {
		total += record.Elapsed
	}
	return (total / time.Duration(len(records))).Milliseconds()
}

func popularPatterns(records []history.SearchRecord) []model.PopularPattern {
	counts := make(map[string]int)
	for _, record := range records {
		counts[record.Pattern]++
	}

	popular := make([]model.PopularPattern, 0, len(counts))
	for pattern, count := range counts {
		popular = append(popular, model.PopularPattern{Pattern: pattern, SearchCount: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Pattern < popular[j].Pattern
	})

	if len(popular) > maxPopularPatterns {
		popular = popular[:maxPopularPatterns]
	}
	return popular
}

func responseTimeDistribution(records []history.SearchRecord) model.ResponseTimeDistribution {
	var dist model.ResponseTimeDistribution
	for _, record := range records {
		switch {
		case record.Elapsed < 10*time.Millisecond:
			dist.Bucket0To10ms++
		case record.Elapsed < 100*time.Millisecond:
			dist.Bucket10To100ms++
		case record.Elapsed < time.Second:
			dist.Bucket100To1000ms++
		default:
			dist.Bucket1sPlus++
		}
	}

	if total := float64(len(records)); total > 0 {
		dist.Percentage0To10 = float64(dist.Bucket0To10ms) / total * 100
		dist.Percentage10To100 = float64(dist.Bucket10To100ms) / total * 100
		dist.Percentage100To1s = float64(dist.Bucket100To1000ms) / total * 100
		dist.Percentage1sPlus = float64(dist.Bucket1sPlus) / total * 100
	}
	return dist
}

// strategyStats averages every strategy over the benchmarks, in first-seen order
func strategyStats(reports []*bench.Report) []model.StrategyStats {
	type totals struct {
		runs         int
		elapsed      time.Duration
		speedup      float64
		agreement    float64
		inconsistent int
	}

	var order []string
	byName := make(map[string]*totals)
	for _, report := range reports {
		for _, s := range report.Strategies {
			t, ok := byName[s.Name]
			if !ok {
				t = &totals{}
				byName[s.Name] = t
				order = append(order, s.Name)
			}
			t.runs++
			t.elapsed += s.Elapsed
			t.speedup += s.Speedup
			if s.Accuracy != nil {
				t.agreement += s.Accuracy.AgreementPercent
				if !s.Accuracy.Consistent() {
					t.inconsistent++
				}
			}
		}
	}

	stats := make([]model.StrategyStats, 0, len(order))
	for _, name := range order {
		t := byName[name]
		stats = append(stats, model.StrategyStats{
			Name:             name,
			Runs:             t.runs,
			AvgElapsed:       t.elapsed / time.Duration(t.runs),
			AvgSpeedup:       t.speedup / float64(t.runs),
			AvgAgreement:     t.agreement / float64(t.runs),
			InconsistentRuns: t.inconsistent,
		})
	}
	return stats
}
