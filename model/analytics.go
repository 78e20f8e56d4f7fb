package model

import "time"

// PopularPattern is a pattern and how often it was searched
type PopularPattern struct {
	Pattern     string `json:"pattern"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution buckets run durations
type ResponseTimeDistribution struct {
	Bucket0To10ms     int     `json:"bucket_0_10ms"`
	Bucket10To100ms   int     `json:"bucket_10_100ms"`
	Bucket100To1000ms int     `json:"bucket_100_1000ms"`
	Bucket1sPlus      int     `json:"bucket_1s_plus"`
	Percentage0To10   float64 `json:"percentage_0_10"`
	Percentage10To100 float64 `json:"percentage_10_100"`
	Percentage100To1s float64 `json:"percentage_100_1000"`
	Percentage1sPlus  float64 `json:"percentage_1s_plus"`
}

// SearchModeStats counts searches per matching mode
type SearchModeStats struct {
	Exact       int `json:"exact"`
	Approximate int `json:"approximate"`
}

// StrategyStats summarizes one strategy across benchmarks
type StrategyStats struct {
	Name             string        `json:"name"`
	Runs             int           `json:"runs"`
	AvgElapsed       time.Duration `json:"avg_elapsed_ns"`
	AvgSpeedup       float64       `json:"avg_speedup"`
	AvgAgreement     float64       `json:"avg_agreement_percent"`
	InconsistentRuns int           `json:"inconsistent_runs"`
}

// AnalyticsDashboard summarizes the recorded searches and benchmarks
type AnalyticsDashboard struct {
	TotalSearches         int     `json:"total_searches"`
	Searches24h           int     `json:"searches_24h"`
	SearchesChangePercent float64 `json:"searches_change_percent"` // last 24h against the 24h before
	AvgResponseTime       int64   `json:"avg_response_time"`       // in milliseconds
	MatchRate             float64 `json:"match_rate"`              // share of searches with at least one match
	DocumentsSearched     int     `json:"documents_searched"`
	UnreadableDocuments   int     `json:"unreadable_documents"`

	TotalBenchmarks          int                      `json:"total_benchmarks"`
	InconsistentBenchmarks   int                      `json:"inconsistent_benchmarks"`
	Strategies               []StrategyStats          `json:"strategies"`
	PopularPatterns          []PopularPattern         `json:"popular_patterns"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	SearchModes              SearchModeStats          `json:"search_modes"`
	GeneratedAt              time.Time                `json:"generated_at"`
}
