// Package history keeps benchmark reports and search summaries in an embedded bbolt database.
// Values are JSON documents keyed by run ID; every write is one transaction.
package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/gcbaptista/go-doc-search/internal/aggregate"
	"github.com/gcbaptista/go-doc-search/internal/bench"
	"github.com/gcbaptista/go-doc-search/internal/cluster"
	"github.com/gcbaptista/go-doc-search/internal/errors"
	"github.com/gcbaptista/go-doc-search/model"
)

var (
	bucketBenchmarks = []byte("benchmarks")
	bucketSearches   = []byte("searches")
)

// SearchRecord summarizes one search run
type SearchRecord struct {
	RunID      string            `json:"run_id"`
	Pattern    string            `json:"pattern"`
	Mode       model.Mode        `json:"mode"`
	Workers    int               `json:"workers"`
	Tasks      int               `json:"tasks_per_worker"`
	Documents  int               `json:"documents"`
	Matches    []aggregate.Match `json:"matches"`
	Unreadable []string          `json:"unreadable,omitempty"`
	AnyFound   bool              `json:"any_found"`
	Elapsed    time.Duration     `json:"elapsed"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewSearchRecord summarizes a finished run
func NewSearchRecord(result *cluster.RunResult) SearchRecord {
	var unreadable []string
	for _, e := range result.Table.Unreadable() {
		unreadable = append(unreadable, e.Name)
	}
	return SearchRecord{
		RunID:      result.RunID,
		Pattern:    result.Pattern.Text,
		Mode:       result.Pattern.Mode,
		Workers:    result.Workers,
		Tasks:      result.Tasks,
		Documents:  result.Table.Len(),
		Matches:    result.Table.Matches(),
		Unreadable: unreadable,
		AnyFound:   result.AnyFound,
		Elapsed:    result.Elapsed,
		CreatedAt:  time.Now(),
	}
}

// Store is the history database
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketBenchmarks, bucketSearches} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBenchmark stores a benchmark report under its run ID
func (s *Store) SaveBenchmark(report *bench.Report) error {
	return s.put(bucketBenchmarks, report.RunID, report)
}

// GetBenchmark loads a benchmark report
func (s *Store) GetBenchmark(runID string) (*bench.Report, error) {
	var report bench.Report
	if err := s.get(bucketBenchmarks, runID, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListBenchmarks returns every stored report, newest first
func (s *Store) ListBenchmarks() ([]*bench.Report, error) {
	var reports []*bench.Report
	err := s.each(bucketBenchmarks, func(v []byte) error {
		var report bench.Report
		if err := json.Unmarshal(v, &report); err != nil {
			return err
		}
		reports = append(reports, &report)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

// SaveSearch stores a search summary under its run ID
func (s *Store) SaveSearch(record SearchRecord) error {
	return s.put(bucketSearches, record.RunID, record)
}

// GetSearch loads a search summary
func (s *Store) GetSearch(runID string) (*SearchRecord, error) {
	var record SearchRecord
	if err := s.get(bucketSearches, runID, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListSearches returns every stored search summary, newest first
func (s *Store) ListSearches() ([]SearchRecord, error) {
	var records []SearchRecord
	err := s.each(bucketSearches, func(v []byte) error {
		var record SearchRecord
		if err := json.Unmarshal(v, &record); err != nil {
			return err
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (s *Store) put(bucket []byte, key string, value interface{}) error {
	if key == "" {
		return errors.NewValidationError("run_id", "run ID cannot be empty")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", bucket, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *Store) get(bucket []byte, key string, into interface{}) error {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		// bbolt values are only valid inside the transaction
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if data == nil {
		return errors.NewRunNotFoundError(key)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("unmarshal %s record %s: %w", bucket, key, err)
	}
	return nil
}

func (s *Store) each(bucket []byte, fn func(v []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
			return fn(v)
		})
	})
}
