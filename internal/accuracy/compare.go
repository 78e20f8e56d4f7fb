// Package accuracy checks that a concurrent strategy produced the same per-document outcomes as a baseline.
package accuracy

import (
	"fmt"

	"github.com/gcbaptista/go-doc-search/internal/aggregate"
	"github.com/gcbaptista/go-doc-search/internal/errors"
)

// MaxDiscrepancies caps the discrepancy list of a Report
const MaxDiscrepancies = 10

// Discrepancy is a document the two tables disagree on
type Discrepancy struct {
	Name      string `json:"name"`
	Baseline  bool   `json:"baseline_found"`
	Candidate bool   `json:"candidate_found"`
}

// Report summarizes a comparison
type Report struct {
	Total            int           `json:"total"`
	Agreeing         int           `json:"agreeing"`
	AgreementPercent float64       `json:"agreement_percent"`
	Discrepancies    []Discrepancy `json:"discrepancies,omitempty"` // the first MaxDiscrepancies, in name order
	Overflow         int           `json:"overflow"`                // discrepancies beyond the list
	BaselineFound    int           `json:"baseline_found"`
	CandidateFound   int           `json:"candidate_found"`
}

// Consistent reports whether every document agrees
func (r *Report) Consistent() bool {
	return r.Agreeing == r.Total
}

func (r *Report) String() string {
	return fmt.Sprintf("%.2f%% agreement (%d/%d), found %d vs %d", r.AgreementPercent, r.Agreeing, r.Total, r.BaselineFound, r.CandidateFound)
}

// Compare compares candidate against baseline on the found flag of every document.
// Both tables must cover the same document names.
func Compare(baseline, candidate *aggregate.ResultTable) (*Report, error) {
	all, err := Disagreements(baseline, candidate)
	if err != nil {
		return nil, err
	}

	total := baseline.Len()
	report := &Report{
		Total:          total,
		Agreeing:       total - len(all),
		BaselineFound:  baseline.FoundCount(),
		CandidateFound: candidate.FoundCount(),
	}

	if total == 0 {
		report.AgreementPercent = 100
	} else {
		report.AgreementPercent = float64(report.Agreeing) * 100 / float64(total)
	}

	if len(all) > MaxDiscrepancies {
		report.Discrepancies = all[:MaxDiscrepancies]
		report.Overflow = len(all) - MaxDiscrepancies
	} else {
		report.Discrepancies = all
	}
	return report, nil
}

// Disagreements returns every document whose found flag differs, in name order.
func Disagreements(baseline, candidate *aggregate.ResultTable) ([]Discrepancy, error) {
	if err := checkSchema(baseline, candidate); err != nil {
		return nil, err
	}

	var out []Discrepancy
	for _, b := range baseline.Entries() {
		c, _ := candidate.Lookup(b.Name)
		if b.Outcome.Found() != c.Outcome.Found() {
			out = append(out, Discrepancy{Name: b.Name, Baseline: b.Outcome.Found(), Candidate: c.Outcome.Found()})
		}
	}
	return out, nil
}

func checkSchema(baseline, candidate *aggregate.ResultTable) error {
	mismatch := &errors.ComparisonSchemaMismatchError{}
	for _, name := range baseline.Names() {
		if _, ok := candidate.Lookup(name); !ok {
			mismatch.MissingInCandidate = append(mismatch.MissingInCandidate, name)
		}
	}
	for _, name := range candidate.Names() {
		if _, ok := baseline.Lookup(name); !ok {
			mismatch.MissingInBaseline = append(mismatch.MissingInBaseline, name)
		}
	}
	if len(mismatch.MissingInBaseline) > 0 || len(mismatch.MissingInCandidate) > 0 {
		return mismatch
	}
	return nil
}
