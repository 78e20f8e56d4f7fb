package model

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-doc-search/internal/errors"
)

// Mode selects the matching algorithm for a run
type Mode string

const (
	ModeExact       Mode = "exact"
	ModeApproximate Mode = "approximate"
)

// ParseMode accepts the mode names as well as the numeric codes of the original CLI (0=exact, 1=approximate).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact", "0":
		return ModeExact, nil
	case "approximate", "approx", "1":
		return ModeApproximate, nil
	default:
		return "", errors.NewValidationError("mode", fmt.Sprintf("unknown mode '%s' (must be 'exact' or 'approximate')", s))
	}
}

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeExact || m == ModeApproximate
}

// Pattern is the search string and the mode it is matched with. It is immutable for a run.
type Pattern struct {
	Text string `json:"text"`
	Mode Mode   `json:"mode"`
}

// MatchStatus is the tri-state result of searching one document
type MatchStatus string

const (
	StatusFound      MatchStatus = "found"
	StatusNotFound   MatchStatus = "not_found"
	StatusUnreadable MatchStatus = "unreadable"
)

// MatchOutcome is the per-document result.
// Distance is only set for approximate matches and only when it is within the threshold.
type MatchOutcome struct {
	Status   MatchStatus `json:"status"`
	Distance int         `json:"distance,omitempty"`
	Error    string      `json:"error,omitempty"` // read failure for unreadable documents
}

// Found reports whether the document matched. Unreadable documents count as not found.
func (o MatchOutcome) Found() bool {
	return o.Status == StatusFound
}

// Unreadable reports whether the document could not be read
func (o MatchOutcome) Unreadable() bool {
	return o.Status == StatusUnreadable
}

// FoundOutcome creates a found outcome
func FoundOutcome(distance int) MatchOutcome {
	return MatchOutcome{Status: StatusFound, Distance: distance}
}

// NotFoundOutcome creates a not-found outcome
func NotFoundOutcome() MatchOutcome {
	return MatchOutcome{Status: StatusNotFound}
}

// UnreadableOutcome creates an unreadable outcome carrying the read error
func UnreadableOutcome(err error) MatchOutcome {
	o := MatchOutcome{Status: StatusUnreadable}
	if err != nil {
		o.Error = err.Error()
	}
	return o
}
