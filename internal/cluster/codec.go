package cluster

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/gcbaptista/go-doc-search/internal/aggregate"
	"github.com/gcbaptista/go-doc-search/model"
)

// Broadcast is sent by the coordinator to every worker at the start of a run.
type Broadcast struct {
	RunID     string
	Pattern   model.Pattern
	Documents []model.Document
	Workers   int
	Tasks     int
	Threshold int
}

// Report is sent by each worker once its assignment is done.
// Entries are keyed by document index, so reports may arrive in any order.
type Report struct {
	RunID    string
	Rank     int
	Entries  []aggregate.Entry
	AnyFound bool // the worker's own reduction over Entries
	Elapsed  time.Duration
	Err      string // set when the worker could not process its assignment
}

// Encode gob-encodes a message into a frame.
// Frames are plain bytes, so a worker never shares memory with the coordinator or its peers.
func Encode(message interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(message); err != nil {
		return nil, fmt.Errorf("failed to gob encode %T: %w", message, err)
	}
	return buf.Bytes(), nil
}

// Decode decodes a gob frame into the provided message pointer.
func Decode(frame []byte, messagePointer interface{}) error {
	decoder := gob.NewDecoder(bytes.NewReader(frame))
	if err := decoder.Decode(messagePointer); err != nil {
		return fmt.Errorf("failed to gob decode into %T: %w", messagePointer, err)
	}
	return nil
}
