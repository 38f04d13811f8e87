// Package history keeps the bounded, ordered ledger of file mutations
// that makes single-step undo possible.
package history

import (
	"sync"

	"github.com/orcli-org/orcli/pkg/types"
)

// Log is an append-only sequence of operation records in chronological
// order. It lives in memory and belongs to one engine instance.
type Log struct {
	mu      sync.Mutex
	records []types.OperationRecord
}

func NewLog() *Log {
	return &Log{records: make([]types.OperationRecord, 0)}
}

// Append adds a record and evicts the oldest entries beyond max. Evicted
// records may leave orphaned backup snapshots behind; those are never
// deleted here.
func (l *Log) Append(rec types.OperationRecord, max int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, rec)
	if max > 0 && len(l.records) > max {
		l.records = l.records[len(l.records)-max:]
	}
}

// Pop removes and returns the most recent record.
func (l *Log) Pop() (types.OperationRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.records) == 0 {
		return types.OperationRecord{}, false
	}
	rec := l.records[len(l.records)-1]
	l.records = l.records[:len(l.records)-1]
	return rec, true
}

// Records returns a copy of the ledger, oldest first.
func (l *Log) Records() []types.OperationRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.OperationRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Clear empties the ledger and returns how many records were dropped.
func (l *Log) Clear() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.records)
	l.records = l.records[:0]
	return n
}
