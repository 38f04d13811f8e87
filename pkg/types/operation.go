package types

import "time"

// OperationKind classifies a file mutation.
type OperationKind string

const (
	OpCreate OperationKind = "create"
	OpModify OperationKind = "modify"
	OpRemove OperationKind = "remove"
)

// OperationRecord is one ledger entry describing a file mutation and how
// to reverse it.
//
// For Modify and Remove exactly one of BackupRef / PriorContent is set:
// PriorContent is only captured when the snapshot could not be taken, so
// undo has a single authoritative source. For Create both are empty.
type OperationRecord struct {
	ID           string        `json:"id"`
	Kind         OperationKind `json:"operation"`
	Path         string        `json:"file_path"`
	BackupRef    string        `json:"backup_path,omitempty"`
	PriorContent string        `json:"original_content,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}
