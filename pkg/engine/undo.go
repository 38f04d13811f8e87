package engine

import (
	"fmt"
	"os"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/types"
)

// UndoResult reports what reversing an operation did.
type UndoResult struct {
	OperationID string              `json:"operation_id"`
	Kind        types.OperationKind `json:"operation"`
	Path        string              `json:"file_path"`
	Action      string              `json:"action"`
	Restored    bool                `json:"restored"`
}

// UndoLast reverses the most recent recorded operation. Creates are
// undone by deleting the file; modifies and removes by restoring the
// backup snapshot, or the recorded content when no snapshot survives.
// The record is consumed even when there is nothing to restore.
func (e *Engine) UndoLast() (*UndoResult, error) {
	rec, ok := e.hst.Pop()
	if !ok {
		return nil, apperr.ErrEmptyHistory
	}

	res := &UndoResult{
		OperationID: rec.ID,
		Kind:        rec.Kind,
		Path:        rec.Path,
	}

	switch rec.Kind {
	case types.OpCreate:
		if _, err := os.Stat(rec.Path); err == nil {
			if err := os.Remove(rec.Path); err != nil {
				return nil, fmt.Errorf("error undoing create of %s: %w", rec.Path, err)
			}
			res.Action = "deleted"
			res.Restored = true
		} else {
			res.Action = "already_absent"
		}

	case types.OpModify, types.OpRemove:
		store := e.Backups()
		switch {
		case rec.BackupRef != "" && store.Resolves(rec.BackupRef):
			if err := store.Restore(rec.BackupRef, rec.Path); err != nil {
				return nil, fmt.Errorf("error undoing %s of %s: %w", rec.Kind, rec.Path, err)
			}
			res.Action = "restored_from_backup"
			res.Restored = true
		case rec.PriorContent != "":
			if err := os.WriteFile(rec.Path, []byte(rec.PriorContent), 0o644); err != nil {
				return nil, fmt.Errorf("error undoing %s of %s: %w", rec.Kind, rec.Path, err)
			}
			res.Action = "restored_from_history"
			res.Restored = true
		default:
			// Nothing survives to restore from. The record is still
			// consumed so repeated undo walks further back.
			e.log.Warn("undo found no backup or recorded content", "path", rec.Path, "operation", rec.Kind)
			res.Action = "nothing_to_restore"
		}

	default:
		return nil, fmt.Errorf("unknown operation kind %q in history", rec.Kind)
	}

	e.log.Info("undid operation", "id", rec.ID, "operation", rec.Kind, "path", rec.Path, "action", res.Action)
	return res, nil
}
