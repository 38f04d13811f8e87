package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/types"
)

// OperationResult is the payload of a successful Write or Remove.
type OperationResult struct {
	OperationID string              `json:"operation_id"`
	Kind        types.OperationKind `json:"operation"`
	Path        string              `json:"file_path"`
	BackupRef   string              `json:"backup_path,omitempty"`
	Bytes       int                 `json:"bytes_written,omitempty"`
	DiffPreview string              `json:"diff,omitempty"`
}

// Write persists content to path, recording the operation so it can be
// undone. Whether the operation is a create or a modify is decided by
// checking existence before anything is written. A nil backup pointer
// means "use the configured preference".
func (e *Engine) Write(path, content string, backupOpt *bool) (*OperationResult, error) {
	prefs := e.prefs()
	doBackup := prefs.BackupEnabled
	if backupOpt != nil {
		doBackup = *backupOpt
	}

	kind := types.OpCreate
	priorContent := ""
	if _, err := os.Stat(path); err == nil {
		kind = types.OpModify
		if prior, rerr := os.ReadFile(path); rerr == nil {
			priorContent = string(prior)
		}
	}

	backupRef := ""
	if kind == types.OpModify && doBackup {
		backupRef = e.Backups().Snapshot(path)
	}
	// The in-memory copy is the fallback; once a snapshot exists on disk
	// the record carries only the reference.
	if backupRef != "" {
		priorContent = ""
	}
	if !doBackup {
		priorContent = ""
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("error writing file %s: %w", path, err)
	}

	rec := types.OperationRecord{
		ID:           types.GenerateOperationID(),
		Kind:         kind,
		Path:         path,
		BackupRef:    backupRef,
		PriorContent: priorContent,
		Timestamp:    nowUTC(),
	}
	e.hst.Append(rec, prefs.MaxHistory)

	res := &OperationResult{
		OperationID: rec.ID,
		Kind:        kind,
		Path:        path,
		BackupRef:   backupRef,
		Bytes:       len(content),
	}
	if kind == types.OpModify && (backupRef != "" || priorContent != "") {
		old := priorContent
		if old == "" && backupRef != "" {
			if data, err := os.ReadFile(backupRef); err == nil {
				old = string(data)
			}
		}
		res.DiffPreview = DiffPreview(old, content)
	}

	e.log.Info("wrote file", "path", path, "operation", kind, "bytes", len(content), "backup", backupRef != "")
	return res, nil
}

// Remove deletes a file after capturing a backup, recording the
// operation for undo. Missing files fail with ErrNotFound.
func (e *Engine) Remove(path string, backupOpt *bool) (*OperationResult, error) {
	prefs := e.prefs()
	doBackup := prefs.BackupEnabled
	if backupOpt != nil {
		doBackup = *backupOpt
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error removing file %s: %w", path, err)
	}

	priorContent := ""
	backupRef := ""
	if doBackup {
		backupRef = e.Backups().Snapshot(path)
		if backupRef == "" {
			if prior, rerr := os.ReadFile(path); rerr == nil {
				priorContent = string(prior)
			}
		}
	}

	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("error removing file %s: %w", path, err)
	}

	rec := types.OperationRecord{
		ID:           types.GenerateOperationID(),
		Kind:         types.OpRemove,
		Path:         path,
		BackupRef:    backupRef,
		PriorContent: priorContent,
		Timestamp:    nowUTC(),
	}
	e.hst.Append(rec, prefs.MaxHistory)

	e.log.Info("removed file", "path", path, "backup", backupRef != "")
	return &OperationResult{
		OperationID: rec.ID,
		Kind:        types.OpRemove,
		Path:        path,
		BackupRef:   backupRef,
	}, nil
}
