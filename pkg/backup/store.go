// Package backup snapshots file content before destructive mutations.
// Snapshots are plain copies stored under a timestamped, ULID-suffixed
// name with a metadata sidecar; they are never deleted automatically.
package backup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/types"
)

// Store writes and resolves backup snapshots inside a single directory.
type Store struct {
	dir string
	log *slog.Logger
}

// Info describes one stored snapshot.
type Info struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"file_path"`
	BackupPath string    `json:"backup_path"`
	Timestamp  time.Time `json:"timestamp"`
	Size       int64     `json:"size"`
	Preview    string    `json:"preview,omitempty"`
}

func New(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: dir, log: log}
}

// Dir returns the backup directory path.
func (s *Store) Dir() string { return s.dir }

// Snapshot copies the file at path into the backup directory and returns
// a reference (the backup file path). It returns an empty reference when
// path does not exist, and also when the copy fails: a backup failure
// must never block the primary mutation, but the empty reference keeps
// the failure observable so callers can fall back to capturing prior
// content inline.
func (s *Store) Snapshot(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		s.log.Warn("could not read file for backup", "path", path, "error", err)
		return ""
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.log.Warn("could not create backup directory", "dir", s.dir, "error", err)
		return ""
	}

	now := time.Now()
	id := types.GenerateBackupID()
	name := fmt.Sprintf("%s.%s_%s.bak", filepath.Base(path), now.Format("20060102_150405"), id)
	backupPath := filepath.Join(s.dir, name)

	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		s.log.Warn("could not create backup", "path", path, "error", err)
		return ""
	}

	// Sidecar metadata lets List recover the original location.
	meta := fmt.Sprintf("backup_id: %s\nfile_path: %s\ntimestamp: %s\n",
		id, path, now.Format(time.RFC3339))
	if err := os.WriteFile(backupPath+".meta", []byte(meta), 0644); err != nil {
		s.log.Warn("could not write backup metadata", "path", backupPath, "error", err)
	}

	s.log.Debug("created backup", "path", path, "backup", backupPath, "bytes", len(data))
	return backupPath
}

// Resolves reports whether ref still points at readable backup content.
func (s *Store) Resolves(ref string) bool {
	if ref == "" {
		return false
	}
	info, err := os.Stat(ref)
	return err == nil && !info.IsDir()
}

// Restore copies backup content back to destination, overwriting
// whatever is there.
func (s *Store) Restore(ref, destination string) error {
	data, err := os.ReadFile(ref)
	if err != nil {
		return fmt.Errorf("backup %s: %w", ref, apperr.ErrBackupUnavailable)
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return fmt.Errorf("failed to create directory for restore: %w", err)
	}
	if err := os.WriteFile(destination, data, 0644); err != nil {
		return fmt.Errorf("failed to restore %s: %w", destination, err)
	}
	s.log.Debug("restored backup", "backup", ref, "destination", destination, "bytes", len(data))
	return nil
}

// List returns all snapshots, newest first.
func (s *Store) List() ([]Info, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return []Info{}, nil
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.bak"))
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	backups := make([]Info, 0, len(matches))
	for _, backupPath := range matches {
		stat, err := os.Stat(backupPath)
		if err != nil {
			continue
		}

		info := Info{
			BackupPath: backupPath,
			Size:       stat.Size(),
			Timestamp:  stat.ModTime(),
		}

		if meta, err := os.ReadFile(backupPath + ".meta"); err == nil {
			for _, line := range strings.Split(string(meta), "\n") {
				key, value, ok := strings.Cut(line, ": ")
				if !ok {
					continue
				}
				switch key {
				case "backup_id":
					info.ID = value
				case "file_path":
					info.SourcePath = value
				case "timestamp":
					if ts, err := time.Parse(time.RFC3339, value); err == nil {
						info.Timestamp = ts
					}
				}
			}
		}

		if content, err := os.ReadFile(backupPath); err == nil {
			lines := strings.Split(string(content), "\n")
			if len(lines) > 5 {
				lines = lines[:5]
			}
			info.Preview = strings.Join(lines, "\n")
		}

		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// Prune removes snapshots older than the cutoff and returns how many
// were deleted. Cleanup is always explicit; nothing in the engine calls
// this.
func (s *Store) Prune(olderThan time.Time) (int, error) {
	backups, err := s.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, b := range backups {
		if !b.Timestamp.Before(olderThan) {
			continue
		}
		if err := os.Remove(b.BackupPath); err != nil {
			s.log.Warn("could not remove backup", "backup", b.BackupPath, "error", err)
			continue
		}
		_ = os.Remove(b.BackupPath + ".meta")
		removed++
	}
	s.log.Debug("pruned backups", "removed", removed, "cutoff", olderThan)
	return removed, nil
}
