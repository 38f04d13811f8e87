// Package engine performs file read/write/remove operations while
// maintaining the backup and history invariants that make the most
// recent mutation reversible.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/backup"
	"github.com/orcli-org/orcli/pkg/config"
	"github.com/orcli-org/orcli/pkg/history"
)

// Engine couples content mutation to backup capture and history
// recording. One instance per process; the caller owns it and passes it
// wherever file operations happen.
type Engine struct {
	cfg *config.Config
	hst *history.Log
	log *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg: cfg,
		hst: history.NewLog(),
		log: log,
	}
}

// History exposes the operation ledger for listing, export and clearing.
func (e *Engine) History() *history.Log { return e.hst }

// Backups returns a store bound to the currently configured backup
// directory. Built per call so configuration changes apply immediately.
func (e *Engine) Backups() *backup.Store {
	return backup.New(e.cfg.Preferences.BackupDirectory, e.log)
}

// prefs re-reads preferences on every operation rather than caching them.
func (e *Engine) prefs() config.Preferences { return e.cfg.Preferences }

func nowUTC() time.Time { return time.Now().UTC() }

// Metadata describes a file read by the engine. Created carries the
// creation timestamp where the platform exposes one; elsewhere it falls
// back to the modification time.
type Metadata struct {
	Size      int64     `json:"size"`
	Lines     int       `json:"lines"`
	Extension string    `json:"extension"`
	Language  string    `json:"language"`
	Modified  time.Time `json:"modified_time"`
	Created   time.Time `json:"created_time"`
}

// ReadResult is the payload of a successful Read.
type ReadResult struct {
	Path     string   `json:"file_path"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// languageByExtension tags files with a language for metadata and the
// code tools. Unknown extensions map to "unknown".
var languageByExtension = map[string]string{
	".py": "python", ".pyw": "python",
	".js": "javascript", ".jsx": "javascript", ".mjs": "javascript",
	".ts": "typescript", ".tsx": "typescript",
	".html": "html", ".htm": "html",
	".css": "css", ".scss": "css", ".sass": "css",
	".java": "java",
	".cpp":  "cpp", ".cc": "cpp", ".cxx": "cpp",
	".c": "c", ".h": "c",
	".cs":  "csharp",
	".php": "php",
	".rb":  "ruby",
	".go":  "go",
	".rs":  "rust",
	".swift": "swift",
	".kt":  "kotlin",
	".sql": "sql",
	".sh":  "shell", ".bash": "shell", ".zsh": "shell",
	".ps1": "powershell",
	".yml": "yaml", ".yaml": "yaml",
	".json": "json",
	".xml":  "xml",
	".md":   "markdown", ".markdown": "markdown",
	".txt":  "text",
	".conf": "config", ".cfg": "config", ".ini": "config",
}

// LanguageFor returns the language tag for a path's extension.
func LanguageFor(path string) string {
	if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "unknown"
}

// Read returns a file's content and metadata. Content that is not valid
// UTF-8 is decoded with a permissive Latin-1 fallback; binary content
// fails with ErrDecodeFailure.
func (e *Engine) Read(path string) (*ReadResult, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("file %s is a directory: %w", path, apperr.ErrNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}

	content, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", path, err)
	}

	lines := strings.Count(content, "\n") + 1
	e.log.Debug("read file", "path", path, "bytes", len(content), "lines", lines)

	return &ReadResult{
		Path:    path,
		Content: content,
		Metadata: Metadata{
			Size:      stat.Size(),
			Lines:     lines,
			Extension: strings.ToLower(filepath.Ext(path)),
			Language:  LanguageFor(path),
			Modified:  stat.ModTime(),
			Created:   creationTime(stat),
		},
	}, nil
}

// decodeText turns raw bytes into a string, preferring UTF-8 and falling
// back to Latin-1. NUL bytes mark content as binary, which is the one
// case that fails outright.
func decodeText(data []byte) (string, error) {
	if isBinary(data) {
		return "", apperr.ErrDecodeFailure
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrDecodeFailure, err)
	}
	return string(decoded), nil
}

// isBinary checks the first 8KB for null bytes.
func isBinary(data []byte) bool {
	checkLen := 8192
	if len(data) < checkLen {
		checkLen = len(data)
	}
	for i := 0; i < checkLen; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}
