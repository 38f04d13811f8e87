package engine

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/orcli-org/orcli/pkg/apperr"
)

// SearchFilter narrows a directory walk. Empty fields match everything.
type SearchFilter struct {
	NamePattern    string `json:"pattern,omitempty"`
	Extension      string `json:"file_type,omitempty"`
	ContentPattern string `json:"content_search,omitempty"`
}

// MatchLine is a single content hit inside a file.
type MatchLine struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Matched string `json:"matched"`
}

// SearchMatch is one file that passed every filter.
type SearchMatch struct {
	Path           string      `json:"file_path"`
	Size           int64       `json:"size"`
	ContentMatches int         `json:"content_matches,omitempty"`
	MatchLines     []MatchLine `json:"match_lines,omitempty"`
}

// maxMatchLinesPerFile caps the excerpt list; ContentMatches still
// reports the true total.
const maxMatchLinesPerFile = 5

// Search walks dir recursively and returns files matching the filter.
// Name and content patterns are case-insensitive regular expressions.
// Binary and unreadable files are skipped, never failed on.
func (e *Engine) Search(dir string, filter SearchFilter) ([]SearchMatch, error) {
	stat, err := os.Stat(dir)
	if err != nil || !stat.IsDir() {
		return nil, fmt.Errorf("directory %s: %w", dir, apperr.ErrNotFound)
	}

	var nameRe, contentRe *regexp.Regexp
	if filter.NamePattern != "" {
		nameRe, err = regexp.Compile("(?i)" + filter.NamePattern)
		if err != nil {
			return nil, fmt.Errorf("invalid name pattern %q: %w", filter.NamePattern, err)
		}
	}
	if filter.ContentPattern != "" {
		contentRe, err = regexp.Compile("(?i)" + filter.ContentPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid content pattern %q: %w", filter.ContentPattern, err)
		}
	}
	ext := strings.ToLower(filter.Extension)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	var matches []SearchMatch
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if d.IsDir() {
			return nil
		}
		if ext != "" && strings.ToLower(filepath.Ext(path)) != ext {
			return nil
		}
		if nameRe != nil && !nameRe.MatchString(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		match := SearchMatch{Path: path, Size: info.Size()}

		if contentRe != nil {
			total, lines, ok := scanContent(path, contentRe)
			if !ok || total == 0 {
				return nil
			}
			match.ContentMatches = total
			match.MatchLines = lines
		}

		matches = append(matches, match)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("error searching %s: %w", dir, walkErr)
	}

	e.log.Debug("search complete", "dir", dir, "matches", len(matches))
	return matches, nil
}

// scanContent counts every pattern occurrence in a file. Returns
// ok=false for binary or unreadable files.
func scanContent(path string, re *regexp.Regexp) (int, []MatchLine, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, false
	}
	defer f.Close()

	head := make([]byte, 8192)
	n, _ := f.Read(head)
	if isBinary(head[:n]) {
		return 0, nil, false
	}
	if _, err := f.Seek(0, 0); err != nil {
		return 0, nil, false
	}

	total := 0
	var lines []MatchLine
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		found := re.FindAllString(text, -1)
		if len(found) > 0 {
			total += len(found)
			trimmed := strings.TrimSpace(text)
			for _, match := range found {
				if len(lines) >= maxMatchLinesPerFile {
					break
				}
				lines = append(lines, MatchLine{Line: lineNo, Text: trimmed, Matched: match})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, false
	}
	return total, lines, true
}
