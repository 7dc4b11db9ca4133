// Package journal persists one append-only JSONL record per heartbeat.
//
// Append is the only mutation path; rotation trims the oldest lines once the
// configured ceiling is exceeded and never reorders or edits what it keeps.
package journal

import (
	"encoding/json"
	stderrors "errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinmanhq/tinman/internal/fs"
)

// Entry is one heartbeat record as stored on disk.
type Entry struct {
	Timestamp  string `json:"timestamp"` // RFC3339, UTC
	BeatID     string `json:"beat_id"`
	Kind       string `json:"kind"`
	Summary    string `json:"summary"`
	Preset     string `json:"preset"`
	DurationMS int64  `json:"duration_ms"`
	Output     string `json:"output,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Writer appends entries to a JSONL log file with line-count rotation.
type Writer struct {
	FS       fs.FS
	Path     string
	MaxLines int
}

// NewWriter creates a Writer for the given log path. maxLines <= 0 disables
// rotation.
func NewWriter(fsys fs.FS, path string, maxLines int) *Writer {
	return &Writer{FS: fsys, Path: path, MaxLines: maxLines}
}

// Append writes one entry as a JSON line, then rotates if the file grew past
// the ceiling. Rotation is best-effort: a rotation failure never loses the
// entry that was just appended.
func (w *Writer) Append(e Entry) error {
	if err := w.FS.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := w.FS.AppendFile(w.Path, data, 0o644); err != nil {
		return err
	}
	w.rotate()
	return nil
}

// rotate trims the file to the newest MaxLines lines.
func (w *Writer) rotate() {
	if w.MaxLines <= 0 {
		return
	}
	data, err := w.FS.ReadFile(w.Path)
	if err != nil {
		return
	}
	lines := splitLines(string(data))
	if len(lines) <= w.MaxLines {
		return
	}
	keep := lines[len(lines)-w.MaxLines:]
	_ = w.FS.WriteFile(w.Path, []byte(strings.Join(keep, "\n")+"\n"), 0o644)
}

// Tail returns the last n entries, oldest first. A missing log file yields no
// entries; malformed lines are skipped.
func (w *Writer) Tail(n int) ([]Entry, error) {
	data, err := w.FS.ReadFile(w.Path)
	if err != nil {
		if stderrors.Is(err, iofs.ErrNotExist) || os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := splitLines(string(data))
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	var entries []Entry
	for _, line := range lines {
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// splitLines splits into non-empty lines, dropping the trailing newline.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
