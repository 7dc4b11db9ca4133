// Package checklist loads the user-authored heartbeat checklist.
//
// A missing file is materialized from the default template so first runs have
// something to edit. A file that exists but contains only whitespace and
// Markdown headings is classified empty and the heartbeat skips the agent
// call entirely. An existing file is never overwritten or truncated.
package checklist

import (
	stderrors "errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/fs"
)

// State classifies the checklist document.
type State int

const (
	// Populated is the normal path: the checklist has real content.
	Populated State = iota
	// Empty means the file exists but reduces to whitespace and headings.
	Empty
	// Missing means the file did not exist; Load materialized the default
	// template at the requested path before returning.
	Missing
)

// Checklist is the loaded checklist document.
type Checklist struct {
	Path    string
	State   State
	Content string
}

// Load reads the checklist at path, creating the default template first if
// the file is missing. The only side effect is that single file creation.
func Load(fsys fs.FS, path string) (Checklist, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if !stderrors.Is(err, iofs.ErrNotExist) && !os.IsNotExist(err) {
			return Checklist{}, errors.Wrap(errors.EChecklistUnreadable, "failed to read checklist "+path, err)
		}
		if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Checklist{}, errors.Wrap(errors.EChecklistUnreadable, "failed to create checklist directory", err)
		}
		if err := fsys.WriteFile(path, []byte(DefaultTemplate), 0o644); err != nil {
			return Checklist{}, errors.Wrap(errors.EChecklistUnreadable, "failed to write default checklist "+path, err)
		}
		return Checklist{Path: path, State: Missing, Content: DefaultTemplate}, nil
	}

	content := string(data)
	if reducesToNothing(content) {
		return Checklist{Path: path, State: Empty, Content: content}, nil
	}
	return Checklist{Path: path, State: Populated, Content: content}, nil
}

// reducesToNothing reports whether the content is whitespace and pure Markdown
// heading lines only.
func reducesToNothing(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		return false
	}
	return true
}
