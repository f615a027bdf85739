package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conn-castle/spatialfill/internal/messages"
)

// Open opens a model file by extension: .json files load into memory and are
// rewritten on commit, .db and .sqlite files are SQLite models.
func Open(path string) (Store, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return OpenJSON(path)
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf(messages.DocumentUnsupportedExtFmt, ext)
	}
}
