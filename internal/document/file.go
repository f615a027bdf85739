package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
)

// File is the JSON model file layout.
type File struct {
	HostVersion    int                                    `json:"host_version"`
	ActivePhase    string                                 `json:"active_phase,omitempty"`
	Levels         []model.Level                          `json:"levels"`
	Rooms          []model.Room                           `json:"rooms,omitempty"`
	Schemas        map[model.Category][]model.PropertyDef `json:"schemas,omitempty"`
	Elements       []model.Element                        `json:"elements"`
	GroupTemplates []model.GroupTemplate                  `json:"group_templates,omitempty"`
	GroupInstances []model.GroupInstance                  `json:"group_instances,omitempty"`
}

var (
	osReadFile   = os.ReadFile
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
)

// LoadFile reads a JSON model file.
func LoadFile(path string) (File, error) {
	data, err := osReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf(messages.DocumentReadFileFmt, path, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf(messages.DocumentParseFileFmt, path, err)
	}
	return f, nil
}

// SaveFile writes f to path through a temp file and rename, so readers never see a
// partially written model.
func SaveFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf(messages.DocumentWriteFileFmt, path, err)
	}
	data = append(data, '\n')

	tmp, err := osCreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.DocumentWriteFileFmt, path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.DocumentWriteFileFmt, path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.DocumentWriteFileFmt, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.DocumentWriteFileFmt, path, err)
	}
	if err := osRename(tmpName, path); err != nil {
		return fmt.Errorf(messages.DocumentWriteFileFmt, path, err)
	}
	committed = true
	return nil
}

// jsonStore is a Memory document persisted to a JSON file on every commit.
type jsonStore struct {
	*Memory
	path string
}

// OpenJSON loads the JSON model at path. Commits rewrite the file.
func OpenJSON(path string) (Store, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	mem, err := NewMemory(f)
	if err != nil {
		return nil, fmt.Errorf(messages.DocumentParseFileFmt, path, err)
	}
	mem.OnCommit(func(f File) error {
		return SaveFile(path, f)
	})
	return &jsonStore{Memory: mem, path: path}, nil
}

func (s *jsonStore) Close() error {
	return nil
}

func sortedPropertyNames(el *model.Element) []string {
	names := make([]string, 0, len(el.Properties))
	for name, p := range el.Properties {
		if p != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
