package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/spatialfill/internal/messages"
)

// DefaultProfileName is the profile looked up in the working directory when no
// --profile flag is given.
const DefaultProfileName = "sfill.toml"

var expandHome = homedir.Expand

// ExpandPath expands a leading ~ in path.
func ExpandPath(path string) (string, error) {
	expanded, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, path, err)
	}
	return expanded, nil
}

// ModelPath returns the model file to open. override wins over the profile's
// document.path; a relative profile path is resolved against profileDir.
func (p *Profile) ModelPath(profileDir string, override string) (string, error) {
	if strings.TrimSpace(override) != "" {
		return ExpandPath(override)
	}
	raw := strings.TrimSpace(p.Document.Path)
	if raw == "" {
		return "", fmt.Errorf(messages.ConfigModelPathRequired)
	}
	path, err := ExpandPath(raw)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) && profileDir != "" {
		path = filepath.Join(profileDir, path)
	}
	return path, nil
}
