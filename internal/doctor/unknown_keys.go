package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/messages"
)

type unknownKey struct {
	Path       string
	Allowed    []string
	Suggestion string
}

// keyNode is one table of the profile schema. A node without children is a value.
type keyNode struct {
	children map[string]*keyNode
}

var (
	profileSchemaOnce sync.Once
	profileSchemaRoot *keyNode
)

func profileSchema() *keyNode {
	profileSchemaOnce.Do(func() {
		profileSchemaRoot = buildKeyTree(reflect.TypeOf(config.Profile{}))
	})
	return profileSchemaRoot
}

// buildKeyTree mirrors the toml tags of t.
func buildKeyTree(t reflect.Type) *keyNode {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return &keyNode{}
	}
	node := &keyNode{children: make(map[string]*keyNode)}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		key := strings.Split(strings.TrimSpace(field.Tag.Get("toml")), ",")[0]
		if key == "" || key == "-" {
			continue
		}
		node.children[key] = buildKeyTree(field.Type)
	}
	return node
}

// profileUnknownKeys lists the keys of the profile at path that no field accepts.
func profileUnknownKeys(path string) ([]unknownKey, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var found []unknownKey
	walkUnknown(raw, profileSchema(), "", &found)
	sort.Slice(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})
	return found, nil
}

func walkUnknown(raw map[string]any, node *keyNode, path string, found *[]unknownKey) {
	for key, value := range raw {
		child, ok := node.children[key]
		if !ok {
			*found = append(*found, unknownKey{
				Path:       joinKey(path, key),
				Allowed:    node.allowedKeys(),
				Suggestion: node.suggest(key, path),
			})
			continue
		}
		if table, ok := value.(map[string]any); ok && len(child.children) > 0 {
			walkUnknown(table, child, joinKey(path, key), found)
		}
	}
}

func (n *keyNode) allowedKeys() []string {
	keys := make([]string, 0, len(n.children))
	for key := range n.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// suggest maps a mistyped key onto a known sibling that differs only in case or
// in dashes for underscores.
func (n *keyNode) suggest(key string, path string) string {
	normalized := strings.ReplaceAll(key, "-", "_")
	for allowed := range n.children {
		if strings.EqualFold(normalized, allowed) {
			return joinKey(path, allowed)
		}
	}
	return ""
}

func joinKey(path string, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// unknownKeyRecommendation renders the fix-up advice for found.
func unknownKeyRecommendation(profilePath string, found []unknownKey) string {
	lines := []string{fmt.Sprintf(messages.DoctorUnknownKeysEditFmt, profilePath), ""}
	for _, k := range found {
		line := fmt.Sprintf(messages.DoctorUnknownKeyLineFmt, k.Path)
		if len(k.Allowed) > 0 {
			line += fmt.Sprintf(messages.DoctorUnknownKeyAllowedFmt, strings.Join(k.Allowed, ", "))
		} else {
			line += messages.DoctorUnknownKeyNoNested
		}
		if k.Suggestion != "" {
			line += fmt.Sprintf(messages.DoctorUnknownKeySuggestFmt, k.Suggestion)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
