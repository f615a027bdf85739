package wizard

import (
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/spatialfill/internal/summary"
)

// choices are the answers collected by Run.
type choices struct {
	DocumentPath  string
	Categories    []string
	Targets       map[summary.Operation][]string
	BandBase      string
	BandTop       string
	Overwrite     bool
	GroupProperty string
}

func newChoices(documentPath string) *choices {
	return &choices{
		DocumentPath: documentPath,
		Targets:      make(map[summary.Operation][]string),
	}
}

// setTargets records a comma-separated target list for op.
func (c *choices) setTargets(op summary.Operation, raw string) {
	targets := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	c.Targets[op] = targets
}

func (c *choices) has(op summary.Operation) bool {
	_, ok := c.Targets[op]
	return ok
}

// profileFile is the encoded layout of a generated profile. Only answered
// sections are written.
type profileFile struct {
	Document documentTable           `toml:"document"`
	Scan     scanTable               `toml:"scan"`
	Band     *bandTable              `toml:"band,omitempty"`
	Ops      map[string]targetsTable `toml:"operations,omitempty"`
	Fill     fillTable               `toml:"fill"`
	Groups   *groupsTable            `toml:"groups,omitempty"`
}

type documentTable struct {
	Path string `toml:"path"`
}

type scanTable struct {
	Categories []string `toml:"categories"`
}

type bandTable struct {
	Base string `toml:"base"`
	Top  string `toml:"top"`
}

type targetsTable struct {
	Targets []string `toml:"targets"`
}

type fillTable struct {
	Overwrite bool `toml:"overwrite"`
}

type groupsTable struct {
	Property string `toml:"property"`
}

func (c *choices) encode() ([]byte, error) {
	f := profileFile{
		Document: documentTable{Path: c.DocumentPath},
		Scan:     scanTable{Categories: c.Categories},
		Fill:     fillTable{Overwrite: c.Overwrite},
	}
	if c.has(summary.OpLevel) {
		f.Band = &bandTable{Base: c.BandBase, Top: c.BandTop}
	}
	if len(c.Targets) > 0 {
		f.Ops = make(map[string]targetsTable, len(c.Targets))
		for op, targets := range c.Targets {
			f.Ops[string(op)] = targetsTable{Targets: targets}
		}
	}
	if p := strings.TrimSpace(c.GroupProperty); p != "" {
		f.Groups = &groupsTable{Property: p}
	}
	return toml.Marshal(f)
}
