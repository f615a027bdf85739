// Package host describes what each supported host version can do. The fill engine
// depends only on Capabilities and never branches on a version number.
package host

import (
	"errors"
	"fmt"

	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
)

// ErrUnsupportedVersion reports a host version older than the oldest supported one.
var ErrUnsupportedVersion = errors.New("unsupported host version")

// Capabilities is the version-specific host surface the classifiers consult.
type Capabilities interface {
	// Version is the host release the capabilities describe.
	Version() int
	// SupportsDirectRoom reports whether elements of cat carry a direct room reference.
	SupportsDirectRoom(cat model.Category) bool
	// IsOpening reports whether elements of cat carry from-room and to-room references.
	IsOpening(cat model.Category) bool
}

const (
	// MinVersion is the oldest supported host release.
	MinVersion = 2023
	// LatestVersion is the newest host release with a dedicated capability table.
	LatestVersion = 2025
)

// ForVersion returns the capabilities for version. Releases newer than LatestVersion
// use the latest table.
func ForVersion(version int) (Capabilities, error) {
	switch {
	case version < MinVersion:
		return nil, fmt.Errorf("%w: "+messages.DocumentUnsupportedHostFmt, ErrUnsupportedVersion, version, MinVersion)
	case version == 2023:
		return v2023{}, nil
	case version == 2024:
		return v2024{}, nil
	default:
		return v2025{version: version}, nil
	}
}

func categorySet(cats ...model.Category) map[model.Category]bool {
	out := make(map[model.Category]bool, len(cats))
	for _, c := range cats {
		out[c] = true
	}
	return out
}

var openings = categorySet(model.CategoryDoors, model.CategoryWindows)

var directRoom2023 = categorySet(
	model.CategoryFurniture,
	model.CategoryCasework,
	model.CategorySpecialtyEquipment,
	model.CategoryPlumbingFixtures,
	model.CategoryDoors,
	model.CategoryWindows,
)

var directRoom2024 = union(directRoom2023, categorySet(
	model.CategoryGenericModels,
	model.CategoryMechanicalEquipment,
	model.CategoryLightingFixtures,
))

var directRoom2025 = union(directRoom2024, categorySet(
	model.CategoryElectricalFixtures,
))

func union(a, b map[model.Category]bool) map[model.Category]bool {
	out := make(map[model.Category]bool, len(a)+len(b))
	for c := range a {
		out[c] = true
	}
	for c := range b {
		out[c] = true
	}
	return out
}

type v2023 struct{}

func (v2023) Version() int                               { return 2023 }
func (v2023) SupportsDirectRoom(cat model.Category) bool { return directRoom2023[cat] }
func (v2023) IsOpening(cat model.Category) bool          { return openings[cat] }

type v2024 struct{}

func (v2024) Version() int                               { return 2024 }
func (v2024) SupportsDirectRoom(cat model.Category) bool { return directRoom2024[cat] }
func (v2024) IsOpening(cat model.Category) bool          { return openings[cat] }

// v2025 also serves newer releases; version keeps the detected number.
type v2025 struct {
	version int
}

func (v v2025) Version() int                             { return v.version }
func (v2025) SupportsDirectRoom(cat model.Category) bool { return directRoom2025[cat] }
func (v2025) IsOpening(cat model.Category) bool          { return openings[cat] }
