// Package classify decides where an element sits: which side of a level band and
// which room owns it. Classification is read-only.
package classify

import (
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
)

// Position is an element's place relative to a band.
type Position int

const (
	// InBand means the bounding box overlaps the open interval (base, top).
	InBand Position = iota
	// BelowBand means the box ends at or below the base elevation.
	BelowBand
	// AboveBand means the box starts at or above the top elevation.
	AboveBand
	// NoBoundingBox means the element has no box to classify.
	NoBoundingBox
)

func (p Position) String() string {
	switch p {
	case InBand:
		return "InBand"
	case BelowBand:
		return "BelowBand"
	case AboveBand:
		return "AboveBand"
	case NoBoundingBox:
		return "NoBoundingBox"
	}
	return "Unknown"
}

// SkipReason maps a non-InBand position to its skip reason.
func (p Position) SkipReason() summary.SkipReason {
	switch p {
	case BelowBand:
		return summary.SkipBelowBand
	case AboveBand:
		return summary.SkipAboveBand
	case NoBoundingBox:
		return summary.SkipNoBoundingBox
	}
	return ""
}

// Level classifies el against band. Both boundaries are exclusive: a box whose top
// is flush with the base level is below, one whose bottom is flush with the top
// level is above.
func Level(el model.Element, band model.Band) Position {
	if el.BBox == nil {
		return NoBoundingBox
	}
	if el.BBox.Max.Z <= band.Base.Elevation {
		return BelowBand
	}
	if el.BBox.Min.Z >= band.Top.Elevation {
		return AboveBand
	}
	return InBand
}

// LevelValue is the value written for an in-band element: always the base level.
func LevelValue(band model.Band) model.Value {
	return model.Value{Text: band.Base.Name, Ref: band.Base.ID}
}
