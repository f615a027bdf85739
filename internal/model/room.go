package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Room is a bounded horizontal region on a level, valid in one phase.
type Room struct {
	ID            ElementID   `json:"id"`
	Number        string      `json:"number"`
	Name          string      `json:"name"`
	LevelID       ElementID   `json:"level_id"`
	Phase         string      `json:"phase"`
	BaseElevation float64     `json:"base_elevation"`
	Height        float64     `json:"height"`
	Footprint     orb.Polygon `json:"footprint"`
}

// ContainsPoint reports whether p lies inside the room under phase. The footprint test
// is planar; the vertical test spans [BaseElevation, BaseElevation+Height], or is
// unbounded above when Height is not positive.
func (r Room) ContainsPoint(p Point3, phase string) bool {
	if phase != "" && r.Phase != phase {
		return false
	}
	if len(r.Footprint) == 0 {
		return false
	}
	if p.Z < r.BaseElevation {
		return false
	}
	if r.Height > 0 && p.Z > r.BaseElevation+r.Height {
		return false
	}
	pt := orb.Point{p.X, p.Y}
	if !r.Footprint.Bound().Contains(pt) {
		return false
	}
	return planar.PolygonContains(r.Footprint, pt)
}

// RectFootprint builds an axis-aligned rectangular footprint.
func RectFootprint(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
		{minX, minY},
	}}
}
