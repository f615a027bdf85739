// Package model defines the building-model records the fill engine reads and mutates.
// The records mirror what a host document adapter exposes; the engine never creates
// or destroys them.
package model

import (
	"fmt"
	"strings"
)

// ElementID identifies an element, level, room, or group in a document.
type ElementID int64

// InvalidID marks an absent reference.
const InvalidID ElementID = 0

// Valid reports whether id refers to something.
func (id ElementID) Valid() bool {
	return id > 0
}

func (id ElementID) String() string {
	return fmt.Sprintf("%d", int64(id))
}

// Category is a classification tag grouping elements of similar kind.
type Category string

// Well-known categories used by the host capability tables.
const (
	CategoryDoors               Category = "doors"
	CategoryWindows             Category = "windows"
	CategoryFurniture           Category = "furniture"
	CategoryCasework            Category = "casework"
	CategoryPlumbingFixtures    Category = "plumbing_fixtures"
	CategorySpecialtyEquipment  Category = "specialty_equipment"
	CategoryGenericModels       Category = "generic_models"
	CategoryMechanicalEquipment Category = "mechanical_equipment"
	CategoryLightingFixtures    Category = "lighting_fixtures"
	CategoryElectricalFixtures  Category = "electrical_fixtures"
	CategoryCurtainPanels       Category = "curtain_panels"
	CategoryGroups              Category = "groups"
)

// NormalizeCategory lowercases and trims a category tag.
func NormalizeCategory(raw string) Category {
	return Category(strings.ToLower(strings.TrimSpace(raw)))
}

// Point3 is a point in document coordinates.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox is an axis-aligned box.
type BoundingBox struct {
	Min Point3 `json:"min"`
	Max Point3 `json:"max"`
}

// Curve is a straight location line, such as the location of a wall-hosted element.
type Curve struct {
	Start Point3 `json:"start"`
	End   Point3 `json:"end"`
}

// Midpoint returns the point halfway along the curve.
func (c Curve) Midpoint() Point3 {
	return Point3{
		X: (c.Start.X + c.End.X) / 2,
		Y: (c.Start.Y + c.End.Y) / 2,
		Z: (c.Start.Z + c.End.Z) / 2,
	}
}

// Location is an element's representative point or curve. Either may be nil.
type Location struct {
	Point *Point3 `json:"point,omitempty"`
	Curve *Curve  `json:"curve,omitempty"`
}

// Representative returns the point location, falling back to the curve midpoint.
func (l Location) Representative() (Point3, bool) {
	if l.Point != nil {
		return *l.Point, true
	}
	if l.Curve != nil {
		return l.Curve.Midpoint(), true
	}
	return Point3{}, false
}

// Level is a named horizontal reference elevation.
type Level struct {
	ID        ElementID `json:"id"`
	Name      string    `json:"name"`
	Elevation float64   `json:"elevation"`
}

// Element is one spatial element with its mutable property bag.
type Element struct {
	ID         ElementID            `json:"id"`
	Category   Category             `json:"category"`
	BBox       *BoundingBox         `json:"bbox,omitempty"`
	Location   Location             `json:"location"`
	LevelID    ElementID            `json:"level_id,omitempty"`
	RoomID     ElementID            `json:"room_id,omitempty"`
	FromRoomID ElementID            `json:"from_room_id,omitempty"`
	ToRoomID   ElementID            `json:"to_room_id,omitempty"`
	GroupID    ElementID            `json:"group_id,omitempty"`
	Properties map[string]*Property `json:"properties,omitempty"`
}

// Property returns the named property, if the element has it.
func (e Element) Property(name string) (*Property, bool) {
	p, ok := e.Properties[name]
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

// Clone returns a deep copy of e so callers can mutate it freely.
func (e Element) Clone() Element {
	out := e
	if e.BBox != nil {
		box := *e.BBox
		out.BBox = &box
	}
	if e.Location.Point != nil {
		p := *e.Location.Point
		out.Location.Point = &p
	}
	if e.Location.Curve != nil {
		c := *e.Location.Curve
		out.Location.Curve = &c
	}
	if e.Properties != nil {
		out.Properties = make(map[string]*Property, len(e.Properties))
		for name, p := range e.Properties {
			if p == nil {
				continue
			}
			cp := *p
			out.Properties[name] = &cp
		}
	}
	return out
}

// GroupTemplate is a reusable named collection of member elements.
type GroupTemplate struct {
	ID        ElementID   `json:"id"`
	Name      string      `json:"name"`
	MemberIDs []ElementID `json:"member_ids,omitempty"`
}

// GroupInstance is one placed copy of a template.
type GroupInstance struct {
	ID         ElementID   `json:"id"`
	TemplateID ElementID   `json:"template_id"`
	MemberIDs  []ElementID `json:"member_ids"`
}

// GetMemberIDs returns the instance's member element ids in placement order.
func (g GroupInstance) GetMemberIDs() []ElementID {
	out := make([]ElementID, len(g.MemberIDs))
	copy(out, g.MemberIDs)
	return out
}
