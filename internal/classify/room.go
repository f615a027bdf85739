package classify

import (
	"github.com/conn-castle/spatialfill/internal/host"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
)

// DefaultPointNudge is how far above its level elevation an element's representative
// point is lifted before the point-in-room test, in document units. It keeps points
// modelled exactly on the level, or on the room's base, inside the room's vertical extent.
const DefaultPointNudge = 1.0

// Method records how a room was found, or why none was.
type Method string

// Detection methods.
const (
	MethodDirectReference Method = "DirectReference"
	MethodFromRoom        Method = "FromRoom"
	MethodToRoom          Method = "ToRoom"
	MethodPointInRoom     Method = "PointInRoom"
	MethodNoLocation      Method = "NoLocation"
	MethodNoRoomFound     Method = "NoRoomFound"
)

// Resolution is the result of a room lookup. Room is nil unless a detection succeeded.
type Resolution struct {
	Room   *model.Room
	Method Method
}

// Found reports whether a room was detected.
func (r Resolution) Found() bool {
	return r.Room != nil
}

// SkipReason maps an unsuccessful resolution to its skip reason.
func (r Resolution) SkipReason() summary.SkipReason {
	if r.Found() {
		return ""
	}
	if r.Method == MethodNoLocation {
		return summary.SkipNoLocation
	}
	return summary.SkipNoRoomFound
}

// RoomResolver finds the room owning an element among the rooms of one phase.
type RoomResolver struct {
	caps   host.Capabilities
	rooms  []model.Room
	byID   map[model.ElementID]int
	levels map[model.ElementID]model.Level
	phase  string
	nudge  float64
}

// NewRoomResolver returns a resolver over candidate rooms, tested in order. A
// negative nudge selects DefaultPointNudge; zero tests at the level elevation.
func NewRoomResolver(caps host.Capabilities, rooms []model.Room, levels []model.Level, phase string, nudge float64) *RoomResolver {
	if nudge < 0 {
		nudge = DefaultPointNudge
	}
	r := &RoomResolver{
		caps:   caps,
		rooms:  rooms,
		byID:   make(map[model.ElementID]int, len(rooms)),
		levels: make(map[model.ElementID]model.Level, len(levels)),
		phase:  phase,
		nudge:  nudge,
	}
	for i, room := range rooms {
		r.byID[room.ID] = i
	}
	for _, l := range levels {
		r.levels[l.ID] = l
	}
	return r
}

// Resolve finds el's room. The tiers are tried in order and the first success wins:
// the direct room reference when the category carries one, the from-room then
// to-room reference for openings, then the point-in-room test.
func (r *RoomResolver) Resolve(el model.Element) Resolution {
	if r.caps.SupportsDirectRoom(el.Category) {
		if room := r.candidate(el.RoomID); room != nil {
			return Resolution{Room: room, Method: MethodDirectReference}
		}
	}
	if r.caps.IsOpening(el.Category) {
		if room := r.candidate(el.FromRoomID); room != nil {
			return Resolution{Room: room, Method: MethodFromRoom}
		}
		if room := r.candidate(el.ToRoomID); room != nil {
			return Resolution{Room: room, Method: MethodToRoom}
		}
	}
	p, ok := r.testPoint(el)
	if !ok {
		return Resolution{Method: MethodNoLocation}
	}
	for i := range r.rooms {
		if r.rooms[i].ContainsPoint(p, r.phase) {
			room := r.rooms[i]
			return Resolution{Room: &room, Method: MethodPointInRoom}
		}
	}
	return Resolution{Method: MethodNoRoomFound}
}

// candidate returns the referenced room when it is one of the candidates.
func (r *RoomResolver) candidate(id model.ElementID) *model.Room {
	if !id.Valid() {
		return nil
	}
	i, ok := r.byID[id]
	if !ok {
		return nil
	}
	room := r.rooms[i]
	return &room
}

// testPoint derives the point used for containment: the point location, else the
// curve midpoint, with Z replaced by the level elevation plus the nudge when the
// element has a known level.
func (r *RoomResolver) testPoint(el model.Element) (model.Point3, bool) {
	p, ok := el.Location.Representative()
	if !ok {
		return model.Point3{}, false
	}
	if level, ok := r.levels[el.LevelID]; ok && el.LevelID.Valid() {
		p.Z = level.Elevation + r.nudge
	}
	return p, true
}

// RoomNameValue is the value written by a room-name fill.
func RoomNameValue(room *model.Room) model.Value {
	return model.Value{Text: room.Name, Ref: room.ID}
}

// RoomNumberValue is the value written by a room-number fill.
func RoomNumberValue(room *model.Room) model.Value {
	return model.Value{Text: room.Number, Ref: room.ID}
}
