package testutil

import (
	"path/filepath"
	"testing"

	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/model"
)

// DefaultPhase is the active phase of models built by NewModel.
const DefaultPhase = "New Construction"

// ModelBuilder assembles small building models for tests. Ids are assigned in
// creation order starting at 1.
type ModelBuilder struct {
	file document.File
	next model.ElementID
}

// NewModel returns a builder for a host 2024 model in DefaultPhase.
func NewModel() *ModelBuilder {
	return &ModelBuilder{file: document.File{HostVersion: 2024, ActivePhase: DefaultPhase}}
}

func (b *ModelBuilder) id() model.ElementID {
	b.next++
	return b.next
}

// HostVersion sets the host version.
func (b *ModelBuilder) HostVersion(v int) *ModelBuilder {
	b.file.HostVersion = v
	return b
}

// Level adds a level.
func (b *ModelBuilder) Level(name string, elevation float64) model.Level {
	l := model.Level{ID: b.id(), Name: name, Elevation: elevation}
	b.file.Levels = append(b.file.Levels, l)
	return l
}

// Room adds a rectangular room on level in DefaultPhase spanning height above the level.
func (b *ModelBuilder) Room(number string, name string, level model.Level, minX, minY, maxX, maxY, height float64) model.Room {
	r := model.Room{
		ID:            b.id(),
		Number:        number,
		Name:          name,
		LevelID:       level.ID,
		Phase:         DefaultPhase,
		BaseElevation: level.Elevation,
		Height:        height,
		Footprint:     model.RectFootprint(minX, minY, maxX, maxY),
	}
	b.file.Rooms = append(b.file.Rooms, r)
	return r
}

// ElementOption customises an element added with Element.
type ElementOption func(*model.Element)

// WithBBox sets a bounding box spanning minZ..maxZ over a unit footprint.
func WithBBox(minZ, maxZ float64) ElementOption {
	return func(el *model.Element) {
		el.BBox = &model.BoundingBox{Min: model.Point3{Z: minZ}, Max: model.Point3{X: 1, Y: 1, Z: maxZ}}
	}
}

// WithPoint sets a point location.
func WithPoint(x, y, z float64) ElementOption {
	return func(el *model.Element) {
		el.Location.Point = &model.Point3{X: x, Y: y, Z: z}
	}
}

// WithCurve sets a curve location.
func WithCurve(start, end model.Point3) ElementOption {
	return func(el *model.Element) {
		el.Location.Curve = &model.Curve{Start: start, End: end}
	}
}

// OnLevel associates the element with level.
func OnLevel(level model.Level) ElementOption {
	return func(el *model.Element) {
		el.LevelID = level.ID
	}
}

// InRoom sets the direct room reference.
func InRoom(id model.ElementID) ElementOption {
	return func(el *model.Element) {
		el.RoomID = id
	}
}

// BetweenRooms sets the from-room and to-room references of an opening.
func BetweenRooms(from, to model.ElementID) ElementOption {
	return func(el *model.Element) {
		el.FromRoomID = from
		el.ToRoomID = to
	}
}

// WithProperty attaches p.
func WithProperty(p model.Property) ElementOption {
	return func(el *model.Element) {
		if el.Properties == nil {
			el.Properties = make(map[string]*model.Property)
		}
		cp := p
		el.Properties[p.Name] = &cp
	}
}

// WithText attaches a writable text property holding value. An empty value has no value.
func WithText(name, value string) ElementOption {
	return WithProperty(model.Property{Name: name, Kind: model.StorageText, Text: value, HasValue: value != ""})
}

// WithReadOnlyText attaches a read-only text property.
func WithReadOnlyText(name, value string) ElementOption {
	return WithProperty(model.Property{Name: name, Kind: model.StorageText, ReadOnly: true, Text: value, HasValue: value != ""})
}

// WithEmpty attaches a writable property of kind with no value.
func WithEmpty(name string, kind model.StorageKind) ElementOption {
	return WithProperty(model.Property{Name: name, Kind: kind})
}

// Element adds an element of cat.
func (b *ModelBuilder) Element(cat model.Category, opts ...ElementOption) model.ElementID {
	el := model.Element{ID: b.id(), Category: cat}
	for _, opt := range opts {
		opt(&el)
	}
	b.file.Elements = append(b.file.Elements, el)
	return el.ID
}

// Schema declares the properties of cat.
func (b *ModelBuilder) Schema(cat model.Category, defs ...model.PropertyDef) *ModelBuilder {
	if b.file.Schemas == nil {
		b.file.Schemas = make(map[model.Category][]model.PropertyDef)
	}
	b.file.Schemas[cat] = append(b.file.Schemas[cat], defs...)
	return b
}

// Template adds a group template named name.
func (b *ModelBuilder) Template(name string) model.GroupTemplate {
	t := model.GroupTemplate{ID: b.id(), Name: name}
	b.file.GroupTemplates = append(b.file.GroupTemplates, t)
	return t
}

// Instance places an instance of tmpl. The instance is also an element of the groups
// category carrying the given options; members are wired to it with GroupID.
func (b *ModelBuilder) Instance(tmpl model.GroupTemplate, members []model.ElementID, opts ...ElementOption) model.GroupInstance {
	id := b.Element(model.CategoryGroups, opts...)
	inst := model.GroupInstance{ID: id, TemplateID: tmpl.ID, MemberIDs: append([]model.ElementID(nil), members...)}
	b.file.GroupInstances = append(b.file.GroupInstances, inst)
	for i := range b.file.Elements {
		for _, m := range members {
			if b.file.Elements[i].ID == m {
				b.file.Elements[i].GroupID = id
			}
		}
	}
	for i := range b.file.GroupTemplates {
		if b.file.GroupTemplates[i].ID == tmpl.ID && len(b.file.GroupTemplates[i].MemberIDs) == 0 {
			b.file.GroupTemplates[i].MemberIDs = append([]model.ElementID(nil), members...)
		}
	}
	return inst
}

// File returns the assembled model file.
func (b *ModelBuilder) File() document.File {
	return b.file
}

// Memory builds an in-memory document.
// t is the active test.
func (b *ModelBuilder) Memory(t *testing.T) *document.Memory {
	t.Helper()
	mem, err := document.NewMemory(b.file)
	if err != nil {
		t.Fatalf("build memory document: %v", err)
	}
	return mem
}

// WriteJSON saves the model as a JSON file under dir and returns its path.
// t is the active test; dir is the output directory.
func (b *ModelBuilder) WriteJSON(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "model.json")
	if err := document.SaveFile(path, b.file); err != nil {
		t.Fatalf("save model: %v", err)
	}
	return path
}
