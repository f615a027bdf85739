package document

import (
	"context"
	"fmt"
	"sync"

	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
)

// Memory is an in-memory document. Begin snapshots the element table; Commit swaps
// the snapshot in and Rollback drops it.
type Memory struct {
	mu          sync.RWMutex
	hostVersion int
	activePhase string
	levels      []model.Level
	rooms       []model.Room
	schemas     map[model.Category][]model.PropertyDef
	order       []model.ElementID
	elements    map[model.ElementID]*model.Element
	templates   []model.GroupTemplate
	instances   []model.GroupInstance
	instanceIDs map[model.ElementID]bool
	faults      map[faultKey]error
	session     *memorySession
	onCommit    func(File) error
}

type faultKey struct {
	id       model.ElementID
	property string
}

// NewMemory builds a document from f. Element, level, room, and group ids must be unique.
func NewMemory(f File) (*Memory, error) {
	m := &Memory{
		hostVersion: f.HostVersion,
		activePhase: f.ActivePhase,
		levels:      append([]model.Level(nil), f.Levels...),
		rooms:       append([]model.Room(nil), f.Rooms...),
		schemas:     make(map[model.Category][]model.PropertyDef, len(f.Schemas)),
		elements:    make(map[model.ElementID]*model.Element, len(f.Elements)),
		templates:   append([]model.GroupTemplate(nil), f.GroupTemplates...),
		instances:   append([]model.GroupInstance(nil), f.GroupInstances...),
		instanceIDs: make(map[model.ElementID]bool, len(f.GroupInstances)),
		faults:      make(map[faultKey]error),
	}
	for cat, defs := range f.Schemas {
		m.schemas[model.NormalizeCategory(string(cat))] = append([]model.PropertyDef(nil), defs...)
	}
	for _, el := range f.Elements {
		if _, dup := m.elements[el.ID]; dup || !el.ID.Valid() {
			return nil, fmt.Errorf(messages.DocumentDuplicateIDFmt, "memory", el.ID)
		}
		cp := el.Clone()
		cp.Category = model.NormalizeCategory(string(cp.Category))
		m.elements[el.ID] = &cp
		m.order = append(m.order, el.ID)
	}
	for _, inst := range f.GroupInstances {
		if m.instanceIDs[inst.ID] {
			return nil, fmt.Errorf(messages.DocumentDuplicateIDFmt, "memory", inst.ID)
		}
		m.instanceIDs[inst.ID] = true
	}
	return m, nil
}

// OnCommit installs fn to persist the committed state. A failing fn undoes the commit.
func (m *Memory) OnCommit(fn func(File) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCommit = fn
}

// InjectFault makes every write of property on id fail with err.
func (m *Memory) InjectFault(id model.ElementID, property string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[faultKey{id: id, property: property}] = err
}

// Snapshot returns the committed state as a File.
func (m *Memory) Snapshot() File {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(m.elements)
}

func (m *Memory) snapshotLocked(elements map[model.ElementID]*model.Element) File {
	f := File{
		HostVersion:    m.hostVersion,
		ActivePhase:    m.activePhase,
		Levels:         append([]model.Level(nil), m.levels...),
		Rooms:          append([]model.Room(nil), m.rooms...),
		Schemas:        make(map[model.Category][]model.PropertyDef, len(m.schemas)),
		Elements:       make([]model.Element, 0, len(m.order)),
		GroupTemplates: append([]model.GroupTemplate(nil), m.templates...),
		GroupInstances: append([]model.GroupInstance(nil), m.instances...),
	}
	for cat, defs := range m.schemas {
		f.Schemas[cat] = append([]model.PropertyDef(nil), defs...)
	}
	for _, id := range m.order {
		f.Elements = append(f.Elements, elements[id].Clone())
	}
	return f
}

// HostVersion implements Reader.
func (m *Memory) HostVersion() int {
	return m.hostVersion
}

// ActivePhase implements Reader.
func (m *Memory) ActivePhase() string {
	return m.activePhase
}

// Levels implements Reader.
func (m *Memory) Levels(ctx context.Context) ([]model.Level, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]model.Level(nil), m.levels...), nil
}

// Rooms implements Reader.
func (m *Memory) Rooms(ctx context.Context, phase string) ([]model.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		if phase == "" || r.Phase == phase {
			out = append(out, r)
		}
	}
	return out, nil
}

// ElementsByCategory implements Reader.
func (m *Memory) ElementsByCategory(ctx context.Context, cat model.Category) ([]model.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Element
	for _, id := range m.order {
		el := m.elements[id]
		if el.Category == cat {
			out = append(out, el.Clone())
		}
	}
	return out, nil
}

// Element implements Reader.
func (m *Memory) Element(ctx context.Context, id model.ElementID) (model.Element, error) {
	if err := ctx.Err(); err != nil {
		return model.Element{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	el, ok := m.elements[id]
	if !ok {
		return model.Element{}, fmt.Errorf("%w: "+messages.DocumentElementNotFoundFmt, ErrNotFound, id)
	}
	return el.Clone(), nil
}

// PropertySchema implements Reader. Without a declared schema, the schema is the
// union of the properties carried by elements of cat, in first-seen order.
func (m *Memory) PropertySchema(ctx context.Context, cat model.Category) ([]model.PropertyDef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if defs, ok := m.schemas[cat]; ok {
		return append([]model.PropertyDef(nil), defs...), nil
	}
	seen := make(map[string]bool)
	var out []model.PropertyDef
	for _, id := range m.order {
		el := m.elements[id]
		if el.Category != cat {
			continue
		}
		for _, name := range sortedPropertyNames(el) {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, el.Properties[name].Def())
		}
	}
	return out, nil
}

// GroupTemplates implements Reader.
func (m *Memory) GroupTemplates(ctx context.Context) ([]model.GroupTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]model.GroupTemplate(nil), m.templates...), nil
}

// GroupInstances implements Reader.
func (m *Memory) GroupInstances(ctx context.Context) ([]model.GroupInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]model.GroupInstance(nil), m.instances...), nil
}

// IsGroupInstance implements Reader.
func (m *Memory) IsGroupInstance(ctx context.Context, id model.ElementID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return m.instanceIDs[id], nil
}

// Begin implements Document.
func (m *Memory) Begin(ctx context.Context, name string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionOpen, messages.DocumentSessionOpen)
	}
	working := make(map[model.ElementID]*model.Element, len(m.elements))
	for id, el := range m.elements {
		cp := el.Clone()
		working[id] = &cp
	}
	s := &memorySession{doc: m, name: name, working: working}
	m.session = s
	return s, nil
}

type memorySession struct {
	doc         *Memory
	name        string
	working     map[model.ElementID]*model.Element
	handler     FailureHandler
	warnings    []Failure
	checkpoints int
	closed      bool
}

func (s *memorySession) SetProperty(ctx context.Context, id model.ElementID, p model.Property) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return fmt.Errorf("%w: %s", ErrSessionClosed, messages.DocumentSessionClosed)
	}
	el, ok := s.working[id]
	if !ok {
		return fmt.Errorf("%w: "+messages.DocumentElementNotFoundFmt, ErrNotFound, id)
	}
	current, ok := el.Property(p.Name)
	if !ok {
		return fmt.Errorf("%w: "+messages.DocumentPropertyMissingFmt, ErrPropertyMissing, id, p.Name)
	}
	if current.ReadOnly {
		return fmt.Errorf("%w: %s on %s", ErrReadOnly, p.Name, id)
	}
	s.doc.mu.RLock()
	fault := s.doc.faults[faultKey{id: id, property: p.Name}]
	s.doc.mu.RUnlock()
	if fault != nil {
		return fault
	}
	if el.GroupID.Valid() {
		f := Failure{
			ElementID: id,
			Property:  p.Name,
			Severity:  SeverityWarning,
			Message:   fmt.Sprintf(messages.DocumentGroupEditWarnFmt, id, el.GroupID),
		}
		if err := raiseFailure(s.handler, &s.warnings, f); err != nil {
			return err
		}
	}
	next := p
	next.Name = current.Name
	next.Kind = current.Kind
	next.ReadOnly = current.ReadOnly
	el.Properties[p.Name] = &next
	return nil
}

// undo puts prev back as property name of id, reverting a SetProperty whose backing
// store refused the write.
func (s *memorySession) undo(id model.ElementID, name string, prev model.Property) {
	if el, ok := s.working[id]; ok {
		el.Properties[name] = &prev
	}
}

// raiseFailure routes f through h, or records it in sink when no handler is installed.
func raiseFailure(h FailureHandler, sink *[]Failure, f Failure) error {
	if h == nil {
		*sink = append(*sink, f)
		return nil
	}
	if h(f) == Resolve {
		return nil
	}
	return fmt.Errorf("%w: "+messages.DocumentAbortedFmt, ErrAborted, f.ElementID, f.Message)
}

func (s *memorySession) Checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return fmt.Errorf("%w: %s", ErrSessionClosed, messages.DocumentSessionClosed)
	}
	s.checkpoints++
	return nil
}

func (s *memorySession) Commit(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("%w: %s", ErrSessionClosed, messages.DocumentSessionClosed)
	}
	m := s.doc
	m.mu.Lock()
	defer m.mu.Unlock()
	previous := m.elements
	m.elements = s.working
	if m.onCommit != nil {
		if err := m.onCommit(m.snapshotLocked(m.elements)); err != nil {
			m.elements = previous
			return err
		}
	}
	s.closed = true
	m.session = nil
	return nil
}

func (s *memorySession) Rollback(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()
	s.closed = true
	s.working = nil
	s.doc.session = nil
	return nil
}

func (s *memorySession) SetFailureHandler(h FailureHandler) {
	s.handler = h
}

func (s *memorySession) Warnings() []Failure {
	return append([]Failure(nil), s.warnings...)
}
