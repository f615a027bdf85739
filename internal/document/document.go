// Package document adapts host building-model documents for the fill engine. A
// Document exposes read access to elements, levels, rooms, and groups, and opens
// Sessions, the mutation boundary inside which property writes happen.
package document

import (
	"context"
	"errors"

	"github.com/conn-castle/spatialfill/internal/model"
)

var (
	// ErrSessionOpen is returned by Begin while another session is open.
	ErrSessionOpen = errors.New("document session already open")
	// ErrSessionClosed is returned by session calls after Commit or Rollback.
	ErrSessionClosed = errors.New("document session closed")
	// ErrNotFound reports a missing element.
	ErrNotFound = errors.New("element not found")
	// ErrPropertyMissing reports a write to a property the element does not have.
	ErrPropertyMissing = errors.New("property missing")
	// ErrReadOnly reports a write to a read-only property.
	ErrReadOnly = errors.New("property is read-only")
	// ErrAborted reports a host failure that the failure handler declined to resolve.
	ErrAborted = errors.New("session aborted by host failure")
)

// IsFatal reports whether err invalidates the whole session rather than one write.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSessionClosed) || errors.Is(err, ErrAborted)
}

// Reader is the read side of a document.
type Reader interface {
	// HostVersion is the host release that produced the document.
	HostVersion() int
	// ActivePhase is the phase rooms are resolved in.
	ActivePhase() string
	// Levels returns the document levels in document order.
	Levels(ctx context.Context) ([]model.Level, error)
	// Rooms returns the rooms of phase in document order. An empty phase returns all rooms.
	Rooms(ctx context.Context, phase string) ([]model.Room, error)
	// ElementsByCategory returns copies of the elements of cat in document order.
	ElementsByCategory(ctx context.Context, cat model.Category) ([]model.Element, error)
	// Element returns a copy of one element.
	Element(ctx context.Context, id model.ElementID) (model.Element, error)
	// PropertySchema returns the declared properties of cat.
	PropertySchema(ctx context.Context, cat model.Category) ([]model.PropertyDef, error)
	// GroupTemplates returns the group templates in document order.
	GroupTemplates(ctx context.Context) ([]model.GroupTemplate, error)
	// GroupInstances returns the placed group instances in document order.
	GroupInstances(ctx context.Context) ([]model.GroupInstance, error)
	// IsGroupInstance reports whether id is a placed group instance.
	IsGroupInstance(ctx context.Context, id model.ElementID) (bool, error)
}

// Document is a readable document that can open a mutation session.
type Document interface {
	Reader
	// Begin opens the single mutation boundary of a run.
	Begin(ctx context.Context, name string) (Session, error)
}

// Session is one atomic mutation boundary. Writes are invisible to Reader calls
// until Commit.
type Session interface {
	// SetProperty writes p onto element id. p must carry the property's storage kind.
	SetProperty(ctx context.Context, id model.ElementID, p model.Property) error
	// Checkpoint marks a chunk boundary. It never makes writes visible on its own;
	// Rollback still discards everything written since Begin.
	Checkpoint(ctx context.Context) error
	// Commit makes every write visible and closes the session.
	Commit(ctx context.Context) error
	// Rollback discards every write and closes the session. Rolling back a closed
	// session is a no-op.
	Rollback(ctx context.Context) error
	// SetFailureHandler installs the handler consulted when the host raises a failure.
	SetFailureHandler(h FailureHandler)
	// Warnings returns host failures raised while no handler was installed.
	Warnings() []Failure
}

// Severity grades a host failure.
type Severity string

// Failure severities.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Failure is a host-raised warning or error during a write.
type Failure struct {
	ElementID model.ElementID `json:"element_id"`
	Property  string          `json:"property"`
	Severity  Severity        `json:"severity"`
	Message   string          `json:"message"`
}

// Resolution is a failure handler's decision.
type Resolution int

const (
	// Abort fails the write with ErrAborted.
	Abort Resolution = iota
	// Resolve dismisses the failure and keeps the write.
	Resolve
)

// FailureHandler decides how a host failure is handled.
type FailureHandler func(Failure) Resolution

// Store is a Document backed by a file that must be closed.
type Store interface {
	Document
	Close() error
}
