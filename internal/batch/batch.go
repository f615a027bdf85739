// Package batch coordinates fill runs: validation, read-only preview, and execute
// inside one atomic document session with whole-run rollback.
package batch

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conn-castle/spatialfill/internal/classify"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/groups"
	"github.com/conn-castle/spatialfill/internal/guard"
	"github.com/conn-castle/spatialfill/internal/host"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/summary"
)

var (
	// ErrInvalidConfig wraps configuration problems detected before any mutation.
	ErrInvalidConfig = errors.New("invalid fill configuration")
	// ErrBusy is returned when an execute run is already in progress.
	ErrBusy = errors.New("an execute run is already in progress")
	// ErrRolledBack wraps the cause of a run whose writes were discarded.
	ErrRolledBack = errors.New("run rolled back")
)

// DefaultChunkSize is the number of elements between session checkpoints.
const DefaultChunkSize = 2000

// Mode labels a run kind for observers.
const (
	ModeFill   = "fill"
	ModeGroups = "groups"
)

// Observer receives run results. metrics.Recorder implements it.
type Observer interface {
	ObservePreview(mode string, p *summary.PreviewSummary)
	ObserveProcessing(mode string, s *summary.ProcessingSummary)
}

// Options are the coordinator's collaborators and tunables.
type Options struct {
	Logger   *zap.Logger
	Observer Observer
	// ChunkSize is the number of elements between checkpoints; 0 selects
	// DefaultChunkSize and a negative value disables checkpoints.
	ChunkSize int
	// PointNudge overrides classify.DefaultPointNudge when set. It must not be
	// negative.
	PointNudge *float64
	NewRunID   func() string
	Now        func() time.Time
}

// Coordinator runs previews and executes against one document.
type Coordinator struct {
	doc      document.Document
	caps     host.Capabilities
	guard    *guard.Guard
	groups   *groups.Engine
	log      *zap.Logger
	observer Observer
	chunk    int
	nudge    float64
	newRunID func() string
	now      func() time.Time

	mu        sync.Mutex
	state     summary.State
	executing bool
}

// New returns a coordinator for doc using the capabilities of its host version.
func New(doc document.Document, caps host.Capabilities, opts Options) (*Coordinator, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, messages.EngineDocumentRequired)
	}
	if caps == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, messages.EngineCapabilitiesRequired)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	chunk := opts.ChunkSize
	if chunk == 0 {
		chunk = DefaultChunkSize
	}
	if chunk < 0 {
		chunk = 0
	}
	nudge := classify.DefaultPointNudge
	if opts.PointNudge != nil {
		if *opts.PointNudge < 0 {
			return nil, fmt.Errorf("%w: "+messages.EngineNudgeInvalidFmt, ErrInvalidConfig, *opts.PointNudge)
		}
		nudge = *opts.PointNudge
	}
	newRunID := opts.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	g := guard.New(log.Named("guard"))
	return &Coordinator{
		doc:      doc,
		caps:     caps,
		guard:    g,
		groups:   groups.New(doc, g, log.Named("groups")),
		log:      log,
		observer: opts.Observer,
		chunk:    chunk,
		nudge:    nudge,
		newRunID: newRunID,
		now:      now,
		state:    summary.StateIdle,
	}, nil
}

// State returns the current state of the coordinator.
func (c *Coordinator) State() summary.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// setState records a transition. Preview transitions are not recorded while an
// execute run owns the state.
func (c *Coordinator) setState(s summary.State, fromExecute bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.executing && !fromExecute {
		return
	}
	c.state = s
}

// acquire claims the single execute slot.
func (c *Coordinator) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.executing {
		return ErrBusy
	}
	c.executing = true
	c.state = summary.StateValidating
	return nil
}

// release frees the execute slot and records the final state.
func (c *Coordinator) release(final summary.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executing = false
	c.state = final
}
