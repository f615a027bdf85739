// Package guard decides whether a property may be written and performs type-safe writes.
package guard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
)

// Writer applies a coerced property to the document. document.Session implements it.
type Writer interface {
	SetProperty(ctx context.Context, id model.ElementID, p model.Property) error
}

// Guard checks and performs property writes.
type Guard struct {
	log *zap.Logger
}

// New returns a guard logging rejected writes to log. A nil log discards output.
func New(log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{log: log}
}

// CanWrite reports whether property name on el may be written. The checks run in
// order: the property must exist, must be writable, and unless overwrite is set must
// not already hold a non-empty value.
func (g *Guard) CanWrite(el *model.Element, name string, overwrite bool) (bool, summary.SkipReason) {
	p, ok := el.Property(name)
	if !ok {
		return false, summary.SkipParameterMissing
	}
	if p.ReadOnly {
		return false, summary.SkipParameterReadOnly
	}
	if !overwrite && !p.IsEmpty() {
		return false, summary.SkipValueExists
	}
	return true, ""
}

// Write checks CanWrite, coerces v to the property's storage kind, and sets it
// through w. Coercion and host errors are failures, not skips. On success el's
// property bag is updated so later writes in the same run see the new value.
func (g *Guard) Write(ctx context.Context, w Writer, el *model.Element, name string, v model.Value, overwrite bool) summary.Outcome {
	if ok, reason := g.CanWrite(el, name, overwrite); !ok {
		return summary.Skipped(reason)
	}
	current, _ := el.Property(name)
	next, err := model.Coerce(current.Def(), v)
	if err != nil {
		g.log.Debug("coercion failed",
			zap.Stringer("element", el.ID),
			zap.String("property", name),
			zap.Error(err))
		return summary.Failed(summary.FailureCoercion, fmt.Errorf(messages.GuardCoerceFmt, name, err))
	}
	if err := w.SetProperty(ctx, el.ID, next); err != nil {
		g.log.Debug("host rejected write",
			zap.Stringer("element", el.ID),
			zap.String("property", name),
			zap.Error(err))
		return summary.Failed(summary.FailureHost, fmt.Errorf(messages.GuardSetFmt, name, err))
	}
	el.Properties[name] = &next
	return summary.Success()
}
