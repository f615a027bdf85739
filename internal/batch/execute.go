package batch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/summary"
)

// ExecuteFill validates cfg, then applies every selected operation to every element
// of the scan set inside one document session.
//
// A rejected configuration returns ErrInvalidConfig and no summary. Per-element skips
// and failures are recorded and never abort the run. A panic, a session-level error,
// or cancellation rolls back the whole run: the returned summary then counts only the
// fully processed elements, has State RolledBack, and the error wraps ErrRolledBack
// and the cause.
func (c *Coordinator) ExecuteFill(ctx context.Context, cfg FillConfig, progress ProgressFunc) (*summary.ProcessingSummary, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}
	final := summary.StateIdle
	defer func() { c.release(final) }()

	if err := rejection(validate(cfg)); err != nil {
		c.log.Warn("fill configuration rejected", zap.Error(err))
		return nil, err
	}
	p, err := c.loadPlan(ctx, cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range p.warnings {
		c.log.Warn("fill validation warning", zap.String("code", w.Code), zap.String("subject", w.Subject), zap.String("message", w.Message))
	}

	out, err := c.runSession(ctx, ModeFill, func(sessCtx context.Context, session document.Session, out *summary.ProcessingSummary) error {
		return c.fillElements(ctx, sessCtx, session, p, cfg.Overwrite, out, safeProgress(progress))
	})
	if out != nil {
		final = out.State
	}
	return out, err
}

// runSession opens the run's session, runs body, and commits or rolls back. Session
// calls use a context detached from ctx's cancellation so a cancelled run can still
// roll back cleanly.
func (c *Coordinator) runSession(ctx context.Context, mode string, body func(context.Context, document.Session, *summary.ProcessingSummary) error) (out *summary.ProcessingSummary, err error) {
	start := c.now()
	out = summary.NewProcessingSummary(c.newRunID())
	c.setState(summary.StateExecuting, true)
	out.State = summary.StateExecuting
	log := c.log.With(zap.String("run_id", out.RunID), zap.String("mode", mode))

	sessCtx := context.WithoutCancel(ctx)
	session, err := c.doc.Begin(sessCtx, "sfill "+mode+" "+out.RunID)
	if err != nil {
		out.State = summary.StateIdle
		return nil, fmt.Errorf(messages.EngineBeginFmt, err)
	}

	defer func() {
		out.Duration = c.now().Sub(start)
		if c.observer != nil {
			c.observer.ObserveProcessing(mode, out)
		}
		log.Info("run finished",
			zap.String("state", string(out.State)),
			zap.Bool("cancelled", out.Cancelled),
			zap.Int("scanned", out.Scanned),
			zap.Int("updated", out.TotalUpdated()),
			zap.Int("skipped", out.TotalSkipped()),
			zap.Int("failures", len(out.Failures)),
			zap.Duration("duration", out.Duration))
	}()

	if runErr := protect(func() error { return body(sessCtx, session, out) }); runErr != nil {
		return out, c.rollback(sessCtx, session, out, runErr, log)
	}
	out.HostWarnings = len(session.Warnings())
	if err := session.Commit(sessCtx); err != nil {
		return out, c.rollback(sessCtx, session, out, fmt.Errorf(messages.EngineCommitFmt, err), log)
	}
	out.State = summary.StateCompleted
	return out, nil
}

// protect runs fn and converts a panic into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf(messages.EngineRunPanicFmt, r)
		}
	}()
	return fn()
}

func (c *Coordinator) rollback(ctx context.Context, session document.Session, out *summary.ProcessingSummary, cause error, log *zap.Logger) error {
	out.State = summary.StateRolledBack
	out.Cancelled = errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded)
	log.Warn("rolling back run", zap.Error(cause))
	err := fmt.Errorf("%w: %w", ErrRolledBack, cause)
	if rbErr := session.Rollback(ctx); rbErr != nil {
		return fmt.Errorf(messages.EngineRollbackFailedFmt, err, rbErr)
	}
	return err
}

// fillElements is the per-element fold of an execute run. Cancellation is checked
// between elements only; checkpoints are taken after whole elements.
func (c *Coordinator) fillElements(ctx context.Context, sessCtx context.Context, session document.Session, p *scanPlan, overwrite bool, out *summary.ProcessingSummary, progress func(int, int, string)) error {
	total := len(p.elements)
	for i := range p.elements {
		if err := ctx.Err(); err != nil {
			return err
		}
		el := p.elements[i].Clone()
		progress(i+1, total, fmt.Sprintf(messages.ProgressProcessingFmt, i+1, total))

		part := summary.NewProcessingSummary(out.RunID)
		part.Scanned = 1
		counted := false
		for _, d := range p.derive(el) {
			if d.method != "" && !counted {
				part.Detect(string(d.method))
				counted = true
			}
			if d.skip != "" {
				part.Skip(d.skip, el.ID)
				continue
			}
			for _, b := range p.bindings.targets(el.Category, d.spec.Kind) {
				o := c.guard.Write(sessCtx, session, &el, b.Def.Name, d.value, overwrite)
				if o.Status == summary.StatusFailed && document.IsFatal(o.Err) {
					return fmt.Errorf(messages.EngineFatalWriteFmt, b.Def.Name, el.ID, o.Err)
				}
				part.Record(d.spec.Kind, el.ID, b.Def.Name, o)
			}
		}
		out.Merge(part)

		if c.chunk > 0 && (i+1)%c.chunk == 0 && i+1 < total {
			if err := session.Checkpoint(sessCtx); err != nil {
				return fmt.Errorf(messages.EngineCheckpointFmt, el.ID, err)
			}
			c.log.Debug("checkpoint", zap.String("run_id", out.RunID), zap.Int("elements", i+1))
		}
	}
	progress(total, total, messages.ProgressCommitting)
	return nil
}
