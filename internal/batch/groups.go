package batch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/groups"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/summary"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

// PreviewGroupPropagate estimates a group propagation pass. A missing target
// property is reported as a critical warning.
func (c *Coordinator) PreviewGroupPropagate(ctx context.Context, req groups.Request) (*summary.PreviewSummary, error) {
	start := c.now()
	c.setState(summary.StateValidating, false)
	runID := c.newRunID()
	if strings.TrimSpace(req.Property) == "" {
		out := summary.NewPreviewSummary(runID)
		out.Warn(configWarning(warnings.CodeGroupPropertyMissing, "groups.property", messages.EngineGroupPropertyRequired, messages.WarningGroupPropertyFix))
		c.setState(summary.StateCompleted, false)
		return out, nil
	}
	c.setState(summary.StatePreview, false)
	out, err := c.groups.Preview(ctx, req)
	if err != nil {
		c.setState(summary.StateIdle, false)
		return nil, err
	}
	out.RunID = runID
	out.Duration = c.now().Sub(start)
	c.setState(summary.StateCompleted, false)
	c.log.Info("group preview finished",
		zap.String("run_id", out.RunID),
		zap.Int("templates", out.Templates),
		zap.Int("instances", out.Instances),
		zap.Int("estimated", out.TotalEstimated()))
	if c.observer != nil {
		c.observer.ObservePreview(ModeGroups, out)
	}
	return out, nil
}

// ExecuteGroupPropagate validates req and runs group propagation inside one session
// with the same rollback rules as ExecuteFill.
func (c *Coordinator) ExecuteGroupPropagate(ctx context.Context, req groups.Request, progress ProgressFunc) (*summary.ProcessingSummary, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}
	final := summary.StateIdle
	defer func() { c.release(final) }()

	if strings.TrimSpace(req.Property) == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, messages.EngineGroupPropertyRequired)
	}
	unknown, err := c.groups.UnknownTemplates(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(unknown) > 0 {
		msgs := make([]string, 0, len(unknown))
		for _, id := range unknown {
			msgs = append(msgs, fmt.Sprintf(messages.EngineUnknownTemplateFmt, id))
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}

	out, err := c.runSession(ctx, ModeGroups, func(_ context.Context, session document.Session, out *summary.ProcessingSummary) error {
		res, err := c.groups.Execute(ctx, session, req, groups.ExecuteOptions{
			Progress:  safeProgress(progress),
			ChunkSize: c.chunk,
		})
		out.Merge(res)
		return err
	})
	if out != nil {
		final = out.State
	}
	return out, err
}
