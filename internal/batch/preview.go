package batch

import (
	"context"

	"go.uber.org/zap"

	"github.com/conn-castle/spatialfill/internal/summary"
)

// PreviewFill estimates a fill run without opening a session or writing. It is
// lenient: configuration and document problems come back as warnings, and only read
// failures are returned as errors. Previews may run concurrently.
func (c *Coordinator) PreviewFill(ctx context.Context, cfg FillConfig) (*summary.PreviewSummary, error) {
	start := c.now()
	c.setState(summary.StateValidating, false)
	out := summary.NewPreviewSummary(c.newRunID())
	out.Warn(validate(cfg)...)

	c.setState(summary.StatePreview, false)
	p, err := c.loadPlan(ctx, cfg)
	if err != nil {
		c.setState(summary.StateIdle, false)
		return nil, err
	}
	out.Warn(p.warnings...)

	for _, el := range p.elements {
		if err := ctx.Err(); err != nil {
			c.setState(summary.StateIdle, false)
			return nil, err
		}
		out.Scanned++
		counted := false
		for _, d := range p.derive(el) {
			if d.method != "" && !counted {
				out.Detect(string(d.method))
				counted = true
			}
			if d.skip != "" {
				out.Skip(d.skip, el.ID)
				continue
			}
			out.Estimate(d.spec.Kind, len(p.bindings.targets(el.Category, d.spec.Kind)))
		}
	}
	out.Duration = c.now().Sub(start)
	c.setState(summary.StateCompleted, false)

	c.log.Info("fill preview finished",
		zap.String("run_id", out.RunID),
		zap.Int("scanned", out.Scanned),
		zap.Int("estimated", out.TotalEstimated()),
		zap.Int("warnings", len(out.Warnings)))
	if c.observer != nil {
		c.observer.ObservePreview(ModeFill, out)
	}
	return out, nil
}
