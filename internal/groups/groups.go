// Package groups propagates a group template's name to every member of every placed
// instance of that template.
package groups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/guard"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

// Request selects what to propagate.
type Request struct {
	// TemplateIDs limits the pass to these templates; empty means every template.
	TemplateIDs []model.ElementID
	// Property is the member property receiving the template name.
	Property string
	// Overwrite replaces non-empty values.
	Overwrite bool
	// IncludeInstance also writes the name onto each group instance element.
	IncludeInstance bool
}

// ProgressFunc receives the index of the instance being processed.
type ProgressFunc func(index, total int, message string)

// ExecuteOptions tunes an execute pass.
type ExecuteOptions struct {
	Progress ProgressFunc
	// ChunkSize takes a session checkpoint once at least this many member writes have
	// happened since the last one. Checkpoints fall between instances. Zero disables them.
	ChunkSize int
}

// Engine runs group propagation against one document.
type Engine struct {
	doc   document.Reader
	guard *guard.Guard
	log   *zap.Logger
}

// New returns an engine reading doc and writing through g.
func New(doc document.Reader, g *guard.Guard, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if g == nil {
		g = guard.New(log)
	}
	return &Engine{doc: doc, guard: g, log: log}
}

type templatePlan struct {
	template  model.GroupTemplate
	instances []model.GroupInstance
}

func (p templatePlan) named() bool {
	return strings.TrimSpace(p.template.Name) != ""
}

type plan struct {
	templates []templatePlan
	unknown   []model.ElementID
	instances int
}

// buildPlan groups placed instances by template identity, in document order.
// Instances whose template is not in the document fall under an unnamed template.
func (e *Engine) buildPlan(ctx context.Context, req Request) (*plan, error) {
	templates, err := e.doc.GroupTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf(messages.EngineReadFmt, "group templates", err)
	}
	instances, err := e.doc.GroupInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf(messages.EngineReadFmt, "group instances", err)
	}

	selected := make(map[model.ElementID]bool, len(req.TemplateIDs))
	for _, id := range req.TemplateIDs {
		selected[id] = true
	}
	known := make(map[model.ElementID]bool, len(templates))
	index := make(map[model.ElementID]int)
	p := &plan{}
	for _, t := range templates {
		known[t.ID] = true
		if len(selected) > 0 && !selected[t.ID] {
			continue
		}
		index[t.ID] = len(p.templates)
		p.templates = append(p.templates, templatePlan{template: t})
	}
	for _, id := range req.TemplateIDs {
		if !known[id] {
			p.unknown = append(p.unknown, id)
		}
	}
	for _, inst := range instances {
		i, ok := index[inst.TemplateID]
		if !ok {
			if known[inst.TemplateID] || (len(selected) > 0 && !selected[inst.TemplateID]) {
				continue
			}
			index[inst.TemplateID] = len(p.templates)
			i = len(p.templates)
			p.templates = append(p.templates, templatePlan{template: model.GroupTemplate{ID: inst.TemplateID}})
		}
		p.templates[i].instances = append(p.templates[i].instances, inst)
		p.instances++
	}
	return p, nil
}

// UnknownTemplates returns the requested template ids that are not in the document.
func (e *Engine) UnknownTemplates(ctx context.Context, req Request) ([]model.ElementID, error) {
	p, err := e.buildPlan(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.unknown, nil
}

// Preview estimates a propagation pass without writing. Members are checked with the
// same guard rules Execute applies, so skip reasons match an execute run.
func (e *Engine) Preview(ctx context.Context, req Request) (*summary.PreviewSummary, error) {
	p, err := e.buildPlan(ctx, req)
	if err != nil {
		return nil, err
	}
	out := summary.NewPreviewSummary("")
	for _, id := range p.unknown {
		out.Warn(warnings.Warning{
			Code:     warnings.CodeGroupTemplateUnknown,
			Subject:  id.String(),
			Message:  fmt.Sprintf(messages.WarningGroupUnknownFmt, id),
			Fix:      messages.WarningGroupUnknownFix,
			Source:   warnings.SourceConfig,
			Severity: warnings.SeverityCritical,
		})
	}
	if p.instances == 0 {
		out.Warn(warnings.Warning{
			Code:              warnings.CodeCategoryEmpty,
			Subject:           string(model.CategoryGroups),
			Message:           messages.WarningGroupNoTemplates,
			Fix:               messages.WarningGroupNoTemplatesF,
			Source:            warnings.SourceDocument,
			NoiseSuppressible: true,
		})
	}

	missing := 0
	for _, tp := range p.templates {
		if len(tp.instances) == 0 {
			continue
		}
		out.Templates++
		if !tp.named() {
			out.Warn(warnings.Warning{
				Code:              warnings.CodeGroupTemplateUnnamed,
				Subject:           tp.template.ID.String(),
				Message:           fmt.Sprintf(messages.WarningGroupUnnamedFmt, tp.template.ID, len(tp.instances)),
				Fix:               messages.WarningGroupUnnamedFix,
				Source:            warnings.SourceDocument,
				NoiseSuppressible: true,
			})
		}
		for _, inst := range tp.instances {
			out.Instances++
			if !tp.named() {
				out.Skip(summary.SkipGroupsSkippedNoName, inst.ID)
				continue
			}
			for _, id := range inst.GetMemberIDs() {
				out.Scanned++
				nested, err := e.doc.IsGroupInstance(ctx, id)
				if err != nil {
					return nil, fmt.Errorf(messages.EngineReadFmt, "member "+id.String(), err)
				}
				if nested {
					out.Skip(summary.SkipNestedGroup, id)
					continue
				}
				reason, err := e.estimate(ctx, out, id, req)
				if err != nil {
					return nil, err
				}
				if reason == summary.SkipParameterMissing {
					missing++
				}
			}
			if req.IncludeInstance {
				if _, err := e.estimate(ctx, out, inst.ID, req); err != nil {
					return nil, err
				}
			}
		}
	}
	if missing > 0 {
		out.Warn(warnings.Warning{
			Code:              warnings.CodeGroupPropertyMissing,
			Subject:           req.Property,
			Message:           fmt.Sprintf(messages.WarningGroupPropertyFmt, missing, req.Property),
			Fix:               messages.WarningGroupPropertyFix,
			Source:            warnings.SourceDocument,
			NoiseSuppressible: true,
		})
	}
	return out, nil
}

// estimate records the expected outcome of writing req.Property on id: an estimated
// write, or the skip reason the guard would give. Elements missing from the document
// count as missing the property.
func (e *Engine) estimate(ctx context.Context, out *summary.PreviewSummary, id model.ElementID, req Request) (summary.SkipReason, error) {
	el, err := e.doc.Element(ctx, id)
	if errors.Is(err, document.ErrNotFound) {
		out.Skip(summary.SkipParameterMissing, id)
		return summary.SkipParameterMissing, nil
	}
	if err != nil {
		return "", fmt.Errorf(messages.EngineReadFmt, "element "+id.String(), err)
	}
	if ok, reason := e.guard.CanWrite(&el, req.Property, req.Overwrite); !ok {
		out.Skip(reason, id)
		return reason, nil
	}
	out.Estimate(summary.OpGroupPropagate, 1)
	return "", nil
}

// Execute writes each template's name onto every member of every instance through
// session. Host failures raised by group edits are resolved and counted. The
// returned summary reflects every fully processed instance even when err is non-nil.
func (e *Engine) Execute(ctx context.Context, session document.Session, req Request, opts ExecuteOptions) (*summary.ProcessingSummary, error) {
	out := summary.NewProcessingSummary("")
	p, err := e.buildPlan(ctx, req)
	if err != nil {
		return out, err
	}

	session.SetFailureHandler(func(f document.Failure) document.Resolution {
		out.FailuresResolved++
		e.log.Debug("resolved host failure",
			zap.Stringer("element", f.ElementID),
			zap.String("severity", string(f.Severity)),
			zap.String("message", f.Message))
		return document.Resolve
	})
	defer session.SetFailureHandler(nil)

	// Cancellation is honoured between instances only; writes of an instance in
	// flight always complete.
	writeCtx := context.WithoutCancel(ctx)
	index := 0
	sinceCheckpoint := 0
	for _, tp := range p.templates {
		value := model.TextValue(tp.template.Name)
		for _, inst := range tp.instances {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			index++
			if opts.Progress != nil {
				opts.Progress(index, p.instances, fmt.Sprintf(messages.ProgressGroupFmt, tp.template.Name, index, p.instances))
			}
			if !tp.named() {
				out.Skip(summary.SkipGroupsSkippedNoName, inst.ID)
				continue
			}
			partial := summary.NewProcessingSummary("")
			targets := inst.GetMemberIDs()
			for _, id := range targets {
				partial.Scanned++
				nested, err := e.doc.IsGroupInstance(writeCtx, id)
				if err != nil {
					return out, fmt.Errorf(messages.EngineReadFmt, "member "+id.String(), err)
				}
				if nested {
					partial.Skip(summary.SkipNestedGroup, id)
					continue
				}
				if err := e.write(writeCtx, session, partial, id, req, value); err != nil {
					return out, err
				}
			}
			if req.IncludeInstance {
				if err := e.write(writeCtx, session, partial, inst.ID, req, value); err != nil {
					return out, err
				}
			}
			out.Merge(partial)
			sinceCheckpoint += len(targets)
			if opts.ChunkSize > 0 && sinceCheckpoint >= opts.ChunkSize {
				if err := session.Checkpoint(writeCtx); err != nil {
					return out, fmt.Errorf(messages.EngineCheckpointFmt, inst.ID, err)
				}
				sinceCheckpoint = 0
			}
		}
	}
	out.HostWarnings = len(session.Warnings())
	e.log.Info("group propagation finished",
		zap.Int("templates", len(p.templates)),
		zap.Int("instances", p.instances),
		zap.Int("updated", out.TotalUpdated()),
		zap.Int("skipped", out.TotalSkipped()),
		zap.Int("failures_resolved", out.FailuresResolved))
	return out, nil
}

// write applies one guarded write. Only session-level failures are returned.
func (e *Engine) write(ctx context.Context, session document.Session, s *summary.ProcessingSummary, id model.ElementID, req Request, value model.Value) error {
	el, err := e.doc.Element(ctx, id)
	if errors.Is(err, document.ErrNotFound) {
		s.Record(summary.OpGroupPropagate, id, req.Property, summary.Failed(summary.FailureHost, err))
		return nil
	}
	if err != nil {
		return fmt.Errorf(messages.EngineReadFmt, "element "+id.String(), err)
	}
	o := e.guard.Write(ctx, session, &el, req.Property, value, req.Overwrite)
	if o.Status == summary.StatusFailed && document.IsFatal(o.Err) {
		return fmt.Errorf(messages.EngineFatalWriteFmt, req.Property, id, o.Err)
	}
	s.Record(summary.OpGroupPropagate, id, req.Property, o)
	return nil
}
