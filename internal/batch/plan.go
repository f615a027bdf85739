package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/conn-castle/spatialfill/internal/classify"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

// scanPlan is everything a run reads before it starts: the scan set in stable order,
// the bound targets, and the classifiers.
type scanPlan struct {
	cfg        FillConfig
	ops        []OperationSpec
	band       *model.Band
	bindings   bindingSet
	resolver   *classify.RoomResolver
	groupNames map[model.ElementID]string
	instances  map[model.ElementID]bool
	memberOf   map[model.ElementID]model.ElementID
	nested     map[model.ElementID]bool
	elements   []model.Element
	warnings   []warnings.Warning
}

// loadPlan reads the scan set and builds the classifiers. It never writes.
func (c *Coordinator) loadPlan(ctx context.Context, cfg FillConfig) (*scanPlan, error) {
	p := &scanPlan{cfg: cfg, ops: cfg.orderedOperations()}
	if cfg.Band != nil && cfg.Band.Validate() == nil {
		band := *cfg.Band
		p.band = &band
	}

	bindings, ws, err := bind(ctx, c.doc, cfg)
	if err != nil {
		return nil, err
	}
	p.bindings = bindings
	p.warnings = append(p.warnings, ws...)

	if cfg.has(summary.OpRoomName) || cfg.has(summary.OpRoomNumber) {
		phase := cfg.Phase
		if phase == "" {
			phase = c.doc.ActivePhase()
		}
		rooms, err := c.doc.Rooms(ctx, phase)
		if err != nil {
			return nil, fmt.Errorf(messages.EngineReadFmt, "rooms", err)
		}
		levels, err := c.doc.Levels(ctx)
		if err != nil {
			return nil, fmt.Errorf(messages.EngineReadFmt, "levels", err)
		}
		if len(rooms) == 0 {
			p.warnings = append(p.warnings, warnings.Warning{
				Code:     warnings.CodePhaseHasNoRooms,
				Subject:  phase,
				Message:  fmt.Sprintf(messages.WarningPhaseNoRoomsFmt, phase),
				Fix:      messages.WarningPhaseNoRoomsFix,
				Source:   warnings.SourceDocument,
				Severity: warnings.SeverityWarning,
			})
		}
		p.resolver = classify.NewRoomResolver(c.caps, rooms, levels, phase, c.nudge)
	}

	instances, err := c.doc.GroupInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf(messages.EngineReadFmt, "group instances", err)
	}
	p.instances = make(map[model.ElementID]bool, len(instances))
	for _, inst := range instances {
		p.instances[inst.ID] = true
	}
	// Membership comes from the instance member lists; an element's own group_id is
	// only a fallback.
	p.memberOf = make(map[model.ElementID]model.ElementID)
	p.nested = make(map[model.ElementID]bool)
	for _, inst := range instances {
		for _, id := range inst.GetMemberIDs() {
			if _, ok := p.memberOf[id]; !ok {
				p.memberOf[id] = inst.ID
			}
			if p.instances[id] {
				p.nested[id] = true
			}
		}
	}
	if cfg.has(summary.OpGroupID) {
		templates, err := c.doc.GroupTemplates(ctx)
		if err != nil {
			return nil, fmt.Errorf(messages.EngineReadFmt, "group templates", err)
		}
		names := make(map[model.ElementID]string, len(templates))
		for _, t := range templates {
			names[t.ID] = t.Name
		}
		p.groupNames = make(map[model.ElementID]string, len(instances))
		for _, inst := range instances {
			p.groupNames[inst.ID] = names[inst.TemplateID]
		}
	}

	for _, cat := range cfg.Categories {
		els, err := c.doc.ElementsByCategory(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf(messages.EngineReadFmt, "category "+string(cat), err)
		}
		if len(els) == 0 {
			p.warnings = append(p.warnings, warnings.Warning{
				Code:              warnings.CodeCategoryEmpty,
				Subject:           string(cat),
				Message:           fmt.Sprintf(messages.WarningCategoryEmptyFmt, cat),
				Fix:               messages.WarningCategoryEmptyFix,
				Source:            warnings.SourceDocument,
				Severity:          warnings.SeverityWarning,
				NoiseSuppressible: true,
			})
		}
		p.elements = append(p.elements, els...)
	}
	return p, nil
}

// derivation is the classified outcome of one operation on one element: either a
// value to write or a skip reason.
type derivation struct {
	spec   OperationSpec
	value  model.Value
	skip   summary.SkipReason
	method classify.Method
}

// derive classifies el for every selected operation, in application order. Room
// resolution runs at most once per element.
func (p *scanPlan) derive(el model.Element) []derivation {
	out := make([]derivation, 0, len(p.ops))
	if p.isNested(el) {
		for _, spec := range p.ops {
			out = append(out, derivation{spec: spec, skip: summary.SkipNestedGroup})
		}
		return out
	}
	var room *classify.Resolution
	resolveRoom := func() classify.Resolution {
		if room == nil {
			r := p.resolver.Resolve(el)
			room = &r
		}
		return *room
	}
	for _, spec := range p.ops {
		d := derivation{spec: spec}
		switch spec.Kind {
		case summary.OpLevel:
			if p.band == nil {
				continue
			}
			if pos := classify.Level(el, *p.band); pos != classify.InBand {
				d.skip = pos.SkipReason()
			} else {
				d.value = classify.LevelValue(*p.band)
			}
		case summary.OpRoomName:
			r := resolveRoom()
			d.method = r.Method
			if r.Found() {
				d.value = classify.RoomNameValue(r.Room)
			} else {
				d.skip = r.SkipReason()
			}
		case summary.OpRoomNumber:
			r := resolveRoom()
			d.method = r.Method
			if r.Found() {
				d.value = classify.RoomNumberValue(r.Room)
			} else {
				d.skip = r.SkipReason()
			}
		case summary.OpGroupID:
			group := p.groupOf(el)
			name, ok := p.groupNames[group]
			switch {
			case !group.Valid() || !ok:
				d.skip = summary.SkipNotInGroup
			case strings.TrimSpace(name) == "":
				d.skip = summary.SkipGroupsSkippedNoName
			default:
				d.value = model.Value{Text: name, Ref: group}
			}
		}
		out = append(out, d)
	}
	return out
}

// isNested reports whether el is a group instance placed inside another instance.
func (p *scanPlan) isNested(el model.Element) bool {
	if !p.instances[el.ID] {
		return false
	}
	return p.nested[el.ID] || el.GroupID.Valid()
}

// groupOf returns the instance that lists el as a member, else el's own group_id.
func (p *scanPlan) groupOf(el model.Element) model.ElementID {
	if id, ok := p.memberOf[el.ID]; ok {
		return id
	}
	return el.GroupID
}
