package config

import (
	"fmt"
	"strings"

	"github.com/conn-castle/spatialfill/internal/batch"
	"github.com/conn-castle/spatialfill/internal/groups"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

// FillConfig converts the profile into an engine configuration, resolving band level
// names against levels. Names that match no level come back as critical warnings
// and leave the band unset.
func (p *Profile) FillConfig(levels []model.Level) (batch.FillConfig, []warnings.Warning) {
	cfg := batch.FillConfig{
		Overwrite: p.Fill.Overwrite,
		Phase:     strings.TrimSpace(p.Scan.Phase),
	}
	for _, raw := range p.Scan.Categories {
		if cat := model.NormalizeCategory(raw); cat != "" {
			cfg.Categories = append(cfg.Categories, cat)
		}
	}
	kinds := map[string]summary.Operation{
		"level":       summary.OpLevel,
		"room_name":   summary.OpRoomName,
		"room_number": summary.OpRoomNumber,
		"group_id":    summary.OpGroupID,
	}
	for _, op := range p.Operations.selected() {
		cfg.Operations = append(cfg.Operations, batch.OperationSpec{Kind: kinds[op.key], Targets: nonBlank(op.cfg.Targets)})
	}

	var ws []warnings.Warning
	if p.Operations.Level == nil {
		return cfg, ws
	}
	baseName := strings.TrimSpace(p.Band.Base)
	topName := strings.TrimSpace(p.Band.Top)
	if baseName == "" && topName == "" {
		return cfg, ws
	}
	base, okBase := findLevel(levels, baseName)
	top, okTop := findLevel(levels, topName)
	if !okBase {
		ws = append(ws, levelWarning("band.base", baseName))
	}
	if !okTop {
		ws = append(ws, levelWarning("band.top", topName))
	}
	if okBase && okTop {
		cfg.Band = &model.Band{Base: base, Top: top}
	}
	return cfg, ws
}

func findLevel(levels []model.Level, name string) (model.Level, bool) {
	for _, l := range levels {
		if strings.EqualFold(strings.TrimSpace(l.Name), name) {
			return l, true
		}
	}
	return model.Level{}, false
}

func levelWarning(subject, name string) warnings.Warning {
	return warnings.Warning{
		Code:     warnings.CodeBandInvalid,
		Subject:  subject,
		Message:  fmt.Sprintf(messages.ConfigLevelUnknownFmt, name),
		Fix:      messages.ConfigLevelUnknownFix,
		Source:   warnings.SourceConfig,
		Severity: warnings.SeverityCritical,
	}
}

// GroupRequest converts the profile's groups section, resolving template names
// against templates. Unknown names come back as critical warnings.
func (p *Profile) GroupRequest(templates []model.GroupTemplate) (groups.Request, []warnings.Warning) {
	req := groups.Request{
		Property:        strings.TrimSpace(p.Groups.Property),
		Overwrite:       p.Groups.Overwrite,
		IncludeInstance: p.Groups.IncludeInstance,
	}
	var ws []warnings.Warning
	for _, name := range nonBlank(p.Groups.Templates) {
		found := false
		for _, t := range templates {
			if strings.TrimSpace(t.Name) == name {
				req.TemplateIDs = append(req.TemplateIDs, t.ID)
				found = true
			}
		}
		if !found {
			ws = append(ws, warnings.Warning{
				Code:     warnings.CodeGroupTemplateUnknown,
				Subject:  "groups.templates",
				Message:  fmt.Sprintf(messages.ConfigTemplateUnknownFmt, name),
				Fix:      messages.ConfigTemplateUnknownFix,
				Source:   warnings.SourceConfig,
				Severity: warnings.SeverityCritical,
			})
		}
	}
	return req, ws
}

// Rejection folds critical warnings into one ErrConfigValidation error, or nil.
func Rejection(items []warnings.Warning) error {
	var msgs []string
	for _, w := range items {
		if w.Critical() {
			msgs = append(msgs, w.Message)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrConfigValidation, strings.Join(msgs, "; "))
}
