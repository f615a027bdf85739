package batch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

// OperationSpec is one selected fill operation and the properties it writes.
type OperationSpec struct {
	Kind    summary.Operation
	Targets []string
}

// FillConfig is the per-run fill configuration.
type FillConfig struct {
	Categories []model.Category
	Operations []OperationSpec
	Overwrite  bool
	// Band is required when the level operation is selected.
	Band *model.Band
	// Phase selects the rooms considered; empty uses the document's active phase.
	Phase string
}

// has reports whether op is selected.
func (cfg FillConfig) has(op summary.Operation) bool {
	for _, spec := range cfg.Operations {
		if spec.Kind == op {
			return true
		}
	}
	return false
}

// orderedOperations returns the selected operations in application order.
func (cfg FillConfig) orderedOperations() []OperationSpec {
	out := make([]OperationSpec, 0, len(cfg.Operations))
	for _, op := range summary.FillOperations() {
		for _, spec := range cfg.Operations {
			if spec.Kind == op {
				out = append(out, spec)
				break
			}
		}
	}
	return out
}

func configWarning(code, subject, message, fix string) warnings.Warning {
	return warnings.Warning{
		Code:     code,
		Subject:  subject,
		Message:  message,
		Fix:      fix,
		Source:   warnings.SourceConfig,
		Severity: warnings.SeverityCritical,
	}
}

// validate checks cfg without touching the document. Every returned warning is
// critical: Execute rejects the configuration, Preview reports it.
func validate(cfg FillConfig) []warnings.Warning {
	var out []warnings.Warning
	if len(cfg.Categories) == 0 {
		out = append(out, configWarning(warnings.CodeNoCategories, "scan.categories", messages.WarningNoCategories, messages.WarningNoCategoriesFix))
	}
	cats := make(map[model.Category]bool, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		if cats[cat] {
			out = append(out, configWarning(warnings.CodeNoCategories, "scan.categories", fmt.Sprintf(messages.EngineDuplicateCategoryFmt, cat), messages.WarningNoCategoriesFix))
		}
		cats[cat] = true
	}
	if len(cfg.Operations) == 0 {
		out = append(out, configWarning(warnings.CodeNoOperations, "operations", messages.WarningNoOperations, messages.WarningNoOperationsFix))
	}
	seen := make(map[summary.Operation]bool, len(cfg.Operations))
	for _, spec := range cfg.Operations {
		subject := "operations." + string(spec.Kind)
		switch {
		case !spec.Kind.Known():
			out = append(out, configWarning(warnings.CodeNoOperations, subject, fmt.Sprintf(messages.EngineUnknownOperationFmt, spec.Kind), messages.WarningNoOperationsFix))
		case seen[spec.Kind]:
			out = append(out, configWarning(warnings.CodeNoOperations, subject, fmt.Sprintf(messages.EngineDuplicateOperationFmt, spec.Kind), messages.WarningNoOperationsFix))
		case len(nonBlank(spec.Targets)) == 0:
			out = append(out, configWarning(warnings.CodeNoOperations, subject, fmt.Sprintf(messages.EngineTargetsRequiredFmt, spec.Kind), messages.WarningNoOperationsFix))
		}
		seen[spec.Kind] = true
	}
	if cfg.has(summary.OpLevel) {
		switch {
		case cfg.Band == nil:
			out = append(out, configWarning(warnings.CodeBandMissing, "band", messages.WarningBandMissing, messages.WarningBandMissingFix))
		default:
			if err := cfg.Band.Validate(); err != nil {
				out = append(out, configWarning(warnings.CodeBandInvalid, "band", fmt.Sprintf(messages.WarningBandInvalidFmt, cfg.Band, err), messages.WarningBandInvalidFix))
			}
		}
	}
	return out
}

// rejection turns critical warnings into one ErrInvalidConfig error.
func rejection(items []warnings.Warning) error {
	var msgs []string
	for _, w := range items {
		if w.Critical() {
			msgs = append(msgs, w.Message)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// IsInvalidConfig reports whether err is a configuration rejection.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
