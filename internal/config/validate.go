package config

import (
	"fmt"
	"strings"

	"github.com/conn-castle/spatialfill/internal/messages"
)

// isValidOption checks value against the options of an enum field. Empty values
// select the field's default and are always valid.
func isValidOption(key string, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return true
	}
	for _, opt := range FieldOptionValues(key) {
		if opt == value {
			return true
		}
	}
	return false
}

// Validate checks the profile's shape. Selection emptiness (no categories, no
// operations) is left to the engine, which reports it with the run.
func (p *Profile) Validate(path string) error {
	seen := make(map[string]bool, len(p.Scan.Categories))
	for i, cat := range p.Scan.Categories {
		key := strings.ToLower(strings.TrimSpace(cat))
		if key == "" {
			return fmt.Errorf(messages.ConfigCategoryBlankFmt, path, i)
		}
		if seen[key] {
			return fmt.Errorf(messages.ConfigCategoryDuplicateFmt, path, cat)
		}
		seen[key] = true
	}

	for _, op := range p.Operations.selected() {
		if len(nonBlank(op.cfg.Targets)) == 0 {
			return fmt.Errorf(messages.ConfigOperationTargetsFmt, path, op.key)
		}
	}

	if p.Operations.Level != nil {
		base := strings.TrimSpace(p.Band.Base)
		top := strings.TrimSpace(p.Band.Top)
		if base == "" || top == "" {
			return fmt.Errorf(messages.ConfigBandRequiredFmt, path)
		}
		if base == top {
			return fmt.Errorf(messages.ConfigBandSameLevelFmt, path, base)
		}
	}

	for i, name := range p.Groups.Templates {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf(messages.ConfigTemplateBlankFmt, path, i)
		}
	}

	if p.Room.PointNudge != nil && *p.Room.PointNudge < 0 {
		return fmt.Errorf(messages.ConfigPointNudgeFmt, path, *p.Room.PointNudge)
	}

	if !isValidOption("warnings.noise_mode", p.Warnings.NoiseMode) {
		return fmt.Errorf(messages.ConfigEnumInvalidFmt, path, "warnings.noise_mode", p.Warnings.NoiseMode, strings.Join(FieldOptionValues("warnings.noise_mode"), ", "))
	}
	if !isValidOption("log.level", p.Log.Level) {
		return fmt.Errorf(messages.ConfigEnumInvalidFmt, path, "log.level", p.Log.Level, strings.Join(FieldOptionValues("log.level"), ", "))
	}
	if !isValidOption("log.format", p.Log.Format) {
		return fmt.Errorf(messages.ConfigEnumInvalidFmt, path, "log.format", p.Log.Format, strings.Join(FieldOptionValues("log.format"), ", "))
	}
	return nil
}

type namedOperation struct {
	key string
	cfg *OperationConfig
}

// selected returns the configured operations with their profile keys.
func (o OperationsConfig) selected() []namedOperation {
	var out []namedOperation
	for _, op := range []namedOperation{
		{"level", o.Level},
		{"room_name", o.RoomName},
		{"room_number", o.RoomNumber},
		{"group_id", o.GroupID},
	} {
		if op.cfg != nil {
			out = append(out, op)
		}
	}
	return out
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
