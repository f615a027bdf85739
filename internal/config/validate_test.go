package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *Profile {
	return &Profile{
		Scan:       ScanConfig{Categories: []string{"furniture"}},
		Band:       BandConfig{Base: "Level 1", Top: "Level 2"},
		Operations: OperationsConfig{Level: &OperationConfig{Targets: []string{"Level Name"}}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr string
	}{
		{"valid", func(*Profile) {}, ""},
		{"empty selection is left to the engine", func(p *Profile) { *p = Profile{} }, ""},
		{"blank category", func(p *Profile) { p.Scan.Categories = append(p.Scan.Categories, " ") }, "scan.categories[1] is blank"},
		{"duplicate category", func(p *Profile) { p.Scan.Categories = append(p.Scan.Categories, "Furniture ") }, "more than once"},
		{"blank targets", func(p *Profile) {
			p.Operations.RoomName = &OperationConfig{Targets: []string{""}}
		}, "operations.room_name.targets"},
		{"missing band", func(p *Profile) { p.Band.Top = "" }, "band.base and band.top are required"},
		{"band ignored without level", func(p *Profile) {
			p.Operations.Level = nil
			p.Operations.GroupID = &OperationConfig{Targets: []string{"Group"}}
			p.Band = BandConfig{}
		}, ""},
		{"same level", func(p *Profile) { p.Band.Top = "Level 1" }, "both name"},
		{"blank template", func(p *Profile) { p.Groups.Templates = []string{"Unit A", ""} }, "groups.templates[1]"},
		{"negative nudge", func(p *Profile) { nudge := -1.0; p.Room.PointNudge = &nudge }, "point_nudge"},
		{"noise mode", func(p *Profile) { p.Warnings.NoiseMode = "chatty" }, "warnings.noise_mode"},
		{"noise mode is case insensitive", func(p *Profile) { p.Warnings.NoiseMode = "Quiet" }, ""},
		{"log level", func(p *Profile) { p.Log.Level = "trace" }, "log.level"},
		{"log format", func(p *Profile) { p.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			err := p.Validate("sfill.toml")
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "sfill.toml: "), err.Error())
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
