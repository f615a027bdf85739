package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/spatialfill/internal/batch"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

var levels = []model.Level{
	{ID: 1, Name: "Level 1", Elevation: 0},
	{ID: 2, Name: "Level 2", Elevation: 10},
}

func TestFillConfig(t *testing.T) {
	p, err := ParseProfile([]byte(fullProfile), "sfill.toml")
	require.NoError(t, err)

	cfg, ws := p.FillConfig(levels)
	assert.Empty(t, ws)
	assert.Equal(t, []model.Category{model.CategoryFurniture, model.CategoryDoors}, cfg.Categories)
	assert.Equal(t, []batch.OperationSpec{
		{Kind: summary.OpLevel, Targets: []string{"Level Name"}},
		{Kind: summary.OpRoomNumber, Targets: []string{"Room Number", "Asset Room"}},
	}, cfg.Operations)
	require.NotNil(t, cfg.Band)
	assert.Equal(t, model.ElementID(1), cfg.Band.Base.ID)
	assert.Equal(t, model.ElementID(2), cfg.Band.Top.ID)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, "New Construction", cfg.Phase)
}

func TestFillConfigUnknownLevel(t *testing.T) {
	p := validProfile()
	p.Band.Top = "Roof"

	cfg, ws := p.FillConfig(levels)
	assert.Nil(t, cfg.Band)
	require.Len(t, ws, 1)
	assert.Equal(t, warnings.CodeBandInvalid, ws[0].Code)
	assert.Equal(t, "band.top", ws[0].Subject)
	assert.True(t, ws[0].Critical())

	err := Rejection(ws)
	assert.True(t, errors.Is(err, ErrConfigValidation))
	assert.Contains(t, err.Error(), `"Roof"`)
}

func TestFillConfigWithoutBandLeavesItToTheEngine(t *testing.T) {
	p := validProfile()
	p.Band = BandConfig{}

	cfg, ws := p.FillConfig(levels)
	assert.Nil(t, cfg.Band)
	assert.Empty(t, ws)
}

func TestGroupRequest(t *testing.T) {
	templates := []model.GroupTemplate{{ID: 6, Name: "Unit A"}, {ID: 9, Name: "Core"}}
	p := &Profile{Groups: GroupsConfig{Property: " Mark ", Templates: []string{"Unit A", "Stair"}, IncludeInstance: true}}

	req, ws := p.GroupRequest(templates)
	assert.Equal(t, "Mark", req.Property)
	assert.Equal(t, []model.ElementID{6}, req.TemplateIDs)
	assert.True(t, req.IncludeInstance)
	require.Len(t, ws, 1)
	assert.Equal(t, warnings.CodeGroupTemplateUnknown, ws[0].Code)

	p.Groups.Templates = nil
	req, ws = p.GroupRequest(templates)
	assert.Empty(t, req.TemplateIDs, "no names select every template")
	assert.Empty(t, ws)
	assert.NoError(t, Rejection(ws))
}
