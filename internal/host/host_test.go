package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/spatialfill/internal/model"
)

func TestForVersion(t *testing.T) {
	_, err := ForVersion(2022)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))

	for _, v := range []int{2023, 2024, 2025, 2027} {
		caps, err := ForVersion(v)
		require.NoError(t, err)
		assert.Equal(t, v, caps.Version())
	}
}

func TestSupportsDirectRoom(t *testing.T) {
	tests := []struct {
		version int
		cat     model.Category
		want    bool
	}{
		{2023, model.CategoryFurniture, true},
		{2023, model.CategoryDoors, true},
		{2023, model.CategoryGenericModels, false},
		{2024, model.CategoryGenericModels, true},
		{2024, model.CategoryElectricalFixtures, false},
		{2025, model.CategoryElectricalFixtures, true},
		{2025, model.CategoryCurtainPanels, false},
	}
	for _, tt := range tests {
		caps, err := ForVersion(tt.version)
		require.NoError(t, err)
		assert.Equal(t, tt.want, caps.SupportsDirectRoom(tt.cat), "%d %s", tt.version, tt.cat)
	}
}

func TestIsOpening(t *testing.T) {
	caps, err := ForVersion(2024)
	require.NoError(t, err)
	assert.True(t, caps.IsOpening(model.CategoryDoors))
	assert.True(t, caps.IsOpening(model.CategoryWindows))
	assert.False(t, caps.IsOpening(model.CategoryFurniture))
}
