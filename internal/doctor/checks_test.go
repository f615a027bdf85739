package doctor

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/testutil"
)

const validProfile = `
[document]
path = "model.json"

[scan]
categories = ["furniture", "doors"]

[band]
base = "Level 1"
top = "Level 2"

[operations.level]
targets = ["Level Name", "Locked"]

[groups]
property = "Mark"
`

func sampleModel(t *testing.T, dir string) string {
	t.Helper()
	b := testutil.NewModel()
	b.Level("Level 1", 0)
	b.Level("Level 2", 10)
	b.Schema(model.CategoryFurniture,
		model.PropertyDef{Name: "Level Name", Kind: model.StorageText},
		model.PropertyDef{Name: "Locked", Kind: model.StorageText, ReadOnly: true},
	)
	members := []model.ElementID{b.Element(model.CategoryFurniture, testutil.WithText("Level Name", ""))}
	b.Instance(b.Template("Unit A"), members)
	return b.WriteJSON(t, dir)
}

func find(results []Result, status Status, fragment string) bool {
	for _, r := range results {
		if r.Status == status && strings.Contains(r.Message, fragment) {
			return true
		}
	}
	return false
}

func TestCheckProfile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "sfill.toml", validProfile)

	results, p := CheckProfile(path)
	require.NotNil(t, p)
	require.Len(t, results, 1)
	assert.Equal(t, StatusOK, results[0].Status)
}

func TestCheckProfileUnknownKeysFallsBackToLenient(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "sfill.toml", validProfile+"\n[fill]\nover-write = true\n\n[extra]\nx = 1\n")

	results, p := CheckProfile(path)
	require.NotNil(t, p, "lenient profile is returned")
	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Status)
	rec := results[0].Recommendation
	assert.Contains(t, rec, "- extra (allowed keys: band, document, fill, groups, log, operations, room, run, scan, warnings)")
	assert.Contains(t, rec, "- fill.over-write (allowed keys: overwrite) (did you mean fill.overwrite?)")
}

func TestCheckProfileMissingOrBroken(t *testing.T) {
	dir := t.TempDir()
	results, p := CheckProfile(filepath.Join(dir, "missing.toml"))
	assert.Nil(t, p)
	assert.Equal(t, StatusFail, results[0].Status)

	orig := loadProfileLenientFunc
	t.Cleanup(func() { loadProfileLenientFunc = orig })
	loadProfileLenientFunc = func(string) (*config.Profile, error) { return nil, errors.New("broken toml") }
	path := testutil.WriteFile(t, dir, "sfill.toml", "[extra]\nx = 1\n")
	results, p = CheckProfile(path)
	assert.Nil(t, p)
	assert.Contains(t, results[0].Message, "broken toml")
}

func TestCheckModel(t *testing.T) {
	dir := t.TempDir()
	path := sampleModel(t, dir)

	results, store := CheckModel(path)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })
	assert.True(t, find(results, StatusOK, "host 2024"))

	results, store = CheckModel(filepath.Join(dir, "model.txt"))
	assert.Nil(t, store)
	assert.Equal(t, StatusFail, results[0].Status)
}

func TestCheckModelHostVersions(t *testing.T) {
	dir := t.TempDir()
	old := testutil.NewModel().HostVersion(2021).WriteJSON(t, dir)
	results, store := CheckModel(old)
	assert.Nil(t, store)
	assert.Equal(t, StatusFail, results[0].Status)
	assert.Contains(t, results[0].Recommendation, "2023")

	newer := testutil.NewModel().HostVersion(2027).WriteJSON(t, t.TempDir())
	results, store = CheckModel(newer)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })
	assert.True(t, find(results, StatusWarn, "2027 is newer than 2025"))
}

func TestCheckFillAndGroups(t *testing.T) {
	dir := t.TempDir()
	mem, err := document.OpenJSON(sampleModel(t, dir))
	require.NoError(t, err)
	p, err := config.ParseProfile([]byte(validProfile), "sfill.toml")
	require.NoError(t, err)

	fill := CheckFill(context.Background(), p, mem)
	assert.True(t, find(fill, StatusOK, "Band: Level 1 to Level 2"))
	assert.True(t, find(fill, StatusOK, "Category furniture: 1 elements"))
	assert.True(t, find(fill, StatusWarn, "Category doors has no elements"))
	assert.True(t, find(fill, StatusWarn, `"Locked", which is read-only on furniture`))
	assert.False(t, HasFailure(fill))

	groups := CheckGroups(context.Background(), p, mem)
	assert.True(t, find(groups, StatusOK, `Propagating "Mark" across 1 templates and 1 instances`))

	p.Band.Top = "Roof"
	p.Groups.Templates = []string{"Unit B"}
	assert.True(t, HasFailure(CheckFill(context.Background(), p, mem)))
	assert.True(t, HasFailure(CheckGroups(context.Background(), p, mem)))
}

func TestCheckTargetsSkipsUndeclaredSchemas(t *testing.T) {
	assert.Empty(t, checkTargets(model.CategoryDoors, nil, nil))
}
