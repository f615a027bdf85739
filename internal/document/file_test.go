package document_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/testutil"
)

func sampleModel() *testutil.ModelBuilder {
	b := testutil.NewModel()
	l1 := b.Level("Level 1", 0)
	b.Level("Level 2", 10)
	room := b.Room("101", "Lobby", l1, 0, 0, 10, 10, 3)
	b.Element(model.CategoryDoors, testutil.WithBBox(0, 2), testutil.WithPoint(1, 1, 0), testutil.OnLevel(l1),
		testutil.BetweenRooms(room.ID, model.InvalidID), withMark(""))
	member := b.Element(model.CategoryFurniture, testutil.WithCurve(model.Point3{}, model.Point3{X: 2}),
		testutil.WithEmpty("Count", model.StorageInteger), withMark("F"))
	b.Instance(b.Template("Unit"), []model.ElementID{member}, withMark(""))
	b.Schema(model.CategoryFurniture, model.PropertyDef{Name: "Mark", Kind: model.StorageText})
	return b
}

func TestSaveAndLoadFile(t *testing.T) {
	f := sampleModel().File()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, document.SaveFile(path, f))

	got, err := document.LoadFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is removed")
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := document.LoadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	bad := testutil.WriteFile(t, dir, "bad.json", "{")
	_, err = document.LoadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse model file")
}

func TestOpenJSONPersistsOnCommit(t *testing.T) {
	b := sampleModel()
	path := b.WriteJSON(t, t.TempDir())
	store, err := document.Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	s, err := store.Begin(ctx, "run")
	require.NoError(t, err)
	require.NoError(t, s.SetProperty(ctx, 4, textProp("Mark", "D1")))
	require.NoError(t, s.Commit(ctx))

	f, err := document.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "D1", f.Elements[0].Properties["Mark"].Text)
}

func TestOpenRejectsUnknownExtension(t *testing.T) {
	_, err := document.Open(filepath.Join(t.TempDir(), "model.ifc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".ifc")
}
