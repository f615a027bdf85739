package document_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/testutil"
)

func textProp(name, value string) model.Property {
	return model.Property{Name: name, Kind: model.StorageText, Text: value, HasValue: true}
}

func TestNewMemoryRejectsDuplicateIDs(t *testing.T) {
	f := document.File{Elements: []model.Element{{ID: 1}, {ID: 1}}}
	_, err := document.NewMemory(f)
	require.Error(t, err)

	_, err = document.NewMemory(document.File{Elements: []model.Element{{ID: 0}}})
	require.Error(t, err)
}

func TestMemoryReads(t *testing.T) {
	b := testutil.NewModel()
	l1 := b.Level("Level 1", 0)
	b.Room("101", "Lobby", l1, 0, 0, 10, 10, 3)
	door := b.Element(model.CategoryDoors, withMark(""))
	b.Element(model.CategoryFurniture, withMark("F1"))
	tmpl := b.Template("Unit")
	inst := b.Instance(tmpl, []model.ElementID{door})
	mem := b.Memory(t)
	ctx := context.Background()

	doors, err := mem.ElementsByCategory(ctx, model.CategoryDoors)
	require.NoError(t, err)
	require.Len(t, doors, 1)
	assert.Equal(t, door, doors[0].ID)

	rooms, err := mem.Rooms(ctx, testutil.DefaultPhase)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	rooms, err = mem.Rooms(ctx, "Existing")
	require.NoError(t, err)
	assert.Empty(t, rooms)

	ok, err := mem.IsGroupInstance(ctx, inst.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = mem.IsGroupInstance(ctx, door)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = mem.Element(ctx, 999)
	assert.True(t, errors.Is(err, document.ErrNotFound))

	schema, err := mem.PropertySchema(ctx, model.CategoryFurniture)
	require.NoError(t, err)
	assert.Equal(t, []model.PropertyDef{{Name: "Mark", Kind: model.StorageText}}, schema)
}

func withMark(value string) testutil.ElementOption {
	return testutil.WithText("Mark", value)
}

func TestMemoryReadsHonorCancelledContext(t *testing.T) {
	mem := testutil.NewModel().Memory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mem.Levels(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = mem.Begin(ctx, "run")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySessionCommitAndRollback(t *testing.T) {
	b := testutil.NewModel()
	id := b.Element(model.CategoryFurniture, withMark(""))
	mem := b.Memory(t)
	ctx := context.Background()

	s, err := mem.Begin(ctx, "rollback")
	require.NoError(t, err)
	require.NoError(t, s.SetProperty(ctx, id, textProp("Mark", "A")))

	el, err := mem.Element(ctx, id)
	require.NoError(t, err)
	assert.True(t, el.Properties["Mark"].IsEmpty(), "writes are invisible before commit")

	require.NoError(t, s.Rollback(ctx))
	require.NoError(t, s.Rollback(ctx), "rollback is idempotent")
	assert.ErrorIs(t, s.SetProperty(ctx, id, textProp("Mark", "A")), document.ErrSessionClosed)

	s, err = mem.Begin(ctx, "commit")
	require.NoError(t, err)
	require.NoError(t, s.SetProperty(ctx, id, textProp("Mark", "B")))
	require.NoError(t, s.Checkpoint(ctx))
	require.NoError(t, s.Commit(ctx))
	assert.ErrorIs(t, s.Commit(ctx), document.ErrSessionClosed)

	el, err = mem.Element(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "B", el.Properties["Mark"].Text)
}

func TestMemoryBeginRefusesSecondSession(t *testing.T) {
	mem := testutil.NewModel().Memory(t)
	ctx := context.Background()
	s, err := mem.Begin(ctx, "first")
	require.NoError(t, err)

	_, err = mem.Begin(ctx, "second")
	assert.ErrorIs(t, err, document.ErrSessionOpen)

	require.NoError(t, s.Rollback(ctx))
	s, err = mem.Begin(ctx, "third")
	require.NoError(t, err)
	require.NoError(t, s.Rollback(ctx))
}

func TestMemorySetPropertyRejectsMissingAndReadOnly(t *testing.T) {
	b := testutil.NewModel()
	id := b.Element(model.CategoryFurniture, testutil.WithReadOnlyText("Level", "L1"))
	mem := b.Memory(t)
	ctx := context.Background()
	s, err := mem.Begin(ctx, "run")
	require.NoError(t, err)
	defer func() { _ = s.Rollback(ctx) }()

	assert.ErrorIs(t, s.SetProperty(ctx, id, textProp("Mark", "A")), document.ErrPropertyMissing)
	assert.ErrorIs(t, s.SetProperty(ctx, id, textProp("Level", "L2")), document.ErrReadOnly)
	assert.ErrorIs(t, s.SetProperty(ctx, 404, textProp("Mark", "A")), document.ErrNotFound)
}

func TestMemoryInjectFault(t *testing.T) {
	b := testutil.NewModel()
	id := b.Element(model.CategoryFurniture, withMark(""))
	mem := b.Memory(t)
	boom := errors.New("host refused")
	mem.InjectFault(id, "Mark", boom)
	ctx := context.Background()

	s, err := mem.Begin(ctx, "run")
	require.NoError(t, err)
	defer func() { _ = s.Rollback(ctx) }()
	err = s.SetProperty(ctx, id, textProp("Mark", "A"))
	assert.ErrorIs(t, err, boom)
	assert.False(t, document.IsFatal(err))
}

func TestMemoryGroupMemberWarnings(t *testing.T) {
	b := testutil.NewModel()
	member := b.Element(model.CategoryFurniture, withMark(""))
	b.Instance(b.Template("Unit"), []model.ElementID{member})
	mem := b.Memory(t)
	ctx := context.Background()

	t.Run("no handler records warning", func(t *testing.T) {
		s, err := mem.Begin(ctx, "run")
		require.NoError(t, err)
		defer func() { _ = s.Rollback(ctx) }()
		require.NoError(t, s.SetProperty(ctx, member, textProp("Mark", "A")))
		warnings := s.Warnings()
		require.Len(t, warnings, 1)
		assert.Equal(t, document.SeverityWarning, warnings[0].Severity)
		assert.Equal(t, member, warnings[0].ElementID)
	})

	t.Run("resolving handler keeps the write", func(t *testing.T) {
		s, err := mem.Begin(ctx, "run")
		require.NoError(t, err)
		resolved := 0
		s.SetFailureHandler(func(document.Failure) document.Resolution {
			resolved++
			return document.Resolve
		})
		require.NoError(t, s.SetProperty(ctx, member, textProp("Mark", "A")))
		require.NoError(t, s.Commit(ctx))
		assert.Equal(t, 1, resolved)
		assert.Empty(t, s.Warnings())

		el, err := mem.Element(ctx, member)
		require.NoError(t, err)
		assert.Equal(t, "A", el.Properties["Mark"].Text)
	})

	t.Run("aborting handler fails the session", func(t *testing.T) {
		s, err := mem.Begin(ctx, "run")
		require.NoError(t, err)
		defer func() { _ = s.Rollback(ctx) }()
		s.SetFailureHandler(func(document.Failure) document.Resolution { return document.Abort })
		err = s.SetProperty(ctx, member, textProp("Mark", "B"))
		require.Error(t, err)
		assert.True(t, document.IsFatal(err))
	})
}

func TestMemoryOnCommitFailureUndoesCommit(t *testing.T) {
	b := testutil.NewModel()
	id := b.Element(model.CategoryFurniture, withMark(""))
	mem := b.Memory(t)
	mem.OnCommit(func(document.File) error { return errors.New("disk full") })
	ctx := context.Background()

	s, err := mem.Begin(ctx, "run")
	require.NoError(t, err)
	require.NoError(t, s.SetProperty(ctx, id, textProp("Mark", "A")))
	require.Error(t, s.Commit(ctx))
	require.NoError(t, s.Rollback(ctx))

	el, err := mem.Element(ctx, id)
	require.NoError(t, err)
	assert.True(t, el.Properties["Mark"].IsEmpty())
}
