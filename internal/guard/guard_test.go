package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
)

type recordingWriter struct {
	writes []model.Property
	err    error
}

func (w *recordingWriter) SetProperty(_ context.Context, _ model.ElementID, p model.Property) error {
	if w.err != nil {
		return w.err
	}
	w.writes = append(w.writes, p)
	return nil
}

func element(props ...model.Property) *model.Element {
	el := &model.Element{ID: 7, Properties: map[string]*model.Property{}}
	for _, p := range props {
		cp := p
		el.Properties[p.Name] = &cp
	}
	return el
}

func TestCanWriteOrder(t *testing.T) {
	g := New(nil)
	tests := []struct {
		name      string
		el        *model.Element
		overwrite bool
		wantOK    bool
		want      summary.SkipReason
	}{
		{"missing", element(), false, false, summary.SkipParameterMissing},
		{"read-only beats value exists", element(model.Property{Name: "P", Kind: model.StorageText, ReadOnly: true, HasValue: true, Text: "x"}), false, false, summary.SkipParameterReadOnly},
		{"read-only with overwrite", element(model.Property{Name: "P", Kind: model.StorageText, ReadOnly: true}), true, false, summary.SkipParameterReadOnly},
		{"value exists", element(model.Property{Name: "P", Kind: model.StorageText, HasValue: true, Text: "x"}), false, false, summary.SkipValueExists},
		{"blank value is empty", element(model.Property{Name: "P", Kind: model.StorageText, HasValue: true, Text: " "}), false, true, ""},
		{"overwrite", element(model.Property{Name: "P", Kind: model.StorageText, HasValue: true, Text: "x"}), true, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := g.CanWrite(tt.el, "P", tt.overwrite)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, reason)
		})
	}
}

func TestWriteOverwriteToggle(t *testing.T) {
	g := New(nil)
	ctx := context.Background()
	existing := model.Property{Name: "Room Number", Kind: model.StorageText, HasValue: true, Text: "100"}

	w := &recordingWriter{}
	out := g.Write(ctx, w, element(existing), "Room Number", model.TextValue("101"), true)
	assert.Equal(t, summary.StatusSuccess, out.Status)
	require.Len(t, w.writes, 1)
	assert.Equal(t, "101", w.writes[0].Text)

	w = &recordingWriter{}
	out = g.Write(ctx, w, element(existing), "Room Number", model.TextValue("101"), false)
	assert.Equal(t, summary.Skipped(summary.SkipValueExists), out)
	assert.Empty(t, w.writes)
}

func TestWriteUpdatesElement(t *testing.T) {
	g := New(nil)
	el := element(model.Property{Name: "Count", Kind: model.StorageInteger})
	out := g.Write(context.Background(), &recordingWriter{}, el, "Count", model.TextValue("12"), false)
	require.Equal(t, summary.StatusSuccess, out.Status)
	assert.Equal(t, int64(12), el.Properties["Count"].Integer)

	out = g.Write(context.Background(), &recordingWriter{}, el, "Count", model.TextValue("13"), false)
	assert.Equal(t, summary.Skipped(summary.SkipValueExists), out)
}

func TestWriteTypedReference(t *testing.T) {
	g := New(nil)
	w := &recordingWriter{}
	el := element(model.Property{Name: "Room", Kind: model.StorageReference})
	out := g.Write(context.Background(), w, el, "Room", model.Value{Text: "Lobby", Ref: 42}, false)
	require.Equal(t, summary.StatusSuccess, out.Status)
	assert.Equal(t, model.ElementID(42), w.writes[0].Ref)
}

func TestWriteFailuresAreNotSkips(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	g := New(zap.New(core))
	ctx := context.Background()

	out := g.Write(ctx, &recordingWriter{}, element(model.Property{Name: "Count", Kind: model.StorageInteger}), "Count", model.TextValue("Lobby"), false)
	assert.Equal(t, summary.StatusFailed, out.Status)
	assert.Equal(t, summary.FailureCoercion, out.Failure)

	boom := errors.New("host refused")
	out = g.Write(ctx, &recordingWriter{err: boom}, element(model.Property{Name: "Mark", Kind: model.StorageText}), "Mark", model.TextValue("A"), false)
	assert.Equal(t, summary.StatusFailed, out.Status)
	assert.Equal(t, summary.FailureHost, out.Failure)
	assert.ErrorIs(t, out.Err, boom)

	assert.Equal(t, 2, logs.Len())
}
