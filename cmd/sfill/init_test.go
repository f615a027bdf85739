package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/wizard"
)

// fakeUI keeps every default and answers confirmations with confirm.
type fakeUI struct {
	confirm  bool
	cancel   bool
	confirms []string
}

func (f *fakeUI) Select(string, []string, *string) error { return f.result() }

func (f *fakeUI) MultiSelect(string, []string, *[]string) error { return f.result() }

func (f *fakeUI) Input(string, *string) error { return f.result() }

func (f *fakeUI) Confirm(title string, value *bool) error {
	f.confirms = append(f.confirms, title)
	*value = f.confirm
	return f.result()
}

func (f *fakeUI) result() error {
	if f.cancel {
		return wizard.ErrCancelled
	}
	return nil
}

func stubWizardUI(t *testing.T, ui wizard.UI) {
	t.Helper()
	orig := newWizardUI
	t.Cleanup(func() { newWizardUI = orig })
	newWizardUI = func() wizard.UI { return ui }
}

func TestInitWritesProfile(t *testing.T) {
	f := newFixture(t, testProfile)
	stubWizardUI(t, &fakeUI{})
	path := filepath.Join(f.dir, "new.toml")

	stdout, _, err := run(t, "init", "--profile", path, "--model", f.model)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+path)

	p, err := config.LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "model.json", p.Document.Path)
	assert.Equal(t, []string{"furniture", "casework"}, p.Scan.Categories)
}

func TestInitKeepsExistingProfileUnlessConfirmed(t *testing.T) {
	f := newFixture(t, testProfile)
	ui := &fakeUI{}
	stubWizardUI(t, ui)

	stdout, _, err := run(t, "init", "--profile", f.profile, "--model", f.model)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(current)")
	assert.Contains(t, stdout, messages.InitCancelled)
	data, err := os.ReadFile(f.profile)
	require.NoError(t, err)
	assert.Equal(t, testProfile, string(data))
	require.Len(t, ui.confirms, 2)

	ui.confirm = true
	_, _, err = run(t, "init", "--profile", f.profile, "--model", f.model)
	require.NoError(t, err)
	data, err = os.ReadFile(f.profile)
	require.NoError(t, err)
	assert.NotEqual(t, testProfile, string(data))
}

func TestInitForceReplacesWithoutAsking(t *testing.T) {
	f := newFixture(t, testProfile)
	ui := &fakeUI{}
	stubWizardUI(t, ui)

	_, _, err := run(t, "init", "--profile", f.profile, "--model", f.model, "--force")
	require.NoError(t, err)
	assert.Equal(t, []string{messages.WizardOverwriteTitle}, ui.confirms)
	data, err := os.ReadFile(f.profile)
	require.NoError(t, err)
	assert.NotEqual(t, testProfile, string(data))
}

func TestInitCancelled(t *testing.T) {
	f := newFixture(t, testProfile)
	stubWizardUI(t, &fakeUI{cancel: true})
	path := filepath.Join(f.dir, "new.toml")

	stdout, _, err := run(t, "init", "--profile", path, "--model", f.model)
	require.NoError(t, err)
	assert.Contains(t, stdout, messages.InitCancelled)
	assert.NoFileExists(t, path)
}

func TestInitRequiresModel(t *testing.T) {
	stubWizardUI(t, &fakeUI{})
	_, _, err := run(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--model")
}

func TestDocumentPathFor(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "models/a.json", documentPathFor(filepath.Join(dir, "sfill.toml"), filepath.Join(dir, "models", "a.json")))
	outside := filepath.Join(filepath.Dir(dir), "b.json")
	assert.Equal(t, outside, documentPathFor(filepath.Join(dir, "sfill.toml"), outside))
}
