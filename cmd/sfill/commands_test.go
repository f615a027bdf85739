package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/testutil"
)

const testProfile = `
[document]
path = "model.json"

[scan]
categories = ["furniture"]

[band]
base = "Level 1"
top = "Level 2"

[operations.level]
targets = ["Level Name"]

[groups]
property = "Mark"
templates = ["Unit A"]
`

type fixture struct {
	dir     string
	profile string
	model   string
	inBand  model.ElementID
	above   model.ElementID
	members []model.ElementID
}

func newFixture(t *testing.T, profile string) fixture {
	t.Helper()
	stubTerminal(t, false)
	dir := t.TempDir()
	b := testutil.NewModel()
	b.Level("Level 1", 0)
	b.Level("Level 2", 10)
	f := fixture{dir: dir}
	f.inBand = b.Element(model.CategoryFurniture, testutil.WithBBox(2, 8), testutil.WithText("Level Name", ""))
	f.above = b.Element(model.CategoryFurniture, testutil.WithBBox(12, 14), testutil.WithText("Level Name", ""))
	for i := 0; i < 2; i++ {
		f.members = append(f.members, b.Element(model.CategoryCasework, testutil.WithText("Mark", "")))
	}
	b.Instance(b.Template("Unit A"), f.members)
	f.model = b.WriteJSON(t, dir)
	f.profile = testutil.WriteFile(t, dir, config.DefaultProfileName, profile)
	return f
}

func stubTerminal(t *testing.T, interactive bool) {
	t.Helper()
	origInteractive, origWriter, origNoColor := isInteractive, isTerminalWriter, color.NoColor
	t.Cleanup(func() {
		isInteractive, isTerminalWriter, color.NoColor = origInteractive, origWriter, origNoColor
	})
	color.NoColor = true
	isInteractive = func() bool { return interactive }
	isTerminalWriter = func(io.Writer) bool { return false }
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(append([]string{"sfill"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func propertyText(t *testing.T, path string, id model.ElementID, name string) string {
	t.Helper()
	f, err := document.LoadFile(path)
	require.NoError(t, err)
	for _, el := range f.Elements {
		if el.ID == id {
			p, ok := el.Property(name)
			require.True(t, ok)
			return p.Display()
		}
	}
	t.Fatalf("element %d not found", id)
	return ""
}

func TestFillWritesModel(t *testing.T) {
	f := newFixture(t, testProfile)

	stdout, stderr, err := run(t, "fill", "--profile", f.profile, "--yes", "--diff")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Updated:\n  level                1\n")
	assert.Contains(t, stdout, `+          "text": "Level 1"`)
	assert.Contains(t, stderr, "Completed: 1 updated, 1 skipped, 0 failed")

	assert.Equal(t, "Level 1", propertyText(t, f.model, f.inBand, "Level Name"))
	assert.Equal(t, "", propertyText(t, f.model, f.above, "Level Name"))
	_, err = os.Stat(f.model + ".sfill.lock")
	assert.NoError(t, err)
}

func TestFillUsesProfileInWorkingDir(t *testing.T) {
	f := newFixture(t, testProfile)
	orig := getwd
	t.Cleanup(func() { getwd = orig })
	getwd = func() (string, error) { return f.dir, nil }

	_, _, err := run(t, "fill", "--yes", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, "Level 1", propertyText(t, f.model, f.inBand, "Level Name"))
}

func TestFillExportsReportAndMetrics(t *testing.T) {
	f := newFixture(t, testProfile)
	reportPath := filepath.Join(f.dir, "run.json")
	metricsPath := filepath.Join(f.dir, "sfill.prom")

	_, _, err := run(t, "fill", "--profile", f.profile, "--yes", "--report", reportPath, "--metrics-textfile", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var exported map[string]any
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, "Completed", exported["state"])

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "sfill_writes_total")
}

func TestFillAsksForConfirmation(t *testing.T) {
	f := newFixture(t, testProfile)
	stubTerminal(t, true)
	origConfirm := confirmFunc
	t.Cleanup(func() { confirmFunc = origConfirm })
	var asked string
	confirmFunc = func(title string) (bool, error) {
		asked = title
		return false, nil
	}

	stdout, _, err := run(t, "fill", "--profile", f.profile)
	require.NoError(t, err)
	assert.Contains(t, asked, "Fill level in ")
	assert.Contains(t, stdout, "Nothing was changed.")
	assert.Equal(t, "", propertyText(t, f.model, f.inBand, "Level Name"))
}

func TestFillRejectsUnknownBandLevel(t *testing.T) {
	f := newFixture(t, strings.Replace(testProfile, `top = "Level 2"`, `top = "Roof"`, 1))

	_, _, err := run(t, "fill", "--profile", f.profile, "--yes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigValidation))
	assert.Equal(t, exitConfig, exitCode(err))
	assert.Contains(t, err.Error(), "Roof")
}

func TestFillRejectsUnknownProfileKeys(t *testing.T) {
	f := newFixture(t, testProfile+"\n[extra]\nkey = 1\n")

	_, _, err := run(t, "fill", "--profile", f.profile, "--yes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigValidation))
}

func TestGroupsPropagatesTemplateName(t *testing.T) {
	f := newFixture(t, testProfile)

	_, stderr, err := run(t, "groups", "--profile", f.profile, "--yes", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Completed: 2 updated")
	for _, id := range f.members {
		assert.Equal(t, "Unit A", propertyText(t, f.model, id, "Mark"))
	}
}

func TestPreviewRunsFillAndGroups(t *testing.T) {
	f := newFixture(t, testProfile)
	reportPath := filepath.Join(f.dir, "preview.yaml")

	stdout, _, err := run(t, "preview", "--profile", f.profile, "--report", reportPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stdout, "Preview "))
	assert.Contains(t, stdout, "Templates: 1  Instances: 1")
	assert.Contains(t, stdout, "Estimated writes:\n  level                1\n")

	_, err = os.Stat(reportPath)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(f.dir, "preview.groups.yaml"))
	assert.NoError(t, err)

	assert.Equal(t, "", propertyText(t, f.model, f.inBand, "Level Name"))
}

func TestPreviewReportsProfileProblemsAsWarnings(t *testing.T) {
	f := newFixture(t, strings.Replace(testProfile, `base = "Level 1"`, `base = "Basement"`, 1))

	stdout, _, err := run(t, "preview", "--profile", f.profile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "BAND_INVALID")
}

func TestConvertImportsIntoSQLite(t *testing.T) {
	f := newFixture(t, testProfile)
	dbPath := filepath.Join(f.dir, "model.db")

	stdout, _, err := run(t, "convert", f.model, dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported 5 elements")

	_, _, err = run(t, "convert", f.model, dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "fill", "--profile", f.profile, "--model", dbPath, "--yes")
	require.NoError(t, err)
	db, err := document.OpenSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	f2 := db.Snapshot()
	for _, el := range f2.Elements {
		if el.ID == f.inBand {
			p, ok := el.Property("Level Name")
			require.True(t, ok)
			assert.Equal(t, "Level 1", p.Display())
		}
	}
}

func TestFieldsListsProfileKeys(t *testing.T) {
	stdout, _, err := run(t, "fields")
	require.NoError(t, err)
	for _, f := range config.Fields() {
		assert.Contains(t, stdout, f.Key)
	}
	assert.Contains(t, stdout, "reduce")
}

func TestConfirmTreatsAbortAsNo(t *testing.T) {
	orig := runFormFunc
	t.Cleanup(func() { runFormFunc = orig })

	runFormFunc = func(*huh.Form) error { return huh.ErrUserAborted }
	ok, err := confirm("Fill?")
	require.NoError(t, err)
	assert.False(t, ok)

	runFormFunc = func(*huh.Form) error { return errors.New("tty gone") }
	_, err = confirm("Fill?")
	require.Error(t, err)
}

func TestDoctorReportsHealthyWorkspace(t *testing.T) {
	f := newFixture(t, testProfile)

	stdout, _, err := run(t, "doctor", "--profile", f.profile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[OK]   Profile")
	assert.Contains(t, stdout, "Band: Level 1 to Level 2")
	assert.Contains(t, stdout, "All checks passed.")
}

func TestDoctorFailsOnUnknownKeys(t *testing.T) {
	f := newFixture(t, testProfile+"\n[Run]\nchunk_size = 5\n")

	stdout, _, err := run(t, "doctor", "--profile", f.profile)
	require.Error(t, err)
	assert.Contains(t, stdout, "[FAIL] Profile")
	assert.Contains(t, stdout, "(did you mean run?)")
	assert.Contains(t, stdout, "Some checks failed.")
}
