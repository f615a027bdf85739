package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullProfile = `
[document]
path = "models/tower.json"

[scan]
categories = ["Furniture", "doors"]
phase = "New Construction"

[band]
base = "Level 1"
top = "Level 2"

[operations.level]
targets = ["Level Name"]

[operations.room_number]
targets = ["Room Number", "Asset Room"]

[fill]
overwrite = true

[groups]
property = "Mark"
templates = ["Unit A"]
include_instance = true

[room]
point_nudge = 0.5

[run]
chunk_size = 500

[warnings]
noise_mode = "reduce"

[log]
level = "debug"
format = "json"
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(fullProfile), "sfill.toml")
	if err != nil {
		t.Fatalf("ParseProfile error: %v", err)
	}
	if p.Document.Path != "models/tower.json" {
		t.Fatalf("unexpected document path %q", p.Document.Path)
	}
	if len(p.Scan.Categories) != 2 || p.Scan.Phase != "New Construction" {
		t.Fatalf("unexpected scan section: %+v", p.Scan)
	}
	if p.Operations.Level == nil || p.Operations.RoomNumber == nil {
		t.Fatalf("expected level and room_number operations")
	}
	if p.Operations.RoomName != nil || p.Operations.GroupID != nil {
		t.Fatalf("unexpected operations: %+v", p.Operations)
	}
	if !p.Fill.Overwrite || !p.Groups.IncludeInstance || p.Groups.Property != "Mark" {
		t.Fatalf("unexpected switches: fill=%+v groups=%+v", p.Fill, p.Groups)
	}
	if p.Room.PointNudge == nil || *p.Room.PointNudge != 0.5 || p.Run.ChunkSize != 500 {
		t.Fatalf("unexpected tunables: room=%+v run=%+v", p.Room, p.Run)
	}
	if p.Warnings.NoiseMode != "reduce" || p.Log.Level != "debug" || p.Log.Format != "json" {
		t.Fatalf("unexpected warnings/log: %+v %+v", p.Warnings, p.Log)
	}
}

func TestParseProfileRejectsUnknownKeys(t *testing.T) {
	data := fullProfile + "\n[operations.room_area]\ntargets = [\"Area\"]\n"
	_, err := ParseProfile([]byte(data), "sfill.toml")
	if err == nil {
		t.Fatalf("expected error for unknown operation")
	}
	if !errors.Is(err, ErrConfigValidation) {
		t.Fatalf("expected ErrConfigValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "unrecognized keys") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseProfileSyntaxErrorIsNotValidation(t *testing.T) {
	_, err := ParseProfile([]byte("[scan\ncategories = 1"), "broken.toml")
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	if errors.Is(err, ErrConfigValidation) {
		t.Fatalf("syntax errors must not wrap ErrConfigValidation: %v", err)
	}
	if !strings.Contains(err.Error(), "broken.toml") {
		t.Fatalf("expected source in error, got %v", err)
	}
}

func TestParseProfileValidationError(t *testing.T) {
	_, err := ParseProfile([]byte("[operations.level]\ntargets = [\"Level Name\"]\n"), "sfill.toml")
	if !errors.Is(err, ErrConfigValidation) {
		t.Fatalf("expected ErrConfigValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "band.base and band.top are required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseProfileLenientSkipsValidation(t *testing.T) {
	data := "[operations.level]\ntargets = []\n[warnings]\nnoise_mode = \"chatty\"\n"
	p, err := ParseProfileLenient([]byte(data), "sfill.toml")
	if err != nil {
		t.Fatalf("ParseProfileLenient error: %v", err)
	}
	if p.Warnings.NoiseMode != "chatty" {
		t.Fatalf("expected raw noise mode, got %q", p.Warnings.NoiseMode)
	}
	if _, err := ParseProfileLenient([]byte("[scan"), "sfill.toml"); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultProfileName)
	if err := os.WriteFile(path, []byte(fullProfile), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	if _, err := LoadProfile(path); err != nil {
		t.Fatalf("LoadProfile error: %v", err)
	}
	if _, err := LoadProfileLenient(path); err != nil {
		t.Fatalf("LoadProfileLenient error: %v", err)
	}

	missing := filepath.Join(dir, "missing.toml")
	if _, err := LoadProfile(missing); err == nil || !strings.Contains(err.Error(), "read profile") {
		t.Fatalf("expected read error, got %v", err)
	}
	if _, err := LoadProfileLenient(missing); err == nil {
		t.Fatalf("expected read error")
	}
}
