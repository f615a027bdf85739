// Package config loads and validates sfill TOML profiles.
package config

import (
	"github.com/conn-castle/spatialfill/internal/logging"
)

// Profile is the parsed content of an sfill profile.
type Profile struct {
	Document   DocumentConfig   `toml:"document"`
	Scan       ScanConfig       `toml:"scan"`
	Band       BandConfig       `toml:"band"`
	Operations OperationsConfig `toml:"operations"`
	Fill       FillConfig       `toml:"fill"`
	Groups     GroupsConfig     `toml:"groups"`
	Room       RoomConfig       `toml:"room"`
	Run        RunConfig        `toml:"run"`
	Warnings   WarningsConfig   `toml:"warnings"`
	Log        logging.Config   `toml:"log"`
}

// DocumentConfig locates the model file.
type DocumentConfig struct {
	// Path is relative to the profile's directory unless absolute; ~ is expanded.
	Path string `toml:"path"`
}

// ScanConfig selects the elements a fill run visits.
type ScanConfig struct {
	Categories []string `toml:"categories"`
	// Phase selects the rooms considered; empty uses the model's active phase.
	Phase string `toml:"phase"`
}

// BandConfig names the base and top levels of the level band.
type BandConfig struct {
	Base string `toml:"base"`
	Top  string `toml:"top"`
}

// OperationConfig lists the properties one fill operation writes.
type OperationConfig struct {
	Targets []string `toml:"targets"`
}

// OperationsConfig selects fill operations. A nil entry is not selected.
type OperationsConfig struct {
	Level      *OperationConfig `toml:"level"`
	RoomName   *OperationConfig `toml:"room_name"`
	RoomNumber *OperationConfig `toml:"room_number"`
	GroupID    *OperationConfig `toml:"group_id"`
}

// FillConfig holds fill run switches.
type FillConfig struct {
	Overwrite bool `toml:"overwrite"`
}

// GroupsConfig configures group propagation.
type GroupsConfig struct {
	Property string `toml:"property"`
	// Templates are template names; empty selects every template.
	Templates       []string `toml:"templates"`
	Overwrite       bool     `toml:"overwrite"`
	IncludeInstance bool     `toml:"include_instance"`
}

// RoomConfig tunes room resolution.
type RoomConfig struct {
	// PointNudge is the height above the element's level used for the containment
	// test. Unset selects the default; zero tests at the level elevation itself.
	PointNudge *float64 `toml:"point_nudge"`
}

// RunConfig tunes execute runs.
type RunConfig struct {
	// ChunkSize is the number of elements between checkpoints. Zero selects the
	// default; a negative value disables checkpoints.
	ChunkSize int `toml:"chunk_size"`
}

// WarningsConfig controls warning output.
type WarningsConfig struct {
	NoiseMode string `toml:"noise_mode"`
}
