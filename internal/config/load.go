package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/spatialfill/internal/messages"
)

// ErrConfigValidation is a sentinel that wraps profile validation failures
// (as opposed to TOML syntax or filesystem errors).
// Callers can use errors.Is(err, ErrConfigValidation) to tell them apart.
var ErrConfigValidation = errors.New("profile validation failed")

var readFile = os.ReadFile

// LoadProfile reads and validates the profile at path. Execute commands use it.
func LoadProfile(path string) (*Profile, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return ParseProfile(data, path)
}

// ParseProfile parses and validates profile TOML data.
// data is the TOML content; source is used in error messages.
func ParseProfile(data []byte, source string) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := p.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return &p, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field rejection.
// This catches misspelled keys such as an operation name that toml.Unmarshal
// silently ignores.
func decodeStrict(data []byte) error {
	var p Profile
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&p)
}

// ParseProfileLenient parses profile TOML data without validation.
// Returns an error only on TOML syntax errors. Previews use it so that an
// incomplete profile is reported as warnings instead of refused.
func ParseProfileLenient(data []byte, source string) (*Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	return &p, nil
}

// LoadProfileLenient reads the profile at path without validation.
func LoadProfileLenient(path string) (*Profile, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return ParseProfileLenient(data, path)
}
