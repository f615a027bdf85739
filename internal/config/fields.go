package config

import "github.com/conn-castle/spatialfill/internal/messages"

// FieldType classifies the kind of value a profile field accepts.
type FieldType string

const (
	// FieldBool accepts true or false.
	FieldBool FieldType = "bool"
	// FieldEnum accepts one of a fixed set of options.
	FieldEnum FieldType = "enum"
	// FieldFreetext accepts arbitrary string input.
	FieldFreetext FieldType = "freetext"
	// FieldList accepts a list of strings.
	FieldList FieldType = "list"
	// FieldNumber accepts a number.
	FieldNumber FieldType = "number"
)

// FieldOption describes a single selectable value for a field.
type FieldOption struct {
	Value string
	Description string // empty for options without descriptions
}

// FieldDef describes a single profile field's type, constraints, and valid options.
type FieldDef struct {
	Key         string
	Type        FieldType
	Description string
	Options     []FieldOption
}

// fields is the canonical ordered registry of profile fields, in the order
// `sfill fields` prints them.
var fields = []FieldDef{
	{Key: "document.path", Type: FieldFreetext, Description: messages.FieldDocumentPath},
	{Key: "scan.categories", Type: FieldList, Description: messages.FieldScanCategories},
	{Key: "scan.phase", Type: FieldFreetext, Description: messages.FieldScanPhase},
	{Key: "band.base", Type: FieldFreetext, Description: messages.FieldBandBase},
	{Key: "band.top", Type: FieldFreetext, Description: messages.FieldBandTop},
	{Key: "operations.level.targets", Type: FieldList, Description: messages.FieldOpLevel},
	{Key: "operations.room_name.targets", Type: FieldList, Description: messages.FieldOpRoomName},
	{Key: "operations.room_number.targets", Type: FieldList, Description: messages.FieldOpRoomNumber},
	{Key: "operations.group_id.targets", Type: FieldList, Description: messages.FieldOpGroupID},
	{Key: "fill.overwrite", Type: FieldBool, Description: messages.FieldFillOverwrite},
	{Key: "groups.property", Type: FieldFreetext, Description: messages.FieldGroupsProperty},
	{Key: "groups.templates", Type: FieldList, Description: messages.FieldGroupsTemplates},
	{Key: "groups.overwrite", Type: FieldBool, Description: messages.FieldGroupsOverwrite},
	{Key: "groups.include_instance", Type: FieldBool, Description: messages.FieldGroupsInstance},
	{Key: "room.point_nudge", Type: FieldNumber, Description: messages.FieldRoomNudge},
	{Key: "run.chunk_size", Type: FieldNumber, Description: messages.FieldRunChunk},
	{
		Key:         "warnings.noise_mode",
		Type:        FieldEnum,
		Description: messages.FieldNoiseMode,
		Options: []FieldOption{
			{Value: "default", Description: messages.FieldNoiseDefault},
			{Value: "reduce", Description: messages.FieldNoiseReduce},
			{Value: "quiet", Description: messages.FieldNoiseQuiet},
		},
	},
	{
		Key:         "log.level",
		Type:        FieldEnum,
		Description: messages.FieldLogLevel,
		Options: []FieldOption{
			{Value: "debug"},
			{Value: "info"},
			{Value: "warn"},
			{Value: "error"},
		},
	},
	{
		Key:         "log.format",
		Type:        FieldEnum,
		Description: messages.FieldLogFormat,
		Options: []FieldOption{
			{Value: "console"},
			{Value: "json"},
		},
	},
	{Key: "log.path", Type: FieldFreetext, Description: messages.FieldLogPath},
	{Key: "log.development", Type: FieldBool, Description: messages.FieldLogDevelopment},
}

// fieldIndex provides O(1) lookup by key.
var fieldIndex = buildFieldIndex()

func buildFieldIndex() map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Key] = i
	}
	return idx
}

// LookupField returns the field definition for the given profile key.
// Returns false when the key is not in the catalog.
func LookupField(key string) (FieldDef, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return FieldDef{}, false
	}
	return copyFieldDef(fields[i]), true
}

// Fields returns a copy of all registered field definitions in catalog order.
func Fields() []FieldDef {
	out := make([]FieldDef, len(fields))
	for i, f := range fields {
		out[i] = copyFieldDef(f)
	}
	return out
}

// FieldOptionValues returns the option values for a field as a plain string slice.
// Returns nil when the key is not in the catalog or has no options.
func FieldOptionValues(key string) []string {
	f, ok := LookupField(key)
	if !ok || len(f.Options) == 0 {
		return nil
	}
	values := make([]string, len(f.Options))
	for i, opt := range f.Options {
		values[i] = opt.Value
	}
	return values
}

// copyFieldDef returns a deep copy of a FieldDef so callers cannot mutate the registry.
func copyFieldDef(f FieldDef) FieldDef {
	if len(f.Options) > 0 {
		opts := make([]FieldOption, len(f.Options))
		copy(opts, f.Options)
		f.Options = opts
	}
	return f
}
