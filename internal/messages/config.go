package messages

// Profile loading and validation messages.
const (
	ConfigMissingFileFmt       = "read profile %s: %w"
	ConfigInvalidFmt           = "invalid profile %s: %w"
	ConfigUnrecognizedKeysFmt  = "profile %s contains unrecognized keys: %v."
	ConfigValidationGuidance   = "Run `sfill fields` to list the supported keys."
	ConfigCategoryBlankFmt     = "%s: scan.categories[%d] is blank"
	ConfigCategoryDuplicateFmt = "%s: scan.categories lists %q more than once"
	ConfigOperationTargetsFmt  = "%s: operations.%s.targets must name at least one property"
	ConfigBandRequiredFmt      = "%s: band.base and band.top are required when operations.level is set"
	ConfigBandSameLevelFmt     = "%s: band.base and band.top both name %q"
	ConfigTemplateBlankFmt     = "%s: groups.templates[%d] is blank"
	ConfigPointNudgeFmt        = "%s: room.point_nudge must not be negative (got %g)"
	ConfigEnumInvalidFmt       = "%s: %s = %q is not supported (want one of: %s)"
	ConfigExpandPathFmt        = "expand path %q: %w"
	ConfigModelPathRequired    = "no model file: set document.path in the profile or pass --model"
	ConfigLevelUnknownFmt      = "level %q does not exist in the model"
	ConfigLevelUnknownFix      = "use a level name exactly as it appears in the model"
	ConfigTemplateUnknownFmt   = "group template %q does not exist in the model"
	ConfigTemplateUnknownFix   = "remove the name from groups.templates or fix its spelling"
)

// Profile field descriptions printed by `sfill fields`.
const (
	FieldDocumentPath    = "Model file (.json, .db, .sqlite). Relative to the profile directory."
	FieldScanCategories  = "Element categories visited by fill runs."
	FieldScanPhase       = "Phase whose rooms are considered. Empty uses the model's active phase."
	FieldBandBase        = "Name of the band's base level."
	FieldBandTop         = "Name of the band's top level (exclusive)."
	FieldOpLevel         = "Properties that receive the base level name."
	FieldOpRoomName      = "Properties that receive the owning room's name."
	FieldOpRoomNumber    = "Properties that receive the owning room's number."
	FieldOpGroupID       = "Properties that receive the name of the element's group."
	FieldFillOverwrite   = "Replace non-empty values instead of skipping them."
	FieldGroupsProperty  = "Property written on group members during propagation."
	FieldGroupsTemplates = "Template names to propagate. Empty selects every template."
	FieldGroupsOverwrite = "Replace non-empty member values during propagation."
	FieldGroupsInstance  = "Also write the value on each group instance."
	FieldRoomNudge       = "Height above the element's level used for room containment."
	FieldRunChunk        = "Elements between checkpoints. 0 = default, negative disables."
	FieldNoiseMode       = "Warning verbosity."
	FieldNoiseDefault    = "Show every warning."
	FieldNoiseReduce     = "Hide suppressible warnings."
	FieldNoiseQuiet      = "Hide all warnings."
	FieldLogLevel        = "Minimum log level."
	FieldLogFormat       = "Log encoding."
	FieldLogPath         = "Log destination: a file path, stderr, or stdout."
	FieldLogDevelopment  = "Use zap's development settings."
)
