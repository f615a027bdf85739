package messages

// Engine messages for the fill coordinator and group propagation.
const (
	EngineDocumentRequired      = "document is required"
	EngineCapabilitiesRequired  = "host capabilities are required"
	EngineBandRequired          = "level fill requires a band"
	EngineNoCategories          = "no categories selected"
	EngineNoOperations          = "no fill operations selected"
	EngineTargetsRequiredFmt    = "operation %s has no target properties"
	EngineUnknownOperationFmt   = "unknown operation %q"
	EngineDuplicateOperationFmt = "operation %s is selected twice"
	EngineDuplicateCategoryFmt  = "category %s is selected twice"
	EngineChunkSizeInvalidFmt   = "chunk size %d must not be negative"
	EngineNudgeInvalidFmt       = "point nudge %g must not be negative"
	EngineGroupPropertyRequired = "group propagation requires a target property"
	EngineUnknownTemplateFmt    = "group template %s does not exist"
	EngineRunPanicFmt           = "run panicked: %v"
	EngineBeginFmt              = "open mutation boundary: %w"
	EngineCommitFmt             = "commit run: %w"
	EngineCheckpointFmt         = "checkpoint after element %s: %w"
	EngineFatalWriteFmt         = "write %s on element %s: %w"
	EngineRollbackFailedFmt     = "%w (rollback also failed: %v)"
	EngineReadFmt               = "read %s: %w"

	ProgressScanningFmt   = "Scanning %s"
	ProgressProcessingFmt = "Processing element %d of %d"
	ProgressGroupFmt      = "Propagating %q to instance %d of %d"
	ProgressCommitting    = "Committing"
	ProgressRollingBack   = "Rolling back"

	GuardCoerceFmt = "coerce %q: %w"
	GuardSetFmt    = "set %q: %w"
)
