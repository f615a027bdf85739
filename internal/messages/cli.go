package messages

// Root command and version messages.
const (
	RootUse          = "sfill"
	RootShort        = "Fill level, room, and group properties across a building model"
	VersionTemplate  = "{{.Version}}\n"
	VersionFullFmt   = "%s (%s)"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"

	FlagProfile   = "fill profile (default ./sfill.toml)"
	FlagModel     = "model file; overrides document.path from the profile"
	FlagLogLevel  = "log level override (debug, info, warn, error)"
	FlagQuiet     = "suppress progress and report output"
	FlagYes       = "apply without asking for confirmation"
	FlagReport    = "export the run summary to a .json, .yaml, or .txt file"
	FlagFormat    = "report format on stdout (text, json, yaml)"
	FlagDiff      = "print a unified diff of the model after the run"
	FlagDiffLines = "maximum diff lines to print"
	FlagMetrics   = "write run metrics in Prometheus text format to this file"
)

// Command messages.
const (
	PreviewUse   = "preview"
	PreviewShort = "Report what fill and group propagation would change without writing"
	FillUse      = "fill"
	FillShort    = "Fill level, room, and group id properties on the selected elements"
	GroupsUse    = "groups"
	GroupsShort  = "Propagate a property from group instances to their members"
	ConvertUse   = "convert <model.json> <model.db>"
	ConvertShort = "Import a JSON model into a SQLite model"
	FieldsUse    = "fields"
	FieldsShort  = "List the supported profile keys"

	FillConfirmTitleFmt   = "Fill %s in %s?"
	GroupsConfirmTitleFmt = "Propagate %q to group members in %s?"
	ConfirmDeclined       = "Nothing was changed."
	ConvertDoneFmt        = "Imported %d elements from %s into %s\n"
	ConvertExistsFmt      = "%s already exists; choose a new SQLite path"
	GroupsReportSuffix    = ".groups"

	CLIGetwdFmt            = "determine working directory: %w"
	CLIHostVersionFmt      = "model %s: %w"
	CLICoordinatorFmt      = "prepare run: %w"
	CLILoggerFmt           = "configure logging: %w"
	CLIModelCloseFmt       = "close model: %w"
	CLISnapshotUnsupported = "--diff needs a model that can be snapshotted"

	FieldsLineFmt   = "%-32s %-9s %s\n"
	FieldsOptionFmt = "%-32s %-9s   %s: %s\n"
)
