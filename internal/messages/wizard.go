package messages

// Wizard messages for sfill init.
const (
	WizardRequiresTerminal   = "sfill init requires an interactive terminal"
	WizardNoElements         = "the model has no elements in any fillable category"
	WizardCategoriesTitle    = "Categories to fill"
	WizardOperationsTitle    = "Fill operations"
	WizardTargetTitleFmt     = "Target properties for %s (comma-separated)"
	WizardBandBaseTitle      = "Band base level"
	WizardBandTopTitle       = "Band top level"
	WizardBandLevelsFmt      = "level fill needs at least two levels; the model has %d"
	WizardBandSameFmt        = "band base and top are both %q"
	WizardOverwriteTitle     = "Overwrite properties that already hold a value?"
	WizardGroupPropertyTitle = "Group propagation property (leave blank to skip)"

	InitUse             = "init"
	InitShort           = "Create a fill profile from the contents of a model"
	InitModelRequired   = "sfill init needs --model"
	InitReplaceTitleFmt = "Replace %s?"
	InitWrittenFmt      = "Wrote %s\n"
	InitWriteFmt        = "write profile %s: %w"
	InitCancelled       = "Profile not written."
	InitFlagForce       = "replace an existing profile without asking"
)
