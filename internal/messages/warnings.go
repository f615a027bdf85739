package messages

// Warning messages surfaced by preview validation.
const (
	WarningsNoiseModeInvalidFmt = "warnings.noise_mode %q is invalid (allowed: %s, %s, %s)"
	WarningsNoiseModeInvalidFix = "set warnings.noise_mode to default, reduce, or quiet, or remove it"
	WarningsAlsoFmt             = "also: %s"

	WarningBandInvalidFmt = "level band %s is invalid: %s"
	WarningBandInvalidFix = "pick a base level whose elevation is below the top level"
	WarningBandMissing    = "level fill is selected but no band is configured"
	WarningBandMissingFix = "set [band] base and top to two level names"

	WarningNoCategories      = "no categories are selected"
	WarningNoCategoriesFix   = "list at least one category under [scan] categories"
	WarningNoOperations      = "no fill operations are selected"
	WarningNoOperationsFix   = "enable at least one operation under [operations]"
	WarningCategoryEmptyFmt  = "category %s has no elements"
	WarningCategoryEmptyFix  = "remove the category or check the document"
	WarningPropertyUndeclFmt = "target property %q is not declared for category %s"
	WarningPropertyUndeclFix = "check the property name against the category schema"
	WarningPropertyROFmt     = "target property %q on category %s is read-only"
	WarningPropertyROFix     = "map the operation to a writable property"
	WarningPhaseNoRoomsFmt   = "phase %q has no rooms"
	WarningPhaseNoRoomsFix   = "set [room] phase to a phase that contains rooms"

	WarningGroupUnnamedFmt   = "group template %s has no name; its %d instance(s) will be skipped"
	WarningGroupUnnamedFix   = "name the group template"
	WarningGroupUnknownFmt   = "group template %s does not exist"
	WarningGroupUnknownFix   = "remove the id from [groups] templates"
	WarningGroupPropertyFmt  = "%d group member(s) do not declare property %q"
	WarningGroupPropertyFix  = "add the property to the member categories or choose another one"
	WarningGroupNoTemplates  = "document has no placed group instances"
	WarningGroupNoTemplatesF = "place at least one group instance"
)
