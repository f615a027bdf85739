package messages

// Doctor messages for the doctor command.
const (
	// DoctorUse is the doctor command name.
	DoctorUse   = "doctor"
	DoctorShort = "Check the profile and model for problems before a run"

	DoctorHealthCheckFmt = "Checking %s...\n"

	DoctorCheckNameProfile = "Profile"
	DoctorCheckNameModel   = "Model"
	DoctorCheckNameFill    = "Fill"
	DoctorCheckNameGroups  = "Groups"

	DoctorProfileLoadedFmt       = "Profile loaded: %s"
	DoctorProfileLoadFailedFmt   = "Failed to load profile: %v"
	DoctorProfileLoadRecommend   = "Check that the profile exists and is valid TOML."
	DoctorProfileFieldsRecommend = "Run `sfill fields` to list the supported keys and values."

	DoctorUnknownKeysEditFmt   = "Edit %s to remove or rename these keys:"
	DoctorUnknownKeyLineFmt    = "- %s"
	DoctorUnknownKeyAllowedFmt = " (allowed keys: %s)"
	DoctorUnknownKeyNoNested   = " (no nested keys are allowed here)"
	DoctorUnknownKeySuggestFmt = " (did you mean %s?)"

	DoctorModelOpenedFmt          = "Model opened: %s (host %d)"
	DoctorModelOpenFailedFmt      = "Failed to open model: %v"
	DoctorModelOpenRecommend      = "Set document.path or pass --model with a .json, .db, or .sqlite model."
	DoctorHostVersionRecommendFmt = "Upgrade the model to host %d or newer."
	DoctorHostVersionNewerFmt     = "Host %d is newer than %d; the %[2]d capability table is used."

	DoctorFillNotConfigured      = "No fill operations configured."
	DoctorBandFmt                = "Band: %s to %s"
	DoctorCategoryEmptyFmt       = "Category %s has no elements"
	DoctorCategoryEmptyRecommend = "Check scan.categories against the categories in the model."
	DoctorCategoryCountFmt       = "Category %s: %d elements"
	DoctorTargetUndeclaredFmt    = "Operation %s targets %q, which %s does not declare"
	DoctorTargetReadOnlyFmt      = "Operation %s targets %q, which is read-only on %s"
	DoctorTargetRecommend        = "Pick a writable property declared on the category, or expect ParameterMissing skips."

	DoctorGroupsNotConfigured = "Group propagation not configured."
	DoctorGroupsNoTemplates   = "The model has no group templates."
	DoctorGroupsFoundFmt      = "Propagating %q across %d templates and %d instances"

	DoctorReadFailedFmt = "Failed to read model: %v"

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-8s %s\n"
	DoctorRecommendationPrefix = "         > "
	DoctorRecommendationIndent = "           "

	DoctorSuccessSummary = "All checks passed."
	DoctorFailureSummary = "Some checks failed."
	DoctorFailureError   = "doctor found problems"
)
