package messages

// Report messages.
const (
	ReportFormatInvalidFmt    = "unsupported report format %q (want text, json or yaml)"
	ReportStatusCountsFmt     = "%d updated, %d skipped, %d failed"
	ReportStatusCompletedFmt  = "Completed: %s in %s"
	ReportStatusCancelledFmt  = "Cancelled and rolled back: %s before cancellation; no changes were kept"
	ReportStatusRolledBackFmt = "Rolled back: %s before the error; no changes were kept"
	ReportStatusOtherFmt      = "%s: %s"
	ReportExportFmt           = "export report %s: %w"
	ReportExportTypeFmt       = "cannot export %T"
	ReportRunHeaderFmt        = "Run %s: %s in %s\n"
	ReportPreviewHeaderFmt    = "Preview %s (%s, nothing was written)\n"
	ReportGroupsFmt           = "Templates: %d  Instances: %d\n"
	ReportScannedFmt          = "Scanned: %d\n"
	ReportUpdatedHeader       = "Updated:"
	ReportEstimatedHeader     = "Estimated writes:"
	ReportSkippedHeader       = "Skipped:"
	ReportDetectionsHeader    = "Room detection:"
	ReportFailuresHeader      = "Failures:"
	ReportFailureLineFmt      = "  element %s %s %q: %s: %s\n"
	ReportResolvedFmt         = "Host failures resolved: %d\n"
	ReportHostWarningsFmt     = "Host warnings: %d\n"
	ReportDiffEncodeFmt       = "encode model for diff: %w"
	ReportDiffTruncatedFmt    = "... (truncated to %d lines; rerun with %s <n> to see more)"
)
