package messages

// Document adapter messages.
const (
	DocumentSessionOpen        = "document already has an open mutation session"
	DocumentSessionClosed      = "mutation session is closed"
	DocumentElementNotFoundFmt = "element %s not found"
	DocumentPropertyMissingFmt = "element %s has no property %q"
	DocumentAbortedFmt         = "host failure on element %s aborted the session: %s"
	DocumentGroupEditWarnFmt   = "element %s belongs to group instance %s and was edited outside group edit mode"
	DocumentReadFileFmt        = "read model file %s: %w"
	DocumentParseFileFmt       = "parse model file %s: %w"
	DocumentWriteFileFmt       = "write model file %s: %w"
	DocumentDuplicateIDFmt     = "model file %s: duplicate id %s"
	DocumentUnsupportedExtFmt  = "unsupported model file extension %q (want .json, .db or .sqlite)"
	DocumentOpenSQLiteFmt      = "open sqlite model %s: %w"
	DocumentSQLiteSchemaFmt    = "create sqlite schema: %w"
	DocumentSQLiteQueryFmt     = "query %s: %w"
	DocumentSQLiteImportFmt    = "import %s: %w"
	DocumentSQLiteDecodeFmt    = "decode %s of %s: %w"
	DocumentUnsupportedHostFmt = "host version %d is not supported (minimum %d)"
)
