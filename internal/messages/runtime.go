package messages

// Lock messages.
const (
	LockOpenFmt    = "open model lock %s: %w"
	LockAcquireFmt = "lock model %s: %w"
	LockTimeoutFmt = "another sfill run holds the model lock (waited %s)"
)

// Logging messages.
const (
	LoggingLevelInvalidFmt  = "invalid log level %q: %w"
	LoggingFormatInvalidFmt = "invalid log format %q (want %s or %s)"
	LoggingBuildFmt         = "build logger: %w"
)
