package summary

// Status is the result class of a single guarded write.
type Status int

const (
	// StatusSuccess means the value was written.
	StatusSuccess Status = iota
	// StatusSkipped means the write was declined for an expected reason.
	StatusSkipped
	// StatusFailed means the write was attempted and rejected.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the result of one guarded write.
type Outcome struct {
	Status  Status
	Reason  SkipReason
	Failure FailureKind
	Err     error
}

// Success returns a successful outcome.
func Success() Outcome {
	return Outcome{Status: StatusSuccess}
}

// Skipped returns a skip outcome for reason.
func Skipped(reason SkipReason) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

// Failed returns a failed outcome.
func Failed(kind FailureKind, err error) Outcome {
	return Outcome{Status: StatusFailed, Failure: kind, Err: err}
}
