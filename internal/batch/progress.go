package batch

// Progress is an advisory progress report.
type Progress struct {
	// Index is the 1-based position of the item being processed.
	Index int
	// Total is the number of items in the run.
	Total   int
	Message string
}

// ProgressFunc receives progress reports on the mutation goroutine.
type ProgressFunc func(Progress)

// safeProgress wraps fn so a panicking or nil callback never affects the run.
func safeProgress(fn ProgressFunc) func(index, total int, message string) {
	return func(index, total int, message string) {
		if fn == nil {
			return
		}
		defer func() {
			_ = recover()
		}()
		fn(Progress{Index: index, Total: total, Message: message})
	}
}
