// Package summary holds the per-run result structures produced by preview and execute.
package summary

import (
	"sort"
	"time"

	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

// Failure records one failed write.
type Failure struct {
	ElementID model.ElementID `json:"element_id" yaml:"element_id"`
	Operation Operation       `json:"operation" yaml:"operation"`
	Property  string          `json:"property" yaml:"property"`
	Kind      FailureKind     `json:"kind" yaml:"kind"`
	Message   string          `json:"message" yaml:"message"`
}

// ProcessingSummary is the result of an execute run.
type ProcessingSummary struct {
	RunID            string                           `json:"run_id" yaml:"run_id"`
	State            State                            `json:"state" yaml:"state"`
	Cancelled        bool                             `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
	Scanned          int                              `json:"scanned" yaml:"scanned"`
	Updated          map[Operation]int                `json:"updated" yaml:"updated"`
	Skipped          map[SkipReason]int               `json:"skipped" yaml:"skipped"`
	SkippedElements  map[SkipReason][]model.ElementID `json:"skipped_elements,omitempty" yaml:"skipped_elements,omitempty"`
	UpdatedElements  map[Operation][]model.ElementID  `json:"-" yaml:"-"`
	Failures         []Failure                        `json:"failures,omitempty" yaml:"failures,omitempty"`
	FailuresResolved int                              `json:"failures_resolved" yaml:"failures_resolved"`
	HostWarnings     int                              `json:"host_warnings" yaml:"host_warnings"`
	Detections       map[string]int                   `json:"room_detections,omitempty" yaml:"room_detections,omitempty"`
	Duration         time.Duration                    `json:"duration" yaml:"duration"`
}

// NewProcessingSummary returns an empty summary for runID.
func NewProcessingSummary(runID string) *ProcessingSummary {
	return &ProcessingSummary{
		RunID:           runID,
		State:           StateIdle,
		Updated:         make(map[Operation]int),
		Skipped:         make(map[SkipReason]int),
		SkippedElements: make(map[SkipReason][]model.ElementID),
		UpdatedElements: make(map[Operation][]model.ElementID),
		Detections:      make(map[string]int),
	}
}

// Detect counts one room detection by method.
func (s *ProcessingSummary) Detect(method string) {
	s.Detections[method]++
}

// Record folds one write outcome into the summary.
func (s *ProcessingSummary) Record(op Operation, id model.ElementID, property string, o Outcome) {
	switch o.Status {
	case StatusSuccess:
		s.Updated[op]++
		s.UpdatedElements[op] = appendUnique(s.UpdatedElements[op], id)
	case StatusSkipped:
		s.Skip(o.Reason, id)
	case StatusFailed:
		msg := ""
		if o.Err != nil {
			msg = o.Err.Error()
		}
		s.Failures = append(s.Failures, Failure{ElementID: id, Operation: op, Property: property, Kind: o.Failure, Message: msg})
	}
}

// Skip counts one skip for id. An element skipped for the same reason by consecutive
// writes is listed once.
func (s *ProcessingSummary) Skip(reason SkipReason, id model.ElementID) {
	s.Skipped[reason]++
	s.SkippedElements[reason] = appendUnique(s.SkippedElements[reason], id)
}

// TotalUpdated sums successful writes across operations.
func (s *ProcessingSummary) TotalUpdated() int {
	total := 0
	for _, n := range s.Updated {
		total += n
	}
	return total
}

// TotalSkipped sums skips across reasons.
func (s *ProcessingSummary) TotalSkipped() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// Outcomes is the number of recorded write outcomes of every status.
func (s *ProcessingSummary) Outcomes() int {
	return s.TotalUpdated() + s.TotalSkipped() + len(s.Failures)
}

// Operations returns the operations with at least one update, in a stable order.
func (s *ProcessingSummary) Operations() []Operation {
	out := make([]Operation, 0, len(s.Updated))
	for op := range s.Updated {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Merge adds other's counts into s. Run identity, state and duration are kept.
func (s *ProcessingSummary) Merge(other *ProcessingSummary) {
	if other == nil {
		return
	}
	s.Scanned += other.Scanned
	for op, n := range other.Updated {
		s.Updated[op] += n
	}
	for op, ids := range other.UpdatedElements {
		for _, id := range ids {
			s.UpdatedElements[op] = appendUnique(s.UpdatedElements[op], id)
		}
	}
	for reason, n := range other.Skipped {
		s.Skipped[reason] += n
	}
	for reason, ids := range other.SkippedElements {
		for _, id := range ids {
			s.SkippedElements[reason] = appendUnique(s.SkippedElements[reason], id)
		}
	}
	s.Failures = append(s.Failures, other.Failures...)
	for method, n := range other.Detections {
		s.Detections[method] += n
	}
	s.FailuresResolved += other.FailuresResolved
	s.HostWarnings += other.HostWarnings
}

func appendUnique(ids []model.ElementID, id model.ElementID) []model.ElementID {
	if n := len(ids); n > 0 && ids[n-1] == id {
		return ids
	}
	return append(ids, id)
}

// PreviewSummary is the read-only analogue of ProcessingSummary: estimated counts
// plus validation warnings.
type PreviewSummary struct {
	RunID           string                           `json:"run_id" yaml:"run_id"`
	Scanned         int                              `json:"scanned" yaml:"scanned"`
	Estimated       map[Operation]int                `json:"estimated" yaml:"estimated"`
	Skipped         map[SkipReason]int               `json:"skipped" yaml:"skipped"`
	SkippedElements map[SkipReason][]model.ElementID `json:"skipped_elements,omitempty" yaml:"skipped_elements,omitempty"`
	Templates       int                              `json:"templates,omitempty" yaml:"templates,omitempty"`
	Instances       int                              `json:"instances,omitempty" yaml:"instances,omitempty"`
	Detections      map[string]int                   `json:"room_detections,omitempty" yaml:"room_detections,omitempty"`
	Warnings        []warnings.Warning               `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Duration        time.Duration                    `json:"duration" yaml:"duration"`
}

// NewPreviewSummary returns an empty preview for runID.
func NewPreviewSummary(runID string) *PreviewSummary {
	return &PreviewSummary{
		RunID:           runID,
		Estimated:       make(map[Operation]int),
		Skipped:         make(map[SkipReason]int),
		SkippedElements: make(map[SkipReason][]model.ElementID),
		Detections:      make(map[string]int),
	}
}

// Detect counts one room detection by method.
func (p *PreviewSummary) Detect(method string) {
	p.Detections[method]++
}

// Estimate counts one expected write.
func (p *PreviewSummary) Estimate(op Operation, n int) {
	p.Estimated[op] += n
}

// Skip counts one expected skip for id.
func (p *PreviewSummary) Skip(reason SkipReason, id model.ElementID) {
	p.Skipped[reason]++
	p.SkippedElements[reason] = appendUnique(p.SkippedElements[reason], id)
}

// Warn appends validation warnings.
func (p *PreviewSummary) Warn(items ...warnings.Warning) {
	p.Warnings = append(p.Warnings, items...)
}

// TotalEstimated sums the estimated writes.
func (p *PreviewSummary) TotalEstimated() int {
	total := 0
	for _, n := range p.Estimated {
		total += n
	}
	return total
}
