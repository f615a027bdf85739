package warnings

import "fmt"

// Warning codes.
const (
	CodeBandInvalid           = "BAND_INVALID"
	CodeBandMissing           = "BAND_MISSING"
	CodeNoCategories          = "NO_CATEGORIES_SELECTED"
	CodeNoOperations          = "NO_OPERATIONS_SELECTED"
	CodeCategoryEmpty         = "CATEGORY_HAS_NO_ELEMENTS"
	CodePropertyNotDeclared   = "TARGET_PROPERTY_NOT_DECLARED"
	CodePropertyReadOnly      = "TARGET_PROPERTY_READ_ONLY"
	CodePhaseHasNoRooms       = "PHASE_HAS_NO_ROOMS"
	CodeGroupTemplateUnnamed  = "GROUP_TEMPLATE_UNNAMED"
	CodeGroupTemplateUnknown  = "GROUP_TEMPLATE_UNKNOWN"
	CodeGroupPropertyMissing  = "GROUP_PROPERTY_MISSING"
	CodeWarningNoiseModeInval = "WARNING_NOISE_MODE_INVALID"
)

// Source labels where a warning originates.
const (
	SourceConfig   = "config"
	SourceDocument = "document"
)

// Severity labels whether a warning should be considered critical.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Warning represents a validation finding produced without mutating the document.
type Warning struct {
	Code     string   `json:"code" yaml:"code"`
	Subject  string   `json:"subject" yaml:"subject"`
	Message  string   `json:"message" yaml:"message"`
	Fix      string   `json:"fix,omitempty" yaml:"fix,omitempty"`
	Details  []string `json:"details,omitempty" yaml:"details,omitempty"`
	Source   string   `json:"source,omitempty" yaml:"source,omitempty"`
	Severity string   `json:"severity,omitempty" yaml:"severity,omitempty"`
	// NoiseSuppressible marks warnings that can be hidden by conservative noise controls.
	// Critical warnings are never suppressed even if this flag is true.
	NoiseSuppressible bool `json:"-" yaml:"-"`
}

func (w Warning) String() string {
	s := "WARNING " + w.Code + ": " + w.Message + "\n"
	s += fmt.Sprintf("  source: %s\n", w.sourceOrDefault())
	s += fmt.Sprintf("  severity: %s\n", w.severityOrDefault())
	s += "  subject: " + w.Subject
	if w.Fix != "" {
		s += "\n  fix: " + w.Fix
	}
	for _, d := range w.Details {
		s += "\n  details: " + d
	}
	return s
}

// Critical reports whether the warning blocks an execute run.
func (w Warning) Critical() bool {
	return w.severityOrDefault() == SeverityCritical
}

func (w Warning) sourceOrDefault() string {
	if w.Source == "" {
		return SourceConfig
	}
	return w.Source
}

func (w Warning) severityOrDefault() string {
	if w.Severity == "" {
		return SeverityWarning
	}
	return w.Severity
}

// HasCritical reports whether any warning in items is critical.
func HasCritical(items []Warning) bool {
	for _, w := range items {
		if w.Critical() {
			return true
		}
	}
	return false
}
