package warnings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyNoiseControl_Default(t *testing.T) {
	items := []Warning{
		{Code: CodeCategoryEmpty, NoiseSuppressible: true, Severity: SeverityWarning},
		{Code: CodeBandInvalid, Severity: SeverityCritical},
	}
	filtered := ApplyNoiseControl(items, "")
	require.Len(t, filtered, 2)
}

func TestApplyNoiseControl_Reduce(t *testing.T) {
	items := []Warning{
		{Code: CodeCategoryEmpty, NoiseSuppressible: true, Severity: SeverityWarning},
		{Code: CodeBandInvalid, NoiseSuppressible: true, Severity: SeverityCritical},
		{Code: CodePropertyNotDeclared, Severity: SeverityWarning},
	}
	filtered := ApplyNoiseControl(items, NoiseModeReduce)
	require.Len(t, filtered, 2)
	require.Equal(t, CodeBandInvalid, filtered[0].Code)
	require.Equal(t, CodePropertyNotDeclared, filtered[1].Code)
}

func TestApplyNoiseControl_ReduceFoldsRepeatedCodes(t *testing.T) {
	items := []Warning{
		{Code: CodePropertyNotDeclared, Subject: "doors", Details: []string{"Room Number"}},
		{Code: CodeBandInvalid, Subject: "band", Severity: SeverityCritical},
		{Code: CodePropertyNotDeclared, Subject: "windows"},
		{Code: CodePropertyNotDeclared, Subject: "casework"},
	}
	filtered := ApplyNoiseControl(items, "Reduce")
	require.Len(t, filtered, 2)
	require.Equal(t, "doors", filtered[0].Subject)
	require.Equal(t, []string{"Room Number", "also: windows", "also: casework"}, filtered[0].Details)
	require.Equal(t, []string{"Room Number"}, items[0].Details, "input is not modified")
	require.Equal(t, CodeBandInvalid, filtered[1].Code)
}

func TestApplyNoiseControl_Quiet(t *testing.T) {
	items := []Warning{
		{Code: CodeCategoryEmpty, NoiseSuppressible: true, Severity: SeverityWarning},
		{Code: CodeBandInvalid, Severity: SeverityCritical},
	}
	require.Nil(t, ApplyNoiseControl(items, NoiseModeQuiet))
}

func TestApplyNoiseControl_UnknownMode(t *testing.T) {
	items := []Warning{
		{Code: CodeCategoryEmpty, NoiseSuppressible: true, Severity: SeverityWarning},
	}
	filtered := ApplyNoiseControl(items, "unknown")
	require.Len(t, filtered, 2)
	require.Equal(t, CodeCategoryEmpty, filtered[0].Code)
	require.Equal(t, CodeWarningNoiseModeInval, filtered[1].Code)
	require.Equal(t, SeverityCritical, filtered[1].Severity)
	require.Equal(t, "warnings.noise_mode", filtered[1].Subject)
	require.Contains(t, filtered[1].Message, "quiet")
}

func TestApplyNoiseControl_DefaultNoItemsReturnsNil(t *testing.T) {
	require.Nil(t, ApplyNoiseControl(nil, NoiseModeDefault))
}

func TestWarningString(t *testing.T) {
	w := Warning{
		Code:    CodePropertyNotDeclared,
		Subject: "doors",
		Message: "target property is not declared",
		Fix:     "add the property",
		Details: []string{"Room Number"},
		Source:  SourceDocument,
	}
	out := w.String()
	require.Contains(t, out, "WARNING TARGET_PROPERTY_NOT_DECLARED: target property is not declared")
	require.Contains(t, out, "source: document")
	require.Contains(t, out, "severity: warning")
	require.Contains(t, out, "fix: add the property")
	require.Contains(t, out, "details: Room Number")
	require.False(t, w.Critical())
	require.True(t, HasCritical([]Warning{w, {Severity: SeverityCritical}}))
}
