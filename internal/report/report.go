// Package report renders run summaries for people and for export.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	yaml "go.yaml.in/yaml/v3"

	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/summary"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

// Format is a report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension; unknown extensions are text.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatText
}

// ParseFormat validates a --format value.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf(messages.ReportFormatInvalidFmt, raw)
}

// StatusLine is the one-line outcome of an execute run.
func StatusLine(s *summary.ProcessingSummary) string {
	counts := fmt.Sprintf(messages.ReportStatusCountsFmt, s.TotalUpdated(), s.TotalSkipped(), len(s.Failures))
	switch s.State {
	case summary.StateCompleted:
		if len(s.Failures) > 0 {
			return color.YellowString(messages.ReportStatusCompletedFmt, counts, s.Duration.Round(time.Millisecond))
		}
		return color.GreenString(messages.ReportStatusCompletedFmt, counts, s.Duration.Round(time.Millisecond))
	case summary.StateRolledBack:
		if s.Cancelled {
			return color.YellowString(messages.ReportStatusCancelledFmt, counts)
		}
		return color.RedString(messages.ReportStatusRolledBackFmt, counts)
	}
	return fmt.Sprintf(messages.ReportStatusOtherFmt, s.State, counts)
}

// WriteProcessing writes s to w in format.
func WriteProcessing(w io.Writer, s *summary.ProcessingSummary, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatYAML:
		return writeYAML(w, s)
	}
	return writeProcessingText(w, s)
}

// WritePreview writes p to w in format. Text output filters warnings through
// noiseMode; exports always carry every warning.
func WritePreview(w io.Writer, p *summary.PreviewSummary, format Format, noiseMode string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, p)
	case FormatYAML:
		return writeYAML(w, p)
	}
	return writePreviewText(w, p, noiseMode)
}

// Export writes v to path, picking the format from the extension.
func Export(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf(messages.ReportExportFmt, path, err)
	}
	format := FormatForPath(path)
	switch s := v.(type) {
	case *summary.ProcessingSummary:
		err = WriteProcessing(f, s, format)
	case *summary.PreviewSummary:
		err = WritePreview(f, s, format, warnings.NoiseModeDefault)
	default:
		err = fmt.Errorf(messages.ReportExportTypeFmt, v)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf(messages.ReportExportFmt, path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeProcessingText(w io.Writer, s *summary.ProcessingSummary) error {
	b := &strings.Builder{}
	fmt.Fprintf(b, messages.ReportRunHeaderFmt, s.RunID, s.State, s.Duration.Round(time.Millisecond))
	fmt.Fprintf(b, messages.ReportScannedFmt, s.Scanned)
	writeCounts(b, messages.ReportUpdatedHeader, operationCounts(s.Updated))
	writeCounts(b, messages.ReportSkippedHeader, reasonCounts(s.Skipped))
	writeCounts(b, messages.ReportDetectionsHeader, s.Detections)
	if len(s.Failures) > 0 {
		b.WriteString(messages.ReportFailuresHeader + "\n")
		for _, f := range s.Failures {
			fmt.Fprintf(b, messages.ReportFailureLineFmt, f.ElementID, f.Operation, f.Property, f.Kind, f.Message)
		}
	}
	if s.FailuresResolved > 0 {
		fmt.Fprintf(b, messages.ReportResolvedFmt, s.FailuresResolved)
	}
	if s.HostWarnings > 0 {
		fmt.Fprintf(b, messages.ReportHostWarningsFmt, s.HostWarnings)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writePreviewText(w io.Writer, p *summary.PreviewSummary, noiseMode string) error {
	b := &strings.Builder{}
	fmt.Fprintf(b, messages.ReportPreviewHeaderFmt, p.RunID, p.Duration.Round(time.Millisecond))
	if p.Templates > 0 || p.Instances > 0 {
		fmt.Fprintf(b, messages.ReportGroupsFmt, p.Templates, p.Instances)
	}
	fmt.Fprintf(b, messages.ReportScannedFmt, p.Scanned)
	writeCounts(b, messages.ReportEstimatedHeader, operationCounts(p.Estimated))
	writeCounts(b, messages.ReportSkippedHeader, reasonCounts(p.Skipped))
	writeCounts(b, messages.ReportDetectionsHeader, p.Detections)
	for _, warn := range warnings.ApplyNoiseControl(p.Warnings, noiseMode) {
		b.WriteString("\n")
		if warn.Critical() {
			b.WriteString(color.RedString("%s", warn.String()))
		} else {
			b.WriteString(color.YellowString("%s", warn.String()))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCounts(b *strings.Builder, header string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString(header + "\n")
	for _, k := range keys {
		fmt.Fprintf(b, "  %-20s %d\n", k, counts[k])
	}
}

func operationCounts(in map[summary.Operation]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}

func reasonCounts(in map[summary.SkipReason]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}
