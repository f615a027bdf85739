package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/messages"
)

// DefaultDiffMaxLines is the default maximum number of diff lines shown.
const DefaultDiffMaxLines = 40

// diffLineCapFlagName is the CLI flag name used to raise the diff line cap.
const diffLineCapFlagName = "--diff-lines"

// ModelDiff renders a unified diff between two model snapshots, capped at maxLines.
// The boolean reports whether the diff was truncated.
func ModelDiff(name string, before, after document.File, maxLines int) (string, bool, error) {
	from, err := json.MarshalIndent(before, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf(messages.ReportDiffEncodeFmt, err)
	}
	to, err := json.MarshalIndent(after, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf(messages.ReportDiffEncodeFmt, err)
	}
	rendered, truncated := renderTruncatedUnifiedDiff(name+" (before)", name+" (after)", string(from)+"\n", string(to)+"\n", maxLines)
	return rendered, truncated, nil
}

// UnifiedDiff renders a unified diff of two texts, capped at maxLines.
func UnifiedDiff(fromName string, toName string, from string, to string, maxLines int) (string, bool) {
	return renderTruncatedUnifiedDiff(fromName, toName, from, to, maxLines)
}

func normalizeDiffMaxLines(value int) int {
	if value <= 0 {
		return DefaultDiffMaxLines
	}
	return value
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := normalizeDiffMaxLines(maxLines)
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := lines[:limit]
	truncated = append(
		truncated,
		fmt.Sprintf(messages.ReportDiffTruncatedFmt, limit, diffLineCapFlagName),
	)
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" {
		return ""
	}
	if strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
