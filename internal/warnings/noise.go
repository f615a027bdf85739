package warnings

import (
	"fmt"
	"strings"

	"github.com/conn-castle/spatialfill/internal/messages"
)

const (
	// NoiseModeDefault keeps all warnings.
	NoiseModeDefault = "default"
	// NoiseModeReduce hides suppressible warnings and folds repeats of a code into one.
	NoiseModeReduce = "reduce"
	// NoiseModeQuiet hides all warning output.
	NoiseModeQuiet = "quiet"
)

// ApplyNoiseControl filters preview warnings for display.
// mode is the warnings.noise_mode value from the fill profile. Critical warnings
// pass every mode except quiet unchanged.
func ApplyNoiseControl(items []Warning, mode string) []Warning {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", NoiseModeDefault:
		if len(items) == 0 {
			return nil
		}
		return append([]Warning(nil), items...)
	case NoiseModeQuiet:
		return nil
	case NoiseModeReduce:
		return reduce(items)
	}

	out := append([]Warning(nil), items...)
	return append(out, Warning{
		Code:     CodeWarningNoiseModeInval,
		Subject:  "warnings.noise_mode",
		Message:  fmt.Sprintf(messages.WarningsNoiseModeInvalidFmt, mode, NoiseModeDefault, NoiseModeReduce, NoiseModeQuiet),
		Fix:      messages.WarningsNoiseModeInvalidFix,
		Source:   SourceConfig,
		Severity: SeverityCritical,
	})
}

// reduce drops suppressible warnings. Later non-critical warnings sharing a code
// are folded into the first one as details naming their subjects.
func reduce(items []Warning) []Warning {
	out := make([]Warning, 0, len(items))
	first := make(map[string]int)
	for _, item := range items {
		if item.Critical() {
			out = append(out, item)
			continue
		}
		if item.NoiseSuppressible {
			continue
		}
		if i, ok := first[item.Code]; ok {
			out[i].Details = append(out[i].Details, fmt.Sprintf(messages.WarningsAlsoFmt, item.Subject))
			continue
		}
		first[item.Code] = len(out)
		item.Details = append([]string(nil), item.Details...)
		out = append(out, item)
	}
	return out
}
