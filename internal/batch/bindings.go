package batch

import (
	"context"
	"fmt"

	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

// Binding is a target property resolved against a category schema once per run.
type Binding struct {
	Op       summary.Operation
	Category model.Category
	Def      model.PropertyDef
	// Declared is false when the schema does not list the property; writes then
	// skip with ParameterMissing on every element.
	Declared bool
}

// bindingSet holds the bindings of one run keyed by category then operation.
type bindingSet map[model.Category]map[summary.Operation][]Binding

func (b bindingSet) targets(cat model.Category, op summary.Operation) []Binding {
	return b[cat][op]
}

// bind resolves every operation target against each category's schema. Undeclared
// and read-only targets are reported as warnings.
func bind(ctx context.Context, doc document.Reader, cfg FillConfig) (bindingSet, []warnings.Warning, error) {
	out := make(bindingSet, len(cfg.Categories))
	var ws []warnings.Warning
	for _, cat := range cfg.Categories {
		schema, err := doc.PropertySchema(ctx, cat)
		if err != nil {
			return nil, nil, fmt.Errorf(messages.EngineReadFmt, "schema of "+string(cat), err)
		}
		defs := make(map[string]model.PropertyDef, len(schema))
		for _, d := range schema {
			defs[d.Name] = d
		}
		out[cat] = make(map[summary.Operation][]Binding)
		for _, spec := range cfg.orderedOperations() {
			for _, name := range nonBlank(spec.Targets) {
				def, ok := defs[name]
				if !ok {
					def = model.PropertyDef{Name: name}
					ws = append(ws, warnings.Warning{
						Code:     warnings.CodePropertyNotDeclared,
						Subject:  string(cat) + "." + name,
						Message:  fmt.Sprintf(messages.WarningPropertyUndeclFmt, name, cat),
						Fix:      messages.WarningPropertyUndeclFix,
						Source:   warnings.SourceDocument,
						Severity: warnings.SeverityWarning,
					})
				} else if def.ReadOnly {
					ws = append(ws, warnings.Warning{
						Code:     warnings.CodePropertyReadOnly,
						Subject:  string(cat) + "." + name,
						Message:  fmt.Sprintf(messages.WarningPropertyROFmt, name, cat),
						Fix:      messages.WarningPropertyROFix,
						Source:   warnings.SourceDocument,
						Severity: warnings.SeverityWarning,
					})
				}
				out[cat][spec.Kind] = append(out[cat][spec.Kind], Binding{Op: spec.Kind, Category: cat, Def: def, Declared: ok})
			}
		}
	}
	return out, ws, nil
}
