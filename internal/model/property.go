package model

import (
	"fmt"
	"strconv"
	"strings"
)

// StorageKind is the native representation a property stores.
type StorageKind string

const (
	// StorageText stores a string.
	StorageText StorageKind = "text"
	// StorageInteger stores a signed integer.
	StorageInteger StorageKind = "integer"
	// StorageDouble stores a real number.
	StorageDouble StorageKind = "double"
	// StorageYesNo stores a boolean as 0 or 1.
	StorageYesNo StorageKind = "yes_no"
	// StorageReference stores an element id.
	StorageReference StorageKind = "reference"
)

// Known reports whether k is one of the supported storage kinds.
func (k StorageKind) Known() bool {
	switch k {
	case StorageText, StorageInteger, StorageDouble, StorageYesNo, StorageReference:
		return true
	}
	return false
}

// PropertyDef is a declared property in a category's schema.
type PropertyDef struct {
	Name     string      `json:"name"`
	Kind     StorageKind `json:"kind"`
	ReadOnly bool        `json:"read_only,omitempty"`
}

// Property is a named, typed, possibly read-only attribute attached to an element.
// Only the field matching Kind is meaningful.
type Property struct {
	Name     string      `json:"name"`
	Kind     StorageKind `json:"kind"`
	ReadOnly bool        `json:"read_only,omitempty"`
	HasValue bool        `json:"has_value,omitempty"`
	Text     string      `json:"text,omitempty"`
	Integer  int64       `json:"integer,omitempty"`
	Double   float64     `json:"double,omitempty"`
	Ref      ElementID   `json:"ref,omitempty"`
}

// Def returns the declaration part of p.
func (p Property) Def() PropertyDef {
	return PropertyDef{Name: p.Name, Kind: p.Kind, ReadOnly: p.ReadOnly}
}

// IsEmpty reports whether the property holds no meaningful value.
func (p Property) IsEmpty() bool {
	if !p.HasValue {
		return true
	}
	switch p.Kind {
	case StorageText:
		return strings.TrimSpace(p.Text) == ""
	case StorageReference:
		return !p.Ref.Valid()
	}
	return false
}

// Display renders the current value as text.
func (p Property) Display() string {
	if !p.HasValue {
		return ""
	}
	switch p.Kind {
	case StorageText:
		return p.Text
	case StorageInteger:
		return strconv.FormatInt(p.Integer, 10)
	case StorageDouble:
		return strconv.FormatFloat(p.Double, 'g', -1, 64)
	case StorageYesNo:
		if p.Integer != 0 {
			return "1"
		}
		return "0"
	case StorageReference:
		return p.Ref.String()
	}
	return ""
}

// Value is a derived value to be written. Text is the display form; Ref is the typed
// reference used when the target stores an element id.
type Value struct {
	Text string
	Ref  ElementID
}

// TextValue returns a Value with no typed reference.
func TextValue(text string) Value {
	return Value{Text: text}
}

// Coerce converts v into the storage representation of def. The returned property
// carries def's name, kind, and read-only flag.
func Coerce(def PropertyDef, v Value) (Property, error) {
	out := Property{Name: def.Name, Kind: def.Kind, ReadOnly: def.ReadOnly, HasValue: true}
	text := strings.TrimSpace(v.Text)
	switch def.Kind {
	case StorageText:
		out.Text = v.Text
	case StorageInteger:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Property{}, fmt.Errorf("property %q stores integers; cannot convert %q", def.Name, v.Text)
		}
		out.Integer = n
	case StorageDouble:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Property{}, fmt.Errorf("property %q stores numbers; cannot convert %q", def.Name, v.Text)
		}
		out.Double = f
	case StorageYesNo:
		b, err := parseYesNo(text)
		if err != nil {
			return Property{}, fmt.Errorf("property %q stores yes/no; cannot convert %q", def.Name, v.Text)
		}
		if b {
			out.Integer = 1
		}
	case StorageReference:
		if v.Ref.Valid() {
			out.Ref = v.Ref
			break
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || !ElementID(n).Valid() {
			return Property{}, fmt.Errorf("property %q stores element references; cannot convert %q", def.Name, v.Text)
		}
		out.Ref = ElementID(n)
	default:
		return Property{}, fmt.Errorf("property %q has unknown storage kind %q", def.Name, def.Kind)
	}
	return out, nil
}

func parseYesNo(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "1", "yes", "y", "true":
		return true, nil
	case "0", "no", "n", "false":
		return false, nil
	}
	return false, fmt.Errorf("not a yes/no value")
}
