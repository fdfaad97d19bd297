package zenv

import "context"

// RawValue models a raw entry at the string boundary. Present distinguishes an
// empty string from an absent variable.
type RawValue struct {
	Value   string
	Present bool
}

// Validator is the capability set a field spec entry must satisfy. Recognition
// is structural: Resolve accepts any type implementing it and rejects anything
// else as an invalid_spec failure.
//
// ParseRaw returns the validated, coerced value (which may be nil for an
// explicitly optional field with no input) or an error. Errors should be
// Issues so they aggregate with other field failures; anything else is wrapped
// under CodeParseError.
type Validator interface {
	ParseRaw(ctx context.Context, rv RawValue) (any, error)
}

// Fallback is a tri-state default slot. Set with a nil Value means the field
// is explicitly optional: absence validates but no value is substituted. This
// is distinct from an unset Fallback (required) and from a concrete zero
// default.
type Fallback struct {
	Set   bool
	Value any
}

// UseValue reports whether a concrete value should be substituted on absence.
func (f Fallback) UseValue() bool { return f.Set && f.Value != nil }

// FieldSpec names one configuration key and its validator. The Validator field
// is deliberately any-typed; Resolve performs the capability check and reports
// non-validators through the aggregated error path.
type FieldSpec struct {
	Name      string
	Validator any
}

// FieldSpecs is the ordered declaration set. Declaration order is preserved
// through to Config.Keys.
type FieldSpecs []FieldSpec

// Field is a convenience constructor for a FieldSpec.
func Field(name string, v any) FieldSpec { return FieldSpec{Name: name, Validator: v} }
