package dsl

import (
	"context"

	zenv "github.com/reoring/zenv"
	"github.com/reoring/zenv/i18n"
)

// MakeSpec declares a reusable custom validator. Any combination of the three
// hooks may be set; precedence when several are given is Schema, then
// Predicate plus Transform, then Transform alone, then Predicate alone, then
// pass-through of the raw string.
type MakeSpec struct {
	// Base holds validator-level options that every use inherits.
	Base *Options
	// Predicate accepts or rejects the raw string.
	Predicate func(string) bool
	// Transform converts the raw string into the field's value.
	Transform func(string) (any, error)
	// Schema takes full control: it receives the merged options and returns
	// the validator to use, bypassing Predicate and Transform.
	Schema func(merged *Options) zenv.Validator
}

// Make returns a validator factory. Each call merges the per-use overrides
// (last one wins) over the spec's base options via MergeOptions and compiles
// a validator, registering its metadata in the side table.
func Make(ms MakeSpec) func(overrides ...*Options) zenv.Validator {
	return func(overrides ...*Options) zenv.Validator {
		var over *Options
		if len(overrides) > 0 {
			over = overrides[len(overrides)-1]
		}
		merged := MergeOptions(ms.Base, over)
		if ms.Schema != nil {
			v := ms.Schema(merged)
			zenv.RegisterMetadata(v, metadataOptions(merged))
			return v
		}
		c := &Custom{predicate: ms.Predicate, transform: ms.Transform}
		if merged != nil {
			c.opts = *merged
		}
		zenv.RegisterMetadata(c, metadataOptions(merged))
		return c
	}
}

// Custom is the compiled form of a Make validator.
type Custom struct {
	opts      Options
	predicate func(string) bool
	transform func(string) (any, error)
}

var _ zenv.Validator = (*Custom)(nil)

// ParseRaw validates one raw entry. Declared choices replace the
// predicate/transform pipeline just as they replace base type validation on
// the built-in builders.
func (c *Custom) ParseRaw(ctx context.Context, rv zenv.RawValue) (any, error) {
	if !rv.Present {
		return resolveAbsent(ctx, &c.opts)
	}
	raw := rv.Value
	if len(c.opts.Choices) > 0 {
		return matchChoice(raw, c.opts.Choices)
	}
	if c.predicate != nil && !c.predicate(raw) {
		return nil, zenv.Issues{{Path: "/", Code: zenv.CodeInvalidFormat, Message: i18n.T(zenv.CodeInvalidFormat, nil), Hint: "custom predicate"}}
	}
	if c.transform != nil {
		v, err := c.transform(raw)
		if err != nil {
			if iss, ok := zenv.AsIssues(err); ok {
				return nil, iss
			}
			return nil, zenv.Issues{{Path: "/", Code: zenv.CodeInvalidFormat, Message: err.Error(), Cause: err}}
		}
		return v, nil
	}
	return raw, nil
}
