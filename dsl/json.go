package dsl

import (
	"context"

	json "github.com/goccy/go-json"
	zenv "github.com/reoring/zenv"
)

// JSONBuilder validates string-encoded JSON fields. The raw value must be a
// string (everything at the env boundary is); it is parsed and optionally
// re-validated against a Refine hook. Parse failure and refine failure both
// surface as a single field-level issue, never an uncaught panic.
type JSONBuilder struct {
	opts   Options
	md     *zenv.Metadata
	refine func(context.Context, any) error
}

// JSON returns a JSON field builder.
func JSON() *JSONBuilder {
	b := &JSONBuilder{}
	b.md = metadataOptions(&b.opts)
	zenv.RegisterMetadata(b, b.md)
	return b
}

// Default sets the production-tier fallback. The value is stored as-is (an
// already-structured value, not a JSON string).
func (b *JSONBuilder) Default(v any) *JSONBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: v}
	return b
}

// DevDefault sets the development-tier fallback.
func (b *JSONBuilder) DevDefault(v any) *JSONBuilder {
	b.opts.DevDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// TestDefault sets the test-tier fallback.
func (b *JSONBuilder) TestDefault(v any) *JSONBuilder {
	b.opts.TestDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// Optional makes absence valid without substituting any value.
func (b *JSONBuilder) Optional() *JSONBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: nil}
	return b
}

// Refine attaches a nested validation hook run against the parsed value.
func (b *JSONBuilder) Refine(fn func(context.Context, any) error) *JSONBuilder {
	b.refine = fn
	return b
}

// Desc attaches documentation; no runtime effect.
func (b *JSONBuilder) Desc(s string) *JSONBuilder {
	b.opts.Desc = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Example attaches an example value; no runtime effect.
func (b *JSONBuilder) Example(s string) *JSONBuilder {
	b.opts.Example = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Expose opts the field into the client-visible set.
func (b *JSONBuilder) Expose() *JSONBuilder {
	b.opts.client().Expose = boolPtr(true)
	syncMetadata(b.md, &b.opts)
	return b
}

// NoExpose pins the field server-only even under a client-safe prefix.
func (b *JSONBuilder) NoExpose() *JSONBuilder {
	b.opts.client().Expose = boolPtr(false)
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientTransform rewrites the server value for the client view.
func (b *JSONBuilder) ClientTransform(fn func(any) any) *JSONBuilder {
	b.opts.client().Transform = fn
	syncMetadata(b.md, &b.opts)
	return b
}

var _ zenv.Validator = (*JSONBuilder)(nil)

// ParseRaw validates one raw entry.
func (b *JSONBuilder) ParseRaw(ctx context.Context, rv zenv.RawValue) (any, error) {
	if !rv.Present {
		return resolveAbsent(ctx, &b.opts)
	}
	var v any
	if err := json.Unmarshal([]byte(rv.Value), &v); err != nil {
		return nil, zenv.Issues{{Path: "/", Code: zenv.CodeParseError, Message: "invalid JSON: " + err.Error(), Cause: err}}
	}
	if b.refine != nil {
		if err := b.refine(ctx, v); err != nil {
			if iss, ok := zenv.AsIssues(err); ok {
				return nil, iss
			}
			return nil, zenv.Issues{{Path: "/", Code: zenv.CodeInvalidFormat, Message: err.Error(), Cause: err}}
		}
	}
	return v, nil
}
