package dsl

import (
	"context"
	"strconv"

	zenv "github.com/reoring/zenv"
	"github.com/reoring/zenv/i18n"
)

// IntBuilder validates integer fields. Raw strings are coerced to a number
// before range and sign checks; non-numeric input fails with invalid_type
// rather than silently defaulting.
type IntBuilder struct {
	opts Options
	md   *zenv.Metadata

	minSet, maxSet bool
	min, max       int
}

func newInt() *IntBuilder {
	b := &IntBuilder{}
	b.md = metadataOptions(&b.opts)
	zenv.RegisterMetadata(b, b.md)
	return b
}

// Int returns an integer field builder.
func Int() *IntBuilder { return newInt() }

// Port returns an integer builder constrained to the TCP/UDP port range.
func Port() *IntBuilder { return newInt().Min(1).Max(65535) }

// Default sets the production-tier fallback.
func (b *IntBuilder) Default(v int) *IntBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: v}
	return b
}

// DevDefault sets the development-tier fallback.
func (b *IntBuilder) DevDefault(v int) *IntBuilder {
	b.opts.DevDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// TestDefault sets the test-tier fallback.
func (b *IntBuilder) TestDefault(v int) *IntBuilder {
	b.opts.TestDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// Optional makes absence valid without substituting any value.
func (b *IntBuilder) Optional() *IntBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: nil}
	return b
}

// Min requires the value to be at least n.
func (b *IntBuilder) Min(n int) *IntBuilder {
	b.minSet, b.min = true, n
	return b
}

// Max allows the value to be at most n.
func (b *IntBuilder) Max(n int) *IntBuilder {
	b.maxSet, b.max = true, n
	return b
}

// Choices restricts the field to a closed integer set.
func (b *IntBuilder) Choices(vs ...int) *IntBuilder {
	b.opts.Choices = make([]any, 0, len(vs))
	for _, v := range vs {
		b.opts.Choices = append(b.opts.Choices, v)
	}
	return b
}

// Desc attaches documentation; no runtime effect.
func (b *IntBuilder) Desc(s string) *IntBuilder {
	b.opts.Desc = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Example attaches an example value; no runtime effect.
func (b *IntBuilder) Example(s string) *IntBuilder {
	b.opts.Example = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Expose opts the field into the client-visible set.
func (b *IntBuilder) Expose() *IntBuilder {
	b.opts.client().Expose = boolPtr(true)
	syncMetadata(b.md, &b.opts)
	return b
}

// NoExpose pins the field server-only even under a client-safe prefix.
func (b *IntBuilder) NoExpose() *IntBuilder {
	b.opts.client().Expose = boolPtr(false)
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientTransform rewrites the server value for the client view.
func (b *IntBuilder) ClientTransform(fn func(any) any) *IntBuilder {
	b.opts.client().Transform = fn
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientDefault sets the client-side fallback used only when no server value
// resolved.
func (b *IntBuilder) ClientDefault(v any) *IntBuilder {
	b.opts.client().Default = zenv.Fallback{Set: true, Value: v}
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientDevDefault sets the development-tier client-side fallback.
func (b *IntBuilder) ClientDevDefault(v any) *IntBuilder {
	b.opts.client().DevDefault = zenv.Fallback{Set: true, Value: v}
	syncMetadata(b.md, &b.opts)
	return b
}

var _ zenv.Validator = (*IntBuilder)(nil)

// ParseRaw validates one raw entry against the compiled constraints.
func (b *IntBuilder) ParseRaw(ctx context.Context, rv zenv.RawValue) (any, error) {
	if !rv.Present {
		return resolveAbsent(ctx, &b.opts)
	}
	raw := rv.Value
	if len(b.opts.Choices) > 0 {
		return matchChoice(raw, b.opts.Choices)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Distinguish a fractional number from plain garbage in the message;
		// both are type errors.
		if _, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
			return nil, issueAt(zenv.CodeInvalidType, "not an integer")
		}
		return nil, zenv.Issues{{Path: "/", Code: zenv.CodeInvalidType, Message: i18n.T(zenv.CodeInvalidType, nil), Cause: err}}
	}
	if b.minSet && n < b.min {
		return nil, issueAt(zenv.CodeTooSmall, "")
	}
	if b.maxSet && n > b.max {
		return nil, issueAt(zenv.CodeTooBig, "")
	}
	return n, nil
}

// NumBuilder validates floating-point fields with the same coercion rules as
// IntBuilder minus the integer restriction.
type NumBuilder struct {
	opts Options
	md   *zenv.Metadata

	minSet, maxSet bool
	min, max       float64
}

// Num returns a float64 field builder.
func Num() *NumBuilder {
	b := &NumBuilder{}
	b.md = metadataOptions(&b.opts)
	zenv.RegisterMetadata(b, b.md)
	return b
}

// Default sets the production-tier fallback.
func (b *NumBuilder) Default(v float64) *NumBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: v}
	return b
}

// DevDefault sets the development-tier fallback.
func (b *NumBuilder) DevDefault(v float64) *NumBuilder {
	b.opts.DevDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// TestDefault sets the test-tier fallback.
func (b *NumBuilder) TestDefault(v float64) *NumBuilder {
	b.opts.TestDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// Optional makes absence valid without substituting any value.
func (b *NumBuilder) Optional() *NumBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: nil}
	return b
}

// Min requires the value to be at least n.
func (b *NumBuilder) Min(n float64) *NumBuilder {
	b.minSet, b.min = true, n
	return b
}

// Max allows the value to be at most n.
func (b *NumBuilder) Max(n float64) *NumBuilder {
	b.maxSet, b.max = true, n
	return b
}

// Choices restricts the field to a closed numeric set.
func (b *NumBuilder) Choices(vs ...float64) *NumBuilder {
	b.opts.Choices = make([]any, 0, len(vs))
	for _, v := range vs {
		b.opts.Choices = append(b.opts.Choices, v)
	}
	return b
}

// Desc attaches documentation; no runtime effect.
func (b *NumBuilder) Desc(s string) *NumBuilder {
	b.opts.Desc = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Example attaches an example value; no runtime effect.
func (b *NumBuilder) Example(s string) *NumBuilder {
	b.opts.Example = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Expose opts the field into the client-visible set.
func (b *NumBuilder) Expose() *NumBuilder {
	b.opts.client().Expose = boolPtr(true)
	syncMetadata(b.md, &b.opts)
	return b
}

// NoExpose pins the field server-only even under a client-safe prefix.
func (b *NumBuilder) NoExpose() *NumBuilder {
	b.opts.client().Expose = boolPtr(false)
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientTransform rewrites the server value for the client view.
func (b *NumBuilder) ClientTransform(fn func(any) any) *NumBuilder {
	b.opts.client().Transform = fn
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientDefault sets the client-side fallback used only when no server value
// resolved.
func (b *NumBuilder) ClientDefault(v any) *NumBuilder {
	b.opts.client().Default = zenv.Fallback{Set: true, Value: v}
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientDevDefault sets the development-tier client-side fallback.
func (b *NumBuilder) ClientDevDefault(v any) *NumBuilder {
	b.opts.client().DevDefault = zenv.Fallback{Set: true, Value: v}
	syncMetadata(b.md, &b.opts)
	return b
}

var _ zenv.Validator = (*NumBuilder)(nil)

// ParseRaw validates one raw entry against the compiled constraints.
func (b *NumBuilder) ParseRaw(ctx context.Context, rv zenv.RawValue) (any, error) {
	if !rv.Present {
		return resolveAbsent(ctx, &b.opts)
	}
	raw := rv.Value
	if len(b.opts.Choices) > 0 {
		return matchChoice(raw, b.opts.Choices)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, zenv.Issues{{Path: "/", Code: zenv.CodeInvalidType, Message: i18n.T(zenv.CodeInvalidType, nil), Cause: err}}
	}
	if b.minSet && f < b.min {
		return nil, issueAt(zenv.CodeTooSmall, "")
	}
	if b.maxSet && f > b.max {
		return nil, issueAt(zenv.CodeTooBig, "")
	}
	return f, nil
}
