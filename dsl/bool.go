package dsl

import (
	"context"
	"strings"

	zenv "github.com/reoring/zenv"
	"github.com/reoring/zenv/i18n"
)

// parseBoolToken is a closed mapping, not a coercion: exactly the
// case-insensitive tokens true/1/yes/on and false/0/no/off. Anything else
// reports not-ok. Naive truthy coercion would read the string "false" as
// true, which is why the set is closed.
func parseBoolToken(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

// BoolBuilder validates boolean fields via the closed token mapping.
type BoolBuilder struct {
	opts Options
	md   *zenv.Metadata
}

// Bool returns a boolean field builder.
func Bool() *BoolBuilder {
	b := &BoolBuilder{}
	b.md = metadataOptions(&b.opts)
	zenv.RegisterMetadata(b, b.md)
	return b
}

// Default sets the production-tier fallback.
func (b *BoolBuilder) Default(v bool) *BoolBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: v}
	return b
}

// DevDefault sets the development-tier fallback.
func (b *BoolBuilder) DevDefault(v bool) *BoolBuilder {
	b.opts.DevDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// TestDefault sets the test-tier fallback.
func (b *BoolBuilder) TestDefault(v bool) *BoolBuilder {
	b.opts.TestDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// Optional makes absence valid without substituting any value.
func (b *BoolBuilder) Optional() *BoolBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: nil}
	return b
}

// Desc attaches documentation; no runtime effect.
func (b *BoolBuilder) Desc(s string) *BoolBuilder {
	b.opts.Desc = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Example attaches an example value; no runtime effect.
func (b *BoolBuilder) Example(s string) *BoolBuilder {
	b.opts.Example = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Expose opts the field into the client-visible set.
func (b *BoolBuilder) Expose() *BoolBuilder {
	b.opts.client().Expose = boolPtr(true)
	syncMetadata(b.md, &b.opts)
	return b
}

// NoExpose pins the field server-only even under a client-safe prefix.
func (b *BoolBuilder) NoExpose() *BoolBuilder {
	b.opts.client().Expose = boolPtr(false)
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientTransform rewrites the server value for the client view.
func (b *BoolBuilder) ClientTransform(fn func(any) any) *BoolBuilder {
	b.opts.client().Transform = fn
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientDefault sets the client-side fallback used only when no server value
// resolved.
func (b *BoolBuilder) ClientDefault(v any) *BoolBuilder {
	b.opts.client().Default = zenv.Fallback{Set: true, Value: v}
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientDevDefault sets the development-tier client-side fallback.
func (b *BoolBuilder) ClientDevDefault(v any) *BoolBuilder {
	b.opts.client().DevDefault = zenv.Fallback{Set: true, Value: v}
	syncMetadata(b.md, &b.opts)
	return b
}

var _ zenv.Validator = (*BoolBuilder)(nil)

// ParseRaw validates one raw entry.
func (b *BoolBuilder) ParseRaw(ctx context.Context, rv zenv.RawValue) (any, error) {
	if !rv.Present {
		return resolveAbsent(ctx, &b.opts)
	}
	v, ok := parseBoolToken(rv.Value)
	if !ok {
		return nil, zenv.Issues{{
			Path:    "/",
			Code:    zenv.CodeInvalidType,
			Message: i18n.T(zenv.CodeInvalidType, nil),
			Hint:    "expected one of true/false/1/0/yes/no/on/off",
		}}
	}
	return v, nil
}
