package dsl

import (
	"context"
	"time"

	zenv "github.com/reoring/zenv"
	"github.com/reoring/zenv/i18n"
)

// DurationBuilder validates time.Duration fields using Go duration syntax
// ("250ms", "2h45m").
type DurationBuilder struct {
	opts Options
	md   *zenv.Metadata

	minSet, maxSet bool
	min, max       time.Duration
}

// Duration returns a duration field builder.
func Duration() *DurationBuilder {
	b := &DurationBuilder{}
	b.md = metadataOptions(&b.opts)
	zenv.RegisterMetadata(b, b.md)
	return b
}

// Default sets the production-tier fallback.
func (b *DurationBuilder) Default(v time.Duration) *DurationBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: v}
	return b
}

// DevDefault sets the development-tier fallback.
func (b *DurationBuilder) DevDefault(v time.Duration) *DurationBuilder {
	b.opts.DevDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// TestDefault sets the test-tier fallback.
func (b *DurationBuilder) TestDefault(v time.Duration) *DurationBuilder {
	b.opts.TestDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// Optional makes absence valid without substituting any value.
func (b *DurationBuilder) Optional() *DurationBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: nil}
	return b
}

// Min requires the duration to be at least d.
func (b *DurationBuilder) Min(d time.Duration) *DurationBuilder {
	b.minSet, b.min = true, d
	return b
}

// Max allows the duration to be at most d.
func (b *DurationBuilder) Max(d time.Duration) *DurationBuilder {
	b.maxSet, b.max = true, d
	return b
}

// Desc attaches documentation; no runtime effect.
func (b *DurationBuilder) Desc(s string) *DurationBuilder {
	b.opts.Desc = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Example attaches an example value; no runtime effect.
func (b *DurationBuilder) Example(s string) *DurationBuilder {
	b.opts.Example = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Expose opts the field into the client-visible set.
func (b *DurationBuilder) Expose() *DurationBuilder {
	b.opts.client().Expose = boolPtr(true)
	syncMetadata(b.md, &b.opts)
	return b
}

// NoExpose pins the field server-only even under a client-safe prefix.
func (b *DurationBuilder) NoExpose() *DurationBuilder {
	b.opts.client().Expose = boolPtr(false)
	syncMetadata(b.md, &b.opts)
	return b
}

var _ zenv.Validator = (*DurationBuilder)(nil)

// ParseRaw validates one raw entry.
func (b *DurationBuilder) ParseRaw(ctx context.Context, rv zenv.RawValue) (any, error) {
	if !rv.Present {
		return resolveAbsent(ctx, &b.opts)
	}
	d, err := time.ParseDuration(rv.Value)
	if err != nil {
		return nil, zenv.Issues{{Path: "/", Code: zenv.CodeInvalidType, Message: i18n.T(zenv.CodeInvalidType, nil), Cause: err, Hint: "duration"}}
	}
	if b.minSet && d < b.min {
		return nil, issueAt(zenv.CodeTooSmall, "")
	}
	if b.maxSet && d > b.max {
		return nil, issueAt(zenv.CodeTooBig, "")
	}
	return d, nil
}
