package dsl

import (
	"context"
	"regexp"

	"github.com/asaskevich/govalidator"
	zenv "github.com/reoring/zenv"
	"github.com/reoring/zenv/i18n"
)

// StrBuilder validates string fields. It doubles as the compiled validator,
// so a chained builder drops straight into a FieldSpec.
type StrBuilder struct {
	opts Options
	md   *zenv.Metadata

	minSet, maxSet bool
	min, max       int
	pattern        *regexp.Regexp

	// format delegates structured-string checks (email, url, ...) to the
	// external format collaborator; this package never hand-rolls them.
	format string
	check  func(string) bool
}

func newStr(format string, check func(string) bool) *StrBuilder {
	b := &StrBuilder{format: format, check: check}
	b.md = metadataOptions(&b.opts)
	zenv.RegisterMetadata(b, b.md)
	return b
}

// Str returns a plain string field builder.
func Str() *StrBuilder { return newStr("", nil) }

// Email returns a string builder constrained to email syntax.
func Email() *StrBuilder { return newStr("email", govalidator.IsEmail) }

// URL returns a string builder constrained to URL syntax.
func URL() *StrBuilder { return newStr("url", govalidator.IsURL) }

// UUID returns a string builder constrained to UUID syntax.
func UUID() *StrBuilder { return newStr("uuid", govalidator.IsUUID) }

// Host returns a string builder constrained to host names and IP addresses.
func Host() *StrBuilder { return newStr("host", govalidator.IsHost) }

// Default sets the production-tier fallback.
func (b *StrBuilder) Default(v string) *StrBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: v}
	return b
}

// DevDefault sets the development-tier fallback.
func (b *StrBuilder) DevDefault(v string) *StrBuilder {
	b.opts.DevDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// TestDefault sets the test-tier fallback.
func (b *StrBuilder) TestDefault(v string) *StrBuilder {
	b.opts.TestDefault = zenv.Fallback{Set: true, Value: v}
	return b
}

// Optional makes absence valid without substituting any value. Distinct from
// Default(""): no concrete fallback is produced.
func (b *StrBuilder) Optional() *StrBuilder {
	b.opts.Default = zenv.Fallback{Set: true, Value: nil}
	return b
}

// MinLen requires at least n bytes.
func (b *StrBuilder) MinLen(n int) *StrBuilder {
	b.minSet, b.min = true, n
	return b
}

// MaxLen allows at most n bytes.
func (b *StrBuilder) MaxLen(n int) *StrBuilder {
	b.maxSet, b.max = true, n
	return b
}

// Match requires the value to match the regular expression. The expression
// must compile; a bad pattern panics at construction like regexp.MustCompile.
func (b *StrBuilder) Match(expr string) *StrBuilder {
	b.pattern = regexp.MustCompile(expr)
	return b
}

// Choices restricts the field to a closed string set.
func (b *StrBuilder) Choices(vs ...string) *StrBuilder {
	b.opts.Choices = make([]any, 0, len(vs))
	for _, v := range vs {
		b.opts.Choices = append(b.opts.Choices, v)
	}
	return b
}

// Desc attaches documentation; no runtime effect.
func (b *StrBuilder) Desc(s string) *StrBuilder {
	b.opts.Desc = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Example attaches an example value; no runtime effect.
func (b *StrBuilder) Example(s string) *StrBuilder {
	b.opts.Example = s
	syncMetadata(b.md, &b.opts)
	return b
}

// Expose opts the field into the client-visible set.
func (b *StrBuilder) Expose() *StrBuilder {
	b.opts.client().Expose = boolPtr(true)
	syncMetadata(b.md, &b.opts)
	return b
}

// NoExpose pins the field server-only even under a client-safe prefix.
func (b *StrBuilder) NoExpose() *StrBuilder {
	b.opts.client().Expose = boolPtr(false)
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientTransform rewrites the server value for the client view.
func (b *StrBuilder) ClientTransform(fn func(any) any) *StrBuilder {
	b.opts.client().Transform = fn
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientDefault sets the client-side fallback used only when no server value
// resolved.
func (b *StrBuilder) ClientDefault(v any) *StrBuilder {
	b.opts.client().Default = zenv.Fallback{Set: true, Value: v}
	syncMetadata(b.md, &b.opts)
	return b
}

// ClientDevDefault sets the development-tier client-side fallback.
func (b *StrBuilder) ClientDevDefault(v any) *StrBuilder {
	b.opts.client().DevDefault = zenv.Fallback{Set: true, Value: v}
	syncMetadata(b.md, &b.opts)
	return b
}

var _ zenv.Validator = (*StrBuilder)(nil)

// ParseRaw validates one raw entry against the compiled constraints.
func (b *StrBuilder) ParseRaw(ctx context.Context, rv zenv.RawValue) (any, error) {
	if !rv.Present {
		return resolveAbsent(ctx, &b.opts)
	}
	s := rv.Value
	if len(b.opts.Choices) > 0 {
		return matchChoice(s, b.opts.Choices)
	}
	if b.minSet && len(s) < b.min {
		return nil, issueAt(zenv.CodeTooShort, "")
	}
	if b.maxSet && len(s) > b.max {
		return nil, issueAt(zenv.CodeTooLong, "")
	}
	if b.pattern != nil && !b.pattern.MatchString(s) {
		return nil, issueAt(zenv.CodePattern, "")
	}
	if b.check != nil && !b.check(s) {
		return nil, zenv.Issues{{
			Path:    "/",
			Code:    zenv.CodeInvalidFormat,
			Message: i18n.T(zenv.CodeInvalidFormat, nil),
			Hint:    b.format,
		}}
	}
	return s, nil
}
