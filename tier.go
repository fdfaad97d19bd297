package zenv

import "context"

// Tier identifies the deployment tier driving default selection.
type Tier int

const (
	TierProduction Tier = iota
	TierDevelopment
	TierTest
)

// TierVar is the environment variable consulted for the deployment tier.
const TierVar = "APP_ENV"

func (t Tier) String() string {
	switch t {
	case TierDevelopment:
		return "development"
	case TierTest:
		return "test"
	default:
		return "production"
	}
}

// TierFrom reads the tier signal from a source. Anything other than the three
// recognized values (including absence) behaves as production: only Default
// applies, never DevDefault/TestDefault. This fallback is deliberate, not an
// accident of the priority chain.
func TierFrom(src Source) Tier {
	v, ok := src.Lookup(TierVar)
	if !ok {
		return TierProduction
	}
	switch v {
	case "development":
		return TierDevelopment
	case "test":
		return TierTest
	default:
		return TierProduction
	}
}

// ---- Resolve-time context wiring (exported for subpackages) ----

type contextKey int

const _ctxKeyTier contextKey = iota

// WithTier returns a child context carrying the active tier. Resolve sets this
// once per call; validator implementations consume it for default selection.
func WithTier(ctx context.Context, t Tier) context.Context {
	return context.WithValue(ctx, _ctxKeyTier, t)
}

// TierOf reports the tier carried by the context, defaulting to production.
func TierOf(ctx context.Context) Tier {
	v := ctx.Value(_ctxKeyTier)
	t, ok := v.(Tier)
	if !ok {
		return TierProduction
	}
	return t
}
