package dsl

import (
	"context"

	zenv "github.com/reoring/zenv"
	"github.com/reoring/zenv/i18n"
)

// ClientOptions declares the client-side view of a field. The zero state is
// server-only; exposure is always an explicit opt-in. Expose is a tri-state
// pointer so that an explicit false is distinguishable from "not configured"
// when prefix-based inference runs at resolve time.
type ClientOptions struct {
	Expose     *bool
	Transform  func(any) any
	Default    zenv.Fallback
	DevDefault zenv.Fallback
}

// Options is the per-field declaration record. Builders fill it through their
// chain methods; the Make factory path accepts it directly so a field-level
// call can override a validator-level base via MergeOptions.
type Options struct {
	Default     zenv.Fallback
	DevDefault  zenv.Fallback
	TestDefault zenv.Fallback

	// Desc and Example are documentation-only; no runtime effect.
	Desc    string
	Example string

	// Choices restricts the field to a closed value set, replacing the base
	// type validation entirely.
	Choices []any

	Client *ClientOptions
}

// MergeOptions combines a validator-level base with a per-use override.
// Nil/nil yields nil; a single record is returned as the shared reference
// (callers must not mutate it). When both exist, top-level keys shallow-merge
// with the override winning, and the Client sub-record deep-merges
// field-by-field, override fields first, base fields next, zero values last.
func MergeOptions(base, overrides *Options) *Options {
	if base == nil && overrides == nil {
		return nil
	}
	if base == nil {
		return overrides
	}
	if overrides == nil {
		return base
	}
	out := *base
	if overrides.Default.Set {
		out.Default = overrides.Default
	}
	if overrides.DevDefault.Set {
		out.DevDefault = overrides.DevDefault
	}
	if overrides.TestDefault.Set {
		out.TestDefault = overrides.TestDefault
	}
	if overrides.Desc != "" {
		out.Desc = overrides.Desc
	}
	if overrides.Example != "" {
		out.Example = overrides.Example
	}
	if overrides.Choices != nil {
		out.Choices = overrides.Choices
	}
	out.Client = mergeClient(base.Client, overrides.Client)
	return &out
}

func mergeClient(base, overrides *ClientOptions) *ClientOptions {
	if base == nil && overrides == nil {
		return nil
	}
	out := &ClientOptions{}
	if base != nil {
		*out = *base
	}
	if overrides != nil {
		if overrides.Expose != nil {
			out.Expose = overrides.Expose
		}
		if overrides.Transform != nil {
			out.Transform = overrides.Transform
		}
		if overrides.Default.Set {
			out.Default = overrides.Default
		}
		if overrides.DevDefault.Set {
			out.DevDefault = overrides.DevDefault
		}
	}
	return out
}

// ResolveDefault selects the single applicable fallback for the tier.
// Priority, first match wins: TestDefault under test, DevDefault under
// development, Default otherwise. Presence is checked by the Set flag, not by
// value truthiness; a Set fallback carrying nil means explicitly optional.
// Unrecognized tiers were already normalized to production upstream, so only
// Default applies there.
func ResolveDefault(tier zenv.Tier, o *Options) zenv.Fallback {
	if o == nil {
		return zenv.Fallback{}
	}
	if tier == zenv.TierTest && o.TestDefault.Set {
		return o.TestDefault
	}
	if tier == zenv.TierDevelopment && o.DevDefault.Set {
		return o.DevDefault
	}
	if o.Default.Set {
		return o.Default
	}
	return zenv.Fallback{}
}

// resolveAbsent handles the missing-raw-value path shared by every builder:
// substitute the tier default, accept absence for an explicitly optional
// field, or fail as required.
func resolveAbsent(ctx context.Context, o *Options) (any, error) {
	fb := ResolveDefault(zenv.TierOf(ctx), o)
	if !fb.Set {
		return nil, zenv.Issues{{Path: "/", Code: zenv.CodeRequired, Message: i18n.T(zenv.CodeRequired, nil)}}
	}
	// Declared defaults pass through untouched; they are trusted as already
	// typed. nil means optional with no substituted value.
	return fb.Value, nil
}

// issueAt builds a single-issue error at the field root.
func issueAt(code, msg string) zenv.Issues {
	if msg == "" {
		msg = i18n.T(code, nil)
	}
	return zenv.Issues{{Path: "/", Code: code, Message: msg}}
}

// metadataOptions projects the declarative record into the side-table
// metadata consumed by the resolver and the access proxy.
func metadataOptions(o *Options) *zenv.Metadata {
	md := &zenv.Metadata{}
	if o == nil {
		return md
	}
	md.Desc = o.Desc
	md.Example = o.Example
	if c := o.Client; c != nil {
		md.HasClient = true
		if c.Expose != nil {
			md.ExposeSet = true
			md.Expose = *c.Expose
		}
		md.Transform = c.Transform
		md.ClientDefault = c.Default
		md.ClientDevDefault = c.DevDefault
	}
	return md
}

// syncMetadata refreshes the registered record in place so the registry entry
// created at construction stays the single source of truth for the field.
func syncMetadata(md *zenv.Metadata, o *Options) {
	*md = *metadataOptions(o)
}

// client returns the options' client record, allocating it on first use.
func (o *Options) client() *ClientOptions {
	if o.Client == nil {
		o.Client = &ClientOptions{}
	}
	return o.Client
}

func boolPtr(b bool) *bool { return &b }
