package zenv

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// ErrorMode selects the outcome when one or more fields fail validation. The
// zero value returns the aggregated Issues to the caller, the fail-fast
// default posture.
type ErrorMode int

const (
	// ErrorFail returns the aggregated Issues as the error.
	ErrorFail ErrorMode = iota
	// ErrorExit logs the full report and invokes the Exiter collaborator. The
	// conventional posture for long-running server processes.
	ErrorExit
	// ErrorReturn degrades: the config is built from the successfully
	// validated fields and failed fields are simply absent.
	ErrorReturn
)

// AccessErrorMode selects the behavior when a client context reads a field
// that is not exposed.
type AccessErrorMode int

const (
	// AccessWarn logs per access and returns no value. The default.
	AccessWarn AccessErrorMode = iota
	// AccessFail returns an *AccessError naming the field.
	AccessFail
	// AccessIgnore returns no value silently.
	AccessIgnore
)

// Reporter receives the full ordered failure list plus a snapshot of the
// present raw values before the ErrorMode branch executes, regardless of
// which branch is taken.
type Reporter func(iss Issues, raw map[string]string)

// ResolveOpt bundles resolution options. The zero value reads the process
// environment, fails with aggregated Issues, and keeps every field
// server-only unless its validator opted in.
type ResolveOpt struct {
	// Source supplies raw values; nil means the process environment.
	Source Source
	// Tier overrides the APP_ENV signal when non-nil.
	Tier *Tier
	// OnError selects the failure outcome.
	OnError ErrorMode
	// Reporter, when set, observes every failed resolution.
	Reporter Reporter
	// Strict rejects reads of undeclared keys at access time.
	Strict bool
	// OnClientAccess selects the client-side policy for unexposed fields.
	OnClientAccess AccessErrorMode
	// ServerOnlyPrefixes force matching fields server-only, beating even an
	// explicit expose opt-in.
	ServerOnlyPrefixes []string
	// ClientSafePrefixes auto-expose matching fields unless the field
	// explicitly opted out.
	ClientSafePrefixes []string
	// IsClient reports whether the current read happens in a client runtime
	// context. Consulted on every read, never cached, so it may change within
	// a single process lifetime (SSR followed by hydration).
	IsClient func() bool
	// Exiter is the process-termination collaborator for ErrorExit. Defaults
	// to os.Exit.
	Exiter func(code int)
	// Logger receives exit reports and access warnings. Defaults to the
	// logrus standard logger.
	Logger logrus.FieldLogger
}

// Resolve validates every declared field against the source, aggregates all
// failures, and wraps the successful values into an immutable Config.
//
// Validation never short-circuits: every invalid or missing field is named in
// one report. When opts are given, the last one wins.
func Resolve(specs FieldSpecs, opts ...ResolveOpt) (*Config, error) {
	var opt ResolveOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	src := opt.Source
	if src == nil {
		src = OSEnv()
	}
	tier := TierFrom(src)
	if opt.Tier != nil {
		tier = *opt.Tier
	}
	log := opt.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctx := WithTier(context.Background(), tier)

	values := make(map[string]any, len(specs))
	order := make([]string, 0, len(specs))
	declared := make(map[string]struct{}, len(specs))
	metas := make(map[string]*Metadata, len(specs))
	fromDefault := make(map[string]struct{}, len(specs))
	names := make([]string, 0, len(specs))
	var iss Issues
	for _, fs := range specs {
		names = append(names, fs.Name)
		declared[fs.Name] = struct{}{}
		v, ok := fs.Validator.(Validator)
		if !ok {
			iss = AppendIssues(iss, Issue{
				Path:    fs.Name,
				Code:    CodeInvalidSpec,
				Message: fmt.Sprintf("invalid validator for %q: must implement zenv.Validator", fs.Name),
			})
			continue
		}
		if md, ok := MetadataOf(v); ok {
			metas[fs.Name] = md
		}
		raw, found := src.Lookup(fs.Name)
		val, err := v.ParseRaw(ctx, RawValue{Value: raw, Present: found})
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues(fs.Name, err)...)
			continue
		}
		if !found {
			// Value came from a tier default (or the field is optional with
			// none). Client-side defaults may override it on exposed reads.
			fromDefault[fs.Name] = struct{}{}
		}
		order = append(order, fs.Name)
		values[fs.Name] = val
	}

	if len(iss) > 0 {
		if opt.Reporter != nil {
			opt.Reporter(iss, Snapshot(src, names))
		}
		switch opt.OnError {
		case ErrorExit:
			for _, it := range iss {
				log.WithFields(logrus.Fields{"field": it.Path, "code": it.Code}).Error(it.Message)
			}
			exit := opt.Exiter
			if exit == nil {
				exit = os.Exit
			}
			exit(1)
			// Reached only when the Exiter collaborator returns (tests).
			return nil, iss
		case ErrorReturn:
			// Degrade: failed fields stay absent from the wrapped config.
		default:
			return nil, iss
		}
	}

	return newConfig(values, order, declared, metas, fromDefault, tier, opt, log), nil
}

// MustResolve is Resolve that panics on error.
func MustResolve(specs FieldSpecs, opts ...ResolveOpt) *Config {
	cfg, err := Resolve(specs, opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// SafeResolve resolves specs, returning (nil, false) on validation error.
func SafeResolve(specs FieldSpecs, opts ...ResolveOpt) (*Config, bool) {
	cfg, err := Resolve(specs, opts...)
	if err != nil {
		return nil, false
	}
	return cfg, true
}

// rebaseIssues rewrites child issue paths under the field name, wrapping
// non-Issues errors with CodeParseError.
func rebaseIssues(field string, err error) Issues {
	child, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: field, Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		if p == "" || p == "/" {
			p = field
		} else if p[0] == '/' {
			p = field + p
		} else {
			p = field + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}
