package zenv

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// fieldExposure is the per-field client-visibility decision computed once at
// wrap time from metadata and the resolve call's prefix options.
type fieldExposure struct {
	exposed    bool
	auto       bool // exposed via ClientSafePrefixes rather than per-field opt-in
	serverOnly bool // forced by ServerOnlyPrefixes
}

// Config is the immutable resolved configuration. Reads go through the
// client/server exposure policy; writes and deletes are always rejected.
// Go has no transparent property interception, so the proxy is an explicit
// wrapper: typed accessors plus a generic Get that applies the same checks.
type Config struct {
	values      map[string]any
	order       []string
	declared    map[string]struct{}
	exposure    map[string]fieldExposure
	metas       map[string]*Metadata
	fromDefault map[string]struct{}

	tier               Tier
	strict             bool
	onClientAccess     AccessErrorMode
	isClient           func() bool
	clientSafePrefixes []string
	log                logrus.FieldLogger
}

func newConfig(values map[string]any, order []string, declared map[string]struct{}, metas map[string]*Metadata, fromDefault map[string]struct{}, tier Tier, opt ResolveOpt, log logrus.FieldLogger) *Config {
	exposure := make(map[string]fieldExposure, len(declared))
	for name := range declared {
		md := metas[name]
		var e fieldExposure
		explicitOptOut := false
		if md != nil && md.HasClient {
			e.exposed = md.Expose
			explicitOptOut = md.ExposeSet && !md.Expose
		}
		if !explicitOptOut && matchesPrefix(opt.ClientSafePrefixes, name) {
			if !e.exposed {
				e.auto = true
			}
			e.exposed = true
		}
		if matchesPrefix(opt.ServerOnlyPrefixes, name) {
			// Forced server-only wins over everything, including an
			// explicit expose opt-in.
			e = fieldExposure{serverOnly: true}
		}
		exposure[name] = e
	}
	return &Config{
		values:             values,
		order:              order,
		declared:           declared,
		exposure:           exposure,
		metas:              metas,
		fromDefault:        fromDefault,
		tier:               tier,
		strict:             opt.Strict,
		onClientAccess:     opt.OnClientAccess,
		isClient:           opt.IsClient,
		clientSafePrefixes: append([]string(nil), opt.ClientSafePrefixes...),
		log:                log,
	}
}

func matchesPrefix(prefixes []string, name string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Tier reports the deployment tier active when the config was resolved.
func (c *Config) Tier() Tier { return c.tier }

// Derived tier flags. Computed, never stored, never enumerated.
func (c *Config) IsDevelopment() bool { return c.tier == TierDevelopment }
func (c *Config) IsDev() bool         { return c.IsDevelopment() }
func (c *Config) IsProduction() bool  { return c.tier == TierProduction }
func (c *Config) IsProd() bool        { return c.IsProduction() }
func (c *Config) IsTest() bool        { return c.tier == TierTest }

func (c *Config) inClient() bool { return c.isClient != nil && c.isClient() }

// Get returns the value for name after applying the access policy.
//
// The derived tier-flag names (isDevelopment/isDev/isProduction/isProd/isTest)
// resolve to their computed booleans for parity with the method accessors. In
// a client context a non-exposed field follows the OnClientAccess policy; on
// the server the true value is returned unconditionally. With Strict enabled,
// an undeclared key is an *AccessError instead of a silent nil.
func (c *Config) Get(name string) (any, error) {
	switch name {
	case "isDevelopment", "isDev":
		return c.IsDevelopment(), nil
	case "isProduction", "isProd":
		return c.IsProduction(), nil
	case "isTest":
		return c.IsTest(), nil
	}
	if c.strict {
		// Membership is checked against the validated set, so a field that
		// failed validation under ErrorReturn trips strict access the same
		// way an undeclared key does.
		if _, ok := c.values[name]; !ok {
			return nil, &AccessError{Field: name, Code: CodeNotFound}
		}
	}
	if c.inClient() {
		if !c.exposure[name].exposed {
			switch c.onClientAccess {
			case AccessFail:
				return nil, &AccessError{Field: name, Code: CodeServerOnly}
			case AccessIgnore:
				return nil, nil
			default:
				c.log.WithField("field", name).Warn("zenv: client read of non-exposed field")
				return nil, nil
			}
		}
		return c.clientValue(name), nil
	}
	return c.values[name], nil
}

// clientValue applies the client-side view of an exposed field. When the raw
// input was absent, a client default takes precedence over the substituted
// server default. The transform applies only to a server-resolved value.
func (c *Config) clientValue(name string) any {
	v := c.values[name]
	md := c.metas[name]
	_, absent := c.fromDefault[name]
	if absent || v == nil {
		if md != nil {
			if c.tier == TierDevelopment && md.ClientDevDefault.UseValue() {
				return md.ClientDevDefault.Value
			}
			if md.ClientDefault.UseValue() {
				return md.ClientDefault.Value
			}
		}
		if v == nil {
			return nil
		}
		// No client override: the field keeps its substituted server default.
	}
	if md != nil && md.Transform != nil {
		return md.Transform(v)
	}
	return v
}

// MustGet is Get that panics on access errors.
func (c *Config) MustGet(name string) any {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the field as a string. An absent value yields "".
func (c *Config) String(name string) (string, error) {
	v, err := c.Get(name)
	if err != nil || v == nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("zenv: %s is not a string (got %T)", name, v)
	}
	return s, nil
}

// Int returns the field as an int. An absent value yields 0.
func (c *Config) Int(name string) (int, error) {
	v, err := c.Get(name)
	if err != nil || v == nil {
		return 0, err
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	}
	return 0, fmt.Errorf("zenv: %s is not an int (got %T)", name, v)
}

// Float returns the field as a float64. An absent value yields 0.
func (c *Config) Float(name string) (float64, error) {
	v, err := c.Get(name)
	if err != nil || v == nil {
		return 0, err
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	}
	return 0, fmt.Errorf("zenv: %s is not a number (got %T)", name, v)
}

// Bool returns the field as a bool. An absent value yields false.
func (c *Config) Bool(name string) (bool, error) {
	v, err := c.Get(name)
	if err != nil || v == nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("zenv: %s is not a bool (got %T)", name, v)
	}
	return b, nil
}

// Set always fails: the resolved configuration is immutable, including keys
// that were never declared.
func (c *Config) Set(name string, _ any) error {
	return &AccessError{Field: name, Code: CodeImmutable}
}

// Delete always fails, rejected exactly like a write.
func (c *Config) Delete(name string) error {
	return &AccessError{Field: name, Code: CodeImmutable}
}

// Keys returns the successfully validated field names in declaration order.
// Derived accessors and internal bookkeeping never appear.
func (c *Config) Keys() []string {
	return append([]string(nil), c.order...)
}

// Map returns a copy of the visible value set: the full server view, or only
// the client-exposed subset when called in a client context.
func (c *Config) Map() map[string]any {
	if c.inClient() {
		return c.ClientSnapshot()
	}
	out := make(map[string]any, len(c.order))
	for _, k := range c.order {
		out[k] = c.values[k]
	}
	return out
}

// ClientSnapshot returns the client-visible subset with transforms and client
// defaults applied. The SSR helper serializes exactly this view.
func (c *Config) ClientSnapshot() map[string]any {
	out := make(map[string]any)
	for _, k := range c.order {
		if !c.exposure[k].exposed {
			continue
		}
		if v := c.clientValue(k); v != nil {
			out[k] = v
		}
	}
	return out
}

// ClientSafePrefixes returns the prefix list configured at resolve time, for
// the SSR client-script collaborator. It is not a declared field, so it never
// appears in Keys or Map.
func (c *Config) ClientSafePrefixes() []string {
	return append([]string(nil), c.clientSafePrefixes...)
}
