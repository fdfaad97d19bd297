package zenv

import (
	"reflect"
	"sync"
)

// Metadata is the out-of-band record associated with a compiled validator. It
// captures the declarative client/server configuration without embedding
// anything into the validator itself, so validators stay pristine, composable
// values. Records are written while a field validator is being constructed and
// only read afterwards.
type Metadata struct {
	Desc    string
	Example string

	// HasClient reports whether any client configuration was declared. Absent
	// client configuration means server-only, the default security posture.
	HasClient bool
	// ExposeSet marks an explicit expose decision; explicit configuration
	// always wins over prefix-based inference at resolve time.
	ExposeSet bool
	Expose    bool

	Transform        func(any) any
	ClientDefault    Fallback
	ClientDevDefault Fallback
}

// identity-keyed side table from validator to metadata. Entries are additive
// and never revised after construction, so concurrent resolution from multiple
// call sites is safe behind the RWMutex.
var (
	_metaMu  sync.RWMutex
	_metaTab = map[Validator]*Metadata{}
)

// RegisterMetadata associates md with the validator identity. Called by the
// dsl builders; later registrations for the same identity replace the record,
// which only happens while a builder chain is still constructing its field.
func RegisterMetadata(v Validator, md *Metadata) {
	if v == nil || md == nil || !hashable(v) {
		return
	}
	_metaMu.Lock()
	_metaTab[v] = md
	_metaMu.Unlock()
}

// MetadataOf returns the record registered for the validator identity, if any.
func MetadataOf(v Validator) (*Metadata, bool) {
	if v == nil || !hashable(v) {
		return nil, false
	}
	_metaMu.RLock()
	md, ok := _metaTab[v]
	_metaMu.RUnlock()
	return md, ok
}

// hashable reports whether the validator's dynamic type can key the side
// table. Validator recognition is structural, so a slice- or map-backed
// implementation is valid input; it simply carries no metadata.
func hashable(v Validator) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Comparable()
}
