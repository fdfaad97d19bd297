package zenv

import "os"

// Source abstracts over polymorphic raw-value sources. Every value is either a
// string or absent; no structured input crosses this boundary.
type Source interface {
	Lookup(key string) (string, bool)
}

// osEnvSource reads from the process environment table.
type osEnvSource struct{}

func (osEnvSource) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// OSEnv returns the default source backed by the process environment.
func OSEnv() Source { return osEnvSource{} }

// MapSource is a fixed string-keyed source for tests and alternative inputs.
type MapSource map[string]string

func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Snapshot collects the present raw values for the given keys. Reporters
// receive this alongside the failure list.
func Snapshot(src Source, keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := src.Lookup(k); ok {
			out[k] = v
		}
	}
	return out
}
