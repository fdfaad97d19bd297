// Package ssr serializes the client-visible subset of a resolved config into
// a script snippet a page-rendering layer can embed, so a client-side load
// can reconstruct the exposed values without re-running server resolution.
package ssr

import (
	"fmt"

	json "github.com/goccy/go-json"
	zenv "github.com/reoring/zenv"
)

// Options configures the emitted snippet.
type Options struct {
	// Global is the window property receiving the payload. Defaults to
	// "__ZENV__".
	Global string
	// Nonce, when set, is emitted as the script tag's nonce attribute for CSP.
	Nonce string
}

// Payload is the serialized shape: the client-exposed values plus the
// client-safe prefix list recorded at resolve time.
type Payload struct {
	Values             map[string]any `json:"values"`
	ClientSafePrefixes []string       `json:"clientSafePrefixes,omitempty"`
}

// Script renders a <script> element assigning the frozen payload to the
// configured global. The value set is exactly cfg.ClientSnapshot: transforms
// and client defaults already applied, server-only fields already excluded.
func Script(cfg *zenv.Config, opts ...Options) (string, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	global := opt.Global
	if global == "" {
		global = "__ZENV__"
	}
	payload := Payload{
		Values:             cfg.ClientSnapshot(),
		ClientSafePrefixes: cfg.ClientSafePrefixes(),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ssr: marshal client payload: %w", err)
	}
	nonce := ""
	if opt.Nonce != "" {
		nonce = fmt.Sprintf(" nonce=%q", opt.Nonce)
	}
	return fmt.Sprintf("<script%s>window.%s = Object.freeze(%s);</script>", nonce, global, b), nil
}
