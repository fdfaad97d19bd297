package dsl

import (
	"strconv"

	zenv "github.com/reoring/zenv"
	"github.com/reoring/zenv/i18n"
)

// matchChoice validates raw against a closed value set. When choices are
// declared they replace the base type validation entirely; numeric choices
// coerce the raw string before comparison so "8080" matches the int 8080.
func matchChoice(raw string, choices []any) (any, error) {
	for _, c := range choices {
		switch t := c.(type) {
		case string:
			if raw == t {
				return t, nil
			}
		case int:
			if n, err := strconv.Atoi(raw); err == nil && n == t {
				return t, nil
			}
		case int64:
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n == t {
				return t, nil
			}
		case float64:
			if f, err := strconv.ParseFloat(raw, 64); err == nil && f == t {
				return t, nil
			}
		case bool:
			if b, ok := parseBoolToken(raw); ok && b == t {
				return t, nil
			}
		}
	}
	return nil, zenv.Issues{{
		Path:    "/",
		Code:    zenv.CodeInvalidEnum,
		Message: i18n.T(zenv.CodeInvalidEnum, nil),
		Params:  map[string]any{"got": raw, "choices": choices},
	}}
}
