package zenv

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeParseError    = "parse_error"
	CodeInvalidSpec   = "invalid_spec"
	// Access-time codes (raised by Config, never during resolution)
	CodeServerOnly = "server_only"
	CodeNotFound   = "not_found"
	CodeImmutable  = "immutable"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // Field name, e.g. "DATABASE_URL".
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at PORT
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// AccessError is returned by Config reads and writes when the access policy
// denies the operation. It is per-access and independent of resolution-time
// outcome.
type AccessError struct {
	Field string
	Code  string // CodeServerOnly, CodeNotFound or CodeImmutable.
}

func (e *AccessError) Error() string {
	switch e.Code {
	case CodeServerOnly:
		return fmt.Sprintf("zenv: %q is not exposed to the client", e.Field)
	case CodeNotFound:
		return fmt.Sprintf("zenv: %q was not declared in the field specs", e.Field)
	case CodeImmutable:
		return fmt.Sprintf("zenv: config is immutable, cannot modify %q", e.Field)
	}
	return fmt.Sprintf("zenv: access denied for %q (%s)", e.Field, e.Code)
}

// AsAccessError extracts an *AccessError from an error.
func AsAccessError(err error) (*AccessError, bool) {
	var ae *AccessError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
