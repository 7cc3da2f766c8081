package model

import (
	"fmt"
	"strings"
)

// Warning codes for recoverable conditions.
const (
	WarnDanglingImage = "dangling-image"
	WarnMissingAsset  = "missing-asset"
	WarnFetchFailed   = "fetch-failed"
	WarnUnknownBlock  = "unknown-block"
)

// Warning describes a non-fatal condition encountered while
// processing a document. Conversions return warnings alongside their
// result instead of aborting.
type Warning struct {
	Code    string
	Message string
}

// Warningf builds a warning with a formatted message.
func Warningf(code, format string, args ...interface{}) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// String returns "code: message".
func (w Warning) String() string {
	return w.Code + ": " + w.Message
}

// FormatWarnings joins warnings into a single human-readable string.
func FormatWarnings(ws []Warning) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
