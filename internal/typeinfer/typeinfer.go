// Package typeinfer re-infers typed JSON values from the string column of a
// flattened row. The inference is best-effort and intentionally lossy: a
// zero-padded identifier like "007" comes back as a number, and there is no
// way to distinguish the string "true" from the boolean. This is an accepted
// hazard of string-only storage, not a bug.
package typeinfer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rowtree/rowtree/internal/models"
)

var numberRegex = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Guess converts a stored string back into a typed JSON value. Rules apply
// in order: null-ish strings become nil; strings shaped like a decimal
// number become json.Number (keeping the exact digits); "true"/"false" in
// any case become booleans; everything else is returned unchanged.
func Guess(s string) models.JSONValue {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	switch strings.ToLower(trimmed) {
	case "null", "undefined":
		return nil
	}

	if numberRegex.MatchString(trimmed) {
		// Validate before committing; a parse failure falls through to
		// the remaining rules.
		if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return json.Number(trimmed)
		}
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}

	return s
}
