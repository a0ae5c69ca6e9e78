// Package pathcodec implements segment, parent and depth arithmetic over
// dot-joined path strings. Parsing is a naive split/join on the separator;
// there is no escaping, so a key that itself contains "." collides with a
// nested path. Callers own that limitation.
package pathcodec

import "strings"

// Separator joins path segments into a single string key.
const Separator = "."

// Segments splits a path into its ordered segments.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// LastSegment returns the final segment of a path, or the path itself when
// it has a single segment.
func LastSegment(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ParentPath returns the path with its last segment removed, or the empty
// string for a root-level path.
func ParentPath(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[:i]
	}
	return ""
}

// Depth returns the number of segments in a path. The empty path has depth
// zero; root-level paths have depth one.
func Depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, Separator) + 1
}

// Join appends a segment to a parent path. An empty parent yields the
// segment itself.
func Join(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + Separator + segment
}

// IsIndex reports whether a segment is a decimal array index: non-empty and
// made of digits only.
func IsIndex(segment string) bool {
	if segment == "" {
		return false
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}

// IsUnder reports whether path equals prefix or is nested under it.
func IsUnder(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+Separator)
}
