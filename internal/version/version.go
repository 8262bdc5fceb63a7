package version

import (
	"fmt"
	"strconv"
	"strings"
)

// An ordered representation of a dotted version string.
//
// A version is a sequence of dot-separated segments, each either numeric
// or alphanumeric. Two values compare equal when their segments are
// semantically identical, which is not necessarily the same as their
// literal spellings being identical (e.g. "1.02" equals "1.2").
type Value struct {
	original string
	segments []segment
}

// One dot-separated piece of a version string.
//
// A segment carries an optional leading numeric value and whatever
// text follows it ("0rc1" holds 0 and "rc1"; "alpha" holds no number).
type segment struct {
	num    uint64
	rest   string
	hasNum bool
}

// Parses a version string into a [Value].
//
// The string must be non-empty and consist of non-empty dot-separated
// segments. Segments with a leading number are compared by that number
// first; remainders and purely alphabetic segments compare byte-wise.
func Parse(text string) (Value, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Value{}, fmt.Errorf("%w: empty version string", ErrMalformedVersion)
	}

	parts := strings.Split(trimmed, ".")
	segments := make([]segment, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			return Value{}, fmt.Errorf("%w: empty segment in %q", ErrMalformedVersion, text)
		}
		segments = append(segments, parseSegment(part))
	}

	return Value{original: trimmed, segments: segments}, nil
}

// Parses a single segment, splitting off its leading numeric value.
//
// Segments whose leading number overflows uint64 fall back to
// byte-wise comparison of the whole segment.
func parseSegment(part string) segment {
	i := 0
	for i < len(part) && part[i] >= '0' && part[i] <= '9' {
		i++
	}
	if i == 0 {
		return segment{rest: part}
	}

	n, err := strconv.ParseUint(part[:i], 10, 64)
	if err != nil {
		return segment{rest: part}
	}

	return segment{num: n, rest: part[i:], hasNum: true}
}

// Returns the original spelling of the version.
func (v Value) String() string {
	return v.original
}

// Whether the value holds at least one segment.
func (v Value) IsZero() bool {
	return len(v.segments) == 0
}

// Compares two versions.
//
// Returns a negative number when v orders before other, zero when they
// are semantically equal, and a positive number otherwise. Segments
// compare by their leading numeric value first, then by the remaining
// text ("1.0" < "1.0rc1" < "1.1"); a purely alphabetic segment orders
// before any numbered one, and a version that is a strict prefix of
// another orders before it.
func (v Value) Compare(other Value) int {
	for i := 0; i < len(v.segments) && i < len(other.segments); i++ {
		if c := compareSegment(v.segments[i], other.segments[i]); c != 0 {
			return c
		}
	}
	return len(v.segments) - len(other.segments)
}

// Compares two segments of the same position.
func compareSegment(a, b segment) int {
	switch {
	case a.hasNum && b.hasNum:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
	case a.hasNum:
		return 1
	case b.hasNum:
		return -1
	}
	return strings.Compare(a.rest, b.rest)
}

// Whether the version satisfies a requested (possibly partial) version.
//
// The candidate matches when its leading segments are pairwise equal to
// every segment of the request, so a request of "2.3" matches any
// "2.3.x". A zero request matches everything.
func (v Value) Matches(requested Value) bool {
	if len(requested.segments) > len(v.segments) {
		return false
	}
	for i, seg := range requested.segments {
		if compareSegment(v.segments[i], seg) != 0 {
			return false
		}
	}
	return true
}
