package version

import "strings"

// Selects the version that best satisfies a request.
//
// With an empty request the maximum candidate wins. Otherwise the
// candidates are filtered to those matching the request under the
// prefix rule of [Value.Matches], and the maximum of the remainder
// wins. Returns false when no candidate qualifies; an empty candidate
// set is a normal "no match", not an error.
//
// When two literal-different candidates compare equal, the one with the
// lexicographically later original string is preferred so selection is
// deterministic regardless of candidate ordering.
func Select(candidates []Value, requested string) (Value, bool, error) {
	var request Value
	if strings.TrimSpace(requested) != "" {
		parsed, err := Parse(requested)
		if err != nil {
			return Value{}, false, err
		}
		request = parsed
	}

	var best Value
	found := false

	for _, candidate := range candidates {
		if !request.IsZero() && !candidate.Matches(request) {
			continue
		}
		if !found || better(candidate, best) {
			best = candidate
			found = true
		}
	}

	return best, found, nil
}

// Whether candidate should replace the current best selection.
func better(candidate, best Value) bool {
	switch c := candidate.Compare(best); {
	case c > 0:
		return true
	case c < 0:
		return false
	}
	return candidate.original > best.original
}
