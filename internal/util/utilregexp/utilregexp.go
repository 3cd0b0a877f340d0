package utilregexp

import "regexp"

// Submatches returns the named groups of the leftmost match of r in s.
// Groups that did not take part in the match are left out of the map.
func Submatches(r *regexp.Regexp, s string) (map[string]string, bool) {
	idx := r.FindStringSubmatchIndex(s)
	if idx == nil {
		return nil, false
	}

	result := make(map[string]string)
	for i, name := range r.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}

		start, end := idx[2*i], idx[2*i+1]
		if start < 0 {
			continue
		}
		result[name] = s[start:end]
	}

	return result, true
}
