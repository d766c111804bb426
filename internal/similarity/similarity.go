// Package similarity provides stateless string comparison primitives used
// by the fuzzy entity matcher. All functions are pure and safe for
// concurrent use.
package similarity

import "strings"

// EditDistanceScore returns a normalized inverse Levenshtein distance:
// 1 - distance/max(len(a), len(b)), mapped to [0,1]. Two empty strings
// are treated as exact (1.0); empty versus non-empty scores 0.
func EditDistanceScore(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return 1.0 - float64(levenshtein(ra, rb))/float64(maxLen)
}

// PhoneticScore returns 1.0 when the Soundex encodings of a and b match
// exactly, else 0.0. A binary tie-breaker signal, not a primary ranking.
func PhoneticScore(a, b string) float64 {
	ca, cb := Soundex(a), Soundex(b)
	if ca == "" || cb == "" {
		return 0.0
	}
	if ca == cb {
		return 1.0
	}
	return 0.0
}

// AcronymScore returns 1.0 when a (case-insensitive) equals the initials
// of candidateFull's words, else 0.0. Single-word candidates never match.
func AcronymScore(a, candidateFull string) float64 {
	words := strings.Fields(candidateFull)
	if len(words) < 2 {
		return 0.0
	}

	var initials strings.Builder
	for _, w := range words {
		r := []rune(w)
		initials.WriteRune(r[0])
	}

	if strings.EqualFold(strings.TrimSpace(a), initials.String()) {
		return 1.0
	}
	return 0.0
}

// PartialScore returns 1.0 when one string contains the other
// (case-insensitive), else 0.0. Inputs shorter than three runes never
// match to keep single letters from latching onto everything.
func PartialScore(a, b string) float64 {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if len([]rune(la)) < 3 || len([]rune(lb)) < 3 {
		return 0.0
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return 1.0
	}
	return 0.0
}

// Soundex computes the classic four-character Soundex code of s.
// Returns "" for input with no leading letter.
func Soundex(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	first := s[0]
	if first < 'A' || first > 'Z' {
		return ""
	}

	code := []byte{first}
	prev := soundexDigit(first)

	for i := 1; i < len(s) && len(code) < 4; i++ {
		c := s[i]
		if c < 'A' || c > 'Z' {
			prev = 0
			continue
		}
		d := soundexDigit(c)
		if d == 0 {
			// H and W are transparent to adjacency; vowels reset it.
			if c != 'H' && c != 'W' {
				prev = 0
			}
			continue
		}
		if d != prev {
			code = append(code, '0'+d)
		}
		prev = d
	}

	for len(code) < 4 {
		code = append(code, '0')
	}
	return string(code)
}

func soundexDigit(c byte) byte {
	switch c {
	case 'B', 'F', 'P', 'V':
		return 1
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return 2
	case 'D', 'T':
		return 3
	case 'L':
		return 4
	case 'M', 'N':
		return 5
	case 'R':
		return 6
	}
	return 0
}

// levenshtein computes the edit distance using two rows instead of the
// full matrix.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
