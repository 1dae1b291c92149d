// Package scoring filters competitor employees and scores candidates
// against a buyer persona, with an LLM judge and a deterministic fallback.
package scoring

import (
	"strings"
)

// Ratio computes a similarity ratio in [0,1] between two strings using
// recursive longest-common-substring matching: 2*matches/(len(a)+len(b)).
// Equivalent in spirit to difflib's SequenceMatcher ratio without the junk
// heuristic, which is fine at company-name lengths.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	matches := matchingChars(a, b)
	return 2.0 * float64(matches) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	start1, start2, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingChars(a[:start1], b[:start2])
	total += matchingChars(a[start1+size:], b[start2+size:])
	return total
}

func longestMatch(a, b string) (bestI, bestJ, bestSize int) {
	// lengths[j] holds the match length ending at a[i-1], b[j-1]
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > bestSize {
					bestSize = lengths[j]
					bestI = i - bestSize
					bestJ = j - bestSize
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}
	return bestI, bestJ, bestSize
}

// normalizeName lowercases a company or employer name and strips common
// legal suffixes and punctuation so "Acme, Inc." matches "acme".
func normalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, punct := range []string{",", ".", "'", "\""} {
		s = strings.ReplaceAll(s, punct, "")
	}
	for _, suffix := range []string{" inc", " llc", " ltd", " gmbh", " corp", " co", " sa", " sas", " srl"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.TrimSpace(s)
}
