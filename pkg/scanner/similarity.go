package scanner

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Fixed confidences assigned by the non-edit-distance detection strategies.
const (
	swapConfidence      = 0.95
	homoglyphConfidence = 0.98
	affixConfidence     = 0.92
)

// homoglyphs maps a legitimate character to the visually confusable
// characters attackers substitute for it (Cyrillic and Greek lookalikes,
// plus digit/letter confusions).
var homoglyphs = map[rune][]rune{
	'a': {'а', 'ɑ', 'α'},
	'e': {'е', 'ε'},
	'o': {'о', 'ο', '0'},
	'i': {'і', 'ι', '1', 'l'},
	'c': {'с', 'ϲ'},
	'p': {'р', 'ρ'},
	's': {'ѕ'},
	'x': {'х', 'χ'},
	'y': {'у', 'γ'},
}

// Affixes commonly prepended or appended to a legitimate name in
// typosquatting attacks.
var (
	affixPrefixes = []string{"python-", "py-", "python3-", "py3-", "lib", "the-"}
	affixSuffixes = []string{"-python", "-py", "-lib", "-core", "-dev", "-utils"}
)

// EditDistanceSimilarity returns 1 - distance/max(len(a), len(b)) using
// single-character insert/delete/substitute distance. Equal strings yield
// 1.0; if either string is empty the similarity is 0.0.
func EditDistanceSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// IsCharacterSwap reports whether the two strings are identical except for
// exactly two adjacent characters swapped with each other.
func IsCharacterSwap(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}

	var diffs []int
	for i := range ra {
		if ra[i] != rb[i] {
			diffs = append(diffs, i)
			if len(diffs) > 2 {
				return false
			}
		}
	}
	if len(diffs) != 2 {
		return false
	}

	i, j := diffs[0], diffs[1]
	return j == i+1 && ra[i] == rb[j] && ra[j] == rb[i]
}

// IsHomoglyph reports whether suspicious differs from legitimate only by
// characters that are visual confusables of the originals. Both strings must
// be the same length and differ in at least one position.
func IsHomoglyph(suspicious, legitimate string) bool {
	rs, rl := []rune(suspicious), []rune(legitimate)
	if len(rs) != len(rl) {
		return false
	}

	differs := false
	for i := range rs {
		if rs[i] == rl[i] {
			continue
		}
		differs = true
		if !isConfusable(rs[i], rl[i]) {
			return false
		}
	}
	return differs
}

func isConfusable(suspicious, legitimate rune) bool {
	for _, candidate := range homoglyphs[legitimate] {
		if candidate == suspicious {
			return true
		}
	}
	return false
}

// AffixConfidence returns a fixed confidence when suspicious equals a known
// prefix or suffix concatenated with legitimate (in either order), and 0.0
// otherwise.
func AffixConfidence(suspicious, legitimate string) float64 {
	for _, prefix := range affixPrefixes {
		if suspicious == prefix+legitimate {
			return affixConfidence
		}
		if suspicious == legitimate+strings.TrimRight(prefix, "-") {
			return affixConfidence
		}
	}
	for _, suffix := range affixSuffixes {
		if suspicious == legitimate+suffix {
			return affixConfidence
		}
		if suspicious == strings.TrimLeft(suffix, "-")+legitimate {
			return affixConfidence
		}
	}
	return 0.0
}
