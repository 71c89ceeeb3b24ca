package proptype

// Scorer rates the similarity of two strings on a 0-100 scale. The
// canonicalizer's threshold policy is tested against this interface, so the
// underlying similarity algorithm can be swapped without touching the
// manual-table/fuzzy-fallback logic.
type Scorer interface {
	Score(a, b string) int
}

// PartialRatio scores the best alignment of the shorter string against every
// same-length window of the longer one, using Levenshtein similarity. Short
// raw phrasings like "semi detached" score high against longer taxonomy
// entries without being dragged down by the length difference.
type PartialRatio struct{}

// Score implements Scorer.
func (PartialRatio) Score(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0
	window := len(shorter)
	for i := 0; i+window <= len(longer); i++ {
		sim := levenshteinRatio(shorter, longer[i:i+window])
		if sim > best {
			best = sim
		}
		if best == 100 {
			break
		}
	}
	return best
}

// levenshteinRatio converts edit distance into a 0-100 similarity.
func levenshteinRatio(s1, s2 string) int {
	total := len(s1) + len(s2)
	if total == 0 {
		return 100
	}
	dist := levenshteinDistance(s1, s2)
	sim := int(float64(total-2*dist) / float64(total) * 100)
	if sim < 0 {
		sim = 0
	}
	return sim
}

func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1, len2 := len(s1), len(s2)
	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = minInt(
				minInt(matrix[i-1][j]+1, matrix[i][j-1]+1),
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len1][len2]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
