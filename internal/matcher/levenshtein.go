package matcher

// DefaultThreshold is the maximum edit distance accepted by approximate matching.
const DefaultThreshold = 2

// EditDistance computes the Levenshtein distance between two strings.
// It represents the minimum number of single-character edits (insertions, deletions, or substitutions)
// required to change one word into the other.
// This implementation properly handles Unicode characters by working with runes.
// It is the unbounded reference for BoundedEditDistance and is not used on the search path.
func EditDistance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// matrix[i][j] is the distance between the first i runes of a and the first j runes of b
	matrix := make([][]int, lenA+1)
	for i := range matrix {
		matrix[i] = make([]int, lenB+1)
	}

	for i := 0; i <= lenA; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= lenB; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			matrix[i][j] = min3(deletion, insertion, substitution)
		}
	}

	return matrix[lenA][lenB]
}

// BoundedEditDistance computes the Levenshtein distance between a and b with early termination.
//
// The result is exact only when it is <= maxDistance. Any value above maxDistance is a sentinel
// meaning "exceeds the threshold" and must only be compared against the threshold, never used
// as a distance. Comparison is rune-wise and case-sensitive; callers fold case beforehand.
func BoundedEditDistance(a, b string, maxDistance int) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	// No sequence of maxDistance edits can bridge a larger length difference
	lengthDiff := lenA - lenB
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff > maxDistance {
		return maxDistance + 1
	}

	// Single rolling row: row[j] holds the distance between the consumed prefix of a and b[:j]
	row := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		row[j] = j
	}

	for i := 1; i <= lenA; i++ {
		diagonal := row[0] // value of the previous row at j-1
		row[0] = i
		minInRow := row[0]

		for j := 1; j <= lenB; j++ {
			above := row[j]
			if runesA[i-1] == runesB[j-1] {
				row[j] = diagonal
			} else {
				row[j] = 1 + min3(above, row[j-1], diagonal)
			}
			diagonal = above

			if row[j] < minInRow {
				minInRow = row[j]
			}
		}

		// Row minima never decrease, so the final cell cannot come back under the threshold
		if minInRow > maxDistance {
			return maxDistance + 1
		}
	}

	return row[lenB]
}

// WithinDistance reports whether a and b are at most maxDistance edits apart.
func WithinDistance(a, b string, maxDistance int) bool {
	return BoundedEditDistance(a, b, maxDistance) <= maxDistance
}

// min3 is a helper function to find the minimum of three integers
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
