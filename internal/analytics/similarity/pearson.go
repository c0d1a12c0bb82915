package similarity

import "math"

// ScoredPair is one retained user pair with its similarity score. U1 precedes
// U2 in the caller's ranking order.
type ScoredPair struct {
	U1    int64
	U2    int64
	Score float64
}

// Pearson computes the Pearson correlation between two sparse rating vectors
// (key -> rating), restricted to their common keys. Pairs with no overlap
// have similarity 0, not undefined; zero variance over the common set also
// yields 0. Otherwise the result lies in [-1, 1].
func Pearson(a, b map[string]float64) float64 {
	var n int
	var sum1, sum2, sum1Sq, sum2Sq, pSum float64
	for key, ra := range a {
		rb, ok := b[key]
		if !ok {
			continue
		}
		n++
		sum1 += ra
		sum2 += rb
		sum1Sq += ra * ra
		sum2Sq += rb * rb
		pSum += ra * rb
	}
	if n == 0 {
		return 0
	}

	fn := float64(n)
	num := pSum - (sum1 * sum2 / fn)
	den := math.Sqrt((sum1Sq - sum1*sum1/fn) * (sum2Sq - sum2*sum2/fn))
	if den == 0 {
		return 0
	}
	return num / den
}

// Matrix computes pairwise similarity over the ranked user ids, retaining
// only strictly positive scores. The pair order follows the input ranking
// (upper triangle, i < j), which keeps graph construction deterministic.
// Cost is O(k²·m) for k users and m average common-key count; k is
// caller-chosen and expected to be small.
func Matrix(userIDs []int64, ratings map[int64]map[string]float64) []ScoredPair {
	var pairs []ScoredPair
	for i := 0; i < len(userIDs); i++ {
		for j := i + 1; j < len(userIDs); j++ {
			u1, u2 := userIDs[i], userIDs[j]
			score := Pearson(ratings[u1], ratings[u2])
			if score > 0 {
				pairs = append(pairs, ScoredPair{U1: u1, U2: u2, Score: score})
			}
		}
	}
	return pairs
}
