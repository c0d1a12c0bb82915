package similarity

import (
	"math"
	"testing"
)

func TestPearsonNoOverlap(t *testing.T) {
	a := map[string]float64{"A": 5, "B": 3}
	b := map[string]float64{"C": 4, "D": 2}
	if got := Pearson(a, b); got != 0 {
		t.Fatalf("Pearson with empty intersection: expected 0, got %v", got)
	}
}

func TestPearsonEmptyVectors(t *testing.T) {
	if got := Pearson(nil, nil); got != 0 {
		t.Fatalf("Pearson(nil, nil): expected 0, got %v", got)
	}
	if got := Pearson(map[string]float64{}, map[string]float64{"A": 1}); got != 0 {
		t.Fatalf("Pearson with empty vector: expected 0, got %v", got)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	// Both users rate every common product identically with a constant
	// value: variance is zero and the result must be 0, not a division
	// error.
	a := map[string]float64{"A": 4, "B": 4, "C": 4}
	b := map[string]float64{"A": 4, "B": 4, "C": 4}
	if got := Pearson(a, b); got != 0 {
		t.Fatalf("Pearson with zero variance: expected 0, got %v", got)
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	a := map[string]float64{"A": 5, "B": 3, "C": 4}
	b := map[string]float64{"A": 5, "B": 3, "C": 4}
	got := Pearson(a, b)
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("Pearson of identical varying vectors: expected 1, got %v", got)
	}
}

func TestPearsonSharedRatings(t *testing.T) {
	// Two users agree on A and B but diverge on C. Expected value worked by
	// hand: num = 38 - 12*9/3 = 2, den = sqrt((50-48)*(35-27)) = 4.
	a := map[string]float64{"A": 5, "B": 3, "C": 4}
	b := map[string]float64{"A": 5, "B": 3, "C": 1}
	got := Pearson(a, b)
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got <= -1 || got >= 1 {
		t.Fatalf("expected value strictly inside (-1, 1), got %v", got)
	}
}

func TestPearsonNegative(t *testing.T) {
	a := map[string]float64{"A": 1, "B": 5}
	b := map[string]float64{"A": 5, "B": 1}
	got := Pearson(a, b)
	if math.Abs(got+1) > 1e-9 {
		t.Fatalf("expected -1, got %v", got)
	}
}

func TestPearsonBounds(t *testing.T) {
	a := map[string]float64{"A": 1, "B": 2, "C": 5, "D": 4}
	b := map[string]float64{"A": 2, "B": 1, "C": 4, "D": 5}
	got := Pearson(a, b)
	if got < -1 || got > 1 {
		t.Fatalf("result out of [-1, 1]: %v", got)
	}
}

func TestMatrixRetainsOnlyPositive(t *testing.T) {
	ratings := map[int64]map[string]float64{
		1: {"A": 5, "B": 3, "C": 4},
		2: {"A": 5, "B": 3, "C": 1}, // r = 0.5 with user 1
		3: {"A": 1, "B": 5, "C": 2}, // negatively correlated with user 1
		4: {"X": 3, "Y": 4},         // no overlap with anyone
	}
	pairs := Matrix([]int64{1, 2, 3, 4}, ratings)

	for _, p := range pairs {
		if p.Score <= 0 {
			t.Fatalf("non-positive pair retained: %+v", p)
		}
	}
	// (1,2) is the only strictly positive pair against user 1; user 4 has no
	// overlap with anyone and must not appear at all.
	for _, p := range pairs {
		if p.U1 == 4 || p.U2 == 4 {
			t.Fatalf("pair with no-overlap user retained: %+v", p)
		}
	}
	found := false
	for _, p := range pairs {
		if p.U1 == 1 && p.U2 == 2 {
			found = true
			if math.Abs(p.Score-0.5) > 1e-9 {
				t.Fatalf("pair (1,2): expected score 0.5, got %v", p.Score)
			}
		}
	}
	if !found {
		t.Fatalf("expected pair (1,2) to be retained, got %+v", pairs)
	}
}

func TestMatrixDeterministicOrder(t *testing.T) {
	ratings := map[int64]map[string]float64{
		1: {"A": 1, "B": 2, "C": 3},
		2: {"A": 2, "B": 3, "C": 4},
		3: {"A": 1, "B": 3, "C": 5},
	}
	first := Matrix([]int64{1, 2, 3}, ratings)
	second := Matrix([]int64{1, 2, 3}, ratings)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic pair count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pair %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
	// Upper-triangle order: U1 always precedes U2 in the input ranking.
	rank := map[int64]int{1: 0, 2: 1, 3: 2}
	for _, p := range first {
		if rank[p.U1] >= rank[p.U2] {
			t.Fatalf("pair out of ranking order: %+v", p)
		}
	}
}
