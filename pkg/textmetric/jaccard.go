package textmetric

// JaccardSimilarity returns |intersection| / |union| of the two string sets,
// in [0,1]. Duplicates within a slice are collapsed. Two empty sets are
// considered identical (similarity 1).
func JaccardSimilarity(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}

	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}

	intersection := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}
