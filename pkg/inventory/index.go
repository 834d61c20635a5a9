package inventory

// Index groups weapons by the lookups the question generators need.
type Index struct {
	ByType    map[string][]Weapon
	ByQuality map[string][]Weapon
	ByBase    map[string][]Weapon
	Weapons   []Weapon
}

func BuildIndex(weapons []Weapon) *Index {
	idx := &Index{
		ByType:    make(map[string][]Weapon),
		ByQuality: make(map[string][]Weapon),
		ByBase:    make(map[string][]Weapon),
		Weapons:   weapons,
	}

	for _, w := range weapons {
		idx.ByType[w.Type] = append(idx.ByType[w.Type], w)
		idx.ByQuality[w.Quality] = append(idx.ByQuality[w.Quality], w)
		base := BaseName(w.Name)
		idx.ByBase[base] = append(idx.ByBase[base], w)
	}

	return idx
}

// TypeCounts returns the number of weapons per gun type, keyed in GunTypes
// order for stable reporting.
func (idx *Index) TypeCounts() map[string]int {
	counts := make(map[string]int, len(GunTypes))
	for _, t := range GunTypes {
		counts[t] = len(idx.ByType[t])
	}
	return counts
}

// QualityCounts returns the number of weapons per quality.
func (idx *Index) QualityCounts() map[string]int {
	counts := make(map[string]int)
	for _, q := range QualityOrder {
		if n := len(idx.ByQuality[q]); n > 0 {
			counts[q] = n
		}
	}
	return counts
}
