package evalset

import (
	"fmt"
	"math/rand"

	"github.com/easonai/armorytune/pkg/inventory"
)

// Category labels one of the seven evaluation query kinds.
type Category string

const (
	TypeIdentification  Category = "type_identification"
	QualityComparison   Category = "quality_comparison"
	QualityTypeEnum     Category = "quality_type_enum"
	TripleComparisonPos Category = "triple_comparison_positive"
	TripleComparisonNeg Category = "triple_comparison_negative"
	Descriptive         Category = "descriptive"
	QualityClass        Category = "quality_classification"
)

// CategoryCount fixes how many cases each category contributes. The counts
// sum to TotalCases.
type CategoryCount struct {
	Category Category
	Count    int
}

var CategoryCounts = []CategoryCount{
	{TypeIdentification, 15},
	{QualityComparison, 15},
	{QualityTypeEnum, 15},
	{TripleComparisonPos, 15},
	{TripleComparisonNeg, 20},
	{Descriptive, 16},
	{QualityClass, 5},
}

// TotalCases is the size of the full evaluation set.
const TotalCases = 101

// Case is one labeled evaluation record: the question asked and the answer
// the fine-tuned model is expected to give.
type Case struct {
	Category Category `json:"category"`
	Input    string   `json:"input"`
	Expected string   `json:"expected"`
}

// Build assembles the 101-case evaluation set from a weapon inventory.
// Generation is deterministic for a given seed. The inventory must carry at
// least two gun types and a handful of weapons per type, which every real
// export of the game inventory does.
func Build(weapons []inventory.Weapon, seed int64) ([]Case, error) {
	if len(weapons) < 4 {
		return nil, fmt.Errorf("inventory too small for evaluation set: %d weapons", len(weapons))
	}

	b := &builder{
		rng: rand.New(rand.NewSource(seed)),
		idx: inventory.BuildIndex(weapons),
	}

	var cases []Case
	for _, cc := range CategoryCounts {
		generated, err := b.generate(cc.Category, cc.Count)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s cases: %w", cc.Category, err)
		}
		cases = append(cases, generated...)
	}

	if len(cases) != TotalCases {
		return nil, fmt.Errorf("evaluation set has %d cases, want %d", len(cases), TotalCases)
	}

	return cases, nil
}

type builder struct {
	rng *rand.Rand
	idx *inventory.Index
}

func (b *builder) generate(cat Category, count int) ([]Case, error) {
	var gen func() (Case, bool)

	switch cat {
	case TypeIdentification:
		gen = b.typeIdentification
	case QualityComparison:
		gen = b.qualityComparison
	case QualityTypeEnum:
		gen = b.qualityTypeEnum
	case TripleComparisonPos:
		gen = b.tripleComparisonPositive
	case TripleComparisonNeg:
		gen = b.tripleComparisonNegative
	case Descriptive:
		gen = b.descriptive
	case QualityClass:
		gen = b.qualityClassification
	default:
		return nil, fmt.Errorf("unknown category %q", cat)
	}

	seen := make(map[string]bool)
	var cases []Case

	// Bounded retries: small inventories run out of distinct questions.
	for attempts := 0; len(cases) < count && attempts < count*50; attempts++ {
		c, ok := gen()
		if !ok || seen[c.Input] {
			continue
		}
		seen[c.Input] = true
		cases = append(cases, c)
	}

	if len(cases) < count {
		return nil, fmt.Errorf("only %d distinct cases possible, want %d", len(cases), count)
	}

	return cases, nil
}

func (b *builder) pick() inventory.Weapon {
	return b.idx.Weapons[b.rng.Intn(len(b.idx.Weapons))]
}

func (b *builder) typeIdentification() (Case, bool) {
	w := b.pick()
	return Case{
		Category: TypeIdentification,
		Input:    fmt.Sprintf("%s是什么武器？", w.Name),
		Expected: fmt.Sprintf("%s是%s。", w.Name, w.Type),
	}, true
}

func (b *builder) qualityComparison() (Case, bool) {
	w := b.pick()
	group := b.idx.ByQuality[w.Quality]

	var candidates []inventory.Weapon
	for _, c := range group {
		if c.Name != w.Name {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) > 0 && b.rng.Intn(2) == 0 {
		other := candidates[b.rng.Intn(len(candidates))]
		return Case{
			Category: QualityComparison,
			Input:    fmt.Sprintf("%s和%s是同一品质吗？", w.Name, other.Name),
			Expected: fmt.Sprintf("是的，%s和%s都是%s品质。", w.Name, other.Name, w.Quality),
		}, true
	}

	other := b.pick()
	if other.Name == w.Name || other.Quality == w.Quality {
		return Case{}, false
	}
	return Case{
		Category: QualityComparison,
		Input:    fmt.Sprintf("%s和%s是同一品质吗？", w.Name, other.Name),
		Expected: fmt.Sprintf("不是，%s是%s品质，%s是%s品质。", w.Name, w.Quality, other.Name, other.Quality),
	}, true
}

func (b *builder) qualityTypeEnum() (Case, bool) {
	w := b.pick()
	return Case{
		Category: QualityTypeEnum,
		Input:    fmt.Sprintf("%s是什么品质的什么武器？", w.Name),
		Expected: fmt.Sprintf("%s是%s品质的%s。", w.Name, w.Quality, w.Type),
	}, true
}

func (b *builder) tripleSameType() (a, c, d inventory.Weapon, ok bool) {
	var types []string
	for _, t := range inventory.GunTypes {
		if len(b.idx.ByType[t]) >= 3 {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return a, c, d, false
	}

	group := b.idx.ByType[types[b.rng.Intn(len(types))]]
	perm := b.rng.Perm(len(group))
	return group[perm[0]], group[perm[1]], group[perm[2]], true
}

func (b *builder) tripleComparisonPositive() (Case, bool) {
	a, c, d, ok := b.tripleSameType()
	if !ok {
		return Case{}, false
	}
	return Case{
		Category: TripleComparisonPos,
		Input:    fmt.Sprintf("%s、%s和%s都是%s吗？", a.Name, c.Name, d.Name, a.Type),
		Expected: fmt.Sprintf("是的，%s、%s和%s都是%s。", a.Name, c.Name, d.Name, a.Type),
	}, true
}

func (b *builder) tripleComparisonNegative() (Case, bool) {
	var types []string
	for _, t := range inventory.GunTypes {
		if len(b.idx.ByType[t]) >= 2 {
			types = append(types, t)
		}
	}
	if len(types) < 2 {
		return Case{}, false
	}

	majorType := types[b.rng.Intn(len(types))]
	var otherTypes []string
	for _, t := range inventory.GunTypes {
		if t != majorType && len(b.idx.ByType[t]) > 0 {
			otherTypes = append(otherTypes, t)
		}
	}
	if len(otherTypes) == 0 {
		return Case{}, false
	}

	group := b.idx.ByType[majorType]
	perm := b.rng.Perm(len(group))
	a, c := group[perm[0]], group[perm[1]]

	oddGroup := b.idx.ByType[otherTypes[b.rng.Intn(len(otherTypes))]]
	odd := oddGroup[b.rng.Intn(len(oddGroup))]

	return Case{
		Category: TripleComparisonNeg,
		Input:    fmt.Sprintf("%s、%s和%s都是%s吗？", a.Name, c.Name, odd.Name, majorType),
		Expected: fmt.Sprintf("不是，%s和%s是%s，%s是%s。", a.Name, c.Name, majorType, odd.Name, odd.Type),
	}, true
}

func (b *builder) descriptive() (Case, bool) {
	w := b.pick()
	return Case{
		Category: Descriptive,
		Input:    fmt.Sprintf("介绍一下%s", w.Name),
		Expected: fmt.Sprintf("%s是一把%s品质的%s。", w.Name, w.Quality, w.Type),
	}, true
}

func (b *builder) qualityClassification() (Case, bool) {
	w := b.pick()
	return Case{
		Category: QualityClass,
		Input:    fmt.Sprintf("%s是什么等级？", w.Name),
		Expected: fmt.Sprintf("%s是%s品质。", w.Name, w.Quality),
	}, true
}
