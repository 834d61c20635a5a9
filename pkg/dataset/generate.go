package dataset

import (
	"fmt"
	"math/rand"

	"github.com/easonai/armorytune/pkg/inventory"
)

// Generator produces SFT question/answer pairs from a weapon index. A fixed
// seed makes every run reproducible.
type Generator struct {
	rng *rand.Rand
	idx *inventory.Index
}

// GenerationStats breaks a generated dataset down by question kind.
type GenerationStats struct {
	Weapons    int
	Positive   int
	Negative   int
	Comparison int
	Total      int
	Deduped    int
}

func NewGenerator(seed int64, weapons []inventory.Weapon) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		idx: inventory.BuildIndex(weapons),
	}
}

// Generate builds the full dataset: per weapon the positive variants, the
// sampled type denials and the limited comparison questions, then a global
// dedup by input. Records stay grouped by weapon unless the caller shuffles.
func (g *Generator) Generate() ([]QAPair, GenerationStats) {
	var all []QAPair
	stats := GenerationStats{Weapons: len(g.idx.Weapons)}

	for _, w := range g.idx.Weapons {
		positive := g.PositivePairs(w)
		all = append(all, positive...)
		stats.Positive += len(positive)

		negative := g.NegativePairs(w)
		all = append(all, negative...)
		stats.Negative += len(negative)

		comparison := g.ComparisonPairs(w)
		all = append(all, comparison...)
		stats.Comparison += len(comparison)
	}

	unique := Dedup(all)
	stats.Total = len(unique)
	stats.Deduped = len(all) - len(unique)

	return unique, stats
}

// PositivePairs generates the eleven question variants for one weapon:
// identity, three type phrasings, three quality phrasings, two descriptions
// and the positive type/quality confirmations.
func (g *Generator) PositivePairs(w inventory.Weapon) []QAPair {
	name, gtype, quality := w.Name, w.Type, w.Quality

	return []QAPair{
		{Input: fmt.Sprintf("%s是武器吗？", name), Output: fmt.Sprintf("是的，%s是武器。", name)},

		{Input: fmt.Sprintf("%s是什么武器？", name), Output: fmt.Sprintf("%s是%s。", name, gtype)},
		{Input: fmt.Sprintf("%s是什么类型的武器？", name), Output: fmt.Sprintf("%s是%s。", name, gtype)},
		{Input: fmt.Sprintf("%s属于什么类型？", name), Output: fmt.Sprintf("%s属于%s类型。", name, gtype)},

		{Input: fmt.Sprintf("%s是什么品质？", name), Output: fmt.Sprintf("%s是%s品质。", name, quality)},
		{Input: fmt.Sprintf("%s的品质是什么？", name), Output: fmt.Sprintf("%s的品质是%s。", name, quality)},
		{Input: fmt.Sprintf("%s是什么等级？", name), Output: fmt.Sprintf("%s是%s品质。", name, quality)},

		{Input: fmt.Sprintf("描述%s", name), Output: fmt.Sprintf("%s是%s品质的%s。", name, quality, gtype)},
		{Input: fmt.Sprintf("介绍一下%s", name), Output: fmt.Sprintf("%s是一把%s品质的%s。", name, quality, gtype)},

		{Input: fmt.Sprintf("%s是%s吗？", name, gtype), Output: fmt.Sprintf("是的，%s是%s。", name, gtype)},
		{Input: fmt.Sprintf("%s是%s品质吗？", name, quality), Output: fmt.Sprintf("是的，%s是%s品质。", name, quality)},
	}
}

// NegativePairs samples three of the other gun types and generates a type
// denial for each, keeping the dataset's yes/no balance close to even.
func (g *Generator) NegativePairs(w inventory.Weapon) []QAPair {
	var otherTypes []string
	for _, t := range inventory.GunTypes {
		if t != w.Type {
			otherTypes = append(otherTypes, t)
		}
	}

	n := 3
	if n > len(otherTypes) {
		n = len(otherTypes)
	}

	var pairs []QAPair
	for _, i := range g.rng.Perm(len(otherTypes))[:n] {
		other := otherTypes[i]
		pairs = append(pairs, QAPair{
			Input:  fmt.Sprintf("%s是%s吗？", w.Name, other),
			Output: fmt.Sprintf("不是，%s是%s，不是%s。", w.Name, w.Type, other),
		})
	}

	return pairs
}

// ComparisonPairs generates up to four comparison questions for one weapon:
// another quality version of the same gun, a same-quality gun, a same-type
// gun, and a different-type gun.
func (g *Generator) ComparisonPairs(w inventory.Weapon) []QAPair {
	var pairs []QAPair
	base := inventory.BaseName(w.Name)

	var variants []inventory.Weapon
	for _, v := range g.idx.ByBase[base] {
		if v.Name != w.Name {
			variants = append(variants, v)
		}
	}
	if len(variants) > 0 {
		other := variants[g.rng.Intn(len(variants))]
		pairs = append(pairs, QAPair{
			Input: fmt.Sprintf("%s和%s是同一把枪吗？", w.Name, other.Name),
			Output: fmt.Sprintf("不是，虽然都是%s，但%s是%s品质，%s是%s品质，是不同的武器。",
				base, w.Name, w.Quality, other.Name, other.Quality),
		})
	}

	if other, ok := g.pickOther(g.idx.ByQuality[w.Quality], w.Name, base); ok {
		pairs = append(pairs, QAPair{
			Input:  fmt.Sprintf("%s和%s是同一品质吗？", w.Name, other.Name),
			Output: fmt.Sprintf("是的，%s和%s都是%s品质。", w.Name, other.Name, w.Quality),
		})
	}

	if other, ok := g.pickOther(g.idx.ByType[w.Type], w.Name, base); ok {
		pairs = append(pairs, QAPair{
			Input:  fmt.Sprintf("%s和%s是同一类武器吗？", w.Name, other.Name),
			Output: fmt.Sprintf("是的，%s和%s都是%s。", w.Name, other.Name, w.Type),
		})
	}

	var otherTypes []string
	for _, t := range inventory.GunTypes {
		if t != w.Type && len(g.idx.ByType[t]) > 0 {
			otherTypes = append(otherTypes, t)
		}
	}
	if len(otherTypes) > 0 {
		otherType := otherTypes[g.rng.Intn(len(otherTypes))]
		candidates := g.idx.ByType[otherType]
		other := candidates[g.rng.Intn(len(candidates))]
		pairs = append(pairs, QAPair{
			Input:  fmt.Sprintf("%s和%s是同一类武器吗？", w.Name, other.Name),
			Output: fmt.Sprintf("不是，%s是%s，%s是%s。", w.Name, w.Type, other.Name, otherType),
		})
	}

	return pairs
}

// pickOther samples one weapon from the group that is neither the weapon
// itself nor another quality version of it.
func (g *Generator) pickOther(group []inventory.Weapon, name, base string) (inventory.Weapon, bool) {
	var candidates []inventory.Weapon
	for _, c := range group {
		if c.Name != name && inventory.BaseName(c.Name) != base {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return inventory.Weapon{}, false
	}
	return candidates[g.rng.Intn(len(candidates))], true
}
