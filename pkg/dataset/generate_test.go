package dataset

import (
	"strings"
	"testing"

	"github.com/easonai/armorytune/pkg/inventory"
)

func testWeapons() []inventory.Weapon {
	return []inventory.Weapon{
		{Name: "AKM突击步枪(卓越)", Type: "突击步枪", Quality: "卓越"},
		{Name: "AKM突击步枪(精制)", Type: "突击步枪", Quality: "精制"},
		{Name: "M4突击步枪(卓越)", Type: "突击步枪", Quality: "卓越"},
		{Name: "M24狙击枪(卓越)", Type: "狙击枪", Quality: "卓越"},
		{Name: "P92手枪(破损)", Type: "手枪", Quality: "破损"},
	}
}

func TestPositivePairs(t *testing.T) {
	g := NewGenerator(42, testWeapons())
	pairs := g.PositivePairs(testWeapons()[0])

	if len(pairs) != 11 {
		t.Fatalf("got %d positive pairs, want 11", len(pairs))
	}

	for _, qa := range pairs {
		if qa.Instruction != "" {
			t.Errorf("instruction must stay empty, got %q", qa.Instruction)
		}
		if !strings.Contains(qa.Input, "AKM突击步枪(卓越)") {
			t.Errorf("input %q does not mention the weapon", qa.Input)
		}
	}

	if pairs[0].Output != "是的，AKM突击步枪(卓越)是武器。" {
		t.Errorf("identity answer = %q", pairs[0].Output)
	}
	if pairs[1].Output != "AKM突击步枪(卓越)是突击步枪。" {
		t.Errorf("type answer = %q", pairs[1].Output)
	}
	if pairs[4].Output != "AKM突击步枪(卓越)是卓越品质。" {
		t.Errorf("quality answer = %q", pairs[4].Output)
	}
	if pairs[8].Output != "AKM突击步枪(卓越)是一把卓越品质的突击步枪。" {
		t.Errorf("description answer = %q", pairs[8].Output)
	}
}

func TestNegativePairs(t *testing.T) {
	g := NewGenerator(42, testWeapons())
	pairs := g.NegativePairs(testWeapons()[0])

	if len(pairs) != 3 {
		t.Fatalf("got %d negative pairs, want 3", len(pairs))
	}

	seen := make(map[string]bool)
	for _, qa := range pairs {
		if !strings.HasPrefix(qa.Output, "不是") {
			t.Errorf("negative answer should open with 不是: %q", qa.Output)
		}
		if strings.Contains(qa.Input, "是突击步枪吗") {
			t.Errorf("denial must target a different type: %q", qa.Input)
		}
		if seen[qa.Input] {
			t.Errorf("duplicate denial input %q", qa.Input)
		}
		seen[qa.Input] = true
	}
}

func TestComparisonPairs(t *testing.T) {
	weapons := testWeapons()
	g := NewGenerator(42, weapons)
	pairs := g.ComparisonPairs(weapons[0])

	if len(pairs) == 0 || len(pairs) > 4 {
		t.Fatalf("got %d comparison pairs, want between 1 and 4", len(pairs))
	}

	var sameGun bool
	for _, qa := range pairs {
		if strings.Contains(qa.Input, "是同一把枪吗") {
			sameGun = true
			if !strings.HasPrefix(qa.Output, "不是") {
				t.Errorf("quality variants are different weapons: %q", qa.Output)
			}
		}
	}
	if !sameGun {
		t.Error("expected a same-gun different-quality comparison for AKM")
	}
}

func TestGenerate(t *testing.T) {
	g := NewGenerator(42, testWeapons())
	pairs, stats := g.Generate()

	if stats.Weapons != 5 {
		t.Errorf("Weapons = %d, want 5", stats.Weapons)
	}
	if stats.Positive != 5*11 {
		t.Errorf("Positive = %d, want %d", stats.Positive, 5*11)
	}
	if stats.Negative != 5*3 {
		t.Errorf("Negative = %d, want %d", stats.Negative, 5*3)
	}
	if stats.Total != len(pairs) {
		t.Errorf("Total = %d, len(pairs) = %d", stats.Total, len(pairs))
	}

	seen := make(map[string]bool)
	for _, qa := range pairs {
		if seen[qa.Input] {
			t.Errorf("duplicate input after dedup: %q", qa.Input)
		}
		seen[qa.Input] = true
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, _ := NewGenerator(42, testWeapons()).Generate()
	b, _ := NewGenerator(42, testWeapons()).Generate()

	if len(a) != len(b) {
		t.Fatalf("same seed produced different sizes: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at record %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerate_SingleWeapon(t *testing.T) {
	weapons := []inventory.Weapon{
		{Name: "P92手枪(破损)", Type: "手枪", Quality: "破损"},
	}
	pairs, stats := NewGenerator(1, weapons).Generate()

	// No comparison partners exist, so only positive and negative pairs.
	if stats.Comparison != 0 {
		t.Errorf("Comparison = %d, want 0", stats.Comparison)
	}
	if len(pairs) != stats.Total {
		t.Errorf("len(pairs) = %d, stats.Total = %d", len(pairs), stats.Total)
	}
}
