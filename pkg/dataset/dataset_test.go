package dataset

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
)

func TestDedup(t *testing.T) {
	pairs := []QAPair{
		{Input: "q1", Output: "a1"},
		{Input: "q2", Output: "a2"},
		{Input: "q1", Output: "a1-later"},
		{Input: "q3", Output: "a3"},
	}

	unique := Dedup(pairs)

	if len(unique) != 3 {
		t.Fatalf("got %d records, want 3", len(unique))
	}
	if unique[0].Output != "a1" {
		t.Errorf("dedup should keep the first answer, got %q", unique[0].Output)
	}
}

func TestMerge(t *testing.T) {
	primary := []QAPair{
		{Input: "q1", Output: "primary-a1"},
		{Input: "q2", Output: "primary-a2"},
	}
	secondary := []QAPair{
		{Input: "q1", Output: "secondary-a1"},
		{Input: "q3", Output: "secondary-a3"},
	}

	merged, added := Merge(primary, secondary)

	if len(merged) != 3 {
		t.Fatalf("got %d records, want 3", len(merged))
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	for _, qa := range merged {
		if qa.Input == "q1" && qa.Output != "primary-a1" {
			t.Errorf("merge should prefer the primary answer, got %q", qa.Output)
		}
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	make3 := func() []QAPair {
		return []QAPair{{Input: "q1"}, {Input: "q2"}, {Input: "q3"}, {Input: "q4"}, {Input: "q5"}}
	}

	a := make3()
	b := make3()
	Shuffle(rand.New(rand.NewSource(42)), a)
	Shuffle(rand.New(rand.NewSource(42)), b)

	for i := range a {
		if a[i].Input != b[i].Input {
			t.Fatalf("same seed produced different orders at %d: %q vs %q", i, a[i].Input, b[i].Input)
		}
	}
}

func TestCountAnswers(t *testing.T) {
	pairs := []QAPair{
		{Output: "是的，AKM突击步枪(卓越)是武器。"},
		{Output: "是的，AKM突击步枪(卓越)是突击步枪。"},
		{Output: "不是，AKM突击步枪(卓越)是突击步枪，不是手枪。"},
		{Output: "AKM突击步枪(卓越)是卓越品质。"},
	}

	stats := CountAnswers(pairs)

	if stats.Affirmative != 2 {
		t.Errorf("Affirmative = %d, want 2", stats.Affirmative)
	}
	if stats.Negative != 1 {
		t.Errorf("Negative = %d, want 1", stats.Negative)
	}
	if stats.Other != 1 {
		t.Errorf("Other = %d, want 1", stats.Other)
	}
	if stats.Total() != 4 {
		t.Errorf("Total() = %d, want 4", stats.Total())
	}
}

func TestWriteAndReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sft.json")
	pairs := []QAPair{
		{Input: "AKM突击步枪(卓越)是武器吗？", Output: "是的，AKM突击步枪(卓越)是武器。"},
		{Input: "描述AKM突击步枪(卓越)", Output: "AKM突击步枪(卓越)是卓越品质的突击步枪。"},
	}

	if err := WriteJSON(pairs, path); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	got, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON() failed: %v", err)
	}

	if len(got) != len(pairs) {
		t.Fatalf("got %d records, want %d", len(got), len(pairs))
	}
	for i := range pairs {
		if got[i] != pairs[i] {
			t.Errorf("record[%d] = %+v, want %+v", i, got[i], pairs[i])
		}
	}

	if strings.Contains(got[0].Input, `\u`) {
		t.Error("CJK text should round-trip unescaped")
	}
}

func TestReadJSON_Missing(t *testing.T) {
	if _, err := ReadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing dataset file")
	}
}
