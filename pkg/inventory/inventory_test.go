package inventory

import (
	"os"
	"path/filepath"
	"testing"
)

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"AKM突击步枪(卓越)", false},
		{"M24狙击枪(轩辕)", false},
		{"突击步枪快速弹匣", true},
		{"狙击枪消音器", true},
		{"7.62mm子弹", true},
		{"破片手雷", true},
		{"高级物资箱", true},
		{"新手礼包", true},
		{"子物品-枪管", true},
		{"Boss掉落套装", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldExclude(tt.name); got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestGunType(t *testing.T) {
	tests := []struct {
		name     string
		wantType string
		wantOK   bool
	}{
		{"AKM突击步枪(卓越)", "突击步枪", true},
		{"M24狙击枪(轩辕)", "狙击枪", true},
		{"UZI冲锋枪(破损)", "冲锋枪", true},
		{"S686霰弹枪(完好)", "霰弹枪", true},
		{"M249轻机枪(黑鹰)", "轻机枪", true},
		{"SKS射手步枪(精制)", "射手步枪", true},
		{"P92手枪(修复)", "手枪", true},
		// Accessory names contain gun-type keywords but must stay excluded.
		{"突击步枪扩容弹匣", "", false},
		{"冲锋枪战术枪托", "", false},
		{"十字弩(卓越)", "", false},
		{"防弹衣", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GunType(tt.name)
			if got != tt.wantType || ok != tt.wantOK {
				t.Errorf("GunType(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.wantType, tt.wantOK)
			}
		})
	}
}

func TestExtractQuality(t *testing.T) {
	tests := []struct {
		name        string
		wantQuality string
		wantOK      bool
	}{
		{"AKM突击步枪(卓越)", "卓越", true},
		{"M24狙击枪(轩辕)", "轩辕", true},
		{"P92手枪(破损)", "破损", true},
		{"AKM突击步枪", "", false},
		{"UZI冲锋枪(传说)", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractQuality(tt.name)
			if got != tt.wantQuality || ok != tt.wantOK {
				t.Errorf("ExtractQuality(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.wantQuality, tt.wantOK)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	if got := BaseName("AKM突击步枪(卓越)"); got != "AKM突击步枪" {
		t.Errorf("BaseName() = %q, want %q", got, "AKM突击步枪")
	}
	if got := BaseName("AKM突击步枪"); got != "AKM突击步枪" {
		t.Errorf("BaseName() without suffix = %q", got)
	}
}

func TestQualityRank(t *testing.T) {
	if QualityRank("轩辕") != 0 {
		t.Error("轩辕 should rank highest")
	}
	if QualityRank("破损") != len(QualityOrder)-1 {
		t.Error("破损 should rank lowest among known qualities")
	}
	if QualityRank("未知") != len(QualityOrder) {
		t.Error("unknown quality should rank below every known one")
	}
	if QualityRank("黑鹰") >= QualityRank("卓越") {
		t.Error("黑鹰 should rank above 卓越")
	}
}

func TestClassify(t *testing.T) {
	w, ok := Classify("AKM突击步枪(卓越)")
	if !ok {
		t.Fatal("expected weapon")
	}
	if w.Type != "突击步枪" || w.Quality != "卓越" {
		t.Errorf("Classify() = %+v", w)
	}

	if _, ok := Classify("AKM突击步枪"); ok {
		t.Error("weapon without quality suffix should not classify")
	}
	if _, ok := Classify("突击步枪快速弹匣"); ok {
		t.Error("accessory should not classify")
	}
}

func TestParseItems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item_name.csv")
	content := "AKM突击步枪(卓越)\n\nM24狙击枪(轩辕)\nAKM突击步枪(卓越)\n# comment\nP92手枪(破损)\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := ParseItems(path)
	if err != nil {
		t.Fatalf("ParseItems() failed: %v", err)
	}

	want := []string{"AKM突击步枪(卓越)", "M24狙击枪(轩辕)", "P92手枪(破损)"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d: %v", len(items), len(want), items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item[%d] = %q, want %q", i, items[i], want[i])
		}
	}
}

func TestParseItems_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("\n\n# only comments\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseItems(path); err == nil {
		t.Fatal("expected error for empty item file")
	}
}

func TestBuildIndex(t *testing.T) {
	weapons := []Weapon{
		{Name: "AKM突击步枪(卓越)", Type: "突击步枪", Quality: "卓越"},
		{Name: "AKM突击步枪(精制)", Type: "突击步枪", Quality: "精制"},
		{Name: "M24狙击枪(卓越)", Type: "狙击枪", Quality: "卓越"},
	}

	idx := BuildIndex(weapons)

	if len(idx.ByType["突击步枪"]) != 2 {
		t.Errorf("ByType[突击步枪] = %d, want 2", len(idx.ByType["突击步枪"]))
	}
	if len(idx.ByQuality["卓越"]) != 2 {
		t.Errorf("ByQuality[卓越] = %d, want 2", len(idx.ByQuality["卓越"]))
	}
	if len(idx.ByBase["AKM突击步枪"]) != 2 {
		t.Errorf("ByBase[AKM突击步枪] = %d, want 2", len(idx.ByBase["AKM突击步枪"]))
	}

	counts := idx.TypeCounts()
	if counts["狙击枪"] != 1 {
		t.Errorf("TypeCounts[狙击枪] = %d, want 1", counts["狙击枪"])
	}

	qcounts := idx.QualityCounts()
	if qcounts["精制"] != 1 {
		t.Errorf("QualityCounts[精制] = %d, want 1", qcounts["精制"])
	}
	if _, ok := qcounts["破损"]; ok {
		t.Error("QualityCounts should omit absent qualities")
	}
}
