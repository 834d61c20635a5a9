package inventory

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// QualityOrder ranks weapon qualities from highest to lowest.
var QualityOrder = []string{"轩辕", "黑鹰", "铁爪", "卓越", "精制", "改进", "完好", "修复", "破损"}

// GunTypes lists the gun categories handled by the toolkit. Crossbows,
// launchers and other special weapons are out of scope.
var GunTypes = []string{"狙击枪", "冲锋枪", "突击步枪", "射手步枪", "轻机枪", "霰弹枪", "手枪"}

var accessoryKeywords = []string{
	"弹匣", "消音器", "枪口补偿器", "消焰器", "握把", "枪托(",
	"瞄准镜", "托腮板", "子弹袋", "战术枪托", "延长枪管",
	"鸭嘴枪口", "收束器", "激光瞄准器", "箭袋", "枪托(Micro",
}

var ammoKeywords = []string{"子弹", "箭矢", "手雷", "燃烧瓶", "烟雾弹", "震爆弹", "榴弹"}

var miscExcludeKeywords = []string{"物资箱", "礼包", "套装", "Boss", "默认弹匣"}

const subItemPrefix = "子物品-"

type Weapon struct {
	Name    string
	Type    string
	Quality string
}

// ShouldExclude reports whether the item is an accessory, ammunition,
// container or sub-item rather than a weapon body. The exclusion check
// runs before any type keyword match: accessory names frequently contain
// a gun-type keyword too.
func ShouldExclude(name string) bool {
	for _, kw := range accessoryKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	for _, kw := range ammoKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	for _, kw := range miscExcludeKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return strings.HasPrefix(name, subItemPrefix)
}

// GunType returns the gun category of the item, or false when the item is
// excluded or matches no category.
func GunType(name string) (string, bool) {
	if ShouldExclude(name) {
		return "", false
	}
	for _, gtype := range GunTypes {
		if strings.Contains(name, gtype) {
			return gtype, true
		}
	}
	return "", false
}

// ExtractQuality returns the quality found in the item's "(品质)" suffix.
func ExtractQuality(name string) (string, bool) {
	for _, quality := range QualityOrder {
		if strings.Contains(name, "("+quality+")") {
			return quality, true
		}
	}
	return "", false
}

// BaseName strips the trailing parenthesized quality, so different quality
// versions of the same gun share a base name.
func BaseName(name string) string {
	if idx := strings.LastIndex(name, "("); idx >= 0 {
		return name[:idx]
	}
	return name
}

// QualityRank returns the position of the quality in QualityOrder, with 0
// the highest. Unknown qualities rank below every known one.
func QualityRank(quality string) int {
	for i, q := range QualityOrder {
		if q == quality {
			return i
		}
	}
	return len(QualityOrder)
}

// Classify parses a single item name into a Weapon. Items that are excluded,
// have no gun-type keyword, or carry no quality suffix are not weapons.
func Classify(name string) (Weapon, bool) {
	gtype, ok := GunType(name)
	if !ok {
		return Weapon{}, false
	}

	quality, ok := ExtractQuality(name)
	if !ok {
		return Weapon{}, false
	}

	return Weapon{Name: name, Type: gtype, Quality: quality}, true
}

// ParseItems reads the raw item-name file, one name per line, skipping
// blanks and comments and deduplicating while preserving first-seen order.
func ParseItems(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	seen := make(map[string]bool)
	var items []string
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		items = append(items, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in file")
	}

	return items, nil
}

// ParseWeapons reads the raw item-name file and returns the classified
// weapons in first-seen order.
func ParseWeapons(path string) ([]Weapon, error) {
	items, err := ParseItems(path)
	if err != nil {
		return nil, err
	}
	return ClassifyItems(items), nil
}

// ClassifyItems filters an item-name list down to classified weapons.
func ClassifyItems(items []string) []Weapon {
	var weapons []Weapon
	for _, item := range items {
		if w, ok := Classify(item); ok {
			weapons = append(weapons, w)
		}
	}
	return weapons
}
