package vocab

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildTokenList(t *testing.T) {
	input := []string{
		"AKM突击步枪(卓越)",
		"M24狙击枪(轩辕)",
		"AKM突击步枪(卓越)",
		"",
		"  ",
		"P92手枪(破损)",
		"M24狙击枪(轩辕)",
	}

	tokens := BuildTokenList(input)

	want := []string{"AKM突击步枪(卓越)", "M24狙击枪(轩辕)", "P92手枪(破损)"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}

// Output may never repeat an entry, every entry must come from the input,
// and the output can never be larger than the input.
func TestBuildTokenList_Properties(t *testing.T) {
	input := []string{"a", "b", "a", "c", "b", "", "c", "a", "d"}
	tokens := BuildTokenList(input)

	if len(tokens) > len(input) {
		t.Errorf("output larger than input: %d > %d", len(tokens), len(input))
	}

	seen := make(map[string]bool)
	inInput := make(map[string]bool)
	for _, item := range input {
		inInput[item] = true
	}

	for _, token := range tokens {
		if seen[token] {
			t.Errorf("duplicate token in output: %q", token)
		}
		seen[token] = true
		if !inInput[token] {
			t.Errorf("token %q not present in input", token)
		}
		if token == "" {
			t.Error("blank token in output")
		}
	}
}

func TestMergeTokenLists(t *testing.T) {
	merged := MergeTokenLists(
		[]string{"a", "b"},
		[]string{"b", "c", ""},
		[]string{"a", "d"},
	)

	want := []string{"a", "b", "c", "d"}
	if len(merged) != len(want) {
		t.Fatalf("got %v, want %v", merged, want)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Errorf("merged[%d] = %q, want %q", i, merged[i], want[i])
		}
	}
}

func TestWriteAndReadTokenList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.txt")
	tokens := []string{"AKM突击步枪(卓越)", "M24狙击枪(轩辕)"}

	if err := WriteTokenList(tokens, path); err != nil {
		t.Fatalf("WriteTokenList() failed: %v", err)
	}

	got, err := ReadTokenList(path)
	if err != nil {
		t.Fatalf("ReadTokenList() failed: %v", err)
	}

	if len(got) != len(tokens) {
		t.Fatalf("got %d tokens, want %d", len(got), len(tokens))
	}
	for i := range tokens {
		if got[i] != tokens[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], tokens[i])
		}
	}
}

func TestReadTokenList_Missing(t *testing.T) {
	if _, err := ReadTokenList(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadTokenList_SkipsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.txt")
	if err := os.WriteFile(path, []byte("# header\nfoo\n\nbar\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTokenList(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "foo" || got[1] != "bar" {
		t.Errorf("got %v, want [foo bar]", got)
	}
}
