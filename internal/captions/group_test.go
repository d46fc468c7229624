package captions

import "testing"

func timingsFor(words ...string) []WordTiming {
	out := make([]WordTiming, len(words))
	for i, w := range words {
		out[i] = WordTiming{Text: w, Start: float64(i), End: float64(i + 1)}
	}
	return out
}

func groupSizes(groups [][]WordTiming) []int {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g)
	}
	return sizes
}

func TestGroup(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		want  []int
	}{
		{name: "empty", words: nil, want: []int{}},
		{name: "chunks of four", words: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, want: []int{4, 4, 1}},
		{name: "long word breaks after three", words: []string{"a", "b", "extraordinary", "c", "d"}, want: []int{3, 2}},
		{name: "long word early does not break", words: []string{"extraordinary", "b", "c", "d", "e"}, want: []int{4, 1}},
		{name: "ten runes is not long", words: []string{"a", "b", "abcdefghij", "c"}, want: []int{4}},
		{name: "runes not bytes", words: []string{"a", "b", "ééééééééé", "c"}, want: []int{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := groupSizes(Group(timingsFor(tt.words...), DefaultGroupRules()))
			if len(got) != len(tt.want) {
				t.Fatalf("expected sizes %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected sizes %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestGroupPreservesOrder(t *testing.T) {
	words := []string{"one", "two", "three", "four", "five"}
	var flat []string
	for _, g := range Group(timingsFor(words...), DefaultGroupRules()) {
		for _, wt := range g {
			flat = append(flat, wt.Text)
		}
	}
	for i := range words {
		if flat[i] != words[i] {
			t.Fatalf("order changed: %v", flat)
		}
	}
}

func TestGroupZeroRulesUseDefaults(t *testing.T) {
	got := groupSizes(Group(timingsFor("a", "b", "c", "d", "e"), GroupRules{}))
	if len(got) != 2 || got[0] != 4 {
		t.Fatalf("expected default chunking, got %v", got)
	}
}
