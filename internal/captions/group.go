package captions

import "unicode/utf8"

// GroupRules controls how timings are split into caption lines.
type GroupRules struct {
	// MaxWords closes a line once it holds this many tokens.
	MaxWords int
	// MinWordsBeforeBreak is the line length at which a long token closes
	// the line early.
	MinWordsBeforeBreak int
	// LongWordRunes is the rune count a token must exceed to count as long.
	LongWordRunes int
}

// DefaultGroupRules returns lines of four tokens, closed after three when the
// third or later token is longer than ten characters.
func DefaultGroupRules() GroupRules {
	return GroupRules{MaxWords: 4, MinWordsBeforeBreak: 3, LongWordRunes: 10}
}

func (r GroupRules) normalized() GroupRules {
	def := DefaultGroupRules()
	if r.MaxWords <= 0 {
		r.MaxWords = def.MaxWords
	}
	if r.MinWordsBeforeBreak <= 0 || r.MinWordsBeforeBreak > r.MaxWords {
		r.MinWordsBeforeBreak = min(def.MinWordsBeforeBreak, r.MaxWords)
	}
	if r.LongWordRunes <= 0 {
		r.LongWordRunes = def.LongWordRunes
	}
	return r
}

// Group partitions timings into caption lines, preserving order.
func Group(timings []WordTiming, rules GroupRules) [][]WordTiming {
	rules = rules.normalized()
	var (
		groups  [][]WordTiming
		current []WordTiming
	)
	for _, wt := range timings {
		current = append(current, wt)
		long := utf8.RuneCountInString(wt.Text) > rules.LongWordRunes
		if len(current) >= rules.MaxWords || (len(current) >= rules.MinWordsBeforeBreak && long) {
			groups = append(groups, current)
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
