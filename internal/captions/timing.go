package captions

import (
	"math"
	"strings"
)

// Kind identifies how a timing was obtained.
type Kind int

const (
	// KindUniform timings split a span evenly across tokens.
	KindUniform Kind = iota
	// KindExplicit timings carry both start and end from the source.
	KindExplicit
	// KindInferred timings take their end from the next record's start, or
	// from the total duration for the last record.
	KindInferred
)

func (k Kind) String() string {
	switch k {
	case KindExplicit:
		return "explicit"
	case KindInferred:
		return "inferred"
	default:
		return "uniform"
	}
}

// Record is a single timestamp entry aligned by index with script tokens.
type Record struct {
	Text  string
	Kind  Kind
	Start float64
	End   float64
}

// Explicit builds a record with a known [start, end] window in seconds.
func Explicit(text string, start, end float64) Record {
	return Record{Text: text, Kind: KindExplicit, Start: start, End: end}
}

// InferredFromNext builds a record whose end is resolved later.
func InferredFromNext(text string, start float64) Record {
	return Record{Text: text, Kind: KindInferred, Start: start}
}

// Untimed builds a record that holds a token's position without any timing.
// Resolve spreads untimed records evenly between their timed neighbours.
func Untimed(text string) Record {
	return Record{Text: text, Kind: KindUniform, Start: math.NaN(), End: math.NaN()}
}

// WordTiming is the resolved display window of one script token.
type WordTiming struct {
	Text   string
	Start  float64
	End    float64
	Source Kind
}

// Duration returns the length of the timing window in seconds.
func (w WordTiming) Duration() float64 {
	return w.End - w.Start
}

// Tokenize splits script text on Unicode whitespace.
func Tokenize(script string) []string {
	return strings.Fields(script)
}

// Resolve returns exactly one timing per token. Records are matched to tokens
// by position and excess records are ignored. A record without a valid start
// keeps its slot and shares the gap between its timed neighbours evenly. When
// no record has a valid start every token receives duration/len(tokens)
// seconds; when records run out before the tokens do, the remaining tokens
// split the time left until duration evenly. Starts never decrease and no
// window ends before it starts.
func Resolve(tokens []string, records []Record, duration float64) []WordTiming {
	if len(tokens) == 0 {
		return nil
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < 0 {
		duration = 0
	}

	usable := usableRecords(records, duration)
	if len(usable) > len(tokens) {
		usable = usable[:len(tokens)]
	}
	if len(usable) == 0 {
		return uniform(tokens, 0, duration)
	}

	timings := make([]WordTiming, 0, len(tokens))
	prevStart := 0.0
	for i, rec := range usable {
		start := math.Max(rec.Start, prevStart)
		end := math.Max(rec.End, start)
		timings = append(timings, WordTiming{Text: tokens[i], Start: start, End: end, Source: rec.Kind})
		prevStart = start
	}

	if rest := tokens[len(usable):]; len(rest) > 0 {
		from := timings[len(timings)-1].End
		timings = append(timings, uniform(rest, from, math.Max(duration, from))...)
	}
	return timings
}

// usableRecords resolves every record to a window, keeping one entry per
// input slot. Inferred ends come from the following record's start. A run of
// untimed records is spread evenly from the previous end (or from the start of
// a preceding inferred record) to the next valid start. Nil means no record
// carried a valid start.
func usableRecords(records []Record, duration float64) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	timed := false
	for i := range out {
		if !validSeconds(out[i].Start) {
			out[i].Kind = KindUniform
			continue
		}
		timed = true
		if out[i].Kind != KindExplicit || !validSeconds(out[i].End) {
			out[i].Kind = KindInferred
		}
	}
	if !timed {
		return nil
	}

	for i := 0; i < len(out); {
		if out[i].Kind == KindExplicit {
			i++
			continue
		}
		j := i + 1
		for j < len(out) && out[j].Kind == KindUniform {
			j++
		}
		upper := duration
		if j < len(out) {
			upper = out[j].Start
		}
		lower := 0.0
		switch {
		case out[i].Kind == KindInferred:
			lower = out[i].Start
		case i > 0:
			lower = out[i-1].End
		}
		upper = math.Max(upper, lower)
		step := (upper - lower) / float64(j-i)
		for k := i; k < j; k++ {
			if out[k].Kind == KindUniform {
				out[k].Start = lower + float64(k-i)*step
			}
			out[k].End = lower + float64(k-i+1)*step
		}
		i = j
	}
	return out
}

func uniform(tokens []string, from, to float64) []WordTiming {
	if len(tokens) == 0 {
		return nil
	}
	step := (to - from) / float64(len(tokens))
	timings := make([]WordTiming, len(tokens))
	for i, tok := range tokens {
		timings[i] = WordTiming{
			Text:   tok,
			Start:  from + float64(i)*step,
			End:    from + float64(i+1)*step,
			Source: KindUniform,
		}
	}
	return timings
}

func validSeconds(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
