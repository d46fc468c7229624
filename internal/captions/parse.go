package captions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"
)

// alignment is the parallel-array character alignment returned by
// ElevenLabs' with-timestamps endpoints.
type alignment struct {
	Characters []string  `json:"characters"`
	Starts     []float64 `json:"character_start_times_seconds"`
	Ends       []float64 `json:"character_end_times_seconds"`
}

type envelope struct {
	Words               []json.RawMessage `json:"words"`
	Alignment           *alignment        `json:"alignment"`
	NormalizedAlignment *alignment        `json:"normalized_alignment"`
	alignment
}

type charStamp struct {
	char   string
	start  float64
	end    float64
	hasEnd bool
}

// ParseTimestamps decodes timestamp JSON into word records. Accepted inputs
// are an array of word or character entries, an object with a "words" array,
// or a character alignment object (optionally nested under "alignment").
// Character entries are folded into words at whitespace. A word entry whose
// start is missing or not a number keeps its position as an untimed record so
// later words stay aligned with their tokens. Entries that are neither words
// nor characters are skipped; only undecodable JSON is reported as an error.
func ParseTimestamps(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode timestamp array: %w", err)
		}
		return parseItems(items), nil
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode timestamp object: %w", err)
		}
		switch {
		case len(env.Words) > 0:
			return parseItems(env.Words), nil
		case env.Alignment != nil:
			return env.Alignment.records(), nil
		case env.NormalizedAlignment != nil:
			return env.NormalizedAlignment.records(), nil
		default:
			return env.alignment.records(), nil
		}
	default:
		return nil, fmt.Errorf("decode timestamps: expected JSON array or object")
	}
}

func parseItems(items []json.RawMessage) []Record {
	var (
		records []Record
		pending []charStamp
	)
	flush := func() {
		records = append(records, foldCharacters(pending)...)
		pending = pending[:0]
	}
	for _, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			continue
		}
		if char, ok := stringField(fields, "character"); ok {
			stamp := charStamp{char: char, start: math.NaN()}
			if ms, ok := numberField(fields, "start_time_ms"); ok {
				stamp.start = ms / 1000
			}
			if ms, ok := numberField(fields, "end_time_ms"); ok {
				stamp.end = ms / 1000
				stamp.hasEnd = true
			}
			pending = append(pending, stamp)
			continue
		}
		text, isWord := stringField(fields, "word")
		if !isWord {
			text, isWord = stringField(fields, "text")
		}
		start, hasStart := numberField(fields, "start")
		if !isWord && !hasStart {
			continue
		}
		flush()
		end, hasEnd := numberField(fields, "end")
		switch {
		case !hasStart:
			records = append(records, Untimed(text))
		case hasEnd:
			records = append(records, Explicit(text, start, end))
		default:
			records = append(records, InferredFromNext(text, start))
		}
	}
	flush()
	return records
}

func numberField(fields map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

func (a alignment) records() []Record {
	stamps := make([]charStamp, 0, len(a.Characters))
	for i, ch := range a.Characters {
		stamp := charStamp{char: ch, start: math.NaN()}
		if i < len(a.Starts) {
			stamp.start = a.Starts[i]
		}
		if i < len(a.Ends) {
			stamp.end = a.Ends[i]
			stamp.hasEnd = true
		}
		stamps = append(stamps, stamp)
	}
	return foldCharacters(stamps)
}

// foldCharacters groups character stamps into words split on whitespace. A
// character without a start takes the previous character's end (or start); a
// character without an end borrows the next character's start. A word whose
// last character still has no end is left for Resolve to infer.
func foldCharacters(stamps []charStamp) []Record {
	for i := range stamps {
		if validSeconds(stamps[i].start) {
			continue
		}
		switch {
		case i == 0:
			stamps[i].start = 0
		case stamps[i-1].hasEnd:
			stamps[i].start = stamps[i-1].end
		default:
			stamps[i].start = stamps[i-1].start
		}
	}
	for i := range stamps {
		if !stamps[i].hasEnd && i+1 < len(stamps) {
			stamps[i].end = stamps[i+1].start
			stamps[i].hasEnd = true
		}
	}

	var (
		records []Record
		word    strings.Builder
		first   charStamp
		last    charStamp
		open    bool
	)
	emit := func() {
		if !open {
			return
		}
		if last.hasEnd {
			records = append(records, Explicit(word.String(), first.start, last.end))
		} else {
			records = append(records, InferredFromNext(word.String(), first.start))
		}
		word.Reset()
		open = false
	}
	for _, stamp := range stamps {
		if isBlank(stamp.char) {
			emit()
			continue
		}
		if !open {
			first = stamp
			open = true
		}
		word.WriteString(stamp.char)
		last = stamp
	}
	emit()
	return records
}

func isBlank(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
