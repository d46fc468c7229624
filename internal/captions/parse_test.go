package captions

import (
	"math"
	"testing"
)

func TestParseTimestampsWordArray(t *testing.T) {
	data := []byte(`[
		{"word": "Hello", "start": 0.0, "end": 0.4},
		{"word": "there", "start": 0.5},
		{"text": "friend", "start": 1.1, "end": 1.6},
		{"word": "skipped"},
		"garbage"
	]`)
	records, err := ParseTimestamps(data)
	if err != nil {
		t.Fatalf("ParseTimestamps: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d: %+v", len(records), records)
	}
	if records[0].Kind != KindExplicit || records[0].Text != "Hello" || records[0].End != 0.4 {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].Kind != KindInferred || records[1].Start != 0.5 {
		t.Fatalf("unexpected second record %+v", records[1])
	}
	if records[2].Text != "friend" {
		t.Fatalf("expected text field fallback, got %+v", records[2])
	}
	if records[3].Text != "skipped" || records[3].Kind != KindUniform || !math.IsNaN(records[3].Start) {
		t.Fatalf("expected untimed slot for entry without start, got %+v", records[3])
	}
}

func TestParseTimestampsKeepsSlotForUntimedWords(t *testing.T) {
	data := []byte(`[
		{"word": "alpha"},
		{"word": "beta", "start": 1, "end": 2},
		{"word": "gamma", "start": "2.0", "end": 3}
	]`)
	records, err := ParseTimestamps(data)
	if err != nil {
		t.Fatalf("ParseTimestamps: %v", err)
	}
	want := []struct {
		text string
		kind Kind
	}{
		{"alpha", KindUniform},
		{"beta", KindExplicit},
		{"gamma", KindUniform},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), len(records), records)
	}
	for i, w := range want {
		if records[i].Text != w.text || records[i].Kind != w.kind {
			t.Fatalf("record %d: expected %s/%s, got %+v", i, w.text, w.kind, records[i])
		}
	}
}

func TestParseTimestampsCharacterWithoutStart(t *testing.T) {
	data := []byte(`[
		{"character": "a", "start_time_ms": 0, "end_time_ms": 100},
		{"character": " "},
		{"character": "b", "start_time_ms": 300, "end_time_ms": 400}
	]`)
	records, err := ParseTimestamps(data)
	if err != nil {
		t.Fatalf("ParseTimestamps: %v", err)
	}
	if len(records) != 2 || records[0].Text != "a" || records[1].Text != "b" {
		t.Fatalf("unexpected records %+v", records)
	}
	if math.Abs(records[1].Start-0.3) > 1e-9 {
		t.Fatalf("unexpected second word start %+v", records[1])
	}
}

func TestParseTimestampsWordsObject(t *testing.T) {
	records, err := ParseTimestamps([]byte(`{"words": [{"word": "hi", "start": 1, "end": 2}]}`))
	if err != nil {
		t.Fatalf("ParseTimestamps: %v", err)
	}
	if len(records) != 1 || records[0].Start != 1 || records[0].End != 2 {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestParseTimestampsCharacterEntries(t *testing.T) {
	data := []byte(`[
		{"character": "H", "start_time_ms": 0, "end_time_ms": 100},
		{"character": "i", "start_time_ms": 100, "end_time_ms": 200},
		{"character": " ", "start_time_ms": 200, "end_time_ms": 300},
		{"character": "y", "start_time_ms": 300},
		{"character": "o", "start_time_ms": 400}
	]`)
	records, err := ParseTimestamps(data)
	if err != nil {
		t.Fatalf("ParseTimestamps: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 words, got %d: %+v", len(records), records)
	}
	if records[0].Text != "Hi" || records[0].Kind != KindExplicit {
		t.Fatalf("unexpected first word %+v", records[0])
	}
	if math.Abs(records[0].Start) > 1e-9 || math.Abs(records[0].End-0.2) > 1e-9 {
		t.Fatalf("unexpected first word window %+v", records[0])
	}
	if records[1].Text != "yo" || records[1].Kind != KindInferred {
		t.Fatalf("expected trailing word with inferred end, got %+v", records[1])
	}
	if math.Abs(records[1].Start-0.3) > 1e-9 {
		t.Fatalf("unexpected second word start %+v", records[1])
	}
}

func TestParseTimestampsAlignmentObject(t *testing.T) {
	data := []byte(`{
		"alignment": {
			"characters": ["a", "b", " ", "c"],
			"character_start_times_seconds": [0, 0.1, 0.2, 0.3],
			"character_end_times_seconds": [0.1, 0.2, 0.3, 0.45]
		}
	}`)
	records, err := ParseTimestamps(data)
	if err != nil {
		t.Fatalf("ParseTimestamps: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 words, got %d", len(records))
	}
	if records[0].Text != "ab" || records[0].End != 0.2 {
		t.Fatalf("unexpected first word %+v", records[0])
	}
	if records[1].Text != "c" || records[1].Start != 0.3 || records[1].End != 0.45 {
		t.Fatalf("unexpected second word %+v", records[1])
	}
}

func TestParseTimestampsTopLevelAlignment(t *testing.T) {
	data := []byte(`{"characters": ["o", "k"], "character_start_times_seconds": [1, 1.2], "character_end_times_seconds": [1.2, 1.4]}`)
	records, err := ParseTimestamps(data)
	if err != nil {
		t.Fatalf("ParseTimestamps: %v", err)
	}
	if len(records) != 1 || records[0].Text != "ok" || records[0].Start != 1 || records[0].End != 1.4 {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestParseTimestampsEmptyAndInvalid(t *testing.T) {
	for _, input := range []string{"", "  ", "null"} {
		records, err := ParseTimestamps([]byte(input))
		if err != nil || records != nil {
			t.Fatalf("input %q: expected no records and no error, got %+v, %v", input, records, err)
		}
	}
	for _, input := range []string{"{", "[1,", `"words"`, "42"} {
		if _, err := ParseTimestamps([]byte(input)); err == nil {
			t.Fatalf("input %q: expected error", input)
		}
	}
}
