package captions

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00:00.00"},
		{3661.256, "1:01:01.25"},
		{0.29, "0:00:00.29"},
		{59.999, "0:00:59.99"},
		{600, "0:10:00.00"},
		{-3, "0:00:00.00"},
		{math.NaN(), "0:00:00.00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Fatalf("FormatTime(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestDocumentWriteToHeader(t *testing.T) {
	doc := Document{Style: DefaultStyle()}
	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Fatalf("expected count %d, got %d", buf.Len(), n)
	}
	out := buf.String()
	for _, want := range []string{
		"[Script Info]\n",
		"ScriptType: v4.00+\n",
		"PlayResX: 1080\n",
		"PlayResY: 1920\n",
		"[V4+ Styles]\n",
		"Style: Default,Arial,48,&H00FFFFFF,&H00FFFFFF,&H00000000,&H80000000,-1,0,0,0,100,100,0,0,1,0,2,2,20,20,120,1\n",
		"[Events]\n",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected header to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Dialogue:") {
		t.Fatalf("expected no dialogue lines, got:\n%s", out)
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.ass")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale\n", 500)), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	doc := Document{
		Style:  DefaultStyle(),
		Events: []Event{{Start: 1, End: 2.5, Text: "hi"}},
	}
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "stale") {
		t.Fatalf("expected previous contents to be replaced")
	}
	if !strings.HasSuffix(string(data), "Dialogue: 0,0:00:01.00,0:00:02.50,Default,,0,0,0,,hi\n") {
		t.Fatalf("unexpected file contents:\n%s", data)
	}
}
