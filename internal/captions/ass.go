package captions

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// Style is the single ASS style every caption event references.
type Style struct {
	Name            string
	Font            string
	FontSize        int
	PrimaryColour   string
	SecondaryColour string
	OutlineColour   string
	BackColour      string
	Bold            bool
	Alignment       int
	MarginL         int
	MarginR         int
	MarginV         int
	PlayResX        int
	PlayResY        int
	// HighlightColour and BaseColour are inline \c overrides for the spoken
	// token and the rest of the line.
	HighlightColour string
	BaseColour      string
}

// DefaultStyle returns white Arial captions bottom-centred on a 1080x1920
// canvas with a soft shadow, highlighting the spoken word in yellow.
func DefaultStyle() Style {
	return Style{
		Name:            "Default",
		Font:            "Arial",
		FontSize:        48,
		PrimaryColour:   "&H00FFFFFF",
		SecondaryColour: "&H00FFFFFF",
		OutlineColour:   "&H00000000",
		BackColour:      "&H80000000",
		Bold:            true,
		Alignment:       2,
		MarginL:         20,
		MarginR:         20,
		MarginV:         120,
		PlayResX:        1080,
		PlayResY:        1920,
		HighlightColour: "&H00FFFF&",
		BaseColour:      "&HFFFFFF&",
	}
}

// Event is one Dialogue line.
type Event struct {
	Start float64
	End   float64
	Text  string
}

// Document is a complete ASS subtitle file.
type Document struct {
	Title  string
	Style  Style
	Events []Event
}

// FormatTime renders seconds as H:MM:SS.CC, truncating to centiseconds.
// Negative and non-finite values render as zero.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return "0:00:00.00"
	}
	// the epsilon absorbs binary representation error (0.29*100 = 28.999...)
	cs := int64(math.Floor(seconds*100 + 1e-6))
	hours := cs / 360000
	minutes := cs / 6000 % 60
	secs := cs / 100 % 60
	centis := cs % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}

// WriteTo serializes the document in ASS v4.00+ format.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	title := d.Title
	if strings.TrimSpace(title) == "" {
		title = "Karaoke Subtitles"
	}
	style := d.Style
	if style.Name == "" {
		style.Name = "Default"
	}

	fmt.Fprintf(bw, "[Script Info]\n")
	fmt.Fprintf(bw, "Title: %s\n", title)
	fmt.Fprintf(bw, "ScriptType: v4.00+\n")
	fmt.Fprintf(bw, "WrapStyle: 0\n")
	fmt.Fprintf(bw, "ScaledBorderAndShadow: yes\n")
	fmt.Fprintf(bw, "YCbCr Matrix: None\n")
	fmt.Fprintf(bw, "PlayResX: %d\n", style.PlayResX)
	fmt.Fprintf(bw, "PlayResY: %d\n", style.PlayResY)
	fmt.Fprintf(bw, "\n[V4+ Styles]\n")
	fmt.Fprintf(bw, "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(bw, "Style: %s,%s,%d,%s,%s,%s,%s,%d,0,0,0,100,100,0,0,1,0,2,%d,%d,%d,%d,1\n",
		style.Name, style.Font, style.FontSize,
		style.PrimaryColour, style.SecondaryColour, style.OutlineColour, style.BackColour,
		assBool(style.Bold), style.Alignment, style.MarginL, style.MarginR, style.MarginV)
	fmt.Fprintf(bw, "\n[Events]\n")
	fmt.Fprintf(bw, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, ev := range d.Events {
		fmt.Fprintf(bw, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n", FormatTime(ev.Start), FormatTime(ev.End), style.Name, ev.Text)
	}

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// WriteFile writes the document to path, replacing any existing file.
func WriteFile(path string, d Document) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create subtitle file: %w", err)
	}
	if _, err := d.WriteTo(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("write subtitle file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close subtitle file: %w", err)
	}
	return nil
}

func assBool(v bool) int {
	if v {
		return -1
	}
	return 0
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
