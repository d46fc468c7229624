package captions

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelsmith/internal/config"
)

// Case selects the display transform applied to caption text.
type Case string

const (
	CaseNone  Case = "none"
	CaseUpper Case = "upper"
	CaseTitle Case = "title"
)

// Options controls caption styling, line grouping and display casing.
type Options struct {
	Title string
	Style Style
	Rules GroupRules
	Case  Case
}

// DefaultOptions returns the stock style, grouping rules and no casing.
func DefaultOptions() Options {
	return Options{Style: DefaultStyle(), Rules: DefaultGroupRules(), Case: CaseNone}
}

// OptionsFromConfig maps the [captions] and [video] sections onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	c := cfg.Captions
	opts.Style = Style{
		Name:            "Default",
		Font:            c.Font,
		FontSize:        c.FontSize,
		PrimaryColour:   c.PrimaryColour,
		SecondaryColour: c.SecondaryColour,
		OutlineColour:   c.OutlineColour,
		BackColour:      c.BackColour,
		Bold:            true,
		Alignment:       c.Alignment,
		MarginL:         c.MarginL,
		MarginR:         c.MarginR,
		MarginV:         c.MarginV,
		PlayResX:        cfg.Video.Width,
		PlayResY:        cfg.Video.Height,
		HighlightColour: c.HighlightColour,
		BaseColour:      c.BaseColour,
	}
	opts.Rules = GroupRules{
		MaxWords:            c.MaxWords,
		MinWordsBeforeBreak: c.MinWordsBreak,
		LongWordRunes:       c.LongWordRunes,
	}
	opts.Case = Case(c.Case)
	return opts
}

// Build resolves timings for script and returns a document with one Dialogue
// event per token. Each event shows the token's caption line with only that
// token highlighted. An empty script yields a document with no events.
func Build(script string, records []Record, duration float64, opts Options) Document {
	doc := Document{Title: opts.Title, Style: opts.Style}
	tokens := Tokenize(script)
	if len(tokens) == 0 {
		return doc
	}

	timings := Resolve(tokens, records, duration)
	display := displayTransform(opts.Case)
	highlight := "{\\c" + opts.Style.HighlightColour + "}"
	base := "{\\c" + opts.Style.BaseColour + "}"

	for _, group := range Group(timings, opts.Rules) {
		words := make([]string, len(group))
		for i, wt := range group {
			words[i] = display(sanitizeText(wt.Text))
		}
		for i, wt := range group {
			var b strings.Builder
			for j, word := range words {
				if j > 0 {
					b.WriteByte(' ')
				}
				if j == i {
					b.WriteString(highlight)
					b.WriteString(word)
					b.WriteString(base)
					continue
				}
				b.WriteString(word)
			}
			doc.Events = append(doc.Events, Event{Start: wt.Start, End: wt.End, Text: b.String()})
		}
	}
	return doc
}

// sanitizeText removes characters that would open or escape an ASS override
// block.
func sanitizeText(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '\\':
			return -1
		}
		return r
	}, text)
}

func displayTransform(c Case) func(string) string {
	switch Case(strings.ToLower(string(c))) {
	case CaseUpper:
		caser := cases.Upper(language.Und)
		return caser.String
	case CaseTitle:
		caser := cases.Title(language.Und)
		return caser.String
	default:
		return func(s string) string { return s }
	}
}
