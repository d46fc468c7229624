package ffmpeg

import "strings"

var (
	// characters special inside a filter option value
	optionEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	// characters special to the filtergraph parser
	graphEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)

// EscapeFilterPath escapes a path for use as a filter option value inside a
// filtergraph, e.g. subtitles=filename=<escaped>. Both escaping levels are
// applied: first for the option value, then for the graph description.
func EscapeFilterPath(path string) string {
	return graphEscaper.Replace(optionEscaper.Replace(path))
}

// ConcatLine renders a concat demuxer "file" directive for path. Single quotes
// are closed, escaped and reopened.
func ConcatLine(path string) string {
	return "file '" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
