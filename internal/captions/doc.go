// Package captions turns a narration script and optional word or character
// timestamps into karaoke-style ASS subtitles.
//
// The pipeline is: Tokenize the script on whitespace, Resolve exactly one
// WordTiming per token (explicit timestamps, ends inferred from the next
// record, or a uniform split of the total duration), Group the timings into
// short caption lines, and emit one Dialogue event per token in which only
// that token carries the highlight colour. Timestamp sources are normalized
// into Record values once; nothing after Resolve looks at where a timing came
// from.
package captions
