// Package ffmpeg builds validated ffmpeg argument lists and runs them.
//
// Commands are assembled section by section (preamble, inputs, filter graph,
// maps, codec options, output) into a plain argument slice that is handed to
// an injectable Runner, so nothing ever passes through a shell. Paths are
// checked and made absolute before serialization; the escaping helpers cover
// the two places where a path has to be embedded inside ffmpeg's own syntax:
// subtitles filter arguments and concat demuxer playlists.
package ffmpeg
