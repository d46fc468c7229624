// Package textutil provides filename sanitization for intermediate artifacts.
//
// Temporary cuts, playlists and subtitle files are named after the output
// file's stem; SanitizeToken reduces that stem to a lowercase token that is
// safe on every filesystem and inside ffmpeg's concat playlist syntax.
package textutil
