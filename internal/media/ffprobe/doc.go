// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// reelsmith only needs container and stream durations: when a run is started
// without an explicit duration the narration is probed and its length drives
// caption timing and clip assembly.
package ffprobe
