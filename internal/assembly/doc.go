// Package assembly renders a finished vertical video from narration, B-roll
// clips and a script.
//
// An Assembler runs three ffmpeg steps in order, one invocation at a time:
// the captions are written to an ASS file, the clips are normalized and
// concatenated into a silent track of the requested length (or a solid filler
// when no clips are given), and the composition step burns in the captions,
// mixes narration with optional music and encodes the delivery MP4. Every
// intermediate carries the run token in its name and is removed when the run
// ends.
package assembly
