// Package config loads, normalizes, and validates reelsmith configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// REELSMITH_FFMPEG. The Config type centralizes every knob the assembly
// pipeline and CLI need: the delivery frame geometry, encoder profiles, audio
// mix levels, caption styling, and where logs and run history live.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
