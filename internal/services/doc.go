// Package services defines shared utilities consumed by the assembly pipeline
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, step names, and output paths for
//     logging.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (external tool vs validation) after they cross package
//     boundaries.
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform.
package services
