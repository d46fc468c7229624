// Package main hosts the reelsmith CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and logging once, then hands
// off to the internal packages: assemble renders a finished video, captions
// writes only the ASS track, deps and history report on the environment and
// past runs, and config scaffolds and inspects the TOML file.
package main
