// Package domain defines the core business entities for Tubelens.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Report: The structured LLM analysis of a single video
//   - Transcript: The raw transcript text of a video
//   - Chunk: A bounded, indexable segment of report or transcript text
//   - RetrievedChunk: A chunk returned from a similarity query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
