// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Maps text to fixed-length vectors
//   - EmbeddingCache: Persists text-hash → vector mappings
//   - VectorIndex: Stores vectors per collection, cosine k-NN queries
//   - ReportStore: Report persistence (authoritative for reindexing)
//   - TranscriptStore: Transcript persistence (authoritative for reindexing)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Report generation and question answering. Without it,
//     only retrieval over already-indexed content works.
//   - VideoProvider: YouTube metadata and transcripts. Without it,
//     analyze commands are disabled but ask/reindex still work.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
