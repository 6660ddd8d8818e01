// Package sqlite provides the persistent vector index backed by SQLite.
//
// Chunks and their embeddings live in a single table partitioned by a
// collection column. Embeddings are stored as little-endian float32
// blobs. Similarity queries load one collection's vectors and score
// them in memory with cosine distance; collections hold at most a few
// thousand chunks, so a linear scan is cheaper than maintaining an
// approximate index.
//
// The database uses WAL mode so index reads do not wait on in-flight
// writes.
package sqlite
