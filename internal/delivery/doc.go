// Package delivery implements the opportunity lifecycle engine: expiration
// sweeping, fuzzy category resolution, at-most-once selection, and the posting
// executor that orders write-backs strictly after confirmed sends.
//
// Every pipeline invocation re-reads the catalog, sweeps expired rows, picks
// the first eligible row for the category, sends it, and only then commits the
// posted state. Invocations are serialized through a single mutex so a manual
// command and a scheduled trigger can never race the same row.
package delivery
