// Package graph extracts entity-relationship graphs from OSDU JSON Schema
// documents.
//
// [Build] walks one root schema plus an index of known sibling schemas and
// produces a deduplicated, stably-identified node/edge graph: the main
// entity node, related-entity nodes discovered via the x-osdu-relationship
// extension, and abstract nodes discovered via structural $ref. The graph
// is a pure function of its inputs and carries no persisted state.
//
// The package also provides the canonical JSON serialization used for API
// responses, files, caching, and the Mongo-backed graph store.
package graph
