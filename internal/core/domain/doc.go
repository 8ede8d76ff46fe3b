// Package domain defines the core business entities for Wilson.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A ledger entry for an ingested legal document
//   - Page: One page of structured text produced by a parser
//   - Passage: A structurally addressable span of a page, the unit of retrieval
//   - ClauseType: One of the five fixed legal-clause archetypes
//   - ClauseCandidate: A passage matched against an archetype
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
