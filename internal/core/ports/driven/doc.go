// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentParser: Turns a raw document into ordered pages of structured text
//   - DocumentLedger: Records which documents have been ingested
//   - PassageIndex: Stores passages and answers filtered similarity queries
//   - PassagePipeline: Splits a page into passages
//   - EmbeddingService: Maps text to a fixed-length vector
//   - ConfigStore: Application configuration
//
// All capabilities are injected into services at construction time.
// None are package-level singletons.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, parser, or processor package
package driven
