// Package driven defines the interfaces that core calls OUT to
// infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them:
//
//   - Vault: Markdown document storage (the vault directory tree)
//   - CacheStore: Duplicate cache persistence
//   - PageFetcher: Remote page retrieval and markdown conversion
package driven
