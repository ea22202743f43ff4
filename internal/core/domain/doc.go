// Package domain defines the core entities of clipvault.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Config: The full configuration tree, loaded once at startup
//   - Defect: One frontmatter problem found and (usually) fixed
//   - ResolvedDate: A document date with its provenance
//   - Cache: The duplicate-tracking cache keyed by canonical URL
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
package domain
