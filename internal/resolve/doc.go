// Package resolve implements the tiered resolution engine.
//
// Every read follows the same order: cache, then store, then origin, with
// write-back to the lower tiers on an origin hit. The engine holds no lock
// across collaborator calls and does not deduplicate concurrent in-flight
// requests for the same key; two simultaneous misses can both reach the
// origin and both persist, which is tolerable because saves are idempotent
// by composite key and origin values for a fixed point are stable.
package resolve
