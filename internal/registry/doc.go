// Package registry maintains the set of asset ids the origin supports.
//
// The set lives behind an atomic pointer to an immutable snapshot. A refresh
// builds a complete replacement set and swaps it in one store, so concurrent
// validation reads never observe a partially populated set, and a failed
// refresh leaves the previous snapshot active.
package registry
