// Package coingecko provides the origin API client and query assembly.
//
// The client only performs transport: it fetches raw JSON payloads with a
// per-request timeout and a jittered retry policy, and never decodes price
// data itself. Decoding and validation belong to the callers (the resolution
// engine and the asset registry), which keeps the split between transport
// failures and payload failures explicit.
package coingecko
