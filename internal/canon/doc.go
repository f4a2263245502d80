// Package canon provides canonical JSON serialization and content digests.
//
// Canonical JSON follows RFC 8785 ordering rules so that the same logical
// value always produces the same bytes:
//   - Object keys sorted by UTF-16 code units
//   - No HTML escaping
//   - Strings NFC normalized
//   - No floats and no null (callers render decimals as strings)
//
// Digests are SHA-256 with a domain prefix, so a fleet digest can never
// collide with a plan digest computed over identical bytes.
package canon
