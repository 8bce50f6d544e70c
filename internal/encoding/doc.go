// Package encoding converts byte sequences to and from the textual encodings
// Node's Buffer understands: utf8 (default), base64, base64url, hex, latin1
// and ascii.
//
// hex and base64 round-trip arbitrary bytes. utf8 decoding replaces each
// invalid byte with U+FFFD.
package encoding
