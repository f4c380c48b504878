// Package util holds small crypto and byte helpers shared by the sealed
// token store and the CLI.
package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// CopyBytes returns an independent copy of src.
func CopyBytes(src []byte) []byte {
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// WipeBytes best-effort zeroes the provided byte slice in place.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generating random bytes: %w", err)
	}
	return b, nil
}

// Normalize applies NFKD normalization so that visually identical
// passphrases typed on different platforms derive the same key and
// hash the same server-side.
func Normalize(s string) string {
	return norm.NFKD.String(s)
}

// HexEncode encodes b as lowercase hex.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// HexDecode decodes a hex string.
func HexDecode(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
