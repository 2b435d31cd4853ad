package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future encoding change.
const (
	DomainProgram = "sieve/program/v" + ProgramVersion
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a stable content hash of the program. Two clauses
// that differ only in whitespace or keyword case compile to the same
// program and therefore share a fingerprint.
func (p *Program) Fingerprint() (string, error) {
	canonical, err := MarshalCanonical(canonicalCells(p.cells))
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}
