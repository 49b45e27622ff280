package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix enables future algorithm migration.
const (
	DomainDocument = "flowlens/document/v1"
	DomainReport   = "flowlens/report/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentFingerprint computes the content-addressed fingerprint of a
// normalized document. The fingerprint covers extraction-relevant content
// only: two documents that normalize identically share a fingerprint
// regardless of which legacy shape they arrived in, and raw-level noise the
// normalizer drops (non-string argument values, unknown keys) does not
// perturb it.
func DocumentFingerprint(doc *TransitionDoc) (string, error) {
	canonical, err := MarshalCanonical(doc.canonicalMap())
	if err != nil {
		return "", fmt.Errorf("DocumentFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDocument, canonical), nil
}

// ReportID computes the content-addressed ID of a report from its canonical
// JSON. Callers must pass MarshalCanonical output, never display JSON.
func ReportID(canonicalReport []byte) string {
	return hashWithDomain(DomainReport, canonicalReport)
}

// MustDocumentFingerprint is like DocumentFingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDocumentFingerprint(doc *TransitionDoc) string {
	id, err := DocumentFingerprint(doc)
	if err != nil {
		panic(err)
	}
	return id
}
