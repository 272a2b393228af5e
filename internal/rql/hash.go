package rql

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainNode separates RQL fingerprints from any other hash in the system.
// The version suffix allows a future change of canonical form.
const DomainNode = "rqlsearch/rql/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a content-addressed identity for a parsed expression.
// Two expressions that differ only in node-name case, whitespace or
// percent-encoding share a fingerprint.
func Fingerprint(n *Node) (string, error) {
	canonical, err := MarshalCanonical(n)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainNode, canonical), nil
}
