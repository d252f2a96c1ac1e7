package filecab

import (
	"crypto/sha1" //nolint:gosec // unsalted SHA-1 kept for stored-digest compatibility
	"encoding/hex"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsValidID reports whether raw parses as a document-store object id
// (24-character hex). It is used as a pre-check before lookups so that a
// malformed id yields a uniform "not found" instead of a store error.
func IsValidID(raw string) bool {
	_, err := primitive.ObjectIDFromHex(raw)
	return err == nil
}

// DigestPassword returns the hex SHA-1 digest of the plaintext password.
// Deterministic and unsalted; equal plaintexts always produce equal digests.
func DigestPassword(plain string) string {
	sum := sha1.Sum([]byte(plain))
	return hex.EncodeToString(sum[:])
}
