package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// SnapshotHash identifies the exact dataset both explanations were built from.
type SnapshotHash Hash

func NewSnapshotHash(data []byte) SnapshotHash { return SnapshotHash(NewHash(data)) }

func (h SnapshotHash) String() string { return Hash(h).String() }

// Short returns the first 12 hex characters, enough for log lines.
func (h SnapshotHash) Short() string {
	s := string(h)
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
