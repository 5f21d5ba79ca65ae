// Package determinism provides the primitives that make proposals reproducible:
// canonical input hashing and name-based proposal IDs.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"solar-proposal/core/types"
	apperrors "solar-proposal/internal/errors"
)

// ProposalNamespace scopes proposal IDs
var ProposalNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("solar-proposal/proposals"))

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// IsZero reports whether the hash was never computed
func (h ContentHash) IsZero() bool {
	return h == ContentHash{}
}

// Canonical returns the input with lookup keys normalized so equivalent
// requests hash identically.
func Canonical(input types.CustomerInput) types.CustomerInput {
	out := input
	out.RegionID = strings.ToLower(strings.TrimSpace(input.RegionID))
	out.City = strings.TrimSpace(input.City)
	out.CustomerName = strings.TrimSpace(input.CustomerName)
	return out
}

// InputHash hashes the canonical JSON encoding of the input.
// Struct fields encode in declaration order, so the encoding is stable.
func InputHash(input types.CustomerInput) (ContentHash, error) {
	data, err := json.Marshal(Canonical(input))
	if err != nil {
		return ContentHash{}, apperrors.Internal("failed to encode input", err)
	}
	return ComputeHash(data), nil
}

// ProposalID derives a name-based UUID from the input hash and creation time.
// The same input at the same instant always yields the same ID.
func ProposalID(inputHash ContentHash, createdAt time.Time) string {
	name := make([]byte, 0, len(inputHash)+32)
	name = append(name, inputHash[:]...)
	name = append(name, 0)
	name = append(name, createdAt.UTC().Format(time.RFC3339Nano)...)
	return uuid.NewSHA1(ProposalNamespace, name).String()
}
