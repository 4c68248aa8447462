package shared

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// IdentityLength is the fixed byte width of an Identity.
const IdentityLength = 20

// Identity is an opaque, address-equivalent identifier for an account,
// hook implementer, or registry member. The zero value is reserved: it is
// never a valid participant and marks absence (and the mint source in
// transfer records).
type Identity [IdentityLength]byte

// ZeroIdentity is the reserved all-zero identity.
var ZeroIdentity Identity

// ParseIdentity parses the canonical hex form, "0x" followed by 40 hex
// characters. Case is ignored.
func ParseIdentity(raw string) (Identity, error) {
	var identity Identity

	candidate := strings.TrimSpace(raw)
	if !strings.HasPrefix(candidate, "0x") && !strings.HasPrefix(candidate, "0X") {
		return identity, fmt.Errorf("invalid identity %q: missing 0x prefix", raw)
	}

	digits := candidate[2:]
	if len(digits) != IdentityLength*2 {
		return identity, fmt.Errorf("invalid identity %q: expected %d hex characters, got %d", raw, IdentityLength*2, len(digits))
	}

	decoded, err := hex.DecodeString(digits)
	if err != nil {
		return identity, fmt.Errorf("invalid identity %q: %w", raw, err)
	}

	copy(identity[:], decoded)
	return identity, nil
}

// String returns the canonical lowercase hex form.
func (identity Identity) String() string {
	return "0x" + hex.EncodeToString(identity[:])
}

// IsZero reports whether the identity is the reserved zero value.
func (identity Identity) IsZero() bool {
	return identity == ZeroIdentity
}
