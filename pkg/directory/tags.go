package directory

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// TagLength is the fixed byte width of an InterfaceTag.
const TagLength = 32

// InterfaceTag identifies an interface or capability. Tags are derived
// deterministically from a human-readable name via keccak-256, so two
// parties agreeing on a name agree on the tag.
type InterfaceTag [TagLength]byte

// Well-known tags resolved by the token ledger around every transfer.
var (
	// TagTokensSender marks the hook notified before a sender is debited.
	TagTokensSender = TagFromName("TokensSender")

	// TagTokensRecipient marks the hook notified after a recipient is
	// credited.
	TagTokensRecipient = TagFromName("TokensRecipient")
)

// TagFromName derives the interface tag for a human-readable name.
func TagFromName(name string) InterfaceTag {
	var tag InterfaceTag
	digest := sha3.NewLegacyKeccak256()
	digest.Write([]byte(name))
	copy(tag[:], digest.Sum(nil))
	return tag
}

// String returns the tag as 0x-prefixed lowercase hex.
func (tag InterfaceTag) String() string {
	return "0x" + hex.EncodeToString(tag[:])
}

// IsZero reports whether the tag is the all-zero value, which is never a
// valid tag.
func (tag InterfaceTag) IsZero() bool {
	return tag == InterfaceTag{}
}
