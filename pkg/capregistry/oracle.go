package capregistry

import (
	"context"
	"errors"

	"github.com/Ravi280797/standards-implementations/pkg/directory"
	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

// ErrProbeUnreachable reports an identity that cannot be queried at all.
// Oracles return it (or wrap it) when the target is not a queryable
// entity; the registry treats it as "does not support the capability".
var ErrProbeUnreachable = errors.New("capability probe target unreachable")

// CapabilityOracle asks an identity to attest its own support for a
// capability tag. The probe is a synchronous, side-effect-free query
// against the target itself.
type CapabilityOracle interface {
	SupportsCapability(ctx context.Context, identity shared.Identity, tag directory.InterfaceTag) (bool, error)
}

// OracleFunc adapts a function to the CapabilityOracle interface.
type OracleFunc func(ctx context.Context, identity shared.Identity, tag directory.InterfaceTag) (bool, error)

// SupportsCapability implements CapabilityOracle.
func (probe OracleFunc) SupportsCapability(
	ctx context.Context,
	identity shared.Identity,
	tag directory.InterfaceTag,
) (bool, error) {
	return probe(ctx, identity, tag)
}

// StaticOracle is a fixed attestation table: identities absent from the
// table are unreachable, present identities support exactly the tags
// mapped to true.
type StaticOracle map[shared.Identity]map[directory.InterfaceTag]bool

// SupportsCapability implements CapabilityOracle.
func (table StaticOracle) SupportsCapability(
	_ context.Context,
	identity shared.Identity,
	tag directory.InterfaceTag,
) (bool, error) {
	capabilities, queryable := table[identity]
	if !queryable {
		return false, ErrProbeUnreachable
	}
	return capabilities[tag], nil
}
