// Package capregistry implements a capability-gated membership registry: a
// set of identities where insertion requires the inserted identity itself
// to prove a capability, and removal is strictly self-service.
//
// Capability proof goes through an injected CapabilityOracle, which asks
// the target identity to attest its own support for a capability tag. An
// identity that cannot be queried at all reads as not supporting the
// capability. Membership is checked at insertion time only; a member that
// later loses the capability is not auto-removed.
package capregistry
