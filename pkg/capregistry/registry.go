package capregistry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Ravi280797/standards-implementations/pkg/directory"
	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

// Membership event kinds.
const (
	MembershipAdded   = "added"
	MembershipRemoved = "removed"
)

// MembershipEvent records one registry mutation.
type MembershipEvent struct {
	Kind   string
	Member shared.Identity
}

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Oracle answers capability probes. Required.
	Oracle CapabilityOracle

	// RequiredTag is the capability every member must prove at insertion
	// time. Required.
	RequiredTag directory.InterfaceTag

	// MembershipCallback, when set, observes every recorded mutation.
	MembershipCallback func(MembershipEvent)
}

// Registry is a capability-gated membership set. Insertion requires the
// candidate to prove the required capability; removal additionally
// requires the caller to be the member being removed.
type Registry struct {
	oracle      CapabilityOracle
	requiredTag directory.InterfaceTag
	onChange    func(MembershipEvent)

	mutex   sync.RWMutex
	members map[shared.Identity]struct{}
	journal []MembershipEvent
}

// NewRegistry creates a new Registry.
func NewRegistry(config RegistryConfig) (*Registry, error) {
	if config.Oracle == nil {
		return nil, fmt.Errorf("capability oracle is required")
	}
	if config.RequiredTag.IsZero() {
		return nil, fmt.Errorf("required capability tag is required")
	}

	return &Registry{
		oracle:      config.Oracle,
		requiredTag: config.RequiredTag,
		onChange:    config.MembershipCallback,
		members:     map[shared.Identity]struct{}{},
	}, nil
}

// RequiredTag returns the capability tag members must prove.
func (registry *Registry) RequiredTag() directory.InterfaceTag {
	return registry.requiredTag
}

// AddMember inserts candidate after it proves the required capability.
// Inserting an existing member is a no-op success returning false; the
// member's capability is not re-verified.
func (registry *Registry) AddMember(ctx context.Context, candidate shared.Identity) (bool, error) {
	if candidate.IsZero() {
		return false, NewMalformedInputError("candidate", "zero identity")
	}

	registry.mutex.RLock()
	_, present := registry.members[candidate]
	registry.mutex.RUnlock()
	if present {
		return false, nil
	}

	supported, err := registry.probe(ctx, candidate)
	if err != nil {
		return false, err
	}
	if !supported {
		return false, NewCapabilityMissingError(candidate, registry.requiredTag)
	}

	registry.mutex.Lock()
	if _, present := registry.members[candidate]; present {
		registry.mutex.Unlock()
		return false, nil
	}
	registry.members[candidate] = struct{}{}
	event := MembershipEvent{Kind: MembershipAdded, Member: candidate}
	registry.journal = append(registry.journal, event)
	registry.mutex.Unlock()

	if registry.onChange != nil {
		registry.onChange(event)
	}
	return true, nil
}

// RemoveMember removes candidate. Only the member itself may leave, and it
// must still prove the required capability to do so. Removing an identity
// that is not a member is a no-op success returning false.
func (registry *Registry) RemoveMember(
	ctx context.Context,
	caller shared.Identity,
	candidate shared.Identity,
) (bool, error) {
	if caller.IsZero() {
		return false, NewMalformedInputError("caller", "zero identity")
	}
	if candidate.IsZero() {
		return false, NewMalformedInputError("candidate", "zero identity")
	}
	if caller != candidate {
		return false, NewUnauthorizedError(caller, candidate)
	}

	supported, err := registry.probe(ctx, caller)
	if err != nil {
		return false, err
	}
	if !supported {
		return false, NewCapabilityMissingError(caller, registry.requiredTag)
	}

	registry.mutex.Lock()
	if _, present := registry.members[candidate]; !present {
		registry.mutex.Unlock()
		return false, nil
	}
	delete(registry.members, candidate)
	event := MembershipEvent{Kind: MembershipRemoved, Member: candidate}
	registry.journal = append(registry.journal, event)
	registry.mutex.Unlock()

	if registry.onChange != nil {
		registry.onChange(event)
	}
	return true, nil
}

// Contains reports whether identity is a member.
func (registry *Registry) Contains(identity shared.Identity) bool {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	_, present := registry.members[identity]
	return present
}

// Members returns the membership in canonical hex order.
func (registry *Registry) Members() []shared.Identity {
	registry.mutex.RLock()
	members := make([]shared.Identity, 0, len(registry.members))
	for member := range registry.members {
		members = append(members, member)
	}
	registry.mutex.RUnlock()

	sort.Slice(members, func(left, right int) bool {
		return members[left].String() < members[right].String()
	})
	return members
}

// Journal returns a copy of the membership mutation journal.
func (registry *Registry) Journal() []MembershipEvent {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	journal := make([]MembershipEvent, len(registry.journal))
	copy(journal, registry.journal)
	return journal
}

// probe asks the oracle. Unreachable targets read as "false"; any other
// oracle failure propagates.
func (registry *Registry) probe(ctx context.Context, identity shared.Identity) (bool, error) {
	supported, err := registry.oracle.SupportsCapability(ctx, identity, registry.requiredTag)
	if err != nil {
		if errors.Is(err, ErrProbeUnreachable) {
			return false, nil
		}
		return false, ProbeError{
			RegistryError: RegistryError{Message: fmt.Sprintf("capability probe for %s failed: %v", identity, err)},
			Identity:      identity,
			Err:           err,
		}
	}
	return supported, nil
}
