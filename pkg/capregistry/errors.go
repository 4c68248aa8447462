package capregistry

import (
	"fmt"

	"github.com/Ravi280797/standards-implementations/pkg/directory"
	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

type RegistryError struct {
	Message string
}

func (errorValue RegistryError) Error() string {
	return errorValue.Message
}

// CapabilityMissingError reports a candidate or caller that did not prove
// the registry's required capability, including identities the probe could
// not reach.
type CapabilityMissingError struct {
	RegistryError
	Identity shared.Identity
	Tag      directory.InterfaceTag
}

func NewCapabilityMissingError(identity shared.Identity, tag directory.InterfaceTag) error {
	return CapabilityMissingError{
		RegistryError: RegistryError{Message: fmt.Sprintf("%s does not support required capability %s", identity, tag)},
		Identity:      identity,
		Tag:           tag,
	}
}

// UnauthorizedError reports a removal attempted on behalf of someone else.
type UnauthorizedError struct {
	RegistryError
	Caller    shared.Identity
	Candidate shared.Identity
}

func NewUnauthorizedError(caller shared.Identity, candidate shared.Identity) error {
	return UnauthorizedError{
		RegistryError: RegistryError{Message: fmt.Sprintf("%s may not remove %s: removal is self-service only", caller, candidate)},
		Caller:        caller,
		Candidate:     candidate,
	}
}

// MalformedInputError reports a zero identity where a real one is required.
type MalformedInputError struct {
	RegistryError
	Field string
}

func NewMalformedInputError(field string, reason string) error {
	return MalformedInputError{
		RegistryError: RegistryError{Message: fmt.Sprintf("malformed %s: %s", field, reason)},
		Field:         field,
	}
}

// ProbeError wraps an oracle failure that is not plain unreachability.
type ProbeError struct {
	RegistryError
	Identity shared.Identity
	Err      error
}

func (errorValue ProbeError) Unwrap() error {
	return errorValue.Err
}
