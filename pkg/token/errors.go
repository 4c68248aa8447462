package token

import (
	"fmt"

	"github.com/Ravi280797/standards-implementations/pkg/directory"
	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

type TokenError struct {
	Message string
}

func (errorValue TokenError) Error() string {
	return errorValue.Message
}

// InsufficientBalanceError reports a transfer exceeding the sender's
// balance.
type InsufficientBalanceError struct {
	TokenError
	From      shared.Identity
	Requested uint64
	Available uint64
}

func NewInsufficientBalanceError(from shared.Identity, requested uint64, available uint64) error {
	return InsufficientBalanceError{
		TokenError: TokenError{Message: fmt.Sprintf("insufficient balance for %s: requested %d, available %d", from, requested, available)},
		From:       from,
		Requested:  requested,
		Available:  available,
	}
}

// OverflowError reports an amount that cannot be represented in the supply
// counter or a recipient balance.
type OverflowError struct {
	TokenError
	Amount uint64
}

func NewOverflowError(context string, amount uint64) error {
	return OverflowError{
		TokenError: TokenError{Message: fmt.Sprintf("%s would overflow with amount %d", context, amount)},
		Amount:     amount,
	}
}

// UnauthorizedError reports a mint attempted by an identity that is not a
// registered default operator.
type UnauthorizedError struct {
	TokenError
	Caller shared.Identity
}

func NewUnauthorizedError(caller shared.Identity) error {
	return UnauthorizedError{
		TokenError: TokenError{Message: fmt.Sprintf("%s is not a registered default operator", caller)},
		Caller:     caller,
	}
}

// UnacknowledgedRecipientError reports a transfer to a managed account
// with no recipient hook registered while acknowledgement enforcement is
// on.
type UnacknowledgedRecipientError struct {
	TokenError
	To shared.Identity
}

func NewUnacknowledgedRecipientError(to shared.Identity) error {
	return UnacknowledgedRecipientError{
		TokenError: TokenError{Message: fmt.Sprintf("managed recipient %s has no recipient hook registered", to)},
		To:         to,
	}
}

// HookInvocationError reports a hook that could not be resolved or that
// failed when invoked. Hook failures are terminal for the enclosing
// transfer.
type HookInvocationError struct {
	TokenError
	Subject     shared.Identity
	Implementer shared.Identity
	Tag         directory.InterfaceTag
	Err         error
}

func (errorValue HookInvocationError) Unwrap() error {
	return errorValue.Err
}

func newHookInvocationError(
	subject shared.Identity,
	implementer shared.Identity,
	tag directory.InterfaceTag,
	err error,
) error {
	return HookInvocationError{
		TokenError:  TokenError{Message: fmt.Sprintf("hook %s for %s failed: %v", tag, subject, err)},
		Subject:     subject,
		Implementer: implementer,
		Tag:         tag,
		Err:         err,
	}
}

// MalformedInputError reports a zero identity or amount where a real one
// is required.
type MalformedInputError struct {
	TokenError
	Field string
}

func NewMalformedInputError(field string, reason string) error {
	return MalformedInputError{
		TokenError: TokenError{Message: fmt.Sprintf("malformed %s: %s", field, reason)},
		Field:      field,
	}
}
