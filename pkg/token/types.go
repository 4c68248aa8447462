package token

import (
	"context"

	"github.com/Ravi280797/standards-implementations/pkg/directory"
	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

// AckLength is the byte width of a hook acknowledgement.
const AckLength = 32

// Receiver is the hook boundary. A registered implementer receives the
// packed transfer payload and returns a fixed-width acknowledgement. An
// error aborts the enclosing transfer.
type Receiver interface {
	ReceiveNotification(ctx context.Context, tag directory.InterfaceTag, payload []byte) ([AckLength]byte, error)
}

// ReceiverResolver maps an implementer identity resolved from the
// directory to a callable Receiver. An implementer that cannot be resolved
// is treated as unreachable and fails the transfer.
type ReceiverResolver interface {
	Resolve(implementer shared.Identity) (Receiver, bool)
}

// ReceiverMap is a map-backed ReceiverResolver.
type ReceiverMap map[shared.Identity]Receiver

// Resolve implements ReceiverResolver.
func (receivers ReceiverMap) Resolve(implementer shared.Identity) (Receiver, bool) {
	receiver, found := receivers[implementer]
	return receiver, found && receiver != nil
}

// AccountInspector classifies identities. Managed accounts (contract-like,
// not plainly externally controlled) must acknowledge incoming transfers
// when enforcement is requested.
type AccountInspector interface {
	IsManaged(identity shared.Identity) bool
}

// ManagedSet is a map-backed AccountInspector: identities present with a
// true value are managed, everything else is plain.
type ManagedSet map[shared.Identity]bool

// IsManaged implements AccountInspector.
func (managed ManagedSet) IsManaged(identity shared.Identity) bool {
	return managed[identity]
}

// TransferParams carries one transfer request.
type TransferParams struct {
	Operator            shared.Identity
	From                shared.Identity
	To                  shared.Identity
	Amount              uint64
	UserData            []byte
	OperatorData        []byte
	EnforceRecipientAck bool
}

// TransferEvent is the immutable record of one completed mint or transfer.
// Mints carry the zero identity as From.
type TransferEvent struct {
	Operator     shared.Identity
	From         shared.Identity
	To           shared.Identity
	Amount       uint64
	UserData     []byte
	OperatorData []byte
}

// ReceiverNotification records one successful hook invocation.
type ReceiverNotification struct {
	Subject     shared.Identity
	Implementer shared.Identity
	Tag         directory.InterfaceTag
	Ack         [AckLength]byte
	Payload     []byte
}

// LedgerConfig configures a Ledger.
type LedgerConfig struct {
	// Directory resolves hook implementers. Required.
	Directory *directory.Client

	// Receivers maps implementer identities to callable hooks. Optional;
	// when nil, any registered implementer is unreachable and fails the
	// transfer.
	Receivers ReceiverResolver

	// Inspector classifies recipients for acknowledgement enforcement.
	// Optional; when nil, every identity is treated as plain.
	Inspector AccountInspector

	// DefaultOperators are the identities allowed to mint.
	DefaultOperators []shared.Identity

	// TransferCallback, when set, observes every recorded TransferEvent.
	TransferCallback func(TransferEvent)

	// NotificationCallback, when set, observes every recorded hook
	// invocation.
	NotificationCallback func(ReceiverNotification)
}
