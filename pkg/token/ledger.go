package token

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Ravi280797/standards-implementations/pkg/directory"
	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

// Ledger is the notifying token ledger. See the package documentation for
// the transfer ordering and re-entrancy guarantees.
type Ledger struct {
	directory      *directory.Client
	receivers      ReceiverResolver
	inspector      AccountInspector
	onTransfer     func(TransferEvent)
	onNotification func(ReceiverNotification)

	mutex       sync.RWMutex
	balances    map[shared.Identity]uint64
	operators   map[shared.Identity]bool
	totalSupply uint64

	transfers     []TransferEvent
	notifications []ReceiverNotification

	// depth counts operations in flight on this instance, > 1 only when
	// hook code re-enters. Event callbacks flush when it returns to zero.
	depth                int
	flushedTransfers     int
	flushedNotifications int
}

type ledgerCheckpoint struct {
	balances          map[shared.Identity]uint64
	totalSupply       uint64
	transferCount     int
	notificationCount int
}

// NewLedger creates a new Ledger.
func NewLedger(config LedgerConfig) (*Ledger, error) {
	if config.Directory == nil {
		return nil, fmt.Errorf("directory client is required")
	}

	operators := map[shared.Identity]bool{}
	for _, operator := range config.DefaultOperators {
		if operator.IsZero() {
			return nil, fmt.Errorf("default operator cannot be the zero identity")
		}
		operators[operator] = true
	}

	receivers := config.Receivers
	if receivers == nil {
		receivers = ReceiverMap{}
	}

	return &Ledger{
		directory:      config.Directory,
		receivers:      receivers,
		inspector:      config.Inspector,
		onTransfer:     config.TransferCallback,
		onNotification: config.NotificationCallback,
		balances:       map[shared.Identity]uint64{},
		operators:      operators,
	}, nil
}

// Mint credits the caller and grows total supply. Only registered default
// operators may mint.
func (ledger *Ledger) Mint(
	ctx context.Context,
	caller shared.Identity,
	amount uint64,
	userData []byte,
	operatorData []byte,
) error {
	if caller.IsZero() {
		return NewMalformedInputError("caller", "zero identity")
	}

	ledger.mutex.Lock()
	if !ledger.operators[caller] {
		ledger.mutex.Unlock()
		return NewUnauthorizedError(caller)
	}
	if amount > math.MaxUint64-ledger.totalSupply {
		ledger.mutex.Unlock()
		return NewOverflowError("total supply", amount)
	}

	// Balance overflow is ruled out by the supply check: no balance can
	// exceed the supply.
	ledger.balances[caller] += amount
	ledger.totalSupply += amount
	ledger.transfers = append(ledger.transfers, TransferEvent{
		Operator:     caller,
		From:         shared.ZeroIdentity,
		To:           caller,
		Amount:       amount,
		UserData:     cloneBytes(userData),
		OperatorData: cloneBytes(operatorData),
	})
	ledger.mutex.Unlock()

	ledger.flushEvents()
	return nil
}

// Transfer moves tokens from From to To, notifying registered sender and
// recipient hooks around the movement. Any failure, including a hook that
// cannot be reached or that returns an error, aborts with no state change.
func (ledger *Ledger) Transfer(ctx context.Context, params TransferParams) error {
	if err := validateTransferParams(params); err != nil {
		return err
	}

	ledger.mutex.Lock()
	checkpoint := ledger.takeCheckpointLocked()
	ledger.depth++
	ledger.mutex.Unlock()

	err := ledger.runTransfer(ctx, params)

	ledger.mutex.Lock()
	ledger.depth--
	if err != nil {
		ledger.restoreLocked(checkpoint)
	}
	ledger.mutex.Unlock()

	if err != nil {
		return err
	}
	ledger.flushEvents()
	return nil
}

func (ledger *Ledger) runTransfer(ctx context.Context, params TransferParams) error {
	ledger.mutex.RLock()
	available := ledger.balances[params.From]
	ledger.mutex.RUnlock()
	if available < params.Amount {
		return NewInsufficientBalanceError(params.From, params.Amount, available)
	}

	payload := EncodeHookPayload(
		params.Operator,
		params.From,
		params.To,
		params.Amount,
		params.UserData,
		params.OperatorData,
	)

	// Sender hook runs before any mutation; the sender still holds the
	// full balance while it executes.
	senderNotification, err := ledger.notify(ctx, params.From, directory.TagTokensSender, payload)
	if err != nil {
		return err
	}

	// Debit and credit in one critical section. A re-entrant call from
	// the sender hook may have moved funds, so the balance is re-checked.
	ledger.mutex.Lock()
	available = ledger.balances[params.From]
	if available < params.Amount {
		ledger.mutex.Unlock()
		return NewInsufficientBalanceError(params.From, params.Amount, available)
	}
	if params.Amount > math.MaxUint64-ledger.balances[params.To] {
		ledger.mutex.Unlock()
		return NewOverflowError("recipient balance", params.Amount)
	}
	ledger.balances[params.From] -= params.Amount
	ledger.balances[params.To] += params.Amount
	ledger.mutex.Unlock()

	recipientNotification, err := ledger.notify(ctx, params.To, directory.TagTokensRecipient, payload)
	if err != nil {
		return err
	}

	if recipientNotification == nil && params.EnforceRecipientAck &&
		ledger.inspector != nil && ledger.inspector.IsManaged(params.To) {
		return NewUnacknowledgedRecipientError(params.To)
	}

	ledger.mutex.Lock()
	if senderNotification != nil {
		ledger.notifications = append(ledger.notifications, *senderNotification)
	}
	if recipientNotification != nil {
		ledger.notifications = append(ledger.notifications, *recipientNotification)
	}
	ledger.transfers = append(ledger.transfers, TransferEvent{
		Operator:     params.Operator,
		From:         params.From,
		To:           params.To,
		Amount:       params.Amount,
		UserData:     cloneBytes(params.UserData),
		OperatorData: cloneBytes(params.OperatorData),
	})
	ledger.mutex.Unlock()

	return nil
}

func (ledger *Ledger) notify(
	ctx context.Context,
	subject shared.Identity,
	tag directory.InterfaceTag,
	payload []byte,
) (*ReceiverNotification, error) {
	implementer, found, err := ledger.directory.Lookup(ctx, subject, tag)
	if err != nil {
		return nil, newHookInvocationError(subject, shared.ZeroIdentity, tag, err)
	}
	if !found {
		return nil, nil
	}

	receiver, reachable := ledger.receivers.Resolve(implementer)
	if !reachable {
		return nil, newHookInvocationError(subject, implementer, tag, errors.New("implementer is not reachable"))
	}

	ack, err := receiver.ReceiveNotification(ctx, tag, payload)
	if err != nil {
		return nil, newHookInvocationError(subject, implementer, tag, err)
	}

	return &ReceiverNotification{
		Subject:     subject,
		Implementer: implementer,
		Tag:         tag,
		Ack:         ack,
		Payload:     payload,
	}, nil
}

func validateTransferParams(params TransferParams) error {
	if params.Operator.IsZero() {
		return NewMalformedInputError("operator", "zero identity")
	}
	if params.From.IsZero() {
		return NewMalformedInputError("from", "zero identity")
	}
	if params.To.IsZero() {
		return NewMalformedInputError("to", "zero identity")
	}
	return nil
}

// BalanceOf returns the balance for identity. Absent accounts read zero.
func (ledger *Ledger) BalanceOf(identity shared.Identity) uint64 {
	ledger.mutex.RLock()
	defer ledger.mutex.RUnlock()
	return ledger.balances[identity]
}

// TotalSupply returns the current total supply.
func (ledger *Ledger) TotalSupply() uint64 {
	ledger.mutex.RLock()
	defer ledger.mutex.RUnlock()
	return ledger.totalSupply
}

// IsOperator reports whether identity is a registered default operator.
func (ledger *Ledger) IsOperator(identity shared.Identity) bool {
	ledger.mutex.RLock()
	defer ledger.mutex.RUnlock()
	return ledger.operators[identity]
}

// Balances returns a deep copy of the balance mapping.
func (ledger *Ledger) Balances() map[shared.Identity]uint64 {
	ledger.mutex.RLock()
	defer ledger.mutex.RUnlock()
	return cloneBalances(ledger.balances)
}

// Transfers returns a copy of the append-only transfer journal.
func (ledger *Ledger) Transfers() []TransferEvent {
	ledger.mutex.RLock()
	defer ledger.mutex.RUnlock()
	transfers := make([]TransferEvent, len(ledger.transfers))
	copy(transfers, ledger.transfers)
	return transfers
}

// Notifications returns a copy of the hook invocation journal.
func (ledger *Ledger) Notifications() []ReceiverNotification {
	ledger.mutex.RLock()
	defer ledger.mutex.RUnlock()
	notifications := make([]ReceiverNotification, len(ledger.notifications))
	copy(notifications, ledger.notifications)
	return notifications
}

func (ledger *Ledger) takeCheckpointLocked() ledgerCheckpoint {
	return ledgerCheckpoint{
		balances:          cloneBalances(ledger.balances),
		totalSupply:       ledger.totalSupply,
		transferCount:     len(ledger.transfers),
		notificationCount: len(ledger.notifications),
	}
}

func (ledger *Ledger) restoreLocked(checkpoint ledgerCheckpoint) {
	ledger.balances = checkpoint.balances
	ledger.totalSupply = checkpoint.totalSupply
	ledger.transfers = ledger.transfers[:checkpoint.transferCount]
	ledger.notifications = ledger.notifications[:checkpoint.notificationCount]
}

// flushEvents delivers callbacks for journal entries recorded since the
// last flush, once no operation is in flight. Entries recorded by nested
// operations flush with the outermost one, so a rolled-back enclosing
// transfer never leaks callbacks for work it undid.
func (ledger *Ledger) flushEvents() {
	ledger.mutex.Lock()
	if ledger.depth != 0 {
		ledger.mutex.Unlock()
		return
	}
	pendingTransfers := make([]TransferEvent, len(ledger.transfers)-ledger.flushedTransfers)
	copy(pendingTransfers, ledger.transfers[ledger.flushedTransfers:])
	pendingNotifications := make([]ReceiverNotification, len(ledger.notifications)-ledger.flushedNotifications)
	copy(pendingNotifications, ledger.notifications[ledger.flushedNotifications:])
	ledger.flushedTransfers = len(ledger.transfers)
	ledger.flushedNotifications = len(ledger.notifications)
	ledger.mutex.Unlock()

	if ledger.onNotification != nil {
		for _, notification := range pendingNotifications {
			ledger.onNotification(notification)
		}
	}
	if ledger.onTransfer != nil {
		for _, transfer := range pendingTransfers {
			ledger.onTransfer(transfer)
		}
	}
}

func cloneBalances(balances map[shared.Identity]uint64) map[shared.Identity]uint64 {
	clone := make(map[shared.Identity]uint64, len(balances))
	for identity, balance := range balances {
		clone[identity] = balance
	}
	return clone
}

func cloneBytes(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	clone := make([]byte, len(data))
	copy(clone, data)
	return clone
}
