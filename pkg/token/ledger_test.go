package token

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Ravi280797/standards-implementations/pkg/directory"
	"github.com/Ravi280797/standards-implementations/pkg/shared"
)

func testIdentity(last byte) shared.Identity {
	var identity shared.Identity
	identity[shared.IdentityLength-1] = last
	return identity
}

type funcReceiver func(ctx context.Context, tag directory.InterfaceTag, payload []byte) ([AckLength]byte, error)

func (receive funcReceiver) ReceiveNotification(
	ctx context.Context,
	tag directory.InterfaceTag,
	payload []byte,
) ([AckLength]byte, error) {
	return receive(ctx, tag, payload)
}

func ackReceiver(ack byte) funcReceiver {
	return func(context.Context, directory.InterfaceTag, []byte) ([AckLength]byte, error) {
		var acknowledgement [AckLength]byte
		acknowledgement[0] = ack
		return acknowledgement, nil
	}
}

type ledgerFixture struct {
	directory *directory.MemoryDirectory
	receivers ReceiverMap
	managed   ManagedSet
	ledger    *Ledger
}

func newLedgerFixture(t *testing.T, operators ...shared.Identity) *ledgerFixture {
	t.Helper()

	memory := directory.NewMemoryDirectory()
	client, err := directory.NewClient(memory)
	if err != nil {
		t.Fatalf("unexpected directory client error: %v", err)
	}

	receivers := ReceiverMap{}
	managed := ManagedSet{}
	ledger, err := NewLedger(LedgerConfig{
		Directory:        client,
		Receivers:        receivers,
		Inspector:        managed,
		DefaultOperators: operators,
	})
	if err != nil {
		t.Fatalf("unexpected ledger error: %v", err)
	}

	return &ledgerFixture{
		directory: memory,
		receivers: receivers,
		managed:   managed,
		ledger:    ledger,
	}
}

func checkConservation(t *testing.T, ledger *Ledger) {
	t.Helper()

	var sum uint64
	for _, balance := range ledger.Balances() {
		sum += balance
	}
	if sum != ledger.TotalSupply() {
		t.Fatalf("conservation violated: balances sum to %d, supply is %d", sum, ledger.TotalSupply())
	}
}

func TestMintByOperator(t *testing.T) {
	operator := testIdentity(1)
	fixture := newLedgerFixture(t, operator)
	ctx := context.Background()

	if err := fixture.ledger.Mint(ctx, operator, 1000, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	if got := fixture.ledger.BalanceOf(operator); got != 1000 {
		t.Fatalf("expected balance 1000, got %d", got)
	}
	if got := fixture.ledger.TotalSupply(); got != 1000 {
		t.Fatalf("expected supply 1000, got %d", got)
	}

	transfers := fixture.ledger.Transfers()
	if len(transfers) != 1 {
		t.Fatalf("expected one transfer event, got %d", len(transfers))
	}
	if !transfers[0].From.IsZero() || transfers[0].To != operator || transfers[0].Amount != 1000 {
		t.Fatalf("unexpected mint event: %+v", transfers[0])
	}
	checkConservation(t, fixture.ledger)
}

func TestMintByNonOperatorUnauthorized(t *testing.T) {
	operator := testIdentity(1)
	outsider := testIdentity(9)
	fixture := newLedgerFixture(t, operator)

	err := fixture.ledger.Mint(context.Background(), outsider, 50, nil, nil)
	var unauthorized UnauthorizedError
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if unauthorized.Caller != outsider {
		t.Fatalf("expected caller %s, got %s", outsider, unauthorized.Caller)
	}

	if fixture.ledger.TotalSupply() != 0 || fixture.ledger.BalanceOf(outsider) != 0 {
		t.Fatal("failed mint must not change state")
	}
	if len(fixture.ledger.Transfers()) != 0 {
		t.Fatal("failed mint must not emit events")
	}
}

func TestMintSupplyOverflowFailsLoudly(t *testing.T) {
	operator := testIdentity(1)
	fixture := newLedgerFixture(t, operator)
	ctx := context.Background()

	if err := fixture.ledger.Mint(ctx, operator, math.MaxUint64, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	err := fixture.ledger.Mint(ctx, operator, 1, nil, nil)
	var overflow OverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}
	if fixture.ledger.TotalSupply() != math.MaxUint64 {
		t.Fatal("overflowing mint must not change supply")
	}
	checkConservation(t, fixture.ledger)
}

func TestTransferToPlainIdentityWithEnforcement(t *testing.T) {
	operator := testIdentity(1)
	plain := testIdentity(2)
	fixture := newLedgerFixture(t, operator)
	ctx := context.Background()

	if err := fixture.ledger.Mint(ctx, operator, 1000, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	err := fixture.ledger.Transfer(ctx, TransferParams{
		Operator:            operator,
		From:                operator,
		To:                  plain,
		Amount:              400,
		EnforceRecipientAck: true,
	})
	if err != nil {
		t.Fatalf("unexpected transfer error: %v", err)
	}

	if got := fixture.ledger.BalanceOf(operator); got != 600 {
		t.Fatalf("expected sender balance 600, got %d", got)
	}
	if got := fixture.ledger.BalanceOf(plain); got != 400 {
		t.Fatalf("expected recipient balance 400, got %d", got)
	}
	checkConservation(t, fixture.ledger)
}

func TestTransferToManagedRecipientWithoutHookFails(t *testing.T) {
	operator := testIdentity(1)
	managed := testIdentity(3)
	fixture := newLedgerFixture(t, operator)
	fixture.managed[managed] = true
	ctx := context.Background()

	if err := fixture.ledger.Mint(ctx, operator, 1000, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	err := fixture.ledger.Transfer(ctx, TransferParams{
		Operator:            operator,
		From:                operator,
		To:                  managed,
		Amount:              400,
		EnforceRecipientAck: true,
	})
	var unacknowledged UnacknowledgedRecipientError
	if !errors.As(err, &unacknowledged) {
		t.Fatalf("expected unacknowledged recipient error, got %v", err)
	}

	if got := fixture.ledger.BalanceOf(operator); got != 1000 {
		t.Fatalf("expected sender balance restored to 1000, got %d", got)
	}
	if got := fixture.ledger.BalanceOf(managed); got != 0 {
		t.Fatalf("expected recipient balance 0, got %d", got)
	}
	checkConservation(t, fixture.ledger)
}

func TestTransferToManagedRecipientWithoutEnforcementSucceeds(t *testing.T) {
	operator := testIdentity(1)
	managed := testIdentity(3)
	fixture := newLedgerFixture(t, operator)
	fixture.managed[managed] = true
	ctx := context.Background()

	if err := fixture.ledger.Mint(ctx, operator, 1000, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	if err := fixture.ledger.Transfer(ctx, TransferParams{
		Operator: operator,
		From:     operator,
		To:       managed,
		Amount:   400,
	}); err != nil {
		t.Fatalf("unexpected transfer error: %v", err)
	}
	if got := fixture.ledger.BalanceOf(managed); got != 400 {
		t.Fatalf("expected recipient balance 400, got %d", got)
	}
}

func TestTransferToManagedRecipientWithHookSucceeds(t *testing.T) {
	operator := testIdentity(1)
	managed := testIdentity(3)
	implementer := testIdentity(4)
	fixture := newLedgerFixture(t, operator)
	fixture.managed[managed] = true
	fixture.receivers[implementer] = ackReceiver(0x42)
	ctx := context.Background()

	if err := fixture.directory.Register(managed, directory.TagTokensRecipient, implementer); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if err := fixture.ledger.Mint(ctx, operator, 1000, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	if err := fixture.ledger.Transfer(ctx, TransferParams{
		Operator:            operator,
		From:                operator,
		To:                  managed,
		Amount:              400,
		UserData:            []byte("payment"),
		EnforceRecipientAck: true,
	}); err != nil {
		t.Fatalf("unexpected transfer error: %v", err)
	}

	notifications := fixture.ledger.Notifications()
	if len(notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifications))
	}
	notification := notifications[0]
	if notification.Subject != managed || notification.Implementer != implementer {
		t.Fatalf("unexpected notification parties: %+v", notification)
	}
	if notification.Tag != directory.TagTokensRecipient {
		t.Fatalf("unexpected notification tag: %s", notification.Tag)
	}
	if notification.Ack[0] != 0x42 {
		t.Fatalf("unexpected acknowledgement: %x", notification.Ack)
	}

	decoded, err := DecodeHookPayload(notification.Payload)
	if err != nil {
		t.Fatalf("unexpected payload decode error: %v", err)
	}
	if decoded.From != operator || decoded.To != managed || decoded.Amount != 400 {
		t.Fatalf("unexpected payload contents: %+v", decoded)
	}
	if string(decoded.UserData) != "payment" {
		t.Fatalf("unexpected user data: %q", decoded.UserData)
	}
}

func TestTransferInsufficientBalance(t *testing.T) {
	operator := testIdentity(1)
	recipient := testIdentity(2)
	fixture := newLedgerFixture(t, operator)
	ctx := context.Background()

	if err := fixture.ledger.Mint(ctx, operator, 100, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	err := fixture.ledger.Transfer(ctx, TransferParams{
		Operator: operator,
		From:     operator,
		To:       recipient,
		Amount:   101,
	})
	var insufficient InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
	if insufficient.Requested != 101 || insufficient.Available != 100 {
		t.Fatalf("unexpected error detail: %+v", insufficient)
	}
	if fixture.ledger.BalanceOf(operator) != 100 {
		t.Fatal("failed transfer must not change balances")
	}
}

func TestTransferRejectsZeroIdentities(t *testing.T) {
	operator := testIdentity(1)
	fixture := newLedgerFixture(t, operator)
	ctx := context.Background()

	cases := []TransferParams{
		{Operator: shared.ZeroIdentity, From: operator, To: testIdentity(2), Amount: 1},
		{Operator: operator, From: shared.ZeroIdentity, To: testIdentity(2), Amount: 1},
		{Operator: operator, From: operator, To: shared.ZeroIdentity, Amount: 1},
	}
	for _, params := range cases {
		err := fixture.ledger.Transfer(ctx, params)
		var malformed MalformedInputError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected malformed input error, got %v", err)
		}
	}
}

func TestSenderHookFailureAbortsBeforeDebit(t *testing.T) {
	operator := testIdentity(1)
	recipient := testIdentity(2)
	implementer := testIdentity(4)
	fixture := newLedgerFixture(t, operator)
	fixture.receivers[implementer] = funcReceiver(func(context.Context, directory.InterfaceTag, []byte) ([AckLength]byte, error) {
		return [AckLength]byte{}, errors.New("sender hook rejected transfer")
	})
	ctx := context.Background()

	if err := fixture.directory.Register(operator, directory.TagTokensSender, implementer); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if err := fixture.ledger.Mint(ctx, operator, 500, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	err := fixture.ledger.Transfer(ctx, TransferParams{
		Operator: operator,
		From:     operator,
		To:       recipient,
		Amount:   100,
	})
	var hookFailure HookInvocationError
	if !errors.As(err, &hookFailure) {
		t.Fatalf("expected hook invocation error, got %v", err)
	}
	if hookFailure.Tag != directory.TagTokensSender {
		t.Fatalf("expected sender tag, got %s", hookFailure.Tag)
	}

	if fixture.ledger.BalanceOf(operator) != 500 || fixture.ledger.BalanceOf(recipient) != 0 {
		t.Fatal("failed transfer must not change balances")
	}
	checkConservation(t, fixture.ledger)
}

func TestRecipientHookFailureRollsBackMovement(t *testing.T) {
	operator := testIdentity(1)
	recipient := testIdentity(2)
	implementer := testIdentity(4)
	fixture := newLedgerFixture(t, operator)
	fixture.receivers[implementer] = funcReceiver(func(context.Context, directory.InterfaceTag, []byte) ([AckLength]byte, error) {
		return [AckLength]byte{}, errors.New("recipient hook rejected transfer")
	})
	ctx := context.Background()

	if err := fixture.directory.Register(recipient, directory.TagTokensRecipient, implementer); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if err := fixture.ledger.Mint(ctx, operator, 500, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	err := fixture.ledger.Transfer(ctx, TransferParams{
		Operator: operator,
		From:     operator,
		To:       recipient,
		Amount:   100,
	})
	var hookFailure HookInvocationError
	if !errors.As(err, &hookFailure) {
		t.Fatalf("expected hook invocation error, got %v", err)
	}

	if fixture.ledger.BalanceOf(operator) != 500 || fixture.ledger.BalanceOf(recipient) != 0 {
		t.Fatal("rolled-back transfer must restore balances")
	}
	if len(fixture.ledger.Transfers()) != 1 {
		t.Fatal("rolled-back transfer must not append to the journal")
	}
	checkConservation(t, fixture.ledger)
}

func TestUnreachableImplementerFailsClosed(t *testing.T) {
	operator := testIdentity(1)
	recipient := testIdentity(2)
	ghost := testIdentity(7)
	fixture := newLedgerFixture(t, operator)
	ctx := context.Background()

	// Registered in the directory, but no live receiver answers for it.
	if err := fixture.directory.Register(recipient, directory.TagTokensRecipient, ghost); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if err := fixture.ledger.Mint(ctx, operator, 500, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}

	err := fixture.ledger.Transfer(ctx, TransferParams{
		Operator: operator,
		From:     operator,
		To:       recipient,
		Amount:   100,
	})
	var hookFailure HookInvocationError
	if !errors.As(err, &hookFailure) {
		t.Fatalf("expected hook invocation error, got %v", err)
	}
	if hookFailure.Implementer != ghost {
		t.Fatalf("expected implementer %s, got %s", ghost, hookFailure.Implementer)
	}
	if fixture.ledger.BalanceOf(operator) != 500 {
		t.Fatal("failed transfer must not change balances")
	}
}

func TestConservationAcrossOperationSequence(t *testing.T) {
	operator := testIdentity(1)
	second := testIdentity(2)
	third := testIdentity(3)
	fixture := newLedgerFixture(t, operator)
	ctx := context.Background()

	steps := []func() error{
		func() error { return fixture.ledger.Mint(ctx, operator, 1000, nil, nil) },
		func() error {
			return fixture.ledger.Transfer(ctx, TransferParams{Operator: operator, From: operator, To: second, Amount: 300})
		},
		func() error {
			return fixture.ledger.Transfer(ctx, TransferParams{Operator: second, From: second, To: third, Amount: 120})
		},
		func() error { return fixture.ledger.Mint(ctx, operator, 7, nil, nil) },
		func() error {
			// Fails: second only holds 180.
			return fixture.ledger.Transfer(ctx, TransferParams{Operator: second, From: second, To: third, Amount: 500})
		},
		func() error { return fixture.ledger.Mint(ctx, third, 5, nil, nil) }, // fails: not an operator
		func() error {
			return fixture.ledger.Transfer(ctx, TransferParams{Operator: third, From: third, To: operator, Amount: 120})
		},
	}

	for _, step := range steps {
		_ = step()
		checkConservation(t, fixture.ledger)
	}

	if got := fixture.ledger.TotalSupply(); got != 1007 {
		t.Fatalf("expected supply 1007, got %d", got)
	}
	if got := fixture.ledger.BalanceOf(operator); got != 827 {
		t.Fatalf("expected operator balance 827, got %d", got)
	}
}

func TestCallbacksFireOnSuccessOnly(t *testing.T) {
	operator := testIdentity(1)
	recipient := testIdentity(2)
	implementer := testIdentity(4)

	memory := directory.NewMemoryDirectory()
	client, err := directory.NewClient(memory)
	if err != nil {
		t.Fatalf("unexpected directory client error: %v", err)
	}

	var transferEvents []TransferEvent
	var notificationEvents []ReceiverNotification
	ledger, err := NewLedger(LedgerConfig{
		Directory:        client,
		Receivers:        ReceiverMap{implementer: ackReceiver(0x01)},
		DefaultOperators: []shared.Identity{operator},
		TransferCallback: func(event TransferEvent) {
			transferEvents = append(transferEvents, event)
		},
		NotificationCallback: func(notification ReceiverNotification) {
			notificationEvents = append(notificationEvents, notification)
		},
	})
	if err != nil {
		t.Fatalf("unexpected ledger error: %v", err)
	}

	ctx := context.Background()
	if err := memory.Register(recipient, directory.TagTokensRecipient, implementer); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if err := ledger.Mint(ctx, operator, 100, nil, nil); err != nil {
		t.Fatalf("unexpected mint error: %v", err)
	}
	if err := ledger.Transfer(ctx, TransferParams{Operator: operator, From: operator, To: recipient, Amount: 40}); err != nil {
		t.Fatalf("unexpected transfer error: %v", err)
	}
	if transferErr := ledger.Transfer(ctx, TransferParams{Operator: operator, From: operator, To: recipient, Amount: 9999}); transferErr == nil {
		t.Fatal("expected transfer failure")
	}

	if len(transferEvents) != 2 {
		t.Fatalf("expected two transfer callbacks (mint and transfer), got %d", len(transferEvents))
	}
	if len(notificationEvents) != 1 {
		t.Fatalf("expected one notification callback, got %d", len(notificationEvents))
	}
	if transferEvents[1].Amount != 40 {
		t.Fatalf("unexpected transfer callback payload: %+v", transferEvents[1])
	}
}

func TestMintRejectsZeroCaller(t *testing.T) {
	fixture := newLedgerFixture(t, testIdentity(1))
	err := fixture.ledger.Mint(context.Background(), shared.ZeroIdentity, 1, nil, nil)
	var malformed MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected malformed input error, got %v", err)
	}
}

func TestNewLedgerValidation(t *testing.T) {
	if _, err := NewLedger(LedgerConfig{}); err == nil {
		t.Fatal("expected error for missing directory client")
	}

	client, err := directory.NewClient(directory.NewMemoryDirectory())
	if err != nil {
		t.Fatalf("unexpected directory client error: %v", err)
	}
	if _, err := NewLedger(LedgerConfig{
		Directory:        client,
		DefaultOperators: []shared.Identity{shared.ZeroIdentity},
	}); err == nil {
		t.Fatal("expected error for zero default operator")
	}
}
