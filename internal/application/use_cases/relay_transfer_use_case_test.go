//go:build !integration

package use_cases

import (
	"context"
	"testing"
	"time"

	"blaze/internal/application/dto"
	"blaze/internal/domain/sip018"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
	"blaze/internal/shared_kernel/stackskeys"
)

const testSignerKey = "b244296d5907de9864c0b0d51f98a13c52890be0404e83f273144cd5b9960eed01"

type signedTransfer struct {
	from    string
	command dto.RelayTransferCommand
}

func signTestTransfer(t *testing.T, amount uint64, nonce uint64) signedTransfer {
	t.Helper()
	key, keyErr := stackskeys.ParsePrivateKey(testSignerKey)
	if keyErr != nil {
		t.Fatalf("expected test key to parse, got %v", keyErr)
	}
	address, keyErr := stackskeys.AddressFromPrivateKey(key, stackskeys.VersionMainnetSingleSig)
	if keyErr != nil {
		t.Fatalf("expected signer address, got %v", keyErr)
	}

	token, _ := valueobjects.ParsePrincipal("SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G.welshcorgicoin-token")
	to, _ := valueobjects.ParsePrincipal(testBob)
	message := sip018.TransferMessage{Token: token, To: to, Amount: valueobjects.BaseUnitsFromUint64(amount), Nonce: nonce}
	signature, appErr := sip018.SignTransfer(valueobjects.NetworkMainnet, message, key)
	if appErr != nil {
		t.Fatalf("expected signature, got %+v", appErr)
	}

	return signedTransfer{
		from: address.String(),
		command: dto.RelayTransferCommand{
			Signature: signature,
			From:      address.String(),
			Token:     "WELSH",
			To:        testBob,
			Amount:    dto.AmountInput(valueobjects.BaseUnitsFromUint64(amount).String()),
			Nonce:     nonce,
		},
	}
}

func newTestRelayUseCase(ledger *fakeLedger, publisher *fakePublisher) *relayTransferUseCase {
	clock := fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewRelayTransferUseCase(
		valueobjects.NetworkMainnet,
		mustRegistry(),
		ledger,
		publisher,
		clock,
		sequenceIDs("xfer"),
	).(*relayTransferUseCase)
}

func TestRelayTransferQueuesSignedTransfer(t *testing.T) {
	transfer := signTestTransfer(t, 250, 1)
	ledger := newFakeLedger()
	ledger.balances[ledgerKey(testWelshBlaze, transfer.from)] = valueobjects.BaseUnitsFromUint64(1000)
	publisher := &fakePublisher{}
	useCase := newTestRelayUseCase(ledger, publisher)

	output, appErr := useCase.Execute(context.Background(), transfer.command)
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if !output.Success || !output.Queued || output.QueueLength != 1 {
		t.Fatalf("expected queued transfer, got %+v", output)
	}
	if output.Balances.From.String() != "750" || output.Balances.To.String() != "250" {
		t.Fatalf("expected balances 750/250, got %+v", output.Balances)
	}
	if output.Contract != testWelshBlaze || output.Nonce != 1 {
		t.Fatalf("expected blaze contract and nonce 1, got %+v", output)
	}
	if len(ledger.queue) != 1 || ledger.queue[0].ID != "xfer-1" {
		t.Fatalf("expected one queued transfer, got %+v", ledger.queue)
	}

	events := publisher.published()
	if len(events) != 1 || events[0].Type != dto.BalanceEventTransfer || events[0].From != transfer.from || events[0].To != testBob {
		t.Fatalf("expected a transfer event, got %+v", events)
	}
}

func TestRelayTransferRejectsForgedSignature(t *testing.T) {
	transfer := signTestTransfer(t, 250, 1)
	transfer.command.Amount = "251"
	ledger := newFakeLedger()
	ledger.balances[ledgerKey(testWelshBlaze, transfer.from)] = valueobjects.BaseUnitsFromUint64(1000)
	publisher := &fakePublisher{}

	_, appErr := newTestRelayUseCase(ledger, publisher).Execute(context.Background(), transfer.command)
	if appErr == nil || appErr.Type != apperrors.TypeUnauthorized || appErr.Code != "invalid_signature" {
		t.Fatalf("expected invalid_signature, got %+v", appErr)
	}
	if len(ledger.queue) != 0 || len(publisher.published()) != 0 {
		t.Fatalf("expected nothing to be queued or published")
	}
}

func TestRelayTransferLedgerRejections(t *testing.T) {
	testCases := []struct {
		name     string
		balance  uint64
		nonce    uint64
		wantCode string
	}{
		{name: "insufficient balance", balance: 100, wantCode: "insufficient_balance"},
		{name: "replayed nonce", balance: 1000, nonce: 1, wantCode: "nonce_replayed"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			transfer := signTestTransfer(t, 250, 1)
			ledger := newFakeLedger()
			ledger.balances[ledgerKey(testWelshBlaze, transfer.from)] = valueobjects.BaseUnitsFromUint64(testCase.balance)
			ledger.nonces[ledgerKey(testWelshBlaze, transfer.from)] = testCase.nonce
			publisher := &fakePublisher{}

			_, appErr := newTestRelayUseCase(ledger, publisher).Execute(context.Background(), transfer.command)
			if appErr == nil || appErr.Code != testCase.wantCode {
				t.Fatalf("expected %s, got %+v", testCase.wantCode, appErr)
			}
			if len(publisher.published()) != 0 {
				t.Fatalf("expected no event on rejection")
			}
		})
	}
}

func TestRelayTransferValidatesPayload(t *testing.T) {
	transfer := signTestTransfer(t, 250, 1)
	testCases := []struct {
		name     string
		mutate   func(*dto.RelayTransferCommand)
		wantCode string
	}{
		{name: "unknown token", mutate: func(c *dto.RelayTransferCommand) { c.Token = "DOGE" }, wantCode: "token_not_found"},
		{name: "token without subnet", mutate: func(c *dto.RelayTransferCommand) { c.Token = "STX" }, wantCode: "unsupported_token"},
		{name: "contract sender", mutate: func(c *dto.RelayTransferCommand) { c.From = testWelshBlaze }, wantCode: "invalid_principal"},
		{name: "self transfer", mutate: func(c *dto.RelayTransferCommand) { c.To = c.From }, wantCode: "self_transfer"},
		{name: "decimal amount", mutate: func(c *dto.RelayTransferCommand) { c.Amount = "1.5" }, wantCode: "invalid_amount"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			command := transfer.command
			testCase.mutate(&command)

			_, appErr := newTestRelayUseCase(newFakeLedger(), &fakePublisher{}).Execute(context.Background(), command)
			if appErr == nil || appErr.Code != testCase.wantCode {
				t.Fatalf("expected %s, got %+v", testCase.wantCode, appErr)
			}
		})
	}
}
