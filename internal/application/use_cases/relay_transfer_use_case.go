package use_cases

import (
	"context"
	"strings"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/entities"
	"blaze/internal/domain/sip018"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

type relayTransferUseCase struct {
	network   valueobjects.Network
	registry  *entities.TokenRegistry
	ledger    portsout.LedgerRepository
	publisher portsout.BalanceEventPublisher
	clock     Clock
	newID     IDGenerator
}

func NewRelayTransferUseCase(
	network valueobjects.Network,
	registry *entities.TokenRegistry,
	ledger portsout.LedgerRepository,
	publisher portsout.BalanceEventPublisher,
	clock Clock,
	newID IDGenerator,
) portsin.RelayTransferUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}
	if newID == nil {
		newID = NewUUIDGenerator()
	}
	return &relayTransferUseCase{
		network:   network,
		registry:  registry,
		ledger:    ledger,
		publisher: publisher,
		clock:     clock,
		newID:     newID,
	}
}

func (u *relayTransferUseCase) Execute(ctx context.Context, command dto.RelayTransferCommand) (dto.RelayTransferOutput, *apperrors.AppError) {
	if u.ledger == nil {
		return dto.RelayTransferOutput{}, apperrors.NewInternal(
			"ledger_repository_missing",
			"ledger repository is required",
			nil,
		)
	}

	token, contract, appErr := resolveBlazeToken(u.registry, command.Token)
	if appErr != nil {
		return dto.RelayTransferOutput{}, appErr
	}
	from, appErr := valueobjects.ParseStandardPrincipal(command.From)
	if appErr != nil {
		appErr.Details = withField(appErr.Details, "from")
		return dto.RelayTransferOutput{}, appErr
	}
	to, appErr := parseHolder(command.To, "to")
	if appErr != nil {
		return dto.RelayTransferOutput{}, appErr
	}
	if from.String() == to.String() {
		return dto.RelayTransferOutput{}, apperrors.NewValidation(
			"self_transfer",
			"sender and recipient must differ",
			map[string]any{"field": "to"},
		)
	}
	amount, appErr := valueobjects.ParseBaseUnits(string(command.Amount))
	if appErr != nil {
		appErr.Details = withField(appErr.Details, "amount")
		return dto.RelayTransferOutput{}, appErr
	}

	signature := strings.TrimPrefix(strings.TrimSpace(command.Signature), "0x")
	message := sip018.TransferMessage{
		Token:  token.Contract,
		To:     to,
		Amount: amount,
		Nonce:  command.Nonce,
	}
	if appErr := sip018.VerifyTransfer(u.network, message, signature, from); appErr != nil {
		return dto.RelayTransferOutput{}, appErr
	}

	transfer, appErr := entities.NewQueuedTransfer(entities.NewQueuedTransferInput{
		ID:        u.newID(),
		Token:     token.ContractID(),
		Contract:  contract.String(),
		From:      from.String(),
		To:        to.String(),
		Amount:    amount,
		Nonce:     command.Nonce,
		Signature: signature,
		CreatedAt: u.clock.NowUTC(),
	})
	if appErr != nil {
		return dto.RelayTransferOutput{}, appErr
	}

	applied, appErr := u.ledger.ApplyTransfer(ctx, transfer)
	if appErr != nil {
		return dto.RelayTransferOutput{}, appErr
	}

	if u.publisher != nil {
		nonce := applied.Nonce
		u.publisher.Publish(ctx, dto.BalanceEvent{
			Type:     dto.BalanceEventTransfer,
			Action:   OperationTransfer,
			Contract: transfer.Contract,
			From:     transfer.From,
			To:       transfer.To,
			Amount:   transfer.Amount,
			Nonce:    &nonce,
			At:       transfer.CreatedAt,
		})
	}

	return dto.RelayTransferOutput{
		Success:     true,
		Queued:      true,
		QueueLength: applied.QueueLength,
		Contract:    transfer.Contract,
		Token:       transfer.Token,
		Nonce:       applied.Nonce,
		Balances: dto.TransferBalances{
			From: applied.FromBalance,
			To:   applied.ToBalance,
		},
	}, nil
}
