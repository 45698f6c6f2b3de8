package use_cases

import (
	"context"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/entities"
	apperrors "blaze/internal/shared_kernel/errors"
)

type submitContractCallUseCase struct {
	build     portsin.BuildContractCallUseCase
	signer    portsout.SignerRelayGateway
	publisher portsout.BalanceEventPublisher
	clock     Clock
	newID     IDGenerator
}

func NewSubmitContractCallUseCase(
	build portsin.BuildContractCallUseCase,
	signer portsout.SignerRelayGateway,
	publisher portsout.BalanceEventPublisher,
	clock Clock,
	newID IDGenerator,
) portsin.SubmitContractCallUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}
	if newID == nil {
		newID = NewUUIDGenerator()
	}
	return &submitContractCallUseCase{
		build:     build,
		signer:    signer,
		publisher: publisher,
		clock:     clock,
		newID:     newID,
	}
}

// Execute builds the descriptor, hands it to the signer and drives the action to a
// terminal state. A cancelled signature is a normal outcome, not an error.
func (u *submitContractCallUseCase) Execute(ctx context.Context, command dto.BuildContractCallCommand) (dto.SubmitContractCallOutput, *apperrors.AppError) {
	if u.build == nil || u.signer == nil {
		return dto.SubmitContractCallOutput{}, apperrors.NewInternal(
			"signer_relay_missing",
			"contract call builder and signer relay are required",
			nil,
		)
	}

	built, appErr := u.build.Execute(ctx, command)
	if appErr != nil {
		return dto.SubmitContractCallOutput{}, appErr
	}

	action := entities.NewAction(u.newID(), built.Operation, u.clock.NowUTC())
	descriptor := built.Descriptor
	descriptor.OnFinish = func(txID string) {
		u.announce(ctx, built, txID)
	}

	if appErr := action.Transition(entities.ActionStateAwaitingWalletApproval, u.clock.NowUTC()); appErr != nil {
		return dto.SubmitContractCallOutput{}, appErr
	}

	result, signErr := u.signer.SignContractCall(ctx, dto.SignContractCallInput{
		ActionID:   action.ID,
		Descriptor: descriptor,
	})
	if signErr != nil {
		_ = action.Fail(signErr.Message, u.clock.NowUTC())
		return dto.SubmitContractCallOutput{}, apperrors.NewUnavailable(
			"wallet_submission_failed",
			"signer relay did not complete the contract call",
			map[string]any{
				"action_id": action.ID,
				"state":     string(action.State),
				"cause":     signErr.Code,
			},
		)
	}

	switch result.Status {
	case dto.SignerStatusCancelled:
		if appErr := action.Transition(entities.ActionStateCancelled, u.clock.NowUTC()); appErr != nil {
			return dto.SubmitContractCallOutput{}, appErr
		}
		descriptor.Cancel()
	case dto.SignerStatusFinished:
		if result.TxID == "" {
			_ = action.Fail("signer finished without a transaction id", u.clock.NowUTC())
			return dto.SubmitContractCallOutput{}, apperrors.NewUnavailable(
				"wallet_submission_failed",
				"signer relay finished without a transaction id",
				map[string]any{"action_id": action.ID, "state": string(action.State)},
			)
		}
		if appErr := action.Transition(entities.ActionStateBroadcasting, u.clock.NowUTC()); appErr != nil {
			return dto.SubmitContractCallOutput{}, appErr
		}
		if appErr := action.Confirm(result.TxID, u.clock.NowUTC()); appErr != nil {
			return dto.SubmitContractCallOutput{}, appErr
		}
		descriptor.Finish(result.TxID)
	default:
		_ = action.Fail("unknown signer status", u.clock.NowUTC())
		return dto.SubmitContractCallOutput{}, apperrors.NewUnavailable(
			"wallet_submission_failed",
			"signer relay returned an unknown status",
			map[string]any{"action_id": action.ID, "state": string(action.State), "status": string(result.Status)},
		)
	}

	return dto.SubmitContractCallOutput{
		Action:     action,
		Descriptor: descriptor,
	}, nil
}

// announce publishes the optimistic balance change for subnet deposits and withdrawals.
func (u *submitContractCallUseCase) announce(ctx context.Context, built dto.ContractCallOutput, txID string) {
	if u.publisher == nil || built.Sender == "" {
		return
	}

	var eventType dto.BalanceEventType
	switch built.Operation {
	case OperationDeposit:
		eventType = dto.BalanceEventDeposit
	case OperationWithdraw:
		eventType = dto.BalanceEventWithdraw
	default:
		return
	}

	u.publisher.Publish(ctx, dto.BalanceEvent{
		Type:     eventType,
		Action:   built.Operation,
		Contract: built.Descriptor.ContractID(),
		Address:  built.Sender,
		Amount:   built.Amount,
		TxID:     txID,
		At:       u.clock.NowUTC(),
	})
}
