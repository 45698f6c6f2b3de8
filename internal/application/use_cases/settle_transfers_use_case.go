package use_cases

import (
	"context"
	"encoding/hex"
	"log"
	"sort"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/contractcall"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

type settleTransfersUseCase struct {
	builder contractcall.Builder
	ledger  portsout.LedgerRepository
	signer  portsout.SignerRelayGateway
	clock   Clock
	newID   IDGenerator
	logger  *log.Logger
}

func NewSettleTransfersUseCase(
	builder contractcall.Builder,
	ledger portsout.LedgerRepository,
	signer portsout.SignerRelayGateway,
	clock Clock,
	newID IDGenerator,
	logger *log.Logger,
) portsin.SettleTransfersUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}
	if newID == nil {
		newID = NewUUIDGenerator()
	}
	if logger == nil {
		logger = log.New(log.Writer(), "", log.LstdFlags)
	}
	return &settleTransfersUseCase{
		builder: builder,
		ledger:  ledger,
		signer:  signer,
		clock:   clock,
		newID:   newID,
		logger:  logger,
	}
}

// Execute submits one batch per contract whose queue has reached the batch size. A
// failed or cancelled batch stays queued for the next cycle.
func (u *settleTransfersUseCase) Execute(ctx context.Context, command dto.SettleTransfersCommand) (dto.SettleTransfersOutput, *apperrors.AppError) {
	if u.ledger == nil || u.signer == nil {
		return dto.SettleTransfersOutput{}, apperrors.NewInternal(
			"settlement_dependencies_missing",
			"ledger repository and signer relay are required",
			nil,
		)
	}
	if command.BatchSize <= 0 {
		return dto.SettleTransfersOutput{}, apperrors.NewValidation(
			"settle_batch_size_invalid",
			"settlement batch size must be greater than zero",
			map[string]any{"batch_size": command.BatchSize},
		)
	}

	lengths, appErr := u.ledger.QueueLengths(ctx)
	if appErr != nil {
		return dto.SettleTransfersOutput{}, appErr
	}

	contracts := make([]string, 0, len(lengths))
	for contract, length := range lengths {
		if length >= command.BatchSize {
			contracts = append(contracts, contract)
		}
	}
	sort.Strings(contracts)

	output := dto.SettleTransfersOutput{}
	for _, contract := range contracts {
		if err := ctx.Err(); err != nil {
			return output, nil
		}

		settled, batchErr := u.settleContract(ctx, contract, command.BatchSize)
		if batchErr != nil {
			output.BatchesFailed++
			txID, _ := batchErr.Details["tx_id"].(string)
			u.logger.Printf(
				"settlement batch failed contract=%s code=%s message=%s tx_id=%s",
				contract,
				batchErr.Code,
				batchErr.Message,
				txID,
			)
			continue
		}
		if settled > 0 {
			output.BatchesSubmitted++
			output.TransfersSettled += settled
		}
	}

	return output, nil
}

func (u *settleTransfersUseCase) settleContract(ctx context.Context, contract string, batchSize int) (int, *apperrors.AppError) {
	transfers, appErr := u.ledger.ListQueued(ctx, contract, batchSize)
	if appErr != nil {
		return 0, appErr
	}
	if len(transfers) == 0 {
		return 0, nil
	}

	target, appErr := valueobjects.ParseContractPrincipal(contract)
	if appErr != nil {
		return 0, appErr
	}
	entries, appErr := batchEntries(transfers)
	if appErr != nil {
		return 0, appErr
	}

	descriptor, appErr := u.builder.BatchTransfer(target, entries)
	if appErr != nil {
		return 0, appErr
	}

	var settleErr *apperrors.AppError
	descriptor.OnFinish = func(txID string) {
		ids := make([]string, 0, len(transfers))
		for _, transfer := range transfers {
			ids = append(ids, transfer.ID)
		}
		settleErr = u.ledger.MarkSettled(ctx, ids, txID, u.clock.NowUTC())
	}

	result, appErr := u.signer.SignContractCall(ctx, dto.SignContractCallInput{
		ActionID:   u.newID(),
		Descriptor: descriptor,
	})
	if appErr != nil {
		return 0, appErr
	}

	switch result.Status {
	case dto.SignerStatusFinished:
		if result.TxID == "" {
			return 0, apperrors.NewUnavailable(
				"wallet_submission_failed",
				"signer relay finished without a transaction id",
				map[string]any{"contract": contract},
			)
		}
		descriptor.Finish(result.TxID)
		if settleErr != nil {
			// The batch is on chain but still queued; the tx id is needed to reconcile it.
			details := map[string]any{"contract": contract, "tx_id": result.TxID}
			for key, value := range settleErr.Details {
				details[key] = value
			}
			return 0, &apperrors.AppError{
				Type:    settleErr.Type,
				Code:    settleErr.Code,
				Message: settleErr.Message,
				Details: details,
			}
		}
		u.logger.Printf("settlement batch submitted contract=%s transfers=%d tx_id=%s", contract, len(transfers), result.TxID)
		return len(transfers), nil
	case dto.SignerStatusCancelled:
		return 0, apperrors.NewConflict(
			"settlement_cancelled",
			"signer cancelled the settlement batch",
			map[string]any{"contract": contract},
		)
	default:
		return 0, apperrors.NewUnavailable(
			"wallet_submission_failed",
			"signer relay returned an unknown status",
			map[string]any{"contract": contract, "status": string(result.Status)},
		)
	}
}

func batchEntries(transfers []entities.QueuedTransfer) ([]contractcall.BatchEntry, *apperrors.AppError) {
	entries := make([]contractcall.BatchEntry, 0, len(transfers))
	for _, transfer := range transfers {
		to, appErr := valueobjects.ParsePrincipal(transfer.To)
		if appErr != nil {
			return nil, appErr
		}
		signature, err := hex.DecodeString(transfer.Signature)
		if err != nil {
			return nil, apperrors.NewInternal(
				"queued_transfer_signature_invalid",
				"queued transfer signature is not hex",
				map[string]any{"transfer_id": transfer.ID},
			)
		}
		entries = append(entries, contractcall.BatchEntry{
			To:        to,
			Amount:    transfer.Amount,
			Nonce:     transfer.Nonce,
			Signature: signature,
		})
	}
	return entries, nil
}
