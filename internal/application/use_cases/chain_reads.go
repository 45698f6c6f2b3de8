package use_cases

import (
	"context"
	"log"

	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/clarity"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

const (
	readOnlyGetBalance      = "get-balance"
	readOnlyGetNonce        = "get-nonce"
	readOnlyGetExchangeRate = "get-exchange-rate"
)

// readOnlyUint calls a read-only function whose result is a uint or (ok uint).
func readOnlyUint(
	ctx context.Context,
	reader portsout.ChainReadOnlyGateway,
	contract valueobjects.Principal,
	functionName string,
	sender valueobjects.Principal,
	args []clarity.Value,
) (valueobjects.BaseUnits, *apperrors.AppError) {
	if reader == nil {
		return valueobjects.BaseUnits{}, apperrors.NewInternal(
			"chain_reader_missing",
			"chain read-only gateway is required",
			nil,
		)
	}

	value, appErr := reader.CallReadOnly(ctx, contract, functionName, sender, args)
	if appErr != nil {
		return valueobjects.BaseUnits{}, appErr
	}

	raw, err := clarity.ExpectUInt(value)
	if err != nil {
		return valueobjects.BaseUnits{}, apperrors.NewUnavailable(
			"unexpected_read_only_result",
			"read-only call returned an unexpected value",
			map[string]any{
				"contract": contract.String(),
				"function": functionName,
				"error":    err.Error(),
			},
		)
	}
	return valueobjects.NewBaseUnits(raw)
}

// fetchBalance never fails: a failed read is reported as zero with degraded set.
func fetchBalance(
	ctx context.Context,
	reader portsout.ChainReadOnlyGateway,
	logger *log.Logger,
	contract valueobjects.Principal,
	holder valueobjects.Principal,
) (valueobjects.BaseUnits, bool) {
	balance, appErr := readOnlyUint(ctx, reader, contract, readOnlyGetBalance, holder, []clarity.Value{clarity.PrincipalValue(holder)})
	if appErr != nil {
		if logger != nil {
			logger.Printf("balance fetch failed contract=%s address=%s code=%s message=%s", contract.String(), holder.String(), appErr.Code, appErr.Message)
		}
		return valueobjects.BaseUnits{}, true
	}
	return balance, false
}

// fetchNonce returns the gateway error unchanged.
func fetchNonce(
	ctx context.Context,
	reader portsout.ChainReadOnlyGateway,
	contract valueobjects.Principal,
	holder valueobjects.Principal,
) (uint64, *apperrors.AppError) {
	nonce, appErr := readOnlyUint(ctx, reader, contract, readOnlyGetNonce, holder, []clarity.Value{clarity.PrincipalValue(holder)})
	if appErr != nil {
		return 0, appErr
	}
	if !nonce.BigInt().IsUint64() {
		return 0, apperrors.NewUnavailable(
			"unexpected_read_only_result",
			"nonce does not fit in 64 bits",
			map[string]any{"contract": contract.String(), "nonce": nonce.String()},
		)
	}
	return nonce.BigInt().Uint64(), nil
}

func fetchExchangeRate(
	ctx context.Context,
	reader portsout.ChainReadOnlyGateway,
	stakingContract valueobjects.Principal,
	sender valueobjects.Principal,
) (valueobjects.ExchangeRate, *apperrors.AppError) {
	raw, appErr := readOnlyUint(ctx, reader, stakingContract, readOnlyGetExchangeRate, sender, nil)
	if appErr != nil {
		return valueobjects.ExchangeRate{}, appErr
	}
	return valueobjects.ExchangeRateFromFixedPoint(raw)
}

func resolveBlazeToken(registry *entities.TokenRegistry, reference string) (entities.Token, valueobjects.Principal, *apperrors.AppError) {
	if registry == nil {
		return entities.Token{}, valueobjects.Principal{}, apperrors.NewInternal(
			"token_registry_missing",
			"token registry is required",
			nil,
		)
	}

	token, appErr := registry.Resolve(reference)
	if appErr != nil {
		return entities.Token{}, valueobjects.Principal{}, appErr
	}
	if token.BlazeContract == nil {
		return entities.Token{}, valueobjects.Principal{}, apperrors.NewValidation(
			"unsupported_token",
			"token has no blaze subnet contract",
			map[string]any{"token": token.Symbol()},
		)
	}
	return token, *token.BlazeContract, nil
}

func parseHolder(raw, field string) (valueobjects.Principal, *apperrors.AppError) {
	holder, appErr := valueobjects.ParsePrincipal(raw)
	if appErr != nil {
		appErr.Details = withField(appErr.Details, field)
		return valueobjects.Principal{}, appErr
	}
	return holder, nil
}

func withField(details map[string]any, field string) map[string]any {
	out := make(map[string]any, len(details)+1)
	for key, value := range details {
		out[key] = value
	}
	out["field"] = field
	return out
}
