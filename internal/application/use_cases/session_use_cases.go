package use_cases

import (
	"context"
	"strings"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	"blaze/internal/application/state"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

type getSessionUseCase struct {
	store *state.Store
}

func NewGetSessionUseCase(store *state.Store) portsin.GetSessionUseCase {
	return &getSessionUseCase{store: store}
}

func (u *getSessionUseCase) Execute(_ context.Context, _ dto.GetSessionQuery) (dto.SessionOutput, *apperrors.AppError) {
	if u.store == nil {
		return dto.SessionOutput{}, storeMissing()
	}
	return sessionOutput(u.store), nil
}

type updateSessionUseCase struct {
	store *state.Store
}

func NewUpdateSessionUseCase(store *state.Store) portsin.UpdateSessionUseCase {
	return &updateSessionUseCase{store: store}
}

// Execute validates every field before mutating anything.
func (u *updateSessionUseCase) Execute(_ context.Context, command dto.UpdateSessionCommand) (dto.SessionOutput, *apperrors.AppError) {
	if u.store == nil {
		return dto.SessionOutput{}, storeMissing()
	}

	var address string
	if command.Address != nil && strings.TrimSpace(*command.Address) != "" {
		principal, appErr := valueobjects.ParseStandardPrincipal(*command.Address)
		if appErr != nil {
			appErr.Details = withField(appErr.Details, "address")
			return dto.SessionOutput{}, appErr
		}
		if !u.store.Session().Network.Accepts(principal) {
			return dto.SessionOutput{}, apperrors.NewValidation(
				"network_mismatch",
				"address does not belong to the configured network",
				map[string]any{"field": "address", "network": u.store.Session().Network.String()},
			)
		}
		address = principal.String()
	}

	if command.SlippageBps != nil {
		if appErr := u.store.SetSwapSettings(state.SwapSettings{SlippageBps: *command.SlippageBps}); appErr != nil {
			return dto.SessionOutput{}, appErr
		}
	}
	if command.Address != nil {
		u.store.SetSessionAddress(address)
	}

	return sessionOutput(u.store), nil
}

func sessionOutput(store *state.Store) dto.SessionOutput {
	session := store.Session()
	return dto.SessionOutput{
		Address:     session.Address,
		Network:     session.Network.String(),
		SlippageBps: store.SwapSettings().SlippageBps,
	}
}

func storeMissing() *apperrors.AppError {
	return apperrors.NewInternal(
		"state_store_missing",
		"application state store is required",
		nil,
	)
}
