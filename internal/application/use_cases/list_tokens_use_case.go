package use_cases

import (
	"context"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	"blaze/internal/domain/entities"
	apperrors "blaze/internal/shared_kernel/errors"
)

type listTokensUseCase struct {
	registry *entities.TokenRegistry
}

func NewListTokensUseCase(registry *entities.TokenRegistry) portsin.ListTokensUseCase {
	return &listTokensUseCase{registry: registry}
}

func (u *listTokensUseCase) Execute(_ context.Context, _ dto.ListTokensQuery) (dto.ListTokensOutput, *apperrors.AppError) {
	if u.registry == nil {
		return dto.ListTokensOutput{}, apperrors.NewInternal(
			"token_registry_missing",
			"token registry is required",
			nil,
		)
	}

	tokens := u.registry.All()
	views := make([]dto.TokenView, 0, len(tokens))
	for _, token := range tokens {
		view := dto.TokenView{
			Symbol:     token.Symbol(),
			Name:       token.Definition.Name,
			Icon:       token.Definition.Icon,
			ContractID: token.ContractID(),
			Decimals:   token.Decimals(),
			MaxDeposit: token.Definition.MaxDeposit,
			IsSTX:      token.Definition.IsSTX,
			BaseSymbol: token.Definition.BaseSymbol,
		}
		if !token.Definition.IsSTX {
			view.Identifier = token.Asset().Identifier.String()
		}
		if token.BlazeContract != nil {
			view.BlazeContract = token.BlazeContract.String()
		}
		views = append(views, view)
	}

	return dto.ListTokensOutput{Tokens: views}, nil
}
