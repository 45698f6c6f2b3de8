package use_cases

import (
	"context"

	"blaze/internal/application/dto"
	portsin "blaze/internal/application/ports/in"
	"blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

type getHealthUseCase struct{}

func NewGetHealthUseCase() portsin.GetHealthUseCase {
	return &getHealthUseCase{}
}

func (u *getHealthUseCase) Execute(_ context.Context, _ dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError) {
	status := valueobjects.NewHealthyStatus()

	return dto.HealthOutput{
		Status: status.String(),
	}, nil
}
