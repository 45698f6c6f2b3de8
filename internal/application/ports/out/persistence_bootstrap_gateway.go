package out

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type PersistenceBootstrapGateway interface {
	CheckReadiness(ctx context.Context) *apperrors.AppError
	RunMigrations(ctx context.Context) (dto.MigrationResult, *apperrors.AppError)
	InspectLedgerSchema(ctx context.Context) (dto.LedgerSchemaReport, *apperrors.AppError)
}
