package out

import (
	"context"

	"blaze/internal/domain/clarity"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

// ChainReadOnlyGateway evaluates a read-only contract function against chain tip.
type ChainReadOnlyGateway interface {
	CallReadOnly(
		ctx context.Context,
		contract valueobjects.Principal,
		functionName string,
		sender valueobjects.Principal,
		args []clarity.Value,
	) (clarity.Value, *apperrors.AppError)
}
