package out

import (
	"context"

	"blaze/internal/application/dto"
)

// BalanceEventPublisher must not block the caller.
type BalanceEventPublisher interface {
	Publish(ctx context.Context, event dto.BalanceEvent)
}
