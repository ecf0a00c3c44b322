package contract

import (
	"context"

	"parallax/internal/entity"
)

type IFulfillmentLogRepository interface {
	Create(ctx context.Context, log *entity.FulfillmentLog) error
	FindBySession(ctx context.Context, sessionID string, limit int) ([]*entity.FulfillmentLog, error)
}
