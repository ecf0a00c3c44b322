package implementation

import (
	"context"

	"parallax/internal/entity"
	"parallax/internal/repository/contract"

	"gorm.io/gorm"
)

type FulfillmentLogRepositoryImpl struct {
	db *gorm.DB
}

func NewFulfillmentLogRepository(db *gorm.DB) contract.IFulfillmentLogRepository {
	return &FulfillmentLogRepositoryImpl{db: db}
}

func (r *FulfillmentLogRepositoryImpl) Create(ctx context.Context, log *entity.FulfillmentLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *FulfillmentLogRepositoryImpl) FindBySession(ctx context.Context, sessionID string, limit int) ([]*entity.FulfillmentLog, error) {
	var logs []*entity.FulfillmentLog
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
