package gift

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/giftwise/giftwise-backend/internal/domain"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

type GiftRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, gifts []*types.Gift) ([]*types.Gift, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, giftIDs []uuid.UUID) ([]*types.Gift, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Gift, error)
}

type giftRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGiftRepo(db *gorm.DB, baseLog *logger.Logger) GiftRepo {
	repoLog := baseLog.With("repo", "GiftRepo")
	return &giftRepo{db: db, log: repoLog}
}

func (gr *giftRepo) Upsert(ctx context.Context, tx *gorm.DB, gifts []*types.Gift) ([]*types.Gift, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if len(gifts) == 0 {
		return []*types.Gift{}, nil
	}

	if err := transaction.WithContext(ctx).Save(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

func (gr *giftRepo) GetByIDs(ctx context.Context, tx *gorm.DB, giftIDs []uuid.UUID) ([]*types.Gift, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.Gift
	if len(giftIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", giftIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *giftRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Gift, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.Gift
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
