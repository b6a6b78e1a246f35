package run

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/giftwise/giftwise-backend/internal/domain"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

type RunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.RecommendationRun) (*types.RecommendationRun, error)
	ListByContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, limit int) ([]*types.RecommendationRun, error)
}

type runRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRunRepo(db *gorm.DB, baseLog *logger.Logger) RunRepo {
	repoLog := baseLog.With("repo", "RunRepo")
	return &runRepo{db: db, log: repoLog}
}

func (rr *runRepo) Create(ctx context.Context, tx *gorm.DB, run *types.RecommendationRun) (*types.RecommendationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (rr *runRepo) ListByContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, limit int) ([]*types.RecommendationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if limit <= 0 {
		limit = 20
	}

	var results []*types.RecommendationRun
	if err := transaction.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
