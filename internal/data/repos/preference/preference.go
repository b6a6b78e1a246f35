package preference

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/giftwise/giftwise-backend/internal/domain"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

type PreferenceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, extraction *types.PreferenceExtraction) (*types.PreferenceExtraction, error)
	GetLatestByContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) (*types.PreferenceExtraction, error)
	GetBySourceHash(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, sourceHash string) (*types.PreferenceExtraction, error)
}

type preferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	repoLog := baseLog.With("repo", "PreferenceRepo")
	return &preferenceRepo{db: db, log: repoLog}
}

func (pr *preferenceRepo) Create(ctx context.Context, tx *gorm.DB, extraction *types.PreferenceExtraction) (*types.PreferenceExtraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if err := transaction.WithContext(ctx).Create(extraction).Error; err != nil {
		return nil, err
	}
	return extraction, nil
}

func (pr *preferenceRepo) GetLatestByContact(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) (*types.PreferenceExtraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.PreferenceExtraction
	if err := transaction.WithContext(ctx).
		Where("contact_id = ?", contactID).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *preferenceRepo) GetBySourceHash(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, sourceHash string) (*types.PreferenceExtraction, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.PreferenceExtraction
	if err := transaction.WithContext(ctx).
		Where("contact_id = ? AND source_hash = ?", contactID, sourceHash).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
