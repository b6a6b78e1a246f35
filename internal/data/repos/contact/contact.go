package contact

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/giftwise/giftwise-backend/internal/domain"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

type ContactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contacts []*types.Contact) ([]*types.Contact, error)
	GetByID(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) (*types.Contact, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Contact, error)
	Update(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) error
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	repoLog := baseLog.With("repo", "ContactRepo")
	return &contactRepo{db: db, log: repoLog}
}

func (cr *contactRepo) Create(ctx context.Context, tx *gorm.DB, contacts []*types.Contact) ([]*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(contacts) == 0 {
		return []*types.Contact{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (cr *contactRepo) GetByID(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) (*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Contact
	if err := transaction.WithContext(ctx).
		Where("id = ?", contactID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *contactRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Contact, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Contact
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contactRepo) Update(ctx context.Context, tx *gorm.DB, contactID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Contact{}).
		Where("id = ?", contactID).
		Updates(fields).Error
}

func (cr *contactRepo) Delete(ctx context.Context, tx *gorm.DB, contactID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", contactID).
		Delete(&types.Contact{}).Error
}
