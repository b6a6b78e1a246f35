package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	contactrepo "github.com/giftwise/giftwise-backend/internal/data/repos/contact"
	types "github.com/giftwise/giftwise-backend/internal/domain"
	pkgerrors "github.com/giftwise/giftwise-backend/internal/pkg/errors"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
)

// ContactInput carries the mutable contact fields from the API layer.
type ContactInput struct {
	Name      string `json:"name"`
	Rank      string `json:"rank"`
	Relation  string `json:"relation"`
	Gender    string `json:"gender"`
	MemoHobby string `json:"memo_hobby"`
	MemoStyle string `json:"memo_style"`
	Notes     string `json:"notes"`
}

type ContactService interface {
	Create(ctx context.Context, userID uuid.UUID, in ContactInput) (*types.Contact, error)
	Get(ctx context.Context, userID, contactID uuid.UUID) (*types.Contact, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Contact, error)
	Update(ctx context.Context, userID, contactID uuid.UUID, in ContactInput) (*types.Contact, error)
	Delete(ctx context.Context, userID, contactID uuid.UUID) error
}

type contactService struct {
	db          *gorm.DB
	log         *logger.Logger
	contactRepo contactrepo.ContactRepo
}

func NewContactService(db *gorm.DB, log *logger.Logger, contactRepo contactrepo.ContactRepo) ContactService {
	serviceLog := log.With("service", "ContactService")
	return &contactService{db: db, log: serviceLog, contactRepo: contactRepo}
}

func (cs *contactService) Create(ctx context.Context, userID uuid.UUID, in ContactInput) (*types.Contact, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: contact name required", pkgerrors.ErrInvalidArgument)
	}
	contact := &types.Contact{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Rank:      strings.TrimSpace(in.Rank),
		Relation:  strings.TrimSpace(in.Relation),
		Gender:    strings.TrimSpace(in.Gender),
		MemoHobby: strings.TrimSpace(in.MemoHobby),
		MemoStyle: strings.TrimSpace(in.MemoStyle),
		Notes:     in.Notes,
	}
	if _, err := cs.contactRepo.Create(ctx, nil, []*types.Contact{contact}); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

// Get loads a contact and verifies ownership.
func (cs *contactService) Get(ctx context.Context, userID, contactID uuid.UUID) (*types.Contact, error) {
	contact, err := cs.contactRepo.GetByID(ctx, nil, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, fmt.Errorf("load contact: %w", err)
	}
	if contact.UserID != userID {
		return nil, pkgerrors.ErrNotFound
	}
	return contact, nil
}

func (cs *contactService) List(ctx context.Context, userID uuid.UUID) ([]*types.Contact, error) {
	contacts, err := cs.contactRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (cs *contactService) Update(ctx context.Context, userID, contactID uuid.UUID, in ContactInput) (*types.Contact, error) {
	if _, err := cs.Get(ctx, userID, contactID); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"name":       strings.TrimSpace(in.Name),
		"rank":       strings.TrimSpace(in.Rank),
		"relation":   strings.TrimSpace(in.Relation),
		"gender":     strings.TrimSpace(in.Gender),
		"memo_hobby": strings.TrimSpace(in.MemoHobby),
		"memo_style": strings.TrimSpace(in.MemoStyle),
		"notes":      in.Notes,
	}
	if strings.TrimSpace(in.Name) == "" {
		delete(fields, "name")
	}
	if err := cs.contactRepo.Update(ctx, nil, contactID, fields); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return cs.Get(ctx, userID, contactID)
}

func (cs *contactService) Delete(ctx context.Context, userID, contactID uuid.UUID) error {
	if _, err := cs.Get(ctx, userID, contactID); err != nil {
		return err
	}
	if err := cs.contactRepo.Delete(ctx, nil, contactID); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
