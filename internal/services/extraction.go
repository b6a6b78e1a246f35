package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/giftwise/giftwise-backend/internal/clients/openai"
	preferencerepo "github.com/giftwise/giftwise-backend/internal/data/repos/preference"
	types "github.com/giftwise/giftwise-backend/internal/domain"
	pkgerrors "github.com/giftwise/giftwise-backend/internal/pkg/errors"
	"github.com/giftwise/giftwise-backend/internal/pkg/logger"
	"github.com/giftwise/giftwise-backend/internal/recommend"
)

// ExtractionService turns a contact's free-text notes into a persisted
// preference profile via the structured-output path of the backend.
type ExtractionService interface {
	Extract(ctx context.Context, userID uuid.UUID, contact *types.Contact) (*types.PreferenceExtraction, error)
	LoadProfile(ctx context.Context, contactID uuid.UUID) (recommend.Profile, error)
}

type extractionService struct {
	db             *gorm.DB
	log            *logger.Logger
	ai             openai.Client
	preferenceRepo preferencerepo.PreferenceRepo
	model          string
}

func NewExtractionService(db *gorm.DB, log *logger.Logger, ai openai.Client, preferenceRepo preferencerepo.PreferenceRepo, model string) ExtractionService {
	serviceLog := log.With("service", "ExtractionService")
	return &extractionService{
		db:             db,
		log:            serviceLog,
		ai:             ai,
		preferenceRepo: preferenceRepo,
		model:          model,
	}
}

func promptExtractPreferences(contact *types.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract gift-relevant preferences for %s from the notes below.\n", contact.Name)
	b.WriteString("Sort every preference into likes, dislikes or uncertain. ")
	b.WriteString("Quote the exact note fragments that support each preference as evidence, ")
	b.WriteString("and score your confidence as a weight between 0 and 1.\n\n")
	b.WriteString("Notes:\n")
	b.WriteString(contact.Notes)
	return b.String()
}

func schemaExtractPreferences() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"item":     map[string]any{"type": "string"},
			"weight":   map[string]any{"type": "number"},
			"evidence": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []string{"item", "weight", "evidence"},
		"additionalProperties": false,
	}
	collection := map[string]any{"type": "array", "items": item}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"likes":     collection,
			"dislikes":  collection,
			"uncertain": collection,
		},
		"required":             []string{"likes", "dislikes", "uncertain"},
		"additionalProperties": false,
	}
}

func notesHash(notes string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(notes)))
	return hex.EncodeToString(sum[:])
}

func (es *extractionService) Extract(ctx context.Context, userID uuid.UUID, contact *types.Contact) (*types.PreferenceExtraction, error) {
	if strings.TrimSpace(contact.Notes) == "" {
		return nil, fmt.Errorf("%w: contact has no notes to extract from", pkgerrors.ErrInvalidArgument)
	}

	hash := notesHash(contact.Notes)
	if existing, err := es.preferenceRepo.GetBySourceHash(ctx, nil, contact.ID, hash); err == nil {
		es.log.Debug("Notes unchanged, reusing extraction", "contact_id", contact.ID, "extraction_id", existing.ID)
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing extraction: %w", err)
	}

	obj, err := es.ai.GenerateJSON(ctx,
		"You extract structured gift preferences from free-form notes about a person.",
		promptExtractPreferences(contact),
		"gift_preferences",
		schemaExtractPreferences(),
	)
	if err != nil {
		return nil, fmt.Errorf("preference extraction call: %w", err)
	}

	extraction := &types.PreferenceExtraction{
		ID:         uuid.New(),
		UserID:     userID,
		ContactID:  contact.ID,
		Likes:      encodeCollection(obj["likes"]),
		Dislikes:   encodeCollection(obj["dislikes"]),
		Uncertain:  encodeCollection(obj["uncertain"]),
		SourceHash: hash,
		Model:      es.model,
	}
	if _, err := es.preferenceRepo.Create(ctx, nil, extraction); err != nil {
		return nil, fmt.Errorf("persist extraction: %w", err)
	}
	return extraction, nil
}

// LoadProfile returns the normalized profile from the latest extraction.
// A contact without any extraction yields an empty profile, which makes the
// persona memos authoritative downstream.
func (es *extractionService) LoadProfile(ctx context.Context, contactID uuid.UUID) (recommend.Profile, error) {
	extraction, err := es.preferenceRepo.GetLatestByContact(ctx, nil, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return recommend.Profile{}, nil
		}
		return recommend.Profile{}, fmt.Errorf("load extraction: %w", err)
	}
	return recommend.BuildProfile(
		decodeCollection(extraction.Likes),
		decodeCollection(extraction.Dislikes),
		decodeCollection(extraction.Uncertain),
	), nil
}

func encodeCollection(v any) datatypes.JSON {
	if v == nil {
		return datatypes.JSON("[]")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}

func decodeCollection(raw datatypes.JSON) []any {
	if len(raw) == 0 {
		return nil
	}
	var out []any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
