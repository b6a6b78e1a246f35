package preference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/giftwise/giftwise-backend/internal/data/repos/testutil"
	types "github.com/giftwise/giftwise-backend/internal/domain"
)

func TestPreferenceRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewPreferenceRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "prefrepo@example.com")
	contact := testutil.SeedContact(t, ctx, tx, owner.ID, "Dana")

	older := &types.PreferenceExtraction{
		ID:         uuid.New(),
		UserID:     owner.ID,
		ContactID:  contact.ID,
		Likes:      datatypes.JSON([]byte(`[{"item":"golf","weight":0.9,"evidence":[]}]`)),
		Dislikes:   datatypes.JSON([]byte(`[]`)),
		Uncertain:  datatypes.JSON([]byte(`[]`)),
		SourceHash: "hash-old",
		Model:      "test-model",
		CreatedAt:  time.Now().Add(-time.Minute),
	}
	if _, err := repo.Create(ctx, tx, older); err != nil {
		t.Fatalf("Create (older): %v", err)
	}

	newer := &types.PreferenceExtraction{
		ID:         uuid.New(),
		UserID:     owner.ID,
		ContactID:  contact.ID,
		Likes:      datatypes.JSON([]byte(`[{"item":"wine","weight":0.7,"evidence":[]}]`)),
		Dislikes:   datatypes.JSON([]byte(`[]`)),
		Uncertain:  datatypes.JSON([]byte(`[]`)),
		SourceHash: "hash-new",
		Model:      "test-model",
	}
	if _, err := repo.Create(ctx, tx, newer); err != nil {
		t.Fatalf("Create (newer): %v", err)
	}

	latest, err := repo.GetLatestByContact(ctx, tx, contact.ID)
	if err != nil {
		t.Fatalf("GetLatestByContact: %v", err)
	}
	if latest.ID != newer.ID {
		t.Fatalf("GetLatestByContact: got %s, want the newest extraction %s", latest.ID, newer.ID)
	}

	byHash, err := repo.GetBySourceHash(ctx, tx, contact.ID, "hash-old")
	if err != nil {
		t.Fatalf("GetBySourceHash: %v", err)
	}
	if byHash.ID != older.ID {
		t.Fatalf("GetBySourceHash: got %s, want %s", byHash.ID, older.ID)
	}

	if _, err := repo.GetBySourceHash(ctx, tx, contact.ID, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetBySourceHash (missing): err = %v, want ErrRecordNotFound", err)
	}
}
