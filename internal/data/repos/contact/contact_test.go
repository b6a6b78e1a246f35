package contact

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/giftwise/giftwise-backend/internal/data/repos/testutil"
	types "github.com/giftwise/giftwise-backend/internal/domain"
)

func TestContactRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContactRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "contactrepo@example.com")

	first := testutil.SeedContact(t, ctx, tx, owner.ID, "First")
	second := testutil.SeedContact(t, ctx, tx, owner.ID, "Second")

	got, err := repo.GetByID(ctx, tx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "First" {
		t.Fatalf("GetByID: unexpected contact: %+v", got)
	}

	listed, err := repo.ListByUser(ctx, tx, owner.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListByUser: expected 2 contacts, got %d", len(listed))
	}
	if listed[0].ID != first.ID || listed[1].ID != second.ID {
		t.Fatalf("ListByUser: expected creation order, got %+v", listed)
	}

	if err := repo.Update(ctx, tx, first.ID, map[string]any{"memo_hobby": "golf"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, first.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.MemoHobby != "golf" {
		t.Fatalf("Update: memo_hobby not persisted: %+v", got)
	}

	if err := repo.Delete(ctx, tx, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, second.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByID after delete: err = %v, want ErrRecordNotFound", err)
	}
}

func TestContactRepoCreateEmpty(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContactRepo(db, testutil.Logger(t))
	created, err := repo.Create(context.Background(), tx, []*types.Contact{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("Create: expected no contacts, got %d", len(created))
	}
}
