package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/giftwise/giftwise-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedContact(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.Contact {
	tb.Helper()
	c := &types.Contact{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     name,
		Relation: "friend",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contact: %v", err)
	}
	return c
}

func SeedGift(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Gift {
	tb.Helper()
	g := &types.Gift{
		ID:       uuid.New(),
		Name:     name,
		Category: "misc",
		Price:    "$20",
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed gift: %v", err)
	}
	return g
}
