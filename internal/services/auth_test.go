package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/giftwise/giftwise-backend/internal/domain"
	pkgerrors "github.com/giftwise/giftwise-backend/internal/pkg/errors"
)

type fakeUserRepo struct {
	users []*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	f.users = append(f.users, users...)
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newTestAuth(t *testing.T, repo *fakeUserRepo) AuthService {
	t.Helper()
	return NewAuthService(nil, serviceTestLogger(t), repo, "test-secret", time.Hour)
}

func TestSignupLoginRoundTrip(t *testing.T) {
	repo := &fakeUserRepo{}
	auth := newTestAuth(t, repo)

	user, token, err := auth.Signup(context.Background(), "Dana@Example.com", "hunter22x", "Dana", "Lee")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "dana@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Password == "hunter22x" {
		t.Fatal("password stored in the clear")
	}
	if token == "" {
		t.Fatal("signup returned empty token")
	}

	got, loginToken, err := auth.Login(context.Background(), "dana@example.com", "hunter22x")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatal("login returned a different user")
	}

	parsed, err := auth.ParseToken(loginToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if parsed != user.ID {
		t.Fatalf("token subject = %s, want %s", parsed, user.ID)
	}
}

func TestSignupValidation(t *testing.T) {
	auth := newTestAuth(t, &fakeUserRepo{})

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"missing email", "", "hunter22x"},
		{"invalid email", "not-an-email", "hunter22x"},
		{"short password", "dana@example.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := auth.Signup(context.Background(), tc.email, tc.password, "Dana", "Lee")
			if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	auth := newTestAuth(t, repo)

	if _, _, err := auth.Signup(context.Background(), "dana@example.com", "hunter22x", "Dana", "Lee"); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	_, _, err := auth.Signup(context.Background(), "dana@example.com", "different9", "Other", "Dana")
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestLoginFailures(t *testing.T) {
	repo := &fakeUserRepo{}
	auth := newTestAuth(t, repo)
	if _, _, err := auth.Signup(context.Background(), "dana@example.com", "hunter22x", "Dana", "Lee"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, _, err := auth.Login(context.Background(), "nobody@example.com", "hunter22x"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("unknown email err = %v, want ErrUnauthorized", err)
	}
	if _, _, err := auth.Login(context.Background(), "dana@example.com", "wrongpass9"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("wrong password err = %v, want ErrUnauthorized", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := newTestAuth(t, &fakeUserRepo{})
	if _, err := auth.ParseToken("not.a.token"); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	other := NewAuthService(nil, serviceTestLogger(t), &fakeUserRepo{}, "other-secret", time.Hour)
	_, token, err := other.Signup(context.Background(), "dana@example.com", "hunter22x", "Dana", "Lee")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := auth.ParseToken(token); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("cross-secret token err = %v, want ErrUnauthorized", err)
	}
}
