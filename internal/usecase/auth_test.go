package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	pkgAuth "github.com/ezla-online/portal/internal/pkg/auth"
	testhelpers "github.com/ezla-online/portal/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(userID int64) (string, error) {
			return fmt.Sprintf("token-%d", userID), nil
		},
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, token, err := uc.Register(ctx, "  Alice@Example.com ", "password")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if token != "token-1" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByLogin(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected normalised login in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "bob@example.com", "secret"); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "BOB@example.com", "secret"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	cases := []struct {
		name     string
		login    string
		password string
		field    string
	}{
		{name: "empty login", login: "", password: "password", field: "login"},
		{name: "not an email", login: "user", password: "password", field: "login"},
		{name: "empty password", login: "user@example.com", password: "", field: "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := uc.Register(context.Background(), tc.login, tc.password)
			var vErr *domainErrors.ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tc.field {
				t.Fatalf("expected validation error on %s, got %v", tc.field, err)
			}
		})
	}
}

func TestAuthUseCaseRegisterWeakPassword(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{HashFn: func(string) (string, error) {
		return "", pkgAuth.ErrWeakPassword
	}}, newStrategyStub())
	_, _, err := uc.Register(context.Background(), "user@example.com", "short")
	var vErr *domainErrors.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
}

func TestAuthUseCaseRegisterFailures(t *testing.T) {
	t.Run("hasher", func(t *testing.T) {
		uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{HashFn: func(string) (string, error) {
			return "", fmt.Errorf("hash error")
		}}, newStrategyStub())
		if _, _, err := uc.Register(context.Background(), "user@example.com", "password"); err == nil {
			t.Fatal("expected hashing error")
		}
	})

	t.Run("repository", func(t *testing.T) {
		repo := testhelpers.NewUserRepositoryStub()
		repo.Err = fmt.Errorf("db down")
		uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
		if _, _, err := uc.Register(context.Background(), "user@example.com", "password"); err == nil {
			t.Fatal("expected repository error")
		}
	})

	t.Run("token", func(t *testing.T) {
		strategy := testhelpers.StrategyStub{IssueFn: func(int64) (string, error) {
			return "", fmt.Errorf("cannot issue token")
		}}
		uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, strategy)
		if _, _, err := uc.Register(context.Background(), "user@example.com", "password"); err == nil {
			t.Fatal("expected token issuing error")
		}
	})
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "carol@example.com", "12345678"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "bad"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "absent@example.com", "12345678"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown login, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "", ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for empty input, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, "Carol@Example.com", "12345678")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token-1" {
		t.Fatalf("unexpected token %q", token)
	}

	repo.Err = fmt.Errorf("storage unavailable")
	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "12345678"); err == nil || err.Error() != "storage unavailable" {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	id, err := uc.ParseToken("token-42")
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}

	if _, err := uc.ParseToken("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}
