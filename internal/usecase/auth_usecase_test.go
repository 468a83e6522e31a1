package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"gestao_oficina/internal/domain/entities"
	mock_interfaces "gestao_oficina/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type authFixture struct {
	users  *mock_interfaces.MockIUserRepository
	tokens *mock_interfaces.MockITokenService
	hasher *mock_interfaces.MockIPasswordHasher
	uc     *AuthUseCase
}

func newAuthFixture(t *testing.T) *authFixture {
	ctrl := gomock.NewController(t)
	f := &authFixture{
		users:  mock_interfaces.NewMockIUserRepository(ctrl),
		tokens: mock_interfaces.NewMockITokenService(ctrl),
		hasher: mock_interfaces.NewMockIPasswordHasher(ctrl),
	}
	f.uc = NewAuthUseCase(f.users, f.tokens, f.hasher)
	return f
}

func TestAuthUseCase_Login(t *testing.T) {
	user := entities.User{ID: "u-1", Email: "ana@oficina.com", FullName: "Ana", Role: entities.RoleAdmin, PasswordHash: "hash"}

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture(t)
		exp := time.Now().Add(time.Hour)
		f.users.EXPECT().GetByEmail(gomock.Any(), "ana@oficina.com").Return(user, nil)
		f.hasher.EXPECT().Compare("hash", "segredo").Return(nil)
		f.tokens.EXPECT().Issue(user).Return("tok", exp, nil)

		res, err := f.uc.Login(context.Background(), " Ana@Oficina.com ", "segredo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Token != "tok" || res.Session.UserID != "u-1" || !res.Session.IsAdmin() {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "ana@oficina.com").Return(user, nil)
		f.hasher.EXPECT().Compare("hash", "errada").Return(errors.New("mismatch"))

		if _, err := f.uc.Login(context.Background(), "ana@oficina.com", "errada"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "x@y.com").Return(entities.User{}, nil)

		if _, err := f.uc.Login(context.Background(), "x@y.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthUseCase_Authenticate(t *testing.T) {
	f := newAuthFixture(t)
	f.tokens.EXPECT().Parse("bad").Return(entities.AuthSession{}, errors.New("signature is invalid"))

	if _, err := f.uc.Authenticate(context.Background(), "bad"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := f.uc.Authenticate(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthUseCase_AuthenticateReadsProfile(t *testing.T) {
	claims := entities.AuthSession{UserID: "u-1", FullName: "Ana", Role: entities.RoleAdmin}

	t.Run("refreshes role and name", func(t *testing.T) {
		f := newAuthFixture(t)
		f.tokens.EXPECT().Parse("tok").Return(claims, nil)
		f.users.EXPECT().GetByID(gomock.Any(), "u-1").Return(entities.User{ID: "u-1", FullName: "Ana Souza", Role: entities.RoleMecanico}, nil)

		s, err := f.uc.Authenticate(context.Background(), "tok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Role != entities.RoleMecanico || s.FullName != "Ana Souza" || s.UserID != "u-1" {
			t.Fatalf("unexpected session: %+v", s)
		}
	})

	t.Run("deleted user is rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		f.tokens.EXPECT().Parse("tok").Return(claims, nil)
		f.users.EXPECT().GetByID(gomock.Any(), "u-1").Return(entities.User{}, nil)

		if _, err := f.uc.Authenticate(context.Background(), "tok"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.tokens.EXPECT().Parse("tok").Return(claims, nil)
		f.users.EXPECT().GetByID(gomock.Any(), "u-1").Return(entities.User{}, errors.New("throttled"))

		if _, err := f.uc.Authenticate(context.Background(), "tok"); !errors.Is(err, ErrStore) {
			t.Fatalf("expected ErrStore, got %v", err)
		}
	})
}

func TestAuthUseCase_UpdateProfile(t *testing.T) {
	session := entities.AuthSession{UserID: "u-1", Role: entities.RoleMecanico}

	t.Run("trims and saves", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().UpdateFullName(gomock.Any(), "u-1", "João Silva").Return(entities.User{ID: "u-1", FullName: "João Silva"}, nil)

		u, err := f.uc.UpdateProfile(context.Background(), session, "  João Silva ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.FullName != "João Silva" {
			t.Fatalf("unexpected user: %+v", u)
		}
	})

	t.Run("blank name", func(t *testing.T) {
		f := newAuthFixture(t)
		if _, err := f.uc.UpdateProfile(context.Background(), session, "   "); !errors.Is(err, ErrInvalidFullName) {
			t.Fatalf("expected ErrInvalidFullName, got %v", err)
		}
	})

	t.Run("profile gone", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().UpdateFullName(gomock.Any(), "u-1", "João").Return(entities.User{}, nil)

		if _, err := f.uc.UpdateProfile(context.Background(), session, "João"); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAuthUseCase_CreateUser(t *testing.T) {
	t.Run("hashes the password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "joao@oficina.com").Return(entities.User{}, nil)
		f.hasher.EXPECT().Hash("segredo1").Return("bcrypt-hash", nil)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, u entities.User) (entities.User, error) { return u, nil })

		u, err := f.uc.CreateUser(context.Background(), UserInput{Email: "joao@oficina.com", FullName: "João", Password: "segredo1", Role: "mecanico"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if u.PasswordHash != "bcrypt-hash" || u.Role != entities.RoleMecanico || u.ID == "" {
			t.Fatalf("unexpected user: %+v", u)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "joao@oficina.com").Return(entities.User{ID: "u-2"}, nil)

		_, err := f.uc.CreateUser(context.Background(), UserInput{Email: "joao@oficina.com", FullName: "João", Password: "segredo1", Role: "admin"})
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		f := newAuthFixture(t)
		cases := []struct {
			in   UserInput
			want error
		}{
			{UserInput{Email: "not-an-email", FullName: "x", Password: "123456", Role: "admin"}, ErrInvalidEmail},
			{UserInput{Email: "a@b.com", Password: "123456", Role: "admin"}, ErrInvalidFullName},
			{UserInput{Email: "a@b.com", FullName: "x", Password: "123456", Role: "gerente"}, ErrInvalidRole},
			{UserInput{Email: "a@b.com", FullName: "x", Password: "123", Role: "admin"}, ErrWeakPassword},
		}
		for _, tc := range cases {
			if _, err := f.uc.CreateUser(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		}
	})
}

func TestAuthUseCase_DeleteUser(t *testing.T) {
	admin := entities.AuthSession{UserID: "u-1", Role: entities.RoleAdmin}

	t.Run("cannot delete self", func(t *testing.T) {
		f := newAuthFixture(t)
		if err := f.uc.DeleteUser(context.Background(), admin, "u-1"); !errors.Is(err, ErrCannotDeleteSelf) {
			t.Fatalf("expected ErrCannotDeleteSelf, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().Delete(gomock.Any(), "u-9").Return(entities.User{}, nil)
		if err := f.uc.DeleteUser(context.Background(), admin, "u-9"); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().Delete(gomock.Any(), "u-2").Return(entities.User{ID: "u-2"}, nil)
		if err := f.uc.DeleteUser(context.Background(), admin, "u-2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
