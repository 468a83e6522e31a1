package usecase

import (
	"context"
	"errors"
	"fmt"
	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase/interfaces"
	"gestao_oficina/pkg/logger"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrCannotDeleteSelf   = fmt.Errorf("%w: users cannot delete themselves", entities.ErrValidation)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", entities.ErrValidation)
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email", entities.ErrValidation)
	ErrInvalidFullName    = fmt.Errorf("%w: full_name is required", entities.ErrValidation)
	ErrInvalidRole        = fmt.Errorf("%w: role must be admin or mecanico", entities.ErrValidation)
	ErrWeakPassword       = fmt.Errorf("%w: password must have at least %d characters", entities.ErrValidation, minPasswordLength)
	ErrInvalidUserID      = fmt.Errorf("%w: invalid user id", entities.ErrValidation)
	ErrUserNotFound       = fmt.Errorf("user %w", entities.ErrNotFound)
)

type UserInput struct {
	Email    string
	FullName string
	Password string
	Role     string
}

// LoginResult is what a successful sign-in hands back to the caller.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Session   entities.AuthSession
}

type IAuthUseCase interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Authenticate(ctx context.Context, token string) (entities.AuthSession, error)
	Me(ctx context.Context, session entities.AuthSession) (entities.User, error)
	UpdateProfile(ctx context.Context, session entities.AuthSession, fullName string) (entities.User, error)
	CreateUser(ctx context.Context, in UserInput) (entities.User, error)
	ListUsers(ctx context.Context) ([]entities.User, error)
	DeleteUser(ctx context.Context, session entities.AuthSession, id string) error
}

type AuthUseCase struct {
	users  interfaces.IUserRepository
	tokens interfaces.ITokenService
	hasher interfaces.IPasswordHasher
}

var _ IAuthUseCase = (*AuthUseCase)(nil)

func NewAuthUseCase(users interfaces.IUserRepository, tokens interfaces.ITokenService, hasher interfaces.IPasswordHasher) *AuthUseCase {
	return &AuthUseCase{users: users, tokens: tokens, hasher: hasher}
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func (u *AuthUseCase) Login(ctx context.Context, email, password string) (LoginResult, error) {
	log := logger.For("auth", "usecase")
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, storeErr("get user by email", err)
	}
	if user.ID == "" {
		log.WithField("email", email).Warn("login for unknown email")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := u.hasher.Compare(user.PasswordHash, password); err != nil {
		log.WithField("user_id", user.ID).Warn("login with wrong password")
		return LoginResult{}, ErrInvalidCredentials
	}

	token, exp, err := u.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("login")
	return LoginResult{
		Token:     token,
		ExpiresAt: exp,
		Session:   entities.AuthSession{UserID: user.ID, FullName: user.FullName, Role: user.Role, ExpiresAt: exp},
	}, nil
}

// Authenticate turns a bearer token into a session. The profile is read back
// on every call: a deleted user loses access at once, and role or name
// changes apply before the token expires.
func (u *AuthUseCase) Authenticate(ctx context.Context, token string) (entities.AuthSession, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entities.AuthSession{}, ErrInvalidToken
	}
	s, err := u.tokens.Parse(token)
	if err != nil {
		return entities.AuthSession{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if s.UserID == "" {
		return entities.AuthSession{}, ErrInvalidToken
	}

	user, err := u.users.GetByID(ctx, s.UserID)
	if err != nil {
		return entities.AuthSession{}, storeErr("get user", err)
	}
	if user.ID == "" {
		logger.For("auth", "usecase").WithField("user_id", s.UserID).Warn("token for deleted user")
		return entities.AuthSession{}, fmt.Errorf("%w: user no longer exists", ErrInvalidToken)
	}
	s.Role = user.Role
	s.FullName = user.FullName
	return s, nil
}

func (u *AuthUseCase) Me(ctx context.Context, session entities.AuthSession) (entities.User, error) {
	user, err := u.users.GetByID(ctx, session.UserID)
	if err != nil {
		return entities.User{}, storeErr("get user", err)
	}
	if user.ID == "" {
		return entities.User{}, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile lets the signed-in user change their own full name.
func (u *AuthUseCase) UpdateProfile(ctx context.Context, session entities.AuthSession, fullName string) (entities.User, error) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return entities.User{}, ErrInvalidFullName
	}
	user, err := u.users.UpdateFullName(ctx, session.UserID, name)
	if err != nil {
		return entities.User{}, storeErr("update user", err)
	}
	if user.ID == "" {
		return entities.User{}, ErrUserNotFound
	}
	logger.For("auth", "usecase").WithField("user_id", user.ID).Info("profile updated")
	return user, nil
}

func (u *AuthUseCase) CreateUser(ctx context.Context, in UserInput) (entities.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return entities.User{}, ErrInvalidEmail
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return entities.User{}, ErrInvalidFullName
	}
	role, ok := entities.ParseRole(in.Role)
	if !ok {
		return entities.User{}, ErrInvalidRole
	}
	if len(in.Password) < minPasswordLength {
		return entities.User{}, ErrWeakPassword
	}

	existing, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		return entities.User{}, storeErr("get user by email", err)
	}
	if existing.ID != "" {
		return entities.User{}, ErrEmailTaken
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return entities.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := entities.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     name,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := u.users.Create(ctx, user)
	if err != nil {
		return entities.User{}, storeErr("create user", err)
	}
	logger.For("auth", "usecase").WithFields(logrus.Fields{"user_id": created.ID, "role": created.Role}).Info("user created")
	return created, nil
}

// ListUsers returns every profile, newest first.
func (u *AuthUseCase) ListUsers(ctx context.Context) ([]entities.User, error) {
	list, err := u.users.List(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (u *AuthUseCase) DeleteUser(ctx context.Context, session entities.AuthSession, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidUserID
	}
	if id == session.UserID {
		return ErrCannotDeleteSelf
	}
	deleted, err := u.users.Delete(ctx, id)
	if err != nil {
		return storeErr("delete user", err)
	}
	if deleted.ID == "" {
		return ErrUserNotFound
	}
	logger.For("auth", "usecase").WithFields(logrus.Fields{"user_id": id, "by": session.UserID}).Info("user deleted")
	return nil
}
