package interfaces

import (
	"context"
	"gestao_oficina/internal/domain/entities"
	"time"
)

// IUserRepository abstracts persistence for staff profiles.
//
// Table requirements:
//   - PK: id
//   - GSI: email-index (PK: email)
type IUserRepository interface {
	Create(ctx context.Context, u entities.User) (entities.User, error)
	GetByID(ctx context.Context, id string) (entities.User, error)
	GetByEmail(ctx context.Context, email string) (entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
	UpdateFullName(ctx context.Context, id, fullName string) (entities.User, error)
	Delete(ctx context.Context, id string) (entities.User, error)
}

// ITokenService issues and validates the bearer tokens carried by the API.
type ITokenService interface {
	Issue(u entities.User) (token string, expiresAt time.Time, err error)
	Parse(token string) (entities.AuthSession, error)
}

// IPasswordHasher hashes and verifies staff passwords.
type IPasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
