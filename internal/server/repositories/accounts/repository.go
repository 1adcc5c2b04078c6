// Package accounts persists registered users and their token_version
// counter, the single mutable field the session-invalidation scheme
// depends on.
package accounts

import (
	"context"

	"github.com/higherpolynomia/backend/internal/server/models"
)

// Repository is the credential store contract. GetTokenVersion must
// observe the latest committed write; no caching layer may sit in front of
// it. IncrementTokenVersion must be atomic with respect to concurrent
// logins for the same account.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetTokenVersion(ctx context.Context, id string) (int64, error)
	IncrementTokenVersion(ctx context.Context, id string) (int64, error)
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
}
