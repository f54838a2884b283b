package accounts

import (
	"context"

	"github.com/gmeladze/identity-service/internal/server/models"
)

// Repository is the persistence boundary for accounts.
//
// Email matching is exact: the unique index covers the raw string, so two
// addresses differing only in case are distinct accounts. FindByEmail
// distinguishes absence (common.ErrorNotFound) from a storage failure
// (wrapped error): callers must never treat a failing store as an absent
// account.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
}
