package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gmeladze/identity-service/internal/common"
	"github.com/gmeladze/identity-service/internal/dbx"
	"github.com/gmeladze/identity-service/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for unique_violation.
const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the account with a freshly assigned UUID. A violation of
// the unique email index maps to common.ErrorAlreadyExists; this is the
// authoritative uniqueness check, any pre-check by callers is advisory.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, email, first_name, last_name, password, is_admin, auth_type, agreed_on_terms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at
		 `

	account.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.FirstName, account.LastName,
		account.Password, account.IsAdmin, string(account.AuthType), account.AgreedOnTerms).
		Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, first_name, last_name, password, is_admin, auth_type, agreed_on_terms, created_at, updated_at
		 FROM accounts
		 WHERE email = $1
		 `

	account := &models.Account{}
	var authType string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID, &account.Email, &account.FirstName, &account.LastName,
		&account.Password, &account.IsAdmin, &authType, &account.AgreedOnTerms,
		&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.AuthType = models.AuthType(authType)
	return account, nil
}

// Update rewrites the mutable fields. Email, isAdmin and authType are fixed
// after creation and deliberately absent from the statement.
func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET first_name = $2, last_name = $3, password = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.FirstName, account.LastName, account.Password).
		Scan(&account.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}
