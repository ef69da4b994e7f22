package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

const uniqueViolation = "23505"

type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepo(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (r *accountRepository) CreateAccount(ctx context.Context, account *models.Account) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO accounts(email, password_hash, display_name, phone, created_at, updated_at)
		VALUES($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, account.Email, account.PasswordHash, account.DisplayName, account.Phone).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrEmailTaken
	}

	return err
}

func (r *accountRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	account := &models.Account{}

	query := `
		SELECT id, email, password_hash, display_name, phone, created_at, updated_at
		FROM accounts
		WHERE email = $1`

	err := r.DB.QueryRowContext(dbCtx, query, email).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.DisplayName, &account.Phone, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {

		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

func (r *accountRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	account := &models.Account{}

	query := `
		SELECT id, email, password_hash, display_name, phone, created_at, updated_at
		FROM accounts
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.DisplayName, &account.Phone, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {

		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

func (r *accountRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE accounts SET email = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, email, id)
	if err != nil {

		if isUniqueViolation(err) {
			return ErrEmailTaken
		}

		return err
	}

	return requireOneRow(result)
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, passwordHash, id)
	if err != nil {
		return err
	}

	return requireOneRow(result)
}

func requireOneRow(result sql.Result) error {

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrAccountNotFound
	}

	return nil
}
