package store

import (
	"context"

	"finbuddy/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

// CreateIfAbsent inserts an account unless the user already has one of that
// kind. The (user_id, kind) unique constraint makes provisioning idempotent
// even under concurrent first access. Returns the number of rows inserted.
func (s *AccountStore) CreateIfAbsent(ctx context.Context, tx Execer, id, userID, kind, name string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, kind, name, balance_cents)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (user_id, kind) DO NOTHING
	`, id, userID, kind, name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AccountStore) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	var rows []models.Account
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, kind, name, balance_cents, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY kind
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, kind, name, balance_cents, created_at
		FROM accounts
		WHERE id = $1
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

// GetForUpdate locks the account row for the remainder of the transaction.
func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, accountID string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, kind, name, balance_cents, created_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

// AdjustBalance applies a signed delta as a relative update at the store
// level, never as read-then-write in application code.
func (s *AccountStore) AdjustBalance(ctx context.Context, tx Execer, accountID string, delta int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance_cents = balance_cents + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
