package store

import (
	"context"

	"finbuddy/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID          string
	UserID      string
	AccountID   string
	Kind        string
	AmountCents int64
	Category    string
	Date        string
	Name        string
	Note        *string
}

// TransactionWithAccount joins the owning account's display info for lists.
type TransactionWithAccount struct {
	models.Transaction
	AccountName string `db:"account_name"`
	AccountKind string `db:"account_kind"`
}

type KindTotal struct {
	Kind       string `db:"kind"`
	TotalCents int64  `db:"total_cents"`
}

type CategoryTotal struct {
	Category   string `db:"category"`
	TotalCents int64  `db:"total_cents"`
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, user_id, account_id, kind, amount_cents, category, date, name, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.AccountID, input.Kind, input.AmountCents,
		input.Category, input.Date, input.Name, input.Note,
	)
	return err
}

// GetForUpdate locks the transaction row so a concurrent edit of the same
// transaction cannot interleave with the balance corrections.
func (s *TransactionStore) GetForUpdate(ctx context.Context, tx Getter, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, account_id, kind, amount_cents, category, date, name, note, created_at
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}
	return row, nil
}

// Update overwrites every mutable field at once; edits are never partial.
func (s *TransactionStore) Update(ctx context.Context, tx Execer, input TransactionInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET account_id = $1, kind = $2, amount_cents = $3, category = $4, date = $5, name = $6, note = $7
		WHERE id = $8 AND user_id = $9
	`, input.AccountID, input.Kind, input.AmountCents, input.Category, input.Date,
		input.Name, input.Note, input.ID, input.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID string) ([]TransactionWithAccount, error) {
	var rows []TransactionWithAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.user_id, t.account_id, t.kind, t.amount_cents, t.category,
		       t.date, t.name, t.note, t.created_at,
		       a.name AS account_name, a.kind AS account_kind
		FROM transactions t
		INNER JOIN accounts a ON a.id = t.account_id
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ListRecent(ctx context.Context, userID string, limit int) ([]TransactionWithAccount, error) {
	var rows []TransactionWithAccount
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.user_id, t.account_id, t.kind, t.amount_cents, t.category,
		       t.date, t.name, t.note, t.created_at,
		       a.name AS account_name, a.kind AS account_kind
		FROM transactions t
		INNER JOIN accounts a ON a.id = t.account_id
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthTotals sums amounts per direction over [startDate, endDate).
func (s *TransactionStore) MonthTotals(ctx context.Context, userID, startDate, endDate string) ([]KindTotal, error) {
	var rows []KindTotal
	err := s.db.SelectContext(ctx, &rows, `
		SELECT kind, COALESCE(SUM(amount_cents), 0) AS total_cents
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		GROUP BY kind
	`, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ExpenseByCategory sums expense amounts per category label over
// [startDate, endDate).
func (s *TransactionStore) ExpenseByCategory(ctx context.Context, userID, startDate, endDate string) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := s.db.SelectContext(ctx, &rows, `
		SELECT category, COALESCE(SUM(amount_cents), 0) AS total_cents
		FROM transactions
		WHERE user_id = $1 AND kind = 'expense' AND date >= $2 AND date < $3
		GROUP BY category
		ORDER BY total_cents DESC
	`, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
