package store

import (
	"context"

	"finbuddy/internal/models"
)

type CategoryStore struct {
	db DB
}

func NewCategoryStore(db DB) *CategoryStore {
	return &CategoryStore{db: db}
}

type CategoryInput struct {
	ID                string
	UserID            string
	Name              string
	Kind              string
	Color             string
	MonthlyLimitCents *int64
}

func (s *CategoryStore) Create(ctx context.Context, input CategoryInput) error {
	query := `
		INSERT INTO categories (id, user_id, name, kind, color, monthly_limit_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		input.ID, input.UserID, input.Name, input.Kind, input.Color, input.MonthlyLimitCents)
	return err
}

func (s *CategoryStore) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	var rows []models.Category
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, name, kind, color, monthly_limit_cents, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update is scoped by owner; zero rows affected means not found or foreign.
func (s *CategoryStore) Update(ctx context.Context, input CategoryInput) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $1, kind = $2, color = $3, monthly_limit_cents = $4
		WHERE id = $5 AND user_id = $6
	`, input.Name, input.Kind, input.Color, input.MonthlyLimitCents, input.ID, input.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *CategoryStore) Delete(ctx context.Context, id, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM categories
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
