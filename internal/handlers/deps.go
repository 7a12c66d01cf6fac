package handlers

import (
	"context"

	"finbuddy/internal/blog"
	"finbuddy/internal/models"
	"finbuddy/internal/services"
	"finbuddy/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, email, passwordHash, name string) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	UpdatePassword(ctx context.Context, tx store.Execer, userID, passwordHash string) (int64, error)
}

type AccountStore interface {
	CreateIfAbsent(ctx context.Context, tx store.Execer, id, userID, kind, name string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Account, error)
}

type TransactionStore interface {
	ListByUser(ctx context.Context, userID string) ([]store.TransactionWithAccount, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]store.TransactionWithAccount, error)
	MonthTotals(ctx context.Context, userID, startDate, endDate string) ([]store.KindTotal, error)
	ExpenseByCategory(ctx context.Context, userID, startDate, endDate string) ([]store.CategoryTotal, error)
}

type CategoryStore interface {
	Create(ctx context.Context, input store.CategoryInput) error
	ListByUser(ctx context.Context, userID string) ([]models.Category, error)
	Update(ctx context.Context, input store.CategoryInput) (int64, error)
	Delete(ctx context.Context, id, userID string) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type Ledger interface {
	CreateTransaction(ctx context.Context, req services.CreateTransactionRequest) (models.Transaction, error)
	EditTransaction(ctx context.Context, req services.EditTransactionRequest) error
	EnsureDefaultAccounts(ctx context.Context, userID string) error
}

type BlogSource interface {
	ListPosts(ctx context.Context) ([]blog.Post, error)
	GetPost(ctx context.Context, slug string) (blog.PostDetail, error)
}
