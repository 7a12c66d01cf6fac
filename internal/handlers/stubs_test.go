package handlers

import (
	"context"
	"net/http"
	"time"

	"finbuddy/internal/blog"
	"finbuddy/internal/config"
	"finbuddy/internal/middleware"
	"finbuddy/internal/models"
	"finbuddy/internal/services"
	"finbuddy/internal/session"
	"finbuddy/internal/store"
	"finbuddy/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn         func(ctx context.Context, tx store.Execer, id, email, passwordHash, name string) error
	getByEmailFn     func(ctx context.Context, email string) (models.User, error)
	getByIDFn        func(ctx context.Context, userID string) (models.User, error)
	updatePasswordFn func(ctx context.Context, tx store.Execer, userID, passwordHash string) (int64, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, email, passwordHash, name string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, email, passwordHash, name)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) UpdatePassword(ctx context.Context, tx store.Execer, userID, passwordHash string) (int64, error) {
	if s.updatePasswordFn == nil {
		return 1, nil
	}
	return s.updatePasswordFn(ctx, tx, userID, passwordHash)
}

type stubAccountStore struct {
	createIfAbsentFn func(ctx context.Context, tx store.Execer, id, userID, kind, name string) (int64, error)
	listByUserFn     func(ctx context.Context, userID string) ([]models.Account, error)
}

func (s stubAccountStore) CreateIfAbsent(ctx context.Context, tx store.Execer, id, userID, kind, name string) (int64, error) {
	if s.createIfAbsentFn == nil {
		return 1, nil
	}
	return s.createIfAbsentFn(ctx, tx, id, userID, kind, name)
}

func (s stubAccountStore) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubTransactionStore struct {
	listByUserFn        func(ctx context.Context, userID string) ([]store.TransactionWithAccount, error)
	listRecentFn        func(ctx context.Context, userID string, limit int) ([]store.TransactionWithAccount, error)
	monthTotalsFn       func(ctx context.Context, userID, startDate, endDate string) ([]store.KindTotal, error)
	expenseByCategoryFn func(ctx context.Context, userID, startDate, endDate string) ([]store.CategoryTotal, error)
}

func (s stubTransactionStore) ListByUser(ctx context.Context, userID string) ([]store.TransactionWithAccount, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubTransactionStore) ListRecent(ctx context.Context, userID string, limit int) ([]store.TransactionWithAccount, error) {
	if s.listRecentFn == nil {
		return nil, nil
	}
	return s.listRecentFn(ctx, userID, limit)
}

func (s stubTransactionStore) MonthTotals(ctx context.Context, userID, startDate, endDate string) ([]store.KindTotal, error) {
	if s.monthTotalsFn == nil {
		return nil, nil
	}
	return s.monthTotalsFn(ctx, userID, startDate, endDate)
}

func (s stubTransactionStore) ExpenseByCategory(ctx context.Context, userID, startDate, endDate string) ([]store.CategoryTotal, error) {
	if s.expenseByCategoryFn == nil {
		return nil, nil
	}
	return s.expenseByCategoryFn(ctx, userID, startDate, endDate)
}

type stubCategoryStore struct {
	createFn     func(ctx context.Context, input store.CategoryInput) error
	listByUserFn func(ctx context.Context, userID string) ([]models.Category, error)
	updateFn     func(ctx context.Context, input store.CategoryInput) (int64, error)
	deleteFn     func(ctx context.Context, id, userID string) (int64, error)
}

func (s stubCategoryStore) Create(ctx context.Context, input store.CategoryInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, input)
}

func (s stubCategoryStore) ListByUser(ctx context.Context, userID string) ([]models.Category, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubCategoryStore) Update(ctx context.Context, input store.CategoryInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, input)
}

func (s stubCategoryStore) Delete(ctx context.Context, id, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, id, userID)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type stubLedger struct {
	createFn func(ctx context.Context, req services.CreateTransactionRequest) (models.Transaction, error)
	editFn   func(ctx context.Context, req services.EditTransactionRequest) error
	ensureFn func(ctx context.Context, userID string) error
}

func (s stubLedger) CreateTransaction(ctx context.Context, req services.CreateTransactionRequest) (models.Transaction, error) {
	if s.createFn == nil {
		return models.Transaction{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubLedger) EditTransaction(ctx context.Context, req services.EditTransactionRequest) error {
	if s.editFn == nil {
		return nil
	}
	return s.editFn(ctx, req)
}

func (s stubLedger) EnsureDefaultAccounts(ctx context.Context, userID string) error {
	if s.ensureFn == nil {
		return nil
	}
	return s.ensureFn(ctx, userID)
}

type stubBlogSource struct {
	listFn func(ctx context.Context) ([]blog.Post, error)
	getFn  func(ctx context.Context, slug string) (blog.PostDetail, error)
}

func (s stubBlogSource) ListPosts(ctx context.Context) ([]blog.Post, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubBlogSource) GetPost(ctx context.Context, slug string) (blog.PostDetail, error) {
	return s.getFn(ctx, slug)
}

type testHandlerDeps struct {
	txRunner     fakeTxRunner
	users        stubUserStore
	accounts     stubAccountStore
	transactions stubTransactionStore
	categories   stubCategoryStore
	audit        stubAuditStore
	ledger       stubLedger
	blog         stubBlogSource
}

func newTestHandler(deps testHandlerDeps) *Handler {
	cfg := config.Config{AppEnv: "test", SessionTTL: 15 * time.Minute, SessionMaxAge: 12 * time.Hour}
	sessions := session.New(session.Config{Secret: "test-secret", TTL: cfg.SessionTTL, MaxAge: cfg.SessionMaxAge})
	return New(cfg, sessions, deps.txRunner, deps.users, deps.accounts, deps.transactions,
		deps.categories, deps.audit, deps.ledger, deps.blog, websocket.NewHub())
}

func withIdentity(r *http.Request, id string) *http.Request {
	identity := session.Identity{ID: id, Email: id + "@example.com", Name: "Test User"}
	return r.WithContext(middleware.ContextWithIdentity(r.Context(), identity))
}
