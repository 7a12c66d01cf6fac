// Package services holds the ledger mutation logic: creating and editing
// transactions while keeping the owning account's cached balance equal to the
// sum of signed effects of its transactions.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"finbuddy/internal/db"
	"finbuddy/internal/models"
	"finbuddy/internal/money"
	"finbuddy/internal/store"
	"finbuddy/internal/validator"
	"finbuddy/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount       = errors.New("amount must be a positive number of cents")
	ErrInvalidAccount      = errors.New("account does not exist or does not belong to user")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrValidation          = errors.New("invalid transaction fields")
	// ErrBalanceNotApplied means the account vanished between the row write
	// and the balance adjustment. The transaction rolls back; this must never
	// be swallowed.
	ErrBalanceNotApplied = errors.New("balance adjustment could not be applied")
)

type AccountProvisioner interface {
	CreateIfAbsent(ctx context.Context, tx store.Execer, id, userID, kind, name string) (int64, error)
}

type AccountStore interface {
	AccountProvisioner
	GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	AdjustBalance(ctx context.Context, tx store.Execer, accountID string, delta int64) (int64, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	GetForUpdate(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	Update(ctx context.Context, tx store.Execer, input store.TransactionInput) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

type LedgerService struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	transactions TransactionStore
	audit        AuditStore
	hub          BalanceHub
}

func NewLedgerService(txRunner db.TxRunner, accounts AccountStore, transactions TransactionStore, audit AuditStore, hub BalanceHub) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		accounts:     accounts,
		transactions: transactions,
		audit:        audit,
		hub:          hub,
	}
}

type CreateTransactionRequest struct {
	UserID      string
	AccountID   string
	Kind        string
	AmountCents int64
	Category    string
	Date        string
	Name        string
	Note        *string
}

type EditTransactionRequest struct {
	UserID        string
	TransactionID string
	AccountID     string
	Kind          string
	AmountCents   int64
	Category      string
	Date          string
	Name          string
	Note          *string
}

// signedEffect is the directionally adjusted amount a transaction applies to
// its account balance.
func signedEffect(kind string, amountCents int64) int64 {
	if kind == models.KindIncome {
		return amountCents
	}
	return -amountCents
}

func validateFields(kind string, amountCents int64, category, date, name string) error {
	if err := validator.ValidateKind(kind); err != nil {
		return ErrValidation
	}
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(category) == "" || strings.TrimSpace(name) == "" {
		return ErrValidation
	}
	if err := validator.ValidateDate(date); err != nil {
		return ErrValidation
	}
	return nil
}

// CreateTransaction persists a new transaction and applies its signed effect
// to the owning account, atomically. The account must belong to the caller.
func (s *LedgerService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (models.Transaction, error) {
	if err := validateFields(req.Kind, req.AmountCents, req.Category, req.Date, req.Name); err != nil {
		return models.Transaction{}, err
	}
	created := models.Transaction{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		AccountID:   req.AccountID,
		Kind:        req.Kind,
		AmountCents: req.AmountCents,
		Category:    strings.TrimSpace(req.Category),
		Date:        req.Date,
		Name:        strings.TrimSpace(req.Name),
		Note:        req.Note,
	}
	effect := signedEffect(req.Kind, req.AmountCents)
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInvalidAccount
			}
			return err
		}
		if account.UserID != req.UserID {
			return ErrInvalidAccount
		}
		if err := s.transactions.Create(ctx, tx, transactionInput(created)); err != nil {
			return err
		}
		affected, err := s.accounts.AdjustBalance(ctx, tx, req.AccountID, effect)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrBalanceNotApplied
		}
		balanceAfter = account.BalanceCents + effect
		data, _ := json.Marshal(map[string]any{
			"account_id":   req.AccountID,
			"kind":         req.Kind,
			"amount_cents": req.AmountCents,
		})
		return s.audit.Log(ctx, tx, req.UserID, "transaction.create", "transaction", created.ID, string(data))
	})
	if err != nil {
		return models.Transaction{}, err
	}
	s.hub.BroadcastBalance(req.UserID, websocket.BalanceUpdate{
		AccountID:    req.AccountID,
		BalanceCents: balanceAfter,
		Balance:      money.FromCents(balanceAfter),
	})
	return created, nil
}

// EditTransaction overwrites a transaction and corrects balances by reversing
// the old signed effect on the old account before applying the new effect on
// the new account. The two-step order is what keeps re-homing (moving the
// transaction to a different account) correct; a single net delta would
// corrupt both balances in that case.
func (s *LedgerService) EditTransaction(ctx context.Context, req EditTransactionRequest) error {
	if err := validateFields(req.Kind, req.AmountCents, req.Category, req.Date, req.Name); err != nil {
		return err
	}
	var updates []websocket.BalanceUpdate
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		updates = updates[:0]
		existing, err := s.transactions.GetForUpdate(ctx, tx, req.TransactionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		// Foreign-owned transactions look exactly like missing ones.
		if existing.UserID != req.UserID {
			return ErrTransactionNotFound
		}
		oldAccount, newAccount, err := s.lockAccountPair(ctx, tx, existing.AccountID, req.AccountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInvalidAccount
			}
			return err
		}
		if newAccount.UserID != req.UserID {
			return ErrInvalidAccount
		}
		oldEffect := signedEffect(existing.Kind, existing.AmountCents)
		newEffect := signedEffect(req.Kind, req.AmountCents)
		if affected, err := s.accounts.AdjustBalance(ctx, tx, existing.AccountID, -oldEffect); err != nil {
			return err
		} else if affected == 0 {
			return ErrBalanceNotApplied
		}
		if affected, err := s.accounts.AdjustBalance(ctx, tx, req.AccountID, newEffect); err != nil {
			return err
		} else if affected == 0 {
			return ErrBalanceNotApplied
		}
		updated := models.Transaction{
			ID:          existing.ID,
			UserID:      req.UserID,
			AccountID:   req.AccountID,
			Kind:        req.Kind,
			AmountCents: req.AmountCents,
			Category:    strings.TrimSpace(req.Category),
			Date:        req.Date,
			Name:        strings.TrimSpace(req.Name),
			Note:        req.Note,
		}
		affected, err := s.transactions.Update(ctx, tx, transactionInput(updated))
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrTransactionNotFound
		}
		if existing.AccountID == req.AccountID {
			after := oldAccount.BalanceCents - oldEffect + newEffect
			updates = append(updates, balanceUpdate(existing.AccountID, after))
		} else {
			updates = append(updates,
				balanceUpdate(existing.AccountID, oldAccount.BalanceCents-oldEffect),
				balanceUpdate(req.AccountID, newAccount.BalanceCents+newEffect),
			)
		}
		data, _ := json.Marshal(map[string]any{
			"from_account_id": existing.AccountID,
			"to_account_id":   req.AccountID,
			"old_effect":      oldEffect,
			"new_effect":      newEffect,
		})
		return s.audit.Log(ctx, tx, req.UserID, "transaction.edit", "transaction", existing.ID, string(data))
	})
	if err != nil {
		return err
	}
	for _, update := range updates {
		s.hub.BroadcastBalance(req.UserID, update)
	}
	return nil
}

// EnsureDefaultAccounts provisions the cash and card accounts a user is
// expected to have. Idempotent; safe under concurrent first access.
func (s *LedgerService) EnsureDefaultAccounts(ctx context.Context, userID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return ProvisionDefaultAccounts(ctx, tx, s.accounts, userID)
	})
}

// ProvisionDefaultAccounts is the transaction-scoped provisioning step, also
// invoked at signup inside the user-creation transaction.
func ProvisionDefaultAccounts(ctx context.Context, tx store.Execer, accounts AccountProvisioner, userID string) error {
	if _, err := accounts.CreateIfAbsent(ctx, tx, uuid.NewString(), userID, models.AccountKindCash, "Cash"); err != nil {
		return err
	}
	_, err := accounts.CreateIfAbsent(ctx, tx, uuid.NewString(), userID, models.AccountKindCard, "Card")
	return err
}

// lockAccountPair locks one or both accounts in deterministic ID order so
// concurrent edits touching the same accounts cannot deadlock.
func (s *LedgerService) lockAccountPair(ctx context.Context, tx store.Tx, oldID, newID string) (models.Account, models.Account, error) {
	if oldID == newID {
		account, err := s.accounts.GetForUpdate(ctx, tx, oldID)
		if err != nil {
			return models.Account{}, models.Account{}, err
		}
		return account, account, nil
	}
	firstID, secondID := oldID, newID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := s.accounts.GetForUpdate(ctx, tx, firstID)
	if err != nil {
		return models.Account{}, models.Account{}, err
	}
	second, err := s.accounts.GetForUpdate(ctx, tx, secondID)
	if err != nil {
		return models.Account{}, models.Account{}, err
	}
	if firstID == oldID {
		return first, second, nil
	}
	return second, first, nil
}

func transactionInput(t models.Transaction) store.TransactionInput {
	return store.TransactionInput{
		ID:          t.ID,
		UserID:      t.UserID,
		AccountID:   t.AccountID,
		Kind:        t.Kind,
		AmountCents: t.AmountCents,
		Category:    t.Category,
		Date:        t.Date,
		Name:        t.Name,
		Note:        t.Note,
	}
}

func balanceUpdate(accountID string, balanceCents int64) websocket.BalanceUpdate {
	return websocket.BalanceUpdate{
		AccountID:    accountID,
		BalanceCents: balanceCents,
		Balance:      money.FromCents(balanceCents),
	}
}
