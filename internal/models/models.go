package models

import "time"

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Account kinds. Each user holds at most one account per kind, enforced by a
// unique constraint on (user_id, kind).
const (
	AccountKindCash = "cash"
	AccountKindCard = "card"
)

type Account struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	Kind         string    `db:"kind" json:"kind"`
	Name         string    `db:"name" json:"name"`
	BalanceCents int64     `db:"balance_cents" json:"balance_cents"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Transaction directions. Amounts are stored non-negative; the direction
// decides the sign of the effect on the account balance.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

type Transaction struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	AccountID   string    `db:"account_id" json:"account_id"`
	Kind        string    `db:"kind" json:"kind"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Category    string    `db:"category" json:"category"`
	Date        string    `db:"date" json:"date"`
	Name        string    `db:"name" json:"name"`
	Note        *string   `db:"note" json:"note,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Category struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	Name              string    `db:"name" json:"name"`
	Kind              string    `db:"kind" json:"kind"`
	Color             string    `db:"color" json:"color"`
	MonthlyLimitCents *int64    `db:"monthly_limit_cents" json:"monthly_limit_cents,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
