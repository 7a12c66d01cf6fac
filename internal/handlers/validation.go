package handlers

import (
	"errors"

	"finbuddy/internal/money"
)

var errInvalidAmount = errors.New("invalid amount")

// parseAmountCents converts the user-supplied decimal amount into cents and
// rejects anything that is not a positive whole number of minor units.
func parseAmountCents(raw string) (int64, error) {
	cents, err := money.ToCents(raw)
	if err != nil || cents <= 0 {
		return 0, errInvalidAmount
	}
	return cents, nil
}
