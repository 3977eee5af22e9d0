package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal or transfer exceeds the source balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNegativeOpeningBalance also matches ErrInvalidAmount.
	ErrNegativeOpeningBalance = fmt.Errorf("%w: opening balance cannot be negative", ErrInvalidAmount)

	// ErrSelfTransfer is returned when source and destination are the same account.
	ErrSelfTransfer = errors.New("cannot transfer to the same account")

	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountExists        = errors.New("account already exists")
	ErrMissingAccountNumber = errors.New("account number is required")
	ErrUnknownKind          = errors.New("unknown transaction kind")
)
