// Package models defines data structures for the tracker
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownKind is returned when a transaction kind is outside the known set.
var ErrUnknownKind = errors.New("unknown transaction kind")

// TransactionKind is the closed set of ledger entry types.
type TransactionKind string

const (
	KindBuy              TransactionKind = "buy"
	KindSell             TransactionKind = "sell"
	KindTransferIn       TransactionKind = "transfer_in"
	KindTransferOut      TransactionKind = "transfer_out"
	KindOptionExercise   TransactionKind = "option_exercise"
	KindOptionAssignment TransactionKind = "option_assignment"
	KindOptionExpiration TransactionKind = "option_expiration"
	KindDeposit          TransactionKind = "deposit"
	KindWithdrawal       TransactionKind = "withdrawal"
	KindMarginInterest   TransactionKind = "margin_interest"
)

// AllKinds lists every known kind in declaration order.
var AllKinds = []TransactionKind{
	KindBuy, KindSell, KindTransferIn, KindTransferOut,
	KindOptionExercise, KindOptionAssignment, KindOptionExpiration,
	KindDeposit, KindWithdrawal, KindMarginInterest,
}

// IsCash reports whether the kind moves cash only and carries no asset.
func (k TransactionKind) IsCash() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindMarginInterest:
		return true
	}
	return false
}

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseKind normalises a free-form kind string (case, spaces, dashes).
func ParseKind(s string) (TransactionKind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	k := TransactionKind(norm)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Transaction is an immutable ledger entry for one portfolio.
type Transaction struct {
	ID           string          `json:"id"`
	PortfolioID  string          `json:"portfolio_id" badgerhold:"index"`
	AssetID      string          `json:"asset_id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name,omitempty"`
	Kind         TransactionKind `json:"kind"`
	Quantity     float64         `json:"quantity"`
	PricePerUnit float64         `json:"price_per_unit"`
	Fees         float64         `json:"fees"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DateLayout is the ISO day-precision layout used for transaction dates.
const DateLayout = "2006-01-02"

// RawTransaction is an imported row whose price, date, fees or total may be missing.
// Pointer fields distinguish "absent" from an explicit zero.
type RawTransaction struct {
	Symbol   string   `json:"symbol"`
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Quantity float64  `json:"quantity"`
	Price    *float64 `json:"price,omitempty"`
	Date     string   `json:"date,omitempty"`
	Fees     *float64 `json:"fees,omitempty"`
	Total    *float64 `json:"total,omitempty"`
}

// NormalizedTransaction is a backfilled import row ready for review.
type NormalizedTransaction struct {
	ID       string  `json:"id"`
	Symbol   string  `json:"symbol"`
	Type     string  `json:"type"`
	Name     string  `json:"name,omitempty"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"`
	Fees     float64 `json:"fees"`
	Total    float64 `json:"total"`
	Valid    bool    `json:"valid"`
	Error    string  `json:"error,omitempty"`
}

// Import row error reasons, in priority order.
const (
	ErrMissingSymbol   = "Missing symbol"
	ErrInvalidQuantity = "Invalid quantity"
	ErrPriceNotFound   = "Could not fetch price"
	ErrUnknownType     = "Unknown transaction type"
	ErrInvalidDate     = "Invalid date"
)
