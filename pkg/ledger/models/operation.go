package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is one discrete ledger event affecting an account: a transfer, a
// fee payment, a stake action, etc.
//
// Operations are immutable by convention once built. Reconciliation never
// mutates an Operation in place; it either reuses the cached pointer (when the
// underlying chain event is unchanged) or builds a fresh one. Downstream
// consumers rely on that pointer stability for change detection, so it is a
// contract, not an optimization.
//
// ID is stable across reconciliation runs for the same underlying chain event.
// Hash is not unique per Operation: several internal records of one transaction
// (e.g. a multi-output transfer) can share a hash and are merged into one
// logical Operation when the caller supplies a merge function.
type Operation struct {
	// Identity
	ID        string
	Hash      string
	AccountID string

	// Classification and participants
	Type       string
	Senders    []string
	Recipients []string

	// Amounts, in the currency's magnitude unit
	Value decimal.Decimal
	Fee   decimal.Decimal

	// Confirmation state. BlockHeight stays nil while the operation is
	// pending; the pending -> confirmed transition is the only sanctioned
	// change for an already-observed operation id.
	BlockHeight *uint64
	BlockHash   *string

	Date time.Time

	// Nested collections, newest first, nil when absent
	SubOperations      []*Operation
	InternalOperations []*Operation
	NFTOperations      []*Operation

	// Extra is an opaque per-family payload. Its shape is owned by the
	// family capability that decoded it.
	Extra any
}

// Confirmed reports whether the operation has been included in a block.
func (op *Operation) Confirmed() bool {
	return op != nil && op.BlockHeight != nil
}

// SameBlockHeight compares two nullable heights by value.
func SameBlockHeight(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
