package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubAccount is a closed sum over the two kinds of nested accounts: a
// TokenAccount (fungible token balance riding on a parent chain account) and a
// ChildAccount (a chain-native sub-wallet such as a derived address). The
// discriminant string only exists at the raw serialization boundary; in-memory
// code switches on the concrete type.
type SubAccount interface {
	// SubID returns the sub-account's own id.
	SubID() string
	// ParentAccountID returns the id of the root account this nests under.
	ParentAccountID() string

	subAccount()
}

// TokenAccount is a fungible token balance on top of a parent chain account.
type TokenAccount struct {
	ID           string
	ParentID     string
	TokenID      string
	CreationDate time.Time

	Balance          decimal.Decimal
	SpendableBalance decimal.Decimal
	// CompoundBalance is only set for lending-enabled tokens.
	CompoundBalance *decimal.Decimal

	Operations        []*Operation
	PendingOperations []*Operation
	OperationsCount   int

	// Approvals are spender allowances, opaque beyond sender/value pairs.
	Approvals []TokenApproval

	BalanceHistoryCache BalanceHistoryCache
}

// TokenApproval is one spender allowance granted by a token account.
type TokenApproval struct {
	Sender string
	Value  string
}

func (a *TokenAccount) SubID() string           { return a.ID }
func (a *TokenAccount) ParentAccountID() string { return a.ParentID }
func (a *TokenAccount) subAccount()             {}

// ChildAccount is a chain-native sub-wallet, e.g. a derived address.
type ChildAccount struct {
	ID           string
	ParentID     string
	Address      string
	CreationDate time.Time

	Balance decimal.Decimal

	Operations        []*Operation
	PendingOperations []*Operation
	OperationsCount   int

	BalanceHistoryCache BalanceHistoryCache
}

func (a *ChildAccount) SubID() string           { return a.ID }
func (a *ChildAccount) ParentAccountID() string { return a.ParentID }
func (a *ChildAccount) subAccount()             {}
