package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the root entity of the client-side mirror: everything the wallet
// knows about one on-chain account, rebuilt incrementally from indexer data.
//
// Reconciliation treats an Account as immutable. Patching either returns the
// cached pointer unchanged (nothing differed) or a new Account whose unchanged
// fields still alias the cached values, so identity-based change detection in
// downstream views keeps working.
type Account struct {
	// Identity. The id encodes scheme, version, family tag and address
	// (scheme:version:family:address:mode); a changed id means "treat as
	// first observation" and forces a full rebuild from raw.
	ID string

	// Receive address rotation state
	FreshAddress     string
	FreshAddressPath string

	// Balances, in the currency's magnitude unit
	Balance          decimal.Decimal
	SpendableBalance decimal.Decimal

	// Last chain height this mirror was synced against
	BlockHeight uint64

	CreationDate time.Time
	LastSyncDate time.Time

	// Ordered newest first. OperationsCount carries the full on-chain
	// cardinality even when the tail was never paginated in.
	Operations        []*Operation
	PendingOperations []*Operation
	OperationsCount   int

	// SyncHash is a cheap fingerprint of the last known chain cursor/state.
	SyncHash *string

	SubAccounts []SubAccount

	NFTs []*NFT

	BalanceHistoryCache BalanceHistoryCache

	// FamilyResources is an opaque per-family payload (bitcoin UTXOs,
	// staking resources, ...). Shape and comparison are owned by the family
	// capability; this core only forwards it.
	FamilyResources any
}

// NFT is one non-fungible token position held by an account.
type NFT struct {
	ID         string
	TokenID    string
	Amount     decimal.Decimal
	Contract   string
	Standard   string
	CurrencyID string
	Metadata   map[string]string
}
