// Package raw defines the persisted/transported form of the account mirror:
// plain structural records with decimal amounts as strings, timestamps as
// ISO-8601 strings, and per-family payloads as opaque JSON. Conversion to the
// live model lives in pkg/ledger/transform.
package raw

import (
	"github.com/go-jose/go-jose/v4/json"
)

// Sub-account discriminant values carried in SubAccountRaw.Type.
const (
	TypeTokenAccount = "TokenAccountRaw"
	TypeChildAccount = "ChildAccountRaw"
)

// OperationRaw is the serialized form of one ledger event.
type OperationRaw struct {
	ID          string   `json:"id"`
	Hash        string   `json:"hash"`
	AccountID   string   `json:"accountId"`
	Type        string   `json:"type"`
	Senders     []string `json:"senders"`
	Recipients  []string `json:"recipients"`
	Value       string   `json:"value"`
	Fee         string   `json:"fee"`
	BlockHeight *uint64  `json:"blockHeight"`
	BlockHash   *string  `json:"blockHash,omitempty"`
	Date        string   `json:"date"`

	SubOperations      []*OperationRaw `json:"subOperations,omitempty"`
	InternalOperations []*OperationRaw `json:"internalOperations,omitempty"`
	NFTOperations      []*OperationRaw `json:"nftOperations,omitempty"`

	// Extra is decoded by the family capability; kept opaque here.
	Extra json.RawMessage `json:"extra,omitempty"`
}

// AccountRaw is the serialized form of a root account.
type AccountRaw struct {
	ID               string `json:"id"`
	FreshAddress     string `json:"freshAddress"`
	FreshAddressPath string `json:"freshAddressPath"`

	Balance          string `json:"balance"`
	SpendableBalance string `json:"spendableBalance"`

	BlockHeight  uint64 `json:"blockHeight"`
	CreationDate string `json:"creationDate"`
	LastSyncDate string `json:"lastSyncDate"`

	Operations        []*OperationRaw `json:"operations"`
	PendingOperations []*OperationRaw `json:"pendingOperations"`
	// OperationsCount is absent in snapshots predating tail-count support;
	// conversion falls back to len(Operations).
	OperationsCount int     `json:"operationsCount,omitempty"`
	SyncHash        *string `json:"syncHash,omitempty"`

	SubAccounts []*SubAccountRaw `json:"subAccounts,omitempty"`

	NFTs []*NFTRaw `json:"nfts,omitempty"`

	BalanceHistoryCache *BalanceHistoryCacheRaw `json:"balanceHistoryCache,omitempty"`

	// FamilyResources is rebuilt by the family capability; kept opaque here.
	FamilyResources json.RawMessage `json:"familyResources,omitempty"`
}

// SubAccountRaw is the serialized form of a nested account. Type discriminates
// the token/child variants; fields not applicable to a variant stay zero.
type SubAccountRaw struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	ParentID string `json:"parentId"`

	// TokenAccountRaw only
	TokenID          string             `json:"tokenId,omitempty"`
	SpendableBalance string             `json:"spendableBalance,omitempty"`
	CompoundBalance  *string            `json:"compoundBalance,omitempty"`
	Approvals        []TokenApprovalRaw `json:"approvals,omitempty"`

	// ChildAccountRaw only
	Address string `json:"address,omitempty"`

	Balance      string `json:"balance"`
	CreationDate string `json:"creationDate"`

	Operations        []*OperationRaw `json:"operations"`
	PendingOperations []*OperationRaw `json:"pendingOperations"`
	OperationsCount   int             `json:"operationsCount,omitempty"`

	BalanceHistoryCache *BalanceHistoryCacheRaw `json:"balanceHistoryCache,omitempty"`
}

type TokenApprovalRaw struct {
	Sender string `json:"sender"`
	Value  string `json:"value"`
}

type NFTRaw struct {
	ID         string            `json:"id"`
	TokenID    string            `json:"tokenId"`
	Amount     string            `json:"amount"`
	Contract   string            `json:"contract"`
	Standard   string            `json:"standard"`
	CurrencyID string            `json:"currencyId"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type BalanceHistoryDataCacheRaw struct {
	LatestDate int64     `json:"latestDate"`
	Balances   []float64 `json:"balances"`
}

type BalanceHistoryCacheRaw struct {
	Hour BalanceHistoryDataCacheRaw `json:"HOUR"`
	Day  BalanceHistoryDataCacheRaw `json:"DAY"`
	Week BalanceHistoryDataCacheRaw `json:"WEEK"`
}

// DecodeAccount parses one serialized account snapshot.
func DecodeAccount(data []byte) (*AccountRaw, error) {
	var out AccountRaw
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EncodeAccount serializes an account snapshot.
func EncodeAccount(acc *AccountRaw) ([]byte, error) {
	return json.Marshal(acc)
}
