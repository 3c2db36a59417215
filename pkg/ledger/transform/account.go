package transform

import (
	"github.com/go-jose/go-jose/v4/json"

	"github.com/nimbuswallet/chainmirror/pkg/family"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
)

// ToAccount builds a live account entirely from its raw snapshot (first
// observation, or full rebuild after an id change). Family resources go
// through the capability registered for the account's family; without one the
// opaque payload is carried as-is.
func ToAccount(reg *family.Registry, r *raw.AccountRaw) (*models.Account, error) {
	balance, err := ParseAmount(r.Balance, "account balance")
	if err != nil {
		return nil, err
	}
	spendable, err := ParseAmount(r.SpendableBalance, "account spendable balance")
	if err != nil {
		return nil, err
	}
	creationDate, err := ParseDate(r.CreationDate, "account creation date")
	if err != nil {
		return nil, err
	}
	lastSyncDate, err := ParseDate(r.LastSyncDate, "account last sync date")
	if err != nil {
		return nil, err
	}
	operations, err := toOperations(reg, r.Operations, r.ID)
	if err != nil {
		return nil, err
	}
	pending, err := toOperations(reg, r.PendingOperations, r.ID)
	if err != nil {
		return nil, err
	}

	var subAccounts []models.SubAccount
	if r.SubAccounts != nil {
		subAccounts = make([]models.SubAccount, 0, len(r.SubAccounts))
		for _, sr := range r.SubAccounts {
			sa, err := ToSubAccount(reg, sr, r.ID)
			if err != nil {
				return nil, err
			}
			subAccounts = append(subAccounts, sa)
		}
	}

	nfts, err := ToNFTs(r.NFTs)
	if err != nil {
		return nil, err
	}

	var resources any
	if len(r.FamilyResources) > 0 {
		if c, ok := registry(reg).LookupForAccount(r.ID); ok {
			resources, err = c.BuildResourcesFromRaw(r.FamilyResources)
			if err != nil {
				return nil, err
			}
		} else {
			resources = r.FamilyResources
		}
	}

	return &models.Account{
		ID:                  r.ID,
		FreshAddress:        r.FreshAddress,
		FreshAddressPath:    r.FreshAddressPath,
		Balance:             balance,
		SpendableBalance:    spendable,
		BlockHeight:         r.BlockHeight,
		CreationDate:        creationDate,
		LastSyncDate:        lastSyncDate,
		Operations:          operations,
		PendingOperations:   pending,
		OperationsCount:     operationsCount(r.OperationsCount, operations),
		SyncHash:            r.SyncHash,
		SubAccounts:         subAccounts,
		NFTs:                nfts,
		BalanceHistoryCache: ToBalanceHistoryCache(r.BalanceHistoryCache),
		FamilyResources:     resources,
	}, nil
}

// ToNFTs maps raw NFT positions into the live model; nil stays nil.
func ToNFTs(rs []*raw.NFTRaw) ([]*models.NFT, error) {
	if rs == nil {
		return nil, nil
	}
	out := make([]*models.NFT, 0, len(rs))
	for _, r := range rs {
		amount, err := ParseAmount(r.Amount, "nft amount")
		if err != nil {
			return nil, err
		}
		out = append(out, &models.NFT{
			ID:         r.ID,
			TokenID:    r.TokenID,
			Amount:     amount,
			Contract:   r.Contract,
			Standard:   r.Standard,
			CurrencyID: r.CurrencyID,
			Metadata:   r.Metadata,
		})
	}
	return out, nil
}

// FromAccount maps a live account back into its raw snapshot record.
func FromAccount(reg *family.Registry, acc *models.Account) (*raw.AccountRaw, error) {
	operations, err := fromOperations(reg, acc.Operations)
	if err != nil {
		return nil, err
	}
	pending, err := fromOperations(reg, acc.PendingOperations)
	if err != nil {
		return nil, err
	}

	var subAccounts []*raw.SubAccountRaw
	if acc.SubAccounts != nil {
		subAccounts = make([]*raw.SubAccountRaw, 0, len(acc.SubAccounts))
		for _, sa := range acc.SubAccounts {
			sr, err := FromSubAccount(reg, sa)
			if err != nil {
				return nil, err
			}
			subAccounts = append(subAccounts, sr)
		}
	}

	out := &raw.AccountRaw{
		ID:                  acc.ID,
		FreshAddress:        acc.FreshAddress,
		FreshAddressPath:    acc.FreshAddressPath,
		Balance:             acc.Balance.String(),
		SpendableBalance:    acc.SpendableBalance.String(),
		BlockHeight:         acc.BlockHeight,
		CreationDate:        formatDate(acc.CreationDate),
		LastSyncDate:        formatDate(acc.LastSyncDate),
		Operations:          operations,
		PendingOperations:   pending,
		OperationsCount:     acc.OperationsCount,
		SyncHash:            acc.SyncHash,
		SubAccounts:         subAccounts,
		NFTs:                fromNFTs(acc.NFTs),
		BalanceHistoryCache: FromBalanceHistoryCache(acc.BalanceHistoryCache),
	}

	// Resources built by a capability have no generic serialization; only an
	// opaque pass-through payload survives the round trip.
	if passthrough, ok := acc.FamilyResources.(json.RawMessage); ok {
		out.FamilyResources = passthrough
	}

	return out, nil
}

func fromNFTs(nfts []*models.NFT) []*raw.NFTRaw {
	if nfts == nil {
		return nil
	}
	out := make([]*raw.NFTRaw, 0, len(nfts))
	for _, n := range nfts {
		out = append(out, &raw.NFTRaw{
			ID:         n.ID,
			TokenID:    n.TokenID,
			Amount:     n.Amount.String(),
			Contract:   n.Contract,
			Standard:   n.Standard,
			CurrencyID: n.CurrencyID,
			Metadata:   n.Metadata,
		})
	}
	return out
}
