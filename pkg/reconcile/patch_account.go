package reconcile

import (
	"bytes"

	"github.com/go-jose/go-jose/v4/json"
	"github.com/google/go-cmp/cmp"

	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/transform"
)

// PatchAccount merges a raw snapshot into the cached account. If nothing
// differs the cached pointer is returned; otherwise a new Account is built
// whose unchanged fields alias the cached values. A different id means the
// snapshot belongs to another logical account (first observation, migration):
// the result is rebuilt entirely from raw.
//
// Neither input is ever mutated.
func PatchAccount(acc *models.Account, updated *raw.AccountRaw, opts ...Option) (*models.Account, error) {
	cfg := newConfig(opts)

	if acc == nil || acc.ID != updated.ID {
		return transform.ToAccount(cfg.registry, updated)
	}

	next := *acc
	changed := false

	subAccounts, subChanged, err := patchSubAccountList(acc.SubAccounts, updated.SubAccounts, acc.ID, opts)
	if err != nil {
		return nil, err
	}
	if subChanged {
		next.SubAccounts = subAccounts
		changed = true
	}

	operations, err := PatchOperations(acc.Operations, updated.Operations, updated.ID, opts...)
	if err != nil {
		return nil, err
	}
	if !sameOperationsRef(operations, acc.Operations) {
		next.Operations = operations
		changed = true
	}

	pending, err := PatchOperations(acc.PendingOperations, updated.PendingOperations, updated.ID, opts...)
	if err != nil {
		return nil, err
	}
	if !sameOperationsRef(pending, acc.PendingOperations) {
		next.PendingOperations = pending
		changed = true
	}

	if count := rawOperationsCount(updated.OperationsCount, operations); count != acc.OperationsCount {
		next.OperationsCount = count
		changed = true
	}

	balance, err := transform.ParseAmount(updated.Balance, "account balance")
	if err != nil {
		return nil, err
	}
	if !balance.Equal(acc.Balance) {
		next.Balance = balance
		changed = true
	}

	spendable, err := transform.ParseAmount(updated.SpendableBalance, "account spendable balance")
	if err != nil {
		return nil, err
	}
	if !spendable.Equal(acc.SpendableBalance) {
		next.SpendableBalance = spendable
		changed = true
	}

	lastSyncDate, err := transform.ParseDate(updated.LastSyncDate, "account last sync date")
	if err != nil {
		return nil, err
	}
	if !lastSyncDate.Equal(acc.LastSyncDate) {
		next.LastSyncDate = lastSyncDate
		changed = true
	}

	creationDate, err := transform.ParseDate(updated.CreationDate, "account creation date")
	if err != nil {
		return nil, err
	}
	if !creationDate.Equal(acc.CreationDate) {
		next.CreationDate = creationDate
		changed = true
	}

	if updated.FreshAddress != acc.FreshAddress {
		next.FreshAddress = updated.FreshAddress
		changed = true
	}
	if updated.FreshAddressPath != acc.FreshAddressPath {
		next.FreshAddressPath = updated.FreshAddressPath
		changed = true
	}
	if updated.BlockHeight != acc.BlockHeight {
		next.BlockHeight = updated.BlockHeight
		changed = true
	}
	if !sameStringPtr(updated.SyncHash, acc.SyncHash) {
		next.SyncHash = updated.SyncHash
		changed = true
	}

	if updated.BalanceHistoryCache != nil {
		candidate := transform.ToBalanceHistoryCache(updated.BalanceHistoryCache)
		if ShouldRefreshBalanceHistoryCache(acc.BalanceHistoryCache, candidate) {
			next.BalanceHistoryCache = candidate
			changed = true
		}
	}

	nfts, err := transform.ToNFTs(updated.NFTs)
	if err != nil {
		return nil, err
	}
	if !cmp.Equal(acc.NFTs, nfts, decimalComparer) {
		next.NFTs = nfts
		changed = true
	}

	if c, ok := cfg.registry.LookupForAccount(acc.ID); ok {
		resources, resChanged, err := c.PatchResources(acc.FamilyResources, updated.FamilyResources)
		if err != nil {
			return nil, err
		}
		if resChanged {
			next.FamilyResources = resources
			changed = true
		}
	} else if len(updated.FamilyResources) > 0 {
		// No capability for this family: the payload passes through opaque.
		cached, ok := acc.FamilyResources.(json.RawMessage)
		if !ok || !bytes.Equal(cached, updated.FamilyResources) {
			next.FamilyResources = updated.FamilyResources
			changed = true
		}
	}

	if !changed {
		return acc, nil
	}
	return &next, nil
}

// patchSubAccountList patches each raw sub-account against its cached twin,
// matched by id. Membership changes (added or removed ids, reordering) count
// as change even when every surviving member is itself unchanged.
func patchSubAccountList(cached []models.SubAccount, raws []*raw.SubAccountRaw, parentID string, opts []Option) ([]models.SubAccount, bool, error) {
	if raws == nil {
		return nil, cached != nil, nil
	}

	patched := make([]models.SubAccount, 0, len(raws))
	for _, sr := range raws {
		var twin models.SubAccount
		for _, sa := range cached {
			if sa.SubID() == sr.ID {
				twin = sa
				break
			}
		}
		sa, err := PatchSubAccount(twin, sr, parentID, opts...)
		if err != nil {
			return nil, false, err
		}
		patched = append(patched, sa)
	}

	if len(patched) != len(cached) {
		return patched, true, nil
	}
	for i := range patched {
		if patched[i] != cached[i] {
			return patched, true, nil
		}
	}
	return cached, false, nil
}

// rawOperationsCount falls back to the reconciled list length for snapshots
// that predate tail-count support.
func rawOperationsCount(count int, ops []*models.Operation) int {
	if count > 0 {
		return count
	}
	return len(ops)
}

func sameStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
