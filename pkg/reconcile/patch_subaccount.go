package reconcile

import (
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/transform"
)

// PatchSubAccount merges a raw sub-account into its cached twin, with the same
// reuse contract as PatchAccount. A nil twin, a mismatched id or parent id, or
// a changed variant means the cached value cannot be trusted for this record:
// the sub-account is rebuilt fully from raw.
func PatchSubAccount(cached models.SubAccount, r *raw.SubAccountRaw, parentID string, opts ...Option) (models.SubAccount, error) {
	cfg := newConfig(opts)

	if cached == nil || cached.SubID() != r.ID || cached.ParentAccountID() != parentID {
		return transform.ToSubAccount(cfg.registry, r, parentID)
	}

	switch a := cached.(type) {
	case *models.TokenAccount:
		if r.Type != raw.TypeTokenAccount {
			return transform.ToSubAccount(cfg.registry, r, parentID)
		}
		return patchTokenAccount(a, r, opts)
	case *models.ChildAccount:
		if r.Type != raw.TypeChildAccount {
			return transform.ToSubAccount(cfg.registry, r, parentID)
		}
		return patchChildAccount(a, r, opts)
	default:
		return transform.ToSubAccount(cfg.registry, r, parentID)
	}
}

func patchTokenAccount(acc *models.TokenAccount, r *raw.SubAccountRaw, opts []Option) (models.SubAccount, error) {
	next := *acc
	changed := false

	operations, err := PatchOperations(acc.Operations, r.Operations, acc.ID, opts...)
	if err != nil {
		return nil, err
	}
	if !sameOperationsRef(operations, acc.Operations) {
		next.Operations = operations
		changed = true
	}

	pending, err := PatchOperations(acc.PendingOperations, r.PendingOperations, acc.ID, opts...)
	if err != nil {
		return nil, err
	}
	if !sameOperationsRef(pending, acc.PendingOperations) {
		next.PendingOperations = pending
		changed = true
	}

	if count := rawOperationsCount(r.OperationsCount, operations); count != acc.OperationsCount {
		next.OperationsCount = count
		changed = true
	}

	balance, err := transform.ParseAmount(r.Balance, "token account balance")
	if err != nil {
		return nil, err
	}
	if !balance.Equal(acc.Balance) {
		next.Balance = balance
		changed = true
	}

	spendable, err := transform.ParseAmount(r.SpendableBalance, "token account spendable balance")
	if err != nil {
		return nil, err
	}
	if !spendable.Equal(acc.SpendableBalance) {
		next.SpendableBalance = spendable
		changed = true
	}

	compound, compoundChanged, err := patchCompoundBalance(acc.CompoundBalance, r.CompoundBalance)
	if err != nil {
		return nil, err
	}
	if compoundChanged {
		next.CompoundBalance = compound
		changed = true
	}

	approvals := toApprovals(r.Approvals)
	if !cmp.Equal(acc.Approvals, approvals) {
		next.Approvals = approvals
		changed = true
	}

	creationDate, err := transform.ParseDate(r.CreationDate, "token account creation date")
	if err != nil {
		return nil, err
	}
	if !creationDate.Equal(acc.CreationDate) {
		next.CreationDate = creationDate
		changed = true
	}

	if r.BalanceHistoryCache != nil {
		candidate := transform.ToBalanceHistoryCache(r.BalanceHistoryCache)
		if ShouldRefreshBalanceHistoryCache(acc.BalanceHistoryCache, candidate) {
			next.BalanceHistoryCache = candidate
			changed = true
		}
	}

	if !changed {
		return acc, nil
	}
	return &next, nil
}

func patchChildAccount(acc *models.ChildAccount, r *raw.SubAccountRaw, opts []Option) (models.SubAccount, error) {
	next := *acc
	changed := false

	operations, err := PatchOperations(acc.Operations, r.Operations, acc.ID, opts...)
	if err != nil {
		return nil, err
	}
	if !sameOperationsRef(operations, acc.Operations) {
		next.Operations = operations
		changed = true
	}

	pending, err := PatchOperations(acc.PendingOperations, r.PendingOperations, acc.ID, opts...)
	if err != nil {
		return nil, err
	}
	if !sameOperationsRef(pending, acc.PendingOperations) {
		next.PendingOperations = pending
		changed = true
	}

	if count := rawOperationsCount(r.OperationsCount, operations); count != acc.OperationsCount {
		next.OperationsCount = count
		changed = true
	}

	balance, err := transform.ParseAmount(r.Balance, "child account balance")
	if err != nil {
		return nil, err
	}
	if !balance.Equal(acc.Balance) {
		next.Balance = balance
		changed = true
	}

	if r.Address != acc.Address {
		next.Address = r.Address
		changed = true
	}

	creationDate, err := transform.ParseDate(r.CreationDate, "child account creation date")
	if err != nil {
		return nil, err
	}
	if !creationDate.Equal(acc.CreationDate) {
		next.CreationDate = creationDate
		changed = true
	}

	if r.BalanceHistoryCache != nil {
		candidate := transform.ToBalanceHistoryCache(r.BalanceHistoryCache)
		if ShouldRefreshBalanceHistoryCache(acc.BalanceHistoryCache, candidate) {
			next.BalanceHistoryCache = candidate
			changed = true
		}
	}

	if !changed {
		return acc, nil
	}
	return &next, nil
}

func patchCompoundBalance(cached *decimal.Decimal, updated *string) (*decimal.Decimal, bool, error) {
	if updated == nil {
		return nil, cached != nil, nil
	}
	d, err := transform.ParseAmount(*updated, "token account compound balance")
	if err != nil {
		return nil, false, err
	}
	if cached != nil && cached.Equal(d) {
		return cached, false, nil
	}
	return &d, true, nil
}

func toApprovals(raws []raw.TokenApprovalRaw) []models.TokenApproval {
	if raws == nil {
		return nil
	}
	out := make([]models.TokenApproval, 0, len(raws))
	for _, a := range raws {
		out = append(out, models.TokenApproval{Sender: a.Sender, Value: a.Value})
	}
	return out
}
