package transform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nimbuswallet/chainmirror/pkg/family"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
)

// ToSubAccount maps one raw sub-account record into the live sum type.
// An unrecognized discriminant is a hard failure (ErrUnknownSubAccountType):
// it indicates a format/version mismatch no recovery is defined for.
func ToSubAccount(reg *family.Registry, r *raw.SubAccountRaw, parentID string) (models.SubAccount, error) {
	switch r.Type {
	case raw.TypeTokenAccount:
		return toTokenAccount(reg, r, parentID)
	case raw.TypeChildAccount:
		return toChildAccount(reg, r, parentID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubAccountType, r.Type)
	}
}

func toTokenAccount(reg *family.Registry, r *raw.SubAccountRaw, parentID string) (*models.TokenAccount, error) {
	balance, err := ParseAmount(r.Balance, "token account balance")
	if err != nil {
		return nil, err
	}
	spendable, err := ParseAmount(r.SpendableBalance, "token account spendable balance")
	if err != nil {
		return nil, err
	}
	var compound *decimal.Decimal
	if r.CompoundBalance != nil {
		d, err := ParseAmount(*r.CompoundBalance, "token account compound balance")
		if err != nil {
			return nil, err
		}
		compound = &d
	}
	creationDate, err := ParseDate(r.CreationDate, "token account creation date")
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

	var approvals []models.TokenApproval
	for _, a := range r.Approvals {
		approvals = append(approvals, models.TokenApproval{Sender: a.Sender, Value: a.Value})
	}

	return &models.TokenAccount{
		ID:                  r.ID,
		ParentID:            parentID,
		TokenID:             r.TokenID,
		CreationDate:        creationDate,
		Balance:             balance,
		SpendableBalance:    spendable,
		CompoundBalance:     compound,
		Operations:          operations,
		PendingOperations:   pending,
		OperationsCount:     operationsCount(r.OperationsCount, operations),
		Approvals:           approvals,
		BalanceHistoryCache: ToBalanceHistoryCache(r.BalanceHistoryCache),
	}, nil
}

func toChildAccount(reg *family.Registry, r *raw.SubAccountRaw, parentID string) (*models.ChildAccount, error) {
	balance, err := ParseAmount(r.Balance, "child account balance")
	if err != nil {
		return nil, err
	}
	creationDate, err := ParseDate(r.CreationDate, "child account creation date")
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

	return &models.ChildAccount{
		ID:                  r.ID,
		ParentID:            parentID,
		Address:             r.Address,
		CreationDate:        creationDate,
		Balance:             balance,
		Operations:          operations,
		PendingOperations:   pending,
		OperationsCount:     operationsCount(r.OperationsCount, operations),
		BalanceHistoryCache: ToBalanceHistoryCache(r.BalanceHistoryCache),
	}, nil
}

// operationsCount falls back to the loaded list length for snapshots that
// predate tail-count support.
func operationsCount(count int, ops []*models.Operation) int {
	if count > 0 {
		return count
	}
	return len(ops)
}

// FromSubAccount maps a live sub-account back into its raw record.
func FromSubAccount(reg *family.Registry, sa models.SubAccount) (*raw.SubAccountRaw, error) {
	switch a := sa.(type) {
	case *models.TokenAccount:
		operations, err := fromOperations(reg, a.Operations)
		if err != nil {
			return nil, err
		}
		pending, err := fromOperations(reg, a.PendingOperations)
		if err != nil {
			return nil, err
		}
		var approvals []raw.TokenApprovalRaw
		for _, ap := range a.Approvals {
			approvals = append(approvals, raw.TokenApprovalRaw{Sender: ap.Sender, Value: ap.Value})
		}
		var compound *string
		if a.CompoundBalance != nil {
			s := a.CompoundBalance.String()
			compound = &s
		}
		return &raw.SubAccountRaw{
			Type:                raw.TypeTokenAccount,
			ID:                  a.ID,
			ParentID:            a.ParentID,
			TokenID:             a.TokenID,
			Balance:             a.Balance.String(),
			SpendableBalance:    a.SpendableBalance.String(),
			CompoundBalance:     compound,
			Approvals:           approvals,
			CreationDate:        formatDate(a.CreationDate),
			Operations:          operations,
			PendingOperations:   pending,
			OperationsCount:     a.OperationsCount,
			BalanceHistoryCache: FromBalanceHistoryCache(a.BalanceHistoryCache),
		}, nil
	case *models.ChildAccount:
		operations, err := fromOperations(reg, a.Operations)
		if err != nil {
			return nil, err
		}
		pending, err := fromOperations(reg, a.PendingOperations)
		if err != nil {
			return nil, err
		}
		return &raw.SubAccountRaw{
			Type:                raw.TypeChildAccount,
			ID:                  a.ID,
			ParentID:            a.ParentID,
			Address:             a.Address,
			Balance:             a.Balance.String(),
			CreationDate:        formatDate(a.CreationDate),
			Operations:          operations,
			PendingOperations:   pending,
			OperationsCount:     a.OperationsCount,
			BalanceHistoryCache: FromBalanceHistoryCache(a.BalanceHistoryCache),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownSubAccountType, sa)
	}
}
