// Package transform converts between the raw serialized snapshot records and
// the live in-memory model. Conversions are fallible at the boundary (decimal
// strings, ISO-8601 dates, sub-account discriminants); everything past the
// boundary works on the typed model only.
package transform

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4/json"
	"github.com/shopspring/decimal"

	"github.com/nimbuswallet/chainmirror/pkg/family"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
)

func registry(reg *family.Registry) *family.Registry {
	if reg == nil {
		return family.Default()
	}
	return reg
}

// ParseAmount parses a decimal-string amount; the empty string is zero.
func ParseAmount(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}

// ParseDate parses an ISO-8601 timestamp; the empty string is the zero time.
func ParseDate(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return t, nil
}

// ToOperation maps one raw operation record into the live model. accountID
// overrides the record's own account id so nested operations inherit their
// owner. The extra payload goes through the family capability when one is
// registered for the account's family, and passes through opaque otherwise.
func ToOperation(reg *family.Registry, r *raw.OperationRaw, accountID string) (*models.Operation, error) {
	value, err := ParseAmount(r.Value, "operation value")
	if err != nil {
		return nil, err
	}
	fee, err := ParseAmount(r.Fee, "operation fee")
	if err != nil {
		return nil, err
	}
	date, err := ParseDate(r.Date, "operation date")
	if err != nil {
		return nil, err
	}

	var extra any
	if len(r.Extra) > 0 {
		if c, ok := registry(reg).LookupForAccount(accountID); ok {
			extra, err = c.DecodeExtra(r.Extra)
			if err != nil {
				return nil, fmt.Errorf("decode extra for %s: %w", r.ID, err)
			}
		} else {
			extra = r.Extra
		}
	}

	op := &models.Operation{
		ID:          r.ID,
		Hash:        r.Hash,
		AccountID:   accountID,
		Type:        r.Type,
		Senders:     r.Senders,
		Recipients:  r.Recipients,
		Value:       value,
		Fee:         fee,
		BlockHeight: r.BlockHeight,
		BlockHash:   r.BlockHash,
		Date:        date,
		Extra:       extra,
	}

	if op.SubOperations, err = toOperations(reg, r.SubOperations, accountID); err != nil {
		return nil, err
	}
	if op.InternalOperations, err = toOperations(reg, r.InternalOperations, accountID); err != nil {
		return nil, err
	}
	if op.NFTOperations, err = toOperations(reg, r.NFTOperations, accountID); err != nil {
		return nil, err
	}
	return op, nil
}

func toOperations(reg *family.Registry, rs []*raw.OperationRaw, accountID string) ([]*models.Operation, error) {
	if rs == nil {
		return nil, nil
	}
	out := make([]*models.Operation, 0, len(rs))
	for _, r := range rs {
		op, err := ToOperation(reg, r, accountID)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, nil
}

// FromOperation maps a live operation back into its raw record.
func FromOperation(reg *family.Registry, op *models.Operation) (*raw.OperationRaw, error) {
	r := &raw.OperationRaw{
		ID:          op.ID,
		Hash:        op.Hash,
		AccountID:   op.AccountID,
		Type:        op.Type,
		Senders:     op.Senders,
		Recipients:  op.Recipients,
		Value:       op.Value.String(),
		Fee:         op.Fee.String(),
		BlockHeight: op.BlockHeight,
		BlockHash:   op.BlockHash,
		Date:        op.Date.UTC().Format(time.RFC3339),
	}

	if op.Extra != nil {
		if c, ok := registry(reg).LookupForAccount(op.AccountID); ok {
			enc, err := c.EncodeExtra(op.Extra)
			if err != nil {
				return nil, fmt.Errorf("encode extra for %s: %w", op.ID, err)
			}
			r.Extra = enc
		} else if passthrough, ok := op.Extra.(json.RawMessage); ok {
			r.Extra = passthrough
		}
	}

	var err error
	if r.SubOperations, err = fromOperations(reg, op.SubOperations); err != nil {
		return nil, err
	}
	if r.InternalOperations, err = fromOperations(reg, op.InternalOperations); err != nil {
		return nil, err
	}
	if r.NFTOperations, err = fromOperations(reg, op.NFTOperations); err != nil {
		return nil, err
	}
	return r, nil
}

func fromOperations(reg *family.Registry, ops []*models.Operation) ([]*raw.OperationRaw, error) {
	if ops == nil {
		return nil, nil
	}
	out := make([]*raw.OperationRaw, 0, len(ops))
	for _, op := range ops {
		r, err := FromOperation(reg, op)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
