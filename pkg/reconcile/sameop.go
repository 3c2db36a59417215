package reconcile

import (
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
)

// decimalComparer lets go-cmp compare decimal values semantically (decimal has
// unexported fields and multiple representations of the same number).
var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

// SameOp is the default semantic-equality predicate between a cached and a
// freshly built operation. It deliberately ignores BlockHeight: the pending ->
// confirmed transition is handled separately by the step builder.
func SameOp(a, b *models.Operation) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.ID == b.ID &&
		a.Hash == b.Hash &&
		a.Type == b.Type &&
		a.Value.Equal(b.Value) &&
		a.Fee.Equal(b.Fee) &&
		cmp.Equal(a.Senders, b.Senders) &&
		cmp.Equal(a.Recipients, b.Recipients)
}
