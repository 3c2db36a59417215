package reconcile

import (
	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/transform"
)

// PatchOperations reconciles a cached operation list against the raw records
// of a snapshot, using the serialization boundary's converter as the build
// adapter. Same reuse guarantees as MinimalOperationsSync.
func PatchOperations(
	existing []*models.Operation,
	raws []*raw.OperationRaw,
	accountID string,
	opts ...Option,
) ([]*models.Operation, error) {
	cfg := newConfig(opts)
	return runMinimalOperations(existing, raws, func(r *raw.OperationRaw) (*models.Operation, error) {
		return transform.ToOperation(cfg.registry, r, accountID)
	}, nil, cfg)
}

// sameOperationsRef reports whether two operation slices are the same list,
// by identity. The builders return the cached slice value when nothing
// changed, so comparing the backing array is enough.
func sameOperationsRef(a, b []*models.Operation) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
