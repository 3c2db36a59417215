package reconcile

import (
	"context"

	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
)

// BuildOperation turns one chain-level record into zero or one operation.
// Returning (nil, nil) skips the record. The context variant may block on
// external lookups; the walk awaits each call before moving to the next
// record, so output order never depends on adapter latency.
type BuildOperation[CO any] func(ctx context.Context, co CO) (*models.Operation, error)

// BuildOperationSync is the non-blocking adapter variant.
type BuildOperationSync[CO any] func(co CO) (*models.Operation, error)

// MergeSameHash collapses a run of adjacent operations sharing one transaction
// hash (e.g. the outputs of a multi-output transfer) into a single logical
// operation. It is called with runs of length one as well.
type MergeSameHash func(ops []*models.Operation) *models.Operation

// MinimalOperations merges freshly observed records (newest first) into the
// previously reconciled list (newest first), reusing cached operation pointers
// and, when nothing changed, the cached slice itself. The walk stops as soon
// as the remaining cached suffix is proven unaffected, so reconciling a long,
// mostly-unchanged history costs roughly the size of the new-data prefix.
//
// merge may be nil. Inputs are never mutated.
func MinimalOperations[CO any](
	ctx context.Context,
	existing []*models.Operation,
	core []CO,
	build BuildOperation[CO],
	merge MergeSameHash,
	opts ...Option,
) ([]*models.Operation, error) {
	return runMinimalOperations(existing, core, func(co CO) (*models.Operation, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return build(ctx, co)
	}, merge, newConfig(opts))
}

// MinimalOperationsSync is MinimalOperations with a non-blocking adapter.
// Matching semantics are identical.
func MinimalOperationsSync[CO any](
	existing []*models.Operation,
	core []CO,
	build BuildOperationSync[CO],
	merge MergeSameHash,
	opts ...Option,
) ([]*models.Operation, error) {
	return runMinimalOperations(existing, core, build, merge, newConfig(opts))
}

func runMinimalOperations[CO any](
	existing []*models.Operation,
	core []CO,
	build func(CO) (*models.Operation, error),
	merge MergeSameHash,
	cfg config,
) ([]*models.Operation, error) {
	if len(existing) == 0 && len(core) == 0 {
		return existing, nil
	}

	state := newStepState(existing, cfg)

	// Pending run of adjacent same-hash operations, only used with a merger.
	var sameHashRun []*models.Operation

	for i, co := range core {
		newOp, err := build(co)
		if err != nil {
			return nil, err
		}
		if newOp == nil {
			continue
		}

		if merge != nil {
			if len(sameHashRun) == 0 || sameHashRun[0].Hash == newOp.Hash {
				sameHashRun = append(sameHashRun, newOp)
				continue
			}
			// Hash boundary: flush the completed run as one logical op.
			// Its last record sat at index i-1, so i-1 onward is what
			// remains unprocessed from the run's point of view.
			state.step(merge(sameHashRun), len(core)-i+1)
			sameHashRun = []*models.Operation{newOp}
		} else {
			state.step(newOp, len(core)-i)
		}

		if state.finished {
			return state.operations, nil
		}
	}

	if len(sameHashRun) > 0 && !state.finished {
		state.step(merge(sameHashRun), 1)
	}

	return state.operations, nil
}
