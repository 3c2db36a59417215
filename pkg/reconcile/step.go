package reconcile

import (
	"go.uber.org/zap"

	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
)

// stepState is the accumulator threaded through one reconciliation walk. The
// walk goes strictly newest to oldest over the freshly built operations;
// existing is the still-searchable window of the previously cached list.
type stepState struct {
	operations []*models.Operation
	existing   []*models.Operation

	// immutableCmpDone guards the full semantic comparison so it runs at
	// most once per walk.
	immutableCmpDone bool
	finished         bool

	sameOp SameOpFunc
	logger *zap.Logger
}

func newStepState(existing []*models.Operation, cfg config) *stepState {
	return &stepState{
		existing: existing,
		sameOp:   cfg.sameOp,
		logger:   cfg.logger,
	}
}

// step folds one freshly built operation into the state. remaining counts the
// raw records left to process, including the one that produced newOp.
func (s *stepState) step(newOp *models.Operation, remaining int) {
	var existingOp *models.Operation
	j := -1
	for k, op := range s.existing {
		if op.ID == newOp.ID {
			existingOp, j = op, k
			break
		}
	}

	if existingOp != nil && !s.immutableCmpDone {
		if !models.SameBlockHeight(existingOp.BlockHeight, newOp.BlockHeight) {
			// The pending -> confirmed transition is the one sanctioned
			// change for a known operation id: take the fresh operation
			// instead of the cached twin and keep walking.
			s.operations = append(s.operations, newOp)
			return
		}

		s.immutableCmpDone = true
		if !s.sameOp(existingOp, newOp) {
			// The cache disagrees with freshly derived data in a way we
			// cannot repair locally (typically an upstream derivation
			// change). Drop the whole cached window and rebuild the rest
			// of the list from raw.
			s.logger.Warn("cached operation mismatch, dropping operation cache",
				zap.String("accountId", newOp.AccountID),
				zap.String("operationId", newOp.ID),
				zap.Int("remainingRecords", remaining))
			s.existing = nil
			s.operations = append(s.operations, newOp)
			return
		}
	}

	if existingOp != nil {
		rest := s.existing[j:]
		if len(rest) > remaining {
			// More cached entries remain than raw records left to walk; an
			// older entry could still have been dropped from the middle of
			// the window. Keep the cached twin (identity preserved) and
			// keep walking. Heuristic, not a proof.
			s.operations = append(s.operations, existingOp)
			return
		}

		// The remaining cached suffix is guaranteed untouched.
		s.finished = true
		if len(s.operations) == 0 && j == 0 {
			// Nothing new on top: hand back the cached slice itself so
			// callers can skip downstream work on identity.
			s.operations = s.existing
		} else {
			s.operations = append(s.operations, rest...)
		}
		return
	}

	s.operations = append(s.operations, newOp)
}
