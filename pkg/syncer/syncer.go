// Package syncer coordinates reconciliation across many accounts. Fetching
// stays with the caller (the Source); the syncer adds bounded parallelism,
// retry around the fetch, and the per-account serialization the reconciliation
// core requires.
package syncer

import (
	"context"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
	"github.com/nimbuswallet/chainmirror/pkg/logging"
	"github.com/nimbuswallet/chainmirror/pkg/reconcile"
	"github.com/nimbuswallet/chainmirror/pkg/retry"
	"github.com/nimbuswallet/chainmirror/pkg/utils"
)

// Source supplies the freshly observed raw snapshot for one account. It is
// the only external call the syncer makes, so it is the only retried one.
type Source interface {
	FetchSnapshot(ctx context.Context, accountID string) (*raw.AccountRaw, error)
}

// Result is the outcome of reconciling one account. Changed is false when the
// returned Account is the cached pointer itself.
type Result struct {
	Account *models.Account
	Changed bool
	Err     error
}

// Syncer runs reconciliation over batches of accounts. Distinct accounts
// reconcile concurrently on the pool; repeated submissions of the same account
// serialize on a per-account lock, which the core requires.
type Syncer struct {
	logger *zap.Logger
	pool   pond.Pool
	retry  retry.Config

	locks *xsync.Map[string, *sync.Mutex]

	reconcileOpts []reconcile.Option
}

// New builds a Syncer. Worker count comes from SYNC_WORKERS (default 4) and
// the first fetch retry delay from SYNC_RETRY_DELAY. Reconcile options
// (registry, sameOp override) apply to every account.
func New(logger *zap.Logger, opts ...reconcile.Option) *Syncer {
	logger = logging.OrNop(logger)
	workers := utils.EnvInt("SYNC_WORKERS", 4)
	retryCfg := retry.DefaultConfig()
	retryCfg.InitialDelay = utils.EnvDuration("SYNC_RETRY_DELAY", retryCfg.InitialDelay)
	return &Syncer{
		logger:        logger,
		pool:          pond.NewPool(workers),
		retry:         retryCfg,
		locks:         xsync.NewMap[string, *sync.Mutex](),
		reconcileOpts: append(opts, reconcile.WithLogger(logger)),
	}
}

// ReconcileBatch fetches a snapshot for every cached account through source
// and patches each one. Results preserve input order; one account's failure
// never aborts the rest.
func (s *Syncer) ReconcileBatch(ctx context.Context, accounts []*models.Account, source Source) []Result {
	results := make([]Result, len(accounts))
	group := s.pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for i, acc := range accounts {
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				results[i] = Result{Account: acc, Err: err}
				return
			}
			results[i] = s.reconcileOne(groupCtx, acc, source)
		})
	}

	_ = group.Wait()
	return results
}

func (s *Syncer) reconcileOne(ctx context.Context, acc *models.Account, source Source) Result {
	mu, _ := s.locks.LoadOrStore(acc.ID, &sync.Mutex{})
	mu.Lock()
	defer mu.Unlock()

	snapshot, err := retry.Do(ctx, s.retry, s.logger, "fetch snapshot", func() (*raw.AccountRaw, error) {
		return source.FetchSnapshot(ctx, acc.ID)
	})
	if err != nil {
		s.logger.Warn("snapshot fetch failed",
			zap.String("accountId", acc.ID),
			zap.Error(err))
		return Result{Account: acc, Err: err}
	}

	patched, err := reconcile.PatchAccount(acc, snapshot, s.reconcileOpts...)
	if err != nil {
		return Result{Account: acc, Err: err}
	}

	changed := patched != acc
	if changed {
		s.logger.Debug("account changed on reconciliation",
			zap.String("accountId", acc.ID),
			zap.Int("numOperations", len(patched.Operations)))
	}
	return Result{Account: patched, Changed: changed}
}

// Stop releases the worker pool. The syncer must not be used afterwards.
func (s *Syncer) Stop() {
	s.pool.StopAndWait()
}
