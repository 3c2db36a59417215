// Package reconcile merges freshly observed chain data into the cached account
// mirror with minimal replacement: whenever content is unchanged the cached
// reference is returned as-is, at the granularity of the whole account, each
// sub-account, each operations slice, and each operation. Downstream views
// detect change by identity, so that reuse is part of the contract.
package reconcile

import (
	"go.uber.org/zap"

	"github.com/nimbuswallet/chainmirror/pkg/family"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/logging"
)

// SameOpFunc decides whether two operations are semantically identical,
// independent of pointer identity.
type SameOpFunc func(a, b *models.Operation) bool

type config struct {
	logger   *zap.Logger
	sameOp   SameOpFunc
	registry *family.Registry
}

// Option customizes a reconciliation call.
type Option func(*config)

// WithLogger routes diagnostics (stale-cache warnings) to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithSameOp replaces the default semantic-equality predicate.
func WithSameOp(fn SameOpFunc) Option {
	return func(c *config) { c.sameOp = fn }
}

// WithRegistry uses r instead of the process-wide family registry.
func WithRegistry(r *family.Registry) Option {
	return func(c *config) { c.registry = r }
}

func newConfig(opts []Option) config {
	cfg := config{
		sameOp:   SameOp,
		registry: family.Default(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	cfg.logger = logging.OrNop(cfg.logger)
	return cfg
}
