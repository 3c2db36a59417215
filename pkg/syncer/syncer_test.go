package syncer_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nimbuswallet/chainmirror/pkg/family"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/transform"
	"github.com/nimbuswallet/chainmirror/pkg/reconcile"
	"github.com/nimbuswallet/chainmirror/pkg/syncer"
)

func snapshotFor(accountID, balance string) *raw.AccountRaw {
	h := uint64(40)
	return &raw.AccountRaw{
		ID:           accountID,
		Balance:      balance,
		CreationDate: "2026-01-01T00:00:00Z",
		Operations: []*raw.OperationRaw{{
			ID:          accountID + "-o1",
			Hash:        "h1",
			AccountID:   accountID,
			Type:        "IN",
			Value:       "5",
			Fee:         "1",
			BlockHeight: &h,
			Date:        "2026-03-01T12:00:00Z",
		}},
	}
}

// mapSource serves canned snapshots and counts fetches.
type mapSource struct {
	snapshots map[string]*raw.AccountRaw
	fetches   atomic.Int64
}

func (s *mapSource) FetchSnapshot(_ context.Context, accountID string) (*raw.AccountRaw, error) {
	s.fetches.Add(1)
	snap, ok := s.snapshots[accountID]
	if !ok {
		return nil, errors.New("unknown account")
	}
	return snap, nil
}

func buildFromSnapshot(t *testing.T, reg *family.Registry, snap *raw.AccountRaw) *models.Account {
	t.Helper()
	acc, err := transform.ToAccount(reg, snap)
	require.NoError(t, err)
	return acc
}

func TestReconcileBatch(t *testing.T) {
	reg := family.NewRegistry()
	id1 := "js:2:testnet:addr1:"
	id2 := "js:2:testnet:addr2:"

	acc1 := buildFromSnapshot(t, reg, snapshotFor(id1, "100"))
	acc2 := buildFromSnapshot(t, reg, snapshotFor(id2, "200"))

	source := &mapSource{snapshots: map[string]*raw.AccountRaw{
		id1: snapshotFor(id1, "150"), // balance moved
		id2: snapshotFor(id2, "200"), // untouched
	}}

	s := syncer.New(zaptest.NewLogger(t), reconcile.WithRegistry(reg))
	defer s.Stop()

	results := s.ReconcileBatch(context.Background(), []*models.Account{acc1, acc2}, source)
	require.Len(t, results, 2)

	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Changed)
	assert.Equal(t, "150", results[0].Account.Balance.String())
	assert.Same(t, acc1.Operations[0], results[0].Account.Operations[0])

	require.NoError(t, results[1].Err)
	assert.False(t, results[1].Changed)
	assert.Same(t, acc2, results[1].Account, "unchanged account comes back by reference")
}

func TestReconcileBatch_SourceFailureIsIsolated(t *testing.T) {
	reg := family.NewRegistry()
	id1 := "js:2:testnet:addr1:"
	id2 := "js:2:testnet:addr2:"

	acc1 := buildFromSnapshot(t, reg, snapshotFor(id1, "100"))
	acc2 := buildFromSnapshot(t, reg, snapshotFor(id2, "200"))

	// Only addr2 is known to the source; addr1 fails every retry.
	source := &mapSource{snapshots: map[string]*raw.AccountRaw{
		id2: snapshotFor(id2, "250"),
	}}

	t.Setenv("SYNC_RETRY_DELAY", "1ms")
	s := syncer.New(zaptest.NewLogger(t), reconcile.WithRegistry(reg))
	defer s.Stop()

	results := s.ReconcileBatch(context.Background(), []*models.Account{acc1, acc2}, source)
	require.Len(t, results, 2)

	require.Error(t, results[0].Err)
	assert.Same(t, acc1, results[0].Account, "failed fetch leaves the cached account untouched")

	require.NoError(t, results[1].Err)
	assert.True(t, results[1].Changed)
	assert.Equal(t, "250", results[1].Account.Balance.String())
}
