package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbuswallet/chainmirror/pkg/family"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/transform"
	"github.com/nimbuswallet/chainmirror/pkg/reconcile"
)

func buildTokenAccount(t *testing.T, reg *family.Registry, id string) *models.TokenAccount {
	t.Helper()
	sa, err := transform.ToSubAccount(reg, rawTokenAccount(id), testAccountID)
	require.NoError(t, err)
	return sa.(*models.TokenAccount)
}

func TestPatchSubAccount_Unchanged(t *testing.T) {
	reg := family.NewRegistry()
	cached := buildTokenAccount(t, reg, "sub1")

	patched, err := reconcile.PatchSubAccount(cached, rawTokenAccount("sub1"), testAccountID,
		reconcile.WithRegistry(reg))
	require.NoError(t, err)
	assert.Same(t, cached, patched)
}

func TestPatchSubAccount_NilCachedBuildsFromRaw(t *testing.T) {
	reg := family.NewRegistry()
	patched, err := reconcile.PatchSubAccount(nil, rawTokenAccount("sub1"), testAccountID,
		reconcile.WithRegistry(reg))
	require.NoError(t, err)
	require.IsType(t, &models.TokenAccount{}, patched)
	assert.Equal(t, "sub1", patched.SubID())
	assert.Equal(t, testAccountID, patched.ParentAccountID())
}

func TestPatchSubAccount_ParentMismatchRebuilds(t *testing.T) {
	reg := family.NewRegistry()
	cached := buildTokenAccount(t, reg, "sub1")

	otherParent := "js:2:testnet:addr9:"
	patched, err := reconcile.PatchSubAccount(cached, rawTokenAccount("sub1"), otherParent,
		reconcile.WithRegistry(reg))
	require.NoError(t, err)
	assert.NotSame(t, cached, patched, "a different parent id means a different logical sub-account")
	assert.Equal(t, otherParent, patched.ParentAccountID())
}

func TestPatchSubAccount_VariantChangeRebuilds(t *testing.T) {
	reg := family.NewRegistry()
	cached := buildTokenAccount(t, reg, "sub1")

	updated := &raw.SubAccountRaw{
		Type:         raw.TypeChildAccount,
		ID:           "sub1",
		Address:      "childaddr",
		Balance:      "42",
		CreationDate: "2026-01-01T00:00:00Z",
	}

	patched, err := reconcile.PatchSubAccount(cached, updated, testAccountID,
		reconcile.WithRegistry(reg))
	require.NoError(t, err)
	require.IsType(t, &models.ChildAccount{}, patched)
	assert.Equal(t, "childaddr", patched.(*models.ChildAccount).Address)
}

func TestPatchSubAccount_TokenFieldsPatched(t *testing.T) {
	reg := family.NewRegistry()
	cached := buildTokenAccount(t, reg, "sub1")

	updated := rawTokenAccount("sub1")
	updated.SpendableBalance = "30"
	compound := "12"
	updated.CompoundBalance = &compound
	updated.Approvals = []raw.TokenApprovalRaw{{Sender: "spender", Value: "99"}}

	patched, err := reconcile.PatchSubAccount(cached, updated, testAccountID,
		reconcile.WithRegistry(reg))
	require.NoError(t, err)
	require.NotSame(t, cached, patched)

	token := patched.(*models.TokenAccount)
	assert.Equal(t, "30", token.SpendableBalance.String())
	require.NotNil(t, token.CompoundBalance)
	assert.Equal(t, "12", token.CompoundBalance.String())
	require.Len(t, token.Approvals, 1)
	assert.Equal(t, "spender", token.Approvals[0].Sender)
	assert.Same(t, cached.Operations[0], token.Operations[0], "operations keep identity across a field patch")
}
