package transform_test

import (
	"errors"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbuswallet/chainmirror/pkg/family"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/models"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/raw"
	"github.com/nimbuswallet/chainmirror/pkg/ledger/transform"
)

const accountID = "js:2:testnet:addr1:"

func sampleOperationRaw() *raw.OperationRaw {
	h := uint64(50)
	return &raw.OperationRaw{
		ID:          "op1",
		Hash:        "h1",
		AccountID:   accountID,
		Type:        "IN",
		Senders:     []string{"a"},
		Recipients:  []string{"b"},
		Value:       "10.5",
		Fee:         "0.1",
		BlockHeight: &h,
		Date:        "2026-03-01T12:00:00Z",
	}
}

func TestToOperation_RoundTrip(t *testing.T) {
	reg := family.NewRegistry()

	op, err := transform.ToOperation(reg, sampleOperationRaw(), accountID)
	require.NoError(t, err)
	assert.Equal(t, "op1", op.ID)
	assert.Equal(t, "10.5", op.Value.String())
	assert.Equal(t, "0.1", op.Fee.String())
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), op.Date)

	back, err := transform.FromOperation(reg, op)
	require.NoError(t, err)
	assert.Equal(t, sampleOperationRaw(), back)
}

func TestToOperation_BadAmount(t *testing.T) {
	r := sampleOperationRaw()
	r.Value = "not-a-number"
	_, err := transform.ToOperation(family.NewRegistry(), r, accountID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation value")
}

func TestToOperation_ExtraPassThroughWithoutCapability(t *testing.T) {
	r := sampleOperationRaw()
	r.Extra = json.RawMessage(`{"nonce":7}`)

	op, err := transform.ToOperation(family.NewRegistry(), r, accountID)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`{"nonce":7}`), op.Extra)

	back, err := transform.FromOperation(family.NewRegistry(), op)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`{"nonce":7}`), back.Extra)
}

func TestToSubAccount_UnknownTypeFails(t *testing.T) {
	_, err := transform.ToSubAccount(family.NewRegistry(), &raw.SubAccountRaw{Type: "MysteryRaw", ID: "x"}, accountID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, transform.ErrUnknownSubAccountType))
	assert.Contains(t, err.Error(), "MysteryRaw")
}

func TestToSubAccount_Variants(t *testing.T) {
	reg := family.NewRegistry()

	token, err := transform.ToSubAccount(reg, &raw.SubAccountRaw{
		Type:             raw.TypeTokenAccount,
		ID:               "t1",
		TokenID:          "testnet/erc20/tok",
		Balance:          "5",
		SpendableBalance: "4",
		CreationDate:     "2026-01-01T00:00:00Z",
	}, accountID)
	require.NoError(t, err)
	require.IsType(t, &models.TokenAccount{}, token)
	assert.Equal(t, accountID, token.ParentAccountID())

	child, err := transform.ToSubAccount(reg, &raw.SubAccountRaw{
		Type:         raw.TypeChildAccount,
		ID:           "c1",
		Address:      "childaddr",
		Balance:      "5",
		CreationDate: "2026-01-01T00:00:00Z",
	}, accountID)
	require.NoError(t, err)
	require.IsType(t, &models.ChildAccount{}, child)
}

func TestToAccount_OperationsCountFallback(t *testing.T) {
	acc, err := transform.ToAccount(family.NewRegistry(), &raw.AccountRaw{
		ID:         accountID,
		Balance:    "1",
		Operations: []*raw.OperationRaw{sampleOperationRaw()},
		// OperationsCount deliberately absent
	})
	require.NoError(t, err)
	assert.Equal(t, 1, acc.OperationsCount)
}

func TestAccountRaw_EncodeDecode(t *testing.T) {
	in := &raw.AccountRaw{
		ID:           accountID,
		Balance:      "1000",
		CreationDate: "2026-01-01T00:00:00Z",
		Operations:   []*raw.OperationRaw{sampleOperationRaw()},
	}

	data, err := raw.EncodeAccount(in)
	require.NoError(t, err)
	out, err := raw.DecodeAccount(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
