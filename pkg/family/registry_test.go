package family_test

import (
	"testing"

	"github.com/go-jose/go-jose/v4/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbuswallet/chainmirror/pkg/family"
)

type nopCapability struct{}

func (nopCapability) DecodeExtra(r json.RawMessage) (any, error)         { return r, nil }
func (nopCapability) EncodeExtra(extra any) (json.RawMessage, error)     { return nil, nil }
func (nopCapability) BuildResourcesFromRaw(json.RawMessage) (any, error) { return nil, nil }
func (nopCapability) PatchResources(cached any, r json.RawMessage) (any, bool, error) {
	return cached, false, nil
}

func TestFamilyOf(t *testing.T) {
	assert.Equal(t, "bitcoin", family.FamilyOf("js:2:bitcoin:xpub123:native_segwit"))
	assert.Equal(t, "ethereum", family.FamilyOf("js:2:ethereum:0xabc:"))
	assert.Equal(t, "", family.FamilyOf("not-an-account-id"))
	assert.Equal(t, "", family.FamilyOf(""))
}

func TestRegistry_RegisterLookup(t *testing.T) {
	reg := family.NewRegistry()

	_, ok := reg.Lookup("bitcoin")
	assert.False(t, ok, "absent capability is a valid default, not an error")

	reg.Register("bitcoin", nopCapability{})
	c, ok := reg.Lookup("bitcoin")
	require.True(t, ok)
	assert.NotNil(t, c)

	c, ok = reg.LookupForAccount("js:2:bitcoin:xpub123:native_segwit")
	require.True(t, ok)
	assert.NotNil(t, c)

	_, ok = reg.LookupForAccount("js:2:ethereum:0xabc:")
	assert.False(t, ok)
}
