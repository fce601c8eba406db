package cryptox

import (
	"testing"

	"github.com/finledger/finledger/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMasterKey_DeterministicPerSalt(t *testing.T) {
	salt := common.GenerateRandByteArray(16)

	k1 := DeriveMasterKey([]byte("pw"), salt)
	k2 := DeriveMasterKey([]byte("pw"), salt)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 32)

	other := DeriveMasterKey([]byte("pw"), common.GenerateRandByteArray(16))
	assert.NotEqual(t, k1, other)
}

func TestWrapUnwrapKey_RoundTrip(t *testing.T) {
	pub, priv, err := GenerateKeyPair()
	require.NoError(t, err)

	categoryKey := common.GenerateRandByteArray(32)
	wrapped, err := WrapKey(pub, categoryKey)
	require.NoError(t, err)
	assert.NotContains(t, wrapped, string(categoryKey))

	got, err := UnwrapKey(priv, wrapped)
	require.NoError(t, err)
	assert.Equal(t, categoryKey, got)
}

func TestUnwrapKey_WrongKeyFails(t *testing.T) {
	pub, _, err := GenerateKeyPair()
	require.NoError(t, err)
	_, otherPriv, err := GenerateKeyPair()
	require.NoError(t, err)

	wrapped, err := WrapKey(pub, common.GenerateRandByteArray(32))
	require.NoError(t, err)

	_, err = UnwrapKey(otherPriv, wrapped)
	assert.Error(t, err)
}

func TestSealUnsealPrivateKey_RoundTrip(t *testing.T) {
	_, priv, err := GenerateKeyPair()
	require.NoError(t, err)

	master := DeriveMasterKey([]byte("pw"), common.GenerateRandByteArray(16))
	sealed, err := SealPrivateKey(priv, master)
	require.NoError(t, err)

	got, err := UnsealPrivateKey(sealed, master)
	require.NoError(t, err)
	assert.Equal(t, priv, got)
}

func TestUnsealPrivateKey_WrongMasterKeyFails(t *testing.T) {
	_, priv, err := GenerateKeyPair()
	require.NoError(t, err)

	salt := common.GenerateRandByteArray(16)
	sealed, err := SealPrivateKey(priv, DeriveMasterKey([]byte("pw"), salt))
	require.NoError(t, err)

	_, err = UnsealPrivateKey(sealed, DeriveMasterKey([]byte("other"), salt))
	assert.Error(t, err)
}
