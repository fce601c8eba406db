package srp

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testIdentity struct {
	username   string
	salt       string
	privateKey string
	verifier   string
}

func register(t *testing.T, username, password string) testIdentity {
	t.Helper()
	salt, err := GenerateSalt()
	require.NoError(t, err)
	x, err := DerivePrivateKey(salt, username, password)
	require.NoError(t, err)
	v, err := DeriveVerifier(x)
	require.NoError(t, err)
	return testIdentity{username: username, salt: salt, privateKey: x, verifier: v}
}

func TestHandshake_RoundTrip(t *testing.T) {
	id := register(t, "alice", "hunter22")

	server, err := GenerateEphemeral(id.verifier)
	require.NoError(t, err)
	client, err := GenerateClientEphemeral()
	require.NoError(t, err)

	clientSession, err := DeriveClientSession(id.salt, id.username, id.privateKey, client.Secret, server.Public)
	require.NoError(t, err)

	serverSession, err := DeriveServerSession(server.Secret, client.Public, id.salt, id.username, id.verifier, clientSession.Proof)
	require.NoError(t, err)

	assert.Equal(t, clientSession.Key, serverSession.Key)
	assert.True(t, VerifyServerProof(client.Public, clientSession, serverSession.Proof))
}

func TestHandshake_WrongPassword(t *testing.T) {
	id := register(t, "alice", "hunter22")

	server, err := GenerateEphemeral(id.verifier)
	require.NoError(t, err)
	client, err := GenerateClientEphemeral()
	require.NoError(t, err)

	wrongKey, err := DerivePrivateKey(id.salt, id.username, "hunter23")
	require.NoError(t, err)
	clientSession, err := DeriveClientSession(id.salt, id.username, wrongKey, client.Secret, server.Public)
	require.NoError(t, err)

	_, err = DeriveServerSession(server.Secret, client.Public, id.salt, id.username, id.verifier, clientSession.Proof)
	assert.ErrorIs(t, err, ErrProofMismatch)
}

func TestHandshake_SingleBitProofMutation(t *testing.T) {
	id := register(t, "bob", "correct horse")

	server, err := GenerateEphemeral(id.verifier)
	require.NoError(t, err)
	client, err := GenerateClientEphemeral()
	require.NoError(t, err)

	clientSession, err := DeriveClientSession(id.salt, id.username, id.privateKey, client.Secret, server.Public)
	require.NoError(t, err)

	proof, err := hex.DecodeString(clientSession.Proof)
	require.NoError(t, err)
	proof[0] ^= 0x01

	_, err = DeriveServerSession(server.Secret, client.Public, id.salt, id.username, id.verifier, hex.EncodeToString(proof))
	assert.ErrorIs(t, err, ErrProofMismatch)
}

func TestHandshake_EphemeralMismatch(t *testing.T) {
	id := register(t, "carol", "pw")

	server, err := GenerateEphemeral(id.verifier)
	require.NoError(t, err)
	client, err := GenerateClientEphemeral()
	require.NoError(t, err)

	// Proof derived against a different server ephemeral must not verify.
	otherServer, err := GenerateEphemeral(id.verifier)
	require.NoError(t, err)
	clientSession, err := DeriveClientSession(id.salt, id.username, id.privateKey, client.Secret, otherServer.Public)
	require.NoError(t, err)

	_, err = DeriveServerSession(server.Secret, client.Public, id.salt, id.username, id.verifier, clientSession.Proof)
	assert.ErrorIs(t, err, ErrProofMismatch)
}

func TestGenerateEphemeral_Unique(t *testing.T) {
	id := register(t, "dave", "pw")

	a, err := GenerateEphemeral(id.verifier)
	require.NoError(t, err)
	b, err := GenerateEphemeral(id.verifier)
	require.NoError(t, err)

	assert.NotEqual(t, a.Secret, b.Secret)
	assert.NotEqual(t, a.Public, b.Public)
}

func TestDeriveVerifier_Deterministic(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	x1, err := DerivePrivateKey(salt, "erin", "pw")
	require.NoError(t, err)
	x2, err := DerivePrivateKey(salt, "erin", "pw")
	require.NoError(t, err)
	assert.Equal(t, x1, x2)

	v1, err := DeriveVerifier(x1)
	require.NoError(t, err)
	v2, err := DeriveVerifier(x2)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestDeriveServerSession_RejectsBadEncodings(t *testing.T) {
	id := register(t, "frank", "pw")
	server, err := GenerateEphemeral(id.verifier)
	require.NoError(t, err)

	_, err = DeriveServerSession(server.Secret, "zz-not-hex", id.salt, id.username, id.verifier, "00")
	assert.Error(t, err)

	_, err = DeriveServerSession(server.Secret, "00", id.salt, id.username, id.verifier, "00")
	assert.Error(t, err, "A = 0 mod N must be rejected")
}

func TestHandshake_RejectsOversizedEphemerals(t *testing.T) {
	id := register(t, "grace", "pw")
	server, err := GenerateEphemeral(id.verifier)
	require.NoError(t, err)

	// wider than the 2048-bit modulus
	wide := strings.Repeat("ff", 300)

	_, err = DeriveServerSession(server.Secret, wide, id.salt, id.username, id.verifier, "00")
	require.Error(t, err)

	_, err = DeriveClientSession(id.salt, id.username, id.privateKey, "01", wide)
	require.Error(t, err)
}
