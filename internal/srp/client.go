package srp

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

// Client-side derivations. The server never calls these; they exist for the
// CLI client and for exercising the full handshake in tests.

// DerivePrivateKey computes x = H(salt | H(username ":" password)).
func DerivePrivateKey(salt, username, password string) (string, error) {
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("srp: invalid salt encoding: %w", err)
	}
	inner := sha256.Sum256([]byte(username + ":" + password))
	x := hashToInt(saltBytes, inner[:])
	return hex.EncodeToString(x.Bytes()), nil
}

// DeriveVerifier computes the registration verifier v = g^x mod N.
func DeriveVerifier(privateKey string) (string, error) {
	x, err := decodeHexInt("private key", privateKey)
	if err != nil {
		return "", err
	}
	v := new(big.Int).Exp(groupG, x, groupN)
	return hex.EncodeToString(v.Bytes()), nil
}

// GenerateClientEphemeral creates the client's ephemeral pair:
// secret a and public A = g^a mod N.
func GenerateClientEphemeral() (*Ephemeral, error) {
	a, err := randomScalar()
	if err != nil {
		return nil, err
	}
	A := new(big.Int).Exp(groupG, a, groupN)
	return &Ephemeral{
		Secret: hex.EncodeToString(a.Bytes()),
		Public: hex.EncodeToString(A.Bytes()),
	}, nil
}

// DeriveClientSession computes the client's shared session key and the proof
// it sends to the server in phase 2:
// S = (B - k*g^x)^(a + u*x) mod N.
func DeriveClientSession(salt, username, privateKey, clientSecret, serverPublic string) (*Session, error) {
	x, err := decodeHexInt("private key", privateKey)
	if err != nil {
		return nil, err
	}
	a, err := decodeHexInt("client ephemeral", clientSecret)
	if err != nil {
		return nil, err
	}
	B, err := decodeHexInt("server ephemeral", serverPublic)
	if err != nil {
		return nil, err
	}
	if B.Sign() == 0 || B.Cmp(groupN) >= 0 {
		return nil, errors.New("srp: invalid server ephemeral")
	}
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("srp: invalid salt encoding: %w", err)
	}

	A := new(big.Int).Exp(groupG, a, groupN)
	u, err := computeU(A, B)
	if err != nil {
		return nil, err
	}

	// base = B - k*g^x, kept in [0, N).
	gx := new(big.Int).Exp(groupG, x, groupN)
	kgx := new(big.Int).Mul(multiplierK, gx)
	base := new(big.Int).Sub(B, kgx)
	base.Mod(base, groupN)
	if base.Sign() < 0 {
		base.Add(base, groupN)
	}

	exp := new(big.Int).Mul(u, x)
	exp.Add(exp, a)

	S := new(big.Int).Exp(base, exp, groupN)
	key := hashBytes(S.Bytes())

	return &Session{
		Key:   hex.EncodeToString(key),
		Proof: hex.EncodeToString(computeClientProof(username, saltBytes, key, A, B)),
	}, nil
}

// VerifyServerProof checks the server's phase-2 counter-proof against the
// client's derived session, completing mutual authentication.
func VerifyServerProof(clientPublic string, session *Session, serverProof string) bool {
	A, err := decodeHexInt("client ephemeral", clientPublic)
	if err != nil {
		return false
	}
	m1, err := hex.DecodeString(session.Proof)
	if err != nil {
		return false
	}
	key, err := hex.DecodeString(session.Key)
	if err != nil {
		return false
	}
	proof, err := hex.DecodeString(serverProof)
	if err != nil {
		return false
	}
	expected := computeServerProof(A, m1, key)
	return subtle.ConstantTimeCompare(proof, expected) == 1
}
