// Package srp implements the server and client halves of an SRP-6a
// zero-knowledge password proof (RFC 5054 2048-bit group, generator 2,
// SHA-256). All values cross package boundaries hex-encoded, matching the
// wire format of the login endpoints.
//
// The server never sees a password: registration stores a salt and a
// verifier v = g^x, and each login exchanges single-use ephemeral values
// from which both sides derive a shared session key and proof.
package srp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/finledger/finledger/internal/common"
)

// ErrProofMismatch is returned when a supplied session proof was not derived
// from the expected ephemeral/salt/verifier values.
var ErrProofMismatch = errors.New("srp: proof mismatch")

// RFC 5054 Appendix A, 2048-bit group.
const nHex = "AC6BDB41324A9A9BF166DE5E1389582FAF72B6651987EE07FC3192943DB56050" +
	"A37329CBB4A099ED8193E0757767A13DD52312AB4B03310DCD7F48A9DA04FD50" +
	"E8083969EDB767B0CF6095179A163AB3661A05FBD5FAAAE82918A9962F0B93B8" +
	"55F97993EC975EEAA80D740ADBF4FF747359D041D5C33EA71D281E446B14773B" +
	"CA97B43A23FB801676BD207A436C6481F1D2B9078717461A5B9D32E688F87748" +
	"544523B524B0D57D5EA77A2775D2ECFA032CFBDBF52FB3786160279004E57AE6" +
	"AF874E7303CE53299CCC041C7BC308D82A5698F3A8D0C38271AE35F8E9DBFBB6" +
	"94B5C803D89F7AE435DE236D525F54759B65E372FCD68EF20FA7111F9E4AFF73"

var (
	groupN = mustParseHex(nHex)
	groupG = big.NewInt(2)

	// k = H(N | PAD(g)), the SRP-6a multiplier.
	multiplierK = hashToInt(groupN.Bytes(), pad(groupG))
)

// Ephemeral is one side's single-use key pair for a handshake attempt.
// Secret stays on the generating side; Public goes over the wire.
type Ephemeral struct {
	Secret string
	Public string
}

// Session is the outcome of a successful derivation: the shared session key
// and the proof this side presents to the other.
type Session struct {
	Key   string
	Proof string
}

func mustParseHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("srp: invalid group constant")
	}
	return n
}

// pad left-pads the value to the byte length of N so hashed concatenations
// are unambiguous.
func pad(v *big.Int) []byte {
	b := v.Bytes()
	out := make([]byte, len(groupN.Bytes()))
	copy(out[len(out)-len(b):], b)
	return out
}

func hashBytes(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

func hashToInt(parts ...[]byte) *big.Int {
	return new(big.Int).SetBytes(hashBytes(parts...))
}

func decodeHexInt(name, s string) (*big.Int, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("srp: invalid %s encoding: %w", name, err)
	}
	return new(big.Int).SetBytes(b), nil
}

// GenerateSalt returns a fresh per-user random salt.
func GenerateSalt() (string, error) {
	return common.MakeRandHexString(16)
}

func randomScalar() (*big.Int, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// GenerateEphemeral creates the server's ephemeral pair for one login
// attempt: secret b and public B = (k*v + g^b) mod N. The verifier is the
// stored registration value for the user logging in.
func GenerateEphemeral(verifier string) (*Ephemeral, error) {
	v, err := decodeHexInt("verifier", verifier)
	if err != nil {
		return nil, err
	}

	b, err := randomScalar()
	if err != nil {
		return nil, err
	}

	kv := new(big.Int).Mul(multiplierK, v)
	kv.Mod(kv, groupN)
	gb := new(big.Int).Exp(groupG, b, groupN)

	B := new(big.Int).Add(kv, gb)
	B.Mod(B, groupN)
	if B.Sign() == 0 {
		return nil, errors.New("srp: degenerate server ephemeral")
	}

	return &Ephemeral{
		Secret: hex.EncodeToString(b.Bytes()),
		Public: hex.EncodeToString(B.Bytes()),
	}, nil
}

// scrambling parameter u = H(PAD(A) | PAD(B)).
func computeU(A, B *big.Int) (*big.Int, error) {
	u := hashToInt(pad(A), pad(B))
	if u.Sign() == 0 {
		return nil, errors.New("srp: degenerate scrambling parameter")
	}
	return u, nil
}

// proof M1 = H(H(N) xor H(g) | H(username) | salt | PAD(A) | PAD(B) | K).
func computeClientProof(username string, salt, key []byte, A, B *big.Int) []byte {
	hn := sha256.Sum256(groupN.Bytes())
	hg := sha256.Sum256(groupG.Bytes())
	group := make([]byte, len(hn))
	for i := range hn {
		group[i] = hn[i] ^ hg[i]
	}
	hu := sha256.Sum256([]byte(username))
	return hashBytes(group, hu[:], salt, pad(A), pad(B), key)
}

// server proof M2 = H(PAD(A) | M1 | K).
func computeServerProof(A *big.Int, m1, key []byte) []byte {
	return hashBytes(pad(A), m1, key)
}

// DeriveServerSession finalizes the handshake on the server side. It
// recomputes the shared secret from the stored secret ephemeral and the
// client's public ephemeral, checks the client's proof, and returns the
// session with the server's counter-proof. A wrong proof yields
// ErrProofMismatch.
func DeriveServerSession(serverSecret, clientPublic, salt, username, verifier, clientProof string) (*Session, error) {
	b, err := decodeHexInt("server ephemeral", serverSecret)
	if err != nil {
		return nil, err
	}
	A, err := decodeHexInt("client ephemeral", clientPublic)
	if err != nil {
		return nil, err
	}
	// A must lie in (0, N); wider values would not fit the padded hashes.
	if A.Sign() == 0 || A.Cmp(groupN) >= 0 {
		return nil, errors.New("srp: invalid client ephemeral")
	}
	v, err := decodeHexInt("verifier", verifier)
	if err != nil {
		return nil, err
	}
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("srp: invalid salt encoding: %w", err)
	}
	proof, err := hex.DecodeString(clientProof)
	if err != nil {
		return nil, fmt.Errorf("srp: invalid proof encoding: %w", err)
	}

	// B is deterministic from b and v, so it is not stored separately.
	kv := new(big.Int).Mul(multiplierK, v)
	kv.Mod(kv, groupN)
	B := new(big.Int).Add(kv, new(big.Int).Exp(groupG, b, groupN))
	B.Mod(B, groupN)

	u, err := computeU(A, B)
	if err != nil {
		return nil, err
	}

	// S = (A * v^u)^b mod N, K = H(S).
	vu := new(big.Int).Exp(v, u, groupN)
	avu := new(big.Int).Mul(A, vu)
	avu.Mod(avu, groupN)
	S := new(big.Int).Exp(avu, b, groupN)
	key := hashBytes(S.Bytes())

	expected := computeClientProof(username, saltBytes, key, A, B)
	if subtle.ConstantTimeCompare(proof, expected) != 1 {
		return nil, ErrProofMismatch
	}

	return &Session{
		Key:   hex.EncodeToString(key),
		Proof: hex.EncodeToString(computeServerProof(A, expected, key)),
	}, nil
}
