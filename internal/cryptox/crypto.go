// Package cryptox implements the client-side key custody primitives:
// password-derived master keys (argon2id), per-user RSA key pairs for
// wrapping shared category keys, and AES-GCM sealing of the private key so
// the server only ever stores it in a form the owning client can open.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/finledger/finledger/internal/common"
	"golang.org/x/crypto/argon2"
)

// DeriveMasterKey stretches a password into a 32-byte key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// GenerateKeyPair creates the user's wrapping key pair. Both halves are
// returned PEM-encoded; the private half must be sealed with SealPrivateKey
// before it leaves the client.
func GenerateKeyPair() (publicKey, privateKey string, err error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", "", err
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return "", "", err
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})

	return string(pubPEM), string(privPEM), nil
}

// WrapKey encrypts a symmetric category key for the holder of publicKey
// (RSA-OAEP/SHA-256). The result is safe to store server-side: only the
// matching private key can recover the category key.
func WrapKey(publicKey string, key []byte) (string, error) {
	block, _ := pem.Decode([]byte(publicKey))
	if block == nil {
		return "", errors.New("invalid public key PEM")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("parsing public key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return "", errors.New("not an RSA public key")
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, rsaKey, key, nil)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// UnwrapKey recovers a category key wrapped with WrapKey.
func UnwrapKey(privateKey string, wrapped string) ([]byte, error) {
	block, _ := pem.Decode([]byte(privateKey))
	if block == nil {
		return nil, errors.New("invalid private key PEM")
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(wrapped)
	if err != nil {
		return nil, err
	}
	return rsa.DecryptOAEP(sha256.New(), rand.Reader, key, ciphertext, nil)
}

// SealPrivateKey encrypts the PEM private key under the master key with
// AES-GCM. The nonce is prepended to the ciphertext and the whole value is
// base64-encoded for storage.
func SealPrivateKey(privateKey string, masterKey []byte) (string, error) {
	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	sealed := aesgcm.Seal(nonce, nonce, []byte(privateKey), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// UnsealPrivateKey reverses SealPrivateKey.
func UnsealPrivateKey(sealed string, masterKey []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(raw) < aesgcm.NonceSize() {
		return "", errors.New("sealed value too short")
	}

	plaintext, err := aesgcm.Open(nil, raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
