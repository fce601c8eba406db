// Package api is the HTTP client for the ledger server. It owns the
// client half of the login handshake and the key custody steps that must
// never run server-side.
package api

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/finledger/finledger/internal/cryptox"
	"github.com/finledger/finledger/internal/srp"
)

// ErrServerRejected is returned when the server answers with a failure
// status; Message carries the server's error text.
type ErrServerRejected struct {
	StatusCode int
	Message    string
}

func (e *ErrServerRejected) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
}

// Session is the credential set carried on every authenticated request.
type Session struct {
	Username string
	LoginID  int64
	Proof    string
}

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Session returns the active session, or nil before Login.
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.session != nil {
		req.SetBasicAuth(c.session.Username, c.session.Proof)
		req.Header.Set("Session-Id", strconv.FormatInt(c.session.LoginID, 10))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Status bool   `json:"status"`
		Error  string `json:"error"`
	}
	raw := json.RawMessage{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !envelope.Status {
		return &ErrServerRejected{StatusCode: resp.StatusCode, Message: envelope.Error}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// Register derives the SRP credential and the wrapping key pair locally and
// creates the account. The password never leaves the process; the private
// key is sealed under the password-derived master key before upload.
func (c *Client) Register(ctx context.Context, username, password string) error {
	salt, err := srp.GenerateSalt()
	if err != nil {
		return err
	}
	privateKey, err := srp.DerivePrivateKey(salt, username, password)
	if err != nil {
		return err
	}
	verifier, err := srp.DeriveVerifier(privateKey)
	if err != nil {
		return err
	}

	publicPEM, privatePEM, err := cryptox.GenerateKeyPair()
	if err != nil {
		return err
	}
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return err
	}
	masterKey := cryptox.DeriveMasterKey([]byte(password), saltBytes)
	sealedPrivate, err := cryptox.SealPrivateKey(privatePEM, masterKey)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodPut, "/user", map[string]any{
		"username":   username,
		"salt":       salt,
		"verifier":   verifier,
		"publicKey":  publicPEM,
		"privateKey": sealedPrivate,
	}, nil)
}

// Login runs both handshake phases and verifies the server's counter-proof
// before trusting the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	clientEphemeral, err := srp.GenerateClientEphemeral()
	if err != nil {
		return err
	}

	var phase1 struct {
		LoginID         int64  `json:"loginId"`
		ServerEphemeral string `json:"serverEphemeral"`
		Salt            string `json:"salt"`
	}
	err = c.do(ctx, http.MethodPost, "/user/login", map[string]any{
		"username": username, "ephemeral": clientEphemeral.Public,
	}, &phase1)
	if err != nil {
		return err
	}

	privateKey, err := srp.DerivePrivateKey(phase1.Salt, username, password)
	if err != nil {
		return err
	}
	session, err := srp.DeriveClientSession(
		phase1.Salt, username, privateKey, clientEphemeral.Secret, phase1.ServerEphemeral)
	if err != nil {
		return err
	}

	var phase2 struct {
		SessionProof string `json:"sessionProof"`
	}
	err = c.do(ctx, http.MethodPost, "/user/login", map[string]any{
		"id": phase1.LoginID, "username": username, "sessionProof": session.Proof,
	}, &phase2)
	if err != nil {
		return err
	}

	if !srp.VerifyServerProof(clientEphemeral.Public, session, phase2.SessionProof) {
		return errors.New("server proof verification failed")
	}

	c.session = &Session{Username: username, LoginID: phase1.LoginID, Proof: session.Proof}
	return nil
}

// Overview fetches everything the logged-in user can see.
func (c *Client) Overview(ctx context.Context) ([]Category, error) {
	if c.session == nil {
		return nil, errors.New("not logged in")
	}
	var out struct {
		Categories []Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/overview", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// CreateCategory creates a ledger owned by the logged-in user.
func (c *Client) CreateCategory(ctx context.Context, name, description, encryptionKey string) (int64, error) {
	if c.session == nil {
		return 0, errors.New("not logged in")
	}
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/category", map[string]any{
		"name": name, "description": description, "encryptionKey": encryptionKey,
	}, &out)
	if err != nil {
		return 0, err
	}
	return out.ID, nil
}

// ChangeCredential rotates the account credential to a new password and
// drops the active session, which the server invalidated.
func (c *Client) ChangeCredential(ctx context.Context, username, newPassword string) error {
	if c.session == nil {
		return errors.New("not logged in")
	}
	salt, err := srp.GenerateSalt()
	if err != nil {
		return err
	}
	privateKey, err := srp.DerivePrivateKey(salt, username, newPassword)
	if err != nil {
		return err
	}
	verifier, err := srp.DeriveVerifier(privateKey)
	if err != nil {
		return err
	}

	err = c.do(ctx, http.MethodPost, "/user", map[string]any{
		"salt": salt, "verifier": verifier,
	}, nil)
	if err != nil {
		return err
	}
	c.session = nil
	return nil
}
