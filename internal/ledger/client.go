// Package ledger talks to the RPC network that hosts the shared
// directory account and the program mutating it.
package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zarlcorp/zsol/internal/directory"
	"github.com/zarlcorp/zsol/internal/sol"
)

const (
	// DevnetEndpoint is the default RPC endpoint.
	DevnetEndpoint = "https://api.devnet.solana.com"

	// preflightCommitment controls when a submitted transaction counts
	// as done.
	preflightCommitment = "processed"

	requestTimeout  = 30 * time.Second
	confirmInterval = 500 * time.Millisecond
)

// Typed failures. Anything else coming out of a client call is a
// network-level error and must not be mistaken for one of these.
var (
	ErrNotInitialized     = errors.New("directory account not initialized")
	ErrAlreadyInitialized = errors.New("directory account already initialized")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrProgramRejected    = errors.New("program rejected instruction")
	ErrTransactionFailed  = errors.New("transaction failed on chain")
)

// Signature is a submission handle for a confirmed-or-pending transaction.
type Signature string

// Signer produces a signature over a transaction message. Implemented by
// the wallet session; signing may fail when the user rejects the prompt.
type Signer interface {
	Address() sol.Address
	Sign(message []byte) ([]byte, error)
}

// Config locates the directory account and its owning program.
type Config struct {
	Endpoint         string
	DirectoryAccount sol.Address
	ProgramID        sol.Address
}

// Client is a single-shot, non-retrying RPC client. Every call runs
// under the caller's context plus a bounded request timeout.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
}

// NewClient creates a ledger client for the configured account.
func NewClient(cfg Config) *Client {
	base := cfg.Endpoint
	if base == "" {
		base = DevnetEndpoint
	}
	return &Client{
		cfg:     cfg,
		baseURL: base,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// FetchDirectory retrieves and decodes the shared account record. The
// three lists come from one account read, never from racing partial
// fetches. A missing account is ErrNotInitialized, distinct from
// network failure.
func (c *Client) FetchDirectory(ctx context.Context) (directory.Directory, error) {
	var result struct {
		Value *struct {
			Data []string `json:"data"`
		} `json:"value"`
	}

	params := []any{c.cfg.DirectoryAccount, map[string]string{"encoding": "base64"}}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return directory.Directory{}, fmt.Errorf("fetch directory: %w", err)
	}

	if result.Value == nil {
		return directory.Directory{}, fmt.Errorf("fetch directory: %w", ErrNotInitialized)
	}
	if len(result.Value.Data) == 0 {
		return directory.Directory{}, fmt.Errorf("fetch directory: account has no data")
	}

	raw, err := base64.StdEncoding.DecodeString(result.Value.Data[0])
	if err != nil {
		return directory.Directory{}, fmt.Errorf("fetch directory: decode account data: %w", err)
	}

	d, err := decodeDirectory(raw)
	if err != nil {
		return directory.Directory{}, fmt.Errorf("fetch directory: %w", err)
	}

	return d, nil
}

// SubmitInitialize performs the one-time directory account creation.
func (c *Client) SubmitInitialize(ctx context.Context, signer Signer) (Signature, error) {
	in := initializeInstruction(c.cfg.ProgramID, c.cfg.DirectoryAccount, signer.Address())
	sig, err := c.signAndSend(ctx, signer, in)
	if err != nil {
		return "", fmt.Errorf("initialize: %w", err)
	}
	return sig, nil
}

// SubmitCreateCreator registers the caller as a creator.
func (c *Client) SubmitCreateCreator(ctx context.Context, signer Signer, username, name string) (Signature, error) {
	in := createCreatorInstruction(c.cfg.ProgramID, c.cfg.DirectoryAccount, signer.Address(), username, name)
	sig, err := c.signAndSend(ctx, signer, in)
	if err != nil {
		return "", fmt.Errorf("create creator: %w", err)
	}
	return sig, nil
}

// SubmitCreateSupporter registers the caller as a supporter.
func (c *Client) SubmitCreateSupporter(ctx context.Context, signer Signer, name string) (Signature, error) {
	in := createSupporterInstruction(c.cfg.ProgramID, c.cfg.DirectoryAccount, signer.Address(), name)
	sig, err := c.signAndSend(ctx, signer, in)
	if err != nil {
		return "", fmt.Errorf("create supporter: %w", err)
	}
	return sig, nil
}

// SubmitAddMessage appends a payment message to the creator's feed.
// It records the payment; it does not move funds.
func (c *Client) SubmitAddMessage(ctx context.Context, signer Signer, creator sol.Address, message string, amount sol.Lamports) (Signature, error) {
	in := addMessageInstruction(c.cfg.ProgramID, c.cfg.DirectoryAccount, signer.Address(), creator, message, amount)
	sig, err := c.signAndSend(ctx, signer, in)
	if err != nil {
		return "", fmt.Errorf("add message: %w", err)
	}
	return sig, nil
}

// SubmitTransfer moves lamports from the signer to another account and
// waits for confirmation.
func (c *Client) SubmitTransfer(ctx context.Context, signer Signer, to sol.Address, amount sol.Lamports) (Signature, error) {
	in := transferInstruction(signer.Address(), to, amount)
	sig, err := c.signAndSend(ctx, signer, in)
	if err != nil {
		return "", fmt.Errorf("transfer: %w", err)
	}
	return sig, nil
}

// signAndSend builds, signs, submits, and confirms a single transaction.
func (c *Client) signAndSend(ctx context.Context, signer Signer, instructions ...Instruction) (Signature, error) {
	blockhash, err := c.latestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	tx := Tx{
		FeePayer:        signer.Address(),
		RecentBlockhash: blockhash,
		Instructions:    instructions,
	}
	message := tx.Encode()

	sigBytes, err := signer.Sign(message)
	if err != nil {
		return "", err
	}

	signed := SignedTx{Message: message, Signature: sigBytes, Signer: signer.Address()}
	sig, err := c.sendTransaction(ctx, signed.Encode())
	if err != nil {
		return "", err
	}

	if err := c.ConfirmTransaction(ctx, sig); err != nil {
		return "", err
	}

	return sig, nil
}

func (c *Client) latestBlockhash(ctx context.Context) (string, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getLatestBlockhash", nil, &result); err != nil {
		return "", fmt.Errorf("latest blockhash: %w", err)
	}
	if result.Value.Blockhash == "" {
		return "", fmt.Errorf("latest blockhash: empty response")
	}
	return result.Value.Blockhash, nil
}

func (c *Client) sendTransaction(ctx context.Context, signedTx []byte) (Signature, error) {
	encoded := base64.StdEncoding.EncodeToString(signedTx)
	params := []any{encoded, map[string]string{
		"encoding":            "base64",
		"preflightCommitment": preflightCommitment,
	}}

	var sig string
	if err := c.call(ctx, "sendTransaction", params, &sig); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return Signature(sig), nil
}

// ConfirmTransaction polls signature status until the transaction is
// confirmed, fails, or the context deadline expires. No retry of the
// transaction itself happens here.
func (c *Client) ConfirmTransaction(ctx context.Context, sig Signature) error {
	ticker := time.NewTicker(confirmInterval)
	defer ticker.Stop()

	for {
		status, err := c.signatureStatus(ctx, sig)
		if err != nil {
			return fmt.Errorf("confirm %s: %w", sig, err)
		}

		if status != nil {
			if status.failed() {
				return fmt.Errorf("confirm %s: %w", sig, ErrTransactionFailed)
			}
			switch status.ConfirmationStatus {
			case "processed", "confirmed", "finalized":
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirm %s: %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

type signatureStatus struct {
	ConfirmationStatus string          `json:"confirmationStatus"`
	Err                json.RawMessage `json:"err"`
}

// failed reports whether the node attached a transaction error. The
// success shape is the JSON literal null, which unmarshals into non-nil
// raw bytes, so a nil check alone is not enough.
func (s *signatureStatus) failed() bool {
	return len(s.Err) != 0 && string(s.Err) != "null"
}

func (c *Client) signatureStatus(ctx context.Context, sig Signature) (*signatureStatus, error) {
	var result struct {
		Value []*signatureStatus `json:"value"`
	}
	params := []any{[]string{string(sig)}, map[string]bool{"searchTransactionHistory": true}}
	if err := c.call(ctx, "getSignatureStatuses", params, &result); err != nil {
		return nil, err
	}
	if len(result.Value) == 0 {
		return nil, nil
	}
	return result.Value[0], nil
}

// json-rpc plumbing

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcErr struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcErr) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcErr         `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if envelope.Error != nil {
		return classifyRPCError(envelope.Error)
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("parse result: %w", err)
		}
	}

	return nil
}

// classifyRPCError maps well-known node error messages onto typed
// failures so callers can tell validation rejections from outages.
func classifyRPCError(e *rpcErr) error {
	msg := strings.ToLower(e.Message)

	switch {
	case strings.Contains(msg, "insufficient lamports"),
		strings.Contains(msg, "insufficient funds"):
		return fmt.Errorf("%w: %s", ErrInsufficientFunds, e.Message)
	case strings.Contains(msg, "already in use"),
		strings.Contains(msg, "already initialized"):
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, e.Message)
	case strings.Contains(msg, "custom program error"),
		strings.Contains(msg, "instructionerror"):
		return fmt.Errorf("%w: %s", ErrProgramRejected, e.Message)
	}

	return e
}
