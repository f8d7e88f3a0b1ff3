package ledger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zarlcorp/zsol/internal/directory"
	"github.com/zarlcorp/zsol/internal/sol"
)

func testConfig() Config {
	return Config{
		DirectoryAccount: "dir-account",
		ProgramID:        "program-id",
	}
}

func newTestClient(url string) *Client {
	cfg := testConfig()
	cfg.Endpoint = url
	return NewClient(cfg)
}

// fakeSigner signs by echoing a fixed byte string.
type fakeSigner struct {
	addr    sol.Address
	signErr error
	signed  int
}

func (s *fakeSigner) Address() sol.Address { return s.addr }

func (s *fakeSigner) Sign(message []byte) ([]byte, error) {
	if s.signErr != nil {
		return nil, s.signErr
	}
	s.signed++
	return []byte("sig-over-" + fmt.Sprint(len(message))), nil
}

// rpcHandler dispatches canned results per JSON-RPC method.
func rpcHandler(t *testing.T, results map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rpc request: %v", err)
		}

		res, ok := results[req.Method]
		if !ok {
			t.Errorf("unexpected rpc method %q", req.Method)
			res = nil
		}

		if e, isErr := res.(*rpcErr); isErr {
			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "error": e})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": res})
	}
}

func accountInfoResult(d directory.Directory) map[string]any {
	data := base64.StdEncoding.EncodeToString(encodeDirectory(d))
	return map[string]any{
		"value": map[string]any{
			"data": []string{data, "base64"},
		},
	}
}

func confirmedStatus() map[string]any {
	return map[string]any{
		"value": []map[string]any{{"confirmationStatus": "confirmed", "err": nil}},
	}
}

func TestFetchDirectory(t *testing.T) {
	want := directory.Directory{
		Creators: []directory.Creator{
			{UserAddress: "alice-addr", Username: "alice", Name: "Alice"},
		},
		Supporters: []directory.Supporter{
			{UserAddress: "carol-addr", Name: "Carol"},
		},
		Messages: []directory.Message{
			{CreatorAddress: "alice-addr", SupporterAddress: "carol-addr", Message: "hi", Amount: 500_000_000},
		},
	}

	srv := httptest.NewServer(rpcHandler(t, map[string]any{
		"getAccountInfo": accountInfoResult(want),
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).FetchDirectory(context.Background())
	if err != nil {
		t.Fatalf("FetchDirectory: %v", err)
	}

	if len(got.Creators) != 1 || got.Creators[0] != want.Creators[0] {
		t.Errorf("creators = %+v, want %+v", got.Creators, want.Creators)
	}
	if len(got.Supporters) != 1 || got.Supporters[0] != want.Supporters[0] {
		t.Errorf("supporters = %+v, want %+v", got.Supporters, want.Supporters)
	}
	if len(got.Messages) != 1 || got.Messages[0] != want.Messages[0] {
		t.Errorf("messages = %+v, want %+v", got.Messages, want.Messages)
	}
}

func TestFetchDirectoryNotInitialized(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]any{
		"getAccountInfo": map[string]any{"value": nil},
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchDirectory(context.Background())
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("err = %v, want ErrNotInitialized", err)
	}
}

func TestFetchDirectoryNetworkErrorIsNotNotInitialized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchDirectory(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	// a node outage must stay distinguishable from a missing account
	if errors.Is(err, ErrNotInitialized) {
		t.Errorf("network failure classified as ErrNotInitialized: %v", err)
	}
}

func TestSubmitCreateCreator(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]any{
		"getLatestBlockhash":   map[string]any{"value": map[string]any{"blockhash": "hash-1"}},
		"sendTransaction":      "sig-abc",
		"getSignatureStatuses": confirmedStatus(),
	}))
	defer srv.Close()

	signer := &fakeSigner{addr: "alice-addr"}
	sig, err := newTestClient(srv.URL).SubmitCreateCreator(context.Background(), signer, "alice", "Alice")
	if err != nil {
		t.Fatalf("SubmitCreateCreator: %v", err)
	}
	if sig != "sig-abc" {
		t.Errorf("signature = %q, want sig-abc", sig)
	}
	if signer.signed != 1 {
		t.Errorf("signer invoked %d times, want 1", signer.signed)
	}
}

func TestSubmitTransferInsufficientFunds(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]any{
		"getLatestBlockhash": map[string]any{"value": map[string]any{"blockhash": "hash-1"}},
		"sendTransaction":    &rpcErr{Code: -32002, Message: "Transaction simulation failed: insufficient lamports"},
	}))
	defer srv.Close()

	signer := &fakeSigner{addr: "poor-addr"}
	_, err := newTestClient(srv.URL).SubmitTransfer(context.Background(), signer, "creator-addr", 5_000_000_000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestSubmitInitializeAlreadyInitialized(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]any{
		"getLatestBlockhash": map[string]any{"value": map[string]any{"blockhash": "hash-1"}},
		"sendTransaction":    &rpcErr{Code: -32002, Message: "account already in use"},
	}))
	defer srv.Close()

	signer := &fakeSigner{addr: "payer-addr"}
	_, err := newTestClient(srv.URL).SubmitInitialize(context.Background(), signer)
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("err = %v, want ErrAlreadyInitialized", err)
	}
}

func TestSignRejectionStopsSubmit(t *testing.T) {
	sent := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Method == "sendTransaction" {
			sent++
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0", "id": 1,
			"result": map[string]any{"value": map[string]any{"blockhash": "hash-1"}},
		})
	}))
	defer srv.Close()

	rejected := errors.New("user rejected")
	signer := &fakeSigner{addr: "alice-addr", signErr: rejected}
	_, err := newTestClient(srv.URL).SubmitCreateSupporter(context.Background(), signer, "Alice")
	if !errors.Is(err, rejected) {
		t.Errorf("err = %v, want the signer rejection", err)
	}
	if sent != 0 {
		t.Errorf("sendTransaction called %d times after rejection, want 0", sent)
	}
}

func TestConfirmTransactionNullErr(t *testing.T) {
	// the node reports success as the literal null, not an absent field
	srv := httptest.NewServer(rpcHandler(t, map[string]any{
		"getSignatureStatuses": confirmedStatus(),
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).ConfirmTransaction(context.Background(), "sig-ok"); err != nil {
		t.Errorf("ConfirmTransaction() = %v, want nil", err)
	}
}

func TestConfirmTransactionFailedOnChain(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]any{
		"getSignatureStatuses": map[string]any{
			"value": []map[string]any{{
				"confirmationStatus": "confirmed",
				"err":                map[string]any{"InstructionError": []any{0, "Custom"}},
			}},
		},
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).ConfirmTransaction(context.Background(), "sig-bad")
	if !errors.Is(err, ErrTransactionFailed) {
		t.Errorf("err = %v, want ErrTransactionFailed", err)
	}
}

func TestConfirmTransactionTimesOut(t *testing.T) {
	srv := httptest.NewServer(rpcHandler(t, map[string]any{
		// signature never lands
		"getSignatureStatuses": map[string]any{"value": []any{nil}},
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := newTestClient(srv.URL).ConfirmTransaction(ctx, "sig-lost")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestDirectoryCodecRoundTrip(t *testing.T) {
	want := directory.Directory{
		Creators: []directory.Creator{
			{UserAddress: "a1", Username: "alice", Name: "Alice"},
			{UserAddress: "b2", Username: "bob", Name: "Bob"},
		},
		Messages: []directory.Message{
			{CreatorAddress: "a1", SupporterAddress: "c3", Message: "gm ☀", Amount: 1},
		},
	}

	got, err := decodeDirectory(encodeDirectory(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Creators) != 2 || got.Creators[1].Username != "bob" {
		t.Errorf("creators = %+v", got.Creators)
	}
	if len(got.Supporters) != 0 {
		t.Errorf("supporters = %+v, want empty", got.Supporters)
	}
	if len(got.Messages) != 1 || got.Messages[0] != want.Messages[0] {
		t.Errorf("messages = %+v, want %+v", got.Messages, want.Messages)
	}
}

func TestDecodeDirectoryTruncated(t *testing.T) {
	full := encodeDirectory(directory.Directory{
		Creators: []directory.Creator{{UserAddress: "a1", Username: "alice", Name: "Alice"}},
	})

	for cut := 1; cut < len(full); cut += 7 {
		if _, err := decodeDirectory(full[:cut]); err == nil {
			t.Errorf("decode of %d/%d bytes should fail", cut, len(full))
		}
	}
}
