// Package provider implements a client for the subset of the Starknet
// JSON-RPC API that script execution needs. Node-reported rejections are
// surfaced as *StarknetError and everything else as *TransportError, so
// callers can pattern-match without losing information.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/NethermindEth/sncast/core/felt"
	"github.com/NethermindEth/sncast/utils"
)

const (
	methodAddInvokeTransaction = "starknet_addInvokeTransaction"
	methodCall                 = "starknet_call"
	methodChainID              = "starknet_chainId"
	methodEstimateFee          = "starknet_estimateFee"
	methodGetNonce             = "starknet_getNonce"
	methodGetReceipt           = "starknet_getTransactionReceipt"
)

// Block tags used as block_id parameters. The runner never addresses
// historical blocks.
const (
	blockLatest  = "latest"
	blockPending = "pending"
)

type Client struct {
	url     string
	client  *http.Client
	timeout time.Duration
	log     utils.SimpleLogger

	requestID atomic.Uint64
}

func NewClient(nodeURL string, log utils.SimpleLogger) *Client {
	return &Client{
		url:     strings.TrimSuffix(nodeURL, "/"),
		client:  http.DefaultClient,
		timeout: 10 * time.Second,
		log:     log,
	}
}

// WithTimeout overrides the per-request timeout.
func (c *Client) WithTimeout(t time.Duration) *Client {
	c.timeout = t
	return c
}

type rpcRequest struct {
	Version string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      uint64 `json:"id"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type rpcResponse struct {
	Version string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// do performs a single JSON-RPC exchange and decodes the result into res.
// It makes exactly one HTTP request; retrying is the caller's decision.
func (c *Client) do(ctx context.Context, method string, params, res any) error {
	req := rpcRequest{
		Version: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.requestID.Add(1),
	}

	body, err := json.Marshal(&req)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Debugw("Submitting JSON-RPC request", "method", method)
	httpRes, err := c.client.Do(httpReq)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer httpRes.Body.Close()

	resBody, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	if httpRes.StatusCode != http.StatusOK {
		return &TransportError{Err: fmt.Errorf("unexpected status %q: %s", httpRes.Status, resBody)}
	}

	var rpcRes rpcResponse
	if err := json.Unmarshal(resBody, &rpcRes); err != nil {
		return &TransportError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	if rpcRes.Error != nil {
		return adaptRPCError(rpcRes.Error)
	}

	if res != nil {
		if err := json.Unmarshal(rpcRes.Result, res); err != nil {
			return &TransportError{Err: fmt.Errorf("unmarshal result: %w", err)}
		}
	}
	return nil
}

// adaptRPCError classifies a JSON-RPC error object. Non-negative codes come
// from the Starknet API and map to StarknetError losslessly; negative codes
// are JSON-RPC protocol errors, which are transport failures from the
// caller's point of view.
func adaptRPCError(rpcErr *rpcError) error {
	if rpcErr.Code < 0 {
		return &TransportError{
			Err: fmt.Errorf("rpc error %d: %s", rpcErr.Code, rpcErr.Message),
		}
	}
	return &StarknetError{
		Code:    ErrorCode(rpcErr.Code),
		Message: rpcErr.Message,
		Data:    rpcErr.Data,
	}
}

// AddInvokeTransaction submits txn through the write API. It is the only
// method with side effects; it is attempted exactly once.
func (c *Client) AddInvokeTransaction(ctx context.Context, txn *InvokeTransaction) (*AddInvokeResponse, error) {
	params := map[string]any{"invoke_transaction": txn}

	var res AddInvokeResponse
	if err := c.do(ctx, methodAddInvokeTransaction, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Call executes a read-only entry point against the latest block.
func (c *Client) Call(ctx context.Context, call *FunctionCall) ([]*felt.Felt, error) {
	params := map[string]any{
		"request":  call,
		"block_id": blockLatest,
	}

	var res []*felt.Felt
	if err := c.do(ctx, methodCall, params, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Nonce returns the pending nonce of the given contract.
func (c *Client) Nonce(ctx context.Context, address *felt.Address) (*felt.Felt, error) {
	params := map[string]any{
		"block_id":         blockPending,
		"contract_address": address,
	}

	var res felt.Felt
	if err := c.do(ctx, methodGetNonce, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// EstimateFee asks the node to price txn against the pending block.
// Validation is skipped since the transaction is not signed yet.
func (c *Client) EstimateFee(ctx context.Context, txn *InvokeTransaction) (*FeeEstimate, error) {
	params := map[string]any{
		"request":          []*InvokeTransaction{txn},
		"simulation_flags": []string{"SKIP_VALIDATE"},
		"block_id":         blockPending,
	}

	var res []FeeEstimate
	if err := c.do(ctx, methodEstimateFee, params, &res); err != nil {
		return nil, err
	}
	if len(res) != 1 {
		return nil, &TransportError{Err: fmt.Errorf("expected a single fee estimate, got %d", len(res))}
	}
	return &res[0], nil
}

// TransactionReceipt fetches the receipt for the given transaction hash.
func (c *Client) TransactionReceipt(ctx context.Context, hash *felt.Felt) (*TransactionReceipt, error) {
	params := map[string]any{"transaction_hash": hash}

	var res TransactionReceipt
	if err := c.do(ctx, methodGetReceipt, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ChainID returns the chain identifier the node is on, decoded from its
// felt encoding to the short string form, e.g. "SN_SEPOLIA".
func (c *Client) ChainID(ctx context.Context) (string, error) {
	var res felt.Felt
	if err := c.do(ctx, methodChainID, nil, &res); err != nil {
		return "", err
	}

	b := res.Bytes()
	return string(bytes.TrimLeft(b[:], "\x00")), nil
}
