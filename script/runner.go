// Package script executes contract-call intents against a Starknet network.
// A request is constructed, submitted exactly once and resolves to either a
// result or a structured error; there is no retry at this layer.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NethermindEth/sncast/clients/provider"
	"github.com/NethermindEth/sncast/config"
	"github.com/NethermindEth/sncast/core/crypto"
	"github.com/NethermindEth/sncast/core/felt"
	"github.com/NethermindEth/sncast/utils"
)

// Provider is the network transport the runner submits through.
type Provider interface {
	AddInvokeTransaction(ctx context.Context, txn *provider.InvokeTransaction) (*provider.AddInvokeResponse, error)
	Call(ctx context.Context, call *provider.FunctionCall) ([]*felt.Felt, error)
	Nonce(ctx context.Context, address *felt.Address) (*felt.Felt, error)
	EstimateFee(ctx context.Context, txn *provider.InvokeTransaction) (*provider.FeeEstimate, error)
	TransactionReceipt(ctx context.Context, hash *felt.Felt) (*provider.TransactionReceipt, error)
}

var _ Provider = (*provider.Client)(nil)

// InvocationRequest is a single contract-call intent. It is immutable once
// constructed; the runner never mutates it.
type InvocationRequest struct {
	ContractAddress *felt.Address
	FunctionName    string
	Calldata        []*felt.Felt

	// MaxFee caps the fee the caller is willing to pay. When nil, the
	// node's estimate is used instead.
	MaxFee *felt.Felt

	// Nonce to submit with. When nil, the sender's pending nonce is used.
	Nonce *felt.Felt
}

// CallRequest is a read-only variant of InvocationRequest.
type CallRequest struct {
	ContractAddress *felt.Address
	FunctionName    string
	Calldata        []*felt.Felt
}

type InvokeResult struct {
	TransactionHash *felt.Felt
}

func (r InvokeResult) String() string {
	return fmt.Sprintf("InvokeResult { transaction_hash: %s }", r.TransactionHash)
}

type CallResult struct {
	Data []*felt.Felt
}

func (r CallResult) String() string {
	data := make([]string, len(r.Data))
	for i, d := range r.Data {
		data[i] = d.String()
	}
	return fmt.Sprintf("CallResult { data: [%s] }", strings.Join(data, ", "))
}

var invokeVersion = felt.FromUint64(1)

// Runner submits invocations on behalf of a single sender account.
type Runner struct {
	provider Provider
	sender   *felt.Address
	wait     config.WaitParams
	log      utils.SimpleLogger
}

func NewRunner(p Provider, sender *felt.Address, wait config.WaitParams, log utils.SimpleLogger) *Runner {
	return &Runner{
		provider: p,
		sender:   sender,
		wait:     wait,
		log:      log,
	}
}

// Invoke submits req to the network. The submission happens exactly once;
// every failure surfaces as a structured error, never a flattened string.
func (r *Runner) Invoke(ctx context.Context, req *InvocationRequest) (InvokeResult, error) {
	selector, err := crypto.SelectorFromName(req.FunctionName)
	if err != nil {
		return InvokeResult{}, &CommandError{Command: "invoke", Err: err}
	}

	nonce := req.Nonce
	if nonce == nil {
		if nonce, err = r.provider.Nonce(ctx, r.sender); err != nil {
			return InvokeResult{}, &ProviderError{Err: err}
		}
	}

	txn := &provider.InvokeTransaction{
		Type:          provider.TxnInvoke,
		SenderAddress: r.sender,
		Calldata:      executeCalldata(req.ContractAddress, selector, req.Calldata),
		MaxFee:        req.MaxFee,
		Version:       invokeVersion,
		Signature:     []*felt.Felt{},
		Nonce:         nonce,
	}

	if txn.MaxFee == nil {
		txn.MaxFee = &felt.Zero
		estimate, err := r.provider.EstimateFee(ctx, txn)
		if err != nil {
			return InvokeResult{}, &ProviderError{Err: err}
		}
		txn.MaxFee = estimate.OverallFee
	}

	r.log.Debugw("Submitting invoke transaction",
		"contract", req.ContractAddress, "function", req.FunctionName, "nonce", nonce, "maxFee", txn.MaxFee)
	res, err := r.provider.AddInvokeTransaction(ctx, txn)
	if err != nil {
		return InvokeResult{}, &ProviderError{Err: err}
	}

	return InvokeResult{TransactionHash: res.TransactionHash}, nil
}

// Call executes a read-only entry point and returns the raw output felts.
func (r *Runner) Call(ctx context.Context, req *CallRequest) (CallResult, error) {
	selector, err := crypto.SelectorFromName(req.FunctionName)
	if err != nil {
		return CallResult{}, &CommandError{Command: "call", Err: err}
	}

	data, err := r.provider.Call(ctx, &provider.FunctionCall{
		ContractAddress:    req.ContractAddress,
		EntryPointSelector: selector,
		Calldata:           req.Calldata,
	})
	if err != nil {
		return CallResult{}, &ProviderError{Err: err}
	}
	return CallResult{Data: data}, nil
}

// WaitForTransaction polls for the receipt of a submitted transaction until
// it appears, reverts, or the configured wait window elapses.
func (r *Runner) WaitForTransaction(ctx context.Context, hash *felt.Felt) (*provider.TransactionReceipt, error) {
	deadline := time.Now().Add(r.wait.Timeout())

	for {
		receipt, err := r.provider.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			if receipt.ExecutionStatus == provider.StatusReverted {
				return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, receipt.RevertReason)
			}
			return receipt, nil
		case !errors.Is(err, provider.ErrTxnHashNotFound):
			return nil, &ProviderError{Err: err}
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s not received after %s", ErrWaitTimeout, hash, r.wait.Timeout())
		}

		r.log.Debugw("Transaction not received yet, retrying", "hash", hash)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.wait.RetryInterval()):
		}
	}
}

// executeCalldata wraps a single call into the account __execute__ calldata
// layout: [n_calls, to, selector, calldata_len, calldata...].
func executeCalldata(to *felt.Address, selector *felt.Felt, args []*felt.Felt) []*felt.Felt {
	calldata := make([]*felt.Felt, 0, len(args)+4) //nolint:mnd
	calldata = append(calldata,
		felt.FromUint64(1),
		to.AsFelt(),
		selector,
		felt.FromUint64(uint64(len(args))),
	)
	return append(calldata, args...)
}
