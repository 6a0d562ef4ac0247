package script_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NethermindEth/sncast/clients/provider"
	"github.com/NethermindEth/sncast/config"
	"github.com/NethermindEth/sncast/core/crypto"
	"github.com/NethermindEth/sncast/core/felt"
	"github.com/NethermindEth/sncast/script"
	"github.com/NethermindEth/sncast/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapContract is the deployed contract the end-to-end scenario targets.
const mapContract = "0x59e8708cbefcdb0d07bcc31054bf3f5efa1a4b8cddd46e64b6bc56b01d52614"

// fakeProvider counts interactions and captures the submitted transaction.
type fakeProvider struct {
	submissions int
	estimations int
	submitted   *provider.InvokeTransaction

	nonce        *felt.Felt
	nonceErr     error
	estimate     *provider.FeeEstimate
	estimateErr  error
	invokeRes    *provider.AddInvokeResponse
	invokeErr    error
	callRes      []*felt.Felt
	callErr      error
	receipts     []receiptRes
	receiptCalls int
}

type receiptRes struct {
	receipt *provider.TransactionReceipt
	err     error
}

func (f *fakeProvider) AddInvokeTransaction(_ context.Context, txn *provider.InvokeTransaction) (*provider.AddInvokeResponse, error) {
	f.submissions++
	f.submitted = txn
	if f.invokeErr != nil {
		return nil, f.invokeErr
	}
	return f.invokeRes, nil
}

func (f *fakeProvider) Call(context.Context, *provider.FunctionCall) ([]*felt.Felt, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.callRes, nil
}

func (f *fakeProvider) Nonce(context.Context, *felt.Address) (*felt.Felt, error) {
	if f.nonceErr != nil {
		return nil, f.nonceErr
	}
	return f.nonce, nil
}

func (f *fakeProvider) EstimateFee(context.Context, *provider.InvokeTransaction) (*provider.FeeEstimate, error) {
	f.estimations++
	if f.estimateErr != nil {
		return nil, f.estimateErr
	}
	return f.estimate, nil
}

func (f *fakeProvider) TransactionReceipt(context.Context, *felt.Felt) (*provider.TransactionReceipt, error) {
	res := f.receipts[min(f.receiptCalls, len(f.receipts)-1)]
	f.receiptCalls++
	return res.receipt, res.err
}

func fastWait() config.WaitParams {
	return config.WaitParams{WaitTimeout: 1, WaitRetryInterval: 1}
}

func newRunner(t *testing.T, p script.Provider) *script.Runner {
	t.Helper()
	sender, err := felt.AddressFromString("0x123")
	require.NoError(t, err)
	return script.NewRunner(p, sender, fastWait(), utils.NewNopZapLogger())
}

func TestInvokeMaxFeeTooLow(t *testing.T) {
	fake := &fakeProvider{
		nonce:     felt.FromUint64(4),
		invokeErr: provider.ErrInsufficientMaxFee,
	}
	runner := newRunner(t, fake)

	address, err := felt.AddressFromString(mapContract)
	require.NoError(t, err)
	calldata, err := felt.FromString("0x10")
	require.NoError(t, err)

	_, err = runner.Invoke(context.Background(), &script.InvocationRequest{
		ContractAddress: address,
		FunctionName:    "put",
		Calldata:        []*felt.Felt{calldata, felt.FromUint64(0x1)},
		MaxFee:          felt.FromUint64(1),
	})

	// The fee-too-low variant is distinguishable at every level of the chain.
	require.ErrorIs(t, err, provider.ErrInsufficientMaxFee)

	provErr := new(script.ProviderError)
	require.ErrorAs(t, err, &provErr)
	snErr := new(provider.StarknetError)
	require.ErrorAs(t, err, &snErr)
	assert.Equal(t, provider.InsufficientMaxFee, snErr.Code)

	// Printing yields a variant-tagged representation, not a bare string.
	assert.Contains(t, err.Error(), "ProviderError(StarknetError(InsufficientMaxFee")

	assert.Equal(t, 1, fake.submissions, "exactly one submission attempt")
	assert.Equal(t, 0, fake.estimations, "no estimation when a fee cap is given")
}

func TestInvoke(t *testing.T) {
	fake := &fakeProvider{
		invokeRes: &provider.AddInvokeResponse{TransactionHash: felt.FromUint64(0xabc)},
	}
	runner := newRunner(t, fake)

	address, err := felt.AddressFromString(mapContract)
	require.NoError(t, err)

	res, err := runner.Invoke(context.Background(), &script.InvocationRequest{
		ContractAddress: address,
		FunctionName:    "put",
		Calldata:        []*felt.Felt{felt.FromUint64(0x10), felt.FromUint64(0x1)},
		MaxFee:          felt.FromUint64(100),
		Nonce:           felt.FromUint64(7),
	})
	require.NoError(t, err)
	assert.Equal(t, "0xabc", res.TransactionHash.String())
	assert.Equal(t, "InvokeResult { transaction_hash: 0xabc }", res.String())
	assert.Equal(t, 1, fake.submissions)

	txn := fake.submitted
	require.NotNil(t, txn)
	assert.Equal(t, provider.TxnInvoke, txn.Type)
	assert.Equal(t, "0x123", txn.SenderAddress.String())
	assert.True(t, txn.MaxFee.Equal(felt.FromUint64(100)))
	assert.True(t, txn.Nonce.Equal(felt.FromUint64(7)))
	assert.True(t, txn.Version.IsOne())

	// __execute__ layout: [n_calls, to, selector, calldata_len, calldata...].
	selector, err := crypto.SelectorFromName("put")
	require.NoError(t, err)
	require.Len(t, txn.Calldata, 6)
	assert.True(t, txn.Calldata[0].IsOne())
	assert.True(t, txn.Calldata[1].Equal(address.AsFelt()))
	assert.True(t, txn.Calldata[2].Equal(selector))
	assert.True(t, txn.Calldata[3].Equal(felt.FromUint64(2)))
	assert.True(t, txn.Calldata[4].Equal(felt.FromUint64(0x10)))
	assert.True(t, txn.Calldata[5].IsOne())
}

func TestInvokeFetchesNonce(t *testing.T) {
	fake := &fakeProvider{
		nonce:     felt.FromUint64(9),
		invokeRes: &provider.AddInvokeResponse{TransactionHash: felt.FromUint64(0xabc)},
	}
	runner := newRunner(t, fake)

	address, err := felt.AddressFromString(mapContract)
	require.NoError(t, err)

	_, err = runner.Invoke(context.Background(), &script.InvocationRequest{
		ContractAddress: address,
		FunctionName:    "put",
		MaxFee:          felt.FromUint64(100),
	})
	require.NoError(t, err)
	assert.True(t, fake.submitted.Nonce.Equal(felt.FromUint64(9)))
}

func TestInvokeEstimatesFeeWithoutCap(t *testing.T) {
	fake := &fakeProvider{
		nonce:     felt.FromUint64(0),
		estimate:  &provider.FeeEstimate{OverallFee: felt.FromUint64(0x20)},
		invokeRes: &provider.AddInvokeResponse{TransactionHash: felt.FromUint64(0xabc)},
	}
	runner := newRunner(t, fake)

	address, err := felt.AddressFromString(mapContract)
	require.NoError(t, err)

	_, err = runner.Invoke(context.Background(), &script.InvocationRequest{
		ContractAddress: address,
		FunctionName:    "put",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.estimations)
	assert.Equal(t, 1, fake.submissions)
	assert.True(t, fake.submitted.MaxFee.Equal(felt.FromUint64(0x20)))
}

func TestInvokeNonceFailure(t *testing.T) {
	transportErr := &provider.TransportError{Err: errors.New("connection refused")}
	fake := &fakeProvider{nonceErr: transportErr}
	runner := newRunner(t, fake)

	address, err := felt.AddressFromString(mapContract)
	require.NoError(t, err)

	_, err = runner.Invoke(context.Background(), &script.InvocationRequest{
		ContractAddress: address,
		FunctionName:    "put",
		MaxFee:          felt.FromUint64(1),
	})

	trErr := new(provider.TransportError)
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, 0, fake.submissions, "nothing is submitted when the nonce fetch fails")
}

func TestCall(t *testing.T) {
	fake := &fakeProvider{callRes: []*felt.Felt{felt.FromUint64(2)}}
	runner := newRunner(t, fake)

	address, err := felt.AddressFromString(mapContract)
	require.NoError(t, err)

	res, err := runner.Call(context.Background(), &script.CallRequest{
		ContractAddress: address,
		FunctionName:    "get",
		Calldata:        []*felt.Felt{felt.FromUint64(0x10)},
	})
	require.NoError(t, err)
	assert.Equal(t, "CallResult { data: [0x2] }", res.String())
}

func TestCallContractNotFound(t *testing.T) {
	fake := &fakeProvider{callErr: provider.ErrContractNotFound}
	runner := newRunner(t, fake)

	address, err := felt.AddressFromString("0x99")
	require.NoError(t, err)

	_, err = runner.Call(context.Background(), &script.CallRequest{
		ContractAddress: address,
		FunctionName:    "get",
	})
	require.ErrorIs(t, err, provider.ErrContractNotFound)
	assert.NotErrorIs(t, err, provider.ErrInsufficientMaxFee)
}

func TestWaitForTransaction(t *testing.T) {
	accepted := &provider.TransactionReceipt{
		TransactionHash: felt.FromUint64(0xabc),
		FinalityStatus:  provider.StatusAcceptedOnL2,
		ExecutionStatus: provider.StatusSucceeded,
	}
	fake := &fakeProvider{receipts: []receiptRes{
		{err: provider.ErrTxnHashNotFound},
		{receipt: accepted},
	}}
	runner := newRunner(t, fake)

	receipt, err := runner.WaitForTransaction(context.Background(), felt.FromUint64(0xabc))
	require.NoError(t, err)
	assert.Equal(t, provider.StatusSucceeded, receipt.ExecutionStatus)
	assert.Equal(t, 2, fake.receiptCalls)
}

func TestWaitForTransactionReverted(t *testing.T) {
	fake := &fakeProvider{receipts: []receiptRes{{
		receipt: &provider.TransactionReceipt{
			TransactionHash: felt.FromUint64(0xabc),
			ExecutionStatus: provider.StatusReverted,
			RevertReason:    "out of gas",
		},
	}}}
	runner := newRunner(t, fake)

	_, err := runner.WaitForTransaction(context.Background(), felt.FromUint64(0xabc))
	require.ErrorIs(t, err, script.ErrTransactionReverted)
	assert.ErrorContains(t, err, "out of gas")
}

func TestWaitForTransactionCancelled(t *testing.T) {
	fake := &fakeProvider{receipts: []receiptRes{{err: provider.ErrTxnHashNotFound}}}
	runner := newRunner(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.WaitForTransaction(ctx, felt.FromUint64(0xabc))
	require.ErrorIs(t, err, context.Canceled)
}
