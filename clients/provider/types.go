package provider

import "github.com/NethermindEth/sncast/core/felt"

// TxnInvoke is the only transaction type this client submits.
const TxnInvoke = "INVOKE"

// InvokeTransaction is a version 1 INVOKE_TXN as the write API expects it.
type InvokeTransaction struct {
	Type          string        `json:"type"`
	SenderAddress *felt.Address `json:"sender_address"`
	Calldata      []*felt.Felt  `json:"calldata"`
	MaxFee        *felt.Felt    `json:"max_fee"`
	Version       *felt.Felt    `json:"version"`
	Signature     []*felt.Felt  `json:"signature"`
	Nonce         *felt.Felt    `json:"nonce"`
}

// AddInvokeResponse carries the identifier of an accepted transaction.
type AddInvokeResponse struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
}

// FunctionCall identifies a read-only entry-point invocation.
type FunctionCall struct {
	ContractAddress    *felt.Address `json:"contract_address"`
	EntryPointSelector *felt.Felt    `json:"entry_point_selector"`
	Calldata           []*felt.Felt  `json:"calldata"`
}

// FeeEstimate is the node's cost prediction for a transaction.
type FeeEstimate struct {
	GasConsumed *felt.Felt `json:"gas_consumed"`
	GasPrice    *felt.Felt `json:"gas_price"`
	OverallFee  *felt.Felt `json:"overall_fee"`
	Unit        string     `json:"unit,omitempty"`
}

// Transaction finality and execution statuses, as reported in receipts.
const (
	StatusAcceptedOnL2 = "ACCEPTED_ON_L2"
	StatusAcceptedOnL1 = "ACCEPTED_ON_L1"
	StatusSucceeded    = "SUCCEEDED"
	StatusReverted     = "REVERTED"
)

// TransactionReceipt is the subset of the receipt the runner inspects.
type TransactionReceipt struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ActualFee       *felt.Felt `json:"actual_fee"`
	FinalityStatus  string     `json:"finality_status"`
	ExecutionStatus string     `json:"execution_status"`
	RevertReason    string     `json:"revert_reason,omitempty"`
}
