package provider

import (
	"encoding/json"
	"fmt"
)

// ErrorCode is a Starknet JSON-RPC API error code, as reported by the node
// when it rejects a request.
type ErrorCode int

const (
	ContractNotFound           ErrorCode = 20
	EntrypointNotFound         ErrorCode = 21
	BlockNotFound              ErrorCode = 24
	InvalidTxHash              ErrorCode = 25
	TxnHashNotFound            ErrorCode = 29
	ContractError              ErrorCode = 40
	TransactionExecutionError  ErrorCode = 41
	ClassAlreadyDeclared       ErrorCode = 51
	InvalidTransactionNonce    ErrorCode = 52
	InsufficientMaxFee         ErrorCode = 53
	InsufficientAccountBalance ErrorCode = 54
	ValidationFailure          ErrorCode = 55
	CompilationFailed          ErrorCode = 56
	NonAccount                 ErrorCode = 58
	DuplicateTx                ErrorCode = 59
	UnsupportedTxVersion       ErrorCode = 61
	UnexpectedError            ErrorCode = 63
)

func (c ErrorCode) String() string {
	switch c {
	case ContractNotFound:
		return "ContractNotFound"
	case EntrypointNotFound:
		return "EntrypointNotFound"
	case BlockNotFound:
		return "BlockNotFound"
	case InvalidTxHash:
		return "InvalidTxHash"
	case TxnHashNotFound:
		return "TxnHashNotFound"
	case ContractError:
		return "ContractError"
	case TransactionExecutionError:
		return "TransactionExecutionError"
	case ClassAlreadyDeclared:
		return "ClassAlreadyDeclared"
	case InvalidTransactionNonce:
		return "InvalidTransactionNonce"
	case InsufficientMaxFee:
		return "InsufficientMaxFee"
	case InsufficientAccountBalance:
		return "InsufficientAccountBalance"
	case ValidationFailure:
		return "ValidationFailure"
	case CompilationFailed:
		return "CompilationFailed"
	case NonAccount:
		return "NonAccount"
	case DuplicateTx:
		return "DuplicateTx"
	case UnsupportedTxVersion:
		return "UnsupportedTxVersion"
	case UnexpectedError:
		return "UnexpectedError"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// StarknetError is a rejection reported by the node or sequencer. The code
// is preserved so callers can distinguish failure classes programmatically.
type StarknetError struct {
	Code    ErrorCode
	Message string
	Data    json.RawMessage
}

func (e *StarknetError) Error() string {
	return fmt.Sprintf("StarknetError(%s: %s)", e.Code, e.Message)
}

// Is matches on the error code, so errors.Is(err, ErrInsufficientMaxFee)
// holds regardless of the message the node attached.
func (e *StarknetError) Is(target error) bool {
	t, ok := target.(*StarknetError)
	return ok && t.Code == e.Code
}

// Sentinels for the rejection reasons the runner cares about. The messages
// mirror the Starknet RPC specification.
var (
	ErrContractNotFound   = &StarknetError{Code: ContractNotFound, Message: "Contract not found"}
	ErrEntrypointNotFound = &StarknetError{
		Code:    EntrypointNotFound,
		Message: "Requested entrypoint does not exist in the contract",
	}
	ErrBlockNotFound           = &StarknetError{Code: BlockNotFound, Message: "Block not found"}
	ErrTxnHashNotFound         = &StarknetError{Code: TxnHashNotFound, Message: "Transaction hash not found"}
	ErrContractError           = &StarknetError{Code: ContractError, Message: "Contract error"}
	ErrInvalidTransactionNonce = &StarknetError{Code: InvalidTransactionNonce, Message: "Invalid transaction nonce"}
	ErrInsufficientMaxFee      = &StarknetError{
		Code:    InsufficientMaxFee,
		Message: "Max fee is smaller than the minimal transaction cost (validation plus fee transfer)",
	}
	ErrInsufficientAccountBalance = &StarknetError{
		Code:    InsufficientAccountBalance,
		Message: "Account balance is smaller than the transaction's max_fee",
	}
	ErrValidationFailure = &StarknetError{Code: ValidationFailure, Message: "Account validation failed"}
	ErrDuplicateTx       = &StarknetError{
		Code:    DuplicateTx,
		Message: "A transaction with the same hash already exists in the mempool",
	}
	ErrUnexpectedError = &StarknetError{Code: UnexpectedError, Message: "An unexpected error occurred"}
)

// TransportError is a failure to complete the exchange with the node:
// connection problems, malformed payloads, JSON-RPC protocol errors. It
// never carries a node-side transaction rejection.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("TransportError(%v)", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
