package script

import (
	"errors"
	"fmt"
)

var (
	// ErrTransactionReverted reports a transaction that was included but
	// reverted during execution.
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrWaitTimeout reports that a submitted transaction did not surface a
	// receipt within the configured wait window.
	ErrWaitTimeout = errors.New("timed out waiting for transaction")
)

// ProviderError wraps a failure returned by the provider: either a
// *provider.StarknetError or a *provider.TransportError. The wrapped value
// stays intact so callers can keep pattern-matching with errors.Is/As.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ProviderError(%v)", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// CommandError is a command-level failure raised before anything reaches the
// network: unparsable addresses or inputs, unknown call types and the like.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("ScriptCommandError(%s: %v)", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
