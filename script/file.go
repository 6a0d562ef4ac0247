package script

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/sncast/core/felt"
	"github.com/spf13/viper"
)

// Call types understood in script files.
const (
	CallTypeInvoke = "invoke"
	CallTypeCall   = "call"
)

var (
	ErrUnknownCallType = errors.New("unknown call type")
	ErrEmptyScript     = errors.New("script file contains no calls")
)

// Step is one [[call]] entry of a script file.
type Step struct {
	ID              string   `mapstructure:"id"`
	CallType        string   `mapstructure:"call_type"`
	ContractAddress string   `mapstructure:"contract_address"`
	Function        string   `mapstructure:"function"`
	Inputs          []string `mapstructure:"inputs"`
	MaxFee          string   `mapstructure:"max_fee"`
	Nonce           string   `mapstructure:"nonce"`
}

func (s *Step) validate(index int) error {
	switch s.CallType {
	case CallTypeInvoke, CallTypeCall:
	default:
		return fmt.Errorf("%w %q in call #%d", ErrUnknownCallType, s.CallType, index+1)
	}
	if s.ContractAddress == "" {
		return fmt.Errorf("call #%d: contract_address must not be empty", index+1)
	}
	if s.Function == "" {
		return fmt.Errorf("call #%d: function must not be empty", index+1)
	}
	return nil
}

// LoadFile reads an ordered sequence of calls from a TOML script file.
func LoadFile(path string) ([]Step, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read script file %q: %w", path, err)
	}

	var steps []Step
	if err := v.UnmarshalKey("call", &steps); err != nil {
		return nil, fmt.Errorf("parse script file %q: %w", path, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyScript, path)
	}

	for i := range steps {
		if err := steps[i].validate(i); err != nil {
			return nil, err
		}
	}
	return steps, nil
}

// Run executes steps in order and stops at the first failure. Each invoke
// step waits for its receipt before the next step starts, so nonces stay
// sequential.
func (r *Runner) Run(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if err := r.runStep(ctx, i, &step); err != nil {
			return fmt.Errorf("call #%d (%s): %w", i+1, step.Function, err)
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, index int, step *Step) error {
	if err := step.validate(index); err != nil {
		return &CommandError{Command: "script", Err: err}
	}

	address, err := felt.AddressFromString(step.ContractAddress)
	if err != nil {
		return &CommandError{Command: "script", Err: err}
	}
	calldata, err := parseFelts(step.Inputs)
	if err != nil {
		return &CommandError{Command: "script", Err: err}
	}

	switch step.CallType {
	case CallTypeCall:
		result, err := r.Call(ctx, &CallRequest{
			ContractAddress: address,
			FunctionName:    step.Function,
			Calldata:        calldata,
		})
		if err != nil {
			return err
		}
		r.log.Infow("Call result", "function", step.Function, "result", result.String())
		return nil

	case CallTypeInvoke:
		req := &InvocationRequest{
			ContractAddress: address,
			FunctionName:    step.Function,
			Calldata:        calldata,
		}
		if req.MaxFee, err = parseOptionalFelt(step.MaxFee); err != nil {
			return &CommandError{Command: "script", Err: err}
		}
		if req.Nonce, err = parseOptionalFelt(step.Nonce); err != nil {
			return &CommandError{Command: "script", Err: err}
		}

		result, err := r.Invoke(ctx, req)
		if err != nil {
			return err
		}
		r.log.Infow("Transaction hash", "hash", result.TransactionHash)

		if _, err := r.WaitForTransaction(ctx, result.TransactionHash); err != nil {
			return err
		}
		return nil

	default:
		// validate already rejected everything else.
		return &CommandError{Command: "script", Err: fmt.Errorf("%w %q", ErrUnknownCallType, step.CallType)}
	}
}

func parseFelts(inputs []string) ([]*felt.Felt, error) {
	felts := make([]*felt.Felt, len(inputs))
	for i, input := range inputs {
		f, err := felt.FromString(input)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", input, err)
		}
		felts[i] = f
	}
	return felts, nil
}

func parseOptionalFelt(s string) (*felt.Felt, error) {
	if s == "" {
		return nil, nil
	}
	return felt.FromString(s)
}
