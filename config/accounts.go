package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/NethermindEth/sncast/core/felt"
)

var (
	ErrAccountNotFound = errors.New("account not found in accounts file")
	ErrUnknownChainID  = errors.New("unknown chain id")
)

// Account is one entry of an accounts file. Private keys are deliberately
// not mapped; signing is out of scope for the runner.
type Account struct {
	Address   *felt.Address `json:"address"`
	PublicKey *felt.Felt    `json:"public_key,omitempty"`
	ClassHash *felt.Felt    `json:"class_hash,omitempty"`
	Deployed  bool          `json:"deployed,omitempty"`
}

// LoadAccount resolves a named account for the given network from a JSON
// accounts file of the form {"alpha-sepolia": {"user1": {...}}}.
func LoadAccount(path, name, network string) (*Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	var accounts map[string]map[string]Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parse accounts file %q: %w", path, err)
	}

	account, found := accounts[network][name]
	if !found {
		return nil, fmt.Errorf("%w: %q on network %q in %q", ErrAccountNotFound, name, network, path)
	}
	if account.Address == nil {
		return nil, fmt.Errorf("account %q on network %q has no address", name, network)
	}
	return &account, nil
}

// NetworkFromChainID maps a chain id reported by the node to the network
// name used as the top-level key of accounts files.
func NetworkFromChainID(chainID string) (string, error) {
	switch chainID {
	case "SN_MAIN":
		return "alpha-mainnet", nil
	case "SN_SEPOLIA":
		return "alpha-sepolia", nil
	case "SN_GOERLI":
		return "alpha-goerli", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChainID, chainID)
	}
}
