package crypto

import "github.com/NethermindEth/sncast/core/felt"

// SelectorFromName returns the entry-point selector for the given function
// name, i.e. the Starknet keccak of its ASCII encoding.
func SelectorFromName(name string) (*felt.Felt, error) {
	return StarknetKeccak([]byte(name))
}
