package felt

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrAddressOutOfRange is returned when a felt does not fit in the range of
// valid contract addresses.
var ErrAddressOutOfRange = errors.New("felt is out of the contract address range")

// addrBound is 2^251 - 256. The sequencer rejects contract addresses at or
// above this bound, so conversion from a raw felt fails fast instead.
var addrBound = new(big.Int).Sub(
	new(big.Int).Lsh(big.NewInt(1), 251), //nolint:mnd
	big.NewInt(256),                      //nolint:mnd
)

// Address is a validated contract address. Construct one with NewAddress or
// AddressFromString; the zero value is the zero address.
type Address Felt

// NewAddress converts a raw felt into an Address. The same input always
// yields the same Address or the same validation failure.
func NewAddress(f *Felt) (*Address, error) {
	v := bigIntPool.Get().(*big.Int)
	defer bigIntPool.Put(v)

	if f.BigInt(v).Cmp(addrBound) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrAddressOutOfRange, f.String())
	}

	addr := Address(*f)
	return &addr, nil
}

// AddressFromString parses and validates a contract address.
func AddressFromString(s string) (*Address, error) {
	f, err := FromString(s)
	if err != nil {
		return nil, err
	}
	return NewAddress(f)
}

// AsFelt returns the address as a raw felt.
func (a *Address) AsFelt() *Felt {
	return (*Felt)(a)
}

func (a *Address) String() string {
	return (*Felt)(a).String()
}

func (a *Address) Bytes() [32]byte {
	return (*Felt)(a).Bytes()
}

func (a *Address) Equal(b *Address) bool {
	return (*Felt)(a).Equal((*Felt)(b))
}

func (a *Address) IsZero() bool {
	return (*Felt)(a).IsZero()
}

func (a *Address) MarshalJSON() ([]byte, error) {
	return (*Felt)(a).MarshalJSON()
}

// UnmarshalJSON validates the address range on top of felt decoding.
func (a *Address) UnmarshalJSON(data []byte) error {
	var f Felt
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}

	addr, err := NewAddress(&f)
	if err != nil {
		return err
	}
	*a = *addr
	return nil
}
