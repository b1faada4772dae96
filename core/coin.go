package core

import "math/big"

// Coin is a denom/amount pair, the unit AMPMsg funds and Economics balances
// are expressed in. Amount is a *big.Int so the saturating/overflow-checked
// arithmetic invariant in spec §4.7 is explicit rather than a fixed-width
// wraparound.
type Coin struct {
	Denom  string   `json:"denom"`
	Amount *big.Int `json:"amount"`
}

// NewCoin builds a Coin from an int64 amount, the common case in tests and
// CLI handlers.
func NewCoin(denom string, amount int64) Coin {
	return Coin{Denom: denom, Amount: big.NewInt(amount)}
}

// Valid reports whether the coin has a non-negative amount and a non-empty
// denom, per the Coin invariant in spec §3.
func (c Coin) Valid() bool {
	return c.Denom != "" && c.Amount != nil && c.Amount.Sign() >= 0
}

// IsZero reports whether the coin amount is exactly zero.
func (c Coin) IsZero() bool { return c.Amount == nil || c.Amount.Sign() == 0 }

// Coins is a list of Coin, as carried by AMPMsg.Funds.
type Coins []Coin

// Valid reports whether every coin in the list is a well-formed Coin.
func (cs Coins) Valid() bool {
	for _, c := range cs {
		if !c.Valid() {
			return false
		}
	}
	return true
}

// HasZero reports whether any coin carries a zero amount; dispatch rejects
// these with ErrInvalidFunds (spec §4.5).
func (cs Coins) HasZero() bool {
	for _, c := range cs {
		if c.IsZero() {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the coin list carries no funds at all.
func (cs Coins) IsEmpty() bool { return len(cs) == 0 }

// AddAmount adds delta to amount. Balances never go negative by construction
// (delta is itself always non-negative on a deposit path), so this cannot
// fail; it exists to keep arithmetic symmetric with SubAmount.
func AddAmount(amount, delta *big.Int) *big.Int {
	return new(big.Int).Add(amount, delta)
}

// SubAmount subtracts delta from amount, returning ErrInsufficient if the
// result would be negative.
func SubAmount(amount, delta *big.Int) (*big.Int, error) {
	diff := new(big.Int).Sub(amount, delta)
	if diff.Sign() < 0 {
		return nil, ErrInsufficient
	}
	return diff, nil
}
