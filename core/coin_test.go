package core

import "testing"

func TestCoinValid(t *testing.T) {
	if !NewCoin("uandr", 5).Valid() {
		t.Fatalf("expected positive coin to be valid")
	}
	if !NewCoin("uandr", 0).Valid() {
		t.Fatalf("zero amount coin is still well-formed")
	}
	if NewCoin("", 5).Valid() {
		t.Fatalf("empty denom must be invalid")
	}
	if NewCoin("uandr", -1).Valid() {
		t.Fatalf("negative amount must be invalid")
	}
}

func TestCoinsHasZero(t *testing.T) {
	cs := Coins{NewCoin("uandr", 1), NewCoin("ujuno", 0)}
	if !cs.HasZero() {
		t.Fatalf("expected HasZero to detect the zero-amount coin")
	}
	if Coins{NewCoin("uandr", 1)}.HasZero() {
		t.Fatalf("unexpected zero detected")
	}
	if !(Coins{}).IsEmpty() {
		t.Fatalf("expected empty coin list to report IsEmpty")
	}
}

func TestSubAmountInsufficientFunds(t *testing.T) {
	bal := NewCoin("uandr", 5).Amount
	if _, err := SubAmount(bal, NewCoin("uandr", 10).Amount); err != ErrInsufficient {
		t.Fatalf("expected ErrInsufficient, got %v", err)
	}
	got, err := SubAmount(bal, NewCoin("uandr", 5).Amount)
	if err != nil || got.Sign() != 0 {
		t.Fatalf("expected exact drawdown to zero, got %v err=%v", got, err)
	}
}
