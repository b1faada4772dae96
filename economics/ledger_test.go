package economics

import (
	"errors"
	"math/big"
	"testing"

	"andromeda-kernel/adapters"
	"andromeda-kernel/core"
)

func newTestLedger() *Ledger {
	return New(core.NewMemStore(), adapters.NoopBank{})
}

func TestDepositCreditsRecipientOrSender(t *testing.T) {
	l := newTestLedger()
	if err := l.Deposit("alice", "", core.Coins{core.NewCoin("uandr", 5)}); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	bal, err := l.Balance("alice", "uandr")
	if err != nil || bal.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("Balance = %v, %v", bal, err)
	}

	if err := l.Deposit("alice", "bob", core.Coins{core.NewCoin("uandr", 3)}); err != nil {
		t.Fatalf("Deposit to recipient: %v", err)
	}
	bal, _ = l.Balance("bob", "uandr")
	if bal.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("got %v, want 3", bal)
	}
}

func TestDepositRejectsEmptyFunds(t *testing.T) {
	l := newTestLedger()
	if err := l.Deposit("alice", "", nil); !errors.Is(err, core.ErrInvalidFunds) {
		t.Fatalf("expected ErrInvalidFunds, got %v", err)
	}
}

func TestDepositThenWithdrawLeavesBalanceUnchanged(t *testing.T) {
	l := newTestLedger()
	if err := l.Deposit("alice", "", core.Coins{core.NewCoin("uandr", 10)}); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := l.Withdraw("alice", "uandr", big.NewInt(10)); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	bal, err := l.Balance("alice", "uandr")
	if err != nil || bal.Sign() != 0 {
		t.Fatalf("Balance = %v, %v", bal, err)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	l := newTestLedger()
	if err := l.Deposit("alice", "", core.Coins{core.NewCoin("uandr", 1)}); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := l.Withdraw("alice", "uandr", big.NewInt(2)); !errors.Is(err, core.ErrInsufficient) {
		t.Fatalf("expected ErrInsufficient, got %v", err)
	}
}

func TestReceiveCW20CreditsSenderUnderTokenAddress(t *testing.T) {
	l := newTestLedger()
	if err := l.ReceiveCW20("alice", "cw20-token-addr", big.NewInt(42)); err != nil {
		t.Fatalf("ReceiveCW20: %v", err)
	}
	bal, err := l.Balance("alice", "cw20-token-addr")
	if err != nil || bal.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("Balance = %v, %v", bal, err)
	}
}
