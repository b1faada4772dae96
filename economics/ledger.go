// Package economics implements the per-(address, asset) balance ledger and
// fee-payment algorithm (spec §4.7, component C3), adapted from the
// teacher's account/balance manager (core/account_and_balance_operations.go,
// a mutex-guarded map wrapping a shared *Ledger) generalized from a single
// native asset to an arbitrary denom including CW20 contract addresses.
package economics

import (
	"fmt"
	"math/big"
	"sync"

	"andromeda-kernel/adapters"
	"andromeda-kernel/core"
)

const keyBalance = "economics:bal:" // economics:bal:<address>:<denom> -> decimal string

// Ledger is the balance ledger. A mutex serializes read-compute-write cycles
// per spec §9's "Shared resources" note ("read balance -> compute new ->
// write, within a single transaction"), the same discipline the teacher's
// AccountManager enforces with its own sync.Mutex around *Ledger access.
type Ledger struct {
	mu    sync.Mutex
	store core.KVStore
	bank  adapters.BankSender
}

// New returns a Ledger backed by store, issuing withdrawals through bank.
func New(store core.KVStore, bank adapters.BankSender) *Ledger {
	return &Ledger{store: store, bank: bank}
}

func balanceKey(address, denom string) []byte {
	return []byte(keyBalance + address + ":" + denom)
}

func (l *Ledger) getBalanceLocked(address, denom string) (*big.Int, error) {
	raw, err := l.store.Get(balanceKey(address, denom))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return big.NewInt(0), nil
	}
	amt, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return nil, fmt.Errorf("economics: corrupt balance record for %s:%s", address, denom)
	}
	return amt, nil
}

func (l *Ledger) putBalanceLocked(address, denom string, amount *big.Int) error {
	return l.store.Set(balanceKey(address, denom), []byte(amount.String()))
}

// Balance returns the current (address, denom) balance, zero if never
// credited.
func (l *Ledger) Balance(address, denom string) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getBalanceLocked(address, denom)
}

// Deposit credits recipient (or sender if recipient is empty) with each
// coin in funds. Rejects empty funds (spec §4.7).
func (l *Ledger) Deposit(sender, recipient string, funds core.Coins) error {
	if funds.IsEmpty() {
		return fmt.Errorf("%w: deposit requires at least one coin", core.ErrInvalidFunds)
	}
	if !funds.Valid() {
		return core.ErrInvalidFunds
	}
	target := recipient
	if target == "" {
		target = sender
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range funds {
		bal, err := l.getBalanceLocked(target, c.Denom)
		if err != nil {
			return err
		}
		if err := l.putBalanceLocked(target, c.Denom, core.AddAmount(bal, c.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveCW20 credits sender with amount of the CW20 token at
// cw20Address, invoked when that token contract calls the deposit hook
// (spec §4.7: "CW20 deposit receive").
func (l *Ledger) ReceiveCW20(sender, cw20Address string, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("%w: cw20 receive amount must be positive", core.ErrInvalidFunds)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal, err := l.getBalanceLocked(sender, cw20Address)
	if err != nil {
		return err
	}
	return l.putBalanceLocked(sender, cw20Address, core.AddAmount(bal, amount))
}

// Withdraw debits caller's asset balance by amount (or the full balance if
// amount is nil), then issues a native bank-send. CW20 withdrawal (a
// contract-transfer submessage rather than a bank-send) is the caller
// adapter's concern; this ledger only tracks the debit.
func (l *Ledger) Withdraw(caller, asset string, amount *big.Int) error {
	l.mu.Lock()
	bal, err := l.getBalanceLocked(caller, asset)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	draw := amount
	if draw == nil {
		draw = bal
	}
	newBal, err := core.SubAmount(bal, draw)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	if err := l.putBalanceLocked(caller, asset, newBal); err != nil {
		l.mu.Unlock()
		return err
	}
	l.mu.Unlock()

	return l.bank.BankSend(caller, caller, core.Coins{{Denom: asset, Amount: draw}})
}

// transferLocked debits from and credits to by amount, atomically with
// respect to other Ledger callers. Used internally by PayFee.
func (l *Ledger) transferLocked(from, to, denom string, amount *big.Int) error {
	fromBal, err := l.getBalanceLocked(from, denom)
	if err != nil {
		return err
	}
	newFromBal, err := core.SubAmount(fromBal, amount)
	if err != nil {
		return err
	}
	toBal, err := l.getBalanceLocked(to, denom)
	if err != nil {
		return err
	}
	if err := l.putBalanceLocked(from, denom, newFromBal); err != nil {
		return err
	}
	return l.putBalanceLocked(to, denom, core.AddAmount(toBal, amount))
}
