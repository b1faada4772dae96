package economics

import (
	"context"
	"fmt"
	"math/big"

	"andromeda-kernel/adodb"
	"andromeda-kernel/core"
)

// ContractInfoLookup resolves an address to the code_id it was instantiated
// from, the same contract-info query the teacher's wasm adapter performs
// before consulting its registry. PayFee uses this to find the caller's
// module type.
type ContractInfoLookup interface {
	ContractInfo(ctx context.Context, contract string) (codeID string, err error)
}

// FeeCharger runs the PayFee algorithm against a Ledger, an ADODB registry,
// and a contract-info lookup (normally the same adapters.WasmExecutor the
// kernel dispatches through).
type FeeCharger struct {
	ledger *Ledger
	db     *adodb.ADODB
	lookup ContractInfoLookup
}

// NewFeeCharger builds a FeeCharger over ledger, db, and lookup.
func NewFeeCharger(ledger *Ledger, db *adodb.ADODB, lookup ContractInfoLookup) *FeeCharger {
	return &FeeCharger{ledger: ledger, db: db, lookup: lookup}
}

// PayFee runs spec §4.7's fee algorithm for a call from caller charging
// payee for action:
//  1. resolve caller's code_id via the contract-info lookup; lookup failure
//     is rejected with core.ErrUnauthorized (core has no separate
//     InvalidSender error).
//  2. resolve code_id -> type via ADODB; unresolved is a no-op success
//     (the caller is not a registered ADO).
//  3. look up ActionFee(type, action); none configured is a no-op success.
//  4. debit payee for the fee amount, failing with InsufficientFunds if the
//     balance can't cover it.
//  5. credit the fee's receiver (or the type's publisher if unset).
func (f *FeeCharger) PayFee(ctx context.Context, caller, payee, action string) error {
	codeID, err := f.lookup.ContractInfo(ctx, caller)
	if err != nil {
		return fmt.Errorf("%w: contract-info lookup failed for %s: %v", core.ErrUnauthorized, caller, err)
	}

	typeName, err := f.db.ADOType(codeID)
	if err != nil {
		return nil // non-ADO caller: no-op success per spec §4.7 step 2
	}

	fee, ok, err := f.db.ActionFee(typeName, action)
	if err != nil {
		return err
	}
	if !ok {
		return nil // no fee configured for this action: no-op success
	}

	amount, valid := new(big.Int).SetString(fee.Amount, 10)
	if !valid || amount.Sign() <= 0 {
		return nil // a zero or malformed fee schedule entry charges nothing
	}

	receiver := fee.Receiver
	if receiver == "" {
		receiver, err = f.db.Publisher(typeName)
		if err != nil {
			return err
		}
	}

	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	if err := f.ledger.transferLocked(payee, receiver, fee.Asset, amount); err != nil {
		return err
	}
	return nil
}
