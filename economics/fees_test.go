package economics

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"andromeda-kernel/adapters"
	"andromeda-kernel/adodb"
	"andromeda-kernel/core"
)

type fakeLookup struct {
	codeIDs map[string]string
	err     error
}

func (f fakeLookup) ContractInfo(ctx context.Context, contract string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	id, ok := f.codeIDs["splitter-instance"]
	if contract != "splitter-instance" || !ok {
		return "", errors.New("no contract info")
	}
	return id, nil
}

// TestPayFeeDebitsPayeeCreditsPublisher mirrors scenario S1: a splitter
// instance charges alice 1 uandr for "Send", and the fee flows to the
// publisher since no explicit receiver is configured.
func TestPayFeeDebitsPayeeCreditsPublisher(t *testing.T) {
	store := core.NewMemStore()
	db := adodb.New(store, "owner-addr")
	if _, err := db.Publish("owner-addr", "splitter", "code-1", "1.0.0",
		[]adodb.ActionFeeUpdate{{Action: "Send", Fee: adodb.ActionFee{Asset: "uandr", Amount: "1"}}},
		"publisher-addr"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	ledger := New(store, adapters.NoopBank{})
	if err := ledger.Deposit("alice", "", core.Coins{core.NewCoin("uandr", 1)}); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	fc := NewFeeCharger(ledger, db, fakeLookup{codeIDs: map[string]string{"splitter-instance": "code-1"}})
	if err := fc.PayFee(context.Background(), "splitter-instance", "alice", "Send"); err != nil {
		t.Fatalf("PayFee: %v", err)
	}

	aliceBal, _ := ledger.Balance("alice", "uandr")
	if aliceBal.Sign() != 0 {
		t.Fatalf("alice balance = %v, want 0", aliceBal)
	}
	pubBal, _ := ledger.Balance("publisher-addr", "uandr")
	if pubBal.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("publisher balance = %v, want 1", pubBal)
	}
}

// TestPayFeeUnresolvedTypeIsNoop covers step 2 of spec §4.7: a caller whose
// code_id resolves fine but isn't registered under any ADODB type charges
// nothing and returns success.
func TestPayFeeUnresolvedTypeIsNoop(t *testing.T) {
	store := core.NewMemStore()
	db := adodb.New(store, "owner-addr")
	ledger := New(store, adapters.NoopBank{})
	fc := NewFeeCharger(ledger, db, fakeLookup{codeIDs: map[string]string{"splitter-instance": "unpublished-code-id"}})
	if err := fc.PayFee(context.Background(), "splitter-instance", "alice", "Send"); err != nil {
		t.Fatalf("expected no-op success for an unregistered code_id, got %v", err)
	}
	if _, err := db.Publisher("unregistered-type"); err == nil {
		t.Fatalf("expected no publisher on record")
	}
}

func TestPayFeeNoConfiguredFeeIsNoop(t *testing.T) {
	store := core.NewMemStore()
	db := adodb.New(store, "owner-addr")
	if _, err := db.Publish("owner-addr", "splitter", "code-1", "1.0.0", nil, "publisher-addr"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	ledger := New(store, adapters.NoopBank{})
	fc := NewFeeCharger(ledger, db, fakeLookup{codeIDs: map[string]string{"splitter-instance": "code-1"}})
	if err := fc.PayFee(context.Background(), "splitter-instance", "alice", "unconfigured-action"); err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
}
