package ado

import (
	"context"
	"errors"
	"testing"

	"andromeda-kernel/adodb"
	"andromeda-kernel/core"
)

type fakeLookup map[string]string

func (f fakeLookup) ContractInfo(ctx context.Context, contract string) (string, error) {
	id, ok := f[contract]
	if !ok {
		return "", errors.New("not found")
	}
	return id, nil
}

func newRegisteredDB(t *testing.T) *adodb.ADODB {
	t.Helper()
	store := core.NewMemStore()
	db := adodb.New(store, "owner-addr")
	if _, err := db.Publish("owner-addr", "splitter", "code-1", "1.0.0", nil, "publisher-addr"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	return db
}

func TestInstantiateRequiresRegisteredType(t *testing.T) {
	db := newRegisteredDB(t)
	if _, err := Instantiate(db, "splitter", "1.0.0", "kernel-addr", "owner", "splitter-instance"); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if _, err := Instantiate(db, "staking", "1.0.0", "kernel-addr", "owner", "staking-instance"); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestUnwrapAMPTrustsKernelAndDirectOrigin(t *testing.T) {
	db := newRegisteredDB(t)
	base, err := Instantiate(db, "splitter", "1.0.0", "kernel-addr", "owner", "splitter-instance")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	lookup := fakeLookup{}

	pkt := core.AMPPkt{
		Origin:         "alice",
		PreviousSender: "kernel-addr",
		Messages:       []core.AMPMsg{core.NewAMPMsg("splitter-instance", nil, nil)},
	}
	_, sender, err := base.UnwrapAMP(context.Background(), pkt, db, lookup)
	if err != nil || sender != "alice" {
		t.Fatalf("UnwrapAMP via kernel = %v, %v", sender, err)
	}

	directPkt := core.AMPPkt{Origin: "alice", PreviousSender: "alice", Messages: pkt.Messages}
	_, sender, err = base.UnwrapAMP(context.Background(), directPkt, db, lookup)
	if err != nil || sender != "alice" {
		t.Fatalf("UnwrapAMP direct = %v, %v", sender, err)
	}
}

func TestUnwrapAMPTrustsRegisteredADOHop(t *testing.T) {
	db := newRegisteredDB(t)
	base, err := Instantiate(db, "splitter", "1.0.0", "kernel-addr", "owner", "splitter-instance")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	lookup := fakeLookup{"upstream-ado": "code-1"}
	pkt := core.AMPPkt{
		Origin:         "alice",
		PreviousSender: "upstream-ado",
		Messages:       []core.AMPMsg{core.NewAMPMsg("splitter-instance", nil, nil)},
	}
	_, sender, err := base.UnwrapAMP(context.Background(), pkt, db, lookup)
	if err != nil || sender != "alice" {
		t.Fatalf("UnwrapAMP via registered hop = %v, %v", sender, err)
	}
}

func TestUnwrapAMPRejectsUntrustedSender(t *testing.T) {
	db := newRegisteredDB(t)
	base, err := Instantiate(db, "splitter", "1.0.0", "kernel-addr", "owner", "splitter-instance")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	lookup := fakeLookup{}
	pkt := core.AMPPkt{
		Origin:         "alice",
		PreviousSender: "random-addr",
		Messages:       []core.AMPMsg{core.NewAMPMsg("splitter-instance", nil, nil)},
	}
	if _, _, err := base.UnwrapAMP(context.Background(), pkt, db, lookup); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUnwrapAMPRejectsEmptyMessages(t *testing.T) {
	db := newRegisteredDB(t)
	base, err := Instantiate(db, "splitter", "1.0.0", "kernel-addr", "owner", "splitter-instance")
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	pkt := core.AMPPkt{Origin: "alice", PreviousSender: "kernel-addr"}
	if _, _, err := base.UnwrapAMP(context.Background(), pkt, db, fakeLookup{}); !errors.Is(err, core.ErrInvalidPacket) {
		t.Fatalf("expected ErrInvalidPacket, got %v", err)
	}
}

func TestRequireDirectAndNonpayable(t *testing.T) {
	if err := RequireDirect(true); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for AMP arrival, got %v", err)
	}
	if err := RequireDirect(false); err != nil {
		t.Fatalf("unexpected error for direct arrival: %v", err)
	}
	if err := RequireNonpayable(core.Coins{core.NewCoin("uandr", 1)}); !errors.Is(err, core.ErrInvalidFunds) {
		t.Fatalf("expected ErrInvalidFunds, got %v", err)
	}
	if err := RequireNonpayable(nil); err != nil {
		t.Fatalf("unexpected error for no funds: %v", err)
	}
}
