package adodb

import (
	"errors"
	"testing"

	"andromeda-kernel/core"
)

func newTestADODB() *ADODB {
	return New(core.NewMemStore(), "owner-addr")
}

func TestPublishAndCodeIdResolution(t *testing.T) {
	d := newTestADODB()
	if _, err := d.Publish("owner-addr", "splitter", "code-1", "0.1.0", nil, ""); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := d.Publish("owner-addr", "splitter", "code-2", "0.2.0", nil, ""); err != nil {
		t.Fatalf("Publish second version: %v", err)
	}

	latest, err := d.CodeId("splitter")
	if err != nil || latest != "code-2" {
		t.Fatalf("CodeId(latest) = %q, %v", latest, err)
	}
	exact, err := d.CodeId("splitter@0.1.0")
	if err != nil || exact != "code-1" {
		t.Fatalf("CodeId(exact) = %q, %v", exact, err)
	}

	typ, err := d.ADOType("code-1")
	if err != nil || typ != "splitter" {
		t.Fatalf("ADOType = %q, %v", typ, err)
	}
}

func TestPublishRejectsOverwriteAndUnauthorized(t *testing.T) {
	d := newTestADODB()
	if _, err := d.Publish("owner-addr", "splitter", "code-1", "0.1.0", nil, ""); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := d.Publish("owner-addr", "splitter", "code-other", "0.1.0", nil, ""); !errors.Is(err, core.ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion on overwrite, got %v", err)
	}
	if _, err := d.Publish("someone-else", "staking", "code-9", "0.1.0", nil, ""); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdateActionFeesByPublisherOrOwner(t *testing.T) {
	d := newTestADODB()
	if _, err := d.Publish("owner-addr", "splitter", "code-1", "0.1.0", nil, "publisher-addr"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	fees := []ActionFeeUpdate{{Action: "split", Fee: ActionFee{Asset: "uandr", Amount: "100"}}}
	if err := d.UpdateActionFees("publisher-addr", "splitter", fees); err != nil {
		t.Fatalf("UpdateActionFees by publisher: %v", err)
	}
	fee, ok, err := d.ActionFee("splitter", "split")
	if err != nil || !ok || fee.Amount != "100" {
		t.Fatalf("ActionFee = %+v, ok=%v, err=%v", fee, ok, err)
	}
	if err := d.UpdateActionFees("random-addr", "splitter", fees); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestActionFeeNoEntryIsNotAnError(t *testing.T) {
	d := newTestADODB()
	if _, err := d.Publish("owner-addr", "splitter", "code-1", "0.1.0", nil, ""); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	_, ok, err := d.ActionFee("splitter", "unconfigured-action")
	if err != nil {
		t.Fatalf("ActionFee: %v", err)
	}
	if ok {
		t.Fatalf("expected no fee configured")
	}
}

func TestADOVersionsPagination(t *testing.T) {
	d := newTestADODB()
	versions := []string{"0.1.0", "0.2.0", "0.3.0"}
	for i, v := range versions {
		if _, err := d.Publish("owner-addr", "splitter", "code-"+v, v, nil, ""); err != nil {
			t.Fatalf("Publish %d: %v", i, err)
		}
	}
	page, err := d.ADOVersions("splitter", 1, 1)
	if err != nil {
		t.Fatalf("ADOVersions: %v", err)
	}
	if len(page) != 1 || page[0].Semver != "0.2.0" {
		t.Fatalf("got %+v", page)
	}
}
