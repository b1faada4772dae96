package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"andromeda-kernel/adapters"
	"andromeda-kernel/adodb"
	"andromeda-kernel/core"
	"andromeda-kernel/economics"
	"andromeda-kernel/kernel"
	"andromeda-kernel/pkg/config"
	"andromeda-kernel/vfs"
)

func newTestDeps(t *testing.T) *deps {
	t.Helper()
	store := core.NewMemStore()
	bank := adapters.NoopBank{}
	v := vfs.New(store, "juno")
	db := adodb.New(store, "owner-addr")
	econ := economics.New(store, bank)
	fees := economics.NewFeeCharger(econ, db, adapters.NoopWasm{})
	k := kernel.New(store, "kernel-addr", "owner-addr", "juno",
		v, db, econ, fees, bank, adapters.NoopWasm{}, adapters.NoopIBC{}, adapters.NoopICS20{})
	cfg := &config.Config{}
	cfg.Kernel.LocalChain = "juno"
	return &deps{cfg: cfg, store: store, vfs: v, db: db, econ: econ, fees: fees, kernel: k}
}

func TestHealthHandlerReportsLocalChain(t *testing.T) {
	kd = newTestDeps(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	var body map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["chain"] != "juno" {
		t.Fatalf("chain = %q, want juno", body["chain"])
	}
	if body["status"] != "ok" {
		t.Fatalf("status = %q, want ok", body["status"])
	}
}

func TestKeyAddressHandlerRoundTripsUpsertedKey(t *testing.T) {
	kd = newTestDeps(t)
	if err := kd.kernel.UpsertKeyAddress("owner-addr", "vfs", "0x0000000000000000000000000000000000aaaa"); err != nil {
		t.Fatalf("UpsertKeyAddress: %v", err)
	}

	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/keys/vfs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["address"] != "0x0000000000000000000000000000000000aaaa" {
		t.Fatalf("address = %q", body["address"])
	}
}

func TestKeyAddressHandlerReportsMissingKey(t *testing.T) {
	kd = newTestDeps(t)
	r := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/keys/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
