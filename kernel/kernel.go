// Package kernel implements the central AMP dispatcher (spec §4.2/§4.4/§4.5,
// component C4): packet admission, provenance verification, local and
// cross-chain dispatch, and the IBC reply/ack reconciliation state machine.
package kernel

import (
	"encoding/json"
	"fmt"

	"andromeda-kernel/adapters"
	"andromeda-kernel/adodb"
	"andromeda-kernel/core"
	"andromeda-kernel/economics"
	"andromeda-kernel/vfs"
)

const (
	keyAddress = "kernel:key:"     // kernel:key:<name> -> address
	keyChannel = "kernel:channel:" // kernel:channel:<chain_name> -> jsonChannelInfo
)

// Well-known collaborator keys recorded via UpsertKeyAddress (spec §6).
const (
	KeyVFS         = "vfs"
	KeyADODB       = "adodb"
	KeyEconomics   = "economics"
	KeyIBCRegistry = "ibc-registry"
	KeyTriggerKey  = "trigger_key"
)

// Kernel is the central AMP dispatcher. Address is this kernel's own
// on-chain address, the value provenance checks compare
// AMPPkt.PreviousSender against (spec §4.1, §4.2).
type Kernel struct {
	store      core.KVStore
	Address    string
	Owner      string
	LocalChain string

	VFS   *vfs.VFS
	DB    *adodb.ADODB
	Econ  *economics.Ledger
	Fees  *economics.FeeCharger
	Bank  adapters.BankSender
	Wasm  adapters.WasmExecutor
	IBC   adapters.IBCSender
	ICS20 adapters.ICS20Sender

	metrics *Metrics
}

// New builds a Kernel bound to store, with address as this chain's kernel
// address and owner as the principal permitted to call UpsertKeyAddress /
// AssignChannels.
func New(store core.KVStore, address, owner, localChain string, v *vfs.VFS, db *adodb.ADODB, econ *economics.Ledger, fees *economics.FeeCharger, bank adapters.BankSender, wasm adapters.WasmExecutor, ibcSender adapters.IBCSender, ics20 adapters.ICS20Sender) *Kernel {
	return &Kernel{
		store:      store,
		Address:    address,
		Owner:      owner,
		LocalChain: localChain,
		VFS:        v,
		DB:         db,
		Econ:       econ,
		Fees:       fees,
		Bank:       bank,
		Wasm:       wasm,
		IBC:        ibcSender,
		ICS20:      ics20,
		metrics:    NewMetrics(),
	}
}

// UpsertKeyAddress records a well-known collaborator address (spec §6).
// Owner-only.
func (k *Kernel) UpsertKeyAddress(caller, key, value string) error {
	if caller != k.Owner {
		return core.ErrUnauthorized
	}
	return k.store.Set([]byte(keyAddress+key), []byte(value))
}

// KeyAddress queries a collaborator address previously recorded via
// UpsertKeyAddress.
func (k *Kernel) KeyAddress(key string) (string, error) {
	raw, err := k.store.Get([]byte(keyAddress + key))
	if err != nil {
		return "", err
	}
	if raw == nil {
		return "", fmt.Errorf("%w: no address recorded for key %q", core.ErrPathNotFound, key)
	}
	return string(raw), nil
}

// AssignChannels records the two IBC legs held open to a remote chain
// (spec §4.5/§6). Owner-only.
func (k *Kernel) AssignChannels(caller string, info core.ChannelInfo) error {
	if caller != k.Owner {
		return core.ErrUnauthorized
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return k.store.Set([]byte(keyChannel+info.ChainName), raw)
}

// ChannelInfo queries the IBC channel pair registered for chainName.
func (k *Kernel) ChannelInfo(chainName string) (core.ChannelInfo, error) {
	raw, err := k.store.Get([]byte(keyChannel + chainName))
	if err != nil {
		return core.ChannelInfo{}, err
	}
	if raw == nil {
		return core.ChannelInfo{}, fmt.Errorf("%w: %s", core.ErrNoSuchChannel, chainName)
	}
	var info core.ChannelInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return core.ChannelInfo{}, err
	}
	return info, nil
}

// triggerKey returns the principal permitted to call TriggerRelay.
func (k *Kernel) triggerKey() (string, error) {
	return k.KeyAddress(KeyTriggerKey)
}

// Metrics exposes this kernel's collector set, for an HTTP server to serve
// at /metrics.
func (k *Kernel) Metrics() *Metrics { return k.metrics }
