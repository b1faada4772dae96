// Package adapters declares the interfaces the kernel and economics ledger
// use to reach chain-runtime primitives treated as external collaborators
// per spec §1 ("Chain-runtime primitives ... treated as primitives with
// defined interfaces"): native bank send, out-of-process wasm execution,
// and IBC packet relay. Production implementations live in the host chain
// binary; this package ships only the no-op implementations used by tests
// and cmd/kerneld, and a gRPC wasm adapter that owns just the connection.
package adapters

import "andromeda-kernel/core"

// BankSender issues a native token transfer, the primitive behind
// Economics.Withdraw and the kernel's non-contract-recipient dispatch path
// (spec §4.4: "non-contract address and message is empty -> native
// bank-send").
type BankSender interface {
	BankSend(from, to string, funds core.Coins) error
}

// NoopBank is a BankSender that performs no I/O, used by tests and by
// cmd/kerneld, which always wires it.
type NoopBank struct{}

func (NoopBank) BankSend(from, to string, funds core.Coins) error { return nil }
