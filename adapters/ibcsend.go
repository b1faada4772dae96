package adapters

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"andromeda-kernel/core"
)

// IBCSender issues an AMP-over-IBC execute packet on a direct channel
// (spec §4.5, ExecuteOnly / TokenTransferThenExecute dispatch). The kernel
// only depends on this interface; the relayer and channel handshake are
// chain-runtime primitives out of scope per spec §1.
type IBCSender interface {
	SendPacket(ctx context.Context, channel string, timeoutHeight uint64, data []byte) (sequence uint64, err error)
}

// RelayedAck is an acknowledgement as handed to the kernel's TriggerRelay
// entry point by the relayer, together with an optional detached signature
// from the relaying principal — defense in depth alongside the sender
// address check already performed by the kernel (spec §4.5's trigger_key
// principal).
type RelayedAck struct {
	Ack       core.Ack
	Signature []byte
	PubKey    []byte
}

// VerifyRelayedAck checks a detached secp256k1 signature over the ack
// payload, the same primitive the teacher's cross-chain bridge uses to
// authenticate relayer submissions (core/cross_chain.go bridge signature
// checks), generalized here from the go-ethereum curve to btcec so a
// relayer identity need not be an EVM-style account.
func VerifyRelayedAck(r RelayedAck, digest [32]byte) error {
	if len(r.Signature) == 0 || len(r.PubKey) == 0 {
		return nil // unsigned acks are accepted; the sender-address check is the primary gate
	}
	pub, err := btcec.ParsePubKey(r.PubKey)
	if err != nil {
		return fmt.Errorf("adapters: invalid relayer pubkey: %w", err)
	}
	sig, err := ecdsa.ParseDERSignature(r.Signature)
	if err != nil {
		return fmt.Errorf("adapters: invalid relayer signature: %w", err)
	}
	if !sig.Verify(digest[:], pub) {
		return fmt.Errorf("adapters: relayer signature does not match ack payload")
	}
	return nil
}
