package adapters

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"andromeda-kernel/core"
)

func TestVerifyRelayedAckAcceptsValidSignature(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	ack := core.Ack{Status: core.AckSuccess}
	digest := [32]byte{1, 2, 3}
	sig := ecdsa.Sign(priv, digest[:])

	r := RelayedAck{Ack: ack, Signature: sig.Serialize(), PubKey: priv.PubKey().SerializeCompressed()}
	if err := VerifyRelayedAck(r, digest); err != nil {
		t.Fatalf("VerifyRelayedAck: %v", err)
	}
}

func TestVerifyRelayedAckRejectsWrongDigest(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("NewPrivateKey: %v", err)
	}
	digest := [32]byte{1, 2, 3}
	sig := ecdsa.Sign(priv, digest[:])

	r := RelayedAck{Ack: core.Ack{Status: core.AckSuccess}, Signature: sig.Serialize(), PubKey: priv.PubKey().SerializeCompressed()}
	other := [32]byte{9, 9, 9}
	if err := VerifyRelayedAck(r, other); err == nil {
		t.Fatal("expected verification failure for mismatched digest")
	}
}

func TestVerifyRelayedAckAcceptsUnsigned(t *testing.T) {
	r := RelayedAck{Ack: core.Ack{Status: core.AckSuccess}}
	if err := VerifyRelayedAck(r, [32]byte{}); err != nil {
		t.Fatalf("VerifyRelayedAck: %v", err)
	}
}
