package adapters

import (
	"context"
	"encoding/json"

	"andromeda-kernel/core"
)

// ICS20Sender issues a token transfer over an ICS-20 channel (spec §4.5,
// TokenTransferOnly / TokenTransferThenExecute). Concretized here on the
// real ibc-go transfer keeper's packet shape rather than left abstract.
type ICS20Sender interface {
	// Transfer issues coin to receiver over channel. memo is attached
	// verbatim to the packet data, carrying an IBC-hooks wasm-hook payload
	// when the transfer accompanies a deferred execute
	// (TokenTransferThenExecute); nil for a plain transfer.
	Transfer(ctx context.Context, channel string, coin core.Coin, receiver string, timeoutHeight uint64, memo []byte) (sequence uint64, err error)
}

// ICS20AckPayload is the acknowledgement payload ibc-go's transfer module
// writes on OnAcknowledgementPacket: either a successful-transfer result
// bytes, or an error string. DecodeICS20Ack turns it into the core.Ack whose
// status decides whether a pending ForwardReplyState completes as delivered
// or rolls back as a refund (spec §4.5); TriggerRelay itself takes an
// already-decoded core.Ack.
type ICS20AckPayload struct {
	Result []byte `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DecodeICS20Ack parses the ack bytes the relayer delivers for an ICS-20
// leg into a core.Ack, mirroring ibc-go's channeltypes.Acknowledgement
// success/error union.
func DecodeICS20Ack(raw []byte) (core.Ack, error) {
	var p ICS20AckPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return core.Ack{}, err
	}
	if p.Error != "" {
		return core.Ack{Status: core.AckError, Err: p.Error}, nil
	}
	return core.Ack{Status: core.AckSuccess, Payload: p.Result}, nil
}
