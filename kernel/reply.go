package kernel

import (
	"encoding/json"
	"fmt"

	"andromeda-kernel/core"
)

const keyReply = "kernel:reply:" // kernel:reply:<channel_id>:<sequence> -> jsonForwardReplyState

// ForwardReplyKind classifies how an outbound cross-chain dispatch was
// shaped (spec §4.5).
type ForwardReplyKind int

const (
	KindTokenTransferThenExecute ForwardReplyKind = iota
	KindExecuteOnly
	KindTokenTransferOnly
)

// AMPContext carries the provenance pair a deferred follow-up message needs
// to preserve origin across the suspension (spec §3's "amp_ctx").
type AMPContext struct {
	Origin         string `json:"origin"`
	PreviousSender string `json:"previous_sender"`
}

// ForwardReplyState is the durable record of one in-flight IBC dispatch
// (spec §3), keyed by (channel_id, sequence). Created when the kernel emits
// an IBC packet; removed when TriggerRelay is invoked with the matching
// ack.
type ForwardReplyState struct {
	Kind            ForwardReplyKind `json:"kind"`
	FinalRecipient  core.AndrAddr    `json:"final_recipient"`
	DeferredMessage []byte           `json:"deferred_message,omitempty"`
	Funds           core.Coins       `json:"funds"`
	RefundAddr      core.AndrAddr    `json:"refund_addr,omitempty"`
	AMPCtx          *AMPContext      `json:"amp_ctx,omitempty"`
}

func replyKey(channelID string, sequence uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%d", keyReply, channelID, sequence))
}

// putPendingPacket records a fresh ForwardReplyState, the durable record the
// kernel's cross-chain dispatch must write before the outbound IBC packet is
// considered emitted (spec §5: "any failure to record it before emitting
// the packet is a critical bug").
func (k *Kernel) putPendingPacket(channelID string, sequence uint64, state ForwardReplyState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := k.store.Set(replyKey(channelID, sequence), raw); err != nil {
		return err
	}
	k.metrics.PendingReplies.Inc()
	return nil
}

// PendingPacket queries the ForwardReplyState recorded for (channel_id,
// sequence) (spec §6).
func (k *Kernel) PendingPacket(channelID string, sequence uint64) (ForwardReplyState, error) {
	raw, err := k.store.Get(replyKey(channelID, sequence))
	if err != nil {
		return ForwardReplyState{}, err
	}
	if raw == nil {
		return ForwardReplyState{}, fmt.Errorf("%w: %s:%d", core.ErrUnknownPacket, channelID, sequence)
	}
	var state ForwardReplyState
	if err := json.Unmarshal(raw, &state); err != nil {
		return ForwardReplyState{}, err
	}
	return state, nil
}

// removePendingPacket deletes a ForwardReplyState once TriggerRelay has
// reconciled it, the state machine's only path to its Removed terminal
// state (spec §4.5).
func (k *Kernel) removePendingPacket(channelID string, sequence uint64) error {
	if err := k.store.Delete(replyKey(channelID, sequence)); err != nil {
		return err
	}
	k.metrics.PendingReplies.Dec()
	return nil
}
