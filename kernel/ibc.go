package kernel

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"andromeda-kernel/adapters"
	"andromeda-kernel/core"
)

// ICS20Memo is the memo payload attached to an ICS-20 transfer that also
// carries a deferred execute (TokenTransferThenExecute), modeled on the
// real IBC-hooks wasm-hook memo convention (spec §6: "a structure naming a
// wasm-hook receiver address, a serialized inner execute message, and an
// optional recovery address").
type ICS20Memo struct {
	WasmHookReceiver string `json:"wasm_hook_receiver"`
	Execute          []byte `json:"execute"`
	RecoveryAddr     string `json:"recovery_addr,omitempty"`
}

// isRegisteredRemoteKernel reports whether addr matches the recorded
// RemoteKernelAddress for some registered channel, the predicate AMPReceive
// uses to accept inbound cross-chain deliveries (spec §6).
func (k *Kernel) isRegisteredRemoteKernel(addr string) bool {
	it := k.store.Iterator([]byte(keyChannel))
	defer it.Close()
	for it.Next() {
		var info core.ChannelInfo
		if err := json.Unmarshal(it.Value(), &info); err != nil {
			continue
		}
		if info.RemoteKernelAddress == addr {
			return true
		}
	}
	return false
}

// dispatchCrossChain implements spec §4.5: classify the message, issue the
// appropriate IBC leg(s), and record a ForwardReplyState before considering
// the packet emitted.
func (k *Kernel) dispatchCrossChain(ctx context.Context, pkt core.AMPPkt, msg core.AMPMsg) (core.Response, error) {
	chain, remotePath, ok := msg.Recipient.SplitCrossChain()
	if !ok {
		return core.Response{}, core.NewInvalidPacket("recipient is not a cross-chain path")
	}
	info, err := k.ChannelInfo(chain)
	if err != nil {
		return core.Response{}, err
	}
	if msg.Funds.HasZero() {
		return core.Response{}, fmt.Errorf("%w: zero-amount funds", core.ErrInvalidFunds)
	}

	timeoutHeight := uint64(core.IBCTimeoutHorizon.Seconds())
	if msg.Config.IBCConfig != nil && msg.Config.IBCConfig.TimeoutSeconds > 0 {
		timeoutHeight = msg.Config.IBCConfig.TimeoutSeconds
	}

	hasMessage := len(msg.Message) > 0
	hasFunds := !msg.Funds.IsEmpty()
	amCtx := &AMPContext{Origin: pkt.Origin, PreviousSender: pkt.PreviousSender}
	logger := zap.L().Sugar()

	switch {
	case !hasMessage && hasFunds:
		seq, err := k.ICS20.Transfer(ctx, info.ICS20Channel, msg.Funds[0], remotePath, timeoutHeight, nil)
		if err != nil {
			logger.Errorf("ICS20 transfer to %s over %s failed: %v", chain, info.ICS20Channel, err)
			return core.Response{}, err
		}
		logger.Infof("dispatched token transfer to %s over %s, sequence %d", chain, info.ICS20Channel, seq)
		if err := k.putPendingPacket(info.ICS20Channel, seq, ForwardReplyState{
			Kind:           KindTokenTransferOnly,
			FinalRecipient: core.AndrAddr(remotePath),
			Funds:          msg.Funds,
			AMPCtx:         amCtx,
		}); err != nil {
			return core.Response{}, err
		}
		return core.Response{}.WithEvent(core.NewEvent("ibc_token_transfer_dispatched", "chain", chain, "sequence", fmt.Sprint(seq))), nil

	case hasMessage && !hasFunds:
		raw, _ := json.Marshal(core.AMPPkt{Origin: pkt.Origin, PreviousSender: k.Address, Messages: []core.AMPMsg{msg}})
		seq, err := k.IBC.SendPacket(ctx, info.DirectChannel, timeoutHeight, raw)
		if err != nil {
			return core.Response{}, err
		}
		if err := k.putPendingPacket(info.DirectChannel, seq, ForwardReplyState{
			Kind:           KindExecuteOnly,
			FinalRecipient: core.AndrAddr(remotePath),
			AMPCtx:         amCtx,
		}); err != nil {
			return core.Response{}, err
		}
		return core.Response{}.WithEvent(core.NewEvent("ibc_execute_dispatched", "chain", chain, "sequence", fmt.Sprint(seq))), nil

	case hasMessage && hasFunds:
		memo := ICS20Memo{WasmHookReceiver: remotePath, Execute: msg.Message}
		memoRaw, _ := json.Marshal(memo)
		seq, err := k.ICS20.Transfer(ctx, info.ICS20Channel, msg.Funds[0], remotePath, timeoutHeight, memoRaw)
		if err != nil {
			return core.Response{}, err
		}
		if err := k.putPendingPacket(info.ICS20Channel, seq, ForwardReplyState{
			Kind:            KindTokenTransferThenExecute,
			FinalRecipient:  core.AndrAddr(remotePath),
			DeferredMessage: msg.Message,
			Funds:           msg.Funds,
			AMPCtx:          amCtx,
		}); err != nil {
			return core.Response{}, err
		}
		return core.Response{}.WithEvent(core.NewEvent("ibc_token_and_execute_dispatched", "chain", chain, "sequence", fmt.Sprint(seq))), nil

	default:
		return core.Response{}, core.NewInvalidPacket("no message or funds")
	}
}

// ackDigest hashes the fields of a relayed acknowledgement that a detached
// signature must cover, binding the signature to this specific (channel,
// sequence, ack) triple so it cannot be replayed against a different packet.
func ackDigest(channelID string, sequence uint64, ack core.Ack) [32]byte {
	h := sha256.New()
	fmt.Fprintf(h, "%s:%d:%d:", channelID, sequence, ack.Status)
	h.Write(ack.Payload)
	h.Write([]byte(ack.Err))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// TriggerRelay reconciles a ForwardReplyState entry once the relayer
// delivers an acknowledgement or timeout (spec §4.5). Caller must equal the
// registered trigger_key principal, and — when the relayer attaches a
// detached signature — that signature must verify over the ack payload
// (adapters.VerifyRelayedAck), defense in depth alongside the trigger_key
// check.
func (k *Kernel) TriggerRelay(ctx context.Context, caller, channelID string, sequence uint64, relayed adapters.RelayedAck) (core.Response, error) {
	logger := zap.L().Sugar()
	trigger, err := k.triggerKey()
	if err != nil {
		return core.Response{}, err
	}
	if caller != trigger {
		logger.Warnf("rejected TriggerRelay from %s: not the trigger_key principal", caller)
		return core.Response{}, core.ErrUnauthorized
	}
	if err := adapters.VerifyRelayedAck(relayed, ackDigest(channelID, sequence, relayed.Ack)); err != nil {
		logger.Warnf("rejected TriggerRelay for %s:%d: %v", channelID, sequence, err)
		return core.Response{}, fmt.Errorf("%w: %v", core.ErrUnauthorized, err)
	}
	ack := relayed.Ack

	state, err := k.PendingPacket(channelID, sequence)
	if err != nil {
		logger.Warnf("TriggerRelay for unknown packet %s:%d: %v", channelID, sequence, err)
		return core.Response{}, err // ErrUnknownPacket, including the duplicate-TriggerRelay case
	}

	if ack.Status == core.AckSuccess {
		logger.Infof("TriggerRelay ack success for %s:%d", channelID, sequence)
		return k.resolveSuccess(ctx, channelID, sequence, state)
	}
	logger.Infof("TriggerRelay ack failure for %s:%d: %s", channelID, sequence, ack.Err)
	return k.resolveFailure(ctx, channelID, sequence, state)
}

func (k *Kernel) resolveSuccess(ctx context.Context, channelID string, sequence uint64, state ForwardReplyState) (core.Response, error) {
	resp := core.Response{}
	switch state.Kind {
	case KindExecuteOnly:
		resp = resp.WithEvent(core.NewEvent("ibc_relay_confirmed", "kind", "execute_only"))
	case KindTokenTransferOnly:
		resp = resp.WithEvent(core.NewEvent("ibc_relay_confirmed", "kind", "token_transfer_only"))
	case KindTokenTransferThenExecute:
		if state.AMPCtx != nil {
			followUp := core.AMPPkt{
				Origin:         state.AMPCtx.Origin,
				PreviousSender: k.Address,
				Messages: []core.AMPMsg{
					core.NewAMPMsg(state.FinalRecipient, state.DeferredMessage, state.Funds),
				},
			}
			raw, _ := json.Marshal(followUp)
			if _, err := k.IBC.SendPacket(ctx, channelID, 0, raw); err != nil {
				zap.L().Sugar().Errorf("deferred execute after ack for %s:%d failed: %v", channelID, sequence, err)
				return core.Response{}, err
			}
		}
		resp = resp.WithEvent(core.NewEvent("ibc_relay_confirmed", "kind", "token_transfer_then_execute"))
	}
	if err := k.removePendingPacket(channelID, sequence); err != nil {
		return core.Response{}, err
	}
	return resp, nil
}

func (k *Kernel) resolveFailure(ctx context.Context, channelID string, sequence uint64, state ForwardReplyState) (core.Response, error) {
	logger := zap.L().Sugar()
	resp := core.Response{}
	if !state.Funds.IsEmpty() {
		refundTo := string(state.RefundAddr)
		if refundTo == "" && state.AMPCtx != nil {
			refundTo = state.AMPCtx.Origin
		}
		if refundTo != "" {
			if err := k.Bank.BankSend(k.Address, refundTo, state.Funds); err != nil {
				logger.Errorf("refund to %s for %s:%d failed: %v", refundTo, channelID, sequence, err)
				return core.Response{}, err
			}
			logger.Infof("refunded %s for failed relay %s:%d", refundTo, channelID, sequence)
		}
	}
	if err := k.removePendingPacket(channelID, sequence); err != nil {
		return core.Response{}, err
	}
	return resp.WithEvent(core.NewEvent("ibc_relay_failed", "channel", channelID)), nil
}

