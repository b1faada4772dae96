package kernel

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"andromeda-kernel/core"
	"andromeda-kernel/vfs"
)

// Send is the kernel's packet-admission entry point (spec §4.2). sender is
// the address that actually invoked Send on-chain (the tx signer or a
// calling module).
func (k *Kernel) Send(ctx context.Context, sender string, pkt core.AMPPkt) (core.Response, error) {
	logger := zap.L().Sugar()
	if err := k.authenticateSender(ctx, sender, pkt); err != nil {
		logger.Warnf("rejected Send from %s: %v", sender, err)
		return core.Response{}, err
	}
	if len(pkt.Messages) == 0 {
		return core.Response{}, core.NewInvalidPacket("empty messages list")
	}

	resp := core.Response{}
	for i, msg := range pkt.Messages {
		inner := pkt.NextHop(sender, i)
		out, err := k.AMPReceive(ctx, k.Address, inner)
		if err != nil {
			if msg.Config.ExitAtError {
				logger.Errorf("dispatch to %s aborted: %v", msg.Recipient, err)
				k.metrics.observeDispatch("abort")
				return core.Response{}, err
			}
			logger.Warnf("dispatch to %s failed, continuing: %v", msg.Recipient, err)
			k.metrics.observeDispatch("error_continue")
			resp = resp.WithEvent(core.NewEvent("amp_message_failed",
				"recipient", string(msg.Recipient), "error", err.Error()))
			continue
		}
		logger.Infof("dispatched to %s from %s", msg.Recipient, sender)
		k.metrics.observeDispatch("ok")
		resp.Events = append(resp.Events, out.Events...)
	}
	return resp, nil
}

// authenticateSender implements spec §4.2 steps 1-2: a top-level call from
// the packet's own origin is accepted unconditionally; any other sender
// must be this kernel's own address or resolve via ADODB to a published
// module type.
func (k *Kernel) authenticateSender(ctx context.Context, sender string, pkt core.AMPPkt) error {
	if sender == pkt.Origin {
		return nil
	}
	if sender == k.Address {
		return nil
	}
	codeID, err := k.Wasm.ContractInfo(ctx, sender)
	if err != nil {
		return core.ErrUnauthorized
	}
	if _, err := k.DB.ADOType(codeID); err != nil {
		return core.ErrUnauthorized
	}
	return nil
}

// AMPReceive processes a single-message inner packet: it resolves the
// recipient via VFS, classifies the dispatch per spec §4.4/§4.5, and
// executes it. caller must be this kernel's own address (an internal hop
// from Send) or a registered remote kernel delivering over IBC (spec §6:
// "callable only by the kernel itself ... or by a previously-registered
// remote kernel via IBC; never by end users").
func (k *Kernel) AMPReceive(ctx context.Context, caller string, pkt core.AMPPkt) (core.Response, error) {
	if caller != k.Address {
		if !k.isRegisteredRemoteKernel(caller) {
			return core.Response{}, core.ErrUnauthorized
		}
	}
	if len(pkt.Messages) != 1 {
		return core.Response{}, core.NewInvalidPacket("AMPReceive expects exactly one message")
	}
	msg := pkt.Messages[0]

	resolved, err := k.VFS.ResolvePath(string(msg.Recipient), pkt.PreviousSender)
	if err != nil {
		if vfs.IsCrossChainUnresolved(err) {
			return k.dispatchCrossChain(ctx, pkt, msg)
		}
		return core.Response{}, err
	}
	return k.dispatchLocal(ctx, pkt, msg, resolved)
}

// dispatchLocal implements spec §4.4.
func (k *Kernel) dispatchLocal(ctx context.Context, pkt core.AMPPkt, msg core.AMPMsg, recipient string) (core.Response, error) {
	if msg.Funds.HasZero() {
		return core.Response{}, fmt.Errorf("%w: zero-amount funds", core.ErrInvalidFunds)
	}

	_, contractErr := k.Wasm.ContractInfo(ctx, recipient)
	hasContract := contractErr == nil
	hasMessage := len(msg.Message) > 0
	hasFunds := !msg.Funds.IsEmpty()

	switch {
	case hasContract && hasMessage:
		var wrapped []byte
		if msg.Config.Direct {
			wrapped = msg.Message
		} else {
			innerPkt := core.AMPPkt{Origin: pkt.Origin, PreviousSender: k.Address, Messages: []core.AMPMsg{msg}}
			wrapped, _ = json.Marshal(innerPkt)
		}
		out, err := k.Wasm.Execute(ctx, recipient, wrapped, msg.Funds)
		if err != nil {
			return core.Response{}, err
		}
		if out == nil {
			out = &core.Response{}
		}
		return *out, nil

	case !hasContract && !hasMessage && hasFunds:
		if err := k.Bank.BankSend(pkt.PreviousSender, recipient, msg.Funds); err != nil {
			return core.Response{}, err
		}
		return core.Response{}.WithEvent(core.NewEvent("bank_send", "to", recipient)), nil

	case !hasContract && hasMessage:
		return core.Response{}, core.NewInvalidPacket("recipient is not a contract")

	default:
		return core.Response{}, core.NewInvalidPacket("no message or funds")
	}
}
