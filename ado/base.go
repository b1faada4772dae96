// Package ado implements the base contract every module embeds (spec §4.1,
// component C5): owner/operator permission discipline, AMP-packet
// unwrapping, and the fee-payment hook. This is a library, not a
// standalone service — every domain module (splitter, staking, ...)
// composes a BaseADO value into its own state.
package ado

import (
	"context"
	"fmt"

	"andromeda-kernel/adodb"
	"andromeda-kernel/core"
	"andromeda-kernel/economics"
)

// ContractInfoLookup resolves an address to the code_id it was instantiated
// from, used by UnwrapAMP to recognize a legitimate ADO-to-ADO hop.
type ContractInfoLookup interface {
	ContractInfo(ctx context.Context, contract string) (codeID string, err error)
}

// BaseADO is the shared state and behavior every module embeds.
type BaseADO struct {
	Permissions
	ADOType         string
	Version         string
	KernelAddress   string
	ContractAddress string
}

// Instantiate records owner, verifies (ado_type, version) is registered in
// ADODB, and stores the kernel handle (spec §4.1). Fails with ErrInvalidType
// if the pair is unregistered. contractAddress is this instance's own
// on-chain address, recorded so PayFee can present itself to the
// contract-info lookup.
func Instantiate(db *adodb.ADODB, adoType, version, kernelAddress, owner, contractAddress string) (*BaseADO, error) {
	if _, err := db.CodeId(adoType + "@" + version); err != nil {
		return nil, fmt.Errorf("%w: %s@%s is not registered", core.ErrInvalidType, adoType, version)
	}
	return &BaseADO{
		Permissions:     NewPermissions(owner),
		ADOType:         adoType,
		Version:         version,
		KernelAddress:   kernelAddress,
		ContractAddress: contractAddress,
	}, nil
}

// UnwrapAMP validates an inbound AMPPkt's provenance and returns the first
// message along with the effective sender (spec §4.1). previous_sender must
// be either:
//   - the recorded kernel address, or
//   - equal to origin (the original caller invoking directly), or
//   - an address whose code_id resolves via ADODB to a published type (a
//     legitimate ADO-to-ADO hop).
//
// The effective sender returned to the caller is always pkt.Origin — the
// ADODB registry is the kernel's trust anchor over who may relay
// provenance on its behalf.
func (b *BaseADO) UnwrapAMP(ctx context.Context, pkt core.AMPPkt, db *adodb.ADODB, lookup ContractInfoLookup) (*core.AMPMsg, string, error) {
	if len(pkt.Messages) == 0 {
		return nil, "", core.NewInvalidPacket("empty messages list")
	}

	trusted := pkt.PreviousSender == b.KernelAddress || pkt.PreviousSender == pkt.Origin
	if !trusted {
		codeID, err := lookup.ContractInfo(ctx, pkt.PreviousSender)
		if err == nil {
			if _, typeErr := db.ADOType(codeID); typeErr == nil {
				trusted = true
			}
		}
	}
	if !trusted {
		return nil, "", core.ErrUnauthorized
	}

	msg := pkt.Messages[0]
	return &msg, pkt.Origin, nil
}

// RequireDirect rejects a direct-only action's invocation when it arrived
// wrapped inside an AMP packet (spec §4.1).
func RequireDirect(arrivedViaAMP bool) error {
	if arrivedViaAMP {
		return fmt.Errorf("%w: action requires a direct call", core.ErrUnauthorized)
	}
	return nil
}

// RequireNonpayable rejects attached funds on actions that must not carry
// them.
func RequireNonpayable(funds core.Coins) error {
	if !funds.IsEmpty() {
		return fmt.Errorf("%w: action does not accept funds", core.ErrInvalidFunds)
	}
	return nil
}

// InstantiateSubmessage is the wasm-instantiate submessage
// GenerateInstantiateSubmessage produces, reserving replyID for address
// capture on the App contract's reply handler (spec §4.1/§4.8).
type InstantiateSubmessage struct {
	CodeID  string
	Msg     []byte
	Funds   core.Coins
	ReplyID uint64
	Label   string
}

// GenerateInstantiateSubmessage looks up code_id via ADODB and produces a
// wasm-instantiate submessage.
func GenerateInstantiateSubmessage(db *adodb.ADODB, adoType string, initMsg []byte, replyID uint64, label string) (*InstantiateSubmessage, error) {
	codeID, err := db.CodeId(adoType)
	if err != nil {
		return nil, err
	}
	return &InstantiateSubmessage{CodeID: codeID, Msg: initMsg, ReplyID: replyID, Label: label}, nil
}

// PayFee invokes Economics with the current (sender, action) (spec §4.1).
func (b *BaseADO) PayFee(ctx context.Context, fc *economics.FeeCharger, sender, action string) error {
	return fc.PayFee(ctx, b.ContractAddress, sender, action)
}
