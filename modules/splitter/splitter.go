// Package splitter is a reference ADO module: on Send, it divides whatever
// funds arrive with the message among a fixed list of recipients by basis
// points. It exists to exercise the kernel/VFS/ADODB/economics stack
// end-to-end the way the teacher's own domain packages exercise core/
// (spec §8's worked scenarios all route through a module shaped like this
// one).
package splitter

import (
	"context"
	"fmt"
	"math/big"

	"andromeda-kernel/adapters"
	"andromeda-kernel/ado"
	"andromeda-kernel/adodb"
	"andromeda-kernel/core"
	"andromeda-kernel/economics"
)

// TypeName is the ADODB module type this package publishes and instantiates
// under.
const TypeName = "splitter"

// BasisPointsTotal is the denominator every recipient list must sum to.
const BasisPointsTotal = 10_000

// Recipient is one (address, share) pair in a splitter's distribution list.
type Recipient struct {
	Address     core.AndrAddr
	BasisPoints uint32
}

// validateRecipients requires at least one recipient and an exact
// 10,000-basis-point split; a splitter with no valid distribution would
// silently drop funds.
func validateRecipients(recipients []Recipient) error {
	if len(recipients) == 0 {
		return fmt.Errorf("%w: splitter requires at least one recipient", core.ErrInvalidPacket)
	}
	var total uint32
	for _, r := range recipients {
		total += r.BasisPoints
	}
	if total != BasisPointsTotal {
		return fmt.Errorf("%w: recipient basis points sum to %d, want %d", core.ErrInvalidPacket, total, BasisPointsTotal)
	}
	return nil
}

// Splitter is the module state. It embeds ado.BaseADO for the shared
// permission/unwrap/fee-payment discipline every module gets for free.
type Splitter struct {
	ado.BaseADO
	db         *adodb.ADODB
	bank       adapters.BankSender
	fees       *economics.FeeCharger
	recipients []Recipient
}

// Instantiate builds a Splitter instance, recording owner and kernel handle
// through ado.Instantiate and validating the initial recipient list.
func Instantiate(db *adodb.ADODB, bank adapters.BankSender, fees *economics.FeeCharger, version, kernelAddress, owner, contractAddress string, recipients []Recipient) (*Splitter, error) {
	if err := validateRecipients(recipients); err != nil {
		return nil, err
	}
	base, err := ado.Instantiate(db, TypeName, version, kernelAddress, owner, contractAddress)
	if err != nil {
		return nil, err
	}
	return &Splitter{BaseADO: *base, db: db, bank: bank, fees: fees, recipients: recipients}, nil
}

// UpdateRecipients replaces the distribution list. Restricted to the owner
// or an operator.
func (s *Splitter) UpdateRecipients(caller string, recipients []Recipient) error {
	if !s.IsOwnerOrOperator(caller) {
		return core.ErrUnauthorized
	}
	if err := validateRecipients(recipients); err != nil {
		return err
	}
	s.recipients = recipients
	return nil
}

// Send is the module's one execute entry point: unwrap the inbound AMP
// packet's provenance, charge the configured Send fee against the effective
// sender, then divide the message's attached funds among recipients by
// basis points and bank-send each share.
func (s *Splitter) Send(ctx context.Context, pkt core.AMPPkt, lookup ado.ContractInfoLookup) (core.Response, error) {
	msg, effectiveSender, err := s.UnwrapAMP(ctx, pkt, s.db, lookup)
	if err != nil {
		return core.Response{}, err
	}

	if err := s.PayFee(ctx, s.fees, effectiveSender, "Send"); err != nil {
		return core.Response{}, err
	}

	resp := core.Response{}
	if msg.Funds.IsEmpty() {
		return resp.WithEvent(core.NewEvent("splitter_send", "recipients", fmt.Sprint(len(s.recipients)))), nil
	}

	for _, r := range s.recipients {
		var shares core.Coins
		for _, coin := range msg.Funds {
			share := shareOf(coin.Amount, r.BasisPoints)
			if share.Sign() == 0 {
				continue
			}
			shares = append(shares, core.Coin{Denom: coin.Denom, Amount: share})
		}
		if len(shares) == 0 {
			continue
		}
		if err := s.bank.BankSend(s.ContractAddress, string(r.Address), shares); err != nil {
			return core.Response{}, err
		}
	}
	return resp.WithEvent(core.NewEvent("splitter_send", "recipients", fmt.Sprint(len(s.recipients)))), nil
}

// shareOf computes floor(amount * basisPoints / BasisPointsTotal) by integer
// division: any dust left by rounding stays with the splitter contract
// rather than being invented or lost across recipients.
func shareOf(amount *big.Int, basisPoints uint32) *big.Int {
	n := new(big.Int).Mul(amount, big.NewInt(int64(basisPoints)))
	return n.Div(n, big.NewInt(BasisPointsTotal))
}
