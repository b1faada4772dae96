package core

// ReplyOn selects when a dispatched submessage suspends the caller frame for
// a reply callback (spec §3, §5).
type ReplyOn int

const (
	ReplyAlways ReplyOn = iota
	ReplyError
	ReplySuccess
	ReplyNever
)

// IBCConfig carries the per-message cross-chain dispatch overrides (spec
// §3's "ibc_config : optional<IBCConfig>").
type IBCConfig struct {
	// TimeoutSeconds overrides IBCTimeoutHorizon for this message's packet.
	TimeoutSeconds uint64 `json:"timeout_seconds,omitempty"`
}

// AMPMsgConfig is the per-message dispatch configuration (spec §3).
type AMPMsgConfig struct {
	ReplyOn     ReplyOn    `json:"reply_on"`
	ExitAtError bool       `json:"exit_at_error"`
	GasLimit    *uint64    `json:"gas_limit,omitempty"`
	Direct      bool       `json:"direct"`
	IBCConfig   *IBCConfig `json:"ibc_config,omitempty"`
}

// DefaultAMPMsgConfig matches the teacher's habit of giving every config
// struct a documented zero-value default: exit on error, reply only on
// error, routed through the AMP wrapper (not direct).
func DefaultAMPMsgConfig() AMPMsgConfig {
	return AMPMsgConfig{ReplyOn: ReplyError, ExitAtError: true}
}

// AMPMsg is one dispatch unit inside an AMPPkt (spec §3).
type AMPMsg struct {
	Recipient AndrAddr     `json:"recipient"`
	Message   []byte       `json:"message,omitempty"`
	Funds     Coins        `json:"funds,omitempty"`
	Config    AMPMsgConfig `json:"config"`
}

// NewAMPMsg builds an AMPMsg with the default config, the common case for
// callers that don't need custom reply/exit/gas behavior.
func NewAMPMsg(recipient AndrAddr, message []byte, funds Coins) AMPMsg {
	return AMPMsg{Recipient: recipient, Message: message, Funds: funds, Config: DefaultAMPMsgConfig()}
}

// IsPureTransfer reports whether the message carries funds but no payload.
func (m AMPMsg) IsPureTransfer() bool { return len(m.Message) == 0 && !m.Funds.IsEmpty() }

// AMPPkt is the provenance envelope carried between every hop (spec §3).
// Origin is never rewritten by intermediate hops; PreviousSender is
// rewritten at every hop to the sender of that hop.
type AMPPkt struct {
	Origin         string   `json:"origin"`
	PreviousSender string   `json:"previous_sender"`
	Messages       []AMPMsg `json:"messages"`
}

// NextHop builds the packet an intermediate hop hands to the next recipient:
// Origin is preserved, PreviousSender becomes the current hop's own address,
// and only the message at msgIndex is carried forward (spec §4.2.3 — "a new
// inner packet per message").
func (p AMPPkt) NextHop(thisHopAddress string, msgIndex int) AMPPkt {
	return AMPPkt{
		Origin:         p.Origin,
		PreviousSender: thisHopAddress,
		Messages:       []AMPMsg{p.Messages[msgIndex]},
	}
}

// IsTopLevel reports whether this packet was submitted directly by its
// origin, i.e. has not yet passed through any intermediate hop (spec
// §4.2.1: "sender == origin").
func (p AMPPkt) IsTopLevel() bool { return p.PreviousSender == p.Origin }
