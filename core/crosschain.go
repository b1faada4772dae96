package core

import "time"

// ChannelInfo records the two IBC legs the kernel holds open to a remote
// chain (spec §4.5/§6: AssignChannels / ChannelInfo query).
type ChannelInfo struct {
	ChainName          string `json:"chain_name"`
	DirectChannel       string `json:"direct_channel"`
	ICS20Channel        string `json:"ics20_channel"`
	RemoteKernelAddress string `json:"remote_kernel_address"`
}

// AckStatus is the tagged-union acknowledgement the IBC relayer delivers
// to TriggerRelay, modeled directly on the real ibc-go transfer keeper's
// OnAcknowledgementPacket handling (success payload vs. error string).
type AckStatus int

const (
	AckSuccess AckStatus = iota
	AckError
	AckTimeout
)

// Ack is the acknowledgement payload passed to Kernel.TriggerRelay.
type Ack struct {
	Status  AckStatus `json:"status"`
	Payload []byte    `json:"payload,omitempty"`
	Err     string    `json:"error,omitempty"`
}

// IBCTimeoutHorizon is the default packet timeout (spec §5: "default horizon
// one week is acceptable").
const IBCTimeoutHorizon = 7 * 24 * time.Hour

// SymlinkDepthLimit bounds VFS symlink-chain resolution (spec §4.3,
// "suggest 8").
const SymlinkDepthLimit = 8

// MaxAppComponents bounds the component list an App contract may be
// instantiated with (spec §8, "Component list of length 51 ... fails").
const MaxAppComponents = 50
