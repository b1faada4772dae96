package adapters

import (
	"context"

	"andromeda-kernel/core"
)

// NoopWasm is a WasmExecutor that performs no I/O, wired by cmd/kerneld,
// which does not dial a wasm execution service.
type NoopWasm struct{}

func (NoopWasm) Execute(ctx context.Context, contract string, msg []byte, funds core.Coins) (*core.Response, error) {
	return &core.Response{}, nil
}

func (NoopWasm) Instantiate(ctx context.Context, codeID string, msg []byte, funds core.Coins, label string) (string, error) {
	return "", nil
}

func (NoopWasm) ContractInfo(ctx context.Context, contract string) (string, error) { return "", nil }

// NoopIBC is an IBCSender that performs no I/O, wired by cmd/kerneld, which
// has no relayer connection.
type NoopIBC struct{}

func (NoopIBC) SendPacket(ctx context.Context, channel string, timeoutHeight uint64, data []byte) (uint64, error) {
	return 0, nil
}

// NoopICS20 is an ICS20Sender that performs no I/O, wired by cmd/kerneld,
// which has no transfer channel connection.
type NoopICS20 struct{}

func (NoopICS20) Transfer(ctx context.Context, channel string, coin core.Coin, receiver string, timeoutHeight uint64, memo []byte) (uint64, error) {
	return 0, nil
}
