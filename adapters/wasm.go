package adapters

import (
	"context"

	"google.golang.org/grpc"

	"andromeda-kernel/core"
)

// WasmExecutor dispatches a wasm-execute submessage to the chain's
// execution service. The kernel never runs wasm in-process — spec §1 lists
// "wasm execution" among the chain-runtime primitives deliberately kept
// out of scope — so this interface is the generalized form of the
// teacher's AIEngine.conn *grpc.ClientConn field in core/common_structs.go,
// here used to reach a sibling wasmd-style execution service instead of an
// inference backend.
type WasmExecutor interface {
	Execute(ctx context.Context, contract string, msg []byte, funds core.Coins) (*core.Response, error)
	Instantiate(ctx context.Context, codeID string, msg []byte, funds core.Coins, label string) (contractAddr string, err error)
	ContractInfo(ctx context.Context, contract string) (codeID string, err error)
}

// GRPCWasmExecutor is a WasmExecutor backed by a gRPC connection to the
// host chain's wasm execution service. Only the connection plumbing is
// implemented here; the service's request/response wire types are the host
// chain's concern.
type GRPCWasmExecutor struct {
	conn *grpc.ClientConn
}

// NewGRPCWasmExecutor wraps an already-dialed gRPC connection.
func NewGRPCWasmExecutor(conn *grpc.ClientConn) *GRPCWasmExecutor {
	return &GRPCWasmExecutor{conn: conn}
}

func (g *GRPCWasmExecutor) Execute(ctx context.Context, contract string, msg []byte, funds core.Coins) (*core.Response, error) {
	// Wire-level request/response types belong to the host chain's wasm
	// execution service definition; this adapter only owns the interface
	// boundary the kernel dispatches through.
	return nil, errNotImplemented("Execute")
}

func (g *GRPCWasmExecutor) Instantiate(ctx context.Context, codeID string, msg []byte, funds core.Coins, label string) (string, error) {
	return "", errNotImplemented("Instantiate")
}

func (g *GRPCWasmExecutor) ContractInfo(ctx context.Context, contract string) (string, error) {
	return "", errNotImplemented("ContractInfo")
}

func errNotImplemented(op string) error {
	return &unimplementedError{op: op}
}

type unimplementedError struct{ op string }

func (e *unimplementedError) Error() string {
	return "adapters: " + e.op + " requires a live wasm execution service connection"
}
