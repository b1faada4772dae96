// Package app implements the App contract that bundles sibling components
// under a shared namespace (spec §4.8, component C6): it predicts each
// component's eventual address, registers it in VFS before the component
// itself exists, and emits the instantiate submessages that bring it up.
package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"andromeda-kernel/ado"
	"andromeda-kernel/adodb"
	"andromeda-kernel/core"
	"andromeda-kernel/vfs"
)

// ComponentDescriptor names one sibling component an App instantiates.
type ComponentDescriptor struct {
	Name        string
	ADOType     string
	InitMessage []byte
}

// App is the parent contract that bundles a fixed set of components, each
// reachable via VFS as "./name" from its siblings.
type App struct {
	ado.Permissions
	Address       string
	KernelAddress string
	db            *adodb.ADODB
	vfs           *vfs.VFS
	components    map[string]string // name -> predicted address
}

// New returns an App owned by owner, identified on-chain by address.
func New(db *adodb.ADODB, v *vfs.VFS, owner, address, kernelAddress string) *App {
	return &App{
		Permissions:   ado.NewPermissions(owner),
		Address:       address,
		KernelAddress: kernelAddress,
		db:            db,
		vfs:           v,
		components:    make(map[string]string),
	}
}

// PredictedInstantiate pairs a component's predicted address with the
// wasm-instantiate submessage that will bring it into existence at that
// address.
type PredictedInstantiate struct {
	Name             string
	PredictedAddress string
	Submessage       *ado.InstantiateSubmessage
}

// Instantiate validates descriptors and, for each, predicts its eventual
// address, registers it in VFS under this App's node, and produces its
// instantiate submessage (spec §4.8 steps 1-4). Descriptor order is
// preserved so earlier components' "./name" references resolve before later
// ones are dispatched. Each predicted address is derived from the code_id of
// its freshly built instantiate submessage and stored (and registered in VFS)
// before the next descriptor is processed, so a sibling descriptor can
// already reference an earlier sibling by name.
func (a *App) Instantiate(caller string, descriptors []ComponentDescriptor) ([]PredictedInstantiate, error) {
	if caller != a.Owner {
		return nil, core.ErrUnauthorized
	}
	if len(descriptors) > core.MaxAppComponents {
		return nil, fmt.Errorf("%w: %d components exceeds max %d", core.ErrInvalidPacket, len(descriptors), core.MaxAppComponents)
	}

	seen := make(map[string]bool, len(descriptors))
	out := make([]PredictedInstantiate, 0, len(descriptors))
	for i, d := range descriptors {
		if !core.ComponentNameRe().MatchString(d.Name) {
			return nil, fmt.Errorf("%w: component name %q", core.ErrInvalidPathname, d.Name)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("%w: duplicate component name %q", core.ErrInvalidPacket, d.Name)
		}
		seen[d.Name] = true

		sub, err := ado.GenerateInstantiateSubmessage(a.db, d.ADOType, d.InitMessage, uint64(i), d.Name)
		if err != nil {
			return nil, err
		}

		predicted := predictAddress(a.Address, sub.CodeID, d.Name)
		a.components[d.Name] = predicted
		if err := a.vfs.AddChild(a.Address, a.Address, d.Name, predicted); err != nil {
			return nil, err
		}

		out = append(out, PredictedInstantiate{Name: d.Name, PredictedAddress: predicted, Submessage: sub})
	}
	return out, nil
}

// RegisterUnderOwner emits the App's own final AddChild, placing it at
// /home/<username> of the caller who instantiated it (spec §4.8: "After all
// components are dispatched, the App emits a final AddChild registering
// itself under the caller's /home/<user> namespace").
func (a *App) RegisterUnderOwner(username string) error {
	return a.vfs.RegisterUser(a.Address, username, a.Address)
}

// Component returns the predicted address registered for name by
// Instantiate.
func (a *App) Component(name string) (string, bool) {
	addr, ok := a.components[name]
	return addr, ok
}

// ClaimOwnership checks that caller is the App owner (spec §4.8) and returns
// the predicted address of either one named component or, when name is nil,
// every component (in no defined order). It does not change any component's
// owner and does not use newOwner: component ownership lives in each
// component's own BaseADO, and the App only returns the addresses an
// on-chain caller would use to target the right contracts.
func (a *App) ClaimOwnership(caller string, name *string, newOwner string) ([]string, error) {
	if caller != a.Owner {
		return nil, core.ErrUnauthorized
	}
	if name != nil {
		addr, ok := a.components[*name]
		if !ok {
			return nil, fmt.Errorf("%w: component %q", core.ErrPathNotFound, *name)
		}
		return []string{addr}, nil
	}
	targets := make([]string, 0, len(a.components))
	for _, addr := range a.components {
		targets = append(targets, addr)
	}
	return targets, nil
}

// predictAddress derives a deterministic instantiate address from the app's
// own address, the component's code_id, and its name, the same three-way
// salt scheme a CosmWasm chain uses for Instantiate2. Sibling components can
// compute each other's address offline before any of them exist on-chain.
func predictAddress(appAddr, codeID, name string) string {
	h := sha256.Sum256([]byte(appAddr + ":" + codeID + ":" + name))
	var a core.Address
	copy(a[:], h[:len(a)])
	return "0x" + hex.EncodeToString(a[:])
}
