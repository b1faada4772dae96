package ado

import "andromeda-kernel/core"

// Permissions holds the owner/operator set every ADO embeds, adapted from
// the teacher's access-control manager (an owner address plus a mutable
// operator set, each restricted action checked against both).
type Permissions struct {
	Owner     string
	Operators map[string]bool
}

// NewPermissions returns a Permissions set with owner as the sole owner and
// no operators.
func NewPermissions(owner string) Permissions {
	return Permissions{Owner: owner, Operators: make(map[string]bool)}
}

// IsOwnerOrOperator reports whether addr is the owner or a registered
// operator (spec §4.1: "is_owner_or_operator(addr) — boolean check used by
// restricted actions").
func (p Permissions) IsOwnerOrOperator(addr string) bool {
	return addr == p.Owner || p.Operators[addr]
}

// AddOperator registers addr as an operator. Restricted to the owner.
func (p *Permissions) AddOperator(caller, addr string) error {
	if caller != p.Owner {
		return core.ErrUnauthorized
	}
	p.Operators[addr] = true
	return nil
}

// RemoveOperator deregisters addr as an operator. Restricted to the owner.
func (p *Permissions) RemoveOperator(caller, addr string) error {
	if caller != p.Owner {
		return core.ErrUnauthorized
	}
	delete(p.Operators, addr)
	return nil
}

// TransferOwnership reassigns Owner to newOwner. Restricted to the current
// owner.
func (p *Permissions) TransferOwnership(caller, newOwner string) error {
	if caller != p.Owner {
		return core.ErrUnauthorized
	}
	p.Owner = newOwner
	return nil
}
