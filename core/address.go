package core

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a 20-byte account identifier, shared by every component that
// needs to compare or persist a concrete on-chain recipient.
type Address [20]byte

// Hex returns the 0x-prefixed lowercase hex encoding of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// String satisfies fmt.Stringer and is used as the canonical map key for
// every balance/permission table keyed by address.
func (a Address) String() string { return a.Hex() }

// ParseAddress decodes a 0x-prefixed (or bare) hex string into an Address.
// Validity of the hex shape is delegated to go-ethereum's common.IsHexAddress,
// the same check the teacher's token build (core/address_from_common_tokens.go)
// relies on ahead of constructing a common.Address.
func ParseAddress(s string) (Address, error) {
	var a Address
	candidate := s
	if !strings.HasPrefix(candidate, "0x") {
		candidate = "0x" + candidate
	}
	if !common.IsHexAddress(candidate) {
		return a, fmt.Errorf("%w: %q", ErrInvalidPathname, s)
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(b) != len(a) {
		return a, fmt.Errorf("%w: %q", ErrInvalidPathname, s)
	}
	copy(a[:], b)
	return a, nil
}

// FromCommon converts a go-ethereum common.Address into the domain Address
// type, for the concrete-address branch of AndrAddr classification where a
// relayer or CLI caller hands the kernel an EVM-style checksum address
// instead of a bare hex string.
func FromCommon(a common.Address) Address {
	var out Address
	copy(out[:], a.Bytes())
	return out
}

// Common converts the domain Address back into a go-ethereum common.Address,
// the inverse of FromCommon.
func (a Address) Common() common.Address {
	return common.BytesToAddress(a[:])
}

// PathKind classifies the syntactic shape of an AndrAddr. Classification is
// purely lexical — it never touches VFS state.
type PathKind int

const (
	KindConcrete PathKind = iota
	KindLocalApp          // ./name
	KindVFSAbsolute       // /home/..., /lib/...
	KindCrossChain        // ibc://chain/path
)

// AndrAddr is an opaque recipient reference: a concrete address, a local-app
// relative path, an absolute VFS path, or a cross-chain ibc:// path. Exactly
// one interpretation applies to any given string.
type AndrAddr string

var (
	protocolRe  = regexp.MustCompile(`^([A-Za-z0-9]+)://([A-Za-z0-9._-]{1,40})?/?(.*)$`)
	componentRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,40}$`)
	usernameRe  = regexp.MustCompile(`^[a-z0-9]{1,40}$`)
)

// ComponentNameRe and UsernameRe expose the normative path-grammar regexes
// (spec §4.3) for reuse by the VFS and App packages.
func ComponentNameRe() *regexp.Regexp { return componentRe }
func UsernameRe() *regexp.Regexp      { return usernameRe }

// Classify determines which syntactic bucket a the address falls into. It
// never fails: anything that isn't a recognised prefix and doesn't parse as
// a concrete address is treated as a malformed VFS-absolute path, and the
// error surfaces later, at resolution time.
func (a AndrAddr) Classify() PathKind {
	s := string(a)
	if _, err := ParseAddress(s); err == nil {
		return KindConcrete
	}
	if strings.HasPrefix(s, "./") {
		return KindLocalApp
	}
	if m := protocolRe.FindStringSubmatch(s); m != nil && m[1] == "ibc" {
		return KindCrossChain
	}
	return KindVFSAbsolute
}

// SplitCrossChain parses an ibc://chain/path reference, returning the chain
// segment and the remaining path (without its leading slash).
func (a AndrAddr) SplitCrossChain() (chain, path string, ok bool) {
	m := protocolRe.FindStringSubmatch(string(a))
	if m == nil || m[1] != "ibc" {
		return "", "", false
	}
	return m[2], m[3], true
}

// IsConcrete reports whether the address is already a resolvable on-chain
// address, i.e. no VFS lookup is required.
func (a AndrAddr) IsConcrete() bool { return a.Classify() == KindConcrete }
