// Package vfs implements the virtual file system that resolves symbolic
// AndrAddr paths into concrete on-chain addresses (spec §4.3, component C2).
package vfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"andromeda-kernel/core"
)

const (
	keyNode     = "vfs:node:" // vfs:node:<parent>:<name> -> jsonNode
	keyUserSym  = "vfs:usersym:" // vfs:usersym:<username>:<chain> -> AndrAddr
	rootHome    = "home"
	rootLib     = "lib"
)

type nodeKind int

const (
	kindConcrete nodeKind = iota
	kindSymlink
)

type jsonNode struct {
	Kind    nodeKind      `json:"kind"`
	Address string        `json:"address,omitempty"`
	Target  core.AndrAddr `json:"target,omitempty"`
	Owner   string        `json:"owner"`
}

// VFS resolves symbolic paths against a node table stored in a KVStore. The
// local chain's own identifier is needed to recognize "ibc://<localchain>/…"
// paths as local (spec §4.3).
type VFS struct {
	store     core.KVStore
	localChain string
	symCache  *lru.Cache[string, string]
}

// New returns a VFS bound to store, identifying localChain as this chain's
// own name so ibc://<localChain>/... paths resolve locally instead of being
// treated as cross-chain.
func New(store core.KVStore, localChain string) *VFS {
	cache, _ := lru.New[string, string](1024)
	return &VFS{store: store, localChain: localChain, symCache: cache}
}

func nodeKey(parent, name string) []byte {
	return []byte(keyNode + parent + ":" + name)
}

func (v *VFS) getNode(parent, name string) (*jsonNode, bool, error) {
	raw, err := v.store.Get(nodeKey(parent, name))
	if err != nil {
		return nil, false, err
	}
	if raw == nil {
		return nil, false, nil
	}
	var n jsonNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, false, err
	}
	return &n, true, nil
}

func (v *VFS) putNode(parent, name string, n jsonNode) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := v.store.Set(nodeKey(parent, name), raw); err != nil {
		return err
	}
	v.symCache.Remove(parent + ":" + name)
	return nil
}

// assertCanMutate enforces "no node may be reparented silently" (spec §3,
// §4.3) for a caller other than the parent itself: such a caller may only
// replace an existing node it already owns, and may not create a fresh one.
func (v *VFS) assertCanMutate(caller, parent, name string) error {
	existing, ok, err := v.getNode(parent, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is not the parent of %s/%s", core.ErrUnauthorized, caller, parent, name)
	}
	if existing.Owner != caller {
		return fmt.Errorf("%w: %s does not own %s/%s", core.ErrUnauthorized, caller, parent, name)
	}
	return nil
}

// AddChild registers name -> address as a child of the App/ADO at
// parentAddr, owned by caller. caller must equal parentAddr (the App itself)
// or the address that already owns an existing node of the same name (spec
// §4.3: "require the caller to be the owning App contract or the current
// parent").
func (v *VFS) AddChild(caller, parentAddr, name, address string) error {
	if !core.ComponentNameRe().MatchString(name) {
		return fmt.Errorf("%w: component name %q", core.ErrInvalidPathname, name)
	}
	if caller != parentAddr {
		if err := v.assertCanMutate(caller, parentAddr, name); err != nil {
			return err
		}
	}
	return v.putNode(parentAddr, name, jsonNode{Kind: kindConcrete, Address: address, Owner: caller})
}

// AddPath resolves parentPath to a concrete address (failing if it does not
// already resolve) and then registers name as its child, exactly as AddChild
// does once the parent address is known.
func (v *VFS) AddPath(caller, parentPath, name, address string) error {
	parentAddr, err := v.ResolvePath(parentPath, caller)
	if err != nil {
		return err
	}
	return v.AddChild(caller, parentAddr, name, address)
}

// AddSymlink registers name as a symlink to target under parentAddr.
func (v *VFS) AddSymlink(caller, parentAddr, name string, target core.AndrAddr) error {
	if !core.ComponentNameRe().MatchString(name) {
		return fmt.Errorf("%w: component name %q", core.ErrInvalidPathname, name)
	}
	if caller != parentAddr {
		if err := v.assertCanMutate(caller, parentAddr, name); err != nil {
			return err
		}
	}
	return v.putNode(parentAddr, name, jsonNode{Kind: kindSymlink, Target: target, Owner: caller})
}

// RegisterUser places address at /home/<username> on the local chain.
func (v *VFS) RegisterUser(caller, username, address string) error {
	if !core.UsernameRe().MatchString(username) {
		return fmt.Errorf("%w: username %q", core.ErrInvalidPathname, username)
	}
	return v.putNode(rootHome, username, jsonNode{Kind: kindConcrete, Address: address, Owner: caller})
}

// RegisterUserCrossChain records a symlink for username valid when resolved
// from chain, letting a user keep one identity across chains (spec §3:
// "optional per-chain symlinks for remote chains").
func (v *VFS) RegisterUserCrossChain(caller, username, chain string, target core.AndrAddr) error {
	if !core.UsernameRe().MatchString(username) {
		return fmt.Errorf("%w: username %q", core.ErrInvalidPathname, username)
	}
	if _, ok, err := v.getNode(rootHome, username); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: username %q not registered", core.ErrPathNotFound, username)
	}
	raw, err := json.Marshal(target)
	if err != nil {
		return err
	}
	return v.store.Set([]byte(keyUserSym+username+":"+chain), raw)
}

// GetUsername returns the username registered for address, if any.
func (v *VFS) GetUsername(address string) (string, bool, error) {
	it := v.store.Iterator([]byte(keyNode + rootHome + ":"))
	defer it.Close()
	for it.Next() {
		var n jsonNode
		if err := json.Unmarshal(it.Value(), &n); err != nil {
			return "", false, err
		}
		if n.Kind == kindConcrete && n.Address == address {
			key := string(it.Key())
			return key[len(keyNode+rootHome+":"):], true, nil
		}
	}
	return "", false, nil
}

// RegisterLibrary places address at /lib/<name>.
func (v *VFS) RegisterLibrary(caller, name, address string) error {
	if !core.ComponentNameRe().MatchString(name) {
		return fmt.Errorf("%w: library name %q", core.ErrInvalidPathname, name)
	}
	return v.putNode(rootLib, name, jsonNode{Kind: kindConcrete, Address: address, Owner: caller})
}

// GetLibrary returns the address registered at /lib/<name>.
func (v *VFS) GetLibrary(name string) (string, error) {
	n, ok, err := v.getNode(rootLib, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: /lib/%s", core.ErrPathNotFound, name)
	}
	if n.Kind != kindConcrete {
		return v.resolveSymlinkChain(n.Target, 0)
	}
	return n.Address, nil
}

// ResolvePath resolves path per spec §4.3. ctxAddress is the calling
// contract's own address, used to anchor "./name" local-app references.
func (v *VFS) ResolvePath(path string, ctxAddress string) (string, error) {
	return v.resolvePathDepth(path, ctxAddress, 0)
}

// resolvePathDepth is ResolvePath with an explicit symlink-hop budget,
// threaded through every helper below so the bound in spec §4.3 ("suggest
// 8") applies across an entire chain of indirections — not just to the last
// hop resolved — regardless of how many VFS lookups the chain passes
// through along the way.
func (v *VFS) resolvePathDepth(path, ctxAddress string, depth int) (string, error) {
	addr := core.AndrAddr(path)
	switch addr.Classify() {
	case core.KindConcrete:
		return path, nil
	case core.KindLocalApp:
		name := strings.TrimPrefix(path, "./")
		return v.resolveChildChain(ctxAddress, name, depth)
	case core.KindCrossChain:
		chain, rest, _ := addr.SplitCrossChain()
		if chain != "" && chain != v.localChain {
			return "", fmt.Errorf("unresolved remote reference to chain %q: %w", chain, errCrossChain)
		}
		return v.resolvePathDepth("/"+rest, ctxAddress, depth)
	default: // KindVFSAbsolute
		return v.resolveAbsolute(path, depth)
	}
}

// errCrossChain signals that a path names a different chain and resolution
// must continue via the kernel's cross-chain dispatch, not the local VFS.
var errCrossChain = fmt.Errorf("cross-chain path")

// IsCrossChainUnresolved reports whether err indicates ResolvePath handed
// back control because the path names a remote chain.
func IsCrossChainUnresolved(err error) bool {
	return errors.Is(err, errCrossChain)
}

func (v *VFS) resolveAbsolute(path string, depth int) (string, error) {
	trimmed := strings.TrimPrefix(path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidPathname, path)
	}
	switch parts[0] {
	case rootHome:
		username := parts[1]
		root, err := v.resolveUserRoot(username)
		if err != nil {
			return "", err
		}
		return v.walkChildren(root, parts[2:], depth)
	case rootLib:
		libAddr, err := v.resolveChildChain(rootLib, parts[1], depth)
		if err != nil {
			return "", err
		}
		return v.walkChildren(libAddr, parts[2:], depth)
	default:
		return "", fmt.Errorf("%w: %q", core.ErrInvalidPathname, path)
	}
}

func (v *VFS) resolveUserRoot(username string) (string, error) {
	n, ok, err := v.getNode(rootHome, username)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: user %q not registered", core.ErrPathNotFound, username)
	}
	return n.Address, nil
}

func (v *VFS) walkChildren(rootAddr string, components []string, depth int) (string, error) {
	addr := rootAddr
	for _, name := range components {
		if name == "" {
			continue
		}
		next, err := v.resolveChildChain(addr, name, depth)
		if err != nil {
			return "", err
		}
		addr = next
	}
	return addr, nil
}

// resolveChildChain resolves a single (parent, name) child, following
// symlinks transitively up to SymlinkDepthLimit. Resolved results are cached
// by (parent, name) so repeated lookups of deep symlink chains — e.g. many
// sibling components all referencing the same "/lib/..." dependency — don't
// re-walk the parent/child graph on every call; putNode invalidates the
// entry whenever the node it covers changes. The cache is only consulted at
// depth 0: a cached entry does not record how many hops it took, so a lookup
// partway along a chain walks the graph to keep the depth bound exact.
func (v *VFS) resolveChildChain(parentAddr, name string, depth int) (string, error) {
	cacheKey := parentAddr + ":" + name
	if depth == 0 {
		if cached, ok := v.symCache.Get(cacheKey); ok {
			return cached, nil
		}
	}
	n, ok, err := v.getNode(parentAddr, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", core.ErrPathNotFound, parentAddr, name)
	}
	var resolved string
	if n.Kind == kindConcrete {
		resolved = n.Address
	} else {
		resolved, err = v.resolveSymlinkChain(n.Target, depth)
		if err != nil {
			return "", err
		}
	}
	v.symCache.Add(cacheKey, resolved)
	return resolved, nil
}

// resolveSymlinkChain follows target — and, recursively, whatever target
// itself resolves to — until it reaches a concrete address, failing with
// ErrSymlinkLoop once depth reaches SymlinkDepthLimit.
func (v *VFS) resolveSymlinkChain(target core.AndrAddr, depth int) (string, error) {
	if depth >= core.SymlinkDepthLimit {
		return "", core.ErrSymlinkLoop
	}
	if target.Classify() == core.KindConcrete {
		return string(target), nil
	}
	return v.resolvePathDepth(string(target), "", depth+1)
}

// SubDir lists the names of every child registered directly under
// parentAddr, the backing query for the VFS SubDir operation (spec §6).
func (v *VFS) SubDir(parentAddr string) ([]string, error) {
	it := v.store.Iterator([]byte(keyNode + parentAddr + ":"))
	defer it.Close()
	prefix := keyNode + parentAddr + ":"
	var names []string
	for it.Next() {
		names = append(names, string(it.Key())[len(prefix):])
	}
	return names, nil
}

// Paths returns every VFS path known to resolve to addr — home registration,
// library registration, and any child entries — by scanning the whole node
// table. Adequate for the in-memory store; a production backend would
// maintain a reverse index instead.
func (v *VFS) Paths(addr string) ([]string, error) {
	it := v.store.Iterator([]byte(keyNode))
	defer it.Close()
	var paths []string
	for it.Next() {
		var n jsonNode
		if err := json.Unmarshal(it.Value(), &n); err != nil {
			return nil, err
		}
		if n.Kind == kindConcrete && n.Address == addr {
			key := string(it.Key())[len(keyNode):]
			idx := strings.LastIndex(key, ":")
			if idx < 0 {
				continue
			}
			parent, name := key[:idx], key[idx+1:]
			paths = append(paths, "/"+strings.TrimPrefix(parent, "/")+"/"+name)
		}
	}
	return paths, nil
}

// ResolveSymlink resolves a single AndrAddr known to be a symlink target,
// without walking a parent/child chain first — the backing query for the
// VFS ResolveSymlink operation (spec §6).
func (v *VFS) ResolveSymlink(target core.AndrAddr) (string, error) {
	return v.resolveSymlinkChain(target, 0)
}
