// Package adodb implements the module registry that gates which module
// types may call the kernel (spec §4.6, component C1): it maps module type
// names to code identifiers and versions, tracks each type's publisher, and
// holds the per-(type, action) fee schedule Economics consults on PayFee.
package adodb

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"andromeda-kernel/core"
)

const (
	keyCodeID    = "adodb:codeid:"    // adodb:codeid:<codeID> -> jsonEntry
	keyTypeVer   = "adodb:typever:"   // adodb:typever:<type>:<semver> -> codeID
	keyTypeList  = "adodb:typelist:"  // adodb:typelist:<type> -> jsonVersionList (append-only, publish order)
	keyFee       = "adodb:fee:"       // adodb:fee:<type>:<action> -> jsonActionFee
	keyPublisher = "adodb:publisher:" // adodb:publisher:<type> -> address string
)

// ADOVersion names the module type and semver a code_id was published
// under.
type ADOVersion struct {
	TypeName string `json:"type_name"`
	Semver   string `json:"semver"`
}

// ActionFee is the fee a registered module's action charges, looked up by
// Economics.PayFee.
type ActionFee struct {
	Asset    string `json:"asset"`
	Amount   string `json:"amount"` // decimal string; parsed into *big.Int by callers
	Receiver string `json:"receiver,omitempty"`
}

// ActionFeeUpdate is one (action, fee) pair passed to UpdateActionFees.
type ActionFeeUpdate struct {
	Action string
	Fee    ActionFee
}

type jsonEntry struct {
	ADOVersion
}

type jsonVersionEntry struct {
	Semver string `json:"semver"`
	CodeID string `json:"code_id"`
}

// ADODB is the module registry. owner is the address permitted to Publish
// new entries; UpdateActionFees additionally accepts the type's recorded
// publisher.
type ADODB struct {
	store core.KVStore
	owner string
}

// New returns an ADODB backed by store, administered by owner.
func New(store core.KVStore, owner string) *ADODB {
	return &ADODB{store: store, owner: owner}
}

func codeIDKey(codeID string) []byte   { return []byte(keyCodeID + codeID) }
func typeVerKey(typ, ver string) []byte { return []byte(keyTypeVer + typ + ":" + ver) }
func typeListKey(typ string) []byte     { return []byte(keyTypeList + typ) }
func feeKey(typ, action string) []byte  { return []byte(keyFee + typ + ":" + action) }
func publisherKey(typ string) []byte    { return []byte(keyPublisher + typ) }

func (d *ADODB) typeVersions(typ string) ([]jsonVersionEntry, error) {
	raw, err := d.store.Get(typeListKey(typ))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var list []jsonVersionEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *ADODB) putTypeVersions(typ string, list []jsonVersionEntry) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return d.store.Set(typeListKey(typ), raw)
}

// PublishResult carries the uuid tag attached to the emitted publish event,
// the same way the teacher's cross-chain bridge registry tags each
// registration with a fresh correlation id for its audit log.
type PublishResult struct {
	TxTag string
	Event core.Event
}

// Publish registers a new (type, version) -> code_id entry. Restricted to
// the ADODB owner. Forbids overwriting an existing (type, version) pair
// (spec §4.6: "append-only per (type, version), no overwrite").
func (d *ADODB) Publish(caller, typeName, codeID, version string, fees []ActionFeeUpdate, publisher string) (*PublishResult, error) {
	if caller != d.owner {
		return nil, core.ErrUnauthorized
	}
	if typeName == "" || codeID == "" || version == "" {
		return nil, fmt.Errorf("%w: type, code_id, and version are required", core.ErrInvalidType)
	}

	existing, err := d.store.Get(typeVerKey(typeName, version))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s@%s already published", core.ErrInvalidVersion, typeName, version)
	}

	entry := jsonEntry{ADOVersion{TypeName: typeName, Semver: version}}
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	if err := d.store.Set(codeIDKey(codeID), raw); err != nil {
		return nil, err
	}
	if err := d.store.Set(typeVerKey(typeName, version), []byte(codeID)); err != nil {
		return nil, err
	}

	list, err := d.typeVersions(typeName)
	if err != nil {
		return nil, err
	}
	list = append(list, jsonVersionEntry{Semver: version, CodeID: codeID})
	if err := d.putTypeVersions(typeName, list); err != nil {
		return nil, err
	}

	if publisher == "" {
		publisher = caller
	}
	if err := d.store.Set(publisherKey(typeName), []byte(publisher)); err != nil {
		return nil, err
	}

	if len(fees) > 0 {
		if err := d.updateActionFees(typeName, fees); err != nil {
			return nil, err
		}
	}

	tag := uuid.NewString()
	return &PublishResult{
		TxTag: tag,
		Event: core.NewEvent("ado_publish",
			"type", typeName, "version", version, "code_id", codeID, "tx_tag", tag),
	}, nil
}

// UpdateActionFees overwrites the fee schedule for the listed actions,
// leaving other actions untouched. Restricted to the ADODB owner or the
// type's recorded publisher.
func (d *ADODB) UpdateActionFees(caller, typeName string, fees []ActionFeeUpdate) error {
	publisher, err := d.Publisher(typeName)
	if err != nil {
		return err
	}
	if caller != d.owner && caller != publisher {
		return core.ErrUnauthorized
	}
	return d.updateActionFees(typeName, fees)
}

func (d *ADODB) updateActionFees(typeName string, fees []ActionFeeUpdate) error {
	for _, f := range fees {
		raw, err := json.Marshal(f.Fee)
		if err != nil {
			return err
		}
		if err := d.store.Set(feeKey(typeName, f.Action), raw); err != nil {
			return err
		}
	}
	return nil
}

// CodeId resolves a type-or-versioned key: "type" returns the latest
// published version's code_id; "type@semver" returns that exact version's
// code_id (spec §4.6).
func (d *ADODB) CodeId(typeOrVersionedKey string) (string, error) {
	typ, ver, exact := strings.Cut(typeOrVersionedKey, "@")
	if exact {
		raw, err := d.store.Get(typeVerKey(typ, ver))
		if err != nil {
			return "", err
		}
		if raw == nil {
			return "", fmt.Errorf("%w: %s@%s", core.ErrInvalidVersion, typ, ver)
		}
		return string(raw), nil
	}
	list, err := d.typeVersions(typ)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", fmt.Errorf("%w: %s", core.ErrInvalidType, typ)
	}
	return list[len(list)-1].CodeID, nil
}

// ADOType returns the module type name a code_id was published under.
func (d *ADODB) ADOType(codeID string) (string, error) {
	raw, err := d.store.Get(codeIDKey(codeID))
	if err != nil {
		return "", err
	}
	if raw == nil {
		return "", fmt.Errorf("%w: code_id %s not registered", core.ErrInvalidType, codeID)
	}
	var entry jsonEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return "", err
	}
	return entry.TypeName, nil
}

// ADOVersions returns the versions published for typeName, in publish
// order, paginated by offset/limit. limit <= 0 returns all remaining
// entries from offset.
func (d *ADODB) ADOVersions(typeName string, offset, limit int) ([]ADOVersion, error) {
	list, err := d.typeVersions(typeName)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset > len(list) {
		offset = len(list)
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	out := make([]ADOVersion, len(list))
	for i, e := range list {
		out[i] = ADOVersion{TypeName: typeName, Semver: e.Semver}
	}
	return out, nil
}

// ActionFee looks up the fee schedule for (type, action). ok is false if no
// fee is configured, which callers (Economics.PayFee) treat as a no-op
// success rather than an error.
func (d *ADODB) ActionFee(typeName, action string) (fee ActionFee, ok bool, err error) {
	raw, err := d.store.Get(feeKey(typeName, action))
	if err != nil {
		return ActionFee{}, false, err
	}
	if raw == nil {
		return ActionFee{}, false, nil
	}
	if err := json.Unmarshal(raw, &fee); err != nil {
		return ActionFee{}, false, err
	}
	return fee, true, nil
}

// Publisher returns the recorded publisher address for typeName.
func (d *ADODB) Publisher(typeName string) (string, error) {
	raw, err := d.store.Get(publisherKey(typeName))
	if err != nil {
		return "", err
	}
	if raw == nil {
		return "", fmt.Errorf("%w: %s has no publisher on record", core.ErrInvalidType, typeName)
	}
	return string(raw), nil
}
