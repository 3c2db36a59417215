// Package family is the per-blockchain-family extension point of the mirror.
// Each family (bitcoin, ethereum, ...) registers a Capability that owns the
// shape of operation extras and account resources; the reconciliation core
// only forwards those payloads and merges the capability's change verdict. An
// unregistered family is valid: payloads pass through unchanged.
package family

import (
	"strings"

	"github.com/go-jose/go-jose/v4/json"
	"github.com/puzpuzpuz/xsync/v4"
)

// Capability is the set of conversion/patch hooks one blockchain family
// supplies to the core.
type Capability interface {
	// DecodeExtra turns the serialized per-operation payload into the
	// family's live representation.
	DecodeExtra(raw json.RawMessage) (any, error)
	// EncodeExtra is the inverse of DecodeExtra.
	EncodeExtra(extra any) (json.RawMessage, error)
	// PatchResources compares cached family resources against the raw
	// snapshot's payload and returns the resources to keep plus whether
	// they changed. It must return the cached value untouched when nothing
	// differs.
	PatchResources(cached any, raw json.RawMessage) (resources any, changed bool, err error)
	// BuildResourcesFromRaw builds family resources on first observation.
	BuildResourcesFromRaw(raw json.RawMessage) (any, error)
}

// Registry maps a family tag to its Capability. Safe for concurrent use.
type Registry struct {
	caps *xsync.Map[string, Capability]
}

func NewRegistry() *Registry {
	return &Registry{caps: xsync.NewMap[string, Capability]()}
}

// Register installs (or replaces) the capability for a family tag.
func (r *Registry) Register(familyTag string, c Capability) {
	r.caps.Store(familyTag, c)
}

// Lookup returns the capability for a family tag, or (nil, false).
func (r *Registry) Lookup(familyTag string) (Capability, bool) {
	return r.caps.Load(familyTag)
}

// LookupForAccount resolves the capability implied by an account id.
func (r *Registry) LookupForAccount(accountID string) (Capability, bool) {
	return r.Lookup(FamilyOf(accountID))
}

// defaultRegistry serves the common case of one process-wide capability set.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// FamilyOf derives the family tag from an account id of the form
// scheme:version:family:address:mode. Returns "" when the id does not parse,
// which resolves to no capability.
func FamilyOf(accountID string) string {
	parts := strings.Split(accountID, ":")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
