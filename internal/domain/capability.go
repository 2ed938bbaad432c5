package domain

// Capability is a single thing a role is allowed to do.
type Capability string

const (
	CapabilityView  Capability = "view"
	CapabilityEdit  Capability = "edit"
	CapabilityAdmin Capability = "admin"
)

// CapabilitySet holds the capabilities granted to a role. Admin is a
// superset: a set containing CapabilityAdmin answers true for every
// capability.
type CapabilitySet map[Capability]bool

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = true
	}

	return set
}

func (s CapabilitySet) Has(cap Capability) bool {
	if s == nil {
		return false
	}
	if s[CapabilityAdmin] {
		return true
	}

	return s[cap]
}

func (s CapabilitySet) List() []Capability {
	ordered := []Capability{CapabilityView, CapabilityEdit, CapabilityAdmin}

	var caps []Capability
	for _, c := range ordered {
		if s[c] {
			caps = append(caps, c)
		}
	}

	return caps
}

type Role struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Capabilities CapabilitySet `json:"capabilities"`
}

func (r Role) HasCapability(cap Capability) bool {
	return r.Capabilities.Has(cap)
}

type UserGroup struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
