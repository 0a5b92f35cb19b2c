package domain

// Capability is a named permission a principal may hold.
type Capability string

// CapabilityAdmin is required for every mutating operation.
const CapabilityAdmin Capability = "admin"

// Principal is the authenticated caller identity, together with the
// capabilities granted to it. It is resolved by the auth middleware and
// carried in the request context; domain code never reads session state.
type Principal struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Capabilities []Capability `json:"capabilities"`
}

// Has reports whether the principal holds the given capability.
func (p *Principal) Has(c Capability) bool {
	for _, have := range p.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}
