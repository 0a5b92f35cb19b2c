package domain

import "time"

// APIKey represents an API key for authentication.
// The actual key is only returned once on creation.
type APIKey struct {
	ID           string       `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	KeyHash      string       `json:"-" db:"key_hash"`            // Never expose hash
	KeyPrefix    string       `json:"key_prefix" db:"key_prefix"` // First 8 chars for identification
	Capabilities []Capability `json:"capabilities" db:"-"`        // Stored as a joined column
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	LastUsedAt   *time.Time   `json:"last_used_at,omitempty" db:"last_used_at"`
}

// Principal returns the caller identity an authenticated key resolves to.
func (k *APIKey) Principal() *Principal {
	return &Principal{
		ID:           k.ID,
		Name:         k.Name,
		Capabilities: k.Capabilities,
	}
}

// CreateAPIKeyRequest is the request body for creating an API key.
// Capabilities must not carry omitempty: an explicit empty list means "no
// capabilities" and has to survive the round-trip, while an absent field
// (nil) lets the handler apply the admin default.
type CreateAPIKeyRequest struct {
	Name         string       `json:"name"`
	Capabilities []Capability `json:"capabilities"`
}

// CreateAPIKeyResponse is returned when creating an API key.
// The key is only shown once.
type CreateAPIKeyResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Key          string       `json:"key"` // Only returned on creation
	KeyPrefix    string       `json:"key_prefix"`
	Capabilities []Capability `json:"capabilities"`
	CreatedAt    time.Time    `json:"created_at"`
}
