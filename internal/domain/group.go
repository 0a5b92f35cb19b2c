package domain

import "time"

// Group is a named node in the access-control hierarchy. A group may be
// parented by another group; a user who is a direct member of a group is
// treated by authorization as a member of every ancestor as well.
type Group struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	ParentID  *string    `json:"parent_id,omitempty" db:"parent_id"`
	CreatedBy string     `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Active reports whether the group has not been soft-deleted. Only active
// groups participate in name uniqueness, parent resolution, and membership
// changes.
func (g *Group) Active() bool {
	return g.DeletedAt == nil
}

// CreateGroupRequest is the request body for creating a group.
type CreateGroupRequest struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// GroupDetail is the response body for a single group lookup.
type GroupDetail struct {
	Group
	ParentName string   `json:"parent_name,omitempty"`
	Members    []string `json:"members"`
}
