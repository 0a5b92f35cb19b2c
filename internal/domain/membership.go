package domain

import "time"

// Membership associates a user with a group. The (GroupID, UserID) pair is
// unique. Rows are never removed implicitly when a group or user is
// soft-deleted; cleanup is an external concern.
type Membership struct {
	GroupID   string    `json:"group_id" db:"group_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AddMemberRequest is the request body for adding a user to a group.
type AddMemberRequest struct {
	Username string `json:"username"`
}
