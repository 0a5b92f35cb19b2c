package domain

import "time"

// User is a platform account referenced by memberships. This service owns
// only the minimal registry needed to resolve usernames; profile and
// credential data live elsewhere in the platform.
type User struct {
	ID        string     `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Active reports whether the user has not been soft-deleted.
func (u *User) Active() bool {
	return u.DeletedAt == nil
}

// CreateUserRequest is the request body for registering a user.
type CreateUserRequest struct {
	Username string `json:"username"`
}
