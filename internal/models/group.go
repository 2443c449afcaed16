package models

// Group is a household: a set of users that share expenses and settle once
// per month.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Casa Centro").
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// User is a member of a group. Membership is evaluated at call time: only
// active users count toward the per-person share.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the user's full name.
	Name string `json:"name"`

	// Alias is an optional short display name, preferred over Name when set.
	Alias string `json:"alias,omitempty"`

	// GroupID is the group this user belongs to. Empty means no group.
	GroupID string `json:"group_id,omitempty"`

	// Active marks whether the user currently participates in settlements.
	Active bool `json:"active"`

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64 `json:"created_at"`
}

// DisplayName returns the alias when present, the full name otherwise.
func (u *User) DisplayName() string {
	if u.Alias != "" {
		return u.Alias
	}
	return u.Name
}
