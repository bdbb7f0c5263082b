package domain

import "time"

// UserStatus is the account state of a user.
type UserStatus string

const (
	UserActive UserStatus = "active"
	UserPaused UserStatus = "paused"
	UserBanned UserStatus = "banned"
)

// ValidUserStatus reports whether s is one of the known account states.
func ValidUserStatus(s UserStatus) bool {
	return s == UserActive || s == UserPaused || s == UserBanned
}

// User is an account with an embedded role snapshot. A banned user can never
// authenticate; a paused user authenticates but fails every permission check.
type User struct {
	ID             string       `json:"id" bson:"_id"`
	Email          string       `json:"email" bson:"email"`
	Name           string       `json:"name" bson:"name"`
	PasswordHash   string       `json:"-" bson:"password_hash"`
	Role           RoleSnapshot `json:"role" bson:"role"`
	Status         UserStatus   `json:"status" bson:"status"`
	WhatsAppNumber string       `json:"whatsapp_number,omitempty" bson:"whatsapp_number,omitempty"`
	CreatedAt      time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" bson:"updated_at"`
}

// Principal is the resolved identity every engine operation receives
// explicitly. It carries the role snapshot and status the authorization
// checks run against; no ambient session state exists.
type Principal struct {
	UserID string       `json:"user_id"`
	Name   string       `json:"name"`
	Role   RoleSnapshot `json:"role"`
	Status UserStatus   `json:"status"`
}

// Principal builds the authorization view of the user.
func (u *User) Principal() Principal {
	return Principal{
		UserID: u.ID,
		Name:   u.Name,
		Role:   u.Role,
		Status: u.Status,
	}
}
