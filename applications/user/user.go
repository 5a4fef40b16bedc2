package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type User struct {
	UserID    uuid.UUID `db:"id" json:"userID"`
	Email     string    `db:"email" json:"email"`
	Password  *string   `db:"password_hash" json:"-"` // bcrypt hash, never returned
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// RoleUser is the default profile role. Roles are informational; admin
// access comes from the admins table alone.
const RoleUser = "user"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// PasswordHash returns the stored hash, or "" for passwordless accounts.
func (u *User) PasswordHash() string {
	if u.Password == nil {
		return ""
	}
	return *u.Password
}
