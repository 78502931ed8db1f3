package domain

import (
	"regexp"
	"time"
)

// Username constraints, matching the board's registration rules.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 16
)

var usernamePattern = regexp.MustCompile(`^\w+$`)

// User is a registered board user.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a user with an already-hashed password.
func NewUser(username, hashedPassword string) (*User, error) {
	user := &User{
		Username:       username,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the username shape. Password policy is enforced before
// hashing, at the API boundary.
func (u *User) Validate() error {
	if len(u.Username) < MinUsernameLength || len(u.Username) > MaxUsernameLength {
		return ErrEmptyUsername
	}
	if !usernamePattern.MatchString(u.Username) {
		return ErrEmptyUsername
	}
	return nil
}
