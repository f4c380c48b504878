package session

import "time"

// User is the account record returned by the auth API. It is replaced
// wholesale on every successful login or rehydration, never partially
// mutated.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName returns the user's name fields joined, falling back to the
// email address.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Credentials is the login payload. Transient; never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupInput is the account-creation payload. Transient; never persisted.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// LoginResult carries the authenticated user and the issued token pair.
type LoginResult struct {
	User    *User
	Token   string
	Refresh string
}
