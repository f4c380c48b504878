package client

import "github.com/albin6/authdeck/session"

// envelope is the response shape shared by every auth endpoint except
// /auth/me, which returns a bare user record.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// authPayload is the data object carried by login and refresh responses.
type authPayload struct {
	User         *session.User `json:"user,omitempty"`
	Token        string        `json:"token,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
}

// emptyPayload is used for endpoints whose data object carries nothing
// the client consumes.
type emptyPayload struct{}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
