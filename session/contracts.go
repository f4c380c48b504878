package session

import "context"

// API is the remote auth surface the controller drives. The HTTP client
// in package client implements it; tests supply fakes.
type API interface {
	// Login exchanges credentials for a user and token pair. A declared
	// failure (response success flag false) is returned as an error
	// carrying the server's message.
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	// Signup creates an account without authenticating the caller. The
	// returned string is the server's confirmation message.
	Signup(ctx context.Context, in SignupInput) (string, error)
	// Me fetches the account for the currently stored access token.
	Me(ctx context.Context) (*User, error)
	// Logout invalidates the session server-side.
	Logout(ctx context.Context) error
}
