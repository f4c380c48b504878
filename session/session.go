// Package session holds the in-memory authentication state and the
// controller that reconciles it with the persisted token store and the
// remote auth API.
package session

// State is the resolution of the authentication state machine.
type State int

const (
	// StateUnknown is the initial state, before rehydration resolves.
	StateUnknown State = iota
	// StateAnonymous means no valid session exists.
	StateAnonymous
	// StateAuthenticated means both a user and a token are present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// Session is the in-memory record of the current authentication status.
// Mutated only by the Controller; readers take copies via Snapshot.
type Session struct {
	User    *User
	Token   string
	State   State
	Loading bool
	Err     string
}

// IsAuthenticated reports whether a complete session is present. It is
// true exactly when both the user and token are set.
func (s Session) IsAuthenticated() bool {
	return s.State == StateAuthenticated
}
