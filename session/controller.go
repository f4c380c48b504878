package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/albin6/authdeck/storage"
)

// fallbackErrorMessage is shown when a failure carries no usable message.
const fallbackErrorMessage = "Something went wrong. Please try again."

// Controller owns the Session and is the only writer to it. It
// reconciles in-memory state with the persisted token store on every
// transition and funnels every outcome through the Notifier.
//
// State machine: StateUnknown resolves to StateAuthenticated or
// StateAnonymous via Rehydrate; Login moves Anonymous to Authenticated;
// Logout and an unauthorized response from the HTTP boundary move
// Authenticated back to Anonymous. A failed login leaves the state
// unchanged and only records the error.
type Controller struct {
	api    API
	store  *storage.TokenStore
	log    *slog.Logger
	notify Notifier

	mu   sync.Mutex
	sess Session
	// gen is bumped on every state-changing entry point. A completion
	// whose captured gen is stale must not overwrite newer state, so a
	// superseded login resolving late cannot clobber the session.
	gen uint64

	rehydrated sync.Once
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithNotifier sets the notification sink. Defaults to NopNotifier.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notify = n
	}
}

// NewController creates a controller in StateUnknown with loading set,
// matching process start before rehydration has run.
func NewController(api API, store *storage.TokenStore, opts ...Option) *Controller {
	c := &Controller{
		api:   api,
		store: store,
		sess:  Session{State: StateUnknown, Loading: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.notify == nil {
		c.notify = NopNotifier
	}
	return c
}

// Snapshot returns a copy of the current session. The embedded user is
// copied so callers cannot mutate controller state.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess := c.sess
	if sess.User != nil {
		u := *sess.User
		sess.User = &u
	}
	return sess
}

// Rehydrate reconstructs session state from the persisted token store.
// It runs its body exactly once per process lifetime; later calls are
// no-ops. With no stored token it resolves to Anonymous without any
// network call. With a stored token it fetches the current user; a
// rejection clears both the store and the session.
func (c *Controller) Rehydrate(ctx context.Context) {
	c.rehydrated.Do(func() {
		tokens, err := c.store.Load()
		if err != nil {
			if !errors.Is(err, storage.ErrNoSession) {
				c.log.Warn("reading stored session failed", slog.String("error", err.Error()))
			}
			c.setAnonymous()
			return
		}

		user, err := c.api.Me(ctx)
		if err != nil {
			c.log.Info("stored token rejected, clearing session", slog.String("error", err.Error()))
			if clearErr := c.store.Clear(); clearErr != nil {
				c.log.Warn("clearing stored tokens failed", slog.String("error", clearErr.Error()))
			}
			c.setAnonymous()
			return
		}

		c.mu.Lock()
		c.sess = Session{User: user, Token: tokens.Access, State: StateAuthenticated}
		c.mu.Unlock()
		c.log.Info("session rehydrated", slog.String("user_id", user.ID))
	})
}

// Login authenticates with the given credentials. On success the
// session is replaced wholesale, the token pair is persisted, and true
// is returned. On any failure the error message is recorded, the state
// is left unchanged, and false is returned. Loading is cleared on every
// exit path.
func (c *Controller) Login(ctx context.Context, creds Credentials) bool {
	gen := c.begin()
	defer c.finish(gen)

	res, err := c.api.Login(ctx, creds)
	if err != nil {
		return c.failOp(gen, "Login failed", userMessage(err))
	}
	if res == nil || res.User == nil || res.Token == "" {
		return c.failOp(gen, "Login failed", fallbackErrorMessage)
	}

	c.mu.Lock()
	current := c.gen == gen
	if current {
		c.sess = Session{User: res.User, Token: res.Token, State: StateAuthenticated, Loading: true}
	}
	c.mu.Unlock()
	if !current {
		// A newer operation superseded this login; discard the
		// completion entirely so a stale token cannot resurrect the
		// session in memory or on disk.
		return false
	}

	if err := c.store.Save(storage.Tokens{Access: res.Token, Refresh: res.Refresh}); err != nil {
		// The in-memory session is still valid for this process; it
		// just won't survive a restart.
		c.log.Warn("persisting tokens failed", slog.String("error", err.Error()))
	}

	c.notify.Notify(Notification{
		Title:       "Welcome back",
		Description: "Logged in as " + res.User.Email,
		Variant:     VariantSuccess,
	})
	return true
}

// Signup creates an account. It reports success or failure of account
// creation only; the caller is not authenticated. Same error-capture
// and loading discipline as Login.
func (c *Controller) Signup(ctx context.Context, in SignupInput) bool {
	gen := c.begin()
	defer c.finish(gen)

	msg, err := c.api.Signup(ctx, in)
	if err != nil {
		return c.failOp(gen, "Signup failed", userMessage(err))
	}
	if msg == "" {
		msg = "Account created. Check your email for a verification code."
	}
	c.notify.Notify(Notification{
		Title:       "Account created",
		Description: msg,
		Variant:     VariantSuccess,
	})
	return true
}

// Logout invalidates the session. The remote call is best-effort: its
// failure is logged, never surfaced. The persisted tokens and in-memory
// session are cleared unconditionally.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.log.Warn("remote logout failed", slog.String("error", err.Error()))
	}
	if err := c.store.Clear(); err != nil {
		c.log.Warn("clearing stored tokens failed", slog.String("error", err.Error()))
	}

	c.mu.Lock()
	c.gen++
	c.sess = Session{State: StateAnonymous}
	c.mu.Unlock()

	c.notify.Notify(Notification{
		Title:       "Logged out",
		Description: "Your session has ended.",
		Variant:     VariantSuccess,
	})
}

// ClearError clears only the error field.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.Err = ""
}

// HandleUnauthorized is the HTTP boundary's unauthorized hook. The
// boundary has already cleared the persisted tokens; this resets the
// in-memory session so every consumer sees Anonymous on the next read.
func (c *Controller) HandleUnauthorized() {
	c.mu.Lock()
	c.gen++
	wasAuthenticated := c.sess.State == StateAuthenticated
	c.sess = Session{State: StateAnonymous}
	c.mu.Unlock()

	if wasAuthenticated {
		c.notify.Notify(Notification{
			Title:       "Session expired",
			Description: "Please log in again.",
			Variant:     VariantDestructive,
		})
	}
	c.log.Info("session invalidated by unauthorized response")
}

func (c *Controller) setAnonymous() {
	c.mu.Lock()
	c.sess = Session{State: StateAnonymous}
	c.mu.Unlock()
}

// begin marks a new in-flight operation: bumps the generation, sets
// loading, clears any prior error.
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.sess.Loading = true
	c.sess.Err = ""
	return c.gen
}

// finish clears loading, but only if no newer operation has started.
func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.sess.Loading = false
	}
}

// failOp records a failure message and emits the failure notification.
// Stale completions are discarded without notifying.
func (c *Controller) failOp(gen uint64, title, msg string) bool {
	c.mu.Lock()
	current := c.gen == gen
	if current {
		c.sess.Err = msg
	}
	c.mu.Unlock()

	if current {
		c.notify.Notify(Notification{Title: title, Description: msg, Variant: VariantDestructive})
	}
	return false
}

// userMessage extracts the most specific human-readable message from an
// operation failure: the normalized API message when present, else the
// raw error text, else a generic fallback.
func userMessage(err error) string {
	var m interface{ UserMessage() string }
	if errors.As(err, &m) {
		if msg := m.UserMessage(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackErrorMessage
}
