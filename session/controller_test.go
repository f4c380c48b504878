package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albin6/authdeck/client"
	"github.com/albin6/authdeck/session"
	"github.com/albin6/authdeck/storage"
	"github.com/albin6/authdeck/storage/memory"
)

// fakeAPI implements session.API with pluggable behavior per call.
type fakeAPI struct {
	mu          sync.Mutex
	loginFn     func(session.Credentials) (*session.LoginResult, error)
	signupFn    func(session.SignupInput) (string, error)
	meFn        func() (*session.User, error)
	logoutFn    func() error
	meCalls     int
	logoutCalls int
}

func (f *fakeAPI) Login(_ context.Context, creds session.Credentials) (*session.LoginResult, error) {
	f.mu.Lock()
	fn := f.loginFn
	f.mu.Unlock()
	if fn == nil {
		return nil, &client.APIError{Message: "login not configured"}
	}
	return fn(creds)
}

func (f *fakeAPI) Signup(_ context.Context, in session.SignupInput) (string, error) {
	f.mu.Lock()
	fn := f.signupFn
	f.mu.Unlock()
	if fn == nil {
		return "", &client.APIError{Message: "signup not configured"}
	}
	return fn(in)
}

func (f *fakeAPI) Me(context.Context) (*session.User, error) {
	f.mu.Lock()
	f.meCalls++
	fn := f.meFn
	f.mu.Unlock()
	if fn == nil {
		return nil, &client.APIError{Message: "me not configured"}
	}
	return fn()
}

func (f *fakeAPI) Logout(context.Context) error {
	f.mu.Lock()
	f.logoutCalls++
	fn := f.logoutFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn()
}

// recorder collects notifications for assertions.
type recorder struct {
	mu            sync.Mutex
	notifications []session.Notification
}

func (r *recorder) Notify(n session.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorder) all() []session.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.Notification(nil), r.notifications...)
}

func testUser() *session.User {
	return &session.User{ID: "u-1", Email: "a@b.dev", Role: "user"}
}

// assertInvariant checks that authenticated means user and token are
// both present, never one without the other.
func assertInvariant(t *testing.T, sess session.Session) {
	t.Helper()
	if sess.IsAuthenticated() {
		assert.NotNil(t, sess.User)
		assert.NotEmpty(t, sess.Token)
	} else {
		assert.Nil(t, sess.User)
		assert.Empty(t, sess.Token)
	}
}

func newFixture(api *fakeAPI) (*session.Controller, *storage.TokenStore, *recorder) {
	store := storage.NewTokenStore(memory.NewBackend())
	rec := &recorder{}
	ctrl := session.NewController(api, store, session.WithNotifier(rec))
	return ctrl, store, rec
}

func TestInitialState(t *testing.T) {
	ctrl, _, _ := newFixture(&fakeAPI{})
	sess := ctrl.Snapshot()
	assert.Equal(t, session.StateUnknown, sess.State)
	assert.True(t, sess.Loading)
	assert.False(t, sess.IsAuthenticated())
}

func TestRehydrateWithoutToken(t *testing.T) {
	api := &fakeAPI{}
	ctrl, _, _ := newFixture(api)

	ctrl.Rehydrate(context.Background())

	sess := ctrl.Snapshot()
	assert.Equal(t, session.StateAnonymous, sess.State)
	assert.False(t, sess.Loading)
	// No stored token means no network call.
	assert.Zero(t, api.meCalls)
	assertInvariant(t, sess)
}

func TestRehydrateWithValidToken(t *testing.T) {
	api := &fakeAPI{meFn: func() (*session.User, error) { return testUser(), nil }}
	ctrl, store, _ := newFixture(api)
	require.NoError(t, store.Save(storage.Tokens{Access: "acc-1", Refresh: "ref-1"}))

	ctrl.Rehydrate(context.Background())

	sess := ctrl.Snapshot()
	assert.Equal(t, session.StateAuthenticated, sess.State)
	assert.Equal(t, "acc-1", sess.Token)
	assert.Equal(t, "u-1", sess.User.ID)
	assert.False(t, sess.Loading)
	assertInvariant(t, sess)
}

func TestRehydrateWithRejectedToken(t *testing.T) {
	api := &fakeAPI{meFn: func() (*session.User, error) {
		return nil, &client.APIError{Message: "token expired", StatusCode: 401}
	}}
	ctrl, store, _ := newFixture(api)
	require.NoError(t, store.Save(storage.Tokens{Access: "stale"}))

	ctrl.Rehydrate(context.Background())

	sess := ctrl.Snapshot()
	assert.Equal(t, session.StateAnonymous, sess.State)
	_, err := store.Load()
	assert.ErrorIs(t, err, storage.ErrNoSession)
	assertInvariant(t, sess)
}

func TestRehydrateRunsOnce(t *testing.T) {
	api := &fakeAPI{meFn: func() (*session.User, error) { return testUser(), nil }}
	ctrl, store, _ := newFixture(api)
	require.NoError(t, store.Save(storage.Tokens{Access: "acc-1"}))

	ctrl.Rehydrate(context.Background())
	ctrl.Rehydrate(context.Background())
	ctrl.Rehydrate(context.Background())

	assert.Equal(t, 1, api.meCalls)
}

func TestLoginSuccess(t *testing.T) {
	api := &fakeAPI{loginFn: func(creds session.Credentials) (*session.LoginResult, error) {
		assert.Equal(t, "a@b.dev", creds.Email)
		return &session.LoginResult{User: testUser(), Token: "acc-1", Refresh: "ref-1"}, nil
	}}
	ctrl, store, rec := newFixture(api)

	ok := ctrl.Login(context.Background(), session.Credentials{Email: "a@b.dev", Password: "pw"})
	require.True(t, ok)

	sess := ctrl.Snapshot()
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "acc-1", sess.Token)
	assert.False(t, sess.Loading)
	assert.Empty(t, sess.Err)
	assertInvariant(t, sess)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, storage.Tokens{Access: "acc-1", Refresh: "ref-1"}, stored)

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, session.VariantSuccess, notes[0].Variant)
}

func TestLoginDeclaredFailure(t *testing.T) {
	api := &fakeAPI{loginFn: func(session.Credentials) (*session.LoginResult, error) {
		return nil, &client.APIError{Message: "Invalid credentials"}
	}}
	ctrl, store, rec := newFixture(api)

	ok := ctrl.Login(context.Background(), session.Credentials{Email: "a@b.dev", Password: "nope"})
	assert.False(t, ok)

	sess := ctrl.Snapshot()
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "Invalid credentials", sess.Err)
	assert.False(t, sess.Loading)
	assertInvariant(t, sess)

	_, err := store.Load()
	assert.ErrorIs(t, err, storage.ErrNoSession)

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, session.VariantDestructive, notes[0].Variant)
	assert.Equal(t, "Invalid credentials", notes[0].Description)
}

func TestLoginIncompleteResponseIsFailure(t *testing.T) {
	// A success response missing the token must not half-authenticate.
	api := &fakeAPI{loginFn: func(session.Credentials) (*session.LoginResult, error) {
		return &session.LoginResult{User: testUser()}, nil
	}}
	ctrl, _, _ := newFixture(api)

	ok := ctrl.Login(context.Background(), session.Credentials{})
	assert.False(t, ok)
	sess := ctrl.Snapshot()
	assert.False(t, sess.IsAuthenticated())
	assert.NotEmpty(t, sess.Err)
	assertInvariant(t, sess)
}

func TestLoginClearsPriorError(t *testing.T) {
	calls := 0
	api := &fakeAPI{loginFn: func(session.Credentials) (*session.LoginResult, error) {
		calls++
		if calls == 1 {
			return nil, &client.APIError{Message: "Invalid credentials"}
		}
		return &session.LoginResult{User: testUser(), Token: "acc-1"}, nil
	}}
	ctrl, _, _ := newFixture(api)

	assert.False(t, ctrl.Login(context.Background(), session.Credentials{}))
	assert.Equal(t, "Invalid credentials", ctrl.Snapshot().Err)

	assert.True(t, ctrl.Login(context.Background(), session.Credentials{}))
	assert.Empty(t, ctrl.Snapshot().Err)
}

func TestSignup(t *testing.T) {
	t.Run("SuccessDoesNotAuthenticate", func(t *testing.T) {
		api := &fakeAPI{signupFn: func(session.SignupInput) (string, error) {
			return "Check your email", nil
		}}
		ctrl, store, rec := newFixture(api)

		ok := ctrl.Signup(context.Background(), session.SignupInput{Email: "a@b.dev", Password: "pw"})
		require.True(t, ok)

		sess := ctrl.Snapshot()
		assert.False(t, sess.IsAuthenticated())
		assert.False(t, sess.Loading)
		_, err := store.Load()
		assert.ErrorIs(t, err, storage.ErrNoSession)

		notes := rec.all()
		require.Len(t, notes, 1)
		assert.Equal(t, "Check your email", notes[0].Description)
	})

	t.Run("FailureRecordsError", func(t *testing.T) {
		api := &fakeAPI{signupFn: func(session.SignupInput) (string, error) {
			return "", &client.APIError{Message: "Email already registered"}
		}}
		ctrl, _, rec := newFixture(api)

		ok := ctrl.Signup(context.Background(), session.SignupInput{})
		assert.False(t, ok)
		assert.Equal(t, "Email already registered", ctrl.Snapshot().Err)
		assert.False(t, ctrl.Snapshot().Loading)
		require.Len(t, rec.all(), 1)
	})
}

func TestLogout(t *testing.T) {
	login := func(ctrl *session.Controller) {
		require.True(t, ctrl.Login(context.Background(), session.Credentials{}))
	}
	loginAPI := func() *fakeAPI {
		return &fakeAPI{loginFn: func(session.Credentials) (*session.LoginResult, error) {
			return &session.LoginResult{User: testUser(), Token: "acc-1", Refresh: "ref-1"}, nil
		}}
	}

	t.Run("ClearsEverything", func(t *testing.T) {
		api := loginAPI()
		ctrl, store, _ := newFixture(api)
		login(ctrl)

		ctrl.Logout(context.Background())

		sess := ctrl.Snapshot()
		assert.Equal(t, session.StateAnonymous, sess.State)
		assert.False(t, sess.Loading)
		assert.Empty(t, sess.Err)
		assertInvariant(t, sess)
		_, err := store.Load()
		assert.ErrorIs(t, err, storage.ErrNoSession)
		assert.Equal(t, 1, api.logoutCalls)
	})

	t.Run("RemoteFailureStillClearsLocally", func(t *testing.T) {
		api := loginAPI()
		api.logoutFn = func() error {
			return &client.APIError{Message: "server exploded", StatusCode: 500}
		}
		ctrl, store, _ := newFixture(api)
		login(ctrl)

		ctrl.Logout(context.Background())

		sess := ctrl.Snapshot()
		assert.Equal(t, session.StateAnonymous, sess.State)
		_, err := store.Load()
		assert.ErrorIs(t, err, storage.ErrNoSession)
		assertInvariant(t, sess)
	})
}

func TestClearError(t *testing.T) {
	api := &fakeAPI{loginFn: func(session.Credentials) (*session.LoginResult, error) {
		return nil, &client.APIError{Message: "Invalid credentials"}
	}}
	ctrl, _, _ := newFixture(api)

	ctrl.Login(context.Background(), session.Credentials{})
	require.NotEmpty(t, ctrl.Snapshot().Err)

	ctrl.ClearError()
	assert.Empty(t, ctrl.Snapshot().Err)
}

func TestHandleUnauthorized(t *testing.T) {
	api := &fakeAPI{loginFn: func(session.Credentials) (*session.LoginResult, error) {
		return &session.LoginResult{User: testUser(), Token: "acc-1"}, nil
	}}
	ctrl, _, rec := newFixture(api)
	require.True(t, ctrl.Login(context.Background(), session.Credentials{}))

	ctrl.HandleUnauthorized()

	sess := ctrl.Snapshot()
	assert.Equal(t, session.StateAnonymous, sess.State)
	assertInvariant(t, sess)

	notes := rec.all()
	require.Len(t, notes, 2) // login success + session expired
	assert.Equal(t, session.VariantDestructive, notes[1].Variant)
}

func TestStaleLoginCompletionDoesNotOverwriteNewerState(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &fakeAPI{loginFn: func(session.Credentials) (*session.LoginResult, error) {
		close(started)
		<-release
		return &session.LoginResult{User: testUser(), Token: "stale-token"}, nil
	}}
	ctrl, _, _ := newFixture(api)

	done := make(chan bool)
	go func() {
		done <- ctrl.Login(context.Background(), session.Credentials{})
	}()

	<-started
	// The session is invalidated while the login is still in flight.
	ctrl.HandleUnauthorized()
	close(release)
	<-done

	// The superseded completion must not resurrect the session.
	sess := ctrl.Snapshot()
	assert.Equal(t, session.StateAnonymous, sess.State)
	assert.False(t, sess.Loading)
	assertInvariant(t, sess)
}
