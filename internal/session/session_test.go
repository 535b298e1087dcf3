package session

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/daviddao/mailtriage/internal/api"
	"github.com/daviddao/mailtriage/internal/db"
	"github.com/daviddao/mailtriage/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	items  map[string]string
	setErr error
	delErr error
}

func newMemStorage() *memStorage {
	return &memStorage{items: map[string]string{}}
}

func (m *memStorage) Get(key string) (string, bool, error) {
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memStorage) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = value
	return nil
}

func (m *memStorage) Delete(key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.items, key)
	return nil
}

type fakeAuth struct {
	user        *types.User
	loginErr    error
	registerErr error
	registered  []types.CreateUserRequest
}

func (f *fakeAuth) Login(ctx context.Context, creds types.LoginRequest) (*types.User, error) {
	return f.user, f.loginErr
}

func (f *fakeAuth) Register(ctx context.Context, req types.CreateUserRequest) (*types.CreateUserResponse, error) {
	f.registered = append(f.registered, req)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &types.CreateUserResponse{ID: "new", Email: req.Email}, nil
}

var ana = &types.User{ID: "u1", Name: "Ana", Email: "ana@example.com"}

func TestReduceLoginFailure(t *testing.T) {
	s := Reduce(InitialState(), LoginStart{})
	assert.True(t, s.IsLoading)
	s = Reduce(s, LoginFailure{Message: "bad email"})
	assert.Equal(t, State{User: nil, IsAuthenticated: false, IsLoading: false, Error: "bad email"}, s)
}

func TestReduceLoginSuccess(t *testing.T) {
	s := Reduce(State{Error: "old"}, LoginStart{})
	assert.Empty(t, s.Error)
	s = Reduce(s, LoginSuccess{User: ana})
	assert.Equal(t, State{User: ana, IsAuthenticated: true}, s)
}

func TestReduceRegisterDoesNotAuthenticate(t *testing.T) {
	s := Reduce(InitialState(), RegisterStart{})
	s = Reduce(s, RegisterSuccess{})
	assert.Equal(t, InitialState(), s)

	s = Reduce(State{User: ana, IsAuthenticated: true}, RegisterFailure{Message: "taken"})
	assert.Equal(t, State{Error: "taken"}, s)
}

func TestReduceLogoutFromAnyState(t *testing.T) {
	states := []State{
		InitialState(),
		{IsLoading: true},
		{User: ana, IsAuthenticated: true},
		{Error: "x", IsLoading: true, User: ana, IsAuthenticated: true},
	}
	for _, st := range states {
		assert.Equal(t, InitialState(), Reduce(st, Logout{}))
	}
}

func TestReduceSetUserAndClearError(t *testing.T) {
	s := Reduce(State{IsLoading: true, Error: "e"}, SetUser{User: ana})
	assert.Equal(t, State{User: ana, IsAuthenticated: true, IsLoading: true, Error: "e"}, s)
	s = Reduce(s, ClearError{})
	assert.Empty(t, s.Error)
	assert.True(t, s.IsLoading)
}

func TestReduceKeepsAuthenticatedInvariant(t *testing.T) {
	actions := []Action{
		LoginStart{}, LoginSuccess{User: ana}, ClearError{}, RegisterStart{},
		RegisterSuccess{}, LoginFailure{Message: "x"}, SetUser{User: ana},
		Logout{}, SetUser{User: nil}, LoginSuccess{User: nil},
	}
	s := InitialState()
	for _, a := range actions {
		s = Reduce(s, a)
		assert.Equal(t, s.User != nil, s.IsAuthenticated, "after %T", a)
	}
}

func TestLoginPersistsUser(t *testing.T) {
	store := newMemStorage()
	sess := New(&fakeAuth{user: ana}, store)

	require.NoError(t, sess.Login(context.Background(), types.LoginRequest{Email: ana.Email}))
	st := sess.State()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, ana, st.User)
	assert.Contains(t, store.items[UserKey], `"ana@example.com"`)
}

func TestLoginFailureRecordsAndReturnsError(t *testing.T) {
	authErr := &api.APIError{Message: "user not found", Status: 200, Err: api.ErrNotFound}
	store := newMemStorage()
	sess := New(&fakeAuth{loginErr: authErr}, store)

	err := sess.Login(context.Background(), types.LoginRequest{Email: "nobody@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrNotFound))
	assert.Equal(t, State{Error: "user not found"}, sess.State())
	assert.Empty(t, store.items)

	sess.ClearError()
	assert.Equal(t, InitialState(), sess.State())
}

func TestLoginFailsWhenPersistFails(t *testing.T) {
	store := newMemStorage()
	store.setErr = errors.New("disk full")
	sess := New(&fakeAuth{user: ana}, store)

	err := sess.Login(context.Background(), types.LoginRequest{Email: ana.Email})
	require.Error(t, err)
	assert.False(t, sess.State().IsAuthenticated)
	assert.Contains(t, sess.State().Error, "disk full")
}

func TestRegister(t *testing.T) {
	auth := &fakeAuth{}
	sess := New(auth, newMemStorage())

	require.NoError(t, sess.Register(context.Background(), types.CreateUserRequest{Name: "Ana", Email: ana.Email}))
	assert.Equal(t, InitialState(), sess.State())
	require.Len(t, auth.registered, 1)

	auth.registerErr = errors.New("email taken")
	err := sess.Register(context.Background(), types.CreateUserRequest{Email: ana.Email})
	require.Error(t, err)
	assert.Equal(t, "email taken", sess.State().Error)
	assert.Nil(t, sess.User())
}

func TestLogoutClearsStorage(t *testing.T) {
	store := newMemStorage()
	sess := New(&fakeAuth{user: ana}, store)
	require.NoError(t, sess.Login(context.Background(), types.LoginRequest{Email: ana.Email}))

	require.NoError(t, sess.Logout())
	assert.Equal(t, InitialState(), sess.State())
	assert.Empty(t, store.items)
}

func TestLogoutResetsEvenWhenStorageFails(t *testing.T) {
	store := newMemStorage()
	sess := New(&fakeAuth{user: ana}, store)
	require.NoError(t, sess.Login(context.Background(), types.LoginRequest{Email: ana.Email}))

	store.delErr = errors.New("locked")
	require.Error(t, sess.Logout())
	assert.Equal(t, InitialState(), sess.State())
}

func TestHydrate(t *testing.T) {
	store := newMemStorage()
	store.items[UserKey] = `{"$id":"u1","name":"Ana","email":"ana@example.com"}`
	sess := New(&fakeAuth{}, store)

	sess.Hydrate()
	st := sess.State()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "u1", st.User.ID)
	assert.False(t, st.IsLoading)
}

func TestHydrateEmptyStorage(t *testing.T) {
	sess := New(&fakeAuth{}, newMemStorage())
	sess.Hydrate()
	assert.Equal(t, InitialState(), sess.State())
}

func TestHydrateCorruptedEntry(t *testing.T) {
	for name, raw := range map[string]string{
		"invalid json": `{"$id": "u1",`,
		"null":         `null`,
	} {
		t.Run(name, func(t *testing.T) {
			store := newMemStorage()
			store.items[UserKey] = raw
			var warn bytes.Buffer
			sess := New(&fakeAuth{}, store, WithWarnings(&warn))

			assert.NotPanics(t, sess.Hydrate)
			assert.Equal(t, InitialState(), sess.State())
			_, ok := store.items[UserKey]
			assert.False(t, ok)
			assert.Contains(t, warn.String(), "failed to parse saved user")
		})
	}
}

func TestRoundTripThroughSQLite(t *testing.T) {
	d, err := db.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer d.Close()

	first := New(&fakeAuth{user: ana}, d)
	require.NoError(t, first.Login(context.Background(), types.LoginRequest{Email: ana.Email}))

	second := New(&fakeAuth{}, d)
	second.Hydrate()
	require.NotNil(t, second.User())
	assert.Equal(t, ana.Email, second.User().Email)

	require.NoError(t, second.Logout())
	third := New(&fakeAuth{}, d)
	third.Hydrate()
	assert.Nil(t, third.User())
}
