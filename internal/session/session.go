package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/daviddao/mailtriage/internal/types"
)

// UserKey is the storage key holding the serialized current user.
const UserKey = "user"

// Storage is a persisted string key/value store.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Authenticator performs the backend calls behind login and register.
type Authenticator interface {
	Login(ctx context.Context, creds types.LoginRequest) (*types.User, error)
	Register(ctx context.Context, req types.CreateUserRequest) (*types.CreateUserResponse, error)
}

// Session is the single authentication state container of a running client.
type Session struct {
	mu      sync.Mutex
	state   State
	auth    Authenticator
	storage Storage
	warn    io.Writer
}

// Option configures a Session.
type Option func(*Session)

// WithWarnings sets where non-fatal warnings are written. Defaults to stderr.
func WithWarnings(w io.Writer) Option {
	return func(s *Session) {
		if w != nil {
			s.warn = w
		}
	}
}

// New returns an anonymous session.
func New(auth Authenticator, storage Storage, opts ...Option) *Session {
	s := &Session{
		state:   InitialState(),
		auth:    auth,
		storage: storage,
		warn:    os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the authenticated user, or nil.
func (s *Session) User() *types.User {
	return s.State().User
}

func (s *Session) dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// Hydrate restores a previously persisted user. A corrupted entry is
// reported, removed, and leaves the session anonymous. It never fails.
func (s *Session) Hydrate() {
	raw, ok, err := s.storage.Get(UserKey)
	if err != nil {
		fmt.Fprintf(s.warn, "warning: could not read saved session: %v\n", err)
		return
	}
	if !ok {
		return
	}

	var user *types.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user == nil {
		if err == nil {
			err = errors.New("empty user record")
		}
		fmt.Fprintf(s.warn, "warning: failed to parse saved user: %v\n", err)
		if delErr := s.storage.Delete(UserKey); delErr != nil {
			fmt.Fprintf(s.warn, "warning: could not remove saved user: %v\n", delErr)
		}
		return
	}
	s.dispatch(SetUser{User: user})
}

// Login authenticates and persists the user. On failure the message is
// recorded in the state and the error is returned.
func (s *Session) Login(ctx context.Context, creds types.LoginRequest) error {
	s.dispatch(LoginStart{})

	user, err := s.auth.Login(ctx, creds)
	if err == nil {
		err = s.persist(user)
	}
	if err != nil {
		s.dispatch(LoginFailure{Message: err.Error()})
		return err
	}

	s.dispatch(LoginSuccess{User: user})
	return nil
}

// Register creates an account. It does not authenticate.
func (s *Session) Register(ctx context.Context, req types.CreateUserRequest) error {
	s.dispatch(RegisterStart{})

	if _, err := s.auth.Register(ctx, req); err != nil {
		s.dispatch(RegisterFailure{Message: err.Error()})
		return err
	}

	s.dispatch(RegisterSuccess{})
	return nil
}

// Logout clears persisted storage and resets to the initial state. The
// state is reset even when storage fails.
func (s *Session) Logout() error {
	err := s.storage.Delete(UserKey)
	s.dispatch(Logout{})
	if err != nil {
		return fmt.Errorf("clear saved session: %w", err)
	}
	return nil
}

// ClearError drops the last error message.
func (s *Session) ClearError() {
	s.dispatch(ClearError{})
}

func (s *Session) persist(user *types.User) error {
	if user == nil {
		return errors.New("login returned no user")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(UserKey, string(data)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
