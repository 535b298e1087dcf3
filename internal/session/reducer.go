// Package session holds the client-side authentication state.
//
// State transitions are a pure function (Reduce) over a closed set of
// actions. Session wraps that function with the auth calls and the
// persisted-storage effects.
package session

import "github.com/daviddao/mailtriage/internal/types"

// State is the authentication state. IsAuthenticated is true exactly when
// User is non-nil.
type State struct {
	User            *types.User `json:"user"`
	IsLoading       bool        `json:"is_loading"`
	Error           string      `json:"error,omitempty"`
	IsAuthenticated bool        `json:"is_authenticated"`
}

// InitialState is the anonymous state a session starts in.
func InitialState() State {
	return State{}
}

// Action is a state transition request.
type Action interface {
	action()
}

type (
	LoginStart      struct{}
	LoginSuccess    struct{ User *types.User }
	LoginFailure    struct{ Message string }
	RegisterStart   struct{}
	RegisterSuccess struct{}
	RegisterFailure struct{ Message string }
	Logout          struct{}
	SetUser         struct{ User *types.User }
	ClearError      struct{}
)

func (LoginStart) action()      {}
func (LoginSuccess) action()    {}
func (LoginFailure) action()    {}
func (RegisterStart) action()   {}
func (RegisterSuccess) action() {}
func (RegisterFailure) action() {}
func (Logout) action()          {}
func (SetUser) action()         {}
func (ClearError) action()      {}

// Reduce returns the state that follows s after a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoginStart, RegisterStart:
		s.IsLoading = true
		s.Error = ""
	case LoginSuccess:
		s.IsLoading = false
		s.Error = ""
		s.User = a.User
		s.IsAuthenticated = a.User != nil
	case RegisterSuccess:
		s.IsLoading = false
		s.Error = ""
	case LoginFailure:
		s = failed(s, a.Message)
	case RegisterFailure:
		s = failed(s, a.Message)
	case Logout:
		s = InitialState()
	case SetUser:
		s.User = a.User
		s.IsAuthenticated = a.User != nil
	case ClearError:
		s.Error = ""
	}
	return s
}

func failed(s State, msg string) State {
	s.IsLoading = false
	s.Error = msg
	s.User = nil
	s.IsAuthenticated = false
	return s
}
