package store

import "github.com/fr4nk3nst1ner/jobboard/internal/models"

// AuthState is the signed-in user, nil when logged out
type AuthState struct {
	User    *models.User
	Loading bool
}

// LoggedIn reports whether a user is present
func (a AuthState) LoggedIn() bool { return a.User != nil && a.User.ID != "" }

// SetUser replaces the signed-in user; nil logs out
type SetUser struct{ User *models.User }

// SetAuthLoading flags an auth request in flight
type SetAuthLoading struct{ Loading bool }

func (SetUser) action()        {}
func (SetAuthLoading) action() {}

func reduceAuth(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case SetUser:
		if a.User == nil {
			s.User = nil
			return s
		}
		u := *a.User
		s.User = &u
	case SetAuthLoading:
		s.Loading = a.Loading
	}
	return s
}
