// Package store is the client-side cache of backend entities.
//
// State only changes through Dispatch. Every slice has a pure reducer that
// returns a new value and never writes into the slices of the prior state,
// so a State handed out earlier stays valid after later dispatches.
package store

import (
	"sync"
)

// Action is a state transition request. The set of actions is closed.
type Action interface {
	action()
}

// State is the whole client cache
type State struct {
	Auth          AuthState
	Jobs          JobState
	Applications  ApplicationState
	Notifications NotificationState
	Companies     CompanyState
}

// Reduce applies an action to every slice
func Reduce(s State, a Action) State {
	return State{
		Auth:          reduceAuth(s.Auth, a),
		Jobs:          reduceJobs(s.Jobs, a),
		Applications:  reduceApplications(s.Applications, a),
		Notifications: reduceNotifications(s.Notifications, a),
		Companies:     reduceCompanies(s.Companies, a),
	}
}

// Store holds the current State and notifies subscribers after each dispatch
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New returns an empty store
func New() *Store {
	return &Store{subs: make(map[int]func(State))}
}

// Dispatch reduces the actions in order and returns the resulting state
func (s *Store) Dispatch(actions ...Action) State {
	s.mu.Lock()
	next := s.state
	for _, a := range actions {
		next = Reduce(next, a)
	}
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.Clone())
	}
	return next.Clone()
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to run after every dispatch. The returned func removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Clone copies the top-level slices so the caller can modify them freely
func (s State) Clone() State {
	out := s
	out.Jobs.AllJobs = cloneSlice(s.Jobs.AllJobs)
	out.Jobs.MyJobs = cloneSlice(s.Jobs.MyJobs)
	out.Jobs.AppliedJobs = cloneSlice(s.Jobs.AppliedJobs)
	out.Notifications.Items = cloneSlice(s.Notifications.Items)
	out.Companies.Companies = cloneSlice(s.Companies.Companies)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
