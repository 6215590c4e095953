// Package notify keeps the local notification cache in step with the backend
// by polling, and applies read marks optimistically.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/store"
	"github.com/pterm/pterm"
)

// DefaultPollInterval is how often notifications are refreshed while signed in
const DefaultPollInterval = 30 * time.Second

// ErrNotAuthenticated is returned by Run when nobody is signed in
var ErrNotAuthenticated = errors.New("notifications require a signed-in user")

// API is the slice of the backend client the syncer needs
type API interface {
	Notifications(ctx context.Context) (*client.NotificationsResponse, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Syncer owns the notification slice of the store
type Syncer struct {
	api      API
	store    *store.Store
	logger   *pterm.Logger
	schedule Schedule

	// OnArrival receives notifications that were not in the previous fetch.
	// The first fetch of a session only primes and never triggers it.
	OnArrival func([]models.Notification)

	mu sync.Mutex
	// issued and applied are fetch sequence numbers; a response older than
	// the last applied one is dropped.
	issued  uint64
	applied uint64
	// epoch counts local read marks; marks records the epoch of each id
	// marked read locally, allRead the epoch of the last mark-all.
	epoch   uint64
	marks   map[string]uint64
	allRead uint64
	seen    map[string]struct{}
	primed  bool
}

// Options configures a Syncer
type Options struct {
	Schedule Schedule
	Logger   *pterm.Logger
}

// New creates a syncer writing into st
func New(api API, st *store.Store, opts Options) *Syncer {
	schedule := opts.Schedule
	if schedule == nil {
		schedule = Interval(DefaultPollInterval)
	}
	logger := opts.Logger
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Syncer{
		api:      api,
		store:    st,
		logger:   logger,
		schedule: schedule,
		marks:    make(map[string]uint64),
		seen:     make(map[string]struct{}),
	}
}

// Run fetches immediately and then on every tick of the schedule. It returns
// when ctx is cancelled or the user logs out.
func (s *Syncer) Run(ctx context.Context) error {
	if !s.store.State().Auth.LoggedIn() {
		return ErrNotAuthenticated
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := s.store.Subscribe(func(st store.State) {
		if !st.Auth.LoggedIn() {
			cancel()
		}
	})
	defer unsubscribe()

	_ = s.Fetch(ctx)

	ticks := s.schedule.Start(ctx)
	for {
		select {
		case <-ctx.Done():
			s.reset()
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			_ = s.Fetch(ctx)
		}
	}
}

// OpenMenu refreshes right away, as opening the notification menu does
func (s *Syncer) OpenMenu(ctx context.Context) error {
	return s.Fetch(ctx)
}

// Fetch replaces the cached list and unread count with the server's.
// Failures are logged and leave the cache as it was.
func (s *Syncer) Fetch(ctx context.Context) error {
	if !s.store.State().Auth.LoggedIn() {
		return nil
	}

	s.mu.Lock()
	s.issued++
	seq := s.issued
	startEpoch := s.epoch
	s.mu.Unlock()

	s.store.Dispatch(store.SetNotificationLoading{Loading: true})
	res, err := s.api.Notifications(ctx)
	if err != nil {
		s.store.Dispatch(store.SetNotificationLoading{Loading: false})
		s.logger.Warn("failed to fetch notifications", s.logger.Args("error", err))
		return err
	}

	// The session may have ended while the request was in flight
	if ctx.Err() != nil || !s.store.State().Auth.LoggedIn() {
		s.store.Dispatch(store.SetNotificationLoading{Loading: false})
		return nil
	}

	s.mu.Lock()
	if seq < s.applied {
		s.mu.Unlock()
		s.logger.Debug("dropping stale notification response", s.logger.Args("seq", seq, "applied", s.applied))
		return nil
	}
	s.applied = seq
	items, unread := s.reconcile(res.Notifications, res.UnreadCount, startEpoch)
	arrived := s.arrivals(items)
	s.mu.Unlock()

	s.store.Dispatch(
		store.SetNotifications{Items: items},
		store.SetUnreadCount{Count: unread},
		store.SetNotificationLoading{Loading: false},
	)

	if len(arrived) > 0 && s.OnArrival != nil {
		s.OnArrival(arrived)
	}
	return nil
}

// reconcile keeps read marks made after the fetch started, so a slow
// response cannot bring back notifications the user already read.
// Caller holds s.mu.
func (s *Syncer) reconcile(items []models.Notification, unread int, startEpoch uint64) ([]models.Notification, int) {
	out := make([]models.Notification, len(items))
	flipped := 0
	for i, n := range items {
		if !n.IsRead && (s.allRead > startEpoch || s.marks[n.ID] > startEpoch) {
			n.IsRead = true
			flipped++
		}
		out[i] = n
	}
	if flipped > 0 {
		unread -= flipped
		if unread < 0 {
			unread = 0
		}
	}
	return out, unread
}

// arrivals returns the unread notifications not seen before. Caller holds s.mu.
func (s *Syncer) arrivals(items []models.Notification) []models.Notification {
	var arrived []models.Notification
	for _, n := range items {
		if _, ok := s.seen[n.ID]; ok {
			continue
		}
		s.seen[n.ID] = struct{}{}
		if s.primed && !n.IsRead {
			arrived = append(arrived, n)
		}
	}
	s.primed = true
	return arrived
}

// MarkRead flags one notification read locally, then persists it.
// If the request fails the previous flag is put back.
func (s *Syncer) MarkRead(ctx context.Context, id string) error {
	prior, found := s.lookup(id)

	s.mu.Lock()
	s.epoch++
	s.marks[id] = s.epoch
	s.mu.Unlock()

	s.store.Dispatch(store.MarkNotificationReadLocal{ID: id})

	if err := s.api.MarkNotificationRead(ctx, id); err != nil {
		s.logger.Warn("failed to mark notification read", s.logger.Args("id", id, "error", err))
		s.mu.Lock()
		delete(s.marks, id)
		s.mu.Unlock()
		if found {
			s.store.Dispatch(store.RestoreNotificationRead{ID: id, IsRead: prior.IsRead})
		}
		return err
	}
	return nil
}

// MarkAllRead flags every notification read locally, then persists it.
// On failure the previous list is restored unless a newer fetch already replaced it.
func (s *Syncer) MarkAllRead(ctx context.Context) error {
	before := s.store.State().Notifications

	s.mu.Lock()
	s.epoch++
	s.allRead = s.epoch
	appliedAtMark := s.applied
	s.mu.Unlock()

	s.store.Dispatch(store.MarkAllReadLocal{})

	if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
		s.logger.Warn("failed to mark all notifications read", s.logger.Args("error", err))
		s.mu.Lock()
		s.allRead = 0
		stale := s.applied != appliedAtMark
		s.mu.Unlock()
		if !stale {
			s.store.Dispatch(
				store.SetNotifications{Items: before.Items},
				store.SetUnreadCount{Count: before.UnreadCount},
			)
		}
		return err
	}
	return nil
}

func (s *Syncer) lookup(id string) (models.Notification, bool) {
	for _, n := range s.store.State().Notifications.Items {
		if n.ID == id {
			return n, true
		}
	}
	return models.Notification{}, false
}

// reset forgets per-session bookkeeping once polling stops
func (s *Syncer) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks = make(map[string]uint64)
	s.seen = make(map[string]struct{})
	s.allRead = 0
	s.primed = false
}
