package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	responses []*client.NotificationsResponse
	fetchErr  error
	markErr   error
	fetches   int
	marked    []string
	markedAll int
	// hook runs inside Notifications before the response is returned
	hook func(call int)
}

func (f *fakeAPI) Notifications(ctx context.Context) (*client.NotificationsResponse, error) {
	f.mu.Lock()
	call := f.fetches
	f.fetches++
	hook := f.hook
	var res *client.NotificationsResponse
	if len(f.responses) > 0 {
		idx := call
		if idx >= len(f.responses) {
			idx = len(f.responses) - 1
		}
		res = f.responses[idx]
	}
	err := f.fetchErr
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (f *fakeAPI) MarkNotificationRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	return f.markErr
}

func (f *fakeAPI) MarkAllNotificationsRead(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedAll++
	return f.markErr
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// manualSchedule ticks only when the test says so
type manualSchedule chan time.Time

func (m manualSchedule) Start(ctx context.Context) <-chan time.Time { return m }

func signedIn() *store.Store {
	st := store.New()
	st.Dispatch(store.SetUser{User: &models.User{ID: "u1", FullName: "Ayesha Khan", Role: models.RoleStudent}})
	return st
}

func response(unread int, items ...models.Notification) *client.NotificationsResponse {
	return &client.NotificationsResponse{
		Envelope:      client.Envelope{Success: true},
		Notifications: items,
		UnreadCount:   unread,
	}
}

func TestFetchReplacesCache(t *testing.T) {
	st := signedIn()
	api := &fakeAPI{responses: []*client.NotificationsResponse{
		response(1, models.Notification{ID: "n1"}, models.Notification{ID: "n2", IsRead: true}),
	}}
	s := New(api, st, Options{})

	require.NoError(t, s.Fetch(context.Background()))

	got := st.State().Notifications
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 1, got.UnreadCount)
	assert.False(t, got.Loading)
}

func TestFetchFailureKeepsCache(t *testing.T) {
	st := signedIn()
	st.Dispatch(
		store.SetNotifications{Items: []models.Notification{{ID: "old"}}},
		store.SetUnreadCount{Count: 1},
	)
	api := &fakeAPI{fetchErr: client.ErrTransport}
	s := New(api, st, Options{})

	err := s.Fetch(context.Background())
	assert.ErrorIs(t, err, client.ErrTransport)

	got := st.State().Notifications
	require.Len(t, got.Items, 1)
	assert.Equal(t, "old", got.Items[0].ID)
	assert.Equal(t, 1, got.UnreadCount)
	assert.False(t, got.Loading)
}

func TestFetchSkippedWhenSignedOut(t *testing.T) {
	api := &fakeAPI{responses: []*client.NotificationsResponse{response(0)}}
	s := New(api, store.New(), Options{})

	require.NoError(t, s.Fetch(context.Background()))
	assert.Zero(t, api.fetchCount())
}

func TestMarkReadIsOptimistic(t *testing.T) {
	st := signedIn()
	st.Dispatch(
		store.SetNotifications{Items: []models.Notification{{ID: "n1"}, {ID: "n2"}}},
		store.SetUnreadCount{Count: 2},
	)
	api := &fakeAPI{}
	s := New(api, st, Options{})

	require.NoError(t, s.MarkRead(context.Background(), "n1"))

	got := st.State().Notifications
	assert.True(t, got.Items[0].IsRead)
	assert.False(t, got.Items[1].IsRead)
	assert.Equal(t, 1, got.UnreadCount)
	assert.Equal(t, []string{"n1"}, api.marked)
}

func TestMarkReadRollsBackOnFailure(t *testing.T) {
	st := signedIn()
	st.Dispatch(
		store.SetNotifications{Items: []models.Notification{{ID: "n1"}, {ID: "n2"}}},
		store.SetUnreadCount{Count: 2},
	)
	api := &fakeAPI{markErr: &client.APIError{Status: 500, Message: "boom"}}
	s := New(api, st, Options{})

	err := s.MarkRead(context.Background(), "n1")
	require.Error(t, err)

	got := st.State().Notifications
	assert.False(t, got.Items[0].IsRead)
	assert.Equal(t, 2, got.UnreadCount)
}

func TestMarkAllRead(t *testing.T) {
	st := signedIn()
	st.Dispatch(
		store.SetNotifications{Items: []models.Notification{{ID: "n1"}, {ID: "n2", IsRead: true}, {ID: "n3"}}},
		store.SetUnreadCount{Count: 2},
	)
	api := &fakeAPI{}
	s := New(api, st, Options{})

	require.NoError(t, s.MarkAllRead(context.Background()))

	got := st.State().Notifications
	assert.Zero(t, got.UnreadCount)
	for _, n := range got.Items {
		assert.True(t, n.IsRead, n.ID)
	}
	assert.Equal(t, 1, api.markedAll)
}

func TestMarkAllReadRollsBackOnFailure(t *testing.T) {
	st := signedIn()
	before := []models.Notification{{ID: "n1"}, {ID: "n2", IsRead: true}}
	st.Dispatch(store.SetNotifications{Items: before}, store.SetUnreadCount{Count: 1})
	api := &fakeAPI{markErr: errors.New("offline")}
	s := New(api, st, Options{})

	require.Error(t, s.MarkAllRead(context.Background()))

	got := st.State().Notifications
	assert.Equal(t, before, got.Items)
	assert.Equal(t, 1, got.UnreadCount)
}

func TestLateResponseDoesNotUndoLocalRead(t *testing.T) {
	st := signedIn()
	st.Dispatch(store.SetNotifications{Items: []models.Notification{{ID: "n1"}, {ID: "n2"}}}, store.SetUnreadCount{Count: 2})

	api := &fakeAPI{responses: []*client.NotificationsResponse{
		response(2, models.Notification{ID: "n1"}, models.Notification{ID: "n2"}),
	}}
	s := New(api, st, Options{})
	// The user reads n1 while the poll is in flight
	api.hook = func(call int) {
		require.NoError(t, s.MarkRead(context.Background(), "n1"))
	}

	require.NoError(t, s.Fetch(context.Background()))

	got := st.State().Notifications
	assert.True(t, got.Items[0].IsRead)
	assert.False(t, got.Items[1].IsRead)
	assert.Equal(t, 1, got.UnreadCount)
}

func TestStaleResponseIsDropped(t *testing.T) {
	st := signedIn()
	api := &fakeAPI{responses: []*client.NotificationsResponse{
		response(1, models.Notification{ID: "old"}),
		response(1, models.Notification{ID: "new"}),
	}}
	s := New(api, st, Options{})

	// The first fetch is overtaken by a second one that finishes first
	api.hook = func(call int) {
		if call == 0 {
			api.mu.Lock()
			api.hook = nil
			api.mu.Unlock()
			require.NoError(t, s.Fetch(context.Background()))
		}
	}
	require.NoError(t, s.Fetch(context.Background()))

	got := st.State().Notifications
	require.Len(t, got.Items, 1)
	assert.Equal(t, "new", got.Items[0].ID)
}

func TestOnArrivalSkipsFirstFetch(t *testing.T) {
	st := signedIn()
	api := &fakeAPI{responses: []*client.NotificationsResponse{
		response(1, models.Notification{ID: "n1"}),
		response(2, models.Notification{ID: "n2"}, models.Notification{ID: "n1"}),
	}}
	s := New(api, st, Options{})

	var arrived []string
	s.OnArrival = func(items []models.Notification) {
		for _, n := range items {
			arrived = append(arrived, n.ID)
		}
	}

	require.NoError(t, s.Fetch(context.Background()))
	assert.Empty(t, arrived)

	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, []string{"n2"}, arrived)
}

func TestRunPollsOnScheduleAndStopsOnLogout(t *testing.T) {
	st := signedIn()
	api := &fakeAPI{responses: []*client.NotificationsResponse{response(0)}}
	ticks := make(manualSchedule)
	s := New(api, st, Options{Schedule: ticks})

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	require.Eventually(t, func() bool { return api.fetchCount() == 1 }, time.Second, 5*time.Millisecond)

	ticks <- time.Now()
	require.Eventually(t, func() bool { return api.fetchCount() == 2 }, time.Second, 5*time.Millisecond)

	st.Dispatch(store.SetUser{User: nil})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after logout")
	}
	assert.Equal(t, 2, api.fetchCount())
}

func TestRunStopsOnCancel(t *testing.T) {
	st := signedIn()
	api := &fakeAPI{responses: []*client.NotificationsResponse{response(0)}}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(api, st, Options{Schedule: make(manualSchedule)})

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	require.Eventually(t, func() bool { return api.fetchCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

func TestRunRequiresUser(t *testing.T) {
	s := New(&fakeAPI{}, store.New(), Options{})
	assert.ErrorIs(t, s.Run(context.Background()), ErrNotAuthenticated)
}

func TestIntervalTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := Interval(5 * time.Millisecond).Start(ctx)

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("no tick")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ticks:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
