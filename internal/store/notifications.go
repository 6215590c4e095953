package store

import "github.com/fr4nk3nst1ner/jobboard/internal/models"

// NotificationState is the local view of the user's notifications
type NotificationState struct {
	Items       []models.Notification
	UnreadCount int
	Loading     bool
}

type (
	SetNotifications          struct{ Items []models.Notification }
	SetUnreadCount            struct{ Count int }
	SetNotificationLoading    struct{ Loading bool }
	MarkNotificationReadLocal struct{ ID string }
	MarkAllReadLocal          struct{}

	// RestoreNotificationRead puts back the read flag an optimistic update overwrote
	RestoreNotificationRead struct {
		ID     string
		IsRead bool
	}
)

func (SetNotifications) action()          {}
func (SetUnreadCount) action()            {}
func (SetNotificationLoading) action()    {}
func (MarkNotificationReadLocal) action() {}
func (MarkAllReadLocal) action()          {}
func (RestoreNotificationRead) action()   {}

func reduceNotifications(s NotificationState, a Action) NotificationState {
	switch a := a.(type) {
	case SetNotifications:
		s.Items = cloneSlice(a.Items)
		if s.Items == nil {
			s.Items = []models.Notification{}
		}
	case SetUnreadCount:
		if a.Count < 0 {
			a.Count = 0
		}
		s.UnreadCount = a.Count
	case SetNotificationLoading:
		s.Loading = a.Loading
	case MarkNotificationReadLocal:
		s.Items = setRead(s.Items, a.ID, true)
		s.UnreadCount = countUnread(s.Items)
	case RestoreNotificationRead:
		s.Items = setRead(s.Items, a.ID, a.IsRead)
		s.UnreadCount = countUnread(s.Items)
	case MarkAllReadLocal:
		items := make([]models.Notification, len(s.Items))
		for i, n := range s.Items {
			n.IsRead = true
			items[i] = n
		}
		s.Items = items
		s.UnreadCount = 0
	case SetUser:
		if a.User == nil {
			return NotificationState{}
		}
	}
	return s
}

func setRead(items []models.Notification, id string, read bool) []models.Notification {
	out := cloneSlice(items)
	for i := range out {
		if out[i].ID == id {
			out[i].IsRead = read
		}
	}
	return out
}

func countUnread(items []models.Notification) int {
	n := 0
	for _, item := range items {
		if !item.IsRead {
			n++
		}
	}
	return n
}
