package browse

import (
	"net/url"
	"sync"

	"github.com/fr4nk3nst1ner/jobboard/internal/models"
)

// JobIDParam is the query parameter carrying the selected job
const JobIDParam = "jobId"

// History is where the selection is mirrored. Replace rewrites the current
// entry; Push adds a new one.
type History interface {
	Query() url.Values
	Replace(q url.Values)
	Push(q url.Values)
}

// MemoryHistory is an in-process History
type MemoryHistory struct {
	mu      sync.Mutex
	entries []url.Values
}

// NewMemoryHistory starts a history at the given query, which may be nil
func NewMemoryHistory(initial url.Values) *MemoryHistory {
	return &MemoryHistory{entries: []url.Values{cloneValues(initial)}}
}

func (h *MemoryHistory) Query() url.Values {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cloneValues(h.entries[len(h.entries)-1])
}

func (h *MemoryHistory) Replace(q url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[len(h.entries)-1] = cloneValues(q)
}

func (h *MemoryHistory) Push(q url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, cloneValues(q))
}

// Len is the number of history entries
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Selection is the selected job id, kept in step with History
type Selection struct {
	history History
	id      string
}

// NewSelection reads any existing selection from h
func NewSelection(h History) *Selection {
	return &Selection{history: h, id: h.Query().Get(JobIDParam)}
}

// ID returns the selected job id, or "" when nothing is selected
func (s *Selection) ID() string { return s.id }

// Select makes id the selection and records it as a new history entry
func (s *Selection) Select(id string) {
	s.id = id
	q := s.history.Query()
	q.Set(JobIDParam, id)
	s.history.Push(q)
}

// Sync settles the selection against the filtered list. A job id in the
// query wins; otherwise, with nothing selected, the first filtered job is
// picked and written back without adding a history entry. An existing
// selection is kept even when filters hide it. Reports whether the id changed.
func (s *Selection) Sync(filtered []models.Job) bool {
	prev := s.id
	if fromQuery := s.history.Query().Get(JobIDParam); fromQuery != "" {
		s.id = fromQuery
		return s.id != prev
	}
	if s.id == "" && len(filtered) > 0 {
		s.id = filtered[0].ID
		q := s.history.Query()
		q.Set(JobIDParam, s.id)
		s.history.Replace(q)
	}
	return s.id != prev
}
