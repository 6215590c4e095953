package store

import "github.com/fr4nk3nst1ner/jobboard/internal/models"

// JobState caches job listings and the job currently opened in detail
type JobState struct {
	AllJobs     []models.Job
	SingleJob   *models.Job
	SearchQuery string
	MyJobs      []models.Job
	AppliedJobs []models.Application
}

type (
	SetAllJobs     struct{ Jobs []models.Job }
	SetSingleJob   struct{ Job *models.Job }
	SetSearchQuery struct{ Query string }
	SetMyJobs      struct{ Jobs []models.Job }
	SetAppliedJobs struct{ Applications []models.Application }
)

func (SetAllJobs) action()     {}
func (SetSingleJob) action()   {}
func (SetSearchQuery) action() {}
func (SetMyJobs) action()      {}
func (SetAppliedJobs) action() {}

func reduceJobs(s JobState, a Action) JobState {
	switch a := a.(type) {
	case SetAllJobs:
		s.AllJobs = cloneSlice(a.Jobs)
	case SetSingleJob:
		if a.Job == nil {
			s.SingleJob = nil
			return s
		}
		j := *a.Job
		s.SingleJob = &j
	case SetSearchQuery:
		s.SearchQuery = a.Query
	case SetMyJobs:
		s.MyJobs = cloneSlice(a.Jobs)
	case SetAppliedJobs:
		s.AppliedJobs = cloneSlice(a.Applications)
	case SetUser:
		if a.User == nil {
			s.MyJobs = nil
			s.AppliedJobs = nil
		}
	}
	return s
}
