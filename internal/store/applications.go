package store

import "github.com/fr4nk3nst1ner/jobboard/internal/models"

// ApplicationState holds the job whose applicants a recruiter is reviewing
type ApplicationState struct {
	Applicants *models.Job
}

// SetApplicants replaces the applicants view
type SetApplicants struct{ Job *models.Job }

// SetApplicationStatusLocal updates the status of one application in the applicants view
type SetApplicationStatusLocal struct {
	ID     string
	Status models.ApplicationStatus
}

func (SetApplicants) action()             {}
func (SetApplicationStatusLocal) action() {}

func reduceApplications(s ApplicationState, a Action) ApplicationState {
	switch a := a.(type) {
	case SetApplicants:
		if a.Job == nil {
			s.Applicants = nil
			return s
		}
		j := *a.Job
		s.Applicants = &j
	case SetApplicationStatusLocal:
		if s.Applicants == nil {
			return s
		}
		j := *s.Applicants
		j.Applications = cloneSlice(j.Applications)
		for i := range j.Applications {
			if j.Applications[i].ID == a.ID {
				j.Applications[i].Status = a.Status
			}
		}
		s.Applicants = &j
	case SetUser:
		if a.User == nil {
			s.Applicants = nil
		}
	}
	return s
}
