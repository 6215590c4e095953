package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
)

// ErrSuperseded is returned by Load when a newer Load finished the job
var ErrSuperseded = errors.New("job detail superseded by a newer selection")

// LoginRequiredError means the action needs a session; ReturnPath is where
// to come back to after signing in.
type LoginRequiredError struct {
	ReturnPath string
}

func (e *LoginRequiredError) Error() string {
	return fmt.Sprintf("login required (return to %s)", e.ReturnPath)
}

// ReturnPath is the location of a job's description page
func ReturnPath(jobID string) string {
	return "/description/" + jobID
}

// JobAPI is what the detail pane needs from the backend
type JobAPI interface {
	Job(ctx context.Context, id string) (*models.Job, error)
	Apply(ctx context.Context, jobID string, req *client.ApplyRequest) (string, error)
}

// DetailView is a snapshot of the detail pane
type DetailView struct {
	ID      string
	Job     *models.Job
	Error   string
	Loading bool
}

// Detail loads full job records for the selected id
type Detail struct {
	api JobAPI

	mu   sync.Mutex
	seq  uint64
	view DetailView
}

// NewDetail creates an empty detail pane
func NewDetail(api JobAPI) *Detail {
	return &Detail{api: api}
}

// View returns the current snapshot
func (d *Detail) View() DetailView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// Load fetches the job for id. Only the latest Load may update the pane;
// earlier ones return ErrSuperseded when they finish.
func (d *Detail) Load(ctx context.Context, id string) (*models.Job, error) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	if id == "" {
		d.view = DetailView{}
		d.mu.Unlock()
		return nil, nil
	}
	d.view = DetailView{ID: id, Loading: true}
	d.mu.Unlock()

	job, err := d.api.Job(ctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return nil, ErrSuperseded
	}
	if err != nil {
		d.view = DetailView{ID: id, Error: detailMessage(err)}
		return nil, err
	}
	d.view = DetailView{ID: id, Job: job}
	return job, nil
}

// Refetch reloads the current job quietly; failures keep what is shown
func (d *Detail) Refetch(ctx context.Context) {
	d.mu.Lock()
	id := d.view.ID
	seq := d.seq
	d.mu.Unlock()
	if id == "" {
		return
	}

	job, err := d.api.Job(ctx, id)
	if err != nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq == d.seq && d.view.ID == id {
		d.view.Job = job
		d.view.Error = ""
	}
}

// ApplyDirect applies to the shown job with no form and refreshes it.
// A 401 comes back as *LoginRequiredError.
func (d *Detail) ApplyDirect(ctx context.Context) (string, error) {
	id := d.View().ID
	if id == "" {
		return "", errors.New("no job selected")
	}
	msg, err := d.api.Apply(ctx, id, nil)
	if err != nil {
		if client.IsUnauthorized(err) {
			return "", &LoginRequiredError{ReturnPath: ReturnPath(id)}
		}
		return "", err
	}
	d.Refetch(ctx)
	return msg, nil
}

func detailMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return client.Message(err, "Failed to load job")
	}
	return "Error loading job"
}

// IsApplied reports whether user already has an application on job
func IsApplied(job *models.Job, user *models.User) bool {
	if job == nil || user == nil || user.ID == "" {
		return false
	}
	for _, app := range job.Applications {
		if app.Applicant.ID == user.ID {
			return true
		}
	}
	return false
}
