package browse

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobs struct {
	mu       sync.Mutex
	jobs     map[string]*models.Job
	jobErr   error
	applyErr error
	applied  []string
	gets     int
	// beforeReturn runs inside Job before the response is returned
	beforeReturn func(id string)
}

func (f *fakeJobs) Job(ctx context.Context, id string) (*models.Job, error) {
	f.mu.Lock()
	f.gets++
	hook := f.beforeReturn
	f.beforeReturn = nil
	job, err := f.jobs[id], f.jobErr
	f.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (f *fakeJobs) Apply(ctx context.Context, jobID string, req *client.ApplyRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return "", f.applyErr
	}
	f.applied = append(f.applied, jobID)
	f.jobs[jobID].Applications = append(f.jobs[jobID].Applications, models.Application{
		ID:        "a1",
		Applicant: models.Ref[models.User]{ID: "u1"},
	})
	return "Job applied successfully.", nil
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: map[string]*models.Job{
		"j1": {ID: "j1", Title: "Backend Developer"},
		"j2": {ID: "j2", Title: "Frontend Engineer"},
	}}
}

func TestDetailLoad(t *testing.T) {
	d := NewDetail(newFakeJobs())

	job, err := d.Load(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", job.Title)

	v := d.View()
	assert.Equal(t, "j1", v.ID)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
}

func TestDetailErrorMessages(t *testing.T) {
	api := newFakeJobs()
	d := NewDetail(api)

	api.jobErr = &client.APIError{Status: 404, Message: "Job not found."}
	_, err := d.Load(context.Background(), "j1")
	require.Error(t, err)
	assert.Equal(t, "Job not found.", d.View().Error)
	assert.Nil(t, d.View().Job)

	api.jobErr = &client.APIError{Status: 200}
	_, _ = d.Load(context.Background(), "j1")
	assert.Equal(t, "Failed to load job", d.View().Error)

	api.jobErr = client.ErrTransport
	_, _ = d.Load(context.Background(), "j1")
	assert.Equal(t, "Error loading job", d.View().Error)
}

func TestDetailDropsSupersededResponse(t *testing.T) {
	api := newFakeJobs()
	d := NewDetail(api)

	// The user picks j2 while j1 is still loading
	api.beforeReturn = func(id string) {
		_, err := d.Load(context.Background(), "j2")
		require.NoError(t, err)
	}

	_, err := d.Load(context.Background(), "j1")
	assert.ErrorIs(t, err, ErrSuperseded)

	v := d.View()
	assert.Equal(t, "j2", v.ID)
	require.NotNil(t, v.Job)
	assert.Equal(t, "j2", v.Job.ID)
}

func TestDetailEmptyIDClears(t *testing.T) {
	d := NewDetail(newFakeJobs())
	_, _ = d.Load(context.Background(), "j1")

	job, err := d.Load(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, job)
	assert.Equal(t, DetailView{}, d.View())
}

func TestApplyDirectRefetches(t *testing.T) {
	api := newFakeJobs()
	d := NewDetail(api)
	_, err := d.Load(context.Background(), "j1")
	require.NoError(t, err)
	user := &models.User{ID: "u1"}
	require.False(t, IsApplied(d.View().Job, user))

	msg, err := d.ApplyDirect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Job applied successfully.", msg)
	assert.Equal(t, []string{"j1"}, api.applied)
	assert.Equal(t, 2, api.gets)
	assert.True(t, IsApplied(d.View().Job, user))
}

func TestApplyDirectUnauthorized(t *testing.T) {
	api := newFakeJobs()
	api.applyErr = &client.APIError{Status: http.StatusUnauthorized, Message: "User not authenticated"}
	d := NewDetail(api)
	_, _ = d.Load(context.Background(), "j2")

	_, err := d.ApplyDirect(context.Background())

	var loginErr *LoginRequiredError
	require.True(t, errors.As(err, &loginErr))
	assert.Equal(t, "/description/j2", loginErr.ReturnPath)
}

func TestApplyDirectOtherFailure(t *testing.T) {
	api := newFakeJobs()
	api.applyErr = &client.APIError{Status: http.StatusBadRequest, Message: "You have already applied for this job"}
	d := NewDetail(api)
	_, _ = d.Load(context.Background(), "j1")

	_, err := d.ApplyDirect(context.Background())
	require.Error(t, err)
	var loginErr *LoginRequiredError
	assert.False(t, errors.As(err, &loginErr))
	assert.Equal(t, "You have already applied for this job", client.Message(err, "Failed to apply"))
}

func TestIsApplied(t *testing.T) {
	job := &models.Job{Applications: []models.Application{
		{ID: "a1", Applicant: models.Ref[models.User]{ID: "u2"}},
		{ID: "a2", Applicant: models.RefTo(models.User{ID: "u1"})},
	}}
	assert.True(t, IsApplied(job, &models.User{ID: "u1"}))
	assert.False(t, IsApplied(job, &models.User{ID: "u3"}))
	assert.False(t, IsApplied(job, nil))
	assert.False(t, IsApplied(nil, &models.User{ID: "u1"}))
	assert.False(t, IsApplied(job, &models.User{}))
}
