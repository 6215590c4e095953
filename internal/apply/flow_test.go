package apply

import (
	"context"
	"errors"
	"testing"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type applyCall struct {
	jobID string
	req   *client.ApplyRequest
}

type fakeAPI struct {
	applies   []applyCall
	applyErr  error
	logins    []client.LoginRequest
	loginErr  error
	registers []client.RegisterRequest
}

func (f *fakeAPI) Apply(ctx context.Context, jobID string, req *client.ApplyRequest) (string, error) {
	f.applies = append(f.applies, applyCall{jobID: jobID, req: req})
	if f.applyErr != nil {
		return "", f.applyErr
	}
	return "Job applied successfully.", nil
}

func (f *fakeAPI) Login(ctx context.Context, req client.LoginRequest) (*client.AuthResponse, error) {
	f.logins = append(f.logins, req)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.AuthResponse{
		Envelope: client.Envelope{Success: true, Message: "Welcome back"},
		Token:    "tok-1",
		User:     &models.User{ID: "u1", FullName: "Sana Malik", Role: models.RoleStudent},
	}, nil
}

func (f *fakeAPI) Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error) {
	f.registers = append(f.registers, req)
	return &client.AuthResponse{
		Envelope: client.Envelope{Success: true, Message: "Account created successfully."},
		Token:    "tok-2",
		User:     &models.User{ID: "u2", FullName: req.FullName, Role: req.Role},
	}, nil
}

type fakeSession struct {
	token string
	user  *models.User
}

func (s *fakeSession) Save(token string, user *models.User) error {
	s.token, s.user = token, user
	return nil
}

type toasts struct {
	ok   []string
	errs []string
}

func (t *toasts) Success(msg string) { t.ok = append(t.ok, msg) }
func (t *toasts) Error(msg string)   { t.errs = append(t.errs, msg) }

type harness struct {
	api       *fakeAPI
	store     *store.Store
	session   *fakeSession
	toasts    *toasts
	refreshed int
	flow      *Flow
}

func newHarness(user *models.User) *harness {
	h := &harness{api: &fakeAPI{}, store: store.New(), session: &fakeSession{}, toasts: &toasts{}}
	if user != nil {
		h.store.Dispatch(store.SetUser{User: user})
	}
	h.flow = New("job-J", Deps{
		API:       h.api,
		Store:     h.store,
		Session:   h.session,
		Toaster:   h.toasts,
		OnApplied: func() { h.refreshed++ },
	})
	return h
}

var form = Form{ApplicantName: "Sana Malik", ExpectedSalary: "120000", Location: "Lahore"}

func TestApplyThenLoginResumes(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	require.NoError(t, h.flow.Open())
	require.NoError(t, h.flow.Submit(ctx, form))
	assert.Equal(t, AuthRequired, h.flow.State())
	assert.Equal(t, ModeLogin, h.flow.Mode())
	assert.Empty(t, h.api.applies)

	require.NoError(t, h.flow.Login(ctx, "sana@example.com", "secret1"))

	require.Len(t, h.api.applies, 1)
	call := h.api.applies[0]
	assert.Equal(t, "job-J", call.jobID)
	assert.Equal(t, "Sana Malik", call.req.ApplicantName)
	assert.Equal(t, "120000", call.req.ExpectedSalary)
	assert.Equal(t, "Lahore", call.req.Location)

	assert.Equal(t, Done, h.flow.State())
	assert.Equal(t, 1, h.refreshed)
	assert.Equal(t, "tok-1", h.session.token)
	assert.True(t, h.store.State().Auth.LoggedIn())
	assert.Equal(t, []string{"Login successful", "Job applied successfully."}, h.toasts.ok)
}

func TestApplyThenSignupResumes(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	require.NoError(t, h.flow.Open())
	require.NoError(t, h.flow.Submit(ctx, form))
	require.NoError(t, h.flow.SwitchMode(ModeSignup))
	require.NoError(t, h.flow.Signup(ctx, "Sana Malik", "sana@example.com", "secret1"))

	require.Len(t, h.api.registers, 1)
	assert.Equal(t, models.RoleStudent, h.api.registers[0].Role)
	require.Len(t, h.api.applies, 1)
	assert.Equal(t, Done, h.flow.State())
	assert.Equal(t, 1, h.refreshed)
	assert.Equal(t, "tok-2", h.session.token)
	assert.Contains(t, h.toasts.ok, "Account created successfully.")
}

func TestSignedInSubmitAppliesDirectly(t *testing.T) {
	h := newHarness(&models.User{ID: "u1", FullName: "Sana Malik"})

	require.NoError(t, h.flow.Open())
	assert.Equal(t, "Sana Malik", h.flow.Form().ApplicantName)

	require.NoError(t, h.flow.Submit(context.Background(), form))
	assert.Equal(t, Done, h.flow.State())
	assert.Len(t, h.api.applies, 1)
	assert.Equal(t, 1, h.refreshed)
}

func TestMissingRequiredFields(t *testing.T) {
	h := newHarness(&models.User{ID: "u1"})
	require.NoError(t, h.flow.Open())

	err := h.flow.Submit(context.Background(), Form{ApplicantName: "Sana", Location: "  "})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, ApplyFormOpen, h.flow.State())
	assert.Equal(t, []string{"Please fill all required fields"}, h.toasts.errs)
	assert.Empty(t, h.api.applies)
}

func TestApplyFailureReturnsToForm(t *testing.T) {
	h := newHarness(&models.User{ID: "u1"})
	h.api.applyErr = &client.APIError{Status: 400, Message: "You have already applied for this job"}
	require.NoError(t, h.flow.Open())

	err := h.flow.Submit(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, ApplyFormOpen, h.flow.State())
	assert.Equal(t, []string{"You have already applied for this job"}, h.toasts.errs)
	assert.Zero(t, h.refreshed)
	// the entered form survives for a retry
	assert.Equal(t, "Lahore", h.flow.Form().Location)
}

func TestTransportFailureUsesFallback(t *testing.T) {
	h := newHarness(&models.User{ID: "u1"})
	h.api.applyErr = client.ErrTransport
	require.NoError(t, h.flow.Open())

	require.Error(t, h.flow.Submit(context.Background(), form))
	assert.Equal(t, []string{"Failed to apply"}, h.toasts.errs)
}

func TestLoginFailureStaysInAuth(t *testing.T) {
	h := newHarness(nil)
	h.api.loginErr = &client.APIError{Status: 400, Message: "Incorrect email or password."}
	ctx := context.Background()
	require.NoError(t, h.flow.Open())
	require.NoError(t, h.flow.Submit(ctx, form))

	require.Error(t, h.flow.Login(ctx, "sana@example.com", "secret1"))
	assert.Equal(t, AuthRequired, h.flow.State())
	assert.Equal(t, []string{"Incorrect email or password."}, h.toasts.errs)
	assert.Empty(t, h.api.applies)
	assert.False(t, h.store.State().Auth.LoggedIn())
}

func TestLoginValidationBlocksRequest(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()
	require.NoError(t, h.flow.Open())
	require.NoError(t, h.flow.Submit(ctx, form))

	err := h.flow.Login(ctx, "nope", "secret1")
	var verr *client.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, h.api.logins)
	assert.Equal(t, []string{"Invalid email address"}, h.toasts.errs)
	assert.Equal(t, AuthRequired, h.flow.State())
}

func TestResumedApplyFailureReturnsToForm(t *testing.T) {
	h := newHarness(nil)
	h.api.applyErr = client.ErrTransport
	ctx := context.Background()
	require.NoError(t, h.flow.Open())
	require.NoError(t, h.flow.Submit(ctx, form))

	require.Error(t, h.flow.Login(ctx, "sana@example.com", "secret1"))
	assert.Equal(t, ApplyFormOpen, h.flow.State())
	assert.True(t, h.store.State().Auth.LoggedIn())
	assert.Zero(t, h.refreshed)
}

func TestInvalidTransitions(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	assert.ErrorIs(t, h.flow.Submit(ctx, form), ErrInvalidTransition)
	assert.ErrorIs(t, h.flow.SwitchMode(ModeSignup), ErrInvalidTransition)
	assert.ErrorIs(t, h.flow.Login(ctx, "a@b.co", "secret1"), ErrInvalidTransition)

	require.NoError(t, h.flow.Open())
	assert.ErrorIs(t, h.flow.Open(), ErrInvalidTransition)
	require.NoError(t, h.flow.Submit(ctx, form))
	assert.ErrorIs(t, h.flow.Signup(ctx, "Sana", "a@b.co", "secret1"), ErrInvalidTransition)

	h.flow.Close()
	assert.Equal(t, Idle, h.flow.State())
}
