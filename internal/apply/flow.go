// Package apply drives applying to a job, including signing in part way
// through and then resuming the application.
package apply

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/store"
	"github.com/pterm/pterm"
)

// State of an apply flow
type State int

const (
	Idle State = iota
	ApplyFormOpen
	AuthRequired
	Applying
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ApplyFormOpen:
		return "apply-form"
	case AuthRequired:
		return "auth-required"
	case Applying:
		return "applying"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Mode is the sub-state of AuthRequired
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

var (
	// ErrInvalidTransition is returned when an action does not fit the current state
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrMissingFields is returned when the applicant name or location is blank
	ErrMissingFields = errors.New("applicant name and location are required")
)

// Form is what the applicant enters before submitting
type Form struct {
	ApplicantName  string
	ExpectedSalary string
	Location       string
	Resume         *client.Upload
}

// API is the backend surface the flow calls
type API interface {
	Apply(ctx context.Context, jobID string, req *client.ApplyRequest) (string, error)
	Login(ctx context.Context, req client.LoginRequest) (*client.AuthResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
}

// Session persists the token and user returned by login or signup
type Session interface {
	Save(token string, user *models.User) error
}

// Toaster shows short messages to the user
type Toaster interface {
	Success(msg string)
	Error(msg string)
}

// Deps are the collaborators of a Flow
type Deps struct {
	API     API
	Store   *store.Store
	Session Session
	Toaster Toaster
	Logger  *pterm.Logger
	// OnApplied runs once after each successful application
	OnApplied func()
}

// Flow is the apply dialog for one job
type Flow struct {
	jobID string
	deps  Deps

	state State
	mode  Mode
	form  Form
}

// New creates a flow for jobID in the Idle state
func New(jobID string, deps Deps) *Flow {
	if deps.Logger == nil {
		deps.Logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Flow{jobID: jobID, deps: deps}
}

func (f *Flow) State() State { return f.state }
func (f *Flow) Mode() Mode   { return f.mode }
func (f *Flow) Form() Form   { return f.form }

// Open shows the apply form. The applicant name defaults to the signed-in user's name.
func (f *Flow) Open() error {
	if f.state != Idle && f.state != Done {
		return fmt.Errorf("open in %s: %w", f.state, ErrInvalidTransition)
	}
	if f.form.ApplicantName == "" {
		if user := f.deps.Store.State().Auth.User; user != nil {
			f.form.ApplicantName = user.FullName
		}
	}
	f.state = ApplyFormOpen
	return nil
}

// Close dismisses whichever dialog is open
func (f *Flow) Close() {
	f.state = Idle
	f.mode = ModeLogin
}

// Submit sends the application, or asks for a login first when nobody is
// signed in. The form is kept so the application can resume after auth.
func (f *Flow) Submit(ctx context.Context, form Form) error {
	if f.state != ApplyFormOpen {
		return fmt.Errorf("submit in %s: %w", f.state, ErrInvalidTransition)
	}
	f.form = form
	if strings.TrimSpace(form.ApplicantName) == "" || strings.TrimSpace(form.Location) == "" {
		f.deps.Toaster.Error("Please fill all required fields")
		return ErrMissingFields
	}

	if !f.deps.Store.State().Auth.LoggedIn() {
		f.state = AuthRequired
		f.mode = ModeLogin
		return nil
	}
	return f.submit(ctx)
}

// SwitchMode flips the auth dialog between login and signup
func (f *Flow) SwitchMode(m Mode) error {
	if f.state != AuthRequired {
		return fmt.Errorf("switch mode in %s: %w", f.state, ErrInvalidTransition)
	}
	f.mode = m
	return nil
}

// Login signs in and resumes the pending application
func (f *Flow) Login(ctx context.Context, email, password string) error {
	if f.state != AuthRequired || f.mode != ModeLogin {
		return fmt.Errorf("login in %s/%s: %w", f.state, f.mode, ErrInvalidTransition)
	}
	req := client.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := req.Validate(); err != nil {
		f.deps.Toaster.Error(client.Message(err, "Login failed"))
		return err
	}

	res, err := f.deps.API.Login(ctx, req)
	if err != nil {
		f.deps.Toaster.Error(client.Message(err, "Login failed"))
		return err
	}
	f.signedIn(res)
	f.deps.Toaster.Success("Login successful")
	return f.submit(ctx)
}

// Signup creates a student account and resumes the pending application
func (f *Flow) Signup(ctx context.Context, fullName, email, password string) error {
	if f.state != AuthRequired || f.mode != ModeSignup {
		return fmt.Errorf("signup in %s/%s: %w", f.state, f.mode, ErrInvalidTransition)
	}
	req := client.RegisterRequest{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.TrimSpace(email),
		Password: password,
		Role:     models.RoleStudent,
	}
	if err := req.Validate(); err != nil {
		f.deps.Toaster.Error(client.Message(err, "Signup failed"))
		return err
	}

	res, err := f.deps.API.Register(ctx, req)
	if err != nil {
		f.deps.Toaster.Error(client.Message(err, "Signup failed"))
		return err
	}
	f.signedIn(res)
	f.deps.Toaster.Success(orDefault(res.Message, "Account created"))
	return f.submit(ctx)
}

func (f *Flow) signedIn(res *client.AuthResponse) {
	if f.deps.Session != nil {
		if err := f.deps.Session.Save(res.Token, res.User); err != nil {
			f.deps.Logger.Warn("could not persist session", f.deps.Logger.Args("error", err))
		}
	}
	f.deps.Store.Dispatch(store.SetUser{User: res.User})
}

func (f *Flow) submit(ctx context.Context) error {
	f.state = Applying
	msg, err := f.deps.API.Apply(ctx, f.jobID, &client.ApplyRequest{
		ApplicantName:  f.form.ApplicantName,
		ExpectedSalary: f.form.ExpectedSalary,
		Location:       f.form.Location,
		Resume:         f.form.Resume,
	})
	if err != nil {
		f.deps.Logger.Debug("application failed", f.deps.Logger.Args("job", f.jobID, "error", err))
		f.deps.Toaster.Error(client.Message(err, "Failed to apply"))
		f.state = ApplyFormOpen
		return err
	}

	f.deps.Toaster.Success(orDefault(msg, "Applied successfully"))
	f.state = Done
	f.form = Form{}
	if f.deps.OnApplied != nil {
		f.deps.OnApplied()
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
