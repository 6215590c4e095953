package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/fr4nk3nst1ner/jobboard/internal/models"
)

// LoginRequest is the body of POST /user/login
type LoginRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role,omitempty" validate:"omitempty,oneof=student recruiter admin"`
}

// RegisterRequest is the body of POST /user/register
type RegisterRequest struct {
	FullName    string      `json:"fullName" validate:"required,min=3"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=6"`
	PhoneNumber string      `json:"phoneNumber,omitempty" validate:"omitempty,min=10"`
	Role        models.Role `json:"role" validate:"required,oneof=student recruiter"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Envelope
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ApplyRequest holds the apply form. A nil request applies with an empty body.
type ApplyRequest struct {
	ApplicantName  string
	ExpectedSalary string
	Location       string
	Resume         *Upload
}

// ProfileUpdate holds the profile form; File goes up as photo or resume depending on its type
type ProfileUpdate struct {
	FullName    string
	Email       string
	PhoneNumber string
	Bio         string
	Skills      string
	File        *Upload
}

// JobInput is the body of job create and edit
type JobInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Requirement string  `json:"requirement,omitempty"`
	Location    string  `json:"location" validate:"required"`
	JobType     string  `json:"jobType" validate:"required"`
	Experience  int     `json:"experience" validate:"gte=0"`
	Position    int     `json:"position" validate:"gte=1"`
	SalaryMin   float64 `json:"salaryMin,omitempty" validate:"gte=0"`
	SalaryMax   float64 `json:"salaryMax,omitempty" validate:"omitempty,gtefield=SalaryMin"`
	Company     string  `json:"company" validate:"required"`
}

// UserQuery filters the admin user listing
type UserQuery struct {
	Q               string
	Role            models.Role
	RecruiterStatus models.RecruiterStatus
}

// NotificationsResponse is returned by GET /notification/get
type NotificationsResponse struct {
	Envelope
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

type jobResponse struct {
	Envelope
	Job *models.Job `json:"job"`
}

type jobsResponse struct {
	Envelope
	Jobs []models.Job `json:"jobs"`
}

type appliedResponse struct {
	Envelope
	Application  []models.Application `json:"application"`
	Applications []models.Application `json:"applications"`
}

type companyResponse struct {
	Envelope
	Company *models.Company `json:"company"`
}

type companiesResponse struct {
	Envelope
	Companies []models.Company `json:"companies"`
}

type statsResponse struct {
	Envelope
	Stats models.AdminStats `json:"stats"`
}

type usersResponse struct {
	Envelope
	Users []models.User `json:"users"`
}

type userResponse struct {
	Envelope
	User *models.User `json:"user"`
}

// Login authenticates with email and password
func (a *API) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := a.sendJSON(ctx, http.MethodPost, a.endpoint(nil, "user", "login"), req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and signs it in
func (a *API) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var res AuthResponse
	if err := a.sendJSON(ctx, http.MethodPost, a.endpoint(nil, "user", "register"), req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout ends the server session
func (a *API) Logout(ctx context.Context) (string, error) {
	var res Envelope
	if err := a.getJSON(ctx, a.endpoint(nil, "user", "logout"), &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// UpdateProfile uploads the profile form and returns the updated user
func (a *API) UpdateProfile(ctx context.Context, p ProfileUpdate) (*models.User, string, error) {
	fields := map[string]string{
		"fullName":    p.FullName,
		"email":       p.Email,
		"phoneNumber": p.PhoneNumber,
		"bio":         p.Bio,
		"skills":      p.Skills,
	}
	fileField := "file"
	if p.File.IsImage() {
		fileField = "profilePhoto"
	}
	var res userResponse
	if err := a.sendMultipart(ctx, http.MethodPost, a.endpoint(nil, "user", "profile", "update"), fields, fileField, p.File, &res); err != nil {
		return nil, "", err
	}
	return res.User, res.Message, nil
}

// Notifications fetches the current user's notifications and unread count
func (a *API) Notifications(ctx context.Context) (*NotificationsResponse, error) {
	var res NotificationsResponse
	if err := a.getJSON(ctx, a.endpoint(nil, "notification", "get"), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MarkNotificationRead persists the read flag of one notification
func (a *API) MarkNotificationRead(ctx context.Context, id string) error {
	return a.sendJSON(ctx, http.MethodPost, a.endpoint(nil, "notification", id, "read"), nil, nil)
}

// MarkAllNotificationsRead persists the read flag of every notification
func (a *API) MarkAllNotificationsRead(ctx context.Context) error {
	return a.sendJSON(ctx, http.MethodPost, a.endpoint(nil, "notification", "read-all"), nil, nil)
}

// Jobs lists all jobs, optionally narrowed by a server-side keyword
func (a *API) Jobs(ctx context.Context, keyword string) ([]models.Job, error) {
	query := url.Values{}
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		query.Set("keyword", keyword)
	}
	var res jobsResponse
	if err := a.getJSON(ctx, a.endpoint(query, "job", "get"), &res); err != nil {
		return nil, err
	}
	return res.Jobs, nil
}

// Job fetches the full detail of one job
func (a *API) Job(ctx context.Context, id string) (*models.Job, error) {
	var res jobResponse
	if err := a.getJSON(ctx, a.endpoint(nil, "job", "get", id), &res); err != nil {
		return nil, err
	}
	if res.Job == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "Job not found"}
	}
	return res.Job, nil
}

// PostJob creates a job for the signed-in recruiter
func (a *API) PostJob(ctx context.Context, in JobInput) (*models.Job, string, error) {
	var res jobResponse
	if err := a.sendJSON(ctx, http.MethodPost, a.endpoint(nil, "job", "post"), in, &res); err != nil {
		return nil, "", err
	}
	return res.Job, res.Message, nil
}

// UpdateJob edits an existing job
func (a *API) UpdateJob(ctx context.Context, id string, in JobInput) (*models.Job, string, error) {
	var res jobResponse
	if err := a.sendJSON(ctx, http.MethodPut, a.endpoint(nil, "job", "get", id), in, &res); err != nil {
		return nil, "", err
	}
	return res.Job, res.Message, nil
}

// MyJobs lists the jobs posted by the signed-in recruiter
func (a *API) MyJobs(ctx context.Context) ([]models.Job, error) {
	var res jobsResponse
	if err := a.getJSON(ctx, a.endpoint(nil, "job", "myJobs"), &res); err != nil {
		return nil, err
	}
	return res.Jobs, nil
}

// Apply submits an application for jobID. With a nil request the body is
// empty JSON; otherwise the form goes up as multipart with the resume attached.
func (a *API) Apply(ctx context.Context, jobID string, req *ApplyRequest) (string, error) {
	target := a.endpoint(nil, "application", "apply", jobID)
	var res Envelope
	if req == nil {
		if err := a.sendJSON(ctx, http.MethodPost, target, nil, &res); err != nil {
			return "", err
		}
		return res.Message, nil
	}

	fields := map[string]string{
		"applicantName":  req.ApplicantName,
		"expectedSalary": req.ExpectedSalary,
		"location":       req.Location,
	}
	if err := a.sendMultipart(ctx, http.MethodPost, target, fields, "file", req.Resume, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// AppliedJobs lists the signed-in student's applications
func (a *API) AppliedJobs(ctx context.Context) ([]models.Application, error) {
	var res appliedResponse
	if err := a.getJSON(ctx, a.endpoint(nil, "application", "get"), &res); err != nil {
		return nil, err
	}
	if len(res.Applications) > 0 {
		return res.Applications, nil
	}
	return res.Application, nil
}

// Applicants returns the job with its applications and applicants populated
func (a *API) Applicants(ctx context.Context, jobID string) (*models.Job, error) {
	var res jobResponse
	if err := a.getJSON(ctx, a.endpoint(nil, "application", jobID, "applicants"), &res); err != nil {
		return nil, err
	}
	if res.Job == nil {
		return nil, &APIError{Status: http.StatusNotFound, Message: "Job not found"}
	}
	return res.Job, nil
}

// UpdateApplicationStatus accepts or rejects an application
func (a *API) UpdateApplicationStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) (string, error) {
	payload := map[string]string{"status": string(status)}
	var res Envelope
	if err := a.sendJSON(ctx, http.MethodPost, a.endpoint(nil, "application", "status", applicationID, "update"), payload, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

// Companies lists the companies available to job forms
func (a *API) Companies(ctx context.Context) ([]models.Company, error) {
	var res companiesResponse
	if err := a.getJSON(ctx, a.endpoint(nil, "company", "get"), &res); err != nil {
		return nil, err
	}
	return res.Companies, nil
}

// RegisterCompany creates a company owned by the signed-in recruiter
func (a *API) RegisterCompany(ctx context.Context, name string) (*models.Company, error) {
	payload := map[string]string{"companyName": name}
	var res companyResponse
	if err := a.sendJSON(ctx, http.MethodPost, a.endpoint(nil, "company", "register"), payload, &res); err != nil {
		return nil, err
	}
	if res.Company == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "Company was not returned"}
	}
	return res.Company, nil
}

// AdminStats fetches the platform overview counters
func (a *API) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var res statsResponse
	if err := a.getJSON(ctx, a.endpoint(nil, "admin", "stats"), &res); err != nil {
		return nil, err
	}
	return &res.Stats, nil
}

// AdminUsers lists users matching q
func (a *API) AdminUsers(ctx context.Context, q UserQuery) ([]models.User, error) {
	query := url.Values{}
	if s := strings.TrimSpace(q.Q); s != "" {
		query.Set("q", s)
	}
	if q.Role != "" {
		query.Set("role", string(q.Role))
	}
	if q.RecruiterStatus != "" {
		query.Set("recruiterStatus", string(q.RecruiterStatus))
	}
	var res usersResponse
	if err := a.getJSON(ctx, a.endpoint(query, "admin", "users"), &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

// UpdateRecruiterStatus changes a recruiter's verification state
func (a *API) UpdateRecruiterStatus(ctx context.Context, userID string, status models.RecruiterStatus) (string, error) {
	payload := map[string]string{"recruiterStatus": string(status)}
	var res Envelope
	if err := a.sendJSON(ctx, http.MethodPut, a.endpoint(nil, "admin", "recruiters", userID, "status"), payload, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
