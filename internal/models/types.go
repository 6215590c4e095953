package models

import (
	"encoding/json"
	"time"
)

// Role is the account type returned by the backend
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// RecruiterStatus is the admin-controlled verification state of a recruiter
type RecruiterStatus string

const (
	RecruiterPending   RecruiterStatus = "pending"
	RecruiterVerified  RecruiterStatus = "verified"
	RecruiterSuspended RecruiterStatus = "suspended"
	RecruiterRejected  RecruiterStatus = "rejected"
)

// ApplicationStatus is the shortlisting state of an application
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// Profile holds the optional profile fields of a user
type Profile struct {
	Bio                string   `json:"bio,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	Resume             string   `json:"resume,omitempty"`
	ResumeOriginalName string   `json:"resumeOriginalName,omitempty"`
	ProfilePhoto       string   `json:"profilePhoto,omitempty"`
	Company            string   `json:"company,omitempty"`
}

// User is the authenticated account as mirrored from the backend
type User struct {
	ID              string          `json:"_id"`
	FullName        string          `json:"fullName"`
	Email           string          `json:"email"`
	PhoneNumber     FlexString      `json:"phoneNumber,omitempty"`
	Role            Role            `json:"role"`
	RecruiterStatus RecruiterStatus `json:"recruiterStatus,omitempty"`
	Profile         Profile         `json:"profile"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
}

func (u User) RefID() string { return u.ID }

// Company is read-only reference data used by job forms
type Company struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	Location    string    `json:"location,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

func (c Company) RefID() string { return c.ID }

// Job is a posting; Applications is only populated on detail and applicant responses
type Job struct {
	ID           string        `json:"_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Requirement  FlexString    `json:"requirement,omitempty"`
	Location     string        `json:"location"`
	Industry     string        `json:"industry,omitempty"`
	Salary       Salary        `json:"salary,omitempty"`
	SalaryMin    Number        `json:"salaryMin,omitempty"`
	SalaryMax    Number        `json:"salaryMax,omitempty"`
	Position     int           `json:"position"`
	Experience   FlexString    `json:"experience,omitempty"`
	JobType      string        `json:"jobType"`
	Company      Ref[Company]  `json:"company"`
	CreatedBy    Ref[User]     `json:"created_by"`
	Applications []Application `json:"applications,omitempty"`
	CreatedAt    time.Time     `json:"createdAt,omitempty"`
}

func (j Job) RefID() string { return j.ID }

// Application links an applicant to a job
type Application struct {
	ID        string            `json:"_id"`
	Job       Ref[Job]          `json:"job"`
	Applicant Ref[User]         `json:"applicant"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts either a bare application id or a full record
func (a *Application) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*a = Application{ID: id}
		return nil
	}
	type plain Application
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Application(p)
	return nil
}

// Notification is created server-side; only IsRead is mutated locally
type Notification struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminStats is the platform snapshot shown on the admin overview
type AdminStats struct {
	TotalUsers         int `json:"totalUsers"`
	TotalRecruiters    int `json:"totalRecruiters"`
	TotalStudents      int `json:"totalStudents"`
	VerifiedRecruiters int `json:"verifiedRecruiters"`
	TotalJobs          int `json:"totalJobs"`
	TotalApplications  int `json:"totalApplications"`
}
