package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.now = func() time.Time { return fixedNow }
	return p, &buf
}

func TestJobList(t *testing.T) {
	p, buf := newTestPrinter()
	jobs := []models.Job{
		{
			ID: "j1", Title: "Backend Developer", Location: "Lahore",
			Company:   models.RefTo(models.Company{ID: "c1", Name: "Acme"}),
			SalaryMin: models.NewNumber(50000), SalaryMax: models.NewNumber(90000),
			CreatedAt: fixedNow.Add(-2 * 24 * time.Hour),
		},
		{ID: "j2", Title: "School Teacher", Location: "Quetta", CreatedAt: fixedNow.Add(-10 * 24 * time.Hour)},
	}

	p.JobList(jobs, "j1", "", 5)

	out := buf.String()
	assert.Contains(t, out, "Backend Developer")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Rs 50,000 - 90,000")
	assert.Contains(t, out, "2 days ago NEW")
	assert.Contains(t, out, "10 days ago")
	assert.Contains(t, out, "Not specified")
	assert.Contains(t, out, "Showing 2 of 5 jobs")
	assert.Equal(t, 1, strings.Count(out, "NEW"))
}

func TestJobListEmpty(t *testing.T) {
	p, buf := newTestPrinter()
	p.JobList(nil, "", "", 0)
	assert.Equal(t, "No Jobs Found\n", buf.String())
}

func TestJobDetail(t *testing.T) {
	p, buf := newTestPrinter()
	job := &models.Job{
		ID: "j1", Title: "Go Engineer", Description: "<p>Build <b>APIs</b></p><ul><li>gRPC</li></ul>",
		Requirement: "Go, SQL", Position: 2, JobType: "Full-time",
	}

	p.JobDetail(job, false)
	out := buf.String()
	assert.Contains(t, out, "Go Engineer")
	assert.Contains(t, out, "Build APIs gRPC")
	assert.Contains(t, out, "Go, SQL")
	assert.Contains(t, out, "jobboard apply j1")

	buf.Reset()
	p.JobDetail(job, true)
	assert.Contains(t, buf.String(), "Already applied")
}

func TestNotificationsRespectsLimit(t *testing.T) {
	p, buf := newTestPrinter()
	items := make([]models.Notification, 12)
	for i := range items {
		items[i] = models.Notification{ID: "n" + string(rune('a'+i)), Title: "Update", CreatedAt: fixedNow.Add(-time.Hour)}
	}

	p.Notifications(items, 12, 10)

	out := buf.String()
	assert.Contains(t, out, "(12 unread)")
	assert.Equal(t, 10, strings.Count(out, "Update"))
	assert.Contains(t, out, "1 hour ago")
}

func TestNotificationsEmpty(t *testing.T) {
	p, buf := newTestPrinter()
	p.Notifications(nil, 0, 10)
	assert.Contains(t, buf.String(), "No notifications")
}

func TestAppliedJobs(t *testing.T) {
	p, buf := newTestPrinter()
	p.AppliedJobs([]models.Application{{
		ID:     "a1",
		Status: models.StatusAccepted,
		Job: models.RefTo(models.Job{
			ID: "j1", Title: "Data Analyst",
			Company: models.RefTo(models.Company{ID: "c1", Name: "Initech"}),
		}),
		CreatedAt: fixedNow,
	}})
	out := buf.String()
	assert.Contains(t, out, "Data Analyst")
	assert.Contains(t, out, "Initech")
	assert.Contains(t, out, "ACCEPTED")
	assert.Contains(t, out, "2026-03-10")
}

func TestProfileBanner(t *testing.T) {
	p, buf := newTestPrinter()
	p.ProfileBanner(&models.User{FullName: "Zara", Email: "z@example.com"})
	assert.Contains(t, buf.String(), "Profile 29% Complete")

	buf.Reset()
	p.ProfileBanner(&models.User{
		FullName: "Zara", Email: "z@example.com", PhoneNumber: "03001234567",
		Profile: models.Profile{Bio: "hi", Skills: []string{"go"}, Resume: "r", ProfilePhoto: "p"},
	})
	assert.Empty(t, buf.String())
}

func TestAdminStats(t *testing.T) {
	p, buf := newTestPrinter()
	p.AdminStats(&models.AdminStats{TotalUsers: 1234, TotalJobs: 56})
	assert.Contains(t, buf.String(), "1,234")
	assert.Contains(t, buf.String(), "56")
}

func TestFormatURL(t *testing.T) {
	assert.Equal(t, "https://x.test/cv.pdf", FormatURL("https://x.test/cv.pdf", "cv.pdf", false))
	assert.Equal(t, "\033]8;;https://x.test/cv.pdf\acv.pdf\033]8;;\a", FormatURL("https://x.test/cv.pdf", "cv.pdf", true))
}

func TestColorizeSalaryPlain(t *testing.T) {
	assert.Equal(t, "Not specified", ColorizeSalary(models.Job{}))
	assert.Equal(t, "Rs 75,000", ColorizeSalary(models.Job{Salary: models.Salary{Amount: models.NewNumber(75000)}}))
}

func TestToaster(t *testing.T) {
	var buf bytes.Buffer
	toast := NewToaster(&buf)
	toast.Success("Applied successfully")
	toast.Error("Failed to apply")
	assert.Contains(t, buf.String(), "Applied successfully")
	assert.Contains(t, buf.String(), "Failed to apply")
}
