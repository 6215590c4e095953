package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/utils"
	"github.com/pterm/pterm"
)

// Printer renders entities to a terminal
type Printer struct {
	w   io.Writer
	now func() time.Time

	// Hyperlinks turns resume and website URLs into OSC 8 links
	Hyperlinks bool
}

// NewPrinter writes to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, now: time.Now}
}

func (p *Printer) table(data pterm.TableData) {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		fmt.Fprintln(p.w, err)
		return
	}
	fmt.Fprintln(p.w, out)
}

func (p *Printer) heading(text string) {
	fmt.Fprintln(p.w, pterm.Bold.Sprint(text))
	fmt.Fprintln(p.w, strings.Repeat("-", 80))
}

func highlight(s string) string { return pterm.Yellow(s) }

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func companyName(job models.Job) string {
	if job.Company.Value != nil {
		return job.Company.Value.Name
	}
	return ""
}

func (p *Printer) date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

// JobList prints one row per job. The selected job is marked and matches
// of query in titles are highlighted.
func (p *Printer) JobList(jobs []models.Job, selectedID, query string, total int) {
	if len(jobs) == 0 {
		fmt.Fprintln(p.w, "No Jobs Found")
		return
	}

	now := p.now()
	data := pterm.TableData{{"", "Title", "Company", "Location", "Salary", "Posted", "ID"}}
	for _, job := range jobs {
		marker := ""
		if job.ID == selectedID {
			marker = pterm.Cyan("▶")
		}
		title := utils.HighlightMatches(utils.TruncateString(job.Title, 40), query, highlight)
		posted := utils.DaysAgoLabel(job.CreatedAt, now)
		if utils.IsNewJob(job.CreatedAt, now) {
			posted += " " + pterm.Green("NEW")
		}
		data = append(data, []string{
			marker,
			title,
			orDash(utils.TruncateString(companyName(job), 24)),
			orDash(job.Location),
			ColorizeSalary(job),
			orDash(posted),
			pterm.Gray(job.ID),
		})
	}
	p.table(data)
	fmt.Fprintf(p.w, "Showing %d of %d jobs\n", len(jobs), total)
}

// JobDetail prints the full job. applied shows whether the viewer has applied.
func (p *Printer) JobDetail(job *models.Job, applied bool) {
	if job == nil {
		fmt.Fprintln(p.w, "Job not found")
		return
	}
	p.heading(job.Title)

	rows := [][2]string{
		{"Company", orDash(companyName(*job))},
		{"Location", orDash(job.Location)},
		{"Salary", ColorizeSalary(*job)},
		{"Job type", orDash(job.JobType)},
		{"Experience", orDash(job.Experience.String())},
		{"Positions", humanize.Comma(int64(job.Position))},
		{"Applicants", humanize.Comma(int64(len(job.Applications)))},
		{"Posted", orDash(utils.DaysAgoLabel(job.CreatedAt, p.now()))},
	}
	for _, r := range rows {
		fmt.Fprintf(p.w, "%-12s %s\n", r[0]+":", r[1])
	}

	if req := job.Requirement.String(); req != "" {
		fmt.Fprintf(p.w, "\n%s\n%s\n", pterm.Bold.Sprint("Requirements"), req)
	}
	if desc := utils.PlainText(job.Description); desc != "" {
		fmt.Fprintf(p.w, "\n%s\n%s\n", pterm.Bold.Sprint("Description"), desc)
	}

	fmt.Fprintln(p.w)
	if applied {
		fmt.Fprintln(p.w, pterm.Green("✔ Already applied"))
	} else {
		fmt.Fprintf(p.w, "Apply with: jobboard apply %s\n", job.ID)
	}
}

// Notifications prints at most limit notifications, newest first as sent
func (p *Printer) Notifications(items []models.Notification, unread, limit int) {
	fmt.Fprintf(p.w, "%s (%d unread)\n", pterm.Bold.Sprint("Notifications"), unread)
	if len(items) == 0 {
		fmt.Fprintln(p.w, "No notifications")
		return
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	now := p.now()
	for _, n := range items {
		dot := " "
		title := n.Title
		if !n.IsRead {
			dot = pterm.Cyan("●")
			title = pterm.Bold.Sprint(title)
		}
		when := ""
		if !n.CreatedAt.IsZero() {
			when = humanize.RelTime(n.CreatedAt, now, "ago", "from now")
		}
		fmt.Fprintf(p.w, "%s %s  %s\n", dot, title, pterm.Gray(n.ID))
		if n.Message != "" {
			fmt.Fprintf(p.w, "  %s\n", n.Message)
		}
		if when != "" {
			fmt.Fprintf(p.w, "  %s\n", pterm.Gray(when))
		}
	}
}

func statusColor(status models.ApplicationStatus) string {
	label := strings.ToUpper(string(status))
	switch status {
	case models.StatusAccepted:
		return pterm.Green(label)
	case models.StatusRejected:
		return pterm.Red(label)
	}
	return pterm.Gray(label)
}

// AppliedJobs prints the student's applications
func (p *Printer) AppliedJobs(apps []models.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(p.w, "You haven't applied any job yet.")
		return
	}
	data := pterm.TableData{{"Date", "Job Title", "Company", "Status"}}
	for _, app := range apps {
		title, company := "-", "-"
		if job := app.Job.Value; job != nil {
			title = orDash(job.Title)
			company = orDash(companyName(*job))
		}
		data = append(data, []string{p.date(app.CreatedAt), title, company, statusColor(app.Status)})
	}
	p.table(data)
}

// Applicants prints who applied to job
func (p *Printer) Applicants(job *models.Job) {
	if job == nil || len(job.Applications) == 0 {
		fmt.Fprintln(p.w, "No applicants yet.")
		return
	}
	data := pterm.TableData{{"Full Name", "Email", "Contact", "Resume", "Date", "Status", "Application"}}
	for _, app := range job.Applications {
		name, email, phone, resume := "-", "-", "-", "-"
		if u := app.Applicant.Value; u != nil {
			name, email, phone = orDash(u.FullName), orDash(u.Email), orDash(u.PhoneNumber.String())
			if u.Profile.Resume != "" {
				resume = FormatURL(u.Profile.Resume, orDash(u.Profile.ResumeOriginalName), p.Hyperlinks)
			}
		}
		data = append(data, []string{name, email, phone, resume, p.date(app.CreatedAt), statusColor(app.Status), pterm.Gray(app.ID)})
	}
	p.table(data)
}

// MyJobs prints the recruiter's postings
func (p *Printer) MyJobs(jobs []models.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(p.w, "No jobs posted yet.")
		return
	}
	data := pterm.TableData{{"Date", "Title", "Company", "Applicants", "ID"}}
	for _, job := range jobs {
		data = append(data, []string{
			p.date(job.CreatedAt),
			job.Title,
			orDash(companyName(job)),
			humanize.Comma(int64(len(job.Applications))),
			pterm.Gray(job.ID),
		})
	}
	p.table(data)
}

// Companies prints company reference data
func (p *Printer) Companies(companies []models.Company) {
	if len(companies) == 0 {
		fmt.Fprintln(p.w, "No companies registered.")
		return
	}
	data := pterm.TableData{{"Name", "Location", "Website", "ID"}}
	for _, c := range companies {
		data = append(data, []string{c.Name, orDash(c.Location), orDash(FormatURL(c.Website, "", p.Hyperlinks)), pterm.Gray(c.ID)})
	}
	p.table(data)
}

// AdminStats prints the platform overview
func (p *Printer) AdminStats(s *models.AdminStats) {
	data := pterm.TableData{
		{"Metric", "Count"},
		{"Total users", humanize.Comma(int64(s.TotalUsers))},
		{"Recruiters", humanize.Comma(int64(s.TotalRecruiters))},
		{"Students", humanize.Comma(int64(s.TotalStudents))},
		{"Verified recruiters", humanize.Comma(int64(s.VerifiedRecruiters))},
		{"Jobs", humanize.Comma(int64(s.TotalJobs))},
		{"Applications", humanize.Comma(int64(s.TotalApplications))},
	}
	p.table(data)
}

func recruiterStatusColor(s models.RecruiterStatus) string {
	switch s {
	case models.RecruiterVerified:
		return pterm.Green(string(s))
	case models.RecruiterSuspended, models.RecruiterRejected:
		return pterm.Red(string(s))
	case models.RecruiterPending:
		return pterm.Yellow(string(s))
	}
	return "-"
}

// Users prints the admin user listing
func (p *Printer) Users(users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(p.w, "No users found.")
		return
	}
	data := pterm.TableData{{"Name", "Email", "Role", "Recruiter status", "Joined", "ID"}}
	for _, u := range users {
		status := "-"
		if u.Role == models.RoleRecruiter {
			status = recruiterStatusColor(u.RecruiterStatus)
		}
		data = append(data, []string{u.FullName, u.Email, string(u.Role), status, p.date(u.CreatedAt), pterm.Gray(u.ID)})
	}
	p.table(data)
}

// Profile prints the signed-in user's profile
func (p *Printer) Profile(u *models.User) {
	if u == nil {
		fmt.Fprintln(p.w, "Not signed in")
		return
	}
	p.heading(u.FullName)
	skills := strings.Join(u.Profile.Skills, ", ")
	resume := orDash(u.Profile.ResumeOriginalName)
	if u.Profile.Resume != "" {
		resume = FormatURL(u.Profile.Resume, resume, p.Hyperlinks)
	}
	rows := [][2]string{
		{"Email", orDash(u.Email)},
		{"Phone", orDash(u.PhoneNumber.String())},
		{"Role", string(u.Role)},
		{"Bio", orDash(u.Profile.Bio)},
		{"Skills", orDash(skills)},
		{"Resume", resume},
	}
	for _, r := range rows {
		fmt.Fprintf(p.w, "%-8s %s\n", r[0]+":", r[1])
	}
	p.ProfileBanner(u)
}

// ProfileBanner nudges the user while the profile is incomplete
func (p *Printer) ProfileBanner(u *models.User) {
	completion := utils.ProfileCompletion(u)
	if u == nil || completion == 100 {
		return
	}
	fmt.Fprintln(p.w, pterm.Yellow(fmt.Sprintf("Profile %d%% Complete 🎉 Complete your profile to get the best job matches and recommendations.", completion)))
}

// Toaster prints short success and error messages
type Toaster struct {
	w io.Writer
}

// NewToaster writes toasts to w
func NewToaster(w io.Writer) *Toaster { return &Toaster{w: w} }

func (t *Toaster) Success(msg string) { fmt.Fprint(t.w, pterm.Success.Sprintln(msg)) }
func (t *Toaster) Error(msg string)   { fmt.Fprint(t.w, pterm.Error.Sprintln(msg)) }

// NewLogger builds the structured logger shared by all components
func NewLogger(w io.Writer, debug bool) *pterm.Logger {
	level := pterm.LogLevelWarn
	if debug {
		level = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithWriter(w).WithLevel(level)
}
