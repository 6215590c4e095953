package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/url"

	"github.com/fr4nk3nst1ner/jobboard/internal/apply"
	"github.com/fr4nk3nst1ner/jobboard/internal/browse"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/store"
	"github.com/pterm/pterm"
)

// browseView is the job list with its filters, selection and detail pane
type browseView struct {
	a         *app
	filters   browse.Filters
	selection *browse.Selection
	detail    *browse.Detail
	pager     *browse.Pager
	filtered  []models.Job
}

func newBrowseView(a *app, history browse.History, filters browse.Filters) *browseView {
	v := &browseView{
		a:         a,
		filters:   filters,
		selection: browse.NewSelection(history),
		detail:    browse.NewDetail(a.api),
		pager:     browse.NewPagerStep(0, a.cfg.Browse.PageSize),
	}
	v.refilter()
	return v
}

func (v *browseView) refilter() {
	v.filtered = browse.Apply(v.a.store.State().Jobs.AllJobs, v.filters)
	v.pager.Reset(len(v.filtered))
}

func (v *browseView) highlight() string {
	if q := v.filters[browse.GroupTitle]; q != "" {
		return q
	}
	return v.filters[browse.GroupQuery]
}

func (v *browseView) render(ctx context.Context) {
	v.selection.Sync(v.filtered)
	v.a.printer.JobList(browse.Window(v.filtered, v.pager), v.selection.ID(), v.highlight(), len(v.filtered))

	id := v.selection.ID()
	if id == "" {
		return
	}
	if v.detail.View().ID != id {
		if _, err := v.detail.Load(ctx, id); err != nil && !errors.Is(err, browse.ErrSuperseded) {
			v.a.logger.Debug("job detail failed", v.a.logger.Args("id", id, "error", err))
		}
	}
	fmt.Fprintln(v.a.out)
	view := v.detail.View()
	if view.Error != "" {
		v.a.toast.Error(view.Error)
		return
	}
	v.a.printer.JobDetail(view.Job, browse.IsApplied(view.Job, v.a.user()))
}

func (v *browseView) loop(ctx context.Context) error {
	for {
		v.render(ctx)

		options := []string{}
		if v.pager.More() {
			options = append(options, "Show more")
		}
		options = append(options, "Select job", "Filter", "Clear filters", "Apply", "Quick apply", "Quit")
		choice, err := choose("What next?", options...)
		if err != nil {
			return err
		}

		switch choice {
		case "Show more":
			v.pager.Advance()
		case "Select job":
			if err := v.pick(); err != nil {
				return err
			}
		case "Filter":
			if err := v.filter(); err != nil {
				return err
			}
		case "Clear filters":
			v.filters = browse.Filters{}
			v.refilter()
		case "Apply":
			id := v.selection.ID()
			if id == "" {
				continue
			}
			_ = runApplyFlow(ctx, v.a, id, apply.Form{}, func() { v.detail.Refetch(ctx) })
		case "Quick apply":
			_ = quickApply(ctx, v.a, v.detail)
		case "Quit":
			return nil
		}
	}
}

func (v *browseView) pick() error {
	window := browse.Window(v.filtered, v.pager)
	if len(window) == 0 {
		return nil
	}
	labels := make([]string, len(window))
	ids := make(map[string]string, len(window))
	for i, job := range window {
		labels[i] = fmt.Sprintf("%s (%s)", job.Title, job.ID)
		ids[labels[i]] = job.ID
	}
	choice, err := choose("Select a job", labels...)
	if err != nil {
		return err
	}
	v.selection.Select(ids[choice])
	return nil
}

func (v *browseView) filter() error {
	groups := make([]string, 0, len(browse.Catalog)+2)
	for _, opt := range browse.Catalog {
		label := string(opt.Group)
		if cur := v.filters[opt.Group]; cur != "" {
			label += " (" + cur + ")"
		}
		groups = append(groups, label)
	}
	groups = append(groups, "Title contains", "Search")

	choice, err := choose("Filter by", groups...)
	if err != nil {
		return err
	}

	switch choice {
	case "Title contains":
		text, err := prompt("Title contains (empty clears)")
		if err != nil {
			return err
		}
		v.filters = v.filters.With(browse.GroupTitle, text)
	case "Search":
		text, err := prompt("Search (empty clears)")
		if err != nil {
			return err
		}
		v.filters = v.filters.With(browse.GroupQuery, text)
	default:
		for i, opt := range browse.Catalog {
			if groups[i] != choice {
				continue
			}
			value, err := choose(string(opt.Group)+" (choosing the current value clears it)", opt.Values...)
			if err != nil {
				return err
			}
			v.filters = v.filters.Toggle(opt.Group, value)
		}
	}
	v.refilter()
	return nil
}

func runJobs(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	keyword := fs.String("keyword", "", "Keyword passed to the server search")
	location := fs.String("location", "", "Only jobs in this location")
	industry := fs.String("industry", "", "Only jobs in this industry")
	salary := fs.String("salary", "", "Salary text to match, e.g. 50k-100k")
	title := fs.String("title", "", "Title must contain this text")
	search := fs.String("search", "", "Fuzzy search over titles")
	jobID := fs.String("job", "", "Job to show in the detail pane")
	interactive := fs.Bool("i", false, "Browse interactively")
	if err := fs.Parse(args); err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start("Loading jobs...")
	jobs, err := a.api.Jobs(ctx, *keyword)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return a.fail(err, "Failed to load jobs")
	}
	a.store.Dispatch(store.SetAllJobs{Jobs: jobs}, store.SetSearchQuery{Query: *keyword})

	filters := browse.Filters{}.
		With(browse.GroupLocation, *location).
		With(browse.GroupIndustry, *industry).
		With(browse.GroupSalary, *salary).
		With(browse.GroupTitle, *title).
		With(browse.GroupQuery, *search)

	query := url.Values{}
	if *jobID != "" {
		query.Set(browse.JobIDParam, *jobID)
	}
	view := newBrowseView(a, browse.NewMemoryHistory(query), filters)
	if !*interactive {
		view.render(ctx)
		return nil
	}
	return view.loop(ctx)
}

func runJob(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: jobboard job <id>")
	}
	detail := browse.NewDetail(a.api)
	job, err := detail.Load(ctx, args[0])
	if err != nil {
		return a.fail(err, detail.View().Error)
	}
	a.store.Dispatch(store.SetSingleJob{Job: job})
	a.printer.JobDetail(job, browse.IsApplied(job, a.user()))
	return nil
}

func runApply(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	name := fs.String("name", "", "Applicant name")
	location := fs.String("location", "", "Your location")
	salary := fs.String("salary", "", "Expected salary")
	resume := fs.String("resume", "", "Path to your resume")
	direct := fs.Bool("direct", false, "Apply with your saved profile, no form")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: jobboard apply [flags] <job id>")
	}
	jobID := fs.Arg(0)

	detail := browse.NewDetail(a.api)
	if _, err := detail.Load(ctx, jobID); err != nil {
		return a.fail(err, detail.View().Error)
	}

	if *direct {
		return quickApply(ctx, a, detail)
	}

	upload, closeUpload, err := openUpload(*resume)
	if err != nil {
		return err
	}
	defer closeUpload()

	form := apply.Form{ApplicantName: *name, Location: *location, ExpectedSalary: *salary, Resume: upload}
	return runApplyFlow(ctx, a, jobID, form, func() {
		detail.Refetch(ctx)
		view := detail.View()
		a.printer.JobDetail(view.Job, browse.IsApplied(view.Job, a.user()))
	})
}

// quickApply applies without a form; a 401 sends the user to sign in
func quickApply(ctx context.Context, a *app, detail *browse.Detail) error {
	msg, err := detail.ApplyDirect(ctx)
	var loginErr *browse.LoginRequiredError
	if errors.As(err, &loginErr) {
		a.toast.Error("Please login to apply")
		fmt.Fprintf(a.out, "Sign in with `jobboard login`, then return to %s\n", loginErr.ReturnPath)
		return shown(err)
	}
	if err != nil {
		return a.fail(err, "Failed to apply")
	}
	a.toast.Success(orDefault(msg, "Applied successfully"))
	view := detail.View()
	a.printer.JobDetail(view.Job, browse.IsApplied(view.Job, a.user()))
	return nil
}

// runApplyFlow fills in what the form is missing, submits it and walks the
// user through signing in when needed
func runApplyFlow(ctx context.Context, a *app, jobID string, form apply.Form, onApplied func()) error {
	flow := apply.New(jobID, apply.Deps{
		API:       a.api,
		Store:     a.store,
		Session:   a.session,
		Toaster:   a.toast,
		Logger:    a.logger,
		OnApplied: onApplied,
	})
	if err := flow.Open(); err != nil {
		return err
	}

	for {
		if err := completeForm(&form, flow.Form().ApplicantName); err != nil {
			return err
		}
		err := flow.Submit(ctx, form)

		switch flow.State() {
		case apply.Done:
			return nil
		case apply.AuthRequired:
			return shown(signInAndResume(ctx, flow))
		}

		if errors.Is(err, apply.ErrMissingFields) {
			continue
		}
		retry, cerr := pterm.DefaultInteractiveConfirm.Show("Try again?")
		if cerr != nil || !retry {
			flow.Close()
			return shown(err)
		}
		if form.Resume != nil {
			// the previous attempt consumed the file
			return errors.New("resume was already uploaded once, run apply again to retry")
		}
	}
}

func completeForm(form *apply.Form, defaultName string) error {
	var err error
	if form.ApplicantName == "" {
		if form.ApplicantName, err = promptDefault("Applicant name", defaultName); err != nil {
			return err
		}
	}
	if form.Location == "" {
		if form.Location, err = prompt("Location"); err != nil {
			return err
		}
	}
	return nil
}

func signInAndResume(ctx context.Context, flow *apply.Flow) error {
	var lastErr error
	for flow.State() == apply.AuthRequired {
		mode, err := choose("Sign in to finish applying", "Login", "Signup", "Cancel")
		if err != nil {
			return err
		}
		switch mode {
		case "Cancel":
			flow.Close()
			return errors.New("application cancelled")
		case "Signup":
			if err := flow.SwitchMode(apply.ModeSignup); err != nil {
				return err
			}
			name, err := prompt("Full name")
			if err != nil {
				return err
			}
			email, err := prompt("Email")
			if err != nil {
				return err
			}
			password, err := promptSecret("Password")
			if err != nil {
				return err
			}
			lastErr = flow.Signup(ctx, name, email, password)
		default:
			if err := flow.SwitchMode(apply.ModeLogin); err != nil {
				return err
			}
			email, err := prompt("Email")
			if err != nil {
				return err
			}
			password, err := promptSecret("Password")
			if err != nil {
				return err
			}
			lastErr = flow.Login(ctx, email, password)
		}
	}
	if flow.State() == apply.Done {
		return nil
	}
	return lastErr
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
