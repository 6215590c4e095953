package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/store"
)

const newCompanyOption = "+ Register a new company"

func runRecruiter(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireRole(models.RoleRecruiter); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"myjobs"}
	}

	switch args[0] {
	case "myjobs":
		jobs, err := a.api.MyJobs(ctx)
		if err != nil {
			return a.fail(err, "Failed to load your jobs")
		}
		a.store.Dispatch(store.SetMyJobs{Jobs: jobs})
		a.printer.MyJobs(a.store.State().Jobs.MyJobs)
		return nil

	case "post":
		in, err := a.jobForm(ctx, nil)
		if err != nil {
			return err
		}
		job, msg, err := a.api.PostJob(ctx, in)
		if err != nil {
			return a.fail(err, "Failed to post job")
		}
		a.toast.Success(orDefault(msg, "Job posted successfully"))
		a.printer.JobDetail(job, false)
		return nil

	case "edit":
		if len(args) != 2 {
			return errors.New("usage: jobboard recruiter edit <job id>")
		}
		current, err := a.api.Job(ctx, args[1])
		if err != nil {
			return a.fail(err, "Failed to load job")
		}
		in, err := a.jobForm(ctx, current)
		if err != nil {
			return err
		}
		job, msg, err := a.api.UpdateJob(ctx, args[1], in)
		if err != nil {
			return a.fail(err, "Failed to update job")
		}
		a.store.Dispatch(store.SetSingleJob{Job: job})
		a.toast.Success(orDefault(msg, "Job updated successfully"))
		a.printer.JobDetail(job, false)
		return nil

	case "applicants":
		if len(args) != 2 {
			return errors.New("usage: jobboard recruiter applicants <job id>")
		}
		job, err := a.api.Applicants(ctx, args[1])
		if err != nil {
			return a.fail(err, "Failed to load applicants")
		}
		a.store.Dispatch(store.SetApplicants{Job: job})
		fmt.Fprintf(a.out, "Applicants %d\n", len(job.Applications))
		a.printer.Applicants(a.store.State().Applications.Applicants)
		return nil

	case "status":
		if len(args) != 3 {
			return errors.New("usage: jobboard recruiter status <application id> accepted|rejected")
		}
		status := models.ApplicationStatus(args[2])
		if status != models.StatusAccepted && status != models.StatusRejected {
			return fmt.Errorf("status must be %s or %s", models.StatusAccepted, models.StatusRejected)
		}
		msg, err := a.api.UpdateApplicationStatus(ctx, args[1], status)
		if err != nil {
			return a.fail(err, "Failed to update status")
		}
		a.store.Dispatch(store.SetApplicationStatusLocal{ID: args[1], Status: status})
		a.toast.Success(orDefault(msg, "Status updated successfully"))
		return nil
	}
	return fmt.Errorf("unknown recruiter command %q", args[0])
}

// jobForm prompts for a posting, prefilled from current when editing
func (a *app) jobForm(ctx context.Context, current *models.Job) (client.JobInput, error) {
	var in client.JobInput
	if current != nil {
		in = client.JobInput{
			Title:       current.Title,
			Description: current.Description,
			Requirement: current.Requirement.String(),
			Location:    current.Location,
			JobType:     current.JobType,
			Position:    current.Position,
			SalaryMin:   current.SalaryMin.Value,
			SalaryMax:   current.SalaryMax.Value,
			Company:     current.Company.ID,
		}
		in.Experience, _ = strconv.Atoi(current.Experience.String())
	}

	text := []struct {
		label string
		dst   *string
	}{
		{"Title", &in.Title},
		{"Description", &in.Description},
		{"Requirements", &in.Requirement},
		{"Location", &in.Location},
		{"Job type", &in.JobType},
	}
	for _, f := range text {
		v, err := promptDefault(f.label, *f.dst)
		if err != nil {
			return in, err
		}
		*f.dst = v
	}

	var err error
	if in.Experience, err = promptInt("Experience (years)", in.Experience); err != nil {
		return in, err
	}
	if in.Position, err = promptInt("Open positions", max(in.Position, 1)); err != nil {
		return in, err
	}
	minSalary, err := promptInt("Minimum salary", int(in.SalaryMin))
	if err != nil {
		return in, err
	}
	maxSalary, err := promptInt("Maximum salary", int(in.SalaryMax))
	if err != nil {
		return in, err
	}
	in.SalaryMin, in.SalaryMax = float64(minSalary), float64(maxSalary)

	if in.Company, err = a.pickCompany(ctx, in.Company); err != nil {
		return in, err
	}
	if err := in.Validate(); err != nil {
		return in, a.fail(err, "Please fill all required fields")
	}
	return in, nil
}

// pickCompany lets the recruiter choose a company or register a new one
func (a *app) pickCompany(ctx context.Context, currentID string) (string, error) {
	companies, err := a.api.Companies(ctx)
	if err != nil {
		return "", a.fail(err, "Failed to load companies")
	}
	a.store.Dispatch(store.SetCompanies{Companies: companies})

	options := []string{}
	ids := map[string]string{}
	for _, c := range a.store.State().Companies.Companies {
		label := c.Name
		if c.ID == currentID {
			label += " (current)"
		}
		options = append(options, label)
		ids[label] = c.ID
	}
	options = append(options, newCompanyOption)

	choice, err := choose("Company", options...)
	if err != nil {
		return "", err
	}
	if choice != newCompanyOption {
		return ids[choice], nil
	}

	name, err := prompt("Company name")
	if err != nil {
		return "", err
	}
	company, err := a.registerCompany(ctx, name)
	if err != nil {
		return "", err
	}
	return company.ID, nil
}

func (a *app) registerCompany(ctx context.Context, name string) (*models.Company, error) {
	if name == "" {
		return nil, errors.New("company name is required")
	}
	company, err := a.api.RegisterCompany(ctx, name)
	if err != nil {
		return nil, a.fail(err, "Failed to register company")
	}
	a.store.Dispatch(store.SetSingleCompany{Company: company})
	a.toast.Success("Company registered")
	return company, nil
}

func runCompanies(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireRole(models.RoleRecruiter, models.RoleAdmin); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		companies, err := a.api.Companies(ctx)
		if err != nil {
			return a.fail(err, "Failed to load companies")
		}
		a.store.Dispatch(store.SetCompanies{Companies: companies})
		a.printer.Companies(a.store.State().Companies.Companies)
		return nil
	case "register":
		if len(args) != 2 {
			return errors.New("usage: jobboard companies register <name>")
		}
		company, err := a.registerCompany(ctx, args[1])
		if err != nil {
			return err
		}
		a.printer.Companies([]models.Company{*company})
		return nil
	}
	return fmt.Errorf("unknown companies command %q", sub)
}

func promptInt(label string, def int) (int, error) {
	s, err := promptDefault(label, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", label)
	}
	return n, nil
}
