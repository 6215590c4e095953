package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
)

func runAdmin(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireRole(models.RoleAdmin); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"stats"}
	}

	switch args[0] {
	case "stats":
		stats, err := a.api.AdminStats(ctx)
		if err != nil {
			return a.fail(err, "Failed to load stats")
		}
		a.printer.AdminStats(stats)
		return nil

	case "users":
		fs := flag.NewFlagSet("admin users", flag.ContinueOnError)
		q := fs.String("q", "", "Search name or email")
		role := fs.String("role", "", "student, recruiter or admin")
		status := fs.String("status", "", "Recruiter status: pending, verified, suspended or rejected")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		users, err := a.api.AdminUsers(ctx, client.UserQuery{
			Q:               *q,
			Role:            models.Role(*role),
			RecruiterStatus: models.RecruiterStatus(*status),
		})
		if err != nil {
			return a.fail(err, "Failed to load users")
		}
		a.printer.Users(users)
		return nil

	case "recruiter-status":
		if len(args) != 3 {
			return errors.New("usage: jobboard admin recruiter-status <user id> pending|verified|suspended|rejected")
		}
		status := models.RecruiterStatus(args[2])
		switch status {
		case models.RecruiterPending, models.RecruiterVerified, models.RecruiterSuspended, models.RecruiterRejected:
		default:
			return fmt.Errorf("unknown recruiter status %q", args[2])
		}
		msg, err := a.api.UpdateRecruiterStatus(ctx, args[1], status)
		if err != nil {
			return a.fail(err, "Failed to update recruiter status")
		}
		a.toast.Success(orDefault(msg, "Recruiter status updated"))
		return nil
	}
	return fmt.Errorf("unknown admin command %q", args[0])
}
