package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/notify"
	"github.com/fr4nk3nst1ner/jobboard/internal/relay"
	"github.com/fr4nk3nst1ner/jobboard/internal/store"
)

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "Account email")
	role := fs.String("role", "", "Sign in as student, recruiter or admin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = prompt("Email"); err != nil {
			return err
		}
	}
	password, err := promptSecret("Password")
	if err != nil {
		return err
	}

	req := client.LoginRequest{Email: *email, Password: password, Role: models.Role(*role)}
	if err := req.Validate(); err != nil {
		return a.fail(err, "Invalid login details")
	}
	res, err := a.api.Login(ctx, req)
	if err != nil {
		return a.fail(err, "Login failed")
	}
	a.signIn(res)
	a.toast.Success(orDefault(res.Message, "Login successful"))
	a.printer.ProfileBanner(res.User)
	return nil
}

func runSignup(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	role := fs.String("role", string(models.RoleStudent), "Account type: student or recruiter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var req client.RegisterRequest
	req.Role = models.Role(*role)
	var err error
	if req.FullName, err = prompt("Full name"); err != nil {
		return err
	}
	if req.Email, err = prompt("Email"); err != nil {
		return err
	}
	if req.PhoneNumber, err = prompt("Phone number"); err != nil {
		return err
	}
	if req.Password, err = promptSecret("Password"); err != nil {
		return err
	}
	if err := req.ValidateFull(); err != nil {
		return a.fail(err, "Invalid signup details")
	}

	res, err := a.api.Register(ctx, req)
	if err != nil {
		return a.fail(err, "Signup failed")
	}
	a.signIn(res)
	a.toast.Success(orDefault(res.Message, "Account created"))
	if res.User != nil && res.User.Role == models.RoleRecruiter && res.User.RecruiterStatus == models.RecruiterPending {
		fmt.Fprintln(a.out, "Your recruiter account is pending admin verification.")
	}
	return nil
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	msg, err := a.api.Logout(ctx)
	if clearErr := a.session.Clear(); clearErr != nil {
		a.logger.Warn("could not remove session file", a.logger.Args("error", clearErr))
	}
	a.store.Dispatch(store.SetUser{User: nil})
	if err != nil {
		a.logger.Warn("server logout failed", a.logger.Args("error", err))
	}
	a.toast.Success(orDefault(msg, "Logged out"))
	return nil
}

func runProfile(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	update := fs.Bool("update", false, "Edit the profile")
	file := fs.String("file", "", "Resume (pdf) or profile photo (image) to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := a.requireRole()
	if err != nil {
		return err
	}
	if !*update {
		a.printer.Profile(u)
		if exp, ok := a.session.ExpiresAt(); ok {
			fmt.Fprintf(a.out, "Session expires %s\n", humanize.RelTime(exp, time.Now(), "ago", "from now"))
		}
		return nil
	}

	p := client.ProfileUpdate{}
	if p.FullName, err = promptDefault("Full name", u.FullName); err != nil {
		return err
	}
	if p.Email, err = promptDefault("Email", u.Email); err != nil {
		return err
	}
	if p.PhoneNumber, err = promptDefault("Phone number", u.PhoneNumber.String()); err != nil {
		return err
	}
	if p.Bio, err = promptDefault("Bio", u.Profile.Bio); err != nil {
		return err
	}
	if p.Skills, err = promptDefault("Skills (comma separated)", strings.Join(u.Profile.Skills, ",")); err != nil {
		return err
	}

	upload, closeUpload, err := openUpload(*file)
	if err != nil {
		return err
	}
	defer closeUpload()
	p.File = upload

	user, msg, err := a.api.UpdateProfile(ctx, p)
	if err != nil {
		return a.fail(err, "Failed to update profile")
	}
	if err := a.session.SaveUser(user); err != nil {
		a.logger.Warn("could not persist profile", a.logger.Args("error", err))
	}
	a.store.Dispatch(store.SetUser{User: user})
	a.toast.Success(orDefault(msg, "Profile updated"))
	a.printer.Profile(user)
	return nil
}

func runApplied(ctx context.Context, a *app, _ []string) error {
	if _, err := a.requireRole(models.RoleStudent); err != nil {
		return err
	}
	apps, err := a.api.AppliedJobs(ctx)
	if err != nil {
		return a.fail(err, "Failed to load applications")
	}
	a.store.Dispatch(store.SetAppliedJobs{Applications: apps})
	a.printer.AppliedJobs(a.store.State().Jobs.AppliedJobs)
	return nil
}

func runNotifications(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireRole(); err != nil {
		return err
	}
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	syncer := notify.New(a.api, a.store, notify.Options{
		Schedule: notify.Interval(a.cfg.Notifications.PollInterval),
		Logger:   a.logger,
	})
	show := func() {
		n := a.store.State().Notifications
		a.printer.Notifications(n.Items, n.UnreadCount, a.cfg.Display.MaxNotify)
	}

	switch sub {
	case "list":
		if err := syncer.OpenMenu(ctx); err != nil {
			return a.fail(err, "Failed to load notifications")
		}
		show()
		return nil

	case "watch":
		forward, err := a.forwarder(ctx)
		if err != nil {
			return err
		}
		syncer.OnArrival = func(items []models.Notification) {
			a.printer.Notifications(items, a.store.State().Notifications.UnreadCount, a.cfg.Display.MaxNotify)
			if forward != nil {
				forward(items)
			}
		}
		fmt.Fprintf(a.out, "Watching notifications every %s, Ctrl+C to stop\n", a.cfg.Notifications.PollInterval)
		if err := syncer.Run(ctx); err != nil {
			return err
		}
		show()
		return nil

	case "read":
		if len(args) != 1 {
			return errors.New("usage: jobboard notifications read <id>")
		}
		if err := syncer.Fetch(ctx); err != nil {
			return a.fail(err, "Failed to load notifications")
		}
		if err := syncer.MarkRead(ctx, args[0]); err != nil {
			return a.fail(err, "Failed to mark notification as read")
		}
		show()
		return nil

	case "read-all":
		if err := syncer.Fetch(ctx); err != nil {
			return a.fail(err, "Failed to load notifications")
		}
		if err := syncer.MarkAllRead(ctx); err != nil {
			return a.fail(err, "Failed to mark notifications as read")
		}
		a.toast.Success("All notifications marked as read")
		show()
		return nil

	case "test-relay":
		if !a.cfg.TelegramReady() {
			return errors.New("telegram is not configured, enable it in config.yaml and set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
		}
		tg, err := a.telegram()
		if err != nil {
			return err
		}
		if err := tg.Test(ctx); err != nil {
			return a.fail(err, "Telegram test failed")
		}
		a.toast.Success("Telegram test message sent")
		return nil
	}
	return fmt.Errorf("unknown notifications command %q", sub)
}

// forwarder returns the Telegram relay callback when it is configured, nil otherwise
func (a *app) forwarder(ctx context.Context) (func([]models.Notification), error) {
	if !a.cfg.TelegramReady() {
		return nil, nil
	}
	tg, err := a.telegram()
	if err != nil {
		return nil, err
	}
	return tg.Forward(ctx), nil
}

func (a *app) telegram() (*relay.Telegram, error) {
	return relay.NewTelegram(relay.Options{
		BotToken:   a.cfg.Telegram.BotToken,
		ChatID:     a.cfg.Telegram.ChatID,
		HTTPClient: client.CreateProxyHTTPClient(a.cfg.API.Proxy, a.cfg.API.Timeout),
		Logger:     a.logger,
	})
}
