package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/config"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/fr4nk3nst1ner/jobboard/internal/session"
	"github.com/fr4nk3nst1ner/jobboard/internal/store"
	"github.com/fr4nk3nst1ner/jobboard/internal/ui"
	"github.com/pterm/pterm"
)

// app wires the shared collaborators every command uses
type app struct {
	cfg     *config.Config
	api     *client.API
	session *session.FileStore
	store   *store.Store
	logger  *pterm.Logger
	printer *ui.Printer
	toast   *ui.Toaster
	out     io.Writer
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	logger := ui.NewLogger(os.Stderr, cfg.Debug)

	path, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(path)
	if err != nil {
		return nil, err
	}
	if cfg.API.Token != "" {
		sess.Override(cfg.API.Token)
	}

	api, err := client.New(client.Options{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: client.CreateProxyHTTPClient(cfg.API.Proxy, cfg.API.Timeout),
		Tokens:     sess,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	api.ProgressOutput = os.Stderr

	if cfg.Display.NoColor {
		pterm.DisableColor()
	}

	st := store.New()
	if user := sess.User(); user != nil {
		st.Dispatch(store.SetUser{User: user})
	}

	printer := ui.NewPrinter(out)
	printer.Hyperlinks = !cfg.Display.NoColor

	return &app{
		cfg:     cfg,
		api:     api,
		session: sess,
		store:   st,
		logger:  logger,
		printer: printer,
		toast:   ui.NewToaster(out),
		out:     out,
	}, nil
}

// user returns the signed-in user or nil
func (a *app) user() *models.User {
	return a.store.State().Auth.User
}

// requireRole fails unless someone with one of roles is signed in
func (a *app) requireRole(roles ...models.Role) (*models.User, error) {
	u := a.user()
	if u == nil {
		return nil, errors.New("not signed in, run: jobboard login")
	}
	if len(roles) == 0 {
		return u, nil
	}
	for _, r := range roles {
		if u.Role == r {
			return u, nil
		}
	}
	return nil, fmt.Errorf("this command is for %s accounts", joinRoles(roles))
}

func joinRoles(roles []models.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}

// signIn stores a fresh session in the file store and the state container
func (a *app) signIn(res *client.AuthResponse) {
	if err := a.session.Save(res.Token, res.User); err != nil {
		a.logger.Warn("could not persist session", a.logger.Args("error", err))
	}
	a.store.Dispatch(store.SetUser{User: res.User})
}

// shownError marks an error the user has already seen as a toast
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

func shown(err error) error {
	if err == nil {
		return nil
	}
	return &shownError{err: err}
}

// fail shows err as a toast using fallback when the server sent no message
func (a *app) fail(err error, fallback string) error {
	a.toast.Error(client.Message(err, fallback))
	return shown(err)
}

// report toasts err unless that already happened
func (a *app) report(err error) {
	var s *shownError
	if errors.As(err, &s) {
		return
	}
	a.toast.Error(err.Error())
}

func prompt(label string) (string, error) {
	s, err := pterm.DefaultInteractiveTextInput.Show(label)
	return strings.TrimSpace(s), err
}

func promptDefault(label, def string) (string, error) {
	if def != "" {
		label = fmt.Sprintf("%s [%s]", label, def)
	}
	s, err := prompt(label)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

func promptSecret(label string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show(label)
}

func choose(label string, options ...string) (string, error) {
	return pterm.DefaultInteractiveSelect.WithOptions(options).Show(label)
}

// openUpload opens path for a multipart upload. An empty path is no upload.
// The returned func closes the file.
func openUpload(path string) (*client.Upload, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &client.Upload{FileName: f.Name(), Content: f}, func() { f.Close() }, nil
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}
