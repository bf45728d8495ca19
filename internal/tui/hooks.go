package tui

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/internal/session"
	"github.com/naveenspark/liftlog/pkg/client"
	"github.com/naveenspark/liftlog/pkg/domain"
)

// deps is shared by every view. queries is re-scoped whenever the signed-in
// user changes so cached reads never cross accounts.
type deps struct {
	api      *client.Client
	session  *session.Context
	base     *query.Client
	queries  *query.Client
	validate *form.Validator
	log      *slog.Logger
	now      func() time.Time
	rollback bool
	webURL   string
}

func (d *deps) user() *domain.User { return d.session.User() }

func (d *deps) rescope() {
	if u := d.user(); u != nil {
		d.queries = d.base.Scoped(strconv.Itoa(u.ID))
		return
	}
	d.queries = d.base.Scoped("anonymous")
}

// result is embedded in every message that carries an API outcome so the App
// can notice an expired session in one place.
type result struct {
	err error
}

func (r result) failure() error { return r.err }

type failer interface {
	failure() error
}

// fetch runs a cached read off the UI goroutine and wraps its outcome.
func fetch[T any](qc *query.Client, key query.Key, fn func(context.Context) (T, error), wrap func(T, error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, err := query.Fetch(context.Background(), qc, key, fn)
		return wrap(v, err)
	}
}

// mutate runs a write once, invalidating keys on success.
func mutate[T any](qc *query.Client, fn func(context.Context) (T, error), invalidates []query.Key, wrap func(T, error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		v, err := query.Mutate(context.Background(), qc, fn, query.Mutation[T]{Invalidates: invalidates})
		return wrap(v, err)
	}
}

// none adapts an error-only call to mutate.
func none(fn func(context.Context) error) func(context.Context) (struct{}, error) {
	return func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}
}

type copyResultMsg struct {
	err error
}
