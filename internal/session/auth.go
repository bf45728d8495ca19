package session

import (
	"context"
	"log/slog"

	"github.com/naveenspark/liftlog/internal/logging"
	"github.com/naveenspark/liftlog/internal/workflow"
	"github.com/naveenspark/liftlog/pkg/client"
	"github.com/naveenspark/liftlog/pkg/domain"
)

// API is the part of the API client the auth flows need.
type API interface {
	RequestToken(ctx context.Context, email, password string) (*domain.Token, error)
	GetMeWithToken(ctx context.Context, token string) (*domain.User, error)
	Register(ctx context.Context, creds domain.Credentials) (*domain.User, error)
}

// MsgInvalidCredentials is shown for every login failure.
const MsgInvalidCredentials = "Invalid credentials"

// Step names of the register workflow.
const (
	StepRegister = "register"
	StepLogin    = "login"
)

// AuthError is a user-facing auth failure. Err keeps the cause for logs.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// AuthClient performs login, registration and logout against the API and
// the token store.
type AuthClient struct {
	api   API
	store Store
	log   *slog.Logger
}

func NewAuthClient(api API, store Store, log *slog.Logger) *AuthClient {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &AuthClient{api: api, store: store, log: log}
}

// Login exchanges credentials for a token, fetches the user and stores both.
// Any failure is reported as MsgInvalidCredentials.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*domain.User, error) {
	tok, err := a.api.RequestToken(ctx, email, password)
	if err != nil {
		return nil, a.loginFailed("request token", err)
	}
	user, err := a.api.GetMeWithToken(ctx, tok.AccessToken)
	if err != nil {
		return nil, a.loginFailed("fetch user", err)
	}
	if err := a.store.Save(tok.AccessToken, *user); err != nil {
		return nil, a.loginFailed("save session", err)
	}
	a.log.Info("logged in", slog.Int("user_id", user.ID))
	return user, nil
}

func (a *AuthClient) loginFailed(stage string, err error) error {
	a.log.Warn("login failed", slog.String("stage", stage), logging.Err(err))
	return &AuthError{Message: MsgInvalidCredentials, Err: err}
}

// Register creates the account and then logs in with the same credentials.
// A failed registration surfaces the server's message unchanged.
func (a *AuthClient) Register(ctx context.Context, email, password string) (*domain.User, error) {
	var user *domain.User
	err := workflow.Runner{Log: a.log}.Run(ctx,
		workflow.Step{Name: StepRegister, Do: func(ctx context.Context) error {
			_, err := a.api.Register(ctx, domain.Credentials{Email: email, Password: password})
			return err
		}},
		workflow.Step{Name: StepLogin, Do: func(ctx context.Context) error {
			u, err := a.Login(ctx, email, password)
			user = u
			return err
		}},
	)
	if err == nil {
		return user, nil
	}

	if workflow.FailedStep(err) == StepLogin {
		return nil, &AuthError{Message: MsgInvalidCredentials, Err: err}
	}
	msg := client.Message(err)
	if msg == "" {
		msg = "Registration failed"
	}
	return nil, &AuthError{Message: msg, Err: err}
}

// Logout clears the stored session. It makes no request.
func (a *AuthClient) Logout() {
	if err := a.store.Clear(); err != nil {
		a.log.Warn("logout: clear session", logging.Err(err))
	}
}
