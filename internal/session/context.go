package session

import (
	"context"
	"sync"

	"github.com/naveenspark/liftlog/pkg/domain"
)

// Context is the authentication state shared by every view. It is created
// once per process (or per test) and passed to whatever needs it.
type Context struct {
	mu      sync.RWMutex
	auth    *AuthClient
	eval    *Evaluator
	user    *domain.User
	loading bool
}

// NewContext returns a Context in the loading state; call Init to resolve it.
func NewContext(auth *AuthClient, eval *Evaluator) *Context {
	return &Context{auth: auth, eval: eval, loading: true}
}

// Init loads the user from the store, discarding an expired session.
func (c *Context) Init() {
	u := c.eval.CurrentUser()
	c.mu.Lock()
	c.user = u
	c.loading = false
	c.mu.Unlock()
}

// Refresh re-checks expiry and returns the resulting user.
func (c *Context) Refresh() *domain.User {
	c.Init()
	return c.User()
}

// User returns a copy of the signed-in user, or nil.
func (c *Context) User() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Context) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Login signs in; on failure the current user is left unchanged.
func (c *Context) Login(ctx context.Context, email, password string) error {
	u, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	c.setUser(u)
	return nil
}

// Register creates an account and signs in with it.
func (c *Context) Register(ctx context.Context, email, password string) error {
	u, err := c.auth.Register(ctx, email, password)
	if err != nil {
		return err
	}
	c.setUser(u)
	return nil
}

// Logout always leaves the Context signed out.
func (c *Context) Logout() {
	c.auth.Logout()
	c.setUser(nil)
}

func (c *Context) setUser(u *domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = u
}
