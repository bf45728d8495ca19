package session

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/liftlog/internal/logging"
	"github.com/naveenspark/liftlog/pkg/domain"
)

// Evaluator decides whether the stored session is still usable.
type Evaluator struct {
	store  Store
	now    func() time.Time
	log    *slog.Logger
	parser *jwt.Parser
}

// NewEvaluator returns an Evaluator over store using the wall clock.
func NewEvaluator(store Store, log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Evaluator{
		store:  store,
		now:    time.Now,
		log:    log,
		parser: jwt.NewParser(),
	}
}

// WithClock replaces the clock used for expiry checks.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// CurrentUser returns the cached user if a token and user are stored and the
// token's exp claim is not in the past. An expired or undecodable token, or a
// token whose user record is missing or unreadable, clears the store. The
// signature is not verified and no request is made.
func (e *Evaluator) CurrentUser() *domain.User {
	token := e.store.ReadToken()
	if token == "" {
		return nil
	}
	user := e.store.ReadUser()
	if user == nil {
		e.log.Info("discarding session without a readable user")
		e.clear()
		return nil
	}

	exp, err := e.expiry(token)
	if err != nil || exp.Before(e.now()) {
		if err != nil {
			e.log.Info("discarding undecodable session token", logging.Err(err))
		} else {
			e.log.Info("session expired", slog.Time("exp", exp))
		}
		e.clear()
		return nil
	}
	return user
}

func (e *Evaluator) clear() {
	if err := e.store.Clear(); err != nil {
		e.log.Warn("clear session", logging.Err(err))
	}
}

// Expiry returns the exp claim of the stored token.
func (e *Evaluator) Expiry() (time.Time, bool) {
	token := e.store.ReadToken()
	if token == "" {
		return time.Time{}, false
	}
	exp, err := e.expiry(token)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}

func (e *Evaluator) expiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := e.parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, jwt.ErrTokenRequiredClaimMissing
	}
	return claims.ExpiresAt.Time, nil
}
