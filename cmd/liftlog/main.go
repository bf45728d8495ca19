package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"github.com/naveenspark/liftlog/internal/browser"
	"github.com/naveenspark/liftlog/internal/config"
	"github.com/naveenspark/liftlog/internal/form"
	"github.com/naveenspark/liftlog/internal/logging"
	"github.com/naveenspark/liftlog/internal/query"
	"github.com/naveenspark/liftlog/internal/session"
	"github.com/naveenspark/liftlog/internal/tui"
	"github.com/naveenspark/liftlog/pkg/client"
	"github.com/naveenspark/liftlog/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var errNotSignedIn = errors.New("not signed in; run `liftlog login` first")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a subcommand needs.
type env struct {
	cfg   *config.Config
	log   *slog.Logger
	store session.Store
	eval  *session.Evaluator
	api   *client.Client
	sess  *session.Context
	out   io.Writer
}

func newEnv(cfg *config.Config, log *slog.Logger, store session.Store, out io.Writer) *env {
	api := client.New(cfg.APIURL, store,
		client.WithTimeout(cfg.HTTP.Timeout),
		client.WithRateLimit(cfg.HTTP.RateLimit, cfg.HTTP.Burst),
		client.WithLogger(log),
	)
	eval := session.NewEvaluator(store, log)
	sess := session.NewContext(session.NewAuthClient(api, store, log), eval)
	sess.Init()
	return &env{cfg: cfg, log: log, store: store, eval: eval, api: api, sess: sess, out: out}
}

// splitFlags removes the global flags from args.
func splitFlags(args []string) (rest []string, ephemeral bool) {
	for _, a := range args {
		if a == "--ephemeral" {
			ephemeral = true
			continue
		}
		rest = append(rest, a)
	}
	return rest, ephemeral
}

func run(args []string) error {
	args, ephemeral := splitFlags(args)
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "--version", "version", "-v":
		fmt.Println("liftlog " + version)
		return nil
	case "help", "--help", "-h":
		printHelp()
		return nil
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	log, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	var store session.Store = session.NewFileStore(cfg.StateDir)
	if ephemeral {
		store = session.NewMemoryStore()
	}
	e := newEnv(cfg, log, store, os.Stdout)
	ctx := context.Background()

	switch cmd {
	case "":
		return runTUI(ctx, e)
	case "login", "register":
		in := bufio.NewReader(os.Stdin)
		return runAuth(ctx, e, cmd == "register", in, terminalSecret(in))
	case "logout":
		return runLogout(e)
	case "whoami":
		return runWhoami(e)
	case "import":
		if len(args) < 2 {
			return errors.New("usage: liftlog import <file.csv>")
		}
		return runImport(ctx, e, args[1])
	case "plates":
		if len(args) < 2 {
			return errors.New("usage: liftlog plates <weight>")
		}
		return runPlates(ctx, e, args[1])
	case "web":
		if err := browser.Open(cfg.WebURL); err != nil {
			fmt.Fprintln(e.out, cfg.WebURL)
		}
		return nil
	}
	return fmt.Errorf("unknown command %q (see `liftlog help`)", cmd)
}

// bootstrapEnvToken turns a LIFTLOG_TOKEN with no cached user into a stored
// session, so the evaluator has a user to return.
func bootstrapEnvToken(ctx context.Context, e *env) {
	tok := os.Getenv(session.TokenEnv)
	if tok == "" || e.sess.User() != nil {
		return
	}
	me, err := e.api.GetMeWithToken(ctx, tok)
	if err != nil {
		e.log.Warn("env token rejected", logging.Err(err))
		return
	}
	if err := e.store.Save(tok, *me); err != nil {
		e.log.Warn("save env session", logging.Err(err))
		return
	}
	e.sess.Init()
}

func runTUI(ctx context.Context, e *env) error {
	bootstrapEnvToken(ctx, e)
	if e.sess.User() == nil {
		printGreeting()
		return nil
	}
	// Only force re-login on actual auth failures (401), not transient errors.
	if _, err := e.api.GetMe(ctx); err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) {
			e.sess.Logout()
			printGreeting()
			return nil
		}
		e.log.Warn("startup check failed, continuing", logging.Err(err))
	}

	qc, closeCache := newQueryClient(ctx, e.cfg, e.log)
	defer closeCache()

	app := tui.NewApp(tui.Options{
		Session:  e.sess,
		API:      e.api,
		Queries:  qc,
		Log:      e.log,
		WebURL:   e.cfg.WebURL,
		Rollback: e.cfg.Workflow.RollbackPartial,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// newQueryClient builds the query cache from config. An unreachable redis
// falls back to the in-process cache.
func newQueryClient(ctx context.Context, cfg *config.Config, log *slog.Logger) (*query.Client, func()) {
	policy := query.Policy{
		StaleTime:      cfg.Query.StaleTime,
		Retry:          cfg.Query.Retry,
		RetryDelay:     cfg.Query.RetryDelay,
		RefetchOnFocus: cfg.Query.RefetchOnFocus,
	}
	if cfg.Query.Cache != config.CacheRedis {
		return query.NewClient(query.NewMemoryCache(), policy, log), func() {}
	}

	rc, err := query.NewRedisCache(ctx, query.RedisOptions{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		Prefix:      cfg.Redis.Prefix,
		DialTimeout: cfg.Redis.DialTimeout,
		TTL:         cfg.Query.StaleTime,
	})
	if err != nil {
		log.Warn("redis cache unavailable, using memory", logging.Err(err))
		return query.NewClient(query.NewMemoryCache(), policy, log), func() {}
	}
	return query.NewClient(rc, policy, log), func() {
		if err := rc.Close(); err != nil {
			log.Warn("close redis cache", logging.Err(err))
		}
	}
}

// terminalSecret reads a password without echo when stdin is a terminal, and
// a plain line otherwise.
func terminalSecret(in *bufio.Reader) func() (string, error) {
	return func() (string, error) {
		fd := os.Stdin.Fd()
		if !term.IsTerminal(fd) {
			return readLine(in)
		}
		b, err := term.ReadPassword(fd)
		fmt.Println()
		return string(b), err
	}
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptCredentials asks for an email and password and validates them the
// way the sign-in screen does.
func promptCredentials(in *bufio.Reader, out io.Writer, secret func() (string, error)) (domain.Credentials, error) {
	fmt.Fprint(out, "Email: ")
	email, err := readLine(in)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read email: %w", err)
	}
	fmt.Fprint(out, "Password: ")
	pw, err := secret()
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read password: %w", err)
	}

	creds := domain.Credentials{Email: strings.TrimSpace(email), Password: pw}
	if err := form.NewValidator().Struct(creds); err != nil {
		return creds, fmt.Errorf("invalid credentials: %w", err)
	}
	return creds, nil
}

func runAuth(ctx context.Context, e *env, register bool, in *bufio.Reader, secret func() (string, error)) error {
	creds, err := promptCredentials(in, e.out, secret)
	if err != nil {
		return err
	}
	if register {
		err = e.sess.Register(ctx, creds.Email, creds.Password)
	} else {
		err = e.sess.Login(ctx, creds.Email, creds.Password)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Signed in as %s\n", e.sess.User().Email)
	return nil
}

func runLogout(e *env) error {
	if e.store.ReadToken() == "" {
		fmt.Fprintln(e.out, "Already logged out.")
		return nil
	}
	e.sess.Logout()
	fmt.Fprintln(e.out, "Logged out.")
	return nil
}

func runWhoami(e *env) error {
	u := e.sess.User()
	if u == nil {
		return errNotSignedIn
	}
	fmt.Fprintf(e.out, "%s (id %d)\n", u.Email, u.ID)
	if exp, ok := e.eval.Expiry(); ok {
		fmt.Fprintf(e.out, "session expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func runImport(ctx context.Context, e *env, path string) error {
	if e.sess.User() == nil {
		return errNotSignedIn
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	p, err := e.api.ImportProgramCSV(ctx, filepath.Base(path), f)
	if err != nil {
		return fmt.Errorf("import %s: %s", path, client.ErrorText(err, "request failed"))
	}
	fmt.Fprintf(e.out, "Imported %q: %d weeks, %d workouts (id %d)\n",
		p.Name, p.DurationWeeks, len(p.Workouts), p.ID)
	return nil
}

func runPlates(ctx context.Context, e *env, arg string) error {
	if e.sess.User() == nil {
		return errNotSignedIn
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil || w <= 0 {
		return fmt.Errorf("%q is not a weight", arg)
	}
	calc, err := e.api.CalculatePlates(ctx, w)
	if err != nil {
		return fmt.Errorf("calculate plates: %s", client.ErrorText(err, "request failed"))
	}
	fmt.Fprint(e.out, platesText(calc))
	return nil
}

func platesText(c *domain.PlateCalculation) string {
	var b strings.Builder
	plates := make([]string, len(c.PlatesPerSide))
	for i, p := range c.PlatesPerSide {
		plates[i] = kg(p)
	}
	side := strings.Join(plates, " + ")
	if side == "" {
		side = "empty bar"
	}
	fmt.Fprintf(&b, "target   %s kg\n", kg(c.TargetWeight))
	fmt.Fprintf(&b, "bar      %s kg\n", kg(c.BarWeight))
	fmt.Fprintf(&b, "per side %s\n", side)
	if !c.Exact() {
		fmt.Fprintf(&b, "loaded   %s kg (closest below target)\n", kg(c.ActualWeight))
	}
	return b.String()
}

func kg(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
