package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"studydash/internal/config"
	"studydash/internal/dash"
	"studydash/internal/encryption"
	"studydash/internal/render"
	"studydash/internal/storage"
	"studydash/internal/vault"
)

var (
	// ErrNotFound is returned when an id names no record.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a field value cannot be parsed.
	ErrInvalidInput = errors.New("invalid input")
)

// DashApp is the application layer between the CLI and the dashboard store.
// It constructs all dependencies from config, exposes high-level operations that accept
// raw strings, and closes storage and the log file on Close.
type DashApp struct {
	cfg       *config.Config
	loc       *time.Location
	clock     dash.Clock
	storage   dash.Storage
	store     *dash.Store
	renderer  *render.Renderer
	encryptor dash.Encryptor
	vaults    map[string]dash.Vault
	logger    *slog.Logger
	session   *Session
	logFile   *os.File
}

type options struct {
	clock   dash.Clock
	idgen   dash.IDGenerator
	out     io.Writer
	console io.Writer
	storage dash.Storage
}

// Option overrides one of the dependencies NewDashApp would otherwise build.
type Option func(*options)

func WithClock(c dash.Clock) Option { return func(o *options) { o.clock = c } }

func WithIDGenerator(g dash.IDGenerator) Option { return func(o *options) { o.idgen = g } }

// WithOutput sets the writer views are rendered for. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option { return func(o *options) { o.out = w } }

// WithConsole sets where warnings and errors are echoed. Defaults to os.Stderr.
func WithConsole(w io.Writer) Option { return func(o *options) { o.console = w } }

// WithStorage replaces the configured storage backend.
func WithStorage(s dash.Storage) Option { return func(o *options) { o.storage = s } }

// zonedClock reports base's time in the configured timezone.
type zonedClock struct {
	base dash.Clock
	loc  *time.Location
}

func (c zonedClock) Now() time.Time { return c.base.Now().In(c.loc) }

// NewDashApp creates a fully wired DashApp from the given config.
// command identifies the CLI command being run (e.g. "overview", "assignment add").
// The caller must call Close when done.
func NewDashApp(cfg *config.Config, command string, opts ...Option) (*DashApp, error) {
	o := options{
		clock:   dash.RealClock{},
		idgen:   dash.UUIDGenerator{},
		out:     os.Stdout,
		console: os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clock := zonedClock{base: o.clock, loc: loc}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	session := NewSession(command, clock.Now())
	logger, logFile, err := newLogger(cfg.LogDir, session.ID, o.console)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	st := o.storage
	if st == nil {
		st, err = storage.NewStorageFromConfig(cfg.Storage)
		if err != nil {
			logFile.Close()
			return nil, fmt.Errorf("creating storage: %w", err)
		}
	}

	first, last := cfg.TimetableHours()
	renderer := render.New(o.out, first, last)

	store := dash.NewStore(&slogAdapter{l: logger}, clock, o.idgen,
		dash.WithSeeding(!cfg.DisableSampleData),
		dash.WithThemeListener(renderer.SetTheme),
	)
	if err := store.Init(st); err != nil {
		st.Close()
		logFile.Close()
		return nil, fmt.Errorf("loading dashboard: %w", err)
	}
	logger.Info("command started", "command", command)

	return &DashApp{
		cfg:       cfg,
		loc:       loc,
		clock:     clock,
		storage:   st,
		store:     store,
		renderer:  renderer,
		encryptor: enc,
		vaults:    map[string]dash.Vault{},
		logger:    logger,
		session:   session,
		logFile:   logFile,
	}, nil
}

// Now returns the current time in the configured timezone.
func (a *DashApp) Now() time.Time {
	return a.clock.Now()
}

// State returns a copy of the whole dashboard state.
func (a *DashApp) State() dash.State {
	return a.store.State()
}

// Overview renders the landing page.
func (a *DashApp) Overview() string {
	return a.renderer.Overview(a.store.State(), a.Now())
}

// Timetable renders the weekly grid.
func (a *DashApp) Timetable() string {
	return a.renderer.Timetable(a.store.State())
}

// Courses renders the course catalog.
func (a *DashApp) Courses() string {
	return a.renderer.Courses(a.store.State())
}

// Assignments renders the assignment list. Empty status or priority matches everything.
func (a *DashApp) Assignments(status, priority string, descending bool) (string, error) {
	f := dash.AssignmentFilter{Descending: descending}
	if status != "" {
		s, err := parseStatus(status)
		if err != nil {
			return "", err
		}
		f.Status = s
	}
	if priority != "" {
		p, err := parsePriority(priority)
		if err != nil {
			return "", err
		}
		f.Priority = p
	}
	return a.renderer.Assignments(a.store.State(), f, a.Now()), nil
}

// Calendar renders the month grid for month ("YYYY-MM") and the items on date
// ("YYYY-MM-DD"). An empty month is the month of date, or the current month. An empty
// date selects today when it falls in the month, otherwise the first of the month.
func (a *DashApp) Calendar(month, date string) (string, error) {
	now := a.Now()
	var selected time.Time
	if date != "" {
		d, err := time.ParseInLocation("2006-01-02", date, a.loc)
		if err != nil {
			return "", fmt.Errorf("%w: date %q: want YYYY-MM-DD", ErrInvalidInput, date)
		}
		selected = d
	}

	var m time.Time
	switch {
	case month != "":
		parsed, err := time.ParseInLocation("2006-01", month, a.loc)
		if err != nil {
			return "", fmt.Errorf("%w: month %q: want YYYY-MM", ErrInvalidInput, month)
		}
		m = parsed
	case !selected.IsZero():
		m = time.Date(selected.Year(), selected.Month(), 1, 0, 0, 0, 0, a.loc)
	default:
		m = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, a.loc)
	}

	if selected.IsZero() {
		selected = m
		if now.Year() == m.Year() && now.Month() == m.Month() {
			selected = now
		}
	}
	return a.renderer.Calendar(a.store.State(), m, selected), nil
}

// ToggleTheme flips the theme and returns the new value.
func (a *DashApp) ToggleTheme() dash.Theme {
	return a.store.ToggleTheme()
}

// Finish records the outcome of the command for the closing log line.
func (a *DashApp) Finish(err error) {
	a.session.Finish(err)
	if err != nil {
		a.logger.Error("command failed", "command", a.session.Command, "error", err)
	}
}

// Close logs the end of the session and closes storage and the log file.
func (a *DashApp) Close() error {
	a.logger.Info("command finished",
		"command", a.session.Command,
		"status", a.session.Status,
		"elapsed", a.session.Elapsed(a.Now()),
	)

	var firstErr error
	if err := a.storage.Close(); err != nil {
		firstErr = fmt.Errorf("closing storage: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// openVault opens the named vault, or the first configured one when name is empty.
// Opened vaults are reused for the rest of the session.
func (a *DashApp) openVault(ctx context.Context, name string) (dash.Vault, error) {
	if len(a.cfg.Vaults) == 0 {
		return nil, fmt.Errorf("no vaults configured")
	}

	vc := a.cfg.Vaults[0]
	if name != "" {
		found := false
		for _, c := range a.cfg.Vaults {
			if c.Name == name {
				vc, found = c, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("vault %q: %w", name, ErrNotFound)
		}
	}

	if v, ok := a.vaults[vc.Name]; ok {
		return v, nil
	}
	v, err := vault.NewVaultFromConfig(ctx, vc)
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}
	a.vaults[vc.Name] = v
	return v, nil
}
