// Package home is the attendance page controller shared by the terminal
// console and the browser dashboard. It owns the page state, talks to the
// backend and runs the poll loop for as long as the page is mounted.
package home

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"checkpoint/internal/client/api"
	"checkpoint/internal/models"

	"golang.org/x/sync/errgroup"
)

const DefaultInterval = 2 * time.Second

// ErrRunning is returned by Run when the page is already mounted.
var ErrRunning = errors.New("page controller is already running")

// Returned by RegisterAs when the form cannot be submitted.
var (
	ErrBusy        = errors.New("a registration is already in progress")
	ErrNoCard      = errors.New("no card detected")
	ErrNameMissing = errors.New("name is required")
)

// Backend is the REST surface the page consumes.
type Backend interface {
	ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	PendingUID(ctx context.Context) (string, error)
	CreateUser(ctx context.Context, name, uid string) error
	DeleteUser(ctx context.Context, uid string) error
}

// PendingPolicy decides what a poll without a uid does to a detected card.
type PendingPolicy int

const (
	// KeepPending holds the detected card until it is registered.
	KeepPending PendingPolicy = iota
	// ClearPending forgets the card once the backend stops reporting it.
	ClearPending
)

// PolicyFor maps the config value ("keep" or "clear") to a policy.
func PolicyFor(name string) PendingPolicy {
	if strings.EqualFold(strings.TrimSpace(name), "clear") {
		return ClearPending
	}
	return KeepPending
}

// Operation names used in Failure.Op.
const (
	OpLoadAttendance = "load attendance"
	OpLoadUsers      = "load users"
	OpRegister       = "register user"
	OpDelete         = "delete user"
)

// Failure is the last error of a user-visible operation.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string { return f.Op + ": " + f.Err.Error() }

type State struct {
	Attendance  []models.AttendanceRecord
	Users       []models.User
	PendingUID  string
	NewUserName string
	Loading     bool
	Failure     *Failure
}

// CanRegister mirrors the guard in Register so views can disable the button.
func (s State) CanRegister() bool {
	return !s.Loading && s.PendingUID != "" && strings.TrimSpace(s.NewUserName) != ""
}

func (s State) clone() State {
	s.Attendance = append([]models.AttendanceRecord(nil), s.Attendance...)
	s.Users = append([]models.User(nil), s.Users...)
	return s
}

type Options struct {
	Interval time.Duration
	Policy   PendingPolicy
	// OnChange receives a snapshot after every state change. It may be called
	// from several goroutines, one at a time, and must not call back into the
	// controller.
	OnChange func(State)
}

type fetchKind int

const (
	fetchAttendance fetchKind = iota
	fetchUsers
	fetchPending
	numFetchKinds
)

type Controller struct {
	backend Backend
	opts    Options

	mu       sync.Mutex
	notifyMu sync.Mutex
	state    State
	issued   [numFetchKinds]uint64
	applied  [numFetchKinds]uint64
	running  bool
}

func New(backend Backend, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Controller{backend: backend, opts: opts}
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Run mounts the page: both lists load immediately, then every interval the
// pending card is polled and attendance reloaded. Run returns once ctx is
// done; the ticker is stopped before it returns.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrRunning
	}
	c.running = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
		log.Printf("initial load: %v", err)
	}

	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

func (c *Controller) tick(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.PollPending(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := c.LoadAttendance(ctx); err != nil && ctx.Err() == nil {
			log.Printf("poll: %v", err)
		}
	}()
	wg.Wait()
}

// Refresh reloads attendance and users concurrently.
func (c *Controller) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.LoadAttendance(ctx) })
	g.Go(func() error { return c.LoadUsers(ctx) })
	return g.Wait()
}

func (c *Controller) LoadAttendance(ctx context.Context) error {
	seq := c.begin(fetchAttendance)
	records, err := c.backend.ListAttendance(ctx)
	if err != nil {
		c.failAt(fetchAttendance, seq, OpLoadAttendance, err)
		return err
	}
	c.commit(fetchAttendance, seq, func(s *State) {
		s.Attendance = records
		s.clearFailure(OpLoadAttendance)
	})
	return nil
}

func (c *Controller) LoadUsers(ctx context.Context) error {
	seq := c.begin(fetchUsers)
	users, err := c.backend.ListUsers(ctx)
	if err != nil {
		c.failAt(fetchUsers, seq, OpLoadUsers, err)
		return err
	}
	c.commit(fetchUsers, seq, func(s *State) {
		s.Users = users
		s.clearFailure(OpLoadUsers)
	})
	return nil
}

// PollPending never reports an error. A non-2xx answer means no card is
// waiting; any other failure leaves the state as it was.
func (c *Controller) PollPending(ctx context.Context) {
	seq := c.begin(fetchPending)
	uid, err := c.backend.PendingUID(ctx)
	if err != nil {
		if api.KindOf(err) != api.KindStatus {
			return
		}
		uid = ""
	}
	if uid == "" && c.opts.Policy != ClearPending {
		return
	}
	c.commit(fetchPending, seq, func(s *State) {
		s.PendingUID = uid
	})
}

func (c *Controller) SetName(name string) {
	c.mu.Lock()
	if c.state.NewUserName == name {
		c.mu.Unlock()
		return
	}
	c.state.NewUserName = name
	c.mu.Unlock()
	c.changed()
}

// Register creates a user for the detected card from the name in state.
// Without a name, a pending card, or while another registration is in flight
// it does nothing.
func (c *Controller) Register(ctx context.Context) error {
	name, uid, err := c.claim(nil)
	if err != nil {
		return nil
	}
	return c.create(ctx, name, uid)
}

// RegisterAs is Register for a name that is not kept in state, such as one
// typed in a browser. Instead of doing nothing it reports why it cannot run.
func (c *Controller) RegisterAs(ctx context.Context, name string) error {
	trimmed, uid, err := c.claim(&name)
	if err != nil {
		return err
	}
	return c.create(ctx, trimmed, uid)
}

// claim checks the form and marks a registration in flight in one step, so
// two concurrent callers cannot both pass.
func (c *Controller) claim(name *string) (string, string, error) {
	c.mu.Lock()
	n := c.state.NewUserName
	if name != nil {
		n = *name
	}
	switch {
	case c.state.Loading:
		c.mu.Unlock()
		return "", "", ErrBusy
	case c.state.PendingUID == "":
		c.mu.Unlock()
		return "", "", ErrNoCard
	case strings.TrimSpace(n) == "":
		c.mu.Unlock()
		return "", "", ErrNameMissing
	}
	c.state.NewUserName = n
	c.state.Loading = true
	uid := c.state.PendingUID
	c.mu.Unlock()
	c.changed()
	return strings.TrimSpace(n), uid, nil
}

// create runs a claimed registration. Once the user exists the reload is
// best effort: its failures surface as load failures, not as a failed register.
func (c *Controller) create(ctx context.Context, name, uid string) error {
	if err := c.backend.CreateUser(ctx, name, uid); err != nil {
		c.update(func(s *State) {
			s.Loading = false
			s.Failure = &Failure{Op: OpRegister, Err: err}
		})
		return err
	}

	c.mu.Lock()
	c.state.NewUserName = ""
	c.state.PendingUID = ""
	c.state.Loading = false
	c.state.clearFailure(OpRegister)
	// A poll issued before this point may still report the card we just registered.
	c.applied[fetchPending] = c.issued[fetchPending]
	c.mu.Unlock()
	c.changed()

	c.reload(ctx, "register")
	return nil
}

// Delete removes the user with uid, then reloads users and attendance once.
func (c *Controller) Delete(ctx context.Context, uid string) error {
	if err := c.backend.DeleteUser(ctx, uid); err != nil {
		c.fail(OpDelete, err)
		return err
	}
	c.update(func(s *State) { s.clearFailure(OpDelete) })
	c.reload(ctx, "delete")
	return nil
}

func (c *Controller) reload(ctx context.Context, after string) {
	if err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
		log.Printf("reload after %s: %v", after, err)
	}
}

func (s *State) clearFailure(op string) {
	if s.Failure != nil && s.Failure.Op == op {
		s.Failure = nil
	}
}

func (c *Controller) begin(kind fetchKind) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued[kind]++
	return c.issued[kind]
}

// commit applies a response unless a newer one of the same kind already landed.
func (c *Controller) commit(kind fetchKind, seq uint64, apply func(*State)) bool {
	c.mu.Lock()
	if seq <= c.applied[kind] {
		c.mu.Unlock()
		return false
	}
	c.applied[kind] = seq
	apply(&c.state)
	c.mu.Unlock()
	c.changed()
	return true
}

// failAt records a load failure unless a newer load of the same kind
// already succeeded.
func (c *Controller) failAt(kind fetchKind, seq uint64, op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	c.mu.Lock()
	if seq <= c.applied[kind] {
		c.mu.Unlock()
		return
	}
	c.state.Failure = &Failure{Op: op, Err: err}
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) fail(op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	c.update(func(s *State) { s.Failure = &Failure{Op: op, Err: err} })
}

func (c *Controller) update(apply func(*State)) {
	c.mu.Lock()
	apply(&c.state)
	c.mu.Unlock()
	c.changed()
}

// changed hands OnChange the state as it is now. Notifications are
// serialized, so the last one delivered is always the latest state.
func (c *Controller) changed() {
	if c.opts.OnChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.opts.OnChange(c.Snapshot())
}
