package session

import (
	"context"
	"errors"
	"sync"

	"github.com/openpos/pos-admin/internal/model"
)

// Status describes the session lifecycle. Initializing exists only during
// the startup verification window.
type Status int

const (
	StatusInitializing Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// RegisterRequest carries the tenant + admin profile fields for sign-up.
type RegisterRequest struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	RestaurantName string
	Subdomain      string
}

// API is the backend surface the store needs. Implementations translate
// transport failures into the error taxonomy of this package
// (ErrInvalidCredentials, *NetworkError, *ServerError, *ValidationError).
type API interface {
	Login(ctx context.Context, identifier, secret string) (token string, user *model.User, err error)
	Register(ctx context.Context, req RegisterRequest) (token string, user *model.User, err error)
	Profile(ctx context.Context, token string) (*model.User, error)
}

// Snapshot is an immutable copy of the session state handed to readers and
// subscribers. User is a copy; mutating it does not affect the store.
type Snapshot struct {
	Status Status
	User   *model.User
	Token  string
	// Busy reports an in-flight login/register so forms can disable
	// duplicate submissions. It is a side flag, not a status value.
	Busy bool
}

// Store is the single writer of the session state and its persisted copy.
// All mutation funnels through Bootstrap, Login, Register, Logout,
// UpdateUser and Invalidate; nothing else may write the two stored keys.
type Store struct {
	api     API
	storage Storage

	mu     sync.Mutex
	status Status
	user   *model.User
	token  string
	busy   bool
	// seq counts started mutating operations. A completion captured under
	// an older seq is stale and must be discarded: a logout fired while a
	// login is in flight wins over the late login result.
	seq uint64

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore builds a Store in the Initializing state. Callers must run
// Bootstrap before consulting the gate.
func NewStore(api API, storage Storage) *Store {
	return &Store{
		api:     api,
		storage: storage,
		status:  StatusInitializing,
		subs:    map[int]func(Snapshot){},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Status: s.status, Token: s.token, Busy: s.busy}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Subscribe registers fn to run after every state transition and returns an
// unsubscribe func. fn is called outside the state lock.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// Bootstrap restores the session from storage. A complete stored pair is
// trusted immediately (the caller sees Authenticated before the network
// round-trip), then verified against the backend: success upgrades the
// snapshot to the authoritative profile, any failure fully logs out. A
// partial or unreadable store is cleared the same way. Bootstrap never
// returns an error; it degrades to Unauthenticated.
func (s *Store) Bootstrap(ctx context.Context) {
	token, user, err := s.storage.Load()
	if err != nil || token == "" || user == nil {
		s.mu.Lock()
		s.seq++
		s.clearLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return
	}

	// Optimistic phase: adopt the stored snapshot so protected views render
	// without a login flash.
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	s.status = StatusAuthenticated
	s.token = token
	u := *user
	s.user = &u
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	// Verified phase: the authoritative profile replaces the snapshot, or
	// the whole session goes. Discard the result if a newer operation has
	// started meanwhile.
	fresh, err := s.api.Profile(ctx, token)
	s.mu.Lock()
	if s.seq != mySeq {
		s.mu.Unlock()
		return
	}
	if err != nil || fresh == nil {
		s.clearLocked()
	} else {
		v := *fresh
		s.user = &v
		_ = s.storage.Save(s.token, &v)
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Login authenticates with the backend. On success token and user are
// persisted together; on invalid credentials the session is left untouched;
// on transport or server failure it is forced into a fully cleared state.
func (s *Store) Login(ctx context.Context, identifier, secret string) error {
	return s.authenticate(ctx, func() (string, *model.User, error) {
		return s.api.Login(ctx, identifier, secret)
	})
}

// Register creates a tenant plus its admin account and signs in as it.
// Same contract as Login; validation failures leave the session untouched.
func (s *Store) Register(ctx context.Context, req RegisterRequest) error {
	return s.authenticate(ctx, func() (string, *model.User, error) {
		return s.api.Register(ctx, req)
	})
}

func (s *Store) authenticate(ctx context.Context, call func() (string, *model.User, error)) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return &ServerError{Msg: "another sign-in is already in progress"}
	}
	s.seq++
	mySeq := s.seq
	s.busy = true
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	token, user, err := call()

	s.mu.Lock()
	if s.seq != mySeq {
		// A newer operation (logout, another login) already produced a
		// terminal state; this completion is stale.
		s.mu.Unlock()
		return err
	}
	s.busy = false
	switch {
	case err == nil && token != "" && user != nil:
		u := *user
		s.status = StatusAuthenticated
		s.token = token
		s.user = &u
		_ = s.storage.Save(token, &u)
	case isUserCorrectable(err):
		// Wrong password or rejected form: nothing was granted, nothing
		// changes, no storage write.
	default:
		s.clearLocked()
		if err == nil {
			err = &ServerError{Msg: "malformed auth response"}
		}
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return err
}

func isUserCorrectable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return true
	}
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Logout unconditionally clears the session and its persisted copy. Safe to
// call when already signed out.
func (s *Store) Logout() {
	s.mu.Lock()
	s.seq++
	s.busy = false
	s.clearLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Invalidate is Logout under another name, used by the HTTP layer when any
// request comes back 401: an unverifiable session must never stay
// authenticated.
func (s *Store) Invalidate() { s.Logout() }

// UpdateUser replaces the in-memory user and its persisted snapshot after a
// profile edit. It does not touch the token or status and is ignored when
// not authenticated.
func (s *Store) UpdateUser(u *model.User) {
	if u == nil {
		return
	}
	s.mu.Lock()
	if s.status != StatusAuthenticated {
		s.mu.Unlock()
		return
	}
	v := *u
	s.user = &v
	_ = s.storage.Save(s.token, &v)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Token returns the current bearer token, empty when signed out. The HTTP
// layer reads it per request; it must treat the value as a stale snapshot.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) clearLocked() {
	s.status = StatusUnauthenticated
	s.token = ""
	s.user = nil
	_ = s.storage.Clear()
}
