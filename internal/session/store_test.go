package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpos/pos-admin/internal/model"
)

// fakeAPI scripts the backend. The gate channels let a test hold a call
// open to exercise overlapping operations.
type fakeAPI struct {
	mu sync.Mutex

	profileFn func(token string) (*model.User, error)
	loginFn   func(identifier, secret string) (string, *model.User, error)

	profileEntered chan struct{}
	profileRelease chan struct{}
	loginEntered   chan struct{}
	loginRelease   chan struct{}
}

func (f *fakeAPI) Profile(ctx context.Context, token string) (*model.User, error) {
	if f.profileEntered != nil {
		close(f.profileEntered)
	}
	if f.profileRelease != nil {
		<-f.profileRelease
	}
	f.mu.Lock()
	fn := f.profileFn
	f.mu.Unlock()
	if fn == nil {
		return nil, errors.New("no profile scripted")
	}
	return fn(token)
}

func (f *fakeAPI) Login(ctx context.Context, identifier, secret string) (string, *model.User, error) {
	if f.loginEntered != nil {
		close(f.loginEntered)
	}
	if f.loginRelease != nil {
		<-f.loginRelease
	}
	f.mu.Lock()
	fn := f.loginFn
	f.mu.Unlock()
	if fn == nil {
		return "", nil, errors.New("no login scripted")
	}
	return fn(identifier, secret)
}

func (f *fakeAPI) Register(ctx context.Context, req RegisterRequest) (string, *model.User, error) {
	return "", nil, errors.New("no register scripted")
}

// countingStorage wraps MemoryStorage and counts writes so tests can assert
// that a failed login never touches the store.
type countingStorage struct {
	*MemoryStorage
	saves  int
	clears int
}

func (c *countingStorage) Save(token string, user *model.User) error {
	c.saves++
	return c.MemoryStorage.Save(token, user)
}

func (c *countingStorage) Clear() error {
	c.clears++
	return c.MemoryStorage.Clear()
}

func waiter() *model.User {
	return &model.User{ID: 7, TenantID: 3, FirstName: "Avery", Email: "avery@example.com", Role: model.RoleWaiter, IsActive: true}
}

func TestBootstrapEmptyStore(t *testing.T) {
	st := NewMemoryStorage()
	s := NewStore(&fakeAPI{}, st)

	s.Bootstrap(context.Background())

	snap := s.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
}

func TestBootstrapPartialStoreClears(t *testing.T) {
	for name, setup := range map[string]func(*MemoryStorage){
		"token only": func(st *MemoryStorage) { require.NoError(t, st.Save("abc", nil)) },
		"user only":  func(st *MemoryStorage) { require.NoError(t, st.Save("", waiter())) },
	} {
		t.Run(name, func(t *testing.T) {
			st := NewMemoryStorage()
			setup(st)
			s := NewStore(&fakeAPI{}, st)

			s.Bootstrap(context.Background())

			assert.Equal(t, StatusUnauthenticated, s.Snapshot().Status)
			tok, u := st.Snapshot()
			assert.Empty(t, tok)
			assert.Nil(t, u)
		})
	}
}

func TestBootstrapCorruptStoreDegradesToLoggedOut(t *testing.T) {
	st := NewMemoryStorage()
	st.FailLoad = errors.New("unparseable snapshot")
	s := NewStore(&fakeAPI{}, st)

	s.Bootstrap(context.Background())

	assert.Equal(t, StatusUnauthenticated, s.Snapshot().Status)
}

func TestBootstrapVerificationFailureFullyClears(t *testing.T) {
	st := NewMemoryStorage()
	require.NoError(t, st.Save("abc", waiter()))
	api := &fakeAPI{profileFn: func(string) (*model.User, error) {
		return nil, &NetworkError{Err: errors.New("connection refused")}
	}}
	s := NewStore(api, st)

	s.Bootstrap(context.Background())

	snap := s.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	tok, u := st.Snapshot()
	assert.Empty(t, tok, "token must not survive a failed verification")
	assert.Nil(t, u)
}

func TestBootstrapOptimisticBeforeVerification(t *testing.T) {
	st := NewMemoryStorage()
	require.NoError(t, st.Save("abc", waiter()))
	api := &fakeAPI{
		profileEntered: make(chan struct{}),
		profileRelease: make(chan struct{}),
		profileFn:      func(string) (*model.User, error) { return waiter(), nil },
	}
	s := NewStore(api, st)

	done := make(chan struct{})
	go func() {
		s.Bootstrap(context.Background())
		close(done)
	}()

	<-api.profileEntered
	snap := s.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status, "stored snapshot must be trusted before the round-trip resolves")
	require.NotNil(t, snap.User)
	assert.Equal(t, model.RoleWaiter, snap.User.Role)

	close(api.profileRelease)
	<-done
	assert.Equal(t, StatusAuthenticated, s.Snapshot().Status)
}

func TestBootstrapAuthoritativeProfileWins(t *testing.T) {
	st := NewMemoryStorage()
	require.NoError(t, st.Save("abc", waiter()))
	promoted := waiter()
	promoted.Role = model.RoleManager
	api := &fakeAPI{profileFn: func(string) (*model.User, error) { return promoted, nil }}
	s := NewStore(api, st)

	s.Bootstrap(context.Background())

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, model.RoleManager, snap.User.Role, "server profile replaces the optimistic snapshot")
	_, u := st.Snapshot()
	require.NotNil(t, u)
	assert.Equal(t, model.RoleManager, u.Role, "the upgraded snapshot is persisted")
}

func TestBootstrapIdempotent(t *testing.T) {
	cases := map[string]struct {
		seed    func(*MemoryStorage)
		profile func(string) (*model.User, error)
		want    Status
	}{
		"empty":          {seed: func(*MemoryStorage) {}, want: StatusUnauthenticated},
		"valid session":  {seed: func(st *MemoryStorage) { _ = st.Save("abc", waiter()) }, profile: func(string) (*model.User, error) { return waiter(), nil }, want: StatusAuthenticated},
		"dead session":   {seed: func(st *MemoryStorage) { _ = st.Save("abc", waiter()) }, profile: func(string) (*model.User, error) { return nil, &ServerError{Status: 401} }, want: StatusUnauthenticated},
		"token only":     {seed: func(st *MemoryStorage) { _ = st.Save("abc", nil) }, want: StatusUnauthenticated},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			st := NewMemoryStorage()
			tc.seed(st)
			s := NewStore(&fakeAPI{profileFn: tc.profile}, st)

			s.Bootstrap(context.Background())
			first := s.Snapshot().Status
			s.Bootstrap(context.Background())

			assert.Equal(t, tc.want, first)
			assert.Equal(t, first, s.Snapshot().Status, "second bootstrap must land on the same status")
		})
	}
}

func TestLoginSuccessPersistsBoth(t *testing.T) {
	st := &countingStorage{MemoryStorage: NewMemoryStorage()}
	api := &fakeAPI{loginFn: func(id, secret string) (string, *model.User, error) {
		return "tok-1", waiter(), nil
	}}
	s := NewStore(api, st)
	s.Bootstrap(context.Background())

	require.NoError(t, s.Login(context.Background(), "avery@example.com", "hunter22"))

	snap := s.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Equal(t, "tok-1", snap.Token)
	require.NotNil(t, snap.User)
	tok, u := st.Snapshot()
	assert.Equal(t, "tok-1", tok)
	require.NotNil(t, u)
	assert.Equal(t, 1, st.saves, "token and user are persisted together in one write")
}

func TestLoginInvalidCredentialsTouchesNothing(t *testing.T) {
	st := &countingStorage{MemoryStorage: NewMemoryStorage()}
	api := &fakeAPI{loginFn: func(string, string) (string, *model.User, error) {
		return "", nil, ErrInvalidCredentials
	}}
	s := NewStore(api, st)
	s.Bootstrap(context.Background())
	savesAfterBootstrap := st.saves

	err := s.Login(context.Background(), "avery@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	snap := s.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	assert.Equal(t, savesAfterBootstrap, st.saves, "a rejected login must not write storage")
	assert.False(t, snap.Busy)
}

func TestLoginServerFailureForcesCleanState(t *testing.T) {
	st := NewMemoryStorage()
	api := &fakeAPI{loginFn: func(string, string) (string, *model.User, error) {
		return "", nil, &ServerError{Status: 500}
	}}
	s := NewStore(api, st)
	s.Bootstrap(context.Background())

	err := s.Login(context.Background(), "avery@example.com", "hunter22")

	var se *ServerError
	require.ErrorAs(t, err, &se)
	snap := s.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
}

func TestLogoutWinsOverInFlightLogin(t *testing.T) {
	st := NewMemoryStorage()
	api := &fakeAPI{
		loginEntered: make(chan struct{}),
		loginRelease: make(chan struct{}),
		loginFn: func(string, string) (string, *model.User, error) {
			return "tok-stale", waiter(), nil
		},
	}
	s := NewStore(api, st)
	s.Bootstrap(context.Background())

	done := make(chan struct{})
	go func() {
		_ = s.Login(context.Background(), "avery@example.com", "hunter22")
		close(done)
	}()

	<-api.loginEntered
	s.Logout()
	close(api.loginRelease)
	<-done

	snap := s.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status, "a stale login completion must not overwrite logout")
	assert.Empty(t, snap.Token)
	tok, u := st.Snapshot()
	assert.Empty(t, tok)
	assert.Nil(t, u)
}

func TestLogoutAfterCompletedLoginWins(t *testing.T) {
	st := NewMemoryStorage()
	api := &fakeAPI{loginFn: func(string, string) (string, *model.User, error) {
		return "tok-1", waiter(), nil
	}}
	s := NewStore(api, st)
	s.Bootstrap(context.Background())

	require.NoError(t, s.Login(context.Background(), "avery@example.com", "hunter22"))
	require.Equal(t, StatusAuthenticated, s.Snapshot().Status)

	s.Logout()

	assert.Equal(t, StatusUnauthenticated, s.Snapshot().Status)
}

func TestLogoutIdempotent(t *testing.T) {
	s := NewStore(&fakeAPI{}, NewMemoryStorage())
	s.Bootstrap(context.Background())

	s.Logout()
	s.Logout()

	assert.Equal(t, StatusUnauthenticated, s.Snapshot().Status)
}

func TestLogoutWinsOverInFlightBootstrap(t *testing.T) {
	st := NewMemoryStorage()
	require.NoError(t, st.Save("abc", waiter()))
	api := &fakeAPI{
		profileEntered: make(chan struct{}),
		profileRelease: make(chan struct{}),
		profileFn:      func(string) (*model.User, error) { return waiter(), nil },
	}
	s := NewStore(api, st)

	done := make(chan struct{})
	go func() {
		s.Bootstrap(context.Background())
		close(done)
	}()

	<-api.profileEntered
	s.Logout()
	close(api.profileRelease)
	<-done

	assert.Equal(t, StatusUnauthenticated, s.Snapshot().Status, "a stale verification must not resurrect the session")
}

func TestUpdateUserKeepsTokenAndStatus(t *testing.T) {
	st := NewMemoryStorage()
	api := &fakeAPI{loginFn: func(string, string) (string, *model.User, error) {
		return "tok-1", waiter(), nil
	}}
	s := NewStore(api, st)
	s.Bootstrap(context.Background())
	require.NoError(t, s.Login(context.Background(), "avery@example.com", "hunter22"))

	edited := waiter()
	edited.FirstName = "Ave"
	s.UpdateUser(edited)

	snap := s.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Equal(t, "tok-1", snap.Token)
	assert.Equal(t, "Ave", snap.User.FirstName)
	_, u := st.Snapshot()
	require.NotNil(t, u)
	assert.Equal(t, "Ave", u.FirstName)
}

func TestUpdateUserIgnoredWhenSignedOut(t *testing.T) {
	s := NewStore(&fakeAPI{}, NewMemoryStorage())
	s.Bootstrap(context.Background())

	s.UpdateUser(waiter())

	snap := s.Snapshot()
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)
}

func TestBusyFlagDuringLogin(t *testing.T) {
	api := &fakeAPI{
		loginEntered: make(chan struct{}),
		loginRelease: make(chan struct{}),
		loginFn: func(string, string) (string, *model.User, error) {
			return "tok-1", waiter(), nil
		},
	}
	s := NewStore(api, NewMemoryStorage())
	s.Bootstrap(context.Background())

	done := make(chan struct{})
	go func() {
		_ = s.Login(context.Background(), "avery@example.com", "hunter22")
		close(done)
	}()

	<-api.loginEntered
	assert.True(t, s.Snapshot().Busy)
	close(api.loginRelease)
	<-done
	assert.False(t, s.Snapshot().Busy)
}

func TestSubscribersSeeTransitions(t *testing.T) {
	api := &fakeAPI{loginFn: func(string, string) (string, *model.User, error) {
		return "tok-1", waiter(), nil
	}}
	s := NewStore(api, NewMemoryStorage())

	var mu sync.Mutex
	var seen []Status
	unsub := s.Subscribe(func(snap Snapshot) {
		mu.Lock()
		seen = append(seen, snap.Status)
		mu.Unlock()
	})
	defer unsub()

	s.Bootstrap(context.Background())
	require.NoError(t, s.Login(context.Background(), "avery@example.com", "hunter22"))
	s.Logout()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.Equal(t, StatusUnauthenticated, seen[len(seen)-1])
	assert.Contains(t, seen, StatusAuthenticated)
}

func TestSnapshotUserIsACopy(t *testing.T) {
	api := &fakeAPI{loginFn: func(string, string) (string, *model.User, error) {
		return "tok-1", waiter(), nil
	}}
	s := NewStore(api, NewMemoryStorage())
	s.Bootstrap(context.Background())
	require.NoError(t, s.Login(context.Background(), "avery@example.com", "hunter22"))

	snap := s.Snapshot()
	snap.User.Role = model.RoleKitchen

	assert.Equal(t, model.RoleWaiter, s.Snapshot().User.Role, "mutating a snapshot must not leak into the store")
}
