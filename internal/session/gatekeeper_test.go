package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"SchoolCMS/internal/auth"
	"SchoolCMS/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider accepts one password and reports states like auth.Client.
type fakeProvider struct {
	mu         sync.Mutex
	state      auth.State
	observers  []func(auth.State)
	subscribes int
	signOutErr error
}

func (p *fakeProvider) OnStateChange(fn func(auth.State)) func() {
	p.mu.Lock()
	p.subscribes++
	p.observers = append(p.observers, fn)
	s := p.state
	p.mu.Unlock()
	fn(s)
	return func() {
		p.mu.Lock()
		p.observers = nil
		p.mu.Unlock()
	}
}

func (p *fakeProvider) emit(s auth.State) {
	p.mu.Lock()
	p.state = s
	obs := append([]func(auth.State){}, p.observers...)
	p.mu.Unlock()
	for _, fn := range obs {
		fn(s)
	}
}

func (p *fakeProvider) SignIn(_ context.Context, email, password string) error {
	if password != "correct-horse" {
		return auth.ErrInvalidCredentials
	}
	p.emit(auth.State{Principal: &auth.Principal{Email: email}, Token: "tok"})
	return nil
}

func (p *fakeProvider) SignOut(context.Context) error {
	if p.signOutErr != nil {
		return p.signOutErr
	}
	p.emit(auth.State{})
	return nil
}

type countingLoader struct {
	n   atomic.Int32
	err error
}

func (l *countingLoader) Load(context.Context) error {
	l.n.Add(1)
	return l.err
}

type recordingShell struct {
	mu         sync.Mutex
	views      []string
	loginError string
	token      string
}

func (s *recordingShell) add(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, v)
}

func (s *recordingShell) ShowDashboard(email string) {
	s.add("dashboard:" + email)
}
func (s *recordingShell) ShowLogin() {
	s.add("login")
}
func (s *recordingShell) SetLoginError(msg string) {
	s.loginError = msg
}
func (s *recordingShell) RenderLoading(ui.Region) {}

func (s *recordingShell) RenderItems(ui.Region, []ui.Item) {}

func (s *recordingShell) RenderEmpty(ui.Region, string) {}

func (s *recordingShell) RenderError(ui.Region, string) {}

func (s *recordingShell) ResetForm(ui.Form) {}

func (s *recordingShell) FillForm(ui.Form, map[string]string) {}
func (s *recordingShell) SetSessionToken(token string) {
	s.token = token
}

type answer bool

func (a answer) Confirm(context.Context, string) bool {
	return bool(a)
}

type toastLog struct {
	mu      sync.Mutex
	success []string
	errors  []string
}

func (t *toastLog) Success(m string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.success = append(t.success, m)
	return ""
}

func (t *toastLog) Error(m string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, m)
	return ""
}

type fixture struct {
	gk       *Gatekeeper
	provider *fakeProvider
	shell    *recordingShell
	toasts   *toastLog
	loaders  []*countingLoader
}

func newFixture(confirm bool) *fixture {
	f := &fixture{
		provider: &fakeProvider{},
		shell:    &recordingShell{},
		toasts:   &toastLog{},
		loaders:  []*countingLoader{{}, {}, {}},
	}
	f.gk = NewGatekeeper(f.provider, f.shell, answer(confirm), f.toasts, zap.NewNop())
	f.gk.SetLoaders(f.loaders[0], f.loaders[1], f.loaders[2])
	return f
}

func (f *fixture) loads() []int32 {
	out := make([]int32, len(f.loaders))
	for i, l := range f.loaders {
		out[i] = l.n.Load()
	}
	return out
}

func TestStartShowsLoginWhenSignedOut(t *testing.T) {
	f := newFixture(true)
	f.gk.Start(context.Background())
	f.gk.Start(context.Background())

	assert.Equal(t, 1, f.provider.subscribes)
	assert.Equal(t, []string{"login"}, f.shell.views)
	assert.False(t, f.gk.Unlocked())
	assert.Equal(t, []int32{0, 0, 0}, f.loads())
}

func TestLoginUnlocksAndLoadsEachCollectionOnce(t *testing.T) {
	f := newFixture(true)
	f.gk.Start(context.Background())

	require.NoError(t, f.gk.Login(context.Background(), "p@school.edu", "correct-horse"))

	assert.Equal(t, Session{IsAuthenticated: true, PrincipalEmail: "p@school.edu"}, f.gk.Session())
	assert.True(t, f.gk.Unlocked())
	assert.Equal(t, []string{"login", "dashboard:p@school.edu"}, f.shell.views)
	assert.Equal(t, []int32{1, 1, 1}, f.loads())
	assert.Equal(t, "tok", f.shell.token)
	assert.Empty(t, f.shell.loginError)
	assert.Equal(t, []string{"Welcome back, Principal."}, f.toasts.success)
}

func TestLoginFailureStaysLocked(t *testing.T) {
	f := newFixture(true)
	f.gk.Start(context.Background())

	err := f.gk.Login(context.Background(), "p@school.edu", "wrong")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.False(t, f.gk.Unlocked())
	assert.Equal(t, "Invalid Email or Password.", f.shell.loginError)
	assert.Equal(t, []string{"Login Failed"}, f.toasts.errors)
	assert.Equal(t, []int32{0, 0, 0}, f.loads())
	assert.Equal(t, []string{"login"}, f.shell.views)
}

func TestFailedLoadDoesNotStopOthers(t *testing.T) {
	f := newFixture(true)
	f.loaders[1].err = errors.New("boom")
	f.gk.Start(context.Background())

	require.NoError(t, f.gk.Login(context.Background(), "p@school.edu", "correct-horse"))
	assert.Equal(t, []int32{1, 1, 1}, f.loads())
}

func TestLogoutCancelledKeepsSession(t *testing.T) {
	f := newFixture(false)
	f.gk.Start(context.Background())
	require.NoError(t, f.gk.Login(context.Background(), "p@school.edu", "correct-horse"))

	err := f.gk.Logout(context.Background())

	assert.ErrorIs(t, err, ui.ErrCancelled)
	assert.True(t, f.gk.Unlocked())
	assert.Equal(t, "dashboard:p@school.edu", f.shell.views[len(f.shell.views)-1])
	assert.NotContains(t, f.toasts.success, "Logged out successfully.")
}

func TestLogoutLocks(t *testing.T) {
	f := newFixture(true)
	f.gk.Start(context.Background())
	require.NoError(t, f.gk.Login(context.Background(), "p@school.edu", "correct-horse"))

	require.NoError(t, f.gk.Logout(context.Background()))

	assert.False(t, f.gk.Unlocked())
	assert.Equal(t, "login", f.shell.views[len(f.shell.views)-1])
	assert.Empty(t, f.shell.token)
	assert.Contains(t, f.toasts.success, "Logged out successfully.")
	assert.Equal(t, []int32{1, 1, 1}, f.loads())
}

func TestLogoutWhileLockedDoesNothing(t *testing.T) {
	f := newFixture(true)
	f.gk.Start(context.Background())
	f.provider.signOutErr = errors.New("must not be called")

	err := f.gk.Logout(context.Background())

	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Empty(t, f.toasts.success)
	assert.Empty(t, f.toasts.errors)
	assert.Equal(t, "login", f.shell.views[len(f.shell.views)-1])
}

func TestLogoutFailureIsReported(t *testing.T) {
	f := newFixture(true)
	f.gk.Start(context.Background())
	require.NoError(t, f.gk.Login(context.Background(), "p@school.edu", "correct-horse"))
	f.provider.signOutErr = errors.New("redis down")

	assert.Error(t, f.gk.Logout(context.Background()))
	assert.True(t, f.gk.Unlocked())
	assert.Equal(t, []string{"Logout failed"}, f.toasts.errors)
}

func TestStopUnsubscribes(t *testing.T) {
	f := newFixture(true)
	f.gk.Start(context.Background())
	f.gk.Stop()

	f.provider.emit(auth.State{Principal: &auth.Principal{Email: "p@school.edu"}})
	assert.False(t, f.gk.Unlocked())
}
