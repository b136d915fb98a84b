// Package session gates the console on the authentication state. It is the
// only place that switches between the login view and the dashboard.
package session

import (
	"context"
	"errors"
	"sync"

	"SchoolCMS/internal/auth"
	"SchoolCMS/internal/ui"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotSignedIn is returned by Logout on a console that has no session.
var ErrNotSignedIn = errors.New("not signed in")

// Session is the gatekeeper's view of the sign-in state.
type Session struct {
	IsAuthenticated bool
	PrincipalEmail  string
}

// Provider is the authentication provider of one console.
type Provider interface {
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	OnStateChange(fn func(auth.State)) func()
}

// Loader is a collection view that can be (re)loaded.
type Loader interface {
	Load(ctx context.Context) error
}

type Notifier interface {
	Success(message string) string
	Error(message string) string
}

type Gatekeeper struct {
	provider Provider
	shell    ui.Shell
	confirm  ui.Confirmer
	toasts   Notifier
	log      *zap.Logger

	mu          sync.RWMutex
	session     Session
	loaders     []Loader
	ctx         context.Context
	unsubscribe func()
	started     bool
}

func NewGatekeeper(provider Provider, shell ui.Shell, confirm ui.Confirmer, toasts Notifier, log *zap.Logger) *Gatekeeper {
	return &Gatekeeper{
		provider: provider,
		shell:    shell,
		confirm:  confirm,
		toasts:   toasts,
		log:      log.Named("gatekeeper"),
	}
}

// SetLoaders names the views loaded on unlock. Call it before Start.
func (g *Gatekeeper) SetLoaders(loaders ...Loader) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loaders = loaders
}

// Start subscribes to the provider. The provider reports the current state
// right away, so the first view is drawn before Start returns. Loads
// triggered by the subscription run under ctx. Later calls do nothing.
func (g *Gatekeeper) Start(ctx context.Context) {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		return
	}
	g.started = true
	g.ctx = ctx
	g.mu.Unlock()

	unsubscribe := g.provider.OnStateChange(g.onStateChange)

	g.mu.Lock()
	g.unsubscribe = unsubscribe
	g.mu.Unlock()
}

// Stop ends the subscription.
func (g *Gatekeeper) Stop() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Session returns a copy of the current session.
func (g *Gatekeeper) Session() Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

// Unlocked reports whether an admin is signed in.
func (g *Gatekeeper) Unlocked() bool {
	return g.Session().IsAuthenticated
}

func (g *Gatekeeper) onStateChange(s auth.State) {
	if !s.SignedIn() {
		g.mu.Lock()
		g.session = Session{}
		g.mu.Unlock()

		g.shell.SetSessionToken("")
		g.shell.ShowLogin()
		return
	}

	g.mu.Lock()
	g.session = Session{IsAuthenticated: true, PrincipalEmail: s.Principal.Email}
	ctx := g.ctx
	g.mu.Unlock()

	g.log.Info("unlocked", zap.String("email", s.Principal.Email))
	g.shell.SetSessionToken(s.Token)
	g.shell.ShowDashboard(s.Principal.Email)
	g.loadAll(ctx)
}

// loadAll runs every loader in parallel. A failed load has already been
// reported by its view and does not stop the others.
func (g *Gatekeeper) loadAll(ctx context.Context) {
	g.mu.RLock()
	loaders := g.loaders
	g.mu.RUnlock()

	var eg errgroup.Group
	for _, l := range loaders {
		l := l
		eg.Go(func() error {
			return l.Load(ctx)
		})
	}
	if err := eg.Wait(); err != nil {
		g.log.Warn("initial load incomplete", zap.Error(err))
	}
}

// Login signs in. The view switch happens in the state observer.
func (g *Gatekeeper) Login(ctx context.Context, email, password string) error {
	if err := g.provider.SignIn(ctx, email, password); err != nil {
		g.log.Info("login failed", zap.String("email", email), zap.Error(err))
		g.shell.SetLoginError("Invalid Email or Password.")
		g.toasts.Error("Login Failed")
		return err
	}

	g.shell.SetLoginError("")
	g.toasts.Success("Welcome back, Principal.")
	return nil
}

// Logout signs out after the operator confirms.
func (g *Gatekeeper) Logout(ctx context.Context) error {
	if !g.Unlocked() {
		return ErrNotSignedIn
	}
	if !g.confirm.Confirm(ctx, "Are you sure you want to logout?") {
		return ui.ErrCancelled
	}

	if err := g.provider.SignOut(ctx); err != nil {
		g.log.Error("logout failed", zap.Error(err))
		g.toasts.Error("Logout failed")
		return err
	}

	g.toasts.Success("Logged out successfully.")
	return nil
}
