package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Client is the provider as one console sees it. It holds that console's
// session and tells observers about every change.
type Client struct {
	svc *Service

	mu        sync.Mutex
	state     State
	observers map[int]func(State)
	nextID    int
}

func NewClient(svc *Service) *Client {
	return &Client{svc: svc, observers: make(map[int]func(State))}
}

// OnStateChange registers fn. fn is called once right away with the current
// state, then after every sign-in and sign-out. The returned func removes it.
func (c *Client) OnStateChange(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	current := c.state
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Client) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) SignIn(ctx context.Context, email, password string) error {
	prev := c.Current().Token
	p, token, err := c.svc.SignIn(ctx, Credential{Email: email, Password: password})
	if err != nil {
		return err
	}
	c.set(State{Principal: p, Token: token})
	c.retire(ctx, prev, token)
	return nil
}

// Resume restores a session from a token the browser kept.
func (c *Client) Resume(ctx context.Context, token string) error {
	prev := c.Current().Token
	p, err := c.svc.Resume(ctx, token)
	if err != nil {
		return err
	}
	c.set(State{Principal: p, Token: token})
	c.retire(ctx, prev, token)
	return nil
}

// retire revokes the session a console held before it switched to a new one.
func (c *Client) retire(ctx context.Context, prev, next string) {
	if prev == "" || prev == next {
		return
	}
	if err := c.svc.SignOut(ctx, prev); err != nil {
		c.svc.log.Warn("previous session not revoked", zap.Error(err))
	}
}

// SignOut ends the session. The state only changes if the revoke succeeded.
func (c *Client) SignOut(ctx context.Context) error {
	token := c.Current().Token
	if token != "" {
		if err := c.svc.SignOut(ctx, token); err != nil {
			return err
		}
	}
	c.set(State{})
	return nil
}

func (c *Client) set(s State) {
	c.mu.Lock()
	c.state = s
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
