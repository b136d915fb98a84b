// Package console assembles one admin console per connected page: its auth
// client, gatekeeper, controllers and toast sink. Nothing is shared between
// consoles except Deps.
package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"SchoolCMS/internal/auth"
	"SchoolCMS/internal/cms"
	"SchoolCMS/internal/notification"
	"SchoolCMS/internal/records"
	"SchoolCMS/internal/session"
	"SchoolCMS/internal/ui"

	"go.uber.org/zap"
)

// Deps are built once at startup and shared by every console.
type Deps struct {
	Repo         *records.Repository
	Auth         *auth.Service
	Log          *zap.Logger
	ToastOptions []notification.Option
}

// Page is everything a console draws on.
type Page interface {
	ui.Shell
	ui.Confirmer
	notification.Renderer
}

type Console struct {
	auth  *auth.Client
	sink  *notification.Sink
	gate  *session.Gatekeeper
	log   *zap.Logger
	toast cms.Notifier

	notices      *cms.NoticesController
	principal    *cms.PrincipalController
	achievements *cms.AchievementsController
}

func New(deps Deps, page Page) (*Console, error) {
	sink, err := notification.NewSink(page, deps.ToastOptions...)
	if err != nil {
		return nil, err
	}

	log := deps.Log.Named("console")
	client := auth.NewClient(deps.Auth)
	gate := session.NewGatekeeper(client, page, page, sink, log)

	ctrl := cms.Deps{
		Repo:    deps.Repo,
		Shell:   page,
		Confirm: page,
		Toasts:  sink,
		Gate:    gate,
		Log:     log,
	}
	c := &Console{
		auth:         client,
		sink:         sink,
		gate:         gate,
		log:          log,
		toast:        sink,
		notices:      cms.NewNoticesController(ctrl),
		principal:    cms.NewPrincipalController(ctrl),
		achievements: cms.NewAchievementsController(ctrl),
	}
	gate.SetLoaders(c.notices, c.principal, c.achievements)
	return c, nil
}

// Start resumes the session named by token, if any, then hands control to
// the gatekeeper. A token whose session is gone starts the console locked.
func (c *Console) Start(ctx context.Context, token string) {
	if token != "" {
		if err := c.auth.Resume(ctx, token); err != nil {
			c.log.Info("session not resumed", zap.Error(err))
		}
	}
	c.gate.Start(ctx)
}

// Handle runs one operator command. Outcomes reach the operator through the
// page; errors here are only logged.
func (c *Console) Handle(ctx context.Context, msgType string, payload json.RawMessage) {
	err := c.dispatch(ctx, msgType, payload)
	switch {
	case err == nil, errors.Is(err, ui.ErrCancelled):
	case errors.Is(err, cms.ErrLocked), errors.Is(err, session.ErrNotSignedIn):
		c.log.Warn("command refused while locked", zap.String("type", msgType))
	default:
		c.log.Debug("command failed", zap.String("type", msgType), zap.Error(err))
	}
}

func (c *Console) dispatch(ctx context.Context, msgType string, payload json.RawMessage) error {
	switch msgType {
	case ui.LoginType:
		var p ui.LoginPayload
		if err := decode(payload, &p); err != nil {
			return c.badRequest(msgType, err)
		}
		return c.gate.Login(ctx, p.Email, p.Password)

	case ui.LogoutType:
		return c.gate.Logout(ctx)

	case ui.CreateNoticeType:
		var in cms.NoticeInput
		if err := decode(payload, &in); err != nil {
			return c.badRequest(msgType, err)
		}
		return c.notices.Create(ctx, in)

	case ui.CreateAchievementType:
		var in cms.AchievementInput
		if err := decode(payload, &in); err != nil {
			return c.badRequest(msgType, err)
		}
		return c.achievements.Create(ctx, in)

	case ui.SavePrincipalType:
		var in cms.PrincipalInput
		if err := decode(payload, &in); err != nil {
			return c.badRequest(msgType, err)
		}
		return c.principal.Submit(ctx, in)
	}

	c.log.Warn("unknown command", zap.String("type", msgType))
	return nil
}

func (c *Console) badRequest(msgType string, err error) error {
	c.log.Warn("malformed command", zap.String("type", msgType), zap.Error(err))
	c.toast.Error("Invalid request")
	return err
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(payload, v)
}

// Session exposes the gatekeeper's session.
func (c *Console) Session() session.Session {
	return c.gate.Session()
}

func (c *Console) Close() {
	c.gate.Stop()
	c.sink.Close()
}

// Opener builds a console for every page that connects to the hub. The page
// may pass ?token= to resume its session.
func Opener(deps Deps) ui.OpenFunc {
	return func(client *ui.Client, r *http.Request) (ui.Handler, error) {
		c, err := New(deps, client)
		if err != nil {
			return nil, err
		}
		c.Start(client.Context(), r.URL.Query().Get("token"))
		return c, nil
	}
}
