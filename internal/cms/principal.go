package cms

import (
	"context"
	"sync"

	"SchoolCMS/internal/ui"

	"go.uber.org/zap"
)

// PrincipalController edits the principal's message in place. There is no
// create path: every submit merges into the fixed record.
type PrincipalController struct {
	Deps
	mu     sync.Mutex
	latest uint64
}

func NewPrincipalController(deps Deps) *PrincipalController {
	return &PrincipalController{Deps: deps}
}

// Load fills the form from the stored message. A message that was never
// saved fills every field with "".
func (c *PrincipalController) Load(ctx context.Context) error {
	if !c.Gate.Unlocked() {
		return ErrLocked
	}

	c.mu.Lock()
	c.latest++
	token := c.latest
	c.mu.Unlock()

	doc, err := c.Repo.FetchSingleton(ctx, PrincipalCollection, PrincipalMessageID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.latest {
		return nil
	}
	if err != nil {
		c.Toasts.Error("Error loading principal's message")
		return err
	}
	if doc == nil {
		c.Log.Info("no principal message stored yet")
	}

	msg := principalFromDocument(doc)
	c.Shell.FillForm(ui.FormPrincipal, map[string]string{
		"name":       msg.Name,
		"message_en": msg.MessageEn,
		"message_hi": msg.MessageHi,
	})
	return nil
}

// Submit stores the form over the existing message.
func (c *PrincipalController) Submit(ctx context.Context, in PrincipalInput) error {
	if !c.Gate.Unlocked() {
		return ErrLocked
	}

	if err := c.Repo.UpsertSingleton(ctx, PrincipalCollection, PrincipalMessageID, in.fields()); err != nil {
		c.Log.Warn("principal message not saved", zap.Error(err))
		c.Toasts.Error("Error updating message")
		return err
	}

	c.Toasts.Success("Principal's Message Updated")
	return nil
}
