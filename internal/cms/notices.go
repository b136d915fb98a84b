package cms

import (
	"context"

	"SchoolCMS/internal/docstore"
	"SchoolCMS/internal/ui"
)

// NoticesController publishes, lists and deletes notices.
type NoticesController struct {
	Deps
	list *listView
}

func NewNoticesController(deps Deps) *NoticesController {
	c := &NoticesController{Deps: deps}
	c.list = &listView{
		Deps:       deps,
		collection: NoticesCollection,
		sortField:  "date",
		region:     ui.RegionNotices,
		emptyText:  "No notices found.",
		errorText:  "Error loading notices",
		toItem:     c.item,
	}
	return c
}

// Create publishes a notice, clears the form and reloads the list.
func (c *NoticesController) Create(ctx context.Context, in NoticeInput) error {
	if !c.Gate.Unlocked() {
		return ErrLocked
	}

	if _, err := c.Repo.Create(ctx, NoticesCollection, in.fields()); err != nil {
		c.Toasts.Error("Error publishing notice")
		return err
	}

	c.Toasts.Success("Notice Published Successfully")
	c.Shell.ResetForm(ui.FormNotice)
	return c.Load(ctx)
}

// Load renders all notices, newest date first.
func (c *NoticesController) Load(ctx context.Context) error {
	return c.list.refresh(ctx)
}

// Delete removes a notice after the operator confirms.
func (c *NoticesController) Delete(ctx context.Context, id string) error {
	if !c.Gate.Unlocked() {
		return ErrLocked
	}
	if !c.Confirm.Confirm(ctx, "Are you sure you want to delete this notice?") {
		return ui.ErrCancelled
	}

	if err := c.Repo.Delete(ctx, NoticesCollection, id); err != nil {
		c.Toasts.Error("Error deleting notice")
		return err
	}

	c.Toasts.Success("Notice Deleted")
	return c.Load(ctx)
}

func (c *NoticesController) item(d docstore.Document) ui.Item {
	n := noticeFromDocument(d)
	id := n.ID
	return ui.Item{
		ID:       id,
		Heading:  n.Date,
		Title:    n.TitleEn,
		Subtitle: n.TitleHi,
		Marker:   n.Priority.Marker(),
		OnDelete: func(ctx context.Context) { _ = c.Delete(ctx, id) },
	}
}
