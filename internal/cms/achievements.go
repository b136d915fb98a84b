package cms

import (
	"context"

	"SchoolCMS/internal/docstore"
	"SchoolCMS/internal/records"
	"SchoolCMS/internal/ui"
)

// AchievementsController adds, lists and deletes achievements. The list is
// ordered by the server creation time so the newest entry is always first.
type AchievementsController struct {
	Deps
	list *listView
}

func NewAchievementsController(deps Deps) *AchievementsController {
	c := &AchievementsController{Deps: deps}
	c.list = &listView{
		Deps:       deps,
		collection: AchievementsCollection,
		sortField:  records.CreatedAtField,
		region:     ui.RegionAchievements,
		emptyText:  "No achievements recorded.",
		errorText:  "Error loading achievements",
		toItem:     c.item,
	}
	return c
}

func (c *AchievementsController) Create(ctx context.Context, in AchievementInput) error {
	if !c.Gate.Unlocked() {
		return ErrLocked
	}

	if _, err := c.Repo.Create(ctx, AchievementsCollection, in.fields()); err != nil {
		c.Toasts.Error("Error adding achievement")
		return err
	}

	c.Toasts.Success("Achievement Added")
	c.Shell.ResetForm(ui.FormAchievement)
	return c.Load(ctx)
}

func (c *AchievementsController) Load(ctx context.Context) error {
	return c.list.refresh(ctx)
}

func (c *AchievementsController) Delete(ctx context.Context, id string) error {
	if !c.Gate.Unlocked() {
		return ErrLocked
	}
	if !c.Confirm.Confirm(ctx, "Delete this achievement?") {
		return ui.ErrCancelled
	}

	if err := c.Repo.Delete(ctx, AchievementsCollection, id); err != nil {
		c.Toasts.Error("Error deleting")
		return err
	}

	c.Toasts.Success("Achievement Deleted")
	return c.Load(ctx)
}

func (c *AchievementsController) item(d docstore.Document) ui.Item {
	a := achievementFromDocument(d)
	id := a.ID
	return ui.Item{
		ID:       id,
		Title:    a.Title,
		Subtitle: a.Description,
		OnDelete: func(ctx context.Context) { _ = c.Delete(ctx, id) },
	}
}
