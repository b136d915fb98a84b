// Package cms holds the collection controllers of the console: notices, the
// principal's message and achievements. Each one validates nothing beyond
// what the form already enforces, writes through the record repository and
// re-reads its collection after every change.
package cms

import (
	"context"
	"errors"
	"sync"

	"SchoolCMS/internal/docstore"
	"SchoolCMS/internal/records"
	"SchoolCMS/internal/ui"

	"go.uber.org/zap"
)

// ErrLocked is returned when a controller is used without a session.
var ErrLocked = errors.New("session is locked")

// Gate reports whether the session is unlocked.
type Gate interface {
	Unlocked() bool
}

// Notifier raises toasts.
type Notifier interface {
	Success(message string) string
	Error(message string) string
}

// Deps are shared by the controllers of one console.
type Deps struct {
	Repo    *records.Repository
	Shell   ui.Shell
	Confirm ui.Confirmer
	Toasts  Notifier
	Gate    Gate
	Log     *zap.Logger
}

// listView refreshes one list region from one collection. Every refresh takes
// a token; a result that comes back after a newer refresh was issued is
// dropped. The token check and the render happen under mu so a stale result
// can never paint over a newer one.
type listView struct {
	Deps
	collection string
	sortField  string
	region     ui.Region
	emptyText  string
	errorText  string
	toItem     func(docstore.Document) ui.Item

	mu     sync.Mutex
	latest uint64
}

func (v *listView) refresh(ctx context.Context) error {
	if !v.Gate.Unlocked() {
		return ErrLocked
	}

	v.mu.Lock()
	v.latest++
	token := v.latest
	v.Shell.RenderLoading(v.region)
	v.mu.Unlock()

	docs, err := v.Repo.ListOrdered(ctx, v.collection, v.sortField, docstore.Descending)

	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.latest {
		v.Log.Debug("dropping stale listing", zap.String("collection", v.collection), zap.Uint64("token", token))
		return nil
	}
	if err != nil {
		v.Shell.RenderError(v.region, v.errorText)
		v.Toasts.Error(v.errorText)
		return err
	}
	if len(docs) == 0 {
		v.Shell.RenderEmpty(v.region, v.emptyText)
		return nil
	}

	items := make([]ui.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, v.toItem(d))
	}
	v.Shell.RenderItems(v.region, items)
	return nil
}
