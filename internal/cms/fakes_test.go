package cms

import (
	"context"
	"errors"
	"sync"
	"time"

	"SchoolCMS/internal/docstore"
	"SchoolCMS/internal/records"
	"SchoolCMS/internal/ui"

	"go.uber.org/zap"
)

type shellEvent struct {
	kind    string
	region  ui.Region
	form    ui.Form
	items   []ui.Item
	message string
	values  map[string]string
}

type fakeShell struct {
	mu     sync.Mutex
	events []shellEvent
}

func (s *fakeShell) record(e shellEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *fakeShell) ShowDashboard(email string) {
	s.record(shellEvent{kind: "dashboard", message: email})
}
func (s *fakeShell) ShowLogin() {
	s.record(shellEvent{kind: "login"})
}
func (s *fakeShell) SetLoginError(msg string) {
	s.record(shellEvent{kind: "login_error", message: msg})
}
func (s *fakeShell) RenderLoading(r ui.Region) {
	s.record(shellEvent{kind: "loading", region: r})
}
func (s *fakeShell) RenderItems(r ui.Region, items []ui.Item) {
	s.record(shellEvent{kind: "items", region: r, items: items})
}
func (s *fakeShell) RenderEmpty(r ui.Region, msg string) {
	s.record(shellEvent{kind: "empty", region: r, message: msg})
}
func (s *fakeShell) RenderError(r ui.Region, msg string) {
	s.record(shellEvent{kind: "error", region: r, message: msg})
}
func (s *fakeShell) ResetForm(f ui.Form) {
	s.record(shellEvent{kind: "reset", form: f})
}
func (s *fakeShell) FillForm(f ui.Form, values map[string]string) {
	s.record(shellEvent{kind: "fill", form: f, values: values})
}
func (s *fakeShell) SetSessionToken(token string) {
	s.record(shellEvent{kind: "token", message: token})
}

func (s *fakeShell) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.kind)
	}
	return out
}

// last returns the most recent event of the given kind.
func (s *fakeShell) last(kind string) (shellEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].kind == kind {
			return s.events[i], true
		}
	}
	return shellEvent{}, false
}

func (s *fakeShell) count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(_ context.Context, prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type fakeToasts struct {
	mu      sync.Mutex
	success []string
	errors  []string
}

func (t *fakeToasts) Success(msg string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.success = append(t.success, msg)
	return "s"
}

func (t *fakeToasts) Error(msg string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, msg)
	return "e"
}

type fakeGate bool

func (g fakeGate) Unlocked() bool {
	return bool(g)
}

var errBackend = errors.New("backend unavailable")

// brokenStore fails every call.
type brokenStore struct{ docstore.MemoryStore }

func (*brokenStore) Insert(context.Context, string, docstore.Fields) (string, error) {
	return "", errBackend
}

func (*brokenStore) Query(context.Context, string, string, docstore.Direction) ([]docstore.Document, error) {
	return nil, errBackend
}

func (*brokenStore) Get(context.Context, string, string) (*docstore.Document, error) {
	return nil, errBackend
}

func (*brokenStore) DeleteByID(context.Context, string, string) error {
	return errBackend
}

func (*brokenStore) UpsertMerge(context.Context, string, string, docstore.Fields) error {
	return errBackend
}

// tickingClock advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type harness struct {
	store   docstore.Store
	shell   *fakeShell
	confirm *fakeConfirmer
	toasts  *fakeToasts
	deps    Deps
}

func newHarness(store docstore.Store, unlocked bool) *harness {
	h := &harness{
		store:   store,
		shell:   &fakeShell{},
		confirm: &fakeConfirmer{answer: true},
		toasts:  &fakeToasts{},
	}
	h.deps = Deps{
		Repo:    records.NewRepository(store, zap.NewNop()),
		Shell:   h.shell,
		Confirm: h.confirm,
		Toasts:  h.toasts,
		Gate:    fakeGate(unlocked),
		Log:     zap.NewNop(),
	}
	return h
}
