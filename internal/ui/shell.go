// Package ui is the console's view of the browser page: the Shell interface
// the controllers draw on, and a WebSocket implementation of it.
package ui

import (
	"context"
	"errors"
)

// Region names a list container on the page.
type Region string

const (
	RegionNotices      Region = "notice-list-container"
	RegionAchievements Region = "achieve-list-container"
)

// Form names an input form on the page.
type Form string

const (
	FormLogin       Form = "login-form"
	FormNotice      Form = "notice-form"
	FormPrincipal   Form = "principal-form"
	FormAchievement Form = "achieve-form"
)

// ErrCancelled is returned by operations the operator declined to confirm.
var ErrCancelled = errors.New("cancelled by operator")

// Item is one rendered list entry. OnDelete is bound to this entry only and
// carries its id in the closure.
type Item struct {
	ID       string `json:"id"`
	Heading  string `json:"heading,omitempty"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Marker   string `json:"marker,omitempty"`

	OnDelete func(ctx context.Context) `json:"-"`
}

// Shell is what the console reads from and writes to on the page. Every list
// render replaces the whole region.
type Shell interface {
	ShowDashboard(email string)
	ShowLogin()
	SetLoginError(message string)
	RenderLoading(region Region)
	RenderItems(region Region, items []Item)
	RenderEmpty(region Region, message string)
	RenderError(region Region, message string)
	ResetForm(form Form)
	FillForm(form Form, values map[string]string)
	SetSessionToken(token string)
}

// Confirmer asks the operator a yes/no question. It blocks only the caller.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}
