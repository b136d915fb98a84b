package cms

import (
	"time"

	"SchoolCMS/internal/docstore"
	"SchoolCMS/internal/records"
)

const (
	NoticesCollection      = "notices"
	AchievementsCollection = "achievements"
	PrincipalCollection    = "principalMessage"

	// PrincipalMessageID is the fixed id of the only principal's message.
	PrincipalMessageID = "main_message"
)

// Priority of a notice. Only high changes how a notice is shown.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Marker is the label rendered next to the notice title.
func (p Priority) Marker() string {
	if p == PriorityHigh {
		return "(HIGH)"
	}
	return ""
}

// Notice is an entry on the notice board, listed by date, newest first.
type Notice struct {
	ID        string    `json:"id"`
	TitleEn   string    `json:"title_en"`
	TitleHi   string    `json:"title_hi,omitempty"`
	Link      string    `json:"link,omitempty"`
	Date      string    `json:"date"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// NoticeInput is the notice form as submitted.
type NoticeInput struct {
	TitleEn  string   `json:"title_en"`
	TitleHi  string   `json:"title_hi"`
	Link     string   `json:"link"`
	Date     string   `json:"date"`
	Priority Priority `json:"priority"`
}

func (in NoticeInput) fields() docstore.Fields {
	return docstore.Fields{
		"title_en": in.TitleEn,
		"title_hi": in.TitleHi,
		"link":     in.Link,
		"date":     in.Date,
		"priority": string(in.Priority),
	}
}

func noticeFromDocument(d docstore.Document) Notice {
	return Notice{
		ID:        d.ID,
		TitleEn:   d.String("title_en"),
		TitleHi:   d.String("title_hi"),
		Link:      d.String("link"),
		Date:      d.String("date"),
		Priority:  Priority(d.String("priority")),
		CreatedAt: d.Time(records.CreatedAtField),
	}
}

// Achievement is listed newest first by its server creation time.
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// AchievementInput is the achievement form as submitted.
type AchievementInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (in AchievementInput) fields() docstore.Fields {
	return docstore.Fields{
		"title":       in.Title,
		"description": in.Description,
	}
}

func achievementFromDocument(d docstore.Document) Achievement {
	return Achievement{
		ID:          d.ID,
		Title:       d.String("title"),
		Description: d.String("description"),
		CreatedAt:   d.Time(records.CreatedAtField),
	}
}

// PrincipalMessage is the singleton stored under PrincipalMessageID.
type PrincipalMessage struct {
	Name      string    `json:"name"`
	MessageEn string    `json:"message_en"`
	MessageHi string    `json:"message_hi,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PrincipalInput is the principal's form as submitted.
type PrincipalInput struct {
	Name      string `json:"name"`
	MessageEn string `json:"message_en"`
	MessageHi string `json:"message_hi"`
}

func (in PrincipalInput) fields() docstore.Fields {
	return docstore.Fields{
		"name":       in.Name,
		"message_en": in.MessageEn,
		"message_hi": in.MessageHi,
	}
}

// principalFromDocument maps a missing record to the empty message.
func principalFromDocument(d *docstore.Document) PrincipalMessage {
	if d == nil {
		return PrincipalMessage{}
	}
	return PrincipalMessage{
		Name:      d.String("name"),
		MessageEn: d.String("message_en"),
		MessageHi: d.String("message_hi"),
		UpdatedAt: d.Time(records.UpdatedAtField),
	}
}
