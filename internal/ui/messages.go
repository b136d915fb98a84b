package ui

import "encoding/json"

// Inbound message types, sent by the page.
const (
	LoginType             = "LOGIN"
	LogoutType            = "LOGOUT"
	CreateNoticeType      = "CREATE_NOTICE"
	CreateAchievementType = "CREATE_ACHIEVEMENT"
	SavePrincipalType     = "SAVE_PRINCIPAL"
	ActionType            = "ACTION"        // invoke an action bound to a rendered item
	ConfirmReplyType      = "CONFIRM_REPLY" // answer to a CONFIRM
)

// Outbound message types, sent to the page.
const (
	ShowDashboardType = "SHOW_DASHBOARD"
	ShowLoginType     = "SHOW_LOGIN"
	LoginErrorType    = "LOGIN_ERROR"
	ListLoadingType   = "LIST_LOADING"
	ListItemsType     = "LIST_ITEMS"
	ListEmptyType     = "LIST_EMPTY"
	ListErrorType     = "LIST_ERROR"
	FormResetType     = "FORM_RESET"
	FormFillType      = "FORM_FILL"
	SessionTokenType  = "SESSION_TOKEN"
	ToastType         = "TOAST"
	ToastFadeType     = "TOAST_FADE"
	ToastRemoveType   = "TOAST_REMOVE"
	ConfirmType       = "CONFIRM"
)

// WSMessage is the frame exchanged in both directions.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ActionPayload struct {
	ActionID string `json:"action_id"`
}

type ConfirmPayload struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

type ConfirmReplyPayload struct {
	ID        string `json:"id"`
	Confirmed bool   `json:"confirmed"`
}

// RegionPayload carries every LIST_* message.
type RegionPayload struct {
	Region  Region     `json:"region"`
	Items   []WireItem `json:"items,omitempty"`
	Message string     `json:"message,omitempty"`
}

// WireItem is an Item as the page sees it. DeleteAction is the id to send
// back in an ACTION message.
type WireItem struct {
	Item
	DeleteAction string `json:"delete_action,omitempty"`
}

type FormPayload struct {
	Form   Form              `json:"form"`
	Values map[string]string `json:"values,omitempty"`
}
