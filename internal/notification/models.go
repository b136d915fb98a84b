package notification

// Severity picks the toast style.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Toast is one ephemeral notification shown to the operator.
type Toast struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Renderer draws toasts. A toast goes through ShowToast, FadeToast and
// RemoveToast, in that order.
type Renderer interface {
	ShowToast(t Toast)
	FadeToast(id string)
	RemoveToast(id string)
}
