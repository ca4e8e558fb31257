package domain

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationFailure NotificationLevel = "danger"
	NotificationWarning NotificationLevel = "warning"
)

// Notification is a user-facing outcome of one operation.
type Notification struct {
	Level   NotificationLevel
	Op      string
	Message string
}
