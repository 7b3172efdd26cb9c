package notification

import "time"

// DefaultIconPath is the packaged icon checked before showing a notification.
const DefaultIconPath = "icons/128.png"

// Notification is a best-effort user notice.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IconPath  string    `json:"-"`
	IconURL   string    `json:"icon_url"`
	CreatedAt time.Time `json:"created_at"`
}
