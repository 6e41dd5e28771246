package transition

import "github.com/google/uuid"

type Level string

const (
	LevelSuccess = Level("success")
	LevelInfo    = Level("info")
	LevelWarning = Level("warning")
	LevelError   = Level("error")
)

// Notification is a user-facing message produced by one transition.
type Notification struct {
	ID      string
	Level   Level
	Message string
}

func newNotification(level Level, message string) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
	}
}
