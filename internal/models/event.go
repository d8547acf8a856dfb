package models

import "time"

// Event represents an auditable action in the system.
type Event struct {
	ID        string    `json:"id" bson:"_id"`
	Type      string    `json:"type" bson:"type"`   // e.g., "user.registered", "auth.login_failed"
	Level     string    `json:"level" bson:"level"` // e.g., "info", "warn"
	Message   string    `json:"message" bson:"message"`
	Username  string    `json:"username,omitempty" bson:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
