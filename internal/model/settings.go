package model

import "time"

// DefaultHeartbeatWindowHours seeds the settings singleton on first read
const DefaultHeartbeatWindowHours = 24.0

// SystemSettings is the singleton configuration document. Exactly one
// instance exists; it is created with defaults on first access.
type SystemSettings struct {
	ID                   string    `json:"-" bson:"_id,omitempty"`
	HeartbeatWindowHours float64   `json:"heartbeat_window" bson:"heartbeatWindowHours"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updatedAt"`
}
