// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// FeatureCount is the number of positional slots every prediction carries.
const FeatureCount = 21

type User struct {
	Id           uuid.UUID
	Username     string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time

	// Insertion order is chronological order.
	Predictions []PredictionRecord
}

// PredictionRecord is never addressed on its own, it only lives inside a User.
type PredictionRecord struct {
	InputFeatures  Features
	PredictedLabel int
	Message        string
	CreatedAt      time.Time
}

// LastPrediction returns the newest record, or nil for an empty history.
func (u *User) LastPrediction() *PredictionRecord {
	if u == nil || len(u.Predictions) == 0 {
		return nil
	}
	return &u.Predictions[len(u.Predictions)-1]
}

type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// Authenticated reports whether the session is bound to a username.
func (s *Session) Authenticated() bool {
	return s != nil && s.Username != ""
}
