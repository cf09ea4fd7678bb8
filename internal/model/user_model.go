package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName  string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	Predictions []Prediction `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// Prediction rows are append-only; Seq gives the chronological order.
type Prediction struct {
	Seq            uint64         `gorm:"primaryKey;autoIncrement"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	InputFeatures  datatypes.JSON `gorm:"not null"`
	PredictedLabel int            `gorm:"not null"`
	Message        string         `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (Prediction) TableName() string {
	return "predictions"
}
