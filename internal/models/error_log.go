package models

import (
	"time"
)

// ErrorLog records a failure that the stream survived, such as a sink that
// could not accept an event
type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Source    string    `gorm:"not null;default:''" json:"source"`
	ErrorMsg  string    `gorm:"not null" json:"error_msg"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
