package models

import (
	"time"

	"github.com/locus/locus/pkg/window"
)

// WindowChange is one emitted active-window-title event
type WindowChange struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Timestamp     time.Time `gorm:"not null;index" json:"timestamp"`
	Class         string    `gorm:"not null;index" json:"class"`
	Title         string    `gorm:"not null" json:"title"`
	DisplayServer string    `gorm:"not null;default:''" json:"display_server"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Info returns the window the change describes
func (c *WindowChange) Info() window.WindowInfo {
	return window.WindowInfo{Class: c.Class, Title: c.Title}
}
