// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a local projection of an identity-provider account. Rows exist so
// posts, comments and follows have a foreign key target; credentials never
// reach this service.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
