package models

import "time"

// Follow is a directed edge: user wants author's posts in their feed.
// The composite unique index makes duplicate edges impossible at the
// database level; inserts go through ON CONFLICT DO NOTHING.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
