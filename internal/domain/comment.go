package domain

import "time"

// Comment Model
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`          // Primary key
	Text      string    `gorm:"size:300;not null" json:"text"` // Body, at most 300 characters
	AuthorID  *uint     `json:"-"`                             // Nullable: removing the author keeps the comment
	Author    *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"` // Owning user
	ArticleID uint      `gorm:"not null" json:"-"`             // Parent article
	Created   time.Time `gorm:"autoCreateTime" json:"created"` // Creation date
}
