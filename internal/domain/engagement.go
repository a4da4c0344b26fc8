package domain

import "time"

// Like Model: a user may like a given article at most once
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                  // Primary key
	UserID    uint      `gorm:"uniqueIndex:idx_like_user_article;not null" json:"-"`   // Acting user
	User      *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`                 // Cascade-deleted with the user
	ArticleID uint      `gorm:"uniqueIndex:idx_like_user_article;not null" json:"-"`   // Liked article
	Created   time.Time `gorm:"autoCreateTime" json:"created"`                         // Creation timestamp
}

// Share Model: same constraints as Like, independent uniqueness
type Share struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                  // Primary key
	UserID    uint      `gorm:"uniqueIndex:idx_share_user_article;not null" json:"-"`  // Acting user
	User      *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`                 // Cascade-deleted with the user
	ArticleID uint      `gorm:"uniqueIndex:idx_share_user_article;not null" json:"-"`  // Shared article
	Created   time.Time `gorm:"autoCreateTime" json:"created"`                         // Creation timestamp
}
