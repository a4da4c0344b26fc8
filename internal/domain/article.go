package domain

import "time"

// Field length bounds enforced at write time
const (
	TitleMaxLen       = 100 // Article title
	ArticleTextMaxLen = 500 // Article body
	CommentTextMaxLen = 300 // Comment body
)

// DefaultImage is the placeholder path used when no image was uploaded
const DefaultImage = "logos/default.png"

// Article Model
type Article struct {
	ID         uint      `gorm:"primaryKey" json:"id"`                                // Primary key
	Title      string    `gorm:"size:100;not null" json:"title"`                      // Title, at most 100 characters
	Text       string    `gorm:"size:500;not null" json:"text"`                       // Body, at most 500 characters
	AuthorID   *uint     `json:"-"`                                                   // Nullable: removing the author keeps the article
	Author     *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"` // Owning user
	CategoryID *uint     `json:"-"`                                                   // Optional category reference
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"` // Category relation
	Image      string    `gorm:"default:logos/default.png" json:"image"`              // Blob path, placeholder by default
	Created    time.Time `gorm:"autoCreateTime" json:"created"`                       // Publication date, immutable once set
	Comments   []Comment `gorm:"constraint:OnDelete:CASCADE;" json:"-"`               // Cascade-deleted with the article
	Likes      []Like    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`               // Cascade-deleted with the article
	Shares     []Share   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`               // Cascade-deleted with the article
}
