package domain

// Category Model
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`           // Primary key
	Name        string `gorm:"size:100;not null" json:"name"`  // Category name
	Description string `gorm:"size:300" json:"description"`    // Short description
}
