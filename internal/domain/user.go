package domain

import "time"

// User roles
const (
	RoleHR      = "HR"      // HR users may publish articles
	RoleRegular = "REGULAR" // Regular users may read, comment, like and share
)

// User Model
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`            // Primary key
	Username  string     `gorm:"unique;not null" json:"username"` // Unique username, stored lowercase
	Password  string     `gorm:"not null" json:"-"`               // Hashed password, never serialized
	Role      string     `gorm:"default:REGULAR" json:"role"`     // Role: HR or REGULAR
	Email     string     `json:"email"`                           // Contact email
	FirstName string     `json:"first_name"`                      // First name
	LastName  string     `json:"last_name"`                       // Last name
	IsActive  bool       `gorm:"default:true" json:"is_active"`   // Soft deactivation flag
	LastLogin *time.Time `json:"last_login"`                      // Stamped on each successful login
}
