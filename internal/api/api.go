package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"blog_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// currentUser loads the authenticated actor's user row. The JWT middleware
// stores the userID in the context; the row is re-read per request so role
// and activity changes take effect immediately.
func currentUser(c *gin.Context, db *gorm.DB) (*domain.User, bool) {
	userID, exists := c.Get("userID") // Get userID from context
	// Check if userID exists in context
	if !exists {
		// If not, respond with unauthorized status
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	var user domain.User // Fetch user from database
	if err := db.First(&user, userID).Error; err != nil {
		// The token refers to a user that no longer exists
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	return &user, true
}

// pathID parses the numeric :id path parameter; ok is false for garbage input
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id")) // Parse the path parameter
	if err != nil || id <= 0 {
		return 0, false // Not a valid resource ID
	}
	return uint(id), true
}

// usernameOf returns the username for an optional user reference.
// A nil user (removed author) serializes as null, never as an empty name.
func usernameOf(u *domain.User) *string {
	if u == nil {
		return nil // Author was removed
	}
	return &u.Username
}
