package api

import (
	"net/http" // HTTP status codes
	"time"     // Last-login projection

	"blog_system/internal/domain"      // Importing domain models
	"blog_system/internal/permissions" // Authorization predicates
	"blog_system/internal/utils"       // Session utilities

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// UserSummary is the narrow projection used for the user list
type UserSummary struct {
	Username  string     `json:"username"`   // Username
	LastLogin *time.Time `json:"last_login"` // Last login timestamp
}

// UserDetailResponse is the projection returned by the user detail view;
// the password hash never appears in any projection
type UserDetailResponse struct {
	FirstName string `json:"first_name"` // First name
	LastName  string `json:"last_name"`  // Last name
	Username  string `json:"username"`   // Username
	IsActive  bool   `json:"is_active"`  // Activity flag
	Email     string `json:"email"`      // Contact email
}

// ListUsersHandler returns the user list projection
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authentication is required for the user list
		if _, ok := currentUser(c, db); !ok {
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.Find(&users).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		// Map users to the narrow projection
		resp := make([]UserSummary, len(users))
		for i, u := range users {
			resp[i] = UserSummary{
				Username:  u.Username,  // Username
				LastLogin: u.LastLogin, // Last login timestamp
			}
		}
		c.JSON(http.StatusOK, gin.H{"users": resp}) // Return the list projection
	}
}

// UserDetailHandler returns the detail projection for a single user
func UserDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authentication is required for the detail view
		if _, ok := currentUser(c, db); !ok {
			return
		}
		id, ok := pathID(c) // Parse the user ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		var user domain.User // Fetch the target user
		if err := db.First(&user, id).Error; err != nil {
			// Unknown ID
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Return the detail projection
		c.JSON(http.StatusOK, UserDetailResponse{
			FirstName: user.FirstName, // First name
			LastName:  user.LastName,  // Last name
			Username:  user.Username,  // Username
			IsActive:  user.IsActive,  // Activity flag
			Email:     user.Email,     // Contact email
		})
	}
}

// DeleteUserHandler removes an account. Ownership generalizes to "self":
// a user may delete only their own account. Authored articles and comments
// survive with a nullified author; the user's likes and shares are removed.
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		id, ok := pathID(c) // Parse the user ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		var target domain.User // Fetch the target user
		if err := db.First(&target, id).Error; err != nil {
			// Unknown ID
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Self-only deletion, evaluated before any write
		if !permissions.CanMutate(actor, &target.ID, c.Request.Method) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the account owner may delete it"})
			return
		}
		// Transactional removal: authored content is orphaned, engagement is deleted
		err := db.Transaction(func(tx *gorm.DB) error {
			// Nullify authorship on articles; the articles survive
			if err := tx.Model(&domain.Article{}).Where("author_id = ?", target.ID).
				Update("author_id", nil).Error; err != nil {
				return err // Return error to rollback
			}
			// Nullify authorship on comments; the comments survive
			if err := tx.Model(&domain.Comment{}).Where("author_id = ?", target.ID).
				Update("author_id", nil).Error; err != nil {
				return err // Return error to rollback
			}
			// Likes and shares are actor-bound, they go with the account
			if err := tx.Where("user_id = ?", target.ID).Delete(&domain.Like{}).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Where("user_id = ?", target.ID).Delete(&domain.Share{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Remove the account itself
			if err := tx.Delete(&target).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": target.ID,   // Deleted account
				"error":   err.Error(), // Error message
			}).Error("User delete failed")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		// Revoke the deleted account's bearer token
		if v, ok := c.Get("redisClient"); ok {
			if rdb, ok := v.(*redis.Client); ok {
				_ = utils.DeleteSession(c.Request.Context(), rdb, target.ID)
			}
		}
		// Log successful deletion
		logrus.WithFields(logrus.Fields{
			"user_id":  target.ID,       // Deleted account
			"username": target.Username, // Username
		}).Info("User deleted")
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
