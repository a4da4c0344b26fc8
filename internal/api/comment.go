package api

import (
	"net/http" // HTTP status codes

	"blog_system/internal/domain"      // Importing domain models
	"blog_system/internal/permissions" // Authorization predicates

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Request struct for comment creation
type CreateCommentRequest struct {
	Text    string `json:"text" binding:"required"`    // Comment body
	Article uint   `json:"article" binding:"required"` // Parent article ID
}

// Request struct for comment update; only the text is writable
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"` // New comment body
}

// CreateCommentHandler adds a comment to an article. The author is always
// the requesting actor; an author field in the request body is ignored.
func CreateCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		var req CreateCommentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text and article are required"})
			return
		}
		// Validate length bound
		if len(req.Text) > domain.CommentTextMaxLen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text must be at most 300 characters"})
			return
		}
		var article domain.Article // Resolve the parent article
		if err := db.First(&article, req.Article).Error; err != nil {
			// Unknown article reference
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		// The author is the requesting actor
		comment := domain.Comment{
			Text:      req.Text,   // Body
			AuthorID:  &actor.ID,  // Owning user
			ArticleID: article.ID, // Parent article
		}
		// Save the new comment
		if err := db.Create(&comment).Error; err != nil {
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
			return
		}
		// Return the new comment with the author shown by username
		c.JSON(http.StatusCreated, CommentResponse{
			ID:      comment.ID,       // Comment ID
			Text:    comment.Text,     // Body
			Author:  &actor.Username,  // Author username
			Created: comment.Created,  // Creation date
		})
	}
}

// UpdateCommentHandler edits a comment's text; only the owner may mutate
func UpdateCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		id, ok := pathID(c) // Parse the comment ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		var comment domain.Comment // Load the existing comment
		if err := db.First(&comment, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		// Ownership check against the current author, before any write
		if !permissions.CanMutate(actor, comment.AuthorID, c.Request.Method) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author may edit this comment"})
			return
		}
		var req UpdateCommentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
			return
		}
		// Validate length bound
		if len(req.Text) > domain.CommentTextMaxLen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text must be at most 300 characters"})
			return
		}
		// Apply the text update; the author and dates stay untouched
		if err := db.Model(&comment).Update("text", req.Text).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
			return
		}
		// Return the updated comment
		c.JSON(http.StatusOK, CommentResponse{
			ID:      comment.ID,             // Comment ID
			Text:    comment.Text,           // Updated body
			Author:  usernameOf(actor),      // Author username
			Created: comment.Created,        // Creation date, unchanged
		})
	}
}

// DeleteCommentHandler removes a comment; only the owner may delete
func DeleteCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		id, ok := pathID(c) // Parse the comment ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		var comment domain.Comment // Load the existing comment
		if err := db.First(&comment, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		// Ownership check against the current author, before any write
		if !permissions.CanMutate(actor, comment.AuthorID, c.Request.Method) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author may delete this comment"})
			return
		}
		// Remove the comment
		if err := db.Delete(&comment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
	}
}
