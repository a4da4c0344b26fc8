package api

import (
	"net/http" // HTTP status codes

	"blog_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for like/share creation; any user field in the body is
// ignored, the acting user is always taken from the token
type EngagementRequest struct {
	Article uint `json:"article" binding:"required"` // Target article ID
}

// CreateLikeHandler records that the actor liked an article.
// A user may like a given article at most once.
func CreateLikeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		var req EngagementRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Article is required"})
			return
		}
		var article domain.Article // Resolve the target article
		if err := db.First(&article, req.Article).Error; err != nil {
			// Unknown article reference
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		// Friendly duplicate check before insert
		var existing int64
		db.Model(&domain.Like{}).
			Where("user_id = ? AND article_id = ?", actor.ID, article.ID).
			Count(&existing)
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Article already liked"})
			return
		}
		// The acting user is forced server-side
		like := domain.Like{UserID: actor.ID, ArticleID: article.ID}
		if err := db.Create(&like).Error; err != nil {
			// The unique (user, article) index is the arbiter under concurrent
			// duplicate requests; a constraint violation here is still a conflict
			c.JSON(http.StatusConflict, gin.H{"error": "Article already liked"})
			return
		}
		// Log the engagement
		logrus.WithFields(logrus.Fields{
			"user_id":    actor.ID,   // Acting user
			"article_id": article.ID, // Liked article
		}).Info("Article liked")
		// Return the new like record
		c.JSON(http.StatusCreated, gin.H{
			"user":    actor.Username, // Acting username
			"article": article.ID,     // Liked article ID
			"created": like.Created,   // Creation timestamp
		})
	}
}

// CreateShareHandler records that the actor shared an article.
// Same contract as likes, with independent uniqueness.
func CreateShareHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		var req EngagementRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Article is required"})
			return
		}
		var article domain.Article // Resolve the target article
		if err := db.First(&article, req.Article).Error; err != nil {
			// Unknown article reference
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		// Friendly duplicate check before insert
		var existing int64
		db.Model(&domain.Share{}).
			Where("user_id = ? AND article_id = ?", actor.ID, article.ID).
			Count(&existing)
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Article already shared"})
			return
		}
		// The acting user is forced server-side
		share := domain.Share{UserID: actor.ID, ArticleID: article.ID}
		if err := db.Create(&share).Error; err != nil {
			// Constraint violation under concurrent duplicates is still a conflict
			c.JSON(http.StatusConflict, gin.H{"error": "Article already shared"})
			return
		}
		// Log the engagement
		logrus.WithFields(logrus.Fields{
			"user_id":    actor.ID,   // Acting user
			"article_id": article.ID, // Shared article
		}).Info("Article shared")
		// Return the new share record
		c.JSON(http.StatusCreated, gin.H{
			"user":    actor.Username, // Acting username
			"article": article.ID,     // Shared article ID
			"created": share.Created,  // Creation timestamp
		})
	}
}

// ListLikedArticlesHandler returns the list projection of every article
// the actor has liked
func ListLikedArticlesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		var articles []domain.Article // Slice to hold liked articles
		// Join through the like rows of the actor; select article columns
		// only so the like columns cannot shadow them
		if err := db.Model(&domain.Article{}).Select("articles.*").
			Joins("JOIN likes ON likes.article_id = articles.id").
			Where("likes.user_id = ?", actor.ID).
			Find(&articles).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch liked articles"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"articles": summarize(articles)}) // Return the list projection
	}
}
