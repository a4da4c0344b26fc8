package api

import (
	"fmt"           // Image filename formatting
	"net/http"      // HTTP status codes
	"path/filepath" // Upload path handling
	"strconv"       // String conversion
	"strings"       // String manipulation
	"time"          // Timestamps

	"blog_system/internal/domain"      // Importing domain models
	"blog_system/internal/permissions" // Authorization predicates

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// ArticleSummary is the narrow projection used for list views
type ArticleSummary struct {
	ID      uint      `json:"id"`      // Article ID
	Title   string    `json:"title"`   // Title
	Image   string    `json:"image"`   // Image path
	Created time.Time `json:"created"` // Publication date
}

// CommentResponse is a comment with its author shown by username
type CommentResponse struct {
	ID      uint      `json:"id"`      // Comment ID
	Text    string    `json:"text"`    // Body
	Author  *string   `json:"author"`  // Username, null if the author was removed
	Created time.Time `json:"created"` // Creation date
}

// EngagementResponse is a like or share record with its user shown by username
type EngagementResponse struct {
	User    *string   `json:"user"`    // Username, null if the user was removed
	Created time.Time `json:"created"` // Creation timestamp
}

// ArticleDetailResponse is the full projection returned by the detail view
type ArticleDetailResponse struct {
	ID          uint                 `json:"id"`           // Article ID
	Title       string               `json:"title"`        // Title
	Text        string               `json:"text"`         // Body
	Author      *string              `json:"author"`       // Author username, null if removed
	Category    *string              `json:"category"`     // Category name, null if none
	Comments    []CommentResponse    `json:"comments"`     // Nested comments
	Image       string               `json:"image"`        // Image path
	Created     time.Time            `json:"created"`      // Publication date
	LikesCount  int                  `json:"likes_count"`  // Derived from like rows
	SharesCount int                  `json:"shares_count"` // Derived from share rows
	Likes       []EngagementResponse `json:"likes"`        // Full like records
	Shares      []EngagementResponse `json:"shares"`       // Full share records
}

// containsPattern builds a case-insensitive LIKE pattern for substring matching
func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// summarize maps articles to the narrow list projection
func summarize(articles []domain.Article) []ArticleSummary {
	resp := make([]ArticleSummary, len(articles)) // Prepare response data
	// Map articles to the list projection
	for i, a := range articles {
		resp[i] = ArticleSummary{
			ID:      a.ID,      // Article ID
			Title:   a.Title,   // Title
			Image:   a.Image,   // Image path
			Created: a.Created, // Publication date
		}
	}
	return resp
}

// ListArticlesHandler returns the article list projection.
// The category/name/text filters are independently optional, match
// case-insensitive substrings and combine with logical AND.
func ListArticlesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Select article columns only so joined tables cannot shadow them
		query := db.Model(&domain.Article{}).Select("articles.*")
		if category := c.Query("category"); category != "" {
			// Filter on the related category name
			query = query.Joins("LEFT JOIN categories ON categories.id = articles.category_id").
				Where("LOWER(categories.name) LIKE ?", containsPattern(category))
		}
		if name := c.Query("name"); name != "" {
			query = query.Where("LOWER(articles.title) LIKE ?", containsPattern(name)) // Filter by title
		}
		if text := c.Query("text"); text != "" {
			query = query.Where("LOWER(articles.text) LIKE ?", containsPattern(text)) // Filter by body
		}
		var articles []domain.Article // Slice to hold articles
		if err := query.Find(&articles).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"articles": summarize(articles)}) // Return the list projection
	}
}

// ArticleDetailHandler returns the full article projection, including nested
// comments, the derived like/share counts and the full engagement records
func ArticleDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authentication is required for the detail view
		if _, ok := currentUser(c, db); !ok {
			return
		}
		id, ok := pathID(c) // Parse the article ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		var article domain.Article // Article struct to hold data
		// Load the article with all relations needed by the projection
		if err := db.Preload("Author").
			Preload("Category").
			Preload("Comments.Author").
			Preload("Likes.User").
			Preload("Shares.User").
			First(&article, id).Error; err != nil {
			// Unknown ID
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		// Map nested comments with authors shown by username
		comments := make([]CommentResponse, len(article.Comments))
		for i, cm := range article.Comments {
			comments[i] = CommentResponse{
				ID:      cm.ID,                 // Comment ID
				Text:    cm.Text,               // Body
				Author:  usernameOf(cm.Author), // Author username
				Created: cm.Created,            // Creation date
			}
		}
		// Map like and share records with users shown by username
		likes := make([]EngagementResponse, len(article.Likes))
		for i, l := range article.Likes {
			likes[i] = EngagementResponse{User: usernameOf(l.User), Created: l.Created}
		}
		shares := make([]EngagementResponse, len(article.Shares))
		for i, s := range article.Shares {
			shares[i] = EngagementResponse{User: usernameOf(s.User), Created: s.Created}
		}
		// Category is shown by name, null when unset
		var categoryName *string
		if article.Category != nil {
			categoryName = &article.Category.Name
		}
		// Return the full projection; counts are derived from the loaded rows
		c.JSON(http.StatusOK, ArticleDetailResponse{
			ID:          article.ID,                // Article ID
			Title:       article.Title,             // Title
			Text:        article.Text,              // Body
			Author:      usernameOf(article.Author), // Author username
			Category:    categoryName,              // Category name
			Comments:    comments,                  // Nested comments
			Image:       article.Image,             // Image path
			Created:     article.Created,           // Publication date
			LikesCount:  len(likes),                // Derived count
			SharesCount: len(shares),               // Derived count
			Likes:       likes,                     // Full like records
			Shares:      shares,                    // Full share records
		})
	}
}

// validateArticleFields checks the write-time length bounds; the returned
// message is empty when the fields are valid
func validateArticleFields(title, text string) string {
	if title == "" {
		return "Title is required"
	}
	if len(title) > domain.TitleMaxLen {
		return "Title must be at most 100 characters"
	}
	if text == "" {
		return "Text is required"
	}
	if len(text) > domain.ArticleTextMaxLen {
		return "Text must be at most 500 characters"
	}
	return ""
}

// saveArticleImage stores the uploaded image under the upload root and
// returns the stored relative path; the placeholder is used when no file
// was attached to the request
func saveArticleImage(c *gin.Context, uploadDir string) (string, error) {
	file, err := c.FormFile("image") // Request-scoped upload data
	if err != nil {
		return domain.DefaultImage, nil // No image attached, use the placeholder
	}
	// Prefix with a timestamp so uploads never collide
	name := fmt.Sprintf("logos/%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, name)); err != nil {
		return "", err // Blob store failure
	}
	return name, nil
}

// CreateArticleHandler publishes a new article. Creation is role-gated:
// only HR users may publish. The author is always the requesting actor.
func CreateArticleHandler(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		// Role-gated creation, evaluated before any side effect
		if !permissions.CanCreateArticle(actor) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only HR users may publish articles"})
			return
		}
		title := strings.TrimSpace(c.PostForm("title")) // Title form field
		text := c.PostForm("text")                      // Body form field
		// Validate length bounds
		if msg := validateArticleFields(title, text); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		// Resolve the optional category reference
		var categoryID *uint
		if s := c.PostForm("category"); s != "" {
			id, err := strconv.Atoi(s) // Parse the category ID
			if err != nil || id <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
				return
			}
			var category domain.Category // Verify the category exists
			if err := db.First(&category, id).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
				return
			}
			categoryID = &category.ID
		}
		// Store the uploaded image, or fall back to the placeholder
		image, err := saveArticleImage(c, uploadDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
		// The author is the requesting actor, never taken from the request body
		article := domain.Article{
			Title:      title,     // Title
			Text:       text,      // Body
			AuthorID:   &actor.ID, // Owning user
			CategoryID: categoryID,
			Image:      image, // Stored image path
		}
		// Save the new article
		if err := db.Create(&article).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": actor.ID,    // Acting user
				"error":   err.Error(), // Error message
			}).Error("Failed to create article") // Log failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
			return
		}
		// Log successful publication
		logrus.WithFields(logrus.Fields{
			"user_id":    actor.ID,   // Acting user
			"article_id": article.ID, // New article ID
		}).Info("Article published")
		// Return the new article
		c.JSON(http.StatusCreated, gin.H{
			"id":      article.ID,      // Article ID
			"title":   article.Title,   // Title
			"text":    article.Text,    // Body
			"author":  actor.Username,  // Author username
			"image":   article.Image,   // Image path
			"created": article.Created, // Publication date
		})
	}
}

// UpdateArticleHandler edits an article. Only the owner may mutate, and only
// fields that do not change the ownership basis are writable: the author
// reference cannot be reassigned through this endpoint, and the publication
// date is immutable.
func UpdateArticleHandler(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		id, ok := pathID(c) // Parse the article ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		var article domain.Article // Load the existing article
		if err := db.First(&article, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		// Ownership check against the current author, before any write
		if !permissions.CanMutate(actor, article.AuthorID, c.Request.Method) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author may edit this article"})
			return
		}
		updates := map[string]any{} // Collect the writable fields present in the request
		if title := strings.TrimSpace(c.PostForm("title")); title != "" {
			if len(title) > domain.TitleMaxLen {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Title must be at most 100 characters"})
				return
			}
			updates["title"] = title // New title
		}
		if text := c.PostForm("text"); text != "" {
			if len(text) > domain.ArticleTextMaxLen {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Text must be at most 500 characters"})
				return
			}
			updates["text"] = text // New body
		}
		if s := c.PostForm("category"); s != "" {
			catID, err := strconv.Atoi(s) // Parse the category ID
			if err != nil || catID <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
				return
			}
			var category domain.Category // Verify the category exists
			if err := db.First(&category, catID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
				return
			}
			updates["category_id"] = category.ID // New category reference
		}
		// Replace the image only when a new file was attached
		if _, err := c.FormFile("image"); err == nil {
			image, err := saveArticleImage(c, uploadDir)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
				return
			}
			updates["image"] = image // New image path
		}
		// Apply the collected updates
		if len(updates) > 0 {
			if err := db.Model(&article).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update article"})
				return
			}
		}
		// Return the updated article
		c.JSON(http.StatusOK, gin.H{
			"id":      article.ID,      // Article ID
			"title":   article.Title,   // Title
			"text":    article.Text,    // Body
			"image":   article.Image,   // Image path
			"created": article.Created, // Publication date, unchanged
		})
	}
}

// DeleteArticleHandler removes an article and everything that depends on it.
// Only the owner may delete. Comments, likes and shares are removed in the
// same transaction so no orphan rows survive the article.
func DeleteArticleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db) // Load the authenticated actor
		if !ok {
			return
		}
		id, ok := pathID(c) // Parse the article ID
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		var article domain.Article // Load the existing article
		if err := db.First(&article, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
			return
		}
		// Ownership check against the current author, before any write
		if !permissions.CanMutate(actor, article.AuthorID, c.Request.Method) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author may delete this article"})
			return
		}
		// Transactional cascade delete
		err := db.Transaction(func(tx *gorm.DB) error {
			// Remove dependent comments
			if err := tx.Where("article_id = ?", article.ID).Delete(&domain.Comment{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Remove dependent likes
			if err := tx.Where("article_id = ?", article.ID).Delete(&domain.Like{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Remove dependent shares
			if err := tx.Where("article_id = ?", article.ID).Delete(&domain.Share{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Remove the article itself
			if err := tx.Delete(&article).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id":    actor.ID,    // Acting user
				"article_id": article.ID,  // Article ID
				"error":      err.Error(), // Error message
			}).Error("Article delete failed")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete article"})
			return
		}
		// Log successful deletion
		logrus.WithFields(logrus.Fields{
			"user_id":    actor.ID,   // Acting user
			"article_id": article.ID, // Deleted article ID
		}).Info("Article deleted")
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
	}
}
