package api

import (
	"bytes"
	"mime/multipart"
	"strconv"
	"strings"
	"testing"

	"blog_system/internal/domain"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens the shared in-memory sqlite database, migrates all models
// and clears any rows left over from earlier tests.
func setupTestDB(t *testing.T) *gorm.DB {
	dbConn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Article{},
		&domain.Comment{},
		&domain.Like{},
		&domain.Share{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	resetTables(t, dbConn)
	return dbConn
}

func resetTables(t *testing.T, db *gorm.DB) {
	for _, table := range []string{"likes", "shares", "comments", "articles", "categories", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to reset %s table: %v", table, err)
		}
	}
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) domain.User {
	u := domain.User{Username: username, Password: "hash", Role: role, IsActive: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func seedCategory(t *testing.T, db *gorm.DB, name string) domain.Category {
	cat := domain.Category{Name: name, Description: name + " articles"}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return cat
}

func seedArticle(t *testing.T, db *gorm.DB, title, text string, authorID *uint) domain.Article {
	a := domain.Article{Title: title, Text: text, AuthorID: authorID, Image: domain.DefaultImage}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("failed to seed article: %v", err)
	}
	return a
}

// actorContext pre-seeds the authenticated user the way the JWT middleware does
func actorContext(u domain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", u.ID)
		c.Next()
	}
}

// multipartForm builds a multipart request body from plain fields
func multipartForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("failed to build form: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close form writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func toStrUint(x uint) string {
	return strconv.Itoa(int(x))
}
