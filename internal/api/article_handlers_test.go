package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"blog_system/internal/domain"

	"github.com/gin-gonic/gin"
)

type articleListBody struct {
	Articles []ArticleSummary `json:"articles"`
}

// GET /articles?name=
func TestListArticlesHandler_NameFilter(t *testing.T) {
	db := setupTestDB(t)
	hr := seedUser(t, db, "author", domain.RoleHR)
	seedArticle(t, db, "Alpha", "first", &hr.ID)
	seedArticle(t, db, "Beta", "second", &hr.ID)
	seedArticle(t, db, "Alphabet", "third", &hr.ID)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/articles", ListArticlesHandler(db))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/articles?name=alpha", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var body articleListBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(body.Articles))
	}
	titles := map[string]bool{}
	for _, a := range body.Articles {
		titles[a.Title] = true
	}
	if !titles["Alpha"] || !titles["Alphabet"] {
		t.Errorf("expected Alpha and Alphabet, got %v", titles)
	}
}

// GET /articles with AND-combined filters
func TestListArticlesHandler_CombinedFilters(t *testing.T) {
	db := setupTestDB(t)
	hr := seedUser(t, db, "author", domain.RoleHR)
	golang := seedCategory(t, db, "Golang")
	cooking := seedCategory(t, db, "Cooking")
	inGo := seedArticle(t, db, "Alpha release", "channels everywhere", &hr.ID)
	db.Model(&inGo).Update("category_id", golang.ID)
	inCooking := seedArticle(t, db, "Alpha bread", "flour and water", &hr.ID)
	db.Model(&inCooking).Update("category_id", cooking.ID)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/articles", ListArticlesHandler(db))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/articles?name=alpha&category=golang", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var body articleListBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(body.Articles) != 1 || body.Articles[0].Title != "Alpha release" {
		t.Errorf("expected only the Golang article, got %v", body.Articles)
	}
}

// Narrow list projection must not leak body text or author information
func TestListArticlesHandler_NarrowProjection(t *testing.T) {
	db := setupTestDB(t)
	hr := seedUser(t, db, "secretauthor", domain.RoleHR)
	seedArticle(t, db, "Alpha", "hiddenbodytext", &hr.ID)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/articles", ListArticlesHandler(db))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/articles", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if contains(w.Body.String(), "hiddenbodytext") || contains(w.Body.String(), "secretauthor") {
		t.Errorf("list projection leaked detail fields: %s", w.Body.String())
	}
}

// GET /articles/:id
func TestArticleDetailHandler(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "writer", domain.RoleHR)
	reader := seedUser(t, db, "reader", domain.RoleRegular)
	fan := seedUser(t, db, "fan", domain.RoleRegular)
	golang := seedCategory(t, db, "Golang")
	article := seedArticle(t, db, "Alpha", "body", &author.ID)
	db.Model(&article).Update("category_id", golang.ID)
	db.Create(&domain.Comment{Text: "nice one", AuthorID: &reader.ID, ArticleID: article.ID})
	db.Create(&domain.Like{UserID: reader.ID, ArticleID: article.ID})
	db.Create(&domain.Like{UserID: fan.ID, ArticleID: article.ID})
	db.Create(&domain.Share{UserID: fan.ID, ArticleID: article.ID})
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(reader))
	r.GET("/articles/:id", ArticleDetailHandler(db))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/articles/"+toStrUint(article.ID), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var body ArticleDetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.LikesCount != 2 || body.SharesCount != 1 {
		t.Errorf("expected counts 2/1, got %d/%d", body.LikesCount, body.SharesCount)
	}
	if len(body.Likes) != 2 || len(body.Shares) != 1 {
		t.Errorf("expected full like/share lists, got %d/%d", len(body.Likes), len(body.Shares))
	}
	if body.Author == nil || *body.Author != "writer" {
		t.Errorf("expected author username writer, got %v", body.Author)
	}
	if body.Category == nil || *body.Category != "Golang" {
		t.Errorf("expected category name Golang, got %v", body.Category)
	}
	if len(body.Comments) != 1 || body.Comments[0].Author == nil || *body.Comments[0].Author != "reader" {
		t.Errorf("expected nested comment by reader, got %v", body.Comments)
	}
}

// GET /articles/:id with an unknown id
func TestArticleDetailHandler_NotFound(t *testing.T) {
	db := setupTestDB(t)
	reader := seedUser(t, db, "reader", domain.RoleRegular)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(reader))
	r.GET("/articles/:id", ArticleDetailHandler(db))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/articles/9999", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

// POST /articles [forbidden for non-HR]
func TestCreateArticleHandler_ForbiddenForRegular(t *testing.T) {
	db := setupTestDB(t)
	regular := seedUser(t, db, "regular", domain.RoleRegular)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(regular))
	r.POST("/articles", CreateArticleHandler(db, t.TempDir()))
	body, contentType := multipartForm(t, map[string]string{"title": "Alpha", "text": "body"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/articles", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 Forbidden, got %d: %s", w.Code, w.Body.String())
	}
	var count int64
	db.Model(&domain.Article{}).Count(&count)
	if count != 0 {
		t.Error("rejected creation must not persist an article")
	}
}

// POST /articles [HR succeeds]
func TestCreateArticleHandler_HR(t *testing.T) {
	db := setupTestDB(t)
	hr := seedUser(t, db, "hruser", domain.RoleHR)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(hr))
	r.POST("/articles", CreateArticleHandler(db, t.TempDir()))
	body, contentType := multipartForm(t, map[string]string{"title": "Alpha", "text": "body"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/articles", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var article domain.Article
	if err := db.First(&article).Error; err != nil {
		t.Fatalf("article was not persisted: %v", err)
	}
	if article.AuthorID == nil || *article.AuthorID != hr.ID {
		t.Error("author must be the requesting actor")
	}
	if article.Image != domain.DefaultImage {
		t.Errorf("expected placeholder image, got %q", article.Image)
	}
}

// POST /articles with an over-long title
func TestCreateArticleHandler_TitleTooLong(t *testing.T) {
	db := setupTestDB(t)
	hr := seedUser(t, db, "hruser", domain.RoleHR)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(hr))
	r.POST("/articles", CreateArticleHandler(db, t.TempDir()))
	body, contentType := multipartForm(t, map[string]string{
		"title": strings.Repeat("x", 101),
		"text":  "body",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/articles", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// PUT /articles/:id [forbidden for non-owner, row unchanged]
func TestUpdateArticleHandler_NonOwnerForbidden(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner", domain.RoleHR)
	other := seedUser(t, db, "other", domain.RoleRegular)
	article := seedArticle(t, db, "Alpha", "body", &owner.ID)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(other))
	r.PUT("/articles/:id", UpdateArticleHandler(db, t.TempDir()))
	form := url.Values{"title": {"Hijacked"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/articles/"+toStrUint(article.ID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 Forbidden, got %d: %s", w.Code, w.Body.String())
	}
	var reloaded domain.Article
	db.First(&reloaded, article.ID)
	if reloaded.Title != "Alpha" {
		t.Errorf("article changed despite rejected authorization: %q", reloaded.Title)
	}
}

// PUT /articles/:id [owner succeeds, created stays put]
func TestUpdateArticleHandler_Owner(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner", domain.RoleHR)
	article := seedArticle(t, db, "Alpha", "body", &owner.ID)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(owner))
	r.PUT("/articles/:id", UpdateArticleHandler(db, t.TempDir()))
	form := url.Values{"title": {"Alpha v2"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/articles/"+toStrUint(article.ID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var reloaded domain.Article
	db.First(&reloaded, article.ID)
	if reloaded.Title != "Alpha v2" {
		t.Errorf("title was not updated: %q", reloaded.Title)
	}
	if reloaded.Created.Unix() != article.Created.Unix() {
		t.Error("publication date must stay immutable")
	}
	if reloaded.AuthorID == nil || *reloaded.AuthorID != owner.ID {
		t.Error("author must not change on update")
	}
}

// PUT /articles/:id on an article whose author was removed fails closed
func TestUpdateArticleHandler_OrphanedArticleForbidden(t *testing.T) {
	db := setupTestDB(t)
	actor := seedUser(t, db, "anyone", domain.RoleHR)
	article := seedArticle(t, db, "Orphan", "body", nil)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(actor))
	r.PUT("/articles/:id", UpdateArticleHandler(db, t.TempDir()))
	form := url.Values{"title": {"Claimed"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/articles/"+toStrUint(article.ID), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for orphaned article, got %d: %s", w.Code, w.Body.String())
	}
}

// DELETE /articles/:id removes all dependent rows
func TestDeleteArticleHandler_Cascades(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner", domain.RoleHR)
	reader := seedUser(t, db, "reader", domain.RoleRegular)
	article := seedArticle(t, db, "Alpha", "body", &owner.ID)
	db.Create(&domain.Comment{Text: "hello", AuthorID: &reader.ID, ArticleID: article.ID})
	db.Create(&domain.Like{UserID: reader.ID, ArticleID: article.ID})
	db.Create(&domain.Share{UserID: reader.ID, ArticleID: article.ID})
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(owner))
	r.DELETE("/articles/:id", DeleteArticleHandler(db))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/articles/"+toStrUint(article.ID), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var articles, comments, likes, shares int64
	db.Model(&domain.Article{}).Count(&articles)
	db.Model(&domain.Comment{}).Count(&comments)
	db.Model(&domain.Like{}).Count(&likes)
	db.Model(&domain.Share{}).Count(&shares)
	if articles != 0 || comments != 0 || likes != 0 || shares != 0 {
		t.Errorf("orphan rows remain: articles=%d comments=%d likes=%d shares=%d",
			articles, comments, likes, shares)
	}
}

// DELETE /articles/:id [forbidden for non-owner]
func TestDeleteArticleHandler_NonOwnerForbidden(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db, "owner", domain.RoleHR)
	other := seedUser(t, db, "other", domain.RoleRegular)
	article := seedArticle(t, db, "Alpha", "body", &owner.ID)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorContext(other))
	r.DELETE("/articles/:id", DeleteArticleHandler(db))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/articles/"+toStrUint(article.ID), nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 Forbidden, got %d: %s", w.Code, w.Body.String())
	}
	var count int64
	db.Model(&domain.Article{}).Count(&count)
	if count != 1 {
		t.Error("article must survive a rejected delete")
	}
}
