package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"blog_system/internal/api"        // Custom package for API handlers
	"blog_system/internal/config"     // Custom package for configuration
	"blog_system/internal/middleware" // Custom package for middleware

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client for the revocable token store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Public routes: registration, login, article and category lists
	r.POST("/users", api.RegisterHandler(db))                      // Registration endpoint
	r.POST("/login", api.LoginHandler(db, redisClient, cfg.JWTSecret)) // Login endpoint
	r.GET("/articles", api.ListArticlesHandler(db))                // Filtered article list
	r.GET("/categories", api.ListCategoriesHandler(db))            // Category list

	// Authenticated routes (protected by the bearer-token middleware)
	authGroup := r.Group("")
	// Protect routes with the JWT middleware and inject the Redis client into context
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	authGroup.GET("/articles/:id", api.ArticleDetailHandler(db))                 // Article detail endpoint
	authGroup.POST("/articles", api.CreateArticleHandler(db, cfg.UploadDir))     // HR-gated article creation
	authGroup.PUT("/articles/:id", api.UpdateArticleHandler(db, cfg.UploadDir))  // Owner-gated article update
	authGroup.DELETE("/articles/:id", api.DeleteArticleHandler(db))              // Owner-gated article deletion
	authGroup.POST("/comments", api.CreateCommentHandler(db))                    // Comment creation
	authGroup.PUT("/comments/:id", api.UpdateCommentHandler(db))                 // Owner-gated comment update
	authGroup.DELETE("/comments/:id", api.DeleteCommentHandler(db))              // Owner-gated comment deletion
	authGroup.POST("/likes", api.CreateLikeHandler(db))                          // Like creation
	authGroup.POST("/shares", api.CreateShareHandler(db))                        // Share creation
	authGroup.GET("/liked", api.ListLikedArticlesHandler(db))                    // Actor's liked articles
	authGroup.GET("/users", api.ListUsersHandler(db))                            // User list projection
	authGroup.GET("/users/:id", api.UserDetailHandler(db))                       // User detail projection
	authGroup.DELETE("/users/:id", api.DeleteUserHandler(db))                    // Self-only account deletion
	authGroup.POST("/logout", api.LogoutHandler())                               // Token revocation

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
