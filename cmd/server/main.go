package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lenshive/internal/api"
	"lenshive/internal/cache"
	"lenshive/internal/config"
	"lenshive/internal/model"
	"lenshive/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// 本地开发时从 .env 读取配置，文件不存在不算错误
	_ = godotenv.Load()

	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	// 初始化logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}

	if err := model.SeedDefaultAdmin(context.Background(), repo, cfg); err != nil {
		logrus.WithError(err).Warn("failed to seed default admin")
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise storage")
		return
	}

	// 会话缓存是可选的：redis 不可用时注销退化为无状态
	tokens, err := cache.NewTokenStore(cfg)
	if err != nil {
		logrus.WithError(err).Warn("failed to connect redis, logout revocation disabled")
		tokens = nil
	}

	httpHandler, err := api.NewHTTPHandler(cfg, repo, store, tokens)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", httpHandler.Register)
	authGroup.POST("/login", httpHandler.Login)
	authGroup.POST("/logout", httpHandler.AuthMiddleware(), httpHandler.Logout)
	authGroup.GET("/verify", httpHandler.AuthMiddleware(), httpHandler.Verify)
	authGroup.PUT("/profile", httpHandler.AuthMiddleware(), httpHandler.UpdateProfile)

	userAdmin := authGroup.Group("/users")
	userAdmin.Use(httpHandler.AuthMiddleware(), httpHandler.RequireAdmin())
	userAdmin.GET("", httpHandler.ListUsers)
	userAdmin.POST("", httpHandler.CreateUser)
	userAdmin.GET("/:id", httpHandler.GetUser)
	userAdmin.PATCH("/:id", httpHandler.UpdateUser)
	userAdmin.DELETE("/:id", httpHandler.DeleteUser)

	products := apiGroup.Group("/products")
	products.GET("", httpHandler.ListProducts)
	products.GET("/:id", httpHandler.GetProduct)

	catalogAdmin := apiGroup.Group("/products")
	catalogAdmin.Use(httpHandler.AuthMiddleware(), httpHandler.RequireStaff())
	catalogAdmin.POST("", httpHandler.CreateProduct)
	catalogAdmin.PUT("/:id", httpHandler.UpdateProduct)
	catalogAdmin.PATCH("/:id", httpHandler.UpdateProduct)
	catalogAdmin.DELETE("/:id", httpHandler.DeleteProduct)
	catalogAdmin.POST("/:id/images", httpHandler.AddProductImage)
	catalogAdmin.POST("/:id/images/delete", httpHandler.DeleteProductImage)
	catalogAdmin.POST("/:id/images/set_primary", httpHandler.SetPrimaryImage)

	if localProvider, ok := store.(storage.LocalBaseDirProvider); ok {
		publicPrefix := strings.TrimSpace(cfg.StoragePublicBaseURL)
		if publicPrefix == "" {
			publicPrefix = "/media"
		}
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			if !strings.HasPrefix(publicPrefix, "/") {
				publicPrefix = "/" + publicPrefix
			}
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logger.WithField("host", serverHost).Info("服务器启动")
	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  300 * time.Second,
	}
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("服务器启动失败")
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
