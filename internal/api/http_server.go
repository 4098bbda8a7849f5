package api

import (
	"strings"
	"time"

	"lenshive/internal/auth"
	"lenshive/internal/cache"
	"lenshive/internal/config"
	"lenshive/internal/model"
	"lenshive/internal/service"
	"lenshive/internal/storage"
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	authManager       *auth.Manager
	tokens            *cache.TokenStore

	// 服务层
	catalog *service.CatalogService
}

// NewHTTPHandler 创建 HTTP 处理器实例。tokens 可以为 nil，此时注销是无状态的。
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, tokens *cache.TokenStore) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	handler := &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		tokens:            tokens,
		catalog:           service.NewCatalogService(repo, store),
	}

	return handler, nil
}

// normalisePublicBase 规范化公共 URL 基础路径
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/media"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
