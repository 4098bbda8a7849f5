package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"lenshive/internal/entity"
	"lenshive/internal/service"
	"lenshive/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddProductImage 给商品追加一张图片。既支持 multipart 文件上传，也支持
// JSON 内联 base64/data URL。is_primary 为真时新图立即成为主图；商品此前
// 没有图片时无论如何新图都是主图。
func (h *HTTPHandler) AddProductImage(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var upload service.ImageUpload
	primaryIndex := -1

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/") {
		file, err := c.FormFile("image")
		if err != nil {
			MissingField(c, "image")
			return
		}
		data, err := readMultipartFile(file)
		if err != nil {
			logrus.WithError(err).WithField("filename", file.Filename).Warn("failed to read uploaded file")
			BadRequest(c, ErrCodeInvalidRequest, "failed to read uploaded file")
			return
		}
		upload = service.ImageUpload{
			Data:      data,
			Extension: strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), "."),
		}
		if value, exists := c.GetPostForm("is_primary"); exists && isTruthy(value) {
			primaryIndex = 0
		}
	} else {
		var req entity.ImageAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			InvalidPayload(c)
			return
		}
		data, ext, err := utils.DecodeMediaPayload(req.Image)
		if err != nil {
			BadRequest(c, ErrCodeInvalidRequest, "invalid image payload")
			return
		}
		upload = service.ImageUpload{Data: data, Extension: ext}
		if req.IsPrimary {
			primaryIndex = 0
		}
	}

	if len(upload.Data) == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "empty image payload")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.catalog.StoreProductImages(ctx, productID, []service.ImageUpload{upload}, primaryIndex); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to store product image")
		InternalError(c, "failed to store product image")
		return
	}

	product, err := h.repo.GetProduct(ctx, productID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload product after image upload")
		InternalError(c, "failed to load product")
		return
	}

	c.JSON(http.StatusCreated, h.makeProductView(product))
}

// DeleteProductImage 删除一张图片。删除主图时最新的剩余图片顶上。
func (h *HTTPHandler) DeleteProductImage(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req entity.ImageActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.catalog.DeleteProductImage(ctx, productID, req.ImageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeImageNotFound, "image not found")
			return
		}
		logrus.WithError(err).Error("failed to delete product image")
		InternalError(c, "failed to delete product image")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetPrimaryImage 把指定图片设为主图，之前的主图自动让位。
func (h *HTTPHandler) SetPrimaryImage(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req entity.ImageActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.catalog.SetPrimaryImage(ctx, productID, req.ImageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeImageNotFound, "image not found")
			return
		}
		logrus.WithError(err).Error("failed to set primary image")
		InternalError(c, "failed to set primary image")
		return
	}

	product, err := h.repo.GetProduct(ctx, productID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload product after primary change")
		InternalError(c, "failed to load product")
		return
	}

	c.JSON(http.StatusOK, h.makeProductView(product))
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
