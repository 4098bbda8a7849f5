package api

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lenshive/internal/entity"
	"lenshive/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListProducts 公共商品列表，支持分类/品牌/关键字等过滤。
func (h *HTTPHandler) ListProducts(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "product repository not available")
		return
	}

	var query entity.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}
	if query.PageSize > 100 {
		query.PageSize = 100
	}
	if !entity.ValidProductCategory(query.Category) {
		BadRequest(c, ErrCodeInvalidCategory, "unknown category")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, meta, err := h.repo.ListProducts(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list products")
		InternalError(c, "failed to load products")
		return
	}

	response := entity.ProductListResponse{
		Products: make([]entity.ProductView, 0, len(products)),
		Meta:     meta,
	}
	for idx := range products {
		response.Products = append(response.Products, h.makeProductView(&products[idx]))
	}

	c.JSON(http.StatusOK, response)
}

// GetProduct 公共商品详情。
func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to load product")
		InternalError(c, "failed to load product")
		return
	}

	c.JSON(http.StatusOK, h.makeProductView(product))
}

// CreateProduct 通过 multipart 表单创建商品，可同时上传图片。
// 第一张上传的图片成为主图。
func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		MissingField(c, "name")
		return
	}

	priceValue := strings.TrimSpace(c.PostForm("price"))
	if priceValue == "" {
		MissingField(c, "price")
		return
	}
	price, err := strconv.ParseFloat(priceValue, 64)
	if err != nil || price < 0 {
		BadRequest(c, ErrCodeInvalidRequest, "price must be a non-negative number")
		return
	}

	product := &entity.DbProduct{
		Name:        name,
		Description: strings.TrimSpace(c.PostForm("description")),
		Price:       price,
		Brand:       strings.TrimSpace(c.PostForm("brand")),
		FrameColors: entity.ParseTokenList(c.PostForm("frame_colors")),
		Sizes:       entity.ParseTokenList(c.PostForm("sizes")),
		LensOptions: entity.ParseTokenList(c.PostForm("lens_options")),
		IsAvailable: true,
	}

	category := strings.TrimSpace(c.PostForm("category"))
	if !entity.ValidProductCategory(category) {
		BadRequest(c, ErrCodeInvalidCategory, "unknown category")
		return
	}
	product.Category = category

	if stockValue := strings.TrimSpace(c.PostForm("stock")); stockValue != "" {
		stock, err := strconv.Atoi(stockValue)
		if err != nil || stock < 0 {
			BadRequest(c, ErrCodeInvalidRequest, "stock must be a non-negative integer")
			return
		}
		product.Stock = stock
	}

	if ratingValue := strings.TrimSpace(c.PostForm("rating")); ratingValue != "" {
		rating, err := strconv.ParseFloat(ratingValue, 64)
		if err != nil || rating < 0 || rating > 5 {
			BadRequest(c, ErrCodeInvalidRequest, "rating must be between 0 and 5")
			return
		}
		product.Rating = &rating
	}

	if reviewValue := strings.TrimSpace(c.PostForm("review_count")); reviewValue != "" {
		reviews, err := strconv.Atoi(reviewValue)
		if err != nil || reviews < 0 {
			BadRequest(c, ErrCodeInvalidRequest, "review_count must be a non-negative integer")
			return
		}
		product.ReviewCount = reviews
	}

	for _, flag := range []struct {
		field  string
		target *bool
	}{
		{"is_bestseller", &product.IsBestseller},
		{"is_new", &product.IsNew},
		{"is_available", &product.IsAvailable},
	} {
		if value, exists := c.GetPostForm(flag.field); exists {
			parsed, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				BadRequest(c, ErrCodeInvalidRequest, flag.field+" must be a boolean")
				return
			}
			*flag.target = parsed
		}
	}

	uploads, ok := h.readImageUploads(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.catalog.CreateProduct(ctx, product, uploads); err != nil {
		logrus.WithError(err).Error("failed to create product")
		InternalError(c, "failed to create product")
		return
	}

	created, err := h.repo.GetProduct(ctx, product.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload created product")
		InternalError(c, "failed to load product")
		return
	}

	c.JSON(http.StatusCreated, h.makeProductView(created))
}

// UpdateProduct 部分更新，只写提交了的字段。新上传的图片追加到现有图集。
func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	updates := entity.ProductUpdates{}

	if value, exists := c.GetPostForm("name"); exists {
		name := strings.TrimSpace(value)
		if name == "" {
			BadRequest(c, ErrCodeInvalidRequest, "name must not be empty")
			return
		}
		updates.Name = &name
	}
	if value, exists := c.GetPostForm("description"); exists {
		description := strings.TrimSpace(value)
		updates.Description = &description
	}
	if value, exists := c.GetPostForm("price"); exists {
		price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || price < 0 {
			BadRequest(c, ErrCodeInvalidRequest, "price must be a non-negative number")
			return
		}
		updates.Price = &price
	}
	if value, exists := c.GetPostForm("stock"); exists {
		stock, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || stock < 0 {
			BadRequest(c, ErrCodeInvalidRequest, "stock must be a non-negative integer")
			return
		}
		updates.Stock = &stock
	}
	if value, exists := c.GetPostForm("category"); exists {
		category := strings.TrimSpace(value)
		if !entity.ValidProductCategory(category) {
			BadRequest(c, ErrCodeInvalidCategory, "unknown category")
			return
		}
		updates.Category = &category
	}
	if value, exists := c.GetPostForm("brand"); exists {
		brand := strings.TrimSpace(value)
		updates.Brand = &brand
	}
	if value, exists := c.GetPostForm("frame_colors"); exists {
		colors := entity.ParseTokenList(value)
		updates.FrameColors = &colors
	}
	if value, exists := c.GetPostForm("sizes"); exists {
		sizes := entity.ParseTokenList(value)
		updates.Sizes = &sizes
	}
	if value, exists := c.GetPostForm("lens_options"); exists {
		options := entity.ParseTokenList(value)
		updates.LensOptions = &options
	}
	if value, exists := c.GetPostForm("rating"); exists {
		rating, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || rating < 0 || rating > 5 {
			BadRequest(c, ErrCodeInvalidRequest, "rating must be between 0 and 5")
			return
		}
		updates.Rating = &rating
	}
	if value, exists := c.GetPostForm("review_count"); exists {
		reviews, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || reviews < 0 {
			BadRequest(c, ErrCodeInvalidRequest, "review_count must be a non-negative integer")
			return
		}
		updates.ReviewCount = &reviews
	}
	for _, flag := range []struct {
		field  string
		target **bool
	}{
		{"is_bestseller", &updates.IsBestseller},
		{"is_new", &updates.IsNew},
		{"is_available", &updates.IsAvailable},
	} {
		if value, exists := c.GetPostForm(flag.field); exists {
			parsed, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				BadRequest(c, ErrCodeInvalidRequest, flag.field+" must be a boolean")
				return
			}
			*flag.target = &parsed
		}
	}

	uploads, ok := h.readImageUploads(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if !updates.IsEmpty() {
		if err := h.repo.UpdateProduct(ctx, id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				NotFound(c, ErrCodeProductNotFound, "product not found")
				return
			}
			logrus.WithError(err).Error("failed to update product")
			InternalError(c, "failed to update product")
			return
		}
	}

	if len(uploads) > 0 {
		if err := h.catalog.StoreProductImages(ctx, id, uploads, -1); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				NotFound(c, ErrCodeProductNotFound, "product not found")
				return
			}
			logrus.WithError(err).Error("failed to store product images")
			InternalError(c, "failed to store product images")
			return
		}
	}

	updated, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to reload product")
		InternalError(c, "failed to load product")
		return
	}

	c.JSON(http.StatusOK, h.makeProductView(updated))
}

// DeleteProduct 删除商品及其所有图片。
func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.catalog.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeProductNotFound, "product not found")
			return
		}
		logrus.WithError(err).Error("failed to delete product")
		InternalError(c, "failed to delete product")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) makeProductView(product *entity.DbProduct) entity.ProductView {
	if product == nil {
		return entity.ProductView{}
	}

	view := entity.ProductView{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Stock:        product.Stock,
		Category:     product.Category,
		Brand:        product.Brand,
		FrameColors:  product.FrameColors.ToSlice(),
		Sizes:        product.Sizes.ToSlice(),
		LensOptions:  product.LensOptions.ToSlice(),
		Rating:       product.Rating,
		ReviewCount:  product.ReviewCount,
		IsBestseller: product.IsBestseller,
		IsNew:        product.IsNew,
		IsAvailable:  product.IsAvailable,
		Images:       make([]entity.ProductImageView, 0, len(product.Images)),
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}

	for _, image := range product.Images {
		imageURL := h.publicURL(image.Path)
		view.Images = append(view.Images, entity.ProductImageView{
			ID:        image.ID,
			Path:      image.Path,
			ImageURL:  imageURL,
			IsPrimary: image.IsPrimary,
			CreatedAt: image.CreatedAt,
		})
		if image.IsPrimary {
			view.PrimaryImage = imageURL
		}
	}

	return view
}

func parseProductID(c *gin.Context) (uint, bool) {
	idValue := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(idValue, 10, 64)
	if err != nil || id == 0 {
		NotFound(c, ErrCodeProductNotFound, "product not found")
		return 0, false
	}
	return uint(id), true
}

// readImageUploads 读取 multipart 表单中的 images 文件。没有文件时返回空切片。
func (h *HTTPHandler) readImageUploads(c *gin.Context) ([]service.ImageUpload, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, true
		}
		BadRequest(c, ErrCodeInvalidRequest, "invalid multipart form")
		return nil, false
	}
	if form == nil {
		return nil, true
	}

	files := form.File["images"]
	uploads := make([]service.ImageUpload, 0, len(files))
	for _, file := range files {
		data, err := readMultipartFile(file)
		if err != nil {
			logrus.WithError(err).WithField("filename", file.Filename).Warn("failed to read uploaded file")
			BadRequest(c, ErrCodeInvalidRequest, "failed to read uploaded file")
			return nil, false
		}
		uploads = append(uploads, service.ImageUpload{
			Data:      data,
			Extension: strings.TrimPrefix(filepath.Ext(file.Filename), "."),
		})
	}
	return uploads, true
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
