package model

import (
	"context"

	"lenshive/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id string) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)

	// 商品目录
	CreateProduct(ctx context.Context, product *entity.DbProduct) error
	UpdateProduct(ctx context.Context, id uint, updates entity.ProductUpdates) error
	GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error)
	ListProducts(ctx context.Context, params *entity.ProductQuery) ([]entity.DbProduct, *entity.Meta, error)
	DeleteProduct(ctx context.Context, id uint) error

	// 商品图片（主图不变量由仓库事务维护）
	AddProductImages(ctx context.Context, productID uint, images []entity.DbProductImage, primaryIndex int) error
	GetProductImage(ctx context.Context, productID, imageID uint) (*entity.DbProductImage, error)
	ListProductImages(ctx context.Context, productID uint) ([]entity.DbProductImage, error)
	SetPrimaryImage(ctx context.Context, productID, imageID uint) error
	DeleteProductImage(ctx context.Context, productID, imageID uint) error
}
