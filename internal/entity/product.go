package entity

import "time"

// Product categories mirror the storefront navigation.
const (
	ProductCategoryMen    = "Men"
	ProductCategoryWomen  = "Women"
	ProductCategoryKids   = "Kids"
	ProductCategoryUnisex = "Unisex"
)

// ValidProductCategory reports whether the category is one of the known
// choices. The empty string is allowed (category is optional).
func ValidProductCategory(category string) bool {
	switch category {
	case "", ProductCategoryMen, ProductCategoryWomen, ProductCategoryKids, ProductCategoryUnisex:
		return true
	default:
		return false
	}
}

// DbProduct represents a catalog entry.
type DbProduct struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Price       float64   `gorm:"column:price;not null;default:0" json:"price"`
	Stock       int       `gorm:"column:stock;not null;default:0" json:"stock"`
	Category    string    `gorm:"column:category;type:varchar(50);index" json:"category"`
	Brand       string    `gorm:"column:brand;type:varchar(100)" json:"brand"`

	// Variant attributes, stored as JSON-encoded ordered lists. The legacy
	// comma form only exists at the API boundary.
	FrameColors StringArray `gorm:"column:frame_colors;type:text" json:"frame_colors"`
	Sizes       StringArray `gorm:"column:sizes;type:text" json:"sizes"`
	LensOptions StringArray `gorm:"column:lens_options;type:text" json:"lens_options"`

	Rating      *float64 `gorm:"column:rating" json:"rating"`
	ReviewCount int      `gorm:"column:review_count;not null;default:0" json:"review_count"`

	IsBestseller bool `gorm:"column:is_bestseller;not null;default:false" json:"is_bestseller"`
	IsNew        bool `gorm:"column:is_new;not null;default:false" json:"is_new"`
	IsAvailable  bool `gorm:"column:is_available;not null;default:true" json:"is_available"`

	Images []DbProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
}

// TableName overrides default pluralised name.
func (DbProduct) TableName() string {
	return "products"
}

// DbProductImage is an image owned by exactly one product. At most one image
// per product carries IsPrimary, and exactly one does whenever the product has
// any images at all.
type DbProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ProductID uint      `gorm:"column:product_id;index;not null" json:"product_id"`
	Path      string    `gorm:"column:path;type:varchar(512);not null" json:"path"`
	IsPrimary bool      `gorm:"column:is_primary;index;not null;default:false" json:"is_primary"`
}

// TableName overrides default pluralised name.
func (DbProductImage) TableName() string {
	return "product_images"
}

// ProductQuery supports the public listing with pagination and filters.
type ProductQuery struct {
	BaseParams
	Category        string `json:"category" form:"category" query:"category"`
	Brand           string `json:"brand" form:"brand" query:"brand"`
	Keyword         string `json:"keyword" form:"keyword" query:"keyword"`
	OnlyAvailable   bool   `json:"available" form:"available" query:"available"`
	OnlyBestsellers bool   `json:"bestseller" form:"bestseller" query:"bestseller"`
	OnlyNew         bool   `json:"new" form:"new" query:"new"`
}

// ProductImageView is the serialised image representation.
type ProductImageView struct {
	ID        uint      `json:"id"`
	Path      string    `json:"path"`
	ImageURL  string    `json:"image_url"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductView is the serialised product representation.
type ProductView struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Price        float64            `json:"price"`
	Stock        int                `json:"stock"`
	Category     string             `json:"category,omitempty"`
	Brand        string             `json:"brand,omitempty"`
	FrameColors  []string           `json:"frame_colors"`
	Sizes        []string           `json:"sizes"`
	LensOptions  []string           `json:"lens_options"`
	Rating       *float64           `json:"rating"`
	ReviewCount  int                `json:"review_count"`
	IsBestseller bool               `json:"is_bestseller"`
	IsNew        bool               `json:"is_new"`
	IsAvailable  bool               `json:"is_available"`
	Images       []ProductImageView `json:"images"`
	PrimaryImage string             `json:"primary_image,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductView `json:"products"`
	Meta     *Meta         `json:"meta"`
}

// ImageActionRequest addresses one image of a product for delete/set-primary.
type ImageActionRequest struct {
	ImageID uint `json:"image_id" binding:"required"`
}

// ImageAddRequest carries an inline image payload (base64 or data URL).
type ImageAddRequest struct {
	Image     string `json:"image" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
}
