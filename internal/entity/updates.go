package entity

// UserUpdates 用户更新字段
type UserUpdates struct {
	FullName     *string
	Role         *string
	PasswordHash *string
	IsActive     *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.FullName != nil {
		updates["full_name"] = *u.FullName
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// ProductUpdates 商品更新字段
type ProductUpdates struct {
	Name         *string
	Description  *string
	Price        *float64
	Stock        *int
	Category     *string
	Brand        *string
	FrameColors  *StringArray
	Sizes        *StringArray
	LensOptions  *StringArray
	Rating       *float64
	ReviewCount  *int
	IsBestseller *bool
	IsNew        *bool
	IsAvailable  *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u ProductUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Price != nil {
		updates["price"] = *u.Price
	}
	if u.Stock != nil {
		updates["stock"] = *u.Stock
	}
	if u.Category != nil {
		updates["category"] = *u.Category
	}
	if u.Brand != nil {
		updates["brand"] = *u.Brand
	}
	if u.FrameColors != nil {
		updates["frame_colors"] = *u.FrameColors
	}
	if u.Sizes != nil {
		updates["sizes"] = *u.Sizes
	}
	if u.LensOptions != nil {
		updates["lens_options"] = *u.LensOptions
	}
	if u.Rating != nil {
		updates["rating"] = *u.Rating
	}
	if u.ReviewCount != nil {
		updates["review_count"] = *u.ReviewCount
	}
	if u.IsBestseller != nil {
		updates["is_bestseller"] = *u.IsBestseller
	}
	if u.IsNew != nil {
		updates["is_new"] = *u.IsNew
	}
	if u.IsAvailable != nil {
		updates["is_available"] = *u.IsAvailable
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u ProductUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
