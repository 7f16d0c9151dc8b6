package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusInactive ProductStatus = "INACTIVE"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

// JSON type for PostgreSQL JSONB (object/map)
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// JSONArray type for PostgreSQL JSONB (array)
type JSONArray []interface{}

func (j JSONArray) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONArray, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Product represents a catalog product entity.
// Bulk-ingested products start life as DRAFT with stock 1 and become
// visible on the storefront only after a manual publish.
type Product struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string          `json:"tenantId" gorm:"not null;index:idx_products_tenant_id;index:idx_products_tenant_status;index:idx_products_tenant_category;index:idx_products_tenant_slug,unique"`
	Name        string          `json:"name" gorm:"not null"`
	Subtitle    *string         `json:"subtitle,omitempty"`
	Slug        *string         `json:"slug,omitempty" gorm:"index:idx_products_tenant_slug,unique"`
	Description *string         `json:"description,omitempty"`
	Price       *string         `json:"price,omitempty"`
	Category    string          `json:"category" gorm:"index:idx_products_tenant_category"`
	Image       string          `json:"image"`
	Images      JSONArray       `json:"images" gorm:"type:jsonb"`
	Sizes       JSONArray       `json:"sizes" gorm:"type:jsonb"`
	Colors      JSONArray       `json:"colors" gorm:"type:jsonb"`
	ColorImages *JSON           `json:"colorImages,omitempty" gorm:"column:color_images;type:jsonb"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Status      ProductStatus   `json:"status" gorm:"not null;default:'DRAFT';index:idx_products_tenant_status"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"column:updated_at"`
	DeletedAt   *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"column:deleted_at;index"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Category represents a product category entity
type Category struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string          `json:"tenantId" gorm:"column:tenant_id;not null;index"`
	Name        string          `json:"name" gorm:"not null"`
	Slug        string          `json:"slug" gorm:"not null"`
	Description *string         `json:"description,omitempty"`
	Position    int             `json:"position" gorm:"not null;default:1"`
	IsActive    *bool           `json:"isActive" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"column:updated_at"`
	DeletedAt   *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"column:deleted_at;index"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Subtitle    *string  `json:"subtitle,omitempty"`
	Slug        *string  `json:"slug,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *string  `json:"price,omitempty"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Images      []string `json:"images,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

// UpdateProductStatusRequest represents a status change request
type UpdateProductStatusRequest struct {
	Status ProductStatus `json:"status" binding:"required"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ListProductsRequest holds list/filter parameters for product queries
type ListProductsRequest struct {
	Status   *ProductStatus
	Category *string
	Page     int
	Limit    int
}

type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type CategoryResponse struct {
	Success bool      `json:"success"`
	Data    *Category `json:"data"`
	Message *string   `json:"message,omitempty"`
}

type CategoryListResponse struct {
	Success    bool            `json:"success"`
	Data       []Category      `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details *JSON  `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}
