package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute  // Single product cache
	ProductListCacheTTL = 2 * time.Minute  // Product list cache (shorter due to frequent changes)
	CategoryCacheTTL    = 30 * time.Minute // Categories rarely change
)

const cachePrefix = "catalog:"

// CatalogRepository persists products and categories, with redis-backed
// read caching when a client is configured. All queries are tenant scoped.
type CatalogRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogRepository(db *gorm.DB, redisClient *redis.Client) *CatalogRepository {
	return &CatalogRepository{db: db, redis: redisClient}
}

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

// generateSlug converts a name into a URL-friendly slug.
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleanup.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Cache helpers. Failures are deliberately ignored: the cache is an
// optimization, never a source of truth.

func (r *CatalogRepository) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if r.redis == nil {
		return false
	}
	data, err := r.redis.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (r *CatalogRepository) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = r.redis.Set(ctx, cachePrefix+key, data, ttl).Err()
}

func (r *CatalogRepository) cacheDeletePattern(ctx context.Context, pattern string) {
	if r.redis == nil {
		return
	}
	iter := r.redis.Scan(ctx, 0, cachePrefix+pattern, 100).Iterator()
	for iter.Next(ctx) {
		_ = r.redis.Del(ctx, iter.Val()).Err()
	}
}

func (r *CatalogRepository) invalidateProductCaches(ctx context.Context, tenantID string) {
	r.cacheDeletePattern(ctx, fmt.Sprintf("products:%s:*", tenantID))
}

func (r *CatalogRepository) invalidateCategoryCaches(ctx context.Context, tenantID string) {
	r.cacheDeletePattern(ctx, fmt.Sprintf("categories:%s:*", tenantID))
}

// Product operations

// CreateProduct creates a new product for a tenant.
func (r *CatalogRepository) CreateProduct(ctx context.Context, tenantID string, product *models.Product) error {
	product.TenantID = tenantID
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	// Slug uniqueness relies on the product id suffix, same as single
	// product creation through the API.
	if product.Slug == nil || *product.Slug == "" {
		uniqueSlug := fmt.Sprintf("%s-%s", generateSlug(product.Name), product.ID.String()[:8])
		product.Slug = &uniqueSlug
	}

	err := r.db.WithContext(ctx).Create(product).Error
	if err == nil {
		r.invalidateProductCaches(ctx, tenantID)
	}
	return err
}

// GetProductByID retrieves a product by id.
func (r *CatalogRepository) GetProductByID(ctx context.Context, tenantID string, productID uuid.UUID) (*models.Product, error) {
	cacheKey := fmt.Sprintf("products:%s:id:%s", tenantID, productID)

	var product models.Product
	if r.cacheGet(ctx, cacheKey, &product) {
		return &product, nil
	}

	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, productID).First(&product).Error; err != nil {
		return nil, err
	}

	r.cacheSet(ctx, cacheKey, &product, ProductCacheTTL)
	return &product, nil
}

// GetProducts retrieves products with pagination and optional filters.
func (r *CatalogRepository) GetProducts(ctx context.Context, tenantID string, req *models.ListProductsRequest) ([]models.Product, int64, error) {
	type listResult struct {
		Products []models.Product `json:"products"`
		Total    int64            `json:"total"`
	}

	status := ""
	if req.Status != nil {
		status = string(*req.Status)
	}
	category := ""
	if req.Category != nil {
		category = *req.Category
	}
	cacheKey := fmt.Sprintf("products:%s:list:%d:%d:%s:%s", tenantID, req.Page, req.Limit, status, category)

	var cached listResult
	if r.cacheGet(ctx, cacheKey, &cached) {
		return cached.Products, cached.Total, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("tenant_id = ?", tenantID)
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.Category != nil {
		query = query.Where("category = ?", *req.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	r.cacheSet(ctx, cacheKey, &listResult{Products: products, Total: total}, ProductListCacheTTL)
	return products, total, nil
}

// UpdateProductStatus changes a product's lifecycle status.
func (r *CatalogRepository) UpdateProductStatus(ctx context.Context, tenantID string, productID uuid.UUID, status models.ProductStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateProductCaches(ctx, tenantID)
	return nil
}

// DeleteProduct soft deletes a product.
func (r *CatalogRepository) DeleteProduct(ctx context.Context, tenantID string, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, productID).
		Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateProductCaches(ctx, tenantID)
	return nil
}

// GetAllProducts returns every product for a tenant, for export.
func (r *CatalogRepository) GetAllProducts(ctx context.Context, tenantID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("category ASC, name ASC").
		Find(&products).Error
	return products, err
}

// Category operations

// CreateCategory creates a new category for a tenant.
func (r *CatalogRepository) CreateCategory(ctx context.Context, tenantID string, category *models.Category) error {
	category.TenantID = tenantID
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if category.Slug == "" {
		category.Slug = generateSlug(category.Name)
	}

	err := r.db.WithContext(ctx).Create(category).Error
	if err == nil {
		r.invalidateCategoryCaches(ctx, tenantID)
	}
	return err
}

// ListCategories returns every category for a tenant, cached.
func (r *CatalogRepository) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	cacheKey := fmt.Sprintf("categories:%s:all", tenantID)

	var categories []models.Category
	if r.cacheGet(ctx, cacheKey, &categories) {
		return categories, nil
	}

	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("position ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}

	r.cacheSet(ctx, cacheKey, categories, CategoryCacheTTL)
	return categories, nil
}

// GetCategories retrieves categories with pagination.
func (r *CatalogRepository) GetCategories(ctx context.Context, tenantID string, page, limit int) ([]models.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []models.Category
	offset := (page - 1) * limit
	if err := query.Order("position ASC, name ASC").Offset(offset).Limit(limit).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// GetCategoryByName retrieves a category by name (case-insensitive).
func (r *CatalogRepository) GetCategoryByName(ctx context.Context, tenantID string, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(name) = LOWER(?)", tenantID, name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory soft deletes a category.
func (r *CatalogRepository) DeleteCategory(ctx context.Context, tenantID string, categoryID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, categoryID).
		Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateCategoryCaches(ctx, tenantID)
	return nil
}
