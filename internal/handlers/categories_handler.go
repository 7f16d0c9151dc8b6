package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type CategoriesHandler struct {
	repo   *repository.CatalogRepository
	logger *logrus.Logger
}

func NewCategoriesHandler(repo *repository.CatalogRepository, logger *logrus.Logger) *CategoriesHandler {
	return &CategoriesHandler{repo: repo, logger: logger}
}

// CreateCategory creates a new category
func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	// Category names are unique per tenant, case-insensitively.
	if existing, err := h.repo.GetCategoryByName(c.Request.Context(), tenantID.(string), req.Name); err == nil && existing != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "ALREADY_EXISTS",
				Message: "A category with this name already exists",
				Field:   "name",
			},
		})
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}

	if err := h.repo.CreateCategory(c.Request.Context(), tenantID.(string), category); err != nil {
		h.logger.WithError(err).Error("Failed to create category")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATION_FAILED",
				Message: "Failed to create category",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.CategoryResponse{
		Success: true,
		Data:    category,
	})
}

// GetCategories retrieves categories with pagination
func (h *CategoriesHandler) GetCategories(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	categories, total, err := h.repo.GetCategories(c.Request.Context(), tenantID.(string), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve categories",
			},
		})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, models.CategoryListResponse{
		Success: true,
		Data:    categories,
		Pagination: &models.PaginationInfo{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	})
}

// DeleteCategory soft deletes a category
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid category ID format",
			},
		})
		return
	}

	if err := h.repo.DeleteCategory(c.Request.Context(), tenantID.(string), categoryID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DELETE_FAILED",
				Message: "Failed to delete category",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted successfully",
	})
}
