package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type ProductsHandler struct {
	repo   *repository.CatalogRepository
	logger *logrus.Logger
}

func NewProductsHandler(repo *repository.CatalogRepository, logger *logrus.Logger) *ProductsHandler {
	return &ProductsHandler{repo: repo, logger: logger}
}

func stringPtr(s string) *string {
	return &s
}

// CreateProduct creates a new product
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var req models.CreateProductRequest
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

	product := &models.Product{
		Name:        req.Name,
		Subtitle:    req.Subtitle,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Status:      models.ProductStatusDraft,
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if len(req.Images) > 0 {
		product.Images = toJSONArray(req.Images)
	}
	if len(req.Sizes) > 0 {
		product.Sizes = toJSONArray(req.Sizes)
	}
	if len(req.Colors) > 0 {
		product.Colors = toJSONArray(req.Colors)
	}

	if err := h.repo.CreateProduct(c.Request.Context(), tenantID.(string), product); err != nil {
		h.logger.WithError(err).Error("Failed to create product")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATION_FAILED",
				Message: "Failed to create product",
				Details: &models.JSON{"error": err.Error()},
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.ProductResponse{
		Success: true,
		Data:    product,
		Message: stringPtr("Product created successfully in draft status"),
	})
}

// GetProducts retrieves products list with filtering and pagination
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	req := &models.ListProductsRequest{
		Page:  page,
		Limit: limit,
	}

	if status := c.Query("status"); status != "" {
		s := models.ProductStatus(status)
		req.Status = &s
	}
	if category := c.Query("category"); category != "" {
		req.Category = &category
	}

	products, total, err := h.repo.GetProducts(c.Request.Context(), tenantID.(string), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve products",
			},
		})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success: true,
		Data:    products,
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

// GetProduct retrieves a single product by ID
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	product, err := h.repo.GetProductByID(c.Request.Context(), tenantID.(string), productID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// UpdateProductStatus updates product status
func (h *ProductsHandler) UpdateProductStatus(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	var req models.UpdateProductStatusRequest
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

	switch req.Status {
	case models.ProductStatusDraft, models.ProductStatusActive, models.ProductStatusInactive, models.ProductStatusArchived:
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid product status: " + string(req.Status),
				Field:   "status",
			},
		})
		return
	}

	if err := h.repo.UpdateProductStatus(c.Request.Context(), tenantID.(string), productID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "UPDATE_FAILED",
				Message: "Failed to update product status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product status updated successfully",
	})
}

// DeleteProduct soft deletes a product
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID format",
			},
		})
		return
	}

	if err := h.repo.DeleteProduct(c.Request.Context(), tenantID.(string), productID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DELETE_FAILED",
				Message: "Failed to delete product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted successfully",
	})
}

var exportColumns = []string{"ID", "Name", "Category", "Price", "Stock", "Status", "Colors", "Image", "Created At"}

// ExportProducts exports the tenant's full catalog as XLSX or CSV.
// GET /api/v1/products/export?format=xlsx|csv
func (h *ProductsHandler) ExportProducts(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	if format != "xlsx" && format != "csv" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "Unsupported export format: " + format,
				Field:   "format",
			},
		})
		return
	}

	products, err := h.repo.GetAllProducts(c.Request.Context(), tenantID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EXPORT_FAILED",
				Message: "Failed to retrieve products for export",
			},
		})
		return
	}

	filename := fmt.Sprintf("products_%s.%s", time.Now().Format("20060102_150405"), format)

	if format == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename="+filename)

		w := csv.NewWriter(c.Writer)
		_ = w.Write(exportColumns)
		for i := range products {
			_ = w.Write(exportRow(&products[i]))
		}
		w.Flush()
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Products"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}
	for rowIdx := range products {
		for colIdx, value := range exportRow(&products[rowIdx]) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	if err := f.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("Failed to stream product export")
	}
}

func exportRow(p *models.Product) []string {
	price := ""
	if p.Price != nil {
		price = *p.Price
	}
	colors := make([]string, 0, len(p.Colors))
	for _, cv := range p.Colors {
		if s, ok := cv.(string); ok {
			colors = append(colors, s)
		}
	}
	return []string{
		p.ID.String(),
		p.Name,
		p.Category,
		price,
		strconv.Itoa(p.Stock),
		string(p.Status),
		strings.Join(colors, ", "),
		p.Image,
		p.CreatedAt.Format(time.RFC3339),
	}
}

func toJSONArray(values []string) models.JSONArray {
	arr := make(models.JSONArray, len(values))
	for i, v := range values {
		arr[i] = v
	}
	return arr
}
