// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/inventory"
	"github.com/your-org/ventilation-store/internal/domain/product"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	productService   *product.Service
	inventoryService *inventory.Service
	log              *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *product.Service, inventoryService *inventory.Service, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, inventoryService: inventoryService, log: log}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	response, err := h.productService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    response,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	p, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

// GetCategories handles GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// AdminCreateProduct handles POST /admin/products
func (h *ProductHandler) AdminCreateProduct(c *gin.Context) {
	var req product.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	p, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.WithField("product_id", p.ID).Info("product created")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    p,
	})
}

// AdminUpdateProduct handles PUT /admin/products/:id
func (h *ProductHandler) AdminUpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req product.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	p, err := h.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    p,
	})
}

// AdminDeleteProduct handles DELETE /admin/products/:id
func (h *ProductHandler) AdminDeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.WithField("product_id", id).Info("product deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// AdminGetStockMovements handles GET /admin/products/:id/movements?limit=
func (h *ProductHandler) AdminGetStockMovements(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.productService.Get(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	movements, err := h.inventoryService.History(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock movements retrieved successfully",
		"data":    movements,
	})
}
