package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"bistroboard/authz"
	"bistroboard/middleware"
	"bistroboard/models"
	"bistroboard/retryx"
)

type CategoryRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	ParentCategoryID *uint  `json:"parent_category_id"`
	SortOrder        int    `json:"sort_order"`
}

type ItemRequest struct {
	CategoryID           uint              `json:"category_id" binding:"required"`
	Name                 string            `json:"name" binding:"required"`
	Description          string            `json:"description"`
	Brand                string            `json:"brand"`
	UnitOfMeasure        string            `json:"unit_of_measure"`
	BasePrice            float64           `json:"base_price"`
	CostPrice            float64           `json:"cost_price"`
	TaxRate              float64           `json:"tax_rate"`
	IsFeatured           bool              `json:"is_featured"`
	MinimumOrderQuantity int               `json:"minimum_order_quantity"`
	MaximumOrderQuantity *int              `json:"maximum_order_quantity"`
	LeadTimeDays         int               `json:"lead_time_days"`
	Specifications       map[string]any    `json:"specifications"`
	Tags                 string            `json:"tags"`
}

type SKURequest struct {
	ItemID            uint              `json:"item_id" binding:"required"`
	SKUCode           string            `json:"sku_code" binding:"required"`
	VariantName       string            `json:"variant_name"`
	Attributes        map[string]any    `json:"attributes"`
	Price             float64           `json:"price" binding:"required"`
	CostPrice         float64           `json:"cost_price"`
	DiscountPrice     *float64          `json:"discount_price"`
	CurrentStock      int               `json:"current_stock"`
	LowStockThreshold int               `json:"low_stock_threshold"`
}

type StockAdjustRequest struct {
	Amount    int    `json:"amount" binding:"min=0"`
	Operation string `json:"operation" binding:"required"`
}

// Ownership-checked lookups. A record owned by someone else reads as
// absent, same as a missing id.

func (h *Handler) findOwnedCategory(c *gin.Context, vendor *models.User) (*models.InventoryCategory, bool) {
	var category models.InventoryCategory
	err := h.DB.First(&category, "id = ?", c.Param("id")).Error
	if err != nil || !authz.CanManageInventory(vendor.Role, vendor.ID, category.VendorID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return nil, false
	}
	return &category, true
}

func (h *Handler) findOwnedItem(c *gin.Context, vendor *models.User) (*models.InventoryItem, bool) {
	var item models.InventoryItem
	err := h.DB.First(&item, "id = ?", c.Param("id")).Error
	if err != nil || !authz.CanManageInventory(vendor.Role, vendor.ID, item.VendorID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return nil, false
	}
	return &item, true
}

func (h *Handler) findOwnedSKU(c *gin.Context, vendor *models.User) (*models.InventorySKU, bool) {
	var sku models.InventorySKU
	err := h.DB.First(&sku, "id = ?", c.Param("id")).Error
	if err != nil || !authz.CanManageInventory(vendor.Role, vendor.ID, sku.VendorID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "SKU not found"})
		return nil, false
	}
	return &sku, true
}

// ── Categories ─────────────────────────────────────────────────────

// ListCategories returns the caller's inventory categories
func (h *Handler) ListCategories(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	query := h.DB.Where("vendor_id = ?", vendor.ID)
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.InventoryCategory
	query.Order("sort_order asc").Find(&categories)
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

// CreateCategory adds a category; name must be unique per vendor
func (h *Handler) CreateCategory(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.InventoryCategory
	if err := h.DB.Where("vendor_id = ? AND name = ?", vendor.ID, req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category with this name already exists"})
		return
	}
	if req.ParentCategoryID != nil {
		var parent models.InventoryCategory
		if err := h.DB.Where("id = ? AND vendor_id = ?", *req.ParentCategoryID, vendor.ID).First(&parent).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category not found"})
			return
		}
	}

	category := models.InventoryCategory{
		VendorID:         vendor.ID,
		Name:             req.Name,
		Description:      req.Description,
		ParentCategoryID: req.ParentCategoryID,
		SortOrder:        req.SortOrder,
		IsActive:         true,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory edits a category's fields
func (h *Handler) UpdateCategory(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	category, ok := h.findOwnedCategory(c, vendor)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != category.Name {
		var existing models.InventoryCategory
		if err := h.DB.Where("vendor_id = ? AND name = ? AND id <> ?", vendor.ID, req.Name, category.ID).
			First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category with this name already exists"})
			return
		}
	}
	if req.ParentCategoryID != nil {
		var parent models.InventoryCategory
		if err := h.DB.Where("id = ? AND vendor_id = ?", *req.ParentCategoryID, vendor.ID).First(&parent).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category not found"})
			return
		}
	}

	updates := map[string]any{
		"name":               req.Name,
		"description":        req.Description,
		"parent_category_id": req.ParentCategoryID,
		"sort_order":         req.SortOrder,
	}
	if err := h.DB.Model(category).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	h.DB.First(category, category.ID)
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory soft-deletes a category. Blocked while active items exist.
func (h *Handler) DeleteCategory(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	category, ok := h.findOwnedCategory(c, vendor)
	if !ok {
		return
	}

	var activeItems int64
	h.DB.Model(&models.InventoryItem{}).
		Where("category_id = ? AND vendor_id = ? AND is_active = ?", category.ID, vendor.ID, true).
		Count(&activeItems)
	if activeItems > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete category with active items"})
		return
	}

	h.DB.Model(category).Update("is_active", false)
	c.JSON(http.StatusOK, gin.H{"message": "Category deactivated"})
}

// ── Items ──────────────────────────────────────────────────────────

// ListItems returns the caller's items, optionally filtered by category
func (h *Handler) ListItems(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	query := h.DB.Where("vendor_id = ?", vendor.ID)
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, like)
	}

	var items []models.InventoryItem
	query.Order("name asc").Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// CreateItem adds an item; its category must exist, be active, and be
// owned by the caller.
func (h *Handler) CreateItem(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.InventoryCategory
	if err := h.DB.Where("id = ? AND vendor_id = ? AND is_active = ?", req.CategoryID, vendor.ID, true).
		First(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found or inactive"})
		return
	}

	unit := req.UnitOfMeasure
	if unit == "" {
		unit = "each"
	}
	minQty := req.MinimumOrderQuantity
	if minQty < 1 {
		minQty = 1
	}

	item := models.InventoryItem{
		VendorID:             vendor.ID,
		CategoryID:           req.CategoryID,
		Name:                 req.Name,
		Description:          req.Description,
		Brand:                req.Brand,
		UnitOfMeasure:        unit,
		BasePrice:            req.BasePrice,
		CostPrice:            req.CostPrice,
		TaxRate:              req.TaxRate,
		IsActive:             true,
		IsFeatured:           req.IsFeatured,
		MinimumOrderQuantity: minQty,
		MaximumOrderQuantity: req.MaximumOrderQuantity,
		LeadTimeDays:         req.LeadTimeDays,
		Specifications:       datatypes.JSONMap(req.Specifications),
		Tags:                 req.Tags,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// GetItem returns one of the caller's items with its SKUs
func (h *Handler) GetItem(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	item, ok := h.findOwnedItem(c, vendor)
	if !ok {
		return
	}

	var skus []models.InventorySKU
	h.DB.Where("item_id = ? AND is_active = ?", item.ID, true).Find(&skus)
	c.JSON(http.StatusOK, gin.H{"item": item, "skus": skus})
}

// UpdateItem edits an item's fields
func (h *Handler) UpdateItem(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	item, ok := h.findOwnedItem(c, vendor)
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CategoryID != item.CategoryID {
		var category models.InventoryCategory
		if err := h.DB.Where("id = ? AND vendor_id = ? AND is_active = ?", req.CategoryID, vendor.ID, true).
			First(&category).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found or inactive"})
			return
		}
	}

	updates := map[string]any{
		"category_id":            req.CategoryID,
		"name":                   req.Name,
		"description":            req.Description,
		"brand":                  req.Brand,
		"base_price":             req.BasePrice,
		"cost_price":             req.CostPrice,
		"tax_rate":               req.TaxRate,
		"is_featured":            req.IsFeatured,
		"minimum_order_quantity": req.MinimumOrderQuantity,
		"maximum_order_quantity": req.MaximumOrderQuantity,
		"lead_time_days":         req.LeadTimeDays,
		"tags":                   req.Tags,
	}
	if req.UnitOfMeasure != "" {
		updates["unit_of_measure"] = req.UnitOfMeasure
	}
	if req.Specifications != nil {
		updates["specifications"] = datatypes.JSONMap(req.Specifications)
	}

	if err := h.DB.Model(item).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	h.DB.First(item, item.ID)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem soft-deletes an item. Blocked while active SKUs exist.
func (h *Handler) DeleteItem(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	item, ok := h.findOwnedItem(c, vendor)
	if !ok {
		return
	}

	var activeSKUs int64
	h.DB.Model(&models.InventorySKU{}).
		Where("item_id = ? AND vendor_id = ? AND is_active = ?", item.ID, vendor.ID, true).
		Count(&activeSKUs)
	if activeSKUs > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete item with active SKUs"})
		return
	}

	h.DB.Model(item).Update("is_active", false)
	c.JSON(http.StatusOK, gin.H{"message": "Item deactivated"})
}

// ── SKUs ───────────────────────────────────────────────────────────

// ListSKUs returns the caller's SKUs, optionally filtered by item
func (h *Handler) ListSKUs(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	query := h.DB.Where("vendor_id = ?", vendor.ID)
	if itemID := c.Query("item_id"); itemID != "" {
		query = query.Where("item_id = ?", itemID)
	}
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if c.Query("low_stock") == "true" {
		query = query.Where("available_stock <= low_stock_threshold")
	}

	var skus []models.InventorySKU
	query.Order("sku_code asc").Find(&skus)
	c.JSON(http.StatusOK, gin.H{"count": len(skus), "skus": skus})
}

// CreateSKU adds a stocked variant under one of the caller's items
func (h *Handler) CreateSKU(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	var req SKURequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.InventoryItem
	if err := h.DB.Where("id = ? AND vendor_id = ? AND is_active = ?", req.ItemID, vendor.ID, true).
		First(&item).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item not found or inactive"})
		return
	}

	var existing models.InventorySKU
	if err := h.DB.Where("sku_code = ?", req.SKUCode).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SKU code already exists"})
		return
	}

	stock := req.CurrentStock
	if stock < 0 {
		stock = 0
	}

	sku := models.InventorySKU{
		VendorID:          vendor.ID,
		ItemID:            item.ID,
		SKUCode:           req.SKUCode,
		VariantName:       req.VariantName,
		Attributes:        datatypes.JSONMap(req.Attributes),
		Price:             req.Price,
		CostPrice:         req.CostPrice,
		DiscountPrice:     req.DiscountPrice,
		CurrentStock:      stock,
		ReservedStock:     0,
		AvailableStock:    stock, // initially all stock is available
		LowStockThreshold: req.LowStockThreshold,
		IsActive:          true,
	}
	if err := h.DB.Create(&sku).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create SKU"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sku": sku})
}

type SKUUpdateRequest struct {
	VariantName       *string        `json:"variant_name"`
	Attributes        map[string]any `json:"attributes"`
	Price             *float64       `json:"price"`
	CostPrice         *float64       `json:"cost_price"`
	DiscountPrice     *float64       `json:"discount_price"`
	CurrentStock      *int           `json:"current_stock"`
	ReservedStock     *int           `json:"reserved_stock"`
	LowStockThreshold *int           `json:"low_stock_threshold"`
}

// UpdateSKU edits SKU fields. Available stock is recomputed whenever
// current or reserved stock changes.
func (h *Handler) UpdateSKU(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	sku, ok := h.findOwnedSKU(c, vendor)
	if !ok {
		return
	}

	var req SKUUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{}
	if req.VariantName != nil {
		updates["variant_name"] = *req.VariantName
	}
	if req.Attributes != nil {
		updates["attributes"] = datatypes.JSONMap(req.Attributes)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.DiscountPrice != nil {
		updates["discount_price"] = *req.DiscountPrice
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}

	current := sku.CurrentStock
	reserved := sku.ReservedStock
	stockChanged := false
	if req.CurrentStock != nil {
		current = *req.CurrentStock
		stockChanged = true
	}
	if req.ReservedStock != nil {
		reserved = *req.ReservedStock
		stockChanged = true
	}
	if stockChanged {
		if current < 0 {
			current = 0
		}
		if reserved < 0 {
			reserved = 0
		}
		available := current - reserved
		if available < 0 {
			available = 0
		}
		updates["current_stock"] = current
		updates["reserved_stock"] = reserved
		updates["available_stock"] = available
	}

	if len(updates) > 0 {
		updates["version"] = sku.Version + 1
		if err := h.DB.Model(sku).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update SKU"})
			return
		}
	}

	h.DB.First(sku, sku.ID)
	c.JSON(http.StatusOK, gin.H{"sku": sku})
}

// DeleteSKU soft-deletes a SKU
func (h *Handler) DeleteSKU(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	sku, ok := h.findOwnedSKU(c, vendor)
	if !ok {
		return
	}

	h.DB.Model(sku).Update("is_active", false)
	c.JSON(http.StatusOK, gin.H{"message": "SKU deactivated"})
}

// AdjustStock applies add/subtract/set to a SKU's current stock, clamped
// at zero, and recomputes available stock. The read-modify-write is
// version-guarded and retried on conflict.
func (h *Handler) AdjustStock(c *gin.Context) {
	vendor := middleware.CurrentUser(c)

	var req StockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Operation {
	case "add", "subtract", "set":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operation. Must be: add, subtract, or set"})
		return
	}

	sku, ok := h.findOwnedSKU(c, vendor)
	if !ok {
		return
	}

	err := retryx.Do(3, 50*time.Millisecond, func() error {
		if err := h.DB.Where("id = ?", sku.ID).First(sku).Error; err != nil {
			return err
		}

		current := sku.CurrentStock
		switch req.Operation {
		case "add":
			current += req.Amount
		case "subtract":
			current -= req.Amount
		case "set":
			current = req.Amount
		}
		if current < 0 {
			current = 0
		}
		available := current - sku.ReservedStock
		if available < 0 {
			available = 0
		}

		res := h.DB.Model(&models.InventorySKU{}).
			Where("id = ? AND version = ?", sku.ID, sku.Version).
			Updates(map[string]any{
				"current_stock":   current,
				"available_stock": available,
				"version":         sku.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return retryx.ErrConflict
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
		return
	}

	h.DB.First(sku, sku.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated", "sku": sku})
}
