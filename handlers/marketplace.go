package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bistroboard/models"
)

// MarketplaceCategories lists the vendor taxonomy with vendor counts
func (h *Handler) MarketplaceCategories(c *gin.Context) {
	var categories []models.VendorCategory
	h.DB.Where("is_active = ?", true).Order("sort_order asc").Find(&categories)

	var vendors []models.User
	h.DB.Where("role = ? AND is_active = ?", models.RoleVendor, true).Find(&vendors)

	counts := map[string]int{}
	for _, v := range vendors {
		for _, name := range strings.Split(v.Categories, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				counts[name]++
			}
		}
	}

	out := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		out = append(out, gin.H{
			"category_id":     cat.ID,
			"name":            cat.Name,
			"description":     cat.Description,
			"icon":            cat.Icon,
			"parent_category": cat.ParentCategory,
			"sort_order":      cat.SortOrder,
			"vendor_count":    counts[cat.Name],
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// SearchVendors is the paginated marketplace listing for restaurants
func (h *Handler) SearchVendors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := h.DB.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleVendor, true)

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR specialties LIKE ?", like, like, like)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("categories LIKE ?", "%"+category+"%")
	}
	if businessType := c.Query("business_type"); businessType != "" {
		query = query.Where("business_type = ?", businessType)
	}

	var totalCount int64
	query.Count(&totalCount)

	var vendors []models.User
	query.Order("average_rating desc, name asc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&vendors)

	c.JSON(http.StatusOK, gin.H{
		"vendors":     vendors,
		"total_count": totalCount,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": int(math.Ceil(float64(totalCount) / float64(pageSize))),
	})
}

// GetVendor returns one vendor's marketplace detail
func (h *Handler) GetVendor(c *gin.Context) {
	var vendor models.User
	if err := h.DB.Where("id = ? AND role = ? AND is_active = ?", c.Param("id"), models.RoleVendor, true).
		First(&vendor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	// Storefront preview: the vendor's active featured items
	var featured []models.InventoryItem
	h.DB.Where("vendor_id = ? AND is_active = ? AND is_featured = ?", vendor.ID, true, true).
		Limit(10).Find(&featured)

	c.JSON(http.StatusOK, gin.H{"vendor": vendor, "featured_items": featured})
}
