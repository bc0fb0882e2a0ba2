package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bistroboard/middleware"
	"bistroboard/models"
)

type ProfileUpdateRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Description string `json:"description"`

	// Vendor storefront fields, ignored for restaurants
	BusinessType    string  `json:"business_type"`
	Specialties     string  `json:"specialties"`
	BusinessHours   string  `json:"business_hours"`
	DeliveryAreas   string  `json:"delivery_areas"`
	MinimumOrder    float64 `json:"minimum_order"`
	PaymentTerms    string  `json:"payment_terms"`
	EstablishedYear string  `json:"established_year"`
	Categories      string  `json:"categories"`
}

// GetMyProfile returns the authenticated user's profile
func (h *Handler) GetMyProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profile": middleware.CurrentUser(c)})
}

// UpdateMyProfile updates the caller's contact and storefront fields.
// Role and moderation fields are not touchable here.
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{
		"name":        req.Name,
		"email":       req.Email,
		"phone":       req.Phone,
		"address":     req.Address,
		"description": req.Description,
	}
	if user.Role == models.RoleVendor {
		updates["business_type"] = req.BusinessType
		updates["specialties"] = req.Specialties
		updates["business_hours"] = req.BusinessHours
		updates["delivery_areas"] = req.DeliveryAreas
		updates["minimum_order"] = req.MinimumOrder
		updates["payment_terms"] = req.PaymentTerms
		updates["established_year"] = req.EstablishedYear
		updates["categories"] = req.Categories
	}

	if err := h.DB.Model(user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	h.userEvent(c, user.ID, "profile_updated", nil)

	var updated models.User
	h.DB.First(&updated, user.ID)
	c.JSON(http.StatusOK, gin.H{"profile": updated})
}

// ListVendors returns all active vendor profiles for restaurant consumers
func (h *Handler) ListVendors(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.Role != models.RoleRestaurant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only restaurants can view vendor profiles"})
		return
	}

	var vendors []models.User
	h.DB.Where("role = ? AND is_active = ?", models.RoleVendor, true).
		Order("name asc").Find(&vendors)

	c.JSON(http.StatusOK, gin.H{"count": len(vendors), "vendors": vendors})
}
