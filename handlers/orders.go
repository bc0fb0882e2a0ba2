package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bistroboard/authz"
	"bistroboard/mailer"
	"bistroboard/middleware"
	"bistroboard/models"
	"bistroboard/statemachine"
)

type CreateOrderRequest struct {
	VendorID  uint   `json:"vendor_id" binding:"required"`
	ItemsText string `json:"items_text" binding:"required"`
	Notes     string `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

type UpdateOrderNotesRequest struct {
	Notes string `json:"notes"`
}

func snapshot(u *models.User) models.PartySnapshot {
	return models.PartySnapshot{Name: u.Name, Phone: u.Phone, Address: u.Address, Email: u.Email}
}

// CreateOrder records a new order from the calling restaurant to a vendor.
// Both parties' contact details are snapshotted so later profile edits do
// not rewrite order history.
func (h *Handler) CreateOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.Role != models.RoleRestaurant {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only restaurants can create orders"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var vendor models.User
	if err := h.DB.Where("id = ? AND role = ?", req.VendorID, models.RoleVendor).First(&vendor).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	order := models.Order{
		RestaurantID: user.ID,
		VendorID:     vendor.ID,
		Restaurant:   snapshot(user),
		Vendor:       snapshot(&vendor),
		ItemsText:    req.ItemsText,
		Notes:        req.Notes,
		Status:       models.OrderPending,
	}
	if err := h.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.OrderPending,
		ChangedBy: user.ID,
		Note:      "Order placed by restaurant",
	}
	h.DB.Create(&history)

	h.Mailer.SendAsync(mailer.TemplateNewOrder, vendor.Email, map[string]any{
		"vendor_name":     vendor.Name,
		"restaurant_name": user.Name,
		"order_id":        order.ID,
		"items_text":      order.ItemsText,
		"notes":           order.Notes,
	}, &vendor.ID, map[string]any{"order_id": order.ID})

	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

// ListOrders returns the caller's orders: placed for restaurants,
// received for vendors, everything for admins.
func (h *Handler) ListOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	query := h.DB.Order("created_at desc")
	switch user.Role {
	case models.RoleRestaurant:
		query = query.Where("restaurant_id = ?", user.ID)
	case models.RoleVendor:
		query = query.Where("vendor_id = ?", user.ID)
	case models.RoleAdmin:
		// unscoped, same visibility as the single-order read
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid user role"})
		return
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	query.Find(&orders)

	// Dashboard summary by status
	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         len(orders),
		"order_summary": summary,
		"orders":        orders,
	})
}

// GetOrder returns a single order with its status history
func (h *Handler) GetOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var order models.Order
	if err := h.DB.Preload("StatusHistory").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !authz.CanViewOrder(user.Role, user.ID, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus advances an order through the fixed status lifecycle.
// Only the vendor party may advance status.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.Role != models.RoleVendor {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only vendors can update order status"})
		return
	}

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !authz.CanAdvanceOrder(user.Role, user.ID, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, "vendor"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             err.Error(),
			"current_status":    order.Status,
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  middleware.ActorID(c),
		Note:       req.Note,
	}
	h.DB.Create(&history)

	template := mailer.TemplateOrderStatusUpdated
	if req.Status == models.OrderConfirmed {
		template = mailer.TemplateOrderConfirmation
	}
	h.Mailer.SendAsync(template, order.Restaurant.Email, map[string]any{
		"restaurant_name": order.Restaurant.Name,
		"vendor_name":     order.Vendor.Name,
		"order_id":        order.ID,
		"items_text":      order.ItemsText,
		"status":          string(req.Status),
	}, &order.RestaurantID, map[string]any{"order_id": order.ID})

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"current_status":  req.Status,
	})
}

// UpdateOrderNotes lets either order party edit the free-text notes
func (h *Handler) UpdateOrderNotes(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !authz.CanEditOrderNotes(user.Role, user.ID, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req UpdateOrderNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Model(&order).Update("notes", req.Notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	order.Notes = req.Notes

	c.JSON(http.StatusOK, gin.H{"message": "Order notes updated", "order": order})
}

// GetStateMachineInfo documents the order lifecycle for API consumers
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	out := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"statuses":    []models.OrderStatus{models.OrderPending, models.OrderConfirmed, models.OrderFulfilled},
		"transitions": out,
	})
}
