package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"bistroboard/authz"
	"bistroboard/middleware"
	"bistroboard/models"
)

// stuckOrderAge is the wall-clock threshold after which a still-pending
// order is surfaced in the admin dashboard.
const stuckOrderAge = 48 * time.Hour

type AdminCreateUserRequest struct {
	Username    string            `json:"username" binding:"required,min=3"`
	Password    string            `json:"password" binding:"required,min=6"`
	Role        models.UserRole   `json:"role" binding:"required"`
	Name        string            `json:"name" binding:"required"`
	Email       string            `json:"email" binding:"required,email"`
	Phone       string            `json:"phone"`
	Address     string            `json:"address"`
	Description string            `json:"description"`
	Status      models.UserStatus `json:"status"`
}

type UserStatusUpdateRequest struct {
	Status models.UserStatus `json:"status" binding:"required"`
	Reason string            `json:"reason"`
}

type ImpersonationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DashboardStats aggregates the admin landing numbers
func (h *Handler) DashboardStats(c *gin.Context) {
	var (
		totalUsers, totalRestaurants, totalVendors int64
		totalOrders, stuckOrders                   int64
		pendingApprovals, activeImpersonations     int64
		recentSignups                              int64
	)

	memberRoles := []models.UserRole{models.RoleRestaurant, models.RoleVendor}
	h.DB.Model(&models.User{}).Where("role IN ?", memberRoles).Count(&totalUsers)
	h.DB.Model(&models.User{}).Where("role = ?", models.RoleRestaurant).Count(&totalRestaurants)
	h.DB.Model(&models.User{}).Where("role = ?", models.RoleVendor).Count(&totalVendors)
	h.DB.Model(&models.Order{}).Count(&totalOrders)
	h.DB.Model(&models.User{}).
		Where("role = ? AND status = ?", models.RoleVendor, models.StatusPendingApproval).
		Count(&pendingApprovals)

	h.DB.Model(&models.Order{}).
		Where("status = ? AND created_at < ?", models.OrderPending, time.Now().Add(-stuckOrderAge)).
		Count(&stuckOrders)

	h.DB.Model(&models.ImpersonationSession{}).
		Where("is_active = ? AND expires_at > ?", true, time.Now()).
		Count(&activeImpersonations)

	h.DB.Model(&models.User{}).
		Where("role IN ? AND created_at > ?", memberRoles, time.Now().Add(-24*time.Hour)).
		Count(&recentSignups)

	c.JSON(http.StatusOK, gin.H{
		"total_users":                   totalUsers,
		"total_restaurants":             totalRestaurants,
		"total_vendors":                 totalVendors,
		"total_orders":                  totalOrders,
		"pending_vendor_approvals":      pendingApprovals,
		"stuck_orders_count":            stuckOrders,
		"active_impersonation_sessions": activeImpersonations,
		"recent_signups_24h":            recentSignups,
	})
}

// ActionQueues lists the items awaiting admin attention
func (h *Handler) ActionQueues(c *gin.Context) {
	var pendingVendors []models.User
	h.DB.Where("role = ? AND status = ?", models.RoleVendor, models.StatusPendingApproval).
		Order("created_at asc").Limit(10).Find(&pendingVendors)

	vendorQueue := make([]gin.H, 0, len(pendingVendors))
	for _, v := range pendingVendors {
		vendorQueue = append(vendorQueue, gin.H{
			"user_id":    v.ID,
			"name":       v.Name,
			"email":      v.Email,
			"created_at": v.CreatedAt,
		})
	}

	var stuck []models.Order
	h.DB.Where("status = ? AND created_at < ?", models.OrderPending, time.Now().Add(-stuckOrderAge)).
		Order("created_at asc").Limit(10).Find(&stuck)

	stuckQueue := make([]gin.H, 0, len(stuck))
	for _, o := range stuck {
		stuckQueue = append(stuckQueue, gin.H{
			"order_id":        o.ID,
			"restaurant_name": o.Restaurant.Name,
			"vendor_name":     o.Vendor.Name,
			"created_at":      o.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_vendors": vendorQueue,
		"stuck_orders":    stuckQueue,
	})
}

// AdminListUsers lists restaurant/vendor accounts with optional filters
func (h *Handler) AdminListUsers(c *gin.Context) {
	query := h.DB.Where("role IN ?", []models.UserRole{models.RoleRestaurant, models.RoleVendor})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR username LIKE ? OR email LIKE ?", like, like, like)
	}

	var users []models.User
	query.Order("created_at desc").Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminCreateUser provisions an account on behalf of an operator
func (h *Handler) AdminCreateUser(c *gin.Context) {
	admin := middleware.CurrentUser(c)

	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role != models.RoleRestaurant && req.Role != models.RoleVendor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: restaurant or vendor"})
		return
	}

	var existing models.User
	if err := h.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Description:  req.Description,
		IsActive:     status == models.StatusActive,
		Status:       status,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.audit(c, admin.ID, models.ActionUserCreated, &user.ID, map[string]any{
		"username": user.Username,
		"role":     string(user.Role),
	})

	c.JSON(http.StatusCreated, gin.H{"message": "User created", "user": user})
}

// UpdateUserStatus flips an account between active/inactive/pending_approval.
// Admin accounts are categorically excluded as targets. Every successful
// call appends exactly one audit entry.
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	admin := middleware.CurrentUser(c)

	var req UserStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.StatusActive, models.StatusInactive, models.StatusPendingApproval:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Must be: active, inactive, or pending_approval"})
		return
	}

	var target models.User
	if err := h.DB.First(&target, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !authz.CanModifyUser(admin.Role, &target) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot modify admin user status"})
		return
	}

	previousStatus := target.Status
	now := time.Now()

	updates := map[string]any{
		"status":    req.Status,
		"is_active": req.Status == models.StatusActive,
	}
	if req.Status == models.StatusInactive {
		updates["deactivation_reason"] = req.Reason
		updates["deactivated_by"] = admin.ID
		updates["deactivated_at"] = now
	} else {
		updates["deactivation_reason"] = nil
		updates["deactivated_by"] = nil
		updates["deactivated_at"] = nil
	}

	if err := h.DB.Model(&target).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user status"})
		return
	}

	h.audit(c, admin.ID, models.ActionUserStatusUpdated, &target.ID, map[string]any{
		"previous_status": string(previousStatus),
		"new_status":      string(req.Status),
		"reason":          req.Reason,
	})

	c.JSON(http.StatusOK, gin.H{"message": "User status updated to " + string(req.Status)})
}

// StartImpersonation mints a short-lived token carrying the target's
// identity and records the session for dashboard metrics and audit.
func (h *Handler) StartImpersonation(c *gin.Context) {
	admin := middleware.CurrentUser(c)

	var req ImpersonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target models.User
	if err := h.DB.First(&target, c.Param("id")).Error; err != nil || target.Role == models.RoleAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found or is an admin"})
		return
	}

	tok, expiresAt, err := h.Tokens.IssueImpersonation(admin.ID, &target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate impersonation token"})
		return
	}

	session := models.ImpersonationSession{
		AdminID:      admin.ID,
		TargetUserID: target.ID,
		SessionToken: tok,
		ExpiresAt:    expiresAt,
		IsActive:     true,
	}
	if err := h.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record impersonation session"})
		return
	}

	h.audit(c, admin.ID, models.ActionImpersonationStarted, &target.ID, map[string]any{
		"reason": req.Reason,
	})

	c.JSON(http.StatusOK, gin.H{
		"impersonation_token": tok,
		"expires_at":          expiresAt,
		"target_user": gin.H{
			"user_id":  target.ID,
			"username": target.Username,
			"role":     target.Role,
			"name":     target.Name,
		},
	})
}

// EndImpersonation closes the caller's active impersonation sessions
func (h *Handler) EndImpersonation(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	admin := middleware.ActorID(c)

	targetID := middleware.CurrentUser(c).ID
	if !claims.IsImpersonating {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not an impersonation session"})
		return
	}

	now := time.Now()
	h.DB.Model(&models.ImpersonationSession{}).
		Where("admin_id = ? AND target_user_id = ? AND is_active = ?", admin, targetID, true).
		Updates(map[string]any{"is_active": false, "ended_at": now})

	h.audit(c, admin, models.ActionImpersonationEnded, &targetID, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Impersonation session ended"})
}

// AuditLogs lists admin audit entries, newest first
func (h *Handler) AuditLogs(c *gin.Context) {
	query := h.DB.Model(&models.AdminAuditLog{})

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if adminID := c.Query("admin_id"); adminID != "" {
		query = query.Where("admin_id = ?", adminID)
	}
	if targetID := c.Query("target_user_id"); targetID != "" {
		query = query.Where("target_user_id = ?", targetID)
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 200 {
		limit = 200
	}

	var entries []models.AdminAuditLog
	query.Order("created_at desc").Limit(limit).Find(&entries)

	// Resolve operator/target display names for the console
	ids := map[uint]bool{}
	for _, e := range entries {
		ids[e.AdminID] = true
		if e.TargetUserID != nil {
			ids[*e.TargetUserID] = true
		}
	}
	idList := make([]uint, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}
	names := map[uint]string{}
	if len(idList) > 0 {
		var users []models.User
		h.DB.Where("id IN ?", idList).Find(&users)
		for _, u := range users {
			names[u.ID] = u.Name
		}
	}

	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		row := gin.H{
			"log_id":     e.ID,
			"admin_name": nameOrUnknown(names, e.AdminID),
			"action":     e.Action,
			"details":    e.Details,
			"ip_address": e.IPAddress,
			"created_at": e.CreatedAt,
		}
		if e.TargetUserID != nil {
			row["target_user_name"] = nameOrUnknown(names, *e.TargetUserID)
		}
		out = append(out, row)
	}

	c.JSON(http.StatusOK, gin.H{"count": len(out), "audit_logs": out})
}

func nameOrUnknown(names map[uint]string, id uint) string {
	if n, ok := names[id]; ok {
		return n
	}
	return "Unknown"
}

