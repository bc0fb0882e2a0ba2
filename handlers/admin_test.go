package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"bistroboard/models"
)

func TestAdminStatusChangeWritesOneAuditEntry(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	aTok := env.tokenFor(t, admin)

	path := fmt.Sprintf("/api/admin/users/%d/status", vendor.ID)
	w := env.do(t, http.MethodPut, path, aTok, map[string]any{
		"status": "inactive",
		"reason": "fraud",
	})
	requireStatus(t, w, http.StatusOK)

	var entries []models.AdminAuditLog
	env.db.Where("action = ?", models.ActionUserStatusUpdated).Find(&entries)
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want exactly 1", len(entries))
	}
	if entries[0].Details["previous_status"] != "active" || entries[0].Details["new_status"] != "inactive" {
		t.Errorf("audit details do not record the transition: %v", entries[0].Details)
	}
	if entries[0].AdminID != admin.ID || *entries[0].TargetUserID != vendor.ID {
		t.Errorf("audit attribution wrong: %+v", entries[0])
	}

	var target models.User
	env.db.First(&target, vendor.ID)
	if target.IsActive || target.Status != models.StatusInactive {
		t.Errorf("target not deactivated: %+v", target)
	}
	if target.DeactivationReason == nil || *target.DeactivationReason != "fraud" {
		t.Error("deactivation reason not stamped")
	}
	if target.DeactivatedBy == nil || *target.DeactivatedBy != admin.ID {
		t.Error("deactivated_by not stamped")
	}
}

func TestDeactivatedAccountLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	aTok := env.tokenFor(t, admin)
	path := fmt.Sprintf("/api/admin/users/%d/status", vendor.ID)

	w := env.do(t, http.MethodPut, path, aTok, map[string]any{"status": "inactive", "reason": "fraud"})
	requireStatus(t, w, http.StatusOK)

	// Deactivated vendor cannot log in
	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "freshfarms",
		"password": "password123",
	})
	requireStatus(t, w, http.StatusUnauthorized)

	// Existing bearer token is also rejected per-request
	w = env.do(t, http.MethodGet, "/api/profiles/me", env.tokenFor(t, vendor), nil)
	requireStatus(t, w, http.StatusUnauthorized)

	// Reactivation clears the deactivation stamps
	w = env.do(t, http.MethodPut, path, aTok, map[string]any{"status": "active"})
	requireStatus(t, w, http.StatusOK)

	var target models.User
	env.db.First(&target, vendor.ID)
	if target.DeactivationReason != nil || target.DeactivatedBy != nil || target.DeactivatedAt != nil {
		t.Errorf("deactivation stamps not cleared: %+v", target)
	}

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "freshfarms",
		"password": "password123",
	})
	requireStatus(t, w, http.StatusOK)
}

func TestAdminTargetsExcluded(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	otherAdmin := env.createUser(t, "root2", models.RoleAdmin)
	aTok := env.tokenFor(t, admin)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/status", otherAdmin.ID), aTok,
		map[string]any{"status": "inactive", "reason": "test"})
	requireStatus(t, w, http.StatusForbidden)

	w = env.do(t, http.MethodPut, "/api/admin/users/99999/status", aTok,
		map[string]any{"status": "inactive"})
	requireStatus(t, w, http.StatusNotFound)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/status", admin.ID), aTok,
		map[string]any{"status": "banana"})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestImpersonationFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	aTok := env.tokenFor(t, admin)

	// Deactivate the vendor first: impersonation must still work
	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/status", vendor.ID), aTok,
		map[string]any{"status": "inactive", "reason": "support case"})
	requireStatus(t, w, http.StatusOK)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/impersonate", vendor.ID), aTok,
		map[string]any{"reason": "debugging order issue"})
	requireStatus(t, w, http.StatusOK)
	impTok := decode(t, w)["impersonation_token"].(string)

	// The impersonation grant bypasses the activation check
	w = env.do(t, http.MethodGet, "/api/profiles/me", impTok, nil)
	requireStatus(t, w, http.StatusOK)

	// A normal token for the deactivated account does not
	w = env.do(t, http.MethodGet, "/api/profiles/me", env.tokenFor(t, vendor), nil)
	requireStatus(t, w, http.StatusUnauthorized)

	// Session row recorded and counted as active
	var session models.ImpersonationSession
	if err := env.db.First(&session).Error; err != nil {
		t.Fatalf("impersonation session not persisted: %v", err)
	}
	if session.AdminID != admin.ID || session.TargetUserID != vendor.ID || !session.IsActive {
		t.Errorf("session fields wrong: %+v", session)
	}

	// Audit trail: status change + impersonation start
	var auditCount int64
	env.db.Model(&models.AdminAuditLog{}).
		Where("action = ?", models.ActionImpersonationStarted).Count(&auditCount)
	if auditCount != 1 {
		t.Errorf("impersonation audit entries = %d, want 1", auditCount)
	}

	// Ending the session deactivates it
	w = env.do(t, http.MethodPost, "/api/impersonation/end", impTok, nil)
	requireStatus(t, w, http.StatusOK)
	env.db.First(&session, session.ID)
	if session.IsActive || session.EndedAt == nil {
		t.Errorf("session not closed: %+v", session)
	}
}

func TestImpersonationCannotTargetAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	other := env.createUser(t, "root2", models.RoleAdmin)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/impersonate", other.ID),
		env.tokenFor(t, admin), map[string]any{"reason": "nope"})
	requireStatus(t, w, http.StatusNotFound)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	restaurant := env.createUser(t, "marios", models.RoleRestaurant)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)

	// A fresh pending order and a stuck one
	w := env.do(t, http.MethodPost, "/api/orders", env.tokenFor(t, restaurant), map[string]any{
		"vendor_id":  vendor.ID,
		"items_text": "fresh order",
	})
	requireStatus(t, w, http.StatusCreated)

	stuck := models.Order{
		RestaurantID: restaurant.ID,
		VendorID:     vendor.ID,
		ItemsText:    "forgotten order",
		Status:       models.OrderPending,
	}
	env.db.Create(&stuck)
	env.db.Model(&stuck).Update("created_at", time.Now().Add(-72*time.Hour))

	w = env.do(t, http.MethodGet, "/api/admin/dashboard-stats", env.tokenFor(t, admin), nil)
	requireStatus(t, w, http.StatusOK)
	stats := decode(t, w)

	if got := stats["total_orders"].(float64); got != 2 {
		t.Errorf("total_orders = %v, want 2", got)
	}
	if got := stats["stuck_orders_count"].(float64); got != 1 {
		t.Errorf("stuck_orders_count = %v, want 1", got)
	}
	if got := stats["total_vendors"].(float64); got != 1 {
		t.Errorf("total_vendors = %v, want 1", got)
	}
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)

	w := env.do(t, http.MethodGet, "/api/admin/users", env.tokenFor(t, vendor), nil)
	requireStatus(t, w, http.StatusForbidden)
}

func TestAdminUserSearch(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "root", models.RoleAdmin)
	env.createUser(t, "marios", models.RoleRestaurant)
	env.createUser(t, "freshfarms", models.RoleVendor)
	aTok := env.tokenFor(t, admin)

	w := env.do(t, http.MethodGet, "/api/admin/users?role=vendor", aTok, nil)
	requireStatus(t, w, http.StatusOK)
	if got := decode(t, w)["count"].(float64); got != 1 {
		t.Errorf("vendor filter count = %v, want 1", got)
	}

	w = env.do(t, http.MethodGet, "/api/admin/users?search=mario", aTok, nil)
	requireStatus(t, w, http.StatusOK)
	if got := decode(t, w)["count"].(float64); got != 1 {
		t.Errorf("search count = %v, want 1", got)
	}

	// Admin accounts never appear in the listing
	w = env.do(t, http.MethodGet, "/api/admin/users", aTok, nil)
	requireStatus(t, w, http.StatusOK)
	if got := decode(t, w)["count"].(float64); got != 2 {
		t.Errorf("total listing count = %v, want 2", got)
	}
}
