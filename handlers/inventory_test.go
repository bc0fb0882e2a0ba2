package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"bistroboard/models"
)

func seedInventory(t *testing.T, env *testEnv, vendorTok string) (categoryID, itemID, skuID uint) {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/inventory/categories", vendorTok, map[string]any{
		"name": "Produce",
	})
	requireStatus(t, w, http.StatusCreated)
	var cat models.InventoryCategory
	env.db.Last(&cat)

	w = env.do(t, http.MethodPost, "/api/inventory/items", vendorTok, map[string]any{
		"category_id": cat.ID,
		"name":        "Tomatoes",
		"base_price":  3.5,
	})
	requireStatus(t, w, http.StatusCreated)
	var item models.InventoryItem
	env.db.Last(&item)

	w = env.do(t, http.MethodPost, "/api/inventory/skus", vendorTok, map[string]any{
		"item_id":       item.ID,
		"sku_code":      "TOM-10KG",
		"price":         30.0,
		"current_stock": 10,
	})
	requireStatus(t, w, http.StatusCreated)
	var sku models.InventorySKU
	env.db.Last(&sku)

	return cat.ID, item.ID, sku.ID
}

func TestStockAdjustment(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	vTok := env.tokenFor(t, vendor)
	_, _, skuID := seedInventory(t, env, vTok)

	// Start from current=10, reserved=2, available=8
	env.db.Model(&models.InventorySKU{}).Where("id = ?", skuID).
		Updates(map[string]any{"reserved_stock": 2, "available_stock": 8})

	stockPath := fmt.Sprintf("/api/inventory/skus/%d/stock", skuID)

	w := env.do(t, http.MethodPost, stockPath, vTok, map[string]any{
		"amount": 5, "operation": "subtract",
	})
	requireStatus(t, w, http.StatusOK)

	var sku models.InventorySKU
	env.db.First(&sku, skuID)
	if sku.CurrentStock != 5 || sku.AvailableStock != 3 {
		t.Errorf("after subtract 5: current=%d available=%d, want 5/3", sku.CurrentStock, sku.AvailableStock)
	}

	// Subtract past zero clamps at zero
	w = env.do(t, http.MethodPost, stockPath, vTok, map[string]any{
		"amount": 100, "operation": "subtract",
	})
	requireStatus(t, w, http.StatusOK)
	env.db.First(&sku, skuID)
	if sku.CurrentStock != 0 || sku.AvailableStock != 0 {
		t.Errorf("after subtract 100: current=%d available=%d, want 0/0", sku.CurrentStock, sku.AvailableStock)
	}

	// Add and set
	w = env.do(t, http.MethodPost, stockPath, vTok, map[string]any{
		"amount": 7, "operation": "add",
	})
	requireStatus(t, w, http.StatusOK)
	env.db.First(&sku, skuID)
	if sku.CurrentStock != 7 || sku.AvailableStock != 5 {
		t.Errorf("after add 7: current=%d available=%d, want 7/5", sku.CurrentStock, sku.AvailableStock)
	}

	w = env.do(t, http.MethodPost, stockPath, vTok, map[string]any{
		"amount": 20, "operation": "set",
	})
	requireStatus(t, w, http.StatusOK)
	env.db.First(&sku, skuID)
	if sku.CurrentStock != 20 || sku.AvailableStock != 18 {
		t.Errorf("after set 20: current=%d available=%d, want 20/18", sku.CurrentStock, sku.AvailableStock)
	}

	// Unknown operation is a validation error and leaves stock unchanged
	w = env.do(t, http.MethodPost, stockPath, vTok, map[string]any{
		"amount": 1, "operation": "multiply",
	})
	requireStatus(t, w, http.StatusBadRequest)
	env.db.First(&sku, skuID)
	if sku.CurrentStock != 20 {
		t.Errorf("stock changed by rejected operation: %d", sku.CurrentStock)
	}
}

func TestSoftDeleteGuards(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	vTok := env.tokenFor(t, vendor)
	catID, itemID, skuID := seedInventory(t, env, vTok)

	catPath := fmt.Sprintf("/api/inventory/categories/%d", catID)
	itemPath := fmt.Sprintf("/api/inventory/items/%d", itemID)
	skuPath := fmt.Sprintf("/api/inventory/skus/%d", skuID)

	// Category with an active item cannot be deleted
	w := env.do(t, http.MethodDelete, catPath, vTok, nil)
	requireStatus(t, w, http.StatusBadRequest)

	// Item with an active SKU cannot be deleted
	w = env.do(t, http.MethodDelete, itemPath, vTok, nil)
	requireStatus(t, w, http.StatusBadRequest)

	// Remove children bottom-up; each parent delete then succeeds
	w = env.do(t, http.MethodDelete, skuPath, vTok, nil)
	requireStatus(t, w, http.StatusOK)
	w = env.do(t, http.MethodDelete, itemPath, vTok, nil)
	requireStatus(t, w, http.StatusOK)
	w = env.do(t, http.MethodDelete, catPath, vTok, nil)
	requireStatus(t, w, http.StatusOK)

	// Soft delete only: rows still exist, flagged inactive
	var cat models.InventoryCategory
	env.db.First(&cat, catID)
	if cat.IsActive {
		t.Error("category still active after delete")
	}
	var item models.InventoryItem
	env.db.First(&item, itemID)
	if item.IsActive {
		t.Error("item still active after delete")
	}
}

func TestInventoryUniquenessRules(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	other := env.createUser(t, "rivalveg", models.RoleVendor)
	vTok := env.tokenFor(t, vendor)
	_, itemID, _ := seedInventory(t, env, vTok)

	// Duplicate category name for the same vendor
	w := env.do(t, http.MethodPost, "/api/inventory/categories", vTok, map[string]any{"name": "Produce"})
	requireStatus(t, w, http.StatusBadRequest)

	// Same name is fine for a different vendor
	w = env.do(t, http.MethodPost, "/api/inventory/categories", env.tokenFor(t, other), map[string]any{"name": "Produce"})
	requireStatus(t, w, http.StatusCreated)

	// Duplicate SKU code is global
	w = env.do(t, http.MethodPost, "/api/inventory/skus", vTok, map[string]any{
		"item_id":  itemID,
		"sku_code": "TOM-10KG",
		"price":    12.0,
	})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestInventoryScopedToOwningVendor(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	rival := env.createUser(t, "rivalveg", models.RoleVendor)
	restaurant := env.createUser(t, "marios", models.RoleRestaurant)
	vTok := env.tokenFor(t, vendor)
	_, _, skuID := seedInventory(t, env, vTok)

	// A rival vendor cannot see or adjust the SKU
	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/inventory/skus/%d/stock", skuID),
		env.tokenFor(t, rival), map[string]any{"amount": 1, "operation": "add"})
	requireStatus(t, w, http.StatusNotFound)

	// Restaurants are blocked from the inventory surface entirely
	w = env.do(t, http.MethodGet, "/api/inventory/items", env.tokenFor(t, restaurant), nil)
	requireStatus(t, w, http.StatusForbidden)
}

func TestSKUUpdateRecomputesAvailable(t *testing.T) {
	env := newTestEnv(t)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	vTok := env.tokenFor(t, vendor)
	_, _, skuID := seedInventory(t, env, vTok)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/inventory/skus/%d", skuID), vTok, map[string]any{
		"reserved_stock": 4,
	})
	requireStatus(t, w, http.StatusOK)

	var sku models.InventorySKU
	env.db.First(&sku, skuID)
	if sku.AvailableStock != sku.CurrentStock-sku.ReservedStock {
		t.Errorf("available=%d, want current-reserved=%d", sku.AvailableStock, sku.CurrentStock-sku.ReservedStock)
	}
	if sku.ReservedStock != 4 {
		t.Errorf("reserved=%d, want 4", sku.ReservedStock)
	}
}
