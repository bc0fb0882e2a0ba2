package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"bistroboard/models"
)

func tagVendor(t *testing.T, env *testEnv, id uint, updates map[string]any) {
	t.Helper()
	if err := env.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		t.Fatalf("tag vendor: %v", err)
	}
}

func TestMarketplaceCategoriesSeeded(t *testing.T) {
	env := newTestEnv(t)
	restaurant := env.createUser(t, "marios", models.RoleRestaurant)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	tagVendor(t, env, vendor.ID, map[string]any{"categories": "Fresh Produce, Organic & Local"})

	w := env.do(t, http.MethodGet, "/api/marketplace/categories", env.tokenFor(t, restaurant), nil)
	requireStatus(t, w, http.StatusOK)
	body := decode(t, w)

	categories, _ := body["categories"].([]any)
	if len(categories) == 0 {
		t.Fatal("taxonomy not seeded")
	}

	counts := map[string]float64{}
	for _, raw := range categories {
		cat := raw.(map[string]any)
		counts[cat["name"].(string)] = cat["vendor_count"].(float64)
	}
	if counts["Fresh Produce"] != 1 || counts["Organic & Local"] != 1 {
		t.Errorf("tagged categories not counted: %v", counts)
	}
	if counts["Meat & Seafood"] != 0 {
		t.Errorf("untagged category counted: %v", counts["Meat & Seafood"])
	}

	// First seeded entry sorts first
	first := categories[0].(map[string]any)
	if first["name"] != "Fresh Produce" {
		t.Errorf("first category = %v, want Fresh Produce", first["name"])
	}
}

func TestSearchVendorsPagination(t *testing.T) {
	env := newTestEnv(t)
	restaurant := env.createUser(t, "marios", models.RoleRestaurant)
	rTok := env.tokenFor(t, restaurant)

	for i := 1; i <= 3; i++ {
		env.createUser(t, fmt.Sprintf("vendor%d", i), models.RoleVendor)
	}
	hidden := env.createUser(t, "closedshop", models.RoleVendor)
	env.db.Model(&models.User{}).Where("id = ?", hidden.ID).Update("is_active", false)

	w := env.do(t, http.MethodGet, "/api/marketplace/vendors?page_size=2", rTok, nil)
	requireStatus(t, w, http.StatusOK)
	body := decode(t, w)
	if body["total_count"].(float64) != 3 {
		t.Errorf("total_count = %v, want 3 (inactive vendor excluded)", body["total_count"])
	}
	if body["total_pages"].(float64) != 2 {
		t.Errorf("total_pages = %v, want 2", body["total_pages"])
	}
	if vendors, _ := body["vendors"].([]any); len(vendors) != 2 {
		t.Errorf("page 1 has %d vendors, want 2", len(vendors))
	}

	w = env.do(t, http.MethodGet, "/api/marketplace/vendors?page_size=2&page=2", rTok, nil)
	requireStatus(t, w, http.StatusOK)
	body = decode(t, w)
	if vendors, _ := body["vendors"].([]any); len(vendors) != 1 {
		t.Errorf("page 2 has %d vendors, want 1", len(vendors))
	}

	// No matches: empty page and zero total_pages
	w = env.do(t, http.MethodGet, "/api/marketplace/vendors?search=nosuchvendor", rTok, nil)
	requireStatus(t, w, http.StatusOK)
	body = decode(t, w)
	if body["total_count"].(float64) != 0 || body["total_pages"].(float64) != 0 {
		t.Errorf("empty search: total_count=%v total_pages=%v, want 0/0",
			body["total_count"], body["total_pages"])
	}
}

func TestSearchVendorsFilters(t *testing.T) {
	env := newTestEnv(t)
	restaurant := env.createUser(t, "marios", models.RoleRestaurant)
	rTok := env.tokenFor(t, restaurant)

	produce := env.createUser(t, "freshfarms", models.RoleVendor)
	tagVendor(t, env, produce.ID, map[string]any{
		"categories":    "Fresh Produce",
		"business_type": "farm",
		"specialties":   "heirloom tomatoes, leafy greens",
	})
	seafood := env.createUser(t, "oceanco", models.RoleVendor)
	tagVendor(t, env, seafood.ID, map[string]any{
		"categories":    "Meat & Seafood",
		"business_type": "wholesaler",
	})

	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"by category", "category=Fresh+Produce", "freshfarms"},
		{"by business type", "business_type=wholesaler", "oceanco"},
		{"by specialty text", "search=heirloom", "freshfarms"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/marketplace/vendors?"+tc.query, rTok, nil)
			requireStatus(t, w, http.StatusOK)
			body := decode(t, w)
			vendors, _ := body["vendors"].([]any)
			if len(vendors) != 1 {
				t.Fatalf("got %d vendors, want 1", len(vendors))
			}
			got := vendors[0].(map[string]any)["username"]
			if got != tc.want {
				t.Errorf("matched %v, want %s", got, tc.want)
			}
		})
	}
}

func TestGetVendorDetail(t *testing.T) {
	env := newTestEnv(t)
	restaurant := env.createUser(t, "marios", models.RoleRestaurant)
	rTok := env.tokenFor(t, restaurant)
	vendor := env.createUser(t, "freshfarms", models.RoleVendor)
	vTok := env.tokenFor(t, vendor)
	_, itemID, _ := seedInventory(t, env, vTok)
	env.db.Model(&models.InventoryItem{}).Where("id = ?", itemID).Update("is_featured", true)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/marketplace/vendors/%d", vendor.ID), rTok, nil)
	requireStatus(t, w, http.StatusOK)
	body := decode(t, w)
	featured, _ := body["featured_items"].([]any)
	if len(featured) != 1 {
		t.Errorf("featured_items = %d, want 1", len(featured))
	}

	// A restaurant id is not a vendor
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/marketplace/vendors/%d", restaurant.ID), rTok, nil)
	requireStatus(t, w, http.StatusNotFound)

	// Deactivated vendors disappear from the marketplace
	env.db.Model(&models.User{}).Where("id = ?", vendor.ID).Update("is_active", false)
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/marketplace/vendors/%d", vendor.ID), rTok, nil)
	requireStatus(t, w, http.StatusNotFound)
}
