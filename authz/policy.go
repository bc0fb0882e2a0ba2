// Package authz holds the per-resource authorization decisions, kept out
// of the HTTP handlers so they can be tested without transport plumbing.
package authz

import "bistroboard/models"

// CanViewOrder allows each order party to read its own orders; admins see all.
func CanViewOrder(role models.UserRole, actorID uint, order *models.Order) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleRestaurant:
		return order.RestaurantID == actorID
	case models.RoleVendor:
		return order.VendorID == actorID
	}
	return false
}

// CanAdvanceOrder allows only the vendor party to change order status.
func CanAdvanceOrder(role models.UserRole, actorID uint, order *models.Order) bool {
	return role == models.RoleVendor && order.VendorID == actorID
}

// CanEditOrderNotes allows either party to edit notes.
func CanEditOrderNotes(role models.UserRole, actorID uint, order *models.Order) bool {
	switch role {
	case models.RoleRestaurant:
		return order.RestaurantID == actorID
	case models.RoleVendor:
		return order.VendorID == actorID
	}
	return false
}

// CanModifyUser allows admins to mutate any account except other admins.
// Admin accounts are categorically excluded as moderation targets.
func CanModifyUser(actorRole models.UserRole, target *models.User) bool {
	return actorRole == models.RoleAdmin && target.Role != models.RoleAdmin
}

// CanManageInventory scopes inventory writes to the owning vendor.
func CanManageInventory(role models.UserRole, actorID, ownerID uint) bool {
	return role == models.RoleVendor && actorID == ownerID
}
