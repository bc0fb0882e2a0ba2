package config

import (
	"gorm.io/gorm"

	"bistroboard/models"
)

// defaultVendorCategories is the built-in marketplace taxonomy. Vendors tag
// themselves with these names; MarketplaceCategories counts them per name.
var defaultVendorCategories = []models.VendorCategory{
	{Name: "Fresh Produce", Description: "Fruits, vegetables, herbs, organic produce", Icon: "🥬", ParentCategory: "Food Suppliers", SortOrder: 1},
	{Name: "Meat & Seafood", Description: "Fresh meats, poultry, fish, shellfish", Icon: "🥩", ParentCategory: "Food Suppliers", SortOrder: 2},
	{Name: "Dairy & Eggs", Description: "Milk, cheese, yogurt, eggs, butter", Icon: "🥛", ParentCategory: "Food Suppliers", SortOrder: 3},
	{Name: "Bakery & Grains", Description: "Bread, pastries, flour, rice, pasta", Icon: "🍞", ParentCategory: "Food Suppliers", SortOrder: 4},
	{Name: "Beverages", Description: "Coffee, tea, juices, soft drinks, alcohol", Icon: "☕", ParentCategory: "Food Suppliers", SortOrder: 5},
	{Name: "Specialty Foods", Description: "Spices, sauces, condiments, international foods", Icon: "🌶️", ParentCategory: "Food Suppliers", SortOrder: 6},
	{Name: "Organic & Local", Description: "Certified organic, local farms, sustainable products", Icon: "🌱", ParentCategory: "Food Suppliers", SortOrder: 7},
	{Name: "Frozen Foods", Description: "Frozen vegetables, meats, prepared foods", Icon: "🧊", ParentCategory: "Food Suppliers", SortOrder: 8},
	{Name: "Equipment & Supplies", Description: "Kitchen equipment, smallwares, furniture", Icon: "🔧", ParentCategory: "Service Providers", SortOrder: 9},
	{Name: "Cleaning & Sanitation", Description: "Cleaning supplies, sanitizers, chemicals", Icon: "🧽", ParentCategory: "Service Providers", SortOrder: 10},
	{Name: "Packaging & Disposables", Description: "Food containers, bags, utensils, napkins", Icon: "📦", ParentCategory: "Service Providers", SortOrder: 11},
	{Name: "Uniforms & Apparel", Description: "Chef coats, aprons, hats, work shoes", Icon: "👕", ParentCategory: "Service Providers", SortOrder: 12},
	{Name: "Maintenance Services", Description: "Equipment repair, HVAC, plumbing", Icon: "🔨", ParentCategory: "Service Providers", SortOrder: 13},
	{Name: "Technology Solutions", Description: "POS systems, software, hardware", Icon: "💻", ParentCategory: "Service Providers", SortOrder: 14},
	{Name: "Marketing & Design", Description: "Menu design, signage, promotional materials", Icon: "🎨", ParentCategory: "Service Providers", SortOrder: 15},
	{Name: "Financial Services", Description: "Payment processing, accounting, insurance", Icon: "💰", ParentCategory: "Service Providers", SortOrder: 16},
}

// SeedMarketplace inserts the default vendor taxonomy once. An already
// populated table is left alone so operator edits survive restarts.
func SeedMarketplace(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.VendorCategory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	categories := make([]models.VendorCategory, len(defaultVendorCategories))
	copy(categories, defaultVendorCategories)
	for i := range categories {
		categories[i].IsActive = true
	}
	return db.Create(&categories).Error
}
