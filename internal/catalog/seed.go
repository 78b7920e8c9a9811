package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// seedProduct keeps the seed table compact; prices are decimal strings.
type seedProduct struct {
	id          int
	name        string
	price       string
	description string
	glyph       string
	category    string
}

// seedProducts is the built-in demo catalog, grouped by category.
var seedProducts = []seedProduct{
	{1, "Wireless Headphones", "99.99", "High-quality wireless headphones with noise cancellation", "🎧", "electronics"},
	{2, "Smart Watch", "249.99", "Feature-rich smartwatch with health tracking", "⌚", "electronics"},
	{6, "Bluetooth Speaker", "69.99", "Portable Bluetooth speaker with premium sound quality", "🔊", "electronics"},
	{9, "Gaming Mouse", "89.99", "High-precision gaming mouse with RGB lighting", "🖱️", "electronics"},
	{10, "Mechanical Keyboard", "129.99", "Mechanical keyboard with blue switches", "⌨️", "electronics"},
	{11, "Webcam HD", "79.99", "4K webcam for streaming and video calls", "📹", "electronics"},

	{3, "Coffee Mug", "15.99", "Ceramic coffee mug with thermal insulation", "☕", "home"},
	{5, "Desk Lamp", "45.99", "Modern LED desk lamp with adjustable brightness", "💡", "home"},
	{12, "Candle Set", "34.99", "Aromatherapy candle set with lavender scent", "🕯️", "home"},
	{13, "Plant Pot", "28.99", "Ceramic plant pot with drainage system", "🪴", "home"},
	{14, "Kitchen Scale", "39.99", "Digital kitchen scale with precise measurements", "⚖️", "home"},

	{4, "Laptop Backpack", "79.99", "Durable laptop backpack with multiple compartments", "🎒", "accessories"},
	{8, "Phone Case", "19.99", "Protective phone case with shock absorption", "📱", "accessories"},
	{15, "Sunglasses", "149.99", "UV protection sunglasses with polarized lenses", "🕶️", "accessories"},
	{16, "Leather Wallet", "59.99", "Genuine leather wallet with RFID protection", "👛", "accessories"},
	{17, "Travel Umbrella", "29.99", "Compact travel umbrella with wind resistance", "☂️", "accessories"},

	{7, "Notebook Set", "24.99", "Set of 3 premium notebooks for work and study", "📔", "office"},
	{18, "Pen Set", "18.99", "Professional pen set with gel ink", "🖊️", "office"},
	{19, "Desk Organizer", "42.99", "Wooden desk organizer with multiple compartments", "🗂️", "office"},
	{20, "Sticky Notes", "12.99", "Colorful sticky notes pack for organization", "📋", "office"},

	{21, "Yoga Mat", "49.99", "Non-slip yoga mat with carrying strap", "🧘", "fitness"},
	{22, "Water Bottle", "22.99", "Insulated water bottle keeps drinks cold 24hrs", "💧", "fitness"},
	{23, "Resistance Bands", "29.99", "Set of resistance bands for home workouts", "💪", "fitness"},
	{24, "Fitness Tracker", "89.99", "Activity tracker with heart rate monitor", "⏱️", "fitness"},
}

// SeedProducts returns a fresh copy of the built-in demo products.
func SeedProducts() []types.Product {
	out := make([]types.Product, len(seedProducts))
	for i, p := range seedProducts {
		out[i] = types.Product{
			ID:          p.id,
			Name:        p.name,
			Price:       decimal.RequireFromString(p.price),
			Description: p.description,
			ImageGlyph:  p.glyph,
			Category:    p.category,
		}
	}
	return out
}

// Default returns a Store holding the built-in demo catalog.
func Default() *Store {
	s, err := New(SeedProducts())
	if err != nil {
		panic("catalog: invalid seed data: " + err.Error())
	}
	return s
}
