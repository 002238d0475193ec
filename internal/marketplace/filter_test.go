package marketplace

import (
	"testing"

	"krishi-vaidya/internal/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func sampleProducts() []*models.Product {
	return []*models.Product{
		{Name: "Tomato", Price: 20, Category: "Vegetables", Location: "Pune"},
		{Name: "Potato", Price: 50, Category: "Vegetables", Location: "Nashik"},
		{Name: "Basmati Rice", Price: 90, Category: "Grains", Location: "Karnal"},
	}
}

func TestApplyNoFilter(t *testing.T) {
	products := sampleProducts()
	assert.Equal(t, products, Apply(products, Filter{}))
}

func TestApplyMinPrice(t *testing.T) {
	got := Apply(sampleProducts(), Filter{MinPrice: intPtr(30)})
	assert.Len(t, got, 2)
	assert.Equal(t, "Potato", got[0].Name)
	assert.Equal(t, "Basmati Rice", got[1].Name)
}

func TestApplyPriceRange(t *testing.T) {
	got := Apply(sampleProducts(), Filter{MinPrice: intPtr(30), MaxPrice: intPtr(60)})
	assert.Len(t, got, 1)
	assert.Equal(t, "Potato", got[0].Name)
}

func TestApplySearchCaseInsensitive(t *testing.T) {
	got := Apply(sampleProducts(), Filter{Search: "toMA"})
	assert.Len(t, got, 1)
	assert.Equal(t, "Tomato", got[0].Name)
}

func TestApplyCategoryAllMeansNoFilter(t *testing.T) {
	assert.Len(t, Apply(sampleProducts(), Filter{Category: "All"}), 3)
	assert.Len(t, Apply(sampleProducts(), Filter{Category: "Grains"}), 1)
}

func TestApplyLocationSubstring(t *testing.T) {
	got := Apply(sampleProducts(), Filter{Location: "nash"})
	assert.Len(t, got, 1)
	assert.Equal(t, "Potato", got[0].Name)
}

func TestApplyAllCriteriaCombined(t *testing.T) {
	got := Apply(sampleProducts(), Filter{
		Search:   "o",
		Category: "Vegetables",
		MinPrice: intPtr(10),
		MaxPrice: intPtr(25),
	})
	assert.Len(t, got, 1)
	assert.Equal(t, "Tomato", got[0].Name)
}
