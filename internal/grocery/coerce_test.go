package grocery

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payloadFrom(t *testing.T, raw string) any {
	t.Helper()
	var payload any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestCoerceSuggestionsCapitalizesAndDedupes(t *testing.T) {
	payload := payloadFrom(t, `{"suggestions": ["milk", "Milk", "bread", "  butter  "]}`)

	got := CoerceSuggestions(payload)
	assert.Equal(t, []string{"Milk", "Bread", "Butter"}, got)
}

func TestCoerceSuggestionsDropsNonStrings(t *testing.T) {
	payload := payloadFrom(t, `{"suggestions": ["milk", 42, null, {"x": 1}, "bread"]}`)

	got := CoerceSuggestions(payload)
	assert.Equal(t, []string{"Milk", "Bread"}, got)
}

func TestCoerceSuggestionsTruncatesToEight(t *testing.T) {
	payload := payloadFrom(t, `{"suggestions": ["a","b","c","d","e","f","g","h","i","j"]}`)

	got := CoerceSuggestions(payload)
	require.Len(t, got, 8)
	assert.Equal(t, "A", got[0])
	assert.Equal(t, "H", got[7])
}

func TestCoerceSuggestionsBareArrayAndMissingField(t *testing.T) {
	assert.Equal(t, []string{"Milk"}, CoerceSuggestions(payloadFrom(t, `["milk"]`)))
	assert.Empty(t, CoerceSuggestions(payloadFrom(t, `{"other": 1}`)))
	assert.Empty(t, CoerceSuggestions(payloadFrom(t, `{"suggestions": "not a list"}`)))
	assert.Empty(t, CoerceSuggestions(nil))
}

func TestCoerceProductsAnchorsRejectBrokenElements(t *testing.T) {
	payload := payloadFrom(t, `{"products": [
		{"id": 1, "name": "Milk 2L", "price": "R32.99", "onSpecial": false, "imageHint": "milk"},
		{"id": 2, "name": "", "price": "R10.00", "imageHint": "mystery"},
		{"id": 3, "name": "No price", "imageHint": "nothing"},
		{"id": 4, "name": "No hint", "price": "R5.00"},
		{"id": 5, "name": "Bread", "price": 18.5, "onSpecial": true, "originalPrice": "R22.99", "imageHint": "bread"}
	]}`)

	got := CoerceProducts(payload)
	require.Len(t, got, 2)

	assert.Equal(t, "Milk 2L", got[0].Name)
	assert.Equal(t, "R32.99", got[0].Price)

	// numeric price gets formatted, optional originalPrice kept
	assert.Equal(t, "Bread", got[1].Name)
	assert.Equal(t, "R18.50", got[1].Price)
	assert.True(t, got[1].OnSpecial)
	assert.Equal(t, "R22.99", got[1].OriginalPrice)
}

func TestCoerceProductsAssignsPositionalIDs(t *testing.T) {
	payload := payloadFrom(t, `{"products": [
		{"name": "A", "price": "R1.00", "imageHint": "a"},
		{"name": "B", "price": "R2.00", "imageHint": "b", "id": "seven"},
		{"name": "C", "price": "R3.00", "imageHint": "c", "id": 42}
	]}`)

	got := CoerceProducts(payload)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
	assert.Equal(t, 42, got[2].ID)
}

func TestCoerceProductsReassignsDuplicateIDs(t *testing.T) {
	payload := payloadFrom(t, `{"products": [
		{"name": "A", "price": "R1.00", "imageHint": "a", "id": 3},
		{"name": "B", "price": "R2.00", "imageHint": "b", "id": 3},
		{"name": "C", "price": "R3.00", "imageHint": "c", "id": 3}
	]}`)

	got := CoerceProducts(payload)
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].ID, "first claimant keeps the model-supplied id")

	seen := map[int]bool{}
	for _, p := range got {
		assert.False(t, seen[p.ID], "id %d assigned twice", p.ID)
		seen[p.ID] = true
	}
	assert.Equal(t, 2, got[1].ID)
	assert.Equal(t, 4, got[2].ID, "positional fallback skips taken ids")
}

func TestCoerceProductsTruncatesToTenInOrder(t *testing.T) {
	items := make([]string, 0, 12)
	for i := 1; i <= 12; i++ {
		items = append(items, fmt.Sprintf(`{"name": "P%d", "price": "R%d.00", "imageHint": "h%d"}`, i, i, i))
	}
	raw := `{"products": [` + items[0]
	for _, it := range items[1:] {
		raw += "," + it
	}
	raw += `]}`

	got := CoerceProducts(payloadFrom(t, raw))
	require.Len(t, got, 10)
	assert.Equal(t, "P1", got[0].Name)
	assert.Equal(t, "P10", got[9].Name)
}

func TestCoercePromotionsNeverRejects(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	payload := payloadFrom(t, `{"promotions": [
		{},
		{"title": "25% off produce", "store": "Checkers", "category": "Produce",
		 "promotionType": "percentage_discount", "discountPercent": 25,
		 "imageHint": "fresh vegetables", "validUntil": "2025-06-10"},
		{"title": "Bad type promo", "promotionType": "mystery_deal"}
	]}`)

	got := CoercePromotions(payload, now)
	require.Len(t, got, 3)

	// fully-defaulted element
	assert.Equal(t, "Special Offer 1", got[0].Title)
	assert.Equal(t, "Supermarket", got[0].Store)
	assert.Equal(t, "General", got[0].Category)
	assert.Equal(t, "price_drop", got[0].PromotionType)
	assert.Equal(t, "2025-06-08", got[0].ValidUntil, "missing expiry defaults to now + 7 days")

	// well-formed element passes through
	assert.Equal(t, "25% off produce", got[1].Title)
	require.NotNil(t, got[1].DiscountPercent)
	assert.Equal(t, 25.0, *got[1].DiscountPercent)
	assert.Equal(t, "2025-06-10", got[1].ValidUntil)

	// unknown promotionType falls back
	assert.Equal(t, "price_drop", got[2].PromotionType)
}

func TestCoercePromotionsPastDateReplaced(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	payload := payloadFrom(t, `{"promotions": [{"title": "Expired", "validUntil": "2024-01-01"}]}`)

	got := CoercePromotions(payload, now)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-06-08", got[0].ValidUntil)
}

func TestCoercePromotionsDiscountImpliesPercentageType(t *testing.T) {
	now := time.Now()
	payload := payloadFrom(t, `{"promotions": [{"title": "Big sale", "discountPercent": 30}]}`)

	got := CoercePromotions(payload, now)
	require.Len(t, got, 1)
	assert.Equal(t, "percentage_discount", got[0].PromotionType)
}

func TestCoerceStoreEstimates(t *testing.T) {
	payload := payloadFrom(t, `{"stores": [
		{"name": "Shoprite", "distance": "1.2 km",
		 "priceBreakdown": [{"item": "milk", "price": 28.99}, {"item": "bread", "price": "free"}, {"item": "eggs", "price": -5}],
		 "totalPrice": 999, "isCheapest": false},
		{"name": "", "priceBreakdown": []},
		{"name": "No breakdown"},
		{"name": "Checkers", "priceBreakdown": [{"item": "milk", "price": 30.50}]}
	]}`)

	got := CoerceStoreEstimates(payload)
	require.Len(t, got, 2)

	assert.Equal(t, "Shoprite", got[0].Name)
	require.Len(t, got[0].PriceBreakdown, 3)
	assert.Equal(t, 28.99, got[0].PriceBreakdown[0].Price)
	assert.Equal(t, 0.0, got[0].PriceBreakdown[1].Price, "non-numeric price reads as 0")
	assert.Equal(t, 0.0, got[0].PriceBreakdown[2].Price, "negative price reads as 0")
	assert.Zero(t, got[0].TotalPrice, "totals are derived later, never trusted")

	assert.Equal(t, "Checkers", got[1].Name)
	assert.Equal(t, "nearby", got[1].Distance)
}

func TestCoerceImport(t *testing.T) {
	payload := payloadFrom(t, `{
		"items": [{"name": "milk", "quantity": "2L"}, {"name": ""}, {"quantity": "3"}, {"name": "bread"}],
		"confidence": 1.7,
		"suggestions": ["butter", ""]
	}`)

	got := CoerceImport(payload, "milk and bread")
	assert.Equal(t, 2, got.ParsedCount)
	assert.Equal(t, "Milk", got.Items[0].Name)
	assert.Equal(t, "2L", got.Items[0].Quantity)
	assert.Equal(t, "Bread", got.Items[1].Name)
	assert.Equal(t, 1.0, got.Confidence, "confidence clamps into [0, 1]")
	assert.Equal(t, []string{"Butter"}, got.Suggestions)
	assert.Equal(t, "milk and bread", got.OriginalText)
}
